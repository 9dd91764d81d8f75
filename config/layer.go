package config

import (
	"github.com/opencontainers/go-digest"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	ociwasm "github.com/wippyai/oci-wasm"
)

// Layer is the content layer of an artifact: the raw wasm bytes.
type Layer struct {
	Annotations map[string]string
	MediaType   string
	Data        []byte
}

// NewLayer wraps raw wasm bytes in a layer with the wasm media type.
func NewLayer(raw []byte) Layer {
	return Layer{MediaType: ociwasm.LayerMediaType, Data: raw}
}

// Digest returns the content digest of the layer.
func (l Layer) Digest() digest.Digest {
	return digest.FromBytes(l.Data)
}

// Descriptor returns the OCI descriptor of the layer.
func (l Layer) Descriptor() ocispec.Descriptor {
	return describe(l.MediaType, l.Data, l.Annotations)
}

// Blob is a serialized config with its media type.
type Blob struct {
	Annotations map[string]string
	MediaType   string
	Data        []byte
}

// Digest returns the content digest of the blob.
func (b Blob) Digest() digest.Digest {
	return digest.FromBytes(b.Data)
}

// Descriptor returns the OCI descriptor of the blob.
func (b Blob) Descriptor() ocispec.Descriptor {
	return describe(b.MediaType, b.Data, b.Annotations)
}

func describe(mediaType string, data []byte, annotations map[string]string) ocispec.Descriptor {
	return ocispec.Descriptor{
		MediaType:   mediaType,
		Digest:      digest.FromBytes(data),
		Size:        int64(len(data)),
		Annotations: annotations,
	}
}
