package registry

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/opencontainers/go-digest"
	"github.com/opencontainers/image-spec/specs-go"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"go.uber.org/zap"
	"oras.land/oras-go/v2"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/errdef"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/retry"

	ociwasm "github.com/wippyai/oci-wasm"
	"github.com/wippyai/oci-wasm/config"
	"github.com/wippyai/oci-wasm/errors"
)

// DefaultTag is used when a reference names no tag or digest.
const DefaultTag = "latest"

// Client pushes and pulls wasm artifacts.
type Client struct {
	target oras.Target
}

// New returns a client over target.
func New(target oras.Target) *Client {
	return &Client{target: target}
}

// Options configure a remote repository.
type Options struct {
	Username  string
	Password  string
	PlainHTTP bool
}

// NewRemote returns a client for the repository named by reference
// (registry/repository[:tag|@digest]) and the tag or digest to use with it.
func NewRemote(reference string, opts Options) (*Client, string, error) {
	repo, err := remote.NewRepository(reference)
	if err != nil {
		return nil, "", errors.Wrap(errors.PhaseRegistry, errors.KindInvalidInput, err, "invalid reference "+reference)
	}
	repo.PlainHTTP = opts.PlainHTTP

	client := &auth.Client{
		Client: retry.DefaultClient,
		Cache:  auth.NewCache(),
	}
	if opts.Username != "" || opts.Password != "" {
		client.Credential = auth.StaticCredential(repo.Reference.Registry, auth.Credential{
			Username: opts.Username,
			Password: opts.Password,
		})
	}
	repo.Client = client

	ref := repo.Reference.Reference
	if ref == "" {
		ref = DefaultTag
	}
	return New(repo), ref, nil
}

// PushResponse describes a pushed artifact.
type PushResponse struct {
	Manifest       ocispec.Manifest
	ManifestDigest digest.Digest
	ConfigDigest   digest.Digest
}

// ImageData is a pulled artifact.
type ImageData struct {
	Manifest ocispec.Manifest
	Config   config.Blob
	Layers   []config.Layer
	Digest   digest.Digest
}

// Push uploads the layer and config, then tags a wasm manifest over them
// as ref. annotations go on the manifest.
func (c *Client) Push(ctx context.Context, ref string, layer config.Layer, cfg config.ToConfig, annotations map[string]string) (*PushResponse, error) {
	blob, err := cfg.ToConfig()
	if err != nil {
		return nil, err
	}

	manifest := ocispec.Manifest{
		Versioned:   specs.Versioned{SchemaVersion: 2},
		MediaType:   ociwasm.ManifestMediaType,
		Config:      blob.Descriptor(),
		Layers:      []ocispec.Descriptor{layer.Descriptor()},
		Annotations: annotations,
	}
	if err := ValidateManifest(&manifest); err != nil {
		return nil, err
	}

	if err := c.pushBlob(ctx, manifest.Layers[0], layer.Data); err != nil {
		return nil, err
	}
	if err := c.pushBlob(ctx, manifest.Config, blob.Data); err != nil {
		return nil, err
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRegistry, errors.KindInvalidInput, err, "encode manifest")
	}
	desc := ocispec.Descriptor{
		MediaType: ociwasm.ManifestMediaType,
		Digest:    digest.FromBytes(data),
		Size:      int64(len(data)),
	}
	if err := c.pushBlob(ctx, desc, data); err != nil {
		return nil, err
	}
	if err := c.target.Tag(ctx, desc, ref); err != nil {
		return nil, transportError(err, "tag "+ref)
	}

	Logger().Debug("pushed wasm artifact",
		zap.String("ref", ref),
		zap.Stringer("manifest", desc.Digest),
		zap.Stringer("config", manifest.Config.Digest),
		zap.Stringer("layer", manifest.Layers[0].Digest))

	return &PushResponse{
		Manifest:       manifest,
		ManifestDigest: desc.Digest,
		ConfigDigest:   manifest.Config.Digest,
	}, nil
}

// Pull fetches the artifact tagged ref. The manifest, config and layer media
// types and the layer count are checked before the config and layer are
// fetched.
func (c *Client) Pull(ctx context.Context, ref string) (*ImageData, error) {
	manifest, desc, err := c.fetchManifest(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := validateManifestType(manifest); err != nil {
		Logger().Warn("rejected artifact", zap.String("ref", ref), zap.Error(err))
		return nil, err
	}

	cfgData, err := c.fetch(ctx, manifest.Config)
	if err != nil {
		return nil, err
	}
	layerDesc := manifest.Layers[0]
	layerData, err := c.fetch(ctx, layerDesc)
	if err != nil {
		return nil, err
	}

	Logger().Debug("pulled wasm artifact", zap.String("ref", ref), zap.Stringer("manifest", desc.Digest))

	return &ImageData{
		Manifest: *manifest,
		Config: config.Blob{
			MediaType:   manifest.Config.MediaType,
			Data:        cfgData,
			Annotations: manifest.Config.Annotations,
		},
		Layers: []config.Layer{{
			MediaType:   layerDesc.MediaType,
			Data:        layerData,
			Annotations: layerDesc.Annotations,
		}},
		Digest: desc.Digest,
	}, nil
}

// PullManifestAndConfig fetches the manifest and parsed config of ref
// without the layer.
func (c *Client) PullManifestAndConfig(ctx context.Context, ref string) (*ocispec.Manifest, *config.WasmConfig, digest.Digest, error) {
	manifest, desc, err := c.fetchManifest(ctx, ref)
	if err != nil {
		return nil, nil, "", err
	}
	if err := validateManifestType(manifest); err != nil {
		Logger().Warn("rejected artifact", zap.String("ref", ref), zap.Error(err))
		return nil, nil, "", err
	}

	data, err := c.fetch(ctx, manifest.Config)
	if err != nil {
		return nil, nil, "", err
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		Logger().Warn("config envelope is incomplete", zap.String("ref", ref), zap.Error(err))
	}
	return manifest, cfg, desc.Digest, nil
}

func (c *Client) fetchManifest(ctx context.Context, ref string) (*ocispec.Manifest, ocispec.Descriptor, error) {
	desc, err := c.target.Resolve(ctx, ref)
	if err != nil {
		return nil, ocispec.Descriptor{}, transportError(err, "resolve "+ref)
	}
	data, err := c.fetch(ctx, desc)
	if err != nil {
		return nil, ocispec.Descriptor{}, err
	}
	var m ocispec.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, ocispec.Descriptor{}, errors.Wrap(errors.PhaseRegistry, errors.KindArtifactShapeMismatch, err, "decode manifest")
	}
	if m.MediaType == "" {
		m.MediaType = desc.MediaType
	}
	return &m, desc, nil
}

func (c *Client) fetch(ctx context.Context, desc ocispec.Descriptor) ([]byte, error) {
	data, err := content.FetchAll(ctx, c.target, desc)
	if err != nil {
		return nil, transportError(err, "fetch "+desc.Digest.String())
	}
	return data, nil
}

func (c *Client) pushBlob(ctx context.Context, desc ocispec.Descriptor, data []byte) error {
	exists, err := c.target.Exists(ctx, desc)
	if err != nil {
		return transportError(err, "check "+desc.Digest.String())
	}
	if exists {
		return nil
	}
	if err := c.target.Push(ctx, desc, bytes.NewReader(data)); err != nil {
		return transportError(err, "push "+desc.Digest.String())
	}
	return nil
}

func transportError(err error, detail string) error {
	kind := errors.KindTransport
	if stderrors.Is(err, errdef.ErrNotFound) {
		kind = errors.KindNotFound
	}
	return errors.Wrap(errors.PhaseRegistry, kind, err, detail)
}
