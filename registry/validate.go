package registry

import (
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	ociwasm "github.com/wippyai/oci-wasm"
	"github.com/wippyai/oci-wasm/errors"
)

// ValidateManifest checks that a manifest describes a wasm artifact: one
// layer of the wasm media type and a wasm config.
func ValidateManifest(m *ocispec.Manifest) error {
	if len(m.Layers) != 1 {
		return errors.ShapeMismatch("wasm artifacts must have exactly one layer, found %d", len(m.Layers))
	}
	if mt := m.Layers[0].MediaType; mt != ociwasm.LayerMediaType {
		return errors.ShapeMismatch("wasm layer must be of type %s, found %s", ociwasm.LayerMediaType, mt)
	}
	if mt := m.Config.MediaType; mt != ociwasm.ManifestConfigMediaType {
		return errors.ShapeMismatch("wasm artifacts must have a config of type %s, found %s", ociwasm.ManifestConfigMediaType, mt)
	}
	return nil
}

// validateManifestType additionally checks the manifest's own media type.
func validateManifestType(m *ocispec.Manifest) error {
	if m.MediaType != ociwasm.ManifestMediaType {
		return errors.ShapeMismatch("wasm artifacts must have a manifest of type %s, found %q", ociwasm.ManifestMediaType, m.MediaType)
	}
	return ValidateManifest(m)
}
