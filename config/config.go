package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/opencontainers/go-digest"

	ociwasm "github.com/wippyai/oci-wasm"
	"github.com/wippyai/oci-wasm/capability"
	"github.com/wippyai/oci-wasm/errors"
)

// now is replaced in tests.
var now = time.Now

// WasmConfig is the config envelope of a wasm artifact.
type WasmConfig struct {
	Created      time.Time              `json:"created"`
	Author       *string                `json:"author"`
	Component    *capability.Descriptor `json:"component"`
	Architecture string                 `json:"architecture"`
	OS           string                 `json:"os"`
	// LayerDigests lists the digest of every layer in manifest order. It
	// keeps the config digest unique across pushes of different layer sets.
	LayerDigests []string `json:"layerDigests"`
}

// ToConfig is implemented by anything that can become a config blob.
type ToConfig interface {
	ToConfig() (Blob, error)
}

// Annotated is a WasmConfig carrying config-blob annotations.
type Annotated struct {
	Config      *WasmConfig
	Annotations map[string]string
}

// WithAnnotations attaches annotations to the config blob c produces.
func (c *WasmConfig) WithAnnotations(annotations map[string]string) Annotated {
	return Annotated{Config: c, Annotations: annotations}
}

// ToConfig serializes the config into a blob with the wasm config media type.
func (c *WasmConfig) ToConfig() (Blob, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return Blob{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "encode wasm config")
	}
	return Blob{MediaType: ociwasm.ManifestConfigMediaType, Data: data}, nil
}

// ToConfig serializes the wrapped config and attaches the annotations.
func (a Annotated) ToConfig() (Blob, error) {
	b, err := a.Config.ToConfig()
	if err != nil {
		return Blob{}, err
	}
	b.Annotations = a.Annotations
	return b, nil
}

// Parse decodes a config blob.
func Parse(data []byte) (*WasmConfig, error) {
	var c WasmConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "decode wasm config")
	}
	return &c, nil
}

// Validate checks the fields a well-formed envelope must carry.
func (c *WasmConfig) Validate() error {
	if c.Architecture != ociwasm.Architecture {
		return invalid("architecture %q, want %q", c.Architecture, ociwasm.Architecture)
	}
	switch c.OS {
	case ociwasm.ComponentOS:
		if c.Component == nil {
			return invalid("os %s requires a component descriptor", c.OS)
		}
	case ociwasm.ModuleOS:
	default:
		return invalid("unknown os %q", c.OS)
	}
	if len(c.LayerDigests) == 0 {
		return invalid("no layer digests")
	}
	for _, d := range c.LayerDigests {
		if _, err := digest.Parse(d); err != nil {
			return errors.New(errors.PhaseConfig, errors.KindInvalidInput).
				Path("layerDigests").
				Value(d).
				Cause(err).
				Detail("invalid layer digest").
				Build()
		}
	}
	return nil
}

func invalid(format string, args ...any) error {
	return errors.InvalidInput(errors.PhaseConfig, fmt.Sprintf(format, args...))
}

func newConfig(raw []byte, author *string, os string, desc *capability.Descriptor) *WasmConfig {
	return &WasmConfig{
		Created:      now().UTC(),
		Author:       author,
		Architecture: ociwasm.Architecture,
		OS:           os,
		LayerDigests: []string{digest.FromBytes(raw).String()},
		Component:    desc,
	}
}
