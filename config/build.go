package config

import (
	"context"
	"os"

	"github.com/tetratelabs/wazero"

	ociwasm "github.com/wippyai/oci-wasm"
	"github.com/wippyai/oci-wasm/capability"
	"github.com/wippyai/oci-wasm/component"
	"github.com/wippyai/oci-wasm/errors"
)

// FromRawComponent builds the config and layer for a component binary. The
// descriptor is extracted from the component's world.
func FromRawComponent(raw []byte, author *string) (*WasmConfig, Layer, error) {
	desc, err := capability.FromRawComponent(raw)
	if err != nil {
		return nil, Layer{}, err
	}
	return newConfig(raw, author, ociwasm.ComponentOS, desc), NewLayer(raw), nil
}

// FromRawModule builds the config and layer for a plain core module. The
// module is compiled once to make sure it is valid.
func FromRawModule(ctx context.Context, raw []byte, author *string) (*WasmConfig, Layer, error) {
	if component.IsComponent(raw) {
		return nil, Layer{}, errors.WrongArtifactShape("component", "core module", "use FromRawComponent")
	}
	if err := validateModule(ctx, raw); err != nil {
		return nil, Layer{}, err
	}
	return newConfig(raw, author, ociwasm.ModuleOS, nil), NewLayer(raw), nil
}

// FromComponent reads a component from path and calls FromRawComponent.
func FromComponent(ctx context.Context, path string, author *string) (*WasmConfig, Layer, error) {
	raw, err := readFile(ctx, path)
	if err != nil {
		return nil, Layer{}, err
	}
	return FromRawComponent(raw, author)
}

// FromModule reads a core module from path and calls FromRawModule.
func FromModule(ctx context.Context, path string, author *string) (*WasmConfig, Layer, error) {
	raw, err := readFile(ctx, path)
	if err != nil {
		return nil, Layer{}, err
	}
	return FromRawModule(ctx, raw, author)
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("unable to read "+path, err)
	}
	return raw, nil
}

func validateModule(ctx context.Context, raw []byte) error {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, raw)
	if err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindMalformedBinary, err, "invalid core module")
	}
	return compiled.Close(ctx)
}
