package capability

import (
	"bytes"
	"context"
	"os"

	"github.com/wippyai/oci-wasm/component"
	"github.com/wippyai/oci-wasm/errors"
)

// FromDecoded routes a decoded binary by shape: components go through
// FromWorld, WIT packages through FromPackage.
func FromDecoded(d *component.Decoded) (*Descriptor, error) {
	switch d.Kind {
	case component.KindComponent:
		return FromWorld(d.Resolve, d.World)
	case component.KindPackage:
		return FromPackage(d.Resolve, d.Package)
	default:
		return nil, errors.InvalidInput(errors.PhaseExtract, "unknown decoded shape "+d.Kind.String())
	}
}

// FromRawComponent decodes a component binary and extracts its world. A WIT
// package is rejected with wrong_artifact_shape.
func FromRawComponent(raw []byte) (*Descriptor, error) {
	d, err := component.Decode(raw)
	if err != nil {
		return nil, err
	}
	res, world, err := d.Component()
	if err != nil {
		return nil, err
	}
	return FromWorld(res, world)
}

// FromRawWitPackage decodes a WIT package and extracts the world it declares
// under the local name world. A component is rejected with
// wrong_artifact_shape.
func FromRawWitPackage(raw []byte, world string) (*Descriptor, error) {
	d, err := component.Decode(raw)
	if err != nil {
		return nil, err
	}
	res, pkg, err := d.WitPackage()
	if err != nil {
		return nil, err
	}
	id, ok := res.WorldByName(pkg, world)
	if !ok {
		return nil, errors.NotFound(errors.PhaseExtract, "world", world)
	}
	return FromWorld(res, id)
}

// FromRawPackage decodes a WIT package and extracts the whole package.
func FromRawPackage(raw []byte) (*Descriptor, error) {
	d, err := component.Decode(raw)
	if err != nil {
		return nil, err
	}
	res, pkg, err := d.WitPackage()
	if err != nil {
		return nil, err
	}
	return FromPackage(res, pkg)
}

// FromJSON reads the JSON graph form and extracts from the entry point
// component.DecodeJSON picks for world.
func FromJSON(data []byte, world string) (*Descriptor, error) {
	d, err := component.DecodeJSON(data, world)
	if err != nil {
		return nil, err
	}
	return FromDecoded(d)
}

// FromJSONPackage reads the JSON graph form and extracts the whole package
// it designates. A graph whose entry point is a component is rejected with
// wrong_artifact_shape.
func FromJSONPackage(data []byte) (*Descriptor, error) {
	d, err := component.DecodeJSON(data, "")
	if err != nil {
		return nil, err
	}
	res, pkg, err := d.WitPackage()
	if err != nil {
		return nil, err
	}
	return FromPackage(res, pkg)
}

// FromFile loads a binary component, a binary WIT package, or a JSON graph
// from path and extracts its descriptor by shape.
func FromFile(ctx context.Context, path string) (*Descriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read "+path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if IsJSON(data) {
		return FromJSON(data, "")
	}
	d, err := component.Decode(data)
	if err != nil {
		return nil, err
	}
	return FromDecoded(d)
}

// IsJSON reports whether data looks like the JSON graph form rather than a
// binary.
func IsJSON(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '{'
}
