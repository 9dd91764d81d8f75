package component

import (
	"github.com/wippyai/oci-wasm/errors"
	"github.com/wippyai/oci-wasm/wit"
)

// Kind is the shape a binary decodes into.
type Kind uint8

const (
	KindComponent Kind = iota
	KindPackage
)

func (k Kind) String() string {
	switch k {
	case KindComponent:
		return "component"
	case KindPackage:
		return "WIT package"
	default:
		return "unknown"
	}
}

// Decoded is the result of decoding: a graph and its designated entry point.
// World is set for components, Package for WIT packages.
type Decoded struct {
	Resolve *wit.Resolve
	World   wit.WorldID
	Package wit.PackageID
	Kind    Kind
}

// Component returns the graph and world of a decoded component, or a
// wrong_artifact_shape error when the binary was a WIT package.
func (d *Decoded) Component() (*wit.Resolve, wit.WorldID, error) {
	if d.Kind != KindComponent {
		return nil, 0, errors.WrongArtifactShape(d.Kind.String(), KindComponent.String(),
			"use FromRawWitPackage or FromRawPackage")
	}
	return d.Resolve, d.World, nil
}

// WitPackage returns the graph and package of a decoded WIT package, or a
// wrong_artifact_shape error when the binary was a component.
func (d *Decoded) WitPackage() (*wit.Resolve, wit.PackageID, error) {
	if d.Kind != KindPackage {
		return nil, 0, errors.WrongArtifactShape(d.Kind.String(), KindPackage.String(),
			"use FromRawComponent")
	}
	return d.Resolve, d.Package, nil
}

// Decode decodes a component binary or an encoded WIT package.
func Decode(data []byte) (*Decoded, error) {
	if IsCoreModule(data) {
		return nil, errors.MalformedBinary("core wasm module, not a component", nil)
	}

	bin, err := Scan(data)
	if err != nil {
		return nil, errors.MalformedBinary("decode component", err)
	}

	if bin.IsWitPackage() {
		res, pkg, err := buildPackage(bin)
		if err != nil {
			return nil, errors.MalformedBinary("decode WIT package", err)
		}
		return &Decoded{Resolve: res, Package: pkg, World: -1, Kind: KindPackage}, nil
	}

	res, world := buildComponent(bin)
	return &Decoded{Resolve: res, World: world, Package: wit.NoPackage, Kind: KindComponent}, nil
}

// DecodeJSON wraps a graph read from its JSON form. A non-empty world selects
// that world and yields the component shape; so does a graph whose last
// package is root:component, taking its root world. Otherwise the last
// package is the designated package.
func DecodeJSON(data []byte, world string) (*Decoded, error) {
	res, err := wit.ParseJSON(data)
	if err != nil {
		return nil, err
	}
	if len(res.Packages) == 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, "graph has no packages")
	}

	if world != "" {
		id, ok := res.FindWorld(world)
		if !ok {
			return nil, errors.NotFound(errors.PhaseDecode, "world", world)
		}
		return &Decoded{Resolve: res, World: id, Package: wit.NoPackage, Kind: KindComponent}, nil
	}

	last := wit.PackageID(len(res.Packages) - 1)
	p, _ := res.Package(last)
	if p.Name.Namespace == RootNamespace && p.Name.Name == RootPackage {
		id, ok := p.World(RootWorld)
		if !ok {
			return nil, errors.NotFound(errors.PhaseDecode, "world", RootWorld)
		}
		return &Decoded{Resolve: res, World: id, Package: wit.NoPackage, Kind: KindComponent}, nil
	}
	return &Decoded{Resolve: res, World: -1, Package: last, Kind: KindPackage}, nil
}
