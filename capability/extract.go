package capability

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/oci-wasm/errors"
	"github.com/wippyai/oci-wasm/wit"
)

// Name returns the canonical name of a world key. A plain-name key is its own
// name. An interface key resolves to ns:pkg/iface, with @version when the
// owning package is versioned. It reports false when the interface or its
// package is missing, or when the interface is anonymous.
func Name(res *wit.Resolve, key wit.WorldKey) (string, bool) {
	if name, ok := key.Name(); ok {
		return name, true
	}
	id, _ := key.Interface()
	return QualifiedName(res, id)
}

// QualifiedName returns the fully-qualified name of interface id.
func QualifiedName(res *wit.Resolve, id wit.InterfaceID) (string, bool) {
	iface, ok := res.Interface(id)
	if !ok || iface.Name == "" {
		return "", false
	}
	pkg, ok := res.Package(iface.Package)
	if !ok {
		return "", false
	}
	return pkg.Name.Qualify(iface.Name), true
}

// FromWorld extracts the descriptor of world id: the resolved names of its
// exports and imports.
func FromWorld(res *wit.Resolve, id wit.WorldID) (*Descriptor, error) {
	world, ok := res.World(id)
	if !ok {
		return nil, errors.NotFound(errors.PhaseExtract, "world", worldRef(id))
	}

	return &Descriptor{
		Exports: resolveEntries(res, world, "export", world.Exports),
		Imports: resolveEntries(res, world, "import", world.Imports),
	}, nil
}

// FromPackage extracts the descriptor of a whole package. Exports are the
// union of every world's exports, one name per world, and every interface
// the package declares. Imports are always empty.
func FromPackage(res *wit.Resolve, id wit.PackageID) (*Descriptor, error) {
	pkg, ok := res.Package(id)
	if !ok {
		return nil, errors.NotFound(errors.PhaseExtract, "package", packageRef(id))
	}

	exports := Set{}
	for _, nw := range pkg.Worlds {
		world, ok := res.World(nw.ID)
		if !ok {
			Logger().Debug("skipping unresolvable world",
				zap.String("package", pkg.Name.String()),
				zap.String("world", nw.Name))
			continue
		}
		for n := range resolveEntries(res, world, "export", world.Exports) {
			exports.Add(n)
		}
		exports.Add(pkg.Name.Qualify(nw.Name))
	}

	for _, ni := range pkg.Interfaces {
		exports.Add(pkg.Name.Qualify(ni.Name))
	}

	return &Descriptor{Exports: exports, Imports: Set{}}, nil
}

func resolveEntries(res *wit.Resolve, world *wit.World, dir string, entries []wit.WorldEntry) Set {
	out := make(Set, len(entries))
	for _, e := range entries {
		name, ok := Name(res, e.Key)
		if !ok {
			Logger().Debug("skipping unresolvable "+dir,
				zap.String("world", world.Name),
				zap.Stringer("key", e.Key))
			continue
		}
		out.Add(name)
	}
	return out
}

func worldRef(id wit.WorldID) string {
	return "world-" + strconv.Itoa(int(id))
}

func packageRef(id wit.PackageID) string {
	return "package-" + strconv.Itoa(int(id))
}
