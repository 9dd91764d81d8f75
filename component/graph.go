package component

import (
	"fmt"

	"github.com/wippyai/oci-wasm/wit"
)

// Names of the synthetic package and world a component decodes into.
const (
	RootNamespace = "root"
	RootPackage   = "component"
	RootWorld     = "root"
)

// buildComponent maps the component's top-level imports and exports onto the
// synthetic root world.
func buildComponent(bin *Binary) (*wit.Resolve, wit.WorldID) {
	res := wit.New()
	pkg := res.AddPackage(wit.PackageName{Namespace: RootNamespace, Name: RootPackage})
	wid := res.AddWorld(pkg, RootWorld)
	world, _ := res.World(wid)

	for _, imp := range bin.Imports {
		if key, item, ok := entryFor(res, pkg, imp.Name, imp.ExternKind); ok {
			world.Import(key, item)
		}
	}
	for _, exp := range bin.Exports {
		if key, item, ok := entryFor(res, pkg, exp.Name, exp.Sort); ok {
			world.Export(key, item)
		}
	}
	return res, wid
}

// buildPackage rebuilds the interfaces and worlds of an encoded WIT package.
// Each top-level type export wraps a component type holding one export decl
// whose name is the qualified name of an interface or a world.
func buildPackage(bin *Binary) (*wit.Resolve, wit.PackageID, error) {
	space, err := bin.typeSpace()
	if err != nil {
		return nil, 0, err
	}

	res := wit.New()
	main := wit.NoPackage

	for _, exp := range bin.Exports {
		if int(exp.SortIndex) >= len(space) || space[exp.SortIndex] == nil {
			return nil, 0, fmt.Errorf("export %q: type %d is not a component type", exp.Name, exp.SortIndex)
		}
		wrapper := space[exp.SortIndex]
		if wrapper.kind != typeComponent {
			return nil, 0, fmt.Errorf("export %q: type %d is not a component type", exp.Name, exp.SortIndex)
		}

		for _, d := range wrapper.exports {
			pkgName, item, err := wit.ParseQualifiedName(d.name)
			if err != nil {
				return nil, 0, fmt.Errorf("export %q: %w", exp.Name, err)
			}
			pkg := res.InternPackage(pkgName)
			if main == wit.NoPackage {
				main = pkg
			}

			switch d.kind {
			case ExternInstance:
				res.InternInterface(pkg, item)
			case ExternComponent:
				worldType := wrapper.localType(d.index)
				if worldType == nil || worldType.kind != typeComponent {
					return nil, 0, fmt.Errorf("world %q: type %d is not a component type", d.name, d.index)
				}
				buildWorld(res, pkg, item, worldType)
			default:
				return nil, 0, fmt.Errorf("export %q: unexpected extern kind 0x%02x", d.name, d.kind)
			}
		}
	}

	if main == wit.NoPackage {
		return nil, 0, fmt.Errorf("package declares no interfaces or worlds")
	}
	return res, main, nil
}

func buildWorld(res *wit.Resolve, pkg wit.PackageID, name string, t *typeDecl) {
	wid := res.AddWorld(pkg, name)
	world, _ := res.World(wid)

	for _, d := range t.imports {
		if key, item, ok := entryFor(res, pkg, d.name, d.kind); ok {
			world.Import(key, item)
		}
	}
	for _, d := range t.exports {
		if key, item, ok := entryFor(res, pkg, d.name, d.kind); ok {
			world.Export(key, item)
		}
	}
}

// entryFor turns an import or export into a world entry. Extern kinds and
// sorts share the same codes for func, type and instance. Anything else
// (modules, components, values) has no place in a world and is dropped.
func entryFor(res *wit.Resolve, owner wit.PackageID, name string, kind byte) (wit.WorldKey, wit.WorldItem, bool) {
	switch kind {
	case ExternInstance:
		if pkgName, iface, err := wit.ParseQualifiedName(name); err == nil {
			id := res.InternInterface(res.InternPackage(pkgName), iface)
			return wit.InterfaceKey(id), wit.WorldItem{Kind: wit.ItemInterface, Interface: id}, true
		}
		id := res.AddInterface(owner, "")
		return wit.NameKey(name), wit.WorldItem{Kind: wit.ItemInterface, Interface: id}, true
	case ExternFunc:
		return wit.NameKey(name), wit.WorldItem{Kind: wit.ItemFunction}, true
	case ExternType:
		return wit.NameKey(name), wit.WorldItem{Kind: wit.ItemType}, true
	default:
		return wit.WorldKey{}, wit.WorldItem{}, false
	}
}
