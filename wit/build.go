package wit

// AddPackage appends a package and returns its id.
func (r *Resolve) AddPackage(name PackageName) PackageID {
	r.Packages = append(r.Packages, &Package{Name: name})
	return PackageID(len(r.Packages) - 1)
}

// AddInterface appends an interface owned by pkg. Named interfaces of a known
// package are also registered in the package's interface mapping.
func (r *Resolve) AddInterface(pkg PackageID, name string) InterfaceID {
	r.Interfaces = append(r.Interfaces, &Interface{Name: name, Package: pkg})
	id := InterfaceID(len(r.Interfaces) - 1)
	if p, ok := r.Package(pkg); ok && name != "" {
		p.Interfaces = append(p.Interfaces, NamedInterface{Name: name, ID: id})
	}
	return id
}

// AddWorld appends a world owned by pkg and registers it in the package's
// world mapping.
func (r *Resolve) AddWorld(pkg PackageID, name string) WorldID {
	r.Worlds = append(r.Worlds, &World{Name: name, Package: pkg})
	id := WorldID(len(r.Worlds) - 1)
	if p, ok := r.Package(pkg); ok {
		p.Worlds = append(p.Worlds, NamedWorld{Name: name, ID: id})
	}
	return id
}

// InternPackage returns the id of the package called name, adding it first
// if the graph does not have one.
func (r *Resolve) InternPackage(name PackageName) PackageID {
	if id, ok := r.PackageByName(name); ok {
		return id
	}
	return r.AddPackage(name)
}

// InternInterface returns the id of the interface called name in pkg, adding
// it first if needed.
func (r *Resolve) InternInterface(pkg PackageID, name string) InterfaceID {
	if p, ok := r.Package(pkg); ok {
		if id, ok := p.Interface(name); ok {
			return id
		}
	}
	return r.AddInterface(pkg, name)
}

// Import appends an import entry.
func (w *World) Import(key WorldKey, item WorldItem) {
	w.Imports = append(w.Imports, WorldEntry{Key: key, Item: item})
}

// Export appends an export entry.
func (w *World) Export(key WorldKey, item WorldItem) {
	w.Exports = append(w.Exports, WorldEntry{Key: key, Item: item})
}

// ImportInterface imports interface id under an interface key.
func (w *World) ImportInterface(id InterfaceID) {
	w.Import(InterfaceKey(id), WorldItem{Kind: ItemInterface, Interface: id})
}

// ExportInterface exports interface id under an interface key.
func (w *World) ExportInterface(id InterfaceID) {
	w.Export(InterfaceKey(id), WorldItem{Kind: ItemInterface, Interface: id})
}
