package wit

// PackageID indexes Resolve.Packages.
type PackageID int

// InterfaceID indexes Resolve.Interfaces.
type InterfaceID int

// WorldID indexes Resolve.Worlds.
type WorldID int

// NoPackage marks an interface or world that belongs to no package.
const NoPackage PackageID = -1

// Resolve is the interface-resolution graph.
type Resolve struct {
	Packages   []*Package
	Interfaces []*Interface
	Worlds     []*World
}

// Package is a versioned namespace grouping interfaces and worlds.
type Package struct {
	Name       PackageName
	Interfaces []NamedInterface
	Worlds     []NamedWorld
}

// NamedInterface is one entry of a package's interface mapping.
type NamedInterface struct {
	Name string
	ID   InterfaceID
}

// NamedWorld is one entry of a package's world mapping.
type NamedWorld struct {
	Name string
	ID   WorldID
}

// Interface is a named collection of functions and types. Name is empty for
// anonymous interfaces declared inline in a world.
type Interface struct {
	Name    string
	Package PackageID
}

// ItemKind says what a world import or export carries.
type ItemKind uint8

const (
	ItemInterface ItemKind = iota
	ItemFunction
	ItemType
)

// WorldItem is the value of a world import or export. Interface is only
// meaningful for ItemInterface.
type WorldItem struct {
	Interface InterfaceID
	Kind      ItemKind
}

// WorldEntry is one key/item pair of a world's import or export mapping.
type WorldEntry struct {
	Key  WorldKey
	Item WorldItem
}

// World is a named contract of imports and exports.
type World struct {
	Name    string
	Imports []WorldEntry
	Exports []WorldEntry
	Package PackageID
}

// New returns an empty graph.
func New() *Resolve {
	return &Resolve{}
}

// Package returns the package with the given id.
func (r *Resolve) Package(id PackageID) (*Package, bool) {
	if id < 0 || int(id) >= len(r.Packages) || r.Packages[id] == nil {
		return nil, false
	}
	return r.Packages[id], true
}

// Interface returns the interface with the given id.
func (r *Resolve) Interface(id InterfaceID) (*Interface, bool) {
	if id < 0 || int(id) >= len(r.Interfaces) || r.Interfaces[id] == nil {
		return nil, false
	}
	return r.Interfaces[id], true
}

// World returns the world with the given id.
func (r *Resolve) World(id WorldID) (*World, bool) {
	if id < 0 || int(id) >= len(r.Worlds) || r.Worlds[id] == nil {
		return nil, false
	}
	return r.Worlds[id], true
}

// PackageByName finds a package by its full name, version included.
func (r *Resolve) PackageByName(name PackageName) (PackageID, bool) {
	for i, p := range r.Packages {
		if p != nil && p.Name.Equal(name) {
			return PackageID(i), true
		}
	}
	return 0, false
}

// FindWorld returns the first world named name, in package order.
func (r *Resolve) FindWorld(name string) (WorldID, bool) {
	for _, p := range r.Packages {
		if p == nil {
			continue
		}
		if id, ok := p.World(name); ok {
			return id, true
		}
	}
	return 0, false
}

// World looks up a world declared in the package by local name.
func (p *Package) World(name string) (WorldID, bool) {
	for _, w := range p.Worlds {
		if w.Name == name {
			return w.ID, true
		}
	}
	return 0, false
}

// Interface looks up an interface declared in the package by local name.
func (p *Package) Interface(name string) (InterfaceID, bool) {
	for _, i := range p.Interfaces {
		if i.Name == name {
			return i.ID, true
		}
	}
	return 0, false
}

// WorldByName looks up a world by local name inside package pkg.
func (r *Resolve) WorldByName(pkg PackageID, name string) (WorldID, bool) {
	p, ok := r.Package(pkg)
	if !ok {
		return 0, false
	}
	return p.World(name)
}
