// Package wasmtest builds small component binaries and encoded WIT packages
// for tests.
package wasmtest

import "strings"

// Extern kinds and sorts share these codes.
const (
	KindCoreModule byte = 0x00
	KindFunc       byte = 0x01
	KindType       byte = 0x03
	KindComponent  byte = 0x04
	KindInstance   byte = 0x05
)

var (
	componentHeader = []byte{0x00, 0x61, 0x73, 0x6D, 0x0D, 0x00, 0x01, 0x00}
	moduleHeader    = []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
)

// Module returns an empty core module.
func Module() []byte {
	return append([]byte(nil), moduleHeader...)
}

// Component joins sections behind the component preamble.
func Component(sections ...[]byte) []byte {
	return Cat(append([][]byte{componentHeader}, sections...)...)
}

// Cat concatenates byte slices.
func Cat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// U32 encodes v as unsigned LEB128.
func U32(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

// Name encodes a length-prefixed string.
func Name(s string) []byte {
	return Cat(U32(uint32(len(s))), []byte(s))
}

// Vec encodes a counted vector of pre-encoded items.
func Vec(items ...[]byte) []byte {
	return Cat(append([][]byte{U32(uint32(len(items)))}, items...)...)
}

// Section wraps body with a section id and size.
func Section(id byte, body []byte) []byte {
	return Cat([]byte{id}, U32(uint32(len(body))), body)
}

// Extern is a named import or export.
type Extern struct {
	Name  string
	Kind  byte
	Index uint32
}

func externDesc(kind byte, idx uint32) []byte {
	switch kind {
	case KindCoreModule:
		return Cat([]byte{kind, 0x11}, U32(idx))
	case KindType:
		return Cat([]byte{kind, 0x00}, U32(idx))
	default:
		return Cat([]byte{kind}, U32(idx))
	}
}

// ImportSection encodes a section 10 with the given imports.
func ImportSection(imports ...Extern) []byte {
	items := make([][]byte, 0, len(imports))
	for _, imp := range imports {
		items = append(items, Cat([]byte{0x00}, Name(imp.Name), externDesc(imp.Kind, imp.Index)))
	}
	return Section(10, Vec(items...))
}

// ExportSection encodes a section 11. Kind is used as the sort.
func ExportSection(exports ...Extern) []byte {
	items := make([][]byte, 0, len(exports))
	for _, exp := range exports {
		items = append(items, Cat([]byte{0x00}, Name(exp.Name), []byte{exp.Kind}, U32(exp.Index), []byte{0x00}))
	}
	return Section(11, Vec(items...))
}

// TypeSection encodes a section 7 holding the given deftypes.
func TypeSection(types ...[]byte) []byte {
	return Section(7, Vec(types...))
}

// CoreModuleSection embeds an empty core module.
func CoreModuleSection() []byte {
	return Section(1, Module())
}

// InstanceType encodes an instance type from declarators.
func InstanceType(decls ...[]byte) []byte {
	return Cat([]byte{0x42}, Vec(decls...))
}

// ComponentType encodes a component type from declarators.
func ComponentType(decls ...[]byte) []byte {
	return Cat([]byte{0x41}, Vec(decls...))
}

// FuncType encodes a function type with no params and no result.
func FuncType() []byte {
	return []byte{0x40, 0x00, 0x01, 0x00}
}

// TypeDecl declares a type inside a component or instance type.
func TypeDecl(t []byte) []byte {
	return Cat([]byte{0x01}, t)
}

// ImportDecl declares an import inside a component type.
func ImportDecl(name string, kind byte, idx uint32) []byte {
	return Cat([]byte{0x03, 0x00}, Name(name), externDesc(kind, idx))
}

// ExportDecl declares an export inside a component or instance type.
func ExportDecl(name string, kind byte, idx uint32) []byte {
	return Cat([]byte{0x04, 0x00}, Name(name), externDesc(kind, idx))
}

// SimpleComponent builds a component importing and exporting instances
// under the given names. It embeds a core module so it never reads as a
// WIT package.
func SimpleComponent(imports, exports []string) []byte {
	sections := [][]byte{
		CoreModuleSection(),
		TypeSection(InstanceType()),
	}
	if len(imports) > 0 {
		ext := make([]Extern, 0, len(imports))
		for _, n := range imports {
			ext = append(ext, Extern{Name: n, Kind: KindInstance})
		}
		sections = append(sections, ImportSection(ext...))
	}
	if len(exports) > 0 {
		ext := make([]Extern, 0, len(exports))
		for i, n := range exports {
			ext = append(ext, Extern{Name: n, Kind: KindInstance, Index: uint32(i)})
		}
		sections = append(sections, ExportSection(ext...))
	}
	return Component(sections...)
}

// World describes a world for WitPackage. Name and the entries are
// qualified names; entries that are not qualified become inline interfaces.
type World struct {
	Name    string
	Imports []string
	Exports []string
	Funcs   []string
}

// WitPackage encodes a WIT package declaring the given interfaces and
// worlds, in that order.
func WitPackage(interfaces []string, worlds []World) []byte {
	var sections [][]byte
	var idx uint32

	emit := func(qualified string, wrapper []byte) {
		sections = append(sections,
			TypeSection(wrapper),
			ExportSection(Extern{Name: localName(qualified), Kind: KindType, Index: idx}),
		)
		// the type and its export each take an index
		idx += 2
	}

	for _, q := range interfaces {
		emit(q, ComponentType(
			TypeDecl(InstanceType(TypeDecl(FuncType()), ExportDecl("f", KindFunc, 0))),
			ExportDecl(q, KindInstance, 0),
		))
	}

	for _, w := range worlds {
		var decls [][]byte
		var local uint32
		for _, n := range w.Imports {
			decls = append(decls, TypeDecl(InstanceType()), ImportDecl(n, KindInstance, local))
			local++
		}
		for _, n := range w.Exports {
			decls = append(decls, TypeDecl(InstanceType()), ExportDecl(n, KindInstance, local))
			local++
		}
		for _, n := range w.Funcs {
			decls = append(decls, TypeDecl(FuncType()), ExportDecl(n, KindFunc, local))
			local++
		}
		emit(w.Name, ComponentType(
			TypeDecl(ComponentType(decls...)),
			ExportDecl(w.Name, KindComponent, 0),
		))
	}

	return Component(sections...)
}

// localName strips the package and version from ns:pkg/item@version.
func localName(qualified string) string {
	name := qualified
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '@'); i >= 0 {
		name = name[:i]
	}
	return name
}
