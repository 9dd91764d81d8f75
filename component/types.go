package component

import (
	"bytes"
	"fmt"
)

// Type constructors
const (
	typeResource      byte = 0x3f
	typeResourceAsync byte = 0x3e
	typeFunc          byte = 0x40
	typeComponent     byte = 0x41
	typeInstance      byte = 0x42
	typeFuncAsync     byte = 0x43

	typeRecord    byte = 0x72
	typeVariant   byte = 0x71
	typeList      byte = 0x70
	typeTuple     byte = 0x6f
	typeFlags     byte = 0x6e
	typeEnum      byte = 0x6d
	typeOption    byte = 0x6b
	typeResult    byte = 0x6a
	typeOwn       byte = 0x69
	typeBorrow    byte = 0x68
	typeFixedList byte = 0x67
	typeStream    byte = 0x66
	typeFuture    byte = 0x65
	typeErrorCtx  byte = 0x64
)

// Component and instance type declarators
const (
	declCoreType byte = 0x00
	declType     byte = 0x01
	declAlias    byte = 0x02
	declImport   byte = 0x03
	declExport   byte = 0x04
)

// maxTypeDepth bounds nesting of component and instance types
const maxTypeDepth = 64

// typeDecl is a component or instance type reduced to what interface
// extraction needs: named imports and exports, plus the local type index
// space so an export can be followed to the type it points at.
type typeDecl struct {
	types   []*typeDecl
	imports []externDecl
	exports []externDecl
	kind    byte
}

// externDecl is an import or export declarator inside a type.
type externDecl struct {
	name  string
	index uint32
	kind  byte
}

// externDesc is a decoded externdesc. index is only meaningful for kinds that
// reference a type.
type externDesc struct {
	index uint32
	kind  byte
}

// localType returns the type at idx in the declarator's local index space.
func (t *typeDecl) localType(idx uint32) *typeDecl {
	if t == nil || int(idx) >= len(t.types) {
		return nil
	}
	return t.types[idx]
}

func parseTypeSection(data []byte) ([]*typeDecl, error) {
	r := getReader(data)
	defer putReader(r)

	count, err := readCount(r, "type")
	if err != nil {
		return nil, err
	}

	types := make([]*typeDecl, 0, count)
	for i := uint32(0); i < count; i++ {
		t, err := parseDefType(r, 0)
		if err != nil {
			return nil, fmt.Errorf("type %d: %w", i, err)
		}
		types = append(types, t)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%d trailing bytes in type section", r.Len())
	}
	return types, nil
}

// parseDefType reads one deftype. Only component and instance types are
// kept; every other type is consumed and reported as nil.
func parseDefType(r *bytes.Reader, depth int) (*typeDecl, error) {
	if depth > maxTypeDepth {
		return nil, fmt.Errorf("type nesting exceeds %d", maxTypeDepth)
	}

	b, err := readByte(r)
	if err != nil {
		return nil, fmt.Errorf("read type form: %w", err)
	}

	switch b {
	case typeComponent, typeInstance:
		return parseDeclarators(r, b, depth)
	case typeFunc, typeFuncAsync:
		return nil, skipFuncType(r)
	case typeResource:
		return nil, skipResourceType(r, false)
	case typeResourceAsync:
		return nil, skipResourceType(r, true)
	default:
		return nil, skipDefValType(r, b)
	}
}

func parseDeclarators(r *bytes.Reader, kind byte, depth int) (*typeDecl, error) {
	count, err := readCount(r, "declarator")
	if err != nil {
		return nil, err
	}

	t := &typeDecl{kind: kind}
	for i := uint32(0); i < count; i++ {
		tag, err := readByte(r)
		if err != nil {
			return nil, fmt.Errorf("declarator %d: %w", i, err)
		}

		switch tag {
		case declCoreType:
			if err := skipCoreDefType(r); err != nil {
				return nil, fmt.Errorf("declarator %d: core type: %w", i, err)
			}
		case declType:
			inner, err := parseDefType(r, depth+1)
			if err != nil {
				return nil, fmt.Errorf("declarator %d: %w", i, err)
			}
			t.types = append(t.types, inner)
		case declAlias:
			sort, err := readAlias(r)
			if err != nil {
				return nil, fmt.Errorf("declarator %d: alias: %w", i, err)
			}
			if sort == SortType {
				t.types = append(t.types, nil)
			}
		case declImport, declExport:
			if tag == declImport && kind != typeComponent {
				return nil, fmt.Errorf("declarator %d: import in instance type", i)
			}
			name, err := readExternName(r)
			if err != nil {
				return nil, fmt.Errorf("declarator %d: %w", i, err)
			}
			desc, err := readExternDesc(r)
			if err != nil {
				return nil, fmt.Errorf("declarator %d %q: %w", i, name, err)
			}
			d := externDecl{name: name, kind: desc.kind, index: desc.index}
			if tag == declImport {
				t.imports = append(t.imports, d)
			} else {
				t.exports = append(t.exports, d)
			}
			if desc.kind == ExternType {
				t.types = append(t.types, nil)
			}
		default:
			return nil, fmt.Errorf("declarator %d: unknown tag 0x%02x", i, tag)
		}
	}
	return t, nil
}

func readExternDesc(r *bytes.Reader) (externDesc, error) {
	kind, err := readByte(r)
	if err != nil {
		return externDesc{}, fmt.Errorf("read extern kind: %w", err)
	}

	switch kind {
	case ExternCoreModule:
		sub, err := readByte(r)
		if err != nil {
			return externDesc{}, fmt.Errorf("read core sort: %w", err)
		}
		if sub != 0x11 {
			return externDesc{}, fmt.Errorf("core module extern with sort 0x%02x", sub)
		}
		idx, err := readLEB128(r)
		if err != nil {
			return externDesc{}, fmt.Errorf("read type index: %w", err)
		}
		return externDesc{kind: kind, index: idx}, nil
	case ExternFunc, ExternComponent, ExternInstance:
		idx, err := readLEB128(r)
		if err != nil {
			return externDesc{}, fmt.Errorf("read type index: %w", err)
		}
		return externDesc{kind: kind, index: idx}, nil
	case ExternValue:
		bound, err := readByte(r)
		if err != nil {
			return externDesc{}, fmt.Errorf("read value bound: %w", err)
		}
		switch bound {
		case 0x00:
			if _, err := readLEB128(r); err != nil {
				return externDesc{}, fmt.Errorf("read value index: %w", err)
			}
		case 0x01:
			if err := skipValType(r); err != nil {
				return externDesc{}, err
			}
		default:
			return externDesc{}, fmt.Errorf("unknown value bound 0x%02x", bound)
		}
		return externDesc{kind: kind}, nil
	case ExternType:
		bound, err := readByte(r)
		if err != nil {
			return externDesc{}, fmt.Errorf("read type bound: %w", err)
		}
		switch bound {
		case 0x00: // eq
			idx, err := readLEB128(r)
			if err != nil {
				return externDesc{}, fmt.Errorf("read type index: %w", err)
			}
			return externDesc{kind: kind, index: idx}, nil
		case 0x01: // sub resource
			return externDesc{kind: kind}, nil
		default:
			return externDesc{}, fmt.Errorf("unknown type bound 0x%02x", bound)
		}
	default:
		return externDesc{}, fmt.Errorf("unknown extern kind 0x%02x", kind)
	}
}

func isPrimValType(b byte) bool {
	return b >= 0x73 && b <= 0x7f || b == typeErrorCtx
}

// skipValType skips a valtype: a primitive byte or an s33 type index.
func skipValType(r *bytes.Reader) error {
	b, err := readByte(r)
	if err != nil {
		return fmt.Errorf("read valtype: %w", err)
	}
	if isPrimValType(b) {
		return nil
	}
	if err := r.UnreadByte(); err != nil {
		return err
	}
	return skipLEB128(r)
}

func skipOptValType(r *bytes.Reader) error {
	present, err := readByte(r)
	if err != nil {
		return fmt.Errorf("read option flag: %w", err)
	}
	switch present {
	case 0x00:
		return nil
	case 0x01:
		return skipValType(r)
	default:
		return fmt.Errorf("invalid option flag 0x%02x", present)
	}
}

func skipDefValType(r *bytes.Reader, b byte) error {
	if isPrimValType(b) {
		return nil
	}

	switch b {
	case typeRecord:
		return skipVec(r, "field", func() error {
			if _, err := readName(r); err != nil {
				return err
			}
			return skipValType(r)
		})
	case typeVariant:
		return skipVec(r, "case", func() error {
			if _, err := readName(r); err != nil {
				return err
			}
			if err := skipOptValType(r); err != nil {
				return err
			}
			// refines slot, always absent
			_, err := readByte(r)
			return err
		})
	case typeList, typeOption:
		return skipValType(r)
	case typeFixedList:
		if err := skipValType(r); err != nil {
			return err
		}
		_, err := readLEB128(r)
		return err
	case typeTuple:
		return skipVec(r, "tuple element", func() error { return skipValType(r) })
	case typeFlags, typeEnum:
		return skipVec(r, "label", func() error {
			_, err := readName(r)
			return err
		})
	case typeResult:
		if err := skipOptValType(r); err != nil {
			return err
		}
		return skipOptValType(r)
	case typeOwn, typeBorrow:
		_, err := readLEB128(r)
		return err
	case typeStream, typeFuture:
		return skipOptValType(r)
	default:
		return fmt.Errorf("unknown type form 0x%02x", b)
	}
}

func skipFuncType(r *bytes.Reader) error {
	err := skipVec(r, "param", func() error {
		if _, err := readName(r); err != nil {
			return err
		}
		return skipValType(r)
	})
	if err != nil {
		return err
	}

	tag, err := readByte(r)
	if err != nil {
		return fmt.Errorf("read result form: %w", err)
	}
	switch tag {
	case 0x00:
		return skipValType(r)
	case 0x01:
		zero, err := readByte(r)
		if err != nil {
			return err
		}
		if zero != 0x00 {
			return fmt.Errorf("named results are not supported")
		}
		return nil
	default:
		return fmt.Errorf("invalid result form 0x%02x", tag)
	}
}

func skipResourceType(r *bytes.Reader, async bool) error {
	rep, err := readByte(r)
	if err != nil {
		return fmt.Errorf("read resource rep: %w", err)
	}
	if rep != 0x7f {
		return fmt.Errorf("resource rep must be i32, got 0x%02x", rep)
	}
	// destructor, then callback for async resources
	slots := 1
	if async {
		slots = 2
	}
	for i := 0; i < slots; i++ {
		present, err := readByte(r)
		if err != nil {
			return err
		}
		if present == 0x01 {
			if _, err := readLEB128(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// skipCoreDefType skips a core:deftype appearing inside a component type:
// a module type or a core function type.
func skipCoreDefType(r *bytes.Reader) error {
	form, err := readByte(r)
	if err != nil {
		return err
	}

	switch form {
	case 0x60:
		if err := skipVec(r, "core param", func() error { return skipCoreValType(r) }); err != nil {
			return err
		}
		return skipVec(r, "core result", func() error { return skipCoreValType(r) })
	case 0x50:
		return skipVec(r, "module declarator", func() error { return skipModuleDecl(r) })
	default:
		return fmt.Errorf("unsupported core type form 0x%02x", form)
	}
}

func skipModuleDecl(r *bytes.Reader) error {
	tag, err := readByte(r)
	if err != nil {
		return err
	}

	switch tag {
	case 0x00: // import
		if _, err := readName(r); err != nil {
			return err
		}
		if _, err := readName(r); err != nil {
			return err
		}
		return skipCoreImportDesc(r)
	case 0x01: // type
		return skipCoreDefType(r)
	case 0x02: // outer alias
		sort, err := readByte(r)
		if err != nil {
			return err
		}
		if sort != 0x10 {
			return fmt.Errorf("unsupported module alias sort 0x%02x", sort)
		}
		target, err := readByte(r)
		if err != nil {
			return err
		}
		if target != 0x01 {
			return fmt.Errorf("unsupported module alias target 0x%02x", target)
		}
		if _, err := readLEB128(r); err != nil {
			return err
		}
		_, err = readLEB128(r)
		return err
	case 0x03: // export
		if _, err := readName(r); err != nil {
			return err
		}
		return skipCoreImportDesc(r)
	default:
		return fmt.Errorf("unknown module declarator 0x%02x", tag)
	}
}

func skipCoreImportDesc(r *bytes.Reader) error {
	kind, err := readByte(r)
	if err != nil {
		return err
	}

	switch kind {
	case 0x00: // func
		_, err := readLEB128(r)
		return err
	case 0x01: // table
		if err := skipCoreValType(r); err != nil {
			return err
		}
		return skipLimits(r)
	case 0x02: // memory
		return skipLimits(r)
	case 0x03: // global
		if err := skipCoreValType(r); err != nil {
			return err
		}
		_, err := readByte(r)
		return err
	case 0x04: // tag
		if _, err := readByte(r); err != nil {
			return err
		}
		_, err := readLEB128(r)
		return err
	default:
		return fmt.Errorf("unknown core import kind 0x%02x", kind)
	}
}

func skipCoreValType(r *bytes.Reader) error {
	b, err := readByte(r)
	if err != nil {
		return err
	}
	switch {
	case b >= 0x7b && b <= 0x7f, b == 0x70, b == 0x6f:
		return nil
	case b == 0x63 || b == 0x64: // (ref null? ht)
		return skipLEB128(r)
	default:
		return fmt.Errorf("unknown core valtype 0x%02x", b)
	}
}

func skipLimits(r *bytes.Reader) error {
	flags, err := readByte(r)
	if err != nil {
		return err
	}
	if err := skipLEB128(r); err != nil {
		return err
	}
	if flags&0x01 != 0 {
		return skipLEB128(r)
	}
	return nil
}

func skipVec(r *bytes.Reader, what string, each func() error) error {
	n, err := readCount(r, what)
	if err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		if err := each(); err != nil {
			return fmt.Errorf("%s %d: %w", what, i, err)
		}
	}
	return nil
}
