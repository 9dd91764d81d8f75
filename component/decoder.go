package component

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Section ids of the component binary format
const (
	sectionCustom       byte = 0
	sectionCoreModule   byte = 1
	sectionCoreInstance byte = 2
	sectionCoreType     byte = 3
	sectionComponent    byte = 4
	sectionInstance     byte = 5
	sectionAlias        byte = 6
	sectionType         byte = 7
	sectionCanon        byte = 8
	sectionStart        byte = 9
	sectionImport       byte = 10
	sectionExport       byte = 11
)

// externDesc kinds
const (
	ExternCoreModule byte = 0x00
	ExternFunc       byte = 0x01
	ExternValue      byte = 0x02
	ExternType       byte = 0x03
	ExternComponent  byte = 0x04
	ExternInstance   byte = 0x05
)

// Sort kinds
const (
	SortCore      byte = 0x00
	SortFunc      byte = 0x01
	SortValue     byte = 0x02
	SortType      byte = 0x03
	SortComponent byte = 0x04
	SortInstance  byte = 0x05
)

// Binary is the section-level view of a component binary: its top-level
// imports and exports plus enough bookkeeping to rebuild the type index space.
type Binary struct {
	Imports        []Import
	Exports        []Export
	CustomSections []CustomSection
	CoreModules    int
	Components     int

	// sections that contribute to the top-level type index space, in order
	indexSections []rawSection
}

type Import struct {
	Name       string
	ExternKind byte
	TypeIndex  uint32
}

type Export struct {
	Name      string
	Sort      byte
	SortIndex uint32
}

type CustomSection struct {
	Name string
	Data []byte
}

type rawSection struct {
	data []byte
	id   byte
}

// IsComponent reports whether data starts with the component preamble.
func IsComponent(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	if data[0] != 0x00 || data[1] != 0x61 || data[2] != 0x73 || data[3] != 0x6D {
		return false
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	return version > 1
}

// IsCoreModule reports whether data starts with the core module preamble.
func IsCoreModule(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	if data[0] != 0x00 || data[1] != 0x61 || data[2] != 0x73 || data[3] != 0x6D {
		return false
	}
	return binary.LittleEndian.Uint32(data[4:8]) == 1
}

// Scan walks the top-level sections of a component binary.
func Scan(data []byte) (*Binary, error) {
	if !IsComponent(data) {
		return nil, fmt.Errorf("not a component")
	}

	r := getReader(data[8:])
	defer putReader(r)
	bin := &Binary{}

	sectionCount := 0
	maxSections := 100000

	for {
		sectionCount++
		if sectionCount > maxSections {
			return nil, fmt.Errorf("exceeded maximum section count %d", maxSections)
		}

		sectionID, err := readByte(r)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read section ID: %w", err)
		}

		size, err := readLEB128(r)
		if err != nil {
			return nil, fmt.Errorf("read section size: %w", err)
		}

		if int64(size) > int64(r.Len()) {
			return nil, fmt.Errorf("section %d size %d exceeds remaining %d bytes", sectionCount, size, r.Len())
		}

		sectionData := make([]byte, size)
		if _, err := io.ReadFull(r, sectionData); err != nil {
			return nil, fmt.Errorf("read section data: %w", err)
		}

		switch sectionID {
		case sectionCustom:
			cs, err := decodeCustomSection(sectionData)
			if err != nil {
				return nil, fmt.Errorf("decode custom section: %w", err)
			}
			bin.CustomSections = append(bin.CustomSections, cs)
		case sectionCoreModule:
			bin.CoreModules++
		case sectionComponent:
			bin.Components++
		case sectionAlias, sectionType:
			bin.indexSections = append(bin.indexSections, rawSection{id: sectionID, data: sectionData})
		case sectionImport:
			imports, err := decodeImports(sectionData)
			if err != nil {
				return nil, fmt.Errorf("decode imports: %w", err)
			}
			bin.Imports = append(bin.Imports, imports...)
			bin.indexSections = append(bin.indexSections, rawSection{id: sectionID, data: sectionData})
		case sectionExport:
			exports, err := decodeExports(sectionData)
			if err != nil {
				return nil, fmt.Errorf("decode exports: %w", err)
			}
			bin.Exports = append(bin.Exports, exports...)
			bin.indexSections = append(bin.indexSections, rawSection{id: sectionID, data: sectionData})
		case sectionCoreInstance, sectionCoreType, sectionInstance, sectionCanon, sectionStart:
			// not needed for interface extraction
		default:
			return nil, fmt.Errorf("unknown section id %d", sectionID)
		}
	}

	return bin, nil
}

// IsWitPackage reports whether the binary is an encoded WIT package rather
// than a runnable component: no code, no imports, and only type exports.
func (b *Binary) IsWitPackage() bool {
	if b.CoreModules > 0 || b.Components > 0 || len(b.Imports) > 0 || len(b.Exports) == 0 {
		return false
	}
	for _, e := range b.Exports {
		if e.Sort != SortType {
			return false
		}
	}
	return true
}

// typeSpace replays the index-contributing sections and returns the
// top-level type index space. Entries that are not component or instance
// types are nil.
func (b *Binary) typeSpace() ([]*typeDecl, error) {
	var space []*typeDecl
	for _, s := range b.indexSections {
		switch s.id {
		case sectionType:
			types, err := parseTypeSection(s.data)
			if err != nil {
				return nil, fmt.Errorf("parse type section: %w", err)
			}
			space = append(space, types...)
		case sectionAlias:
			n, err := countTypeAliases(s.data)
			if err != nil {
				return nil, fmt.Errorf("parse alias section: %w", err)
			}
			for i := 0; i < n; i++ {
				space = append(space, nil)
			}
		case sectionImport:
			imports, err := decodeImports(s.data)
			if err != nil {
				return nil, err
			}
			for _, imp := range imports {
				if imp.ExternKind == ExternType {
					space = append(space, nil)
				}
			}
		case sectionExport:
			exports, err := decodeExports(s.data)
			if err != nil {
				return nil, err
			}
			// exporting a type introduces a new index for the same type
			for _, exp := range exports {
				if exp.Sort != SortType {
					continue
				}
				var t *typeDecl
				if int(exp.SortIndex) < len(space) {
					t = space[exp.SortIndex]
				}
				space = append(space, t)
			}
		}
	}
	return space, nil
}

func decodeCustomSection(data []byte) (CustomSection, error) {
	r := getReader(data)
	defer putReader(r)

	name, err := readName(r)
	if err != nil {
		return CustomSection{}, fmt.Errorf("read custom section name: %w", err)
	}

	remaining := make([]byte, r.Len())
	if _, err := io.ReadFull(r, remaining); err != nil && !errors.Is(err, io.EOF) {
		return CustomSection{}, fmt.Errorf("read custom section data: %w", err)
	}

	return CustomSection{
		Name: name,
		Data: remaining,
	}, nil
}

func decodeImports(data []byte) ([]Import, error) {
	r := getReader(data)
	defer putReader(r)

	count, err := readCount(r, "import")
	if err != nil {
		return nil, err
	}

	imports := make([]Import, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := readExternName(r)
		if err != nil {
			return nil, fmt.Errorf("import %d: %w", i, err)
		}
		desc, err := readExternDesc(r)
		if err != nil {
			return nil, fmt.Errorf("import %d: %w", i, err)
		}
		imports = append(imports, Import{
			Name:       name,
			ExternKind: desc.kind,
			TypeIndex:  desc.index,
		})
	}

	return imports, nil
}

func decodeExports(data []byte) ([]Export, error) {
	r := getReader(data)
	defer putReader(r)

	count, err := readCount(r, "export")
	if err != nil {
		return nil, err
	}

	exports := make([]Export, 0, count)
	for i := uint32(0); i < count; i++ {
		name, err := readExternName(r)
		if err != nil {
			return nil, fmt.Errorf("export %d: %w", i, err)
		}

		sort, err := readByte(r)
		if err != nil {
			return nil, fmt.Errorf("export %d: read sort: %w", i, err)
		}
		if sort == SortCore {
			if _, err := readByte(r); err != nil {
				return nil, fmt.Errorf("export %d: read core sort: %w", i, err)
			}
		}

		sortIndex, err := readLEB128(r)
		if err != nil {
			return nil, fmt.Errorf("export %d: read sort index: %w", i, err)
		}

		// optional ascribed type
		hasType, err := readByte(r)
		if err != nil {
			return nil, fmt.Errorf("export %d: read type ascription: %w", i, err)
		}
		if hasType == 0x01 {
			if _, err := readExternDesc(r); err != nil {
				return nil, fmt.Errorf("export %d: %w", i, err)
			}
		}

		exports = append(exports, Export{
			Name:      name,
			Sort:      sort,
			SortIndex: sortIndex,
		})
	}

	return exports, nil
}

// countTypeAliases returns how many aliases in an alias section introduce a
// type index.
func countTypeAliases(data []byte) (int, error) {
	r := getReader(data)
	defer putReader(r)

	count, err := readCount(r, "alias")
	if err != nil {
		return 0, err
	}
	n := 0
	for i := uint32(0); i < count; i++ {
		sort, err := readAlias(r)
		if err != nil {
			return 0, fmt.Errorf("alias %d: %w", i, err)
		}
		if sort == SortType {
			n++
		}
	}
	return n, nil
}

// readAlias reads one alias and returns its sort.
func readAlias(r *bytes.Reader) (byte, error) {
	sort, err := readByte(r)
	if err != nil {
		return 0, fmt.Errorf("read sort: %w", err)
	}
	if sort == SortCore {
		if _, err := readByte(r); err != nil {
			return 0, fmt.Errorf("read core sort: %w", err)
		}
	}

	target, err := readByte(r)
	if err != nil {
		return 0, fmt.Errorf("read target kind: %w", err)
	}

	switch target {
	case 0x00, 0x01: // instance export, core instance export
		if _, err := readLEB128(r); err != nil {
			return 0, fmt.Errorf("read instance idx: %w", err)
		}
		if _, err := readName(r); err != nil {
			return 0, fmt.Errorf("read export name: %w", err)
		}
	case 0x02: // outer
		if _, err := readLEB128(r); err != nil {
			return 0, fmt.Errorf("read outer count: %w", err)
		}
		if _, err := readLEB128(r); err != nil {
			return 0, fmt.Errorf("read outer index: %w", err)
		}
	default:
		return 0, fmt.Errorf("unknown alias target kind: 0x%02x", target)
	}
	return sort, nil
}
