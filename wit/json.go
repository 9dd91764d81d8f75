package wit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	bcawit "go.bytecodealliance.org/wit"

	"github.com/wippyai/oci-wasm/errors"
)

// DecodeJSON reads the JSON form of a resolved graph, as printed by
// `wasm-tools component wit --json`, and copies it into a Resolve. Key order
// of world and package mappings is preserved. Dangling interface references
// inside worlds are kept as ids past the declared interfaces; consumers
// decide what to do with them.
func DecodeJSON(r io.Reader) (*Resolve, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Load("read resolve JSON", err)
	}
	return ParseJSON(data)
}

// ParseJSON is DecodeJSON over a byte slice.
func ParseJSON(data []byte) (*Resolve, error) {
	// the bcawit decoder stops quietly at a truncated document
	if !json.Valid(data) {
		return nil, errors.MalformedBinary("parse resolve JSON", fmt.Errorf("invalid JSON"))
	}
	src, err := bcawit.DecodeJSON(bytes.NewReader(data))
	if err != nil {
		return nil, errors.MalformedBinary("parse resolve JSON", err)
	}
	return fromBCA(src)
}

// fromBCA copies a pointer-linked bcawit graph into the arena. Ids are the
// positions in the source slices, which are the indexes the JSON used.
func fromBCA(src *bcawit.Resolve) (*Resolve, error) {
	pkgIDs := make(map[*bcawit.Package]PackageID, len(src.Packages))
	for i, p := range src.Packages {
		if p != nil {
			pkgIDs[p] = PackageID(i)
		}
	}
	ifaceIDs := make(map[*bcawit.Interface]InterfaceID, len(src.Interfaces))
	for i, iface := range src.Interfaces {
		if iface != nil {
			ifaceIDs[iface] = InterfaceID(i)
		}
	}
	worldIDs := make(map[*bcawit.World]WorldID, len(src.Worlds))
	for i, w := range src.Worlds {
		if w != nil {
			worldIDs[w] = WorldID(i)
		}
	}

	res := &Resolve{
		Packages:   make([]*Package, 0, len(src.Packages)),
		Interfaces: make([]*Interface, 0, len(src.Interfaces)),
		Worlds:     make([]*World, 0, len(src.Worlds)),
	}

	for i, p := range src.Packages {
		// references past the package list leave empty or nil slots
		if p == nil || p.Name.Namespace == "" || p.Name.Package == "" {
			return nil, jsonError(fmt.Errorf("dangling package reference"), "packages", strconv.Itoa(i))
		}
		pkg := &Package{Name: PackageName{
			Namespace: p.Name.Namespace,
			Name:      p.Name.Package,
			Version:   p.Name.Version,
		}}
		for name, iface := range p.Interfaces.All() {
			id, ok := ifaceIDs[iface]
			if !ok {
				return nil, jsonError(fmt.Errorf("interface %s: unknown id", name), "packages", strconv.Itoa(i), "interfaces")
			}
			pkg.Interfaces = append(pkg.Interfaces, NamedInterface{Name: name, ID: id})
		}
		for name, w := range p.Worlds.All() {
			id, ok := worldIDs[w]
			if !ok {
				return nil, jsonError(fmt.Errorf("world %s: unknown id", name), "packages", strconv.Itoa(i), "worlds")
			}
			pkg.Worlds = append(pkg.Worlds, NamedWorld{Name: name, ID: id})
		}
		res.Packages = append(res.Packages, pkg)
	}

	for _, si := range src.Interfaces {
		iface := &Interface{Package: NoPackage}
		if si == nil {
			res.Interfaces = append(res.Interfaces, iface)
			continue
		}
		if si.Name != nil {
			iface.Name = *si.Name
		}
		if id, ok := pkgIDs[si.Package]; ok {
			iface.Package = id
		}
		res.Interfaces = append(res.Interfaces, iface)
	}

	for i, sw := range src.Worlds {
		if sw == nil {
			res.Worlds = append(res.Worlds, &World{Package: NoPackage})
			continue
		}
		w := &World{Name: sw.Name, Package: NoPackage}
		if id, ok := pkgIDs[sw.Package]; ok {
			w.Package = id
		}
		var err error
		if w.Imports, err = convertEntries(sw.Imports.All(), ifaceIDs); err != nil {
			return nil, jsonError(err, "worlds", strconv.Itoa(i), "imports")
		}
		if w.Exports, err = convertEntries(sw.Exports.All(), ifaceIDs); err != nil {
			return nil, jsonError(err, "worlds", strconv.Itoa(i), "exports")
		}
		res.Worlds = append(res.Worlds, w)
	}

	return res, nil
}

// convertEntries copies a world import or export mapping in key order.
func convertEntries(items iter.Seq2[string, bcawit.WorldItem], ifaceIDs map[*bcawit.Interface]InterfaceID) ([]WorldEntry, error) {
	var entries []WorldEntry
	for key, v := range items {
		item, err := convertItem(v, ifaceIDs)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		entries = append(entries, WorldEntry{Key: parseKey(key, item), Item: item})
	}
	return entries, nil
}

func convertItem(v bcawit.WorldItem, ifaceIDs map[*bcawit.Interface]InterfaceID) (WorldItem, error) {
	switch v := v.(type) {
	case *bcawit.InterfaceRef:
		if v == nil || v.Interface == nil {
			return WorldItem{}, fmt.Errorf("interface item without id")
		}
		id, ok := ifaceIDs[v.Interface]
		if !ok {
			return WorldItem{}, fmt.Errorf("interface item: unknown id")
		}
		return WorldItem{Kind: ItemInterface, Interface: id}, nil
	case *bcawit.Function:
		return WorldItem{Kind: ItemFunction}, nil
	case *bcawit.TypeDef:
		return WorldItem{Kind: ItemType}, nil
	default:
		return WorldItem{}, fmt.Errorf("unknown world item")
	}
}

// parseKey maps interface-N keys of interface items to interface references.
// Every other key is a plain name.
func parseKey(key string, item WorldItem) WorldKey {
	if item.Kind != ItemInterface {
		return NameKey(key)
	}
	rest, ok := strings.CutPrefix(key, interfaceKeyPrefix)
	if !ok {
		return NameKey(key)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return NameKey(key)
	}
	return InterfaceKey(InterfaceID(n))
}

func jsonError(cause error, path ...string) error {
	return errors.New(errors.PhaseDecode, errors.KindMalformedBinary).
		Path(path...).
		Detail("invalid resolve JSON").
		Cause(cause).
		Build()
}
