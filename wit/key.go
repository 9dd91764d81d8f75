package wit

import "strconv"

// KeyKind discriminates the two shapes of a WorldKey.
type KeyKind uint8

const (
	KeyInterface KeyKind = iota // reference to an interface node
	KeyName                     // plain name, no interface behind it
)

func (k KeyKind) String() string {
	switch k {
	case KeyInterface:
		return "interface"
	case KeyName:
		return "name"
	default:
		return "KeyKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// WorldKey keys an import or export of a world. It is a closed two-variant
// union: build one with InterfaceKey or NameKey and switch on Kind.
type WorldKey struct {
	name string
	id   InterfaceID
	kind KeyKind
}

// InterfaceKey returns a key referencing the interface node id.
func InterfaceKey(id InterfaceID) WorldKey {
	return WorldKey{kind: KeyInterface, id: id}
}

// NameKey returns a plain-name key.
func NameKey(name string) WorldKey {
	return WorldKey{kind: KeyName, name: name}
}

// Kind returns which variant the key holds.
func (k WorldKey) Kind() KeyKind { return k.kind }

// Interface returns the referenced interface id for KeyInterface keys.
func (k WorldKey) Interface() (InterfaceID, bool) {
	return k.id, k.kind == KeyInterface
}

// Name returns the plain name for KeyName keys.
func (k WorldKey) Name() (string, bool) {
	return k.name, k.kind == KeyName
}

// String renders the key the way the JSON graph form spells it:
// interface-N for references, the name itself otherwise.
func (k WorldKey) String() string {
	if k.kind == KeyInterface {
		return interfaceKeyPrefix + strconv.Itoa(int(k.id))
	}
	return k.name
}

const interfaceKeyPrefix = "interface-"
