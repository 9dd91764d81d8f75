package wit

import (
	"fmt"
	"strings"

	"github.com/coreos/go-semver/semver"
	bcawit "go.bytecodealliance.org/wit"
)

// PackageName identifies a package: namespace, name and optional version.
type PackageName struct {
	Version   *semver.Version
	Namespace string
	Name      string
}

// String renders ns:name or ns:name@version.
func (n PackageName) String() string {
	s := n.Namespace + ":" + n.Name
	if n.Version != nil {
		s += "@" + n.Version.String()
	}
	return s
}

// Qualify renders the fully-qualified name of an item (interface or world)
// declared in the package: ns:name/item, followed by @version when the
// package is versioned.
func (n PackageName) Qualify(item string) string {
	var b strings.Builder
	b.WriteString(n.Namespace)
	b.WriteByte(':')
	b.WriteString(n.Name)
	b.WriteByte('/')
	b.WriteString(item)
	if n.Version != nil {
		b.WriteByte('@')
		b.WriteString(n.Version.String())
	}
	return b.String()
}

// Equal reports whether two names denote the same package.
func (n PackageName) Equal(o PackageName) bool {
	if n.Namespace != o.Namespace || n.Name != o.Name {
		return false
	}
	if n.Version == nil || o.Version == nil {
		return n.Version == nil && o.Version == nil
	}
	return n.Version.Equal(*o.Version)
}

// ParsePackageName parses ns:name or ns:name@version.
func ParsePackageName(s string) (PackageName, error) {
	base, ver, hasVer := strings.Cut(s, "@")
	ns, name, ok := strings.Cut(base, ":")
	if !ok || ns == "" || name == "" || strings.Contains(name, "/") {
		return PackageName{}, fmt.Errorf("invalid package name %q", s)
	}
	pn := PackageName{Namespace: ns, Name: name}
	if hasVer {
		v, err := semver.NewVersion(ver)
		if err != nil {
			return PackageName{}, fmt.Errorf("package %q: %w", s, err)
		}
		pn.Version = v
	}
	return pn, nil
}

// ParseQualifiedName splits ns:pkg/item or ns:pkg/item@version into the
// package name and the item. A name without an item part is an error.
func ParseQualifiedName(s string) (PackageName, string, error) {
	id, err := bcawit.ParseIdent(s)
	if err != nil {
		return PackageName{}, "", err
	}
	if id.Extension == "" {
		return PackageName{}, "", fmt.Errorf("%q names a package, not an item", s)
	}
	return PackageName{Namespace: id.Namespace, Name: id.Package, Version: id.Version}, id.Extension, nil
}
