package wit

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	werrors "github.com/wippyai/oci-wasm/errors"
)

const proxyJSON = `{
  "worlds": [
    {
      "name": "proxy",
      "imports": {
        "interface-1": {"interface": {"id": 1}},
        "interface-0": {"interface": 0},
        "log": {"function": {"name": "log", "kind": "freestanding", "params": [], "results": []}}
      },
      "exports": {
        "interface-2": {"interface": {"id": 2, "stability": {"unknown": null}}},
        "interface-9": {"interface": {"id": 9}}
      },
      "package": 1
    }
  ],
  "interfaces": [
    {"name": "streams", "types": {}, "functions": {}, "package": 0},
    {"name": "types", "types": {}, "functions": {}, "package": 1},
    {"name": "incoming-handler", "types": {}, "functions": {}, "package": 1},
    {"name": null, "types": {}, "functions": {}, "package": null}
  ],
  "types": [],
  "packages": [
    {"name": "wasi:io@0.2.0", "interfaces": {"streams": 0}, "worlds": {}},
    {"name": "wasi:http@0.2.0", "interfaces": {"types": 1, "incoming-handler": 2}, "worlds": {"proxy": 0}}
  ]
}`

func TestParseJSON(t *testing.T) {
	res, err := ParseJSON([]byte(proxyJSON))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}

	// interface-9 is dangling; the table is padded up to it with anonymous interfaces
	if len(res.Packages) != 2 || len(res.Interfaces) != 10 || len(res.Worlds) != 1 {
		t.Fatalf("graph sizes = %d/%d/%d, want 2/10/1", len(res.Packages), len(res.Interfaces), len(res.Worlds))
	}
	if pad := res.Interfaces[9]; pad.Name != "" || pad.Package != NoPackage {
		t.Errorf("padded interface = %+v, want anonymous", pad)
	}

	http := res.Packages[1]
	if http.Name.String() != "wasi:http@0.2.0" {
		t.Errorf("package name = %q", http.Name.String())
	}
	wantIfaces := []NamedInterface{{Name: "types", ID: 1}, {Name: "incoming-handler", ID: 2}}
	if diff := cmp.Diff(wantIfaces, http.Interfaces); diff != "" {
		t.Errorf("package interfaces mismatch (-want +got):\n%s", diff)
	}

	anon := res.Interfaces[3]
	if anon.Name != "" || anon.Package != NoPackage {
		t.Errorf("anonymous interface = %+v", anon)
	}

	w := res.Worlds[0]
	var imports []string
	for _, e := range w.Imports {
		imports = append(imports, e.Key.String())
	}
	if diff := cmp.Diff([]string{"interface-1", "interface-0", "log"}, imports); diff != "" {
		t.Errorf("import key order mismatch (-want +got):\n%s", diff)
	}
	if w.Imports[2].Item.Kind != ItemFunction {
		t.Errorf("log item kind = %v, want function", w.Imports[2].Item.Kind)
	}
	if id, ok := w.Exports[1].Key.Interface(); !ok || id != 9 {
		t.Errorf("dangling export key should be kept as interface-9, got %v", w.Exports[1].Key)
	}
}

func TestParseJSON_PlainNameLooksLikeReference(t *testing.T) {
	doc := `{"worlds":[{"name":"w","imports":{"interface-0":{"function":{}}},"exports":{}}],"interfaces":[],"packages":[]}`
	res, err := ParseJSON([]byte(doc))
	if err != nil {
		t.Fatalf("ParseJSON() error = %v", err)
	}
	key := res.Worlds[0].Imports[0].Key
	if name, ok := key.Name(); !ok || name != "interface-0" {
		t.Errorf("function item keyed interface-0 should stay a plain name, got %v", key)
	}
	if res.Worlds[0].Package != NoPackage {
		t.Errorf("world without package = %d, want NoPackage", res.Worlds[0].Package)
	}
}

func TestParseJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		path string
	}{
		{name: "syntax", doc: `{"worlds": [`},
		{name: "truncated", doc: `{"worlds": [{"name": "w"}`},
		{name: "bad package name", doc: `{"packages":[{"name":"nonsense"}]}`},
		{name: "dangling package", doc: `{"interfaces":[{"name":"i","package":1}],"packages":[{"name":"a:b"}]}`, path: "packages.1"},
		{name: "bad world item", doc: `{"worlds":[{"name":"w","imports":{"x":{"resource":1}}}]}`, path: "worlds.0.imports"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, werrors.ErrMalformedBinary) {
				t.Errorf("error = %v, want malformed_binary kind", err)
			}
			var e *werrors.Error
			if tt.path != "" && errors.As(err, &e) && strings.Join(e.Path, ".") != tt.path {
				t.Errorf("path = %v, want %s", e.Path, tt.path)
			}
		})
	}
}
