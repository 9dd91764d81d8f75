package component

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/oci-wasm/errors"
	"github.com/wippyai/oci-wasm/internal/wasmtest"
	"github.com/wippyai/oci-wasm/wit"
)

func TestIsComponent(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{
			name:     "valid component header",
			data:     []byte{0x00, 0x61, 0x73, 0x6D, 0x0D, 0x00, 0x01, 0x00},
			expected: true,
		},
		{
			name:     "core wasm module (version 1)",
			data:     []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00},
			expected: false,
		},
		{
			name:     "too short",
			data:     []byte{0x00, 0x61, 0x73},
			expected: false,
		},
		{
			name:     "invalid magic",
			data:     []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x0D, 0x00, 0x01, 0x00},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsComponent(tt.data); got != tt.expected {
				t.Errorf("IsComponent() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestScan(t *testing.T) {
	data := wasmtest.Component(
		wasmtest.Section(0, wasmtest.Cat(wasmtest.Name("producers"), []byte{1, 2, 3})),
		wasmtest.CoreModuleSection(),
		wasmtest.TypeSection(wasmtest.InstanceType()),
		wasmtest.ImportSection(
			wasmtest.Extern{Name: "wasi:io/streams@0.2.0", Kind: wasmtest.KindInstance},
			wasmtest.Extern{Name: "log", Kind: wasmtest.KindFunc, Index: 3},
		),
		wasmtest.ExportSection(wasmtest.Extern{Name: "run", Kind: wasmtest.KindFunc, Index: 1}),
	)

	bin, err := Scan(data)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if bin.CoreModules != 1 {
		t.Errorf("CoreModules = %d, want 1", bin.CoreModules)
	}
	wantImports := []Import{
		{Name: "wasi:io/streams@0.2.0", ExternKind: ExternInstance},
		{Name: "log", ExternKind: ExternFunc, TypeIndex: 3},
	}
	if diff := cmp.Diff(wantImports, bin.Imports); diff != "" {
		t.Errorf("Imports mismatch (-want +got):\n%s", diff)
	}
	wantExports := []Export{{Name: "run", Sort: SortFunc, SortIndex: 1}}
	if diff := cmp.Diff(wantExports, bin.Exports); diff != "" {
		t.Errorf("Exports mismatch (-want +got):\n%s", diff)
	}
	if len(bin.CustomSections) != 1 || bin.CustomSections[0].Name != "producers" {
		t.Fatalf("CustomSections = %+v, want one producers section", bin.CustomSections)
	}
	if !bytes.Equal(bin.CustomSections[0].Data, []byte{1, 2, 3}) {
		t.Errorf("custom data = %v, want [1 2 3]", bin.CustomSections[0].Data)
	}
	if bin.IsWitPackage() {
		t.Error("IsWitPackage() = true for a component with code")
	}
}

func TestScanInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{
			name: "not a component",
			data: []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00},
		},
		{
			name: "truncated section",
			data: []byte{0x00, 0x61, 0x73, 0x6D, 0x0D, 0x00, 0x01, 0x00, 0x01},
		},
		{
			name: "section larger than input",
			data: []byte{0x00, 0x61, 0x73, 0x6D, 0x0D, 0x00, 0x01, 0x00, 0x0A, 0x7F, 0x00},
		},
		{
			name: "unknown section",
			data: wasmtest.Component(wasmtest.Section(0x2A, nil)),
		},
		{
			name: "import name overruns section",
			data: wasmtest.Component(wasmtest.Section(10, []byte{0x01, 0x00, 0x40, 'a'})),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Scan(tt.data); err == nil {
				t.Error("Scan() error = nil, want error")
			}
		})
	}
}

func TestDecodeComponent(t *testing.T) {
	data := wasmtest.Component(
		wasmtest.CoreModuleSection(),
		wasmtest.TypeSection(wasmtest.InstanceType(), wasmtest.FuncType()),
		wasmtest.ImportSection(
			wasmtest.Extern{Name: "wasi:cli/environment@0.2.0", Kind: wasmtest.KindInstance},
			wasmtest.Extern{Name: "wasi:io/streams@0.2.0", Kind: wasmtest.KindInstance},
			wasmtest.Extern{Name: "host", Kind: wasmtest.KindInstance},
			wasmtest.Extern{Name: "log", Kind: wasmtest.KindFunc, Index: 1},
			wasmtest.Extern{Name: "inner", Kind: wasmtest.KindCoreModule},
		),
		wasmtest.ExportSection(
			wasmtest.Extern{Name: "wasi:http/incoming-handler@0.2.0", Kind: wasmtest.KindInstance},
			wasmtest.Extern{Name: "run", Kind: wasmtest.KindFunc},
		),
	)

	d, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if d.Kind != KindComponent {
		t.Fatalf("Kind = %v, want %v", d.Kind, KindComponent)
	}

	res, wid, err := d.Component()
	if err != nil {
		t.Fatalf("Component() error = %v", err)
	}
	world, ok := res.World(wid)
	if !ok {
		t.Fatal("designated world missing")
	}
	if world.Name != RootWorld {
		t.Errorf("world name = %q, want %q", world.Name, RootWorld)
	}
	pkg, _ := res.Package(world.Package)
	if got := pkg.Name.String(); got != "root:component" {
		t.Errorf("package = %q, want root:component", got)
	}

	// core module import is dropped
	if len(world.Imports) != 4 {
		t.Fatalf("imports = %d, want 4", len(world.Imports))
	}
	wantImports := []string{"wasi:cli/environment@0.2.0", "wasi:io/streams@0.2.0", "host", "log"}
	for i, e := range world.Imports {
		if got := entryName(res, e); got != wantImports[i] {
			t.Errorf("import %d = %q, want %q", i, got, wantImports[i])
		}
	}
	if k := world.Imports[2].Key.Kind(); k != wit.KeyName {
		t.Errorf("inline instance key kind = %v, want %v", k, wit.KeyName)
	}
	if k := world.Imports[3].Item.Kind; k != wit.ItemFunction {
		t.Errorf("func import item kind = %v, want function", k)
	}

	wantExports := []string{"wasi:http/incoming-handler@0.2.0", "run"}
	for i, e := range world.Exports {
		if got := entryName(res, e); got != wantExports[i] {
			t.Errorf("export %d = %q, want %q", i, got, wantExports[i])
		}
	}

	if _, _, err := d.WitPackage(); errors.KindOf(err) != errors.KindWrongArtifactShape {
		t.Errorf("WitPackage() error = %v, want wrong_artifact_shape", err)
	}
}

func TestDecodeComponentInternsPackages(t *testing.T) {
	data := wasmtest.SimpleComponent(
		[]string{"wasi:io/error@0.2.0", "wasi:io/streams@0.2.0", "wasi:io/poll@0.2.0"},
		[]string{"wasi:io/streams@0.2.0"},
	)

	d, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	id, ok := d.Resolve.PackageByName(mustPackage(t, "wasi:io@0.2.0"))
	if !ok {
		t.Fatal("wasi:io@0.2.0 not interned")
	}
	pkg, _ := d.Resolve.Package(id)
	if len(pkg.Interfaces) != 3 {
		t.Errorf("wasi:io interfaces = %d, want 3", len(pkg.Interfaces))
	}
	// root:component plus wasi:io
	if len(d.Resolve.Packages) != 2 {
		t.Errorf("packages = %d, want 2", len(d.Resolve.Packages))
	}

	world, _ := d.Resolve.World(d.World)
	imp, _ := world.Imports[1].Key.Interface()
	exp, _ := world.Exports[0].Key.Interface()
	if imp != exp {
		t.Errorf("streams import id %d != export id %d", imp, exp)
	}
}

func TestDecodeWitPackage(t *testing.T) {
	data := wasmtest.WitPackage(
		[]string{"wasi:http/types@0.2.0", "wasi:http/incoming-handler@0.2.0"},
		[]wasmtest.World{{
			Name:    "wasi:http/proxy@0.2.0",
			Imports: []string{"wasi:io/streams@0.2.0", "wasi:http/types@0.2.0"},
			Exports: []string{"wasi:http/incoming-handler@0.2.0"},
			Funcs:   []string{"run"},
		}},
	)

	d, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if d.Kind != KindPackage {
		t.Fatalf("Kind = %v, want %v", d.Kind, KindPackage)
	}

	res, pid, err := d.WitPackage()
	if err != nil {
		t.Fatalf("WitPackage() error = %v", err)
	}
	pkg, ok := res.Package(pid)
	if !ok {
		t.Fatal("designated package missing")
	}
	if got := pkg.Name.String(); got != "wasi:http@0.2.0" {
		t.Errorf("package = %q, want wasi:http@0.2.0", got)
	}

	var ifaces []string
	for _, ni := range pkg.Interfaces {
		ifaces = append(ifaces, ni.Name)
	}
	if diff := cmp.Diff([]string{"types", "incoming-handler"}, ifaces); diff != "" {
		t.Errorf("interfaces mismatch (-want +got):\n%s", diff)
	}

	wid, ok := pkg.World("proxy")
	if !ok {
		t.Fatal("world proxy missing")
	}
	world, _ := res.World(wid)

	var imports, exports []string
	for _, e := range world.Imports {
		imports = append(imports, entryName(res, e))
	}
	for _, e := range world.Exports {
		exports = append(exports, entryName(res, e))
	}
	if diff := cmp.Diff([]string{"wasi:io/streams@0.2.0", "wasi:http/types@0.2.0"}, imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"wasi:http/incoming-handler@0.2.0", "run"}, exports); diff != "" {
		t.Errorf("exports mismatch (-want +got):\n%s", diff)
	}

	// the world refers to the interface nodes the package declares
	declared, _ := pkg.Interface("types")
	if got, _ := world.Imports[1].Key.Interface(); got != declared {
		t.Errorf("types import id = %d, want %d", got, declared)
	}

	if _, _, err := d.Component(); errors.KindOf(err) != errors.KindWrongArtifactShape {
		t.Errorf("Component() error = %v, want wrong_artifact_shape", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want errors.Kind
	}{
		{name: "core module", data: wasmtest.Module(), want: errors.KindMalformedBinary},
		{name: "garbage", data: []byte("not wasm at all"), want: errors.KindMalformedBinary},
		{name: "empty", data: nil, want: errors.KindMalformedBinary},
		{
			name: "package export of a non-component type",
			data: wasmtest.Component(
				wasmtest.TypeSection(wasmtest.FuncType()),
				wasmtest.ExportSection(wasmtest.Extern{Name: "f", Kind: wasmtest.KindType}),
			),
			want: errors.KindMalformedBinary,
		},
		{
			name: "package export with unqualified name",
			data: wasmtest.Component(
				wasmtest.TypeSection(wasmtest.ComponentType(
					wasmtest.TypeDecl(wasmtest.InstanceType()),
					wasmtest.ExportDecl("plain", wasmtest.KindInstance, 0),
				)),
				wasmtest.ExportSection(wasmtest.Extern{Name: "plain", Kind: wasmtest.KindType}),
			),
			want: errors.KindMalformedBinary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("Decode() error = nil, want error")
			}
			if got := errors.KindOf(err); got != tt.want {
				t.Errorf("KindOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	const graph = `{
  "worlds": [
    {"name": "proxy", "imports": {}, "exports": {"interface-0": {"interface": {"id": 0}}}, "package": 0},
    {"name": "root", "imports": {}, "exports": {"run": {"function": {}}}, "package": 1}
  ],
  "interfaces": [{"name": "incoming-handler", "package": 0}],
  "packages": [
    {"name": "wasi:http@0.2.0", "interfaces": {"incoming-handler": 0}, "worlds": {"proxy": 0}},
    {"name": "root:component", "interfaces": {}, "worlds": {"root": 1}}
  ]
}`

	t.Run("root component", func(t *testing.T) {
		d, err := DecodeJSON([]byte(graph), "")
		if err != nil {
			t.Fatalf("DecodeJSON() error = %v", err)
		}
		if d.Kind != KindComponent || d.World != 1 {
			t.Errorf("got kind %v world %d, want component world 1", d.Kind, d.World)
		}
	})

	t.Run("named world", func(t *testing.T) {
		d, err := DecodeJSON([]byte(graph), "proxy")
		if err != nil {
			t.Fatalf("DecodeJSON() error = %v", err)
		}
		if d.Kind != KindComponent || d.World != 0 {
			t.Errorf("got kind %v world %d, want component world 0", d.Kind, d.World)
		}
	})

	t.Run("missing world", func(t *testing.T) {
		_, err := DecodeJSON([]byte(graph), "nope")
		if got := errors.KindOf(err); got != errors.KindNotFound {
			t.Errorf("KindOf() = %q, want %q", got, errors.KindNotFound)
		}
	})

	t.Run("package", func(t *testing.T) {
		const pkgOnly = `{
  "worlds": [],
  "interfaces": [{"name": "streams", "package": 0}],
  "packages": [{"name": "wasi:io@0.2.0", "interfaces": {"streams": 0}, "worlds": {}}]
}`
		d, err := DecodeJSON([]byte(pkgOnly), "")
		if err != nil {
			t.Fatalf("DecodeJSON() error = %v", err)
		}
		if d.Kind != KindPackage || d.Package != 0 {
			t.Errorf("got kind %v package %d, want package 0", d.Kind, d.Package)
		}
	})
}

func entryName(res *wit.Resolve, e wit.WorldEntry) string {
	if name, ok := e.Key.Name(); ok {
		return name
	}
	id, _ := e.Key.Interface()
	iface, ok := res.Interface(id)
	if !ok {
		return ""
	}
	pkg, ok := res.Package(iface.Package)
	if !ok {
		return ""
	}
	return pkg.Name.Qualify(iface.Name)
}

func mustPackage(t *testing.T, s string) wit.PackageName {
	t.Helper()
	n, err := wit.ParsePackageName(s)
	if err != nil {
		t.Fatal(err)
	}
	return n
}
