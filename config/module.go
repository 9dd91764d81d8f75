package config

import (
	"context"
	"sort"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/oci-wasm/errors"
)

// ModuleInfo lists the functions a core module imports and exports. Imports
// are rendered module.name.
type ModuleInfo struct {
	Imports []string `json:"imports" yaml:"imports"`
	Exports []string `json:"exports" yaml:"exports"`
}

// InspectModule compiles a core module and lists its imported and exported
// functions, both sorted.
func InspectModule(ctx context.Context, raw []byte) (*ModuleInfo, error) {
	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfigInterpreter())
	defer rt.Close(ctx)

	compiled, err := rt.CompileModule(ctx, raw)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseConfig, errors.KindMalformedBinary, err, "invalid core module")
	}
	defer compiled.Close(ctx)

	info := &ModuleInfo{Imports: []string{}, Exports: []string{}}
	for _, fn := range compiled.ImportedFunctions() {
		module, name, _ := fn.Import()
		info.Imports = append(info.Imports, module+"."+name)
	}
	for name := range compiled.ExportedFunctions() {
		info.Exports = append(info.Exports, name)
	}
	sort.Strings(info.Imports)
	sort.Strings(info.Exports)
	return info, nil
}
