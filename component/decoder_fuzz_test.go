package component

import (
	"testing"

	"github.com/wippyai/oci-wasm/internal/wasmtest"
)

func FuzzDecode(f *testing.F) {
	// Add valid component as seed
	f.Add([]byte{0x00, 0x61, 0x73, 0x6D, 0x0D, 0x00, 0x01, 0x00})

	// Add core wasm module as seed
	f.Add([]byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00})

	// Add truncated data
	f.Add([]byte{0x00, 0x61, 0x73})

	f.Add(wasmtest.SimpleComponent([]string{"wasi:io/streams@0.2.0"}, []string{"wasi:http/incoming-handler@0.2.0"}))
	f.Add(wasmtest.WitPackage(
		[]string{"wasi:io/streams@0.2.0"},
		[]wasmtest.World{{Name: "wasi:io/w", Imports: []string{"wasi:io/streams@0.2.0"}}},
	))

	f.Fuzz(func(t *testing.T, data []byte) {
		// Fuzzing should not panic
		Decode(data)
	})
}

func FuzzIsComponent(f *testing.F) {
	f.Add([]byte{0x00, 0x61, 0x73, 0x6D, 0x0D, 0x00, 0x01, 0x00})
	f.Add([]byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00})
	f.Add([]byte{})
	f.Add([]byte{0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		// Fuzzing should not panic
		IsComponent(data)
	})
}
