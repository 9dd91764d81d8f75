package ociwasm

// Media types of a wasm OCI artifact. A pulled artifact whose manifest, config
// or layer does not carry these is rejected before anything is decoded.
const (
	ManifestMediaType       = "application/vnd.oci.image.manifest.v1+json"
	ManifestConfigMediaType = "application/vnd.wasm.config.v0+json"
	LayerMediaType          = "application/wasm"
)

// Architecture is the only architecture a wasm artifact declares.
const Architecture = "wasm"

// OS values. Plain core modules use wasip1 because the field must match a
// GOOS value and plain wasm has none; components use wasip2.
const (
	ModuleOS    = "wasip1"
	ComponentOS = "wasip2"
)
