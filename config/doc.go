// Package config builds the config envelope stored next to a wasm layer in
// an OCI artifact.
//
// A WasmConfig records when and by whom the artifact was made, the fixed
// wasm architecture, the runtime flavor (wasip1 for core modules, wasip2 for
// components), the digest of every layer, and for components the capability
// descriptor. ToConfig serializes it into the media-typed config blob a
// registry push needs.
package config
