// Package registry pushes and pulls wasm artifacts over an OCI target.
//
// An artifact is a manifest with exactly one application/wasm layer and a
// config blob of type application/vnd.wasm.config.v0+json. Pull and
// PullManifestAndConfig reject anything else with artifact_shape_mismatch
// before any layer or config is handed back, so nothing downstream tries to
// decode a foreign artifact.
//
// A Client wraps any oras.Target: a remote repository from NewRemote, or an
// in-memory store in tests.
package registry
