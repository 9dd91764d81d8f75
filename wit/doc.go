// Package wit holds the interface-resolution graph of a WebAssembly component
// or WIT package.
//
// The graph is an arena: packages, interfaces and worlds live in slices on
// Resolve and refer to each other by index (PackageID, InterfaceID, WorldID).
// An interface points back at its owning package by id, so the graph never
// holds a pointer cycle.
//
// A world's imports and exports are ordered lists of WorldEntry. Each entry is
// keyed by a WorldKey, which is either a reference to an interface node or a
// plain name with no interface behind it.
//
// Graphs come from the component decoder or from DecodeJSON, which reads the
// JSON form printed by `wasm-tools component wit --json`.
package wit
