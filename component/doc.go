// Package component decodes WebAssembly component binaries and binary WIT
// packages into a wit graph.
//
// Decode inspects the sections of a binary and yields one of two shapes:
//
//   - a component: a synthetic root:component package holding one world,
//     root, whose imports and exports mirror the component's top-level
//     imports and exports;
//   - a WIT package: every interface and world the package declares, with
//     the worlds' own imports and exports.
//
// Import and export names spelled ns:pkg/iface@version become references to
// interned interface nodes; any other name stays a plain name.
//
// Callers that expect one shape ask for it with Decoded.Component or
// Decoded.WitPackage and get a wrong_artifact_shape error otherwise.
package component
