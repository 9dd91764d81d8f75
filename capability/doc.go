// Package capability derives the capability descriptor of a component or WIT
// package: the flat set of fully-qualified names it exports and imports.
//
// Extraction walks a wit.Resolve from one of two entry points:
//
//	FromWorld(res, world)   // a component's world: its exports and imports
//	FromPackage(res, pkg)   // a library: every world and interface it offers
//
// Each world key is resolved with Name. Keys that do not resolve (a dangling
// interface id, an interface whose package is gone, an anonymous interface)
// are left out of the result and logged at debug level; they never fail the
// extraction. The only hard failure is an unknown world or package id.
//
// Exports and imports are sets. Every serialized form (JSON, YAML, Sorted)
// lists them in lexicographic order, so descriptors of equal graphs serialize
// to identical bytes regardless of how the graph was built.
//
// The FromRaw* helpers decode a binary first and route it by shape; they
// report wrong_artifact_shape when the binary is of the other shape.
package capability
