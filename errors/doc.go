// Package errors provides structured error types for oci-wasm.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries a human-readable detail, an optional path into the
// artifact (world name, layer index, key) and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExtract, errors.KindNotFound).
//		Path("world", "proxy").
//		Detail("world %q not found", "proxy").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseExtract, "world", "proxy")
//	err := errors.ShapeMismatch("expected exactly one layer, found 2")
//
// Callers branch on the category with the standard library:
//
//	if errors.Is(err, errors.ErrWrongArtifactShape) { ... }
package errors
