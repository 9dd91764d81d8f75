// Package ociwasm describes WebAssembly components and WIT packages as OCI
// artifacts.
//
// The heart of the library is the capability descriptor: a flat, sorted
// summary of the fully-qualified interfaces a component imports and exports,
// derived from the interface graph embedded in its binary.
//
// # Architecture Overview
//
//	ociwasm/           Root package with media type and platform constants
//	├── wit/           Arena-based interface-resolution graph and its JSON form
//	├── component/     Component and WIT package binary decoding into a wit graph
//	├── capability/    Name resolution and descriptor extraction
//	├── config/        OCI config envelope carrying the descriptor
//	├── registry/      Push and pull of wasm artifacts over an OCI target
//	├── errors/        Structured error types
//	├── internal/      Test encoders for component binaries
//	└── cmd/oci-wasm/  Command line front end
//
// # Quick Start
//
// Extract the descriptor of a component:
//
//	desc, err := capability.FromRawComponent(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(desc.Exports.Sorted())
//
// Build a config envelope and push it:
//
//	cfg, layer, err := config.FromRawComponent(data, nil)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, ref, err := registry.NewRemote("ghcr.io/acme/hello:0.1.0", registry.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_, err = client.Push(ctx, ref, layer, cfg, nil)
//
// # Determinism
//
// Exports and imports are sets. Every serialized form (JSON, YAML, tables)
// lists them sorted, so two extractions over equivalent graphs produce
// byte-identical config blobs apart from the creation time.
//
// # Thread Safety
//
// Extraction never mutates its input graph. Concurrent extractions over the
// same graph are safe. Graph construction helpers are not synchronized.
package ociwasm
