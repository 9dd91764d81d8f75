// Command oci-wasm inspects wasm components and WIT packages and moves them
// through OCI registries.
package main

func main() {
	Execute()
}
