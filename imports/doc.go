/*
Package imports binds the functions a CosmWasm host provides to a contract in
the "env" module.

Two layers are exposed. Raw mirrors the import table one to one: every
argument is a region pointer or a small integer. Host is the typed capability
the rest of the SDK depends on; Bindings implements Host over any Raw by
marshaling arguments into regions and consuming the regions the host returns.

On wasm builds Wasm returns the //go:wasmimport table. Outside wasm the
returned table panics with ErrUnavailable, and tests pair Bindings with the
simulated host from the hostmock package instead:

	heap := memory.NewHeap(memory.HeapConfig{})
	raw, _ := hostmock.New(hostmock.Config{Memory: heap})
	host, _ := imports.New(imports.Config{Memory: heap, Raw: raw})

	value, found, err := host.DBRead([]byte("config"))
*/
package imports
