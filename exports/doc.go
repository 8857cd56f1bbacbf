// Package exports defines the functions a contract module exports to the
// host: allocate, deallocate, instantiate, execute, query and the
// interface_version_8 marker. On wasm builds they are bound with
// //go:wasmexport and forward to the Handlers set by Register, usually an
// *entrypoint.Dispatcher registered by sdk.New.
package exports
