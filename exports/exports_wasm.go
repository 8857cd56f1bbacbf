//go:build wasm

package exports

//go:wasmexport allocate
func wasmAllocate(size uint32) uint32 { return Allocate(size) }

//go:wasmexport deallocate
func wasmDeallocate(ptr uint32) { Deallocate(ptr) }

//go:wasmexport instantiate
func wasmInstantiate(envPtr, infoPtr, msgPtr uint32) uint32 {
	return Instantiate(envPtr, infoPtr, msgPtr)
}

//go:wasmexport execute
func wasmExecute(envPtr, infoPtr, msgPtr uint32) uint32 {
	return Execute(envPtr, infoPtr, msgPtr)
}

//go:wasmexport query
func wasmQuery(envPtr, msgPtr uint32) uint32 { return Query(envPtr, msgPtr) }

// The host checks for this export to select the ABI version.
//
//go:wasmexport interface_version_8
func interfaceVersion8() {}
