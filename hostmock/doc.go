/*
Package hostmock provides a friendly pretend CosmWasm host.

It implements imports.Raw the way a VM does: argument regions are read out of
guest memory, the typed work is delegated to a backend (by default the
in-memory mock.Host), and results are written back as regions allocated in
guest memory and handed to the guest. No real chains were harmed in the
making of these tests.

Why use hostmock?

  - Exercise pointer-level code: region marshaling, ownership and freeing run
    exactly as they do inside a VM, against a simulated memory.Heap.
  - Inspect traffic: Calls lists every import in order.
  - Simulate failures: Fail traps every import (or only FailImport).

Quick start

	heap := memory.NewHeap(memory.HeapConfig{})
	backend := mock.New(mock.Config{})
	host, _ := hostmock.New(hostmock.Config{Memory: heap, Backend: backend})

	bindings, _ := imports.New(imports.Config{Memory: heap, Raw: host})
	_ = bindings.DBWrite([]byte("k"), []byte("v"))

	// Hand an entry point argument to the guest and collect its answer.
	msgPtr, _ := host.Put([]byte(`{"increment":{}}`))
	out, _ := host.Take(resultPtr)

Behavior

  - If Fail is true and Error is set, imports trap with that error.
  - If Fail is true and Error is nil, imports trap with ErrOperationFailed.
  - A trap is a panic carrying *Trap, the same way a VM unwinds the instance.
  - Address results that do not fit the destination region come back as an
    error message region, like on a real host.
*/
package hostmock
