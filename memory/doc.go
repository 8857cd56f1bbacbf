/*
Package memory models the linear memory shared by a CosmWasm guest and its
host.

Two allocators implement Memory:

  - Linear returns the real allocator of a wasm build. It pins Go buffers by
    address until they are freed, so the host can keep referring to them.
  - Heap is a simulated linear memory that works in any build. Tests pair it
    with hostmock to exercise the full pointer-level protocol without a VM.

Both allocators track ownership: freeing a pointer twice fails with
ErrDoubleFree and freeing a pointer that was never handed out fails with
ErrNotAllocated, instead of corrupting the allocator state.
*/
package memory
