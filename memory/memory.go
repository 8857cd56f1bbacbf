package memory

import "errors"

// DefaultLimit bounds the total number of bytes a single allocator hands out.
const DefaultLimit = 64 * 1024 * 1024

// alignment of every allocation returned by the heap.
const alignment = 8

var (
	// ErrOutOfBounds is returned when an access falls outside addressable memory.
	ErrOutOfBounds = errors.New("memory access out of bounds")

	// ErrDoubleFree is returned when a pointer that was already released is freed again.
	ErrDoubleFree = errors.New("pointer already freed")

	// ErrNotAllocated is returned when freeing a pointer the allocator never handed out.
	ErrNotAllocated = errors.New("pointer was not allocated")

	// ErrAllocationLimit is returned when an allocation would exceed the configured limit.
	ErrAllocationLimit = errors.New("allocation limit exceeded")

	// ErrUnsupported is returned by the linear allocator outside of wasm builds.
	ErrUnsupported = errors.New("linear memory is only available in wasm builds")
)

// Memory is the guest linear memory as seen by the region protocol. Addresses
// are 32-bit offsets; address 0 is never a valid allocation.
type Memory interface {
	// Allocate reserves size bytes and returns the address of the first one.
	Allocate(size uint32) (uint32, error)

	// Free releases an allocation made by Allocate. Freeing twice or freeing
	// an address that was never returned by Allocate fails.
	Free(ptr uint32) error

	// Read returns a copy of length bytes starting at addr.
	Read(addr, length uint32) ([]byte, error)

	// Write copies data into memory starting at addr.
	Write(addr uint32, data []byte) error

	// Check reports whether [addr, addr+length) is addressable.
	Check(addr, length uint32) error

	// Tag labels the live allocation at ptr. Free clears the label.
	Tag(ptr uint32, tag Tag) error

	// TagOf returns the label of the live allocation at ptr. ok is false
	// when ptr is not the start of a live allocation.
	TagOf(ptr uint32) (tag Tag, ok bool)
}

// Tag labels an allocation with what it holds. Untagged allocations carry
// TagNone.
type Tag uint8

const (
	// TagNone is the label of a fresh allocation.
	TagNone Tag = iota

	// TagRegionHeader marks an allocation holding a region header.
	TagRegionHeader
)

// Stats describes the live allocations of an allocator.
type Stats struct {
	// Allocations is the number of live allocations.
	Allocations int

	// Bytes is the number of bytes reserved by live allocations.
	Bytes uint64
}

func alignUp(n uint32) uint32 {
	return (n + alignment - 1) &^ (alignment - 1)
}
