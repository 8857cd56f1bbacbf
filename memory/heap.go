package memory

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// HeapConfig controls a simulated heap.
type HeapConfig struct {
	// Limit caps the total bytes of live allocations. Zero means DefaultLimit.
	Limit uint32
}

// Heap is a simulated linear memory. It behaves like the address space of a
// Wasm instance: a flat byte arena addressed by 32-bit offsets, where the
// first bytes are reserved so that 0 is never a valid pointer. Heap is used
// wherever the guest runs outside a Wasm VM, most notably in tests together
// with hostmock.
type Heap struct {
	sync.Mutex

	arena []byte
	limit uint32
	used  uint64

	// live maps allocation base -> reserved size.
	live map[uint32]uint32

	// freed holds released blocks available for reuse.
	freed map[uint32]uint32

	tags map[uint32]Tag
}

var _ Memory = (*Heap)(nil)

// NewHeap creates an empty simulated heap.
func NewHeap(cfg HeapConfig) *Heap {
	limit := cfg.Limit
	if limit == 0 {
		limit = DefaultLimit
	}

	return &Heap{
		arena: make([]byte, alignment),
		limit: limit,
		live:  make(map[uint32]uint32),
		freed: make(map[uint32]uint32),
		tags:  make(map[uint32]Tag),
	}
}

// Allocate reserves size bytes. Zero-size requests still reserve one byte so
// that every live allocation has its own address.
func (h *Heap) Allocate(size uint32) (uint32, error) {
	h.Lock()
	defer h.Unlock()

	reserved := alignUp(max(size, 1))
	if reserved < size {
		return 0, fmt.Errorf("%w: %d bytes requested", ErrAllocationLimit, size)
	}
	if h.used+uint64(reserved) > uint64(h.limit) {
		return 0, fmt.Errorf("%w: %d bytes requested, %d in use, limit %d", ErrAllocationLimit, size, h.used, h.limit)
	}

	if ptr, ok := h.reuse(reserved); ok {
		clear(h.arena[ptr : ptr+h.live[ptr]])
		h.used += uint64(h.live[ptr])
		return ptr, nil
	}

	base := uint64(len(h.arena))
	if base+uint64(reserved) > math.MaxUint32 {
		return 0, fmt.Errorf("%w: address space exhausted", ErrAllocationLimit)
	}

	h.arena = append(h.arena, make([]byte, reserved)...)
	ptr := uint32(base)
	h.live[ptr] = reserved
	h.used += uint64(reserved)
	return ptr, nil
}

// reuse picks the lowest freed block that fits.
func (h *Heap) reuse(reserved uint32) (uint32, bool) {
	candidates := make([]uint32, 0, len(h.freed))
	for ptr, size := range h.freed {
		if size >= reserved {
			candidates = append(candidates, ptr)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })
	ptr := candidates[0]
	h.live[ptr] = h.freed[ptr]
	delete(h.freed, ptr)
	return ptr, true
}

// Free releases the allocation starting at ptr.
func (h *Heap) Free(ptr uint32) error {
	h.Lock()
	defer h.Unlock()

	size, ok := h.live[ptr]
	if !ok {
		if _, freed := h.freed[ptr]; freed {
			return fmt.Errorf("%w: %d", ErrDoubleFree, ptr)
		}
		return fmt.Errorf("%w: %d", ErrNotAllocated, ptr)
	}

	delete(h.live, ptr)
	delete(h.tags, ptr)
	h.freed[ptr] = size
	h.used -= uint64(size)
	return nil
}

// Tag labels the live allocation at ptr.
func (h *Heap) Tag(ptr uint32, tag Tag) error {
	h.Lock()
	defer h.Unlock()

	if _, ok := h.live[ptr]; !ok {
		return fmt.Errorf("%w: %d", ErrNotAllocated, ptr)
	}
	if tag == TagNone {
		delete(h.tags, ptr)
		return nil
	}
	h.tags[ptr] = tag
	return nil
}

// TagOf returns the label of the live allocation at ptr.
func (h *Heap) TagOf(ptr uint32) (Tag, bool) {
	h.Lock()
	defer h.Unlock()

	if _, ok := h.live[ptr]; !ok {
		return TagNone, false
	}
	return h.tags[ptr], true
}

// Read returns a copy of length bytes at addr.
func (h *Heap) Read(addr, length uint32) ([]byte, error) {
	h.Lock()
	defer h.Unlock()

	if err := h.check(addr, length); err != nil {
		return nil, err
	}

	out := make([]byte, length)
	copy(out, h.arena[addr:uint64(addr)+uint64(length)])
	return out, nil
}

// Write copies data into the arena at addr.
func (h *Heap) Write(addr uint32, data []byte) error {
	h.Lock()
	defer h.Unlock()

	if uint64(len(data)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", ErrOutOfBounds, len(data))
	}
	if err := h.check(addr, uint32(len(data))); err != nil {
		return err
	}

	copy(h.arena[addr:], data)
	return nil
}

// Check reports whether [addr, addr+length) lies inside the arena.
func (h *Heap) Check(addr, length uint32) error {
	h.Lock()
	defer h.Unlock()

	return h.check(addr, length)
}

func (h *Heap) check(addr, length uint32) error {
	if addr < alignment {
		return fmt.Errorf("%w: address %d is in the null page", ErrOutOfBounds, addr)
	}

	end := uint64(addr) + uint64(length)
	if end > uint64(len(h.arena)) {
		return fmt.Errorf("%w: [%d, %d) exceeds memory size %d", ErrOutOfBounds, addr, end, len(h.arena))
	}
	return nil
}

// Stats reports the live allocations.
func (h *Heap) Stats() Stats {
	h.Lock()
	defer h.Unlock()

	return Stats{Allocations: len(h.live), Bytes: h.used}
}

// Size returns the current size of the arena in bytes.
func (h *Heap) Size() uint32 {
	h.Lock()
	defer h.Unlock()

	return uint32(len(h.arena))
}
