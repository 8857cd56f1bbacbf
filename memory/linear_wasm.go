//go:build wasm

package memory

import (
	"fmt"
	"unsafe"
)

// linear hands out Go-managed buffers as linear memory addresses. Buffers are
// pinned in a map keyed by their address so the garbage collector cannot
// reclaim them while the host still refers to them.
type linear struct {
	limit  uint64
	used   uint64
	pinned map[uint32][]byte
	freed  map[uint32]struct{}
	tags   map[uint32]Tag
}

var defaultLinear = &linear{
	limit:  DefaultLimit,
	pinned: make(map[uint32][]byte),
	freed:  make(map[uint32]struct{}),
	tags:   make(map[uint32]Tag),
}

// Linear returns the allocator backed by the instance's real linear memory.
func Linear() Memory { return defaultLinear }

func (l *linear) Allocate(size uint32) (uint32, error) {
	reserved := uint64(max(size, 1))
	if l.used+reserved > l.limit {
		return 0, fmt.Errorf("%w: %d bytes requested, %d in use, limit %d", ErrAllocationLimit, size, l.used, l.limit)
	}

	buf := make([]byte, reserved)
	ptr := uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
	l.pinned[ptr] = buf
	delete(l.freed, ptr)
	l.used += reserved
	return ptr, nil
}

func (l *linear) Free(ptr uint32) error {
	buf, ok := l.pinned[ptr]
	if !ok {
		if _, freed := l.freed[ptr]; freed {
			return fmt.Errorf("%w: %d", ErrDoubleFree, ptr)
		}
		return fmt.Errorf("%w: %d", ErrNotAllocated, ptr)
	}

	delete(l.pinned, ptr)
	delete(l.tags, ptr)
	l.freed[ptr] = struct{}{}
	l.used -= uint64(len(buf))
	return nil
}

func (l *linear) Tag(ptr uint32, tag Tag) error {
	if _, ok := l.pinned[ptr]; !ok {
		return fmt.Errorf("%w: %d", ErrNotAllocated, ptr)
	}
	if tag == TagNone {
		delete(l.tags, ptr)
		return nil
	}
	l.tags[ptr] = tag
	return nil
}

func (l *linear) TagOf(ptr uint32) (Tag, bool) {
	if _, ok := l.pinned[ptr]; !ok {
		return TagNone, false
	}
	return l.tags[ptr], true
}

func (l *linear) Read(addr, length uint32) ([]byte, error) {
	if err := l.Check(addr, length); err != nil {
		return nil, err
	}

	out := make([]byte, length)
	copy(out, l.view(addr, length))
	return out, nil
}

func (l *linear) Write(addr uint32, data []byte) error {
	if err := l.Check(addr, uint32(len(data))); err != nil {
		return err
	}

	copy(l.view(addr, uint32(len(data))), data)
	return nil
}

// Check accepts ranges that lie inside a single pinned allocation. Every
// buffer exchanged with the host is allocated through this allocator.
func (l *linear) Check(addr, length uint32) error {
	if addr == 0 {
		return fmt.Errorf("%w: null address", ErrOutOfBounds)
	}

	if buf, ok := l.pinned[addr]; ok {
		if uint64(length) <= uint64(len(buf)) {
			return nil
		}
		return fmt.Errorf("%w: %d bytes at %d exceed allocation of %d", ErrOutOfBounds, length, addr, len(buf))
	}

	end := uint64(addr) + uint64(length)
	for base, buf := range l.pinned {
		if addr > base && end <= uint64(base)+uint64(len(buf)) {
			return nil
		}
	}
	return fmt.Errorf("%w: [%d, %d) is not inside a live allocation", ErrOutOfBounds, addr, end)
}

func (l *linear) view(addr, length uint32) []byte {
	if length == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), length)
}
