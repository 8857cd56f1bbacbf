package memory

import (
	"bytes"
	"errors"
	"testing"
)

func TestHeapAllocate(t *testing.T) {
	tt := []struct {
		name    string
		limit   uint32
		size    uint32
		wantErr error
	}{
		{name: "small", size: 16},
		{name: "zero size", size: 0},
		{name: "unaligned", size: 13},
		{name: "over limit", limit: 64, size: 65, wantErr: ErrAllocationLimit},
		{name: "overflowing size", size: 0xFFFFFFFF, wantErr: ErrAllocationLimit},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHeap(HeapConfig{Limit: tc.limit})
			ptr, err := h.Allocate(tc.size)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}
			if ptr == 0 {
				t.Fatalf("expected non-null pointer")
			}
			if ptr%alignment != 0 {
				t.Fatalf("expected aligned pointer, got %d", ptr)
			}
			if err := h.Check(ptr, tc.size); err != nil {
				t.Fatalf("allocated range not addressable: %v", err)
			}
		})
	}
}

func TestHeapDistinctZeroSizeAllocations(t *testing.T) {
	h := NewHeap(HeapConfig{})
	a, err := h.Allocate(0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	b, err := h.Allocate(0)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct pointers, got %d twice", a)
	}
}

func TestHeapFree(t *testing.T) {
	h := NewHeap(HeapConfig{})
	ptr, err := h.Allocate(32)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	t.Run("First free", func(t *testing.T) {
		if err := h.Free(ptr); err != nil {
			t.Fatalf("Free returned error: %v", err)
		}
		if got := h.Stats().Allocations; got != 0 {
			t.Fatalf("expected no live allocations, got %d", got)
		}
	})

	t.Run("Double free", func(t *testing.T) {
		if err := h.Free(ptr); !errors.Is(err, ErrDoubleFree) {
			t.Fatalf("expected ErrDoubleFree, got %v", err)
		}
	})

	t.Run("Unknown pointer", func(t *testing.T) {
		if err := h.Free(ptr + 1); !errors.Is(err, ErrNotAllocated) {
			t.Fatalf("expected ErrNotAllocated, got %v", err)
		}
	})

	t.Run("Reuse after free", func(t *testing.T) {
		again, err := h.Allocate(16)
		if err != nil {
			t.Fatalf("Allocate returned error: %v", err)
		}
		if again != ptr {
			t.Fatalf("expected freed block %d to be reused, got %d", ptr, again)
		}
		if err := h.Free(again); err != nil {
			t.Fatalf("Free of reused block returned error: %v", err)
		}
	})
}

func TestHeapReadWrite(t *testing.T) {
	h := NewHeap(HeapConfig{})
	ptr, err := h.Allocate(8)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	tt := []struct {
		name    string
		addr    uint32
		data    []byte
		wantErr error
	}{
		{name: "in bounds", addr: ptr, data: []byte("abcdefgh")},
		{name: "empty", addr: ptr, data: nil},
		{name: "null page", addr: 0, data: []byte("x"), wantErr: ErrOutOfBounds},
		{name: "past end", addr: h.Size() - 2, data: []byte("abcd"), wantErr: ErrOutOfBounds},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			err := h.Write(tc.addr, tc.data)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}

			got, err := h.Read(tc.addr, uint32(len(tc.data)))
			if err != nil {
				t.Fatalf("Read returned error: %v", err)
			}
			if !bytes.Equal(got, tc.data) && len(tc.data) > 0 {
				t.Fatalf("expected %q, got %q", tc.data, got)
			}
		})
	}
}

func TestHeapReadReturnsCopy(t *testing.T) {
	h := NewHeap(HeapConfig{})
	ptr, _ := h.Allocate(4)
	_ = h.Write(ptr, []byte("abcd"))

	got, _ := h.Read(ptr, 4)
	got[0] = 'z'

	again, _ := h.Read(ptr, 4)
	if string(again) != "abcd" {
		t.Fatalf("mutating a read buffer changed memory: %q", again)
	}
}

func TestHeapTags(t *testing.T) {
	h := NewHeap(HeapConfig{})
	ptr, err := h.Allocate(16)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	if tag, ok := h.TagOf(ptr); !ok || tag != TagNone {
		t.Fatalf("expected a fresh allocation to be untagged, got %d, %v", tag, ok)
	}
	if err := h.Tag(ptr, TagRegionHeader); err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	if tag, ok := h.TagOf(ptr); !ok || tag != TagRegionHeader {
		t.Fatalf("expected TagRegionHeader, got %d, %v", tag, ok)
	}

	tt := []struct {
		name string
		ptr  uint32
	}{
		{name: "interior pointer", ptr: ptr + 8},
		{name: "unknown pointer", ptr: 1 << 20},
	}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if err := h.Tag(tc.ptr, TagRegionHeader); !errors.Is(err, ErrNotAllocated) {
				t.Fatalf("expected ErrNotAllocated, got %v", err)
			}
			if _, ok := h.TagOf(tc.ptr); ok {
				t.Fatalf("expected %d not to be a live allocation", tc.ptr)
			}
		})
	}

	t.Run("Free clears the tag", func(t *testing.T) {
		if err := h.Free(ptr); err != nil {
			t.Fatalf("Free returned error: %v", err)
		}
		if _, ok := h.TagOf(ptr); ok {
			t.Fatalf("expected freed pointer not to be live")
		}
		again, err := h.Allocate(16)
		if err != nil {
			t.Fatalf("Allocate returned error: %v", err)
		}
		if again != ptr {
			t.Fatalf("expected block %d to be reused, got %d", ptr, again)
		}
		if tag, _ := h.TagOf(again); tag != TagNone {
			t.Fatalf("expected reused block to be untagged, got %d", tag)
		}
	})
}
