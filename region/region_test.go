package region

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cosmology-tech/cosmwasm-go/memory"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func newHeap() *memory.Heap {
	return memory.NewHeap(memory.HeapConfig{})
}

// writeHeader places a hand-crafted header in memory and returns its address.
func writeHeader(t *testing.T, mem memory.Memory, h Header) uint32 {
	t.Helper()
	ptr, err := mem.Allocate(HeaderSize)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}
	if err := mem.Write(ptr, h.Encode()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	return ptr
}

func TestHeaderEncoding(t *testing.T) {
	h := Header{Offset: 0x01020304, Capacity: 10, Length: 7}
	b := h.Encode()
	want := []byte{4, 3, 2, 1, 10, 0, 0, 0, 7, 0, 0, 0}
	if !bytes.Equal(b, want) {
		t.Fatalf("expected little-endian header %v, got %v", want, b)
	}

	got, err := DecodeHeader(b)
	if err != nil {
		t.Fatalf("DecodeHeader returned error: %v", err)
	}
	if got != h {
		t.Fatalf("expected %+v, got %+v", h, got)
	}

	if _, err := DecodeHeader(b[:8]); !errors.Is(err, ErrInvalidRegion) {
		t.Fatalf("expected ErrInvalidRegion for short header, got %v", err)
	}
}

func TestAllocate(t *testing.T) {
	mem := newHeap()
	r, err := Allocate(mem, 32)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	h, err := r.Header()
	if err != nil {
		t.Fatalf("Header returned error: %v", err)
	}
	if h.Capacity != 32 || h.Length != 32 {
		t.Fatalf("expected capacity=length=32, got %+v", h)
	}
	if h.Offset == 0 || h.Offset == r.Ptr() {
		t.Fatalf("expected a separate payload allocation, got offset %d for header %d", h.Offset, r.Ptr())
	}
	if got := mem.Stats().Allocations; got != 2 {
		t.Fatalf("expected header and payload allocations, got %d", got)
	}
}

func TestFromPtr(t *testing.T) {
	mem := newHeap()
	payload, err := mem.Allocate(8)
	if err != nil {
		t.Fatalf("Allocate returned error: %v", err)
	}

	tt := []struct {
		name    string
		ptr     func(t *testing.T) uint32
		wantErr error
	}{
		{
			name: "valid",
			ptr: func(t *testing.T) uint32 {
				return writeHeader(t, mem, Header{Offset: payload, Capacity: 8, Length: 3})
			},
		},
		{
			name:    "null pointer",
			ptr:     func(*testing.T) uint32 { return 0 },
			wantErr: ErrInvalidRegion,
		},
		{
			name: "length exceeds capacity",
			ptr: func(t *testing.T) uint32 {
				return writeHeader(t, mem, Header{Offset: payload, Capacity: 4, Length: 8})
			},
			wantErr: ErrInvalidRegion,
		},
		{
			name: "null offset",
			ptr: func(t *testing.T) uint32 {
				return writeHeader(t, mem, Header{Offset: 0, Capacity: 4, Length: 4})
			},
			wantErr: ErrInvalidRegion,
		},
		{
			name: "dangling offset",
			ptr: func(t *testing.T) uint32 {
				return writeHeader(t, mem, Header{Offset: 1 << 30, Capacity: 4, Length: 4})
			},
			wantErr: ErrInvalidRegion,
		},
		{
			name:    "header out of bounds",
			ptr:     func(*testing.T) uint32 { return 1 << 30 },
			wantErr: ErrInvalidRegion,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromPtr(mem, tc.ptr(t))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestWrite(t *testing.T) {
	tt := []struct {
		name     string
		capacity uint32
		data     string
		wantErr  error
	}{
		{name: "exact fit", capacity: 5, data: "hello"},
		{name: "shorter", capacity: 16, data: "hello"},
		{name: "empty", capacity: 4, data: ""},
		{name: "too large", capacity: 4, data: "hello", wantErr: ErrBufferTooSmall},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			mem := newHeap()
			r, err := Allocate(mem, tc.capacity)
			if err != nil {
				t.Fatalf("Allocate returned error: %v", err)
			}
			before, _ := r.Header()

			err = r.WriteString(tc.data)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}

			h, _ := r.Header()
			if err != nil {
				if h != before {
					t.Fatalf("failed write changed header from %+v to %+v", before, h)
				}
				return
			}
			if h.Length != uint32(len(tc.data)) {
				t.Fatalf("expected length %d, got %d", len(tc.data), h.Length)
			}

			got, err := r.ReadString()
			if err != nil {
				t.Fatalf("ReadString returned error: %v", err)
			}
			if got != tc.data {
				t.Fatalf("expected %q, got %q", tc.data, got)
			}
		})
	}
}

func TestReadStringRejectsInvalidUTF8(t *testing.T) {
	r, err := AllocateAndWrite(newHeap(), []byte{0xff, 0xfe})
	if err != nil {
		t.Fatalf("AllocateAndWrite returned error: %v", err)
	}
	if _, err := r.ReadString(); !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
}

func TestOwnership(t *testing.T) {
	t.Run("Release consumes the handle", func(t *testing.T) {
		mem := newHeap()
		r, _ := AllocateAndWriteString(mem, "payload")
		ptr, err := r.Release()
		if err != nil || ptr == 0 {
			t.Fatalf("Release returned %d, %v", ptr, err)
		}
		if r.Ptr() != 0 {
			t.Fatalf("expected Ptr to be cleared after Release")
		}
		if _, err := r.Read(); !errors.Is(err, ErrReleased) {
			t.Fatalf("expected ErrReleased on Read, got %v", err)
		}
		if err := r.Write([]byte("x")); !errors.Is(err, ErrReleased) {
			t.Fatalf("expected ErrReleased on Write, got %v", err)
		}
		if _, err := r.Release(); !errors.Is(err, ErrReleased) {
			t.Fatalf("expected ErrReleased on second Release, got %v", err)
		}
		if err := r.Free(); !errors.Is(err, ErrReleased) {
			t.Fatalf("expected ErrReleased on Free, got %v", err)
		}

		// The host owns ptr now and deallocates it exactly once.
		if err := Deallocate(mem, ptr); err != nil {
			t.Fatalf("Deallocate returned error: %v", err)
		}
		if err := Deallocate(mem, ptr); !errors.Is(err, memory.ErrDoubleFree) {
			t.Fatalf("expected ErrDoubleFree, got %v", err)
		}
		if got := mem.Stats().Allocations; got != 0 {
			t.Fatalf("expected no leaks, got %d live allocations", got)
		}
	})

	t.Run("Deallocate rejects foreign pointers", func(t *testing.T) {
		mem := newHeap()
		r, _ := AllocateAndWriteString(mem, "payload")
		if err := Deallocate(mem, r.Ptr()+4); !errors.Is(err, memory.ErrNotAllocated) {
			t.Fatalf("expected ErrNotAllocated, got %v", err)
		}
		if err := Deallocate(mem, 0); !errors.Is(err, ErrInvalidRegion) {
			t.Fatalf("expected ErrInvalidRegion, got %v", err)
		}
		if got := mem.Stats().Allocations; got != 2 {
			t.Fatalf("rejected deallocation changed memory: %d live allocations", got)
		}
	})

	t.Run("Deallocate rejects pointers that are not headers", func(t *testing.T) {
		tt := []struct {
			name string
			ptr  func(t *testing.T, mem memory.Memory, victim Header) uint32
		}{
			{
				name: "payload of a live region",
				ptr: func(_ *testing.T, _ memory.Memory, victim Header) uint32 {
					return victim.Offset
				},
			},
			{
				name: "payload holding a forged header",
				ptr: func(t *testing.T, mem memory.Memory, victim Header) uint32 {
					forged, err := AllocateAndWrite(mem, victim.Encode())
					if err != nil {
						t.Fatalf("AllocateAndWrite returned error: %v", err)
					}
					h, _ := forged.Header()
					return h.Offset
				},
			},
			{
				name: "zeroed payload",
				ptr: func(t *testing.T, mem memory.Memory, _ Header) uint32 {
					r, err := Allocate(mem, HeaderSize)
					if err != nil {
						t.Fatalf("Allocate returned error: %v", err)
					}
					if err := r.Write(make([]byte, HeaderSize)); err != nil {
						t.Fatalf("Write returned error: %v", err)
					}
					h, _ := r.Header()
					return h.Offset
				},
			},
			{
				name: "plain allocation",
				ptr: func(t *testing.T, mem memory.Memory, victim Header) uint32 {
					return writeHeader(t, mem, victim)
				},
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				mem := newHeap()
				victim, _ := AllocateAndWriteString(mem, "victim")
				vh, _ := victim.Header()
				ptr := tc.ptr(t, mem, vh)

				before := mem.Stats().Allocations
				if err := Deallocate(mem, ptr); !errors.Is(err, ErrInvalidRegion) {
					t.Fatalf("expected ErrInvalidRegion, got %v", err)
				}
				if got := mem.Stats().Allocations; got != before {
					t.Fatalf("rejected deallocation changed live allocations from %d to %d", before, got)
				}
				if got, err := victim.ReadString(); err != nil || got != "victim" {
					t.Fatalf("victim region damaged: %q, %v", got, err)
				}
			})
		}
	})

	t.Run("Deallocate rejects corrupted headers", func(t *testing.T) {
		tt := []struct {
			name   string
			header func(own, other Header, otherPtr uint32) Header
		}{
			{
				name:   "length over capacity",
				header: func(own, _ Header, _ uint32) Header { return Header{Offset: own.Offset, Capacity: 2, Length: 3} },
			},
			{
				name:   "null payload",
				header: func(_, _ Header, _ uint32) Header { return Header{Capacity: 4, Length: 4} },
			},
			{
				name:   "payload is another header",
				header: func(own, _ Header, otherPtr uint32) Header { return Header{Offset: otherPtr, Capacity: own.Capacity} },
			},
			{
				name:   "payload is not an allocation",
				header: func(own, _ Header, _ uint32) Header { return Header{Offset: own.Offset + 1, Capacity: 1} },
			},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				mem := newHeap()
				r, _ := AllocateAndWriteString(mem, "payload")
				other, _ := AllocateAndWriteString(mem, "other")
				own, _ := r.Header()
				oh, _ := other.Header()
				if err := mem.Write(r.Ptr(), tc.header(own, oh, other.Ptr()).Encode()); err != nil {
					t.Fatalf("Write returned error: %v", err)
				}

				if err := Deallocate(mem, r.Ptr()); !errors.Is(err, ErrInvalidRegion) {
					t.Fatalf("expected ErrInvalidRegion, got %v", err)
				}
				if got := mem.Stats().Allocations; got != 4 {
					t.Fatalf("rejected deallocation changed memory: %d live allocations", got)
				}
			})
		}
	})

	t.Run("Consume frees both allocations", func(t *testing.T) {
		mem := newHeap()
		r, _ := AllocateAndWriteString(mem, "payload")
		ptr := r.Ptr()

		got, err := Consume(mem, ptr)
		if err != nil {
			t.Fatalf("Consume returned error: %v", err)
		}
		if string(got) != "payload" {
			t.Fatalf("expected payload, got %q", got)
		}
		if n := mem.Stats().Allocations; n != 0 {
			t.Fatalf("expected no live allocations, got %d", n)
		}
	})
}

func TestRoundTripProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("bytes survive write and read", prop.ForAll(
		func(data []byte) bool {
			mem := newHeap()
			r, err := AllocateAndWrite(mem, data)
			if err != nil {
				return false
			}
			got, err := Consume(mem, r.Ptr())
			return err == nil && bytes.Equal(got, data) && mem.Stats().Allocations == 0
		},
		gen.SliceOf(gen.UInt8()),
	))

	properties.Property("strings survive write and read", prop.ForAll(
		func(s string) bool {
			r, err := AllocateAndWriteString(newHeap(), s)
			if err != nil {
				return false
			}
			got, err := r.ReadString()
			return err == nil && got == s
		},
		gen.AnyString(),
	))

	properties.Property("length never exceeds capacity", prop.ForAll(
		func(capacity uint32, data []byte) bool {
			r, err := Allocate(newHeap(), capacity)
			if err != nil {
				return false
			}
			err = r.Write(data)
			h, herr := r.Header()
			if herr != nil || h.Length > h.Capacity {
				return false
			}
			if uint32(len(data)) > capacity {
				return errors.Is(err, ErrBufferTooSmall) && h.Length == capacity
			}
			return err == nil && h.Length == uint32(len(data))
		},
		gen.UInt32Range(0, 64),
		gen.SliceOf(gen.UInt8()),
	))

	properties.TestingRun(t)
}

func TestLargePayload(t *testing.T) {
	data := strings.Repeat("cosmwasm", 1<<16)
	r, err := AllocateAndWriteString(newHeap(), data)
	if err != nil {
		t.Fatalf("AllocateAndWriteString returned error: %v", err)
	}
	got, err := r.ReadString()
	if err != nil {
		t.Fatalf("ReadString returned error: %v", err)
	}
	if got != data {
		t.Fatalf("large payload corrupted")
	}
}

func TestSections(t *testing.T) {
	tt := []struct {
		name     string
		sections [][]byte
	}{
		{name: "key and value", sections: [][]byte{[]byte("key"), []byte("value")}},
		{name: "empty sections", sections: [][]byte{{}, {}}},
		{name: "single", sections: [][]byte{[]byte("only")}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeSections(EncodeSections(tc.sections...))
			if err != nil {
				t.Fatalf("DecodeSections returned error: %v", err)
			}
			if len(got) != len(tc.sections) {
				t.Fatalf("expected %d sections, got %d", len(tc.sections), len(got))
			}
			for i := range got {
				if !bytes.Equal(got[i], tc.sections[i]) {
					t.Fatalf("section %d: expected %q, got %q", i, tc.sections[i], got[i])
				}
			}
		})
	}

	t.Run("Wire format", func(t *testing.T) {
		want := []byte{'a', 'b', 0, 0, 0, 2, 'c', 0, 0, 0, 1}
		if got := EncodeSections([]byte("ab"), []byte("c")); !bytes.Equal(got, want) {
			t.Fatalf("expected %v, got %v", want, got)
		}
	})

	t.Run("Truncated", func(t *testing.T) {
		if _, err := DecodeSections([]byte{'a', 0, 0, 0, 9}); !errors.Is(err, ErrInvalidSections) {
			t.Fatalf("expected ErrInvalidSections, got %v", err)
		}
	})
}
