package region

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/cosmology-tech/cosmwasm-go/memory"
)

// HeaderSize is the size of an encoded region header: offset, capacity and
// length as little-endian u32 values.
const HeaderSize = 12

var (
	// ErrInvalidRegion is returned when a header does not describe a usable buffer.
	ErrInvalidRegion = errors.New("invalid region")

	// ErrBufferTooSmall is returned when data does not fit into a region's capacity.
	ErrBufferTooSmall = errors.New("region buffer too small")

	// ErrReleased is returned when a region handle is used after it was
	// released to the host, freed or consumed.
	ErrReleased = errors.New("region already released")

	// ErrInvalidUTF8 is returned by ReadString when the payload is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("region payload is not valid UTF-8")
)

// Header describes a contiguous buffer in linear memory.
type Header struct {
	// Offset is the address of the first payload byte.
	Offset uint32

	// Capacity is the number of bytes reserved at Offset.
	Capacity uint32

	// Length is the number of bytes currently valid.
	Length uint32
}

// Encode returns the wire form of the header.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(b[0:4], h.Offset)
	binary.LittleEndian.PutUint32(b[4:8], h.Capacity)
	binary.LittleEndian.PutUint32(b[8:12], h.Length)
	return b
}

// DecodeHeader parses the wire form of a header.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, fmt.Errorf("%w: header is %d bytes, want %d", ErrInvalidRegion, len(b), HeaderSize)
	}
	return Header{
		Offset:   binary.LittleEndian.Uint32(b[0:4]),
		Capacity: binary.LittleEndian.Uint32(b[4:8]),
		Length:   binary.LittleEndian.Uint32(b[8:12]),
	}, nil
}

// Validate checks the header invariants.
func (h Header) Validate() error {
	if h.Offset == 0 {
		return fmt.Errorf("%w: null offset", ErrInvalidRegion)
	}
	if h.Length > h.Capacity {
		return fmt.Errorf("%w: length %d exceeds capacity %d", ErrInvalidRegion, h.Length, h.Capacity)
	}
	return nil
}

// Region is an owned handle on a region header living in linear memory.
//
// A handle is consumed exactly once, by Release (ownership moves to the
// host), Free (memory is returned to the allocator) or Consume (read, then
// free). Every call made after that fails with ErrReleased.
type Region struct {
	mem      memory.Memory
	ptr      uint32
	released bool
}

// FromPtr interprets the memory at ptr as a region header. It does not
// allocate. The header is validated and the payload range must be
// addressable.
func FromPtr(mem memory.Memory, ptr uint32) (*Region, error) {
	r := &Region{mem: mem, ptr: ptr}
	if _, err := r.header(); err != nil {
		return nil, err
	}
	return r, nil
}

// Allocate reserves size payload bytes plus a header and writes
// {offset, size, size} into the header.
func Allocate(mem memory.Memory, size uint32) (*Region, error) {
	offset, err := mem.Allocate(size)
	if err != nil {
		return nil, fmt.Errorf("allocating region payload: %w", err)
	}

	ptr, err := mem.Allocate(HeaderSize)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("allocating region header: %w", err), mem.Free(offset))
	}

	h := Header{Offset: offset, Capacity: size, Length: size}
	if err := mem.Write(ptr, h.Encode()); err != nil {
		return nil, errors.Join(fmt.Errorf("writing region header: %w", err), mem.Free(ptr), mem.Free(offset))
	}
	if err := mem.Tag(ptr, memory.TagRegionHeader); err != nil {
		return nil, errors.Join(fmt.Errorf("tagging region header: %w", err), mem.Free(ptr), mem.Free(offset))
	}

	return &Region{mem: mem, ptr: ptr}, nil
}

// AllocateAndWrite allocates a region sized for data and writes data into it.
func AllocateAndWrite(mem memory.Memory, data []byte) (*Region, error) {
	if uint64(len(data)) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d bytes", ErrBufferTooSmall, len(data))
	}

	r, err := Allocate(mem, uint32(len(data)))
	if err != nil {
		return nil, err
	}

	if err := r.Write(data); err != nil {
		return nil, errors.Join(err, r.Free())
	}
	return r, nil
}

// AllocateAndWriteString allocates a region holding the UTF-8 bytes of s.
func AllocateAndWriteString(mem memory.Memory, s string) (*Region, error) {
	return AllocateAndWrite(mem, []byte(s))
}

// Ptr returns the header address, or 0 once the handle has been consumed.
func (r *Region) Ptr() uint32 {
	if r.released {
		return 0
	}
	return r.ptr
}

// Header reads the current header from memory. The host may update the
// length of a region it was given, so the header is never cached.
func (r *Region) Header() (Header, error) {
	if r.released {
		return Header{}, ErrReleased
	}
	return r.header()
}

func (r *Region) header() (Header, error) {
	if r.ptr == 0 {
		return Header{}, fmt.Errorf("%w: null pointer", ErrInvalidRegion)
	}

	raw, err := r.mem.Read(r.ptr, HeaderSize)
	if err != nil {
		return Header{}, fmt.Errorf("%w: reading header at %d: %w", ErrInvalidRegion, r.ptr, err)
	}

	h, err := DecodeHeader(raw)
	if err != nil {
		return Header{}, err
	}
	if err := h.Validate(); err != nil {
		return Header{}, err
	}
	if err := r.mem.Check(h.Offset, h.Capacity); err != nil {
		return Header{}, fmt.Errorf("%w: payload of region at %d: %w", ErrInvalidRegion, r.ptr, err)
	}
	return h, nil
}

// Write copies data into the payload and sets the length to len(data).
// Data larger than the capacity is rejected and nothing is copied.
func (r *Region) Write(data []byte) error {
	h, err := r.Header()
	if err != nil {
		return err
	}

	if uint64(len(data)) > uint64(h.Capacity) {
		return fmt.Errorf("%w: %d bytes into capacity %d", ErrBufferTooSmall, len(data), h.Capacity)
	}

	if err := r.mem.Write(h.Offset, data); err != nil {
		return err
	}

	h.Length = uint32(len(data))
	return r.mem.Write(r.ptr, h.Encode())
}

// WriteString writes the UTF-8 bytes of s.
func (r *Region) WriteString(s string) error {
	return r.Write([]byte(s))
}

// Read returns a copy of the valid payload bytes.
func (r *Region) Read() ([]byte, error) {
	h, err := r.Header()
	if err != nil {
		return nil, err
	}
	return r.mem.Read(h.Offset, h.Length)
}

// ReadString returns the payload as a string. Invalid UTF-8 is rejected.
func (r *Region) ReadString() (string, error) {
	b, err := r.Read()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// Release hands the region to the host and returns its header address. The
// handle cannot be used afterwards.
func (r *Region) Release() (uint32, error) {
	if r.released {
		return 0, ErrReleased
	}
	r.released = true
	return r.ptr, nil
}

// Free deallocates the header and the payload.
func (r *Region) Free() error {
	if r.released {
		return ErrReleased
	}
	r.released = true
	return Deallocate(r.mem, r.ptr)
}

// Consume reads the payload and frees the region.
func (r *Region) Consume() ([]byte, error) {
	data, err := r.Read()
	if err != nil {
		return nil, err
	}
	if err := r.Free(); err != nil {
		return nil, err
	}
	return data, nil
}

// Consume takes ownership of the region at ptr, returning its payload and
// freeing it.
func Consume(mem memory.Memory, ptr uint32) ([]byte, error) {
	r, err := FromPtr(mem, ptr)
	if err != nil {
		return nil, err
	}
	return r.Consume()
}

// Deallocate frees the region at ptr: the header and the payload it names.
// ptr must be a header handed out by Allocate and the header must describe
// a live payload allocation; anything else is rejected before memory is
// touched. A header that was already deallocated fails with
// memory.ErrDoubleFree.
func Deallocate(mem memory.Memory, ptr uint32) error {
	if ptr == 0 {
		return fmt.Errorf("%w: null pointer", ErrInvalidRegion)
	}

	tag, live := mem.TagOf(ptr)
	if !live {
		// Free reports whether ptr was freed before or never allocated
		// and leaves memory unchanged.
		if err := mem.Free(ptr); err != nil {
			return err
		}
		return fmt.Errorf("%w: %d is not a live allocation", memory.ErrNotAllocated, ptr)
	}
	if tag != memory.TagRegionHeader {
		return fmt.Errorf("%w: %d is not a region header", ErrInvalidRegion, ptr)
	}

	raw, err := mem.Read(ptr, HeaderSize)
	if err != nil {
		return fmt.Errorf("%w: reading header at %d: %w", ErrInvalidRegion, ptr, err)
	}
	h, err := DecodeHeader(raw)
	if err != nil {
		return err
	}
	if err := h.Validate(); err != nil {
		return err
	}
	if h.Offset == ptr {
		return fmt.Errorf("%w: header at %d names itself as payload", ErrInvalidRegion, ptr)
	}
	if tag, live := mem.TagOf(h.Offset); !live || tag != memory.TagNone {
		return fmt.Errorf("%w: payload %d of region at %d is not a live allocation", ErrInvalidRegion, h.Offset, ptr)
	}

	if err := mem.Free(ptr); err != nil {
		return err
	}
	return mem.Free(h.Offset)
}
