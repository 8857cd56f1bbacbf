//go:build !wasm

package memory

// Linear returns the allocator backed by the instance's real linear memory.
// Outside wasm builds there is no such memory; every call fails with
// ErrUnsupported. Use a Heap instead.
func Linear() Memory { return unsupported{} }

type unsupported struct{}

func (unsupported) Allocate(uint32) (uint32, error)     { return 0, ErrUnsupported }
func (unsupported) Free(uint32) error                   { return ErrUnsupported }
func (unsupported) Read(uint32, uint32) ([]byte, error) { return nil, ErrUnsupported }
func (unsupported) Write(uint32, []byte) error          { return ErrUnsupported }
func (unsupported) Check(uint32, uint32) error          { return ErrUnsupported }
func (unsupported) Tag(uint32, Tag) error               { return ErrUnsupported }
func (unsupported) TagOf(uint32) (Tag, bool)            { return TagNone, false }
