package entrypoint

import (
	"fmt"

	"github.com/cosmology-tech/cosmwasm-go/region"
	"go.uber.org/zap"
)

// Instantiate is the pointer level instantiate export. It consumes the three
// input regions and returns a region owned by the host.
func (d *Dispatcher) Instantiate(envPtr, infoPtr, msgPtr uint32) uint32 {
	d.trapping = false
	defer d.guard(EntryInstantiate)
	env := d.input(EntryInstantiate, envPtr)
	info := d.input(EntryInstantiate, infoPtr)
	msg := d.input(EntryInstantiate, msgPtr)
	return d.output(EntryInstantiate, d.HandleInstantiate(d.deps, env, info, msg))
}

// Execute is the pointer level execute export.
func (d *Dispatcher) Execute(envPtr, infoPtr, msgPtr uint32) uint32 {
	d.trapping = false
	defer d.guard(EntryExecute)
	env := d.input(EntryExecute, envPtr)
	info := d.input(EntryExecute, infoPtr)
	msg := d.input(EntryExecute, msgPtr)
	return d.output(EntryExecute, d.HandleExecute(d.deps, env, info, msg))
}

// Query is the pointer level query export.
func (d *Dispatcher) Query(envPtr, msgPtr uint32) uint32 {
	d.trapping = false
	defer d.guard(EntryQuery)
	env := d.input(EntryQuery, envPtr)
	msg := d.input(EntryQuery, msgPtr)
	return d.output(EntryQuery, d.HandleQuery(d.deps, env, msg))
}

// Allocate reserves a region of size bytes for the host.
func (d *Dispatcher) Allocate(size uint32) uint32 {
	d.trapping = false
	r, err := region.Allocate(d.mem, size)
	if err != nil {
		d.trap(EntryAllocate, fmt.Errorf("%w: %w", ErrAllocator, err))
	}
	ptr, err := r.Release()
	if err != nil {
		d.trap(EntryAllocate, fmt.Errorf("%w: %w", ErrAllocator, err))
	}
	return ptr
}

// Deallocate frees a region the host owns. Freeing a region twice or a
// pointer that is not a region traps.
func (d *Dispatcher) Deallocate(ptr uint32) {
	d.trapping = false
	if err := region.Deallocate(d.mem, ptr); err != nil {
		d.trap(EntryDeallocate, fmt.Errorf("%w: %w", ErrAllocator, err))
	}
}

// input takes ownership of an input region and returns its payload.
func (d *Dispatcher) input(entry string, ptr uint32) []byte {
	data, err := region.Consume(d.mem, ptr)
	if err != nil {
		d.trap(entry, fmt.Errorf("%w: %w", ErrInvalidInput, err))
	}
	return data
}

// output moves the result into a new region owned by the host.
func (d *Dispatcher) output(entry string, data []byte) uint32 {
	r, err := region.AllocateAndWrite(d.mem, data)
	if err != nil {
		d.trap(entry, fmt.Errorf("%w: %w", ErrOutput, err))
	}
	ptr, err := r.Release()
	if err != nil {
		d.trap(entry, fmt.Errorf("%w: %w", ErrOutput, err))
	}
	return ptr
}

// guard turns a panic raised by a handler into a trap. Panics raised while
// trapping are passed through.
func (d *Dispatcher) guard(entry string) {
	r := recover()
	if r == nil {
		return
	}
	if d.trapping {
		panic(r)
	}
	d.trap(entry, fmt.Errorf("%w: %v", ErrPanic, r))
}

// trap reports err to the host through abort and panics with *TrapError.
// On a real host abort does not return.
func (d *Dispatcher) trap(entry string, err error) {
	d.trapping = true
	t := &TrapError{EntryPoint: entry, Err: err}
	d.logger.Error("trap", zap.String("entrypoint", entry), zap.Error(err))
	d.host.Abort(t.Error())
	panic(t)
}
