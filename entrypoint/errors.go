package entrypoint

import (
	"errors"
	"fmt"
)

var (
	// ErrInstantiateNil is returned when a contract has no instantiate handler.
	ErrInstantiateNil = errors.New("instantiate handler cannot be nil")

	// ErrNotImplemented is reported when the host calls an entry point the
	// contract did not provide. Its text is completed with the entry point
	// name, for example "execute is not implemented".
	ErrNotImplemented = errors.New("is not implemented")

	// ErrInvalidInput is wrapped by traps raised while reading the input
	// regions of an entry point.
	ErrInvalidInput = errors.New("invalid entry point input")

	// ErrOutput is wrapped by traps raised while handing the result to the
	// host.
	ErrOutput = errors.New("cannot return entry point result")

	// ErrAllocator is wrapped by traps raised by allocate and deallocate.
	ErrAllocator = errors.New("allocator failure")

	// ErrPanic is wrapped by traps raised when a handler panics.
	ErrPanic = errors.New("contract panicked")
)

// TrapError is the panic value of an entry point that cannot continue. The
// host has already been told through the abort import when it is raised.
type TrapError struct {
	// EntryPoint is the export that trapped.
	EntryPoint string

	// Err is the cause.
	Err error
}

func (e *TrapError) Error() string { return fmt.Sprintf("%s: %v", e.EntryPoint, e.Err) }

func (e *TrapError) Unwrap() error { return e.Err }

// notImplemented renders ErrNotImplemented for an entry point.
func notImplemented(entry string) error {
	return fmt.Errorf("%s %w", entry, ErrNotImplemented)
}
