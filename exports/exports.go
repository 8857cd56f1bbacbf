package exports

import (
	"errors"
	"sync"
)

// ErrNotRegistered is the panic value of an export called before Register.
var ErrNotRegistered = errors.New("no contract registered")

// Handlers serve the exports of a contract module. *entrypoint.Dispatcher
// implements it.
type Handlers interface {
	Allocate(size uint32) uint32
	Deallocate(ptr uint32)
	Instantiate(envPtr, infoPtr, msgPtr uint32) uint32
	Execute(envPtr, infoPtr, msgPtr uint32) uint32
	Query(envPtr, msgPtr uint32) uint32
}

var (
	mu       sync.RWMutex
	handlers Handlers
)

// Register sets the handlers the exports forward to, replacing any previous
// registration. A nil value unregisters.
func Register(h Handlers) {
	mu.Lock()
	defer mu.Unlock()
	handlers = h
}

// Registered reports whether handlers are set.
func Registered() bool {
	mu.RLock()
	defer mu.RUnlock()
	return handlers != nil
}

func current() Handlers {
	mu.RLock()
	defer mu.RUnlock()
	if handlers == nil {
		panic(ErrNotRegistered)
	}
	return handlers
}

// Allocate serves the allocate export.
func Allocate(size uint32) uint32 { return current().Allocate(size) }

// Deallocate serves the deallocate export.
func Deallocate(ptr uint32) { current().Deallocate(ptr) }

// Instantiate serves the instantiate export.
func Instantiate(envPtr, infoPtr, msgPtr uint32) uint32 {
	return current().Instantiate(envPtr, infoPtr, msgPtr)
}

// Execute serves the execute export.
func Execute(envPtr, infoPtr, msgPtr uint32) uint32 {
	return current().Execute(envPtr, infoPtr, msgPtr)
}

// Query serves the query export.
func Query(envPtr, msgPtr uint32) uint32 { return current().Query(envPtr, msgPtr) }
