package sdk

import (
	"github.com/cosmology-tech/cosmwasm-go/entrypoint"
	"github.com/cosmology-tech/cosmwasm-go/exports"
	"github.com/cosmology-tech/cosmwasm-go/imports"
	"github.com/cosmology-tech/cosmwasm-go/logging"
	"github.com/cosmology-tech/cosmwasm-go/memory"
	"go.uber.org/zap"
)

// DefaultNamespace is used when no explicit namespace is provided.
const DefaultNamespace = "cosmwasm"

// Config provides configuration options for SDK initialization.
type Config[I, E, Q any] struct {
	// Namespace names the contract in log output.
	// If empty, DefaultNamespace is used.
	Namespace string

	// Memory is the guest memory regions live in. If nil, the linear memory
	// of the module is used.
	Memory memory.Memory

	// Imports is the host import table. If nil, the env imports of the
	// module are used.
	Imports imports.Raw

	// Contract holds the entry point handlers. Instantiate is required.
	Contract entrypoint.Contract[I, E, Q]

	// Logger is handed to handlers. If nil, log entries are written through
	// the debug import.
	Logger *zap.Logger
}

// RuntimeConfig carries configuration that is used during creation of SDK components.
type RuntimeConfig struct {
	// Namespace names the contract in log output.
	Namespace string
}

// SDK represents the initialized runtime with a registered contract.
type SDK struct {
	// runtime holds the current runtime configuration snapshot.
	runtime RuntimeConfig

	// host is the typed view of the import table.
	host *imports.Bindings

	// dispatcher serves the exports.
	dispatcher *entrypoint.Dispatcher
}

// New initializes the SDK and registers the contract with the module exports.
func New[I, E, Q any](config Config[I, E, Q]) (*SDK, error) {
	// Validate Instantiate is not empty
	if config.Contract.Instantiate == nil {
		return nil, ErrInstantiateNil
	}

	// Create runtime configuration with defaults
	cfg := RuntimeConfig{Namespace: DefaultNamespace}

	// Override defaults with provided configuration
	if config.Namespace != "" {
		cfg.Namespace = config.Namespace
	}

	mem := config.Memory
	if mem == nil {
		mem = memory.Linear()
	}

	host, err := imports.New(imports.Config{Memory: mem, Raw: config.Imports})
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger, err = logging.New(logging.Config{Host: host, Name: cfg.Namespace})
		if err != nil {
			return nil, err
		}
	}

	dispatcher, err := entrypoint.New(entrypoint.Config[I, E, Q]{
		Contract: config.Contract,
		Memory:   mem,
		Host:     host,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	// Create SDK instance
	sdk := &SDK{
		runtime:    cfg,
		host:       host,
		dispatcher: dispatcher,
	}

	// Register the dispatcher with the module exports
	exports.Register(dispatcher)

	return sdk, nil
}

// Config returns the current runtime configuration snapshot.
func (s *SDK) Config() RuntimeConfig { return s.runtime }

// Host returns the typed host imports.
func (s *SDK) Host() imports.Host { return s.host }

// Dispatcher returns the dispatcher serving the exports.
func (s *SDK) Dispatcher() *entrypoint.Dispatcher { return s.dispatcher }

// Instantiate serves the instantiate export.
func (s *SDK) Instantiate(envPtr, infoPtr, msgPtr uint32) uint32 {
	return s.dispatcher.Instantiate(envPtr, infoPtr, msgPtr)
}

// Execute serves the execute export.
func (s *SDK) Execute(envPtr, infoPtr, msgPtr uint32) uint32 {
	return s.dispatcher.Execute(envPtr, infoPtr, msgPtr)
}

// Query serves the query export.
func (s *SDK) Query(envPtr, msgPtr uint32) uint32 { return s.dispatcher.Query(envPtr, msgPtr) }

// Allocate serves the allocate export.
func (s *SDK) Allocate(size uint32) uint32 { return s.dispatcher.Allocate(size) }

// Deallocate serves the deallocate export.
func (s *SDK) Deallocate(ptr uint32) { s.dispatcher.Deallocate(ptr) }
