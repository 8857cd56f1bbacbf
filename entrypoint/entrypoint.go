package entrypoint

import (
	"encoding/json"
	"fmt"

	"github.com/cosmology-tech/cosmwasm-go/imports"
	"github.com/cosmology-tech/cosmwasm-go/logging"
	"github.com/cosmology-tech/cosmwasm-go/memory"
	"github.com/cosmology-tech/cosmwasm-go/std"
	"github.com/cosmology-tech/cosmwasm-go/storage"
	"go.uber.org/zap"
)

// Entry point names, as exported to the host.
const (
	EntryInstantiate = "instantiate"
	EntryExecute     = "execute"
	EntryQuery       = "query"
	EntryAllocate    = "allocate"
	EntryDeallocate  = "deallocate"
)

// Deps are the capabilities handed to every handler.
type Deps struct {
	Storage storage.Storage
	Api     std.Api
	Querier std.Querier
	Logger  *zap.Logger

	// Log writes plain messages through Logger.
	Log logging.Client
}

// InstantiateFunc handles the instantiate entry point.
type InstantiateFunc[M any] func(deps Deps, env std.Env, info std.MessageInfo, msg M) (std.Response, error)

// ExecuteFunc handles the execute entry point.
type ExecuteFunc[M any] func(deps Deps, env std.Env, info std.MessageInfo, msg M) (std.Response, error)

// QueryFunc handles the query entry point. The returned bytes are usually
// JSON built with std.ToBinary.
type QueryFunc[M any] func(deps Deps, env std.Env, msg M) (std.Binary, error)

// Contract bundles the handlers of a contract with the decoders of its
// messages. Nil decoders decode strict JSON; contracts with sum type
// messages pass the Decode method of a std.Union.
type Contract[I, E, Q any] struct {
	Instantiate InstantiateFunc[I]
	Execute     ExecuteFunc[E]
	Query       QueryFunc[Q]

	DecodeInstantiate std.Decoder[I]
	DecodeExecute     std.Decoder[E]
	DecodeQuery       std.Decoder[Q]
}

// Config configures a Dispatcher.
type Config[I, E, Q any] struct {
	// Contract is the contract to dispatch to. Instantiate is required.
	Contract Contract[I, E, Q]

	// Memory holds the regions exchanged with the host. If nil,
	// memory.Linear() is used.
	Memory memory.Memory

	// Host provides the imports. If nil, the wasm import table over Memory
	// is used.
	Host imports.Host

	// Logger is handed to handlers and logs dispatch failures. If nil, a
	// logger writing through the debug import is used.
	Logger *zap.Logger
}

// Dispatcher runs the decode, dispatch, encode and respond pipeline of every
// entry point.
type Dispatcher struct {
	mem      memory.Memory
	host     imports.Host
	deps     Deps
	logger   *zap.Logger
	trapping bool

	instantiate func(deps Deps, env std.Env, info std.MessageInfo, msg []byte) ([]byte, error)
	execute     func(deps Deps, env std.Env, info std.MessageInfo, msg []byte) ([]byte, error)
	query       func(deps Deps, env std.Env, msg []byte) ([]byte, error)
}

// New builds a Dispatcher for a contract.
func New[I, E, Q any](cfg Config[I, E, Q]) (*Dispatcher, error) {
	c := cfg.Contract
	if c.Instantiate == nil {
		return nil, ErrInstantiateNil
	}

	mem := cfg.Memory
	if mem == nil {
		mem = memory.Linear()
	}

	host := cfg.Host
	if host == nil {
		bindings, err := imports.New(imports.Config{Memory: mem})
		if err != nil {
			return nil, err
		}
		host = bindings
	}

	logger := cfg.Logger
	if logger == nil {
		l, err := logging.New(logging.Config{Host: host})
		if err != nil {
			return nil, err
		}
		logger = l
	}

	d := &Dispatcher{
		mem:    mem,
		host:   host,
		logger: logger,
		deps: Deps{
			Storage: storage.New(host),
			Api:     std.NewApi(host),
			Querier: std.NewQuerier(host),
			Logger:  logger,
			Log:     logging.NewClient(logger),
		},
	}

	decodeI := decoderOrJSON(c.DecodeInstantiate)
	d.instantiate = func(deps Deps, env std.Env, info std.MessageInfo, raw []byte) ([]byte, error) {
		msg, err := decodeI(raw)
		if err != nil {
			return nil, err
		}
		res, err := c.Instantiate(deps, env, info, msg)
		if err != nil {
			return nil, err
		}
		return json.Marshal(std.Ok(res))
	}

	if c.Execute != nil {
		decodeE := decoderOrJSON(c.DecodeExecute)
		d.execute = func(deps Deps, env std.Env, info std.MessageInfo, raw []byte) ([]byte, error) {
			msg, err := decodeE(raw)
			if err != nil {
				return nil, err
			}
			res, err := c.Execute(deps, env, info, msg)
			if err != nil {
				return nil, err
			}
			return json.Marshal(std.Ok(res))
		}
	}

	if c.Query != nil {
		decodeQ := decoderOrJSON(c.DecodeQuery)
		d.query = func(deps Deps, env std.Env, raw []byte) ([]byte, error) {
			msg, err := decodeQ(raw)
			if err != nil {
				return nil, err
			}
			res, err := c.Query(deps, env, msg)
			if err != nil {
				return nil, err
			}
			return json.Marshal(std.Ok(res))
		}
	}

	return d, nil
}

func decoderOrJSON[T any](dec std.Decoder[T]) std.Decoder[T] {
	if dec == nil {
		return std.JSON[T]()
	}
	return dec
}

// Deps returns the capabilities built from the host imports.
func (d *Dispatcher) Deps() Deps { return d.deps }

// Host returns the host imports the dispatcher was built with.
func (d *Dispatcher) Host() imports.Host { return d.host }

// Memory returns the memory regions are exchanged through.
func (d *Dispatcher) Memory() memory.Memory { return d.mem }

// HandleInstantiate runs instantiate on JSON inputs and returns the result
// envelope.
func (d *Dispatcher) HandleInstantiate(deps Deps, env, info, msg []byte) []byte {
	e, i, err := decodeContext(env, info)
	if err != nil {
		return d.fail(EntryInstantiate, err)
	}
	return d.envelope(EntryInstantiate, func() ([]byte, error) { return d.instantiate(deps, e, i, msg) })
}

// HandleExecute runs execute on JSON inputs and returns the result envelope.
func (d *Dispatcher) HandleExecute(deps Deps, env, info, msg []byte) []byte {
	if d.execute == nil {
		return d.fail(EntryExecute, notImplemented(EntryExecute))
	}
	e, i, err := decodeContext(env, info)
	if err != nil {
		return d.fail(EntryExecute, err)
	}
	return d.envelope(EntryExecute, func() ([]byte, error) { return d.execute(deps, e, i, msg) })
}

// HandleQuery runs query on JSON inputs and returns the result envelope. A
// successful result is the handler output as base64.
func (d *Dispatcher) HandleQuery(deps Deps, env, msg []byte) []byte {
	if d.query == nil {
		return d.fail(EntryQuery, notImplemented(EntryQuery))
	}
	var e std.Env
	if err := json.Unmarshal(env, &e); err != nil {
		return d.fail(EntryQuery, fmt.Errorf("%w: env: %w", std.ErrDeserialize, err))
	}
	return d.envelope(EntryQuery, func() ([]byte, error) { return d.query(deps, e, msg) })
}

func decodeContext(env, info []byte) (std.Env, std.MessageInfo, error) {
	var e std.Env
	if err := json.Unmarshal(env, &e); err != nil {
		return e, std.MessageInfo{}, fmt.Errorf("%w: env: %w", std.ErrDeserialize, err)
	}
	var i std.MessageInfo
	if err := json.Unmarshal(info, &i); err != nil {
		return e, i, fmt.Errorf("%w: info: %w", std.ErrDeserialize, err)
	}
	return e, i, nil
}

func (d *Dispatcher) envelope(entry string, run func() ([]byte, error)) []byte {
	out, err := run()
	if err != nil {
		return d.fail(entry, err)
	}
	return out
}

// fail renders err as the error envelope.
func (d *Dispatcher) fail(entry string, err error) []byte {
	d.logger.Debug("entry point failed", zap.String("entrypoint", entry), zap.Error(err))
	out, merr := json.Marshal(std.Err[struct{}](err))
	if merr != nil {
		// A string always encodes.
		panic(merr)
	}
	return out
}
