package tarmac

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cosmology-tech/cosmwasm-go/entrypoint"
	wapc "github.com/wapc/wapc-guest-tinygo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ErrDispatcherNil is returned by Register when no dispatcher is given.
var ErrDispatcherNil = errors.New("dispatcher cannot be nil")

// ServeConfig controls how a dispatcher is exposed to the waPC host.
type ServeConfig struct {
	Config

	// RegisterFunctions overrides wapc.RegisterFunctions.
	RegisterFunctions func(wapc.Functions)

	// MetricsPrefix is prepended to every metric name. Defaults to
	// DefaultMetricsPrefix.
	MetricsPrefix string

	// DisableMetrics turns off the entry point metrics.
	DisableMetrics bool
}

// DefaultMetricsPrefix is the metric name prefix used when none is set.
const DefaultMetricsPrefix = "cosmwasm"

// payload is the waPC request body of every entry point.
type payload struct {
	Env  json.RawMessage `json:"env"`
	Info json.RawMessage `json:"info"`
	Msg  json.RawMessage `json:"msg"`
}

// Register exposes d as the waPC functions instantiate, execute and query
// and returns the registered table. Handlers see Tarmac backed Storage, Api
// and Logger; the Querier of d is kept. Each call is counted through the
// metrics capability unless DisableMetrics is set.
func Register(d *entrypoint.Dispatcher, cfg ServeConfig) (wapc.Functions, error) {
	if d == nil {
		return nil, ErrDispatcherNil
	}
	cfg.Config = cfg.Config.withDefaults()
	if cfg.RegisterFunctions == nil {
		cfg.RegisterFunctions = wapc.RegisterFunctions
	}

	if cfg.MetricsPrefix == "" {
		cfg.MetricsPrefix = DefaultMetricsPrefix
	}

	var metrics *Metrics
	if !cfg.DisableMetrics {
		m, err := NewMetrics(cfg.Config, cfg.MetricsPrefix)
		if err != nil {
			return nil, err
		}
		metrics = m
	}

	api := NewApi(cfg.Config)
	deps := d.Deps()
	deps.Storage = NewStorage(cfg.Config)
	deps.Api = api
	deps.Logger = newLogger(api, cfg.SDKConfig.Namespace)

	functions := wapc.Functions{
		entrypoint.EntryInstantiate: metrics.instrument(entrypoint.EntryInstantiate, func(b []byte) ([]byte, error) {
			p, err := decodePayload(entrypoint.EntryInstantiate, b, true)
			if err != nil {
				return nil, err
			}
			return d.HandleInstantiate(deps, p.Env, p.Info, p.Msg), nil
		}),
		entrypoint.EntryExecute: metrics.instrument(entrypoint.EntryExecute, func(b []byte) ([]byte, error) {
			p, err := decodePayload(entrypoint.EntryExecute, b, true)
			if err != nil {
				return nil, err
			}
			return d.HandleExecute(deps, p.Env, p.Info, p.Msg), nil
		}),
		entrypoint.EntryQuery: metrics.instrument(entrypoint.EntryQuery, func(b []byte) ([]byte, error) {
			p, err := decodePayload(entrypoint.EntryQuery, b, false)
			if err != nil {
				return nil, err
			}
			return d.HandleQuery(deps, p.Env, p.Msg), nil
		}),
	}

	cfg.RegisterFunctions(functions)
	return functions, nil
}

func decodePayload(entry string, b []byte, withInfo bool) (payload, error) {
	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		return p, fmt.Errorf("%s: %w: %w", entry, entrypoint.ErrInvalidInput, err)
	}

	missing := len(p.Env) == 0 || len(p.Msg) == 0
	if withInfo {
		missing = missing || len(p.Info) == 0
	}
	if missing {
		return p, fmt.Errorf("%s: %w: payload is missing a field", entry, entrypoint.ErrInvalidInput)
	}
	return p, nil
}

// apiWriter sends encoded log entries through Api.Debug.
type apiWriter struct {
	api *Api
}

func (w apiWriter) Write(p []byte) (int, error) {
	w.api.Debug(strings.TrimSuffix(string(p), zapcore.DefaultLineEnding))
	return len(p), nil
}

func newLogger(api *Api, name string) *zap.Logger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:    "level",
		NameKey:     "logger",
		MessageKey:  "msg",
		LineEnding:  zapcore.DefaultLineEnding,
		EncodeLevel: zapcore.CapitalLevelEncoder,
		EncodeName:  zapcore.FullNameEncoder,
	})
	core := zapcore.NewCore(encoder, zapcore.AddSync(apiWriter{api: api}), zapcore.DebugLevel)
	return zap.New(core).Named(name)
}
