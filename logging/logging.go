package logging

import (
	"errors"
	"strings"
	"time"

	"github.com/cosmology-tech/cosmwasm-go/imports"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultName is the logger name used when none is configured.
const DefaultName = "cosmwasm"

// ErrHostNil is returned when no host is provided to write logs to.
var ErrHostNil = errors.New("logging host cannot be nil")

// Config controls how a logger writes to the host.
type Config struct {
	// Host receives every log line through its debug import.
	Host imports.Host

	// Level filters entries. If nil, every level down to debug is written.
	Level zapcore.LevelEnabler

	// Name is the logger name. If empty, DefaultName is used.
	Name string
}

// New creates a zap logger whose entries are console encoded and sent to the
// host debug import, one call per entry. Timestamps are omitted and the
// logger clock is fixed, so logging never reads the wall clock.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Host == nil {
		return nil, ErrHostNil
	}

	level := cfg.Level
	if level == nil {
		level = zapcore.DebugLevel
	}

	name := cfg.Name
	if name == "" {
		name = DefaultName
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeName:     zapcore.FullNameEncoder,
	})

	core := zapcore.NewCore(encoder, debugWriter{host: cfg.Host}, level)
	return zap.New(core, zap.WithClock(fixedClock{})).Named(name), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }

// debugWriter forwards encoded entries to the debug import.
type debugWriter struct {
	host imports.Host
}

func (w debugWriter) Write(p []byte) (int, error) {
	w.host.Debug(strings.TrimSuffix(string(p), zapcore.DefaultLineEnding))
	return len(p), nil
}

func (debugWriter) Sync() error { return nil }

type fixedClock struct{}

func (fixedClock) Now() time.Time                         { return time.Time{} }
func (fixedClock) NewTicker(d time.Duration) *time.Ticker { return time.NewTicker(d) }
