package logging

import "go.uber.org/zap"

// Client exposes convenience helpers for sending plain log messages.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)
}

// client implements Client on top of a zap logger.
type client struct {
	logger *zap.Logger
}

// NewClient wraps logger in a Client. A nil logger discards everything.
func NewClient(logger *zap.Logger) Client {
	if logger == nil {
		logger = Nop()
	}
	return &client{logger: logger}
}

func (c *client) Info(message string)  { c.logger.Info(message) }
func (c *client) Warn(message string)  { c.logger.Warn(message) }
func (c *client) Error(message string) { c.logger.Error(message) }
func (c *client) Debug(message string) { c.logger.Debug(message) }
func (c *client) Trace(message string) { c.logger.Debug(message, zap.Bool("trace", true)) }
