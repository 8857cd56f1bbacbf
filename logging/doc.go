/*
Package logging offers structured logging for CosmWasm contracts.

New builds a *zap.Logger whose core writes console-encoded entries through the
host debug import, so the output shows up wherever the chain node prints
contract debug messages. Timestamps are left out; the host has its own.

For code that only needs plain messages, NewClient wraps a logger in a small
interface with convenience methods for common log levels (Info, Warn, Error,
Debug, Trace).
*/
package logging
