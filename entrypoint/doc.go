/*
Package entrypoint dispatches the instantiate, execute and query calls of
the host to typed contract handlers.

Every entry point runs the same pipeline: the input regions are consumed
and decoded from JSON, the handler runs, and its result is wrapped in the
{"ok":...} or {"error":"..."} envelope and written into a new region whose
ownership passes to the host. Decode failures and handler errors become the
error envelope. Invalid regions, allocator failures and handler panics are
fatal: the dispatcher reports them through the abort import and panics with
*TrapError.

The Handle methods run the same pipeline on byte slices, for transports
that do not pass regions.
*/
package entrypoint
