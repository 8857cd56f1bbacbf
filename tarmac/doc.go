/*
Package tarmac serves contracts as Tarmac functions.

The waPC transport has no linear-memory imports for storage or addresses, so
this package supplies its own capabilities: a storage.Storage backed by the
kvstore capability and a std.Api whose Debug goes to the logging capability.
Register exposes instantiate, execute and query as waPC functions taking a
JSON payload of the form

	{"env": {...}, "info": {...}, "msg": {...}}

and answering with the same {"ok": ...} / {"error": "..."} envelope the
CosmWasm exports produce.
*/
package tarmac
