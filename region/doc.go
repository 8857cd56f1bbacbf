/*
Package region implements the buffer protocol used across the CosmWasm
guest/host boundary.

Every variable-length value that crosses the boundary is described by a
12-byte header {offset, capacity, length} stored in linear memory, and the
header address is what gets passed around. The package validates headers on
every access (length must not exceed capacity and the payload must be
addressable) and checks capacity before every write, returning
ErrInvalidRegion or ErrBufferTooSmall instead of touching memory it does not
own.

A *Region is an owned handle. It is consumed by exactly one of Release
(ownership moves to the host), Free or Consume; using it afterwards fails
with ErrReleased.

	r, err := region.AllocateAndWriteString(mem, `{"ok":{}}`)
	if err != nil {
		return err
	}
	ptr, _ := r.Release() // the host deallocates ptr when done
*/
package region
