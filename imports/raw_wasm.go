//go:build wasm

package imports

//go:wasmimport env db_read
func dbRead(keyPtr uint32) uint32

//go:wasmimport env db_write
func dbWrite(keyPtr, valuePtr uint32)

//go:wasmimport env db_remove
func dbRemove(keyPtr uint32)

//go:wasmimport env db_scan
func dbScan(startPtr, endPtr uint32, order int32) uint32

//go:wasmimport env db_next
func dbNext(iteratorID uint32) uint32

//go:wasmimport env addr_validate
func addrValidate(sourcePtr uint32) uint32

//go:wasmimport env addr_canonicalize
func addrCanonicalize(sourcePtr, destinationPtr uint32) uint32

//go:wasmimport env addr_humanize
func addrHumanize(sourcePtr, destinationPtr uint32) uint32

//go:wasmimport env secp256k1_verify
func secp256k1Verify(hashPtr, signaturePtr, pubkeyPtr uint32) uint32

//go:wasmimport env secp256k1_recover_pubkey
func secp256k1RecoverPubkey(hashPtr, signaturePtr, recoveryParam uint32) uint64

//go:wasmimport env ed25519_verify
func ed25519Verify(messagePtr, signaturePtr, pubkeyPtr uint32) uint32

//go:wasmimport env ed25519_batch_verify
func ed25519BatchVerify(messagesPtr, signaturesPtr, pubkeysPtr uint32) uint32

//go:wasmimport env debug
func debug(sourcePtr uint32)

//go:wasmimport env query_chain
func queryChain(requestPtr uint32) uint32

//go:wasmimport env abort
func abort(messagePtr uint32)

type wasmRaw struct{}

// Wasm returns the import table provided by the host.
func Wasm() Raw { return wasmRaw{} }

func (wasmRaw) DBRead(k uint32) uint32                 { return dbRead(k) }
func (wasmRaw) DBWrite(k, v uint32)                    { dbWrite(k, v) }
func (wasmRaw) DBRemove(k uint32)                      { dbRemove(k) }
func (wasmRaw) DBScan(s, e uint32, order int32) uint32 { return dbScan(s, e, order) }
func (wasmRaw) DBNext(id uint32) uint32                { return dbNext(id) }
func (wasmRaw) AddrValidate(s uint32) uint32           { return addrValidate(s) }
func (wasmRaw) AddrCanonicalize(s, d uint32) uint32    { return addrCanonicalize(s, d) }
func (wasmRaw) AddrHumanize(s, d uint32) uint32        { return addrHumanize(s, d) }
func (wasmRaw) Secp256k1Verify(h, s, p uint32) uint32  { return secp256k1Verify(h, s, p) }
func (wasmRaw) Secp256k1RecoverPubkey(h, s, r uint32) uint64 {
	return secp256k1RecoverPubkey(h, s, r)
}
func (wasmRaw) Ed25519Verify(m, s, p uint32) uint32      { return ed25519Verify(m, s, p) }
func (wasmRaw) Ed25519BatchVerify(m, s, p uint32) uint32 { return ed25519BatchVerify(m, s, p) }
func (wasmRaw) Debug(s uint32)                           { debug(s) }
func (wasmRaw) QueryChain(r uint32) uint32               { return queryChain(r) }
func (wasmRaw) Abort(m uint32)                           { abort(m) }
