//go:build !wasm

package imports

type unavailable struct{}

// Wasm returns the host import table. Outside wasm builds every import
// panics with ErrUnavailable; use hostmock to simulate a host instead.
func Wasm() Raw { return unavailable{} }

func (unavailable) DBRead(uint32) uint32                          { panic(ErrUnavailable) }
func (unavailable) DBWrite(uint32, uint32)                        { panic(ErrUnavailable) }
func (unavailable) DBRemove(uint32)                               { panic(ErrUnavailable) }
func (unavailable) DBScan(uint32, uint32, int32) uint32           { panic(ErrUnavailable) }
func (unavailable) DBNext(uint32) uint32                          { panic(ErrUnavailable) }
func (unavailable) AddrValidate(uint32) uint32                    { panic(ErrUnavailable) }
func (unavailable) AddrCanonicalize(uint32, uint32) uint32        { panic(ErrUnavailable) }
func (unavailable) AddrHumanize(uint32, uint32) uint32            { panic(ErrUnavailable) }
func (unavailable) Secp256k1Verify(uint32, uint32, uint32) uint32 { panic(ErrUnavailable) }
func (unavailable) Secp256k1RecoverPubkey(uint32, uint32, uint32) uint64 {
	panic(ErrUnavailable)
}
func (unavailable) Ed25519Verify(uint32, uint32, uint32) uint32      { panic(ErrUnavailable) }
func (unavailable) Ed25519BatchVerify(uint32, uint32, uint32) uint32 { panic(ErrUnavailable) }
func (unavailable) Debug(uint32)                                     { panic(ErrUnavailable) }
func (unavailable) QueryChain(uint32) uint32                         { panic(ErrUnavailable) }
func (unavailable) Abort(uint32)                                     { panic(ErrUnavailable) }
