package std

import "github.com/cosmology-tech/cosmwasm-go/imports"

// Api gives contracts access to the address codec, signature verification
// and debug output of the host.
type Api interface {
	AddrValidate(addr string) error
	AddrCanonicalize(addr string) ([]byte, error)
	AddrHumanize(canonical []byte) (string, error)
	Secp256k1Verify(hash, signature, pubkey []byte) (bool, error)
	Secp256k1RecoverPubkey(hash, signature []byte, param uint8) ([]byte, error)
	Ed25519Verify(message, signature, pubkey []byte) (bool, error)
	Ed25519BatchVerify(messages, signatures, pubkeys [][]byte) (bool, error)
	Debug(message string)
}

type hostApi struct {
	host imports.Host
}

// NewApi returns an Api backed by the host imports.
func NewApi(host imports.Host) Api { return hostApi{host: host} }

func (a hostApi) AddrValidate(addr string) error { return a.host.AddrValidate(addr) }

func (a hostApi) AddrCanonicalize(addr string) ([]byte, error) {
	return a.host.AddrCanonicalize(addr)
}

func (a hostApi) AddrHumanize(canonical []byte) (string, error) {
	return a.host.AddrHumanize(canonical)
}

func (a hostApi) Secp256k1Verify(hash, signature, pubkey []byte) (bool, error) {
	return a.host.Secp256k1Verify(hash, signature, pubkey)
}

func (a hostApi) Secp256k1RecoverPubkey(hash, signature []byte, param uint8) ([]byte, error) {
	return a.host.Secp256k1RecoverPubkey(hash, signature, param)
}

func (a hostApi) Ed25519Verify(message, signature, pubkey []byte) (bool, error) {
	return a.host.Ed25519Verify(message, signature, pubkey)
}

func (a hostApi) Ed25519BatchVerify(messages, signatures, pubkeys [][]byte) (bool, error) {
	return a.host.Ed25519BatchVerify(messages, signatures, pubkeys)
}

func (a hostApi) Debug(message string) { a.host.Debug(message) }
