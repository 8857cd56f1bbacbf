package imports

import (
	"errors"
	"fmt"
)

// Destination capacities pre-allocated for addr_canonicalize and
// addr_humanize results.
const (
	CanonicalAddressCapacity = 64
	HumanAddressCapacity     = 90
)

// Result codes of the signature verification imports. Any other value is an
// error code, see CryptoError.
const (
	VerifyValid   uint32 = 0
	VerifyInvalid uint32 = 1
)

// Error codes reported by the crypto imports.
const (
	CodeInvalidHashFormat      uint32 = 3
	CodeInvalidSignatureFormat uint32 = 4
	CodeInvalidPubkeyFormat    uint32 = 5
	CodeInvalidRecoveryParam   uint32 = 6
	CodeBatchError             uint32 = 7
	CodeGenericError           uint32 = 10
)

var (
	// ErrProtocol marks failures of the region protocol itself: allocation
	// failures, invalid regions returned by the host or freeing errors. These
	// are not recoverable and callers are expected to trap.
	ErrProtocol = errors.New("host protocol violation")

	// ErrHostResponseInvalid is returned when the host answers with a payload
	// that does not have the expected shape.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError is matched by every *HostError.
	ErrHostError = errors.New("host returned an error")

	// ErrInvalidOrder is returned by DBScan for an order other than
	// Ascending or Descending.
	ErrInvalidOrder = errors.New("invalid iteration order")

	// ErrUnavailable is the panic value of the import table outside wasm builds.
	ErrUnavailable = errors.New("host imports are only available in wasm builds")
)

// Order is the iteration direction passed to db_scan.
type Order int32

const (
	Ascending  Order = 1
	Descending Order = 2
)

func (o Order) String() string {
	switch o {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	default:
		return fmt.Sprintf("Order(%d)", int32(o))
	}
}

// Valid reports whether o is one of the two defined orders.
func (o Order) Valid() bool { return o == Ascending || o == Descending }

// HostError is an error message the host handed back from an import, for
// example an address that failed validation. Its text is the host message.
type HostError struct {
	Import  string
	Message string
}

func (e *HostError) Error() string { return e.Message }

// Is makes every HostError match ErrHostError.
func (e *HostError) Is(target error) bool { return target == ErrHostError }

// CryptoError carries an error code returned by a signature import.
type CryptoError struct {
	Import string
	Code   uint32
}

func (e *CryptoError) Error() string {
	var reason string
	switch e.Code {
	case CodeInvalidHashFormat:
		reason = "invalid hash format"
	case CodeInvalidSignatureFormat:
		reason = "invalid signature format"
	case CodeInvalidPubkeyFormat:
		reason = "invalid public key format"
	case CodeInvalidRecoveryParam:
		reason = "invalid recovery parameter"
	case CodeBatchError:
		reason = "batch verification error"
	default:
		reason = "unknown error"
	}
	return fmt.Sprintf("%s failed: %s (code %d)", e.Import, reason, e.Code)
}

// Raw is the import table of the "env" module at the pointer level. Every
// pointer argument and every pointer result is the address of a region
// header in guest memory.
type Raw interface {
	DBRead(keyPtr uint32) uint32
	DBWrite(keyPtr, valuePtr uint32)
	DBRemove(keyPtr uint32)
	DBScan(startPtr, endPtr uint32, order int32) uint32
	DBNext(iteratorID uint32) uint32
	AddrValidate(sourcePtr uint32) uint32
	AddrCanonicalize(sourcePtr, destinationPtr uint32) uint32
	AddrHumanize(sourcePtr, destinationPtr uint32) uint32
	Secp256k1Verify(hashPtr, signaturePtr, pubkeyPtr uint32) uint32
	Secp256k1RecoverPubkey(hashPtr, signaturePtr, recoveryParam uint32) uint64
	Ed25519Verify(messagePtr, signaturePtr, pubkeyPtr uint32) uint32
	Ed25519BatchVerify(messagesPtr, signaturesPtr, pubkeysPtr uint32) uint32
	Debug(sourcePtr uint32)
	QueryChain(requestPtr uint32) uint32
	Abort(messagePtr uint32)
}

// Host is the typed host capability. Storage, address and crypto helpers
// depend on it rather than on the raw import table, so an in-memory fake can
// stand in for the chain.
type Host interface {
	// DBRead returns the value stored at key and whether it exists. An empty
	// stored value is reported as present.
	DBRead(key []byte) ([]byte, bool, error)
	DBWrite(key, value []byte) error
	DBRemove(key []byte) error

	// DBScan opens an iterator over [start, end). Nil bounds are open.
	DBScan(start, end []byte, order Order) (uint32, error)

	// DBNext advances an iterator. An empty key means it is exhausted.
	DBNext(iterator uint32) (key, value []byte, err error)

	AddrValidate(addr string) error
	AddrCanonicalize(addr string) ([]byte, error)
	AddrHumanize(canonical []byte) (string, error)

	Secp256k1Verify(hash, signature, pubkey []byte) (bool, error)
	Secp256k1RecoverPubkey(hash, signature []byte, param uint8) ([]byte, error)
	Ed25519Verify(message, signature, pubkey []byte) (bool, error)
	Ed25519BatchVerify(messages, signatures, pubkeys [][]byte) (bool, error)

	Debug(message string)

	// QueryChain sends a JSON QueryRequest and returns the raw SystemResult.
	QueryChain(request []byte) ([]byte, error)

	// Abort stops execution with a diagnostic. It does not return on a real
	// host.
	Abort(message string)
}
