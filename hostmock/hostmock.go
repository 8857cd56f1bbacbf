package hostmock

import (
	"errors"
	"fmt"

	"github.com/cosmology-tech/cosmwasm-go/imports"
	"github.com/cosmology-tech/cosmwasm-go/imports/mock"
	"github.com/cosmology-tech/cosmwasm-go/memory"
	"github.com/cosmology-tech/cosmwasm-go/region"
)

var (
	// ErrMemoryNil is returned by New when no guest memory is configured.
	ErrMemoryNil = errors.New("guest memory cannot be nil")

	// ErrOperationFailed is returned when Fail is set without a custom error.
	ErrOperationFailed = errors.New("operation failed")
)

// Trap is the panic value raised when the simulated host cannot complete an
// import, the way a VM traps the instance.
type Trap struct {
	Import string
	Err    error
}

func (t *Trap) Error() string { return fmt.Sprintf("host trap in %s: %v", t.Import, t.Err) }

func (t *Trap) Unwrap() error { return t.Err }

// Config represents the configuration for creating a Host.
type Config struct {
	// Memory is the guest memory shared with the contract under test.
	Memory memory.Memory

	// Backend answers the typed side of every import. If nil, a fresh
	// mock.Host is used.
	Backend imports.Host

	// Error is the error to trap with if the host is configured to fail.
	Error error

	// Fail makes imports trap. If FailImport is set only that import fails.
	Fail       bool
	FailImport string
}

// Host implements imports.Raw on top of guest memory and a typed backend.
type Host struct {
	mem     memory.Memory
	backend imports.Host

	// Error is the error to trap with if the host is configured to fail.
	Error error

	// Fail makes imports trap. If FailImport is set only that import fails.
	Fail       bool
	FailImport string

	// Calls lists every import invoked, in order.
	Calls []string
}

var _ imports.Raw = (*Host)(nil)

// New creates a simulated host over the guest memory.
func New(config Config) (*Host, error) {
	if config.Memory == nil {
		return nil, ErrMemoryNil
	}

	backend := config.Backend
	if backend == nil {
		backend = mock.New(mock.Config{})
	}

	return &Host{
		mem:        config.Memory,
		backend:    backend,
		Error:      config.Error,
		Fail:       config.Fail,
		FailImport: config.FailImport,
	}, nil
}

// Backend returns the typed host the imports are answered by.
func (h *Host) Backend() imports.Host { return h.backend }

// Put copies data into a new guest region and hands ownership to the guest,
// as the VM does with entry point arguments.
func (h *Host) Put(data []byte) (uint32, error) {
	r, err := region.AllocateAndWrite(h.mem, data)
	if err != nil {
		return 0, err
	}
	return r.Release()
}

// Take reads a region the guest returned and deallocates it.
func (h *Host) Take(ptr uint32) ([]byte, error) {
	return region.Consume(h.mem, ptr)
}

// enter records the call and traps when the host is configured to fail.
func (h *Host) enter(name string) {
	h.Calls = append(h.Calls, name)

	if !h.Fail || (h.FailImport != "" && h.FailImport != name) {
		return
	}
	if h.Error != nil {
		panic(&Trap{Import: name, Err: h.Error})
	}
	panic(&Trap{Import: name, Err: ErrOperationFailed})
}

// read returns the payload of a guest-owned argument region. The guest keeps
// ownership.
func (h *Host) read(name string, ptr uint32) []byte {
	r, err := region.FromPtr(h.mem, ptr)
	if err != nil {
		panic(&Trap{Import: name, Err: err})
	}
	data, err := r.Read()
	if err != nil {
		panic(&Trap{Import: name, Err: err})
	}
	return data
}

// readOptional treats a null pointer as an absent argument.
func (h *Host) readOptional(name string, ptr uint32) []byte {
	if ptr == 0 {
		return nil
	}
	return h.read(name, ptr)
}

// give allocates a result region and transfers it to the guest.
func (h *Host) give(name string, data []byte) uint32 {
	ptr, err := h.Put(data)
	if err != nil {
		panic(&Trap{Import: name, Err: err})
	}
	return ptr
}

func (h *Host) trap(name string, err error) {
	if err != nil {
		panic(&Trap{Import: name, Err: err})
	}
}

// DBRead implements imports.Raw.
func (h *Host) DBRead(keyPtr uint32) uint32 {
	const name = "db_read"
	h.enter(name)
	value, found, err := h.backend.DBRead(h.read(name, keyPtr))
	h.trap(name, err)
	if !found {
		return 0
	}
	return h.give(name, value)
}

// DBWrite implements imports.Raw.
func (h *Host) DBWrite(keyPtr, valuePtr uint32) {
	const name = "db_write"
	h.enter(name)
	h.trap(name, h.backend.DBWrite(h.read(name, keyPtr), h.read(name, valuePtr)))
}

// DBRemove implements imports.Raw.
func (h *Host) DBRemove(keyPtr uint32) {
	const name = "db_remove"
	h.enter(name)
	h.trap(name, h.backend.DBRemove(h.read(name, keyPtr)))
}

// DBScan implements imports.Raw.
func (h *Host) DBScan(startPtr, endPtr uint32, order int32) uint32 {
	const name = "db_scan"
	h.enter(name)
	id, err := h.backend.DBScan(h.readOptional(name, startPtr), h.readOptional(name, endPtr), imports.Order(order))
	h.trap(name, err)
	return id
}

// DBNext implements imports.Raw. The record is returned as two sections.
func (h *Host) DBNext(iteratorID uint32) uint32 {
	const name = "db_next"
	h.enter(name)
	key, value, err := h.backend.DBNext(iteratorID)
	h.trap(name, err)
	return h.give(name, region.EncodeSections(key, value))
}

// AddrValidate implements imports.Raw.
func (h *Host) AddrValidate(sourcePtr uint32) uint32 {
	const name = "addr_validate"
	h.enter(name)
	if err := h.backend.AddrValidate(string(h.read(name, sourcePtr))); err != nil {
		return h.give(name, []byte(err.Error()))
	}
	return 0
}

// AddrCanonicalize implements imports.Raw.
func (h *Host) AddrCanonicalize(sourcePtr, destinationPtr uint32) uint32 {
	const name = "addr_canonicalize"
	h.enter(name)
	canonical, err := h.backend.AddrCanonicalize(string(h.read(name, sourcePtr)))
	if err != nil {
		return h.give(name, []byte(err.Error()))
	}
	return h.writeDestination(name, destinationPtr, canonical)
}

// AddrHumanize implements imports.Raw.
func (h *Host) AddrHumanize(sourcePtr, destinationPtr uint32) uint32 {
	const name = "addr_humanize"
	h.enter(name)
	human, err := h.backend.AddrHumanize(h.read(name, sourcePtr))
	if err != nil {
		return h.give(name, []byte(err.Error()))
	}
	return h.writeDestination(name, destinationPtr, []byte(human))
}

// writeDestination fills a region the guest pre-allocated. A result that
// does not fit is reported as an error message region.
func (h *Host) writeDestination(name string, ptr uint32, data []byte) uint32 {
	dst, err := region.FromPtr(h.mem, ptr)
	if err != nil {
		panic(&Trap{Import: name, Err: err})
	}
	if err := dst.Write(data); err != nil {
		if errors.Is(err, region.ErrBufferTooSmall) {
			return h.give(name, []byte(err.Error()))
		}
		panic(&Trap{Import: name, Err: err})
	}
	return 0
}

func verifyCode(valid bool, err error) uint32 {
	var cerr *imports.CryptoError
	switch {
	case errors.As(err, &cerr):
		return cerr.Code
	case err != nil:
		return imports.CodeGenericError
	case valid:
		return imports.VerifyValid
	default:
		return imports.VerifyInvalid
	}
}

// Secp256k1Verify implements imports.Raw.
func (h *Host) Secp256k1Verify(hashPtr, signaturePtr, pubkeyPtr uint32) uint32 {
	const name = "secp256k1_verify"
	h.enter(name)
	return verifyCode(h.backend.Secp256k1Verify(h.read(name, hashPtr), h.read(name, signaturePtr), h.read(name, pubkeyPtr)))
}

// Secp256k1RecoverPubkey implements imports.Raw.
func (h *Host) Secp256k1RecoverPubkey(hashPtr, signaturePtr, recoveryParam uint32) uint64 {
	const name = "secp256k1_recover_pubkey"
	h.enter(name)
	if recoveryParam > 0xff {
		return uint64(imports.CodeInvalidRecoveryParam) << 32
	}
	pubkey, err := h.backend.Secp256k1RecoverPubkey(h.read(name, hashPtr), h.read(name, signaturePtr), uint8(recoveryParam))
	if err != nil {
		return uint64(verifyCode(false, err)) << 32
	}
	return uint64(h.give(name, pubkey))
}

// Ed25519Verify implements imports.Raw.
func (h *Host) Ed25519Verify(messagePtr, signaturePtr, pubkeyPtr uint32) uint32 {
	const name = "ed25519_verify"
	h.enter(name)
	return verifyCode(h.backend.Ed25519Verify(h.read(name, messagePtr), h.read(name, signaturePtr), h.read(name, pubkeyPtr)))
}

// Ed25519BatchVerify implements imports.Raw.
func (h *Host) Ed25519BatchVerify(messagesPtr, signaturesPtr, pubkeysPtr uint32) uint32 {
	const name = "ed25519_batch_verify"
	h.enter(name)

	var lists [3][][]byte
	for i, ptr := range []uint32{messagesPtr, signaturesPtr, pubkeysPtr} {
		sections, err := region.DecodeSections(h.read(name, ptr))
		if err != nil {
			return imports.CodeBatchError
		}
		lists[i] = sections
	}
	return verifyCode(h.backend.Ed25519BatchVerify(lists[0], lists[1], lists[2]))
}

// Debug implements imports.Raw.
func (h *Host) Debug(sourcePtr uint32) {
	const name = "debug"
	h.enter(name)
	h.backend.Debug(string(h.read(name, sourcePtr)))
}

// QueryChain implements imports.Raw.
func (h *Host) QueryChain(requestPtr uint32) uint32 {
	const name = "query_chain"
	h.enter(name)
	res, err := h.backend.QueryChain(h.read(name, requestPtr))
	h.trap(name, err)
	return h.give(name, res)
}

// Abort implements imports.Raw. The backend decides how to stop; mock.Host
// panics with *mock.AbortError.
func (h *Host) Abort(messagePtr uint32) {
	const name = "abort"
	h.Calls = append(h.Calls, name)
	var msg []byte
	if messagePtr != 0 {
		msg = h.read(name, messagePtr)
	}
	h.backend.Abort(string(msg))
}
