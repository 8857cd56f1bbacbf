package imports

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/cosmology-tech/cosmwasm-go/memory"
	"github.com/cosmology-tech/cosmwasm-go/region"
)

// Config controls how Bindings reach the host.
type Config struct {
	// Memory is the guest memory regions are allocated in. If nil,
	// memory.Linear() is used.
	Memory memory.Memory

	// Raw overrides the import table. If nil, Wasm() is used.
	Raw Raw
}

// Bindings implements Host over a Raw import table.
type Bindings struct {
	mem memory.Memory
	raw Raw
}

var _ Host = (*Bindings)(nil)

// New creates Bindings for the configured memory and import table.
func New(cfg Config) (*Bindings, error) {
	mem := cfg.Memory
	if mem == nil {
		mem = memory.Linear()
	}

	raw := cfg.Raw
	if raw == nil {
		raw = Wasm()
	}

	return &Bindings{mem: mem, raw: raw}, nil
}

// Memory returns the memory arguments are marshaled into.
func (b *Bindings) Memory() memory.Memory { return b.mem }

// put allocates a guest-owned region holding data. The caller frees it after
// the import returns.
func (b *Bindings) put(name string, data []byte) (*region.Region, error) {
	r, err := region.AllocateAndWrite(b.mem, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProtocol, name, err)
	}
	return r, nil
}

// take consumes a region the host handed to the guest.
func (b *Bindings) take(name string, ptr uint32) ([]byte, error) {
	data, err := region.Consume(b.mem, ptr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProtocol, name, err)
	}
	return data, nil
}

func (b *Bindings) free(name string, regions ...*region.Region) error {
	var errs []error
	for _, r := range regions {
		if r != nil {
			errs = append(errs, r.Free())
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrProtocol, name, err)
	}
	return nil
}

// hostError consumes the error message region returned by an address import.
func (b *Bindings) hostError(name string, ptr uint32) error {
	msg, err := b.take(name, ptr)
	if err != nil {
		return err
	}
	return &HostError{Import: name, Message: string(msg)}
}

// DBRead implements Host. A zero result pointer means the key is absent; any
// other pointer, including one to an empty region, is a present value.
func (b *Bindings) DBRead(key []byte) ([]byte, bool, error) {
	const name = "db_read"
	k, err := b.put(name, key)
	if err != nil {
		return nil, false, err
	}

	ptr := b.raw.DBRead(k.Ptr())
	if err := b.free(name, k); err != nil {
		return nil, false, err
	}
	if ptr == 0 {
		return nil, false, nil
	}

	value, err := b.take(name, ptr)
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// DBWrite implements Host.
func (b *Bindings) DBWrite(key, value []byte) error {
	const name = "db_write"
	k, err := b.put(name, key)
	if err != nil {
		return err
	}
	v, err := b.put(name, value)
	if err != nil {
		return errors.Join(err, b.free(name, k))
	}

	b.raw.DBWrite(k.Ptr(), v.Ptr())
	return b.free(name, k, v)
}

// DBRemove implements Host.
func (b *Bindings) DBRemove(key []byte) error {
	const name = "db_remove"
	k, err := b.put(name, key)
	if err != nil {
		return err
	}

	b.raw.DBRemove(k.Ptr())
	return b.free(name, k)
}

// DBScan implements Host. Nil bounds are passed as null pointers.
func (b *Bindings) DBScan(start, end []byte, order Order) (uint32, error) {
	const name = "db_scan"
	if !order.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidOrder, order)
	}

	var s, e *region.Region
	var err error
	if start != nil {
		if s, err = b.put(name, start); err != nil {
			return 0, err
		}
	}
	if end != nil {
		if e, err = b.put(name, end); err != nil {
			return 0, errors.Join(err, b.free(name, s))
		}
	}

	id := b.raw.DBScan(ptrOf(s), ptrOf(e), int32(order))
	if err := b.free(name, s, e); err != nil {
		return 0, err
	}
	return id, nil
}

// DBNext implements Host. The host packs the record as two sections, key
// then value.
func (b *Bindings) DBNext(iterator uint32) ([]byte, []byte, error) {
	const name = "db_next"
	ptr := b.raw.DBNext(iterator)
	if ptr == 0 {
		return nil, nil, fmt.Errorf("%w: %s returned a null region", ErrHostResponseInvalid, name)
	}

	data, err := b.take(name, ptr)
	if err != nil {
		return nil, nil, err
	}

	sections, err := region.DecodeSections(data)
	if err != nil {
		return nil, nil, errors.Join(ErrHostResponseInvalid, err)
	}
	if len(sections) != 2 {
		return nil, nil, fmt.Errorf("%w: %s returned %d sections", ErrHostResponseInvalid, name, len(sections))
	}
	if len(sections[0]) == 0 {
		return nil, nil, nil
	}
	return sections[0], sections[1], nil
}

// AddrValidate implements Host.
func (b *Bindings) AddrValidate(addr string) error {
	const name = "addr_validate"
	src, err := b.put(name, []byte(addr))
	if err != nil {
		return err
	}

	ptr := b.raw.AddrValidate(src.Ptr())
	if err := b.free(name, src); err != nil {
		return err
	}
	if ptr != 0 {
		return b.hostError(name, ptr)
	}
	return nil
}

// AddrCanonicalize implements Host.
func (b *Bindings) AddrCanonicalize(addr string) ([]byte, error) {
	const name = "addr_canonicalize"
	src, err := b.put(name, []byte(addr))
	if err != nil {
		return nil, err
	}
	dst, err := region.Allocate(b.mem, CanonicalAddressCapacity)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %s: %w", ErrProtocol, name, err), b.free(name, src))
	}

	ptr := b.raw.AddrCanonicalize(src.Ptr(), dst.Ptr())
	if err := b.free(name, src); err != nil {
		return nil, errors.Join(err, b.free(name, dst))
	}
	if ptr != 0 {
		return nil, errors.Join(b.hostError(name, ptr), b.free(name, dst))
	}

	canonical, err := dst.Consume()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProtocol, name, err)
	}
	return canonical, nil
}

// AddrHumanize implements Host.
func (b *Bindings) AddrHumanize(canonical []byte) (string, error) {
	const name = "addr_humanize"
	src, err := b.put(name, canonical)
	if err != nil {
		return "", err
	}
	dst, err := region.Allocate(b.mem, HumanAddressCapacity)
	if err != nil {
		return "", errors.Join(fmt.Errorf("%w: %s: %w", ErrProtocol, name, err), b.free(name, src))
	}

	ptr := b.raw.AddrHumanize(src.Ptr(), dst.Ptr())
	if err := b.free(name, src); err != nil {
		return "", errors.Join(err, b.free(name, dst))
	}
	if ptr != 0 {
		return "", errors.Join(b.hostError(name, ptr), b.free(name, dst))
	}

	human, err := dst.Consume()
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrProtocol, name, err)
	}
	if !utf8.Valid(human) {
		return "", fmt.Errorf("%w: %s returned invalid UTF-8", ErrHostResponseInvalid, name)
	}
	return string(human), nil
}

// verify runs one of the three-region verification imports.
func (b *Bindings) verify(name string, call func(a, b, c uint32) uint32, args ...[]byte) (bool, error) {
	regions := make([]*region.Region, 0, len(args))
	for _, arg := range args {
		r, err := b.put(name, arg)
		if err != nil {
			return false, errors.Join(err, b.free(name, regions...))
		}
		regions = append(regions, r)
	}

	code := call(regions[0].Ptr(), regions[1].Ptr(), regions[2].Ptr())
	if err := b.free(name, regions...); err != nil {
		return false, err
	}

	switch code {
	case VerifyValid:
		return true, nil
	case VerifyInvalid:
		return false, nil
	default:
		return false, &CryptoError{Import: name, Code: code}
	}
}

// Secp256k1Verify implements Host.
func (b *Bindings) Secp256k1Verify(hash, signature, pubkey []byte) (bool, error) {
	return b.verify("secp256k1_verify", b.raw.Secp256k1Verify, hash, signature, pubkey)
}

// Ed25519Verify implements Host.
func (b *Bindings) Ed25519Verify(message, signature, pubkey []byte) (bool, error) {
	return b.verify("ed25519_verify", b.raw.Ed25519Verify, message, signature, pubkey)
}

// Ed25519BatchVerify implements Host. Each list is packed with EncodeSections.
func (b *Bindings) Ed25519BatchVerify(messages, signatures, pubkeys [][]byte) (bool, error) {
	return b.verify(
		"ed25519_batch_verify",
		b.raw.Ed25519BatchVerify,
		region.EncodeSections(messages...),
		region.EncodeSections(signatures...),
		region.EncodeSections(pubkeys...),
	)
}

// Secp256k1RecoverPubkey implements Host. The host packs an error code into
// the high 32 bits of the result and the pubkey region into the low 32 bits.
func (b *Bindings) Secp256k1RecoverPubkey(hash, signature []byte, param uint8) ([]byte, error) {
	const name = "secp256k1_recover_pubkey"
	h, err := b.put(name, hash)
	if err != nil {
		return nil, err
	}
	s, err := b.put(name, signature)
	if err != nil {
		return nil, errors.Join(err, b.free(name, h))
	}

	result := b.raw.Secp256k1RecoverPubkey(h.Ptr(), s.Ptr(), uint32(param))
	if err := b.free(name, h, s); err != nil {
		return nil, err
	}

	if code := uint32(result >> 32); code != 0 {
		return nil, &CryptoError{Import: name, Code: code}
	}
	return b.take(name, uint32(result))
}

// Debug implements Host. Failures to marshal the message are dropped.
func (b *Bindings) Debug(message string) {
	const name = "debug"
	r, err := b.put(name, []byte(message))
	if err != nil {
		return
	}
	b.raw.Debug(r.Ptr())
	_ = b.free(name, r)
}

// QueryChain implements Host.
func (b *Bindings) QueryChain(request []byte) ([]byte, error) {
	const name = "query_chain"
	req, err := b.put(name, request)
	if err != nil {
		return nil, err
	}

	ptr := b.raw.QueryChain(req.Ptr())
	if err := b.free(name, req); err != nil {
		return nil, err
	}
	return b.take(name, ptr)
}

// Abort implements Host.
func (b *Bindings) Abort(message string) {
	const name = "abort"
	r, err := b.put(name, []byte(message))
	if err != nil {
		b.raw.Abort(0)
		return
	}
	b.raw.Abort(r.Ptr())
	_ = b.free(name, r)
}

func ptrOf(r *region.Region) uint32 {
	if r == nil {
		return 0
	}
	return r.Ptr()
}
