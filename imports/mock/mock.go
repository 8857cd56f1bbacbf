package mock

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/cosmology-tech/cosmwasm-go/imports"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// DefaultBech32Prefix is the address prefix used when none is configured.
const DefaultBech32Prefix = "cosmwasm"

// Bounds on canonical address length accepted by the address codec.
const (
	MinCanonicalLength = 20
	MaxCanonicalLength = 32
)

// Operation names recorded in Calls.
const (
	OpDBRead       = "db_read"
	OpDBWrite      = "db_write"
	OpDBRemove     = "db_remove"
	OpDBScan       = "db_scan"
	OpDBNext       = "db_next"
	OpQueryChain   = "query_chain"
	OpAddrValidate = "addr_validate"
)

var (
	// ErrInvalidAddress is returned by the address codec for malformed input.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnknownIterator is returned by DBNext for an id DBScan never issued.
	ErrUnknownIterator = errors.New("unknown iterator")
)

// AbortError is the panic value raised by Abort.
type AbortError struct {
	Message string
}

func (e *AbortError) Error() string { return "contract aborted: " + e.Message }

// Config configures the mock host.
type Config struct {
	// Seed pre-populates storage.
	Seed map[string][]byte

	// Bech32Prefix is the human readable part of addresses. Defaults to
	// DefaultBech32Prefix.
	Bech32Prefix string

	// Querier answers query_chain with a raw SystemResult. If nil, every
	// query yields an unsupported_request system error.
	Querier func(request []byte) []byte
}

// Response describes a configured mock outcome.
type Response struct {
	// Value is returned by db_read; Found reports whether it is present.
	Value []byte
	Found bool
	// Err is returned by the operation.
	Err error
}

// ResponseBuilder allows fluent configuration of responses.
type ResponseBuilder struct {
	m   *Host
	key string
}

// ReturnValue makes db_read report value as present.
func (b *ResponseBuilder) ReturnValue(v []byte) *ResponseBuilder {
	r := b.m.responses[b.key]
	r.Value = append([]byte(nil), v...)
	r.Found = true
	b.m.responses[b.key] = r
	return b
}

// ReturnNotFound makes db_read report the key as absent.
func (b *ResponseBuilder) ReturnNotFound() *ResponseBuilder {
	r := b.m.responses[b.key]
	r.Value, r.Found = nil, false
	b.m.responses[b.key] = r
	return b
}

// ReturnError sets an error for the configured operation.
func (b *ResponseBuilder) ReturnError(err error) *Host {
	r := b.m.responses[b.key]
	r.Err = err
	b.m.responses[b.key] = r
	return b.m
}

// Call records an operation performed against the mock.
type Call struct {
	Op    string
	Key   []byte
	Value []byte
}

type record struct {
	key, value []byte
}

type iterator struct {
	records []record
	next    int
}

// Host implements imports.Host in memory.
type Host struct {
	store     map[string][]byte
	responses map[string]Response
	iterators []*iterator
	prefix    string
	querier   func([]byte) []byte

	// Calls stores a history of storage and query operations.
	Calls []Call

	// Logs collects every debug message.
	Logs []string

	// Aborts collects every abort message.
	Aborts []string
}

var _ imports.Host = (*Host)(nil)

// New creates a mock host.
func New(cfg Config) *Host {
	st := make(map[string][]byte, len(cfg.Seed))
	for k, v := range cfg.Seed {
		st[k] = append([]byte(nil), v...)
	}

	prefix := cfg.Bech32Prefix
	if prefix == "" {
		prefix = DefaultBech32Prefix
	}

	return &Host{
		store:     st,
		responses: make(map[string]Response),
		prefix:    prefix,
		querier:   cfg.Querier,
		Calls:     []Call{},
	}
}

// OnRead configures the db_read response for a key.
func (m *Host) OnRead(key []byte) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpDBRead + " " + string(key)}
}

// OnWrite configures the db_write response for a key.
func (m *Host) OnWrite(key []byte) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpDBWrite + " " + string(key)}
}

// OnRemove configures the db_remove response for a key.
func (m *Host) OnRemove(key []byte) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpDBRemove + " " + string(key)}
}

// OnQuery configures the query_chain response.
func (m *Host) OnQuery() *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpQueryChain}
}

// Get returns the raw stored value for key, bypassing configured responses.
func (m *Host) Get(key []byte) ([]byte, bool) {
	v, ok := m.store[string(key)]
	return v, ok
}

// Len returns the number of stored keys.
func (m *Host) Len() int { return len(m.store) }

// Snapshot returns a copy of storage.
func (m *Host) Snapshot() map[string][]byte {
	out := make(map[string][]byte, len(m.store))
	for k, v := range m.store {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// DBRead implements imports.Host.
func (m *Host) DBRead(key []byte) ([]byte, bool, error) {
	m.Calls = append(m.Calls, Call{Op: OpDBRead, Key: clone(key)})
	if r, ok := m.responses[OpDBRead+" "+string(key)]; ok {
		return clone(r.Value), r.Found && r.Err == nil, r.Err
	}
	v, ok := m.store[string(key)]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

// DBWrite implements imports.Host.
func (m *Host) DBWrite(key, value []byte) error {
	m.Calls = append(m.Calls, Call{Op: OpDBWrite, Key: clone(key), Value: clone(value)})
	if r, ok := m.responses[OpDBWrite+" "+string(key)]; ok && r.Err != nil {
		return r.Err
	}
	if value == nil {
		value = []byte{}
	}
	m.store[string(key)] = clone(value)
	return nil
}

// DBRemove implements imports.Host. Removing a missing key is not an error.
func (m *Host) DBRemove(key []byte) error {
	m.Calls = append(m.Calls, Call{Op: OpDBRemove, Key: clone(key)})
	if r, ok := m.responses[OpDBRemove+" "+string(key)]; ok && r.Err != nil {
		return r.Err
	}
	delete(m.store, string(key))
	return nil
}

// DBScan implements imports.Host. The matching records are copied when the
// iterator is created, so later writes do not affect it.
func (m *Host) DBScan(start, end []byte, order imports.Order) (uint32, error) {
	m.Calls = append(m.Calls, Call{Op: OpDBScan, Key: clone(start), Value: clone(end)})
	if !order.Valid() {
		return 0, fmt.Errorf("%w: %s", imports.ErrInvalidOrder, order)
	}

	keys := make([]string, 0, len(m.store))
	for k := range m.store {
		if start != nil && k < string(start) {
			continue
		}
		if end != nil && k >= string(end) {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if order == imports.Descending {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	it := &iterator{records: make([]record, 0, len(keys))}
	for _, k := range keys {
		it.records = append(it.records, record{key: []byte(k), value: clone(m.store[k])})
	}
	m.iterators = append(m.iterators, it)
	return uint32(len(m.iterators)), nil
}

// DBNext implements imports.Host.
func (m *Host) DBNext(id uint32) ([]byte, []byte, error) {
	m.Calls = append(m.Calls, Call{Op: OpDBNext})
	if id == 0 || int(id) > len(m.iterators) {
		return nil, nil, fmt.Errorf("%w: %d", ErrUnknownIterator, id)
	}

	it := m.iterators[id-1]
	if it.next >= len(it.records) {
		return nil, nil, nil
	}
	rec := it.records[it.next]
	it.next++
	return clone(rec.key), clone(rec.value), nil
}

// AddrValidate implements imports.Host. Only the normalized form of an
// address is valid.
func (m *Host) AddrValidate(addr string) error {
	m.Calls = append(m.Calls, Call{Op: OpAddrValidate, Key: []byte(addr)})
	canonical, err := m.AddrCanonicalize(addr)
	if err != nil {
		return err
	}
	normalized, err := m.AddrHumanize(canonical)
	if err != nil {
		return err
	}
	if normalized != addr {
		return fmt.Errorf("%w: address not normalized", ErrInvalidAddress)
	}
	return nil
}

// AddrCanonicalize implements imports.Host.
func (m *Host) AddrCanonicalize(addr string) ([]byte, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, fmt.Errorf("%w: empty address", ErrInvalidAddress)
	}

	hrp, data, err := bech32.DecodeToBase256(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	if hrp != m.prefix {
		return nil, fmt.Errorf("%w: wrong bech32 prefix %q", ErrInvalidAddress, hrp)
	}
	if err := checkCanonicalLength(data); err != nil {
		return nil, err
	}
	return data, nil
}

// AddrHumanize implements imports.Host.
func (m *Host) AddrHumanize(canonical []byte) (string, error) {
	if err := checkCanonicalLength(canonical); err != nil {
		return "", err
	}
	addr, err := bech32.EncodeFromBase256(m.prefix, canonical)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}
	return addr, nil
}

// Address returns the bech32 address of canonical under the configured
// prefix. It panics on invalid lengths and is meant for test fixtures.
func (m *Host) Address(canonical []byte) string {
	addr, err := m.AddrHumanize(canonical)
	if err != nil {
		panic(err)
	}
	return addr
}

func checkCanonicalLength(data []byte) error {
	if len(data) < MinCanonicalLength || len(data) > MaxCanonicalLength {
		return fmt.Errorf("%w: canonical length %d not in [%d, %d]",
			ErrInvalidAddress, len(data), MinCanonicalLength, MaxCanonicalLength)
	}
	return nil
}

// Secp256k1Verify implements imports.Host. The signature is 64 bytes r||s
// and must be in low-S form.
func (m *Host) Secp256k1Verify(hash, signature, pubkey []byte) (bool, error) {
	const name = "secp256k1_verify"
	if len(hash) != 32 {
		return false, &imports.CryptoError{Import: name, Code: imports.CodeInvalidHashFormat}
	}
	if len(signature) != 64 {
		return false, &imports.CryptoError{Import: name, Code: imports.CodeInvalidSignatureFormat}
	}
	key, err := secp256k1.ParsePubKey(pubkey)
	if err != nil {
		return false, &imports.CryptoError{Import: name, Code: imports.CodeInvalidPubkeyFormat}
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(signature[:32]); overflow || r.IsZero() {
		return false, &imports.CryptoError{Import: name, Code: imports.CodeInvalidSignatureFormat}
	}
	if overflow := s.SetByteSlice(signature[32:]); overflow || s.IsZero() {
		return false, &imports.CryptoError{Import: name, Code: imports.CodeInvalidSignatureFormat}
	}
	if s.IsOverHalfOrder() {
		return false, nil
	}

	return ecdsa.NewSignature(&r, &s).Verify(hash, key), nil
}

// Secp256k1RecoverPubkey implements imports.Host and returns the
// uncompressed 65-byte public key.
func (m *Host) Secp256k1RecoverPubkey(hash, signature []byte, param uint8) ([]byte, error) {
	const name = "secp256k1_recover_pubkey"
	if len(hash) != 32 {
		return nil, &imports.CryptoError{Import: name, Code: imports.CodeInvalidHashFormat}
	}
	if len(signature) != 64 {
		return nil, &imports.CryptoError{Import: name, Code: imports.CodeInvalidSignatureFormat}
	}
	if param > 1 {
		return nil, &imports.CryptoError{Import: name, Code: imports.CodeInvalidRecoveryParam}
	}

	compact := make([]byte, 0, 65)
	compact = append(compact, 27+param)
	compact = append(compact, signature...)
	key, _, err := ecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, &imports.CryptoError{Import: name, Code: imports.CodeGenericError}
	}
	return key.SerializeUncompressed(), nil
}

// Ed25519Verify implements imports.Host.
func (m *Host) Ed25519Verify(message, signature, pubkey []byte) (bool, error) {
	const name = "ed25519_verify"
	if len(signature) != ed25519.SignatureSize {
		return false, &imports.CryptoError{Import: name, Code: imports.CodeInvalidSignatureFormat}
	}
	if len(pubkey) != ed25519.PublicKeySize {
		return false, &imports.CryptoError{Import: name, Code: imports.CodeInvalidPubkeyFormat}
	}
	return ed25519.Verify(pubkey, message, signature), nil
}

// Ed25519BatchVerify implements imports.Host. A single message may be
// verified against many signature/key pairs and a single key may verify many
// message/signature pairs; otherwise all three lists must have equal length.
func (m *Host) Ed25519BatchVerify(messages, signatures, pubkeys [][]byte) (bool, error) {
	const name = "ed25519_batch_verify"
	n := len(signatures)
	if (len(messages) != n && len(messages) != 1) || (len(pubkeys) != n && len(pubkeys) != 1) {
		return false, &imports.CryptoError{Import: name, Code: imports.CodeBatchError}
	}
	if n == 0 {
		return true, nil
	}

	for i := 0; i < n; i++ {
		msg := messages[0]
		if len(messages) > 1 {
			msg = messages[i]
		}
		key := pubkeys[0]
		if len(pubkeys) > 1 {
			key = pubkeys[i]
		}

		ok, err := m.Ed25519Verify(msg, signatures[i], key)
		var cerr *imports.CryptoError
		if errors.As(err, &cerr) {
			return false, &imports.CryptoError{Import: name, Code: cerr.Code}
		}
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Debug implements imports.Host.
func (m *Host) Debug(message string) {
	m.Logs = append(m.Logs, message)
}

// QueryChain implements imports.Host.
func (m *Host) QueryChain(request []byte) ([]byte, error) {
	m.Calls = append(m.Calls, Call{Op: OpQueryChain, Key: clone(request)})
	if r, ok := m.responses[OpQueryChain]; ok {
		return clone(r.Value), r.Err
	}
	if m.querier != nil {
		return m.querier(request), nil
	}
	return []byte(`{"error":{"unsupported_request":{"kind":"mock querier not configured"}}}`), nil
}

// Abort implements imports.Host. It records the message and panics with
// *AbortError.
func (m *Host) Abort(message string) {
	m.Aborts = append(m.Aborts, message)
	panic(&AbortError{Message: message})
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return bytes.Clone(b)
}
