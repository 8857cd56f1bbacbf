package mock

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/cosmology-tech/cosmwasm-go/storage"
)

// Operation names recorded in Calls.
const (
	OpGet    = "GET"
	OpSet    = "SET"
	OpRemove = "REMOVE"
	OpRange  = "RANGE"
)

// Config configures the mock store.
type Config struct {
	// Seed pre-populates the store.
	Seed map[string][]byte
}

// Response describes a configured mock outcome.
type Response struct {
	// Value applies to GET; Found reports it as present.
	Value []byte
	Found bool
	// Err indicates an error to return for the operation.
	Err error
	// storeOnSet controls whether SET updates the store when a configured
	// SET response exists and Err == nil. Defaults to true.
	storeOnSet *bool
}

// ResponseBuilder allows fluent configuration of responses.
type ResponseBuilder struct {
	m   *Store
	key string // composite key: OP + " " + target
}

// ReturnValue makes GET report v as present.
func (b *ResponseBuilder) ReturnValue(v []byte) *ResponseBuilder {
	r := b.m.responses[b.key]
	r.Value = append([]byte(nil), v...)
	r.Found = true
	b.m.responses[b.key] = r
	return b
}

// ReturnNotFound makes GET report the key as absent.
func (b *ResponseBuilder) ReturnNotFound() *ResponseBuilder {
	r := b.m.responses[b.key]
	r.Value, r.Found = nil, false
	b.m.responses[b.key] = r
	return b
}

// ReturnError sets an error for the configured operation.
func (b *ResponseBuilder) ReturnError(err error) *Store {
	r := b.m.responses[b.key]
	r.Err = err
	b.m.responses[b.key] = r
	return b.m
}

// StoreOnSet controls whether a configured SET without error updates the
// store (default true).
func (b *ResponseBuilder) StoreOnSet(v bool) *ResponseBuilder {
	r := b.m.responses[b.key]
	r.storeOnSet = &v
	b.m.responses[b.key] = r
	return b
}

// Call records an operation performed against the mock.
type Call struct {
	Op    string
	Key   []byte
	Value []byte
}

// Store implements storage.Storage in memory.
type Store struct {
	data      map[string][]byte
	responses map[string]Response
	// Calls stores a history of operations for assertions.
	Calls []Call
}

var _ storage.Storage = (*Store)(nil)

// New creates a new mock store.
func New(cfg Config) *Store {
	st := make(map[string][]byte, len(cfg.Seed))
	for k, v := range cfg.Seed {
		st[k] = append([]byte(nil), v...)
	}
	return &Store{
		data:      st,
		responses: make(map[string]Response),
		Calls:     []Call{},
	}
}

// OnGet configures a GET response for a key.
func (m *Store) OnGet(key []byte) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpGet + " " + string(key)}
}

// OnSet configures a SET response for a key.
func (m *Store) OnSet(key []byte) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpSet + " " + string(key)}
}

// OnRemove configures a REMOVE response for a key.
func (m *Store) OnRemove(key []byte) *ResponseBuilder {
	return &ResponseBuilder{m: m, key: OpRemove + " " + string(key)}
}

// OnRange configures the RANGE response.
func (m *Store) OnRange() *ResponseBuilder { return &ResponseBuilder{m: m, key: OpRange} }

// Raw returns the stored bytes for key, bypassing configured responses.
func (m *Store) Raw(key []byte) ([]byte, bool) {
	v, ok := m.data[string(key)]
	return v, ok
}

// Len returns the number of stored keys.
func (m *Store) Len() int { return len(m.data) }

// Snapshot returns a copy of the store.
func (m *Store) Snapshot() map[string][]byte {
	out := make(map[string][]byte, len(m.data))
	for k, v := range m.data {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

// Get implements storage.Storage.
func (m *Store) Get(key []byte) ([]byte, bool, error) {
	m.Calls = append(m.Calls, Call{Op: OpGet, Key: clone(key)})
	if r, ok := m.responses[OpGet+" "+string(key)]; ok {
		return clone(r.Value), r.Found && r.Err == nil, r.Err
	}
	v, ok := m.data[string(key)]
	if !ok {
		return nil, false, nil
	}
	return clone(v), true, nil
}

// Set implements storage.Storage.
func (m *Store) Set(key, value []byte) error {
	m.Calls = append(m.Calls, Call{Op: OpSet, Key: clone(key), Value: clone(value)})
	if r, ok := m.responses[OpSet+" "+string(key)]; ok {
		if r.Err != nil {
			return r.Err
		}
		if r.storeOnSet != nil && !*r.storeOnSet {
			return nil
		}
	}
	m.data[string(key)] = append([]byte{}, value...)
	return nil
}

// Remove implements storage.Storage.
func (m *Store) Remove(key []byte) error {
	m.Calls = append(m.Calls, Call{Op: OpRemove, Key: clone(key)})
	if r, ok := m.responses[OpRemove+" "+string(key)]; ok && r.Err != nil {
		return r.Err
	}
	delete(m.data, string(key))
	return nil
}

// Range implements storage.Storage. The records are copied when the range
// is opened, so writes made while iterating are not visible.
func (m *Store) Range(start, end []byte, order storage.Order) (storage.Iterator, error) {
	m.Calls = append(m.Calls, Call{Op: OpRange, Key: clone(start), Value: clone(end)})
	if r, ok := m.responses[OpRange]; ok && r.Err != nil {
		return nil, r.Err
	}
	if !order.Valid() {
		return nil, fmt.Errorf("invalid order %s", order)
	}

	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		if start != nil && bytes.Compare([]byte(k), start) < 0 {
			continue
		}
		if end != nil && bytes.Compare([]byte(k), end) >= 0 {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if order == storage.Descending {
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	}

	it := &iterator{pos: -1}
	for _, k := range keys {
		it.keys = append(it.keys, []byte(k))
		it.values = append(it.values, clone(m.data[k]))
	}
	return it, nil
}

type iterator struct {
	keys   [][]byte
	values [][]byte
	pos    int
	closed bool
}

func (it *iterator) Next() bool {
	if it.closed || it.pos+1 >= len(it.keys) {
		return false
	}
	it.pos++
	return true
}

func (it *iterator) Key() []byte   { return it.keys[it.pos] }
func (it *iterator) Value() []byte { return it.values[it.pos] }
func (it *iterator) Err() error    { return nil }

func (it *iterator) Close() error {
	it.closed = true
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	return bytes.Clone(b)
}

// ErrExample is a sentinel error to help tests customize failures.
var ErrExample = errors.New("storage mock example error")
