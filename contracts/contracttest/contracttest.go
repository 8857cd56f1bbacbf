// Package contracttest runs contracts through the full export path in
// tests: JSON inputs are written into regions of a heap, the exports are
// called with their pointers and the result region is read back.
package contracttest

import (
	"encoding/json"
	"testing"

	sdk "github.com/cosmology-tech/cosmwasm-go"
	"github.com/cosmology-tech/cosmwasm-go/entrypoint"
	"github.com/cosmology-tech/cosmwasm-go/exports"
	"github.com/cosmology-tech/cosmwasm-go/hostmock"
	"github.com/cosmology-tech/cosmwasm-go/imports/mock"
	"github.com/cosmology-tech/cosmwasm-go/memory"
	"github.com/cosmology-tech/cosmwasm-go/std"
)

// ContractAddress is the address of the contract under test.
const ContractAddress = "cosmwasm1contract"

// Harness holds a contract registered with the exports and the mocked chain
// it runs against.
type Harness struct {
	t testing.TB

	// Heap is the guest memory.
	Heap *memory.Heap

	// Backend is the mocked chain. Its storage, logs and aborts can be
	// inspected directly.
	Backend *mock.Host

	// Env is passed to every call. Tests move the block forward by editing it.
	Env std.Env

	raw *hostmock.Host
}

// New registers c and returns a harness at block height 12345.
func New[I, E, Q any](t testing.TB, c entrypoint.Contract[I, E, Q]) *Harness {
	t.Helper()

	heap := memory.NewHeap(memory.HeapConfig{})
	backend := mock.New(mock.Config{})
	raw, err := hostmock.New(hostmock.Config{Memory: heap, Backend: backend})
	if err != nil {
		t.Fatalf("hostmock.New returned error: %v", err)
	}

	if _, err := sdk.New(sdk.Config[I, E, Q]{Memory: heap, Imports: raw, Contract: c}); err != nil {
		t.Fatalf("sdk.New returned error: %v", err)
	}
	t.Cleanup(func() { exports.Register(nil) })

	return &Harness{
		t:       t,
		Heap:    heap,
		Backend: backend,
		raw:     raw,
		Env: std.Env{
			Block: std.BlockInfo{
				Height:  12345,
				Time:    std.TimestampFromSeconds(1_571_797_419),
				ChainID: "cosmos-testnet-14002",
			},
			Contract: std.ContractInfo{Address: ContractAddress},
		},
	}
}

// Addr returns a valid address derived from name. Names longer than 20
// bytes are truncated.
func (h *Harness) Addr(name string) string {
	canonical := make([]byte, mock.MinCanonicalLength)
	copy(canonical, name)
	return h.Backend.Address(canonical)
}

// Instantiate calls the instantiate export and returns the envelope.
func (h *Harness) Instantiate(sender string, msg any) string {
	h.t.Helper()
	return h.call(func() uint32 {
		return exports.Instantiate(h.put(h.Env), h.put(std.MessageInfo{Sender: sender, Funds: []std.Coin{}}), h.put(msg))
	})
}

// Execute calls the execute export and returns the envelope.
func (h *Harness) Execute(sender string, msg any) string {
	h.t.Helper()
	return h.call(func() uint32 {
		return exports.Execute(h.put(h.Env), h.put(std.MessageInfo{Sender: sender, Funds: []std.Coin{}}), h.put(msg))
	})
}

// Query calls the query export and returns the envelope.
func (h *Harness) Query(msg any) string {
	h.t.Helper()
	return h.call(func() uint32 { return exports.Query(h.put(h.Env), h.put(msg)) })
}

// ExecuteOK executes msg and fails the test unless the result is ok.
func (h *Harness) ExecuteOK(sender string, msg any) std.Response {
	h.t.Helper()
	var res std.ContractResult[std.Response]
	out := h.Execute(sender, msg)
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		h.t.Fatalf("decoding envelope %s: %v", out, err)
	}
	v, err := res.Unwrap()
	if err != nil {
		h.t.Fatalf("execute %v failed: %v", msg, err)
	}
	return v
}

// QueryInto runs a query that must succeed and decodes its JSON answer into
// out.
func (h *Harness) QueryInto(msg any, out any) {
	h.t.Helper()
	var res std.ContractResult[std.Binary]
	env := h.Query(msg)
	if err := json.Unmarshal([]byte(env), &res); err != nil {
		h.t.Fatalf("decoding envelope %s: %v", env, err)
	}
	b, err := res.Unwrap()
	if err != nil {
		h.t.Fatalf("query %v failed: %v", msg, err)
	}
	if err := std.FromBinary(b, out); err != nil {
		h.t.Fatalf("decoding query answer %s: %v", b, err)
	}
}

// AssertNoLeaks fails the test when guest memory still holds allocations.
func (h *Harness) AssertNoLeaks() {
	h.t.Helper()
	if n := h.Heap.Stats().Allocations; n != 0 {
		h.t.Fatalf("expected no live allocations, got %d", n)
	}
}

func (h *Harness) call(fn func() uint32) string {
	h.t.Helper()
	out, err := h.raw.Take(fn())
	if err != nil {
		h.t.Fatalf("reading result region: %v", err)
	}
	return string(out)
}

// put writes v into a region owned by the caller. Strings and byte slices
// are written as is; anything else is JSON encoded.
func (h *Harness) put(v any) uint32 {
	h.t.Helper()
	var data []byte
	switch m := v.(type) {
	case string:
		data = []byte(m)
	case []byte:
		data = m
	default:
		b, err := json.Marshal(v)
		if err != nil {
			h.t.Fatalf("encoding %v: %v", v, err)
		}
		data = b
	}

	ptr, err := h.raw.Put(data)
	if err != nil {
		h.t.Fatalf("writing region: %v", err)
	}
	return ptr
}
