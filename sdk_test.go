package sdk

import (
	"errors"
	"strings"
	"testing"

	"github.com/cosmology-tech/cosmwasm-go/entrypoint"
	"github.com/cosmology-tech/cosmwasm-go/exports"
	"github.com/cosmology-tech/cosmwasm-go/hostmock"
	"github.com/cosmology-tech/cosmwasm-go/imports/mock"
	"github.com/cosmology-tech/cosmwasm-go/memory"
	"github.com/cosmology-tech/cosmwasm-go/std"
)

type msg struct{}

func instantiate(entrypoint.Deps, std.Env, std.MessageInfo, msg) (std.Response, error) {
	return std.NewResponse(), nil
}

type testCase struct {
	name        string
	namespace   string
	instantiate entrypoint.InstantiateFunc[msg]
	wantErr     error
	wantNs      string
}

func newHost(t *testing.T) (*memory.Heap, *hostmock.Host, *mock.Host) {
	t.Helper()
	heap := memory.NewHeap(memory.HeapConfig{})
	backend := mock.New(mock.Config{})
	raw, err := hostmock.New(hostmock.Config{Memory: heap, Backend: backend})
	if err != nil {
		t.Fatalf("hostmock.New returned error: %v", err)
	}
	return heap, raw, backend
}

func TestNew(t *testing.T) {
	testCases := []testCase{
		{
			name:        "Valid Config",
			namespace:   "valid",
			instantiate: instantiate,
			wantErr:     nil,
			wantNs:      "valid",
		},
		{
			name:        "Empty Namespace",
			namespace:   "",
			instantiate: instantiate,
			wantErr:     nil,
			wantNs:      DefaultNamespace,
		},
		{
			name:        "Nil Instantiate",
			namespace:   "invalid",
			instantiate: nil,
			wantErr:     ErrInstantiateNil,
			wantNs:      "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			heap, raw, _ := newHost(t)
			sdk, err := New(Config[msg, msg, msg]{
				Namespace: tc.namespace,
				Memory:    heap,
				Imports:   raw,
				Contract:  entrypoint.Contract[msg, msg, msg]{Instantiate: tc.instantiate},
			})
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
			if err != nil {
				return
			}
			t.Cleanup(func() { exports.Register(nil) })

			t.Run("Check Namespace", func(t *testing.T) {
				if sdk.Config().Namespace != tc.wantNs {
					t.Errorf("expected namespace %q, got %q", tc.wantNs, sdk.Config().Namespace)
				}
			})
		})
	}
}

func TestSDK_Behavior(t *testing.T) {
	heap, raw, backend := newHost(t)

	s, err := New(Config[msg, msg, msg]{
		Namespace: "counter",
		Memory:    heap,
		Imports:   raw,
		Contract: entrypoint.Contract[msg, msg, msg]{
			Instantiate: func(deps entrypoint.Deps, _ std.Env, _ std.MessageInfo, _ msg) (std.Response, error) {
				deps.Logger.Info("instantiated")
				return std.NewResponse(), nil
			},
		},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	t.Cleanup(func() { exports.Register(nil) })

	t.Run("Registers exports", func(t *testing.T) {
		if !exports.Registered() {
			t.Fatalf("expected exports to be registered")
		}
		ptr := exports.Allocate(8)
		exports.Deallocate(ptr)
		if n := heap.Stats().Allocations; n != 0 {
			t.Fatalf("expected no live allocations, got %d", n)
		}
	})

	t.Run("Instantiate logs through debug", func(t *testing.T) {
		put := func(s string) uint32 {
			ptr, err := raw.Put([]byte(s))
			if err != nil {
				t.Fatalf("Put returned error: %v", err)
			}
			return ptr
		}
		out, err := raw.Take(s.Instantiate(
			put(`{"block":{"height":1,"time":"0","chain_id":"c"},"contract":{"address":"a"}}`),
			put(`{"sender":"s","funds":[]}`),
			put(`{}`),
		))
		if err != nil {
			t.Fatalf("Take returned error: %v", err)
		}
		if string(out) != `{"ok":{"messages":[],"attributes":[],"events":[],"data":null}}` {
			t.Fatalf("unexpected envelope %s", out)
		}
		if len(backend.Logs) != 1 || !strings.Contains(backend.Logs[0], "counter\tinstantiated") {
			t.Fatalf("unexpected debug output %q", backend.Logs)
		}
	})

	t.Run("Config_Immutability", func(t *testing.T) {
		got := s.Config()
		got.Namespace = "mutated"
		if s.Config().Namespace != "counter" {
			t.Fatalf("expected SDK namespace to remain 'counter', got %q", s.Config().Namespace)
		}
	})
}
