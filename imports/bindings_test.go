package imports_test

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"errors"
	"testing"

	"github.com/cosmology-tech/cosmwasm-go/hostmock"
	"github.com/cosmology-tech/cosmwasm-go/imports"
	"github.com/cosmology-tech/cosmwasm-go/imports/mock"
	"github.com/cosmology-tech/cosmwasm-go/memory"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	heap     *memory.Heap
	backend  *mock.Host
	raw      *hostmock.Host
	bindings *imports.Bindings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	heap := memory.NewHeap(memory.HeapConfig{})
	backend := mock.New(mock.Config{})
	raw, err := hostmock.New(hostmock.Config{Memory: heap, Backend: backend})
	require.NoError(t, err)
	bindings, err := imports.New(imports.Config{Memory: heap, Raw: raw})
	require.NoError(t, err)
	return &fixture{heap: heap, backend: backend, raw: raw, bindings: bindings}
}

// assertNoLeaks checks that every region allocated during a call was freed.
func (f *fixture) assertNoLeaks(t *testing.T) {
	t.Helper()
	assert.Zero(t, f.heap.Stats().Allocations, "live allocations after call")
}

func TestStorageImports(t *testing.T) {
	f := newFixture(t)

	t.Run("Missing key", func(t *testing.T) {
		v, found, err := f.bindings.DBRead([]byte("missing"))
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, v)
		f.assertNoLeaks(t)
	})

	t.Run("Write then read", func(t *testing.T) {
		require.NoError(t, f.bindings.DBWrite([]byte("k"), []byte("v")))
		v, found, err := f.bindings.DBRead([]byte("k"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, []byte("v"), v)
		f.assertNoLeaks(t)
	})

	t.Run("Empty value is present", func(t *testing.T) {
		require.NoError(t, f.bindings.DBWrite([]byte("empty"), []byte{}))
		v, found, err := f.bindings.DBRead([]byte("empty"))
		require.NoError(t, err)
		assert.True(t, found)
		assert.Empty(t, v)
		f.assertNoLeaks(t)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, f.bindings.DBRemove([]byte("k")))
		_, found, err := f.bindings.DBRead([]byte("k"))
		require.NoError(t, err)
		assert.False(t, found)
		f.assertNoLeaks(t)
	})

	t.Run("Import sequence", func(t *testing.T) {
		assert.Equal(t, []string{"db_read", "db_write", "db_read", "db_write", "db_read", "db_remove", "db_read"}, f.raw.Calls)
	})
}

func TestIteration(t *testing.T) {
	f := newFixture(t)
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, f.bindings.DBWrite([]byte(k), []byte("value-"+k)))
	}

	tt := []struct {
		name       string
		start, end []byte
		order      imports.Order
		want       []string
	}{
		{name: "all ascending", order: imports.Ascending, want: []string{"a", "b", "c"}},
		{name: "all descending", order: imports.Descending, want: []string{"c", "b", "a"}},
		{name: "from b", start: []byte("b"), order: imports.Ascending, want: []string{"b", "c"}},
		{name: "before c", end: []byte("c"), order: imports.Descending, want: []string{"b", "a"}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			id, err := f.bindings.DBScan(tc.start, tc.end, tc.order)
			require.NoError(t, err)

			var got []string
			for {
				k, v, err := f.bindings.DBNext(id)
				require.NoError(t, err)
				if k == nil {
					break
				}
				assert.Equal(t, "value-"+string(k), string(v))
				got = append(got, string(k))
			}
			assert.Equal(t, tc.want, got)
			f.assertNoLeaks(t)
		})
	}

	t.Run("Invalid order", func(t *testing.T) {
		_, err := f.bindings.DBScan(nil, nil, imports.Order(0))
		assert.ErrorIs(t, err, imports.ErrInvalidOrder)
	})
}

func TestAddressImports(t *testing.T) {
	f := newFixture(t)
	canonical := bytes.Repeat([]byte{9}, 20)
	addr := f.backend.Address(canonical)

	t.Run("Validate", func(t *testing.T) {
		require.NoError(t, f.bindings.AddrValidate(addr))

		err := f.bindings.AddrValidate("not-an-address")
		var herr *imports.HostError
		require.ErrorAs(t, err, &herr)
		assert.ErrorIs(t, err, imports.ErrHostError)
		assert.Equal(t, "addr_validate", herr.Import)
		assert.Contains(t, herr.Message, "invalid address")
		f.assertNoLeaks(t)
	})

	t.Run("Canonicalize", func(t *testing.T) {
		got, err := f.bindings.AddrCanonicalize(addr)
		require.NoError(t, err)
		assert.Equal(t, canonical, got)

		_, err = f.bindings.AddrCanonicalize("bogus")
		assert.ErrorIs(t, err, imports.ErrHostError)
		f.assertNoLeaks(t)
	})

	t.Run("Humanize", func(t *testing.T) {
		got, err := f.bindings.AddrHumanize(canonical)
		require.NoError(t, err)
		assert.Equal(t, addr, got)

		_, err = f.bindings.AddrHumanize([]byte{1})
		assert.ErrorIs(t, err, imports.ErrHostError)
		f.assertNoLeaks(t)
	})
}

func TestCryptoImports(t *testing.T) {
	f := newFixture(t)

	t.Run("secp256k1", func(t *testing.T) {
		seed := sha256.Sum256([]byte("bindings key"))
		key := secp256k1.PrivKeyFromBytes(seed[:])
		hash := sha256.Sum256([]byte("payload"))
		compact := ecdsa.SignCompact(key, hash[:], false)
		pubkey := key.PubKey().SerializeCompressed()

		ok, err := f.bindings.Secp256k1Verify(hash[:], compact[1:], pubkey)
		require.NoError(t, err)
		assert.True(t, ok)

		other := sha256.Sum256([]byte("tampered"))
		ok, err = f.bindings.Secp256k1Verify(other[:], compact[1:], pubkey)
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = f.bindings.Secp256k1Verify(hash[:5], compact[1:], pubkey)
		var cerr *imports.CryptoError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, imports.CodeInvalidHashFormat, cerr.Code)

		recovered, err := f.bindings.Secp256k1RecoverPubkey(hash[:], compact[1:], compact[0]-27)
		require.NoError(t, err)
		assert.Equal(t, key.PubKey().SerializeUncompressed(), recovered)

		_, err = f.bindings.Secp256k1RecoverPubkey(hash[:], compact[1:], 5)
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, imports.CodeInvalidRecoveryParam, cerr.Code)
		f.assertNoLeaks(t)
	})

	t.Run("ed25519", func(t *testing.T) {
		pub, priv, err := ed25519.GenerateKey(nil)
		require.NoError(t, err)
		msgs := [][]byte{[]byte("a"), []byte("b")}
		sigs := [][]byte{ed25519.Sign(priv, msgs[0]), ed25519.Sign(priv, msgs[1])}

		ok, err := f.bindings.Ed25519Verify(msgs[0], sigs[0], pub)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.bindings.Ed25519BatchVerify(msgs, sigs, [][]byte{pub})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = f.bindings.Ed25519BatchVerify(msgs, [][]byte{sigs[1], sigs[0]}, [][]byte{pub})
		require.NoError(t, err)
		assert.False(t, ok)
		f.assertNoLeaks(t)
	})
}

func TestQueryChainAndDebug(t *testing.T) {
	heap := memory.NewHeap(memory.HeapConfig{})
	backend := mock.New(mock.Config{Querier: func(req []byte) []byte {
		return append([]byte(`{"ok":{"ok":`), append(req, '}', '}')...)
	}})
	raw, err := hostmock.New(hostmock.Config{Memory: heap, Backend: backend})
	require.NoError(t, err)
	b, err := imports.New(imports.Config{Memory: heap, Raw: raw})
	require.NoError(t, err)

	res, err := b.QueryChain([]byte(`"e30="`))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":{"ok":"e30="}}`, string(res))

	b.Debug("hello host")
	assert.Equal(t, []string{"hello host"}, backend.Logs)
	assert.Zero(t, heap.Stats().Allocations)
}

func TestAbort(t *testing.T) {
	f := newFixture(t)
	assert.PanicsWithError(t, "contract aborted: fatal", func() { f.bindings.Abort("fatal") })
}

// brokenHost returns a pointer that is not a region from db_read.
type brokenHost struct {
	*hostmock.Host
}

func (brokenHost) DBRead(uint32) uint32 { return 3 }

func TestProtocolErrors(t *testing.T) {
	t.Run("Invalid result region", func(t *testing.T) {
		f := newFixture(t)
		b, err := imports.New(imports.Config{Memory: f.heap, Raw: brokenHost{f.raw}})
		require.NoError(t, err)

		_, _, err = b.DBRead([]byte("k"))
		assert.ErrorIs(t, err, imports.ErrProtocol)
	})

	t.Run("Allocation failure", func(t *testing.T) {
		heap := memory.NewHeap(memory.HeapConfig{Limit: 64})
		raw, err := hostmock.New(hostmock.Config{Memory: heap})
		require.NoError(t, err)
		b, err := imports.New(imports.Config{Memory: heap, Raw: raw})
		require.NoError(t, err)

		err = b.DBWrite([]byte("k"), bytes.Repeat([]byte("v"), 128))
		assert.ErrorIs(t, err, imports.ErrProtocol)
		assert.ErrorIs(t, err, memory.ErrAllocationLimit)
		assert.Zero(t, heap.Stats().Allocations)
	})
}

func TestErrors(t *testing.T) {
	cerr := &imports.CryptoError{Import: "ed25519_verify", Code: imports.CodeInvalidSignatureFormat}
	assert.Equal(t, "ed25519_verify failed: invalid signature format (code 4)", cerr.Error())

	herr := &imports.HostError{Import: "addr_validate", Message: "Invalid input"}
	assert.Equal(t, "Invalid input", herr.Error())
	assert.True(t, errors.Is(herr, imports.ErrHostError))

	assert.Equal(t, "descending", imports.Descending.String())
	assert.Equal(t, "Order(9)", imports.Order(9).String())
}
