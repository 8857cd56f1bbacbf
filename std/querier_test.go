package std

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/cosmology-tech/cosmwasm-go/imports"
	"github.com/cosmology-tech/cosmwasm-go/imports/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// systemOk wraps v the way the host answers a successful query.
func systemOk(t *testing.T, v any) []byte {
	t.Helper()
	b, err := ToBinary(v)
	require.NoError(t, err)
	out, err := json.Marshal(map[string]any{"ok": Ok(b)})
	require.NoError(t, err)
	return out
}

func TestQuerier(t *testing.T) {
	t.Run("Balance", func(t *testing.T) {
		var seen []byte
		host := mock.New(mock.Config{Querier: func(req []byte) []byte {
			seen = req
			return systemOk(t, BalanceResponse{Amount: NewCoin(7, "ucosm")})
		}})

		coin, err := NewQuerier(host).QueryBalance("alice", "ucosm")
		require.NoError(t, err)
		assert.Equal(t, "7ucosm", coin.String())
		assert.JSONEq(t, `{"bank":{"balance":{"address":"alice","denom":"ucosm"}}}`, string(seen))
	})

	t.Run("Smart", func(t *testing.T) {
		var seen []byte
		host := mock.New(mock.Config{Querier: func(req []byte) []byte {
			seen = req
			return systemOk(t, map[string]int{"count": 3})
		}})

		var out struct {
			Count int `json:"count"`
		}
		err := NewQuerier(host).QueryWasmSmart("counter", map[string]any{"get_count": struct{}{}}, &out)
		require.NoError(t, err)
		assert.Equal(t, 3, out.Count)
		// {"get_count":{}} in base64
		assert.JSONEq(t, `{"wasm":{"smart":{"contract_addr":"counter","msg":"eyJnZXRfY291bnQiOnt9fQ=="}}}`, string(seen))
	})

	t.Run("Grpc", func(t *testing.T) {
		answer, err := NewAnyMsg(wrapperspb.UInt64(42))
		require.NoError(t, err)
		host := mock.New(mock.Config{Querier: func([]byte) []byte {
			out, _ := json.Marshal(map[string]any{"ok": Ok(answer.Value)})
			return out
		}})

		var resp wrapperspb.UInt64Value
		require.NoError(t, NewQuerier(host).QueryGrpc("/cosmos.test.v1.Query/Number", wrapperspb.String("n"), &resp))
		assert.Equal(t, uint64(42), resp.GetValue())
	})

	t.Run("System error", func(t *testing.T) {
		_, err := NewQuerier(mock.New(mock.Config{})).Raw(AllBalancesQuery{Address: "alice"})
		var sysErr *SystemError
		require.ErrorAs(t, err, &sysErr)
		assert.Equal(t, "unsupported_request", sysErr.Kind)
	})

	t.Run("Contract error", func(t *testing.T) {
		host := mock.New(mock.Config{Querier: func([]byte) []byte {
			return []byte(`{"ok":{"error":"Unknown message"}}`)
		}})
		_, err := NewQuerier(host).QueryWasmRaw("counter", []byte("k"))
		assert.ErrorIs(t, err, ErrQueryFailed)
		assert.ErrorContains(t, err, "Unknown message")
	})

	t.Run("Invalid host answer", func(t *testing.T) {
		tt := []string{`[]`, `{}`, `{"ok":1,"error":2}`, `{"error":"flat"}`, `{"result":{}}`}
		for _, answer := range tt {
			host := mock.New(mock.Config{Querier: func([]byte) []byte { return []byte(answer) }})
			_, err := NewQuerier(host).Raw(BalanceQuery{})
			assert.ErrorIs(t, err, imports.ErrHostResponseInvalid, answer)
		}
	})

	t.Run("Host failure", func(t *testing.T) {
		boom := errors.New("boom")
		host := mock.New(mock.Config{}).OnQuery().ReturnError(boom)
		_, err := NewQuerier(host).Raw(BalanceQuery{})
		assert.ErrorIs(t, err, boom)
	})
}

func TestApi(t *testing.T) {
	host := mock.New(mock.Config{})
	api := NewApi(host)

	addr := host.Address(make([]byte, 20))
	require.NoError(t, api.AddrValidate(addr))

	canonical, err := api.AddrCanonicalize(addr)
	require.NoError(t, err)
	human, err := api.AddrHumanize(canonical)
	require.NoError(t, err)
	assert.Equal(t, addr, human)

	assert.Error(t, api.AddrValidate("not an address"))

	api.Debug("hello")
	assert.Equal(t, []string{"hello"}, host.Logs)
}
