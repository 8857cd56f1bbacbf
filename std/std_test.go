package std

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type ping struct {
	Count int `json:"count"`
}

type pong struct{}

type testMsg interface{ isTestMsg() }

func (ping) isTestMsg() {}
func (pong) isTestMsg() {}

var testMsgs = Union[testMsg]{
	Kind: "message",
	Cases: map[string]func(json.RawMessage) (testMsg, error){
		"ping": Case(func(m ping) testMsg { return m }),
		"pong": Case(func(m pong) testMsg { return m }),
	},
}

func TestUnion(t *testing.T) {
	tt := []struct {
		name    string
		in      string
		want    testMsg
		wantErr error
	}{
		{name: "ping", in: `{"ping":{"count":3}}`, want: ping{Count: 3}},
		{name: "empty payload", in: `{"pong":{}}`, want: pong{}},
		{name: "no variant", in: `{}`, wantErr: ErrNoVariant},
		{name: "null", in: `null`, wantErr: ErrNoVariant},
		{name: "two variants", in: `{"ping":{"count":1},"pong":{}}`, wantErr: ErrMultipleVariants},
		{name: "unknown variant", in: `{"pang":{}}`, wantErr: ErrUnknownVariant},
		{name: "unknown field", in: `{"ping":{"count":1,"extra":true}}`, wantErr: ErrDeserialize},
		{name: "wrong type", in: `{"ping":{"count":"x"}}`, wantErr: ErrDeserialize},
		{name: "not an object", in: `["ping"]`, wantErr: ErrDeserialize},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := testMsgs.Decode([]byte(tc.in))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("Unknown message text", func(t *testing.T) {
		_, err := testMsgs.Decode([]byte(`{"pang":{}}`))
		assert.EqualError(t, err, "Unknown message")
	})

	t.Run("EncodeVariant", func(t *testing.T) {
		b, err := EncodeVariant("ping", ping{Count: 2})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ping":{"count":2}}`, string(b))

		b, err = EncodeVariant("pong", nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"pong":{}}`, string(b))
	})
}

func TestBinary(t *testing.T) {
	b, err := ToBinary(map[string]int{"count": 2})
	require.NoError(t, err)

	out, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `"eyJjb3VudCI6Mn0="`, string(out))

	var back Binary
	require.NoError(t, json.Unmarshal(out, &back))
	var v struct {
		Count int `json:"count"`
	}
	require.NoError(t, FromBinary(back, &v))
	assert.Equal(t, 2, v.Count)

	t.Run("Null", func(t *testing.T) {
		out, err := json.Marshal(Binary(nil))
		require.NoError(t, err)
		assert.Equal(t, "null", string(out))

		var b Binary = Binary("x")
		require.NoError(t, json.Unmarshal([]byte("null"), &b))
		assert.Nil(t, b)
	})

	t.Run("Invalid", func(t *testing.T) {
		var b Binary
		assert.ErrorIs(t, json.Unmarshal([]byte(`"%%%"`), &b), ErrDeserialize)
		assert.ErrorIs(t, FromBinary(Binary("{"), &v), ErrDeserialize)
	})
}

func TestContractResult(t *testing.T) {
	t.Run("Ok", func(t *testing.T) {
		b, err := json.Marshal(Ok(Binary(`{"count":2}`)))
		require.NoError(t, err)
		assert.Equal(t, `{"ok":"eyJjb3VudCI6Mn0="}`, string(b))
	})

	t.Run("Error", func(t *testing.T) {
		b, err := json.Marshal(Err[Response](errors.New("Unauthorized")))
		require.NoError(t, err)
		assert.Equal(t, `{"error":"Unauthorized"}`, string(b))
	})

	t.Run("Decode", func(t *testing.T) {
		tt := []struct {
			name    string
			in      string
			wantOk  bool
			wantErr error
		}{
			{name: "ok", in: `{"ok":"aGk="}`, wantOk: true},
			{name: "error", in: `{"error":"boom"}`},
			{name: "both", in: `{"ok":"aGk=","error":"boom"}`, wantErr: ErrInvalidEnvelope},
			{name: "neither", in: `{}`, wantErr: ErrInvalidEnvelope},
			{name: "other key", in: `{"result":1}`, wantErr: ErrInvalidEnvelope},
			{name: "error not a string", in: `{"error":{}}`, wantErr: ErrInvalidEnvelope},
		}

		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				var r ContractResult[Binary]
				err := json.Unmarshal([]byte(tc.in), &r)
				if tc.wantErr != nil {
					assert.ErrorIs(t, err, tc.wantErr)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tc.wantOk, r.IsOk())
			})
		}
	})

	t.Run("Exactly one key", func(t *testing.T) {
		properties := gopter.NewProperties(gopter.DefaultTestParameters())
		properties.Property("envelope has one of ok or error", prop.ForAll(
			func(msg string, fail bool) bool {
				r := Ok(msg)
				if fail {
					r = Err[string](errors.New(msg))
				}
				b, err := json.Marshal(r)
				if err != nil {
					return false
				}
				var fields map[string]json.RawMessage
				if err := json.Unmarshal(b, &fields); err != nil || len(fields) != 1 {
					return false
				}
				_, hasOk := fields["ok"]
				_, hasErr := fields["error"]
				return hasOk != fail && hasErr == fail
			},
			gen.AnyString(),
			gen.Bool(),
		))
		properties.TestingRun(t)
	})
}

func TestCosmosMsg(t *testing.T) {
	tt := []struct {
		name string
		msg  CosmosMsg
		want string
	}{
		{
			name: "bank send",
			msg:  BankSend{ToAddress: "bob", Amount: []Coin{NewCoin(5, "ucosm")}},
			want: `{"bank":{"send":{"to_address":"bob","amount":[{"denom":"ucosm","amount":"5"}]}}}`,
		},
		{
			name: "bank burn without coins",
			msg:  BankBurn{},
			want: `{"bank":{"burn":{"amount":[]}}}`,
		},
		{
			name: "wasm execute",
			msg:  WasmExecute{ContractAddr: "c", Msg: Binary(`{}`)},
			want: `{"wasm":{"execute":{"contract_addr":"c","msg":"e30=","funds":[]}}}`,
		},
		{
			name: "wasm migrate",
			msg:  WasmMigrate{ContractAddr: "c", NewCodeID: 7, Msg: Binary(`{}`)},
			want: `{"wasm":{"migrate":{"contract_addr":"c","new_code_id":7,"msg":"e30="}}}`,
		},
		{
			name: "any",
			msg:  AnyMsg{TypeURL: "/x.y", Value: Binary{1}},
			want: `{"any":{"type_url":"/x.y","value":"AQ=="}}`,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(b))

			decoded, err := DecodeCosmosMsg(b)
			require.NoError(t, err)
			again, err := json.Marshal(decoded)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(again))
		})
	}

	t.Run("Unknown", func(t *testing.T) {
		_, err := DecodeCosmosMsg([]byte(`{"staking":{}}`))
		assert.ErrorIs(t, err, ErrUnknownVariant)
	})
}

func TestNewAnyMsg(t *testing.T) {
	msg, err := NewAnyMsg(wrapperspb.String("hello"))
	require.NoError(t, err)
	assert.Equal(t, "/google.protobuf.StringValue", msg.TypeURL)

	var back wrapperspb.StringValue
	require.NoError(t, proto.Unmarshal(msg.Value, &back))
	assert.Equal(t, "hello", back.GetValue())
}

func TestResponse(t *testing.T) {
	t.Run("Empty lists", func(t *testing.T) {
		b, err := json.Marshal(NewResponse())
		require.NoError(t, err)
		assert.JSONEq(t, `{"messages":[],"attributes":[],"events":[],"data":null}`, string(b))
	})

	t.Run("Builder", func(t *testing.T) {
		res := NewResponse().
			AddAttribute("action", "transfer").
			AddAttributes(Attribute{Key: "amount", Value: "5"}).
			AddMessage(BankSend{ToAddress: "bob"}).
			AddEvent(NewEvent("custom").AddAttribute("k", "v")).
			SetData(Binary("d"))

		v, ok := res.Attribute("amount")
		assert.True(t, ok)
		assert.Equal(t, "5", v)
		_, ok = res.Attribute("missing")
		assert.False(t, ok)

		b, err := json.Marshal(res)
		require.NoError(t, err)

		var back Response
		require.NoError(t, json.Unmarshal(b, &back))
		require.Len(t, back.Messages, 1)
		assert.Equal(t, ReplyNever, back.Messages[0].ReplyOn)
		assert.Equal(t, BankSend{ToAddress: "bob", Amount: []Coin{}}, back.Messages[0].Msg)
		assert.Equal(t, "custom", back.Events[0].Type)
		assert.Equal(t, Binary("d"), back.Data)
	})
}

func TestEnv(t *testing.T) {
	in := `{"block":{"height":12345,"time":"1571797419879305533","chain_id":"cosmos-testnet-14002"},` +
		`"transaction":{"index":3},"contract":{"address":"contract"}}`

	var env Env
	require.NoError(t, json.Unmarshal([]byte(in), &env))
	assert.Equal(t, uint64(12345), env.Block.Height)
	assert.Equal(t, uint64(1571797419), env.Block.Time.Seconds())
	assert.Equal(t, uint32(3), env.Transaction.Index)

	out, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))

	assert.Equal(t, TimestampFromSeconds(10), Timestamp(10_000_000_000))
}
