package std

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
)

// CosmosMsg is a message a contract asks the chain to dispatch after a
// successful execution. It is a closed set: BankSend, BankBurn, WasmExecute,
// WasmInstantiate, WasmMigrate and AnyMsg.
type CosmosMsg interface {
	cosmosMsg()
}

// BankSend moves coins from the contract to ToAddress.
type BankSend struct {
	ToAddress string `json:"to_address"`
	Amount    []Coin `json:"amount"`
}

// BankBurn destroys coins held by the contract.
type BankBurn struct {
	Amount []Coin `json:"amount"`
}

// WasmExecute calls another contract.
type WasmExecute struct {
	ContractAddr string `json:"contract_addr"`
	Msg          Binary `json:"msg"`
	Funds        []Coin `json:"funds"`
}

// WasmInstantiate creates a new contract from stored code.
type WasmInstantiate struct {
	Admin  *string `json:"admin"`
	CodeID uint64  `json:"code_id"`
	Msg    Binary  `json:"msg"`
	Funds  []Coin  `json:"funds"`
	Label  string  `json:"label"`
}

// WasmMigrate moves a contract to new code.
type WasmMigrate struct {
	ContractAddr string `json:"contract_addr"`
	NewCodeID    uint64 `json:"new_code_id"`
	Msg          Binary `json:"msg"`
}

// AnyMsg is a protobuf encoded chain message.
type AnyMsg struct {
	TypeURL string `json:"type_url"`
	Value   Binary `json:"value"`
}

func (BankSend) cosmosMsg()        {}
func (BankBurn) cosmosMsg()        {}
func (WasmExecute) cosmosMsg()     {}
func (WasmInstantiate) cosmosMsg() {}
func (WasmMigrate) cosmosMsg()     {}
func (AnyMsg) cosmosMsg()          {}

// NewWasmExecute encodes msg as JSON and builds a WasmExecute for contract.
func NewWasmExecute(contract string, msg any, funds ...Coin) (WasmExecute, error) {
	b, err := ToBinary(msg)
	if err != nil {
		return WasmExecute{}, err
	}
	return WasmExecute{ContractAddr: contract, Msg: b, Funds: funds}, nil
}

// NewAnyMsg encodes m and addresses it by its full protobuf name.
func NewAnyMsg(m proto.Message) (AnyMsg, error) {
	value, err := proto.Marshal(m)
	if err != nil {
		return AnyMsg{}, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return AnyMsg{TypeURL: "/" + string(proto.MessageName(m)), Value: value}, nil
}

func tagged(outer, inner string, v any) ([]byte, error) {
	return json.Marshal(map[string]map[string]any{outer: {inner: v}})
}

// MarshalJSON encodes {"bank":{"send":{...}}}.
func (m BankSend) MarshalJSON() ([]byte, error) {
	type plain BankSend
	m.Amount = coins(m.Amount)
	return tagged("bank", "send", plain(m))
}

// MarshalJSON encodes {"bank":{"burn":{...}}}.
func (m BankBurn) MarshalJSON() ([]byte, error) {
	type plain BankBurn
	m.Amount = coins(m.Amount)
	return tagged("bank", "burn", plain(m))
}

// MarshalJSON encodes {"wasm":{"execute":{...}}}.
func (m WasmExecute) MarshalJSON() ([]byte, error) {
	type plain WasmExecute
	m.Funds = coins(m.Funds)
	return tagged("wasm", "execute", plain(m))
}

// MarshalJSON encodes {"wasm":{"instantiate":{...}}}.
func (m WasmInstantiate) MarshalJSON() ([]byte, error) {
	type plain WasmInstantiate
	m.Funds = coins(m.Funds)
	return tagged("wasm", "instantiate", plain(m))
}

// MarshalJSON encodes {"wasm":{"migrate":{...}}}.
func (m WasmMigrate) MarshalJSON() ([]byte, error) {
	type plain WasmMigrate
	return tagged("wasm", "migrate", plain(m))
}

// MarshalJSON encodes {"any":{...}}.
func (m AnyMsg) MarshalJSON() ([]byte, error) {
	type plain AnyMsg
	return json.Marshal(map[string]any{"any": plain(m)})
}

var bankMsgs = Union[CosmosMsg]{
	Kind: "bank message",
	Cases: map[string]func(json.RawMessage) (CosmosMsg, error){
		"send": Case(func(m BankSend) CosmosMsg { return m }),
		"burn": Case(func(m BankBurn) CosmosMsg { return m }),
	},
}

var wasmMsgs = Union[CosmosMsg]{
	Kind: "wasm message",
	Cases: map[string]func(json.RawMessage) (CosmosMsg, error){
		"execute":     Case(func(m WasmExecute) CosmosMsg { return m }),
		"instantiate": Case(func(m WasmInstantiate) CosmosMsg { return m }),
		"migrate":     Case(func(m WasmMigrate) CosmosMsg { return m }),
	},
}

var cosmosMsgs = Union[CosmosMsg]{
	Kind: "cosmos message",
	Cases: map[string]func(json.RawMessage) (CosmosMsg, error){
		"bank": func(raw json.RawMessage) (CosmosMsg, error) { return bankMsgs.Decode(raw) },
		"wasm": func(raw json.RawMessage) (CosmosMsg, error) { return wasmMsgs.Decode(raw) },
		"any":  Case(func(m AnyMsg) CosmosMsg { return m }),
	},
}

// DecodeCosmosMsg decodes the tagged JSON form of a CosmosMsg.
func DecodeCosmosMsg(data []byte) (CosmosMsg, error) {
	return cosmosMsgs.Decode(data)
}
