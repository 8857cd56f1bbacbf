package std

import (
	"encoding/json"
	"fmt"

	"github.com/cosmology-tech/cosmwasm-go/imports"
	"google.golang.org/protobuf/proto"
)

// QueryRequest is a query the contract sends to the chain. It is a closed
// set: BalanceQuery, AllBalancesQuery, SmartQuery, RawQuery and GrpcQuery.
type QueryRequest interface {
	queryRequest()
}

// BalanceQuery asks for the balance of one denomination.
type BalanceQuery struct {
	Address string `json:"address"`
	Denom   string `json:"denom"`
}

// AllBalancesQuery asks for every balance of an address.
type AllBalancesQuery struct {
	Address string `json:"address"`
}

// SmartQuery calls the query entry point of another contract.
type SmartQuery struct {
	ContractAddr string `json:"contract_addr"`
	Msg          Binary `json:"msg"`
}

// RawQuery reads a storage key of another contract.
type RawQuery struct {
	ContractAddr string `json:"contract_addr"`
	Key          Binary `json:"key"`
}

// GrpcQuery calls a protobuf query service of the chain.
type GrpcQuery struct {
	Path string `json:"path"`
	Data Binary `json:"data"`
}

func (BalanceQuery) queryRequest()     {}
func (AllBalancesQuery) queryRequest() {}
func (SmartQuery) queryRequest()       {}
func (RawQuery) queryRequest()         {}
func (GrpcQuery) queryRequest()        {}

// MarshalJSON encodes {"bank":{"balance":{...}}}.
func (q BalanceQuery) MarshalJSON() ([]byte, error) {
	type plain BalanceQuery
	return tagged("bank", "balance", plain(q))
}

// MarshalJSON encodes {"bank":{"all_balances":{...}}}.
func (q AllBalancesQuery) MarshalJSON() ([]byte, error) {
	type plain AllBalancesQuery
	return tagged("bank", "all_balances", plain(q))
}

// MarshalJSON encodes {"wasm":{"smart":{...}}}.
func (q SmartQuery) MarshalJSON() ([]byte, error) {
	type plain SmartQuery
	return tagged("wasm", "smart", plain(q))
}

// MarshalJSON encodes {"wasm":{"raw":{...}}}.
func (q RawQuery) MarshalJSON() ([]byte, error) {
	type plain RawQuery
	return tagged("wasm", "raw", plain(q))
}

// MarshalJSON encodes {"grpc":{...}}.
func (q GrpcQuery) MarshalJSON() ([]byte, error) {
	type plain GrpcQuery
	return json.Marshal(map[string]any{"grpc": plain(q)})
}

// BalanceResponse answers BalanceQuery.
type BalanceResponse struct {
	Amount Coin `json:"amount"`
}

// AllBalancesResponse answers AllBalancesQuery.
type AllBalancesResponse struct {
	Amount []Coin `json:"amount"`
}

// SystemError is an error raised by the host while routing a query, as
// opposed to an error returned by the queried contract.
type SystemError struct {
	// Kind is the variant name, for example "no_such_contract".
	Kind string
	// Detail is the raw variant payload.
	Detail json.RawMessage
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("system error: %s: %s", e.Kind, e.Detail)
}

// Querier sends queries to the chain.
type Querier struct {
	host imports.Host
}

// NewQuerier returns a Querier backed by the host imports.
func NewQuerier(host imports.Host) Querier { return Querier{host: host} }

// Raw sends req and returns the binary result. Host routing failures are
// returned as *SystemError, failures of the queried module or contract wrap
// ErrQueryFailed.
func (q Querier) Raw(req QueryRequest) ([]byte, error) {
	request, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	res, err := q.host.QueryChain(request)
	if err != nil {
		return nil, err
	}

	var system map[string]json.RawMessage
	if err := json.Unmarshal(res, &system); err != nil || len(system) != 1 {
		return nil, fmt.Errorf("%w: system result %s", imports.ErrHostResponseInvalid, res)
	}

	if raw, ok := system["error"]; ok {
		var variant map[string]json.RawMessage
		if err := json.Unmarshal(raw, &variant); err != nil || len(variant) != 1 {
			return nil, fmt.Errorf("%w: system error %s", imports.ErrHostResponseInvalid, raw)
		}
		for kind, detail := range variant {
			return nil, &SystemError{Kind: kind, Detail: detail}
		}
	}

	raw, ok := system["ok"]
	if !ok {
		return nil, fmt.Errorf("%w: system result %s", imports.ErrHostResponseInvalid, res)
	}

	var result ContractResult[Binary]
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", imports.ErrHostResponseInvalid, err)
	}
	data, err := result.Unwrap()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
	}
	return data, nil
}

// query sends req and decodes the JSON result into out.
func (q Querier) query(req QueryRequest, out any) error {
	data, err := q.Raw(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	return nil
}

// QueryBalance returns the balance of denom held by addr.
func (q Querier) QueryBalance(addr, denom string) (Coin, error) {
	var res BalanceResponse
	if err := q.query(BalanceQuery{Address: addr, Denom: denom}, &res); err != nil {
		return Coin{}, err
	}
	return res.Amount, nil
}

// QueryAllBalances returns every balance held by addr.
func (q Querier) QueryAllBalances(addr string) ([]Coin, error) {
	var res AllBalancesResponse
	if err := q.query(AllBalancesQuery{Address: addr}, &res); err != nil {
		return nil, err
	}
	return res.Amount, nil
}

// QueryWasmSmart sends msg to the query entry point of contract and decodes
// the result into out.
func (q Querier) QueryWasmSmart(contract string, msg any, out any) error {
	b, err := ToBinary(msg)
	if err != nil {
		return err
	}
	return q.query(SmartQuery{ContractAddr: contract, Msg: b}, out)
}

// QueryWasmRaw reads key from the storage of contract. A missing key yields
// an empty result.
func (q Querier) QueryWasmRaw(contract string, key []byte) ([]byte, error) {
	return q.Raw(RawQuery{ContractAddr: contract, Key: key})
}

// QueryGrpc calls the protobuf query service at path and decodes the answer
// into resp.
func (q Querier) QueryGrpc(path string, req, resp proto.Message) error {
	data, err := proto.Marshal(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	res, err := q.Raw(GrpcQuery{Path: path, Data: data})
	if err != nil {
		return err
	}
	if err := proto.Unmarshal(res, resp); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	return nil
}
