package cw20

import (
	"encoding/json"

	"github.com/cosmology-tech/cosmwasm-go/std"
)

// Cw20Coin is an initial balance.
type Cw20Coin struct {
	Address string      `json:"address"`
	Amount  std.Uint128 `json:"amount"`
}

// MinterResponse names the minter and its optional cap on total supply.
type MinterResponse struct {
	Minter string       `json:"minter"`
	Cap    *std.Uint128 `json:"cap"`
}

// InstantiateMsg creates the token.
type InstantiateMsg struct {
	Name            string          `json:"name"`
	Symbol          string          `json:"symbol"`
	Decimals        uint8           `json:"decimals"`
	InitialBalances []Cw20Coin      `json:"initial_balances"`
	Mint            *MinterResponse `json:"mint,omitempty"`
}

// ExecuteMsg is one of the execute variants below.
type ExecuteMsg interface{ isExecuteMsg() }

// Transfer moves amount from the sender to recipient.
type Transfer struct {
	Recipient string      `json:"recipient"`
	Amount    std.Uint128 `json:"amount"`
}

// Burn destroys amount of the sender's tokens.
type Burn struct {
	Amount std.Uint128 `json:"amount"`
}

// Send moves amount to a contract and calls its receive handler with msg.
type Send struct {
	Contract string      `json:"contract"`
	Amount   std.Uint128 `json:"amount"`
	Msg      std.Binary  `json:"msg"`
}

// Mint creates amount for recipient. Only the minter may mint.
type Mint struct {
	Recipient string      `json:"recipient"`
	Amount    std.Uint128 `json:"amount"`
}

// IncreaseAllowance raises what spender may move from the sender's balance.
type IncreaseAllowance struct {
	Spender string      `json:"spender"`
	Amount  std.Uint128 `json:"amount"`
	Expires *Expiration `json:"expires,omitempty"`
}

// DecreaseAllowance lowers an allowance, removing it when it reaches zero.
type DecreaseAllowance struct {
	Spender string      `json:"spender"`
	Amount  std.Uint128 `json:"amount"`
	Expires *Expiration `json:"expires,omitempty"`
}

// TransferFrom moves amount from owner to recipient using an allowance.
type TransferFrom struct {
	Owner     string      `json:"owner"`
	Recipient string      `json:"recipient"`
	Amount    std.Uint128 `json:"amount"`
}

// SendFrom is Send using an allowance of owner.
type SendFrom struct {
	Owner    string      `json:"owner"`
	Contract string      `json:"contract"`
	Amount   std.Uint128 `json:"amount"`
	Msg      std.Binary  `json:"msg"`
}

// BurnFrom is Burn using an allowance of owner.
type BurnFrom struct {
	Owner  string      `json:"owner"`
	Amount std.Uint128 `json:"amount"`
}

// UpdateMinter hands minting rights to NewMinter, or removes them when it
// is nil. The cap is kept.
type UpdateMinter struct {
	NewMinter *string `json:"new_minter"`
}

func (Transfer) isExecuteMsg()          {}
func (Burn) isExecuteMsg()              {}
func (Send) isExecuteMsg()              {}
func (Mint) isExecuteMsg()              {}
func (IncreaseAllowance) isExecuteMsg() {}
func (DecreaseAllowance) isExecuteMsg() {}
func (TransferFrom) isExecuteMsg()      {}
func (SendFrom) isExecuteMsg()          {}
func (BurnFrom) isExecuteMsg()          {}
func (UpdateMinter) isExecuteMsg()      {}

var executeMsgs = std.Union[ExecuteMsg]{
	Kind: "message",
	Cases: map[string]func(json.RawMessage) (ExecuteMsg, error){
		"transfer":           std.Case(func(m Transfer) ExecuteMsg { return m }),
		"burn":               std.Case(func(m Burn) ExecuteMsg { return m }),
		"send":               std.Case(func(m Send) ExecuteMsg { return m }),
		"mint":               std.Case(func(m Mint) ExecuteMsg { return m }),
		"increase_allowance": std.Case(func(m IncreaseAllowance) ExecuteMsg { return m }),
		"decrease_allowance": std.Case(func(m DecreaseAllowance) ExecuteMsg { return m }),
		"transfer_from":      std.Case(func(m TransferFrom) ExecuteMsg { return m }),
		"send_from":          std.Case(func(m SendFrom) ExecuteMsg { return m }),
		"burn_from":          std.Case(func(m BurnFrom) ExecuteMsg { return m }),
		"update_minter":      std.Case(func(m UpdateMinter) ExecuteMsg { return m }),
	},
}

// QueryMsg is one of the query variants below.
type QueryMsg interface{ isQueryMsg() }

// Balance returns the balance of Address, zero when unknown.
type Balance struct {
	Address string `json:"address"`
}

// TokenInfo returns name, symbol, decimals and total supply.
type TokenInfo struct{}

// Minter returns the minter, or null when minting is disabled.
type Minter struct{}

// Allowance returns what Spender may move from Owner.
type Allowance struct {
	Owner   string `json:"owner"`
	Spender string `json:"spender"`
}

// AllAllowances pages through the allowances Owner has granted.
type AllAllowances struct {
	Owner      string  `json:"owner"`
	StartAfter *string `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

// AllAccounts pages through every address holding a balance.
type AllAccounts struct {
	StartAfter *string `json:"start_after,omitempty"`
	Limit      *uint32 `json:"limit,omitempty"`
}

func (Balance) isQueryMsg()       {}
func (TokenInfo) isQueryMsg()     {}
func (Minter) isQueryMsg()        {}
func (Allowance) isQueryMsg()     {}
func (AllAllowances) isQueryMsg() {}
func (AllAccounts) isQueryMsg()   {}

var queryMsgs = std.Union[QueryMsg]{
	Kind: "query",
	Cases: map[string]func(json.RawMessage) (QueryMsg, error){
		"balance":        std.Case(func(m Balance) QueryMsg { return m }),
		"token_info":     std.Case(func(m TokenInfo) QueryMsg { return m }),
		"minter":         std.Case(func(m Minter) QueryMsg { return m }),
		"allowance":      std.Case(func(m Allowance) QueryMsg { return m }),
		"all_allowances": std.Case(func(m AllAllowances) QueryMsg { return m }),
		"all_accounts":   std.Case(func(m AllAccounts) QueryMsg { return m }),
	},
}

// BalanceResponse answers Balance.
type BalanceResponse struct {
	Balance std.Uint128 `json:"balance"`
}

// TokenInfoResponse answers TokenInfo.
type TokenInfoResponse struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Decimals    uint8       `json:"decimals"`
	TotalSupply std.Uint128 `json:"total_supply"`
}

// AllowanceResponse answers Allowance. It is also the stored allowance.
type AllowanceResponse struct {
	Allowance std.Uint128 `json:"allowance"`
	Expires   Expiration  `json:"expires"`
}

// AllowanceInfo is one entry of AllAllowancesResponse.
type AllowanceInfo struct {
	Spender   string      `json:"spender"`
	Allowance std.Uint128 `json:"allowance"`
	Expires   Expiration  `json:"expires"`
}

// AllAllowancesResponse answers AllAllowances.
type AllAllowancesResponse struct {
	Allowances []AllowanceInfo `json:"allowances"`
}

// AllAccountsResponse answers AllAccounts.
type AllAccountsResponse struct {
	Accounts []string `json:"accounts"`
}

// Cw20ReceiveMsg is delivered to the contract named in Send and SendFrom
// as {"receive":{...}}.
type Cw20ReceiveMsg struct {
	Sender string      `json:"sender"`
	Amount std.Uint128 `json:"amount"`
	Msg    std.Binary  `json:"msg"`
}

// IntoCosmosMsg wraps the message in a wasm execute call to contract.
func (m Cw20ReceiveMsg) IntoCosmosMsg(contract string) (std.CosmosMsg, error) {
	msg, err := std.NewWasmExecute(contract, struct {
		Receive Cw20ReceiveMsg `json:"receive"`
	}{m})
	if err != nil {
		return nil, err
	}
	return msg, nil
}
