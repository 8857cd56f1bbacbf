package cw20

import (
	"github.com/cosmology-tech/cosmwasm-go/std"
	"github.com/cosmology-tech/cosmwasm-go/storage"
)

// MinterData is the stored minter.
type MinterData struct {
	Minter string       `json:"minter"`
	Cap    *std.Uint128 `json:"cap"`
}

// TokenState is the stored token information.
type TokenState struct {
	Name        string      `json:"name"`
	Symbol      string      `json:"symbol"`
	Decimals    uint8       `json:"decimals"`
	TotalSupply std.Uint128 `json:"total_supply"`
	Mint        *MinterData `json:"mint"`
}

var (
	tokenInfo  = storage.NewItem[TokenState]("token_info")
	balances   = storage.NewMap[string, std.Uint128]("balance", storage.StringKey)
	allowances = storage.NewMap[storage.Pair[string, string], AllowanceResponse](
		"allowance", storage.PairKey(storage.StringKey, storage.StringKey))
)
