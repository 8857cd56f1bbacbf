//go:build wasm

// Command wasm builds the cw20 token as a CosmWasm module:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o cw20.wasm ./contracts/cw20/wasm
package main

import (
	sdk "github.com/cosmology-tech/cosmwasm-go"
	"github.com/cosmology-tech/cosmwasm-go/contracts/cw20"
)

func init() {
	if _, err := sdk.New(sdk.Config[cw20.InstantiateMsg, cw20.ExecuteMsg, cw20.QueryMsg]{
		Namespace: "cw20",
		Contract:  cw20.Contract(),
	}); err != nil {
		panic(err)
	}
}

func main() {}
