//go:build wasm

// Command wasm builds the counter contract as a CosmWasm module:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o counter.wasm ./contracts/counter/wasm
package main

import (
	sdk "github.com/cosmology-tech/cosmwasm-go"
	"github.com/cosmology-tech/cosmwasm-go/contracts/counter"
)

func init() {
	if _, err := sdk.New(sdk.Config[counter.InstantiateMsg, counter.ExecuteMsg, counter.QueryMsg]{
		Namespace: "counter",
		Contract:  counter.Contract(),
	}); err != nil {
		panic(err)
	}
}

func main() {}
