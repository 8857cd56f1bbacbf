package cw20

import (
	"errors"

	"github.com/cosmology-tech/cosmwasm-go/entrypoint"
	"github.com/cosmology-tech/cosmwasm-go/std"
	"github.com/cosmology-tech/cosmwasm-go/storage"
	"go.uber.org/zap"
)

const (
	maxDecimals  = 18
	defaultLimit = 10
	maxLimit     = 30
)

// Contract returns the cw20 handlers.
func Contract() entrypoint.Contract[InstantiateMsg, ExecuteMsg, QueryMsg] {
	return entrypoint.Contract[InstantiateMsg, ExecuteMsg, QueryMsg]{
		Instantiate:   Instantiate,
		Execute:       Execute,
		Query:         Query,
		DecodeExecute: executeMsgs.Decoder(),
		DecodeQuery:   queryMsgs.Decoder(),
	}
}

// Instantiate validates the token parameters and stores the initial
// balances.
func Instantiate(deps entrypoint.Deps, _ std.Env, _ std.MessageInfo, msg InstantiateMsg) (std.Response, error) {
	if err := validate(msg); err != nil {
		return std.Response{}, err
	}

	total, err := createAccounts(deps, msg.InitialBalances)
	if err != nil {
		return std.Response{}, err
	}

	var mint *MinterData
	if msg.Mint != nil {
		if err := deps.Api.AddrValidate(msg.Mint.Minter); err != nil {
			return std.Response{}, err
		}
		if msg.Mint.Cap != nil && total.Cmp(*msg.Mint.Cap) > 0 {
			return std.Response{}, ErrInitialSupplyCap
		}
		mint = &MinterData{Minter: msg.Mint.Minter, Cap: msg.Mint.Cap}
	}

	err = tokenInfo.Save(deps.Storage, TokenState{
		Name:        msg.Name,
		Symbol:      msg.Symbol,
		Decimals:    msg.Decimals,
		TotalSupply: total,
		Mint:        mint,
	})
	if err != nil {
		return std.Response{}, err
	}

	deps.Logger.Debug("token created", zap.String("symbol", msg.Symbol), zap.Stringer("total_supply", total))
	return std.NewResponse(), nil
}

func validate(msg InstantiateMsg) error {
	if n := len(msg.Name); n < 3 || n > 50 {
		return ErrInvalidName
	}
	if n := len(msg.Symbol); n < 3 || n > 12 {
		return ErrInvalidSymbol
	}
	for _, c := range msg.Symbol {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '-') {
			return ErrInvalidSymbol
		}
	}
	if msg.Decimals > maxDecimals {
		return ErrInvalidDecimals
	}
	return nil
}

func createAccounts(deps entrypoint.Deps, accounts []Cw20Coin) (std.Uint128, error) {
	seen := make(map[string]struct{}, len(accounts))
	total := std.ZeroUint128()
	for _, acc := range accounts {
		if _, dup := seen[acc.Address]; dup {
			return total, ErrDuplicateInitial
		}
		seen[acc.Address] = struct{}{}

		if err := deps.Api.AddrValidate(acc.Address); err != nil {
			return total, err
		}
		if err := balances.Save(deps.Storage, acc.Address, acc.Amount); err != nil {
			return total, err
		}

		var err error
		if total, err = total.Add(acc.Amount); err != nil {
			return total, err
		}
	}
	return total, nil
}

// Execute dispatches ExecuteMsg.
func Execute(deps entrypoint.Deps, env std.Env, info std.MessageInfo, msg ExecuteMsg) (std.Response, error) {
	switch m := msg.(type) {
	case Transfer:
		return executeTransfer(deps, info, m)
	case Burn:
		return executeBurn(deps, info, m)
	case Send:
		return executeSend(deps, info, m)
	case Mint:
		return executeMint(deps, info, m)
	case IncreaseAllowance:
		return executeIncreaseAllowance(deps, env, info, m)
	case DecreaseAllowance:
		return executeDecreaseAllowance(deps, env, info, m)
	case TransferFrom:
		return executeTransferFrom(deps, env, info, m)
	case SendFrom:
		return executeSendFrom(deps, env, info, m)
	case BurnFrom:
		return executeBurnFrom(deps, env, info, m)
	case UpdateMinter:
		return executeUpdateMinter(deps, info, m)
	default:
		return std.Response{}, errors.New("Unknown message")
	}
}

func executeTransfer(deps entrypoint.Deps, info std.MessageInfo, m Transfer) (std.Response, error) {
	if m.Amount.IsZero() {
		return std.Response{}, ErrInvalidZeroAmount
	}
	if err := deps.Api.AddrValidate(m.Recipient); err != nil {
		return std.Response{}, err
	}
	if err := move(deps, info.Sender, m.Recipient, m.Amount); err != nil {
		return std.Response{}, err
	}
	return std.NewResponse().AddAttributes(
		std.Attribute{Key: "action", Value: "transfer"},
		std.Attribute{Key: "from", Value: info.Sender},
		std.Attribute{Key: "to", Value: m.Recipient},
		std.Attribute{Key: "amount", Value: m.Amount.String()},
	), nil
}

func executeBurn(deps entrypoint.Deps, info std.MessageInfo, m Burn) (std.Response, error) {
	if m.Amount.IsZero() {
		return std.Response{}, ErrInvalidZeroAmount
	}
	if err := burn(deps, info.Sender, m.Amount); err != nil {
		return std.Response{}, err
	}
	return std.NewResponse().AddAttributes(
		std.Attribute{Key: "action", Value: "burn"},
		std.Attribute{Key: "from", Value: info.Sender},
		std.Attribute{Key: "amount", Value: m.Amount.String()},
	), nil
}

func executeSend(deps entrypoint.Deps, info std.MessageInfo, m Send) (std.Response, error) {
	if m.Amount.IsZero() {
		return std.Response{}, ErrInvalidZeroAmount
	}
	if err := deps.Api.AddrValidate(m.Contract); err != nil {
		return std.Response{}, err
	}
	receive, err := Cw20ReceiveMsg{Sender: info.Sender, Amount: m.Amount, Msg: m.Msg}.IntoCosmosMsg(m.Contract)
	if err != nil {
		return std.Response{}, err
	}
	if err := move(deps, info.Sender, m.Contract, m.Amount); err != nil {
		return std.Response{}, err
	}
	return std.NewResponse().AddAttributes(
		std.Attribute{Key: "action", Value: "send"},
		std.Attribute{Key: "from", Value: info.Sender},
		std.Attribute{Key: "to", Value: m.Contract},
		std.Attribute{Key: "amount", Value: m.Amount.String()},
	).AddMessage(receive), nil
}

func executeMint(deps entrypoint.Deps, info std.MessageInfo, m Mint) (std.Response, error) {
	if m.Amount.IsZero() {
		return std.Response{}, ErrInvalidZeroAmount
	}
	if err := deps.Api.AddrValidate(m.Recipient); err != nil {
		return std.Response{}, err
	}

	_, err := tokenInfo.Update(deps.Storage, func(t TokenState) (TokenState, error) {
		if t.Mint == nil || t.Mint.Minter != info.Sender {
			return t, ErrUnauthorized
		}
		total, err := t.TotalSupply.Add(m.Amount)
		if err != nil {
			return t, err
		}
		if t.Mint.Cap != nil && total.Cmp(*t.Mint.Cap) > 0 {
			return t, ErrCannotExceedCap
		}
		t.TotalSupply = total
		return t, nil
	})
	if err != nil {
		return std.Response{}, err
	}
	if err := increaseBalance(deps.Storage, m.Recipient, m.Amount); err != nil {
		return std.Response{}, err
	}
	return std.NewResponse().AddAttributes(
		std.Attribute{Key: "action", Value: "mint"},
		std.Attribute{Key: "to", Value: m.Recipient},
		std.Attribute{Key: "amount", Value: m.Amount.String()},
	), nil
}

func executeUpdateMinter(deps entrypoint.Deps, info std.MessageInfo, m UpdateMinter) (std.Response, error) {
	newMinter := "None"
	if m.NewMinter != nil {
		if err := deps.Api.AddrValidate(*m.NewMinter); err != nil {
			return std.Response{}, err
		}
		newMinter = *m.NewMinter
	}

	_, err := tokenInfo.Update(deps.Storage, func(t TokenState) (TokenState, error) {
		if t.Mint == nil || t.Mint.Minter != info.Sender {
			return t, ErrUnauthorized
		}
		if m.NewMinter == nil {
			t.Mint = nil
			return t, nil
		}
		t.Mint = &MinterData{Minter: *m.NewMinter, Cap: t.Mint.Cap}
		return t, nil
	})
	if err != nil {
		return std.Response{}, err
	}
	return std.NewResponse().AddAttributes(
		std.Attribute{Key: "action", Value: "update_minter"},
		std.Attribute{Key: "new_minter", Value: newMinter},
	), nil
}

// move transfers amount between two balances.
func move(deps entrypoint.Deps, from, to string, amount std.Uint128) error {
	if err := decreaseBalance(deps, from, amount); err != nil {
		return err
	}
	return increaseBalance(deps.Storage, to, amount)
}

// burn removes amount from owner and from the total supply.
func burn(deps entrypoint.Deps, owner string, amount std.Uint128) error {
	if err := decreaseBalance(deps, owner, amount); err != nil {
		return err
	}
	_, err := tokenInfo.Update(deps.Storage, func(t TokenState) (TokenState, error) {
		total, err := t.TotalSupply.Sub(amount)
		if err != nil {
			return t, err
		}
		t.TotalSupply = total
		return t, nil
	})
	return err
}

func increaseBalance(store storage.Storage, owner string, amount std.Uint128) error {
	_, err := balances.Update(store, owner, func(balance std.Uint128, _ bool) (std.Uint128, error) {
		return balance.Add(amount)
	})
	return err
}

// checkBalance fails with ErrInsufficientFunds when owner holds less than
// amount. Nothing is written.
func checkBalance(deps entrypoint.Deps, owner string, amount std.Uint128) error {
	balance, _, err := balances.MayLoad(deps.Storage, owner)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		deps.Logger.Debug("insufficient funds",
			zap.String("owner", owner),
			zap.Stringer("balance", balance),
			zap.Stringer("amount", amount),
		)
		return ErrInsufficientFunds
	}
	return nil
}

// decreaseBalance subtracts amount from the balance of owner. A missing
// balance is zero.
func decreaseBalance(deps entrypoint.Deps, owner string, amount std.Uint128) error {
	if err := checkBalance(deps, owner, amount); err != nil {
		return err
	}
	_, err := balances.Update(deps.Storage, owner, func(balance std.Uint128, _ bool) (std.Uint128, error) {
		return balance.Sub(amount)
	})
	return err
}
