package cw20

import (
	"github.com/cosmology-tech/cosmwasm-go/entrypoint"
	"github.com/cosmology-tech/cosmwasm-go/std"
	"github.com/cosmology-tech/cosmwasm-go/storage"
)

func allowanceKey(owner, spender string) storage.Pair[string, string] {
	return storage.NewPair(owner, spender)
}

func executeIncreaseAllowance(deps entrypoint.Deps, env std.Env, info std.MessageInfo, m IncreaseAllowance) (std.Response, error) {
	if m.Spender == info.Sender {
		return std.Response{}, ErrCannotSetOwnAccount
	}
	if err := deps.Api.AddrValidate(m.Spender); err != nil {
		return std.Response{}, err
	}

	_, err := allowances.Update(deps.Storage, allowanceKey(info.Sender, m.Spender), func(a AllowanceResponse, _ bool) (AllowanceResponse, error) {
		if m.Expires != nil {
			if m.Expires.IsExpired(env.Block) {
				return a, ErrInvalidExpiration
			}
			a.Expires = *m.Expires
		}
		total, err := a.Allowance.Add(m.Amount)
		if err != nil {
			return a, err
		}
		a.Allowance = total
		return a, nil
	})
	if err != nil {
		return std.Response{}, err
	}
	return allowanceResponse("increase_allowance", info.Sender, m.Spender, m.Amount), nil
}

func executeDecreaseAllowance(deps entrypoint.Deps, env std.Env, info std.MessageInfo, m DecreaseAllowance) (std.Response, error) {
	if m.Spender == info.Sender {
		return std.Response{}, ErrCannotSetOwnAccount
	}
	if err := deps.Api.AddrValidate(m.Spender); err != nil {
		return std.Response{}, err
	}

	key := allowanceKey(info.Sender, m.Spender)
	a, found, err := allowances.MayLoad(deps.Storage, key)
	if err != nil {
		return std.Response{}, err
	}
	if !found {
		return std.Response{}, ErrNoAllowance
	}

	if m.Amount.Cmp(a.Allowance) >= 0 {
		if err := allowances.Remove(deps.Storage, key); err != nil {
			return std.Response{}, err
		}
		return allowanceResponse("decrease_allowance", info.Sender, m.Spender, m.Amount), nil
	}

	if m.Expires != nil {
		if m.Expires.IsExpired(env.Block) {
			return std.Response{}, ErrInvalidExpiration
		}
		a.Expires = *m.Expires
	}
	if a.Allowance, err = a.Allowance.Sub(m.Amount); err != nil {
		return std.Response{}, err
	}
	if err := allowances.Save(deps.Storage, key, a); err != nil {
		return std.Response{}, err
	}
	return allowanceResponse("decrease_allowance", info.Sender, m.Spender, m.Amount), nil
}

func allowanceResponse(action, owner, spender string, amount std.Uint128) std.Response {
	return std.NewResponse().AddAttributes(
		std.Attribute{Key: "action", Value: action},
		std.Attribute{Key: "owner", Value: owner},
		std.Attribute{Key: "spender", Value: spender},
		std.Attribute{Key: "amount", Value: amount.String()},
	)
}

// remainingAllowance returns what spender may still move from owner after
// spending amount. Nothing is written.
func remainingAllowance(store storage.Storage, owner, spender string, block std.BlockInfo, amount std.Uint128) (AllowanceResponse, error) {
	a, found, err := allowances.MayLoad(store, allowanceKey(owner, spender))
	if err != nil {
		return a, err
	}
	if !found {
		return a, ErrNoAllowance
	}
	if a.Expires.IsExpired(block) {
		return a, ErrExpired
	}
	rest, err := a.Allowance.Sub(amount)
	if err != nil {
		return a, ErrInsufficientAllowance
	}
	a.Allowance = rest
	return a, nil
}

// deductAllowance checks both the allowance and the balance of owner before
// it spends the allowance. A failed spend writes nothing.
func deductAllowance(deps entrypoint.Deps, owner, spender string, block std.BlockInfo, amount std.Uint128) error {
	rest, err := remainingAllowance(deps.Storage, owner, spender, block, amount)
	if err != nil {
		return err
	}
	if err := checkBalance(deps, owner, amount); err != nil {
		return err
	}
	return allowances.Save(deps.Storage, allowanceKey(owner, spender), rest)
}

func executeTransferFrom(deps entrypoint.Deps, env std.Env, info std.MessageInfo, m TransferFrom) (std.Response, error) {
	if m.Amount.IsZero() {
		return std.Response{}, ErrInvalidZeroAmount
	}
	if err := deps.Api.AddrValidate(m.Recipient); err != nil {
		return std.Response{}, err
	}
	if err := deductAllowance(deps, m.Owner, info.Sender, env.Block, m.Amount); err != nil {
		return std.Response{}, err
	}
	if err := move(deps, m.Owner, m.Recipient, m.Amount); err != nil {
		return std.Response{}, err
	}
	return std.NewResponse().AddAttributes(
		std.Attribute{Key: "action", Value: "transfer_from"},
		std.Attribute{Key: "from", Value: m.Owner},
		std.Attribute{Key: "to", Value: m.Recipient},
		std.Attribute{Key: "by", Value: info.Sender},
		std.Attribute{Key: "amount", Value: m.Amount.String()},
	), nil
}

func executeSendFrom(deps entrypoint.Deps, env std.Env, info std.MessageInfo, m SendFrom) (std.Response, error) {
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
	if err := deductAllowance(deps, m.Owner, info.Sender, env.Block, m.Amount); err != nil {
		return std.Response{}, err
	}
	if err := move(deps, m.Owner, m.Contract, m.Amount); err != nil {
		return std.Response{}, err
	}
	return std.NewResponse().AddAttributes(
		std.Attribute{Key: "action", Value: "send_from"},
		std.Attribute{Key: "from", Value: m.Owner},
		std.Attribute{Key: "to", Value: m.Contract},
		std.Attribute{Key: "by", Value: info.Sender},
		std.Attribute{Key: "amount", Value: m.Amount.String()},
	).AddMessage(receive), nil
}

func executeBurnFrom(deps entrypoint.Deps, env std.Env, info std.MessageInfo, m BurnFrom) (std.Response, error) {
	if m.Amount.IsZero() {
		return std.Response{}, ErrInvalidZeroAmount
	}
	if err := deductAllowance(deps, m.Owner, info.Sender, env.Block, m.Amount); err != nil {
		return std.Response{}, err
	}
	if err := burn(deps, m.Owner, m.Amount); err != nil {
		return std.Response{}, err
	}
	return std.NewResponse().AddAttributes(
		std.Attribute{Key: "action", Value: "burn_from"},
		std.Attribute{Key: "from", Value: m.Owner},
		std.Attribute{Key: "by", Value: info.Sender},
		std.Attribute{Key: "amount", Value: m.Amount.String()},
	), nil
}
