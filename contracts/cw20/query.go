package cw20

import (
	"errors"

	"github.com/cosmology-tech/cosmwasm-go/entrypoint"
	"github.com/cosmology-tech/cosmwasm-go/std"
	"github.com/cosmology-tech/cosmwasm-go/storage"
)

// Query dispatches QueryMsg.
func Query(deps entrypoint.Deps, _ std.Env, msg QueryMsg) (std.Binary, error) {
	switch m := msg.(type) {
	case Balance:
		return queryBalance(deps, m)
	case TokenInfo:
		return queryTokenInfo(deps)
	case Minter:
		return queryMinter(deps)
	case Allowance:
		return queryAllowance(deps, m)
	case AllAllowances:
		return queryAllAllowances(deps, m)
	case AllAccounts:
		return queryAllAccounts(deps, m)
	default:
		return nil, errors.New("Unknown query")
	}
}

func queryBalance(deps entrypoint.Deps, m Balance) (std.Binary, error) {
	if err := deps.Api.AddrValidate(m.Address); err != nil {
		return nil, err
	}
	balance, _, err := balances.MayLoad(deps.Storage, m.Address)
	if err != nil {
		return nil, err
	}
	return std.ToBinary(BalanceResponse{Balance: balance})
}

func queryTokenInfo(deps entrypoint.Deps) (std.Binary, error) {
	t, err := tokenInfo.Load(deps.Storage)
	if err != nil {
		return nil, err
	}
	return std.ToBinary(TokenInfoResponse{
		Name:        t.Name,
		Symbol:      t.Symbol,
		Decimals:    t.Decimals,
		TotalSupply: t.TotalSupply,
	})
}

func queryMinter(deps entrypoint.Deps) (std.Binary, error) {
	t, err := tokenInfo.Load(deps.Storage)
	if err != nil {
		return nil, err
	}
	var resp *MinterResponse
	if t.Mint != nil {
		resp = &MinterResponse{Minter: t.Mint.Minter, Cap: t.Mint.Cap}
	}
	return std.ToBinary(resp)
}

func queryAllowance(deps entrypoint.Deps, m Allowance) (std.Binary, error) {
	if err := deps.Api.AddrValidate(m.Owner); err != nil {
		return nil, err
	}
	if err := deps.Api.AddrValidate(m.Spender); err != nil {
		return nil, err
	}
	a, _, err := allowances.MayLoad(deps.Storage, allowanceKey(m.Owner, m.Spender))
	if err != nil {
		return nil, err
	}
	return std.ToBinary(a)
}

// limit clamps a requested page size.
func limit(requested *uint32) int {
	if requested == nil {
		return defaultLimit
	}
	if *requested > maxLimit {
		return maxLimit
	}
	return int(*requested)
}

func queryAllAllowances(deps entrypoint.Deps, m AllAllowances) (std.Binary, error) {
	if err := deps.Api.AddrValidate(m.Owner); err != nil {
		return nil, err
	}

	entries, err := storage.PrefixRange(deps.Storage, allowances, m.Owner, storage.Ascending)
	if err != nil {
		return nil, err
	}
	defer entries.Close() //nolint:errcheck

	n := limit(m.Limit)
	resp := AllAllowancesResponse{Allowances: []AllowanceInfo{}}
	for len(resp.Allowances) < n && entries.Next() {
		spender := entries.Key()
		if m.StartAfter != nil && spender <= *m.StartAfter {
			continue
		}
		a := entries.Value()
		resp.Allowances = append(resp.Allowances, AllowanceInfo{
			Spender:   spender,
			Allowance: a.Allowance,
			Expires:   a.Expires,
		})
	}
	if err := entries.Err(); err != nil {
		return nil, err
	}
	return std.ToBinary(resp)
}

func queryAllAccounts(deps entrypoint.Deps, m AllAccounts) (std.Binary, error) {
	n := limit(m.Limit)
	if n == 0 {
		return std.ToBinary(AllAccountsResponse{Accounts: []string{}})
	}

	var lower *storage.Bound[string]
	if m.StartAfter != nil {
		lower = storage.Exclusive(*m.StartAfter)
	}

	entries, err := balances.Range(deps.Storage, lower, nil, storage.Ascending)
	if err != nil {
		return nil, err
	}
	page, err := entries.Collect(n)
	if err != nil {
		return nil, err
	}

	resp := AllAccountsResponse{Accounts: make([]string, 0, len(page))}
	for _, e := range page {
		resp.Accounts = append(resp.Accounts, e.Key)
	}
	return std.ToBinary(resp)
}
