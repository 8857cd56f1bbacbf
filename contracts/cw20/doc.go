/*
Package cw20 implements the cw20-base fungible token.

Balances are kept in a Map keyed by address and allowances in a Map keyed by
(owner, spender), so all allowances of one owner are iterated with
storage.PrefixRange. Amounts are Uint128 and encode as decimal strings.

	{"transfer":{"recipient":"cosmwasm1...","amount":"100"}}
	{"increase_allowance":{"spender":"cosmwasm1...","amount":"5","expires":{"at_height":20000}}}
	{"all_accounts":{"start_after":"cosmwasm1...","limit":5}}

List queries return at most 30 items and 10 when no limit is given.
*/
package cw20
