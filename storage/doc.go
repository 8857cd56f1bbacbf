/*
Package storage provides typed persistence for contracts on top of the host
key-value store.

Item stores one value under a fixed key. Map stores a collection addressed by
typed keys; its stored keys are built from a length-prefixed namespace and
length-prefixed key parts, so structurally similar keys never collide:

	var allowances = storage.NewMap[storage.Pair[string, string], Allowance](
		"allowance", storage.PairKey(storage.StringKey, storage.StringKey))

	err := allowances.Save(deps.Storage, storage.NewPair(owner, spender), a)

Handles hold no state and take the Storage on every call, so they are
usually package-level variables. New adapts the host imports; storage/mock
provides an in-memory Storage for tests.

Maps can be iterated in key order with Range, and pair-keyed maps by their
first component with PrefixRange. Both read through the db_scan and db_next
imports.
*/
package storage
