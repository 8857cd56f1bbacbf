/*
Package mock provides an in-memory storage.Storage for testing contracts.

The store keeps keys in byte order so that Item, Map and range queries behave
as they do against a real host. You can pre-seed data, override per-key
behavior, and record calls for assertions.

# Basic Usage

	import (
		"testing"

		"github.com/cosmology-tech/cosmwasm-go/storage"
		"github.com/cosmology-tech/cosmwasm-go/storage/mock"
	)

	func TestSomething(t *testing.T) {
		store := mock.New(mock.Config{})
		count := storage.NewItem[int]("count")
		_ = count.Save(store, 2)
		v, err := count.Load(store)
		// assert v == 2 and err == nil
	}

# Overriding Behavior

Override responses per operation/key using a fluent builder:

	store.OnGet([]byte("count")).ReturnValue([]byte("not json"))
	store.OnSet([]byte("count")).ReturnError(errors.New("reject set"))
	store.OnRange().ReturnError(errors.New("no iteration"))

# Inspecting Calls

	for _, c := range store.Calls {
		// c.Op, c.Key, c.Value
	}
*/
package mock
