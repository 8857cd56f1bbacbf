package storage

import "fmt"

// Item is a single typed value stored under a fixed key.
type Item[T any] struct {
	key   []byte
	codec ValueCodec[T]
}

// NewItem returns an Item stored under key, encoded as JSON.
func NewItem[T any](key string) Item[T] {
	return NewItemWithCodec(key, JSON[T]())
}

// NewItemWithCodec returns an Item stored under key, encoded with codec.
func NewItemWithCodec[T any](key string, codec ValueCodec[T]) Item[T] {
	return Item[T]{key: []byte(key), codec: codec}
}

// Key returns the storage key of the item.
func (i Item[T]) Key() []byte { return append([]byte(nil), i.key...) }

// Save stores v, replacing any previous value.
func (i Item[T]) Save(store Storage, v T) error {
	if store == nil {
		return ErrStorageNil
	}
	data, err := i.codec.Encode(v)
	if err != nil {
		return err
	}
	return store.Set(i.key, data)
}

// Load returns the stored value, or ErrNotFound if nothing was saved.
func (i Item[T]) Load(store Storage) (T, error) {
	v, ok, err := i.MayLoad(store)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, fmt.Errorf("%w: item %q", ErrNotFound, i.key)
	}
	return v, nil
}

// MayLoad returns the stored value and whether it exists.
func (i Item[T]) MayLoad(store Storage) (T, bool, error) {
	var zero T
	if store == nil {
		return zero, false, ErrStorageNil
	}
	data, ok, err := store.Get(i.key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := i.codec.Decode(data)
	if err != nil {
		return zero, false, fmt.Errorf("item %q: %w", i.key, err)
	}
	return v, true, nil
}

// Exists reports whether a value is stored, without decoding it.
func (i Item[T]) Exists(store Storage) (bool, error) {
	if store == nil {
		return false, ErrStorageNil
	}
	_, ok, err := store.Get(i.key)
	return ok, err
}

// Remove deletes the stored value.
func (i Item[T]) Remove(store Storage) error {
	if store == nil {
		return ErrStorageNil
	}
	return store.Remove(i.key)
}

// Update loads the value, applies fn and saves the result. It fails with
// ErrNotFound if nothing was saved. Nothing is written when fn fails.
func (i Item[T]) Update(store Storage, fn func(T) (T, error)) (T, error) {
	v, err := i.Load(store)
	if err != nil {
		return v, err
	}
	next, err := fn(v)
	if err != nil {
		return v, err
	}
	return next, i.Save(store, next)
}
