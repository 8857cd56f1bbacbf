package storage

import "fmt"

// Map is a collection of typed values addressed by keys of type K. The
// stored key of an entry is the length-prefixed namespace followed by the
// key parts, see KeyCodec.
type Map[K, V any] struct {
	namespace []byte
	keys      KeyCodec[K]
	values    ValueCodec[V]
}

// NewMap returns a Map under namespace with JSON encoded values.
func NewMap[K, V any](namespace string, keys KeyCodec[K]) Map[K, V] {
	return NewMapWithCodec(namespace, keys, JSON[V]())
}

// NewMapWithCodec returns a Map under namespace with values encoded by
// values.
func NewMapWithCodec[K, V any](namespace string, keys KeyCodec[K], values ValueCodec[V]) Map[K, V] {
	return Map[K, V]{namespace: []byte(namespace), keys: keys, values: values}
}

// Key returns the storage key of k.
func (m Map[K, V]) Key(k K) ([]byte, error) {
	parts, err := m.keys.Parts(k)
	if err != nil {
		return nil, err
	}
	return joinKey(m.namespace, parts...)
}

// Save stores v under k.
func (m Map[K, V]) Save(store Storage, k K, v V) error {
	if store == nil {
		return ErrStorageNil
	}
	key, err := m.Key(k)
	if err != nil {
		return err
	}
	data, err := m.values.Encode(v)
	if err != nil {
		return err
	}
	return store.Set(key, data)
}

// Load returns the value stored under k, or ErrNotFound.
func (m Map[K, V]) Load(store Storage, k K) (V, error) {
	v, ok, err := m.MayLoad(store, k)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, fmt.Errorf("%w: %s entry %v", ErrNotFound, m.namespace, k)
	}
	return v, nil
}

// MayLoad returns the value stored under k and whether it exists.
func (m Map[K, V]) MayLoad(store Storage, k K) (V, bool, error) {
	var zero V
	if store == nil {
		return zero, false, ErrStorageNil
	}
	key, err := m.Key(k)
	if err != nil {
		return zero, false, err
	}
	data, ok, err := store.Get(key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := m.values.Decode(data)
	if err != nil {
		return zero, false, fmt.Errorf("%s entry %v: %w", m.namespace, k, err)
	}
	return v, true, nil
}

// Has reports whether a value is stored under k.
func (m Map[K, V]) Has(store Storage, k K) (bool, error) {
	if store == nil {
		return false, ErrStorageNil
	}
	key, err := m.Key(k)
	if err != nil {
		return false, err
	}
	_, ok, err := store.Get(key)
	return ok, err
}

// Remove deletes the value stored under k.
func (m Map[K, V]) Remove(store Storage, k K) error {
	if store == nil {
		return ErrStorageNil
	}
	key, err := m.Key(k)
	if err != nil {
		return err
	}
	return store.Remove(key)
}

// Update applies fn to the value stored under k and saves the result. fn
// receives whether a value existed. Nothing is written when fn fails.
func (m Map[K, V]) Update(store Storage, k K, fn func(v V, found bool) (V, error)) (V, error) {
	v, ok, err := m.MayLoad(store, k)
	if err != nil {
		return v, err
	}
	next, err := fn(v, ok)
	if err != nil {
		return v, err
	}
	return next, m.Save(store, k, next)
}

// Bound limits one side of a range.
type Bound[K any] struct {
	Key       K
	Exclusive bool
}

// Inclusive returns a bound that includes k.
func Inclusive[K any](k K) *Bound[K] { return &Bound[K]{Key: k} }

// Exclusive returns a bound that excludes k.
func Exclusive[K any](k K) *Bound[K] { return &Bound[K]{Key: k, Exclusive: true} }

// Range iterates the entries with keys between lower and upper. A nil bound is
// unbounded. Entries are visited in byte order of their stored keys, which
// is numeric order for Uint64Key and lexicographic order for StringKey.
func (m Map[K, V]) Range(store Storage, lower, upper *Bound[K], order Order) (*Entries[K, V], error) {
	if store == nil {
		return nil, ErrStorageNil
	}
	prefix, err := prefixKey(m.namespace)
	if err != nil {
		return nil, err
	}

	start, end := prefix, prefixEnd(prefix)
	if lower != nil {
		if start, err = m.boundKey(lower, lower.Exclusive); err != nil {
			return nil, err
		}
	}
	if upper != nil {
		if end, err = m.boundKey(upper, !upper.Exclusive); err != nil {
			return nil, err
		}
	}

	it, err := store.Range(start, end, order)
	if err != nil {
		return nil, err
	}
	return newEntries(it, len(prefix), m.keys, m.values), nil
}

// boundKey returns the stored key of b. With after set, the result is the
// smallest key following it.
func (m Map[K, V]) boundKey(b *Bound[K], after bool) ([]byte, error) {
	key, err := m.Key(b.Key)
	if err != nil {
		return nil, err
	}
	if after {
		key = append(key, 0)
	}
	return key, nil
}

// Keys returns the keys between lower and upper.
func (m Map[K, V]) Keys(store Storage, lower, upper *Bound[K], order Order) ([]K, error) {
	entries, err := m.Range(store, lower, upper, order)
	if err != nil {
		return nil, err
	}
	all, err := entries.Collect(0)
	if err != nil {
		return nil, err
	}
	keys := make([]K, len(all))
	for i, e := range all {
		keys[i] = e.Key
	}
	return keys, nil
}

// PrefixRange iterates the entries of a pair-keyed map whose first key
// component is first, yielding the second component as the key.
func PrefixRange[A, B, V any](store Storage, m Map[Pair[A, B], V], first A, order Order) (*Entries[B, V], error) {
	if store == nil {
		return nil, ErrStorageNil
	}
	codec, ok := m.keys.(PairCodec[A, B])
	if !ok {
		return nil, fmt.Errorf("%w: map %s is not keyed by PairKey", ErrInvalidKey, m.namespace)
	}

	parts, err := codec.First.Parts(first)
	if err != nil {
		return nil, err
	}
	prefix, err := prefixKey(m.namespace, parts...)
	if err != nil {
		return nil, err
	}

	it, err := store.Range(prefix, prefixEnd(prefix), order)
	if err != nil {
		return nil, err
	}
	return newEntries(it, len(prefix), codec.Second, m.values), nil
}

// Entry is a decoded map record.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Entries decodes the records of a storage iterator into map entries.
type Entries[K, V any] struct {
	it        Iterator
	prefixLen int
	keys      KeyCodec[K]
	values    ValueCodec[V]
	current   Entry[K, V]
	err       error
}

func newEntries[K, V any](it Iterator, prefixLen int, keys KeyCodec[K], values ValueCodec[V]) *Entries[K, V] {
	return &Entries[K, V]{it: it, prefixLen: prefixLen, keys: keys, values: values}
}

// Next advances to the next entry. It returns false when the range is
// exhausted or an entry cannot be decoded; check Err afterwards.
func (e *Entries[K, V]) Next() bool {
	if e.err != nil || !e.it.Next() {
		return false
	}

	raw := e.it.Key()
	if len(raw) < e.prefixLen {
		e.err = fmt.Errorf("%w: key %x shorter than its prefix", ErrInvalidKey, raw)
		return false
	}
	parts, err := splitParts(raw[e.prefixLen:], e.keys.Arity())
	if err != nil {
		e.err = err
		return false
	}
	k, err := e.keys.FromParts(parts)
	if err != nil {
		e.err = err
		return false
	}
	v, err := e.values.Decode(e.it.Value())
	if err != nil {
		e.err = err
		return false
	}

	e.current = Entry[K, V]{Key: k, Value: v}
	return true
}

// Key returns the key of the current entry.
func (e *Entries[K, V]) Key() K { return e.current.Key }

// Value returns the value of the current entry.
func (e *Entries[K, V]) Value() V { return e.current.Value }

// Entry returns the current entry.
func (e *Entries[K, V]) Entry() Entry[K, V] { return e.current }

// Err returns the first decoding or storage error.
func (e *Entries[K, V]) Err() error {
	if e.err != nil {
		return e.err
	}
	return e.it.Err()
}

// Close releases the underlying iterator.
func (e *Entries[K, V]) Close() error { return e.it.Close() }

// Collect reads up to limit entries, or all of them when limit is zero, and
// closes the iterator.
func (e *Entries[K, V]) Collect(limit int) ([]Entry[K, V], error) {
	defer e.Close() //nolint:errcheck

	var out []Entry[K, V]
	for (limit <= 0 || len(out) < limit) && e.Next() {
		out = append(out, e.current)
	}
	return out, e.Err()
}
