package storage

import (
	"encoding/binary"
	"fmt"
	"math"
)

// KeyCodec converts a map key to and from its parts. Every part but the last
// is length-prefixed in the stored key, so two distinct keys of the same
// codec never encode to the same bytes.
type KeyCodec[K any] interface {
	// Parts returns the raw parts of k, Arity of them.
	Parts(k K) ([][]byte, error)

	// FromParts rebuilds a key from the parts Parts returned.
	FromParts(parts [][]byte) (K, error)

	// Arity is the number of parts of every key.
	Arity() int
}

type stringKey struct{}

func (stringKey) Parts(k string) ([][]byte, error)         { return [][]byte{[]byte(k)}, nil }
func (stringKey) FromParts(parts [][]byte) (string, error) { return string(parts[0]), nil }
func (stringKey) Arity() int                               { return 1 }

type bytesKey struct{}

func (bytesKey) Parts(k []byte) ([][]byte, error) { return [][]byte{k}, nil }

func (bytesKey) FromParts(parts [][]byte) ([]byte, error) {
	return append([]byte(nil), parts[0]...), nil
}

func (bytesKey) Arity() int { return 1 }

type uint64Key struct{}

func (uint64Key) Parts(k uint64) ([][]byte, error) {
	return [][]byte{binary.BigEndian.AppendUint64(nil, k)}, nil
}

func (uint64Key) FromParts(parts [][]byte) (uint64, error) {
	if len(parts[0]) != 8 {
		return 0, fmt.Errorf("%w: uint64 key of %d bytes", ErrInvalidKey, len(parts[0]))
	}
	return binary.BigEndian.Uint64(parts[0]), nil
}

func (uint64Key) Arity() int { return 1 }

var (
	// StringKey encodes string keys as their UTF-8 bytes.
	StringKey KeyCodec[string] = stringKey{}

	// BytesKey stores byte slice keys unchanged.
	BytesKey KeyCodec[[]byte] = bytesKey{}

	// Uint64Key encodes integers big-endian so that ranges iterate in
	// numeric order.
	Uint64Key KeyCodec[uint64] = uint64Key{}
)

// Pair is a composite key of two components.
type Pair[A, B any] struct {
	First  A
	Second B
}

// NewPair returns the pair (a, b).
func NewPair[A, B any](a A, b B) Pair[A, B] { return Pair[A, B]{First: a, Second: b} }

// PairCodec encodes Pair keys as the parts of First followed by the parts of
// Second. A map keyed by a PairCodec can be iterated by its first component
// with PrefixRange.
type PairCodec[A, B any] struct {
	First  KeyCodec[A]
	Second KeyCodec[B]
}

// PairKey returns the codec of pairs built from a and b.
func PairKey[A, B any](a KeyCodec[A], b KeyCodec[B]) PairCodec[A, B] {
	return PairCodec[A, B]{First: a, Second: b}
}

// Parts implements KeyCodec.
func (c PairCodec[A, B]) Parts(k Pair[A, B]) ([][]byte, error) {
	first, err := c.First.Parts(k.First)
	if err != nil {
		return nil, err
	}
	second, err := c.Second.Parts(k.Second)
	if err != nil {
		return nil, err
	}
	return append(first, second...), nil
}

// FromParts implements KeyCodec.
func (c PairCodec[A, B]) FromParts(parts [][]byte) (Pair[A, B], error) {
	n := c.First.Arity()
	a, err := c.First.FromParts(parts[:n])
	if err != nil {
		return Pair[A, B]{}, err
	}
	b, err := c.Second.FromParts(parts[n:])
	if err != nil {
		return Pair[A, B]{}, err
	}
	return NewPair(a, b), nil
}

// Arity implements KeyCodec.
func (c PairCodec[A, B]) Arity() int { return c.First.Arity() + c.Second.Arity() }

// appendPrefixed appends the u16 big-endian length of part followed by part.
func appendPrefixed(dst, part []byte) ([]byte, error) {
	if len(part) > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d bytes", ErrKeyTooLong, len(part))
	}
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(part)))
	return append(dst, part...), nil
}

// joinKey builds namespace || parts with every element but the last
// length-prefixed. Without parts the namespace is returned as is.
func joinKey(namespace []byte, parts ...[]byte) ([]byte, error) {
	if len(parts) == 0 {
		return append([]byte(nil), namespace...), nil
	}

	size := len(namespace) + 2
	for _, p := range parts {
		size += len(p) + 2
	}

	key, err := appendPrefixed(make([]byte, 0, size), namespace)
	if err != nil {
		return nil, err
	}
	for _, p := range parts[:len(parts)-1] {
		if key, err = appendPrefixed(key, p); err != nil {
			return nil, err
		}
	}
	return append(key, parts[len(parts)-1]...), nil
}

// prefixKey builds the key prefix shared by every key that starts with
// parts. All parts are length-prefixed since none of them is last.
func prefixKey(namespace []byte, parts ...[]byte) ([]byte, error) {
	key, err := appendPrefixed(nil, namespace)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		if key, err = appendPrefixed(key, p); err != nil {
			return nil, err
		}
	}
	return key, nil
}

// splitParts reverses the part encoding of joinKey for the bytes that follow
// the namespace.
func splitParts(rest []byte, arity int) ([][]byte, error) {
	parts := make([][]byte, 0, arity)
	for i := 0; i < arity-1; i++ {
		if len(rest) < 2 {
			return nil, fmt.Errorf("%w: truncated length prefix", ErrInvalidKey)
		}
		n := int(binary.BigEndian.Uint16(rest))
		rest = rest[2:]
		if n > len(rest) {
			return nil, fmt.Errorf("%w: part of %d bytes with %d remaining", ErrInvalidKey, n, len(rest))
		}
		parts = append(parts, rest[:n])
		rest = rest[n:]
	}
	return append(parts, rest), nil
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix, or nil when no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
