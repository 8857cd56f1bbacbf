package storage

import (
	"errors"
	"fmt"

	"github.com/cosmology-tech/cosmwasm-go/imports"
)

// Order is the direction of a range scan.
type Order = imports.Order

const (
	Ascending  = imports.Ascending
	Descending = imports.Descending
)

var (
	// ErrNotFound is returned by Load when no value is stored under the key.
	ErrNotFound = errors.New("not found")

	// ErrDeserialize is returned when stored bytes cannot be decoded.
	ErrDeserialize = errors.New("failed to decode stored value")

	// ErrSerialize is returned when a value cannot be encoded for storage.
	ErrSerialize = errors.New("failed to encode value")

	// ErrKeyTooLong is returned when a length-prefixed key part exceeds 65535
	// bytes.
	ErrKeyTooLong = errors.New("key part too long")

	// ErrInvalidKey is returned when a stored key cannot be split into the
	// parts of a key codec.
	ErrInvalidKey = errors.New("invalid key")

	// ErrStorageNil is returned when a nil Storage is used.
	ErrStorageNil = errors.New("storage is nil")
)

// Storage is the key-value store of a contract. Values are opaque bytes and
// presence is reported explicitly, so an empty value is distinct from a
// missing one.
type Storage interface {
	// Get returns the value stored under key and whether it exists.
	Get(key []byte) ([]byte, bool, error)

	// Set stores value under key.
	Set(key, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(key []byte) error

	// Range iterates the keys in [start, end). A nil bound is unbounded.
	Range(start, end []byte, order Order) (Iterator, error)
}

// Iterator walks the records of a range.
//
//	it, err := store.Range(nil, nil, storage.Ascending)
//	if err != nil {
//		return err
//	}
//	defer it.Close()
//	for it.Next() {
//		use(it.Key(), it.Value())
//	}
//	return it.Err()
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Err() error
	Close() error
}

type hostStorage struct {
	host imports.Host
}

// New returns a Storage backed by the db_* host imports.
func New(host imports.Host) Storage {
	return &hostStorage{host: host}
}

func (s *hostStorage) Get(key []byte) ([]byte, bool, error) {
	return s.host.DBRead(key)
}

func (s *hostStorage) Set(key, value []byte) error {
	return s.host.DBWrite(key, value)
}

func (s *hostStorage) Remove(key []byte) error {
	return s.host.DBRemove(key)
}

func (s *hostStorage) Range(start, end []byte, order Order) (Iterator, error) {
	id, err := s.host.DBScan(start, end, order)
	if err != nil {
		return nil, fmt.Errorf("scanning storage: %w", err)
	}
	return &hostIterator{host: s.host, id: id}, nil
}

// hostIterator pulls records with db_next until the host returns an empty
// key. The host has no import to release an iterator; it is dropped at the
// end of the call.
type hostIterator struct {
	host  imports.Host
	id    uint32
	key   []byte
	value []byte
	err   error
	done  bool
}

func (it *hostIterator) Next() bool {
	if it.done {
		return false
	}

	key, value, err := it.host.DBNext(it.id)
	if err != nil {
		it.err = fmt.Errorf("reading iterator %d: %w", it.id, err)
		it.done = true
		return false
	}
	if len(key) == 0 {
		it.done = true
		return false
	}

	it.key, it.value = key, value
	return true
}

func (it *hostIterator) Key() []byte   { return it.key }
func (it *hostIterator) Value() []byte { return it.value }
func (it *hostIterator) Err() error    { return it.err }

func (it *hostIterator) Close() error {
	it.done = true
	it.key, it.value = nil, nil
	return nil
}
