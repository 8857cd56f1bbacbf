package tarmac

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"

	sdk "github.com/cosmology-tech/cosmwasm-go"
	"github.com/cosmology-tech/cosmwasm-go/imports"
	"github.com/cosmology-tech/cosmwasm-go/storage"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/kvstore"
	wapc "github.com/wapc/wapc-guest-tinygo"
	pb "google.golang.org/protobuf/proto"
)

const (
	kvCapability = "kvstore"
	fnGet        = "get"
	fnSet        = "set"
	fnDelete     = "delete"
	fnKeys       = "keys"
)

var (
	// ErrMarshalRequest wraps failures while encoding the request payload.
	ErrMarshalRequest = errors.New("failed to marshal request")

	// ErrUnmarshalResponse wraps failures while decoding the host response.
	ErrUnmarshalResponse = errors.New("failed to unmarshal response")
)

// HostCall defines the waPC host function signature used by capabilities.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Config controls how capabilities interact with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig sdk.RuntimeConfig

	// HostCall overrides the waPC host function.
	HostCall HostCall
}

func (c Config) withDefaults() Config {
	if c.SDKConfig.Namespace == "" {
		c.SDKConfig.Namespace = sdk.DefaultNamespace
	}
	if c.HostCall == nil {
		c.HostCall = wapc.HostCall
	}
	return c
}

// Storage is a storage.Storage over the kvstore capability. Keys are hex
// encoded because the capability only accepts string keys.
type Storage struct {
	runtime  sdk.RuntimeConfig
	hostCall HostCall
}

// NewStorage creates a kvstore backed Storage.
func NewStorage(config Config) *Storage {
	config = config.withDefaults()
	return &Storage{runtime: config.SDKConfig, hostCall: config.HostCall}
}

// response is implemented by every kvstore response message.
type response interface {
	pb.Message
	GetStatus() *sdkproto.Status
}

// call sends req to fn, decodes the answer into resp and validates its
// status.
func (s *Storage) call(fn string, req pb.Message, resp response) error {
	b, err := pb.Marshal(req)
	if err != nil {
		return errors.Join(ErrMarshalRequest, err)
	}

	respBytes, callErr := s.hostCall(s.runtime.Namespace, kvCapability, fn, b)
	if callErr != nil && len(respBytes) == 0 {
		return errors.Join(sdk.ErrHostCall, callErr)
	}

	if unmarshalErr := pb.Unmarshal(respBytes, resp); unmarshalErr != nil {
		if callErr != nil {
			return errors.Join(sdk.ErrHostCall, callErr, sdk.ErrHostResponseInvalid, ErrUnmarshalResponse, unmarshalErr)
		}
		return errors.Join(sdk.ErrHostResponseInvalid, ErrUnmarshalResponse, unmarshalErr)
	}

	return validateStatus(resp.GetStatus(), callErr)
}

// Get returns the value stored under key. A 404 status reports absence.
func (s *Storage) Get(key []byte) ([]byte, bool, error) {
	var resp proto.KVStoreGetResponse
	err := s.call(fnGet, &proto.KVStoreGet{Key: hex.EncodeToString(key)}, &resp)
	switch {
	case errors.Is(err, errMissing):
		return nil, false, nil
	case err != nil:
		return nil, false, err
	}

	value := resp.GetData()
	if value == nil {
		value = []byte{}
	}
	return value, true, nil
}

// Set stores value under key.
func (s *Storage) Set(key, value []byte) error {
	err := s.call(fnSet, &proto.KVStoreSet{Key: hex.EncodeToString(key), Data: value}, &proto.KVStoreSetResponse{})
	if errors.Is(err, errMissing) {
		return errors.Join(sdk.ErrHostResponseInvalid, fmt.Errorf("set answered host status %d", hostStatusMissing))
	}
	return err
}

// Remove deletes key. A 404 status is not an error.
func (s *Storage) Remove(key []byte) error {
	err := s.call(fnDelete, &proto.KVStoreDelete{Key: hex.EncodeToString(key)}, &proto.KVStoreDeleteResponse{})
	if errors.Is(err, errMissing) {
		return nil
	}
	return err
}

// keys lists every stored key, decoded.
func (s *Storage) keys() ([][]byte, error) {
	var resp proto.KVStoreKeysResponse
	err := s.call(fnKeys, &proto.KVStoreKeys{}, &resp)
	switch {
	case errors.Is(err, errMissing):
		return nil, nil
	case err != nil:
		return nil, err
	}

	out := make([][]byte, 0, len(resp.GetKeys()))
	for _, k := range resp.GetKeys() {
		key, err := hex.DecodeString(k)
		if err != nil {
			return nil, errors.Join(sdk.ErrHostResponseInvalid, fmt.Errorf("key %q is not hex encoded: %w", k, err))
		}
		out = append(out, key)
	}
	return out, nil
}

// Range lists all keys, keeps those in [start, end) and walks them in order.
// Values are fetched as the iterator advances.
func (s *Storage) Range(start, end []byte, order storage.Order) (storage.Iterator, error) {
	if !order.Valid() {
		return nil, fmt.Errorf("%w: %d", imports.ErrInvalidOrder, order)
	}

	all, err := s.keys()
	if err != nil {
		return nil, err
	}

	keys := all[:0]
	for _, k := range all {
		if start != nil && bytes.Compare(k, start) < 0 {
			continue
		}
		if end != nil && bytes.Compare(k, end) >= 0 {
			continue
		}
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if order == storage.Descending {
			return bytes.Compare(keys[i], keys[j]) > 0
		}
		return bytes.Compare(keys[i], keys[j]) < 0
	})

	return &iterator{store: s, keys: keys, pos: -1}, nil
}

type iterator struct {
	store *Storage
	keys  [][]byte
	pos   int
	value []byte
	err   error
}

func (it *iterator) Next() bool {
	for it.err == nil && it.pos+1 < len(it.keys) {
		it.pos++
		value, found, err := it.store.Get(it.keys[it.pos])
		if err != nil {
			it.err = err
			return false
		}
		// removed since the listing
		if !found {
			continue
		}
		it.value = value
		return true
	}
	it.value = nil
	return false
}

func (it *iterator) Key() []byte {
	if it.pos < 0 || it.pos >= len(it.keys) || it.value == nil {
		return nil
	}
	return it.keys[it.pos]
}

func (it *iterator) Value() []byte { return it.value }
func (it *iterator) Err() error    { return it.err }

func (it *iterator) Close() error {
	it.pos = len(it.keys)
	it.value = nil
	return nil
}
