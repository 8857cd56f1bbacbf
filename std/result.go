package std

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ContractResult is the envelope around every entry point result. It encodes
// as exactly one of {"ok":<value>} or {"error":"<message>"}.
type ContractResult[T any] struct {
	ok    T
	err   string
	isErr bool
}

// Ok wraps a successful value.
func Ok[T any](v T) ContractResult[T] { return ContractResult[T]{ok: v} }

// Err wraps a failure. The envelope carries err.Error().
func Err[T any](err error) ContractResult[T] {
	return ContractResult[T]{err: err.Error(), isErr: true}
}

// IsOk reports whether r holds a value.
func (r ContractResult[T]) IsOk() bool { return !r.isErr }

// Unwrap returns the value or the error message as an error.
func (r ContractResult[T]) Unwrap() (T, error) {
	if r.isErr {
		var zero T
		return zero, errors.New(r.err)
	}
	return r.ok, nil
}

// Error returns the error message, empty for a successful result.
func (r ContractResult[T]) Error() string { return r.err }

// MarshalJSON implements json.Marshaler.
func (r ContractResult[T]) MarshalJSON() ([]byte, error) {
	if r.isErr {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{r.err})
	}
	return json.Marshal(struct {
		Ok T `json:"ok"`
	}{r.ok})
}

// UnmarshalJSON implements json.Unmarshaler. Objects with both keys, neither
// key or any other key are rejected.
func (r *ContractResult[T]) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	if len(fields) != 1 {
		return fmt.Errorf("%w: %d keys", ErrInvalidEnvelope, len(fields))
	}

	if raw, ok := fields["ok"]; ok {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("%w: %w", ErrDeserialize, err)
		}
		*r = Ok(v)
		return nil
	}

	if raw, ok := fields["error"]; ok {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("%w: error must be a string: %w", ErrInvalidEnvelope, err)
		}
		*r = ContractResult[T]{err: msg, isErr: true}
		return nil
	}

	return fmt.Errorf("%w: expected ok or error", ErrInvalidEnvelope)
}
