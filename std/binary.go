package std

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Binary is a byte string that is encoded in JSON as standard base64. Query
// results and embedded messages travel as Binary, so a JSON value inside a
// JSON envelope is encoded twice.
type Binary []byte

// MarshalJSON encodes b as a base64 string, or null when b is nil.
func (b Binary) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	return json.Marshal(base64.StdEncoding.EncodeToString(b))
}

// UnmarshalJSON decodes a base64 string. null decodes to nil.
func (b *Binary) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*b = nil
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: binary must be a base64 string: %w", ErrDeserialize, err)
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("%w: invalid base64: %w", ErrDeserialize, err)
	}
	*b = raw
	return nil
}

func (b Binary) String() string { return base64.StdEncoding.EncodeToString(b) }

// ToBinary encodes v as JSON and returns it as Binary.
func ToBinary(v any) (Binary, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return Binary(data), nil
}

// FromBinary decodes the JSON held by b into v.
func FromBinary(b Binary, v any) error {
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	return nil
}
