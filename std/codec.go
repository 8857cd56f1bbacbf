package std

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Decoder turns a raw JSON message into a typed value.
type Decoder[T any] func(data []byte) (T, error)

// JSON returns a Decoder that rejects unknown fields and trailing data.
func JSON[T any]() Decoder[T] {
	return func(data []byte) (T, error) {
		var v T
		if err := Unmarshal(data, &v); err != nil {
			return v, err
		}
		return v, nil
	}
}

// Unmarshal decodes data into v, rejecting unknown fields and trailing data.
func Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after JSON value", ErrDeserialize)
	}
	return nil
}
