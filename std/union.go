package std

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Union decodes an externally tagged union: a JSON object with exactly one
// key naming the variant, whose value is the variant payload.
//
//	{"transfer":{"recipient":"...","amount":"10"}}
//
// Kind names the union in errors; the unknown variant error of a union with
// Kind "message" reads "Unknown message".
type Union[T any] struct {
	Kind  string
	Cases map[string]func(json.RawMessage) (T, error)
}

// UnknownVariantError reports a tag that is not one of the union cases.
type UnknownVariantError struct {
	Kind string
	Tag  string
}

func (e *UnknownVariantError) Error() string { return "Unknown " + e.Kind }

// Is makes every UnknownVariantError match ErrUnknownVariant.
func (e *UnknownVariantError) Is(target error) bool { return target == ErrUnknownVariant }

// Decode picks the variant named by the only key of data and decodes its
// payload.
func (u Union[T]) Decode(data []byte) (T, error) {
	var zero T

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return zero, fmt.Errorf("%w: %s: %w", ErrDeserialize, u.Kind, err)
	}

	switch len(fields) {
	case 0:
		return zero, fmt.Errorf("%w: %s", ErrNoVariant, u.Kind)
	case 1:
	default:
		tags := make([]string, 0, len(fields))
		for tag := range fields {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		return zero, fmt.Errorf("%w: %s has %v", ErrMultipleVariants, u.Kind, tags)
	}

	for tag, payload := range fields {
		decode, ok := u.Cases[tag]
		if !ok {
			return zero, &UnknownVariantError{Kind: u.Kind, Tag: tag}
		}
		v, err := decode(payload)
		if err != nil {
			return zero, fmt.Errorf("%w: %s %q: %w", ErrDeserialize, u.Kind, tag, err)
		}
		return v, nil
	}
	return zero, nil
}

// Decoder returns u.Decode as a Decoder.
func (u Union[T]) Decoder() Decoder[T] { return u.Decode }

// Case builds a union case that decodes the payload into V, rejecting
// unknown fields, and converts it with wrap.
func Case[T, V any](wrap func(V) T) func(json.RawMessage) (T, error) {
	return func(raw json.RawMessage) (T, error) {
		var v V
		if err := Unmarshal(raw, &v); err != nil {
			var zero T
			return zero, err
		}
		return wrap(v), nil
	}
}

// EncodeVariant encodes payload under tag. A nil payload encodes as {}.
func EncodeVariant(tag string, payload any) ([]byte, error) {
	if payload == nil {
		payload = struct{}{}
	}
	data, err := json.Marshal(map[string]any{tag: payload})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSerialize, tag, err)
	}
	return data, nil
}
