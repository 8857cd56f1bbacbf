package storage

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
)

// ValueCodec converts stored values to and from bytes.
type ValueCodec[T any] interface {
	Encode(v T) ([]byte, error)
	Decode(data []byte) (T, error)
}

type jsonCodec[T any] struct{}

// JSON returns the codec used by NewItem and NewMap.
func JSON[T any]() ValueCodec[T] { return jsonCodec[T]{} }

func (jsonCodec[T]) Encode(v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return data, nil
}

func (jsonCodec[T]) Decode(data []byte) (T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return v, fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	return v, nil
}

type protoCodec[T proto.Message] struct {
	newMsg func() T
}

// Proto returns a codec storing protobuf messages in their binary wire
// format. newFn returns an empty message to decode into.
func Proto[T proto.Message](newFn func() T) ValueCodec[T] {
	return protoCodec[T]{newMsg: newFn}
}

func (c protoCodec[T]) Encode(v T) ([]byte, error) {
	data, err := proto.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return data, nil
}

func (c protoCodec[T]) Decode(data []byte) (T, error) {
	v := c.newMsg()
	if err := proto.Unmarshal(data, v); err != nil {
		var zero T
		return zero, fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	return v, nil
}
