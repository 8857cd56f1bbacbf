package cw20

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cosmology-tech/cosmwasm-go/std"
)

type expirationKind uint8

const (
	expiresNever expirationKind = iota
	expiresAtHeight
	expiresAtTime
)

// Expiration is the moment an allowance stops being usable. The zero value
// never expires.
//
//	{"at_height":20000} | {"at_time":"1571797419000000000"} | {"never":{}}
type Expiration struct {
	kind   expirationKind
	height uint64
	time   std.Timestamp
}

// AtHeight expires once the chain reaches height.
func AtHeight(height uint64) Expiration { return Expiration{kind: expiresAtHeight, height: height} }

// AtTime expires once block time reaches t.
func AtTime(t std.Timestamp) Expiration { return Expiration{kind: expiresAtTime, time: t} }

// Never does not expire.
func Never() Expiration { return Expiration{} }

// IsExpired reports whether block is at or past the expiration.
func (e Expiration) IsExpired(block std.BlockInfo) bool {
	switch e.kind {
	case expiresAtHeight:
		return block.Height >= e.height
	case expiresAtTime:
		return block.Time >= e.time
	default:
		return false
	}
}

func (e Expiration) String() string {
	switch e.kind {
	case expiresAtHeight:
		return "expiration height: " + strconv.FormatUint(e.height, 10)
	case expiresAtTime:
		return "expiration time: " + e.time.Time().String()
	default:
		return "expiration: never"
	}
}

var expirations = std.Union[Expiration]{
	Kind: "expiration",
	Cases: map[string]func(json.RawMessage) (Expiration, error){
		"at_height": std.Case(AtHeight),
		"at_time":   std.Case(AtTime),
		"never":     std.Case(func(struct{}) Expiration { return Never() }),
	},
}

// MarshalJSON implements json.Marshaler.
func (e Expiration) MarshalJSON() ([]byte, error) {
	switch e.kind {
	case expiresAtHeight:
		return std.EncodeVariant("at_height", e.height)
	case expiresAtTime:
		return std.EncodeVariant("at_time", e.time)
	default:
		return std.EncodeVariant("never", nil)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *Expiration) UnmarshalJSON(data []byte) error {
	v, err := expirations.Decode(data)
	if err != nil {
		return fmt.Errorf("decoding expiration: %w", err)
	}
	*e = v
	return nil
}
