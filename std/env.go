package std

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Env is the chain context of the current call.
type Env struct {
	Block       BlockInfo        `json:"block"`
	Transaction *TransactionInfo `json:"transaction"`
	Contract    ContractInfo     `json:"contract"`
}

// BlockInfo describes the block the call is executed in.
type BlockInfo struct {
	Height  uint64    `json:"height"`
	Time    Timestamp `json:"time"`
	ChainID string    `json:"chain_id"`
}

// TransactionInfo is present when the call is part of a transaction.
type TransactionInfo struct {
	// Index is the position of the transaction in the block.
	Index uint32 `json:"index"`
}

// ContractInfo identifies the executing contract.
type ContractInfo struct {
	Address string `json:"address"`
}

// MessageInfo carries the sender and the funds attached to an instantiate or
// execute call.
type MessageInfo struct {
	Sender string `json:"sender"`
	Funds  []Coin `json:"funds"`
}

// Coin is an amount of a single denomination.
type Coin struct {
	Denom  string  `json:"denom"`
	Amount Uint128 `json:"amount"`
}

// NewCoin returns a coin of amount denom.
func NewCoin(amount uint64, denom string) Coin {
	return Coin{Denom: denom, Amount: NewUint128(amount)}
}

func (c Coin) String() string { return c.Amount.String() + c.Denom }

// coins returns a non-nil slice so that empty lists encode as [].
func coins(c []Coin) []Coin {
	if c == nil {
		return []Coin{}
	}
	return c
}

// Timestamp is a point in time with nanosecond precision, encoded in JSON as
// a string of nanoseconds since the Unix epoch.
type Timestamp uint64

// TimestampFromSeconds returns the timestamp secs seconds after the epoch.
func TimestampFromSeconds(secs uint64) Timestamp { return Timestamp(secs * uint64(time.Second)) }

// Nanos returns the nanoseconds since the epoch.
func (t Timestamp) Nanos() uint64 { return uint64(t) }

// Seconds returns the whole seconds since the epoch.
func (t Timestamp) Seconds() uint64 { return uint64(t) / uint64(time.Second) }

// Add returns t shifted by d.
func (t Timestamp) Add(d time.Duration) Timestamp { return Timestamp(int64(t) + int64(d)) }

// Time converts t to a time.Time in UTC.
func (t Timestamp) Time() time.Time { return time.Unix(0, int64(t)).UTC() }

// MarshalJSON encodes t as a decimal string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(t), 10))
}

// UnmarshalJSON decodes a decimal string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: timestamp must be a string: %w", ErrDeserialize, err)
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: invalid timestamp %q", ErrDeserialize, s)
	}
	*t = Timestamp(n)
	return nil
}
