package std

import (
	"encoding/json"
	"fmt"

	"github.com/holiman/uint256"
)

// Uint128 is an unsigned 128-bit integer. It is encoded in JSON as a decimal
// string, the way the chain encodes token amounts.
type Uint128 struct {
	v uint256.Int
}

// NewUint128 returns n as a Uint128.
func NewUint128(n uint64) Uint128 {
	var u Uint128
	u.v.SetUint64(n)
	return u
}

// ZeroUint128 returns 0.
func ZeroUint128() Uint128 { return Uint128{} }

// ParseUint128 parses a decimal string without sign or whitespace.
func ParseUint128(s string) (Uint128, error) {
	if s == "" {
		return Uint128{}, fmt.Errorf("%w: empty Uint128", ErrDeserialize)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return Uint128{}, fmt.Errorf("%w: invalid Uint128 %q", ErrDeserialize, s)
		}
	}

	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Uint128{}, fmt.Errorf("%w: invalid Uint128 %q: %w", ErrDeserialize, s, err)
	}
	if v.BitLen() > 128 {
		return Uint128{}, fmt.Errorf("%w: %s does not fit in 128 bits", ErrOverflow, s)
	}
	return Uint128{v: *v}, nil
}

// MustParseUint128 is ParseUint128 for constants. It panics on error.
func MustParseUint128(s string) Uint128 {
	u, err := ParseUint128(s)
	if err != nil {
		panic(err)
	}
	return u
}

func (u Uint128) String() string { return u.v.Dec() }

// IsZero reports whether u is 0.
func (u Uint128) IsZero() bool { return u.v.IsZero() }

// Cmp returns -1, 0 or +1 as u is less than, equal to or greater than o.
func (u Uint128) Cmp(o Uint128) int { return u.v.Cmp(&o.v) }

// Equal reports whether u == o.
func (u Uint128) Equal(o Uint128) bool { return u.v.Eq(&o.v) }

// Uint64 returns u truncated to 64 bits and whether it fit.
func (u Uint128) Uint64() (uint64, bool) { return u.v.Uint64(), u.v.IsUint64() }

// Add returns u + o or ErrOverflow.
func (u Uint128) Add(o Uint128) (Uint128, error) {
	var r Uint128
	r.v.Add(&u.v, &o.v)
	if r.v.BitLen() > 128 {
		return Uint128{}, fmt.Errorf("%w: %s + %s", ErrOverflow, u, o)
	}
	return r, nil
}

// Sub returns u - o or ErrUnderflow.
func (u Uint128) Sub(o Uint128) (Uint128, error) {
	if u.v.Lt(&o.v) {
		return Uint128{}, fmt.Errorf("%w: %s - %s", ErrUnderflow, u, o)
	}
	var r Uint128
	r.v.Sub(&u.v, &o.v)
	return r, nil
}

// Mul returns u * o or ErrOverflow.
func (u Uint128) Mul(o Uint128) (Uint128, error) {
	var r Uint128
	if _, overflow := r.v.MulOverflow(&u.v, &o.v); overflow || r.v.BitLen() > 128 {
		return Uint128{}, fmt.Errorf("%w: %s * %s", ErrOverflow, u, o)
	}
	return r, nil
}

// Div returns u / o or ErrDivideByZero.
func (u Uint128) Div(o Uint128) (Uint128, error) {
	if o.IsZero() {
		return Uint128{}, ErrDivideByZero
	}
	var r Uint128
	r.v.Div(&u.v, &o.v)
	return r, nil
}

// MarshalJSON encodes u as a decimal string.
func (u Uint128) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

// UnmarshalJSON decodes a decimal string.
func (u *Uint128) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: Uint128 must be a string: %w", ErrDeserialize, err)
	}
	v, err := ParseUint128(s)
	if err != nil {
		return err
	}
	*u = v
	return nil
}
