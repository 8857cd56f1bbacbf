package std

import "errors"

var (
	// ErrDeserialize is returned when a JSON payload does not match the
	// expected shape.
	ErrDeserialize = errors.New("Error parsing into type")

	// ErrSerialize is returned when a value cannot be encoded.
	ErrSerialize = errors.New("Error serializing type")

	// ErrNoVariant is returned when a tagged union object carries no variant.
	ErrNoVariant = errors.New("expected exactly one variant, got none")

	// ErrMultipleVariants is returned when a tagged union object carries more
	// than one variant.
	ErrMultipleVariants = errors.New("expected exactly one variant, got several")

	// ErrUnknownVariant is matched by every *UnknownVariantError.
	ErrUnknownVariant = errors.New("unknown variant")

	// ErrOverflow is returned when an arithmetic result exceeds 128 bits.
	ErrOverflow = errors.New("Overflow")

	// ErrUnderflow is returned when a subtraction would go below zero.
	ErrUnderflow = errors.New("Underflow")

	// ErrDivideByZero is returned by division by a zero Uint128.
	ErrDivideByZero = errors.New("Cannot divide by zero")

	// ErrInvalidEnvelope is returned when a result envelope is not exactly
	// one of {"ok":...} or {"error":...}.
	ErrInvalidEnvelope = errors.New("invalid result envelope")

	// ErrQueryFailed is returned when the queried contract or module answered
	// with an error.
	ErrQueryFailed = errors.New("query failed")
)
