package sdk

import (
	"errors"

	"github.com/cosmology-tech/cosmwasm-go/entrypoint"
)

var (
	// ErrInstantiateNil is returned when the contract has no instantiate handler.
	ErrInstantiateNil = entrypoint.ErrInstantiateNil

	// ErrHostCall indicates that a waPC host invocation failed.
	ErrHostCall = errors.New("host call failed")

	// ErrHostResponseInvalid signals that the host returned an invalid or unexpected payload.
	ErrHostResponseInvalid = errors.New("host response is invalid or unexpected")

	// ErrHostError means the host completed the call but reported a failure status.
	ErrHostError = errors.New("host returned an error status")
)
