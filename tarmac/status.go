package tarmac

import (
	"errors"
	"fmt"

	sdk "github.com/cosmology-tech/cosmwasm-go"
	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
)

const (
	hostStatusZero     = int32(0)
	hostStatusOK       = int32(200)
	hostStatusBadInput = int32(400)
	hostStatusMissing  = int32(404)
	hostStatusError    = int32(500)
)

// errMissing is returned by validateStatus for a 404 so callers can map it to
// an absent value.
var errMissing = errors.New("missing")

func validateStatus(status *sdkproto.Status, callErr error) error {
	if status == nil {
		if callErr != nil {
			return errors.Join(sdk.ErrHostCall, callErr, sdk.ErrHostResponseInvalid)
		}
		return sdk.ErrHostResponseInvalid
	}

	code := status.GetCode()
	switch code {
	case hostStatusZero, hostStatusOK:
		return nil
	case hostStatusMissing:
		return errMissing
	case hostStatusBadInput, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		if callErr != nil {
			return errors.Join(sdk.ErrHostCall, callErr, sdk.ErrHostError, errors.New(detail))
		}
		return errors.Join(sdk.ErrHostError, errors.New(detail))
	default:
		statusErr := fmt.Errorf("unexpected host status code %d", code)
		if callErr != nil {
			return errors.Join(sdk.ErrHostCall, callErr, sdk.ErrHostResponseInvalid, statusErr)
		}
		return errors.Join(sdk.ErrHostResponseInvalid, statusErr)
	}
}
