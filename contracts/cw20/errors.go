package cw20

import "errors"

var (
	ErrUnauthorized          = errors.New("Unauthorized")
	ErrInvalidZeroAmount     = errors.New("Invalid zero amount")
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrCannotSetOwnAccount   = errors.New("Cannot set allowance to own account")
	ErrNoAllowance           = errors.New("No allowance for this account")
	ErrInsufficientAllowance = errors.New("Insufficient allowance")
	ErrExpired               = errors.New("Allowance is expired")
	ErrInvalidExpiration     = errors.New("Invalid expiration value")
	ErrCannotExceedCap       = errors.New("Minting cannot exceed the cap")
	ErrInitialSupplyCap      = errors.New("Initial supply greater than cap")
	ErrDuplicateInitial      = errors.New("Duplicate initial balance addresses")
	ErrInvalidName           = errors.New("Name is not in the expected format (3-50 UTF-8 bytes)")
	ErrInvalidSymbol         = errors.New("Ticker symbol is not in expected format [a-zA-Z\\-]{3,12}")
	ErrInvalidDecimals       = errors.New("Decimals must not exceed 18")
)
