package tokens

import "errors"

var (
	// ErrCorruptedTokenDb the on-disk token balance representation changed
	ErrCorruptedTokenDb = errors.New("token balance db is corrupted")

	// ErrUnknownToken the token has no balance bucket yet
	ErrUnknownToken = errors.New("unknown token")

	// ErrInvalidAmount the amount is nil or negative
	ErrInvalidAmount = errors.New("token amount must be non-negative")

	// ErrInsufficientBalance the account does not hold enough of the token
	ErrInsufficientBalance = errors.New("insufficient token balance")
)
