package store

import "errors"

var (
	// ErrCorruptedPoolDb For some reason, db on disk representation have changed
	ErrCorruptedPoolDb = errors.New("pool db is corrupted")

	// ErrPoolNotInitialized the pool state record has not been created yet
	ErrPoolNotInitialized = errors.New("pool state is not initialized")

	// ErrUnstakeRequestNotFound no unstake request stored for the account and slot
	ErrUnstakeRequestNotFound = errors.New("unstake request not found")
)
