package types

import (
	errorsmod "cosmossdk.io/errors"
)

const codespace = "pumppool"

// Errors returned by pool operations. Every failed operation leaves the
// ledger unchanged; callers distinguish failure classes with errors.Is.
var (
	// ErrUnauthorized rejects a caller that lacks the owner or operator role.
	ErrUnauthorized = errorsmod.Register(codespace, 2, "caller is not authorized")

	// ErrPaused rejects user and custody operations while the pool is paused.
	ErrPaused = errorsmod.Register(codespace, 3, "pool is paused")

	// ErrNotPaused rejects unpausing a pool that is not paused.
	ErrNotPaused = errorsmod.Register(codespace, 4, "pool is not paused")

	// ErrNotPendingOwner rejects an ownership acceptance by anyone other
	// than the designated candidate.
	ErrNotPendingOwner = errorsmod.Register(codespace, 5, "caller is not the pending owner")

	// ErrZeroAmount rejects a non-positive amount.
	ErrZeroAmount = errorsmod.Register(codespace, 6, "amount should be greater than 0")

	// ErrStakingCapExceeded rejects a stake that would push the staked
	// principal above the cap.
	ErrStakingCapExceeded = errorsmod.Register(codespace, 7, "exceed staking cap")

	// ErrInsufficientPendingStake rejects an instant unstake larger than
	// the un-swept pool liquidity.
	ErrInsufficientPendingStake = errorsmod.Register(codespace, 8, "insufficient pending stake amount")

	// ErrInsufficientClaimable rejects a claim payout that the operator
	// has not yet funded.
	ErrInsufficientClaimable = errorsmod.Register(codespace, 9, "insufficient claimable amount")

	// ErrInvalidFeeRate rejects a fee rate above 10000 bps.
	ErrInvalidFeeRate = errorsmod.Register(codespace, 10, "invalid instant unstake fee rate")

	// ErrInvalidSlot rejects a slot index outside the ring buffer.
	ErrInvalidSlot = errorsmod.Register(codespace, 11, "invalid date slot")

	// ErrInvalidAccount rejects an empty or malformed account.
	ErrInvalidAccount = errorsmod.Register(codespace, 12, "invalid account")

	// ErrPendingUnstakeExists rejects a request whose slot already holds
	// an unclaimed request from the same account.
	ErrPendingUnstakeExists = errorsmod.Register(codespace, 13, "claim the previous unstake first")

	// ErrNotClaimableYet rejects a claim before the request has matured.
	ErrNotClaimableYet = errorsmod.Register(codespace, 14, "haven't reached the claimable time")

	// ErrNoPendingUnstake rejects a claim when no request is queued.
	ErrNoPendingUnstake = errorsmod.Register(codespace, 15, "no pending unstake")
)
