package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
)

// EventKind names one family of state-mutating pool operations.
type EventKind string

const (
	EventStake                    EventKind = "stake"
	EventUnstakeRequest           EventKind = "unstake_request"
	EventUnstakeInstant           EventKind = "unstake_instant"
	EventClaimSlot                EventKind = "claim_slot"
	EventClaimAll                 EventKind = "claim_all"
	EventAdminWithdraw            EventKind = "admin_withdraw"
	EventAdminDeposit             EventKind = "admin_deposit"
	EventFeeCollected             EventKind = "fee_collected"
	EventSetStakeAssetCap         EventKind = "set_stake_asset_cap"
	EventSetInstantUnstakeFee     EventKind = "set_instant_unstake_fee"
	EventSetOperator              EventKind = "set_operator"
	EventPaused                   EventKind = "paused"
	EventUnpaused                 EventKind = "unpaused"
	EventOwnershipTransferStarted EventKind = "ownership_transfer_started"
	EventOwnershipTransferred     EventKind = "ownership_transferred"
	EventAssetMinted              EventKind = "asset_minted"
)

// Event is one row of the audit journal. Every successful mutating call
// appends exactly one event (WithdrawAndDeposit appends its two
// sub-events) in the same transaction as the state change.
type Event struct {
	Seq       uint64      `json:"seq"`
	Kind      EventKind   `json:"kind"`
	Actor     Account     `json:"actor"`
	Subject   Account     `json:"subject,omitempty"`
	Amount    sdkmath.Int `json:"amount"`
	Fee       sdkmath.Int `json:"fee"`
	Slot      uint8       `json:"slot"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent returns an event with amounts initialized so it always
// marshals cleanly.
func NewEvent(kind EventKind, actor Account, ts time.Time) *Event {
	return &Event{
		Kind:      kind,
		Actor:     actor,
		Amount:    sdkmath.ZeroInt(),
		Fee:       sdkmath.ZeroInt(),
		Timestamp: ts,
	}
}

// WithAmount sets the primary amount of the event.
func (e *Event) WithAmount(amount sdkmath.Int) *Event {
	e.Amount = amount

	return e
}

// WithFee sets the fee taken by the operation.
func (e *Event) WithFee(fee sdkmath.Int) *Event {
	e.Fee = fee

	return e
}

// WithSlot sets the withdrawal queue slot the event refers to.
func (e *Event) WithSlot(slot uint8) *Event {
	e.Slot = slot

	return e
}

// WithSubject sets the secondary account of the event, e.g. the new
// operator of a set_operator event.
func (e *Event) WithSubject(subject Account) *Event {
	e.Subject = subject

	return e
}
