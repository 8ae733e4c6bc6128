package ledger

import (
	"fmt"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/benbjohnson/clock"
	"github.com/lightningnetwork/lnd/kvdb"
	"go.uber.org/zap"

	"github.com/pumpbtc-labs/pump-staking/metrics"
	"github.com/pumpbtc-labs/pump-staking/pumppool/store"
	"github.com/pumpbtc-labs/pump-staking/tokens"
	"github.com/pumpbtc-labs/pump-staking/types"
)

// PoolAccount holds the asset balance the pool itself controls: stakes
// that have not been swept and deposits waiting to be claimed.
const PoolAccount = types.Account("pool")

// Params are the fixed parameters of a running pool.
type Params struct {
	// AssetToken is the underlying asset accepted for staking.
	AssetToken string
	// AssetDecimals is the precision of the underlying asset.
	AssetDecimals uint8
	// LiquidityToken is minted one-to-one against staked value.
	LiquidityToken string
	// ClaimDelay is the time between an unstake request and the moment
	// it becomes claimable.
	ClaimDelay time.Duration
}

// Ledger executes pool operations. Every mutating call runs in a single
// database transaction covering the state record, the withdrawal queue,
// the token balances and the event journal, so a failure anywhere rolls
// back everything.
type Ledger struct {
	db      kvdb.Backend
	pool    *store.PoolStore
	tokens  *tokens.Store
	params  Params
	clock   clock.Clock
	logger  *zap.Logger
	metrics *metrics.PoolMetrics
}

// New returns a ledger over the given stores and registers its tokens.
func New(
	db kvdb.Backend,
	pool *store.PoolStore,
	tokenStore *tokens.Store,
	params Params,
	clk clock.Clock,
	logger *zap.Logger,
	poolMetrics *metrics.PoolMetrics,
) (*Ledger, error) {
	if params.AssetToken == "" || params.LiquidityToken == "" {
		return nil, fmt.Errorf("ledger tokens cannot be empty")
	}
	if params.AssetToken == params.LiquidityToken {
		return nil, fmt.Errorf("asset and liquidity tokens must differ")
	}
	if params.ClaimDelay <= 0 {
		return nil, fmt.Errorf("claim delay must be positive")
	}

	for _, token := range []string{params.AssetToken, params.LiquidityToken} {
		if err := tokenStore.RegisterToken(token); err != nil {
			return nil, err
		}
	}

	return &Ledger{
		db:      db,
		pool:    pool,
		tokens:  tokenStore,
		params:  params,
		clock:   clk,
		logger:  logger,
		metrics: poolMetrics,
	}, nil
}

// Params returns the fixed parameters of the pool.
func (l *Ledger) Params() Params {
	return l.params
}

// Stake locks amount of the underlying asset and mints the equivalent
// liquidity tokens to the staker. The amount is denominated in asset
// units.
func (l *Ledger) Stake(actor types.Account, amount sdkmath.Int) error {
	return l.mutate("stake", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardNotPaused(state); err != nil {
			return nil, err
		}
		if err := validAmount(amount); err != nil {
			return nil, err
		}

		normalized := l.toLiquidity(amount)
		newTotal := state.TotalStakingAmount.Add(normalized)
		if newTotal.GT(state.TotalStakingCap) {
			return nil, types.ErrStakingCapExceeded.Wrapf(
				"staking %s would bring the total to %s over the cap %s",
				normalized, newTotal, state.TotalStakingCap)
		}

		if err := tokens.TransferTx(tx, l.params.AssetToken, actor, PoolAccount, amount); err != nil {
			return nil, err
		}
		if err := tokens.MintTx(tx, l.params.LiquidityToken, actor, normalized); err != nil {
			return nil, err
		}

		state.TotalStakingAmount = newTotal
		state.PendingStakeAmount = state.PendingStakeAmount.Add(normalized)

		ev := types.NewEvent(types.EventStake, actor, l.now()).WithAmount(amount)

		return []*types.Event{ev}, nil
	})
}

// UnstakeInstant burns amount of liquidity tokens and returns the
// underlying asset immediately, minus the instant-unstake fee. Only
// asset still sitting in the pool, i.e. the pending stake, can leave
// this way.
func (l *Ledger) UnstakeInstant(actor types.Account, amount sdkmath.Int) error {
	return l.mutate("unstake_instant", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardNotPaused(state); err != nil {
			return nil, err
		}
		if err := validAmount(amount); err != nil {
			return nil, err
		}
		if amount.GT(state.PendingStakeAmount) {
			return nil, types.ErrInsufficientPendingStake.Wrapf(
				"requested %s with %s pending", amount, state.PendingStakeAmount)
		}

		fee := types.FeeFor(amount, state.InstantUnstakeFee)

		if err := tokens.BurnTx(tx, l.params.LiquidityToken, actor, amount); err != nil {
			return nil, err
		}
		payout := l.toAsset(amount.Sub(fee))
		if err := tokens.TransferTx(tx, l.params.AssetToken, PoolAccount, actor, payout); err != nil {
			return nil, err
		}

		state.TotalStakingAmount = state.TotalStakingAmount.Sub(amount)
		state.PendingStakeAmount = state.PendingStakeAmount.Sub(amount)
		state.CollectedFee = state.CollectedFee.Add(fee)

		ev := types.NewEvent(types.EventUnstakeInstant, actor, l.now()).
			WithAmount(amount).
			WithFee(fee)

		return []*types.Event{ev}, nil
	})
}

// UnstakeRequest burns amount of liquidity tokens and queues the value
// for delayed withdrawal in today's date slot. A slot still holding an
// unclaimed request must be claimed first, including the aliasing case
// where the ring wraps back onto a request from ten days earlier.
func (l *Ledger) UnstakeRequest(actor types.Account, amount sdkmath.Int) (uint8, error) {
	var slot uint8

	err := l.mutate("unstake_request", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardNotPaused(state); err != nil {
			return nil, err
		}
		if err := validAmount(amount); err != nil {
			return nil, err
		}

		now := l.now()
		slot = types.DateSlot(now)

		req, err := store.GetUnstakeRequestTx(tx, actor, slot)
		if err != nil {
			return nil, err
		}
		if req != nil {
			return nil, types.ErrPendingUnstakeExists.Wrapf("slot %d", slot)
		}

		if err := tokens.BurnTx(tx, l.params.LiquidityToken, actor, amount); err != nil {
			return nil, err
		}

		err = store.PutUnstakeRequestTx(tx, actor, slot, &store.StoredUnstakeRequest{
			Amount:        amount,
			ClaimableTime: now.Add(l.params.ClaimDelay),
		})
		if err != nil {
			return nil, err
		}

		state.TotalStakingAmount = state.TotalStakingAmount.Sub(amount)
		state.TotalRequestedAmount = state.TotalRequestedAmount.Add(amount)

		ev := types.NewEvent(types.EventUnstakeRequest, actor, now).
			WithAmount(amount).
			WithSlot(slot)

		return []*types.Event{ev}, nil
	})

	return slot, err
}

// ClaimSlot pays out the matured unstake request the account holds in
// the given slot.
func (l *Ledger) ClaimSlot(actor types.Account, slot uint8) (sdkmath.Int, error) {
	claimed := sdkmath.ZeroInt()

	err := l.mutate("claim_slot", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardNotPaused(state); err != nil {
			return nil, err
		}
		if !types.ValidSlot(slot) {
			return nil, types.ErrInvalidSlot.Wrapf("slot %d", slot)
		}

		req, err := store.GetUnstakeRequestTx(tx, actor, slot)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, types.ErrNoPendingUnstake.Wrapf("slot %d", slot)
		}

		now := l.now()
		if now.Before(req.ClaimableTime) {
			return nil, types.ErrNotClaimableYet.Wrapf(
				"slot %d claimable at %s", slot, req.ClaimableTime)
		}

		if err := l.settleClaim(tx, state, actor, req.Amount); err != nil {
			return nil, err
		}
		if err := store.DeleteUnstakeRequestTx(tx, actor, slot); err != nil {
			return nil, err
		}

		claimed = req.Amount
		ev := types.NewEvent(types.EventClaimSlot, actor, now).
			WithAmount(req.Amount).
			WithSlot(slot)

		return []*types.Event{ev}, nil
	})

	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	return claimed, nil
}

// ClaimAll pays out every matured unstake request of the account in one
// go, leaving the immature ones queued.
func (l *Ledger) ClaimAll(actor types.Account) (sdkmath.Int, error) {
	claimed := sdkmath.ZeroInt()

	err := l.mutate("claim_all", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		claimed = sdkmath.ZeroInt()

		if err := guardNotPaused(state); err != nil {
			return nil, err
		}

		now := l.now()
		pending := false

		for slot := uint8(0); slot < types.NumDateSlots; slot++ {
			req, err := store.GetUnstakeRequestTx(tx, actor, slot)
			if err != nil {
				return nil, err
			}
			if req == nil {
				continue
			}
			pending = true

			if now.Before(req.ClaimableTime) {
				continue
			}

			claimed = claimed.Add(req.Amount)
			if err := store.DeleteUnstakeRequestTx(tx, actor, slot); err != nil {
				return nil, err
			}
		}

		if !pending {
			return nil, types.ErrNoPendingUnstake
		}
		if claimed.IsZero() {
			return nil, types.ErrNotClaimableYet
		}

		if err := l.settleClaim(tx, state, actor, claimed); err != nil {
			return nil, err
		}

		ev := types.NewEvent(types.EventClaimAll, actor, now).WithAmount(claimed)

		return []*types.Event{ev}, nil
	})

	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	return claimed, nil
}

// settleClaim moves the asset for a matured claim out of the pool and
// books it against the claimable totals.
func (l *Ledger) settleClaim(tx kvdb.RwTx, state *store.StoredPoolState, actor types.Account, amount sdkmath.Int) error {
	if state.TotalClaimableAmount.LT(amount) {
		return types.ErrInsufficientClaimable.Wrapf(
			"claiming %s with %s funded", amount, state.TotalClaimableAmount)
	}

	if err := tokens.TransferTx(tx, l.params.AssetToken, PoolAccount, actor, l.toAsset(amount)); err != nil {
		return err
	}

	state.TotalRequestedAmount = state.TotalRequestedAmount.Sub(amount)
	state.TotalClaimableAmount = state.TotalClaimableAmount.Sub(amount)

	return nil
}

// Withdraw sweeps the entire pending stake to the operator's custody
// account. Sweeping an empty pool is a no-op that still journals.
func (l *Ledger) Withdraw(actor types.Account) (sdkmath.Int, error) {
	swept := sdkmath.ZeroInt()

	err := l.mutate("admin_withdraw", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardNotPaused(state); err != nil {
			return nil, err
		}
		if err := guardOperator(state, actor); err != nil {
			return nil, err
		}

		ev, err := l.sweepTx(tx, state, actor)
		if err != nil {
			return nil, err
		}
		swept = ev.Amount

		return []*types.Event{ev}, nil
	})

	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	return swept, nil
}

// Deposit moves asset from the operator back into the pool to fund
// matured withdrawal claims.
func (l *Ledger) Deposit(actor types.Account, amount sdkmath.Int) error {
	return l.mutate("admin_deposit", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardNotPaused(state); err != nil {
			return nil, err
		}
		if err := guardOperator(state, actor); err != nil {
			return nil, err
		}
		if err := validAmount(amount); err != nil {
			return nil, err
		}

		ev, err := l.depositTx(tx, state, actor, amount)
		if err != nil {
			return nil, err
		}

		return []*types.Event{ev}, nil
	})
}

// WithdrawAndDeposit combines a sweep of the pending stake with a
// deposit funding claims, settling only the net asset difference with
// the operator.
func (l *Ledger) WithdrawAndDeposit(actor types.Account, depositAmount sdkmath.Int) (sdkmath.Int, error) {
	swept := sdkmath.ZeroInt()

	err := l.mutate("admin_withdraw_deposit", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardNotPaused(state); err != nil {
			return nil, err
		}
		if err := guardOperator(state, actor); err != nil {
			return nil, err
		}
		if depositAmount.IsNil() || depositAmount.IsNegative() {
			return nil, types.ErrZeroAmount
		}

		pending := state.PendingStakeAmount

		// Settle the net difference so custody and pool exchange the
		// asset only once.
		net := pending.Sub(depositAmount)
		switch {
		case net.IsPositive():
			if err := tokens.TransferTx(tx, l.params.AssetToken, PoolAccount, actor, l.toAsset(net)); err != nil {
				return nil, err
			}
		case net.IsNegative():
			if err := tokens.TransferTx(tx, l.params.AssetToken, actor, PoolAccount, l.toAsset(net.Neg())); err != nil {
				return nil, err
			}
		}

		state.PendingStakeAmount = sdkmath.ZeroInt()
		state.TotalClaimableAmount = state.TotalClaimableAmount.Add(depositAmount)

		now := l.now()
		withdrawEv := types.NewEvent(types.EventAdminWithdraw, actor, now).WithAmount(pending)
		depositEv := types.NewEvent(types.EventAdminDeposit, actor, now).WithAmount(depositAmount)
		swept = pending

		return []*types.Event{withdrawEv, depositEv}, nil
	})

	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	return swept, nil
}

func (l *Ledger) sweepTx(tx kvdb.RwTx, state *store.StoredPoolState, actor types.Account) (*types.Event, error) {
	amount := state.PendingStakeAmount

	if amount.IsPositive() {
		if err := tokens.TransferTx(tx, l.params.AssetToken, PoolAccount, actor, l.toAsset(amount)); err != nil {
			return nil, err
		}
	}
	state.PendingStakeAmount = sdkmath.ZeroInt()

	return types.NewEvent(types.EventAdminWithdraw, actor, l.now()).WithAmount(amount), nil
}

func (l *Ledger) depositTx(tx kvdb.RwTx, state *store.StoredPoolState, actor types.Account, amount sdkmath.Int) (*types.Event, error) {
	if err := tokens.TransferTx(tx, l.params.AssetToken, actor, PoolAccount, l.toAsset(amount)); err != nil {
		return nil, err
	}
	state.TotalClaimableAmount = state.TotalClaimableAmount.Add(amount)

	return types.NewEvent(types.EventAdminDeposit, actor, l.now()).WithAmount(amount), nil
}

// CollectFee pays the accumulated instant-unstake fees out to the
// owner. It stays available while the pool is paused.
func (l *Ledger) CollectFee(actor types.Account) (sdkmath.Int, error) {
	collected := sdkmath.ZeroInt()

	err := l.mutate("collect_fee", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardOwner(state, actor); err != nil {
			return nil, err
		}

		fee := state.CollectedFee
		if fee.IsPositive() {
			if err := tokens.TransferTx(tx, l.params.AssetToken, PoolAccount, actor, l.toAsset(fee)); err != nil {
				return nil, err
			}
		}
		state.CollectedFee = sdkmath.ZeroInt()
		collected = fee

		ev := types.NewEvent(types.EventFeeCollected, actor, l.now()).WithAmount(fee)

		return []*types.Event{ev}, nil
	})

	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	return collected, nil
}

// SetStakeAssetCap sets the maximum total staking amount, denominated
// in liquidity units.
func (l *Ledger) SetStakeAssetCap(actor types.Account, newCap sdkmath.Int) error {
	return l.mutate("set_stake_asset_cap", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardOwner(state, actor); err != nil {
			return nil, err
		}
		if newCap.IsNil() || newCap.IsNegative() {
			return nil, types.ErrZeroAmount.Wrap("cap cannot be negative")
		}

		state.TotalStakingCap = newCap
		ev := types.NewEvent(types.EventSetStakeAssetCap, actor, l.now()).WithAmount(newCap)

		return []*types.Event{ev}, nil
	})
}

// SetInstantUnstakeFee sets the fee charged on instant unstakes, in
// basis points.
func (l *Ledger) SetInstantUnstakeFee(actor types.Account, feeRateBps uint32) error {
	return l.mutate("set_instant_unstake_fee", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardOwner(state, actor); err != nil {
			return nil, err
		}
		if !types.ValidFeeRate(feeRateBps) {
			return nil, types.ErrInvalidFeeRate.Wrapf(
				"%d exceeds %d basis points", feeRateBps, types.MaxInstantUnstakeFee)
		}

		state.InstantUnstakeFee = feeRateBps
		ev := types.NewEvent(types.EventSetInstantUnstakeFee, actor, l.now()).
			WithAmount(sdkmath.NewInt(int64(feeRateBps)))

		return []*types.Event{ev}, nil
	})
}

// SetOperator replaces the custodian operator account.
func (l *Ledger) SetOperator(actor, newOperator types.Account) error {
	return l.mutate("set_operator", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardOwner(state, actor); err != nil {
			return nil, err
		}
		if newOperator.IsEmpty() {
			return nil, types.ErrInvalidAccount.Wrap("operator cannot be empty")
		}

		state.Operator = newOperator
		ev := types.NewEvent(types.EventSetOperator, actor, l.now()).WithSubject(newOperator)

		return []*types.Event{ev}, nil
	})
}

// Pause stops user-facing operations. Admin operations stay available.
func (l *Ledger) Pause(actor types.Account) error {
	return l.mutate("pause", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardOwner(state, actor); err != nil {
			return nil, err
		}
		if state.Paused {
			return nil, types.ErrPaused
		}

		state.Paused = true
		ev := types.NewEvent(types.EventPaused, actor, l.now())

		return []*types.Event{ev}, nil
	})
}

// Unpause resumes user-facing operations.
func (l *Ledger) Unpause(actor types.Account) error {
	return l.mutate("unpause", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardOwner(state, actor); err != nil {
			return nil, err
		}
		if !state.Paused {
			return nil, types.ErrNotPaused
		}

		state.Paused = false
		ev := types.NewEvent(types.EventUnpaused, actor, l.now())

		return []*types.Event{ev}, nil
	})
}

// TransferOwnership starts a two-step ownership handover. The current
// owner keeps full control until the new owner accepts.
func (l *Ledger) TransferOwnership(actor, newOwner types.Account) error {
	return l.mutate("transfer_ownership", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardOwner(state, actor); err != nil {
			return nil, err
		}
		if newOwner.IsEmpty() {
			return nil, types.ErrInvalidAccount.Wrap("new owner cannot be empty")
		}

		state.PendingOwner = newOwner
		ev := types.NewEvent(types.EventOwnershipTransferStarted, actor, l.now()).WithSubject(newOwner)

		return []*types.Event{ev}, nil
	})
}

// AcceptOwnership completes a pending ownership handover.
func (l *Ledger) AcceptOwnership(actor types.Account) error {
	return l.mutate("accept_ownership", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if state.PendingOwner.IsEmpty() || actor != state.PendingOwner {
			return nil, types.ErrNotPendingOwner.Wrapf("caller %s", actor)
		}

		previous := state.Owner
		state.Owner = actor
		state.PendingOwner = ""
		ev := types.NewEvent(types.EventOwnershipTransferred, actor, l.now()).WithSubject(previous)

		return []*types.Event{ev}, nil
	})
}

// MintAsset credits the underlying asset to an account. It exists so a
// deployment without an external asset bridge can fund stakers, and is
// restricted to the owner.
func (l *Ledger) MintAsset(actor, to types.Account, amount sdkmath.Int) error {
	return l.mutate("mint_asset", func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error) {
		if err := guardOwner(state, actor); err != nil {
			return nil, err
		}
		if err := validAmount(amount); err != nil {
			return nil, err
		}

		if err := tokens.MintTx(tx, l.params.AssetToken, to, amount); err != nil {
			return nil, err
		}

		ev := types.NewEvent(types.EventAssetMinted, actor, l.now()).
			WithAmount(amount).
			WithSubject(to)

		return []*types.Event{ev}, nil
	})
}

// CurrentSlot returns the date slot new unstake requests land in.
func (l *Ledger) CurrentSlot() uint8 {
	return types.DateSlot(l.now())
}

// State returns the current pool state record.
func (l *Ledger) State() (*store.StoredPoolState, error) {
	return l.pool.GetPoolState()
}

// PendingUnstake returns the unstake request of the account in the
// given slot.
func (l *Ledger) PendingUnstake(acct types.Account, slot uint8) (*store.StoredUnstakeRequest, error) {
	if !types.ValidSlot(slot) {
		return nil, types.ErrInvalidSlot.Wrapf("slot %d", slot)
	}

	return l.pool.GetUnstakeRequest(acct, slot)
}

// PendingUnstakes returns all unstake requests of the account by slot.
func (l *Ledger) PendingUnstakes(acct types.Account) (map[uint8]*store.StoredUnstakeRequest, error) {
	return l.pool.ListUnstakeRequests(acct)
}

// Events returns journal events starting at fromSeq, up to limit.
func (l *Ledger) Events(fromSeq uint64, limit int) ([]*types.Event, error) {
	return l.pool.ListEvents(fromSeq, limit)
}

// BalanceOf returns the balance an account holds in one of the pool's
// tokens.
func (l *Ledger) BalanceOf(token string, acct types.Account) (sdkmath.Int, error) {
	if token != l.params.AssetToken && token != l.params.LiquidityToken {
		return sdkmath.ZeroInt(), tokens.ErrUnknownToken
	}

	return l.tokens.BalanceOf(token, acct)
}

// mutate runs one pool operation in a single database transaction: it
// loads the state record, lets fn change it alongside queue and token
// buckets, persists it and journals the returned events. Any error
// aborts the whole transaction.
func (l *Ledger) mutate(op string, fn func(tx kvdb.RwTx, state *store.StoredPoolState) ([]*types.Event, error)) error {
	var final *store.StoredPoolState

	err := kvdb.Batch(l.db, func(tx kvdb.RwTx) error {
		final = nil

		state, err := store.GetPoolStateTx(tx)
		if err != nil {
			return err
		}
		if state == nil {
			return store.ErrPoolNotInitialized
		}

		events, err := fn(tx, state)
		if err != nil {
			return err
		}

		if err := store.PutPoolStateTx(tx, state); err != nil {
			return err
		}

		for _, ev := range events {
			if _, err := store.AppendEventTx(tx, ev); err != nil {
				return err
			}
		}

		final = state

		return nil
	})

	if err != nil {
		l.metrics.IncPoolOpFailure(op)
		l.logger.Debug("pool operation rejected", zap.String("op", op), zap.Error(err))

		return err
	}

	l.metrics.IncPoolOp(op)
	l.metrics.RecordPoolBalances(
		final.TotalStakingAmount,
		final.PendingStakeAmount,
		final.TotalClaimableAmount,
		final.TotalRequestedAmount,
		final.CollectedFee,
	)
	l.logger.Info("pool operation applied",
		zap.String("op", op),
		zap.String("total_staking", final.TotalStakingAmount.String()),
		zap.String("pending_stake", final.PendingStakeAmount.String()),
		zap.String("claimable", final.TotalClaimableAmount.String()),
	)

	return nil
}

func (l *Ledger) now() time.Time {
	return l.clock.Now().UTC()
}

func (l *Ledger) toAsset(amount sdkmath.Int) sdkmath.Int {
	return types.AdjustAmount(amount, types.LiquidityTokenDecimals, l.params.AssetDecimals)
}

func (l *Ledger) toLiquidity(amount sdkmath.Int) sdkmath.Int {
	return types.AdjustAmount(amount, l.params.AssetDecimals, types.LiquidityTokenDecimals)
}

func validAmount(amount sdkmath.Int) error {
	if amount.IsNil() || !amount.IsPositive() {
		return types.ErrZeroAmount
	}

	return nil
}

func guardNotPaused(state *store.StoredPoolState) error {
	if state.Paused {
		return types.ErrPaused
	}

	return nil
}

func guardOwner(state *store.StoredPoolState, actor types.Account) error {
	if actor != state.Owner {
		return types.ErrUnauthorized.Wrapf("caller %s is not the owner", actor)
	}

	return nil
}

func guardOperator(state *store.StoredPoolState, actor types.Account) error {
	if actor != state.Operator {
		return types.ErrUnauthorized.Wrapf("caller %s is not the operator", actor)
	}

	return nil
}
