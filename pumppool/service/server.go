package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/labstack/echo/v4"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/pumpbtc-labs/pump-staking/pumppool/ledger"
	"github.com/pumpbtc-labs/pump-staking/pumppool/store"
	"github.com/pumpbtc-labs/pump-staking/tokens"
	"github.com/pumpbtc-labs/pump-staking/types"
	"github.com/pumpbtc-labs/pump-staking/version"
)

// AccountHeader carries the acting account of a request. The daemon
// trusts its deployment environment to authenticate callers before
// they reach this API.
const AccountHeader = "X-Pool-Account"

// Server exposes the pool ledger over HTTP.
type Server struct {
	started *atomic.Bool

	e      *echo.Echo
	ledger *ledger.Ledger
	logger *zap.Logger
}

// NewServer wires the ledger into an echo instance.
func NewServer(l *ledger.Ledger, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{started: atomic.NewBool(false), e: e, ledger: l, logger: logger}

	g := e.Group("/v1/")

	g.GET("status", s.getStatus)
	g.GET("pool", s.getPool)
	g.GET("slot", s.getSlot)
	g.GET("unstakes/:account", s.getUnstakes)
	g.GET("balances/:account", s.getBalances)
	g.GET("events", s.getEvents)

	g.POST("stake", s.postStake)
	g.POST("unstake-instant", s.postUnstakeInstant)
	g.POST("unstake-request", s.postUnstakeRequest)
	g.POST("claim/:slot", s.postClaimSlot)
	g.POST("claim", s.postClaimAll)

	admin := g.Group("admin/")
	admin.POST("withdraw", s.postWithdraw)
	admin.POST("deposit", s.postDeposit)
	admin.POST("withdraw-and-deposit", s.postWithdrawAndDeposit)
	admin.POST("collect-fee", s.postCollectFee)
	admin.POST("cap", s.postSetCap)
	admin.POST("fee", s.postSetFee)
	admin.POST("operator", s.postSetOperator)
	admin.POST("pause", s.postPause)
	admin.POST("unpause", s.postUnpause)
	admin.POST("transfer-ownership", s.postTransferOwnership)
	admin.POST("accept-ownership", s.postAcceptOwnership)
	admin.POST("mint", s.postMintAsset)

	return s
}

// Start serves the API on addr until Stop is called. Subsequent calls
// are no-ops.
func (s *Server) Start(addr string) {
	if s.started.Swap(true) {
		return
	}

	go func() {
		if err := s.e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed", zap.Error(err))
		}
	}()
}

// Stop shuts the API down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.e
}

type amountRequest struct {
	Amount string `json:"amount"`
}

type accountRequest struct {
	Account string `json:"account"`
}

type mintRequest struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

type feeRequest struct {
	FeeRateBps uint32 `json:"fee_rate_bps"`
}

type poolStateResponse struct {
	Owner                types.Account `json:"owner"`
	PendingOwner         types.Account `json:"pending_owner,omitempty"`
	Operator             types.Account `json:"operator"`
	Paused               bool          `json:"paused"`
	InstantUnstakeFee    uint32        `json:"instant_unstake_fee"`
	TotalStakingCap      string        `json:"total_staking_cap"`
	TotalStakingAmount   string        `json:"total_staking_amount"`
	PendingStakeAmount   string        `json:"pending_stake_amount"`
	TotalClaimableAmount string        `json:"total_claimable_amount"`
	TotalRequestedAmount string        `json:"total_requested_amount"`
	CollectedFee         string        `json:"collected_fee"`
}

type unstakeResponse struct {
	Slot          uint8  `json:"slot"`
	Amount        string `json:"amount"`
	ClaimableTime string `json:"claimable_time"`
}

func (s *Server) getStatus(ctx echo.Context) error {
	state, err := s.ledger.State()
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, struct {
		Version string `json:"version"`
		Paused  bool   `json:"paused"`
	}{Version: version.Version(), Paused: state.Paused})
}

func (s *Server) getPool(ctx echo.Context) error {
	state, err := s.ledger.State()
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, poolStateView(state))
}

func (s *Server) getSlot(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, struct {
		Slot uint8 `json:"slot"`
	}{Slot: s.ledger.CurrentSlot()})
}

func (s *Server) getUnstakes(ctx echo.Context) error {
	acct := types.Account(ctx.Param("account"))

	reqs, err := s.ledger.PendingUnstakes(acct)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp := make([]unstakeResponse, 0, len(reqs))
	for slot := uint8(0); slot < types.NumDateSlots; slot++ {
		req, ok := reqs[slot]
		if !ok {
			continue
		}
		resp = append(resp, unstakeResponse{
			Slot:          slot,
			Amount:        req.Amount.String(),
			ClaimableTime: req.ClaimableTime.Format(time.RFC3339),
		})
	}

	return ctx.JSON(http.StatusOK, resp)
}

func (s *Server) getBalances(ctx echo.Context) error {
	acct := types.Account(ctx.Param("account"))
	params := s.ledger.Params()

	asset, err := s.ledger.BalanceOf(params.AssetToken, acct)
	if err != nil {
		return s.fail(ctx, err)
	}
	liquidity, err := s.ledger.BalanceOf(params.LiquidityToken, acct)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, map[string]string{
		params.AssetToken:     asset.String(),
		params.LiquidityToken: liquidity.String(),
	})
}

func (s *Server) getEvents(ctx echo.Context) error {
	var query struct {
		From  uint64 `query:"from"`
		Limit int    `query:"limit"`
	}
	if err := ctx.Bind(&query); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	events, err := s.ledger.Events(query.From, query.Limit)
	if err != nil {
		return s.fail(ctx, err)
	}
	if events == nil {
		events = []*types.Event{}
	}

	return ctx.JSON(http.StatusOK, events)
}

func (s *Server) postStake(ctx echo.Context) error {
	actor, amount, err := s.actorAndAmount(ctx)
	if err != nil {
		return err
	}

	if err := s.ledger.Stake(actor, amount); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postUnstakeInstant(ctx echo.Context) error {
	actor, amount, err := s.actorAndAmount(ctx)
	if err != nil {
		return err
	}

	if err := s.ledger.UnstakeInstant(actor, amount); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postUnstakeRequest(ctx echo.Context) error {
	actor, amount, err := s.actorAndAmount(ctx)
	if err != nil {
		return err
	}

	slot, err := s.ledger.UnstakeRequest(actor, amount)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, struct {
		Slot uint8 `json:"slot"`
	}{Slot: slot})
}

func (s *Server) postClaimSlot(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	var slot uint8
	if err := echo.PathParamsBinder(ctx).Uint8("slot", &slot).BindError(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid slot")
	}

	claimed, err := s.ledger.ClaimSlot(actor, slot)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, struct {
		Claimed string `json:"claimed"`
	}{Claimed: claimed.String()})
}

func (s *Server) postClaimAll(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	claimed, err := s.ledger.ClaimAll(actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, struct {
		Claimed string `json:"claimed"`
	}{Claimed: claimed.String()})
}

func (s *Server) postWithdraw(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	swept, err := s.ledger.Withdraw(actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, struct {
		Swept string `json:"swept"`
	}{Swept: swept.String()})
}

func (s *Server) postDeposit(ctx echo.Context) error {
	actor, amount, err := s.actorAndAmount(ctx)
	if err != nil {
		return err
	}

	if err := s.ledger.Deposit(actor, amount); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postWithdrawAndDeposit(ctx echo.Context) error {
	actor, amount, err := s.actorAndAmount(ctx)
	if err != nil {
		return err
	}

	swept, err := s.ledger.WithdrawAndDeposit(actor, amount)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, struct {
		Swept string `json:"swept"`
	}{Swept: swept.String()})
}

func (s *Server) postCollectFee(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	collected, err := s.ledger.CollectFee(actor)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, struct {
		Collected string `json:"collected"`
	}{Collected: collected.String()})
}

func (s *Server) postSetCap(ctx echo.Context) error {
	actor, amount, err := s.actorAndAmount(ctx)
	if err != nil {
		return err
	}

	if err := s.ledger.SetStakeAssetCap(actor, amount); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postSetFee(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	var req feeRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := s.ledger.SetInstantUnstakeFee(actor, req.FeeRateBps); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postSetOperator(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	var req accountRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := s.ledger.SetOperator(actor, types.Account(req.Account)); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postPause(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	if err := s.ledger.Pause(actor); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postUnpause(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	if err := s.ledger.Unpause(actor); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postTransferOwnership(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	var req accountRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := s.ledger.TransferOwnership(actor, types.Account(req.Account)); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postAcceptOwnership(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	if err := s.ledger.AcceptOwnership(actor); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) postMintAsset(ctx echo.Context) error {
	actor, err := s.actor(ctx)
	if err != nil {
		return err
	}

	var req mintRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	if err := s.ledger.MintAsset(actor, types.Account(req.Account), amount); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondPool(ctx)
}

func (s *Server) actor(ctx echo.Context) (types.Account, error) {
	acct := types.Account(ctx.Request().Header.Get(AccountHeader))
	if acct.IsEmpty() {
		return "", echo.NewHTTPError(http.StatusBadRequest,
			"missing "+AccountHeader+" header")
	}

	return acct, nil
}

func (s *Server) actorAndAmount(ctx echo.Context) (types.Account, sdkmath.Int, error) {
	actor, err := s.actor(ctx)
	if err != nil {
		return "", sdkmath.ZeroInt(), err
	}

	var req amountRequest
	if err := ctx.Bind(&req); err != nil {
		return "", sdkmath.ZeroInt(), echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	amount, ok := sdkmath.NewIntFromString(req.Amount)
	if !ok {
		return "", sdkmath.ZeroInt(), echo.NewHTTPError(http.StatusBadRequest, "invalid amount")
	}

	return actor, amount, nil
}

func (s *Server) respondPool(ctx echo.Context) error {
	state, err := s.ledger.State()
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, poolStateView(state))
}

// fail maps ledger errors onto HTTP statuses.
func (s *Server) fail(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, types.ErrUnauthorized), errors.Is(err, types.ErrNotPendingOwner):
		status = http.StatusForbidden
	case errors.Is(err, types.ErrNoPendingUnstake),
		errors.Is(err, store.ErrUnstakeRequestNotFound):
		status = http.StatusNotFound
	case errors.Is(err, types.ErrPendingUnstakeExists):
		status = http.StatusConflict
	case errors.Is(err, types.ErrNotClaimableYet):
		status = http.StatusTooEarly
	case errors.Is(err, types.ErrPaused), errors.Is(err, types.ErrNotPaused):
		status = http.StatusLocked
	case errors.Is(err, types.ErrZeroAmount),
		errors.Is(err, types.ErrStakingCapExceeded),
		errors.Is(err, types.ErrInsufficientPendingStake),
		errors.Is(err, types.ErrInsufficientClaimable),
		errors.Is(err, types.ErrInvalidFeeRate),
		errors.Is(err, types.ErrInvalidSlot),
		errors.Is(err, types.ErrInvalidAccount),
		errors.Is(err, tokens.ErrInsufficientBalance),
		errors.Is(err, tokens.ErrInvalidAmount),
		errors.Is(err, tokens.ErrUnknownToken):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrPoolNotInitialized):
		status = http.StatusServiceUnavailable
	}

	return echo.NewHTTPError(status, err.Error())
}

func poolStateView(state *store.StoredPoolState) poolStateResponse {
	return poolStateResponse{
		Owner:                state.Owner,
		PendingOwner:         state.PendingOwner,
		Operator:             state.Operator,
		Paused:               state.Paused,
		InstantUnstakeFee:    state.InstantUnstakeFee,
		TotalStakingCap:      state.TotalStakingCap.String(),
		TotalStakingAmount:   state.TotalStakingAmount.String(),
		PendingStakeAmount:   state.PendingStakeAmount.String(),
		TotalClaimableAmount: state.TotalClaimableAmount.String(),
		TotalRequestedAmount: state.TotalRequestedAmount.String(),
		CollectedFee:         state.CollectedFee.String(),
	}
}
