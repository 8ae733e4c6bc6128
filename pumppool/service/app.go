package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/lightningnetwork/lnd/kvdb"
	"go.uber.org/zap"

	"github.com/pumpbtc-labs/pump-staking/metrics"
	"github.com/pumpbtc-labs/pump-staking/pumppool/config"
	"github.com/pumpbtc-labs/pump-staking/pumppool/ledger"
	"github.com/pumpbtc-labs/pump-staking/pumppool/store"
	"github.com/pumpbtc-labs/pump-staking/tokens"
	"github.com/pumpbtc-labs/pump-staking/types"
)

const shutdownTimeout = 5 * time.Second

// PoolApp owns the running daemon: the ledger, its stores, the HTTP
// API and the metrics endpoint.
type PoolApp struct {
	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup
	quit      chan struct{}

	cfg    *config.Config
	logger *zap.Logger

	ledger      *ledger.Ledger
	httpServer  *Server
	poolMetrics *metrics.PoolMetrics

	metricsServer *metrics.Server
}

// NewPoolAppFromConfig builds the daemon on top of an opened database
// backend and bootstraps the pool state on first start.
func NewPoolAppFromConfig(
	cfg *config.Config,
	db kvdb.Backend,
	logger *zap.Logger,
) (*PoolApp, error) {
	poolStore, err := store.NewPoolStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to open the pool store: %w", err)
	}
	if err := poolStore.Initialize(
		types.Account(cfg.Owner), types.Account(cfg.Operator), cfg.InstantUnstakeFee,
	); err != nil {
		return nil, fmt.Errorf("failed to bootstrap the pool state: %w", err)
	}

	tokenStore, err := tokens.NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("failed to open the token store: %w", err)
	}

	poolMetrics := metrics.NewPoolMetrics()

	l, err := ledger.New(
		db,
		poolStore,
		tokenStore,
		ledger.Params{
			AssetToken:     cfg.AssetToken,
			AssetDecimals:  cfg.AssetDecimals,
			LiquidityToken: cfg.LiquidityToken,
			ClaimDelay:     cfg.ClaimDelay,
		},
		clock.New(),
		logger,
		poolMetrics,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create the ledger: %w", err)
	}

	return &PoolApp{
		quit:        make(chan struct{}),
		cfg:         cfg,
		logger:      logger,
		ledger:      l,
		httpServer:  NewServer(l, logger),
		poolMetrics: poolMetrics,
	}, nil
}

// Ledger exposes the pool ledger, mainly for tests.
func (app *PoolApp) Ledger() *ledger.Ledger {
	return app.ledger
}

// Start brings up the HTTP API, the metrics endpoint and the gauge
// refresh loop.
func (app *PoolApp) Start() error {
	var startErr error

	app.startOnce.Do(func() {
		app.logger.Info("starting the pool app")

		metricsAddr, err := app.cfg.Metrics.Address()
		if err != nil {
			startErr = err
			return
		}
		app.metricsServer = metrics.Start(app.logger, metricsAddr, app.poolMetrics.Registry)

		app.httpServer.Start(app.cfg.HTTPListener)
		app.logger.Info("http api started", zap.String("address", app.cfg.HTTPListener))

		app.wg.Add(1)
		go app.metricsUpdateLoop()
	})

	return startErr
}

// Stop shuts everything down and waits for the loops to drain.
func (app *PoolApp) Stop() error {
	var stopErr error

	app.stopOnce.Do(func() {
		app.logger.Info("stopping the pool app")
		close(app.quit)
		app.wg.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.httpServer.Stop(ctx); err != nil {
			stopErr = err
		}
		if app.metricsServer != nil {
			if err := app.metricsServer.Stop(ctx); err != nil && stopErr == nil {
				stopErr = err
			}
		}
	})

	return stopErr
}

// metricsUpdateLoop refreshes the pool gauges from the state record so
// they stay current even when no operations run.
func (app *PoolApp) metricsUpdateLoop() {
	defer app.wg.Done()

	interval := app.cfg.Metrics.UpdateInterval
	app.logger.Info("starting the metrics update loop",
		zap.Float64("interval seconds", interval.Seconds()))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			state, err := app.ledger.State()
			if err != nil {
				app.logger.Error("failed to read the pool state", zap.Error(err))
				continue
			}
			app.poolMetrics.RecordPoolBalances(
				state.TotalStakingAmount,
				state.PendingStakeAmount,
				state.TotalClaimableAmount,
				state.TotalRequestedAmount,
				state.CollectedFee,
			)
		case <-app.quit:
			app.logger.Info("exiting the metrics update loop")
			return
		}
	}
}
