package metrics

import (
	"math/big"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
)

type PoolMetrics struct {
	Registry             *prometheus.Registry
	totalStakingAmount   prometheus.Gauge
	pendingStakeAmount   prometheus.Gauge
	totalClaimableAmount prometheus.Gauge
	totalRequestedAmount prometheus.Gauge
	collectedFee         prometheus.Gauge
	poolOpsCounter        *prometheus.CounterVec
	poolOpFailuresCounter *prometheus.CounterVec
}

var (
	poolMetricsRegisterOnce sync.Once
	poolMetricsInstance     *PoolMetrics
)

// NewPoolMetrics returns the process-wide pool metrics instance,
// registering the collectors on first use.
func NewPoolMetrics() *PoolMetrics {
	poolMetricsRegisterOnce.Do(func() {
		registry := prometheus.NewRegistry()

		poolMetricsInstance = &PoolMetrics{
			Registry: registry,
			totalStakingAmount: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "pump_pool_total_staking_amount",
				Help: "Staked principal backing outstanding liquidity tokens",
			}),
			pendingStakeAmount: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "pump_pool_pending_stake_amount",
				Help: "Underlying asset held by the pool and not yet swept into custody",
			}),
			totalClaimableAmount: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "pump_pool_total_claimable_amount",
				Help: "Underlying asset earmarked for matured withdrawal claims",
			}),
			totalRequestedAmount: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "pump_pool_total_requested_amount",
				Help: "Outstanding delayed-withdrawal amounts not yet claimed",
			}),
			collectedFee: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "pump_pool_collected_fee",
				Help: "Accumulated instant-unstake fees not yet collected by the owner",
			}),
			poolOpsCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pump_pool_ops_total",
				Help: "Total number of successful pool operations",
			}, []string{"op"}),
			poolOpFailuresCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "pump_pool_op_failures_total",
				Help: "Total number of rejected pool operations",
			}, []string{"op"}),
		}

		registry.MustRegister(
			poolMetricsInstance.totalStakingAmount,
			poolMetricsInstance.pendingStakeAmount,
			poolMetricsInstance.totalClaimableAmount,
			poolMetricsInstance.totalRequestedAmount,
			poolMetricsInstance.collectedFee,
			poolMetricsInstance.poolOpsCounter,
			poolMetricsInstance.poolOpFailuresCounter,
		)
	})

	return poolMetricsInstance
}

// RecordPoolBalances refreshes the pool-level gauges.
func (pm *PoolMetrics) RecordPoolBalances(totalStaking, pendingStake, claimable, requested, collectedFee sdkmath.Int) {
	pm.totalStakingAmount.Set(intToFloat(totalStaking))
	pm.pendingStakeAmount.Set(intToFloat(pendingStake))
	pm.totalClaimableAmount.Set(intToFloat(claimable))
	pm.totalRequestedAmount.Set(intToFloat(requested))
	pm.collectedFee.Set(intToFloat(collectedFee))
}

// IncPoolOp counts one successful operation of the given kind.
func (pm *PoolMetrics) IncPoolOp(op string) {
	pm.poolOpsCounter.WithLabelValues(op).Inc()
}

// IncPoolOpFailure counts one rejected operation of the given kind.
func (pm *PoolMetrics) IncPoolOpFailure(op string) {
	pm.poolOpFailuresCounter.WithLabelValues(op).Inc()
}

func intToFloat(i sdkmath.Int) float64 {
	f, _ := new(big.Float).SetInt(i.BigInt()).Float64()

	return f
}
