package service_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"

	"github.com/pumpbtc-labs/pump-staking/metrics"
	"github.com/pumpbtc-labs/pump-staking/pumppool/config"
	"github.com/pumpbtc-labs/pump-staking/pumppool/ledger"
	"github.com/pumpbtc-labs/pump-staking/pumppool/service"
	"github.com/pumpbtc-labs/pump-staking/pumppool/store"
	"github.com/pumpbtc-labs/pump-staking/testutil"
	"github.com/pumpbtc-labs/pump-staking/tokens"
	"github.com/pumpbtc-labs/pump-staking/types"
)

const oneBTC = int64(100_000_000)

type testAPI struct {
	srv *httptest.Server
	clk *clock.Mock
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	cfg := config.DefaultDBConfigWithHomePath(t.TempDir())
	dbBackend, err := cfg.GetDBBackend()
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, dbBackend.Close()) })

	poolStore, err := store.NewPoolStore(dbBackend)
	require.NoError(t, err)
	require.NoError(t, poolStore.Initialize("owner", "operator", 300))

	tokenStore, err := tokens.NewStore(dbBackend)
	require.NoError(t, err)

	clk := clock.NewMock()
	clk.Set(time.Unix(1_700_000_000, 0))

	logger := testutil.GetTestLogger(t)
	l, err := ledger.New(
		dbBackend,
		poolStore,
		tokenStore,
		ledger.Params{
			AssetToken:     "wbtc",
			AssetDecimals:  8,
			LiquidityToken: "pumpbtc",
			ClaimDelay:     8 * 24 * time.Hour,
		},
		clk,
		logger,
		metrics.NewPoolMetrics(),
	)
	require.NoError(t, err)

	require.NoError(t, l.SetStakeAssetCap("owner", sdkmath.NewInt(100*oneBTC)))
	require.NoError(t, l.MintAsset("owner", "user1", sdkmath.NewInt(10*oneBTC)))

	srv := httptest.NewServer(service.NewServer(l, logger).Handler())
	t.Cleanup(srv.Close)

	return &testAPI{srv: srv, clk: clk}
}

func (a *testAPI) do(t *testing.T, method, path, actor string, body any) (*http.Response, []byte) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, a.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if actor != "" {
		req.Header.Set(service.AccountHeader, actor)
	}

	resp, err := a.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)

	return resp, out.Bytes()
}

func amountBody(sats int64) map[string]string {
	return map[string]string{"amount": fmt.Sprintf("%d", sats)}
}

func TestStatusAndPoolViews(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp, body := api.do(t, http.MethodGet, "/v1/status", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var status struct {
		Paused bool `json:"paused"`
	}
	require.NoError(t, json.Unmarshal(body, &status))
	require.False(t, status.Paused)

	resp, body = api.do(t, http.MethodGet, "/v1/pool", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pool struct {
		Owner             string `json:"owner"`
		InstantUnstakeFee uint32 `json:"instant_unstake_fee"`
	}
	require.NoError(t, json.Unmarshal(body, &pool))
	require.Equal(t, "owner", pool.Owner)
	require.Equal(t, uint32(300), pool.InstantUnstakeFee)

	resp, body = api.do(t, http.MethodGet, "/v1/slot", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var slot struct {
		Slot uint8 `json:"slot"`
	}
	require.NoError(t, json.Unmarshal(body, &slot))
	require.True(t, types.ValidSlot(slot.Slot))
}

func TestStakeOverHTTP(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	// the actor header is mandatory on mutations
	resp, _ := api.do(t, http.MethodPost, "/v1/stake", "", amountBody(oneBTC))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := api.do(t, http.MethodPost, "/v1/stake", "user1", amountBody(oneBTC))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pool struct {
		TotalStakingAmount string `json:"total_staking_amount"`
	}
	require.NoError(t, json.Unmarshal(body, &pool))
	require.Equal(t, fmt.Sprintf("%d", oneBTC), pool.TotalStakingAmount)

	resp, body = api.do(t, http.MethodGet, "/v1/balances/user1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	balances := map[string]string{}
	require.NoError(t, json.Unmarshal(body, &balances))
	require.Equal(t, fmt.Sprintf("%d", oneBTC), balances["pumpbtc"])
	require.Equal(t, fmt.Sprintf("%d", 9*oneBTC), balances["wbtc"])

	resp, _ = api.do(t, http.MethodPost, "/v1/stake", "user1", amountBody(0))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestUnstakeAndClaimOverHTTP(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp, _ := api.do(t, http.MethodPost, "/v1/stake", "user1", amountBody(oneBTC))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := api.do(t, http.MethodPost, "/v1/unstake-request", "user1", amountBody(oneBTC/2))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var slotResp struct {
		Slot uint8 `json:"slot"`
	}
	require.NoError(t, json.Unmarshal(body, &slotResp))

	resp, body = api.do(t, http.MethodGet, "/v1/unstakes/user1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var unstakes []struct {
		Slot   uint8  `json:"slot"`
		Amount string `json:"amount"`
	}
	require.NoError(t, json.Unmarshal(body, &unstakes))
	require.Len(t, unstakes, 1)
	require.Equal(t, slotResp.Slot, unstakes[0].Slot)

	// funding comes from the operator
	resp, _ = api.do(t, http.MethodPost, "/v1/admin/deposit", "user1", amountBody(oneBTC/2))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = api.do(t, http.MethodPost, "/v1/admin/deposit", "operator", amountBody(oneBTC/2))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode) // operator holds no asset yet

	mintBody := map[string]string{"account": "operator", "amount": fmt.Sprintf("%d", oneBTC)}
	resp, _ = api.do(t, http.MethodPost, "/v1/admin/mint", "owner", mintBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = api.do(t, http.MethodPost, "/v1/admin/deposit", "operator", amountBody(oneBTC/2))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// claiming before maturity is too early
	resp, _ = api.do(t, http.MethodPost, fmt.Sprintf("/v1/claim/%d", slotResp.Slot), "user1", nil)
	require.Equal(t, http.StatusTooEarly, resp.StatusCode)

	api.clk.Add(9 * 24 * time.Hour)
	resp, body = api.do(t, http.MethodPost, fmt.Sprintf("/v1/claim/%d", slotResp.Slot), "user1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var claim struct {
		Claimed string `json:"claimed"`
	}
	require.NoError(t, json.Unmarshal(body, &claim))
	require.Equal(t, fmt.Sprintf("%d", oneBTC/2), claim.Claimed)

	// the slot is spent
	resp, _ = api.do(t, http.MethodPost, fmt.Sprintf("/v1/claim/%d", slotResp.Slot), "user1", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminLifecycleOverHTTP(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp, _ := api.do(t, http.MethodPost, "/v1/admin/pause", "user1", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/v1/admin/pause", "owner", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// staking is locked while paused
	resp, _ = api.do(t, http.MethodPost, "/v1/stake", "user1", amountBody(oneBTC))
	require.Equal(t, http.StatusLocked, resp.StatusCode)

	resp, _ = api.do(t, http.MethodPost, "/v1/admin/unpause", "owner", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	feeBody := map[string]uint32{"fee_rate_bps": 500}
	resp, body := api.do(t, http.MethodPost, "/v1/admin/fee", "owner", feeBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pool struct {
		InstantUnstakeFee uint32 `json:"instant_unstake_fee"`
	}
	require.NoError(t, json.Unmarshal(body, &pool))
	require.Equal(t, uint32(500), pool.InstantUnstakeFee)

	// two-step ownership over the API
	transferBody := map[string]string{"account": "user1"}
	resp, _ = api.do(t, http.MethodPost, "/v1/admin/transfer-ownership", "owner", transferBody)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = api.do(t, http.MethodPost, "/v1/admin/accept-ownership", "user2", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, body = api.do(t, http.MethodPost, "/v1/admin/accept-ownership", "user1", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var owned struct {
		Owner string `json:"owner"`
	}
	require.NoError(t, json.Unmarshal(body, &owned))
	require.Equal(t, "user1", owned.Owner)
}

func TestEventsOverHTTP(t *testing.T) {
	t.Parallel()
	api := newTestAPI(t)

	resp, _ := api.do(t, http.MethodPost, "/v1/stake", "user1", amountBody(oneBTC))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := api.do(t, http.MethodGet, "/v1/events?from=1&limit=100", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []struct {
		Seq  uint64 `json:"seq"`
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(body, &events))
	require.NotEmpty(t, events)
	require.Equal(t, "stake", events[len(events)-1].Kind)
}
