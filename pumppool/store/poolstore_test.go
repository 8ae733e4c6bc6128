package store_test

import (
	"math/rand"
	"os"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"
	"github.com/lightningnetwork/lnd/kvdb"
	"github.com/stretchr/testify/require"

	"github.com/pumpbtc-labs/pump-staking/pumppool/config"
	"github.com/pumpbtc-labs/pump-staking/pumppool/store"
	"github.com/pumpbtc-labs/pump-staking/testutil"
	"github.com/pumpbtc-labs/pump-staking/types"
)

// FuzzPoolStateStore tests initializing and reading back the pool state
// record.
func FuzzPoolStateStore(f *testing.F) {
	testutil.AddRandomSeedsToFuzzer(f, 10)
	f.Fuzz(func(t *testing.T, seed int64) {
		t.Parallel()
		r := rand.New(rand.NewSource(seed))

		homePath := t.TempDir()
		cfg := config.DefaultDBConfigWithHomePath(homePath)

		dbBackend, err := cfg.GetDBBackend()
		require.NoError(t, err)

		ps, err := store.NewPoolStore(dbBackend)
		require.NoError(t, err)

		defer func() {
			dbBackend.Close()
			err := os.RemoveAll(homePath)
			require.NoError(t, err)
		}()

		// reads before bootstrap fail
		_, err = ps.GetPoolState()
		require.ErrorIs(t, err, store.ErrPoolNotInitialized)

		owner := testutil.GenRandomAccount(r)
		operator := testutil.GenRandomAccount(r)
		feeRate := uint32(r.Intn(types.MaxInstantUnstakeFee + 1))

		err = ps.Initialize(owner, operator, feeRate)
		require.NoError(t, err)

		state, err := ps.GetPoolState()
		require.NoError(t, err)
		require.Equal(t, owner, state.Owner)
		require.Equal(t, operator, state.Operator)
		require.Equal(t, feeRate, state.InstantUnstakeFee)
		require.False(t, state.Paused)
		require.True(t, state.TotalStakingAmount.IsZero())
		require.True(t, state.TotalStakingCap.IsZero())

		// a second bootstrap must not reset a live pool
		err = ps.Initialize(testutil.GenRandomAccount(r), operator, feeRate)
		require.NoError(t, err)

		state, err = ps.GetPoolState()
		require.NoError(t, err)
		require.Equal(t, owner, state.Owner)

		// mutate and read back every field
		state.PendingOwner = testutil.GenRandomAccount(r)
		state.Paused = true
		state.TotalStakingCap = testutil.GenRandomAmount(r)
		state.TotalStakingAmount = testutil.GenRandomAmount(r)
		state.PendingStakeAmount = testutil.GenRandomAmount(r)
		state.TotalClaimableAmount = testutil.GenRandomAmount(r)
		state.TotalRequestedAmount = testutil.GenRandomAmount(r)
		state.CollectedFee = testutil.GenRandomAmount(r)

		err = kvdb.Batch(dbBackend, func(tx kvdb.RwTx) error {
			return store.PutPoolStateTx(tx, state)
		})
		require.NoError(t, err)

		stored, err := ps.GetPoolState()
		require.NoError(t, err)
		require.Equal(t, state, stored)
	})
}

// FuzzUnstakeQueue tests writing, listing and removing per-account
// queue entries.
func FuzzUnstakeQueue(f *testing.F) {
	testutil.AddRandomSeedsToFuzzer(f, 10)
	f.Fuzz(func(t *testing.T, seed int64) {
		t.Parallel()
		r := rand.New(rand.NewSource(seed))

		homePath := t.TempDir()
		cfg := config.DefaultDBConfigWithHomePath(homePath)

		dbBackend, err := cfg.GetDBBackend()
		require.NoError(t, err)

		ps, err := store.NewPoolStore(dbBackend)
		require.NoError(t, err)

		defer func() {
			dbBackend.Close()
			err := os.RemoveAll(homePath)
			require.NoError(t, err)
		}()

		acct := testutil.GenRandomAccount(r)
		slot := uint8(r.Intn(types.NumDateSlots))
		req := &store.StoredUnstakeRequest{
			Amount:        testutil.GenRandomAmount(r),
			ClaimableTime: time.Unix(r.Int63n(1<<40), 0).UTC(),
		}

		_, err = ps.GetUnstakeRequest(acct, slot)
		require.ErrorIs(t, err, store.ErrUnstakeRequestNotFound)

		err = kvdb.Batch(dbBackend, func(tx kvdb.RwTx) error {
			return store.PutUnstakeRequestTx(tx, acct, slot, req)
		})
		require.NoError(t, err)

		stored, err := ps.GetUnstakeRequest(acct, slot)
		require.NoError(t, err)
		require.Equal(t, req, stored)

		// a slot outside the ring is rejected
		err = kvdb.Batch(dbBackend, func(tx kvdb.RwTx) error {
			return store.PutUnstakeRequestTx(tx, acct, types.NumDateSlots, req)
		})
		require.ErrorContains(t, err, "invalid queue slot")

		// listing returns only this account's entries
		other := testutil.GenRandomAccount(r)
		otherReq := &store.StoredUnstakeRequest{
			Amount:        testutil.GenRandomAmount(r),
			ClaimableTime: req.ClaimableTime.Add(24 * time.Hour),
		}
		err = kvdb.Batch(dbBackend, func(tx kvdb.RwTx) error {
			return store.PutUnstakeRequestTx(tx, other, slot, otherReq)
		})
		require.NoError(t, err)

		reqs, err := ps.ListUnstakeRequests(acct)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		require.Equal(t, req, reqs[slot])

		reqs, err = ps.ListUnstakeRequests(testutil.GenRandomAccount(r))
		require.NoError(t, err)
		require.Empty(t, reqs)

		err = kvdb.Batch(dbBackend, func(tx kvdb.RwTx) error {
			return store.DeleteUnstakeRequestTx(tx, acct, slot)
		})
		require.NoError(t, err)

		_, err = ps.GetUnstakeRequest(acct, slot)
		require.ErrorIs(t, err, store.ErrUnstakeRequestNotFound)

		// the other account's entry survives the delete
		stored, err = ps.GetUnstakeRequest(other, slot)
		require.NoError(t, err)
		require.Equal(t, otherReq, stored)
	})
}

func TestEventJournalSequence(t *testing.T) {
	t.Parallel()

	homePath := t.TempDir()
	cfg := config.DefaultDBConfigWithHomePath(homePath)

	dbBackend, err := cfg.GetDBBackend()
	require.NoError(t, err)
	defer dbBackend.Close()

	ps, err := store.NewPoolStore(dbBackend)
	require.NoError(t, err)

	ts := time.Unix(1_700_000_000, 0).UTC()
	kinds := []types.EventKind{
		types.EventStake, types.EventUnstakeInstant, types.EventClaimSlot,
	}

	for i, kind := range kinds {
		ev := types.NewEvent(kind, "acc-1", ts).
			WithAmount(sdkmath.NewInt(int64(100 * (i + 1))))

		var seq uint64
		err = kvdb.Batch(dbBackend, func(tx kvdb.RwTx) error {
			var err error
			seq, err = store.AppendEventTx(tx, ev)

			return err
		})
		require.NoError(t, err)
		require.Equal(t, uint64(i+1), seq)
		require.Equal(t, seq, ev.Seq)
	}

	events, err := ps.ListEvents(0, 0)
	require.NoError(t, err)
	require.Len(t, events, len(kinds))
	for i, ev := range events {
		require.Equal(t, uint64(i+1), ev.Seq)
		require.Equal(t, kinds[i], ev.Kind)
		require.Equal(t, types.Account("acc-1"), ev.Actor)
	}

	// paging from the middle with a bound
	events, err = ps.ListEvents(2, 1)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, uint64(2), events[0].Seq)
	require.Equal(t, types.EventUnstakeInstant, events[0].Kind)
}
