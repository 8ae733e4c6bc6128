package store

import (
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcwallet/walletdb"
	"github.com/lightningnetwork/lnd/kvdb"

	"github.com/pumpbtc-labs/pump-staking/types"
)

var (
	poolStateBucketName    = []byte("poolState")
	unstakeQueueBucketName = []byte("unstakeQueue")
	eventJournalBucketName = []byte("eventJournal")

	poolStateKey = []byte("state")
)

// PoolStore persists the pool ledger: the single state record, the
// per-account withdrawal queue and the append-only event journal. All
// mutating accessors come in tx-scoped form so that the ledger can
// combine them with token movements in one database transaction.
type PoolStore struct {
	db kvdb.Backend
}

// NewPoolStore returns a new store backed by db.
func NewPoolStore(db kvdb.Backend) (*PoolStore, error) {
	s := &PoolStore{db}
	if err := s.initBuckets(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *PoolStore) initBuckets() error {
	return kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		for _, bucket := range [][]byte{
			poolStateBucketName, unstakeQueueBucketName, eventJournalBucketName,
		} {
			if _, err := tx.CreateTopLevelBucket(bucket); err != nil {
				return err
			}
		}

		return nil
	})
}

// Initialize writes the bootstrap state record unless one already
// exists, so restarting the daemon never resets a live pool.
func (s *PoolStore) Initialize(owner, operator types.Account, feeRate uint32) error {
	if owner.IsEmpty() {
		return fmt.Errorf("cannot initialize the pool with an empty owner")
	}

	return kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		existing, err := GetPoolStateTx(tx)
		if err != nil {
			return err
		}
		if existing != nil {
			return nil
		}

		return PutPoolStateTx(tx, NewStoredPoolState(owner, operator, feeRate))
	})
}

// GetPoolState returns the current state record.
func (s *PoolStore) GetPoolState() (*StoredPoolState, error) {
	var state *StoredPoolState

	err := s.db.View(func(tx kvdb.RTx) error {
		bucket := tx.ReadBucket(poolStateBucketName)
		if bucket == nil {
			return ErrCorruptedPoolDb
		}

		raw := bucket.Get(poolStateKey)
		if raw == nil {
			return ErrPoolNotInitialized
		}

		var err error
		state, err = decodePoolState(raw)

		return err
	}, func() {})

	if err != nil {
		return nil, err
	}

	return state, nil
}

// GetUnstakeRequest returns the pending request of the account in the
// given slot.
func (s *PoolStore) GetUnstakeRequest(acct types.Account, slot uint8) (*StoredUnstakeRequest, error) {
	var req *StoredUnstakeRequest

	err := s.db.View(func(tx kvdb.RTx) error {
		queue := tx.ReadBucket(unstakeQueueBucketName)
		if queue == nil {
			return ErrCorruptedPoolDb
		}

		acctBucket := queue.NestedReadBucket([]byte(acct))
		if acctBucket == nil {
			return ErrUnstakeRequestNotFound
		}

		raw := acctBucket.Get([]byte{slot})
		if raw == nil {
			return ErrUnstakeRequestNotFound
		}

		var err error
		req, err = decodeUnstakeRequest(raw)

		return err
	}, func() {})

	if err != nil {
		return nil, err
	}

	return req, nil
}

// ListUnstakeRequests returns every pending request of the account,
// keyed by slot. Accounts with no requests get an empty map.
func (s *PoolStore) ListUnstakeRequests(acct types.Account) (map[uint8]*StoredUnstakeRequest, error) {
	reqs := make(map[uint8]*StoredUnstakeRequest)

	err := s.db.View(func(tx kvdb.RTx) error {
		queue := tx.ReadBucket(unstakeQueueBucketName)
		if queue == nil {
			return ErrCorruptedPoolDb
		}

		acctBucket := queue.NestedReadBucket([]byte(acct))
		if acctBucket == nil {
			return nil
		}

		return acctBucket.ForEach(func(k, v []byte) error {
			if len(k) != 1 || !types.ValidSlot(k[0]) {
				return fmt.Errorf("%w: invalid queue slot key %x", ErrCorruptedPoolDb, k)
			}

			req, err := decodeUnstakeRequest(v)
			if err != nil {
				return err
			}
			reqs[k[0]] = req

			return nil
		})
	}, func() { reqs = make(map[uint8]*StoredUnstakeRequest) })

	if err != nil {
		return nil, err
	}

	return reqs, nil
}

// ListEvents returns up to limit journal events starting at fromSeq, in
// sequence order. A non-positive limit means no bound.
func (s *PoolStore) ListEvents(fromSeq uint64, limit int) ([]*types.Event, error) {
	var events []*types.Event

	err := s.db.View(func(tx kvdb.RTx) error {
		journal := tx.ReadBucket(eventJournalBucketName)
		if journal == nil {
			return ErrCorruptedPoolDb
		}

		cursor := journal.ReadCursor()
		for k, v := cursor.Seek(uint64ToBytes(fromSeq)); k != nil; k, v = cursor.Next() {
			if limit > 0 && len(events) >= limit {
				break
			}

			var ev types.Event
			if err := json.Unmarshal(v, &ev); err != nil {
				return fmt.Errorf("%w: %v", ErrCorruptedPoolDb, err)
			}
			events = append(events, &ev)
		}

		return nil
	}, func() { events = nil })

	if err != nil {
		return nil, err
	}

	return events, nil
}

// GetPoolStateTx reads the state record within an open transaction. A
// missing record returns nil without an error so that Initialize can
// probe for it.
func GetPoolStateTx(tx kvdb.RwTx) (*StoredPoolState, error) {
	bucket := tx.ReadWriteBucket(poolStateBucketName)
	if bucket == nil {
		return nil, ErrCorruptedPoolDb
	}

	raw := bucket.Get(poolStateKey)
	if raw == nil {
		return nil, nil
	}

	return decodePoolState(raw)
}

// PutPoolStateTx writes the state record within an open transaction.
func PutPoolStateTx(tx kvdb.RwTx, state *StoredPoolState) error {
	bucket := tx.ReadWriteBucket(poolStateBucketName)
	if bucket == nil {
		return ErrCorruptedPoolDb
	}

	raw, err := state.encode()
	if err != nil {
		return err
	}

	return bucket.Put(poolStateKey, raw)
}

// GetUnstakeRequestTx reads the request of the account in the given
// slot within an open transaction, nil if there is none.
func GetUnstakeRequestTx(tx kvdb.RwTx, acct types.Account, slot uint8) (*StoredUnstakeRequest, error) {
	queue := tx.ReadWriteBucket(unstakeQueueBucketName)
	if queue == nil {
		return nil, ErrCorruptedPoolDb
	}

	acctBucket := queue.NestedReadBucket([]byte(acct))
	if acctBucket == nil {
		return nil, nil
	}

	raw := acctBucket.Get([]byte{slot})
	if raw == nil {
		return nil, nil
	}

	return decodeUnstakeRequest(raw)
}

// PutUnstakeRequestTx writes the request of the account in the given
// slot within an open transaction.
func PutUnstakeRequestTx(tx kvdb.RwTx, acct types.Account, slot uint8, req *StoredUnstakeRequest) error {
	if !types.ValidSlot(slot) {
		return fmt.Errorf("invalid queue slot %d", slot)
	}

	acctBucket, err := acctQueueBucket(tx, acct)
	if err != nil {
		return err
	}

	raw, err := req.encode()
	if err != nil {
		return err
	}

	return acctBucket.Put([]byte{slot}, raw)
}

// DeleteUnstakeRequestTx removes the request of the account in the
// given slot within an open transaction.
func DeleteUnstakeRequestTx(tx kvdb.RwTx, acct types.Account, slot uint8) error {
	queue := tx.ReadWriteBucket(unstakeQueueBucketName)
	if queue == nil {
		return ErrCorruptedPoolDb
	}

	acctBucket := queue.NestedReadWriteBucket([]byte(acct))
	if acctBucket == nil {
		return nil
	}

	return acctBucket.Delete([]byte{slot})
}

// AppendEventTx assigns the next sequence number to the event and
// appends it to the journal within an open transaction.
func AppendEventTx(tx kvdb.RwTx, ev *types.Event) (uint64, error) {
	journal := tx.ReadWriteBucket(eventJournalBucketName)
	if journal == nil {
		return 0, ErrCorruptedPoolDb
	}

	seq := uint64(1)
	if k, _ := journal.ReadWriteCursor().Last(); k != nil {
		if len(k) != 8 {
			return 0, fmt.Errorf("%w: invalid journal key %x", ErrCorruptedPoolDb, k)
		}
		seq = bytesToUint64(k) + 1
	}

	ev.Seq = seq
	raw, err := json.Marshal(ev)
	if err != nil {
		return 0, err
	}

	if err := journal.Put(uint64ToBytes(seq), raw); err != nil {
		return 0, err
	}

	return seq, nil
}

func acctQueueBucket(tx kvdb.RwTx, acct types.Account) (walletdb.ReadWriteBucket, error) {
	queue := tx.ReadWriteBucket(unstakeQueueBucketName)
	if queue == nil {
		return nil, ErrCorruptedPoolDb
	}

	return queue.CreateBucketIfNotExists([]byte(acct))
}
