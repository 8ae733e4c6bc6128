package tokens

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
	"github.com/btcsuite/btcwallet/walletdb"
	"github.com/lightningnetwork/lnd/kvdb"

	"github.com/pumpbtc-labs/pump-staking/types"
)

var balancesBucketName = []byte("tokenBalances")

// Store keeps per-account balances for each registered token in a nested
// bucket per token. It stands in for the external asset and liquidity
// token contracts: the pool mints and burns the liquidity token through
// it and moves the underlying asset between accounts.
type Store struct {
	db kvdb.Backend
}

func NewStore(db kvdb.Backend) (*Store, error) {
	s := &Store{db}
	if err := s.initBuckets(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Store) initBuckets() error {
	return kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		_, err := tx.CreateTopLevelBucket(balancesBucketName)

		return err
	})
}

// RegisterToken creates the balance bucket for a token so that reads
// against it succeed before the first mint.
func (s *Store) RegisterToken(token string) error {
	if token == "" {
		return fmt.Errorf("cannot register an empty token name")
	}

	return kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		balances := tx.ReadWriteBucket(balancesBucketName)
		if balances == nil {
			return ErrCorruptedTokenDb
		}

		_, err := balances.CreateBucketIfNotExists([]byte(token))

		return err
	})
}

// Mint credits amount of token to the account.
func (s *Store) Mint(token string, to types.Account, amount sdkmath.Int) error {
	return kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		return MintTx(tx, token, to, amount)
	})
}

// Burn debits amount of token from the account.
func (s *Store) Burn(token string, from types.Account, amount sdkmath.Int) error {
	return kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		return BurnTx(tx, token, from, amount)
	})
}

// Transfer moves amount of token between two accounts.
func (s *Store) Transfer(token string, from, to types.Account, amount sdkmath.Int) error {
	return kvdb.Batch(s.db, func(tx kvdb.RwTx) error {
		return TransferTx(tx, token, from, to, amount)
	})
}

// BalanceOf returns the balance of the account, zero if the account has
// never held the token.
func (s *Store) BalanceOf(token string, acct types.Account) (sdkmath.Int, error) {
	balance := sdkmath.ZeroInt()

	err := s.db.View(func(tx kvdb.RTx) error {
		balances := tx.ReadBucket(balancesBucketName)
		if balances == nil {
			return ErrCorruptedTokenDb
		}

		bucket := balances.NestedReadBucket([]byte(token))
		if bucket == nil {
			return ErrUnknownToken
		}

		var err error
		balance, err = balanceFromBucket(bucket, acct)

		return err
	}, func() {})

	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	return balance, nil
}

// MintTx credits amount of token to the account within an open
// transaction, so that callers can combine token movements with their
// own state changes atomically.
func MintTx(tx kvdb.RwTx, token string, to types.Account, amount sdkmath.Int) error {
	if err := validTransferArgs(amount, to); err != nil {
		return err
	}

	bucket, err := tokenBucket(tx, token)
	if err != nil {
		return err
	}

	balance, err := balanceFromBucket(bucket, to)
	if err != nil {
		return err
	}

	return putBalance(bucket, to, balance.Add(amount))
}

// BurnTx debits amount of token from the account within an open
// transaction.
func BurnTx(tx kvdb.RwTx, token string, from types.Account, amount sdkmath.Int) error {
	if err := validTransferArgs(amount, from); err != nil {
		return err
	}

	bucket, err := tokenBucket(tx, token)
	if err != nil {
		return err
	}

	balance, err := balanceFromBucket(bucket, from)
	if err != nil {
		return err
	}
	if balance.LT(amount) {
		return fmt.Errorf("%w: %s holds %s of %s, burn needs %s",
			ErrInsufficientBalance, from, balance, token, amount)
	}

	return putBalance(bucket, from, balance.Sub(amount))
}

// TransferTx moves amount of token between two accounts within an open
// transaction.
func TransferTx(tx kvdb.RwTx, token string, from, to types.Account, amount sdkmath.Int) error {
	if err := validTransferArgs(amount, from, to); err != nil {
		return err
	}

	bucket, err := tokenBucket(tx, token)
	if err != nil {
		return err
	}

	fromBalance, err := balanceFromBucket(bucket, from)
	if err != nil {
		return err
	}
	if fromBalance.LT(amount) {
		return fmt.Errorf("%w: %s holds %s of %s, transfer needs %s",
			ErrInsufficientBalance, from, fromBalance, token, amount)
	}

	toBalance, err := balanceFromBucket(bucket, to)
	if err != nil {
		return err
	}

	if err := putBalance(bucket, from, fromBalance.Sub(amount)); err != nil {
		return err
	}

	return putBalance(bucket, to, toBalance.Add(amount))
}

// BalanceTx returns the balance of the account within an open transaction.
func BalanceTx(tx kvdb.RwTx, token string, acct types.Account) (sdkmath.Int, error) {
	bucket, err := tokenBucket(tx, token)
	if err != nil {
		return sdkmath.ZeroInt(), err
	}

	return balanceFromBucket(bucket, acct)
}

func tokenBucket(tx kvdb.RwTx, token string) (walletdb.ReadWriteBucket, error) {
	balances := tx.ReadWriteBucket(balancesBucketName)
	if balances == nil {
		return nil, ErrCorruptedTokenDb
	}

	return balances.CreateBucketIfNotExists([]byte(token))
}

func balanceFromBucket(bucket walletdb.ReadBucket, acct types.Account) (sdkmath.Int, error) {
	raw := bucket.Get([]byte(acct))
	if raw == nil {
		return sdkmath.ZeroInt(), nil
	}

	var balance sdkmath.Int
	if err := balance.Unmarshal(raw); err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %v", ErrCorruptedTokenDb, err)
	}

	return balance, nil
}

func putBalance(bucket walletdb.ReadWriteBucket, acct types.Account, balance sdkmath.Int) error {
	raw, err := balance.Marshal()
	if err != nil {
		return err
	}

	return bucket.Put([]byte(acct), raw)
}

func validTransferArgs(amount sdkmath.Int, accts ...types.Account) error {
	if amount.IsNil() || amount.IsNegative() {
		return ErrInvalidAmount
	}
	for _, acct := range accts {
		if acct.IsEmpty() {
			return fmt.Errorf("token movement with empty account")
		}
	}

	return nil
}
