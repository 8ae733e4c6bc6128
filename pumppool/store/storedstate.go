package store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/pumpbtc-labs/pump-staking/types"
)

// StoredPoolState is the single ledger record of the pool: the running
// totals, the cap, the fee rate and the access/lifecycle fields. Field
// names follow the reference deployment's read views.
type StoredPoolState struct {
	Owner        types.Account
	PendingOwner types.Account
	Operator     types.Account
	Paused       bool

	InstantUnstakeFee uint32

	TotalStakingCap      sdkmath.Int
	TotalStakingAmount   sdkmath.Int
	PendingStakeAmount   sdkmath.Int
	TotalClaimableAmount sdkmath.Int
	TotalRequestedAmount sdkmath.Int
	CollectedFee         sdkmath.Int
}

// NewStoredPoolState returns the state of a freshly initialized pool:
// all totals zero, cap unset until the owner raises it.
func NewStoredPoolState(owner, operator types.Account, feeRate uint32) *StoredPoolState {
	return &StoredPoolState{
		Owner:                owner,
		Operator:             operator,
		InstantUnstakeFee:    feeRate,
		TotalStakingCap:      sdkmath.ZeroInt(),
		TotalStakingAmount:   sdkmath.ZeroInt(),
		PendingStakeAmount:   sdkmath.ZeroInt(),
		TotalClaimableAmount: sdkmath.ZeroInt(),
		TotalRequestedAmount: sdkmath.ZeroInt(),
		CollectedFee:         sdkmath.ZeroInt(),
	}
}

func (s *StoredPoolState) encode() ([]byte, error) {
	var buf bytes.Buffer

	writeString(&buf, string(s.Owner))
	writeString(&buf, string(s.PendingOwner))
	writeString(&buf, string(s.Operator))
	writeBool(&buf, s.Paused)
	writeUint32(&buf, s.InstantUnstakeFee)

	for _, amt := range []sdkmath.Int{
		s.TotalStakingCap, s.TotalStakingAmount, s.PendingStakeAmount,
		s.TotalClaimableAmount, s.TotalRequestedAmount, s.CollectedFee,
	} {
		if err := writeInt(&buf, amt); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

func decodePoolState(raw []byte) (*StoredPoolState, error) {
	r := bytes.NewReader(raw)
	s := &StoredPoolState{}

	var err error
	if s.Owner, err = readAccount(r); err != nil {
		return nil, err
	}
	if s.PendingOwner, err = readAccount(r); err != nil {
		return nil, err
	}
	if s.Operator, err = readAccount(r); err != nil {
		return nil, err
	}
	if s.Paused, err = readBool(r); err != nil {
		return nil, err
	}
	if s.InstantUnstakeFee, err = readUint32(r); err != nil {
		return nil, err
	}

	for _, amt := range []*sdkmath.Int{
		&s.TotalStakingCap, &s.TotalStakingAmount, &s.PendingStakeAmount,
		&s.TotalClaimableAmount, &s.TotalRequestedAmount, &s.CollectedFee,
	} {
		if *amt, err = readInt(r); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// StoredUnstakeRequest is one outstanding delayed withdrawal, keyed by
// (account, slot) in the queue bucket.
type StoredUnstakeRequest struct {
	Amount        sdkmath.Int
	ClaimableTime time.Time
}

func (r *StoredUnstakeRequest) encode() ([]byte, error) {
	var buf bytes.Buffer

	var ts [8]byte
	binary.BigEndian.PutUint64(ts[:], uint64(r.ClaimableTime.Unix()))
	buf.Write(ts[:])

	if err := writeInt(&buf, r.Amount); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func decodeUnstakeRequest(raw []byte) (*StoredUnstakeRequest, error) {
	if len(raw) < 8 {
		return nil, fmt.Errorf("%w: unstake request too short", ErrCorruptedPoolDb)
	}

	r := bytes.NewReader(raw[8:])
	amount, err := readInt(r)
	if err != nil {
		return nil, err
	}

	return &StoredUnstakeRequest{
		Amount:        amount,
		ClaimableTime: time.Unix(int64(binary.BigEndian.Uint64(raw[:8])), 0).UTC(),
	}, nil
}

func writeString(buf *bytes.Buffer, s string) {
	var l [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(l[:], uint64(len(s)))
	buf.Write(l[:n])
	buf.WriteString(s)
}

func readAccount(r *bytes.Reader) (types.Account, error) {
	l, err := binary.ReadUvarint(r)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptedPoolDb, err)
	}

	b := make([]byte, l)
	if _, err := io.ReadFull(r, b); err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptedPoolDb, err)
	}

	return types.Account(b), nil
}

func writeBool(buf *bytes.Buffer, v bool) {
	if v {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
}

func readBool(r *bytes.Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrCorruptedPoolDb, err)
	}

	return b != 0, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func readUint32(r *bytes.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrCorruptedPoolDb, err)
	}

	return binary.BigEndian.Uint32(b[:]), nil
}

func writeInt(buf *bytes.Buffer, amt sdkmath.Int) error {
	raw, err := amt.Marshal()
	if err != nil {
		return err
	}

	var l [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(l[:], uint64(len(raw)))
	buf.Write(l[:n])
	buf.Write(raw)

	return nil
}

func readInt(r *bytes.Reader) (sdkmath.Int, error) {
	l, err := binary.ReadUvarint(r)
	if err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %v", ErrCorruptedPoolDb, err)
	}

	raw := make([]byte, l)
	if _, err := io.ReadFull(r, raw); err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %v", ErrCorruptedPoolDb, err)
	}

	var amt sdkmath.Int
	if err := amt.Unmarshal(raw); err != nil {
		return sdkmath.ZeroInt(), fmt.Errorf("%w: %v", ErrCorruptedPoolDb, err)
	}

	return amt, nil
}
