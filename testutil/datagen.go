package testutil

import (
	"encoding/hex"
	"math/rand"
	"testing"
	"time"

	sdkmath "cosmossdk.io/math"

	"github.com/pumpbtc-labs/pump-staking/types"
)

func GenRandomByteArray(r *rand.Rand, length uint64) []byte {
	newBytes := make([]byte, length)
	r.Read(newBytes)

	return newBytes
}

func GenRandomHexStr(r *rand.Rand, length uint64) string {
	randBytes := GenRandomByteArray(r, length)

	return hex.EncodeToString(randBytes)
}

func AddRandomSeedsToFuzzer(f *testing.F, num uint) {
	// Seed based on the current time
	r := rand.New(rand.NewSource(time.Now().Unix()))
	var idx uint
	for idx = 0; idx < num; idx++ {
		f.Add(r.Int63())
	}
}

// GenRandomAccount returns a random opaque account identifier.
func GenRandomAccount(r *rand.Rand) types.Account {
	return types.Account("acc-" + GenRandomHexStr(r, 10))
}

// GenRandomAmount returns a positive amount of up to ~10 BTC in
// 8-decimal units.
func GenRandomAmount(r *rand.Rand) sdkmath.Int {
	return sdkmath.NewInt(r.Int63n(1_000_000_000) + 1)
}
