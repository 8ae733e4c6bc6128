package types

import (
	sdkmath "cosmossdk.io/math"
)

const (
	// LiquidityTokenDecimals is the precision of the liquidity token.
	// All internal pool accounting is denominated in these units.
	LiquidityTokenDecimals = 8

	// FeeRateDenominator is the denominator of basis-point fee rates.
	FeeRateDenominator = 10_000

	// MaxInstantUnstakeFee is the highest accepted fee rate (100%).
	MaxInstantUnstakeFee = FeeRateDenominator
)

// AdjustAmount converts an amount between two decimal precisions. The
// conversion is the identity when the precisions match and truncates
// toward zero when scaling down.
func AdjustAmount(amount sdkmath.Int, fromDecimals, toDecimals uint8) sdkmath.Int {
	switch {
	case fromDecimals == toDecimals:
		return amount
	case fromDecimals < toDecimals:
		return amount.Mul(sdkmath.NewIntWithDecimal(1, int(toDecimals-fromDecimals)))
	default:
		return amount.Quo(sdkmath.NewIntWithDecimal(1, int(fromDecimals-toDecimals)))
	}
}

// FeeFor returns the instant-unstake fee charged on amount at the given
// basis-point rate, truncated toward zero.
func FeeFor(amount sdkmath.Int, feeRateBps uint32) sdkmath.Int {
	return amount.Mul(sdkmath.NewInt(int64(feeRateBps))).Quo(sdkmath.NewInt(FeeRateDenominator))
}

// ValidFeeRate reports whether a basis-point fee rate is in range.
func ValidFeeRate(feeRateBps uint32) bool {
	return feeRateBps <= MaxInstantUnstakeFee
}
