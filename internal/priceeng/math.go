// Package priceeng implements the decimal-aware price arithmetic shared by
// the CDP and stability-pool engines: collateralization ratios, xAsset/XLM
// conversion, and banker's rounding. The integer-division-with-rounding shape
// is grounded on native/lending/math.go's rayMul/rayDiv/halfUp helpers; the
// rounding rule itself differs because the teacher rounds half-up while this
// spec requires banker's rounding (half-to-even) at a caller-supplied
// denominator (spec §4.1).
package priceeng

import (
	"math"
	"math/big"

	"xassetcore/core/types"
)

var ten = big.NewInt(10)

// pow10 returns 10^n as a *big.Int. n is always small (feed decimal deltas),
// so no memoization is needed.
func pow10(n uint32) *big.Int {
	if n == 0 {
		return big.NewInt(1)
	}
	return new(big.Int).Exp(ten, big.NewInt(int64(n)), nil)
}

// BankersRound divides num by precision using round-half-to-even, matching
// spec §4.1's "half-to-even rounding applied at a specified denominator".
func BankersRound(num, precision *big.Int) *big.Int {
	if num == nil || precision == nil || precision.Sign() == 0 {
		return big.NewInt(0)
	}
	neg := num.Sign() < 0
	n := new(big.Int).Abs(num)
	p := new(big.Int).Abs(precision)

	quo, rem := new(big.Int).QuoRem(n, p, new(big.Int))
	twice := new(big.Int).Lsh(rem, 1)
	cmp := twice.Cmp(p)
	switch {
	case cmp > 0:
		quo.Add(quo, big.NewInt(1))
	case cmp == 0:
		// Exactly half: round to even.
		if quo.Bit(0) == 1 {
			quo.Add(quo, big.NewInt(1))
		}
	}
	if neg {
		quo.Neg(quo)
	}
	return quo
}

// SaturatingSub returns max(a-b, 0), matching the spec's "saturating
// arithmetic" requirement for effective-collateral computation (§4.1).
func SaturatingSub(a, b *big.Int) *big.Int {
	if a == nil {
		a = big.NewInt(0)
	}
	if b == nil {
		b = big.NewInt(0)
	}
	diff := new(big.Int).Sub(a, b)
	if diff.Sign() < 0 {
		return big.NewInt(0)
	}
	return diff
}

// CollateralizationRatioBps implements spec §4.1: given debt a, xAsset price
// pa, collateral c, XLM price px, and feed decimals dx/da, returns the
// collateralization ratio in basis points, or math.MaxUint32 when debt or
// price is zero. accruedInterestXLM is the CDP's unpaid interest, expressed
// in XLM units, which is subtracted from the collateral before the ratio is
// computed (spec's "interest reduces effective collateral" convention).
func CollateralizationRatioBps(debt, xassetPrice, collateral, xlmPrice *big.Int, xlmFeedDecimals, assetFeedDecimals uint32, accruedInterestXLM *big.Int) uint32 {
	if debt == nil || debt.Sign() == 0 || xassetPrice == nil || xassetPrice.Sign() == 0 {
		return math.MaxUint32
	}

	var n, d uint32
	if xlmFeedDecimals >= assetFeedDecimals {
		d = xlmFeedDecimals - assetFeedDecimals
	} else {
		n = assetFeedDecimals - xlmFeedDecimals
	}

	effCollateral := SaturatingSub(collateral, accruedInterestXLM)

	numerator := new(big.Int).Mul(big.NewInt(types.BasisPoints), effCollateral)
	numerator.Mul(numerator, xlmPrice)
	numerator.Mul(numerator, pow10(n))

	denominator := new(big.Int).Mul(debt, pow10(d))
	denominator.Mul(denominator, xassetPrice)
	if denominator.Sign() == 0 {
		return math.MaxUint32
	}

	ratio := new(big.Int).Quo(numerator, denominator)
	if !ratio.IsUint64() || ratio.Uint64() > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(ratio.Uint64())
}

// ConvertXAssetToXLM implements spec §4.1's xAsset→XLM conversion:
// bankers_round(DEFAULT_PRECISION * x * pa * 10^(dx-da) / px, DEFAULT_PRECISION).
func ConvertXAssetToXLM(amount, xassetPrice, xlmPrice *big.Int, xlmFeedDecimals, assetFeedDecimals uint32) *big.Int {
	if amount == nil || amount.Sign() == 0 {
		return big.NewInt(0)
	}
	if xlmPrice == nil || xlmPrice.Sign() == 0 {
		return big.NewInt(0)
	}

	numerator := new(big.Int).Mul(types.DefaultPrecision, amount)
	numerator.Mul(numerator, xassetPrice)

	if xlmFeedDecimals >= assetFeedDecimals {
		numerator.Mul(numerator, pow10(xlmFeedDecimals-assetFeedDecimals))
	} else {
		numerator.Quo(numerator, pow10(assetFeedDecimals-xlmFeedDecimals))
	}

	// The formula's inner division by the XLM price is itself a division
	// result, so it is rounded the same way as the outer DEFAULT_PRECISION
	// division (spec §4.1: "all division results flow through this
	// function").
	scaled := BankersRound(numerator, xlmPrice)
	return BankersRound(scaled, types.DefaultPrecision)
}

// LiquidationCollateralShare implements spec §4.5's principal-absorption
// collateral release: bankers_round(DEFAULT_PRECISION * deposited *
// debtCleared / assetLent, DEFAULT_PRECISION). Both divisions embedded in
// the formula flow through banker's rounding, matching ConvertXAssetToXLM's
// two-step treatment of a chained division.
func LiquidationCollateralShare(deposited, debtCleared, assetLent *big.Int) *big.Int {
	if assetLent == nil || assetLent.Sign() == 0 || debtCleared == nil || debtCleared.Sign() == 0 {
		return big.NewInt(0)
	}
	numerator := new(big.Int).Mul(types.DefaultPrecision, deposited)
	numerator.Mul(numerator, debtCleared)
	scaled := BankersRound(numerator, assetLent)
	return BankersRound(scaled, types.DefaultPrecision)
}
