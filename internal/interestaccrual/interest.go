// Package interestaccrual computes the simple proportional interest accrual
// used by CDPs. It is grounded on native/lending/interest.go's InterestModel
// shape (state in, projected rate out) but implements the spec's flat
// simple-interest formula rather than the teacher's kinked utilization APR
// curve, per spec §4.3.
package interestaccrual

import (
	"math/big"

	"xassetcore/core/types"
	"xassetcore/internal/priceeng"
)

// ApprovalWindowSeconds is the forward-looking projection window used when
// computing the "approval hint" returned to callers ahead of repay_debt
// (spec §4.3, §6 repayment workflow).
const ApprovalWindowSeconds = 300

// Accrue implements spec §4.3's accrual rules:
//   - last_interest_time = 0 -> no accrual, return (zero interest, now).
//   - status Frozen/Closed -> stored interest is unchanged, but the
//     timestamp still advances to now.
//   - otherwise -> stored.amount + delta, stored.paid unchanged, timestamp
//     advances to now.
func Accrue(stored types.Interest, lastInterestTime, now uint64, annualRateBps uint64, principal *big.Int, frozenOrClosed bool) (types.Interest, uint64) {
	if lastInterestTime == 0 {
		return types.ZeroInterest(), now
	}
	if frozenOrClosed {
		return normalizeInterest(stored), now
	}
	delta := computeDelta(principal, annualRateBps, elapsed(lastInterestTime, now))
	amount := new(big.Int).Add(safeAmount(stored.Amount), delta)
	return types.Interest{Amount: amount, Paid: safeAmount(stored.Paid)}, now
}

// ProjectApprovalXLM returns the XLM-denominated upper bound a caller should
// request approval for before calling repay_debt: the currently accrued
// interest plus a 5-minute-forward projection, converted via priceeng.
func ProjectApprovalXLM(stored types.Interest, lastInterestTime, now uint64, annualRateBps uint64, principal *big.Int, xassetPrice, xlmPrice *big.Int, xlmFeedDecimals, assetFeedDecimals uint32) *big.Int {
	projectedInterest, _ := Accrue(stored, lastInterestTime, now+ApprovalWindowSeconds, annualRateBps, principal, false)
	return priceeng.ConvertXAssetToXLM(projectedInterest.Amount, xassetPrice, xlmPrice, xlmFeedDecimals, assetFeedDecimals)
}

func elapsed(last, now uint64) uint64 {
	if now <= last {
		return 0
	}
	return now - last
}

// computeDelta implements: bankers_round(a*r*dt*INTEREST_PRECISION / (BASIS_POINTS*SECONDS_PER_YEAR), INTEREST_PRECISION).
func computeDelta(principal *big.Int, annualRateBps uint64, deltaSeconds uint64) *big.Int {
	if principal == nil || principal.Sign() == 0 || annualRateBps == 0 || deltaSeconds == 0 {
		return big.NewInt(0)
	}
	numerator := new(big.Int).Mul(principal, big.NewInt(int64(annualRateBps)))
	numerator.Mul(numerator, big.NewInt(int64(deltaSeconds)))
	numerator.Mul(numerator, types.InterestPrecision)

	denominator := new(big.Int).Mul(big.NewInt(types.BasisPoints), big.NewInt(types.SecondsPerYear))

	scaled := priceeng.BankersRound(numerator, denominator)
	return priceeng.BankersRound(scaled, types.InterestPrecision)
}

func safeAmount(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

func normalizeInterest(i types.Interest) types.Interest {
	return types.Interest{Amount: safeAmount(i.Amount), Paid: safeAmount(i.Paid)}
}
