package events

import (
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"xassetcore/core/types"
)

const (
	// TypeCDPOpened is emitted when a lender opens a new collateralized debt position.
	TypeCDPOpened = "xasset.cdp.opened"
	// TypeCDPCollateralAdded is emitted on a top-up of an existing position's collateral.
	TypeCDPCollateralAdded = "xasset.cdp.collateralAdded"
	// TypeCDPCollateralWithdrawn is emitted when a lender withdraws excess collateral.
	TypeCDPCollateralWithdrawn = "xasset.cdp.collateralWithdrawn"
	// TypeCDPBorrowed is emitted when a lender mints additional xAsset against their position.
	TypeCDPBorrowed = "xasset.cdp.borrowed"
	// TypeCDPRepaid is emitted when a lender repays principal and/or interest.
	TypeCDPRepaid = "xasset.cdp.repaid"
	// TypeCDPFrozen is emitted when a position crosses into the frozen state.
	TypeCDPFrozen = "xasset.cdp.frozen"
	// TypeCDPClosed is emitted when a position's record is removed from storage.
	TypeCDPClosed = "xasset.cdp.closed"
	// TypeCDPMerged is emitted when two or more frozen positions are combined under one lender.
	TypeCDPMerged = "xasset.cdp.merged"

	// TypeStabilityPoolStaked is emitted on a first-time stake into the pool.
	TypeStabilityPoolStaked = "xasset.pool.staked"
	// TypeStabilityPoolDeposited is emitted on a top-up to an existing stake.
	TypeStabilityPoolDeposited = "xasset.pool.deposited"
	// TypeStabilityPoolWithdrawn is emitted on a partial withdrawal from a stake.
	TypeStabilityPoolWithdrawn = "xasset.pool.withdrawn"
	// TypeStabilityPoolUnstaked is emitted when a staker exits entirely.
	TypeStabilityPoolUnstaked = "xasset.pool.unstaked"
	// TypeStabilityPoolRewardsClaimed is emitted when a staker claims their share of collateral.
	TypeStabilityPoolRewardsClaimed = "xasset.pool.rewardsClaimed"
	// TypeStabilityPoolEpochRolled is emitted each time the pool's constants cross an epoch boundary.
	TypeStabilityPoolEpochRolled = "xasset.pool.epochRolled"

	// TypeLiquidation is emitted when a frozen CDP's debt is absorbed by the stability pool.
	TypeLiquidation = "xasset.liquidation"
)

// CDPEvent captures a state transition on a single lender's collateralized
// debt position, grounded on StakeDelegated's shape of "identity plus before/
// after balances" (core/events/stake.go).
type CDPEvent struct {
	Lender          string
	Kind            string
	XLMDeposited    *big.Int
	AssetLent       *big.Int
	AccruedInterest *big.Int
	CollatRatioBps  uint32
	Status          types.CDPStatus
}

// EventType satisfies the Event interface.
func (e CDPEvent) EventType() string { return e.Kind }

// Event converts the structured payload into a broadcastable event.
func (e CDPEvent) Event() *types.Event {
	attrs := map[string]string{
		"lender":       e.Lender,
		"xlmDeposited": formatAmount(e.XLMDeposited),
		"assetLent":    formatAmount(e.AssetLent),
		"status":       e.Status.String(),
	}
	if e.AccruedInterest != nil {
		attrs["accruedInterest"] = formatAmount(e.AccruedInterest)
	}
	if e.CollatRatioBps > 0 {
		attrs["collatRatioBps"] = strconv.FormatUint(uint64(e.CollatRatioBps), 10)
	}
	return &types.Event{Type: e.Kind, Attributes: attrs, CorrelationID: uuid.NewString()}
}

// StabilityPoolEvent captures a staker-facing state transition against the
// pool, grounded on the same before/after shape as CDPEvent.
type StabilityPoolEvent struct {
	Staker        string
	Kind          string
	XAssetDeposit *big.Int
	Epoch         uint64
}

// EventType satisfies the Event interface.
func (e StabilityPoolEvent) EventType() string { return e.Kind }

// Event converts the structured payload into a broadcastable event.
func (e StabilityPoolEvent) Event() *types.Event {
	attrs := map[string]string{
		"staker": e.Staker,
		"epoch":  strconv.FormatUint(e.Epoch, 10),
	}
	if e.XAssetDeposit != nil {
		attrs["xAssetDeposit"] = formatAmount(e.XAssetDeposit)
	}
	return &types.Event{Type: e.Kind, Attributes: attrs, CorrelationID: uuid.NewString()}
}

// EpochRolledEvent records a stability-pool epoch roll-over, grounded on
// StakeCapHit's "report the bound that was crossed" shape.
type EpochRolledEvent struct {
	PreviousEpoch      uint64
	NewEpoch           uint64
	ProductConstant    *big.Int
	CompoundedConstant *big.Int
}

// EventType satisfies the Event interface.
func (EpochRolledEvent) EventType() string { return TypeStabilityPoolEpochRolled }

// Event converts the structured payload into a broadcastable event.
func (e EpochRolledEvent) Event() *types.Event {
	return &types.Event{
		Type: TypeStabilityPoolEpochRolled,
		Attributes: map[string]string{
			"previousEpoch":      strconv.FormatUint(e.PreviousEpoch, 10),
			"newEpoch":           strconv.FormatUint(e.NewEpoch, 10),
			"productConstant":    formatAmount(e.ProductConstant),
			"compoundedConstant": formatAmount(e.CompoundedConstant),
		},
		CorrelationID: uuid.NewString(),
	}
}

func formatAmount(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

// LiquidationEvent records a frozen CDP's debt being absorbed by the
// stability pool, grounded on StakeCapHit's attempted/resolved shape
// (core/events/stake.go).
type LiquidationEvent struct {
	Lender          string
	DebtAbsorbed    *big.Int
	CollateralPaid  *big.Int
	RemainingPoolXA *big.Int
}

// EventType satisfies the Event interface.
func (LiquidationEvent) EventType() string { return TypeLiquidation }

// Event converts the structured payload into a broadcastable event.
func (e LiquidationEvent) Event() *types.Event {
	return &types.Event{
		Type: TypeLiquidation,
		Attributes: map[string]string{
			"lender":          e.Lender,
			"debtAbsorbed":    formatAmount(e.DebtAbsorbed),
			"collateralPaid":  formatAmount(e.CollateralPaid),
			"remainingPoolXA": formatAmount(e.RemainingPoolXA),
		},
		CorrelationID: uuid.NewString(),
	}
}
