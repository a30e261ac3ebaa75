// Package stabilitypool implements the O(1) liquidation-absorption pool:
// stakers deposit xAsset, which is burned pro rata to cover a frozen CDP's
// debt in exchange for a pro-rata share of that CDP's XLM collateral. It
// uses the Liquity-style product/sum accumulator scheme so a staker's share
// can be resolved in constant time regardless of how many liquidations have
// occurred since their last interaction (spec §4.5). The engine shape
// (injected Store, Set* wiring, module-scoped pause gating) is grounded on
// native/lending/engine.go; the product/compound-constant math itself has no
// analogue in the teacher and is grounded on original_source/xasset/
// stability_pool.rs instead (see DESIGN.md).
package stabilitypool

import (
	"math/big"

	"xassetcore/core/errors"
	"xassetcore/core/events"
	"xassetcore/core/state"
	"xassetcore/core/types"
	"xassetcore/crypto"
	"xassetcore/internal/oracle"
	"xassetcore/internal/priceeng"
	nativecommon "xassetcore/native/common"
	"xassetcore/native/ledger"
	"xassetcore/native/reserve"
)

const moduleName = "stabilitypool"

// Engine orchestrates stability-pool state transitions, including absorbing
// frozen CDPs' debt — the engine reads and writes CDP records directly
// through the shared store rather than calling back into native/cdp, per
// spec §9's "both live in the same contract... mutated under a single write
// transaction" resolution of the CDP/pool cyclic reference.
type Engine struct {
	store      *state.Store
	ledger     *ledger.Ledger
	oracle     *oracle.Adapter
	reserve    *reserve.Engine
	treasury   crypto.Address
	poolAddr   crypto.Address
	emitter    events.Emitter
	pauses     nativecommon.PauseView
}

// NewEngine constructs a stability pool engine bound to its collaborators.
// treasury is the CDP collateral custody address (shared with native/cdp);
// poolAddr is the address the pool itself holds stakers' unclaimed XLM
// rewards under, mirroring native/lending.NewEngine's
// (moduleAddr, collateralAddr) construction-time custody pair.
func NewEngine(store *state.Store, led *ledger.Ledger, adapter *oracle.Adapter, res *reserve.Engine, treasury, poolAddr crypto.Address) *Engine {
	return &Engine{store: store, ledger: led, oracle: adapter, reserve: res, treasury: treasury, poolAddr: poolAddr, emitter: events.NoopEmitter{}}
}

// SetEmitter wires the engine to a downstream event sink.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		emitter = events.NoopEmitter{}
	}
	e.emitter = emitter
}

// SetPauses wires the engine to the protocol's pause-gating view.
func (e *Engine) SetPauses(p nativecommon.PauseView) { e.pauses = p }

func (e *Engine) emit(ev events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(ev)
	}
}

func (e *Engine) guard() error {
	return nativecommon.Guard(e.pauses, moduleName)
}

func (e *Engine) config() (*types.Config, error) {
	cfg, ok, err := e.store.Config()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.CodeNotInitialized, "protocol not initialized")
	}
	return cfg, nil
}

// chargeFee transfers a flat XLM fee from payer to the protocol treasury and
// credits it to the pool's running FeesCollected total (spec §3's flat
// DepositFee/StakeFee/UnstakeReturn schedule).
func (e *Engine) chargeFee(payer crypto.Address, fee *big.Int, pool *types.PoolState) error {
	if fee == nil || fee.Sign() <= 0 {
		return nil
	}
	if err := e.reserve.Transfer(payer, e.treasury, fee); err != nil {
		return err
	}
	pool.FeesCollected.Add(pool.FeesCollected, fee)
	return nil
}

func (e *Engine) pool() (*types.PoolState, error) {
	pool, ok, err := e.store.Pool()
	if err != nil {
		return nil, err
	}
	if !ok {
		pool = types.NewPoolState()
		if err := e.store.PutPool(pool); err != nil {
			return nil, err
		}
	}
	return pool, nil
}

// Stake opens a new staker position, charging the flat StakeFee (spec §3).
func (e *Engine) Stake(staker crypto.Address, amount *big.Int) (*types.StakerPosition, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New(errors.CodeValueNotPositive, "stake amount must be positive")
	}
	if _, ok, err := e.store.Position(staker.Bytes()); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.New(errors.CodeStakeAlreadyExists, "staker already has a position")
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	pool, err := e.pool()
	if err != nil {
		return nil, err
	}
	if err := e.chargeFee(staker, cfg.StakeFee, pool); err != nil {
		return nil, err
	}
	if err := e.ledger.Burn(staker, amount); err != nil {
		return nil, err
	}
	pos := &types.StakerPosition{
		XAssetDeposit:      new(big.Int).Set(amount),
		ProductConstant:    new(big.Int).Set(pool.ProductConstant),
		CompoundedConstant: new(big.Int).Set(pool.CompoundedConstant),
		Epoch:              pool.Epoch,
	}
	pool.TotalXAsset.Add(pool.TotalXAsset, amount)
	if err := e.store.PutPool(pool); err != nil {
		return nil, err
	}
	if err := e.store.PutPosition(staker.Bytes(), pos); err != nil {
		return nil, err
	}
	e.emit(events.StabilityPoolEvent{Staker: staker.String(), Kind: events.TypeStabilityPoolStaked, XAssetDeposit: pos.XAssetDeposit, Epoch: pos.Epoch})
	return pos.Clone(), nil
}

// Deposit tops up an existing staker position, first compounding the
// staker's deposit against the losses absorbed since their prior snapshot.
// It is rejected with CodeClaimRewardsFirst while any XLM reward is unclaimed.
func (e *Engine) Deposit(staker crypto.Address, amount *big.Int) (*types.StakerPosition, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New(errors.CodeValueNotPositive, "deposit amount must be positive")
	}
	cfg, err := e.config()
	if err != nil {
		return nil, err
	}
	pool, pos, err := e.requirePosition(staker)
	if err != nil {
		return nil, err
	}
	if e.collateralShare(pool, pos).Sign() > 0 {
		return nil, errors.New(errors.CodeClaimRewardsFirst, "claim unclaimed XLM rewards before depositing more")
	}
	compounded := e.compoundedDeposit(pool, pos)
	if err := e.chargeFee(staker, cfg.DepositFee, pool); err != nil {
		return nil, err
	}
	if err := e.ledger.Burn(staker, amount); err != nil {
		return nil, err
	}
	pool.TotalXAsset.Add(pool.TotalXAsset, amount)
	newPos := &types.StakerPosition{
		XAssetDeposit:      new(big.Int).Add(compounded, amount),
		ProductConstant:    new(big.Int).Set(pool.ProductConstant),
		CompoundedConstant: new(big.Int).Set(pool.CompoundedConstant),
		Epoch:              pool.Epoch,
	}
	if err := e.store.PutPool(pool); err != nil {
		return nil, err
	}
	if err := e.store.PutPosition(staker.Bytes(), newPos); err != nil {
		return nil, err
	}
	e.emit(events.StabilityPoolEvent{Staker: staker.String(), Kind: events.TypeStabilityPoolDeposited, XAssetDeposit: newPos.XAssetDeposit, Epoch: newPos.Epoch})
	return newPos.Clone(), nil
}

// Withdraw removes a partial amount from a staker's compounded deposit,
// re-minting the xAsset back to them and re-snapshotting against the pool's
// current constants.
func (e *Engine) Withdraw(staker crypto.Address, amount *big.Int) (*types.StakerPosition, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return nil, errors.New(errors.CodeValueNotPositive, "withdraw amount must be positive")
	}
	pool, pos, err := e.requirePosition(staker)
	if err != nil {
		return nil, err
	}
	if e.collateralShare(pool, pos).Sign() > 0 {
		return nil, errors.New(errors.CodeClaimRewardsFirst, "claim unclaimed XLM rewards before withdrawing")
	}
	compounded := e.compoundedDeposit(pool, pos)
	if compounded.Cmp(amount) <= 0 {
		return nil, errors.New(errors.CodePartialUnstakeNotAllowed, "withdrawal must leave a remaining balance; call unstake to exit fully")
	}
	remaining := new(big.Int).Sub(compounded, amount)
	if err := e.ledger.Mint(staker, amount); err != nil {
		return nil, err
	}
	pool.TotalXAsset.Sub(pool.TotalXAsset, amount)
	newPos := &types.StakerPosition{
		XAssetDeposit:      remaining,
		ProductConstant:    new(big.Int).Set(pool.ProductConstant),
		CompoundedConstant: new(big.Int).Set(pool.CompoundedConstant),
		Epoch:              pool.Epoch,
	}
	if err := e.store.PutPool(pool); err != nil {
		return nil, err
	}
	if err := e.store.PutPosition(staker.Bytes(), newPos); err != nil {
		return nil, err
	}
	e.emit(events.StabilityPoolEvent{Staker: staker.String(), Kind: events.TypeStabilityPoolWithdrawn, XAssetDeposit: newPos.XAssetDeposit, Epoch: newPos.Epoch})
	return newPos.Clone(), nil
}

// Unstake exits a position entirely, returning both the compounded xAsset
// deposit and the accumulated XLM collateral share, and refunding the flat
// UnstakeReturn fee (spec §3, §4.5).
func (e *Engine) Unstake(staker crypto.Address) (xassetReturned, collateralReturned *big.Int, err error) {
	if err := e.guard(); err != nil {
		return nil, nil, err
	}
	cfg, err := e.config()
	if err != nil {
		return nil, nil, err
	}
	pool, pos, err := e.requirePosition(staker)
	if err != nil {
		return nil, nil, err
	}
	compounded := e.compoundedDeposit(pool, pos)
	collateral := e.collateralShare(pool, pos)

	if compounded.Sign() > 0 {
		if err := e.ledger.Mint(staker, compounded); err != nil {
			return nil, nil, err
		}
		pool.TotalXAsset.Sub(pool.TotalXAsset, compounded)
	}
	if collateral.Sign() > 0 {
		if err := e.reserve.Transfer(e.poolAddr, staker, collateral); err != nil {
			return nil, nil, err
		}
		pool.TotalCollateral.Sub(pool.TotalCollateral, collateral)
	}
	if cfg.UnstakeReturn != nil && cfg.UnstakeReturn.Sign() > 0 {
		if err := e.reserve.Transfer(e.treasury, staker, cfg.UnstakeReturn); err != nil {
			return nil, nil, err
		}
	}
	e.store.DeletePosition(staker.Bytes())
	if err := e.store.PutPool(pool); err != nil {
		return nil, nil, err
	}
	e.emit(events.StabilityPoolEvent{Staker: staker.String(), Kind: events.TypeStabilityPoolUnstaked, XAssetDeposit: big.NewInt(0), Epoch: pool.Epoch})
	return compounded, collateral, nil
}

// ClaimRewards pays out a staker's accumulated XLM collateral share without
// disturbing their xAsset deposit snapshot beyond re-basing it to the
// current constants (spec §6 claim_rewards).
func (e *Engine) ClaimRewards(staker crypto.Address) (*big.Int, error) {
	if err := e.guard(); err != nil {
		return nil, err
	}
	pool, pos, err := e.requirePosition(staker)
	if err != nil {
		return nil, err
	}
	collateral := e.collateralShare(pool, pos)
	if collateral.Sign() == 0 {
		return big.NewInt(0), nil
	}
	if err := e.reserve.Transfer(e.poolAddr, staker, collateral); err != nil {
		return nil, err
	}
	compounded := e.compoundedDeposit(pool, pos)
	pool.TotalCollateral.Sub(pool.TotalCollateral, collateral)
	newPos := &types.StakerPosition{
		XAssetDeposit:      compounded,
		ProductConstant:    new(big.Int).Set(pool.ProductConstant),
		CompoundedConstant: new(big.Int).Set(pool.CompoundedConstant),
		Epoch:              pool.Epoch,
	}
	if err := e.store.PutPool(pool); err != nil {
		return nil, err
	}
	if err := e.store.PutPosition(staker.Bytes(), newPos); err != nil {
		return nil, err
	}
	e.emit(events.StabilityPoolEvent{Staker: staker.String(), Kind: events.TypeStabilityPoolRewardsClaimed, XAssetDeposit: newPos.XAssetDeposit, Epoch: newPos.Epoch})
	return collateral, nil
}

// Liquidate absorbs a frozen CDP's outstanding debt against the pool's
// staked xAsset, crediting the CDP's XLM collateral to the pool in exchange
// (spec §4.5). It reads and writes the CDP record directly through the
// shared store (spec §9's resolution of the CDP/pool cyclic reference) and
// enforces the interest-first ordering guarantee: if the pool cannot fully
// absorb the CDP's accrued interest, liquidation stops there entirely — no
// principal or collateral moves in that call at all (spec §4.4/§4.5).
func (e *Engine) Liquidate(lender crypto.Address, now uint64) (debtCleared, collateralReleased *big.Int, closed bool, err error) {
	if err := e.guard(); err != nil {
		return nil, nil, false, err
	}
	cdp, ok, err := e.store.CDP(lender.Bytes())
	if err != nil {
		return nil, nil, false, err
	}
	if !ok {
		return nil, nil, false, errors.New(errors.CodeCDPNotFound, "no position for lender")
	}
	if cdp.Status != types.CDPFrozen {
		return nil, nil, false, errors.New(errors.CodeInvalidLiquidation, "position must be frozen to liquidate")
	}
	pool, err := e.pool()
	if err != nil {
		return nil, nil, false, err
	}
	if pool.TotalXAsset.Sign() == 0 {
		return nil, nil, false, errors.New(errors.CodeInvalidLiquidation, "stability pool is empty")
	}
	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return nil, nil, false, err
	}

	debtCleared = big.NewInt(0)
	collateralReleased = big.NewInt(0)

	if cdp.AccruedInterest.Amount.Sign() > 0 {
		absorbedInterest := capAt(cdp.AccruedInterest.Amount, pool.TotalXAsset)
		if absorbedInterest.Sign() > 0 {
			interestXLM := priceeng.ConvertXAssetToXLM(absorbedInterest, quote.AssetPrice.Price, quote.XLMPrice.Price, quote.XLMFeedDecimals, quote.AssetFeedDecimals)
			if interestXLM.Sign() > 0 {
				if err := e.reserve.Transfer(e.treasury, e.poolAddr, interestXLM); err != nil {
					return nil, nil, false, err
				}
			}
			if err := e.applyLoss(pool, absorbedInterest, interestXLM); err != nil {
				return nil, nil, false, err
			}
			cdp.AccruedInterest.Amount.Sub(cdp.AccruedInterest.Amount, absorbedInterest)
			cdp.AccruedInterest.Paid.Add(cdp.AccruedInterest.Paid, interestXLM)
			pool.InterestCollected.Add(pool.InterestCollected, interestXLM)
			if err := e.store.PutInterestRecord(pool.Epoch, &types.InterestRecord{InterestCollected: new(big.Int).Set(pool.InterestCollected)}); err != nil {
				return nil, nil, false, err
			}
			debtCleared.Add(debtCleared, absorbedInterest)
		}

		if cdp.AccruedInterest.Amount.Sign() > 0 {
			// Pool exhausted on interest alone; stop here entirely. No
			// principal is touched and no collateral is released this call.
			if err := e.store.PutPool(pool); err != nil {
				return nil, nil, false, err
			}
			if err := e.store.PutCDP(lender.Bytes(), cdp); err != nil {
				return nil, nil, false, err
			}
			e.emit(events.LiquidationEvent{Lender: lender.String(), DebtAbsorbed: debtCleared, CollateralPaid: collateralReleased, RemainingPoolXA: pool.TotalXAsset})
			return debtCleared, collateralReleased, false, nil
		}
	}

	if pool.TotalXAsset.Sign() > 0 && cdp.AssetLent.Sign() > 0 {
		absorbedPrincipal := capAt(cdp.AssetLent, pool.TotalXAsset)
		if absorbedPrincipal.Sign() > 0 {
			collateralShare := priceeng.LiquidationCollateralShare(cdp.XLMDeposited, absorbedPrincipal, cdp.AssetLent)
			if collateralShare.Cmp(cdp.XLMDeposited) > 0 {
				collateralShare = new(big.Int).Set(cdp.XLMDeposited)
			}
			if collateralShare.Sign() > 0 {
				if err := e.reserve.Transfer(e.treasury, e.poolAddr, collateralShare); err != nil {
					return nil, nil, false, err
				}
			}
			if err := e.applyLoss(pool, absorbedPrincipal, collateralShare); err != nil {
				return nil, nil, false, err
			}
			cdp.AssetLent.Sub(cdp.AssetLent, absorbedPrincipal)
			cdp.XLMDeposited.Sub(cdp.XLMDeposited, collateralShare)
			debtCleared.Add(debtCleared, absorbedPrincipal)
			collateralReleased.Add(collateralReleased, collateralShare)
		}
	}

	if err := e.store.PutPool(pool); err != nil {
		return nil, nil, false, err
	}
	if cdp.AssetLent.Sign() == 0 {
		e.store.DeleteCDP(lender.Bytes())
		closed = true
	} else if err := e.store.PutCDP(lender.Bytes(), cdp); err != nil {
		return nil, nil, false, err
	}
	e.emit(events.LiquidationEvent{Lender: lender.String(), DebtAbsorbed: debtCleared, CollateralPaid: collateralReleased, RemainingPoolXA: pool.TotalXAsset})
	return debtCleared, collateralReleased, closed, nil
}

func capAt(amount, available *big.Int) *big.Int {
	if amount == nil || amount.Sign() <= 0 {
		return big.NewInt(0)
	}
	if available.Sign() <= 0 {
		return big.NewInt(0)
	}
	if amount.Cmp(available) <= 0 {
		return new(big.Int).Set(amount)
	}
	return new(big.Int).Set(available)
}

// applyLoss updates the pool's product/compound constants to reflect a
// burn of debtAbsorbed xAsset and a credit of collateralPaid XLM, rolling
// the epoch if the product constant would collapse to zero (spec §4.5). It
// persists a CompoundRecord snapshot of the epoch being closed so a staker
// who missed the roll-over can still resolve their pre-wipeout share.
func (e *Engine) applyLoss(pool *types.PoolState, debtAbsorbed, collateralPaid *big.Int) error {
	if pool.TotalXAsset.Sign() == 0 {
		return nil
	}
	// lossFraction = debtAbsorbed / TotalXAsset, scaled by DefaultPrecision.
	lossFractionScaled := new(big.Int).Mul(debtAbsorbed, types.DefaultPrecision)
	lossFractionScaled.Quo(lossFractionScaled, pool.TotalXAsset)

	retainedScaled := new(big.Int).Sub(types.DefaultPrecision, lossFractionScaled)
	if retainedScaled.Sign() < 0 {
		retainedScaled.SetInt64(0)
	}

	// gainPerUnitScaled = collateralPaid / TotalXAsset, scaled by DefaultPrecision.
	gainPerUnitScaled := new(big.Int).Mul(collateralPaid, types.DefaultPrecision)
	gainPerUnitScaled.Quo(gainPerUnitScaled, pool.TotalXAsset)

	// S += gain-per-unit weighted by the product constant at the moment of
	// this liquidation (standard Liquity S accumulator).
	weightedGain := new(big.Int).Mul(gainPerUnitScaled, pool.ProductConstant)
	weightedGain.Quo(weightedGain, types.DefaultPrecision)
	pool.CompoundedConstant.Add(pool.CompoundedConstant, weightedGain)

	pool.ProductConstant.Mul(pool.ProductConstant, retainedScaled)
	pool.ProductConstant.Quo(pool.ProductConstant, types.DefaultPrecision)

	pool.TotalXAsset.Sub(pool.TotalXAsset, debtAbsorbed)
	pool.TotalCollateral.Add(pool.TotalCollateral, collateralPaid)

	if pool.ProductConstant.Sign() == 0 || pool.TotalXAsset.Sign() == 0 {
		previous := pool.Epoch
		if err := e.store.PutCompoundRecord(previous, &types.CompoundRecord{
			CompoundedConstant: new(big.Int).Set(pool.CompoundedConstant),
			ProductConstant:    new(big.Int).Set(pool.ProductConstant),
		}); err != nil {
			return err
		}
		pool.Epoch++
		pool.ProductConstant = big.NewInt(types.ProductConstantInit)
		pool.CompoundedConstant = big.NewInt(0)
		e.emit(events.EpochRolledEvent{PreviousEpoch: previous, NewEpoch: pool.Epoch, ProductConstant: pool.ProductConstant, CompoundedConstant: pool.CompoundedConstant})
	}
	return nil
}

// compoundedDeposit resolves a staker's current xAsset share, which is zero
// if the pool rolled an epoch since their snapshot (full wipeout, spec
// §4.5).
func (e *Engine) compoundedDeposit(pool *types.PoolState, pos *types.StakerPosition) *big.Int {
	if pos.Epoch != pool.Epoch {
		return big.NewInt(0)
	}
	if pos.ProductConstant.Sign() == 0 {
		return big.NewInt(0)
	}
	compounded := new(big.Int).Mul(pos.XAssetDeposit, pool.ProductConstant)
	compounded.Quo(compounded, pos.ProductConstant)
	return compounded
}

// collateralShare resolves a staker's accumulated XLM claim since their last
// snapshot (spec §4.5's S-accumulator share formula). For a position whose
// epoch has already ended, the closing compound constant stored in that
// epoch's CompoundRecord stands in for the pool's running one.
func (e *Engine) collateralShare(pool *types.PoolState, pos *types.StakerPosition) *big.Int {
	if pos.ProductConstant.Sign() == 0 {
		return big.NewInt(0)
	}
	current := pool.CompoundedConstant
	if pos.Epoch != pool.Epoch {
		rec, ok, err := e.store.CompoundRecord(pos.Epoch)
		if err != nil || !ok || rec.CompoundedConstant == nil {
			return big.NewInt(0)
		}
		current = rec.CompoundedConstant
	}
	gain := new(big.Int).Sub(current, pos.CompoundedConstant)
	if gain.Sign() <= 0 {
		return big.NewInt(0)
	}
	share := new(big.Int).Mul(pos.XAssetDeposit, gain)
	share.Quo(share, pos.ProductConstant)
	return share
}

func (e *Engine) requirePosition(staker crypto.Address) (*types.PoolState, *types.StakerPosition, error) {
	pool, err := e.pool()
	if err != nil {
		return nil, nil, err
	}
	pos, ok, err := e.store.Position(staker.Bytes())
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errors.New(errors.CodeStakeDoesntExist, "staker has no position")
	}
	return pool, pos, nil
}

// GetStakerDepositAmount returns a staker's current compounded xAsset share.
func (e *Engine) GetStakerDepositAmount(staker crypto.Address) (*big.Int, error) {
	pool, pos, err := e.requirePosition(staker)
	if err != nil {
		return nil, err
	}
	return e.compoundedDeposit(pool, pos), nil
}

// GetPosition returns a staker's raw persisted snapshot.
func (e *Engine) GetPosition(staker crypto.Address) (*types.StakerPosition, error) {
	_, pos, err := e.requirePosition(staker)
	if err != nil {
		return nil, err
	}
	return pos.Clone(), nil
}

// GetTotalXAsset returns the pool's total staked xAsset.
func (e *Engine) GetTotalXAsset() (*big.Int, error) {
	pool, err := e.pool()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(pool.TotalXAsset), nil
}

// GetTotalCollateral returns the pool's total unclaimed XLM collateral.
func (e *Engine) GetTotalCollateral() (*big.Int, error) {
	pool, err := e.pool()
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(pool.TotalCollateral), nil
}

// GetAvailableAssets returns the xAsset the pool can still absorb before
// being fully exhausted; identical to GetTotalXAsset under this engine's
// no-partial-reserve model.
func (e *Engine) GetAvailableAssets() (*big.Int, error) {
	return e.GetTotalXAsset()
}

// GetConstants returns the pool's current product/compound constants and
// epoch, primarily for diagnostics and tests.
func (e *Engine) GetConstants() (productConstant, compoundedConstant *big.Int, epoch uint64, err error) {
	pool, err := e.pool()
	if err != nil {
		return nil, nil, 0, err
	}
	return new(big.Int).Set(pool.ProductConstant), new(big.Int).Set(pool.CompoundedConstant), pool.Epoch, nil
}
