// Package cdp implements the collateralized debt position engine: a lender
// deposits XLM collateral and borrows newly minted xAsset against it,
// repaying principal and interest to reclaim the collateral. It is grounded
// on native/lending/engine.go's injected-state Engine shape (engineState
// interface, Set* wiring methods, module-scoped pause gating), generalized
// from the teacher's variable-rate supply/borrow market to this spec's
// flat-rate single-collateral position (spec §4.3/§4.4).
package cdp

import (
	"math/big"
	"time"

	"xassetcore/core/errors"
	"xassetcore/core/events"
	"xassetcore/core/state"
	"xassetcore/core/types"
	"xassetcore/crypto"
	"xassetcore/internal/interestaccrual"
	"xassetcore/internal/oracle"
	"xassetcore/internal/priceeng"
	nativecommon "xassetcore/native/common"
	"xassetcore/native/ledger"
	"xassetcore/native/reserve"
	"xassetcore/observability"
)

const moduleName = "cdp"

// Engine orchestrates CDP state transitions.
type Engine struct {
	store    *state.Store
	ledger   *ledger.Ledger
	oracle   *oracle.Adapter
	reserve  *reserve.Engine
	treasury crypto.Address
	emitter  events.Emitter
	pauses   nativecommon.PauseView
	metrics  *observability.EngineMetrics
}

// NewEngine constructs a CDP engine wired to its collaborators. treasury is
// the address the reserve-asset (XLM) engine credits and debits as
// collateral moves in and out of open positions, grounded on the teacher's
// native/lending.NewEngine(moduleAddr, collateralAddr, ...) convention of
// taking the module's custody addresses at construction.
func NewEngine(store *state.Store, led *ledger.Ledger, adapter *oracle.Adapter, res *reserve.Engine, treasury crypto.Address) *Engine {
	return &Engine{store: store, ledger: led, oracle: adapter, reserve: res, treasury: treasury, emitter: events.NoopEmitter{}}
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

// SetMetrics wires the engine to a Prometheus metrics registry. A nil
// registry disables instrumentation; every call site is nil-safe.
func (e *Engine) SetMetrics(m *observability.EngineMetrics) { e.metrics = m }

// observe times a single public operation and records its outcome, per the
// teacher's moduleMetrics.Observe latency/outcome split (observability/metrics.go).
func (e *Engine) observe(operation string, start time.Time, err error) {
	e.metrics.Observe(moduleName, operation, err, time.Since(start))
}

func (e *Engine) emit(ev events.Event) {
	if e.emitter != nil {
		e.emitter.Emit(ev)
	}
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

func (e *Engine) guard() error {
	return nativecommon.Guard(e.pauses, moduleName)
}

// accrue brings a CDP's interest up to date as of now and sets the new
// timestamp on cdp, per spec §4.3; the caller persists the record. Frozen positions still advance the timestamp but
// never grow the owed amount.
func (e *Engine) accrue(cfg *types.Config, cdp *types.CDP, now uint64) {
	frozenOrClosed := cdp.Status == types.CDPFrozen
	accrued, newTime := interestaccrual.Accrue(cdp.AccruedInterest, cdp.LastInterestTime, now, cfg.InterestRateBps, cdp.AssetLent, frozenOrClosed)
	cdp.AccruedInterest = accrued
	cdp.LastInterestTime = newTime
}

// ratio computes a CDP's live collateralization ratio against the current
// oracle quote, decorating the view returned to callers (spec §4.1, §6
// get_cdp).
func (e *Engine) ratio(cfg *types.Config, cdp *types.CDP, quote oracle.Quote) uint32 {
	interestXLM := priceeng.ConvertXAssetToXLM(cdp.AccruedInterest.Amount, quote.AssetPrice.Price, quote.XLMPrice.Price, quote.XLMFeedDecimals, quote.AssetFeedDecimals)
	return priceeng.CollateralizationRatioBps(cdp.AssetLent, quote.AssetPrice.Price, cdp.XLMDeposited, quote.XLMPrice.Price, quote.XLMFeedDecimals, quote.AssetFeedDecimals, interestXLM)
}

// OpenCDP creates a new position for lender, depositing collateralXLM and
// immediately borrowing borrowXAsset against it. Fails with
// CodeCDPAlreadyExists if the lender already holds an open position.
func (e *Engine) OpenCDP(lender crypto.Address, collateralXLM, borrowXAsset *big.Int, now uint64) (view types.CDPView, err error) {
	defer func(start time.Time) { e.observe("open_cdp", start, err) }(time.Now())
	if err := e.guard(); err != nil {
		return types.CDPView{}, err
	}
	if collateralXLM == nil || collateralXLM.Sign() <= 0 || borrowXAsset == nil || borrowXAsset.Sign() <= 0 {
		return types.CDPView{}, errors.New(errors.CodeValueNotPositive, "collateral and borrow amounts must be positive")
	}
	cfg, err := e.config()
	if err != nil {
		return types.CDPView{}, err
	}
	if _, ok, err := e.store.CDP(lender.Bytes()); err != nil {
		return types.CDPView{}, err
	} else if ok {
		return types.CDPView{}, errors.New(errors.CodeCDPAlreadyExists, "lender already has an open position")
	}

	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return types.CDPView{}, err
	}

	cdp := &types.CDP{
		XLMDeposited:     new(big.Int).Set(collateralXLM),
		AssetLent:        new(big.Int).Set(borrowXAsset),
		Status:           types.CDPOpen,
		AccruedInterest:  types.ZeroInterest(),
		LastInterestTime: now,
	}
	ratio := e.ratio(cfg, cdp, quote)
	if uint64(ratio) < cfg.MinCollatRatioBps {
		return types.CDPView{}, errors.New(errors.CodeInsufficientCollateralization, "ratio %d bps below minimum %d bps", ratio, cfg.MinCollatRatioBps)
	}

	if err := e.reserve.Transfer(lender, e.treasury, collateralXLM); err != nil {
		return types.CDPView{}, err
	}
	if err := e.ledger.Mint(lender, borrowXAsset); err != nil {
		return types.CDPView{}, err
	}
	if err := e.store.PutCDP(lender.Bytes(), cdp); err != nil {
		return types.CDPView{}, err
	}

	e.emit(events.CDPEvent{Lender: lender.String(), Kind: events.TypeCDPOpened, XLMDeposited: cdp.XLMDeposited, AssetLent: cdp.AssetLent, CollatRatioBps: ratio, Status: cdp.Status})
	e.metrics.RecordCollatRatio(lender.String(), ratio)
	return types.CDPView{CDP: *cdp.Clone(), Lender: lender.String(), CollateralizationRatioBps: ratio}, nil
}

// AddCollateral tops up an existing position's XLM collateral.
func (e *Engine) AddCollateral(lender crypto.Address, amount *big.Int, now uint64) (types.CDPView, error) {
	if err := e.guard(); err != nil {
		return types.CDPView{}, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return types.CDPView{}, errors.New(errors.CodeValueNotPositive, "collateral amount must be positive")
	}
	cfg, cdp, err := e.requireOpenOrInsolvent(lender)
	if err != nil {
		return types.CDPView{}, err
	}
	e.accrue(cfg, cdp, now)
	if err := e.reserve.Transfer(lender, e.treasury, amount); err != nil {
		return types.CDPView{}, err
	}
	cdp.XLMDeposited.Add(cdp.XLMDeposited, amount)

	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return types.CDPView{}, err
	}
	ratio := e.ratio(cfg, cdp, quote)
	if ratio >= uint32(cfg.MinCollatRatioBps) {
		cdp.Status = types.CDPOpen
	}
	if err := e.store.PutCDP(lender.Bytes(), cdp); err != nil {
		return types.CDPView{}, err
	}
	e.emit(events.CDPEvent{Lender: lender.String(), Kind: events.TypeCDPCollateralAdded, XLMDeposited: cdp.XLMDeposited, AssetLent: cdp.AssetLent, CollatRatioBps: ratio, Status: cdp.Status})
	return types.CDPView{CDP: *cdp.Clone(), Lender: lender.String(), CollateralizationRatioBps: ratio}, nil
}

// WithdrawCollateral removes excess XLM collateral, rejecting the withdrawal
// with CodeInsufficientCollateralization if it would drop the position below
// the configured minimum ratio.
func (e *Engine) WithdrawCollateral(lender crypto.Address, amount *big.Int, now uint64) (types.CDPView, error) {
	if err := e.guard(); err != nil {
		return types.CDPView{}, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return types.CDPView{}, errors.New(errors.CodeValueNotPositive, "withdrawal amount must be positive")
	}
	cfg, cdp, err := e.requireOpen(lender)
	if err != nil {
		return types.CDPView{}, err
	}
	e.accrue(cfg, cdp, now)
	if cdp.XLMDeposited.Cmp(amount) < 0 {
		return types.CDPView{}, errors.New(errors.CodeInvalidWithdrawal, "withdrawal %s exceeds deposited collateral %s", amount, cdp.XLMDeposited)
	}
	remaining := new(big.Int).Sub(cdp.XLMDeposited, amount)

	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return types.CDPView{}, err
	}
	trial := cdp.Clone()
	trial.XLMDeposited = remaining
	ratio := e.ratio(cfg, trial, quote)
	if uint64(ratio) < cfg.MinCollatRatioBps {
		return types.CDPView{}, errors.New(errors.CodeInsufficientCollateralization, "withdrawal would drop ratio to %d bps below minimum %d bps", ratio, cfg.MinCollatRatioBps)
	}
	if err := e.reserve.Transfer(e.treasury, lender, amount); err != nil {
		return types.CDPView{}, err
	}
	cdp.XLMDeposited = remaining
	if err := e.store.PutCDP(lender.Bytes(), cdp); err != nil {
		return types.CDPView{}, err
	}
	e.emit(events.CDPEvent{Lender: lender.String(), Kind: events.TypeCDPCollateralWithdrawn, XLMDeposited: cdp.XLMDeposited, AssetLent: cdp.AssetLent, CollatRatioBps: ratio, Status: cdp.Status})
	return types.CDPView{CDP: *cdp.Clone(), Lender: lender.String(), CollateralizationRatioBps: ratio}, nil
}

// BorrowXAsset mints additional xAsset against an existing open position.
func (e *Engine) BorrowXAsset(lender crypto.Address, amount *big.Int, now uint64) (types.CDPView, error) {
	if err := e.guard(); err != nil {
		return types.CDPView{}, err
	}
	if amount == nil || amount.Sign() <= 0 {
		return types.CDPView{}, errors.New(errors.CodeValueNotPositive, "borrow amount must be positive")
	}
	cfg, cdp, err := e.requireOpen(lender)
	if err != nil {
		return types.CDPView{}, err
	}
	e.accrue(cfg, cdp, now)
	trial := cdp.Clone()
	trial.AssetLent.Add(trial.AssetLent, amount)

	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return types.CDPView{}, err
	}
	ratio := e.ratio(cfg, trial, quote)
	if uint64(ratio) < cfg.MinCollatRatioBps {
		return types.CDPView{}, errors.New(errors.CodeInsufficientCollateralization, "additional borrow would drop ratio to %d bps below minimum %d bps", ratio, cfg.MinCollatRatioBps)
	}
	if err := e.ledger.Mint(lender, amount); err != nil {
		return types.CDPView{}, err
	}
	cdp.AssetLent = trial.AssetLent
	if err := e.store.PutCDP(lender.Bytes(), cdp); err != nil {
		return types.CDPView{}, err
	}
	e.emit(events.CDPEvent{Lender: lender.String(), Kind: events.TypeCDPBorrowed, XLMDeposited: cdp.XLMDeposited, AssetLent: cdp.AssetLent, CollatRatioBps: ratio, Status: cdp.Status})
	return types.CDPView{CDP: *cdp.Clone(), Lender: lender.String(), CollateralizationRatioBps: ratio}, nil
}

// PayInterest applies an XLM payment against a CDP's unpaid accrued
// interest, rejecting any portion beyond what is owed (spec §4.3/§7
// CodePaymentExceedsInterestDue).
func (e *Engine) PayInterest(lender crypto.Address, xlmAmount *big.Int, now uint64) (types.CDPView, error) {
	if err := e.guard(); err != nil {
		return types.CDPView{}, err
	}
	if xlmAmount == nil || xlmAmount.Sign() <= 0 {
		return types.CDPView{}, errors.New(errors.CodeValueNotPositive, "payment amount must be positive")
	}
	cfg, cdp, err := e.requireOpenOrInsolvent(lender)
	if err != nil {
		return types.CDPView{}, err
	}
	e.accrue(cfg, cdp, now)

	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return types.CDPView{}, err
	}
	owedXLM := priceeng.ConvertXAssetToXLM(cdp.AccruedInterest.Amount, quote.AssetPrice.Price, quote.XLMPrice.Price, quote.XLMFeedDecimals, quote.AssetFeedDecimals)
	if xlmAmount.Cmp(owedXLM) > 0 {
		return types.CDPView{}, errors.New(errors.CodePaymentExceedsInterestDue, "payment %s exceeds interest due %s", xlmAmount, owedXLM)
	}
	lenderXLM, err := e.reserve.Balance(lender)
	if err != nil {
		return types.CDPView{}, err
	}
	if lenderXLM.Cmp(xlmAmount) < 0 {
		return types.CDPView{}, errors.New(errors.CodeInsufficientXLMForInterest, "reserve balance %s below interest payment %s", lenderXLM, xlmAmount)
	}
	if err := e.reserve.Transfer(lender, e.treasury, xlmAmount); err != nil {
		return types.CDPView{}, err
	}

	paidFraction := new(big.Int).Mul(cdp.AccruedInterest.Amount, xlmAmount)
	if owedXLM.Sign() > 0 {
		paidFraction.Quo(paidFraction, owedXLM)
	} else {
		paidFraction.SetInt64(0)
	}
	cdp.AccruedInterest.Amount = priceeng.SaturatingSub(cdp.AccruedInterest.Amount, paidFraction)
	cdp.AccruedInterest.Paid.Add(cdp.AccruedInterest.Paid, xlmAmount)

	pool, ok, err := e.store.Pool()
	if err != nil {
		return types.CDPView{}, err
	}
	if ok {
		pool.InterestCollected.Add(pool.InterestCollected, xlmAmount)
		if err := e.store.PutPool(pool); err != nil {
			return types.CDPView{}, err
		}
	}

	ratio := e.ratio(cfg, cdp, quote)
	if err := e.store.PutCDP(lender.Bytes(), cdp); err != nil {
		return types.CDPView{}, err
	}
	e.emit(events.CDPEvent{Lender: lender.String(), Kind: events.TypeCDPRepaid, XLMDeposited: cdp.XLMDeposited, AssetLent: cdp.AssetLent, AccruedInterest: cdp.AccruedInterest.Amount, CollatRatioBps: ratio, Status: cdp.Status})
	return types.CDPView{CDP: *cdp.Clone(), Lender: lender.String(), CollateralizationRatioBps: ratio}, nil
}

// RepayDebt settles all accrued interest, then burns xAsset principal from
// the lender. It deletes the position only when both principal and deposited
// collateral are zero afterwards; otherwise the position stays stored and
// CloseCDP returns the remaining collateral.
func (e *Engine) RepayDebt(lender crypto.Address, assetAmount *big.Int, now uint64) (view types.CDPView, closed bool, err error) {
	defer func(start time.Time) { e.observe("repay_debt", start, err) }(time.Now())
	if err := e.guard(); err != nil {
		return types.CDPView{}, false, err
	}
	if assetAmount == nil || assetAmount.Sign() <= 0 {
		return types.CDPView{}, false, errors.New(errors.CodeValueNotPositive, "repay amount must be positive")
	}
	cfg, cdp, err := e.requireOpenOrInsolvent(lender)
	if err != nil {
		return types.CDPView{}, false, err
	}
	e.accrue(cfg, cdp, now)

	// Settle all outstanding interest first, drawing from the lender's
	// pre-approved XLM allowance (spec §6 repayment workflow: the caller
	// must have already approved the contract via GetAccruedInterest's
	// projection before calling repay_debt).
	if cdp.AccruedInterest.Amount.Sign() > 0 {
		quote, err := e.oracle.FetchQuote()
		if err != nil {
			return types.CDPView{}, false, err
		}
		owedXLM := priceeng.ConvertXAssetToXLM(cdp.AccruedInterest.Amount, quote.AssetPrice.Price, quote.XLMPrice.Price, quote.XLMFeedDecimals, quote.AssetFeedDecimals)
		if owedXLM.Sign() > 0 {
			if err := e.reserve.TransferFrom(e.treasury, lender, e.treasury, owedXLM, now); err != nil {
				return types.CDPView{}, false, err
			}
			cdp.AccruedInterest.Paid.Add(cdp.AccruedInterest.Paid, owedXLM)
			if pool, ok, perr := e.store.Pool(); perr == nil && ok {
				pool.InterestCollected.Add(pool.InterestCollected, owedXLM)
				e.store.PutPool(pool)
			}
		}
		cdp.AccruedInterest.Amount = big.NewInt(0)
	}

	if assetAmount.Cmp(cdp.AssetLent) > 0 {
		return types.CDPView{}, false, errors.New(errors.CodeRepaymentExceedsDebt, "repay %s exceeds outstanding principal %s", assetAmount, cdp.AssetLent)
	}
	if err := e.ledger.Burn(lender, assetAmount); err != nil {
		return types.CDPView{}, false, err
	}
	cdp.AssetLent.Sub(cdp.AssetLent, assetAmount)

	if cdp.AssetLent.Sign() == 0 && cdp.XLMDeposited.Sign() == 0 {
		e.store.DeleteCDP(lender.Bytes())
		e.emit(events.CDPEvent{Lender: lender.String(), Kind: events.TypeCDPClosed, XLMDeposited: big.NewInt(0), AssetLent: big.NewInt(0), Status: types.CDPOpen})
		return types.CDPView{}, true, nil
	}

	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return types.CDPView{}, false, err
	}
	ratio := e.ratio(cfg, cdp, quote)
	if ratio >= uint32(cfg.MinCollatRatioBps) {
		cdp.Status = types.CDPOpen
	}
	if err := e.store.PutCDP(lender.Bytes(), cdp); err != nil {
		return types.CDPView{}, false, err
	}
	e.emit(events.CDPEvent{Lender: lender.String(), Kind: events.TypeCDPRepaid, XLMDeposited: cdp.XLMDeposited, AssetLent: cdp.AssetLent, CollatRatioBps: ratio, Status: cdp.Status})
	return types.CDPView{CDP: *cdp.Clone(), Lender: lender.String(), CollateralizationRatioBps: ratio}, false, nil
}

// CloseCDP removes a fully repaid position and returns its remaining
// collateral to the lender (spec §4.4/§6: "only when asset_lent = 0;
// returns any remaining collateral; removes the record"). RepayDebt already
// closes the position automatically when both debt and collateral reach
// zero together; CloseCDP handles the remaining case where collateral is
// still on deposit after the debt side was cleared.
func (e *Engine) CloseCDP(lender crypto.Address, now uint64) (err error) {
	defer func(start time.Time) { e.observe("close_cdp", start, err) }(time.Now())
	if err := e.guard(); err != nil {
		return err
	}
	cfg, cdp, ok, err := e.lookupCDP(lender)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New(errors.CodeCDPNotFound, "no position for lender")
	}
	e.accrue(cfg, cdp, now)
	if cdp.AssetLent.Sign() != 0 {
		return errors.New(errors.CodeOutstandingDebt, "principal %s still owed; call repay_debt first", cdp.AssetLent)
	}
	if cdp.XLMDeposited.Sign() > 0 {
		if err := e.reserve.Transfer(e.treasury, lender, cdp.XLMDeposited); err != nil {
			return err
		}
	}
	e.store.DeleteCDP(lender.Bytes())
	e.emit(events.CDPEvent{Lender: lender.String(), Kind: events.TypeCDPClosed, XLMDeposited: big.NewInt(0), AssetLent: big.NewInt(0), Status: types.CDPOpen})
	return nil
}

// FreezeCDP transitions an insolvent position into the frozen state once its
// live ratio is found below the configured minimum, stopping further
// interest accrual on it (spec §4.4's Open->Insolvent->Frozen lifecycle).
// Permissionless: any caller may trigger it once the condition holds.
func (e *Engine) FreezeCDP(lender crypto.Address, now uint64) (view types.CDPView, err error) {
	defer func(start time.Time) { e.observe("freeze_cdp", start, err) }(time.Now())
	if err := e.guard(); err != nil {
		return types.CDPView{}, err
	}
	cfg, cdp, ok, err := e.lookupCDP(lender)
	if err != nil {
		return types.CDPView{}, err
	}
	if !ok {
		return types.CDPView{}, errors.New(errors.CodeCDPNotFound, "no position for lender")
	}
	if cdp.Status == types.CDPFrozen {
		return types.CDPView{}, errors.New(errors.CodeCDPNotInsolvent, "position already frozen")
	}
	e.accrue(cfg, cdp, now)

	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return types.CDPView{}, err
	}
	ratio := e.ratio(cfg, cdp, quote)
	if uint64(ratio) >= cfg.MinCollatRatioBps {
		return types.CDPView{}, errors.New(errors.CodeCDPNotInsolvent, "ratio %d bps still meets minimum %d bps", ratio, cfg.MinCollatRatioBps)
	}
	cdp.Status = types.CDPFrozen
	if err := e.store.PutCDP(lender.Bytes(), cdp); err != nil {
		return types.CDPView{}, err
	}
	e.emit(events.CDPEvent{Lender: lender.String(), Kind: events.TypeCDPFrozen, XLMDeposited: cdp.XLMDeposited, AssetLent: cdp.AssetLent, CollatRatioBps: ratio, Status: cdp.Status})
	e.metrics.RecordCollatRatio(lender.String(), ratio)
	return types.CDPView{CDP: *cdp.Clone(), Lender: lender.String(), CollateralizationRatioBps: ratio}, nil
}

// MergeCDPs combines two or more frozen positions into the first address's
// frozen position, summing collateral, principal, and unpaid interest across
// every member and resetting the merged record's last_interest_time to now
// (spec §4.4, §7 CodeInvalidMerge for fewer than two members, a repeated
// address, or any non-frozen input).
func (e *Engine) MergeCDPs(lenders []crypto.Address, now uint64) (types.CDPView, error) {
	if err := e.guard(); err != nil {
		return types.CDPView{}, err
	}
	if len(lenders) < 2 {
		return types.CDPView{}, errors.New(errors.CodeInvalidMerge, "merge requires at least two positions")
	}

	primary := lenders[0]
	seen := map[string]bool{primary.String(): true}

	cfg, mine, ok, err := e.lookupCDP(primary)
	if err != nil {
		return types.CDPView{}, err
	}
	if !ok || mine.Status != types.CDPFrozen {
		return types.CDPView{}, errors.New(errors.CodeInvalidMerge, "primary position must be frozen to merge")
	}

	for _, other := range lenders[1:] {
		key := other.String()
		if seen[key] {
			return types.CDPView{}, errors.New(errors.CodeInvalidMerge, "cannot merge a position with itself")
		}
		seen[key] = true

		_, theirs, ok, err := e.lookupCDP(other)
		if err != nil {
			return types.CDPView{}, err
		}
		if !ok || theirs.Status != types.CDPFrozen {
			return types.CDPView{}, errors.New(errors.CodeInvalidMerge, "source position must be frozen to merge")
		}

		mine.XLMDeposited.Add(mine.XLMDeposited, theirs.XLMDeposited)
		mine.AssetLent.Add(mine.AssetLent, theirs.AssetLent)
		mine.AccruedInterest.Amount.Add(mine.AccruedInterest.Amount, theirs.AccruedInterest.Amount)
		mine.AccruedInterest.Paid.Add(mine.AccruedInterest.Paid, theirs.AccruedInterest.Paid)
		e.store.DeleteCDP(other.Bytes())
	}

	mine.LastInterestTime = now
	if err := e.store.PutCDP(primary.Bytes(), mine); err != nil {
		return types.CDPView{}, err
	}

	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return types.CDPView{}, err
	}
	ratio := e.ratio(cfg, mine, quote)
	e.emit(events.CDPEvent{Lender: primary.String(), Kind: events.TypeCDPMerged, XLMDeposited: mine.XLMDeposited, AssetLent: mine.AssetLent, CollatRatioBps: ratio, Status: mine.Status})
	return types.CDPView{CDP: *mine.Clone(), Lender: primary.String(), CollateralizationRatioBps: ratio}, nil
}

// GetCDP returns the decorated, never-persisted view of a lender's position.
func (e *Engine) GetCDP(lender crypto.Address, now uint64) (types.CDPView, error) {
	cfg, cdp, ok, err := e.lookupCDP(lender)
	if err != nil {
		return types.CDPView{}, err
	}
	if !ok {
		return types.CDPView{}, errors.New(errors.CodeCDPNotFound, "no position for lender")
	}
	e.accrue(cfg, cdp, now)
	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return types.CDPView{}, err
	}
	ratio := e.ratio(cfg, cdp, quote)
	return types.CDPView{CDP: *cdp.Clone(), Lender: lender.String(), CollateralizationRatioBps: ratio}, nil
}

// GetAccruedInterest returns the projected XLM approval amount a caller
// should request before calling RepayDebt/PayInterest (spec §4.3's 5-minute
// forward-looking projection).
func (e *Engine) GetAccruedInterest(lender crypto.Address, now uint64) (*big.Int, error) {
	cfg, cdp, ok, err := e.lookupCDP(lender)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New(errors.CodeCDPNotFound, "no position for lender")
	}
	quote, err := e.oracle.FetchQuote()
	if err != nil {
		return nil, err
	}
	return interestaccrual.ProjectApprovalXLM(cdp.AccruedInterest, cdp.LastInterestTime, now, cfg.InterestRateBps, cdp.AssetLent, quote.AssetPrice.Price, quote.XLMPrice.Price, quote.XLMFeedDecimals, quote.AssetFeedDecimals), nil
}

func (e *Engine) lookupCDP(lender crypto.Address) (*types.Config, *types.CDP, bool, error) {
	cfg, err := e.config()
	if err != nil {
		return nil, nil, false, err
	}
	cdp, ok, err := e.store.CDP(lender.Bytes())
	if err != nil || !ok {
		return cfg, nil, ok, err
	}
	return cfg, cdp, true, nil
}

func (e *Engine) requireOpen(lender crypto.Address) (*types.Config, *types.CDP, error) {
	cfg, cdp, ok, err := e.lookupCDP(lender)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errors.New(errors.CodeCDPNotFound, "no position for lender")
	}
	if cdp.Status != types.CDPOpen {
		return nil, nil, errors.New(errors.CodeCDPNotOpen, "position is not open")
	}
	return cfg, cdp, nil
}

func (e *Engine) requireOpenOrInsolvent(lender crypto.Address) (*types.Config, *types.CDP, error) {
	cfg, cdp, ok, err := e.lookupCDP(lender)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, errors.New(errors.CodeCDPNotFound, "no position for lender")
	}
	if cdp.Status == types.CDPFrozen {
		return nil, nil, errors.New(errors.CodeCDPNotOpenOrInsolvent, "position is frozen")
	}
	return cfg, cdp, nil
}
