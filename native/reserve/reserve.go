// Package reserve models the native reserve-asset (XLM) transfer facility
// the core consumes rather than implements (spec §1: "the native
// reserve-asset transfer facility... is a pure transfer interface", §6:
// "transfer(from, to, amount), transfer_from(spender, from, to, amount),
// balance(id), approve(from, spender, amount, live_until_ledger)"). It is
// grounded on native/ledger's Transfer/Approve/TransferFrom shape, trimmed
// to the four calls the reserve asset's own contract exposes: no mint,
// burn, or authorization flag, since supply of the reserve asset is not
// managed by this protocol.
package reserve

import (
	"math/big"

	"xassetcore/core/errors"
	"xassetcore/core/state"
	"xassetcore/core/types"
	"xassetcore/crypto"
)

// Engine is the in-process stand-in for the external reserve-asset
// contract's transfer surface, scoped to balances this protocol instance has
// observed (collateral deposits, fees, and rewards all flow through it).
type Engine struct {
	store *state.Store
}

// New constructs a reserve-asset engine bound to the shared persistence
// layer, keyed separately from the xAsset ledger's own balances (see
// core/state/reserve.go).
func New(store *state.Store) *Engine {
	return &Engine{store: store}
}

// Balance returns addr's current native reserve-asset balance.
func (e *Engine) Balance(addr crypto.Address) (*big.Int, error) {
	return e.store.ReserveBalance(addr.Bytes())
}

// Fund credits amount to addr without debiting anywhere else. It is the Go
// stand-in for a wallet's external XLM deposit landing in this contract's
// view of the world before any core entry point is invoked; it is never
// reachable from a public CDP/pool operation.
func (e *Engine) Fund(addr crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New(errors.CodeValueNotPositive, "fund amount must be positive")
	}
	bal, err := e.store.ReserveBalance(addr.Bytes())
	if err != nil {
		return err
	}
	bal.Add(bal, amount)
	return e.store.PutReserveBalance(addr.Bytes(), bal)
}

// Transfer moves amount of the reserve asset directly from from to to,
// failing with CodeXLMTransferFailed if from's balance is insufficient
// (spec §7: transport/settlement failures against the native asset surface
// as XLMTransferFailed rather than the xAsset ledger's InsufficientBalance).
func (e *Engine) Transfer(from, to crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New(errors.CodeValueNotPositive, "transfer amount must be positive")
	}
	fromBal, err := e.store.ReserveBalance(from.Bytes())
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return errors.New(errors.CodeXLMTransferFailed, "reserve balance %s below transfer amount %s", fromBal, amount)
	}
	toBal, err := e.store.ReserveBalance(to.Bytes())
	if err != nil {
		return err
	}
	fromBal.Sub(fromBal, amount)
	toBal.Add(toBal, amount)
	if err := e.store.PutReserveBalance(from.Bytes(), fromBal); err != nil {
		return err
	}
	return e.store.PutReserveBalance(to.Bytes(), toBal)
}

// Approve grants spender an allowance over owner's reserve-asset balance
// until liveUntilLedger, rejecting an already-expired window (spec §5
// "live_until_ledger < current_ledger on approve is rejected").
func (e *Engine) Approve(owner, spender crypto.Address, amount *big.Int, liveUntilLedger, currentLedger uint64) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New(errors.CodeValueNotPositive, "allowance amount must not be negative")
	}
	if liveUntilLedger < currentLedger {
		return errors.New(errors.CodeInvalidLedgerSequence, "live_until_ledger %d precedes current ledger %d", liveUntilLedger, currentLedger)
	}
	return e.store.PutReserveAllowance(owner.Bytes(), spender.Bytes(), &types.Allowance{
		Amount:          new(big.Int).Set(amount),
		LiveUntilLedger: liveUntilLedger,
	})
}

// TransferFrom spends down an allowance and moves the reserve asset,
// failing with CodeInsufficientApprovedXLMForInterestRepayment when the
// grant is missing, expired, or short — the error the repayment workflow
// (spec §6) surfaces when a lender's approval doesn't cover settlement.
func (e *Engine) TransferFrom(spender, from, to crypto.Address, amount *big.Int, currentLedger uint64) error {
	allow, err := e.store.ReserveAllowance(from.Bytes(), spender.Bytes())
	if err != nil {
		return err
	}
	if allow.LiveUntilLedger < currentLedger || allow.Amount.Cmp(amount) < 0 {
		return errors.New(errors.CodeInsufficientApprovedXLMForInterestRepayment, "approved %s (expires %d) below requested %s at ledger %d", allow.Amount, allow.LiveUntilLedger, amount, currentLedger)
	}
	if err := e.Transfer(from, to, amount); err != nil {
		return err
	}
	allow.Amount.Sub(allow.Amount, amount)
	if allow.Amount.Sign() == 0 {
		e.store.DeleteReserveAllowance(from.Bytes(), spender.Bytes())
		return nil
	}
	return e.store.PutReserveAllowance(from.Bytes(), spender.Bytes(), allow)
}
