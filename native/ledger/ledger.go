// Package ledger implements the xAsset fungible token surface: balances,
// allowances, mint/burn/clawback, and the authorized-holder flag, grounded
// on native/lending's engineState-injection pattern (native/lending/engine.go)
// and on core/state's balance/allowance prefixes generalized with the SEP-41
// allowance semantics spec §4.6/§6 describe.
package ledger

import (
	"math/big"

	"xassetcore/core/errors"
	"xassetcore/core/state"
	"xassetcore/core/types"
	"xassetcore/crypto"
)

// Ledger is the fungible token engine for the xAsset synthetic itself.
type Ledger struct {
	store  *state.Store
	admin  crypto.Address
	name   string
	symbol string
	decim  uint32
}

// New constructs a ledger bound to the given persistence layer and token
// metadata (spec §3 Config.name/symbol/decimals).
func New(store *state.Store, admin crypto.Address, name, symbol string, decimals uint32) *Ledger {
	return &Ledger{store: store, admin: admin, name: name, symbol: symbol, decim: decimals}
}

func (l *Ledger) Name() string       { return l.name }
func (l *Ledger) Symbol() string     { return l.symbol }
func (l *Ledger) Decimals() uint32   { return l.decim }

// BalanceOf returns an address's current xAsset balance.
func (l *Ledger) BalanceOf(addr crypto.Address) (*big.Int, error) {
	return l.store.Balance(addr.Bytes())
}

// SpendableBalance returns the balance available to spend; identical to
// BalanceOf for this token since there is no locking concept (spec §6).
func (l *Ledger) SpendableBalance(addr crypto.Address) (*big.Int, error) {
	return l.BalanceOf(addr)
}

// Authorized reports whether an address may hold/transfer the token.
func (l *Ledger) Authorized(addr crypto.Address) (bool, error) {
	return l.store.Authorized(addr.Bytes())
}

// SetAuthorized is an admin-gated toggle of an address's authorization flag
// (SEP-41 "set_authorized").
func (l *Ledger) SetAuthorized(caller, target crypto.Address, authorized bool) error {
	if !caller.Equal(l.admin) {
		return errors.New(errors.CodeNotAuthorized, "only admin may set authorization")
	}
	l.store.SetAuthorized(target.Bytes(), authorized)
	return nil
}

// Mint credits amount to to, used internally by the CDP engine on open and
// borrow and by the stability pool when it returns xAsset on withdraw and
// unstake. It performs no caller or admin check of its own; any holder of
// the Ledger can call it.
func (l *Ledger) Mint(to crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New(errors.CodeValueNotPositive, "mint amount must be positive")
	}
	if err := l.requireAuthorized(to); err != nil {
		return err
	}
	bal, err := l.store.Balance(to.Bytes())
	if err != nil {
		return err
	}
	bal.Add(bal, amount)
	return l.store.PutBalance(to.Bytes(), bal)
}

// Burn debits amount from from, used by the CDP engine on repay and by the
// stability pool when a staker stakes or deposits xAsset.
func (l *Ledger) Burn(from crypto.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return errors.New(errors.CodeValueNotPositive, "burn amount must be positive")
	}
	bal, err := l.store.Balance(from.Bytes())
	if err != nil {
		return err
	}
	if bal.Cmp(amount) < 0 {
		return errors.New(errors.CodeInsufficientBalance, "balance %s below burn amount %s", bal, amount)
	}
	bal.Sub(bal, amount)
	return l.store.PutBalance(from.Bytes(), bal)
}

// Clawback is an admin-gated forced burn (SEP-41 "clawback"), used to correct
// protocol accounting errors without requiring the holder's cooperation.
func (l *Ledger) Clawback(caller, from crypto.Address, amount *big.Int) error {
	if !caller.Equal(l.admin) {
		return errors.New(errors.CodeNotAuthorized, "only admin may clawback")
	}
	return l.Burn(from, amount)
}

// Transfer moves amount directly from caller to to.
func (l *Ledger) Transfer(from, to crypto.Address, amount *big.Int) error {
	if from.Equal(to) {
		return errors.New(errors.CodeCannotTransferToSelf, "cannot transfer to self")
	}
	if amount == nil || amount.Sign() <= 0 {
		return errors.New(errors.CodeValueNotPositive, "transfer amount must be positive")
	}
	if err := l.requireAuthorized(from); err != nil {
		return err
	}
	if err := l.requireAuthorized(to); err != nil {
		return err
	}
	fromBal, err := l.store.Balance(from.Bytes())
	if err != nil {
		return err
	}
	if fromBal.Cmp(amount) < 0 {
		return errors.New(errors.CodeInsufficientBalance, "balance %s below transfer amount %s", fromBal, amount)
	}
	toBal, err := l.store.Balance(to.Bytes())
	if err != nil {
		return err
	}
	fromBal.Sub(fromBal, amount)
	toBal.Add(toBal, amount)
	if err := l.store.PutBalance(from.Bytes(), fromBal); err != nil {
		return err
	}
	return l.store.PutBalance(to.Bytes(), toBal)
}

// Approve grants spender an allowance over caller's balance until liveUntilLedger.
func (l *Ledger) Approve(owner, spender crypto.Address, amount *big.Int, liveUntilLedger uint64) error {
	if amount == nil || amount.Sign() < 0 {
		return errors.New(errors.CodeValueNotPositive, "allowance amount must not be negative")
	}
	return l.store.PutAllowance(owner.Bytes(), spender.Bytes(), &types.Allowance{
		Amount:          new(big.Int).Set(amount),
		LiveUntilLedger: liveUntilLedger,
	})
}

// AllowanceOf returns the current spend grant from owner to spender.
func (l *Ledger) AllowanceOf(owner, spender crypto.Address) (*types.Allowance, error) {
	return l.store.Allowance(owner.Bytes(), spender.Bytes())
}

// TransferFrom spends down an allowance and moves the funds, per SEP-41.
func (l *Ledger) TransferFrom(spender, from, to crypto.Address, amount *big.Int, currentLedger uint64) error {
	allow, err := l.store.Allowance(from.Bytes(), spender.Bytes())
	if err != nil {
		return err
	}
	if allow.LiveUntilLedger < currentLedger || allow.Amount.Cmp(amount) < 0 {
		return errors.New(errors.CodeInsufficientAllowance, "allowance %s expired or below requested %s", allow.Amount, amount)
	}
	if err := l.Transfer(from, to, amount); err != nil {
		return err
	}
	allow.Amount.Sub(allow.Amount, amount)
	if allow.Amount.Sign() == 0 {
		l.store.DeleteAllowance(from.Bytes(), spender.Bytes())
		return nil
	}
	return l.store.PutAllowance(from.Bytes(), spender.Bytes(), allow)
}

func (l *Ledger) requireAuthorized(addr crypto.Address) error {
	authorized, err := l.store.Authorized(addr.Bytes())
	if err != nil {
		return err
	}
	if !authorized {
		return errors.New(errors.CodeNotAuthorized, "address is deauthorized")
	}
	return nil
}
