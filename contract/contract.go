// Package contract composes the native xAsset engines (ledger, cdp,
// stabilitypool, access) into the single external surface a client invokes,
// grounded on the teacher's pattern of a top-level module composing several
// native/* engines behind one set of entry points (see cmd/nhb-cli's command
// dispatch over native/lending + native/swap + native/staking). The spec §6
// operations are the exported methods of the engines held in Contract's
// fields; Contract itself adds only Liquidate and BalanceOf. The auth
// discipline documented in the Soroban original ("lender.require_auth()" /
// "admin.require_auth()") is represented here by the caller supplying their
// own crypto.Address. Admin-gated calls compare it against the stored admin;
// lender- and staker-side calls take the address as given and do not
// authenticate it.
package contract

import (
	"math/big"

	"xassetcore/core/errors"
	"xassetcore/core/events"
	"xassetcore/core/state"
	"xassetcore/core/types"
	"xassetcore/crypto"
	"xassetcore/internal/oracle"
	"xassetcore/native/access"
	"xassetcore/native/cdp"
	"xassetcore/native/ledger"
	"xassetcore/native/reserve"
	"xassetcore/native/stabilitypool"
)

// Contract is the fully wired xAsset protocol instance.
type Contract struct {
	Store   *state.Store
	Ledger  *ledger.Ledger
	Reserve *reserve.Engine
	CDP     *cdp.Engine
	Pool    *stabilitypool.Engine
	Access  *access.Engine
}

// New constructs a Contract over a freshly wired store and oracle adapter.
// treasury is the custody address collateral and settled interest accumulate
// under; poolAddr is the address the stability pool holds stakers' unclaimed
// XLM rewards under, mirroring native/lending.NewEngine's
// (moduleAddr, collateralAddr) construction-time custody pair. The caller
// must invoke Access.Init before any other entry point will succeed (spec
// §4.7 one-shot construction).
func New(store *state.Store, admin crypto.Address, name, symbol string, decimals uint32, adapter *oracle.Adapter, emitter events.Emitter, treasury, poolAddr crypto.Address) *Contract {
	led := ledger.New(store, admin, name, symbol, decimals)
	res := reserve.New(store)
	cdpEngine := cdp.NewEngine(store, led, adapter, res, treasury)
	poolEngine := stabilitypool.NewEngine(store, led, adapter, res, treasury, poolAddr)
	if emitter != nil {
		cdpEngine.SetEmitter(emitter)
		poolEngine.SetEmitter(emitter)
	}
	return &Contract{
		Store:   store,
		Ledger:  led,
		Reserve: res,
		CDP:     cdpEngine,
		Pool:    poolEngine,
		Access:  access.NewEngine(store),
	}
}

// Liquidate is the cross-module entry point spec §4.4/§4.5 describes: a
// frozen CDP's debt is absorbed by the stability pool, interest first, then
// principal, with the resulting collateral credited to the pool. The pool
// engine itself enforces the short-circuit and owns the CDP record mutation.
func (c *Contract) Liquidate(lender crypto.Address, now uint64) error {
	view, err := c.CDP.GetCDP(lender, now)
	if err != nil {
		return err
	}
	if view.Status != types.CDPFrozen {
		return errors.New(errors.CodeInvalidLiquidation, "position must be frozen before liquidation")
	}
	_, _, _, err = c.Pool.Liquidate(lender, now)
	return err
}

// BalanceOf is a convenience read exposed directly on the contract, mirroring
// the token surface a client expects alongside the CDP/pool operations.
func (c *Contract) BalanceOf(addr crypto.Address) (*big.Int, error) {
	return c.Ledger.BalanceOf(addr)
}
