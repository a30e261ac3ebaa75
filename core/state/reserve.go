package state

import (
	"math/big"

	"xassetcore/core/types"
)

// Reserve balances and allowances are namespaced separately from the xAsset
// token's own balance/allowance records (core/state/ledger.go) so the two
// assets never collide under the same (owner, spender) key, per spec §6's
// native reserve asset (XLM) carrying its own transfer/approve surface
// independent of the synthetic's SEP-41 ledger.
var (
	reserveBalancePrefix   = []byte("xasset/reserve/balance/")
	reserveAllowancePrefix = []byte("xasset/reserve/allowance/")
)

// ReserveBalance returns an address's native reserve-asset (XLM) balance,
// zero if never set.
func (s *Store) ReserveBalance(addr []byte) (*big.Int, error) {
	var amount big.Int
	ok, err := s.get(namespacedKey(reserveBalancePrefix, addr), &amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return &amount, nil
}

// PutReserveBalance persists an address's native reserve-asset balance.
func (s *Store) PutReserveBalance(addr []byte, amount *big.Int) error {
	return s.put(namespacedKey(reserveBalancePrefix, addr), amount)
}

func reserveAllowanceKey(owner, spender []byte) []byte {
	id := make([]byte, 0, len(owner)+len(spender))
	id = append(id, owner...)
	id = append(id, spender...)
	return namespacedKey(reserveAllowancePrefix, id)
}

// ReserveAllowance returns the native reserve-asset spend grant from owner to
// spender, zero if unset.
func (s *Store) ReserveAllowance(owner, spender []byte) (*types.Allowance, error) {
	var allow types.Allowance
	ok, err := s.get(reserveAllowanceKey(owner, spender), &allow)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Allowance{Amount: big.NewInt(0)}, nil
	}
	return &allow, nil
}

// PutReserveAllowance persists a native reserve-asset spend grant.
func (s *Store) PutReserveAllowance(owner, spender []byte, allow *types.Allowance) error {
	return s.put(reserveAllowanceKey(owner, spender), allow)
}

// DeleteReserveAllowance clears a native reserve-asset spend grant entirely.
func (s *Store) DeleteReserveAllowance(owner, spender []byte) {
	s.kv.Delete(reserveAllowanceKey(owner, spender))
}
