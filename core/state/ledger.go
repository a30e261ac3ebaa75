package state

import (
	"math/big"

	"xassetcore/core/types"
)

// Balance returns an address's xAsset token balance, zero if never set.
func (s *Store) Balance(addr []byte) (*big.Int, error) {
	var amount big.Int
	ok, err := s.get(namespacedKey(balancePrefix, addr), &amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return &amount, nil
}

// PutBalance persists an address's xAsset token balance.
func (s *Store) PutBalance(addr []byte, amount *big.Int) error {
	return s.put(namespacedKey(balancePrefix, addr), amount)
}

// allowanceKey derives the allowance record key from the (owner, spender) pair,
// grounded on the teacher's convention of deriving compound keys by
// concatenating the two address byte slices before hashing.
func allowanceKey(owner, spender []byte) []byte {
	id := make([]byte, 0, len(owner)+len(spender))
	id = append(id, owner...)
	id = append(id, spender...)
	return namespacedKey(allowancePrefix, id)
}

// Allowance returns the spend grant from owner to spender, zero if unset.
func (s *Store) Allowance(owner, spender []byte) (*types.Allowance, error) {
	var allow types.Allowance
	ok, err := s.get(allowanceKey(owner, spender), &allow)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &types.Allowance{Amount: big.NewInt(0)}, nil
	}
	return &allow, nil
}

// PutAllowance persists a spend grant.
func (s *Store) PutAllowance(owner, spender []byte, allow *types.Allowance) error {
	return s.put(allowanceKey(owner, spender), allow)
}

// DeleteAllowance clears a spend grant entirely, used once its amount has
// been spent down to zero.
func (s *Store) DeleteAllowance(owner, spender []byte) {
	s.kv.Delete(allowanceKey(owner, spender))
}

// Authorized reports whether an address is permitted to hold/transfer the
// token; unset addresses default to authorized per spec §4.6.
func (s *Store) Authorized(addr []byte) (bool, error) {
	raw, ok := s.kv.Get(namespacedKey(authorizedPrefix, addr))
	if !ok {
		return true, nil
	}
	return len(raw) == 1 && raw[0] == 1, nil
}

// SetAuthorized persists an address's authorization flag.
func (s *Store) SetAuthorized(addr []byte, authorized bool) {
	value := byte(0)
	if authorized {
		value = 1
	}
	s.kv.Put(namespacedKey(authorizedPrefix, addr), []byte{value})
}
