package state

import (
	"encoding/binary"

	"xassetcore/core/types"
)

// Config returns the singleton protocol configuration, or ok=false if the
// contract has never been initialized (spec §9 one-shot construction).
func (s *Store) Config() (*types.Config, bool, error) {
	var cfg types.Config
	ok, err := s.get(configKey, &cfg)
	if err != nil || !ok {
		return nil, false, err
	}
	return &cfg, true, nil
}

// PutConfig persists the singleton configuration.
func (s *Store) PutConfig(cfg *types.Config) error {
	return s.put(configKey, cfg)
}

// Pool returns the singleton stability-pool accounting state.
func (s *Store) Pool() (*types.PoolState, bool, error) {
	var pool types.PoolState
	ok, err := s.get(poolKey, &pool)
	if err != nil || !ok {
		return nil, false, err
	}
	return &pool, true, nil
}

// PutPool persists the singleton stability-pool state.
func (s *Store) PutPool(pool *types.PoolState) error {
	return s.put(poolKey, pool)
}

// CDP returns the lender's collateralized debt position, or ok=false if none
// is open (spec §3: "status = Closed ⇔ record is removed from storage").
func (s *Store) CDP(lender []byte) (*types.CDP, bool, error) {
	var cdp types.CDP
	ok, err := s.get(namespacedKey(cdpPrefix, lender), &cdp)
	if err != nil || !ok {
		return nil, false, err
	}
	return &cdp, true, nil
}

// PutCDP persists a lender's CDP.
func (s *Store) PutCDP(lender []byte, cdp *types.CDP) error {
	return s.put(namespacedKey(cdpPrefix, lender), cdp)
}

// DeleteCDP removes a lender's CDP record entirely, the Go equivalent of the
// Soroban contract's storage remove on close.
func (s *Store) DeleteCDP(lender []byte) {
	s.kv.Delete(namespacedKey(cdpPrefix, lender))
}

// Position returns a staker's stability-pool claim.
func (s *Store) Position(staker []byte) (*types.StakerPosition, bool, error) {
	var pos types.StakerPosition
	ok, err := s.get(namespacedKey(positionPrefix, staker), &pos)
	if err != nil || !ok {
		return nil, false, err
	}
	return &pos, true, nil
}

// PutPosition persists a staker's stability-pool claim.
func (s *Store) PutPosition(staker []byte, pos *types.StakerPosition) error {
	return s.put(namespacedKey(positionPrefix, staker), pos)
}

// DeletePosition removes a staker's position, used on full unstake.
func (s *Store) DeletePosition(staker []byte) {
	s.kv.Delete(namespacedKey(positionPrefix, staker))
}

// CompoundRecord returns the epoch-indexed compound snapshot.
func (s *Store) CompoundRecord(epoch uint64) (*types.CompoundRecord, bool, error) {
	var rec types.CompoundRecord
	ok, err := s.get(namespacedKey(compoundPrefix, epochID(epoch)), &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// PutCompoundRecord persists the epoch-indexed compound snapshot.
func (s *Store) PutCompoundRecord(epoch uint64, rec *types.CompoundRecord) error {
	return s.put(namespacedKey(compoundPrefix, epochID(epoch)), rec)
}

// InterestRecord returns the epoch-indexed cumulative interest snapshot.
func (s *Store) InterestRecord(epoch uint64) (*types.InterestRecord, bool, error) {
	var rec types.InterestRecord
	ok, err := s.get(namespacedKey(interestPrefix, epochID(epoch)), &rec)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rec, true, nil
}

// PutInterestRecord persists the epoch-indexed cumulative interest snapshot.
func (s *Store) PutInterestRecord(epoch uint64, rec *types.InterestRecord) error {
	return s.put(namespacedKey(interestPrefix, epochID(epoch)), rec)
}

func epochID(epoch uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, epoch)
	return b
}
