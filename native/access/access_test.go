package access

import (
	"testing"

	"xassetcore/core/state"
	"xassetcore/core/types"
	"xassetcore/crypto"
)

func addr(suffix byte) crypto.Address {
	raw := make([]byte, 20)
	raw[len(raw)-1] = suffix
	return crypto.MustNewAddress(crypto.AccountPrefix, raw)
}

func TestInitRejectsReinitialization(t *testing.T) {
	store := state.NewStore(nil)
	engine := NewEngine(store)
	admin := addr(0x01)

	if _, err := engine.Init(admin, types.Config{Name: "xUSD", Symbol: "xUSD", Decimals: 7}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := engine.Init(admin, types.Config{Name: "xUSD", Symbol: "xUSD", Decimals: 7}); err == nil {
		t.Fatal("expected already-initialized error")
	}
}

func TestSetMinCollatRatioRequiresAdmin(t *testing.T) {
	store := state.NewStore(nil)
	engine := NewEngine(store)
	admin, other := addr(0x01), addr(0x02)
	if _, err := engine.Init(admin, types.Config{MinCollatRatioBps: 15000}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := engine.SetMinCollatRatio(other, 20000); err == nil {
		t.Fatal("expected not-authorized error for non-admin caller")
	}
	if err := engine.SetMinCollatRatio(admin, 20000); err != nil {
		t.Fatalf("SetMinCollatRatio: %v", err)
	}
	rate, err := engine.GetInterestRate()
	if err != nil {
		t.Fatalf("GetInterestRate: %v", err)
	}
	if rate != 0 {
		t.Fatalf("expected default interest rate of 0, got %d", rate)
	}
}

func TestSetMinCollatRatioRejectsBelowOneHundredPercent(t *testing.T) {
	store := state.NewStore(nil)
	engine := NewEngine(store)
	admin := addr(0x01)
	if _, err := engine.Init(admin, types.Config{MinCollatRatioBps: 15000}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := engine.SetMinCollatRatio(admin, 5000); err == nil {
		t.Fatal("expected rejection of sub-100%% minimum ratio")
	}
}

func TestInitDefaultsFeesWhenUnset(t *testing.T) {
	store := state.NewStore(nil)
	engine := NewEngine(store)
	admin := addr(0x01)

	cfg, err := engine.Init(admin, types.Config{Name: "xUSD", Symbol: "xUSD", Decimals: 7})
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if cfg.DepositFee == nil || cfg.DepositFee.Cmp(types.DepositFee) != 0 {
		t.Fatalf("expected default deposit fee %s, got %v", types.DepositFee, cfg.DepositFee)
	}
	if cfg.StakeFee == nil || cfg.StakeFee.Cmp(types.StakeFee) != 0 {
		t.Fatalf("expected default stake fee %s, got %v", types.StakeFee, cfg.StakeFee)
	}
	if cfg.UnstakeReturn == nil || cfg.UnstakeReturn.Cmp(types.UnstakeReturn) != 0 {
		t.Fatalf("expected default unstake return %s, got %v", types.UnstakeReturn, cfg.UnstakeReturn)
	}
}

func TestUpgradeRequiresAdminAndNonEmptyHash(t *testing.T) {
	store := state.NewStore(nil)
	engine := NewEngine(store)
	admin, other := addr(0x01), addr(0x02)
	if _, err := engine.Init(admin, types.Config{}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if err := engine.Upgrade(other, "deadbeef"); err == nil {
		t.Fatal("expected not-authorized error for non-admin caller")
	}
	if err := engine.Upgrade(admin, ""); err == nil {
		t.Fatal("expected rejection of empty code hash")
	}
	if err := engine.Upgrade(admin, "deadbeef"); err != nil {
		t.Fatalf("Upgrade: %v", err)
	}
}

func TestOperationsBeforeInitFail(t *testing.T) {
	store := state.NewStore(nil)
	engine := NewEngine(store)
	admin := addr(0x01)

	if err := engine.SetInterestRate(admin, 500); err == nil {
		t.Fatal("expected not-initialized error before Init")
	}
	if _, err := engine.GetInterestRate(); err == nil {
		t.Fatal("expected not-initialized error before Init")
	}
}
