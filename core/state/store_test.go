package state

import (
	"math/big"
	"testing"

	"xassetcore/core/types"
)

func TestConfigRoundTrip(t *testing.T) {
	store := NewStore(nil)
	if _, ok, err := store.Config(); err != nil || ok {
		t.Fatalf("expected no config before init, got ok=%v err=%v", ok, err)
	}
	cfg := &types.Config{
		Name:              "xUSD",
		Symbol:            "xUSD",
		Decimals:          7,
		MinCollatRatioBps: 15000,
		InterestRateBps:   500,
		DepositFee:        big.NewInt(10_000_000),
		StakeFee:          big.NewInt(70_000_000),
		UnstakeReturn:     big.NewInt(20_000_000),
		Admin:             "xas1admin",
		Initialized:       true,
	}
	if err := store.PutConfig(cfg); err != nil {
		t.Fatalf("PutConfig: %v", err)
	}
	got, ok, err := store.Config()
	if err != nil || !ok {
		t.Fatalf("Config: ok=%v err=%v", ok, err)
	}
	if got.Name != cfg.Name || got.MinCollatRatioBps != cfg.MinCollatRatioBps {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.DepositFee.Cmp(cfg.DepositFee) != 0 {
		t.Fatalf("deposit fee mismatch: %v", got.DepositFee)
	}
}

func TestCDPRoundTripAndDelete(t *testing.T) {
	store := NewStore(nil)
	lender := []byte("lender-address-bytes")

	if _, ok, err := store.CDP(lender); err != nil || ok {
		t.Fatalf("expected no CDP, got ok=%v err=%v", ok, err)
	}

	cdp := &types.CDP{
		XLMDeposited:     big.NewInt(1_700_000_000),
		AssetLent:        big.NewInt(100_000_000),
		Status:           types.CDPOpen,
		AccruedInterest:  types.ZeroInterest(),
		LastInterestTime: 1000,
	}
	if err := store.PutCDP(lender, cdp); err != nil {
		t.Fatalf("PutCDP: %v", err)
	}
	got, ok, err := store.CDP(lender)
	if err != nil || !ok {
		t.Fatalf("CDP: ok=%v err=%v", ok, err)
	}
	if got.XLMDeposited.Cmp(cdp.XLMDeposited) != 0 || got.Status != types.CDPOpen {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	store.DeleteCDP(lender)
	if _, ok, err := store.CDP(lender); err != nil || ok {
		t.Fatalf("expected CDP removed after DeleteCDP, got ok=%v err=%v", ok, err)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	store := NewStore(nil)
	staker := []byte("staker-address-bytes")

	pos := &types.StakerPosition{
		XAssetDeposit:      big.NewInt(50_000_000),
		ProductConstant:    big.NewInt(types.ProductConstantInit),
		CompoundedConstant: big.NewInt(0),
		Epoch:              0,
	}
	if err := store.PutPosition(staker, pos); err != nil {
		t.Fatalf("PutPosition: %v", err)
	}
	got, ok, err := store.Position(staker)
	if err != nil || !ok {
		t.Fatalf("Position: ok=%v err=%v", ok, err)
	}
	if got.XAssetDeposit.Cmp(pos.XAssetDeposit) != 0 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	store.DeletePosition(staker)
	if _, ok, _ := store.Position(staker); ok {
		t.Fatal("expected position removed after DeletePosition")
	}
}

func TestBalanceDefaultsToZero(t *testing.T) {
	store := NewStore(nil)
	addr := []byte("some-address")

	bal, err := store.Balance(addr)
	if err != nil {
		t.Fatalf("Balance: %v", err)
	}
	if bal.Sign() != 0 {
		t.Fatalf("expected zero balance, got %v", bal)
	}

	if err := store.PutBalance(addr, big.NewInt(42)); err != nil {
		t.Fatalf("PutBalance: %v", err)
	}
	bal, err = store.Balance(addr)
	if err != nil || bal.Cmp(big.NewInt(42)) != 0 {
		t.Fatalf("expected balance 42, got %v err=%v", bal, err)
	}
}

func TestAllowanceRoundTripAndDefault(t *testing.T) {
	store := NewStore(nil)
	owner := []byte("owner-address")
	spender := []byte("spender-address")

	allow, err := store.Allowance(owner, spender)
	if err != nil || allow.Amount.Sign() != 0 {
		t.Fatalf("expected zero allowance, got %+v err=%v", allow, err)
	}

	if err := store.PutAllowance(owner, spender, &types.Allowance{Amount: big.NewInt(1_000), LiveUntilLedger: 200}); err != nil {
		t.Fatalf("PutAllowance: %v", err)
	}
	allow, err = store.Allowance(owner, spender)
	if err != nil || allow.Amount.Cmp(big.NewInt(1_000)) != 0 || allow.LiveUntilLedger != 200 {
		t.Fatalf("unexpected allowance: %+v err=%v", allow, err)
	}

	store.DeleteAllowance(owner, spender)
	allow, err = store.Allowance(owner, spender)
	if err != nil || allow.Amount.Sign() != 0 {
		t.Fatalf("expected allowance cleared, got %+v err=%v", allow, err)
	}
}

func TestAuthorizedDefaultsTrue(t *testing.T) {
	store := NewStore(nil)
	addr := []byte("addr")

	authorized, err := store.Authorized(addr)
	if err != nil || !authorized {
		t.Fatalf("expected default-authorized, got %v err=%v", authorized, err)
	}

	store.SetAuthorized(addr, false)
	authorized, err = store.Authorized(addr)
	if err != nil || authorized {
		t.Fatalf("expected deauthorized, got %v err=%v", authorized, err)
	}
}

func TestEpochRecordsRoundTrip(t *testing.T) {
	store := NewStore(nil)

	if _, ok, _ := store.CompoundRecord(3); ok {
		t.Fatal("expected no compound record before write")
	}
	if err := store.PutCompoundRecord(3, &types.CompoundRecord{
		CompoundedConstant: big.NewInt(5),
		ProductConstant:    big.NewInt(types.ProductConstantInit),
	}); err != nil {
		t.Fatalf("PutCompoundRecord: %v", err)
	}
	rec, ok, err := store.CompoundRecord(3)
	if err != nil || !ok || rec.CompoundedConstant.Cmp(big.NewInt(5)) != 0 {
		t.Fatalf("unexpected compound record: %+v ok=%v err=%v", rec, ok, err)
	}

	if err := store.PutInterestRecord(3, &types.InterestRecord{InterestCollected: big.NewInt(99)}); err != nil {
		t.Fatalf("PutInterestRecord: %v", err)
	}
	irec, ok, err := store.InterestRecord(3)
	if err != nil || !ok || irec.InterestCollected.Cmp(big.NewInt(99)) != 0 {
		t.Fatalf("unexpected interest record: %+v ok=%v err=%v", irec, ok, err)
	}
}

func TestMemKVDeleteIsIdempotent(t *testing.T) {
	kv := NewMemKV()
	kv.Put([]byte("k"), []byte("v"))
	kv.Delete([]byte("k"))
	kv.Delete([]byte("k"))
	if _, ok := kv.Get([]byte("k")); ok {
		t.Fatal("expected key gone after delete")
	}
}
