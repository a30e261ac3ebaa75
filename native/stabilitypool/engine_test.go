package stabilitypool

import (
	"math/big"
	"testing"

	"xassetcore/core/state"
	"xassetcore/core/types"
	"xassetcore/crypto"
	"xassetcore/internal/oracle"
	"xassetcore/native/ledger"
	"xassetcore/native/reserve"
)

type stubFeed struct {
	price    *big.Int
	decimals uint32
}

func (f *stubFeed) LastPrice(types.Asset) (types.PriceData, bool) {
	return types.PriceData{Price: f.price, Timestamp: 1}, true
}

func (f *stubFeed) Decimals() (uint32, error) { return f.decimals, nil }

func addr(suffix byte) crypto.Address {
	raw := make([]byte, 20)
	raw[len(raw)-1] = suffix
	return crypto.MustNewAddress(crypto.AccountPrefix, raw)
}

// newTestEngine wires a stability pool engine with zero-valued fees so tests
// can isolate the loss/reward distribution math without also needing to fund
// stakers' XLM balances, plus an XLM price of 0.10 USD and an xAsset (xUSD)
// price of 1.00 USD per spec §8's worked examples.
func newTestEngine(t *testing.T) (engine *Engine, led *ledger.Ledger, res *reserve.Engine, store *state.Store, treasury, poolAddr crypto.Address) {
	t.Helper()
	store = state.NewStore(nil)
	admin := addr(0x01)
	treasury = addr(0x02)
	poolAddr = addr(0x03)
	if err := store.PutConfig(&types.Config{
		MinCollatRatioBps: 15000,
		InterestRateBps:   500,
		DepositFee:        big.NewInt(0),
		StakeFee:          big.NewInt(0),
		UnstakeReturn:     big.NewInt(0),
		Admin:             admin.String(),
		Initialized:       true,
	}); err != nil {
		t.Fatalf("PutConfig: %v", err)
	}
	led = ledger.New(store, admin, "xUSD", "xUSD", 7)
	res = reserve.New(store)
	xlmFeed := &stubFeed{price: big.NewInt(10_000_000_000_000), decimals: 14}
	assetFeed := &stubFeed{price: big.NewInt(100_000_000_000_000), decimals: 14}
	adapter := oracle.NewAdapter(xlmFeed, assetFeed, "USD")
	engine = NewEngine(store, led, adapter, res, treasury, poolAddr)
	return engine, led, res, store, treasury, poolAddr
}

// openFrozenCDP plants a frozen CDP directly into the store, standing in for
// a position that has already been opened and frozen through native/cdp, and
// funds the treasury with its collateral so Liquidate's reserve transfers
// have something to move.
func openFrozenCDP(t *testing.T, store *state.Store, res *reserve.Engine, treasury, lender crypto.Address, collateralXLM, assetLent, interestXAsset *big.Int) {
	t.Helper()
	if err := res.Fund(treasury, collateralXLM); err != nil {
		t.Fatalf("Fund treasury: %v", err)
	}
	cdpRec := &types.CDP{
		XLMDeposited: new(big.Int).Set(collateralXLM),
		AssetLent:    new(big.Int).Set(assetLent),
		Status:       types.CDPFrozen,
		AccruedInterest: types.Interest{
			Amount: new(big.Int).Set(interestXAsset),
			Paid:   big.NewInt(0),
		},
		LastInterestTime: 1000,
	}
	if err := store.PutCDP(lender.Bytes(), cdpRec); err != nil {
		t.Fatalf("PutCDP: %v", err)
	}
}

func TestStakeAndUnstakeNoLiquidations(t *testing.T) {
	engine, led, _, _, _, _ := newTestEngine(t)
	staker := addr(0x10)
	if err := led.Mint(staker, big.NewInt(1_000_000)); err != nil {
		t.Fatalf("Mint: %v", err)
	}

	if _, err := engine.Stake(staker, big.NewInt(1_000_000)); err != nil {
		t.Fatalf("Stake: %v", err)
	}
	deposit, err := engine.GetStakerDepositAmount(staker)
	if err != nil || deposit.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("unexpected deposit: %v err=%v", deposit, err)
	}

	xassetReturned, collateralReturned, err := engine.Unstake(staker)
	if err != nil {
		t.Fatalf("Unstake: %v", err)
	}
	if xassetReturned.Cmp(big.NewInt(1_000_000)) != 0 {
		t.Fatalf("expected full deposit returned, got %v", xassetReturned)
	}
	if collateralReturned.Sign() != 0 {
		t.Fatalf("expected no collateral without liquidations, got %v", collateralReturned)
	}
}

func TestLiquidationDistributesLossAndCollateralProportionally(t *testing.T) {
	engine, led, res, store, treasury, _ := newTestEngine(t)
	alice, bob, lender := addr(0x10), addr(0x11), addr(0x12)
	if err := led.Mint(alice, big.NewInt(600_000)); err != nil {
		t.Fatalf("Mint alice: %v", err)
	}
	if err := led.Mint(bob, big.NewInt(400_000)); err != nil {
		t.Fatalf("Mint bob: %v", err)
	}
	if _, err := engine.Stake(alice, big.NewInt(600_000)); err != nil {
		t.Fatalf("Stake alice: %v", err)
	}
	if _, err := engine.Stake(bob, big.NewInt(400_000)); err != nil {
		t.Fatalf("Stake bob: %v", err)
	}

	// Liquidate a frozen position with 200,000 xAsset debt (20% of the pool),
	// no outstanding interest, and 2,000,000 XLM collateral.
	openFrozenCDP(t, store, res, treasury, lender, big.NewInt(2_000_000), big.NewInt(200_000), big.NewInt(0))
	debtCleared, collateralReleased, closed, err := engine.Liquidate(lender, 1000)
	if err != nil {
		t.Fatalf("Liquidate: %v", err)
	}
	if !closed {
		t.Fatal("expected position to close once principal is fully absorbed")
	}
	if debtCleared.Cmp(big.NewInt(200_000)) != 0 {
		t.Fatalf("expected full principal absorbed, got %v", debtCleared)
	}
	if collateralReleased.Cmp(big.NewInt(2_000_000)) != 0 {
		t.Fatalf("expected full collateral credited, got %v", collateralReleased)
	}

	aliceDeposit, err := engine.GetStakerDepositAmount(alice)
	if err != nil {
		t.Fatalf("GetStakerDepositAmount alice: %v", err)
	}
	// Alice held 60% of the pool, so she absorbs 60% of the 200,000 loss:
	// 600,000 - 120,000 = 480,000.
	if aliceDeposit.Cmp(big.NewInt(480_000)) != 0 {
		t.Fatalf("expected alice's compounded deposit to be 480000, got %v", aliceDeposit)
	}

	bobDeposit, err := engine.GetStakerDepositAmount(bob)
	if err != nil {
		t.Fatalf("GetStakerDepositAmount bob: %v", err)
	}
	if bobDeposit.Cmp(big.NewInt(320_000)) != 0 {
		t.Fatalf("expected bob's compounded deposit to be 320000, got %v", bobDeposit)
	}

	aliceCollateral, err := engine.ClaimRewards(alice)
	if err != nil {
		t.Fatalf("ClaimRewards alice: %v", err)
	}
	if aliceCollateral.Cmp(big.NewInt(1_200_000)) != 0 {
		t.Fatalf("expected alice's collateral share to be 1200000, got %v", aliceCollateral)
	}
}

func TestLiquidationStopsAtInterestWhenPoolExhausted(t *testing.T) {
	engine, led, res, store, treasury, _ := newTestEngine(t)
	staker, lender := addr(0x13), addr(0x14)
	if err := led.Mint(staker, big.NewInt(100_000)); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := engine.Stake(staker, big.NewInt(100_000)); err != nil {
		t.Fatalf("Stake: %v", err)
	}

	// The pool holds only 100,000 xAsset but the frozen position owes
	// 150,000 in interest alone; the pool must absorb interest up to its
	// limit and stop without touching principal or collateral at all.
	openFrozenCDP(t, store, res, treasury, lender, big.NewInt(5_000_000), big.NewInt(300_000), big.NewInt(150_000))
	debtCleared, collateralReleased, closed, err := engine.Liquidate(lender, 1000)
	if err != nil {
		t.Fatalf("Liquidate: %v", err)
	}
	if closed {
		t.Fatal("position must not close while principal remains untouched")
	}
	if debtCleared.Cmp(big.NewInt(100_000)) != 0 {
		t.Fatalf("expected only the pool's 100000 xAsset to be absorbed against interest, got %v", debtCleared)
	}
	if collateralReleased.Sign() != 0 {
		t.Fatalf("expected no collateral released while interest remains unabsorbed, got %v", collateralReleased)
	}

	cdpRec, ok, err := store.CDP(lender.Bytes())
	if err != nil || !ok {
		t.Fatalf("expected CDP to remain, ok=%v err=%v", ok, err)
	}
	if cdpRec.AssetLent.Cmp(big.NewInt(300_000)) != 0 {
		t.Fatalf("expected principal untouched at 300000, got %v", cdpRec.AssetLent)
	}
	if cdpRec.AccruedInterest.Amount.Cmp(big.NewInt(50_000)) != 0 {
		t.Fatalf("expected 50000 interest still unabsorbed, got %v", cdpRec.AccruedInterest.Amount)
	}
}

func TestWithdrawRejectsFullDrain(t *testing.T) {
	engine, led, _, _, _, _ := newTestEngine(t)
	staker := addr(0x20)
	if err := led.Mint(staker, big.NewInt(500)); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := engine.Stake(staker, big.NewInt(500)); err != nil {
		t.Fatalf("Stake: %v", err)
	}
	if _, err := engine.Withdraw(staker, big.NewInt(500)); err == nil {
		t.Fatal("expected full-drain withdrawal to be rejected in favor of Unstake")
	}
}

func TestEpochRollsOverOnFullWipeout(t *testing.T) {
	engine, led, res, store, treasury, _ := newTestEngine(t)
	staker, lender := addr(0x30), addr(0x31)
	if err := led.Mint(staker, big.NewInt(1_000)); err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := engine.Stake(staker, big.NewInt(1_000)); err != nil {
		t.Fatalf("Stake: %v", err)
	}

	openFrozenCDP(t, store, res, treasury, lender, big.NewInt(5_000), big.NewInt(1_000), big.NewInt(0))
	if _, _, _, err := engine.Liquidate(lender, 1000); err != nil {
		t.Fatalf("Liquidate: %v", err)
	}

	_, _, epoch, err := engine.GetConstants()
	if err != nil {
		t.Fatalf("GetConstants: %v", err)
	}
	if epoch != 1 {
		t.Fatalf("expected epoch to roll to 1, got %d", epoch)
	}

	deposit, err := engine.GetStakerDepositAmount(staker)
	if err != nil {
		t.Fatalf("GetStakerDepositAmount: %v", err)
	}
	if deposit.Sign() != 0 {
		t.Fatalf("expected staker wiped out after epoch roll, got %v", deposit)
	}

	rec, ok, err := store.CompoundRecord(0)
	if err != nil || !ok {
		t.Fatalf("expected epoch 0's compound record to be retained, ok=%v err=%v", ok, err)
	}
	if rec.ProductConstant.Sign() != 0 {
		t.Fatalf("expected epoch 0's closing product constant to be zero, got %v", rec.ProductConstant)
	}
}
