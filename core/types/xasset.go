package types

import "math/big"

// Protocol-wide fixed-point constants. Mirrors spec §3: every integer
// division in the engines is scaled by one of these before rounding.
const (
	BasisPoints          = 10_000
	SecondsPerYear       = 31_536_000
	InterestPrecisionExp = 9
	DefaultPrecisionExp  = 7
	ProductConstantInit  = 1_000_000_000
)

var (
	// InterestPrecision is 1e9, the scale used by the interest accrual engine.
	InterestPrecision = big.NewInt(1_000_000_000)
	// DefaultPrecision is 1e7, the scale used by price conversions and the
	// stability pool's product/compound constant arithmetic.
	DefaultPrecision = big.NewInt(10_000_000)
	// DepositFee is the flat XLM fee charged on a stability-pool deposit top-up.
	DepositFee = big.NewInt(10_000_000)
	// StakeFee is the flat XLM fee charged on a new stability-pool stake.
	StakeFee = big.NewInt(70_000_000)
	// UnstakeReturn is the flat XLM refund paid on a full unstake.
	UnstakeReturn = big.NewInt(20_000_000)
)

// AssetKind distinguishes the tagged variants of Asset (spec §3: "Stellar(address)
// | Other(symbol)"). Go has no sum type with payload, so the variant is
// represented as a discriminant plus the two possible payload fields, matching
// the plain-struct convention native/lending uses for its own value types.
type AssetKind uint8

const (
	AssetOther AssetKind = iota
	AssetStellar
)

// Asset identifies a priceable instrument. Only AssetOther is produced by the
// core (XLM and the pegged symbol are always looked up by symbol); AssetStellar
// is retained so the type faithfully models the oracle's full asset key space.
type Asset struct {
	Kind    AssetKind
	Symbol  string
	Address string
}

// OtherAsset constructs the symbol-keyed variant used throughout the core.
func OtherAsset(symbol string) Asset { return Asset{Kind: AssetOther, Symbol: symbol} }

// PriceData is an oracle-reported price observation.
type PriceData struct {
	Price     *big.Int
	Timestamp uint64
}

// Interest is the unpaid/paid interest snapshot carried on a CDP.
type Interest struct {
	// Amount is unpaid accrued interest, denominated in xAsset units.
	Amount *big.Int
	// Paid is cumulative XLM already delivered to the protocol against interest.
	Paid *big.Int
}

// ZeroInterest returns a zero-valued Interest snapshot.
func ZeroInterest() Interest {
	return Interest{Amount: big.NewInt(0), Paid: big.NewInt(0)}
}

// CDPStatus enumerates the stored states of a CDP. Closed is deliberately
// absent: per spec §3, "status = Closed ⇔ record is removed from storage", so
// a closed position is represented by the absence of a stored CDP, not by a
// status value.
type CDPStatus uint8

const (
	CDPOpen CDPStatus = iota
	CDPInsolvent
	CDPFrozen
)

func (s CDPStatus) String() string {
	switch s {
	case CDPOpen:
		return "open"
	case CDPInsolvent:
		return "insolvent"
	case CDPFrozen:
		return "frozen"
	default:
		return "unknown"
	}
}

// CDP is the persisted per-lender collateralized debt position.
type CDP struct {
	XLMDeposited     *big.Int
	AssetLent        *big.Int
	Status           CDPStatus
	AccruedInterest  Interest
	LastInterestTime uint64
}

// Clone returns a deep copy so callers never mutate a cached/shared instance.
func (c *CDP) Clone() *CDP {
	if c == nil {
		return nil
	}
	clone := &CDP{
		Status:           c.Status,
		LastInterestTime: c.LastInterestTime,
	}
	if c.XLMDeposited != nil {
		clone.XLMDeposited = new(big.Int).Set(c.XLMDeposited)
	} else {
		clone.XLMDeposited = big.NewInt(0)
	}
	if c.AssetLent != nil {
		clone.AssetLent = new(big.Int).Set(c.AssetLent)
	} else {
		clone.AssetLent = big.NewInt(0)
	}
	amount := big.NewInt(0)
	if c.AccruedInterest.Amount != nil {
		amount.Set(c.AccruedInterest.Amount)
	}
	paid := big.NewInt(0)
	if c.AccruedInterest.Paid != nil {
		paid.Set(c.AccruedInterest.Paid)
	}
	clone.AccruedInterest = Interest{Amount: amount, Paid: paid}
	return clone
}

// CDPView is the derived, never-persisted presentation of a CDP decorated with
// its live solvency ratio.
type CDPView struct {
	CDP
	Lender                    string
	CollateralizationRatioBps uint32
}

// StakerPosition is the persisted claim a stability-pool staker holds against
// the pool's product/compound constants at the time of last interaction.
type StakerPosition struct {
	XAssetDeposit      *big.Int
	ProductConstant    *big.Int
	CompoundedConstant *big.Int
	Epoch              uint64
}

// Clone returns a deep copy of the staker position.
func (p *StakerPosition) Clone() *StakerPosition {
	if p == nil {
		return nil
	}
	clone := &StakerPosition{Epoch: p.Epoch}
	clone.XAssetDeposit = cloneOrZero(p.XAssetDeposit)
	clone.ProductConstant = cloneOrZero(p.ProductConstant)
	clone.CompoundedConstant = cloneOrZero(p.CompoundedConstant)
	return clone
}

func cloneOrZero(v *big.Int) *big.Int {
	if v == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(v)
}

// PoolState is the persisted singleton accounting state for the stability pool.
type PoolState struct {
	TotalXAsset        *big.Int
	TotalCollateral    *big.Int
	ProductConstant    *big.Int
	CompoundedConstant *big.Int
	Epoch              uint64
	FeesCollected      *big.Int
	InterestCollected  *big.Int
}

// Clone returns a deep copy of the pool state.
func (p *PoolState) Clone() *PoolState {
	if p == nil {
		return nil
	}
	return &PoolState{
		TotalXAsset:        cloneOrZero(p.TotalXAsset),
		TotalCollateral:    cloneOrZero(p.TotalCollateral),
		ProductConstant:    cloneOrZero(p.ProductConstant),
		CompoundedConstant: cloneOrZero(p.CompoundedConstant),
		Epoch:              p.Epoch,
		FeesCollected:      cloneOrZero(p.FeesCollected),
		InterestCollected:  cloneOrZero(p.InterestCollected),
	}
}

// NewPoolState constructs the initial pool singleton per spec §3: P0 = 1e9,
// compounded constant and epoch start at zero.
func NewPoolState() *PoolState {
	return &PoolState{
		TotalXAsset:        big.NewInt(0),
		TotalCollateral:    big.NewInt(0),
		ProductConstant:    big.NewInt(ProductConstantInit),
		CompoundedConstant: big.NewInt(0),
		Epoch:              0,
		FeesCollected:      big.NewInt(0),
		InterestCollected:  big.NewInt(0),
	}
}

// Allowance is a spend grant from one address to another, with a TTL
// expressed as a ledger (block) height per spec §4.6/§6.
type Allowance struct {
	Amount          *big.Int
	LiveUntilLedger uint64
}

// CompoundRecord snapshots the pool's compound constant at the close of an
// epoch, indexed by epoch number so a staker who missed several roll-overs
// can still resolve their share (spec §4.5 epoch roll-over, §9 "retain a
// per-epoch record for indexing").
type CompoundRecord struct {
	CompoundedConstant *big.Int
	ProductConstant    *big.Int
}

// InterestRecord snapshots the pool's cumulative interest collected, keyed by
// the epoch in which it was written. The stability pool writes it each time a
// liquidation absorbs interest; nothing in the engines reads it back.
type InterestRecord struct {
	InterestCollected *big.Int
}

// Config is the persisted singleton protocol configuration (spec §3).
type Config struct {
	Name                string
	Symbol              string
	Decimals            uint32
	XLMSAC              string
	XLMFeed             string
	AssetFeed           string
	PeggedSymbol        string
	MinCollatRatioBps   uint64
	InterestRateBps     uint64
	DepositFee          *big.Int
	StakeFee            *big.Int
	UnstakeReturn       *big.Int
	Admin               string
	Initialized         bool
	CodeHash            string
}
