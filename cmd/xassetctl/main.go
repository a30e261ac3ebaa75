// Command xassetctl drives a Contract against an in-memory Store from a
// YAML scenario seed, mirroring services/lending/main.go's flag-plus-yaml
// shape (minus the gRPC server scaffolding, which has nothing to listen
// for here). It is an operator/demo aid for exercising a CDP scenario
// without a real chain or oracle feed behind it.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"xassetcore/config"
	"xassetcore/contract"
	"xassetcore/core/events"
	"xassetcore/core/state"
	"xassetcore/core/types"
	"xassetcore/crypto"
	"xassetcore/internal/oracle"
	"xassetcore/observability/logging"
)

// seed describes a scenario to run against a freshly constructed Contract:
// the oracle's fixed prices and the lenders to open positions for.
type seed struct {
	Treasury string `yaml:"treasury"`
	PoolAddr string `yaml:"poolAddr"`

	XLMPrice      string `yaml:"xlmPrice"`
	XLMDecimals   uint32 `yaml:"xlmDecimals"`
	AssetPrice    string `yaml:"assetPrice"`
	AssetDecimals uint32 `yaml:"assetDecimals"`

	Lenders []lenderSeed `yaml:"lenders"`
}

type lenderSeed struct {
	Address    string `yaml:"address"`
	FundXLM    string `yaml:"fundXLM"`
	Collateral string `yaml:"collateral"`
	Borrow     string `yaml:"borrow"`
}

// staticFeed is a fixed-price oracle.Feed backing this demo; a real
// deployment wires a Reflector or SEP-40 feed instead, since
// internal/oracle.Feed is written against either.
type staticFeed struct {
	price    *big.Int
	decimals uint32
}

func (f staticFeed) LastPrice(types.Asset) (types.PriceData, bool) {
	return types.PriceData{Price: f.price, Timestamp: 0}, true
}

func (f staticFeed) Decimals() (uint32, error) { return f.decimals, nil }

// detailedEvent is satisfied by every core/events struct; it flattens the
// structured payload into the wire shape a real indexer would consume.
type detailedEvent interface {
	Event() *types.Event
}

// loggingEmitter flattens each emitted event and logs it with its stamped
// correlation ID, standing in for the indexer/RPC broadcast a full
// deployment would perform.
type loggingEmitter struct {
	logger *slog.Logger
}

func (e loggingEmitter) Emit(ev events.Event) {
	detailed, ok := ev.(detailedEvent)
	if !ok {
		e.logger.Info("event", "type", ev.EventType())
		return
	}
	flat := detailed.Event()
	args := make([]any, 0, 2+2*len(flat.Attributes))
	args = append(args, "type", flat.Type, "correlationId", flat.CorrelationID)
	for k, v := range flat.Attributes {
		args = append(args, k, v)
	}
	e.logger.Info("event", args...)
}

func main() {
	configPath := flag.String("config", "./xasset.toml", "path to the protocol deployment config")
	seedPath := flag.String("seed", "", "path to a YAML scenario seed file")
	flag.Parse()

	logger := logging.Setup("xassetctl", "demo")

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}

	var sc seed
	if *seedPath != "" {
		raw, err := os.ReadFile(*seedPath)
		if err != nil {
			logger.Error("read seed", "error", err)
			os.Exit(1)
		}
		if err := yaml.Unmarshal(raw, &sc); err != nil {
			logger.Error("parse seed", "error", err)
			os.Exit(1)
		}
	}

	admin := demoAddress(crypto.AccountPrefix, 0x01)
	treasury := resolveAddress(sc.Treasury, crypto.AccountPrefix, 0x02)
	poolAddr := resolveAddress(sc.PoolAddr, crypto.AccountPrefix, 0x03)

	xlmDecimals := sc.XLMDecimals
	if xlmDecimals == 0 {
		xlmDecimals = 14
	}
	assetDecimals := sc.AssetDecimals
	if assetDecimals == 0 {
		assetDecimals = 14
	}
	adapter := oracle.NewAdapter(
		staticFeed{price: parseBig(sc.XLMPrice, big.NewInt(10_000_000_000_000)), decimals: xlmDecimals},
		staticFeed{price: parseBig(sc.AssetPrice, big.NewInt(100_000_000_000_000)), decimals: assetDecimals},
		cfg.PeggedSymbol,
	)

	store := state.NewStore(nil)
	c := contract.New(store, admin, cfg.Name, cfg.Symbol, cfg.Decimals, adapter, loggingEmitter{logger: logger}, treasury, poolAddr)

	if _, err := c.Access.Init(admin, types.Config{
		Name:              cfg.Name,
		Symbol:            cfg.Symbol,
		Decimals:          cfg.Decimals,
		PeggedSymbol:      cfg.PeggedSymbol,
		MinCollatRatioBps: cfg.MinCollatRatioBps,
		InterestRateBps:   cfg.InterestRateBps,
	}); err != nil {
		logger.Error("init protocol", "error", err)
		os.Exit(1)
	}

	runID := uuid.NewString()
	logger.Info("seeding scenario", "runId", runID, "lenders", len(sc.Lenders))

	for i, ls := range sc.Lenders {
		lender, err := resolveRequiredAddress(ls.Address, crypto.AccountPrefix, byte(0x10+i))
		if err != nil {
			logger.Error("resolve lender address", "error", err)
			os.Exit(1)
		}
		if fund := parseBig(ls.FundXLM, nil); fund != nil && fund.Sign() > 0 {
			if err := c.Reserve.Fund(lender, fund); err != nil {
				logger.Error("fund lender", "error", err)
				os.Exit(1)
			}
		}
		collateral := parseBig(ls.Collateral, big.NewInt(0))
		borrow := parseBig(ls.Borrow, big.NewInt(0))
		if collateral.Sign() == 0 && borrow.Sign() == 0 {
			continue
		}
		view, err := c.CDP.OpenCDP(lender, collateral, borrow, 1)
		if err != nil {
			logger.Error("open cdp", "lender", lender.String(), "error", err)
			os.Exit(1)
		}
		logger.Info("opened position", "lender", lender.String(), "collatRatioBps", view.CollateralizationRatioBps, "status", view.Status.String())
	}

	fmt.Printf("xassetctl: seeded %d lender position(s) against %s/%s\n", len(sc.Lenders), cfg.Name, cfg.Symbol)
}

func demoAddress(prefix crypto.AddressPrefix, suffix byte) crypto.Address {
	raw := make([]byte, 20)
	raw[len(raw)-1] = suffix
	return crypto.MustNewAddress(prefix, raw)
}

func resolveAddress(bech32Addr string, prefix crypto.AddressPrefix, suffix byte) crypto.Address {
	if bech32Addr == "" {
		return demoAddress(prefix, suffix)
	}
	addr, err := crypto.DecodeAddress(bech32Addr)
	if err != nil {
		return demoAddress(prefix, suffix)
	}
	return addr
}

func resolveRequiredAddress(bech32Addr string, prefix crypto.AddressPrefix, suffix byte) (crypto.Address, error) {
	if bech32Addr == "" {
		return demoAddress(prefix, suffix), nil
	}
	return crypto.DecodeAddress(bech32Addr)
}

func parseBig(s string, fallback *big.Int) *big.Int {
	if s == "" {
		return fallback
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fallback
	}
	return v
}
