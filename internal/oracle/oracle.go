// Package oracle adapts the two external price feeds (XLM and the pegged
// synthetic's reference symbol) into the flattened, two-call interface the
// CDP and stability-pool engines consume. It is grounded on
// core/pricing.PriceFeed's guarded-quote shape and native/swap's
// PriceOracle/TWAPOracle external-contract interfaces, collapsed down to the
// plain read-only SEP-40-style surface spec §4.2/§6 describes.
package oracle

import (
	"xassetcore/core/errors"
	"xassetcore/core/types"
)

// Feed is the read interface an external price oracle contract exposes,
// per spec §6: lastprice(asset) and decimals().
type Feed interface {
	LastPrice(asset types.Asset) (types.PriceData, bool)
	Decimals() (uint32, error)
}

// Adapter composes the XLM and asset feeds behind the flattened calls the
// rest of the core uses, per spec §4.2.
type Adapter struct {
	xlmFeed      Feed
	assetFeed    Feed
	peggedSymbol string
}

// NewAdapter constructs an oracle adapter wired to the two configured feeds.
func NewAdapter(xlmFeed, assetFeed Feed, peggedSymbol string) *Adapter {
	return &Adapter{xlmFeed: xlmFeed, assetFeed: assetFeed, peggedSymbol: peggedSymbol}
}

// LastPriceXLM returns the last reported XLM price, flattening any failure to
// CodeOraclePriceFetchFailed.
func (a *Adapter) LastPriceXLM() (types.PriceData, error) {
	if a == nil || a.xlmFeed == nil {
		return types.PriceData{}, errors.New(errors.CodeOraclePriceFetchFailed, "xlm feed not configured")
	}
	price, ok := a.xlmFeed.LastPrice(types.OtherAsset("XLM"))
	if !ok || price.Price == nil {
		return types.PriceData{}, errors.New(errors.CodeOraclePriceFetchFailed, "xlm price unavailable")
	}
	return price, nil
}

// LastPriceAsset returns the last reported pegged-symbol price, flattening
// any failure to CodeOraclePriceFetchFailed.
func (a *Adapter) LastPriceAsset() (types.PriceData, error) {
	if a == nil || a.assetFeed == nil {
		return types.PriceData{}, errors.New(errors.CodeOraclePriceFetchFailed, "asset feed not configured")
	}
	price, ok := a.assetFeed.LastPrice(types.OtherAsset(a.peggedSymbol))
	if !ok || price.Price == nil {
		return types.PriceData{}, errors.New(errors.CodeOraclePriceFetchFailed, "asset price unavailable")
	}
	return price, nil
}

// DecimalsXLMFeed returns the XLM feed's reported decimals, flattening any
// failure to CodeOracleDecimalsFetchFailed.
func (a *Adapter) DecimalsXLMFeed() (uint32, error) {
	if a == nil || a.xlmFeed == nil {
		return 0, errors.New(errors.CodeOracleDecimalsFetchFailed, "xlm feed not configured")
	}
	decimals, err := a.xlmFeed.Decimals()
	if err != nil {
		return 0, errors.New(errors.CodeOracleDecimalsFetchFailed, "%v", err)
	}
	return decimals, nil
}

// DecimalsAssetFeed returns the asset feed's reported decimals, flattening
// any failure to CodeOracleDecimalsFetchFailed.
func (a *Adapter) DecimalsAssetFeed() (uint32, error) {
	if a == nil || a.assetFeed == nil {
		return 0, errors.New(errors.CodeOracleDecimalsFetchFailed, "asset feed not configured")
	}
	decimals, err := a.assetFeed.Decimals()
	if err != nil {
		return 0, errors.New(errors.CodeOracleDecimalsFetchFailed, "%v", err)
	}
	return decimals, nil
}

// Quote bundles everything the price engine needs from a single oracle round
// trip.
type Quote struct {
	XLMPrice          types.PriceData
	AssetPrice        types.PriceData
	XLMFeedDecimals   uint32
	AssetFeedDecimals uint32
}

// FetchQuote resolves both prices and both decimals in one call, the shape
// every CDP/pool entry point needs before decorating persisted state
// (spec §4: "every public entry point... reads current oracle prices").
func (a *Adapter) FetchQuote() (Quote, error) {
	xlmPrice, err := a.LastPriceXLM()
	if err != nil {
		return Quote{}, err
	}
	assetPrice, err := a.LastPriceAsset()
	if err != nil {
		return Quote{}, err
	}
	xlmDecimals, err := a.DecimalsXLMFeed()
	if err != nil {
		return Quote{}, err
	}
	assetDecimals, err := a.DecimalsAssetFeed()
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		XLMPrice:          xlmPrice,
		AssetPrice:        assetPrice,
		XLMFeedDecimals:   xlmDecimals,
		AssetFeedDecimals: assetDecimals,
	}, nil
}
