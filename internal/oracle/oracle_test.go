package oracle

import (
	"errors"
	"math/big"
	"testing"

	coreerrors "xassetcore/core/errors"
	"xassetcore/core/types"
)

type stubFeed struct {
	price    *types.PriceData
	decimals uint32
	decErr   error
}

func (s *stubFeed) LastPrice(types.Asset) (types.PriceData, bool) {
	if s.price == nil {
		return types.PriceData{}, false
	}
	return *s.price, true
}

func (s *stubFeed) Decimals() (uint32, error) {
	if s.decErr != nil {
		return 0, s.decErr
	}
	return s.decimals, nil
}

func TestFetchQuoteHappyPath(t *testing.T) {
	xlm := &stubFeed{price: &types.PriceData{Price: big.NewInt(10_000_000_000_000), Timestamp: 100}, decimals: 14}
	asset := &stubFeed{price: &types.PriceData{Price: big.NewInt(100_000_000_000_000), Timestamp: 100}, decimals: 14}
	adapter := NewAdapter(xlm, asset, "USD")

	quote, err := adapter.FetchQuote()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.XLMFeedDecimals != 14 || quote.AssetFeedDecimals != 14 {
		t.Fatalf("unexpected decimals: %+v", quote)
	}
}

func TestFetchQuoteMissingPriceFlattensToOraclePriceFetchFailed(t *testing.T) {
	xlm := &stubFeed{price: nil}
	asset := &stubFeed{price: &types.PriceData{Price: big.NewInt(1), Timestamp: 1}}
	adapter := NewAdapter(xlm, asset, "USD")

	_, err := adapter.FetchQuote()
	if err == nil {
		t.Fatal("expected error")
	}
	code, ok := coreerrors.CodeOf(err)
	if !ok || code != coreerrors.CodeOraclePriceFetchFailed {
		t.Fatalf("expected CodeOraclePriceFetchFailed, got %v", err)
	}
}

func TestDecimalsFailureFlattensToOracleDecimalsFetchFailed(t *testing.T) {
	xlm := &stubFeed{price: &types.PriceData{Price: big.NewInt(1), Timestamp: 1}, decErr: errors.New("transport down")}
	asset := &stubFeed{price: &types.PriceData{Price: big.NewInt(1), Timestamp: 1}}
	adapter := NewAdapter(xlm, asset, "USD")

	_, err := adapter.FetchQuote()
	code, ok := coreerrors.CodeOf(err)
	if !ok || code != coreerrors.CodeOracleDecimalsFetchFailed {
		t.Fatalf("expected CodeOracleDecimalsFetchFailed, got %v", err)
	}
}
