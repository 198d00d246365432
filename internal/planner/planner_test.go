package planner

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/market"
	"go.uber.org/zap"
)

// staticFinder returns the same candidates for every query.
type staticFinder struct {
	pairs []domain.PricedPair
}

func (f staticFinder) FindPairs(_, _ domain.Currency) []domain.PricedPair {
	return f.pairs
}

func btcusd(t *testing.T) domain.PricedPair {
	t.Helper()
	p, err := domain.NewTradingPair("BTCUSD", "BTC", "USD", decimal.RequireFromString("0.006"), decimal.NewFromInt(100))
	require.NoError(t, err)
	return domain.NewPricedPair(p, decimal.NewFromInt(27000))
}

func wallet(currency, balance string) domain.Wallet {
	return domain.NewWallet("exchange", currency, decimal.RequireFromString(balance))
}

func TestPlanner_Sell(t *testing.T) {
	p := New(staticFinder{pairs: []domain.PricedPair{btcusd(t)}}, zap.NewNop())

	order, ok := p.Plan(wallet("BTC", "1.0"), "usd")
	require.True(t, ok)
	assert.Equal(t, domain.OrderTypeExchangeMarket, order.Type)
	assert.Equal(t, "tbtcusd", order.TradingSymbol)
	assert.True(t, order.Amount.Equal(decimal.NewFromInt(-1)))
	assert.Equal(t, domain.SideSell, order.Side())

	order, ok = p.Plan(wallet("BTC", "2"), "usd")
	require.True(t, ok)
	assert.True(t, order.Amount.Equal(decimal.NewFromInt(-2)))

	_, ok = p.Plan(wallet("BTC", "0.005"), "usd")
	assert.False(t, ok, "should not be able to create a sell order with less than min order size")
}

func TestPlanner_Buy(t *testing.T) {
	p := New(staticFinder{pairs: []domain.PricedPair{btcusd(t)}}, nil)

	order, ok := p.Plan(wallet("USD", "27000"), "btc")
	require.True(t, ok)
	assert.Equal(t, "tbtcusd", order.TradingSymbol)
	assert.True(t, order.Amount.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, domain.SideBuy, order.Side())

	_, ok = p.Plan(wallet("USD", "10"), "btc")
	assert.False(t, ok, "10/27000 is below the 0.006 minimum")
}

func TestPlanner_BuyAtBoundary(t *testing.T) {
	p := New(staticFinder{pairs: []domain.PricedPair{btcusd(t)}}, nil)

	// 162 / 27000 == 0.006 exactly
	order, ok := p.Plan(wallet("USD", "162"), "btc")
	require.True(t, ok)
	assert.True(t, order.Amount.Equal(decimal.RequireFromString("0.006")))

	_, ok = p.Plan(wallet("USD", "161.99"), "btc")
	assert.False(t, ok)
}

func TestPlanner_NoRoute(t *testing.T) {
	p := New(staticFinder{}, nil)

	_, ok := p.Plan(wallet("XMR", "10"), "btc")
	assert.False(t, ok)
}

func TestPlanner_NonPositiveBalance(t *testing.T) {
	p := New(staticFinder{pairs: []domain.PricedPair{btcusd(t)}}, nil)

	_, ok := p.Plan(wallet("BTC", "0"), "usd")
	assert.False(t, ok)
	_, ok = p.Plan(wallet("BTC", "-3"), "usd")
	assert.False(t, ok)
}

func TestPlanner_ZeroPrice(t *testing.T) {
	pair := btcusd(t)
	pair.LastPrice = decimal.Zero
	p := New(staticFinder{pairs: []domain.PricedPair{pair}}, nil)

	_, ok := p.Plan(wallet("USD", "1000"), "btc")
	assert.False(t, ok)
}

func TestPlanner_PrefersSellMarket(t *testing.T) {
	sellMarket, err := domain.NewTradingPair("ETH:USD", "ETH", "USD", decimal.RequireFromString("0.1"), decimal.NewFromInt(1000))
	require.NoError(t, err)
	buyMarket, err := domain.NewTradingPair("USD:ETH", "USD", "ETH", decimal.NewFromInt(100), decimal.NewFromInt(100000))
	require.NoError(t, err)

	idx := market.NewIndex([]domain.PricedPair{
		domain.NewPricedPair(buyMarket, decimal.RequireFromString("0.0005")),
		domain.NewPricedPair(sellMarket, decimal.NewFromInt(2000)),
	}, nil)

	order, ok := New(idx, nil).Plan(wallet("ETH", "0.5"), "usd")
	require.True(t, ok)
	assert.Equal(t, "teth:usd", order.TradingSymbol)
	assert.True(t, order.Amount.Equal(decimal.RequireFromString("-0.5")))
}
