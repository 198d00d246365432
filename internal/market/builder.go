package market

import (
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/symbol"
	"go.uber.org/zap"
)

// Build joins trading pairs with their tickers and indexes the result.
// Pairs without a ticker and tickers without a trading pair are dropped.
func Build(pairs []domain.TradingPair, tickers []domain.Ticker, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}

	prices := make(map[string]domain.Ticker, len(tickers))
	for _, t := range tickers {
		pairSymbol, ok := symbol.StripMarketPrefix(t.Symbol)
		if !ok {
			logger.Debug("skip ticker with unknown market prefix", zap.String("symbol", t.Symbol))
			continue
		}
		prices[pairSymbol] = t
	}

	priced := make([]domain.PricedPair, 0, len(pairs))
	for _, p := range pairs {
		t, ok := prices[p.Symbol]
		if !ok {
			logger.Debug("skip pair without ticker", zap.String("symbol", p.Symbol))
			continue
		}
		priced = append(priced, domain.NewPricedPair(p, t.LastPrice))
	}

	logger.Debug("market index built",
		zap.Int("pairs", len(pairs)),
		zap.Int("tickers", len(tickers)),
		zap.Int("priced", len(priced)))

	return NewIndex(priced, logger)
}
