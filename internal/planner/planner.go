// Package planner turns wallet balances into market orders.
package planner

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
	"github.com/vadiminshakov/duster/internal/symbol"
	"go.uber.org/zap"
)

// PairFinder provides markets converting one currency into another.
type PairFinder interface {
	FindPairs(from, to domain.Currency) []domain.PricedPair
}

// Planner decides direction and size of conversion orders.
type Planner struct {
	markets PairFinder
	l       *zap.Logger
}

// New creates a Planner over the given markets.
func New(markets PairFinder, l *zap.Logger) *Planner {
	if l == nil {
		l = zap.NewNop()
	}
	return &Planner{markets: markets, l: l}
}

// Plan builds a market order converting the wallet balance into target.
// It returns false when no market exists or the order would be below the
// exchange minimum.
func (p *Planner) Plan(w domain.Wallet, target domain.Currency) (domain.Order, bool) {
	candidates := p.markets.FindPairs(w.Currency, target)
	if len(candidates) == 0 {
		p.l.Debug("no market for conversion",
			zap.Stringer("from", w.Currency),
			zap.Stringer("to", target))
		return domain.Order{}, false
	}

	// the market selling the wallet currency is preferred when both exist
	pair := candidates[0]

	if !w.HasFunds() {
		p.l.Debug("nothing to convert",
			zap.Stringer("currency", w.Currency),
			zap.String("balance", w.BalanceAvailable.String()))
		return domain.Order{}, false
	}

	p.l.Debug("exchanging",
		zap.Stringer("from", w.Currency),
		zap.Stringer("to", target),
		zap.String("pair", pair.Symbol))

	if w.Currency.Equal(pair.Quote) {
		return p.buy(w, pair)
	}
	return p.sell(w, pair)
}

func (p *Planner) buy(w domain.Wallet, pair domain.PricedPair) (domain.Order, bool) {
	if !pair.LastPrice.IsPositive() {
		p.l.Warn("cannot create BUY order without a positive price",
			zap.String("pair", pair.Symbol),
			zap.String("price", pair.LastPrice.String()))
		return domain.Order{}, false
	}

	size := w.BalanceAvailable.Div(pair.LastPrice)
	if size.LessThan(pair.MinOrderSize) {
		p.l.Info("cannot create BUY order below minimum order size",
			zap.String("pair", pair.Symbol),
			zap.String("min_order_size", pair.MinOrderSize.String()),
			zap.String("balance", w.BalanceAvailable.String()),
			zap.Stringer("currency", w.Currency),
			zap.String("order_size", size.StringFixed(9)))
		return domain.Order{}, false
	}

	return newOrder(pair, size), true
}

func (p *Planner) sell(w domain.Wallet, pair domain.PricedPair) (domain.Order, bool) {
	if w.BalanceAvailable.LessThan(pair.MinOrderSize) {
		p.l.Info("cannot create SELL order below minimum order size",
			zap.String("pair", pair.Symbol),
			zap.String("min_order_size", pair.MinOrderSize.String()),
			zap.String("balance", w.BalanceAvailable.String()),
			zap.Stringer("currency", w.Currency))
		return domain.Order{}, false
	}

	return newOrder(pair, w.BalanceAvailable.Neg()), true
}

func newOrder(pair domain.PricedPair, amount decimal.Decimal) domain.Order {
	return domain.Order{
		Type:          domain.OrderTypeExchangeMarket,
		TradingSymbol: symbol.TradingSymbol(pair.Symbol),
		Amount:        amount,
	}
}
