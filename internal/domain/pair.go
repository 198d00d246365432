package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TradingPair market listed by the exchange.
type TradingPair struct {
	// Symbol lowercase pair identifier, e.g. btcusd or matic:usd.
	Symbol string
	// Base currency being priced.
	Base Currency
	// Quote currency the base is priced in.
	Quote Currency
	// MinOrderSize smallest order in base units.
	MinOrderSize decimal.Decimal
	// MaxOrderSize largest order in base units.
	MaxOrderSize decimal.Decimal
}

// NewTradingPair builds a normalized trading pair and checks its invariants.
func NewTradingPair(symbol, base, quote string, minOrderSize, maxOrderSize decimal.Decimal) (TradingPair, error) {
	p := TradingPair{
		Symbol:       strings.ToLower(strings.TrimSpace(symbol)),
		Base:         NewCurrency(base),
		Quote:        NewCurrency(quote),
		MinOrderSize: minOrderSize,
		MaxOrderSize: maxOrderSize,
	}
	if err := p.Validate(); err != nil {
		return TradingPair{}, err
	}
	return p, nil
}

// Validate checks pair invariants.
func (p TradingPair) Validate() error {
	switch {
	case p.Symbol == "":
		return errors.Wrap(ErrInvalidPair, "empty symbol")
	case p.Base == "" || p.Quote == "":
		return errors.Wrapf(ErrInvalidPair, "%s: empty currency", p.Symbol)
	case p.Base.Equal(p.Quote):
		return errors.Wrapf(ErrInvalidPair, "%s: base equals quote", p.Symbol)
	case !p.MinOrderSize.IsPositive() || !p.MaxOrderSize.IsPositive():
		return errors.Wrapf(ErrInvalidPair, "%s: order sizes must be positive", p.Symbol)
	case p.MinOrderSize.GreaterThan(p.MaxOrderSize):
		return errors.Wrapf(ErrInvalidPair, "%s: min order size %s above max %s",
			p.Symbol, p.MinOrderSize.String(), p.MaxOrderSize.String())
	}
	return nil
}

// String returns the string representation.
func (p TradingPair) String() string {
	return fmt.Sprintf("%s/%s", p.Base, p.Quote)
}

// Ticker last trade price of a market at the moment it was fetched.
type Ticker struct {
	// Symbol lowercase ticker symbol with the market prefix, e.g. tbtcusd.
	Symbol    string
	Base      Currency
	Quote     Currency
	LastPrice decimal.Decimal
}

// NewTicker builds a normalized ticker.
func NewTicker(symbol, base, quote string, lastPrice decimal.Decimal) Ticker {
	return Ticker{
		Symbol:    strings.ToLower(strings.TrimSpace(symbol)),
		Base:      NewCurrency(base),
		Quote:     NewCurrency(quote),
		LastPrice: lastPrice,
	}
}

// PricedPair trading pair joined with the last price of its ticker.
type PricedPair struct {
	TradingPair
	LastPrice decimal.Decimal
}

// NewPricedPair joins a pair with a price.
func NewPricedPair(pair TradingPair, lastPrice decimal.Decimal) PricedPair {
	return PricedPair{TradingPair: pair, LastPrice: lastPrice}
}
