// Package symbol parses exchange pair and ticker symbols into currency codes.
//
// Two encodings are supported: fixed-width six character codes such as BTCUSD and
// colon-delimited codes such as MATIC:USD used when a currency code is longer than
// three characters. Ticker symbols additionally carry a one-character market prefix.
package symbol

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/duster/internal/domain"
)

const (
	// TradingPrefix marks trading (as opposed to funding) tickers.
	TradingPrefix = "t"

	delimiter      = ":"
	fixedWidth     = 6
	fixedWidthBase = 3
)

// ParsePair splits a pair symbol into base and quote currency codes.
func ParsePair(symbol string) (base, quote string, err error) {
	if strings.Contains(symbol, delimiter) {
		parts := strings.Split(symbol, delimiter)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			return "", "", errors.Wrapf(domain.ErrInvalidSymbol, "pair %q", symbol)
		}
		return parts[0], parts[1], nil
	}

	if len(symbol) != fixedWidth {
		return "", "", errors.Wrapf(domain.ErrInvalidSymbol, "pair %q", symbol)
	}

	return symbol[:fixedWidthBase], symbol[fixedWidthBase:], nil
}

// ParseTickerSymbol strips the trading prefix and splits the rest like ParsePair.
func ParseTickerSymbol(symbol string) (base, quote string, err error) {
	pair, ok := StripMarketPrefix(symbol)
	if !ok {
		return "", "", errors.Wrapf(domain.ErrInvalidSymbol, "trading symbol %q", symbol)
	}

	base, quote, err = ParsePair(pair)
	if err != nil {
		return "", "", errors.Wrapf(err, "trading symbol %q", symbol)
	}
	return base, quote, nil
}

// StripMarketPrefix returns the pair part of a trading ticker symbol.
func StripMarketPrefix(tickerSymbol string) (string, bool) {
	if !strings.HasPrefix(tickerSymbol, TradingPrefix) {
		return "", false
	}
	return tickerSymbol[len(TradingPrefix):], true
}

// TradingSymbol prefixes a pair symbol with the trading market prefix.
func TradingSymbol(pairSymbol string) string {
	return TradingPrefix + pairSymbol
}
