// Package market indexes priced trading pairs by base and quote currency.
package market

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
	"go.uber.org/zap"
)

// Index lookup of priced pairs by base, quote and symbol.
// It is never written after construction and is safe to share.
type Index struct {
	byBase   map[domain.Currency]map[domain.Currency]domain.PricedPair
	byQuote  map[domain.Currency]map[domain.Currency]domain.PricedPair
	bySymbol map[string]domain.PricedPair
}

// NewIndex indexes pairs. When two pairs share the same base and quote the first
// one in input order is kept.
func NewIndex(pairs []domain.PricedPair, logger *zap.Logger) *Index {
	if logger == nil {
		logger = zap.NewNop()
	}

	idx := &Index{
		byBase:   make(map[domain.Currency]map[domain.Currency]domain.PricedPair),
		byQuote:  make(map[domain.Currency]map[domain.Currency]domain.PricedPair),
		bySymbol: make(map[string]domain.PricedPair, len(pairs)),
	}

	for _, p := range pairs {
		base, quote := domain.NewCurrency(p.Base.String()), domain.NewCurrency(p.Quote.String())
		if existing, ok := idx.byBase[base][quote]; ok {
			logger.Debug("duplicate market, keeping first",
				zap.String("kept", existing.Symbol),
				zap.String("dropped", p.Symbol))
			continue
		}

		if idx.byBase[base] == nil {
			idx.byBase[base] = make(map[domain.Currency]domain.PricedPair)
		}
		if idx.byQuote[quote] == nil {
			idx.byQuote[quote] = make(map[domain.Currency]domain.PricedPair)
		}
		idx.byBase[base][quote] = p
		idx.byQuote[quote][base] = p
		idx.bySymbol[p.Symbol] = p
	}

	return idx
}

// Len returns the number of indexed pairs.
func (i *Index) Len() int {
	return len(i.bySymbol)
}

// PairBySymbol looks a pair up by its lowercase symbol.
func (i *Index) PairBySymbol(symbol string) (domain.PricedPair, bool) {
	p, ok := i.bySymbol[symbol]
	return p, ok
}

// Bases returns the pairs quoted against currency, keyed by their base.
func (i *Index) Bases(currency domain.Currency) map[domain.Currency]domain.PricedPair {
	return copyPairs(i.byQuote[domain.NewCurrency(currency.String())])
}

// Quotes returns the pairs with currency as base, keyed by their quote.
func (i *Index) Quotes(currency domain.Currency) map[domain.Currency]domain.PricedPair {
	return copyPairs(i.byBase[domain.NewCurrency(currency.String())])
}

// FindPairs returns the markets that convert from into to: the market selling from
// for to first, then the market buying to with from.
func (i *Index) FindPairs(from, to domain.Currency) []domain.PricedPair {
	from, to = domain.NewCurrency(from.String()), domain.NewCurrency(to.String())

	var result []domain.PricedPair
	if p, ok := i.byBase[from][to]; ok {
		result = append(result, p)
	}
	if p, ok := i.byQuote[from][to]; ok {
		result = append(result, p)
	}
	return result
}

// ValueOf returns how much one unit of base is worth in quote. When no market links
// them directly and through is set, the value is routed through that currency.
// Routing is limited to a single intermediate hop.
func (i *Index) ValueOf(base, quote, through domain.Currency) (decimal.Decimal, bool) {
	base, quote = domain.NewCurrency(base.String()), domain.NewCurrency(quote.String())

	if v, ok := i.directValue(base, quote); ok {
		return v, true
	}

	through = domain.NewCurrency(through.String())
	if through == "" || through == base || through == quote {
		return decimal.Zero, false
	}

	inThrough, ok := i.directValue(base, through)
	if !ok {
		return decimal.Zero, false
	}
	inQuote, ok := i.directValue(through, quote)
	if !ok {
		return decimal.Zero, false
	}

	return inThrough.Mul(inQuote), true
}

func (i *Index) directValue(base, quote domain.Currency) (decimal.Decimal, bool) {
	if base == quote {
		return decimal.NewFromInt(1), true
	}
	if p, ok := i.byBase[base][quote]; ok && p.LastPrice.IsPositive() {
		return p.LastPrice, true
	}
	if p, ok := i.byQuote[base][quote]; ok && p.LastPrice.IsPositive() {
		return decimal.NewFromInt(1).Div(p.LastPrice), true
	}
	return decimal.Zero, false
}

func copyPairs(in map[domain.Currency]domain.PricedPair) map[domain.Currency]domain.PricedPair {
	out := make(map[domain.Currency]domain.PricedPair, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
