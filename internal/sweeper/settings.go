package sweeper

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/duster/internal/domain"
)

// Settings controls which balances are swept and where they go.
type Settings struct {
	// MaxValue skips dust wallets worth more than this in ValueCurrency. Zero disables the cap.
	MaxValue decimal.Decimal
	// ValueCurrency currency the cap is expressed in.
	ValueCurrency domain.Currency
	// RouteThrough intermediate currency used to value wallets without a direct market.
	RouteThrough domain.Currency
	// TargetCurrencies conversion targets in priority order.
	TargetCurrencies []domain.Currency
	// IgnoredCurrencies wallets never converted, in addition to the targets.
	IgnoredCurrencies []domain.Currency
	// IntermediateCurrency balance converted once more at the end of the run.
	IntermediateCurrency domain.Currency
	// FinalCurrency destination of the final consolidation.
	FinalCurrency domain.Currency
}

// DefaultSettings converts dust into btc, falling back to usd, and finally usd into btc.
func DefaultSettings() Settings {
	return Settings{
		MaxValue:             decimal.NewFromInt(10),
		ValueCurrency:        "usd",
		RouteThrough:         "btc",
		TargetCurrencies:     []domain.Currency{"btc", "usd"},
		IgnoredCurrencies:    []domain.Currency{"btc", "usd"},
		IntermediateCurrency: "usd",
		FinalCurrency:        "btc",
	}
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if len(s.TargetCurrencies) == 0 {
		return errors.New("at least one target currency is required")
	}
	if s.MaxValue.IsNegative() {
		return errors.Errorf("max value must not be negative, got %s", s.MaxValue.String())
	}
	if s.MaxValue.IsPositive() && s.ValueCurrency == "" {
		return errors.New("value currency is required when max value is set")
	}
	if s.IntermediateCurrency != "" && s.FinalCurrency == "" {
		return errors.New("final currency is required when intermediate currency is set")
	}
	return nil
}

func (s Settings) ignores(c domain.Currency) bool {
	return domain.ContainsCurrency(s.IgnoredCurrencies, c) || domain.ContainsCurrency(s.TargetCurrencies, c)
}
