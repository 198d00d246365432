package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderType exchange order type.
type OrderType string

const (
	// OrderTypeExchangeMarket market order at current price against the exchange wallet.
	OrderTypeExchangeMarket OrderType = "EXCHANGE MARKET"
)

// String returns the string representation.
func (o OrderType) String() string {
	return string(o)
}

// Transfer intent to move funds between wallets.
type Transfer struct {
	WalletFrom   WalletType
	WalletTo     WalletType
	CurrencyFrom Currency
	CurrencyTo   Currency
	Amount       decimal.Decimal
}

// String returns a human-readable string representation.
func (t Transfer) String() string {
	return fmt.Sprintf("%s %s -> %s %s amount: %s",
		t.WalletFrom, t.CurrencyFrom, t.WalletTo, t.CurrencyTo, t.Amount.String())
}

// Order intent to trade at market.
type Order struct {
	Type OrderType
	// TradingSymbol market symbol with its prefix, e.g. tbtcusd.
	TradingSymbol string
	// Amount base quantity, positive buys and negative sells.
	Amount decimal.Decimal
}

// Side returns the order direction encoded in the amount sign.
func (o Order) Side() Side {
	if o.Amount.IsNegative() {
		return SideSell
	}
	return SideBuy
}

// String returns a human-readable string representation.
func (o Order) String() string {
	return fmt.Sprintf("%s %s %s amount: %s", o.Type, o.TradingSymbol, o.Side(), o.Amount.String())
}
