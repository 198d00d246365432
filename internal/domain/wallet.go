package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// WalletType account subdivision holding a balance.
type WalletType string

const (
	// WalletTypeExchange spot balances.
	WalletTypeExchange WalletType = "exchange"
	// WalletTypeMargin balances funding leveraged positions.
	WalletTypeMargin WalletType = "margin"
	// WalletTypeFunding balances used for lending.
	WalletTypeFunding WalletType = "funding"
)

// String returns the string representation.
func (w WalletType) String() string {
	return string(w)
}

// Wallet balance of one currency in one wallet.
type Wallet struct {
	Type     WalletType
	Currency Currency
	// BalanceAvailable may be negative, only positive balances are actionable.
	BalanceAvailable decimal.Decimal
}

// NewWallet builds a normalized wallet.
func NewWallet(walletType, currency string, balanceAvailable decimal.Decimal) Wallet {
	return Wallet{
		Type:             WalletType(NewCurrency(walletType)),
		Currency:         NewCurrency(currency),
		BalanceAvailable: balanceAvailable,
	}
}

// HasFunds reports whether the balance is actionable.
func (w Wallet) HasFunds() bool {
	return w.BalanceAvailable.IsPositive()
}

// String returns a human-readable string representation.
func (w Wallet) String() string {
	return fmt.Sprintf("%s %s %s", w.Type, w.Currency, w.BalanceAvailable.String())
}
