// Package domain defines core data structures used throughout the duster.
package domain

import "strings"

// Currency short currency code, always lowercase.
type Currency string

// NewCurrency normalizes a currency code.
func NewCurrency(code string) Currency {
	return Currency(strings.ToLower(strings.TrimSpace(code)))
}

// NewCurrencies normalizes a list of currency codes, dropping empty entries.
func NewCurrencies(codes ...string) []Currency {
	out := make([]Currency, 0, len(codes))
	for _, c := range codes {
		if cur := NewCurrency(c); cur != "" {
			out = append(out, cur)
		}
	}
	return out
}

// String returns the string representation.
func (c Currency) String() string {
	return string(c)
}

// Equal compares currencies ignoring case.
func (c Currency) Equal(other Currency) bool {
	return strings.EqualFold(string(c), string(other))
}

// ContainsCurrency reports whether c is present in list.
func ContainsCurrency(list []Currency, c Currency) bool {
	for _, item := range list {
		if item.Equal(c) {
			return true
		}
	}
	return false
}
