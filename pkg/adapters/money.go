package adapters

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders amount in the currency's own notation, R$1.234,56 for
// BRL. Unknown currency codes fall back to a plain two-digit amount.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// ValidCurrency reports whether code is an ISO 4217 code go-money knows.
func ValidCurrency(code string) bool {
	return money.GetCurrency(code) != nil
}
