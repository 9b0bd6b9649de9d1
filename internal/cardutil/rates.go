package cardutil

import "github.com/shopspring/decimal"

// Numeric currency codes understood by the rate table. UZS is the base
// currency; RUB and USD are the accepted sending currencies.
const (
	CurrencyUZS = 860
	CurrencyRUB = 643
	CurrencyUSD = 840
)

// rates maps a sending currency to its UZS exchange rate. The table is
// static; live rate fetching is out of scope.
var rates = map[int]decimal.Decimal{
	CurrencyUZS: decimal.NewFromFloat(1.0),
	CurrencyRUB: decimal.NewFromFloat(140.0),
	CurrencyUSD: decimal.NewFromFloat(12600.0),
}

// ExchangeRate returns the UZS rate for a currency code. It reports false
// for unknown codes.
func ExchangeRate(currency int) (decimal.Decimal, bool) {
	rate, ok := rates[currency]
	return rate, ok
}

// Convert computes the receiving amount for a sending amount in the given
// currency. It reports false for unknown currency codes.
func Convert(amount decimal.Decimal, currency int) (decimal.Decimal, bool) {
	rate, ok := rates[currency]
	if !ok {
		return decimal.Decimal{}, false
	}
	return amount.Mul(rate), true
}
