package domain

import "github.com/shopspring/decimal"

// CurrencyPlaces is the precision every stored amount is rounded to.
const CurrencyPlaces = 2

// RoundMoney rounds an amount to currency precision, half away from zero.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(CurrencyPlaces)
}
