package utils

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const DefaultCurrency = money.BRL

// FormatMoney renders amount in the currency's display form, e.g. "R$1.234,50" for BRL.
// Amounts are truncated to the currency's minor unit.
func FormatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return amount.StringFixed(2) + " " + currency
	}

	factor := decimal.New(1, int32(cur.Fraction))
	return money.New(amount.Mul(factor).IntPart(), currency).Display()
}

func FormatBRL(amount decimal.Decimal) string {
	return FormatMoney(amount, DefaultCurrency)
}
