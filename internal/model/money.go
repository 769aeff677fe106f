package model

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var plainAmount = money.NewFormatter(2, ".", ",", "", "1")

func paise(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// INR renders an amount with the rupee sign, e.g. ₹1,234.50.
func INR(d decimal.Decimal) string {
	return money.New(paise(d), money.INR).Display()
}

// Amount renders an amount with thousands separators and no currency sign.
func Amount(d decimal.Decimal) string {
	return plainAmount.Format(paise(d))
}
