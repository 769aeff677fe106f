package model

import "github.com/shopspring/decimal"

// Holding is one row of the holdings table.
type Holding struct {
	Holder       string
	Ticker       string
	Quantity     decimal.Decimal
	AveragePrice decimal.Decimal
	BuyDate      string // YYYY-MM-DD, parsed by the tax estimator
}

// CostBasis returns average price × quantity.
func (h Holding) CostBasis() decimal.Decimal {
	return h.AveragePrice.Mul(h.Quantity)
}

// Holiday is one row of the override calendar.
type Holiday struct {
	Date    string
	Message string
}
