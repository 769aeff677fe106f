package advisor

import "github.com/shopspring/decimal"

// Settings carries the configurable advice thresholds.
type Settings struct {
	CommoditySymbols []string        // case-insensitive substrings marking the commodity bucket
	TargetPct        decimal.Decimal // commodity target share of portfolio value
	ThresholdPct     decimal.Decimal // tolerated deviation in percentage points
	ProfitBookingPct decimal.Decimal
	AveragingTrigger decimal.Decimal // live < avg × trigger fires averaging advice
	HedgeTriggerPct  float64         // 5-day index change below this fires hedging advice
	HedgeRatio       decimal.Decimal
	HedgeInstrument  string
}

// DefaultSettings returns the thresholds of the latest revision.
func DefaultSettings() Settings {
	return Settings{
		CommoditySymbols: []string{"GOLD", "SILVER"},
		TargetPct:        decimal.NewFromInt(50),
		ThresholdPct:     decimal.NewFromInt(5),
		ProfitBookingPct: decimal.NewFromInt(20),
		AveragingTrigger: decimal.RequireFromString("0.98"),
		HedgeTriggerPct:  -2.0,
		HedgeRatio:       decimal.RequireFromString("0.15"),
		HedgeInstrument:  "Gold ETF or liquid fund",
	}
}
