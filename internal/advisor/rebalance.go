package advisor

import (
	"strings"

	"github.com/shopspring/decimal"

	"stockbot/internal/model"
)

// IsCommodity reports whether a ticker belongs to the commodity bucket.
func IsCommodity(ticker string, symbols []string) bool {
	upper := strings.ToUpper(ticker)
	for _, s := range symbols {
		if s != "" && strings.Contains(upper, strings.ToUpper(s)) {
			return true
		}
	}
	return false
}

// Rebalance splits holdings into commodity and equity by market value and flags the
// overweight bucket once it drifts more than the threshold from target.
func Rebalance(results []model.EvaluationResult, s Settings) model.RebalanceAdvice {
	commodity, equity := decimal.Zero, decimal.Zero
	for _, r := range results {
		if IsCommodity(r.Ticker, s.CommoditySymbols) {
			commodity = commodity.Add(r.MarketValue())
		} else {
			equity = equity.Add(r.MarketValue())
		}
	}
	total := commodity.Add(equity)
	if total.IsZero() {
		return model.RebalanceAdvice{Status: model.StatusUndefined}
	}

	advice := model.RebalanceAdvice{
		Status:       model.StatusNoAction,
		CommodityPct: commodity.Div(total).Mul(hundred),
		EquityPct:    equity.Div(total).Mul(hundred),
	}
	equityTarget := hundred.Sub(s.TargetPct)
	switch {
	case advice.EquityPct.GreaterThan(equityTarget.Add(s.ThresholdPct)):
		advice.Status = model.StatusOK
		advice.Overweight = model.BucketEquity
		advice.Transfer = total.Mul(advice.EquityPct.Sub(equityTarget)).Div(hundred)
	case advice.CommodityPct.GreaterThan(s.TargetPct.Add(s.ThresholdPct)):
		advice.Status = model.StatusOK
		advice.Overweight = model.BucketCommodity
		advice.Transfer = total.Mul(advice.CommodityPct.Sub(s.TargetPct)).Div(hundred)
	}
	return advice
}
