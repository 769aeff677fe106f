package advisor

import (
	"github.com/shopspring/decimal"

	"stockbot/internal/model"
)

var averagingTiers = []int{50, 100}

// AveragingDown suggests blended averages for buying 50% and 100% more when the live price sits
// below the trigger fraction of the average price. No trigger means no tiers.
func AveragingDown(qty, avg, live, trigger decimal.Decimal) model.AveragingAdvice {
	if !live.LessThan(avg.Mul(trigger)) {
		return model.AveragingAdvice{}
	}
	var advice model.AveragingAdvice
	for _, pct := range averagingTiers {
		extra := qty.Mul(decimal.NewFromInt(int64(pct))).Div(decimal.NewFromInt(100)).Floor()
		if extra.LessThan(decimal.NewFromInt(1)) {
			extra = decimal.NewFromInt(1)
		}
		newAvg := qty.Mul(avg).Add(extra.Mul(live)).Div(qty.Add(extra))
		advice.Tiers = append(advice.Tiers, model.AveragingTier{
			Percent:    pct,
			ExtraQty:   extra,
			NewAverage: newAvg,
			Reduction:  avg.Sub(newAvg),
		})
	}
	return advice
}
