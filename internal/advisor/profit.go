package advisor

import (
	"github.com/shopspring/decimal"

	"stockbot/internal/model"
)

var hundred = decimal.NewFromInt(100)

// profitPct returns pl / (avg × qty) × 100, false when the cost basis is zero.
func profitPct(r model.EvaluationResult) (decimal.Decimal, bool) {
	basis := r.AveragePrice.Mul(r.Quantity)
	if basis.IsZero() {
		return decimal.Zero, false
	}
	return r.ProfitLoss.Div(basis).Mul(hundred), true
}

// IsBookingCandidate reports whether one holding's gain reached the threshold.
func IsBookingCandidate(r model.EvaluationResult, threshold decimal.Decimal) bool {
	pct, ok := profitPct(r)
	return ok && pct.GreaterThanOrEqual(threshold)
}

// ProfitBooking flags every holding whose gain reached the threshold percentage.
func ProfitBooking(results []model.EvaluationResult, threshold decimal.Decimal) model.ProfitBookingAdvice {
	var advice model.ProfitBookingAdvice
	for _, r := range results {
		pct, ok := profitPct(r)
		if !ok || pct.LessThan(threshold) {
			continue
		}
		advice.Candidates = append(advice.Candidates, model.BookingCandidate{
			Ticker: r.Ticker,
			Pct:    pct,
			Gain:   r.ProfitLoss,
		})
	}
	if len(advice.Candidates) == 0 {
		advice.Status = model.StatusNoAction
	} else {
		advice.Status = model.StatusOK
	}
	return advice
}
