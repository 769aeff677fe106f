package advisor

import (
	"time"

	"github.com/shopspring/decimal"

	"stockbot/internal/model"
)

// EvaluateHolding computes every per-ticker signal for one holding.
// fund may be nil when fundamentals could not be fetched.
func EvaluateHolding(h model.Holding, q model.Quote, fund *model.Fundamentals, now time.Time, s Settings) model.EvaluationResult {
	live := decimal.NewFromFloat(q.LastClose).Round(2)
	pl := live.Sub(h.AveragePrice).Mul(h.Quantity).Round(2)

	r := model.EvaluationResult{
		Ticker:       h.Ticker,
		Quantity:     h.Quantity,
		AveragePrice: h.AveragePrice,
		LivePrice:    live,
		ProfitLoss:   pl,
		Tax:          EstimateTax(h.BuyDate, pl, now),
		RSI:          RSISignalFor(model.Closes(q.History)),
		Intrinsic:    IntrinsicValue(fund, live.InexactFloat64()),
		Averaging:    AveragingDown(h.Quantity, h.AveragePrice, live, s.AveragingTrigger),
		News:         model.Commentary{Status: model.StatusUnavailable},
	}
	if pct, ok := profitPct(r); ok {
		r.ProfitLossPct = pct
	}
	r.ProfitBooking = IsBookingCandidate(r, s.ProfitBookingPct)
	return r
}

// EvaluatePortfolio derives the portfolio-level signals from already computed holdings.
func EvaluatePortfolio(snap *model.PortfolioSnapshot, market *model.MarketContext, s Settings) {
	total, pl := decimal.Zero, decimal.Zero
	for _, r := range snap.Results {
		total = total.Add(r.MarketValue())
		pl = pl.Add(r.ProfitLoss)
	}
	snap.TotalValue = total
	snap.TotalPL = pl
	snap.Rebalance = Rebalance(snap.Results, s)
	snap.Hedge = Hedge(total, market, s)
	snap.Sentiment = MarketSentiment(market)
	snap.Breadth = MarketBreadth(market)
	snap.ProfitBooking = ProfitBooking(snap.Results, s.ProfitBookingPct)
	if snap.ExpertAdvice.Status == "" {
		snap.ExpertAdvice.Status = model.StatusUnavailable
	}
}
