package notifier

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stockbot/internal/model"
	"stockbot/internal/recorder"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func sampleSnapshot() *model.PortfolioSnapshot {
	return &model.PortfolioSnapshot{
		Holder: "Asha",
		RunAt:  time.Date(2025, 1, 6, 9, 15, 0, 0, time.UTC),
		Results: []model.EvaluationResult{
			{
				Ticker:        "TCS.NS",
				Quantity:      d("10"),
				AveragePrice:  d("3000"),
				LivePrice:     d("3700"),
				ProfitLoss:    d("7000"),
				ProfitLossPct: d("23.3333"),
				Tax:           model.TaxEstimate{Status: model.StatusOK, Kind: model.TaxShortTerm, Rate: d("0.20"), Amount: d("1400")},
				RSI:           model.RSISignal{Status: model.StatusOK, Value: 72.5, Zone: model.ZoneOverbought},
				Intrinsic:     model.IntrinsicSignal{Status: model.StatusOK, Intrinsic: 4000, SignedPct: -7.5, Discounted: true},
				News:          model.Commentary{Status: model.StatusOK, Text: "Results may lift the stock."},
				ProfitBooking: true,
			},
			{
				Ticker:        "GOLDBEES.NS",
				Quantity:      d("5"),
				AveragePrice:  d("16.10"),
				LivePrice:     d("13.50"),
				ProfitLoss:    d("-13.00"),
				ProfitLossPct: d("-16.1"),
				Tax:           model.TaxEstimate{Status: model.StatusNoTax},
				RSI:           model.RSISignal{Status: model.StatusInsufficientData},
				Intrinsic:     model.IntrinsicSignal{Status: model.StatusUnavailable},
				News:          model.Commentary{Status: model.StatusNoAction},
				Averaging: model.AveragingAdvice{Tiers: []model.AveragingTier{
					{Percent: 50, ExtraQty: d("2"), NewAverage: d("15.36"), Reduction: d("0.74")},
					{Percent: 100, ExtraQty: d("5"), NewAverage: d("14.80"), Reduction: d("1.30")},
				}},
			},
		},
		FailedTickers: []string{"BAD.NS"},
		TotalValue:    d("37067.50"),
		TotalPL:       d("6987.00"),
		Rebalance: model.RebalanceAdvice{Status: model.StatusOK, CommodityPct: d("0.18"), EquityPct: d("99.82"),
			Overweight: model.BucketEquity, Transfer: d("18466.04")},
		Hedge:     model.HedgeAdvice{Status: model.StatusOK, MarketChange: -2.4, Amount: d("5560.13"), Instrument: "Gold ETF or liquid fund"},
		Sentiment: model.SentimentSignal{Status: model.StatusOK, Class: model.SentimentExtremeGreed},
		Breadth:   model.BreadthSignal{Status: model.StatusOK, Symbol: "^NSEI", Change: 0.42},
		ProfitBooking: model.ProfitBookingAdvice{Status: model.StatusOK, Candidates: []model.BookingCandidate{
			{Ticker: "TCS.NS", Pct: d("23.3333"), Gain: d("7000")},
		}},
		ExpertAdvice: model.Commentary{Status: model.StatusUnavailable},
	}
}

func TestFormatReport(t *testing.T) {
	msg := FormatReport(sampleSnapshot())

	for _, want := range []string{
		"👤 *Holder:* Asha",
		"⏰ *Time:* 06-01-2025 09:15 AM",
		"🟢 *TCS.NS*",
		"Profit: *₹7,000.00* (+23.3%)",
		"Tax: _STCG(20%): ₹1,400.00_",
		"*RSI:* 72.50 (Overbought)",
		"Results may lift the stock.",
		"7.5% discount (fair value ₹4000.00)",
		"🔴 *GOLDBEES.NS*",
		"Loss: *-₹13.00* (-16.1%)",
		"Tax: _No tax_",
		"RSI:* not enough price history",
		"No fresh news on GOLDBEES.NS today.",
		"Buy 50% more (2 shares): new avg *₹15.36* (📉 -0.74)",
		"Price unavailable for: BAD.NS",
		"👉 *₹6,987.00*",
		"Extreme greed",
		"Watch the market and keep investing steadily.",
		"🚀 *TCS.NS:* 23.3% gain (₹7,000.00)",
		"🟢 Strong (+0.42%)",
		"Move ₹18,466.04 from equity into gold.",
		"buy ₹5,560.13 of Gold ETF or liquid fund",
	} {
		assert.Contains(t, msg, want)
	}
}

func TestFormatReportFallbacks(t *testing.T) {
	snap := &model.PortfolioSnapshot{
		Holder:        "Ravi",
		TotalPL:       d("-10"),
		Rebalance:     model.RebalanceAdvice{Status: model.StatusUndefined},
		Hedge:         model.HedgeAdvice{Status: model.StatusInsufficientData},
		Sentiment:     model.SentimentSignal{Status: model.StatusUnavailable},
		Breadth:       model.BreadthSignal{Status: model.StatusUnavailable},
		ProfitBooking: model.ProfitBookingAdvice{Status: model.StatusNoAction},
		ExpertAdvice:  model.Commentary{Status: model.StatusOK, Text: "Hold."},
	}
	msg := FormatReport(snap)

	assert.Contains(t, msg, "Portfolio value is zero.")
	assert.Contains(t, msg, "could not be computed")
	assert.Contains(t, msg, "index data unavailable")
	assert.Contains(t, msg, "Hold. ✅")
	assert.Contains(t, msg, "_Hold._")
	assert.NotContains(t, msg, "Hedging shield")
}

func TestStatusTexts(t *testing.T) {
	assert.Equal(t, "Date error", taxText(model.TaxEstimate{Status: model.StatusDateError}))
	assert.Contains(t, rsiText(model.RSISignal{Status: model.StatusUndefined}), "no losing sessions")
	assert.Contains(t, rsiText(model.RSISignal{Status: model.StatusOK, Value: 25, Zone: model.ZoneOversold}), "Oversold")
	assert.Equal(t, "", intrinsicText(model.IntrinsicSignal{Status: model.StatusUnavailable}))
	assert.Contains(t, intrinsicText(model.IntrinsicSignal{Status: model.StatusOK, Intrinsic: 100, SignedPct: 12}), "12.0% above")
	assert.Contains(t, sentimentText(model.SentimentSignal{Status: model.StatusOK, Class: model.SentimentDistressed, DailyChange: -1.8}), "down -1.80%")
	assert.Contains(t, rebalanceText(model.RebalanceAdvice{Status: model.StatusNoAction, CommodityPct: d("48"), EquityPct: d("52")}), "Balanced")
	assert.Contains(t, rebalanceText(model.RebalanceAdvice{Status: model.StatusOK, Overweight: model.BucketCommodity, Transfer: d("100")}), "from gold into equity")
	assert.Equal(t, "News analysis unavailable.", newsText("X", model.Commentary{Status: model.StatusUnavailable}))
}

func TestFormatHoliday(t *testing.T) {
	assert.Equal(t, "Hello Asha!\nMarkets closed for Diwali", FormatHoliday("Asha", "Markets closed for Diwali"))
}

func TestSpeechScript(t *testing.T) {
	snap := sampleSnapshot()
	script := SpeechScript(snap)
	assert.True(t, strings.HasPrefix(script, "Hello Asha. As of today's market, your portfolio is up by 6987.00 rupees. "))
	assert.Contains(t, script, "TCS.NS leads today with a profit of 7000.00 rupees.")
	assert.Contains(t, script, "be careful")
	assert.True(t, strings.HasSuffix(script, "Keep investing. Thank you!"))

	loss := &model.PortfolioSnapshot{
		Holder:  "Ravi",
		TotalPL: d("-30"),
		Results: []model.EvaluationResult{
			{Ticker: "A", ProfitLoss: d("-20")},
			{Ticker: "B", ProfitLoss: d("-10")},
		},
		Sentiment: model.SentimentSignal{Status: model.StatusOK, Class: model.SentimentExtremeFear},
	}
	script = SpeechScript(loss)
	assert.Contains(t, script, "down by 30.00 rupees")
	assert.Contains(t, script, "All your holdings are in loss today. B has the smallest loss.")
	assert.Contains(t, script, "buying opportunity")

	flat := &model.PortfolioSnapshot{Holder: "Ravi", Results: []model.EvaluationResult{{Ticker: "C"}}}
	script = SpeechScript(flat)
	assert.Contains(t, script, "C is unchanged today.")
	assert.Contains(t, script, "calm")
}

func TestFormatHistory(t *testing.T) {
	assert.Equal(t, "No history recorded yet.", FormatHistory(nil))

	table := FormatHistory([]recorder.HistoryRow{
		{RunDate: "2025-01-06 09:15:00", Holder: "Asha", Ticker: "TCS.NS", Quantity: 10, LivePrice: 3700, ProfitLoss: 7000, TaxEstimate: 1400, TaxStatus: "ok"},
		{RunDate: "2025-01-06 09:15:00", Holder: "Asha", Ticker: "GOLDBEES.NS", Quantity: 5, LivePrice: 13.5, ProfitLoss: -13, TaxStatus: "no_tax"},
	})
	assert.Contains(t, table, "| 2025-01-06 09:15:00 | Asha | TCS.NS | 10 | 3700.00 | 7000.00 | 1400.00 |")
	assert.Contains(t, table, "| GOLDBEES.NS | 5 | 13.50 | -13.00 | No tax |")
	assertBalancedMarkup(t, table)

	table = FormatHistory([]recorder.HistoryRow{
		{Holder: "Asha", Ticker: "X", TaxStatus: "date_error"},
		{Holder: "Asha", Ticker: "Y", TaxStatus: "unavailable"},
	})
	assert.Contains(t, table, "| Date error |")
	assert.Contains(t, table, "| Unavailable |")
}

// assertBalancedMarkup fails when a Markdown entity delimiter is left open or a link bracket appears.
func assertBalancedMarkup(t *testing.T, msg string) {
	t.Helper()
	for _, delim := range []string{"*", "_", "`"} {
		assert.Zero(t, strings.Count(msg, delim)%2, "unbalanced %q in:\n%s", delim, msg)
	}
	assert.NotContains(t, msg, "[")
}

func TestFormatReport_ExternalTextCannotBreakMarkup(t *testing.T) {
	snap := sampleSnapshot()
	snap.Holder = "Asha_K"
	snap.FailedTickers = []string{"BAD_1.NS"}
	snap.Results[0].News = model.Commentary{Status: model.StatusOK, Text: "**Q2 beat**, margin_pressure eases [read more"}
	snap.ExpertAdvice = model.Commentary{Status: model.StatusOK, Text: "Book *some* profit in `TCS`_now"}

	msg := FormatReport(snap)
	assertBalancedMarkup(t, msg)
	assert.Contains(t, msg, "Q2 beat, margin pressure eases (read more")
	assert.Contains(t, msg, "👤 *Holder:* Asha K")

	assertBalancedMarkup(t, FormatReport(sampleSnapshot()))
	assertBalancedMarkup(t, FormatHoliday("Asha_K", "Closed for *Diwali"))
}
