package notifier

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stockbot/internal/model"
	"stockbot/internal/recorder"
)

const rule = "━━━━━━━━━━━━━━━━━━\n"

var markupReplacer = strings.NewReplacer("*", "", "_", " ", "`", "'", "[", "(", "]", ")")

// StripMarkup removes the characters chat Markdown treats as entity delimiters,
// so text from holders, feeds or the model cannot unbalance a message.
func StripMarkup(s string) string {
	return markupReplacer.Replace(s)
}

// FormatHoliday is the greeting sent instead of a report on calendar days.
func FormatHoliday(name, message string) string {
	return fmt.Sprintf("Hello %s!\n%s", StripMarkup(name), StripMarkup(message))
}

// FormatReport renders one holder's snapshot as a chat message.
func FormatReport(snap *model.PortfolioSnapshot) string {
	var b strings.Builder

	b.WriteString("🌟 *Live Portfolio Report* 🌟\n")
	b.WriteString(rule)
	b.WriteString(fmt.Sprintf("👤 *Holder:* %s\n", StripMarkup(snap.Holder)))
	b.WriteString(fmt.Sprintf("⏰ *Time:* %s\n", snap.RunAt.Format("02-01-2006 03:04 PM")))
	b.WriteString(rule)

	for _, r := range snap.Results {
		writeHolding(&b, r)
		b.WriteString("\n")
	}
	if len(snap.FailedTickers) > 0 {
		b.WriteString(fmt.Sprintf("⚠️ Price unavailable for: %s\n", StripMarkup(strings.Join(snap.FailedTickers, ", "))))
		b.WriteString(rule)
	}

	icon, label := "📈", "Profit"
	if snap.TotalPL.IsNegative() {
		icon, label = "📉", "Loss"
	}
	b.WriteString(fmt.Sprintf("%s *Today's overall %s:*\n", icon, strings.ToLower(label)))
	b.WriteString(fmt.Sprintf("👉 *%s* (value %s)\n", model.INR(snap.TotalPL), model.INR(snap.TotalValue)))
	b.WriteString(rule)
	b.WriteString(fmt.Sprintf("🧠 *Market mood:*\n%s\n", sentimentText(snap.Sentiment)))
	b.WriteString(rule)
	b.WriteString(fmt.Sprintf("🤖 *Advice:*\n_%s_\n", commentaryText(snap.ExpertAdvice, "Watch the market and keep investing steadily.")))
	b.WriteString(rule)
	b.WriteString(fmt.Sprintf("🎯 *Profit booking:*\n%s", profitBookingText(snap.ProfitBooking)))
	b.WriteString(rule)
	b.WriteString(breadthText(snap.Breadth) + "\n")
	b.WriteString(rule)
	b.WriteString(rebalanceText(snap.Rebalance))
	b.WriteString(rule)
	if text := hedgeText(snap.Hedge); text != "" {
		b.WriteString(text + "\n")
		b.WriteString(rule)
	}
	b.WriteString("💡 _Keep investing!_")
	return b.String()
}

func writeHolding(b *strings.Builder, r model.EvaluationResult) {
	icon, label := "🟢", "Profit"
	if r.ProfitLoss.IsNegative() {
		icon, label = "🔴", "Loss"
	}
	b.WriteString(fmt.Sprintf("%s *%s*\n", icon, StripMarkup(r.Ticker)))
	b.WriteString(fmt.Sprintf("   ┣ %s: *%s* (%s%%)\n", label, model.INR(r.ProfitLoss), signed(r.ProfitLossPct, 1)))
	b.WriteString(fmt.Sprintf("   ┗ Tax: _%s_\n", taxText(r.Tax)))
	b.WriteString(rsiText(r.RSI))
	b.WriteString(fmt.Sprintf("   ┗ 🤖 *News:* _%s_\n", newsText(r.Ticker, r.News)))
	if text := intrinsicText(r.Intrinsic); text != "" {
		b.WriteString(text + "\n")
	}
	if r.Averaging.Triggered() {
		b.WriteString("📉 *Averaging down:*\n")
		for _, t := range r.Averaging.Tiers {
			b.WriteString(fmt.Sprintf("   ┣ Buy %d%% more (%s shares): new avg *%s* (📉 -%s)\n",
				t.Percent, t.ExtraQty, model.INR(t.NewAverage), t.Reduction.StringFixed(2)))
		}
	}
	b.WriteString(rule)
}

func signed(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	if d.IsPositive() {
		return "+" + s
	}
	return s
}

func taxText(t model.TaxEstimate) string {
	switch t.Status {
	case model.StatusOK:
		return fmt.Sprintf("%s(%s%%): %s", t.Kind, t.Rate.Mul(decimal.NewFromInt(100)).String(), model.INR(t.Amount))
	case model.StatusNoTax:
		return "No tax"
	case model.StatusDateError:
		return "Date error"
	default:
		return "Unavailable"
	}
}

func rsiText(s model.RSISignal) string {
	switch s.Status {
	case model.StatusOK:
		switch s.Zone {
		case model.ZoneOverbought:
			return fmt.Sprintf("   ┣ 📉 *RSI:* %.2f (Overbought) - price may cool off ⚠️\n", s.Value)
		case model.ZoneOversold:
			return fmt.Sprintf("   ┣ 📈 *RSI:* %.2f (Oversold) - a buying opportunity ✅\n", s.Value)
		default:
			return fmt.Sprintf("   ┣ 📊 *RSI:* %.2f (Neutral) - steady\n", s.Value)
		}
	case model.StatusInsufficientData:
		return "   ┣ 📊 *RSI:* not enough price history\n"
	case model.StatusUndefined:
		return "   ┣ 📊 *RSI:* no losing sessions in the window\n"
	default:
		return "   ┣ 📊 *RSI:* unavailable\n"
	}
}

func newsText(ticker string, c model.Commentary) string {
	switch c.Status {
	case model.StatusOK:
		return StripMarkup(c.Text)
	case model.StatusNoAction:
		return fmt.Sprintf("No fresh news on %s today.", StripMarkup(ticker))
	default:
		return "News analysis unavailable."
	}
}

func commentaryText(c model.Commentary, fallback string) string {
	if c.Status == model.StatusOK && c.Text != "" {
		return StripMarkup(c.Text)
	}
	return fallback
}

func intrinsicText(s model.IntrinsicSignal) string {
	if s.Status != model.StatusOK {
		return ""
	}
	if s.Discounted {
		return fmt.Sprintf("💎 *Intrinsic value:*\n   ┗ Trading at a %.1f%% discount (fair value ₹%.2f).", -s.SignedPct, s.Intrinsic)
	}
	return fmt.Sprintf("⚠️ *Caution:* trading %.1f%% above intrinsic value (fair value ₹%.2f).", s.SignedPct, s.Intrinsic)
}

func sentimentText(s model.SentimentSignal) string {
	if s.Status != model.StatusOK {
		return "⚖️ Market sentiment could not be computed right now."
	}
	switch s.Class {
	case model.SentimentDistressed:
		return fmt.Sprintf("📉 *Market under stress:* the index is down %.2f%% today. Do not panic sell; wait for it to settle. ⚠️", s.DailyChange)
	case model.SentimentExtremeFear:
		return "😱 *Extreme fear:*\n   ┗ A good time to buy at a discount. ✅"
	case model.SentimentExtremeGreed:
		return "🤩 *Extreme greed:*\n   ┗ Avoid fresh buying; consider booking profits. ⚠️"
	default:
		if s.RSI.Status == model.StatusOK {
			return fmt.Sprintf("⚖️ *Neutral:*\n   ┗ RSI: %.1f. Keep investing.", s.RSI.Value)
		}
		return "⚖️ *Neutral:*\n   ┗ Keep investing."
	}
}

func breadthText(s model.BreadthSignal) string {
	if s.Status != model.StatusOK {
		return "📊 *Market:* index data unavailable"
	}
	status := "🔴 Weak"
	if s.Change > 0 {
		status = "🟢 Strong"
	}
	return fmt.Sprintf("📊 *Market (%s):*\n   ┗ %s (%+.2f%%)", StripMarkup(s.Symbol), status, s.Change)
}

func profitBookingText(a model.ProfitBookingAdvice) string {
	if a.Status != model.StatusOK {
		return "   ┗ No holding has reached the profit target yet. Hold. ✅\n"
	}
	var b strings.Builder
	for _, c := range a.Candidates {
		b.WriteString(fmt.Sprintf("   ┣ 🚀 *%s:* %s%% gain (%s)\n", StripMarkup(c.Ticker), c.Pct.StringFixed(1), model.INR(c.Gain)))
		b.WriteString("   ┗ ✨ Target reached. Consider selling a part to book profit.\n")
	}
	return b.String()
}

func rebalanceText(a model.RebalanceAdvice) string {
	var b strings.Builder
	b.WriteString("⚖️ *Rebalancing (commodity vs equity):*\n")
	switch a.Status {
	case model.StatusUndefined:
		b.WriteString("   ┗ Portfolio value is zero.\n")
		return b.String()
	case model.StatusOK:
		b.WriteString(fmt.Sprintf("   ┣ Commodity: %s%% | Equity: %s%%\n", a.CommodityPct.StringFixed(1), a.EquityPct.StringFixed(1)))
		if a.Overweight == model.BucketEquity {
			b.WriteString(fmt.Sprintf("   ┗ ⚠️ Equity is overweight. Move %s from equity into gold.\n", model.INR(a.Transfer)))
		} else {
			b.WriteString(fmt.Sprintf("   ┗ ⚠️ Commodity is overweight. Move %s from gold into equity.\n", model.INR(a.Transfer)))
		}
	default:
		b.WriteString(fmt.Sprintf("   ┣ Commodity: %s%% | Equity: %s%%\n", a.CommodityPct.StringFixed(1), a.EquityPct.StringFixed(1)))
		b.WriteString("   ┗ ✅ Balanced.\n")
	}
	return b.String()
}

func hedgeText(h model.HedgeAdvice) string {
	if h.Status != model.StatusOK {
		return ""
	}
	return fmt.Sprintf("🛡️ *Hedging shield:*\n   ┣ The market fell %.1f%% over the past week.\n"+
		"   ┗ ⚠️ Protect your portfolio: buy %s of %s.", h.MarketChange, model.INR(h.Amount), StripMarkup(h.Instrument))
}

// FormatHistory renders history rows as a markdown table.
func FormatHistory(rows []recorder.HistoryRow) string {
	if len(rows) == 0 {
		return "No history recorded yet."
	}
	var b strings.Builder
	b.WriteString("| Date | Holder | Ticker | Qty | Live | P&L | Tax |\n")
	b.WriteString("|---|---|---|---:|---:|---:|---|\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("| %s | %s | %s | %g | %.2f | %.2f | %s |\n",
			r.RunDate, StripMarkup(r.Holder), StripMarkup(r.Ticker), r.Quantity, r.LivePrice, r.ProfitLoss, historyTax(r)))
	}
	return b.String()
}

func historyTax(r recorder.HistoryRow) string {
	switch model.Status(r.TaxStatus) {
	case model.StatusOK:
		return fmt.Sprintf("%.2f", r.TaxEstimate)
	case model.StatusNoTax:
		return "No tax"
	case model.StatusDateError:
		return "Date error"
	default:
		return "Unavailable"
	}
}
