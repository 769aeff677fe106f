package advisor

import (
	"stockbot/internal/calculator"
	"stockbot/internal/model"
)

// distressThreshold is the intraday fall that overrides the oscillator.
const distressThreshold = -1.5

// ClassifySentiment applies the daily shock first and only then looks at RSI.
func ClassifySentiment(dailyChange float64, rsi model.RSISignal) model.Sentiment {
	if dailyChange <= distressThreshold {
		return model.SentimentDistressed
	}
	if rsi.Status != model.StatusOK {
		return model.SentimentNeutral
	}
	switch {
	case rsi.Value < 30:
		return model.SentimentExtremeFear
	case rsi.Value > 70:
		return model.SentimentExtremeGreed
	default:
		return model.SentimentNeutral
	}
}

// MarketSentiment classifies the index proxy.
func MarketSentiment(market *model.MarketContext) model.SentimentSignal {
	if market == nil || market.Err != nil {
		return model.SentimentSignal{Status: model.StatusUnavailable}
	}
	daily, err := calculator.SessionChange(market.Intraday)
	if err != nil {
		daily = 0
	}
	rsi := model.RSISignal{Status: model.StatusUnavailable}
	if market.RSIWindowErr == nil {
		rsi = RSISignalFor(model.Closes(market.RSIWindow))
	}
	return model.SentimentSignal{
		Status:      model.StatusOK,
		Class:       ClassifySentiment(daily, rsi),
		DailyChange: daily,
		RSI:         rsi,
	}
}

// MarketBreadth reports the index intraday move.
func MarketBreadth(market *model.MarketContext) model.BreadthSignal {
	if market == nil || market.Err != nil || market.IntradayErr != nil || len(market.Intraday) == 0 {
		return model.BreadthSignal{Status: model.StatusUnavailable}
	}
	change, err := calculator.SessionChange(market.Intraday)
	if err != nil {
		return model.BreadthSignal{Status: model.StatusUndefined, Symbol: market.Symbol}
	}
	return model.BreadthSignal{Status: model.StatusOK, Symbol: market.Symbol, Change: change}
}
