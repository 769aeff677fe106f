package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Closes extracts the closing prices in bar order.
func Closes(bars []OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// Quote is the latest close plus the short history used by the per-ticker heuristics.
type Quote struct {
	Ticker    string
	LastClose float64
	History   []OHLCV // oldest first
	FetchedAt time.Time
}

// Fundamentals holds the per-share figures used for the intrinsic value estimate.
// A nil field means the provider did not report it.
type Fundamentals struct {
	TrailingEPS *float64
	ForwardEPS  *float64
	BookValue   *float64
	PriceToBook *float64
}

// MarketContext is the index proxy data shared by every holder in a run.
type MarketContext struct {
	Symbol    string
	Intraday  []OHLCV // 1-day window
	Week      []OHLCV // 5-day window
	RSIWindow []OHLCV // 20-day window
	Err       error   // set when the index could not be fetched at all

	// Per-window fetch failures.
	IntradayErr  error
	WeekErr      error
	RSIWindowErr error
}
