package calculator

import "stockbot/internal/model"

// PercentChange returns (to - from) / from * 100.
func PercentChange(from, to float64) (float64, error) {
	if from == 0 {
		return 0, ErrUndefined
	}
	return (to - from) / from * 100, nil
}

// WindowChange compares the last close of a window against its first close.
func WindowChange(bars []model.OHLCV) (float64, error) {
	if len(bars) < 2 {
		return 0, ErrInsufficientData
	}
	return PercentChange(bars[0].Close, bars[len(bars)-1].Close)
}

// SessionChange compares the last close against the first open, the way an intraday move is quoted.
// An empty window is reported as no change.
func SessionChange(bars []model.OHLCV) (float64, error) {
	if len(bars) == 0 {
		return 0, nil
	}
	return PercentChange(bars[0].Open, bars[len(bars)-1].Close)
}
