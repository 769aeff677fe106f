package calculator

import "errors"

// RSIPeriod is the lookback used throughout the bot.
const RSIPeriod = 14

// CalculateRSI computes a simple-moving-average RSI over the last `period` day-over-day deltas.
//
// At least `period` closes are required. The delta before the first close counts as zero, so
// exactly `period` closes yield a value. A zero average loss makes the relative strength
// undefined and returns ErrUndefined instead of a value.
func CalculateRSI(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period {
		return 0, ErrInsufficientData
	}

	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain, err := CalculateSMA(gains, period)
	if err != nil {
		return 0, err
	}
	avgLoss, err := CalculateSMA(losses, period)
	if err != nil {
		return 0, err
	}
	if avgLoss == 0 {
		return 0, ErrUndefined
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs), nil
}
