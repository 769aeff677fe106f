package advisor

import (
	"errors"

	"stockbot/internal/calculator"
	"stockbot/internal/model"
)

// ClassifyRSI buckets an RSI value: >= 70 overbought, <= 30 oversold.
func ClassifyRSI(rsi float64) model.RSIZone {
	switch {
	case rsi >= 70:
		return model.ZoneOverbought
	case rsi <= 30:
		return model.ZoneOversold
	default:
		return model.ZoneNeutral
	}
}

// RSISignalFor computes the 14-period RSI of a close series and buckets it.
func RSISignalFor(closes []float64) model.RSISignal {
	rsi, err := calculator.CalculateRSI(closes, calculator.RSIPeriod)
	switch {
	case errors.Is(err, calculator.ErrInsufficientData):
		return model.RSISignal{Status: model.StatusInsufficientData}
	case errors.Is(err, calculator.ErrUndefined):
		return model.RSISignal{Status: model.StatusUndefined}
	case err != nil:
		return model.RSISignal{Status: model.StatusUnavailable}
	}
	return model.RSISignal{Status: model.StatusOK, Value: rsi, Zone: ClassifyRSI(rsi)}
}
