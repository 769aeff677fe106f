package calculator

import (
	"errors"
)

var (
	// ErrInsufficientData is returned when a window needs more samples than were supplied.
	ErrInsufficientData = errors.New("not enough data")
	// ErrUndefined is returned when a ratio has a zero denominator.
	ErrUndefined = errors.New("undefined ratio")
)

// CalculateSMA computes the simple moving average of the last `period` values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}
