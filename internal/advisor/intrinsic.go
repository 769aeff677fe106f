package advisor

import (
	"math"

	"stockbot/internal/model"
)

// grahamMultiplier is 15 (P/E) × 1.5 (P/B).
const grahamMultiplier = 22.5

func firstReported(vals ...*float64) (float64, bool) {
	for _, v := range vals {
		if v != nil && *v != 0 {
			return *v, true
		}
	}
	return 0, false
}

// IntrinsicValue compares the live price against the Graham number sqrt(22.5 × EPS × book value).
// EPS prefers trailing over forward; book value prefers the reported figure over price-to-book.
func IntrinsicValue(f *model.Fundamentals, live float64) model.IntrinsicSignal {
	if f == nil {
		return model.IntrinsicSignal{Status: model.StatusUnavailable}
	}
	eps, okEPS := firstReported(f.TrailingEPS, f.ForwardEPS)
	book, okBook := firstReported(f.BookValue, f.PriceToBook)
	if !okEPS || !okBook || eps <= 0 || book <= 0 {
		return model.IntrinsicSignal{Status: model.StatusUnavailable}
	}

	intrinsic := math.Sqrt(grahamMultiplier * eps * book)
	signed := (live - intrinsic) / intrinsic * 100
	return model.IntrinsicSignal{
		Status:     model.StatusOK,
		Intrinsic:  intrinsic,
		SignedPct:  signed,
		Discounted: live < intrinsic,
	}
}
