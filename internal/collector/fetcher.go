package collector

import (
	"context"
	"errors"

	"stockbot/internal/model"
)

// ErrNoData is returned when the provider answered but had no bars for the symbol.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error)
	FetchHeadlines(ctx context.Context, symbol string, limit int) ([]string, error)
	Name() string
}
