package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"stockbot/internal/model"
)

const (
	historyDays   = 30
	headlineCount = 2
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price        float64
	DailyData    map[string][]model.OHLCV
	Fundamentals map[string]*model.Fundamentals
	Headlines    map[string][]string
	Fail         map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if err := m.Fail[symbol]; err != nil {
		return nil, err
	}
	if bars, ok := m.DailyData[symbol]; ok {
		if len(bars) > days {
			bars = bars[len(bars)-days:]
		}
		return bars, nil
	}
	return generateMockBars(m.Price, days), nil
}

func (m *MockFetcher) FetchFundamentals(_ context.Context, symbol string) (*model.Fundamentals, error) {
	if f, ok := m.Fundamentals[symbol]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("mock %s: %w", symbol, ErrNoData)
}

func (m *MockFetcher) FetchHeadlines(_ context.Context, symbol string, limit int) ([]string, error) {
	h := m.Headlines[symbol]
	if len(h) > limit {
		h = h[:limit]
	}
	return h, nil
}

func generateMockBars(basePrice float64, count int) []model.OHLCV {
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   time.Now().AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector wraps a Fetcher with the windows the evaluator needs.
type Collector struct {
	Fetcher     Fetcher
	IndexSymbol string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, indexSymbol string) *Collector {
	return &Collector{Fetcher: fetcher, IndexSymbol: indexSymbol}
}

// Quote fetches the latest close and about a month of daily history for ticker.
func (c *Collector) Quote(ctx context.Context, ticker string) (model.Quote, error) {
	bars, err := c.Fetcher.FetchDailyBars(ctx, ticker, historyDays)
	if err != nil {
		return model.Quote{}, fmt.Errorf("fetch %s: %w", ticker, err)
	}
	if len(bars) == 0 {
		return model.Quote{}, fmt.Errorf("fetch %s: %w", ticker, ErrNoData)
	}
	return model.Quote{
		Ticker:    ticker,
		LastClose: bars[len(bars)-1].Close,
		History:   bars,
		FetchedAt: time.Now(),
	}, nil
}

// Fundamentals returns nil when the provider has no usable figures.
func (c *Collector) Fundamentals(ctx context.Context, ticker string) *model.Fundamentals {
	f, err := c.Fetcher.FetchFundamentals(ctx, ticker)
	if err != nil {
		log.WithField("ticker", ticker).Debugf("fundamentals unavailable: %v", err)
		return nil
	}
	return f
}

// Headlines returns the latest news titles, or nil on failure.
func (c *Collector) Headlines(ctx context.Context, ticker string) []string {
	h, err := c.Fetcher.FetchHeadlines(ctx, ticker, headlineCount)
	if err != nil {
		log.WithField("ticker", ticker).Debugf("headlines unavailable: %v", err)
		return nil
	}
	return h
}

// Market fetches the index windows shared by every holder in a run.
// Err is set only when none of the windows could be fetched.
func (c *Collector) Market(ctx context.Context) *model.MarketContext {
	mc := &model.MarketContext{Symbol: c.IndexSymbol}

	var errs []error
	fetch := func(days int) ([]model.OHLCV, error) {
		bars, err := c.Fetcher.FetchDailyBars(ctx, c.IndexSymbol, days)
		if err != nil {
			log.WithField("symbol", c.IndexSymbol).Warnf("index %dd window failed: %v", days, err)
			errs = append(errs, err)
			return nil, err
		}
		return bars, nil
	}
	mc.Intraday, mc.IntradayErr = fetch(1)
	mc.Week, mc.WeekErr = fetch(5)
	mc.RSIWindow, mc.RSIWindowErr = fetch(20)

	if len(errs) == 3 {
		mc.Err = fmt.Errorf("index %s: %w", c.IndexSymbol, errors.Join(errs...))
	}
	return mc
}
