package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbot/internal/model"
)

const chartBody = `{"chart":{"result":[{"timestamp":[1700000000,1700086400,1700172800],
"indicators":{"quote":[{"open":[100,101,null],"high":[102,103,null],"low":[99,100,null],
"close":[101.5,102.25,null],"volume":[1000,2000,null]}]}}],"error":null}}`

const summaryBody = `{"quoteSummary":{"result":[{"defaultKeyStatistics":{
"forwardEps":{"raw":12.5,"fmt":"12.50"},"bookValue":{"raw":80,"fmt":"80.00"}}}]}}`

const searchBody = `{"news":[{"title":"Q2 results beat estimates"},{"title":"Board approves buyback"},{"title":"Older story"}]}`

func newTestYahoo(t *testing.T) (*YahooFetcher, *[]string) {
	t.Helper()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		switch {
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/MISSING"):
			fmt.Fprint(w, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`)
		case strings.HasPrefix(r.URL.Path, "/v8/finance/chart/"):
			fmt.Fprint(w, chartBody)
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/EMPTY"):
			fmt.Fprint(w, `{"quoteSummary":{"result":[{}]}}`)
		case strings.HasPrefix(r.URL.Path, "/v10/finance/quoteSummary/"):
			fmt.Fprint(w, summaryBody)
		case r.URL.Path == "/v1/finance/search":
			fmt.Fprint(w, searchBody)
		default:
			http.Error(w, "not found", http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	f := NewYahooFetcher("", 100)
	f.BaseURL = srv.URL
	return f, &paths
}

func TestYahooFetchDailyBars(t *testing.T) {
	f, paths := newTestYahoo(t)

	bars, err := f.FetchDailyBars(context.Background(), "NIFTY", 5)
	require.NoError(t, err)
	require.Len(t, bars, 2, "null bar must be skipped")
	assert.Equal(t, 102.25, bars[1].Close)
	assert.True(t, bars[0].Time.Before(bars[1].Time))
	assert.Contains(t, (*paths)[0], "NSEI?interval=1d&range=5d")

	bars, err = f.FetchDailyBars(context.Background(), "TCS.NS", 1)
	require.NoError(t, err)
	assert.Len(t, bars, 1)
	assert.Contains(t, (*paths)[1], "range=1d")
}

func TestYahooFetchDailyBarsAPIError(t *testing.T) {
	f, _ := newTestYahoo(t)
	_, err := f.FetchDailyBars(context.Background(), "MISSING", 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestYahooFetchFundamentals(t *testing.T) {
	f, _ := newTestYahoo(t)

	fund, err := f.FetchFundamentals(context.Background(), "INFY.NS")
	require.NoError(t, err)
	assert.Nil(t, fund.TrailingEPS)
	require.NotNil(t, fund.ForwardEPS)
	assert.Equal(t, 12.5, *fund.ForwardEPS)
	require.NotNil(t, fund.BookValue)
	assert.Equal(t, 80.0, *fund.BookValue)

	_, err = f.FetchFundamentals(context.Background(), "EMPTY")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestYahooFetchHeadlines(t *testing.T) {
	f, paths := newTestYahoo(t)

	titles, err := f.FetchHeadlines(context.Background(), "ITC.NS", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q2 results beat estimates", "Board approves buyback"}, titles)
	assert.Contains(t, (*paths)[0], "newsCount=2")
}

func TestYahooHTTPError(t *testing.T) {
	f, _ := newTestYahoo(t)
	f.BaseURL += "/nowhere"
	_, err := f.FetchDailyBars(context.Background(), "TCS.NS", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestCollectorQuote(t *testing.T) {
	bars := generateMockBars(100, 25)
	c := NewCollector(&MockFetcher{DailyData: map[string][]model.OHLCV{"TCS.NS": bars}}, "^NSEI")

	q, err := c.Quote(context.Background(), "TCS.NS")
	require.NoError(t, err)
	assert.Equal(t, bars[len(bars)-1].Close, q.LastClose)
	assert.Len(t, q.History, 25)

	c.Fetcher = &MockFetcher{DailyData: map[string][]model.OHLCV{"TCS.NS": {}}}
	_, err = c.Quote(context.Background(), "TCS.NS")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestCollectorMarket(t *testing.T) {
	boom := errors.New("boom")

	mc := NewCollector(&MockFetcher{Price: 22000}, "^NSEI").Market(context.Background())
	assert.NoError(t, mc.Err)
	assert.Len(t, mc.Intraday, 1)
	assert.Len(t, mc.Week, 5)
	assert.Len(t, mc.RSIWindow, 20)

	mc = NewCollector(&MockFetcher{Fail: map[string]error{"^NSEI": boom}}, "^NSEI").Market(context.Background())
	require.Error(t, mc.Err)
	assert.True(t, errors.Is(mc.Err, boom))
}

// weekOutage fails only the 5-day window.
type weekOutage struct {
	MockFetcher
}

func (w *weekOutage) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	if days == 5 {
		return nil, ErrNoData
	}
	return w.MockFetcher.FetchDailyBars(ctx, symbol, days)
}

func TestCollectorMarket_PartialFailure(t *testing.T) {
	mc := NewCollector(&weekOutage{MockFetcher{Price: 22000}}, "^NSEI").Market(context.Background())
	assert.NoError(t, mc.Err)
	assert.ErrorIs(t, mc.WeekErr, ErrNoData)
	assert.NoError(t, mc.IntradayErr)
	assert.NoError(t, mc.RSIWindowErr)
	assert.Nil(t, mc.Week)
	assert.Len(t, mc.RSIWindow, 20)
}

func TestCollectorFundamentalsAndHeadlinesDegrade(t *testing.T) {
	c := NewCollector(&MockFetcher{}, "^NSEI")
	assert.Nil(t, c.Fundamentals(context.Background(), "X"))
	assert.Empty(t, c.Headlines(context.Background(), "X"))
}
