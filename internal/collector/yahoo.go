package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"golang.org/x/time/rate"

	"stockbot/internal/model"
)

const defaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	Limiter   *rate.Limiter
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher sharing one request limiter.
func NewYahooFetcher(proxyURL string, requestsPerSecond float64) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	return &YahooFetcher{
		BaseURL: defaultYahooBaseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		Limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		SymbolMap: map[string]string{
			"NIFTY":   "^NSEI",
			"NIFTY50": "^NSEI",
			"SENSEX":  "^BSESN",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(vals []interface{}, i int) interface{} {
	if i < len(vals) {
		return vals[i]
	}
	return nil
}

func (f *YahooFetcher) get(ctx context.Context, u string) ([]byte, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("yahoo rate limit: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)
	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := toFloat(at(quote.Open, i))
		h := toFloat(at(quote.High, i))
		l := toFloat(at(quote.Low, i))
		c := toFloat(at(quote.Close, i))
		if c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: toFloat(at(quote.Volume, i)),
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo %s: %w", symbol, ErrNoData)
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// FetchDailyBars returns up to `days` daily bars, newest last.
func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error) {
	rng := "1y"
	switch {
	case days <= 1:
		rng = "1d"
	case days <= 5:
		rng = "5d"
	case days <= 30:
		rng = "1mo"
	case days <= 90:
		rng = "3mo"
	case days <= 180:
		rng = "6mo"
	}
	bars, err := f.fetchChart(ctx, symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	// Trim to requested count
	if len(bars) > days {
		bars = bars[len(bars)-days:]
	}
	return bars, nil
}

// fundamentalPaths lists each figure's JSON paths in order of preference.
var fundamentalPaths = map[string][]string{
	"trailingEps": {"$.quoteSummary.result[0].defaultKeyStatistics.trailingEps.raw", "$.quoteSummary.result[0].summaryDetail.trailingEps.raw"},
	"forwardEps":  {"$.quoteSummary.result[0].defaultKeyStatistics.forwardEps.raw"},
	"bookValue":   {"$.quoteSummary.result[0].defaultKeyStatistics.bookValue.raw"},
	"priceToBook": {"$.quoteSummary.result[0].defaultKeyStatistics.priceToBook.raw"},
}

func lookupFloat(doc interface{}, paths []string) *float64 {
	for _, p := range paths {
		v, err := jsonpath.Get(p, doc)
		if err != nil {
			continue
		}
		if n, ok := v.(float64); ok {
			return &n
		}
	}
	return nil
}

// FetchFundamentals reads per-share figures from the quoteSummary endpoint.
func (f *YahooFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.Fundamentals, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=defaultKeyStatistics,summaryDetail",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)))
	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("yahoo decode summary: %w", err)
	}
	fund := &model.Fundamentals{
		TrailingEPS: lookupFloat(doc, fundamentalPaths["trailingEps"]),
		ForwardEPS:  lookupFloat(doc, fundamentalPaths["forwardEps"]),
		BookValue:   lookupFloat(doc, fundamentalPaths["bookValue"]),
		PriceToBook: lookupFloat(doc, fundamentalPaths["priceToBook"]),
	}
	if fund.TrailingEPS == nil && fund.ForwardEPS == nil && fund.BookValue == nil && fund.PriceToBook == nil {
		return nil, fmt.Errorf("yahoo summary %s: %w", symbol, ErrNoData)
	}
	return fund, nil
}

// FetchHeadlines returns up to limit recent news titles for the symbol.
func (f *YahooFetcher) FetchHeadlines(ctx context.Context, symbol string, limit int) ([]string, error) {
	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=0&newsCount=%d",
		f.BaseURL, url.QueryEscape(f.yahooSymbol(symbol)), limit)
	body, err := f.get(ctx, u)
	if err != nil {
		return nil, err
	}
	var doc interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("yahoo decode search: %w", err)
	}
	raw, err := jsonpath.Get("$.news[*].title", doc)
	if err != nil {
		return nil, nil
	}
	items, _ := raw.([]interface{})
	var titles []string
	for _, it := range items {
		if s, ok := it.(string); ok && s != "" {
			titles = append(titles, s)
		}
		if len(titles) == limit {
			break
		}
	}
	return titles, nil
}
