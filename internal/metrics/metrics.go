package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Registry holds the batch job metrics on a private prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	HoldingsEvaluated prometheus.Counter
	TickerFailures    *prometheus.CounterVec
	Deliveries        *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	LastRun           prometheus.Gauge
	PortfolioValue    *prometheus.GaugeVec
}

// New creates and registers every stockbot metric.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		HoldingsEvaluated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockbot_holdings_evaluated_total",
			Help: "Holdings evaluated across all holders",
		}),
		TickerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockbot_ticker_failures_total",
			Help: "Price fetches that failed, by ticker",
		}, []string{"ticker"}),
		Deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockbot_deliveries_total",
			Help: "Delivery attempts by channel and outcome",
		}, []string{"channel", "outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockbot_run_duration_seconds",
			Help:    "Wall time of one batch run",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockbot_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run",
		}),
		PortfolioValue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stockbot_portfolio_value_inr",
			Help: "Market value of each holder's portfolio at the last run",
		}, []string{"holder"}),
	}
	r.reg.MustRegister(r.HoldingsEvaluated, r.TickerFailures, r.Deliveries,
		r.RunDuration, r.LastRun, r.PortfolioValue)
	return r
}

// Delivered counts one delivery attempt.
func (r *Registry) Delivered(channel string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.Deliveries.WithLabelValues(channel, outcome).Inc()
}

// RunFinished records the duration and completion time of a run.
func (r *Registry) RunFinished(started, finished time.Time) {
	r.RunDuration.Observe(finished.Sub(started).Seconds())
	r.LastRun.Set(float64(finished.Unix()))
}

// Gatherer exposes the private registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// Push sends the current values to a Pushgateway. An empty url is a no-op.
func (r *Registry) Push(url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(r.reg).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
