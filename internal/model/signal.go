package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status tells the report assembler whether a signal carries a value or which failure kind it hit.
type Status string

const (
	StatusOK               Status = "ok"
	StatusUnavailable      Status = "unavailable"
	StatusInsufficientData Status = "insufficient_data"
	StatusUndefined        Status = "undefined"
	StatusDateError        Status = "date_error"
	StatusNoTax            Status = "no_tax"
	StatusNoAction         Status = "no_action"
)

// RSIZone buckets an RSI value.
type RSIZone string

const (
	ZoneOverbought RSIZone = "overbought"
	ZoneOversold   RSIZone = "oversold"
	ZoneNeutral    RSIZone = "neutral"
)

// RSISignal is the bucketed RSI of one series.
type RSISignal struct {
	Status Status
	Value  float64
	Zone   RSIZone
}

// IntrinsicSignal compares the live price to the Graham number.
type IntrinsicSignal struct {
	Status     Status
	Intrinsic  float64
	SignedPct  float64 // (live - intrinsic) / intrinsic * 100
	Discounted bool
}

// TaxKind distinguishes the capital gains regimes.
type TaxKind string

const (
	TaxShortTerm TaxKind = "STCG"
	TaxLongTerm  TaxKind = "LTCG"
)

// TaxEstimate is the naive capital gains estimate for one holding.
type TaxEstimate struct {
	Status Status
	Kind   TaxKind
	Rate   decimal.Decimal
	Amount decimal.Decimal
	Days   int
}

// AveragingTier is one additional-purchase scenario.
type AveragingTier struct {
	Percent    int
	ExtraQty   decimal.Decimal
	NewAverage decimal.Decimal
	Reduction  decimal.Decimal
}

// AveragingAdvice is empty (no tiers) when the averaging trigger did not fire.
type AveragingAdvice struct {
	Tiers []AveragingTier
}

// Triggered reports whether any tier was emitted.
func (a AveragingAdvice) Triggered() bool { return len(a.Tiers) > 0 }

// EvaluationResult is the per-holding outcome of one run.
type EvaluationResult struct {
	Ticker        string
	Quantity      decimal.Decimal
	AveragePrice  decimal.Decimal
	LivePrice     decimal.Decimal
	ProfitLoss    decimal.Decimal
	ProfitLossPct decimal.Decimal
	Tax           TaxEstimate
	RSI           RSISignal
	Intrinsic     IntrinsicSignal
	Averaging     AveragingAdvice
	ProfitBooking bool
	News          Commentary
}

// MarketValue returns quantity × live price.
func (r EvaluationResult) MarketValue() decimal.Decimal {
	return r.Quantity.Mul(r.LivePrice)
}

// Commentary is free text produced by an external advisor (LLM), or its failure kind.
type Commentary struct {
	Status Status
	Text   string
}

// BookingCandidate is a holding whose gain crossed the profit-booking threshold.
type BookingCandidate struct {
	Ticker string
	Pct    decimal.Decimal
	Gain   decimal.Decimal
}

// ProfitBookingAdvice lists candidates; StatusNoAction means hold everything.
type ProfitBookingAdvice struct {
	Status     Status
	Candidates []BookingCandidate
}

// Bucket names a rebalancing bucket.
type Bucket string

const (
	BucketCommodity Bucket = "commodity"
	BucketEquity    Bucket = "equity"
)

// RebalanceAdvice reports the current split and, when breached, the transfer to restore target.
type RebalanceAdvice struct {
	Status       Status
	CommodityPct decimal.Decimal
	EquityPct    decimal.Decimal
	Overweight   Bucket
	Transfer     decimal.Decimal
}

// HedgeAdvice recommends moving part of the portfolio into a defensive instrument.
type HedgeAdvice struct {
	Status       Status
	MarketChange float64
	Amount       decimal.Decimal
	Instrument   string
}

// Sentiment classifies the broad market mood.
type Sentiment string

const (
	SentimentDistressed   Sentiment = "distressed"
	SentimentExtremeFear  Sentiment = "extreme fear"
	SentimentExtremeGreed Sentiment = "extreme greed"
	SentimentNeutral      Sentiment = "neutral"
)

// SentimentSignal is the combined daily-shock / RSI classification.
type SentimentSignal struct {
	Status      Status
	Class       Sentiment
	DailyChange float64
	RSI         RSISignal
}

// BreadthSignal is the index daily move.
type BreadthSignal struct {
	Status Status
	Symbol string
	Change float64
}

// PortfolioSnapshot aggregates one holder's run.
type PortfolioSnapshot struct {
	RunID         string
	Holder        string
	RunAt         time.Time
	Results       []EvaluationResult
	FailedTickers []string
	TotalValue    decimal.Decimal
	TotalPL       decimal.Decimal
	Rebalance     RebalanceAdvice
	Hedge         HedgeAdvice
	Sentiment     SentimentSignal
	Breadth       BreadthSignal
	ProfitBooking ProfitBookingAdvice
	ExpertAdvice  Commentary
}
