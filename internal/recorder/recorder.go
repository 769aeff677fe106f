package recorder

import (
	"context"

	"stockbot/internal/model"
)

// HistoryRow is one persisted holding evaluation.
type HistoryRow struct {
	RunID       string  `db:"run_id"`
	RunDate     string  `db:"run_date"`
	Holder      string  `db:"holder"`
	Ticker      string  `db:"ticker"`
	Quantity    float64 `db:"quantity"`
	LivePrice   float64 `db:"live_price"`
	ProfitLoss  float64 `db:"profit_loss"`
	TaxEstimate float64 `db:"tax_estimate"`
	TaxStatus   string  `db:"tax_status"`
}

// Query filters history reads. Empty fields match everything; Limit <= 0 means no limit.
type Query struct {
	Holder string
	Ticker string
	Limit  int
}

// Recorder persists run snapshots for trend analysis.
type Recorder interface {
	RecordSnapshot(ctx context.Context, snap *model.PortfolioSnapshot) error
	History(ctx context.Context, q Query) ([]HistoryRow, error)
	Close() error
}

// RowsFor flattens a snapshot into history rows.
func RowsFor(snap *model.PortfolioSnapshot) []HistoryRow {
	rows := make([]HistoryRow, 0, len(snap.Results))
	date := snap.RunAt.Format("2006-01-02 15:04:05")
	for _, r := range snap.Results {
		rows = append(rows, HistoryRow{
			RunID:       snap.RunID,
			RunDate:     date,
			Holder:      snap.Holder,
			Ticker:      r.Ticker,
			Quantity:    r.Quantity.InexactFloat64(),
			LivePrice:   r.LivePrice.InexactFloat64(),
			ProfitLoss:  r.ProfitLoss.InexactFloat64(),
			TaxEstimate: r.Tax.Amount.InexactFloat64(),
			TaxStatus:   string(r.Tax.Status),
		})
	}
	return rows
}
