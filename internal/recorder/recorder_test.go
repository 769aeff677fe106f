package recorder

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockbot/internal/model"
)

func snapshot(runID, holder string, at time.Time, tickers ...string) *model.PortfolioSnapshot {
	snap := &model.PortfolioSnapshot{RunID: runID, Holder: holder, RunAt: at}
	for i, t := range tickers {
		snap.Results = append(snap.Results, model.EvaluationResult{
			Ticker:     t,
			Quantity:   decimal.NewFromInt(int64(10 * (i + 1))),
			LivePrice:  decimal.RequireFromString("101.25"),
			ProfitLoss: decimal.RequireFromString("12.50"),
			Tax: model.TaxEstimate{
				Status: model.StatusOK,
				Kind:   model.TaxShortTerm,
				Amount: decimal.RequireFromString("2.50"),
			},
		})
	}
	return snap
}

func TestSQLiteRecorderRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "history.db")
	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	day1 := time.Date(2025, 1, 6, 9, 15, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)

	require.NoError(t, r.RecordSnapshot(ctx, snapshot("run-1", "Asha", day1, "TCS.NS", "GOLDBEES.NS")))
	require.NoError(t, r.RecordSnapshot(ctx, snapshot("run-2", "Asha", day2, "TCS.NS")))
	require.NoError(t, r.RecordSnapshot(ctx, snapshot("run-2", "Ravi", day2, "ITC.NS")))

	all, err := r.History(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	tcs, err := r.History(ctx, Query{Ticker: "TCS.NS"})
	require.NoError(t, err)
	require.Len(t, tcs, 2)
	assert.Equal(t, "run-2", tcs[0].RunID, "newest first")
	assert.Equal(t, "2025-01-07 09:15:00", tcs[0].RunDate)
	assert.Equal(t, 101.25, tcs[0].LivePrice)
	assert.Equal(t, 12.5, tcs[0].ProfitLoss)
	assert.Equal(t, 2.5, tcs[0].TaxEstimate)
	assert.Equal(t, "ok", tcs[0].TaxStatus)

	ravi, err := r.History(ctx, Query{Holder: "Ravi"})
	require.NoError(t, err)
	require.Len(t, ravi, 1)
	assert.Equal(t, "ITC.NS", ravi[0].Ticker)

	limited, err := r.History(ctx, Query{Holder: "Asha", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteRecorderTickerMatchIgnoresCase(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.RecordSnapshot(ctx, snapshot("run-1", "Asha", time.Now(), "setfgold", "TCS.NS")))

	for _, q := range []string{"SETFGOLD", "setfgold", "SetfGold"} {
		rows, err := r.History(ctx, Query{Ticker: q})
		require.NoError(t, err)
		require.Len(t, rows, 1, q)
		assert.Equal(t, "setfgold", rows[0].Ticker)
	}
	rows, err := r.History(ctx, Query{Ticker: "tcs.ns"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestSQLiteRecorderReopenKeepsRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	r, err := NewSQLiteRecorder(path)
	require.NoError(t, err)
	require.NoError(t, r.RecordSnapshot(ctx, snapshot("run-1", "Asha", time.Now(), "TCS.NS")))
	require.NoError(t, r.Close())

	r, err = NewSQLiteRecorder(path)
	require.NoError(t, err)
	defer r.Close()
	rows, err := r.History(ctx, Query{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestEmptySnapshotWritesNothing(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.RecordSnapshot(context.Background(), snapshot("run-1", "Asha", time.Now())))
	rows, err := r.History(context.Background(), Query{})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordSnapshot(context.Background(), snapshot("x", "y", time.Now(), "Z")))
	rows, err := r.History(context.Background(), Query{})
	assert.NoError(t, err)
	assert.Nil(t, rows)
	assert.NoError(t, r.Close())
}
