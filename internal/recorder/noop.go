package recorder

import (
	"context"

	"stockbot/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ context.Context, _ *model.PortfolioSnapshot) error {
	return nil
}

func (n *NoopRecorder) History(_ context.Context, _ Query) ([]HistoryRow, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                             { return nil }
