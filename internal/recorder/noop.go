package recorder

import (
	"context"

	"StockAnalyzer/internal/model"
)

// NoopRecorder is used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordInsight(_ context.Context, _ *model.InsightReport) error { return nil }
func (n *NoopRecorder) RecordMovers(_ context.Context, _, _ []model.MoverRecord) error {
	return nil
}
func (n *NoopRecorder) Close() error { return nil }
