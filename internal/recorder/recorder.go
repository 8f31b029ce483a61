package recorder

import (
	"context"

	"go.uber.org/zap"

	"StockAnalyzer/internal/model"
)

// Movers list sides stored with each snapshot row.
const (
	SideGainer = "gainer"
	SideLoser  = "loser"
)

// Recorder persists generated reports and movers snapshots for later analysis.
type Recorder interface {
	RecordInsight(ctx context.Context, report *model.InsightReport) error
	RecordMovers(ctx context.Context, gainers, losers []model.MoverRecord) error
	Close() error
}

// Open picks a backend: Postgres when postgresURL is set, then SQLite, else Noop.
func Open(sqlitePath, postgresURL string, logger *zap.Logger) (Recorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch {
	case postgresURL != "":
		return NewPostgresRecorder(postgresURL, logger)
	case sqlitePath != "":
		return NewSQLiteRecorder(sqlitePath, logger)
	default:
		return NewNoopRecorder(), nil
	}
}

type moverRow struct {
	side string
	rank int
	rec  model.MoverRecord
}

func flattenMovers(gainers, losers []model.MoverRecord) []moverRow {
	rows := make([]moverRow, 0, len(gainers)+len(losers))
	for i, m := range gainers {
		rows = append(rows, moverRow{side: SideGainer, rank: i + 1, rec: m})
	}
	for i, m := range losers {
		rows = append(rows, moverRow{side: SideLoser, rank: i + 1, rec: m})
	}
	return rows
}
