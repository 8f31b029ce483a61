package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"StockAnalyzer/internal/model"
)

// PostgresRecorder persists history to PostgreSQL.
type PostgresRecorder struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresRecorder connects, pings and runs migrations.
func NewPostgresRecorder(url string, logger *zap.Logger) (*PostgresRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	r := &PostgresRecorder{db: db, logger: logger}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("postgres recorder opened")
	return r, nil
}

func (r *PostgresRecorder) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS insight_reports (
			id         BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL,
			ticker     TEXT NOT NULL,
			model      TEXT,
			text       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insight_ticker_ts ON insight_reports(ticker, created_at)`,

		`CREATE TABLE IF NOT EXISTS movers_snapshots (
			id             BIGSERIAL PRIMARY KEY,
			taken_at       TIMESTAMPTZ NOT NULL,
			side           TEXT NOT NULL,
			rank           INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			name           TEXT,
			price          NUMERIC,
			change_percent NUMERIC
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movers_ts ON movers_snapshots(taken_at)`,
	}

	for _, s := range stmts {
		if _, err := r.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *PostgresRecorder) RecordInsight(ctx context.Context, report *model.InsightReport) error {
	ts := report.CreatedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO insight_reports
		(created_at, ticker, model, text) VALUES ($1,$2,$3,$4)`,
		ts, report.Ticker, report.Model, report.Text,
	)
	return err
}

func (r *PostgresRecorder) RecordMovers(ctx context.Context, gainers, losers []model.MoverRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, row := range flattenMovers(gainers, losers) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO movers_snapshots
			(taken_at, side, rank, symbol, name, price, change_percent)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			now, row.side, row.rank, row.rec.Symbol, row.rec.DisplayName,
			row.rec.Price.String(), row.rec.ChangePercent.String(),
		); err != nil {
			return fmt.Errorf("insert %s: %w", row.rec.Symbol, err)
		}
	}
	return tx.Commit()
}

func (r *PostgresRecorder) Close() error {
	return r.db.Close()
}
