package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"StockAnalyzer/internal/model"
)

// SQLiteRecorder persists history to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS insight_reports (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			ticker     TEXT NOT NULL,
			model      TEXT,
			text       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insight_ticker_ts ON insight_reports(ticker, timestamp)`,

		`CREATE TABLE IF NOT EXISTS movers_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			side           TEXT NOT NULL,
			rank           INTEGER NOT NULL,
			symbol         TEXT NOT NULL,
			name           TEXT,
			price          TEXT,
			change_percent TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_movers_ts ON movers_snapshots(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordInsight(ctx context.Context, report *model.InsightReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := report.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `INSERT INTO insight_reports
		(timestamp, ticker, model, text) VALUES (?,?,?,?)`,
		ts.Unix(), report.Ticker, report.Model, report.Text,
	)
	return err
}

func (r *SQLiteRecorder) RecordMovers(ctx context.Context, gainers, losers []model.MoverRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, row := range flattenMovers(gainers, losers) {
		if _, err := tx.ExecContext(ctx, `INSERT INTO movers_snapshots
			(timestamp, side, rank, symbol, name, price, change_percent)
			VALUES (?,?,?,?,?,?,?)`,
			now, row.side, row.rank, row.rec.Symbol, row.rec.DisplayName,
			row.rec.Price.String(), row.rec.ChangePercent.String(),
		); err != nil {
			return fmt.Errorf("insert %s: %w", row.rec.Symbol, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
