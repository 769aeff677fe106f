package recorder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"stockbot/internal/model"
)

// SQLiteRecorder persists history rows to a SQLite database.
type SQLiteRecorder struct {
	db *sqlx.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode lets `stockbot history` read while a run writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Infof("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS history (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			run_date     TEXT NOT NULL,
			holder       TEXT NOT NULL,
			ticker       TEXT NOT NULL,
			quantity     REAL,
			live_price   REAL,
			profit_loss  REAL,
			tax_estimate REAL,
			tax_status   TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_history_ticker_nocase ON history(ticker COLLATE NOCASE, run_date)`,
		`CREATE INDEX IF NOT EXISTS idx_history_holder ON history(holder, run_date)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordSnapshot appends one row per evaluated holding in a single transaction.
func (r *SQLiteRecorder) RecordSnapshot(ctx context.Context, snap *model.PortfolioSnapshot) error {
	rows := RowsFor(snap)
	if len(rows) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO history
			(run_id, run_date, holder, ticker, quantity, live_price, profit_loss, tax_estimate, tax_status)
			VALUES (:run_id, :run_date, :holder, :ticker, :quantity, :live_price, :profit_loss, :tax_estimate, :tax_status)`,
			row); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert %s: %w", row.Ticker, err)
		}
	}
	return tx.Commit()
}

// History returns matching rows, newest first. Tickers match regardless of case.
func (r *SQLiteRecorder) History(ctx context.Context, q Query) ([]HistoryRow, error) {
	var (
		where []string
		args  []interface{}
	)
	if q.Holder != "" {
		where = append(where, "holder = ?")
		args = append(args, q.Holder)
	}
	if q.Ticker != "" {
		where = append(where, "ticker = ? COLLATE NOCASE")
		args = append(args, q.Ticker)
	}

	query := `SELECT run_id, run_date, holder, ticker, quantity, live_price, profit_loss, tax_estimate, tax_status
		FROM history`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY run_date DESC, id DESC"
	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	var rows []HistoryRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return rows, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Info("closing sqlite recorder")
	return r.db.Close()
}
