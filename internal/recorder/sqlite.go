package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"StockCompare/internal/date"
	"StockCompare/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists runs and value histories to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp  INTEGER NOT NULL,
			source     TEXT,
			start_date TEXT NOT NULL,
			end_date   TEXT NOT NULL,
			amount     TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS run_trackers (
			run_id            INTEGER NOT NULL REFERENCES runs(id),
			ticker            TEXT NOT NULL,
			share_count       TEXT,
			final_value       TEXT,
			annualized_return REAL,
			error             TEXT,
			PRIMARY KEY (run_id, ticker)
		)`,

		`CREATE TABLE IF NOT EXISTS value_history (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			ticker TEXT NOT NULL,
			seq    INTEGER NOT NULL,
			date   TEXT NOT NULL,
			value  TEXT NOT NULL,
			PRIMARY KEY (run_id, ticker, seq)
		)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordRun stores a run with all its trackers and histories in one transaction.
func (r *SQLiteRecorder) RecordRun(run *RunRecord) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`INSERT INTO runs (timestamp, source, start_date, end_date, amount) VALUES (?,?,?,?,?)`,
		time.Now().Unix(), run.Trigger, run.Start.String(), run.End.String(), run.Amount.String())
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, t := range run.Trackers {
		var ret sql.NullFloat64
		if t.AnnualizedReturn != nil {
			ret = sql.NullFloat64{Float64: *t.AnnualizedReturn, Valid: true}
		}
		if _, err := tx.Exec(`INSERT INTO run_trackers
			(run_id, ticker, share_count, final_value, annualized_return, error)
			VALUES (?,?,?,?,?,?)`,
			id, t.Ticker, t.ShareCount.String(), t.FinalValue.String(), ret, t.Error,
		); err != nil {
			return 0, fmt.Errorf("insert tracker %s: %w", t.Ticker, err)
		}
		for seq, p := range t.History {
			if _, err := tx.Exec(`INSERT INTO value_history (run_id, ticker, seq, date, value) VALUES (?,?,?,?,?)`,
				id, t.Ticker, seq, p.Date.String(), p.Value.String()); err != nil {
				return 0, fmt.Errorf("insert history %s: %w", t.Ticker, err)
			}
		}
	}
	return id, tx.Commit()
}

// ListRuns returns the most recent runs first, without histories.
func (r *SQLiteRecorder) ListRuns(limit int) ([]RunSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT id, timestamp, source, start_date, end_date, amount
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	var runs []RunSummary
	for rows.Next() {
		var (
			s          RunSummary
			ts         int64
			start, end string
			amount     string
		)
		if err := rows.Scan(&s.ID, &ts, &s.Trigger, &start, &end, &amount); err != nil {
			rows.Close()
			return nil, err
		}
		s.CreatedAt = time.Unix(ts, 0)
		if s.Start, err = date.Parse(start); err != nil {
			rows.Close()
			return nil, err
		}
		if s.End, err = date.Parse(end); err != nil {
			rows.Close()
			return nil, err
		}
		if s.Amount, err = decimal.NewFromString(amount); err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		trackers, err := r.trackers(runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Trackers = trackers
	}
	return runs, nil
}

func (r *SQLiteRecorder) trackers(runID int64) ([]TrackerRecord, error) {
	rows, err := r.db.Query(`SELECT ticker, share_count, final_value, annualized_return, error
		FROM run_trackers WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrackerRecord
	for rows.Next() {
		var (
			t             TrackerRecord
			shares, value string
			ret           sql.NullFloat64
		)
		if err := rows.Scan(&t.Ticker, &shares, &value, &ret, &t.Error); err != nil {
			return nil, err
		}
		if t.ShareCount, err = decimal.NewFromString(shares); err != nil {
			return nil, fmt.Errorf("tracker %s share count: %w", t.Ticker, err)
		}
		if t.FinalValue, err = decimal.NewFromString(value); err != nil {
			return nil, fmt.Errorf("tracker %s final value: %w", t.Ticker, err)
		}
		if ret.Valid {
			v := ret.Float64
			t.AnnualizedReturn = &v
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LoadHistory returns the value history of ticker in run runID.
func (r *SQLiteRecorder) LoadHistory(runID int64, ticker string) ([]model.ValuePoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT date, value FROM value_history
		WHERE run_id = ? AND ticker = ? ORDER BY seq`, runID, ticker)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.ValuePoint
	for rows.Next() {
		var on, value string
		if err := rows.Scan(&on, &value); err != nil {
			return nil, err
		}
		var p model.ValuePoint
		if p.Date, err = date.Parse(on); err != nil {
			return nil, err
		}
		if p.Value, err = decimal.NewFromString(value); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
