package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists historical data to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the server writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS chart_builds (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			request_id  TEXT,
			source      TEXT,
			ticker      TEXT,
			period      TEXT,
			interval    TEXT,
			compare     TEXT,
			indicators  TEXT,
			bars        INTEGER,
			overlays    INTEGER,
			regions     INTEGER,
			error       TEXT,
			elapsed_ms  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_ts ON chart_builds(timestamp)`,

		`CREATE TABLE IF NOT EXISTS pattern_alerts (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			symbol    TEXT NOT NULL,
			bar_time  INTEGER NOT NULL,
			flag      INTEGER,
			close     REAL,
			sent      INTEGER,
			UNIQUE(symbol, bar_time)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON pattern_alerts(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordChartBuild(evt *ChartBuild) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO chart_builds
		(timestamp, request_id, source, ticker, period, interval, compare, indicators,
		 bars, overlays, regions, error, elapsed_ms)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RequestID, evt.Source, evt.Ticker, evt.Period, evt.Interval,
		strings.Join(evt.Compare, ","), strings.Join(evt.Indicators, ","),
		evt.Bars, evt.Overlays, evt.Regions, evt.Err, evt.Elapsed.Milliseconds(),
	)
	return err
}

// RecordPatternAlert stores an alert. A repeat for the same symbol and bar
// replaces the earlier row.
func (r *SQLiteRecorder) RecordPatternAlert(evt *PatternAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT OR REPLACE INTO pattern_alerts
		(timestamp, symbol, bar_time, flag, close, sent)
		VALUES (?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Symbol, evt.BarTime.Unix(), evt.Flag, evt.Close, evt.Sent,
	)
	return err
}

func (r *SQLiteRecorder) AlertRecorded(symbol string, barTime time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var sent bool
	err := r.db.QueryRow(`SELECT sent FROM pattern_alerts WHERE symbol = ? AND bar_time = ?`,
		symbol, barTime.Unix()).Scan(&sent)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query alert: %w", err)
	}
	return sent, nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
