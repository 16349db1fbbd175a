package recorder

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRecorder: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_ChartBuild(t *testing.T) {
	r := openTestRecorder(t)
	evt := &ChartBuild{
		RequestID:  "req-1",
		Source:     "http",
		Ticker:     "^NSEI",
		Period:     "1y",
		Interval:   "1d",
		Compare:    []string{"TCS.NS", "INFY.NS"},
		Indicators: []string{"mov20", "bbands"},
		Bars:       248,
		Overlays:   6,
		Elapsed:    1500 * time.Millisecond,
	}
	if err := r.RecordChartBuild(evt); err != nil {
		t.Fatalf("RecordChartBuild: %v", err)
	}

	var compare string
	var elapsed int64
	err := r.db.QueryRow(`SELECT compare, elapsed_ms FROM chart_builds WHERE request_id = ?`, "req-1").
		Scan(&compare, &elapsed)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if compare != "TCS.NS,INFY.NS" {
		t.Errorf("unexpected compare column %q", compare)
	}
	if elapsed != 1500 {
		t.Errorf("expected 1500ms, got %d", elapsed)
	}
}

func TestSQLiteRecorder_PatternAlert(t *testing.T) {
	r := openTestRecorder(t)
	bar := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

	ok, err := r.AlertRecorded("RELIANCE.NS", bar)
	if err != nil || ok {
		t.Fatalf("expected no alert yet, got %v %v", ok, err)
	}

	if err := r.RecordPatternAlert(&PatternAlert{Symbol: "RELIANCE.NS", BarTime: bar, Flag: 100, Close: 2900.5}); err != nil {
		t.Fatalf("RecordPatternAlert: %v", err)
	}
	if ok, _ := r.AlertRecorded("RELIANCE.NS", bar); ok {
		t.Error("unsent alert must not count as recorded")
	}

	if err := r.RecordPatternAlert(&PatternAlert{Symbol: "RELIANCE.NS", BarTime: bar, Flag: 100, Close: 2900.5, Sent: true}); err != nil {
		t.Fatalf("RecordPatternAlert: %v", err)
	}
	ok, err = r.AlertRecorded("RELIANCE.NS", bar)
	if err != nil || !ok {
		t.Errorf("expected alert recorded, got %v %v", ok, err)
	}

	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM pattern_alerts`).Scan(&n); err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected one row per symbol and bar, got %d", n)
	}
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	if err := r.RecordChartBuild(&ChartBuild{}); err != nil {
		t.Error(err)
	}
	if ok, err := r.AlertRecorded("X", time.Now()); ok || err != nil {
		t.Errorf("unexpected %v %v", ok, err)
	}
}
