package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"StockView/internal/collector"
	"StockView/internal/metrics"
	"StockView/internal/model"
	"StockView/internal/recorder"
)

type fakeSender struct {
	mu   sync.Mutex
	msgs []string
	err  error
}

func (f *fakeSender) SendWithRetry(_ context.Context, text string, _ int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, text)
	return nil
}

type memAlerts struct {
	recorder.NoopRecorder
	alerts map[string]recorder.PatternAlert
}

func (m *memAlerts) RecordPatternAlert(evt *recorder.PatternAlert) error {
	m.alerts[evt.Symbol+evt.BarTime.String()] = *evt
	return nil
}

func (m *memAlerts) AlertRecorded(symbol string, barTime time.Time) (bool, error) {
	a, ok := m.alerts[symbol+barTime.String()]
	return ok && a.Sent, nil
}

// barsEndingWith returns daily bars whose last two candles form the given
// open/close pairs.
func barsEndingWith(prev, last [2]float64) []model.OHLCV {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ocs := [][2]float64{{10, 10.5}, {10.5, 11}, {11, 11.2}, prev, last}
	bars := make([]model.OHLCV, len(ocs))
	for i, oc := range ocs {
		bars[i] = model.OHLCV{
			Time:  start.AddDate(0, 0, i),
			Open:  oc[0],
			High:  max(oc[0], oc[1]) + 0.5,
			Low:   min(oc[0], oc[1]) - 0.5,
			Close: oc[1],
		}
	}
	return bars
}

func newTestScanner(sender Sender) (*PatternScanner, *memAlerts) {
	fetcher := &collector.MockFetcher{Bars: map[string][]model.OHLCV{
		"BULL.NS": barsEndingWith([2]float64{12, 11}, [2]float64{10.5, 12.5}),
		"BEAR.NS": barsEndingWith([2]float64{11, 12}, [2]float64{12.5, 10.5}),
		"FLAT.NS": barsEndingWith([2]float64{11, 11.5}, [2]float64{11.5, 11.8}),
		"GONE.NS": nil,
	}}
	rec := &memAlerts{alerts: map[string]recorder.PatternAlert{}}
	return &PatternScanner{
		Fetcher:   fetcher,
		Sender:    sender,
		Recorder:  rec,
		Metrics:   metrics.NewMetrics(),
		Watchlist: []string{"BULL.NS", "GONE.NS", "BEAR.NS", "FLAT.NS"},
	}, rec
}

func TestScan(t *testing.T) {
	sender := &fakeSender{}
	scanner, rec := newTestScanner(sender)

	hits := scanner.Scan(context.Background())
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d: %+v", len(hits), hits)
	}
	if hits[0].Symbol != "BULL.NS" || hits[0].Flag != 100 {
		t.Errorf("unexpected first hit %+v", hits[0])
	}
	if hits[1].Symbol != "BEAR.NS" || hits[1].Flag != -100 {
		t.Errorf("unexpected second hit %+v", hits[1])
	}
	if len(sender.msgs) != 2 || !strings.Contains(sender.msgs[0], "Bullish") {
		t.Errorf("unexpected messages %v", sender.msgs)
	}
	if len(rec.alerts) != 2 {
		t.Errorf("expected 2 recorded alerts, got %d", len(rec.alerts))
	}

	// Same bars again: nothing new to send.
	scanner.Scan(context.Background())
	if len(sender.msgs) != 2 {
		t.Errorf("expected no repeat alerts, got %d messages", len(sender.msgs))
	}
}

func TestScan_SendFailureRetriedNextRun(t *testing.T) {
	sender := &fakeSender{err: errors.New("telegram down")}
	scanner, rec := newTestScanner(sender)

	scanner.Scan(context.Background())
	for _, a := range rec.alerts {
		if a.Sent {
			t.Errorf("alert %s must not be marked sent", a.Symbol)
		}
	}

	sender.err = nil
	scanner.Scan(context.Background())
	if len(sender.msgs) != 2 {
		t.Errorf("expected unsent alerts to go out on the next run, got %d", len(sender.msgs))
	}
}

type countingRefresher struct{ n int }

func (c *countingRefresher) RefreshAll(context.Context) { c.n++ }

func TestRegisterAll(t *testing.T) {
	ref := &countingRefresher{}
	s := NewScheduler(context.Background(), ref, nil)
	if err := s.RegisterAll("@every 30s", "not a cron"); err != nil {
		t.Fatalf("alert cron must be ignored without a scanner: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 1 {
		t.Errorf("expected 1 entry, got %d", n)
	}

	scanner, _ := newTestScanner(&fakeSender{})
	s = NewScheduler(context.Background(), ref, scanner)
	if err := s.RegisterAll("@every 30s", "0 0 16 * * 1-5"); err != nil {
		t.Fatalf("RegisterAll: %v", err)
	}
	if n := len(s.Cron.Entries()); n != 2 {
		t.Errorf("expected 2 entries, got %d", n)
	}
	if err := s.RegisterAll("every now and then", "0 0 16 * * 1-5"); err == nil {
		t.Error("expected error for bad refresh cron")
	}

	s.refreshTask()
	if ref.n != 1 {
		t.Errorf("expected refresh to run once, got %d", ref.n)
	}
}

func TestHandleCommand(t *testing.T) {
	scanner, _ := newTestScanner(&fakeSender{})
	s := NewScheduler(context.Background(), &countingRefresher{}, scanner)
	ctx := context.Background()

	if got := s.HandleCommand(ctx, "/watchlist"); !strings.Contains(got, "BEAR.NS") {
		t.Errorf("unexpected watchlist reply %q", got)
	}
	if got := s.HandleCommand(ctx, "/last bull.ns"); !strings.Contains(got, "Bullish") {
		t.Errorf("unexpected /last reply %q", got)
	}
	if got := s.HandleCommand(ctx, "/last"); !strings.HasPrefix(got, "Usage") {
		t.Errorf("unexpected usage reply %q", got)
	}
	if got := s.HandleCommand(ctx, "/scan"); !strings.Contains(got, "2 engulfing") {
		t.Errorf("unexpected /scan reply %q", got)
	}
	if got := s.HandleCommand(ctx, "hello"); !strings.Contains(got, "/scan") {
		t.Errorf("expected help text, got %q", got)
	}
}
