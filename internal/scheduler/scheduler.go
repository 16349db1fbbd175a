package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"StockView/internal/notifier"
)

// Refresher rebuilds and pushes every live chart.
type Refresher interface {
	RefreshAll(ctx context.Context)
}

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Refresher Refresher
	Scanner   *PatternScanner
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler. scanner may be nil when alerts are
// disabled.
func NewScheduler(ctx context.Context, refresher Refresher, scanner *PatternScanner) *Scheduler {
	logger := cron.PrintfLogger(log.Default())
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		Refresher: refresher,
		Scanner:   scanner,
		Ctx:       ctx,
	}
}

// RegisterAll registers the live refresh and, when a scanner is set, the
// pattern scan. Neither job overlaps with a still-running run of itself.
func (s *Scheduler) RegisterAll(refreshCron, alertCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if s.Scanner == nil {
		return nil
	}
	if _, err := s.Cron.AddFunc(alertCron, s.scanTask); err != nil {
		return fmt.Errorf("register pattern scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

func (s *Scheduler) refreshTask() {
	s.Refresher.RefreshAll(s.Ctx)
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running pattern scan")
	s.Scanner.Scan(s.Ctx)
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	if s.Scanner == nil {
		return ""
	}
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.FormatHelp()
	}
	switch fields[0] {
	case "/scan":
		hits := s.Scanner.Scan(ctx)
		if len(hits) == 0 {
			return "No engulfing patterns on the latest bar."
		}
		var b strings.Builder
		b.WriteString(fmt.Sprintf("%d engulfing pattern(s):\n", len(hits)))
		for _, h := range hits {
			b.WriteString(fmt.Sprintf("• %s %s (%s)\n", h.Symbol, directionLabel(h.Flag), h.Bar.Time.Format("2006-01-02")))
		}
		return b.String()
	case "/watchlist":
		return notifier.FormatWatchlist(s.Scanner.Watchlist)
	case "/last":
		if len(fields) < 2 {
			return "Usage: /last TICKER"
		}
		msg, err := s.Scanner.Last(ctx, strings.ToUpper(fields[1]))
		if err != nil {
			return "❌ " + err.Error()
		}
		return msg
	default:
		return notifier.FormatHelp()
	}
}
