package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"StockView/internal/catalog"
	"StockView/internal/chart"
	"StockView/internal/collector"
	"StockView/internal/config"
	"StockView/internal/metrics"
	"StockView/internal/model"
	"StockView/internal/notifier"
	"StockView/internal/recorder"
	"StockView/internal/scheduler"
	"StockView/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] StockView starting...")
	if err := run(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	log.Println("[INFO] StockView stopped")
}

// run wires the services and blocks until a shutdown signal or a server
// failure. Deferred cleanup runs on both paths.
func run() error {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// Init fetcher
	fetcher, err := collector.NewFetcher(cfg.DataSource.Provider, cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy, cfg.DataSource.Timeout)
	if err != nil {
		return fmt.Errorf("init fetcher: %w", err)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Ticker catalog
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Printf("[WARN] load ticker catalog failed, symbol list is empty: %v", err)
		cat = &catalog.Catalog{}
	} else {
		log.Printf("[INFO] loaded %d tickers from %s", len(cat.Options), cfg.Catalog.Path)
	}

	m := metrics.NewMetrics()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pipeline := chart.NewPipeline(fetcher, m)
	charts := server.NewCharts(pipeline, rec, m)
	hub := server.NewHub(charts, m)
	defaults := server.Defaults{
		Ticker:   cfg.Defaults.Ticker,
		Period:   model.Period(cfg.Defaults.Period),
		Interval: model.Interval(cfg.Defaults.Interval),
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewHandler(charts, hub, cat, m, defaults, fetcher.Name()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Pattern alerts need a watchlist and a Telegram chat
	var scanner *scheduler.PatternScanner
	var tn *notifier.TelegramNotifier
	if cfg.AlertsEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		scanner = &scheduler.PatternScanner{
			Fetcher:   fetcher,
			Sender:    tn,
			Recorder:  rec,
			Metrics:   m,
			Watchlist: cfg.Alerts.Watchlist,
		}
		log.Printf("[INFO] pattern alerts enabled for %d symbol(s)", len(cfg.Alerts.Watchlist))
	} else {
		log.Println("[INFO] pattern alerts disabled (no watchlist or Telegram credentials)")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, hub, scanner)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.AlertCron); err != nil {
		return fmt.Errorf("register cron tasks: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	log.Println("[INFO] StockView is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	var runErr error
	select {
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	case err := <-serveErr:
		runErr = fmt.Errorf("http server: %w", err)
	}

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	return runErr
}
