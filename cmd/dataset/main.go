package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"StockView/internal/collector"
	"StockView/internal/dataset"
	"StockView/internal/model"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	var (
		ticker     = flag.String("ticker", "RELIANCE.NS", "symbol to export")
		period     = flag.String("period", "10y", "history period")
		interval   = flag.String("interval", "1d", "bar interval")
		provider   = flag.String("provider", "yahoo", "data provider: yahoo, rest or mock")
		baseURL    = flag.String("base-url", os.Getenv("DATA_BASE_URL"), "bars API base URL for the rest provider")
		format     = flag.String("format", "parquet", "output format: parquet or csv")
		out        = flag.String("out", "", "output path (default <ticker>.<format>)")
		oversample = flag.Bool("oversample", true, "random over-sample minority classes")
		testFrac   = flag.Float64("test", 0, "hold out this fraction as a test file (0 disables)")
		seed       = flag.Uint64("seed", 50, "random seed for over-sampling and splitting")
		timeout    = flag.Duration("timeout", 30*time.Second, "fetch timeout")
	)
	flag.Parse()

	p, err := model.ParsePeriod(*period)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	iv, err := model.ParseInterval(*interval)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	w := dataset.NewWriter(*format)
	if w == nil {
		log.Fatalf("[FATAL] unsupported format %q", *format)
	}
	fetcher, err := collector.NewFetcher(*provider, *baseURL, os.Getenv("DATA_API_KEY"), os.Getenv("HTTPS_PROXY"), *timeout)
	if err != nil {
		log.Fatalf("[FATAL] init fetcher: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	s, err := fetcher.FetchSeries(ctx, *ticker, p, iv)
	if err != nil {
		log.Fatalf("[FATAL] fetch %s: %v", *ticker, err)
	}
	log.Printf("[INFO] fetched %d bars of %s %s/%s from %s", s.Len(), *ticker, p, iv, fetcher.Name())

	rows := dataset.Label(s.Bars)
	log.Printf("[INFO] class counts: %s", dataset.FormatCounts(dataset.ClassCounts(rows)))
	if *oversample {
		rows = dataset.Oversample(rows, *seed)
		log.Printf("[INFO] after over-sampling: %s", dataset.FormatCounts(dataset.ClassCounts(rows)))
	}

	path := *out
	if path == "" {
		path = strings.NewReplacer("^", "", "/", "_").Replace(*ticker) + "." + w.Extension()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("[FATAL] create output dir: %v", err)
		}
	}

	if *testFrac == 0 {
		save(w, rows, path)
		return
	}
	train, test, err := dataset.Split(rows, *testFrac, *seed)
	if err != nil {
		log.Fatalf("[FATAL] split: %v", err)
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	save(w, train, base+".train"+ext)
	save(w, test, base+".test"+ext)
}

func save(w dataset.Writer, rows []dataset.Row, path string) {
	if err := w.Save(rows, path); err != nil {
		log.Fatalf("[FATAL] write %s: %v", path, err)
	}
	log.Printf("[INFO] wrote %d rows to %s", len(rows), path)
}
