package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"StockView/internal/calculator"
	"StockView/internal/collector"
	"StockView/internal/metrics"
	"StockView/internal/model"
	"StockView/internal/notifier"
	"StockView/internal/recorder"
)

// Sender delivers a chat message.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scan window for the watchlist: three months of daily bars.
const (
	scanPeriod   = model.Period3mo
	scanInterval = model.Interval1d
	sendRetries  = 3
)

// Hit is an engulfing pattern on the latest bar of a watched symbol.
type Hit struct {
	Symbol string
	Bar    model.OHLCV
	Flag   int
}

// PatternScanner checks a watchlist for full engulfing patterns on the
// most recent daily bar.
type PatternScanner struct {
	Fetcher   collector.Fetcher
	Sender    Sender
	Recorder  recorder.Recorder
	Metrics   *metrics.Metrics
	Watchlist []string
}

func (p *PatternScanner) latest(ctx context.Context, symbol string) (model.OHLCV, int, error) {
	s, err := p.Fetcher.FetchSeries(ctx, symbol, scanPeriod, scanInterval)
	if err != nil {
		return model.OHLCV{}, 0, err
	}
	flags := calculator.Engulfing(s.Bars)
	last := len(s.Bars) - 1
	return s.Bars[last], flags[last], nil
}

// Scan checks every symbol and alerts on new hits. A symbol that fails is
// logged and skipped. Alerts already delivered for the same bar are not
// sent again.
func (p *PatternScanner) Scan(ctx context.Context) []Hit {
	var hits []Hit
	for _, symbol := range p.Watchlist {
		if ctx.Err() != nil {
			break
		}
		bar, flag, err := p.latest(ctx, symbol)
		if err != nil {
			if !errors.Is(err, collector.ErrDataUnavailable) {
				p.countError()
			}
			log.Printf("[WARN] pattern scan %s: %v", symbol, err)
			continue
		}
		if flag != calculator.EngulfingBullish && flag != calculator.EngulfingBearish {
			continue
		}
		hit := Hit{Symbol: symbol, Bar: bar, Flag: flag}
		hits = append(hits, hit)
		p.alert(ctx, hit)
	}
	log.Printf("[INFO] pattern scan finished: %d symbol(s), %d hit(s)", len(p.Watchlist), len(hits))
	return hits
}

func (p *PatternScanner) alert(ctx context.Context, hit Hit) {
	sent, err := p.Recorder.AlertRecorded(hit.Symbol, hit.Bar.Time)
	if err != nil {
		log.Printf("[ERROR] check alert %s: %v", hit.Symbol, err)
	}
	if sent {
		return
	}
	if p.Metrics != nil {
		p.Metrics.AlertsTotal.WithLabelValues(directionLabel(hit.Flag)).Inc()
	}

	evt := &recorder.PatternAlert{Symbol: hit.Symbol, BarTime: hit.Bar.Time, Flag: hit.Flag, Close: hit.Bar.Close}
	if p.Sender != nil {
		if err := p.Sender.SendWithRetry(ctx, notifier.FormatPatternAlert(hit.Symbol, hit.Bar, hit.Flag), sendRetries); err != nil {
			log.Printf("[ERROR] send alert %s: %v", hit.Symbol, err)
			p.countError()
		} else {
			evt.Sent = true
		}
	}
	if err := p.Recorder.RecordPatternAlert(evt); err != nil {
		log.Printf("[ERROR] record alert %s: %v", hit.Symbol, err)
	}
}

func (p *PatternScanner) countError() {
	if p.Metrics != nil {
		p.Metrics.ScanErrors.Inc()
	}
}

func directionLabel(flag int) string {
	if flag > 0 {
		return "bullish"
	}
	return "bearish"
}

// Last returns a chat summary of the latest daily bar of symbol.
func (p *PatternScanner) Last(ctx context.Context, symbol string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	bar, flag, err := p.latest(ctx, symbol)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", symbol, err)
	}
	return notifier.FormatReadout(symbol, bar, flag), nil
}
