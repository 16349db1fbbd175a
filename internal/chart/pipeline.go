package chart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"StockView/internal/calculator"
	"StockView/internal/collector"
	"StockView/internal/model"
)

// FetchObserver is notified after every provider call.
type FetchObserver interface {
	ObserveFetch(source string, elapsed time.Duration, err error)
}

// Pipeline builds chart results from a market-data provider. It keeps no
// state between builds; every call refetches and recomputes.
type Pipeline struct {
	fetcher  collector.Fetcher
	observer FetchObserver
}

// NewPipeline creates a pipeline. observer may be nil.
func NewPipeline(fetcher collector.Fetcher, observer FetchObserver) *Pipeline {
	return &Pipeline{fetcher: fetcher, observer: observer}
}

func (p *Pipeline) fetch(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.PriceSeries, error) {
	start := time.Now()
	s, err := p.fetcher.FetchSeries(ctx, symbol, period, interval)
	if p.observer != nil {
		p.observer.ObserveFetch(p.fetcher.Name(), time.Since(start), err)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	return s, nil
}

// BuildChartResult fetches the primary and comparison series and assembles
// the overlays, highlight regions and axis hints the request asks for.
// With comparison tickers every series, the primary included, is rebased
// to a zero first close. A comparison ticker with no data is skipped.
func (p *Pipeline) BuildChartResult(ctx context.Context, req model.ChartRequest) (*model.ChartResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	primary, err := p.fetch(ctx, req.Ticker, req.Period, req.Interval)
	if err != nil {
		return nil, err
	}
	base := *primary
	if len(req.Compare) > 0 {
		base = NormalizeForComparison(base)
	}

	result := &model.ChartResult{
		Request:    req,
		Primary:    base,
		UIRevision: req.UIRevision(),
	}

	for _, sym := range req.Compare {
		cmp, err := p.fetch(ctx, sym, req.Period, req.Interval)
		if errors.Is(err, collector.ErrDataUnavailable) {
			log.Printf("[WARN] compare %s skipped: %v", sym, err)
			continue
		}
		if err != nil {
			return nil, err
		}
		rebased := NormalizeForComparison(*cmp)
		style := model.TraceStyle{Mode: "lines", Color: "green", Width: 1, HoverSkip: true}
		result.Overlays = append(result.Overlays,
			trace(strings.ToUpper(sym), rebased.Times(), calculator.Closes(rebased.Bars), style))
	}

	if len(req.Indicators) > 0 {
		flags := calculator.Engulfing(base.Bars)
		for _, kind := range req.Indicators {
			ov, err := ComputeOverlay(base, kind, flags)
			if err != nil {
				return nil, err
			}
			result.Overlays = append(result.Overlays, ov.Series...)
			result.Regions = append(result.Regions, ov.Regions...)
		}
	}

	result.Breaks, err = ApplyMarketGaps(req.Period, req.Interval)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Unavailable returns an empty chart for req carrying the failure message.
func Unavailable(req model.ChartRequest, err error) *model.ChartResult {
	breaks, _ := ApplyMarketGaps(req.Period, req.Interval)
	return &model.ChartResult{
		Request: req,
		Primary: model.PriceSeries{
			Symbol:   req.Ticker,
			Period:   req.Period,
			Interval: req.Interval,
			Bars:     []model.OHLCV{},
		},
		Breaks:     breaks,
		UIRevision: req.UIRevision(),
		Error:      err.Error(),
	}
}

// BuildMultiTimeframe renders one candlestick chart per frame, in order.
// A frame without data yields an empty chart with Error set; any other
// failure aborts the whole view.
func (p *Pipeline) BuildMultiTimeframe(ctx context.Context, ticker string, frames []model.Frame) ([]*model.ChartResult, error) {
	if len(frames) == 0 {
		frames = DefaultFrames
	}
	out := make([]*model.ChartResult, 0, len(frames))
	for _, f := range frames {
		req := model.ChartRequest{Ticker: ticker, Period: f.Period, Interval: f.Interval}
		res, err := p.BuildChartResult(ctx, req)
		if errors.Is(err, collector.ErrDataUnavailable) {
			log.Printf("[WARN] frame %s/%s for %s unavailable: %v", f.Period, f.Interval, ticker, err)
			out = append(out, Unavailable(req, err))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("frame %s/%s: %w", f.Period, f.Interval, err)
		}
		out = append(out, res)
	}
	return out, nil
}
