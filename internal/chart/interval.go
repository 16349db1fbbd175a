// Package chart turns control values into renderable chart descriptions:
// it fetches the primary and comparison series, computes indicator
// overlays and pattern highlights, and attaches axis hints.
package chart

import (
	"fmt"

	"StockView/internal/model"
)

var samplingIntervals = map[model.Period]model.Interval{
	model.Period15m: model.Interval1m,
	model.Period1d:  model.Interval1m,
	model.Period5d:  model.Interval5m,
	model.Period1mo: model.Interval30m,
	model.Period3mo: model.Interval60m,
	model.Period6mo: model.Interval1d,
	model.PeriodYTD: model.Interval1d,
	model.Period1y:  model.Interval1d,
	model.Period5y:  model.Interval1wk,
	model.Period10y: model.Interval1wk,
	model.PeriodMax: model.Interval1mo,
}

// ResolveSamplingInterval maps a display period to its default bar interval.
func ResolveSamplingInterval(period model.Period) (model.Interval, error) {
	iv, ok := samplingIntervals[period]
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrUnknownPeriod, period)
	}
	return iv, nil
}

// Session hours hidden on intraday charts, in exchange-local decimal hours.
const (
	sessionClose = 15.5
	sessionOpen  = 9.0
)

// ApplyMarketGaps returns the axis breaks that hide non-trading time.
// A single-day view has none; every other view hides weekends, and
// intraday intervals also hide the overnight gap.
func ApplyMarketGaps(period model.Period, interval model.Interval) ([]model.AxisBreak, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownPeriod, period)
	}
	if !interval.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnknownInterval, interval)
	}
	if period == model.Period1d {
		return nil, nil
	}
	breaks := []model.AxisBreak{{Bounds: [2]any{"sat", "mon"}}}
	if interval.Intraday() {
		breaks = append(breaks, model.AxisBreak{Bounds: [2]any{sessionClose, sessionOpen}, Pattern: "hour"})
	}
	return breaks, nil
}

// DefaultFrames is the side-by-side view: one session, five sessions, one year.
var DefaultFrames = []model.Frame{
	{Period: model.Period1d, Interval: model.Interval1m},
	{Period: model.Period5d, Interval: model.Interval5m},
	{Period: model.Period1y, Interval: model.Interval1d},
}
