package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrUnknownPeriod    = errors.New("unknown period")
	ErrUnknownInterval  = errors.New("unknown interval")
	ErrUnknownIndicator = errors.New("unknown indicator")
	ErrInvalidRequest   = errors.New("invalid chart request")
)

// Period is a coarse display range understood by the data provider.
type Period string

const (
	Period15m Period = "15m"
	Period1d  Period = "1d"
	Period5d  Period = "5d"
	Period1mo Period = "1mo"
	Period3mo Period = "3mo"
	Period6mo Period = "6mo"
	PeriodYTD Period = "ytd"
	Period1y  Period = "1y"
	Period5y  Period = "5y"
	Period10y Period = "10y"
	PeriodMax Period = "max"
)

// Periods lists every period in display order.
var Periods = []Period{
	Period15m, Period1d, Period5d, Period1mo, Period3mo, Period6mo,
	PeriodYTD, Period1y, Period5y, Period10y, PeriodMax,
}

// Valid reports whether p is one of the enumerated periods.
func (p Period) Valid() bool {
	for _, v := range Periods {
		if p == v {
			return true
		}
	}
	return false
}

// ParsePeriod validates s as a Period.
func ParsePeriod(s string) (Period, error) {
	p := Period(strings.TrimSpace(s))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// Interval is the sampling granularity of a series.
type Interval string

const (
	Interval1m  Interval = "1m"
	Interval2m  Interval = "2m"
	Interval5m  Interval = "5m"
	Interval15m Interval = "15m"
	Interval30m Interval = "30m"
	Interval60m Interval = "60m"
	Interval1d  Interval = "1d"
	Interval1wk Interval = "1wk"
	Interval1mo Interval = "1mo"
	Interval3mo Interval = "3mo"
)

// Intervals lists every interval in display order.
var Intervals = []Interval{
	Interval1m, Interval2m, Interval5m, Interval15m, Interval30m, Interval60m,
	Interval1d, Interval1wk, Interval1mo, Interval3mo,
}

// Valid reports whether i is one of the enumerated intervals.
func (i Interval) Valid() bool {
	for _, v := range Intervals {
		if i == v {
			return true
		}
	}
	return false
}

// Intraday reports whether bars of this interval are shorter than a session.
func (i Interval) Intraday() bool {
	switch i {
	case Interval1m, Interval2m, Interval5m, Interval15m, Interval30m, Interval60m:
		return true
	}
	return false
}

// Duration returns the nominal bar length. Month-based intervals use 30 days.
func (i Interval) Duration() time.Duration {
	switch i {
	case Interval1m:
		return time.Minute
	case Interval2m:
		return 2 * time.Minute
	case Interval5m:
		return 5 * time.Minute
	case Interval15m:
		return 15 * time.Minute
	case Interval30m:
		return 30 * time.Minute
	case Interval60m:
		return time.Hour
	case Interval1d:
		return 24 * time.Hour
	case Interval1wk:
		return 7 * 24 * time.Hour
	case Interval1mo:
		return 30 * 24 * time.Hour
	case Interval3mo:
		return 90 * 24 * time.Hour
	}
	return 0
}

// ParseInterval validates s as an Interval.
func ParseInterval(s string) (Interval, error) {
	i := Interval(strings.TrimSpace(s))
	if !i.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownInterval, s)
	}
	return i, nil
}

// IndicatorKind selects one overlay family.
type IndicatorKind string

const (
	IndicatorMov20    IndicatorKind = "mov20"
	IndicatorMov50    IndicatorKind = "mov50"
	IndicatorMov100   IndicatorKind = "mov100"
	IndicatorMov200   IndicatorKind = "mov200"
	IndicatorBBands   IndicatorKind = "bbands"
	IndicatorEMA      IndicatorKind = "ema"
	IndicatorSAR      IndicatorKind = "sar"
	IndicatorIchimoku IndicatorKind = "ichi"
	IndicatorBullEng  IndicatorKind = "bulleng"
	IndicatorBearEng  IndicatorKind = "beareng"
)

// Indicators lists every indicator kind with its menu label.
var Indicators = []struct {
	Kind  IndicatorKind `json:"value"`
	Label string        `json:"label"`
}{
	{IndicatorMov20, "Moving Average 20"},
	{IndicatorMov50, "Moving Average 50"},
	{IndicatorMov100, "Moving Average 100"},
	{IndicatorMov200, "Moving Average 200"},
	{IndicatorBBands, "Bollinger Bands"},
	{IndicatorEMA, "EMA"},
	{IndicatorSAR, "Parabolic SAR"},
	{IndicatorIchimoku, "Ichimoku Cloud"},
	{IndicatorBullEng, "Bullish Engulfing"},
	{IndicatorBearEng, "Bearish Engulfing"},
}

// Valid reports whether k is a known indicator kind.
func (k IndicatorKind) Valid() bool {
	for _, v := range Indicators {
		if k == v.Kind {
			return true
		}
	}
	return false
}

// ParseIndicator validates s as an IndicatorKind.
func ParseIndicator(s string) (IndicatorKind, error) {
	k := IndicatorKind(strings.TrimSpace(s))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownIndicator, s)
	}
	return k, nil
}

// ChartRequest is the full set of control values for one chart.
type ChartRequest struct {
	Ticker     string          `json:"ticker"`
	Period     Period          `json:"period"`
	Interval   Interval        `json:"interval"`
	Compare    []string        `json:"compare,omitempty"`
	Indicators []IndicatorKind `json:"indicators,omitempty"`
}

// Validate checks the ticker and every enumerated field.
func (r ChartRequest) Validate() error {
	if strings.TrimSpace(r.Ticker) == "" {
		return fmt.Errorf("%w: ticker is required", ErrInvalidRequest)
	}
	if !r.Period.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownPeriod, r.Period)
	}
	if !r.Interval.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownInterval, r.Interval)
	}
	for _, k := range r.Indicators {
		if !k.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownIndicator, k)
		}
	}
	for _, c := range r.Compare {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: compare ticker must not be empty", ErrInvalidRequest)
		}
	}
	return nil
}

// UIRevision identifies the view so a front end can keep zoom and pan
// across data-only refreshes.
func (r ChartRequest) UIRevision() string {
	return string(r.Period) + string(r.Interval) + r.Ticker + "[" + strings.Join(r.Compare, ",") + "]"
}

// Point is one overlay sample. A nil Value is a gap.
type Point struct {
	Time  time.Time `json:"x"`
	Value *float64  `json:"y"`
}

// TraceStyle carries rendering hints for an overlay.
type TraceStyle struct {
	Mode       string  `json:"mode"` // "lines" or "markers"
	Color      string  `json:"color"`
	Width      float64 `json:"width,omitempty"`
	MarkerSize float64 `json:"marker_size,omitempty"`
	Fill       string  `json:"fill,omitempty"`
	FillColor  string  `json:"fill_color,omitempty"`
	HoverSkip  bool    `json:"hover_skip"`
}

// OverlaySeries is one line or marker trace drawn over the candles.
type OverlaySeries struct {
	Label  string     `json:"label"`
	Points []Point    `json:"points"`
	Style  TraceStyle `json:"style"`
}

// Defined returns the number of non-gap points.
func (o OverlaySeries) Defined() int {
	n := 0
	for _, p := range o.Points {
		if p.Value != nil {
			n++
		}
	}
	return n
}

// HighlightRegion shades a span of the time axis.
type HighlightRegion struct {
	Start   time.Time `json:"x0"`
	End     time.Time `json:"x1"`
	Label   string    `json:"label"`
	Color   string    `json:"color"`
	Opacity float64   `json:"opacity"`
}

// AxisBreak tells the renderer to hide a recurring span of the time axis.
// Bounds are either weekday names or hours of day.
type AxisBreak struct {
	Bounds  [2]any `json:"bounds"`
	Pattern string `json:"pattern,omitempty"`
}

// ChartResult is a fully specified chart ready for rendering.
type ChartResult struct {
	Request    ChartRequest      `json:"request"`
	Primary    PriceSeries       `json:"primary"`
	Overlays   []OverlaySeries   `json:"overlays"`
	Regions    []HighlightRegion `json:"regions"`
	Breaks     []AxisBreak       `json:"breaks"`
	UIRevision string            `json:"uirevision"`
	Error      string            `json:"error,omitempty"`
}

// Frame is one panel of a multi-timeframe view.
type Frame struct {
	Period   Period   `json:"period"`
	Interval Interval `json:"interval"`
}
