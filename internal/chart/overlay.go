package chart

import (
	"fmt"
	"time"

	"StockView/internal/calculator"
	"StockView/internal/model"
)

// Overlay is what one indicator contributes to a chart.
type Overlay struct {
	Series  []model.OverlaySeries
	Regions []model.HighlightRegion
}

const (
	bandWindow = 20
	bandSigma  = 2.0
	emaWindow  = 9
	sarStep    = 0.02
	sarMax     = 0.2

	cloudFill   = "rgba(173,204,255,0.2)"
	regionLabel = "BE"
	regionAlpha = 0.25
)

var movingAverages = map[model.IndicatorKind]struct {
	window int
	color  string
}{
	model.IndicatorMov20:  {20, "fuchsia"},
	model.IndicatorMov50:  {50, "red"},
	model.IndicatorMov100: {100, "green"},
	model.IndicatorMov200: {200, "yellow"},
}

func line(color string) model.TraceStyle {
	return model.TraceStyle{Mode: "lines", Color: color, Width: 1, HoverSkip: true}
}

func trace(label string, times []time.Time, vals []*float64, style model.TraceStyle) model.OverlaySeries {
	points := make([]model.Point, len(times))
	for i, t := range times {
		points[i] = model.Point{Time: t, Value: vals[i]}
	}
	return model.OverlaySeries{Label: label, Points: points, Style: style}
}

// ComputeOverlay builds the traces or highlight regions for one indicator.
// flags must hold the engulfing flags of the series; they are only read by
// the engulfing kinds.
func ComputeOverlay(s model.PriceSeries, kind model.IndicatorKind, flags []int) (Overlay, error) {
	times := s.Times()

	switch kind {
	case model.IndicatorMov20, model.IndicatorMov50, model.IndicatorMov100, model.IndicatorMov200:
		ma := movingAverages[kind]
		vals, err := calculator.SMA(s.Bars, ma.window)
		if err != nil {
			return Overlay{}, fmt.Errorf("%s: %w", kind, err)
		}
		label := fmt.Sprintf("MovAvg%d", ma.window)
		return Overlay{Series: []model.OverlaySeries{trace(label, times, vals, line(ma.color))}}, nil

	case model.IndicatorBBands:
		upper, middle, lower, err := calculator.BollingerBands(s.Bars, bandWindow, bandSigma)
		if err != nil {
			return Overlay{}, fmt.Errorf("%s: %w", kind, err)
		}
		upStyle := line("green")
		upStyle.Fill = "tonexty"
		upStyle.FillColor = cloudFill
		return Overlay{Series: []model.OverlaySeries{
			trace("BBlow", times, lower, line("green")),
			trace("BBup", times, upper, upStyle),
			trace("BBmid", times, middle, line("brown")),
		}}, nil

	case model.IndicatorEMA:
		vals, err := calculator.EMA(s.Bars, emaWindow)
		if err != nil {
			return Overlay{}, fmt.Errorf("%s: %w", kind, err)
		}
		return Overlay{Series: []model.OverlaySeries{trace("EMA", times, vals, line("purple"))}}, nil

	case model.IndicatorSAR:
		// The stop trails the closes rather than the lows.
		vals, err := calculator.ParabolicSAR(s.Highs(), s.Closes(), sarStep, sarMax)
		if err != nil {
			return Overlay{}, fmt.Errorf("%s: %w", kind, err)
		}
		style := model.TraceStyle{Mode: "markers", Color: "orange", MarkerSize: 3, HoverSkip: true}
		return Overlay{Series: []model.OverlaySeries{trace("SAR", times, vals, style)}}, nil

	case model.IndicatorIchimoku:
		ichi := calculator.CalculateIchimoku(s.Highs(), s.Lows(), s.Closes())
		spanB := line("red")
		spanB.Fill = "tonexty"
		spanB.FillColor = cloudFill
		return Overlay{Series: []model.OverlaySeries{
			trace("tenkan_sen", times, ichi.Tenkan, line("cyan")),
			trace("kijun_sen", times, ichi.Kijun, line("maroon")),
			trace("senkou_span_a", times, ichi.SpanA, line("green")),
			trace("senkou_span_b", times, ichi.SpanB, spanB),
			trace("chikou_span", times, ichi.Chikou, line("green")),
		}}, nil

	case model.IndicatorBullEng:
		return Overlay{Regions: EngulfingRegions(times, flags, calculator.EngulfingBullish, "green")}, nil

	case model.IndicatorBearEng:
		return Overlay{Regions: EngulfingRegions(times, flags, calculator.EngulfingBearish, "red")}, nil
	}
	return Overlay{}, fmt.Errorf("%w: %q", model.ErrUnknownIndicator, kind)
}

// EngulfingRegions shades the bars whose flag equals target. Each match
// spans from the most recent non-matching bar (initially the first bar),
// so a run of matches produces overlapping regions sharing one start.
func EngulfingRegions(times []time.Time, flags []int, target int, color string) []model.HighlightRegion {
	var regions []model.HighlightRegion
	prev := 0
	for i := range times {
		if i >= len(flags) || flags[i] != target {
			prev = i
			continue
		}
		regions = append(regions, model.HighlightRegion{
			Start:   times[prev],
			End:     times[i],
			Label:   regionLabel,
			Color:   color,
			Opacity: regionAlpha,
		})
	}
	return regions
}
