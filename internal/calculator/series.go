// Package calculator computes indicator series aligned bar-for-bar with a
// price series. A nil entry marks a position where the indicator is
// undefined and renders as a gap.
package calculator

import (
	"errors"
	"time"

	"github.com/sdcoffey/big"
	"github.com/sdcoffey/techan"

	"StockView/internal/model"
)

var errWindow = errors.New("window must be positive")

func num(v float64) *float64 { return &v }

// gaps returns n undefined values.
func gaps(n int) []*float64 { return make([]*float64, n) }

// lift turns a TA-Lib output into a gap-aligned series. TA-Lib leaves the
// first lookback positions at zero; they become gaps.
func lift(vals []float64, lookback int) []*float64 {
	out := gaps(len(vals))
	for i := max(lookback, 0); i < len(vals); i++ {
		out[i] = num(vals[i])
	}
	return out
}

// newTimeSeries loads bars into a techan series. Each candle spans up to
// the next bar's timestamp so consecutive periods never overlap.
func newTimeSeries(bars []model.OHLCV) (*techan.TimeSeries, error) {
	ts := techan.NewTimeSeries()
	for i, b := range bars {
		span := time.Minute
		switch {
		case i+1 < len(bars):
			span = bars[i+1].Time.Sub(b.Time)
		case i > 0:
			span = b.Time.Sub(bars[i-1].Time)
		}
		candle := techan.NewCandle(techan.NewTimePeriod(b.Time, span))
		candle.OpenPrice = big.NewDecimal(b.Open)
		candle.MaxPrice = big.NewDecimal(b.High)
		candle.MinPrice = big.NewDecimal(b.Low)
		candle.ClosePrice = big.NewDecimal(b.Close)
		candle.Volume = big.NewDecimal(b.Volume)
		if !ts.AddCandle(candle) {
			return nil, errors.New("bars must have strictly ascending timestamps")
		}
	}
	return ts, nil
}

// collect evaluates ind from index from onward; earlier positions are gaps.
func collect(ind techan.Indicator, n, from int) []*float64 {
	out := gaps(n)
	for i := from; i < n; i++ {
		out[i] = num(ind.Calculate(i).Float())
	}
	return out
}

// Shift moves values forward by k positions (backward when k is negative),
// keeping the length. Vacated positions become gaps.
func Shift(vals []*float64, k int) []*float64 {
	out := gaps(len(vals))
	for i := range vals {
		j := i - k
		if j >= 0 && j < len(vals) {
			out[i] = vals[j]
		}
	}
	return out
}

// Closes lifts raw close prices into a series with no gaps.
func Closes(bars []model.OHLCV) []*float64 {
	out := make([]*float64, len(bars))
	for i, b := range bars {
		out[i] = num(b.Close)
	}
	return out
}
