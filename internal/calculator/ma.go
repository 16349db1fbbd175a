package calculator

import (
	"github.com/sdcoffey/techan"

	"StockView/internal/model"
)

// SMA computes the simple moving average of closes over window bars.
// The first window-1 positions are gaps.
func SMA(bars []model.OHLCV, window int) ([]*float64, error) {
	if window <= 0 {
		return nil, errWindow
	}
	ts, err := newTimeSeries(bars)
	if err != nil {
		return nil, err
	}
	sma := techan.NewSimpleMovingAverage(techan.NewClosePriceIndicator(ts), window)
	return collect(sma, len(bars), window-1), nil
}

// EMA computes the exponential moving average of closes, seeded with the
// SMA of the first window bars. The first window-1 positions are gaps.
func EMA(bars []model.OHLCV, window int) ([]*float64, error) {
	if window <= 0 {
		return nil, errWindow
	}
	ts, err := newTimeSeries(bars)
	if err != nil {
		return nil, err
	}
	ema := techan.NewEMAIndicator(techan.NewClosePriceIndicator(ts), window)
	return collect(ema, len(bars), window-1), nil
}

// BollingerBands returns the upper, middle and lower bands: the SMA of
// closes over window bars plus and minus sigma standard deviations.
func BollingerBands(bars []model.OHLCV, window int, sigma float64) (upper, middle, lower []*float64, err error) {
	if window <= 0 {
		return nil, nil, nil, errWindow
	}
	ts, err := newTimeSeries(bars)
	if err != nil {
		return nil, nil, nil, err
	}
	closes := techan.NewClosePriceIndicator(ts)
	n := len(bars)
	upper = collect(techan.NewBollingerUpperBandIndicator(closes, window, sigma), n, window-1)
	middle = collect(techan.NewSimpleMovingAverage(closes, window), n, window-1)
	lower = collect(techan.NewBollingerLowerBandIndicator(closes, window, sigma), n, window-1)
	return upper, middle, lower, nil
}
