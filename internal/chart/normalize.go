package chart

import "StockView/internal/model"

// NormalizeForComparison rebases a series so its first close is zero.
// Open, high, low and close are shifted by the same amount; volume is
// untouched. The input is not modified.
func NormalizeForComparison(s model.PriceSeries) model.PriceSeries {
	out := s
	out.Bars = make([]model.OHLCV, len(s.Bars))
	if len(s.Bars) == 0 {
		return out
	}
	base := s.Bars[0].Close
	for i, b := range s.Bars {
		b.Open -= base
		b.High -= base
		b.Low -= base
		b.Close -= base
		out.Bars[i] = b
	}
	return out
}
