package calculator

import talib "github.com/markcheno/go-talib"

// Ichimoku holds the five cloud lines, all aligned with the input bars.
type Ichimoku struct {
	Tenkan []*float64
	Kijun  []*float64
	SpanA  []*float64
	SpanB  []*float64
	Chikou []*float64
}

// Standard Ichimoku windows.
const (
	TenkanWindow     = 9
	KijunWindow      = 26
	SpanBWindow      = 52
	IchimokuDisplace = 26
)

// CalculateIchimoku computes the conversion and base lines, both leading
// spans displaced forward and the lagging span displaced backward. Each
// channel line is the midpoint of the highest high and lowest low over its
// window. The lines keep the input length, so values pushed past either
// end are lost.
func CalculateIchimoku(high, low, close []float64) Ichimoku {
	tenkan := talib.MidPrice(high, low, TenkanWindow)
	kijun := talib.MidPrice(high, low, KijunWindow)
	spanB := talib.MidPrice(high, low, SpanBWindow)
	return Ichimoku{
		Tenkan: lift(tenkan, TenkanWindow-1),
		Kijun:  lift(kijun, KijunWindow-1),
		SpanA:  Shift(lift(talib.MedPrice(tenkan, kijun), KijunWindow-1), IchimokuDisplace),
		SpanB:  Shift(lift(spanB, SpanBWindow-1), IchimokuDisplace),
		Chikou: Shift(lift(close, 0), -IchimokuDisplace),
	}
}
