package calculator

import "StockView/internal/model"

// EngulfingLookback is the number of leading bars that never carry a flag.
const EngulfingLookback = 2

// Engulfing flag values.
const (
	EngulfingBullish        = 100
	EngulfingBearish        = -100
	EngulfingBullishPartial = 80
	EngulfingBearishPartial = -80
)

func candleColor(b model.OHLCV) int {
	if b.Close >= b.Open {
		return 1
	}
	return -1
}

// Engulfing flags two-candle engulfing patterns. A white body engulfing the
// previous black body yields a positive flag, a black body engulfing a white
// one a negative flag. The magnitude is 100 when neither body edge is shared
// with the previous bar and 80 otherwise. The first EngulfingLookback bars
// are 0.
func Engulfing(bars []model.OHLCV) []int {
	flags := make([]int, len(bars))
	for i := EngulfingLookback; i < len(bars); i++ {
		cur, prev := bars[i], bars[i-1]
		color, prevColor := candleColor(cur), candleColor(prev)

		var engulfs bool
		switch {
		case color == 1 && prevColor == -1:
			engulfs = (cur.Close >= prev.Open && cur.Open < prev.Close) ||
				(cur.Close > prev.Open && cur.Open <= prev.Close)
		case color == -1 && prevColor == 1:
			engulfs = (cur.Open >= prev.Close && cur.Close < prev.Open) ||
				(cur.Open > prev.Close && cur.Close <= prev.Open)
		}
		if !engulfs {
			continue
		}
		if cur.Open != prev.Close && cur.Close != prev.Open {
			flags[i] = color * 100
		} else {
			flags[i] = color * 80
		}
	}
	return flags
}
