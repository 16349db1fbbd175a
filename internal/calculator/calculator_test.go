package calculator

import (
	"math"
	"testing"
	"time"

	"StockView/internal/model"
)

func barsFromCloses(closes ...float64) []model.OHLCV {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, len(closes))
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time:  start.AddDate(0, 0, i),
			Open:  c,
			High:  c + 1,
			Low:   c - 1,
			Close: c,
		}
	}
	return bars
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestSMA(t *testing.T) {
	got, err := SMA(barsFromCloses(1, 2, 3, 4, 5), 3)
	if err != nil {
		t.Fatalf("SMA: %v", err)
	}
	want := []float64{0, 0, 2, 3, 4}
	for i := range got {
		if i < 2 {
			if got[i] != nil {
				t.Errorf("index %d: expected gap, got %v", i, *got[i])
			}
			continue
		}
		if got[i] == nil || !approx(*got[i], want[i]) {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestSMA_InvalidWindow(t *testing.T) {
	if _, err := SMA(barsFromCloses(1, 2), 0); err == nil {
		t.Error("expected error for zero window")
	}
}

func TestSMA_ShorterThanWindow(t *testing.T) {
	got, err := SMA(barsFromCloses(1, 2, 3), 20)
	if err != nil {
		t.Fatalf("SMA: %v", err)
	}
	for i, v := range got {
		if v != nil {
			t.Errorf("index %d: expected gap", i)
		}
	}
}

func TestEMA_ConstantSeries(t *testing.T) {
	got, err := EMA(barsFromCloses(5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5), 9)
	if err != nil {
		t.Fatalf("EMA: %v", err)
	}
	for i, v := range got {
		if i < 8 {
			if v != nil {
				t.Errorf("index %d: expected gap", i)
			}
			continue
		}
		if v == nil || !approx(*v, 5) {
			t.Errorf("index %d: expected 5, got %v", i, v)
		}
	}
}

func TestBollingerBands_Ordering(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3)
	}
	upper, middle, lower, err := BollingerBands(barsFromCloses(closes...), 20, 2)
	if err != nil {
		t.Fatalf("BollingerBands: %v", err)
	}
	for i := range closes {
		if i < 19 {
			if upper[i] != nil || middle[i] != nil || lower[i] != nil {
				t.Errorf("index %d: expected gaps", i)
			}
			continue
		}
		if *upper[i] < *middle[i] || *middle[i] < *lower[i] {
			t.Errorf("index %d: bands out of order: %.4f %.4f %.4f", i, *upper[i], *middle[i], *lower[i])
		}
	}
}

func TestShift(t *testing.T) {
	in := Closes(barsFromCloses(1, 2, 3, 4))

	fwd := Shift(in, 2)
	if fwd[0] != nil || fwd[1] != nil || *fwd[2] != 1 || *fwd[3] != 2 {
		t.Errorf("unexpected forward shift: %v", fwd)
	}
	back := Shift(in, -1)
	if *back[0] != 2 || *back[2] != 4 || back[3] != nil {
		t.Errorf("unexpected backward shift: %v", back)
	}
}

func TestParabolicSAR_Uptrend(t *testing.T) {
	high := []float64{10, 11, 12, 13}
	low := []float64{9, 10, 11, 12}
	got, err := ParabolicSAR(high, low, 0.02, 0.2)
	if err != nil {
		t.Fatalf("ParabolicSAR: %v", err)
	}
	if got[0] != nil {
		t.Error("expected gap at first bar")
	}
	want := []float64{0, 9, 9.04, 9.1584}
	for i := 1; i < len(want); i++ {
		if got[i] == nil || !approx(*got[i], want[i]) {
			t.Errorf("index %d: expected %.4f, got %v", i, want[i], got[i])
		}
	}
}

func TestParabolicSAR_Reversal(t *testing.T) {
	high := []float64{10, 11, 12, 8}
	low := []float64{9, 10, 11, 7}
	got, err := ParabolicSAR(high, low, 0.02, 0.2)
	if err != nil {
		t.Fatalf("ParabolicSAR: %v", err)
	}
	// Price breaks below the stop; it flips above price at the prior extreme.
	if got[3] == nil || *got[3] != 12 {
		t.Fatalf("expected stop to flip to 12, got %v", got[3])
	}
	if *got[3] <= high[3] {
		t.Error("expected stop above price after reversal")
	}
}

func TestParabolicSAR_Downtrend(t *testing.T) {
	high := []float64{20, 19, 18, 17}
	low := []float64{19, 17, 16, 15}
	got, err := ParabolicSAR(high, low, 0.02, 0.2)
	if err != nil {
		t.Fatalf("ParabolicSAR: %v", err)
	}
	for i := 1; i < len(high); i++ {
		if got[i] == nil || *got[i] < high[i] {
			t.Errorf("index %d: expected stop above the high in a downtrend, got %v", i, got[i])
		}
	}
}

func TestParabolicSAR_InvalidInput(t *testing.T) {
	if _, err := ParabolicSAR([]float64{1, 2}, []float64{1}, 0.02, 0.2); err == nil {
		t.Error("expected error for mismatched lengths")
	}
	if _, err := ParabolicSAR([]float64{1}, []float64{1}, 0.3, 0.2); err == nil {
		t.Error("expected error when acceleration exceeds maximum")
	}
}

func TestParabolicSAR_ShortSeries(t *testing.T) {
	got, err := ParabolicSAR([]float64{10}, []float64{9}, 0.02, 0.2)
	if err != nil {
		t.Fatalf("ParabolicSAR: %v", err)
	}
	if len(got) != 1 || got[0] != nil {
		t.Errorf("expected a single gap, got %v", got)
	}
}

// ohlcColumns splits bars into the high, low and close inputs.
func ohlcColumns(bars []model.OHLCV) (high, low, close []float64) {
	for _, b := range bars {
		high = append(high, b.High)
		low = append(low, b.Low)
		close = append(close, b.Close)
	}
	return high, low, close
}

func TestCalculateIchimoku_Alignment(t *testing.T) {
	closes := make([]float64, 120)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bars := barsFromCloses(closes...)
	ichi := CalculateIchimoku(ohlcColumns(bars))

	lines := map[string][]*float64{
		"tenkan": ichi.Tenkan, "kijun": ichi.Kijun,
		"spanA": ichi.SpanA, "spanB": ichi.SpanB, "chikou": ichi.Chikou,
	}
	for name, line := range lines {
		if len(line) != len(bars) {
			t.Errorf("%s: expected %d points, got %d", name, len(bars), len(line))
		}
	}

	tests := []struct {
		name      string
		line      []*float64
		firstDef  int
		lastDef   int
		wantFirst float64
	}{
		{"tenkan", ichi.Tenkan, 8, 119, 104},
		{"kijun", ichi.Kijun, 25, 119, 112.5},
		{"spanA", ichi.SpanA, 25 + 26, 119, (112.5 + 121) / 2},
		{"spanB", ichi.SpanB, 51 + 26, 119, 125.5},
		{"chikou", ichi.Chikou, 0, 119 - 26, 126},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.firstDef > 0 && tc.line[tc.firstDef-1] != nil {
				t.Errorf("expected gap before index %d", tc.firstDef)
			}
			if tc.line[tc.firstDef] == nil || !approx(*tc.line[tc.firstDef], tc.wantFirst) {
				t.Errorf("index %d: expected %v, got %v", tc.firstDef, tc.wantFirst, tc.line[tc.firstDef])
			}
			if tc.line[tc.lastDef] == nil {
				t.Errorf("expected value at index %d", tc.lastDef)
			}
			if tc.lastDef+1 < len(tc.line) && tc.line[tc.lastDef+1] != nil {
				t.Errorf("expected gap after index %d", tc.lastDef)
			}
		})
	}
}

func TestCalculateIchimoku_ShortSeries(t *testing.T) {
	// Shorter than the base window: only the conversion line and the
	// lagging span have values.
	ichi := CalculateIchimoku(ohlcColumns(barsFromCloses(1, 2, 3, 4, 5, 6, 7, 8, 9, 10)))
	if ichi.Tenkan[7] != nil || ichi.Tenkan[8] == nil || *ichi.Tenkan[8] != 5 {
		t.Errorf("unexpected tenkan %v", ichi.Tenkan)
	}
	for i := range 10 {
		if ichi.Kijun[i] != nil || ichi.SpanA[i] != nil || ichi.SpanB[i] != nil || ichi.Chikou[i] != nil {
			t.Fatalf("index %d: expected gaps on every long-window line", i)
		}
	}
}

func TestLift(t *testing.T) {
	got := lift([]float64{0, 0, 0, 2.5}, 2)
	if got[0] != nil || got[1] != nil {
		t.Error("expected gaps over the lookback")
	}
	if got[2] == nil || *got[2] != 0 {
		t.Error("a zero after the lookback is a real value")
	}
	if *got[3] != 2.5 {
		t.Errorf("expected 2.5, got %v", *got[3])
	}
}

func TestEngulfing(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	ohlc := [][2]float64{
		{10, 11},
		{12, 9},
		{8.5, 12.5},
		{13, 8},
		{8, 14},
		{14, 14.5},
	}
	bars := make([]model.OHLCV, len(ohlc))
	for i, oc := range ohlc {
		bars[i] = model.OHLCV{
			Time:  start.AddDate(0, 0, i),
			Open:  oc[0],
			High:  max(oc[0], oc[1]) + 1,
			Low:   min(oc[0], oc[1]) - 1,
			Close: oc[1],
		}
	}

	got := Engulfing(bars)
	want := []int{0, 0, EngulfingBullish, EngulfingBearish, EngulfingBullishPartial, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("bar %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestEngulfing_BearishPartial(t *testing.T) {
	bars := barsFromCloses(0, 0, 0)
	bars[1].Open, bars[1].Close = 10, 12
	bars[2].Open, bars[2].Close = 12, 9
	got := Engulfing(bars)
	if got[2] != EngulfingBearishPartial {
		t.Errorf("expected %d when the open matches the prior close, got %d", EngulfingBearishPartial, got[2])
	}
}

func TestEngulfing_ShortSeries(t *testing.T) {
	if got := Engulfing(nil); len(got) != 0 {
		t.Errorf("expected no flags, got %v", got)
	}
	if got := Engulfing(barsFromCloses(1, 2)); got[0] != 0 || got[1] != 0 {
		t.Errorf("expected lookback bars to be 0, got %v", got)
	}
}
