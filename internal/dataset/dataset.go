// Package dataset turns price history into engulfing-labelled training rows.
package dataset

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"StockView/internal/calculator"
	"StockView/internal/model"
)

// Row is one labelled bar. Features are the prices, the label is the
// engulfing flag of that bar.
type Row struct {
	Timestamp int64   `json:"t" parquet:"t"` // Unix milliseconds
	Open      float64 `json:"o" parquet:"o"`
	High      float64 `json:"h" parquet:"h"`
	Low       float64 `json:"l" parquet:"l"`
	Close     float64 `json:"c" parquet:"c"`
	Engulfing int32   `json:"engulfing" parquet:"engulfing"`
}

// Label builds one row per bar.
func Label(bars []model.OHLCV) []Row {
	flags := calculator.Engulfing(bars)
	rows := make([]Row, len(bars))
	for i, b := range bars {
		rows[i] = Row{
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Engulfing: int32(flags[i]),
		}
	}
	return rows
}

// ClassCounts counts rows per label.
func ClassCounts(rows []Row) map[int32]int {
	counts := make(map[int32]int)
	for _, r := range rows {
		counts[r.Engulfing]++
	}
	return counts
}

// FormatCounts renders counts in ascending label order, e.g. "{-100:3 0:90 100:4}".
func FormatCounts(counts map[int32]int) string {
	labels := sortedLabels(counts)
	s := "{"
	for i, l := range labels {
		if i > 0 {
			s += " "
		}
		s += fmt.Sprintf("%d:%d", l, counts[l])
	}
	return s + "}"
}

func sortedLabels(counts map[int32]int) []int32 {
	labels := make([]int32, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Oversample draws extra rows with replacement from every minority class
// until each class matches the majority count. The input rows come first,
// in order, followed by the drawn rows. The same seed gives the same output.
func Oversample(rows []Row, seed uint64) []Row {
	byClass := make(map[int32][]int)
	majority := 0
	for i, r := range rows {
		byClass[r.Engulfing] = append(byClass[r.Engulfing], i)
		majority = max(majority, len(byClass[r.Engulfing]))
	}

	rng := newRand(seed)
	out := append([]Row(nil), rows...)
	for _, label := range sortedLabels(ClassCounts(rows)) {
		idx := byClass[label]
		for n := len(idx); n < majority; n++ {
			out = append(out, rows[idx[rng.IntN(len(idx))]])
		}
	}
	return out
}

// Split shuffles rows and holds out ceil(testFraction*len(rows)) of them
// as the test set.
func Split(rows []Row, testFraction float64, seed uint64) (train, test []Row, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, fmt.Errorf("test fraction must be in (0, 1), got %g", testFraction)
	}
	nTest := int(math.Ceil(testFraction * float64(len(rows))))
	perm := newRand(seed).Perm(len(rows))
	for i, p := range perm {
		if i < nTest {
			test = append(test, rows[p])
		} else {
			train = append(train, rows[p])
		}
	}
	return train, test, nil
}
