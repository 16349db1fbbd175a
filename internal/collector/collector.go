package collector

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"StockView/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price float64
	Count int
	// Bars overrides the generated series for a symbol. An entry with no
	// bars makes that symbol unavailable.
	Bars map[string][]model.OHLCV

	mu    sync.Mutex
	calls int
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times FetchSeries has been invoked.
func (m *MockFetcher) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *MockFetcher) FetchSeries(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.PriceSeries, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var bars []model.OHLCV
	if fixed, ok := m.Bars[symbol]; ok {
		bars = append(bars, fixed...)
	} else {
		count := m.Count
		if count == 0 {
			count = 252
		}
		price := m.Price
		if price == 0 {
			price = 100
		}
		bars = generateMockBars(price, count, interval)
	}
	return newSeries(symbol, period, interval, bars)
}

func generateMockBars(basePrice float64, count int, interval model.Interval) []model.OHLCV {
	step := interval.Duration()
	if step == 0 {
		step = 24 * time.Hour
	}
	start := time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC)
	bars := make([]model.OHLCV, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.OHLCV{
			Time:   start.Add(time.Duration(i) * step),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// newSeries sorts bars, drops duplicate timestamps (last one wins) and
// wraps them in a PriceSeries. No bars means the data is unavailable.
func newSeries(symbol string, period model.Period, interval model.Interval, bars []model.OHLCV) (*model.PriceSeries, error) {
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Time.Equal(b.Time) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s %s/%s: %w", strings.ToUpper(symbol), period, interval, ErrDataUnavailable)
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Period:    period,
		Interval:  interval,
		Bars:      out,
		FetchedAt: time.Now(),
	}, nil
}
