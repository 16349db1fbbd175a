package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"StockView/internal/model"
)

// ErrDataUnavailable is returned when the provider has no bars for a
// symbol/period/interval combination.
var ErrDataUnavailable = errors.New("data unavailable")

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchSeries(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.PriceSeries, error)
	Name() string
}

// NewFetcher picks the fetcher for a configured provider: yahoo, rest or mock.
func NewFetcher(provider, baseURL, apiKey, proxyURL string, timeout time.Duration) (Fetcher, error) {
	switch provider {
	case "", "yahoo":
		return NewYahooFetcher(proxyURL, timeout), nil
	case "rest":
		if baseURL == "" {
			return nil, fmt.Errorf("rest provider needs a base URL")
		}
		return NewRESTFetcher(baseURL, apiKey, proxyURL, timeout), nil
	case "mock":
		return &MockFetcher{}, nil
	default:
		return nil, fmt.Errorf("unknown data provider %q", provider)
	}
}
