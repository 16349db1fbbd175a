package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockView/internal/model"
)

// RESTFetcher implements Fetcher against a JSON bars API
// (GET {base}/api/v1/bars?symbol=&period=&interval=).
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string, timeout time.Duration) *RESTFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

// restBar is the expected JSON shape from the bars API. Pointer fields
// let a null value be told apart from a zero price.
type restBar struct {
	Timestamp int64    `json:"timestamp"`
	Open      *float64 `json:"open"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Close     *float64 `json:"close"`
	Volume    *float64 `json:"volume"`
}

func (f *RESTFetcher) FetchSeries(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.PriceSeries, error) {
	bars, status, err := f.fetchBars(ctx, symbol, period, interval)
	if err == nil {
		return newSeries(symbol, period, interval, bars)
	}
	// Some deployments only store daily bars; build weekly ones locally.
	if interval == model.Interval1wk && status == http.StatusBadRequest {
		daily, _, dailyErr := f.fetchBars(ctx, symbol, period, model.Interval1d)
		if dailyErr != nil {
			return nil, fmt.Errorf("weekly fetch failed: %w; daily fallback also failed: %w", err, dailyErr)
		}
		sort.Slice(daily, func(i, j int) bool { return daily[i].Time.Before(daily[j].Time) })
		return newSeries(symbol, period, interval, aggregateDailyToWeekly(daily))
	}
	return nil, err
}

func (f *RESTFetcher) fetchBars(ctx context.Context, symbol string, period model.Period, interval model.Interval) ([]model.OHLCV, int, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("period", string(period))
	q.Set("interval", string(interval))
	endpoint := fmt.Sprintf("%s/api/v1/bars?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, resp.StatusCode, fmt.Errorf("%s %s/%s: %w", symbol, period, interval, ErrDataUnavailable)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, resp.StatusCode, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	var raw []restBar
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("decode bars: %w", err)
	}
	bars := make([]model.OHLCV, 0, len(raw))
	for _, rb := range raw {
		if rb.Open == nil || rb.High == nil || rb.Low == nil || rb.Close == nil {
			continue
		}
		var vol float64
		if rb.Volume != nil {
			vol = *rb.Volume
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(rb.Timestamp, 0).UTC(),
			Open:   *rb.Open,
			High:   *rb.High,
			Low:    *rb.Low,
			Close:  *rb.Close,
			Volume: vol,
		})
	}
	return bars, resp.StatusCode, nil
}

// aggregateDailyToWeekly converts daily bars into ISO-week bars.
func aggregateDailyToWeekly(daily []model.OHLCV) []model.OHLCV {
	var weekly []model.OHLCV
	var week model.OHLCV
	currentKey := -1

	for _, d := range daily {
		year, isoWeek := d.Time.ISOWeek()
		key := year*100 + isoWeek
		if key != currentKey {
			if currentKey != -1 {
				weekly = append(weekly, week)
			}
			week = d
			currentKey = key
			continue
		}
		if d.High > week.High {
			week.High = d.High
		}
		if d.Low < week.Low {
			week.Low = d.Low
		}
		week.Close = d.Close
		week.Volume += d.Volume
	}
	if currentKey != -1 {
		weekly = append(weekly, week)
	}
	return weekly
}
