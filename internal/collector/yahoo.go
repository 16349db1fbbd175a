package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"StockView/internal/model"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	Client    *http.Client
	BaseURL   string
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string, timeout time.Duration) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		BaseURL: yahooChartURL,
		SymbolMap: map[string]string{
			"NIFTY50":   "^NSEI",
			"NIFTY":     "^NSEI",
			"BANKNIFTY": "^NSEBANK",
			"SENSEX":    "^BSESN",
			"SPX500":    "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
// Quote arrays hold nulls for bars the exchange never printed.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta       yahooMeta `json:"meta"`
			Timestamp  []int64   `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// yahooMeta carries the listing exchange's clock.
type yahooMeta struct {
	ExchangeTimezoneName string `json:"exchangeTimezoneName"`
	GmtOffset            int    `json:"gmtoffset"`
}

// location resolves the exchange zone. When the zone database lacks the
// name, the reported UTC offset is used as a fixed zone.
func (m yahooMeta) location() *time.Location {
	if m.ExchangeTimezoneName != "" {
		if loc, err := time.LoadLocation(m.ExchangeTimezoneName); err == nil {
			return loc
		}
	}
	if m.ExchangeTimezoneName == "" && m.GmtOffset == 0 {
		return time.UTC
	}
	name := m.ExchangeTimezoneName
	if name == "" {
		name = "UTC"
	}
	return time.FixedZone(name, m.GmtOffset)
}

// yahooRange maps a display period onto the provider's range parameter.
// Yahoo has no 15-minute range, so it is served from the 1-day range.
func yahooRange(p model.Period) string {
	if p == model.Period15m {
		return string(model.Period1d)
	}
	return string(p)
}

func at(vals []*float64, i int) (float64, bool) {
	if i >= len(vals) || vals[i] == nil {
		return 0, false
	}
	return *vals[i], true
}

func (f *YahooFetcher) FetchSeries(ctx context.Context, symbol string, period model.Period, interval model.Interval) (*model.PriceSeries, error) {
	u := fmt.Sprintf("%s%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, yahooRange(period))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	// Unknown symbols and rejected period/interval pairs come back as an
	// error object, usually with a 4xx status.
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s %s/%s: %s: %w",
			symbol, period, interval, chart.Chart.Error.Description, ErrDataUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return newSeries(symbol, period, interval, nil)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	// Session breaks are drawn in exchange-local hours.
	loc := result.Meta.location()
	bars := make([]model.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o, ok1 := at(quote.Open, i)
		h, ok2 := at(quote.High, i)
		l, ok3 := at(quote.Low, i)
		c, ok4 := at(quote.Close, i)
		v, ok5 := at(quote.Volume, i)
		if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
			continue // skip null bars (holidays, halts)
		}
		bars = append(bars, model.OHLCV{
			Time:   time.Unix(ts, 0).In(loc),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: v,
		})
	}

	series, err := newSeries(symbol, period, interval, bars)
	if err != nil {
		return nil, err
	}
	if period == model.Period15m {
		series.Bars = lastWindow(series.Bars, 15*time.Minute)
	}
	return series, nil
}

// lastWindow keeps the bars within d of the final bar.
func lastWindow(bars []model.OHLCV, d time.Duration) []model.OHLCV {
	if len(bars) == 0 {
		return bars
	}
	cutoff := bars[len(bars)-1].Time.Add(-d)
	for i, b := range bars {
		if b.Time.After(cutoff) {
			return bars[i:]
		}
	}
	return bars
}
