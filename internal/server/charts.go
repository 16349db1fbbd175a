package server

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"StockView/internal/chart"
	"StockView/internal/collector"
	"StockView/internal/metrics"
	"StockView/internal/model"
	"StockView/internal/recorder"
)

// ChartBuilder produces chart results. *chart.Pipeline implements it.
type ChartBuilder interface {
	BuildChartResult(ctx context.Context, req model.ChartRequest) (*model.ChartResult, error)
	BuildMultiTimeframe(ctx context.Context, ticker string, frames []model.Frame) ([]*model.ChartResult, error)
}

// Build sources, used as metric labels and in the journal.
const (
	SourceHTTP    = "http"
	SourceWS      = "ws"
	SourceMulti   = "multi"
	SourceRefresh = "refresh"
)

// Charts wraps a ChartBuilder with journaling and metrics. Missing data is
// turned into an empty chart carrying the error message.
type Charts struct {
	builder  ChartBuilder
	recorder recorder.Recorder
	metrics  *metrics.Metrics
}

// NewCharts creates a Charts. rec may be nil.
func NewCharts(builder ChartBuilder, rec recorder.Recorder, m *metrics.Metrics) *Charts {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Charts{builder: builder, recorder: rec, metrics: m}
}

func isBadRequest(err error) bool {
	return errors.Is(err, model.ErrInvalidRequest) ||
		errors.Is(err, model.ErrUnknownPeriod) ||
		errors.Is(err, model.ErrUnknownInterval) ||
		errors.Is(err, model.ErrUnknownIndicator)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, collector.ErrDataUnavailable):
		return "unavailable"
	case isBadRequest(err):
		return "invalid"
	}
	return "error"
}

// Build runs one chart build. The returned error is non-nil only for
// invalid requests and provider failures other than missing data.
func (c *Charts) Build(ctx context.Context, source, requestID string, req model.ChartRequest) (*model.ChartResult, error) {
	start := time.Now()
	res, err := c.builder.BuildChartResult(ctx, req)
	elapsed := time.Since(start)
	outcome := outcomeOf(err)

	if outcome == "unavailable" {
		log.Printf("[WARN] [%s] %s %s/%s: %v", requestID, req.Ticker, req.Period, req.Interval, err)
		res, err = chart.Unavailable(req, err), nil
	} else if err != nil {
		log.Printf("[ERROR] [%s] build %s %s/%s: %v", requestID, req.Ticker, req.Period, req.Interval, err)
	}

	if c.metrics != nil {
		c.metrics.ObserveBuild(source, outcome, elapsed)
	}
	c.journal(source, requestID, req, res, err, elapsed)
	return res, err
}

// BuildFrames runs a multi-timeframe build.
func (c *Charts) BuildFrames(ctx context.Context, requestID, ticker string, frames []model.Frame) ([]*model.ChartResult, error) {
	start := time.Now()
	res, err := c.builder.BuildMultiTimeframe(ctx, ticker, frames)
	if c.metrics != nil {
		c.metrics.ObserveBuild(SourceMulti, outcomeOf(err), time.Since(start))
	}
	if err != nil {
		log.Printf("[ERROR] [%s] multi-timeframe %s: %v", requestID, ticker, err)
	}
	return res, err
}

func (c *Charts) journal(source, requestID string, req model.ChartRequest, res *model.ChartResult, err error, elapsed time.Duration) {
	indicators := make([]string, len(req.Indicators))
	for i, k := range req.Indicators {
		indicators[i] = string(k)
	}
	evt := &recorder.ChartBuild{
		RequestID:  requestID,
		Source:     source,
		Ticker:     strings.ToUpper(req.Ticker),
		Period:     string(req.Period),
		Interval:   string(req.Interval),
		Compare:    req.Compare,
		Indicators: indicators,
		Elapsed:    elapsed,
	}
	if res != nil {
		evt.Bars = res.Primary.Len()
		evt.Overlays = len(res.Overlays)
		evt.Regions = len(res.Regions)
		evt.Err = res.Error
	}
	if err != nil {
		evt.Err = err.Error()
	}
	if rerr := c.recorder.RecordChartBuild(evt); rerr != nil {
		log.Printf("[WARN] [%s] record chart build: %v", requestID, rerr)
	}
}
