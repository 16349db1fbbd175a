package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the chart server.
type Metrics struct {
	registry *prometheus.Registry

	BuildsTotal *prometheus.CounterVec // labels: source, outcome
	BuildDur    prometheus.Histogram
	FetchDur    *prometheus.HistogramVec // labels: provider, outcome
	WSClients   prometheus.Gauge
	PushesTotal prometheus.Counter

	// Pattern scan
	AlertsTotal *prometheus.CounterVec // labels: direction
	ScanErrors  prometheus.Counter
}

// NewMetrics registers and returns all Prometheus metrics on a private
// registry that also carries the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BuildsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockview_chart_builds_total",
			Help: "Chart builds by caller and outcome (ok, unavailable, invalid, error)",
		}, []string{"source", "outcome"}),
		BuildDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockview_chart_build_duration_seconds",
			Help:    "End-to-end chart build latency including provider fetches",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FetchDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockview_provider_fetch_duration_seconds",
			Help:    "Market-data provider request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider", "outcome"}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stockview_ws_clients",
			Help: "Connected live-chart WebSocket clients",
		}),
		PushesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockview_ws_pushes_total",
			Help: "Chart updates pushed to WebSocket clients",
		}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockview_pattern_alerts_total",
			Help: "Engulfing alerts raised by the watchlist scan",
		}, []string{"direction"}),
		ScanErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockview_pattern_scan_errors_total",
			Help: "Watchlist symbols that failed to fetch or notify",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.BuildsTotal,
		m.BuildDur,
		m.FetchDur,
		m.WSClients,
		m.PushesTotal,
		m.AlertsTotal,
		m.ScanErrors,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveFetch records one provider call.
func (m *Metrics) ObserveFetch(provider string, elapsed time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.FetchDur.WithLabelValues(provider, outcome).Observe(elapsed.Seconds())
}

// ObserveBuild records one chart build.
func (m *Metrics) ObserveBuild(source, outcome string, elapsed time.Duration) {
	m.BuildsTotal.WithLabelValues(source, outcome).Inc()
	m.BuildDur.Observe(elapsed.Seconds())
}
