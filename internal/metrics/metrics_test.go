package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	m := NewMetrics()
	m.ObserveBuild("http", "ok", 120*time.Millisecond)
	m.ObserveBuild("http", "ok", 80*time.Millisecond)
	m.ObserveBuild("ws", "unavailable", time.Millisecond)
	m.ObserveFetch("yahoo", 50*time.Millisecond, nil)
	m.ObserveFetch("yahoo", 10*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(m.BuildsTotal.WithLabelValues("http", "ok")); got != 2 {
		t.Errorf("expected 2 ok builds, got %v", got)
	}
	if got := testutil.CollectAndCount(m.FetchDur); got != 2 {
		t.Errorf("expected 2 fetch series, got %d", got)
	}
}

func TestHandler(t *testing.T) {
	m := NewMetrics()
	m.WSClients.Set(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "stockview_ws_clients 3") {
		t.Errorf("expected gauge in exposition, got:\n%s", body)
	}
}
