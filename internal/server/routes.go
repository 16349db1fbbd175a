package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"StockView/internal/chart"
	"StockView/internal/model"
)

// apply fills the controls a request leaves blank. A missing interval is
// resolved from the period.
func (d Defaults) apply(req model.ChartRequest) (model.ChartRequest, error) {
	req.Ticker = strings.TrimSpace(req.Ticker)
	if req.Ticker == "" {
		req.Ticker = d.Ticker
	}
	if req.Period == "" {
		req.Period = d.Period
	}
	if req.Interval == "" {
		iv, err := chart.ResolveSamplingInterval(req.Period)
		if err != nil {
			return req, err
		}
		req.Interval = iv
	}
	return req, nil
}

func splitList(s string) []string {
	var out []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (h *Handler) parseChartRequest(c *gin.Context) (model.ChartRequest, error) {
	req := model.ChartRequest{
		Ticker:   c.Query("ticker"),
		Period:   model.Period(c.Query("period")),
		Interval: model.Interval(c.Query("interval")),
		Compare:  splitList(c.Query("compare")),
	}
	for _, s := range splitList(c.Query("indicators")) {
		k, err := model.ParseIndicator(s)
		if err != nil {
			return req, err
		}
		req.Indicators = append(req.Indicators, k)
	}
	req, err := h.defaults.apply(req)
	if err != nil {
		return req, err
	}
	return req, req.Validate()
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"provider":   h.provider,
		"ws_clients": h.hub.ClientCount(),
	})
}

func (h *Handler) tickers(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.Options)
}

type periodOption struct {
	Period   model.Period   `json:"period"`
	Interval model.Interval `json:"interval"`
}

func (h *Handler) periods(c *gin.Context) {
	out := make([]periodOption, 0, len(model.Periods))
	for _, p := range model.Periods {
		iv, _ := chart.ResolveSamplingInterval(p)
		out = append(out, periodOption{Period: p, Interval: iv})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) indicators(c *gin.Context) {
	c.JSON(http.StatusOK, model.Indicators)
}

func (h *Handler) interval(c *gin.Context) {
	p := model.Period(c.Query("period"))
	iv, err := chart.ResolveSamplingInterval(p)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, periodOption{Period: p, Interval: iv})
}

func (h *Handler) chart(c *gin.Context) {
	req, err := h.parseChartRequest(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	res, err := h.charts.Build(c.Request.Context(), SourceHTTP, c.GetString(requestIDKey), req)
	if err != nil {
		writeBuildError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// hover rebuilds the displayed series and reads out the bar at t, so the
// readout always matches the controls the caller sends.
func (h *Handler) hover(c *gin.Context) {
	req, err := h.parseChartRequest(c)
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	t, err := time.Parse(time.RFC3339, c.Query("t"))
	if err != nil {
		writeError(c, http.StatusBadRequest, fmt.Errorf("t must be an RFC 3339 timestamp: %w", err))
		return
	}
	req.Indicators = nil
	res, err := h.charts.Build(c.Request.Context(), SourceHTTP, c.GetString(requestIDKey), req)
	if err != nil {
		writeBuildError(c, err)
		return
	}
	r, err := chart.NewReadout(res.Primary, t)
	if err != nil {
		writeError(c, http.StatusNotFound, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func parseFrames(s string) ([]model.Frame, error) {
	var frames []model.Frame
	for _, part := range splitList(s) {
		pv, iv, ok := strings.Cut(part, ":")
		p, err := model.ParsePeriod(pv)
		if err != nil {
			return nil, err
		}
		var interval model.Interval
		if ok {
			interval, err = model.ParseInterval(iv)
		} else {
			interval, err = chart.ResolveSamplingInterval(p)
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, model.Frame{Period: p, Interval: interval})
	}
	return frames, nil
}

func (h *Handler) multi(c *gin.Context) {
	ticker := strings.TrimSpace(c.Query("ticker"))
	if ticker == "" {
		ticker = h.defaults.Ticker
	}
	frames, err := parseFrames(c.Query("frames"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	res, err := h.charts.BuildFrames(c.Request.Context(), c.GetString(requestIDKey), ticker, frames)
	if err != nil {
		writeBuildError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
