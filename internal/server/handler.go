package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"StockView/internal/catalog"
	"StockView/internal/metrics"
	"StockView/internal/model"
)

const (
	apiBasePath     = "/api/v1"
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Defaults fill in controls a request leaves out.
type Defaults struct {
	Ticker   string
	Period   model.Period
	Interval model.Interval
}

// Handler serves the chart API, the live-chart WebSocket and metrics.
type Handler struct {
	router   *gin.Engine
	charts   *Charts
	hub      *Hub
	catalog  *catalog.Catalog
	metrics  *metrics.Metrics
	defaults Defaults
	provider string
}

// NewHandler wires the routes. cat may be nil, in which case the ticker
// list is empty.
func NewHandler(charts *Charts, hub *Hub, cat *catalog.Catalog, m *metrics.Metrics, defaults Defaults, provider string) *Handler {
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), accessLog())

	h := &Handler{
		router:   router,
		charts:   charts,
		hub:      hub,
		catalog:  cat,
		metrics:  m,
		defaults: defaults,
		provider: provider,
	}
	h.registerRoutes()
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	api := h.router.Group(apiBasePath)
	{
		api.GET("/health", h.health)
		api.GET("/tickers", h.tickers)
		api.GET("/periods", h.periods)
		api.GET("/indicators", h.indicators)
		api.GET("/interval", h.interval)

		api.GET("/chart", h.chart)
		api.GET("/chart/hover", h.hover)
		api.GET("/multi", h.multi)
	}
	h.router.GET("/ws", h.serveWS)
	h.router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
}

// requestID tags each request with a UUID, reusing one supplied by the caller.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("[INFO] [%s] %s %s %d %s",
			c.GetString(requestIDKey), c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error(), "request_id": c.GetString(requestIDKey)})
}

// writeBuildError maps pipeline failures to status codes.
func writeBuildError(c *gin.Context, err error) {
	if isBadRequest(err) {
		writeError(c, http.StatusBadRequest, err)
		return
	}
	writeError(c, http.StatusBadGateway, err)
}

func (h *Handler) serveWS(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WARN] [%s] websocket upgrade: %v", c.GetString(requestIDKey), err)
		return
	}
	h.hub.Register(conn, h.defaults)
}
