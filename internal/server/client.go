package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"StockView/internal/model"
)

const (
	pingPeriod   = 30 * time.Second
	readDeadline = 60 * time.Second
	writeWait    = 10 * time.Second
	readLimit    = 4096
)

// Client is one live-chart WebSocket peer. It owns its current controls;
// nothing about the displayed chart is shared between clients.
type Client struct {
	id       string
	conn     *websocket.Conn
	send     chan []byte
	hub      *Hub
	defaults Defaults

	mu  sync.Mutex
	req *model.ChartRequest
}

// Request returns the controls the client last subscribed with.
func (c *Client) Request() (model.ChartRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.req == nil {
		return model.ChartRequest{}, false
	}
	return *c.req, true
}

func (c *Client) setRequest(req *model.ChartRequest) {
	c.mu.Lock()
	c.req = req
	c.mu.Unlock()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.RemoveClient(c)
		c.conn.Close()
		log.Printf("[INFO] ws client %s disconnected", c.id)
	}()

	c.conn.SetReadLimit(readLimit)
	c.conn.SetReadDeadline(time.Now().Add(readDeadline))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.hub.deliver(c, Message{Type: MsgError, Error: "invalid message: " + err.Error()})
			continue
		}

		switch msg.Type {
		case MsgSubscribe:
			c.handleSubscribe(msg)
		case MsgUnsubscribe:
			c.setRequest(nil)
		default:
			c.hub.deliver(c, Message{Type: MsgError, Error: "unknown message type " + msg.Type})
		}
	}
}

// handleSubscribe replaces the client's controls and sends a chart built
// from them straight away.
func (c *Client) handleSubscribe(msg Message) {
	var req model.ChartRequest
	if msg.Request != nil {
		req = *msg.Request
	}
	req, err := c.defaults.apply(req)
	if err == nil {
		err = req.Validate()
	}
	if err != nil {
		c.hub.deliver(c, Message{Type: MsgError, Error: err.Error()})
		return
	}
	c.setRequest(&req)
	log.Printf("[INFO] ws client %s subscribed: %s %s/%s indicators=%v compare=%v",
		c.id, req.Ticker, req.Period, req.Interval, req.Indicators, req.Compare)

	c.build(context.Background(), SourceWS, req)
}

// build runs the pipeline for req and pushes the outcome to the client.
func (c *Client) build(ctx context.Context, source string, req model.ChartRequest) bool {
	res, err := c.hub.charts.Build(ctx, source, c.id, req)
	if err != nil {
		return c.hub.deliver(c, Message{Type: MsgError, Error: err.Error()})
	}
	ok := c.hub.deliver(c, Message{Type: MsgChart, Data: res})
	if ok && c.hub.metrics != nil {
		c.hub.metrics.PushesTotal.Inc()
	}
	return ok
}
