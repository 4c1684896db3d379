package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// InboundHandler processes frames received from a client. A returned error is
// reported back to that connection as an "error" event.
type InboundHandler interface {
	HandleEvent(ctx context.Context, userID uint, ev InboundEvent) error
}

type ClientConfig struct {
	SendBuffer     int
	MaxMessageSize int64
	RatePerSecond  float64
	RateBurst      int
}

// Client is one websocket connection of an authenticated user.
type Client struct {
	id       string
	userID   uint
	conn     *websocket.Conn
	send     chan []byte
	limiter  *rate.Limiter
	registry *Registry
	handler  InboundHandler
	maxSize  int64
	log      *zap.Logger

	mu     sync.Mutex
	closed bool
}

func NewClient(conn *websocket.Conn, userID uint, registry *Registry, handler InboundHandler, cfg ClientConfig, log *zap.Logger) *Client {
	buf := cfg.SendBuffer
	if buf <= 0 {
		buf = 256
	}
	id := uuid.NewString()
	return &Client{
		id:       id,
		userID:   userID,
		conn:     conn,
		send:     make(chan []byte, buf),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst),
		registry: registry,
		handler:  handler,
		maxSize:  cfg.MaxMessageSize,
		log:      log.With(zap.String("conn_id", id), zap.Uint("user_id", userID)),
	}
}

func (c *Client) ID() string   { return c.id }
func (c *Client) UserID() uint { return c.userID }

func (c *Client) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// Close stops the write pump, which sends a close frame and drops the socket.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Run registers the client and blocks until the connection ends.
func (c *Client) Run(ctx context.Context) {
	c.registry.Add(c)
	c.log.Info("[ws] connected")
	go c.writePump()
	c.readPump(ctx)
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.registry.Remove(c)
		c.Close()
		_ = c.conn.Close()
		c.log.Info("[ws] disconnected")
	}()

	if c.maxSize > 0 {
		c.conn.SetReadLimit(c.maxSize)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("[ws][read] unexpected close", zap.Error(err))
			}
			return
		}

		if !c.limiter.Allow() {
			c.replyError("", "rate limit exceeded")
			continue
		}

		var ev InboundEvent
		if err := json.Unmarshal(raw, &ev); err != nil || ev.Event == "" {
			c.replyError("", "malformed event")
			continue
		}
		if err := c.handler.HandleEvent(ctx, c.userID, ev); err != nil {
			c.log.Debug("[ws][read] handler rejected event", zap.String("event", ev.Event), zap.Error(err))
			c.replyError(ev.Event, err.Error())
		}
	}
}

func (c *Client) replyError(event, msg string) {
	frame, err := json.Marshal(Event{Event: EventError, Data: ErrorPayload{Event: event, Message: msg}})
	if err != nil {
		return
	}
	c.Send(frame)
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Debug("[ws][write] failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
