package infrastructure

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"nomadeAdmin/internal/modules/admin/domain"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	readLimit  = 1 << 16
)

// Client is one operator websocket connection watching an entity list.
type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	connID     string
	operatorID string
	entity     string
	commands   *CommandProcessor
	baseCtx    context.Context
	subscribed map[string]struct{}
	closeOnce  sync.Once
	closed     bool
	sendMu     sync.RWMutex
	closeHooks []func(*Client)
	hookMu     sync.Mutex
	logger     *slog.Logger
}

func NewClient(hub *Hub, conn *websocket.Conn, operatorID, entity string, buf int, commands *CommandProcessor) *Client {
	if buf <= 0 {
		buf = 8
	}
	logger := slog.Default()
	if hub != nil {
		logger = hub.logger
	}
	connID := uuid.NewString()
	return &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, buf),
		connID:     connID,
		operatorID: strings.TrimSpace(operatorID),
		entity:     strings.TrimSpace(entity),
		commands:   commands,
		subscribed: make(map[string]struct{}),
		logger:     logger.With(slog.String("connId", connID)),
	}
}

func (c *Client) Entity() string { return c.entity }

// BindContext sets the context commands of this client run under. Its values, such as the
// operator credential, outlive the upgrade request; its cancellation does not.
func (c *Client) BindContext(ctx context.Context) {
	if ctx != nil {
		c.baseCtx = context.WithoutCancel(ctx)
	}
}

// Context returns the bound command context.
func (c *Client) Context() context.Context {
	if c.baseCtx == nil {
		return context.Background()
	}
	return c.baseCtx
}

func (c *Client) key() string {
	return strings.Join([]string{c.operatorID, c.entity, c.connID}, ":")
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.invokeCloseHooks()
	})
}

// enqueue queues data without blocking. It reports false when the buffer is full.
func (c *Client) enqueue(data []byte) bool {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()
	if c.closed {
		return true
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// AddCloseHook registers a callback executed once when the client closes.
func (c *Client) AddCloseHook(fn func(*Client)) {
	if fn == nil {
		return
	}
	c.hookMu.Lock()
	c.closeHooks = append(c.closeHooks, fn)
	c.hookMu.Unlock()
}

func (c *Client) invokeCloseHooks() {
	c.hookMu.Lock()
	hooks := append([]func(*Client){}, c.closeHooks...)
	c.closeHooks = nil
	c.hookMu.Unlock()

	for _, hook := range hooks {
		func(h func(*Client)) {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Warn("ws close hook panic", slog.Any("error", r))
				}
			}()
			h(c)
		}(hook)
	}
}

func (c *Client) SendDomainMessage(msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("websocket marshal error", slog.Any("error", err))
		return
	}
	if !c.enqueue(data) {
		c.logger.Warn("websocket send buffer full", slog.String("operatorId", c.operatorID), slog.String("entity", c.entity))
		go c.hub.detachClient(c)
	}
}

func (c *Client) WritePump() {
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.logger.Warn("websocket write error", slog.Any("error", err))
				return
			}
		case <-ping.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				c.logger.Warn("websocket ping error", slog.Any("error", err))
				return
			}
		}
	}
}

func (c *Client) ReadPump() {
	c.conn.SetReadLimit(readLimit)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	defer c.hub.detachClient(c)
	for {
		var cmd Command
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if err := c.conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("websocket read error", slog.String("operatorId", c.operatorID), slog.String("entity", c.entity), slog.Any("error", err))
			}
			return
		}
		if c.commands != nil {
			c.commands.Process(c, cmd)
		}
	}
}
