package connection

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Market channel keepalive frames. The server answers a text PING with a
// text PONG; control-frame pings are not enough to keep the session open.
var (
	pingFrame = []byte("PING")
	pongFrame = []byte("PONG")
)

// Client is one WebSocket connection to the market channel.
type Client interface {
	// Connect dials the channel and starts the read and keepalive loops.
	Connect(ctx context.Context) error

	// Close sends a close frame and releases the connection.
	Close() error

	// Send writes one text frame.
	Send(data []byte) error

	// Messages returns data frames, each stamped on receipt. Keepalive
	// replies are consumed by the client and never appear here.
	Messages() <-chan TimestampedMessage

	// Errors returns read failures and staleness reports.
	Errors() <-chan error

	IsConnected() bool
}

type wsClient struct {
	cfg    ClientConfig
	logger *slog.Logger

	conn *websocket.Conn

	messages chan TimestampedMessage
	errors   chan error
	done     chan struct{}

	writeMu sync.Mutex

	mu         sync.RWMutex
	connected  bool
	closed     bool
	lastSeenAt time.Time // last keepalive reply or server ping
}

// NewClient creates a market channel client. Zero durations fall back to
// DefaultClientConfig.
func NewClient(cfg ClientConfig, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultClientConfig()
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = def.PingTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.BufferSize < 0 {
		cfg.BufferSize = 0
	}

	return &wsClient{
		cfg:      cfg,
		logger:   logger.With("url", cfg.URL),
		messages: make(chan TimestampedMessage, cfg.BufferSize),
		errors:   make(chan error, 1),
		done:     make(chan struct{}),
	}
}

func (c *wsClient) Connect(ctx context.Context) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrAlreadyClosed
	}

	header := http.Header{}
	header.Set("Accept", "application/json")
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, c.cfg.URL, header)
	if err != nil {
		return err
	}

	conn.SetPingHandler(func(data string) error {
		c.seen()
		c.writeMu.Lock()
		defer c.writeMu.Unlock()
		return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
	})

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.lastSeenAt = time.Now()
	c.mu.Unlock()

	go c.readLoop(conn)
	go c.keepaliveLoop(conn)

	c.logger.Debug("market channel connected")
	return nil
}

func (c *wsClient) seen() {
	c.mu.Lock()
	c.lastSeenAt = time.Now()
	c.mu.Unlock()
}

func (c *wsClient) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.connected = false
	conn := c.conn
	c.mu.Unlock()

	close(c.done)
	if conn == nil {
		return nil
	}

	c.writeMu.Lock()
	_ = conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	c.writeMu.Unlock()
	return conn.Close()
}

func (c *wsClient) Send(data []byte) error {
	c.mu.RLock()
	conn, connected := c.conn, c.connected
	c.mu.RUnlock()
	if !connected {
		return ErrNotConnected
	}
	return c.write(conn, data)
}

func (c *wsClient) write(conn *websocket.Conn, data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsClient) Messages() <-chan TimestampedMessage { return c.messages }

func (c *wsClient) Errors() <-chan error { return c.errors }

func (c *wsClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// reportError never blocks; one pending error is enough to trigger a reconnect.
func (c *wsClient) reportError(err error) {
	select {
	case c.errors <- err:
	default:
	}
}

func (c *wsClient) readLoop(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
	}()

	for {
		typ, data, err := conn.ReadMessage()
		receivedAt := time.Now()
		if err != nil {
			select {
			case <-c.done:
			default:
				c.reportError(err)
			}
			return
		}

		if typ == websocket.TextMessage && string(data) == string(pongFrame) {
			c.seen()
			continue
		}

		select {
		case c.messages <- TimestampedMessage{Data: data, ReceivedAt: receivedAt}:
		case <-c.done:
			return
		default:
			c.logger.Warn("message buffer full, dropping frame", "bytes", len(data))
		}
	}
}

// keepaliveLoop sends PING every interval and reports the connection stale
// once no reply has arrived within PingTimeout.
func (c *wsClient) keepaliveLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
		}

		if err := c.write(conn, pingFrame); err != nil {
			c.logger.Debug("keepalive write failed", "error", err)
		}

		c.mu.RLock()
		last := c.lastSeenAt
		c.mu.RUnlock()
		if since := time.Since(last); since > c.cfg.PingTimeout {
			c.logger.Warn("market channel stale", "since_reply", since, "timeout", c.cfg.PingTimeout)
			c.reportError(ErrStaleConnection)
			return
		}
	}
}
