package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected    = errors.New("not connected")
	ErrStaleConnection = errors.New("connection stale (no pong)")
	ErrAlreadyClosed   = errors.New("already closed")
)

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// Market channel event types.
const (
	EventBook           = "book"
	EventPriceChange    = "price_change"
	EventTickSizeChange = "tick_size_change"
	EventLastTradePrice = "last_trade_price"
)

// SubscribeMessage is the first frame sent on the market channel.
type SubscribeMessage struct {
	AssetsIDs []string `json:"assets_ids"`
	Type      string   `json:"type"` // Always "market"
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL          string        // WebSocket URL (e.g., wss://ws-subscriptions-clob.polymarket.com/ws/market)
	PingInterval time.Duration // How often to send a keepalive ping
	PingTimeout  time.Duration // Max time without pong before considering connection stale
	WriteTimeout time.Duration // Write deadline for sends
	BufferSize   int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingInterval: 10 * time.Second,
		PingTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Second,
		BufferSize:   10000,
	}
}

// StreamConfig configures a Stream.
type StreamConfig struct {
	Client            ClientConfig
	ReconnectBaseWait time.Duration // First reconnect delay
	ReconnectMaxWait  time.Duration // Cap on the doubling delay
	BookBufferSize    int           // Size of the Books channel
}

// DefaultStreamConfig returns sensible defaults.
func DefaultStreamConfig() StreamConfig {
	return StreamConfig{
		Client:            DefaultClientConfig(),
		ReconnectBaseWait: time.Second,
		ReconnectMaxWait:  60 * time.Second,
		BookBufferSize:    1000,
	}
}

// StreamStats contains runtime statistics.
type StreamStats struct {
	Frames       int64 // WebSocket messages read
	Books        int64 // Book events delivered
	Skipped      int64 // Events of other types
	DecodeErrors int64
	Dropped      int64 // Books dropped on a full channel
	Reconnects   int64
}
