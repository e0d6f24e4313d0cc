package connection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rickgao/polymarket-clob/internal/decode"
	"github.com/rickgao/polymarket-clob/internal/model"
)

const keyEventType = "event_type"

// Stream subscribes to the market channel and delivers decoded books.
type Stream struct {
	cfg     StreamConfig
	assets  []string
	decoder decode.Decoder
	logger  *slog.Logger

	books chan model.BookEvent
	errs  chan error

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Stats
	frames       atomic.Int64
	delivered    atomic.Int64
	skipped      atomic.Int64
	decodeErrors atomic.Int64
	dropped      atomic.Int64
	reconnects   atomic.Int64
}

// NewStream creates a Stream for the given token ids.
func NewStream(cfg StreamConfig, assets []string, d decode.Decoder, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := DefaultStreamConfig()
	if cfg.ReconnectBaseWait <= 0 {
		cfg.ReconnectBaseWait = defaults.ReconnectBaseWait
	}
	if cfg.ReconnectMaxWait < cfg.ReconnectBaseWait {
		cfg.ReconnectMaxWait = cfg.ReconnectBaseWait
	}
	if cfg.BookBufferSize <= 0 {
		cfg.BookBufferSize = defaults.BookBufferSize
	}

	return &Stream{
		cfg:     cfg,
		assets:  append([]string(nil), assets...),
		decoder: d,
		logger:  logger,
		books:   make(chan model.BookEvent, cfg.BookBufferSize),
		errs:    make(chan error, 16),
	}
}

// Books returns decoded book events. It is closed after Stop.
func (s *Stream) Books() <-chan model.BookEvent {
	return s.books
}

// Errors returns frame decode failures. Sends never block; failures beyond
// the channel's capacity are only counted.
func (s *Stream) Errors() <-chan error {
	return s.errs
}

// Start connects, subscribes and begins reading. A failed first connection
// is returned; later disconnects are retried in the background.
func (s *Stream) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	c, err := s.connect()
	if err != nil {
		s.cancel()
		close(s.books)
		return fmt.Errorf("connect market channel: %w", err)
	}

	s.wg.Add(1)
	go s.run(c)

	s.logger.Info("market stream started",
		"url", s.cfg.Client.URL,
		"assets", len(s.assets),
	)
	return nil
}

// Stop closes the connection and waits for the read loop to exit.
func (s *Stream) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("market stream stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current counters.
func (s *Stream) Stats() StreamStats {
	return StreamStats{
		Frames:       s.frames.Load(),
		Books:        s.delivered.Load(),
		Skipped:      s.skipped.Load(),
		DecodeErrors: s.decodeErrors.Load(),
		Dropped:      s.dropped.Load(),
		Reconnects:   s.reconnects.Load(),
	}
}

func (s *Stream) connect() (Client, error) {
	c := NewClient(s.cfg.Client, s.logger)
	if err := c.Connect(s.ctx); err != nil {
		return nil, err
	}

	sub, err := json.Marshal(SubscribeMessage{AssetsIDs: s.assets, Type: "market"})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("marshal subscribe: %w", err)
	}
	if err := c.Send(sub); err != nil {
		c.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	return c, nil
}

func (s *Stream) run(c Client) {
	defer s.wg.Done()
	defer close(s.books)

	for {
		err := s.consume(c)
		c.Close()

		if s.ctx.Err() != nil {
			return
		}
		s.logger.Warn("market stream disconnected", "error", err)

		if c = s.reconnect(); c == nil {
			return
		}
	}
}

// consume handles frames until the connection fails or the stream stops.
func (s *Stream) consume(c Client) error {
	for {
		select {
		case <-s.ctx.Done():
			return s.ctx.Err()
		case err := <-c.Errors():
			return err
		case msg := <-c.Messages():
			s.handleFrame(msg.Data, msg.ReceivedAt)
		}
	}
}

// reconnect retries with exponential backoff. Returns nil once the stream
// is stopped.
func (s *Stream) reconnect() Client {
	wait := s.cfg.ReconnectBaseWait

	for {
		select {
		case <-s.ctx.Done():
			return nil
		case <-time.After(wait):
		}

		s.logger.Info("attempting reconnection", "wait", wait)

		c, err := s.connect()
		if err != nil {
			s.logger.Warn("reconnection failed", "error", err)

			wait *= 2
			if wait > s.cfg.ReconnectMaxWait {
				wait = s.cfg.ReconnectMaxWait
			}
			continue
		}

		s.reconnects.Add(1)
		s.logger.Info("reconnected", "assets", len(s.assets))
		return c
	}
}

// handleFrame decodes one frame. A frame is a single event object or an
// array of them; text keepalives such as "PONG" are ignored.
func (s *Stream) handleFrame(data []byte, receivedAt time.Time) {
	s.frames.Add(1)

	v, err := decode.Parse(data)
	if err != nil {
		s.logger.Debug("ignoring non-json frame", "size", len(data))
		return
	}

	switch frame := v.(type) {
	case decode.Mapping:
		s.handleEvent(frame, receivedAt)
	case []any:
		for i, item := range frame {
			m, ok := item.(decode.Mapping)
			if !ok {
				s.fail(fmt.Errorf("frame item %d: %w", i, &decode.FieldError{
					Path: fmt.Sprintf("[%d]", i),
					Want: "mapping",
					Got:  fmt.Sprintf("%T", item),
					Err:  decode.ErrTypeMismatch,
				}))
				continue
			}
			s.handleEvent(m, receivedAt)
		}
	default:
		s.logger.Debug("ignoring frame", "type", fmt.Sprintf("%T", v))
	}
}

func (s *Stream) handleEvent(m decode.Mapping, receivedAt time.Time) {
	eventType, _ := m[keyEventType].(string)
	if eventType != EventBook {
		s.skipped.Add(1)
		return
	}

	book, err := s.decoder.OrderBookSummary(m)
	if err != nil {
		s.fail(fmt.Errorf("book event: %w", err))
		return
	}

	ev := model.BookEvent{
		Book:       book,
		Source:     model.SourceWS,
		ReceivedAt: receivedAt,
	}

	select {
	case s.books <- ev:
		s.delivered.Add(1)
	default:
		s.dropped.Add(1)
		s.logger.Warn("book buffer full, dropping book", "asset_id", book.AssetID)
	}
}

func (s *Stream) fail(err error) {
	s.decodeErrors.Add(1)
	s.logger.Warn("failed to decode market event", "error", err)
	select {
	case s.errs <- err:
	default:
	}
}
