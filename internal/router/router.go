package router

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/rickgao/polymarket-clob/internal/model"
)

// ErrClosed is returned by HandleBook after Stop.
var ErrClosed = errors.New("router closed")

// Stats contains runtime statistics.
type Stats struct {
	Received   int64
	Routed     int64
	Duplicates int64
	Buffer     BufferStats
}

// Router merges books from the stream and the poller, drops repeats of the
// last book routed for each asset, and queues the rest for the writer.
type Router struct {
	logger *slog.Logger
	out    *Buffer[model.BookEvent]

	mu         sync.Mutex
	lastHash   map[string]string // asset_id -> hash of the last routed book
	received   int64
	routed     int64
	duplicates int64

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Router whose output buffer starts at bufferSize.
func New(bufferSize int, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		logger:   logger,
		out:      NewBuffer[model.BookEvent](bufferSize),
		lastHash: make(map[string]string),
	}
}

// Output returns the buffer the writer consumes.
func (r *Router) Output() *Buffer[model.BookEvent] {
	return r.out
}

// Start forwards every input channel into the router until ctx is done or
// the channel closes.
func (r *Router) Start(ctx context.Context, inputs ...<-chan model.BookEvent) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	for _, in := range inputs {
		r.wg.Add(1)
		go r.forward(in)
	}

	r.logger.Info("book router started", "inputs", len(inputs))
	return nil
}

// Stop gracefully shuts down the router and closes the output buffer.
func (r *Router) Stop(ctx context.Context) error {
	r.logger.Info("stopping book router")

	if r.cancel != nil {
		r.cancel()
	}

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("book router stopped")
	case <-ctx.Done():
		r.logger.Warn("book router stop timed out")
	}

	r.out.Close()
	return nil
}

func (r *Router) forward(in <-chan model.BookEvent) {
	defer r.wg.Done()

	for {
		select {
		case <-r.ctx.Done():
			return
		case ev, ok := <-in:
			if !ok {
				return
			}
			if err := r.HandleBook(ev); err != nil {
				return
			}
		}
	}
}

// HandleBook routes one book. Safe for concurrent use.
func (r *Router) HandleBook(ev model.BookEvent) error {
	hash := ev.Book.Hash
	if hash == "" {
		var err error
		if hash, err = ev.Book.ComputeHash(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.received++
	if r.lastHash[ev.Book.AssetID] == hash {
		r.duplicates++
		r.mu.Unlock()
		r.logger.Debug("duplicate book dropped",
			"asset_id", ev.Book.AssetID,
			"source", ev.Source,
		)
		return nil
	}
	r.lastHash[ev.Book.AssetID] = hash
	r.routed++
	r.mu.Unlock()

	if !r.out.Send(ev) {
		return ErrClosed
	}
	return nil
}

// Stats returns current router statistics.
func (r *Router) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Stats{
		Received:   r.received,
		Routed:     r.routed,
		Duplicates: r.duplicates,
		Buffer:     r.out.Stats(),
	}
}
