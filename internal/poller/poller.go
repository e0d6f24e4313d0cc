package poller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/polymarket-clob/internal/api"
	"github.com/rickgao/polymarket-clob/internal/model"
)

// AssetSource provides the token ids to poll.
type AssetSource interface {
	Assets() []string
}

// StaticAssets is a fixed AssetSource.
type StaticAssets []string

func (s StaticAssets) Assets() []string { return s }

// BookFetcher fetches one book. *api.Client implements it.
type BookFetcher interface {
	GetOrderBook(ctx context.Context, tokenID string) (api.Response, error)
}

// BookHandler receives fetched books.
type BookHandler interface {
	HandleBook(ev model.BookEvent) error
}

// BookHandlerFunc is a function adapter for BookHandler.
type BookHandlerFunc func(model.BookEvent) error

func (f BookHandlerFunc) HandleBook(ev model.BookEvent) error {
	return f(ev)
}

// Config holds poller configuration.
type Config struct {
	Interval    time.Duration // Poll interval (default: 1m)
	Concurrency int           // Max concurrent requests (default: 8)
	Timeout     time.Duration // Per-request timeout (default: 10s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Interval:    time.Minute,
		Concurrency: 8,
		Timeout:     10 * time.Second,
	}
}

// Stats holds poller counters.
type Stats struct {
	Cycles   int64
	Fetched  int64
	Rejected int64
	Errors   int64
}

// Poller periodically fetches order books via the REST API.
type Poller struct {
	cfg     Config
	client  BookFetcher
	assets  AssetSource
	handler BookHandler
	logger  *slog.Logger
	now     func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cycles   atomic.Int64
	fetched  atomic.Int64
	rejected atomic.Int64
	errors   atomic.Int64
}

// New creates a new Poller.
func New(cfg Config, client BookFetcher, assets AssetSource, handler BookHandler, logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Poller{
		cfg:     cfg,
		client:  client,
		assets:  assets,
		handler: handler,
		logger:  logger,
		now:     time.Now,
		ctx:     context.Background(),
	}
}

// Start begins the polling loop.
func (p *Poller) Start(ctx context.Context) error {
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.run()

	p.logger.Info("book poller started",
		"interval", p.cfg.Interval,
		"concurrency", p.cfg.Concurrency,
	)

	return nil
}

// Stop gracefully shuts down the poller.
func (p *Poller) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("book poller stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns current counters.
func (p *Poller) Stats() Stats {
	return Stats{
		Cycles:   p.cycles.Load(),
		Fetched:  p.fetched.Load(),
		Rejected: p.rejected.Load(),
		Errors:   p.errors.Load(),
	}
}

// run is the main polling loop.
func (p *Poller) run() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	// Poll immediately on start.
	p.pollAll()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.pollAll()
		}
	}
}

// pollAll fetches the books of all assets with bounded concurrency.
func (p *Poller) pollAll() {
	start := time.Now()

	assets := p.assets.Assets()
	if len(assets) == 0 {
		p.logger.Debug("no assets to poll")
		return
	}

	var g errgroup.Group
	g.SetLimit(p.cfg.Concurrency)

	var fetched, failed int64
	var mu sync.Mutex

	for _, tokenID := range assets {
		if p.ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			err := p.pollAsset(tokenID)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				p.logger.Warn("failed to poll book",
					"asset_id", tokenID,
					"err", err,
				)
				failed++
				return nil
			}
			fetched++
			return nil
		})
	}

	// Workers never return an error.
	_ = g.Wait()

	p.cycles.Add(1)
	p.logger.Info("poll cycle complete",
		"assets", len(assets),
		"fetched", fetched,
		"errors", failed,
		"duration", time.Since(start),
	)
}

// pollAsset fetches and handles a single token's book.
func (p *Poller) pollAsset(tokenID string) error {
	ctx := p.ctx
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(p.ctx, p.cfg.Timeout)
		defer cancel()
	}

	resp, err := p.client.GetOrderBook(ctx, tokenID)
	if err != nil {
		p.errors.Add(1)
		return err
	}

	switch r := resp.(type) {
	case api.OrderBookResponse:
		p.fetched.Add(1)
		if p.handler == nil {
			return nil
		}
		return p.handler.HandleBook(model.BookEvent{
			Book:       r.OrderBook,
			Source:     model.SourceREST,
			ReceivedAt: p.now(),
		})
	case api.ErrorResponse:
		p.rejected.Add(1)
		return r.Err()
	default:
		p.errors.Add(1)
		return fmt.Errorf("unexpected response %T", resp)
	}
}
