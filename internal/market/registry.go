package market

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/rickgao/polymarket-clob/internal/api"
	"github.com/rickgao/polymarket-clob/internal/model"
)

// ChangeBufferSize is the capacity of the Change channel.
const ChangeBufferSize = 1000

// Lister fetches one page of sampling markets. *api.Client satisfies it.
type Lister interface {
	GetSamplingSimplifiedMarkets(ctx context.Context, cursor string) (api.Response, error)
}

// Change reports a market entering or leaving the active set.
type Change struct {
	ConditionID string
	EventType   string // "added" or "removed"
	TokenIDs    []string
}

// Config holds registry configuration.
type Config struct {
	ReconcileInterval time.Duration
	MaxAssets         int      // 0 means no limit
	Static            []string // Always included, ahead of discovered tokens
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		ReconcileInterval: 5 * time.Minute,
	}
}

// Stats describes the last sync.
type Stats struct {
	Markets    int
	Assets     int
	Syncs      int64
	Failures   int64
	LastSyncAt time.Time
}

// Registry tracks active sampling markets.
type Registry struct {
	cfg    Config
	client Lister
	logger *slog.Logger

	state *registryState

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewRegistry creates a Registry.
func NewRegistry(cfg Config, client Lister, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = DefaultConfig().ReconcileInterval
	}

	return &Registry{
		cfg:    cfg,
		client: client,
		logger: logger,
		state:  newState(),
	}
}

// Start runs the initial sync, then reconciles in the background.
func (r *Registry) Start(ctx context.Context) error {
	r.ctx, r.cancel = context.WithCancel(ctx)

	if err := r.sync(r.ctx); err != nil {
		r.cancel()
		return err
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.reconciliationLoop(r.ctx)
	}()

	stats := r.Stats()
	r.logger.Info("market registry started",
		"active_markets", stats.Markets,
		"assets", stats.Assets,
	)
	return nil
}

// Stop gracefully shuts down.
func (r *Registry) Stop(ctx context.Context) error {
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
		r.logger.Info("market registry stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Assets returns the static token ids followed by the discovered ones,
// without duplicates and capped at MaxAssets.
func (r *Registry) Assets() []string {
	discovered := r.state.tokenIDs()

	seen := make(map[string]struct{}, len(r.cfg.Static)+len(discovered))
	out := make([]string, 0, len(r.cfg.Static)+len(discovered))
	for _, ids := range [][]string{r.cfg.Static, discovered} {
		for _, id := range ids {
			if _, ok := seen[id]; ok {
				continue
			}
			if r.cfg.MaxAssets > 0 && len(out) >= r.cfg.MaxAssets {
				return out
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}

// Market returns an active market by condition id.
func (r *Registry) Market(conditionID string) (model.SimplifiedMarket, bool) {
	return r.state.getMarket(conditionID)
}

// Changes returns added and removed markets, after the initial sync.
func (r *Registry) Changes() <-chan Change {
	return r.state.changes
}

// Stats returns current counters.
func (r *Registry) Stats() Stats {
	return r.state.stats()
}
