package market

import (
	"context"
	"fmt"
	"time"

	"github.com/rickgao/polymarket-clob/internal/api"
	"github.com/rickgao/polymarket-clob/internal/model"
)

// maxPages bounds one sync in case the cursor never reaches the end.
const maxPages = 1000

// fetchAll pages through every sampling market.
func (r *Registry) fetchAll(ctx context.Context) ([]model.SimplifiedMarket, error) {
	var all []model.SimplifiedMarket
	cursor := model.CursorBeginning

	for page := 0; page < maxPages; page++ {
		resp, err := r.client.GetSamplingSimplifiedMarkets(ctx, cursor)
		if err != nil {
			return nil, fmt.Errorf("fetch sampling markets: %w", err)
		}

		switch resp := resp.(type) {
		case api.SimplifiedMarketsResponse:
			all = append(all, resp.Data...)
			if resp.Last() {
				return all, nil
			}
			cursor = resp.NextCursor
		case api.ErrorResponse:
			return nil, fmt.Errorf("fetch sampling markets: %w", resp.Err())
		default:
			return nil, fmt.Errorf("fetch sampling markets: unexpected response %T", resp)
		}
	}
	return nil, fmt.Errorf("fetch sampling markets: no final page after %d pages", maxPages)
}

// sync replaces the active set with a fresh listing.
func (r *Registry) sync(ctx context.Context) error {
	start := time.Now()

	markets, err := r.fetchAll(ctx)
	if err != nil {
		r.state.recordFailure()
		return err
	}

	first := r.state.stats().Syncs == 0
	added, removed := r.state.replace(markets)

	// The initial listing is not reported as a change.
	if !first {
		for _, c := range added {
			r.state.notifyChange(c)
		}
		for _, c := range removed {
			r.state.notifyChange(c)
		}
	}

	if len(added) > 0 || len(removed) > 0 {
		r.logger.Info("market sync found changes",
			"listed", len(markets),
			"added", len(added),
			"removed", len(removed),
			"duration", time.Since(start),
		)
	} else {
		r.logger.Debug("market sync complete",
			"listed", len(markets),
			"duration", time.Since(start),
		)
	}
	return nil
}

// reconciliationLoop periodically re-lists markets.
func (r *Registry) reconciliationLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.ReconcileInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.sync(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("market reconciliation failed", "error", err)
			}
		}
	}
}
