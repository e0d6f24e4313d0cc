package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rickgao/polymarket-clob/internal/decode"
	"github.com/rickgao/polymarket-clob/internal/model"
)

// PricesHistoryParams selects a price history. Either Interval or the
// StartTS/EndTS range should be set.
type PricesHistoryParams struct {
	Market   string         // Token id
	Interval model.Interval // Window ending now
	Fidelity int            // Resolution in minutes
	StartTS  int64          // Unix seconds
	EndTS    int64          // Unix seconds
}

func (p PricesHistoryParams) query() (url.Values, error) {
	if p.Market == "" {
		return nil, errors.New("market is required")
	}
	if p.Interval != "" && !p.Interval.Valid() {
		return nil, fmt.Errorf("invalid interval %q", p.Interval)
	}

	query := url.Values{}
	query.Set("market", p.Market)
	if p.Interval != "" {
		query.Set("interval", string(p.Interval))
	}
	if p.Fidelity > 0 {
		query.Set("fidelity", strconv.Itoa(p.Fidelity))
	}
	if p.StartTS > 0 {
		query.Set("startTs", strconv.FormatInt(p.StartTS, 10))
	}
	if p.EndTS > 0 {
		query.Set("endTs", strconv.FormatInt(p.EndTS, 10))
	}
	return query, nil
}

// GetPricesHistory fetches the price history of a token.
func (c *Client) GetPricesHistory(ctx context.Context, params PricesHistoryParams) (Response, error) {
	query, err := params.query()
	if err != nil {
		return nil, fmt.Errorf("get prices history: %w", err)
	}

	resp, err := c.get(ctx, "/prices-history", query,
		mapping(func(m decode.Mapping) (PricesHistoryResponse, error) {
			return DecodePricesHistoryResponse(c.decoder, m)
		}))
	if err != nil {
		return nil, fmt.Errorf("get prices history %s: %w", params.Market, err)
	}
	return resp, nil
}
