package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rickgao/polymarket-clob/internal/decode"
	"github.com/rickgao/polymarket-clob/internal/model"
)

// cursorQuery returns the query for one page of a paginated listing.
func cursorQuery(cursor string) url.Values {
	if cursor == model.CursorBeginning {
		return nil
	}
	return url.Values{"next_cursor": {cursor}}
}

// GetMarket fetches a single market by condition id.
func (c *Client) GetMarket(ctx context.Context, conditionID string) (Response, error) {
	resp, err := c.get(ctx, "/markets/"+url.PathEscape(conditionID), nil,
		mapping(func(m decode.Mapping) (MarketResponse, error) {
			return DecodeMarketResponse(c.decoder, m)
		}))
	if err != nil {
		return nil, fmt.Errorf("get market %s: %w", conditionID, err)
	}
	return resp, nil
}

// GetMarkets fetches a page of markets starting at cursor.
func (c *Client) GetMarkets(ctx context.Context, cursor string) (Response, error) {
	return c.getMarketsPage(ctx, "/markets", cursor)
}

// GetSamplingMarkets fetches a page of markets with rewards enabled.
func (c *Client) GetSamplingMarkets(ctx context.Context, cursor string) (Response, error) {
	return c.getMarketsPage(ctx, "/sampling-markets", cursor)
}

func (c *Client) getMarketsPage(ctx context.Context, path, cursor string) (Response, error) {
	resp, err := c.get(ctx, path, cursorQuery(cursor),
		mapping(func(m decode.Mapping) (MarketsResponse, error) {
			return DecodeMarketsResponse(c.decoder, m)
		}))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return resp, nil
}

// GetSimplifiedMarkets fetches a page of simplified markets.
func (c *Client) GetSimplifiedMarkets(ctx context.Context, cursor string) (Response, error) {
	return c.getSimplifiedPage(ctx, "/simplified-markets", cursor)
}

// GetSamplingSimplifiedMarkets fetches a page of simplified markets with
// rewards enabled.
func (c *Client) GetSamplingSimplifiedMarkets(ctx context.Context, cursor string) (Response, error) {
	return c.getSimplifiedPage(ctx, "/sampling-simplified-markets", cursor)
}

func (c *Client) getSimplifiedPage(ctx context.Context, path, cursor string) (Response, error) {
	resp, err := c.get(ctx, path, cursorQuery(cursor),
		mapping(func(m decode.Mapping) (SimplifiedMarketsResponse, error) {
			return DecodeSimplifiedMarketsResponse(c.decoder, m)
		}))
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	return resp, nil
}

// GetRewardsMarkets fetches a page of markets with a current reward campaign.
func (c *Client) GetRewardsMarkets(ctx context.Context, cursor string) (Response, error) {
	resp, err := c.get(ctx, "/rewards/markets/current", cursorQuery(cursor),
		mapping(func(m decode.Mapping) (RewardsMarketsResponse, error) {
			return DecodeRewardsMarketsResponse(c.decoder, m)
		}))
	if err != nil {
		return nil, fmt.Errorf("get rewards markets: %w", err)
	}
	return resp, nil
}

// GetAllMarkets fetches all markets by paginating through results.
func (c *Client) GetAllMarkets(ctx context.Context) ([]model.Market, error) {
	var allMarkets []model.Market
	cursor := model.CursorBeginning

	for {
		resp, err := c.GetMarkets(ctx, cursor)
		if err != nil {
			return nil, err
		}

		switch r := resp.(type) {
		case MarketsResponse:
			allMarkets = append(allMarkets, r.Data...)
			if r.Last() {
				return allMarkets, nil
			}
			cursor = r.NextCursor
		case ErrorResponse:
			return nil, fmt.Errorf("get all markets: %w", r.Err())
		default:
			return nil, fmt.Errorf("get all markets: unexpected %T", resp)
		}
	}
}
