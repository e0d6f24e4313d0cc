package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rickgao/polymarket-clob/internal/decode"
	"github.com/rickgao/polymarket-clob/internal/model"
)

// GetOrderBook fetches the book of one token.
func (c *Client) GetOrderBook(ctx context.Context, tokenID string) (Response, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)

	resp, err := c.get(ctx, "/book", query,
		mapping(func(m decode.Mapping) (OrderBookResponse, error) {
			return DecodeOrderBookResponse(c.decoder, m)
		}))
	if err != nil {
		return nil, fmt.Errorf("get order book %s: %w", tokenID, err)
	}
	return resp, nil
}

// GetOrderBooks fetches the books of several tokens in one request.
func (c *Client) GetOrderBooks(ctx context.Context, params []model.BookParams) (Response, error) {
	if len(params) == 0 {
		return OrderBooksResponse{OrderBooks: []model.OrderBookSummary{}}, nil
	}

	resp, err := c.post(ctx, "/books", params, func(v any) (Response, error) {
		r, err := DecodeOrderBooksResponse(c.decoder, v)
		if err != nil {
			return nil, err
		}
		return r, nil
	})
	if err != nil {
		return nil, fmt.Errorf("get order books: %w", err)
	}
	return resp, nil
}
