package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rickgao/polymarket-clob/internal/api"
	"github.com/rickgao/polymarket-clob/internal/decode"
	"github.com/rickgao/polymarket-clob/internal/model"
)

// Response kinds accepted by -kind.
const (
	kindMarket                    = "market"
	kindMarkets                   = "markets"
	kindAllMarkets                = "all-markets"
	kindSamplingMarkets           = "sampling-markets"
	kindSimplifiedMarkets         = "simplified-markets"
	kindSamplingSimplifiedMarkets = "sampling-simplified-markets"
	kindRewardsMarkets            = "rewards-markets"
	kindBook                      = "book"
	kindBooks                     = "books"
	kindPricesHistory             = "prices-history"
)

func kindList() string {
	kinds := []string{
		kindMarket, kindMarkets, kindAllMarkets, kindSamplingMarkets,
		kindSimplifiedMarkets, kindSamplingSimplifiedMarkets, kindRewardsMarkets,
		kindBook, kindBooks, kindPricesHistory,
	}
	sort.Strings(kinds)
	return strings.Join(kinds, ", ")
}

// fetch calls the endpoint for opts.kind. all-markets follows every page
// and returns the collected markets.
func fetch(ctx context.Context, c *api.Client, opts options) (any, error) {
	switch opts.kind {
	case kindMarket:
		if opts.id == "" {
			return nil, fmt.Errorf("%s: -id is required", opts.kind)
		}
		return c.GetMarket(ctx, opts.id)
	case kindMarkets:
		return c.GetMarkets(ctx, opts.cursor)
	case kindAllMarkets:
		return c.GetAllMarkets(ctx)
	case kindSamplingMarkets:
		return c.GetSamplingMarkets(ctx, opts.cursor)
	case kindSimplifiedMarkets:
		return c.GetSimplifiedMarkets(ctx, opts.cursor)
	case kindSamplingSimplifiedMarkets:
		return c.GetSamplingSimplifiedMarkets(ctx, opts.cursor)
	case kindRewardsMarkets:
		return c.GetRewardsMarkets(ctx, opts.cursor)
	case kindBook:
		if opts.id == "" {
			return nil, fmt.Errorf("%s: -id is required", opts.kind)
		}
		return c.GetOrderBook(ctx, opts.id)
	case kindBooks:
		return c.GetOrderBooks(ctx, bookParams(opts.id))
	case kindPricesHistory:
		return c.GetPricesHistory(ctx, api.PricesHistoryParams{
			Market:   opts.id,
			Interval: model.Interval(opts.interval),
			Fidelity: opts.fidelity,
			StartTS:  opts.start,
			EndTS:    opts.end,
		})
	}
	return nil, fmt.Errorf("%w %q (want one of %s)", errUnknownKind, opts.kind, kindList())
}

func bookParams(ids string) []model.BookParams {
	var params []model.BookParams
	for _, id := range strings.Split(ids, ",") {
		if id = strings.TrimSpace(id); id != "" {
			params = append(params, model.BookParams{TokenID: id})
		}
	}
	return params
}

// decodeBody decodes a saved response body as opts.kind.
func decodeBody(d decode.Decoder, kind string, data []byte) (api.Response, error) {
	v, err := decode.Parse(data)
	if err != nil {
		return nil, err
	}

	if kind == kindBooks {
		return api.DecodeOrderBooksResponse(d, v)
	}

	m, ok := v.(decode.Mapping)
	if !ok {
		return nil, &decode.FieldError{
			Path: "(root)",
			Want: "mapping",
			Got:  fmt.Sprintf("%T", v),
			Err:  decode.ErrTypeMismatch,
		}
	}

	switch kind {
	case kindMarket:
		return api.DecodeMarketResponse(d, m)
	case kindMarkets, kindSamplingMarkets:
		return api.DecodeMarketsResponse(d, m)
	case kindSimplifiedMarkets, kindSamplingSimplifiedMarkets:
		return api.DecodeSimplifiedMarketsResponse(d, m)
	case kindRewardsMarkets:
		return api.DecodeRewardsMarketsResponse(d, m)
	case kindBook:
		return api.DecodeOrderBookResponse(d, m)
	case kindPricesHistory:
		return api.DecodePricesHistoryResponse(d, m)
	}
	return nil, fmt.Errorf("%w %q for -file", errUnknownKind, kind)
}
