package api

import (
	"errors"
	"fmt"

	"github.com/rickgao/polymarket-clob/internal/decode"
	"github.com/rickgao/polymarket-clob/internal/model"
)

// Status is the outcome carried by every Response.
type Status int

const (
	StatusSuccess Status = iota
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusError:
		return "ERROR"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// ErrRejected is wrapped by ErrorResponse.Err.
var ErrRejected = errors.New("request rejected")

// Response is the result of one API call. The variants are the types in this
// file; no other package can add one.
type Response interface {
	Status() Status
	response()
}

// ErrorResponse carries the exchange's message for a rejected request.
type ErrorResponse struct {
	Message string
}

// MarketResponse carries one market.
type MarketResponse struct {
	Market model.Market
}

// Page is one page of a cursor-paginated listing. The pagination fields are
// passed through as the exchange sent them.
type Page[T any] struct {
	Data       []T
	NextCursor string
	Limit      int64
	Count      int64
}

// Last reports whether no further page follows.
func (p Page[T]) Last() bool {
	return p.NextCursor == "" || p.NextCursor == model.CursorEnd
}

// MarketsResponse carries a page of markets.
type MarketsResponse struct {
	Page[model.Market]
}

// SimplifiedMarketsResponse carries a page of simplified markets.
type SimplifiedMarketsResponse struct {
	Page[model.SimplifiedMarket]
}

// RewardsMarketsResponse carries a page of markets with active rewards.
type RewardsMarketsResponse struct {
	Page[model.RewardsMarket]
}

// PricesHistoryResponse carries a price history in source order.
type PricesHistoryResponse struct {
	History []model.TimeSeriesPoint
}

// OrderBookResponse carries one book.
type OrderBookResponse struct {
	OrderBook model.OrderBookSummary
}

// OrderBooksResponse carries several books, in request order.
type OrderBooksResponse struct {
	OrderBooks []model.OrderBookSummary
}

func (ErrorResponse) Status() Status             { return StatusError }
func (MarketResponse) Status() Status            { return StatusSuccess }
func (MarketsResponse) Status() Status           { return StatusSuccess }
func (SimplifiedMarketsResponse) Status() Status { return StatusSuccess }
func (RewardsMarketsResponse) Status() Status    { return StatusSuccess }
func (PricesHistoryResponse) Status() Status     { return StatusSuccess }
func (OrderBookResponse) Status() Status         { return StatusSuccess }
func (OrderBooksResponse) Status() Status        { return StatusSuccess }

func (ErrorResponse) response()             {}
func (MarketResponse) response()            {}
func (MarketsResponse) response()           {}
func (SimplifiedMarketsResponse) response() {}
func (RewardsMarketsResponse) response()    {}
func (PricesHistoryResponse) response()     {}
func (OrderBookResponse) response()         {}
func (OrderBooksResponse) response()        {}

// Err returns the rejection as an error wrapping ErrRejected.
func (e ErrorResponse) Err() error {
	return fmt.Errorf("%w: %s", ErrRejected, e.Message)
}

// Response body keys.
const (
	keyData       = "data"
	keyNextCursor = "next_cursor"
	keyLimit      = "limit"
	keyCount      = "count"
	keyHistory    = "history"
)

func readPage[T any](read decode.ReadFunc[T]) decode.ReadFunc[Page[T]] {
	return func(f *decode.Fields) Page[T] {
		return Page[T]{
			Data:       decode.Records(f, keyData, read),
			NextCursor: f.String(keyNextCursor),
			Limit:      f.Int(keyLimit),
			Count:      f.Int(keyCount),
		}
	}
}

// DecodeMarketResponse decodes a GET /markets/{condition_id} body. The raw
// body is traced when the decoder has a trace logger.
func DecodeMarketResponse(d decode.Decoder, m decode.Mapping) (MarketResponse, error) {
	d.Trace("market response", m)
	market, err := d.Market(m)
	if err != nil {
		return MarketResponse{}, err
	}
	return MarketResponse{Market: market}, nil
}

// DecodeMarketsResponse decodes a page of markets.
func DecodeMarketsResponse(d decode.Decoder, m decode.Mapping) (MarketsResponse, error) {
	page, err := decode.Read(d, m, readPage(decode.ReadMarket))
	if err != nil {
		return MarketsResponse{}, err
	}
	return MarketsResponse{Page: page}, nil
}

// DecodeSimplifiedMarketsResponse decodes a page of simplified markets.
func DecodeSimplifiedMarketsResponse(d decode.Decoder, m decode.Mapping) (SimplifiedMarketsResponse, error) {
	page, err := decode.Read(d, m, readPage(decode.ReadSimplifiedMarket))
	if err != nil {
		return SimplifiedMarketsResponse{}, err
	}
	return SimplifiedMarketsResponse{Page: page}, nil
}

// DecodeRewardsMarketsResponse decodes a page of rewards markets.
func DecodeRewardsMarketsResponse(d decode.Decoder, m decode.Mapping) (RewardsMarketsResponse, error) {
	page, err := decode.Read(d, m, readPage(decode.ReadRewardsMarket))
	if err != nil {
		return RewardsMarketsResponse{}, err
	}
	return RewardsMarketsResponse{Page: page}, nil
}

// DecodePricesHistoryResponse decodes a GET /prices-history body.
func DecodePricesHistoryResponse(d decode.Decoder, m decode.Mapping) (PricesHistoryResponse, error) {
	history, err := decode.Read(d, m, func(f *decode.Fields) []model.TimeSeriesPoint {
		return decode.Records(f, keyHistory, decode.ReadTimeSeriesPoint)
	})
	if err != nil {
		return PricesHistoryResponse{}, err
	}
	return PricesHistoryResponse{History: history}, nil
}

// DecodeOrderBookResponse decodes a GET /book body.
func DecodeOrderBookResponse(d decode.Decoder, m decode.Mapping) (OrderBookResponse, error) {
	book, err := d.OrderBookSummary(m)
	if err != nil {
		return OrderBookResponse{}, err
	}
	return OrderBookResponse{OrderBook: book}, nil
}

// DecodeOrderBooksResponse decodes a POST /books body, a top-level sequence
// of books.
func DecodeOrderBooksResponse(d decode.Decoder, seq any) (OrderBooksResponse, error) {
	books, err := d.OrderBookList(seq)
	if err != nil {
		return OrderBooksResponse{}, err
	}
	return OrderBooksResponse{OrderBooks: books}, nil
}
