package model

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Order Book Types
// -----------------------------------------------------------------------------

// OrderSummary is one price level of an order book.
// Price and Size keep the exchange's decimal text verbatim.
type OrderSummary struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}

// OrderBookSummary is the order book of a single token.
type OrderBookSummary struct {
	Market    string         `json:"market"`    // Condition id
	AssetID   string         `json:"asset_id"`  // Token id
	Timestamp string         `json:"timestamp"` // Exchange timestamp (ms since epoch, as text)
	Bids      []OrderSummary `json:"bids"`
	Asks      []OrderSummary `json:"asks"`
	Hash      string         `json:"hash"`
}

// JSON returns the level as compact JSON: {"price":"0.50","size":"100"}.
func (o OrderSummary) JSON() (string, error) {
	return compactJSON(o)
}

// JSON returns the book as compact JSON with fields in declaration order.
func (b OrderBookSummary) JSON() (string, error) {
	return compactJSON(b)
}

// ComputeHash returns the exchange's book hash: the SHA-1 hex digest of the
// compact JSON of the book with the hash field blanked.
func (b OrderBookSummary) ComputeHash() (string, error) {
	b.Hash = ""
	s, err := b.JSON()
	if err != nil {
		return "", fmt.Errorf("encode book: %w", err)
	}
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:]), nil
}

// WithHash returns a copy of the book carrying its computed hash.
func (b OrderBookSummary) WithHash() (OrderBookSummary, error) {
	h, err := b.ComputeHash()
	if err != nil {
		return OrderBookSummary{}, err
	}
	b.Hash = h
	return b, nil
}

// VerifyHash reports whether the book's hash matches its contents.
func (b OrderBookSummary) VerifyHash() (bool, error) {
	h, err := b.ComputeHash()
	if err != nil {
		return false, err
	}
	return h == b.Hash, nil
}

func compactJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encode terminates with a newline.
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// -----------------------------------------------------------------------------
// Decimal Views
// -----------------------------------------------------------------------------

// PriceLevel is an OrderSummary parsed into exact decimals.
type PriceLevel struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// Level parses the level's price and size.
func (o OrderSummary) Level() (PriceLevel, error) {
	price, err := decimal.NewFromString(o.Price)
	if err != nil {
		return PriceLevel{}, fmt.Errorf("parse price %q: %w", o.Price, err)
	}
	size, err := decimal.NewFromString(o.Size)
	if err != nil {
		return PriceLevel{}, fmt.Errorf("parse size %q: %w", o.Size, err)
	}
	return PriceLevel{Price: price, Size: size}, nil
}

// Quote is the top of an order book.
type Quote struct {
	BestBid decimal.Decimal
	BestAsk decimal.Decimal
	HasBid  bool
	HasAsk  bool
}

// Quote finds the highest bid and lowest ask. The exchange's level ordering
// is not relied on.
func (b OrderBookSummary) Quote() (Quote, error) {
	var q Quote
	for i, bid := range b.Bids {
		lvl, err := bid.Level()
		if err != nil {
			return Quote{}, fmt.Errorf("bids[%d]: %w", i, err)
		}
		if !q.HasBid || lvl.Price.GreaterThan(q.BestBid) {
			q.BestBid = lvl.Price
			q.HasBid = true
		}
	}
	for i, ask := range b.Asks {
		lvl, err := ask.Level()
		if err != nil {
			return Quote{}, fmt.Errorf("asks[%d]: %w", i, err)
		}
		if !q.HasAsk || lvl.Price.LessThan(q.BestAsk) {
			q.BestAsk = lvl.Price
			q.HasAsk = true
		}
	}
	return q, nil
}

// Spread returns BestAsk - BestBid. ok is false unless both sides are quoted.
func (q Quote) Spread() (spread decimal.Decimal, ok bool) {
	if !q.HasBid || !q.HasAsk {
		return decimal.Zero, false
	}
	return q.BestAsk.Sub(q.BestBid), true
}

// Midpoint returns the average of the best bid and ask.
func (q Quote) Midpoint() (mid decimal.Decimal, ok bool) {
	if !q.HasBid || !q.HasAsk {
		return decimal.Zero, false
	}
	return q.BestBid.Add(q.BestAsk).Div(decimal.NewFromInt(2)), true
}
