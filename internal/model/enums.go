package model

// Side is the side of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Pagination cursors accepted by the paginated market endpoints.
const (
	CursorBeginning = ""
	CursorEnd       = "LTE=" // Returned as next_cursor on the last page
)

// Interval is a price-history window.
type Interval string

const (
	IntervalMax      Interval = "max"
	IntervalOneMonth Interval = "1m"
	IntervalOneWeek  Interval = "1w"
	IntervalOneDay   Interval = "1d"
	IntervalSixHours Interval = "6h"
	IntervalOneHour  Interval = "1h"
)

// Valid reports whether i is one of the exchange's intervals.
func (i Interval) Valid() bool {
	switch i {
	case IntervalMax, IntervalOneMonth, IntervalOneWeek, IntervalOneDay, IntervalSixHours, IntervalOneHour:
		return true
	}
	return false
}

// TickSize is a market's minimum price increment, as text.
type TickSize string

const (
	TickSizeTenth         TickSize = "0.1"
	TickSizeHundredth     TickSize = "0.01"
	TickSizeThousandth    TickSize = "0.001"
	TickSizeTenThousandth TickSize = "0.0001"
)

// BookParams selects one book in a POST /books request.
type BookParams struct {
	TokenID string `json:"token_id"`
	Side    Side   `json:"side,omitempty"`
}
