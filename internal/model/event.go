package model

import "time"

// Book sources.
const (
	SourceWS   = "ws"
	SourceREST = "rest"
)

// BookEvent is one order book observed by the recorder.
type BookEvent struct {
	Book       OrderBookSummary
	Source     string    // SourceWS or SourceREST
	ReceivedAt time.Time // Local receive time
}
