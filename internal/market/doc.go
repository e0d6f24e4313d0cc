// Package market discovers the tokens worth recording.
//
// The registry pages through GET /sampling-simplified-markets, keeps the
// markets that are active and not closed, and exposes their token ids as an
// asset list. A background loop reconciles the list and reports markets that
// were added or dropped.
package market
