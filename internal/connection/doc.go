// Package connection implements the market channel stream.
//
// The stream:
//   - Dials the CLOB market WebSocket and subscribes to a set of token ids
//   - Decodes "book" events into order book summaries
//   - Counts and skips the other event types
//   - Reconnects with exponential backoff and re-subscribes
package connection
