// Package poller implements the REST book poller.
//
// The poller:
//   - Fetches GET /book for every recorded token on a fixed interval
//   - Bounds concurrent requests with an errgroup limit
//   - Hands each decoded book to a BookHandler with source="rest"
//
// It backs up the market channel stream, which only reports books when
// they change.
package poller
