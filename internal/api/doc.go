// Package api provides the Polymarket CLOB REST client and the typed
// response wrappers built from its bodies.
//
// REST endpoint:
//   - Production: https://clob.polymarket.com
//
// Every call returns a Response: one of the success variants, or an
// ErrorResponse when the exchange rejected the request with a message.
// Transport failures and malformed bodies are returned as Go errors.
package api
