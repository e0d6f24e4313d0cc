// Package model defines the typed records returned by the Polymarket CLOB API.
//
// Records are built once by the decode package and never mutated afterwards.
//
// Conventions:
//   - Prices on order book levels stay as the exact decimal text sent by the exchange.
//   - Prices and fees elsewhere are float64, as the exchange sends JSON numbers.
//   - Optional fields are pointers; nil means the key was absent or null.
//   - JSON tags carry the exchange's source keys.
package model
