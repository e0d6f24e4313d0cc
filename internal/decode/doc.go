// Package decode converts parsed JSON bodies (map[string]any) into the typed
// records of the model package.
//
// Each record has one reader (ReadMarket, ReadToken, ...) listing its fields
// against the source keys in keys.go. Readers recurse into nested records and
// sequences depth first; a container is only built once every nested record
// has been decoded.
//
// Failure policy:
//   - Optional field missing or null: nil pointer, never a failure.
//   - Required scalar missing or null: zero value, or ErrMissingField in strict mode.
//   - Nested record or record sequence missing, null or malformed: always a failure.
//   - Present value of the wrong kind: ErrTypeMismatch.
//
// Decoding is all-or-nothing and has no side effects beyond the optional trace logger.
package decode
