package decode

import (
	"errors"
	"fmt"
)

// Errors
var (
	ErrMissingField = errors.New("missing field")
	ErrTypeMismatch = errors.New("type mismatch")
)

// FieldError reports which field failed to decode.
type FieldError struct {
	Path string // Dotted path from the decoded root (e.g., "tokens[1].price")
	Want string // Expected kind, set for type mismatches
	Got  string // Go type found in the mapping, set for type mismatches
	Err  error  // ErrMissingField or ErrTypeMismatch
}

func (e *FieldError) Error() string {
	if e.Want != "" {
		return fmt.Sprintf("decode %s: %v: want %s, got %s", e.Path, e.Err, e.Want, e.Got)
	}
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
