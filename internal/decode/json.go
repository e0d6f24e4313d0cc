package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Parse parses a JSON body into untyped values. Numbers are kept as
// json.Number so integral fields keep full precision.
func Parse(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if dec.More() {
		return nil, errors.New("parse json: trailing data after value")
	}
	return v, nil
}

// ParseMapping parses a JSON body that must be an object.
func ParseMapping(data []byte) (Mapping, error) {
	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m, ok := v.(Mapping)
	if !ok {
		return nil, fmt.Errorf("parse json: want object, got %T", v)
	}
	return m, nil
}
