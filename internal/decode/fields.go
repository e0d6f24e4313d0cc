package decode

import (
	"fmt"
)

// Fields reads the keys of one mapping. Every Fields created while decoding
// one root shares a single error slot: the first failure sticks and all
// later reads return zero values.
type Fields struct {
	d    Decoder
	m    Mapping
	path string
	err  *error
}

// Fields returns a reader over m.
func (d Decoder) Fields(m Mapping) *Fields {
	var failure error
	return &Fields{d: d, m: m, err: &failure}
}

// Err returns the first failure, or nil.
func (f *Fields) Err() error {
	return *f.err
}

func (f *Fields) failed() bool {
	return *f.err != nil
}

func (f *Fields) fail(path, want string, got any, err error) {
	if *f.err != nil {
		return
	}
	if path == "" {
		path = "(root)"
	}
	fe := &FieldError{Path: path, Err: err}
	if want != "" {
		fe.Want = want
		fe.Got = fmt.Sprintf("%T", got)
	}
	*f.err = fe
}

// at returns the path of key below this mapping.
func (f *Fields) at(key string) string {
	if f.path == "" {
		return key
	}
	return f.path + "." + key
}

// lookup returns the value under key. Absent keys and JSON null are
// treated alike.
func (f *Fields) lookup(key string) (any, bool) {
	if f.failed() {
		return nil, false
	}
	v, ok := f.m[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func required[T any](f *Fields, key, want string, conv func(any) (T, bool)) T {
	var zero T
	v, ok := f.lookup(key)
	if !ok {
		if f.d.strict && !f.failed() {
			f.fail(f.at(key), "", nil, ErrMissingField)
		}
		return zero
	}
	out, ok := conv(v)
	if !ok {
		f.fail(f.at(key), want, v, ErrTypeMismatch)
		return zero
	}
	return out
}

func optional[T any](f *Fields, key, want string, conv func(any) (T, bool)) *T {
	v, ok := f.lookup(key)
	if !ok {
		return nil
	}
	out, ok := conv(v)
	if !ok {
		f.fail(f.at(key), want, v, ErrTypeMismatch)
		return nil
	}
	return &out
}

// String reads a required string.
func (f *Fields) String(key string) string { return required(f, key, "string", asString) }

// Float reads a required number.
func (f *Fields) Float(key string) float64 { return required(f, key, "number", asFloat) }

// Int reads a required integral number.
func (f *Fields) Int(key string) int64 { return required(f, key, "integer", asInt) }

// Bool reads a required boolean.
func (f *Fields) Bool(key string) bool { return required(f, key, "boolean", asBool) }

// OptString reads an optional string.
func (f *Fields) OptString(key string) *string { return optional(f, key, "string", asString) }

// OptFloat reads an optional number.
func (f *Fields) OptFloat(key string) *float64 { return optional(f, key, "number", asFloat) }

// OptInt reads an optional integral number.
func (f *Fields) OptInt(key string) *int64 { return optional(f, key, "integer", asInt) }

// OptBool reads an optional boolean.
func (f *Fields) OptBool(key string) *bool { return optional(f, key, "boolean", asBool) }

// Strings reads a sequence of strings verbatim. Absent or null yields nil.
func (f *Fields) Strings(key string) []string {
	v, ok := f.lookup(key)
	if !ok {
		return nil
	}
	path := f.at(key)
	if s, ok := v.([]string); ok {
		return append([]string(nil), s...)
	}
	items, ok := f.sequence(path, v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			f.fail(fmt.Sprintf("%s[%d]", path, i), "string", item, ErrTypeMismatch)
			return nil
		}
		out = append(out, s)
	}
	return out
}

// Record decodes the nested mapping under key with read. A missing, null or
// non-mapping value fails.
func Record[T any](f *Fields, key string, read ReadFunc[T]) T {
	var zero T
	if f.failed() {
		return zero
	}
	path := f.at(key)
	v, ok := f.m[key]
	if !ok || v == nil {
		f.fail(path, "", nil, ErrMissingField)
		return zero
	}
	m, ok := v.(Mapping)
	if !ok {
		f.fail(path, "mapping", v, ErrTypeMismatch)
		return zero
	}
	return read(&Fields{d: f.d, m: m, path: path, err: f.err})
}

// Records decodes every mapping of the sequence under key with read,
// preserving order. A missing, null or non-sequence value fails; an empty
// sequence yields an empty, non-nil slice.
func Records[T any](f *Fields, key string, read ReadFunc[T]) []T {
	if f.failed() {
		return nil
	}
	path := f.at(key)
	v, ok := f.m[key]
	if !ok {
		f.fail(path, "", nil, ErrMissingField)
		return nil
	}
	items, ok := f.sequence(path, v)
	if !ok {
		return nil
	}
	return readItems(f, path, items, read)
}

// sequence normalizes v to []any.
func (f *Fields) sequence(path string, v any) ([]any, bool) {
	switch s := v.(type) {
	case nil:
		f.fail(path, "", nil, ErrMissingField)
		return nil, false
	case []any:
		return s, true
	case []Mapping:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	}
	f.fail(path, "sequence", v, ErrTypeMismatch)
	return nil, false
}

func readItems[T any](f *Fields, path string, items []any, read ReadFunc[T]) []T {
	out := make([]T, 0, len(items))
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		m, ok := item.(Mapping)
		if !ok {
			f.fail(itemPath, "mapping", item, ErrTypeMismatch)
			return nil
		}
		out = append(out, read(&Fields{d: f.d, m: m, path: itemPath, err: f.err}))
		if f.failed() {
			return nil
		}
	}
	return out
}
