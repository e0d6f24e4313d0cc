package decode

import (
	"log/slog"
)

// Mapping is a decoded JSON object.
type Mapping = map[string]any

// Decoder holds decoding options. The zero value is a lenient decoder
// without tracing. A Decoder is immutable and safe for concurrent use.
type Decoder struct {
	strict bool
	trace  *slog.Logger
}

// Option configures a Decoder.
type Option func(*Decoder)

// New creates a Decoder.
func New(opts ...Option) Decoder {
	var d Decoder
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// WithStrict makes a missing required scalar a decode failure instead of
// its zero value.
func WithStrict(strict bool) Option {
	return func(d *Decoder) {
		d.strict = strict
	}
}

// WithTrace sets the logger that receives raw input traces.
// Nil disables tracing.
func WithTrace(logger *slog.Logger) Option {
	return func(d *Decoder) {
		d.trace = logger
	}
}

// Strict reports whether missing required scalars fail.
func (d Decoder) Strict() bool {
	return d.strict
}

// Trace logs the raw mapping at debug level when a trace logger is set.
func (d Decoder) Trace(msg string, m Mapping) {
	if d.trace == nil {
		return
	}
	d.trace.Debug(msg, "raw", m)
}

// ReadFunc builds a record from the fields of one mapping.
type ReadFunc[T any] func(*Fields) T

// Read decodes m with read. On failure it returns the zero T and the first
// *FieldError encountered.
func Read[T any](d Decoder, m Mapping, read ReadFunc[T]) (T, error) {
	f := d.Fields(m)
	v := read(f)
	if err := f.Err(); err != nil {
		var zero T
		return zero, err
	}
	return v, nil
}

// ReadList decodes a top-level sequence of mappings, preserving order.
func ReadList[T any](d Decoder, seq any, read ReadFunc[T]) ([]T, error) {
	var failure error
	f := &Fields{d: d, err: &failure}
	items, ok := f.sequence("", seq)
	if !ok {
		return nil, failure
	}
	out := readItems(f, "", items, read)
	if failure != nil {
		return nil, failure
	}
	return out, nil
}
