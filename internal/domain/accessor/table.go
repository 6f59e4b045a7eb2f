// Package accessor maps logical field names to typed value extractors over
// an opaque record type, so the list-query pipeline never needs to know a
// record's shape.
package accessor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kailas-cloud/listquery/internal/domain/field"
)

// MaxFields is the maximum number of fields a table can hold.
const MaxFields = 64

// Func extracts one field value from a record.
type Func[R any] func(R) field.Value

type entry[R any] struct {
	def field.Field
	get Func[R]
}

// Table is an immutable field accessor table for records of type R.
type Table[R any] struct {
	id      func(R) string
	entries map[string]entry[R]
	order   []string
}

// ID returns the record identifier used for selection tracking.
func (t *Table[R]) ID(r R) string { return t.id(r) }

// Lookup returns the field definition and extractor for name.
func (t *Table[R]) Lookup(name string) (field.Field, Func[R], bool) {
	e, ok := t.entries[name]
	if !ok {
		return field.Field{}, nil, false
	}
	return e.def, e.get, true
}

// Has reports whether the table has an accessor for name.
func (t *Table[R]) Has(name string) bool {
	_, ok := t.entries[name]
	return ok
}

// Fields returns the field definitions in registration order.
func (t *Table[R]) Fields() []field.Field {
	out := make([]field.Field, len(t.order))
	for i, name := range t.order {
		out[i] = t.entries[name].def
	}
	return out
}

// Searchable returns the names of searchable fields in registration order.
func (t *Table[R]) Searchable() []string {
	var out []string
	for _, name := range t.order {
		if t.entries[name].def.Searchable() {
			out = append(out, name)
		}
	}
	return out
}

// Snapshot renders every field of r as text, keyed by field name.
// Missing values are omitted.
func (t *Table[R]) Snapshot(r R) map[string]string {
	out := make(map[string]string, len(t.order))
	for _, name := range t.order {
		texts := t.entries[name].get(r).Texts()
		if len(texts) == 0 {
			continue
		}
		out[name] = strings.Join(texts, ",")
	}
	return out
}

// Option tunes a single field registration.
type Option func(*fieldOptions)

type fieldOptions struct {
	searchable bool
}

// Searchable marks a text field as part of free-text search.
func Searchable() Option {
	return func(o *fieldOptions) { o.searchable = true }
}

// Builder assembles a Table. Registration errors are collected and reported by Build.
type Builder[R any] struct {
	id      func(R) string
	entries map[string]entry[R]
	order   []string
	errs    []error
}

// New starts a table for records identified by id.
func New[R any](id func(R) string) *Builder[R] {
	return &Builder[R]{id: id, entries: make(map[string]entry[R])}
}

// Value registers a raw extractor of the given type.
func (b *Builder[R]) Value(name string, ft field.Type, fn Func[R], opts ...Option) *Builder[R] {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}
	def, err := field.New(name, ft, o.searchable)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	if fn == nil {
		b.errs = append(b.errs, fmt.Errorf("field %q: accessor is nil", name))
		return b
	}
	if _, dup := b.entries[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("duplicate field name: %s", name))
		return b
	}
	b.entries[name] = entry[R]{def: def, get: fn}
	b.order = append(b.order, name)
	return b
}

// String registers a single text field.
func (b *Builder[R]) String(name string, fn func(R) string, opts ...Option) *Builder[R] {
	var get Func[R]
	if fn != nil {
		get = func(r R) field.Value { return field.StringValue(fn(r)) }
	}
	return b.Value(name, field.String, get, opts...)
}

// Number registers a numeric field that is always present.
func (b *Builder[R]) Number(name string, fn func(R) float64, opts ...Option) *Builder[R] {
	var get Func[R]
	if fn != nil {
		get = func(r R) field.Value { return field.NumberValue(fn(r)) }
	}
	return b.Value(name, field.Number, get, opts...)
}

// OptionalNumber registers a numeric field whose extractor reports presence.
func (b *Builder[R]) OptionalNumber(name string, fn func(R) (float64, bool), opts ...Option) *Builder[R] {
	var get Func[R]
	if fn != nil {
		get = func(r R) field.Value {
			v, ok := fn(r)
			if !ok {
				return field.Missing()
			}
			return field.NumberValue(v)
		}
	}
	return b.Value(name, field.Number, get, opts...)
}

// Date registers a date field. The zero time reads as missing.
func (b *Builder[R]) Date(name string, fn func(R) time.Time, opts ...Option) *Builder[R] {
	var get Func[R]
	if fn != nil {
		get = func(r R) field.Value { return field.DateValue(fn(r)) }
	}
	return b.Value(name, field.Date, get, opts...)
}

// Strings registers a multi-valued text field.
func (b *Builder[R]) Strings(name string, fn func(R) []string, opts ...Option) *Builder[R] {
	var get Func[R]
	if fn != nil {
		get = func(r R) field.Value { return field.StringsValue(fn(r)) }
	}
	return b.Value(name, field.Strings, get, opts...)
}

// Build validates the registrations and returns the immutable table.
func (b *Builder[R]) Build() (*Table[R], error) {
	errs := b.errs
	if b.id == nil {
		errs = append(errs, errors.New("record id accessor is required"))
	}
	if len(b.order) > MaxFields {
		errs = append(errs, fmt.Errorf("too many fields (max %d)", MaxFields))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("build accessor table: %w", err)
	}
	entries := make(map[string]entry[R], len(b.entries))
	for k, v := range b.entries {
		entries[k] = v
	}
	return &Table[R]{
		id:      b.id,
		entries: entries,
		order:   append([]string(nil), b.order...),
	}, nil
}

// MustBuild is Build for package-level tables; it panics on a registration error.
func (b *Builder[R]) MustBuild() *Table[R] {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}
