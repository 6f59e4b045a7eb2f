package listquery

import (
	"time"

	"github.com/kailas-cloud/listquery/internal/domain/accessor"
	"github.com/kailas-cloud/listquery/internal/domain/field"
)

// FieldType is the value kind an accessor produces.
type FieldType = field.Type

// Field types.
const (
	FieldString  FieldType = field.String
	FieldNumber  FieldType = field.Number
	FieldDate    FieldType = field.Date
	FieldStrings FieldType = field.Strings
)

// FieldInfo describes one registered field.
type FieldInfo struct {
	Name       string
	Type       FieldType
	Searchable bool
}

// FieldOption tunes a single field registration.
type FieldOption = accessor.Option

// Searchable marks a text field as part of free-text search.
func Searchable() FieldOption { return accessor.Searchable() }

// Accessors maps logical field names to extractors over records of type R.
// It is immutable and safe for concurrent use.
type Accessors[R any] struct {
	table *accessor.Table[R]
}

// Fields returns the registered fields in registration order.
func (a *Accessors[R]) Fields() []FieldInfo {
	defs := a.table.Fields()
	out := make([]FieldInfo, len(defs))
	for i, d := range defs {
		out[i] = FieldInfo{Name: d.Name(), Type: d.FieldType(), Searchable: d.Searchable()}
	}
	return out
}

// ID returns the identifier of r.
func (a *Accessors[R]) ID(r R) string { return a.table.ID(r) }

// AccessorsBuilder registers fields and builds Accessors.
type AccessorsBuilder[R any] struct {
	b *accessor.Builder[R]
}

// NewAccessors starts an accessor table for records identified by id.
func NewAccessors[R any](id func(R) string) *AccessorsBuilder[R] {
	return &AccessorsBuilder[R]{b: accessor.New(id)}
}

// String registers a single text field.
func (b *AccessorsBuilder[R]) String(name string, fn func(R) string, opts ...FieldOption) *AccessorsBuilder[R] {
	b.b.String(name, fn, opts...)
	return b
}

// Number registers a numeric field.
func (b *AccessorsBuilder[R]) Number(name string, fn func(R) float64, opts ...FieldOption) *AccessorsBuilder[R] {
	b.b.Number(name, fn, opts...)
	return b
}

// OptionalNumber registers a numeric field whose extractor reports presence.
// Absent values fail an active range filter.
func (b *AccessorsBuilder[R]) OptionalNumber(name string, fn func(R) (float64, bool), opts ...FieldOption) *AccessorsBuilder[R] {
	b.b.OptionalNumber(name, fn, opts...)
	return b
}

// Date registers a date field. The zero time counts as missing.
func (b *AccessorsBuilder[R]) Date(name string, fn func(R) time.Time, opts ...FieldOption) *AccessorsBuilder[R] {
	b.b.Date(name, fn, opts...)
	return b
}

// Strings registers a multi-valued text field such as a tag list.
func (b *AccessorsBuilder[R]) Strings(name string, fn func(R) []string, opts ...FieldOption) *AccessorsBuilder[R] {
	b.b.Strings(name, fn, opts...)
	return b
}

// Build validates every registration and returns the accessor table.
func (b *AccessorsBuilder[R]) Build() (*Accessors[R], error) {
	t, err := b.b.Build()
	if err != nil {
		return nil, err
	}
	return &Accessors[R]{table: t}, nil
}
