package listquery

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/listquery/internal/domain/accessor"
	"github.com/kailas-cloud/listquery/internal/domain/field"
)

const tagKey = "listquery"

// Tag kinds.
const (
	kindID      = "id"
	kindString  = "string"
	kindNumber  = "number"
	kindDate    = "date"
	kindStrings = "strings"
)

var (
	timeType    = reflect.TypeFor[time.Time]()
	decimalType = reflect.TypeFor[decimal.Decimal]()
)

// AccessorsFromStruct derives Accessors from `listquery:"name,kind[,search]"`
// struct tags. Kinds are id, string, number, date and strings; exactly one
// field must be tagged id. Numbers accept any int, uint or float kind and
// decimal.Decimal; pointer numbers and dates read nil as missing.
func AccessorsFromStruct[R any]() (*Accessors[R], error) {
	t := reflect.TypeFor[R]()
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("listquery: type %s is not a struct", t)
	}

	idIdx := -1
	var regs []func(*accessor.Builder[R])

	for i := range t.NumField() {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if !f.IsExported() {
			return nil, fmt.Errorf("listquery: tagged field %s is unexported", f.Name)
		}
		parts := strings.Split(tag, ",")
		if len(parts) < 2 || parts[0] == "" {
			return nil, fmt.Errorf("listquery: field %s: tag %q, want name,kind[,search]", f.Name, tag)
		}
		name, kind := parts[0], parts[1]
		var opts []accessor.Option
		for _, mod := range parts[2:] {
			if mod != "search" {
				return nil, fmt.Errorf("listquery: field %s: unknown modifier %q", f.Name, mod)
			}
			opts = append(opts, accessor.Searchable())
		}

		if kind == kindID {
			if idIdx != -1 {
				return nil, fmt.Errorf("listquery: duplicate id tag on field %s", f.Name)
			}
			if f.Type.Kind() != reflect.String {
				return nil, fmt.Errorf("listquery: id field %s must be a string", f.Name)
			}
			idIdx = i
			continue
		}

		get, ft, err := extractor(f, kind)
		if err != nil {
			return nil, err
		}
		idx := i
		regs = append(regs, func(b *accessor.Builder[R]) {
			b.Value(name, ft, func(r R) field.Value {
				return get(reflect.ValueOf(r).Field(idx))
			}, opts...)
		})
	}

	if idIdx == -1 {
		return nil, fmt.Errorf("listquery: no field with `listquery:\"...,id\"` tag in %s", t)
	}
	b := accessor.New(func(r R) string { return reflect.ValueOf(r).Field(idIdx).String() })
	for _, reg := range regs {
		reg(b)
	}
	table, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("listquery: %s: %w", t, err)
	}
	return &Accessors[R]{table: table}, nil
}

// extractor checks the Go type of f against kind and returns its value reader.
func extractor(f reflect.StructField, kind string) (func(reflect.Value) field.Value, field.Type, error) {
	mismatch := func() error {
		return fmt.Errorf("listquery: field %s of type %s cannot be %s", f.Name, f.Type, kind)
	}
	ft := f.Type

	switch kind {
	case kindString:
		if ft.Kind() != reflect.String {
			return nil, "", mismatch()
		}
		return func(v reflect.Value) field.Value { return field.StringValue(v.String()) }, field.String, nil

	case kindStrings:
		if ft.Kind() != reflect.Slice || ft.Elem().Kind() != reflect.String {
			return nil, "", mismatch()
		}
		return func(v reflect.Value) field.Value {
			out := make([]string, v.Len())
			for i := range out {
				out[i] = v.Index(i).String()
			}
			return field.StringsValue(out)
		}, field.Strings, nil

	case kindNumber:
		base := ft
		if ft.Kind() == reflect.Pointer {
			base = ft.Elem()
		}
		if base != decimalType && !isNumeric(base.Kind()) {
			return nil, "", mismatch()
		}
		return func(v reflect.Value) field.Value {
			if v.Kind() == reflect.Pointer {
				if v.IsNil() {
					return field.Missing()
				}
				v = v.Elem()
			}
			return field.NumberValue(toFloat64(v))
		}, field.Number, nil

	case kindDate:
		if ft != timeType && (ft.Kind() != reflect.Pointer || ft.Elem() != timeType) {
			return nil, "", mismatch()
		}
		return func(v reflect.Value) field.Value {
			if v.Kind() == reflect.Pointer {
				if v.IsNil() {
					return field.Missing()
				}
				v = v.Elem()
			}
			return field.DateValue(v.Interface().(time.Time))
		}, field.Date, nil
	}
	return nil, "", fmt.Errorf("listquery: field %s: unknown kind %q", f.Name, kind)
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat64(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	}
	if d, ok := v.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return 0
}
