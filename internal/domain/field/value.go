package field

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DayLayout is the layout of day keys used for date comparison.
const DayLayout = "2006-01-02"

// Value is what an accessor extracts from a record: one of string, number,
// date or string list, or missing. The zero Value is missing.
type Value struct {
	kind Type
	str  string
	num  float64
	date time.Time
	list []string
}

// Missing returns an absent value.
func Missing() Value { return Value{} }

// StringValue wraps a string. The empty string is missing.
func StringValue(s string) Value {
	if s == "" {
		return Value{}
	}
	return Value{kind: String, str: s}
}

// NumberValue wraps a number. NaN is missing.
func NumberValue(f float64) Value {
	if math.IsNaN(f) {
		return Value{}
	}
	return Value{kind: Number, num: f}
}

// DateValue wraps a timestamp. The zero time is missing.
func DateValue(t time.Time) Value {
	if t.IsZero() {
		return Value{}
	}
	return Value{kind: Date, date: t}
}

// StringsValue wraps a string list. Empty elements are dropped; an empty list is missing.
func StringsValue(ss []string) Value {
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return Value{}
	}
	return Value{kind: Strings, list: out}
}

// Kind returns the value type, or "" when missing.
func (v Value) Kind() Type { return v.kind }

// IsMissing reports whether the value is absent.
func (v Value) IsMissing() bool { return v.kind == "" }

// Str returns the string payload.
func (v Value) Str() string { return v.str }

// Num returns the number payload.
func (v Value) Num() float64 { return v.num }

// Time returns the date payload.
func (v Value) Time() time.Time { return v.date }

// List returns the string list payload.
func (v Value) List() []string { return v.list }

// DayKey returns the UTC calendar day as YYYY-MM-DD, or "" if not a date.
func (v Value) DayKey() string {
	if v.kind != Date {
		return ""
	}
	return v.date.UTC().Format(DayLayout)
}

// Texts renders the value as the strings used by search and facet matching.
func (v Value) Texts() []string {
	switch v.kind {
	case String:
		return []string{v.str}
	case Strings:
		return v.list
	case Number:
		return []string{strconv.FormatFloat(v.num, 'f', -1, 64)}
	case Date:
		return []string{v.DayKey()}
	default:
		return nil
	}
}

// Compare orders two values of the same kind: strings case-insensitively,
// numbers numerically, dates chronologically, lists by their first element.
// Missing values sort after present ones.
func Compare(a, b Value) int {
	switch {
	case a.IsMissing() && b.IsMissing():
		return 0
	case a.IsMissing():
		return 1
	case b.IsMissing():
		return -1
	}
	switch a.kind {
	case Number:
		switch {
		case a.num < b.num:
			return -1
		case a.num > b.num:
			return 1
		}
		return 0
	case Date:
		return a.date.Compare(b.date)
	case Strings:
		return strings.Compare(strings.ToLower(a.list[0]), strings.ToLower(firstText(b)))
	default:
		return strings.Compare(strings.ToLower(a.str), strings.ToLower(firstText(b)))
	}
}

func firstText(v Value) string {
	if t := v.Texts(); len(t) > 0 {
		return t[0]
	}
	return ""
}
