package filter

import (
	"fmt"

	"github.com/golang-module/carbon/v2"

	"github.com/kailas-cloud/listquery/internal/domain/field"
)

// MaxConditionsPerGroup is the maximum number of filters per group a client
// request may carry. Evaluation itself accepts any number.
const MaxConditionsPerGroup = 32

// Set groups the facet, numeric range and date range filters of one query.
type Set struct {
	facets []Facet
	ranges []Range
	dates  []DateRange
}

// NewSet groups filters into a Set.
func NewSet(facets []Facet, ranges []Range, dates []DateRange) Set {
	return Set{facets: facets, ranges: ranges, dates: dates}
}

// Facets returns the facet filters.
func (s Set) Facets() []Facet { return s.facets }

// Ranges returns the numeric range filters.
func (s Set) Ranges() []Range { return s.ranges }

// DateRanges returns the date range filters.
func (s Set) DateRanges() []DateRange { return s.dates }

// IsEmpty reports whether no filter in the set is active.
func (s Set) IsEmpty() bool {
	for _, f := range s.facets {
		if f.IsActive() {
			return false
		}
	}
	for _, r := range s.ranges {
		if r.IsActive() {
			return false
		}
	}
	for _, d := range s.dates {
		if d.IsActive() {
			return false
		}
	}
	return true
}

// Facet restricts a field to a set of accepted values.
// An empty accepted set means the filter is inactive, not "reject everything".
type Facet struct {
	field    string
	accepted []string
}

// NewFacet creates a facet filter. Empty accepted values are dropped.
func NewFacet(fieldName string, accepted []string) (Facet, error) {
	if fieldName == "" {
		return Facet{}, fmt.Errorf("filter field is required")
	}
	vals := make([]string, 0, len(accepted))
	for _, a := range accepted {
		if a != "" {
			vals = append(vals, a)
		}
	}
	return Facet{field: fieldName, accepted: vals}, nil
}

// Field returns the filtered field name.
func (f Facet) Field() string { return f.field }

// Accepted returns the accepted values.
func (f Facet) Accepted() []string { return f.accepted }

// IsActive reports whether the facet restricts anything.
func (f Facet) IsActive() bool { return len(f.accepted) > 0 }

// Accepts reports whether any of the value texts is in the accepted set.
// Matching is exact; case carries meaning for status-like values.
func (f Facet) Accepts(v field.Value) bool {
	if !f.IsActive() {
		return true
	}
	for _, t := range v.Texts() {
		for _, a := range f.accepted {
			if t == a {
				return true
			}
		}
	}
	return false
}

// Range bounds a numeric field by optional inclusive min and max.
type Range struct {
	field string
	min   *float64
	max   *float64
}

// NewRange creates a numeric range filter. A nil bound is unbounded.
// Inverted bounds (min > max) are kept and match nothing.
func NewRange(fieldName string, lo, hi *float64) (Range, error) {
	if fieldName == "" {
		return Range{}, fmt.Errorf("filter field is required")
	}
	return Range{field: fieldName, min: lo, max: hi}, nil
}

// IsInverted reports whether both bounds are set and min exceeds max.
func (r Range) IsInverted() bool {
	return r.min != nil && r.max != nil && *r.min > *r.max
}

// Field returns the filtered field name.
func (r Range) Field() string { return r.field }

// Min returns the inclusive lower bound.
func (r Range) Min() *float64 { return r.min }

// Max returns the inclusive upper bound.
func (r Range) Max() *float64 { return r.max }

// IsActive reports whether at least one bound is set.
func (r Range) IsActive() bool { return r.min != nil || r.max != nil }

// Contains checks the value against the bounds. Missing or non-numeric values fail an active range.
func (r Range) Contains(v field.Value) bool {
	if !r.IsActive() {
		return true
	}
	if v.Kind() != field.Number {
		return false
	}
	n := v.Num()
	if r.min != nil && n < *r.min {
		return false
	}
	if r.max != nil && n > *r.max {
		return false
	}
	return true
}

// DateRange bounds a date field by optional inclusive from and to days.
// Days are UTC calendar days on both sides: bounds with an offset and record
// timestamps are converted to UTC before the day is taken.
type DateRange struct {
	field string
	from  string
	to    string
}

// NewDateRange parses ISO date bounds and creates a day-granular filter.
// An empty or unparseable bound leaves that side unbounded. Inverted bounds
// (from after to) are kept and match nothing.
func NewDateRange(fieldName, from, to string) (DateRange, error) {
	if fieldName == "" {
		return DateRange{}, fmt.Errorf("filter field is required")
	}
	fromDay, err := ParseDay(from)
	if err != nil {
		fromDay = ""
	}
	toDay, err := ParseDay(to)
	if err != nil {
		toDay = ""
	}
	return DateRange{field: fieldName, from: fromDay, to: toDay}, nil
}

// ParseDay turns an ISO date or timestamp into a YYYY-MM-DD day key in UTC.
// An empty string yields an empty key.
func ParseDay(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	c := carbon.Parse(s, carbon.UTC)
	if c.Error != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, c.Error)
	}
	return c.ToDateString(), nil
}

// Field returns the filtered field name.
func (d DateRange) Field() string { return d.field }

// From returns the inclusive lower day (YYYY-MM-DD), or "".
func (d DateRange) From() string { return d.from }

// To returns the inclusive upper day (YYYY-MM-DD), or "".
func (d DateRange) To() string { return d.to }

// IsActive reports whether at least one bound is set.
func (d DateRange) IsActive() bool { return d.from != "" || d.to != "" }

// IsInverted reports whether both bounds are set and from is after to.
func (d DateRange) IsInverted() bool {
	return d.from != "" && d.to != "" && d.from > d.to
}

// Contains compares the value's day against the bounds, ignoring time of day.
// Missing or non-date values fail an active filter.
func (d DateRange) Contains(v field.Value) bool {
	if !d.IsActive() {
		return true
	}
	day := v.DayKey()
	if day == "" {
		return false
	}
	if d.from != "" && day < d.from {
		return false
	}
	if d.to != "" && day > d.to {
		return false
	}
	return true
}
