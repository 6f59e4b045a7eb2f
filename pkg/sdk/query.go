package listquery

import (
	"fmt"
	"maps"
	"slices"

	"github.com/kailas-cloud/listquery/internal/domain"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/filter"
	"github.com/kailas-cloud/listquery/internal/domain/query/page"
	"github.com/kailas-cloud/listquery/internal/domain/query/sort"
)

// Direction is the sort order.
type Direction = sort.Direction

// Sort directions.
const (
	Asc  Direction = sort.Asc
	Desc Direction = sort.Desc
)

// DefaultPageSize applies when a query leaves Page.Size at zero.
const DefaultPageSize = page.DefaultSize

// Bounds is an inclusive numeric range. A nil side is unbounded; Min above
// Max matches nothing.
type Bounds struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// DateBounds is an inclusive range of UTC days given as ISO dates or
// timestamps. An empty or unparseable side is unbounded; From after To
// matches nothing.
type DateBounds struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// Sort names the sort key and direction. An empty key keeps filter order;
// an unrecognized direction sorts ascending.
type Sort struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// Page is a 1-based page request. Out-of-range indexes are clamped and a
// zero size falls back to DefaultPageSize. Any positive size is honoured.
type Page struct {
	Index int `json:"index"`
	Size  int `json:"size"`
}

// Query is the list query descriptor. SearchFields narrows search to those
// fields; empty means every searchable field.
type Query struct {
	SearchTerm       string                `json:"searchTerm,omitempty"`
	SearchFields     []string              `json:"searchFields,omitempty"`
	FacetFilters     map[string][]string   `json:"facetFilters,omitempty"`
	RangeFilters     map[string]Bounds     `json:"rangeFilters,omitempty"`
	DateRangeFilters map[string]DateBounds `json:"dateRangeFilters,omitempty"`
	Sort             Sort                  `json:"sort"`
	Page             Page                  `json:"page"`
}

func (q Query) descriptor() (descriptor.Descriptor, error) {
	d, err := q.build()
	if err != nil {
		return descriptor.Descriptor{}, fmt.Errorf("%w: %w", domain.ErrInvalidQuery, err)
	}
	return d, nil
}

func (q Query) build() (descriptor.Descriptor, error) {
	facets := make([]filter.Facet, 0, len(q.FacetFilters))
	for _, name := range slices.Sorted(maps.Keys(q.FacetFilters)) {
		f, err := filter.NewFacet(name, q.FacetFilters[name])
		if err != nil {
			return descriptor.Descriptor{}, err
		}
		facets = append(facets, f)
	}

	ranges := make([]filter.Range, 0, len(q.RangeFilters))
	for _, name := range slices.Sorted(maps.Keys(q.RangeFilters)) {
		b := q.RangeFilters[name]
		r, err := filter.NewRange(name, b.Min, b.Max)
		if err != nil {
			return descriptor.Descriptor{}, err
		}
		ranges = append(ranges, r)
	}

	dates := make([]filter.DateRange, 0, len(q.DateRangeFilters))
	for _, name := range slices.Sorted(maps.Keys(q.DateRangeFilters)) {
		b := q.DateRangeFilters[name]
		d, err := filter.NewDateRange(name, b.From, b.To)
		if err != nil {
			return descriptor.Descriptor{}, err
		}
		dates = append(dates, d)
	}

	index := max(q.Page.Index, 1)

	var opts []descriptor.Option
	if len(q.SearchFields) > 0 {
		opts = append(opts, descriptor.WithSearchFields(q.SearchFields...))
	}
	set := filter.NewSet(facets, ranges, dates)
	order := sort.New(q.Sort.Key, q.Sort.Direction)
	return descriptor.New(q.SearchTerm, set, order, page.New(index, q.Page.Size), opts...), nil
}
