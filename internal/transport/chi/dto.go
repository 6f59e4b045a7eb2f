package chi

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/listquery/internal/domain/activity"
	"github.com/kailas-cloud/listquery/internal/domain/dataset"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/filter"
	"github.com/kailas-cloud/listquery/internal/domain/query/page"
	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	"github.com/kailas-cloud/listquery/internal/domain/query/sort"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
	"github.com/kailas-cloud/listquery/internal/usecase/timeline"
)

// PageLimits bounds the page size a client may request.
type PageLimits struct {
	Default int
	Max     int
}

// Bounds is an optional inclusive numeric range.
type Bounds struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// DateBounds is an optional inclusive ISO date range.
type DateBounds struct {
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`
}

// SortSpec names the sort key and direction.
type SortSpec struct {
	Key       string `json:"key"`
	Direction string `json:"direction,omitempty" validate:"omitempty,oneof=asc desc"`
}

// PageSpec is a 1-based page request.
type PageSpec struct {
	Index int `json:"index" validate:"gte=0"`
	Size  int `json:"size" validate:"gte=0"`
}

// QueryRequest is the JSON body of a list query.
type QueryRequest struct {
	SearchTerm       string                `json:"searchTerm"`
	SearchFields     []string              `json:"searchFields,omitempty" validate:"omitempty,dive,required"`
	FacetFilters     map[string][]string   `json:"facetFilters,omitempty"`
	RangeFilters     map[string]Bounds     `json:"rangeFilters,omitempty"`
	DateRangeFilters map[string]DateBounds `json:"dateRangeFilters,omitempty"`
	Sort             SortSpec              `json:"sort"`
	Page             PageSpec              `json:"page"`
	Selection        []string              `json:"selection,omitempty"`
	SelectAll        string                `json:"selectAll,omitempty" validate:"omitempty,oneof=page matched"`
}

// Validate rejects requests the engine would accept but that are almost
// certainly client bugs, such as inverted bounds. Map-keyed filters are
// checked in key order so errors are deterministic.
func (q QueryRequest) Validate() error {
	if n := len([]rune(strings.TrimSpace(q.SearchTerm))); n > descriptor.MaxSearchTermLength {
		return fmt.Errorf("search term too long (max %d chars)", descriptor.MaxSearchTermLength)
	}
	if d := sort.Direction(q.Sort.Direction); d != "" && !d.IsValid() {
		return fmt.Errorf("sort: invalid direction %q", q.Sort.Direction)
	}
	switch {
	case len(q.FacetFilters) > filter.MaxConditionsPerGroup:
		return fmt.Errorf("too many facet filters (max %d)", filter.MaxConditionsPerGroup)
	case len(q.RangeFilters) > filter.MaxConditionsPerGroup:
		return fmt.Errorf("too many range filters (max %d)", filter.MaxConditionsPerGroup)
	case len(q.DateRangeFilters) > filter.MaxConditionsPerGroup:
		return fmt.Errorf("too many date range filters (max %d)", filter.MaxConditionsPerGroup)
	}
	for _, name := range slices.Sorted(maps.Keys(q.RangeFilters)) {
		b := q.RangeFilters[name]
		if b.Min != nil && b.Max != nil && *b.Min > *b.Max {
			return fmt.Errorf("range filter %q: min %v is greater than max %v", name, *b.Min, *b.Max)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(q.DateRangeFilters)) {
		b := q.DateRangeFilters[name]
		from, err := filter.ParseDay(b.From)
		if err != nil {
			return fmt.Errorf("date filter %q: from: %w", name, err)
		}
		to, err := filter.ParseDay(b.To)
		if err != nil {
			return fmt.Errorf("date filter %q: to: %w", name, err)
		}
		if from != "" && to != "" && from > to {
			return fmt.Errorf("date filter %q: from %s is after to %s", name, from, to)
		}
	}
	return nil
}

// Descriptor validates the request and converts it into a query descriptor.
// A zero limits.Max falls back to page.MaxSize.
func (q QueryRequest) Descriptor(limits PageLimits) (descriptor.Descriptor, error) {
	if err := q.Validate(); err != nil {
		return descriptor.Descriptor{}, err
	}
	facets := make([]filter.Facet, 0, len(q.FacetFilters))
	for _, name := range slices.Sorted(maps.Keys(q.FacetFilters)) {
		f, err := filter.NewFacet(name, q.FacetFilters[name])
		if err != nil {
			return descriptor.Descriptor{}, fmt.Errorf("facet filter: %w", err)
		}
		facets = append(facets, f)
	}

	ranges := make([]filter.Range, 0, len(q.RangeFilters))
	for _, name := range slices.Sorted(maps.Keys(q.RangeFilters)) {
		b := q.RangeFilters[name]
		r, err := filter.NewRange(name, b.Min, b.Max)
		if err != nil {
			return descriptor.Descriptor{}, fmt.Errorf("range filter: %w", err)
		}
		ranges = append(ranges, r)
	}

	dates := make([]filter.DateRange, 0, len(q.DateRangeFilters))
	for _, name := range slices.Sorted(maps.Keys(q.DateRangeFilters)) {
		b := q.DateRangeFilters[name]
		d, err := filter.NewDateRange(name, b.From, b.To)
		if err != nil {
			return descriptor.Descriptor{}, fmt.Errorf("date filter: %w", err)
		}
		dates = append(dates, d)
	}

	index := q.Page.Index
	if index <= 0 {
		index = 1
	}
	maxSize := limits.Max
	if maxSize <= 0 {
		maxSize = page.MaxSize
	}
	pg := page.NewWithLimits(index, q.Page.Size, limits.Default, maxSize)

	var opts []descriptor.Option
	if len(q.SearchFields) > 0 {
		opts = append(opts, descriptor.WithSearchFields(q.SearchFields...))
	}
	order := sort.New(q.Sort.Key, sort.Direction(q.Sort.Direction))
	return descriptor.New(q.SearchTerm, filter.NewSet(facets, ranges, dates), order, pg, opts...), nil
}

// SelectionSet returns the requested selection.
func (q QueryRequest) SelectionSet() selection.Set { return selection.New(q.Selection...) }

// QueryResponse is one evaluated page.
type QueryResponse[T any] struct {
	Items        []T      `json:"items"`
	TotalMatched int      `json:"totalMatched"`
	TotalPages   int      `json:"totalPages"`
	Page         int      `json:"page"`
	Selection    []string `json:"selection"`
}

func queryResponse[R, T any](res result.Result[R], conv func(R) T) QueryResponse[T] {
	items := make([]T, len(res.Items()))
	for i, it := range res.Items() {
		items[i] = conv(it)
	}
	return QueryResponse[T]{
		Items:        items,
		TotalMatched: res.TotalMatched(),
		TotalPages:   res.TotalPages(),
		Page:         res.Page(),
		Selection:    selectionIDs(res.Selection()),
	}
}

// selectionIDs never returns nil so the JSON reply always carries an array.
func selectionIDs(s selection.Set) []string {
	if s.Len() == 0 {
		return []string{}
	}
	return s.IDs()
}

func rowRecord(r dataset.Row) any { return r.Record }

// FieldResponse describes one queryable field.
type FieldResponse struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Searchable bool   `json:"searchable,omitempty"`
}

// DatasetResponse describes one dataset.
type DatasetResponse struct {
	Name     string          `json:"name"`
	Size     int             `json:"size"`
	LoadedAt *time.Time      `json:"loadedAt,omitempty"`
	Fields   []FieldResponse `json:"fields"`
}

// DatasetListResponse lists datasets.
type DatasetListResponse struct {
	Items []DatasetResponse `json:"items"`
}

func datasetToResponse(info dataset.Info) DatasetResponse {
	fields := make([]FieldResponse, len(info.Fields()))
	for i, f := range info.Fields() {
		fields[i] = FieldResponse{Name: f.Name(), Type: string(f.FieldType()), Searchable: f.Searchable()}
	}
	resp := DatasetResponse{Name: info.Name(), Size: info.Size(), Fields: fields}
	if !info.LoadedAt().IsZero() {
		at := info.LoadedAt().UTC()
		resp.LoadedAt = &at
	}
	return resp
}

// AppendActivityRequest is the body of a timeline append.
type AppendActivityRequest struct {
	Kind string          `json:"kind" validate:"required"`
	At   *time.Time      `json:"at,omitempty"`
	Data json.RawMessage `json:"data" validate:"required"`
}

// EventResponse is one timeline event.
type EventResponse struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customerId"`
	At         time.Time       `json:"at"`
	Kind       string          `json:"kind"`
	Summary    string          `json:"summary"`
	Status     string          `json:"status,omitempty"`
	Amount     *string         `json:"amount,omitempty"`
	Data       json.RawMessage `json:"data"`
}

func eventToResponse(ev timeline.Event) EventResponse {
	a := ev.Activity()
	resp := EventResponse{
		ID:         ev.ID(),
		CustomerID: ev.CustomerID(),
		At:         ev.At().UTC(),
		Kind:       string(a.Kind()),
		Summary:    activity.Summary(a),
		Status:     activity.Status(a),
	}
	if amt, ok := activity.Amount(a); ok {
		s := amt.StringFixed(2)
		resp.Amount = &s
	}
	if env, err := activity.Encode(a); err == nil {
		resp.Data = env.Data
	}
	return resp
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
