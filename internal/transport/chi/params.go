package chi

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/oapi-codegen/runtime"
)

// RecordsParams are the query-string parameters of the GET list endpoints.
//
//	search=acme&sort=revenue&direction=desc&page=2&size=20
//	facet=status:Active&facet=status:Paused
//	range=revenue:100:500     (either bound may be empty)
//	date=createdAt:2024-06-01:2024-06-30
//	date=createdAt:2024-06-01T08:00:00Z..2024-06-30T18:00:00Z
//	selected=c-1&selected=c-7&select_all=matched
type RecordsParams struct {
	Search    *string
	Field     *[]string
	Sort      *string
	Direction *string
	Page      *int
	Size      *int
	Facet     *[]string
	Range     *[]string
	Date      *[]string
	Selected  *[]string
	SelectAll *string
}

// BindRecordsParams binds q with form style, exploded arrays.
func BindRecordsParams(q url.Values) (RecordsParams, error) {
	var p RecordsParams
	bindings := []struct {
		name string
		dest any
	}{
		{"search", &p.Search},
		{"field", &p.Field},
		{"sort", &p.Sort},
		{"direction", &p.Direction},
		{"page", &p.Page},
		{"size", &p.Size},
		{"facet", &p.Facet},
		{"range", &p.Range},
		{"date", &p.Date},
		{"selected", &p.Selected},
		{"select_all", &p.SelectAll},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return RecordsParams{}, fmt.Errorf("invalid format for parameter %s: %w", b.name, err)
		}
	}
	return p, nil
}

// QueryRequest converts the parameters to the JSON request shape.
func (p RecordsParams) QueryRequest() (QueryRequest, error) {
	q := QueryRequest{
		SearchTerm:   deref(p.Search),
		SearchFields: deref(p.Field),
		Sort:         SortSpec{Key: deref(p.Sort), Direction: deref(p.Direction)},
		Page:         PageSpec{Index: deref(p.Page), Size: deref(p.Size)},
		Selection:    deref(p.Selected),
		SelectAll:    deref(p.SelectAll),
	}

	for _, raw := range deref(p.Facet) {
		name, value, ok := strings.Cut(raw, ":")
		if !ok || name == "" {
			return QueryRequest{}, fmt.Errorf("facet %q: want field:value", raw)
		}
		if q.FacetFilters == nil {
			q.FacetFilters = make(map[string][]string)
		}
		q.FacetFilters[name] = append(q.FacetFilters[name], value)
	}

	for _, raw := range deref(p.Range) {
		name, b, err := parseRange(raw)
		if err != nil {
			return QueryRequest{}, err
		}
		if q.RangeFilters == nil {
			q.RangeFilters = make(map[string]Bounds)
		}
		q.RangeFilters[name] = b
	}

	for _, raw := range deref(p.Date) {
		name, b, err := parseDates(raw)
		if err != nil {
			return QueryRequest{}, err
		}
		if q.DateRangeFilters == nil {
			q.DateRangeFilters = make(map[string]DateBounds)
		}
		q.DateRangeFilters[name] = b
	}
	return q, nil
}

func parseRange(raw string) (string, Bounds, error) {
	parts := strings.SplitN(raw, ":", 3)
	if len(parts) < 2 || parts[0] == "" {
		return "", Bounds{}, fmt.Errorf("range %q: want field:min:max", raw)
	}
	var b Bounds
	var err error
	if b.Min, err = parseBound(parts[1]); err != nil {
		return "", Bounds{}, fmt.Errorf("range %q: min: %w", raw, err)
	}
	if len(parts) == 3 {
		if b.Max, err = parseBound(parts[2]); err != nil {
			return "", Bounds{}, fmt.Errorf("range %q: max: %w", raw, err)
		}
	}
	return parts[0], b, nil
}

func parseBound(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &f, nil
}

// parseDates accepts field:from:to for plain dates and field:from..to when
// the bounds are timestamps that carry their own colons.
func parseDates(raw string) (string, DateBounds, error) {
	name, rest, ok := strings.Cut(raw, ":")
	if !ok || name == "" {
		return "", DateBounds{}, fmt.Errorf("date %q: want field:from:to", raw)
	}
	sep := ":"
	if strings.Contains(rest, "..") {
		sep = ".."
	} else if strings.Count(rest, ":") > 1 {
		return "", DateBounds{}, fmt.Errorf("date %q: use field:from..to for timestamps", raw)
	}
	from, to, _ := strings.Cut(rest, sep)
	return name, DateBounds{From: from, To: to}, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
