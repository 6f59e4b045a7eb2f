package descriptor

import (
	"strings"

	"github.com/kailas-cloud/listquery/internal/domain/query/filter"
	"github.com/kailas-cloud/listquery/internal/domain/query/page"
	"github.com/kailas-cloud/listquery/internal/domain/query/sort"
)

// MaxSearchTermLength is the longest search term, in runes, a client request
// may carry. Evaluation searches terms of any length.
const MaxSearchTermLength = 256

// Descriptor is a normalized list query: what to search, filter, sort and
// which page to return.
type Descriptor struct {
	searchTerm   string
	searchFields []string
	filters      filter.Set
	order        sort.Order
	page         page.Page
}

// Option tunes optional descriptor parts.
type Option func(*Descriptor)

// WithSearchFields restricts free-text search to the named fields instead
// of the accessor table's searchable set. Blank names are dropped; if none
// remain the searchable set applies.
func WithSearchFields(names ...string) Option {
	return func(d *Descriptor) {
		var kept []string
		for _, n := range names {
			if n != "" {
				kept = append(kept, n)
			}
		}
		d.searchFields = kept
	}
}

// New normalizes a descriptor. The search term is trimmed; a blank term
// disables search.
func New(searchTerm string, filters filter.Set, order sort.Order, p page.Page, opts ...Option) Descriptor {
	d := Descriptor{
		searchTerm: strings.TrimSpace(searchTerm),
		filters:    filters,
		order:      order,
		page:       p,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// SearchTerm returns the trimmed search term, possibly empty.
func (d Descriptor) SearchTerm() string { return d.searchTerm }

// SearchFields returns the explicit search field override, or nil.
func (d Descriptor) SearchFields() []string { return d.searchFields }

// Filters returns the filter set.
func (d Descriptor) Filters() filter.Set { return d.filters }

// Order returns the requested sort order.
func (d Descriptor) Order() sort.Order { return d.order }

// Page returns the requested page.
func (d Descriptor) Page() page.Page { return d.page }
