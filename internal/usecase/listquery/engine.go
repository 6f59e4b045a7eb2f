// Package listquery evaluates list queries over in-memory record collections:
// search, facet, range and date filters, stable sort, pagination and
// selection reconciliation, always in that order.
package listquery

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kailas-cloud/listquery/internal/domain/accessor"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
)

// Pipeline stage names reported in configuration errors.
const (
	StageSearch = "search"
	StageFacet  = "facet"
	StageRange  = "range"
	StageDate   = "date"
)

// Evaluate runs the descriptor against records and returns one page.
//
// The only errors are configuration errors: a search or filter field with no
// accessor (domain.ErrUnknownField) or a range/date filter on a field of the
// wrong type (domain.ErrFieldTypeMismatch). Everything else degrades: an
// unknown sort key keeps filter order, an out-of-range page is clamped.
// The records slice is never modified.
func Evaluate[R any](
	records []R, d descriptor.Descriptor, table *accessor.Table[R], sel selection.Set,
) (result.Result[R], error) {
	if table == nil {
		return result.Result[R]{}, errors.New("evaluate: accessor table is nil")
	}
	p, err := compile(d, table)
	if err != nil {
		return result.Result[R]{}, fmt.Errorf("evaluate: %w", err)
	}

	matched := make([]R, 0, len(records))
	for _, r := range records {
		if p.match(r) {
			matched = append(matched, r)
		}
	}
	matched = p.sort(matched)

	total := len(matched)
	pg := d.Page()
	totalPages := pg.TotalPages(total)
	lo, hi := pg.Bounds(total)

	ids := make([]string, total)
	for i, r := range matched {
		ids[i] = table.ID(r)
	}

	return result.New(
		slices.Clone(matched[lo:hi]),
		total,
		totalPages,
		pg.Clamp(totalPages),
		sel.Intersect(ids),
		ids,
	), nil
}

// compile resolves every field the descriptor names against the table,
// so unknown fields fail before any record is touched.
func compile[R any](d descriptor.Descriptor, table *accessor.Table[R]) (*plan[R], error) {
	p := &plan[R]{}
	if err := p.compileSearch(d, table); err != nil {
		return nil, err
	}
	if err := p.compileFilters(d.Filters(), table); err != nil {
		return nil, err
	}
	p.compileSort(d.Order(), table)
	return p, nil
}
