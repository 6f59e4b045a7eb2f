package listquery

import (
	"errors"

	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
	"github.com/kailas-cloud/listquery/internal/usecase/listquery"
)

// SelectScope says what "select all" adds to the reconciled selection.
type SelectScope = listquery.SelectScope

// Select-all scopes.
const (
	SelectNone    SelectScope = listquery.SelectNone
	SelectPage    SelectScope = listquery.SelectPage
	SelectMatched SelectScope = listquery.SelectMatched
)

// Result is one evaluated page. TotalMatched counts every record that
// passed search and filters; TotalPages is at least 1; Page is the clamped
// index actually returned. Selection holds the selected ids still present
// in the matched set, sorted.
type Result[R any] struct {
	Items        []R      `json:"items"`
	TotalMatched int      `json:"totalMatched"`
	TotalPages   int      `json:"totalPages"`
	Page         int      `json:"page"`
	Selection    []string `json:"selection"`
}

// Evaluate runs q over records and returns one page. The selected ids are
// reconciled against the full matched set, not just the page.
//
// Malformed values degrade instead of failing: inverted bounds match
// nothing, unparseable date bounds are unbounded and unknown directions sort
// ascending. Only caller configuration errors are returned: a blank filter
// field name (ErrInvalidQuery), an active filter or search on a field with
// no accessor (ErrUnknownField) or a filter on a field of the wrong type
// (ErrFieldTypeMismatch).
func Evaluate[R any](records []R, q Query, acc *Accessors[R], selected []string) (Result[R], error) {
	return evaluate(records, q, acc, selected, SelectNone)
}

func evaluate[R any](records []R, q Query, acc *Accessors[R], selected []string, scope SelectScope) (Result[R], error) {
	if acc == nil {
		return Result[R]{}, errors.New("listquery: accessors are nil")
	}
	d, err := q.descriptor()
	if err != nil {
		return Result[R]{}, err
	}
	res, err := listquery.Evaluate(records, d, acc.table, selection.New(selected...))
	if err != nil {
		return Result[R]{}, err
	}
	sel := listquery.ApplySelectAll(res, scope, acc.table.ID)
	return toResult(res, sel), nil
}

func toResult[R any](res result.Result[R], sel selection.Set) Result[R] {
	items := res.Items()
	if items == nil {
		items = []R{}
	}
	return Result[R]{
		Items:        items,
		TotalMatched: res.TotalMatched(),
		TotalPages:   res.TotalPages(),
		Page:         res.Page(),
		Selection:    sel.IDs(),
	}
}
