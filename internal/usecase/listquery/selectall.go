package listquery

import (
	"fmt"

	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
)

// SelectScope says what "select all" adds to a reconciled selection.
type SelectScope string

// Select-all scopes.
const (
	SelectNone    SelectScope = ""
	SelectPage    SelectScope = "page"
	SelectMatched SelectScope = "matched"
)

// ParseSelectScope validates a select-all scope.
func ParseSelectScope(s string) (SelectScope, error) {
	switch sc := SelectScope(s); sc {
	case SelectNone, SelectPage, SelectMatched:
		return sc, nil
	default:
		return "", fmt.Errorf("invalid select_all scope %q (want page or matched)", s)
	}
}

// ApplySelectAll extends the result's selection with the page ids or every
// matched id, depending on scope.
func ApplySelectAll[R any](res result.Result[R], scope SelectScope, id func(R) string) selection.Set {
	switch scope {
	case SelectPage:
		return res.Selection().Union(res.PageIDs(id))
	case SelectMatched:
		return res.Selection().Union(res.MatchedIDs())
	default:
		return res.Selection()
	}
}
