package result

import "github.com/kailas-cloud/listquery/internal/domain/selection"

// Result is one evaluated page of a list query.
type Result[R any] struct {
	items        []R
	totalMatched int
	totalPages   int
	page         int
	selection    selection.Set
	matchedIDs   []string
}

// New creates a result page.
func New[R any](
	items []R, totalMatched, totalPages, page int,
	sel selection.Set, matchedIDs []string,
) Result[R] {
	return Result[R]{
		items: items, totalMatched: totalMatched, totalPages: totalPages,
		page: page, selection: sel, matchedIDs: matchedIDs,
	}
}

// Items returns the records of the current page, in final order.
func (r Result[R]) Items() []R { return r.items }

// TotalMatched returns the count of records that passed search and filters.
func (r Result[R]) TotalMatched() int { return r.totalMatched }

// TotalPages returns the page count, at least 1.
func (r Result[R]) TotalPages() int { return r.totalPages }

// Page returns the clamped 1-based page index actually returned.
func (r Result[R]) Page() int { return r.page }

// Selection returns the caller's selection pruned to the matched set.
func (r Result[R]) Selection() selection.Set { return r.selection }

// MatchedIDs returns the ids of every matched record, in result order.
func (r Result[R]) MatchedIDs() []string { return r.matchedIDs }

// PageIDs returns the ids of the current page given an id extractor.
func (r Result[R]) PageIDs(id func(R) string) []string {
	out := make([]string, len(r.items))
	for i, it := range r.items {
		out[i] = id(it)
	}
	return out
}

// Map converts a result to another item type, keeping every count.
func Map[R, T any](r Result[R], fn func(R) T) Result[T] {
	items := make([]T, len(r.items))
	for i, it := range r.items {
		items[i] = fn(it)
	}
	return Result[T]{
		items: items, totalMatched: r.totalMatched, totalPages: r.totalPages,
		page: r.page, selection: r.selection, matchedIDs: r.matchedIDs,
	}
}
