package listquery

import (
	"context"
	"time"
)

// defaultDataset labels evaluations of builders that were not named.
const defaultDataset = "default"

// Engine evaluates queries and reports each evaluation to the configured
// logger and metrics. The zero-option Engine is silent. An Engine holds no
// per-query state and is safe for concurrent use.
type Engine struct {
	obs *observer
}

// NewEngine creates an Engine.
func NewEngine(opts ...Option) (*Engine, error) {
	cfg := &engineConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	obs, err := newObserver(cfg.logger, cfg.metricsReg, cfg.slow)
	if err != nil {
		return nil, err
	}
	return &Engine{obs: obs}, nil
}

// Builder is a fluent builder for one query over a record slice.
// Methods mutate and return the builder; it is not safe for concurrent use.
type Builder[R any] struct {
	engine   *Engine
	acc      *Accessors[R]
	records  []R
	dataset  string
	query    Query
	selected []string
	scope    SelectScope
}

// From starts a query over records. A nil engine evaluates without observation.
func From[R any](e *Engine, acc *Accessors[R], records []R) *Builder[R] {
	return &Builder[R]{engine: e, acc: acc, records: records, dataset: defaultDataset}
}

// Named sets the dataset label reported in logs and metrics.
func (b *Builder[R]) Named(dataset string) *Builder[R] {
	b.dataset = dataset
	return b
}

// Search sets the free-text term. Fields narrow the search to those fields.
func (b *Builder[R]) Search(term string, fields ...string) *Builder[R] {
	b.query.SearchTerm = term
	b.query.SearchFields = fields
	return b
}

// Facet adds accepted values for a field. Repeated calls accumulate.
func (b *Builder[R]) Facet(field string, values ...string) *Builder[R] {
	if b.query.FacetFilters == nil {
		b.query.FacetFilters = make(map[string][]string)
	}
	b.query.FacetFilters[field] = append(b.query.FacetFilters[field], values...)
	return b
}

// Range bounds a numeric field inclusively on both sides.
func (b *Builder[R]) Range(field string, lo, hi float64) *Builder[R] {
	return b.bound(field, Bounds{Min: &lo, Max: &hi})
}

// AtLeast bounds a numeric field from below.
func (b *Builder[R]) AtLeast(field string, lo float64) *Builder[R] {
	return b.bound(field, Bounds{Min: &lo})
}

// AtMost bounds a numeric field from above.
func (b *Builder[R]) AtMost(field string, hi float64) *Builder[R] {
	return b.bound(field, Bounds{Max: &hi})
}

func (b *Builder[R]) bound(field string, bounds Bounds) *Builder[R] {
	if b.query.RangeFilters == nil {
		b.query.RangeFilters = make(map[string]Bounds)
	}
	b.query.RangeFilters[field] = bounds
	return b
}

// Between bounds a date field by inclusive ISO days. An empty side is unbounded.
func (b *Builder[R]) Between(field, from, to string) *Builder[R] {
	if b.query.DateRangeFilters == nil {
		b.query.DateRangeFilters = make(map[string]DateBounds)
	}
	b.query.DateRangeFilters[field] = DateBounds{From: from, To: to}
	return b
}

// SortBy sets the sort key and direction.
func (b *Builder[R]) SortBy(key string, dir Direction) *Builder[R] {
	b.query.Sort = Sort{Key: key, Direction: dir}
	return b
}

// Page sets the 1-based page index and size.
func (b *Builder[R]) Page(index, size int) *Builder[R] {
	b.query.Page = Page{Index: index, Size: size}
	return b
}

// Select sets the caller's current selection.
func (b *Builder[R]) Select(ids ...string) *Builder[R] {
	b.selected = ids
	return b
}

// SelectAll extends the reconciled selection with the page or every match.
func (b *Builder[R]) SelectAll(scope SelectScope) *Builder[R] {
	b.scope = scope
	return b
}

// Query returns the query built so far.
func (b *Builder[R]) Query() Query { return b.query }

// Do evaluates the query. It fails only on a cancelled context or a
// configuration error.
func (b *Builder[R]) Do(ctx context.Context) (Result[R], error) {
	if err := ctx.Err(); err != nil {
		return Result[R]{}, err
	}
	start := time.Now()
	res, err := evaluate(b.records, b.query, b.acc, b.selected, b.scope)
	if b.engine != nil {
		b.engine.obs.observe(ctx, b.dataset, start, res.TotalMatched, err)
	}
	return res, err
}
