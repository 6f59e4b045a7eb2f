package listquery

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/listquery/internal/domain"
	"github.com/kailas-cloud/listquery/internal/domain/accessor"
	"github.com/kailas-cloud/listquery/internal/domain/field"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/filter"
	"github.com/kailas-cloud/listquery/internal/domain/query/sort"
)

// predicate is one compiled filter stage bound to its accessor.
type predicate[R any] func(R) bool

// plan is a descriptor resolved against an accessor table.
type plan[R any] struct {
	term       string
	searchIn   []accessor.Func[R]
	predicates []predicate[R]
	sortKey    accessor.Func[R]
	desc       bool
}

func (p *plan[R]) compileSearch(d descriptor.Descriptor, table *accessor.Table[R]) error {
	if d.SearchTerm() == "" {
		return nil
	}
	p.term = strings.ToLower(d.SearchTerm())

	names := d.SearchFields()
	if names == nil {
		names = table.Searchable()
	}
	for _, name := range names {
		_, get, ok := table.Lookup(name)
		if !ok {
			return domain.NewUnknownField(name, StageSearch)
		}
		p.searchIn = append(p.searchIn, get)
	}
	return nil
}

// compileFilters binds active filters to their accessors. Inactive filters
// (empty facet sets, bound-less ranges) reference nothing and are skipped
// before lookup, so they never fail on unknown fields.
func (p *plan[R]) compileFilters(fs filter.Set, table *accessor.Table[R]) error {
	for _, f := range fs.Facets() {
		if !f.IsActive() {
			continue
		}
		_, get, ok := table.Lookup(f.Field())
		if !ok {
			return domain.NewUnknownField(f.Field(), StageFacet)
		}
		p.predicates = append(p.predicates, func(r R) bool { return f.Accepts(get(r)) })
	}
	for _, rg := range fs.Ranges() {
		if !rg.IsActive() {
			continue
		}
		def, get, ok := table.Lookup(rg.Field())
		if !ok {
			return domain.NewUnknownField(rg.Field(), StageRange)
		}
		if def.FieldType() != field.Number {
			return domain.NewFieldTypeMismatch(rg.Field(), string(def.FieldType()), string(field.Number))
		}
		p.predicates = append(p.predicates, func(r R) bool { return rg.Contains(get(r)) })
	}
	for _, dr := range fs.DateRanges() {
		if !dr.IsActive() {
			continue
		}
		def, get, ok := table.Lookup(dr.Field())
		if !ok {
			return domain.NewUnknownField(dr.Field(), StageDate)
		}
		if def.FieldType() != field.Date {
			return domain.NewFieldTypeMismatch(dr.Field(), string(def.FieldType()), string(field.Date))
		}
		p.predicates = append(p.predicates, func(r R) bool { return dr.Contains(get(r)) })
	}
	return nil
}

// compileSort binds the sort key. A key with no accessor leaves the plan unsorted.
func (p *plan[R]) compileSort(o sort.Order, table *accessor.Table[R]) {
	if o.IsNone() {
		return
	}
	_, get, ok := table.Lookup(o.Key())
	if !ok {
		return
	}
	p.sortKey = get
	p.desc = o.Direction() == sort.Desc
}

// match applies search first, then every filter predicate.
func (p *plan[R]) match(r R) bool {
	if p.term != "" && !p.matchesTerm(r) {
		return false
	}
	for _, pred := range p.predicates {
		if !pred(r) {
			return false
		}
	}
	return true
}

func (p *plan[R]) matchesTerm(r R) bool {
	for _, get := range p.searchIn {
		for _, text := range get(r).Texts() {
			if strings.Contains(strings.ToLower(text), p.term) {
				return true
			}
		}
	}
	return false
}

type keyed[R any] struct {
	rec R
	key field.Value
}

// sort orders recs stably by the plan's key. Missing keys go last in both
// directions. recs is reused as the output buffer.
func (p *plan[R]) sort(recs []R) []R {
	if p.sortKey == nil || len(recs) < 2 {
		return recs
	}
	ks := make([]keyed[R], len(recs))
	for i, r := range recs {
		ks[i] = keyed[R]{rec: r, key: p.sortKey(r)}
	}
	slices.SortStableFunc(ks, func(a, b keyed[R]) int {
		am, bm := a.key.IsMissing(), b.key.IsMissing()
		switch {
		case am && bm:
			return 0
		case am:
			return 1
		case bm:
			return -1
		}
		c := field.Compare(a.key, b.key)
		if p.desc {
			return -c
		}
		return c
	})
	for i := range ks {
		recs[i] = ks[i].rec
	}
	return recs
}
