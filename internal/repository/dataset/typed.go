// Package dataset holds the in-memory datasets served to list queries and
// keeps them in sync with their YAML seed fixtures.
package dataset

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/r3labs/diff/v2"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/listquery/internal/domain/accessor"
	domds "github.com/kailas-cloud/listquery/internal/domain/dataset"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
	"github.com/kailas-cloud/listquery/internal/usecase/listquery"
	"github.com/kailas-cloud/listquery/internal/validator"
)

// Source is a named dataset the registry can query and reload.
type Source interface {
	Name() string
	Info() domds.Info
	Query(d descriptor.Descriptor, sel selection.Set) (result.Result[domds.Row], error)
	Lookup(id string) (any, bool)
	Snapshot(id string) (map[string]string, bool)
	Load(raw []byte) (domds.Change, error)
}

// Typed is a dataset of records of type R. Queries read an immutable
// snapshot; Replace swaps it atomically.
type Typed[R any] struct {
	name  string
	table *accessor.Table[R]
	now   func() time.Time

	mu       sync.RWMutex
	records  []R
	index    map[string]int
	loadedAt time.Time
}

var _ Source = (*Typed[struct{}])(nil)

// NewTyped creates an empty dataset.
func NewTyped[R any](name string, table *accessor.Table[R]) (*Typed[R], error) {
	if err := domds.ValidateName(name); err != nil {
		return nil, err
	}
	if table == nil {
		return nil, fmt.Errorf("dataset %s: accessor table is required", name)
	}
	return &Typed[R]{name: name, table: table, now: time.Now, index: map[string]int{}}, nil
}

// Name returns the dataset name.
func (t *Typed[R]) Name() string { return t.name }

// Info describes the current snapshot.
func (t *Typed[R]) Info() domds.Info {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return domds.NewInfo(t.name, t.table.Fields(), len(t.records), t.loadedAt)
}

// Records returns a copy of the current snapshot.
func (t *Typed[R]) Records() []R {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return slices.Clone(t.records)
}

// Get returns the record with id.
func (t *Typed[R]) Get(id string) (R, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	i, ok := t.index[id]
	if !ok {
		var zero R
		return zero, false
	}
	return t.records[i], true
}

// Lookup is Get for callers that do not know R.
func (t *Typed[R]) Lookup(id string) (any, bool) {
	r, ok := t.Get(id)
	if !ok {
		return nil, false
	}
	return r, true
}

// Snapshot renders the record with id as text keyed by field name.
func (t *Typed[R]) Snapshot(id string) (map[string]string, bool) {
	r, ok := t.Get(id)
	if !ok {
		return nil, false
	}
	return t.table.Snapshot(r), true
}

// Query evaluates a list query against the current snapshot.
func (t *Typed[R]) Query(d descriptor.Descriptor, sel selection.Set) (result.Result[domds.Row], error) {
	t.mu.RLock()
	records := t.records
	t.mu.RUnlock()

	res, err := listquery.Evaluate(records, d, t.table, sel)
	if err != nil {
		return result.Result[domds.Row]{}, err
	}
	return result.Map(res, func(r R) domds.Row {
		return domds.Row{ID: t.table.ID(r), Record: r}
	}), nil
}

// Load decodes a YAML list of records, validates each and replaces the snapshot.
func (t *Typed[R]) Load(raw []byte) (domds.Change, error) {
	var records []R
	if err := yaml.Unmarshal(raw, &records); err != nil {
		return domds.Change{}, fmt.Errorf("decode %s: %w", t.name, err)
	}
	for i, r := range records {
		if err := validator.Struct(r); err != nil {
			return domds.Change{}, fmt.Errorf("%s record %d: %w", t.name, i, err)
		}
	}
	return t.Replace(records)
}

// Replace installs records as the new snapshot and reports what changed.
// Record ids must be unique and non-empty.
func (t *Typed[R]) Replace(records []R) (domds.Change, error) {
	index := make(map[string]int, len(records))
	next := make(map[string]map[string]string, len(records))
	for i, r := range records {
		id := t.table.ID(r)
		if id == "" {
			return domds.Change{}, fmt.Errorf("%s record %d: empty id", t.name, i)
		}
		if _, dup := index[id]; dup {
			return domds.Change{}, fmt.Errorf("%s: duplicate record id %q", t.name, id)
		}
		index[id] = i
		next[id] = t.table.Snapshot(r)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	prev := make(map[string]map[string]string, len(t.records))
	for _, r := range t.records {
		prev[t.table.ID(r)] = t.table.Snapshot(r)
	}
	change, err := summarize(t.name, prev, next)
	if err != nil {
		return domds.Change{}, err
	}

	t.records = slices.Clone(records)
	t.index = index
	t.loadedAt = t.now()
	return change, nil
}

// summarize counts created, updated and deleted record ids between two field snapshots.
func summarize(name string, prev, next map[string]map[string]string) (domds.Change, error) {
	change := domds.Change{Dataset: name}
	for id := range next {
		if _, ok := prev[id]; !ok {
			change.Created++
		}
	}
	for id := range prev {
		if _, ok := next[id]; !ok {
			change.Deleted++
		}
	}

	cl, err := diff.Diff(prev, next)
	if err != nil {
		return domds.Change{}, fmt.Errorf("diff %s: %w", name, err)
	}
	updated := make(map[string]struct{})
	for _, c := range cl {
		if len(c.Path) == 0 {
			continue
		}
		id := c.Path[0]
		_, inPrev := prev[id]
		_, inNext := next[id]
		if inPrev && inNext {
			updated[id] = struct{}{}
		}
	}
	change.Updated = len(updated)
	return change, nil
}
