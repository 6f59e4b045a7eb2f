package dataset

import (
	"context"
	"fmt"
	"sync"

	"github.com/kailas-cloud/listquery/internal/domain"
	domds "github.com/kailas-cloud/listquery/internal/domain/dataset"
	"github.com/kailas-cloud/listquery/internal/domain/query/descriptor"
	"github.com/kailas-cloud/listquery/internal/domain/query/result"
	"github.com/kailas-cloud/listquery/internal/domain/selection"
)

// Registry maps dataset names to sources. Implements usecase/listquery.DatasetStore.
type Registry struct {
	mu      sync.RWMutex
	sources map[string]Source
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds s. Names must be unique.
func (r *Registry) Register(s Source) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.sources[s.Name()]; dup {
		return fmt.Errorf("dataset %s already registered", s.Name())
	}
	r.sources[s.Name()] = s
	r.order = append(r.order, s.Name())
	return nil
}

// Source returns the dataset called name.
func (r *Registry) Source(name string) (Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrDatasetNotFound, name)
	}
	return s, nil
}

// Sources returns every dataset in registration order.
func (r *Registry) Sources() []Source {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Source, len(r.order))
	for i, name := range r.order {
		out[i] = r.sources[name]
	}
	return out
}

// Query evaluates d against the named dataset.
func (r *Registry) Query(
	_ context.Context, name string, d descriptor.Descriptor, sel selection.Set,
) (result.Result[domds.Row], error) {
	s, err := r.Source(name)
	if err != nil {
		return result.Result[domds.Row]{}, err
	}
	return s.Query(d, sel)
}

// Info describes the named dataset.
func (r *Registry) Info(_ context.Context, name string) (domds.Info, error) {
	s, err := r.Source(name)
	if err != nil {
		return domds.Info{}, err
	}
	return s.Info(), nil
}

// List describes every dataset in registration order.
func (r *Registry) List(_ context.Context) []domds.Info {
	sources := r.Sources()
	out := make([]domds.Info, len(sources))
	for i, s := range sources {
		out[i] = s.Info()
	}
	return out
}

// Lookup returns one record of the named dataset.
func (r *Registry) Lookup(_ context.Context, name, id string) (any, error) {
	s, err := r.Source(name)
	if err != nil {
		return nil, err
	}
	rec, ok := s.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, name, id)
	}
	return rec, nil
}

// Directory answers existence checks against one dataset.
type Directory struct {
	reg  *Registry
	name string
}

// Directory returns an existence checker backed by the named dataset.
func (r *Registry) Directory(name string) *Directory {
	return &Directory{reg: r, name: name}
}

// Exists reports whether id is present. A missing dataset is an error.
func (d *Directory) Exists(_ context.Context, id string) (bool, error) {
	s, err := d.reg.Source(d.name)
	if err != nil {
		return false, err
	}
	_, ok := s.Lookup(id)
	return ok, nil
}
