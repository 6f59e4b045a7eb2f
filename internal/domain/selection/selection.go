// Package selection holds the immutable set of record ids a user has marked.
package selection

import "slices"

// Set is an immutable set of record ids. The zero Set is empty.
type Set struct {
	ids map[string]struct{}
}

// New creates a Set from ids. Blank ids and duplicates are dropped.
func New(ids ...string) Set {
	m := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			m[id] = struct{}{}
		}
	}
	return Set{ids: m}
}

// Contains reports whether id is selected.
func (s Set) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Len returns the number of selected ids.
func (s Set) Len() int { return len(s.ids) }

// IDs returns the selected ids in ascending order.
func (s Set) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Intersect returns the ids present in both s and ids.
func (s Set) Intersect(ids []string) Set {
	m := make(map[string]struct{})
	for _, id := range ids {
		if s.Contains(id) {
			m[id] = struct{}{}
		}
	}
	return Set{ids: m}
}

// Union returns s plus ids.
func (s Set) Union(ids []string) Set {
	m := make(map[string]struct{}, len(s.ids)+len(ids))
	for id := range s.ids {
		m[id] = struct{}{}
	}
	for _, id := range ids {
		if id != "" {
			m[id] = struct{}{}
		}
	}
	return Set{ids: m}
}
