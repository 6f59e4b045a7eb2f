// Package dataset describes named record collections exposed to list queries.
package dataset

import (
	"fmt"
	"regexp"
	"time"

	"github.com/kailas-cloud/listquery/internal/domain/field"
)

var namePattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

// ValidateName checks a dataset name: lowercase, starts with a letter, at most 64 chars.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid dataset name %q", name)
	}
	return nil
}

// Row is one untyped record of a query page.
type Row struct {
	ID     string
	Record any
}

// RowID returns the row id; handy as an id extractor.
func RowID(r Row) string { return r.ID }

// Info describes a loaded dataset.
type Info struct {
	name     string
	fields   []field.Field
	size     int
	loadedAt time.Time
}

// NewInfo creates a dataset description.
func NewInfo(name string, fields []field.Field, size int, loadedAt time.Time) Info {
	return Info{name: name, fields: fields, size: size, loadedAt: loadedAt}
}

// Name returns the dataset name.
func (i Info) Name() string { return i.name }

// Fields returns the queryable fields in declaration order.
func (i Info) Fields() []field.Field { return i.fields }

// Size returns the current record count.
func (i Info) Size() int { return i.size }

// LoadedAt returns when the current snapshot was installed. Zero if never loaded.
func (i Info) LoadedAt() time.Time { return i.loadedAt }

// Change summarizes a snapshot replacement.
type Change struct {
	Dataset string `json:"dataset"`
	Created int    `json:"created"`
	Updated int    `json:"updated"`
	Deleted int    `json:"deleted"`
}

// IsEmpty reports whether the replacement changed nothing.
func (c Change) IsEmpty() bool { return c.Created == 0 && c.Updated == 0 && c.Deleted == 0 }
