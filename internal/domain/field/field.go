package field

import "fmt"

// MaxNameLength is the maximum length of a logical field name.
const MaxNameLength = 64

// Type is the value kind an accessor produces for a field.
type Type string

// Field type constants.
const (
	// String is a single text value (name, status, email).
	String Type = "string"
	Number Type = "number"
	Date   Type = "date"
	// Strings is a multi-valued text field such as a tag list.
	Strings Type = "strings"
)

// IsValid checks if the type is one of the supported kinds.
func (t Type) IsValid() bool {
	return t == String || t == Number || t == Date || t == Strings
}

// IsText reports whether values of this type can take part in search and facets as text.
func (t Type) IsText() bool {
	return t == String || t == Strings
}

// Field is an immutable value object describing a queryable record field.
type Field struct {
	name       string
	fieldType  Type
	searchable bool
}

// New validates and creates a Field.
// Name must be non-empty and at most 64 chars. Only text fields can be searchable.
func New(name string, ft Type, searchable bool) (Field, error) {
	if name == "" {
		return Field{}, fmt.Errorf("field name is required")
	}
	if len(name) > MaxNameLength {
		return Field{}, fmt.Errorf("field name %q too long (max %d)", name, MaxNameLength)
	}
	if !ft.IsValid() {
		return Field{}, fmt.Errorf("invalid field type %q for %q", ft, name)
	}
	if searchable && !ft.IsText() {
		return Field{}, fmt.Errorf("field %q of type %s cannot be searchable", name, ft)
	}
	return Field{name: name, fieldType: ft, searchable: searchable}, nil
}

// Name returns the logical field name.
func (f Field) Name() string { return f.name }

// FieldType returns the value kind of the field.
func (f Field) FieldType() Type { return f.fieldType }

// Searchable reports whether free-text search looks at this field.
func (f Field) Searchable() bool { return f.searchable }
