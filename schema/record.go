package schema

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"strings"

	"github.com/syssam/ease/internal/casing"
)

// Record is the normalized description of a persisted record type: a named,
// ordered list of fields stored in one table. A Record is built once and
// not modified after validation.
type Record struct {
	// Name is the Go type name of the record.
	Name string
	// Table is the table the record is stored in.
	Table string
	// Package is the import path of the package declaring the record, if known.
	Package string
	// Fields in declaration order.
	Fields []*Field
	// Companion describes the New<Name> insertion shape when its declaration
	// was seen next to the record. It is nil otherwise.
	Companion *Companion
}

// Field is one named, typed field of a record.
type Field struct {
	// Name is the Go field name.
	Name string
	// Column is the column name. Defaults to the snake_case field name.
	Column string
	// Type of the field.
	Type TypeRef
	// Key marks the identity field of the record.
	Key bool
	// Position is the zero-based declaration index, set by NewRecord.
	Position int
}

// Companion is the externally declared shape used to insert a record. It
// mirrors the record minus identity or generated fields.
type Companion struct {
	Name   string
	Fields []*Field
}

// NewField returns a field with the given name and type.
func NewField(name string, typ TypeRef) *Field {
	return &Field{Name: name, Type: typ}
}

// WithColumn sets the column name of the field.
func (f *Field) WithColumn(column string) *Field {
	f.Column = column
	return f
}

// AsKey marks the field as the record identity.
func (f *Field) AsKey() *Field {
	f.Key = true
	return f
}

// String returns the field name.
func (f *Field) String() string {
	return f.Name
}

// NewRecord builds and validates a record with the given fields in order.
func NewRecord(name string, fields ...*Field) (*Record, error) {
	r := &Record{Name: name, Fields: fields}
	if err := r.Normalize(); err != nil {
		return nil, err
	}
	return r, nil
}

// DefaultTable returns the default table name of a record: its lower-cased
// name followed by "s".
func DefaultTable(name string) string {
	return strings.ToLower(name) + "s"
}

// DefaultColumn returns the default column name of a field.
func DefaultColumn(field string) string {
	return casing.Snake(field)
}

// Normalize fills defaults (table, columns, positions) and validates the
// record. It fails with ErrEmptySchema when there are no fields and with
// ErrUnsupportedSchema for any other violation.
func (r *Record) Normalize() error {
	if err := ValidName(r.Name); err != nil {
		return &SchemaError{Kind: KindUnsupported, Record: r.Name, Message: "invalid record name", Cause: err}
	}
	if len(r.Fields) == 0 {
		return Empty(r.Name)
	}
	if r.Table == "" {
		r.Table = DefaultTable(r.Name)
	}
	var (
		names   = make(map[string]struct{}, len(r.Fields))
		columns = make(map[string]struct{}, len(r.Fields))
		keys    int
	)
	for i, f := range r.Fields {
		switch {
		case f == nil:
			return Unsupported(r.Name, "", "field %d is nil", i)
		case f.Name == "":
			return Unsupported(r.Name, "", "field %d has no name; positional fields are not supported", i)
		case !token.IsIdentifier(f.Name) || f.Name == "_":
			return Unsupported(r.Name, f.Name, "field name is not a valid Go identifier")
		}
		if f.Column == "" {
			f.Column = DefaultColumn(f.Name)
		}
		if _, ok := names[f.Name]; ok {
			return Unsupported(r.Name, f.Name, "duplicate field name")
		}
		if _, ok := columns[f.Column]; ok {
			return Unsupported(r.Name, f.Name, "duplicate column %q", f.Column)
		}
		if err := f.Type.Validate(); err != nil {
			return &SchemaError{Kind: KindUnsupported, Record: r.Name, Field: f.Name, Message: "unsupported field type", Cause: err}
		}
		if f.Key {
			keys++
		}
		names[f.Name] = struct{}{}
		columns[f.Column] = struct{}{}
		f.Position = i
	}
	if keys > 1 {
		return Unsupported(r.Name, "", "more than one key field")
	}
	if r.Companion != nil {
		for _, f := range r.Companion.Fields {
			if f == nil || !token.IsIdentifier(f.Name) {
				return Unsupported(r.Name, "", "companion %s has an invalid field", r.CompanionName())
			}
			if f.Column == "" {
				f.Column = DefaultColumn(f.Name)
			}
			if _, ok := columns[f.Column]; !ok {
				return Unsupported(r.Name, f.Name, "companion field has no matching column %q", f.Column)
			}
		}
	}
	return nil
}

// Key returns the identity field of the record: the field marked as key,
// or else the field stored in the "id" column. It returns nil if the record
// has neither.
func (r *Record) Key() *Field {
	for _, f := range r.Fields {
		if f.Key {
			return f
		}
	}
	for _, f := range r.Fields {
		if f.Column == "id" {
			return f
		}
	}
	return nil
}

// Field returns the field with the given Go name, or nil.
func (r *Record) Field(name string) *Field {
	for _, f := range r.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// CompanionName returns the name of the insertion companion type.
func (r *Record) CompanionName() string {
	if r.Companion != nil && r.Companion.Name != "" {
		return r.Companion.Name
	}
	return "New" + r.Name
}

// InsertFields returns the fields written on insert: the companion fields
// when the companion declaration is known, or all fields except the key.
func (r *Record) InsertFields() []*Field {
	if r.Companion != nil && len(r.Companion.Fields) > 0 {
		return r.Companion.Fields
	}
	key := r.Key()
	fields := make([]*Field, 0, len(r.Fields))
	for _, f := range r.Fields {
		if f != key {
			fields = append(fields, f)
		}
	}
	return fields
}

// Columns returns the record columns in declaration order.
func (r *Record) Columns() []string {
	columns := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		columns[i] = f.Column
	}
	return columns
}

// ValidName reports an error if name cannot be used as a record name.
func ValidName(name string) error {
	switch {
	case name == "":
		return errors.New("record name cannot be empty")
	case !token.IsIdentifier(name):
		return fmt.Errorf("record name %q is not a valid Go identifier", name)
	case types.Universe.Lookup(name) != nil:
		return fmt.Errorf("record name conflicts with Go predeclared identifier %q", name)
	}
	return nil
}
