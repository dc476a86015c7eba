package sql

import (
	"fmt"
	"regexp"
	"slices"
)

// validIdentifierRe validates SQL identifiers (alphanumeric, underscores, dots for schema.name)
var validIdentifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_.]*$`)

// isValidIdentifier checks if the string is a valid SQL identifier.
func isValidIdentifier(s string) bool {
	return s != "" && len(s) <= 128 && validIdentifierRe.MatchString(s)
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Table describes how a record type R and its insertion companion N map to
// a table. Generated code declares one Table per record.
type Table[R, N any] struct {
	// Name of the table.
	Name string
	// Columns of the table in field declaration order.
	Columns []string
	// Key is the identity column, if any.
	Key string
	// Scan reads one row, selected with Columns, into a record.
	Scan func(Scanner) (R, error)
	// InsertColumns are the columns written on insert, in the order of the
	// values returned by Values. When empty, the companion must implement
	// ease.Inserter.
	InsertColumns []string
	// Values returns the insert values of a companion.
	Values func(N) []any
}

// Validate checks that the table descriptor is usable.
func (t Table[R, N]) Validate() error {
	if !isValidIdentifier(t.Name) {
		return fmt.Errorf("ease/sql: invalid table name %q", t.Name)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("ease/sql: table %q has no columns", t.Name)
	}
	for _, c := range t.Columns {
		if !isValidIdentifier(c) {
			return fmt.Errorf("ease/sql: table %q: invalid column name %q", t.Name, c)
		}
	}
	if t.Key != "" && !t.HasColumn(t.Key) {
		return fmt.Errorf("ease/sql: table %q: key %q is not a column", t.Name, t.Key)
	}
	if t.Scan == nil {
		return fmt.Errorf("ease/sql: table %q: missing Scan function", t.Name)
	}
	if len(t.InsertColumns) > 0 && t.Values == nil {
		return fmt.Errorf("ease/sql: table %q: InsertColumns set without Values", t.Name)
	}
	for _, c := range t.InsertColumns {
		if !t.HasColumn(c) {
			return fmt.Errorf("ease/sql: table %q: insert column %q is not a column", t.Name, c)
		}
	}
	return nil
}

// HasColumn reports whether c is a column of the table.
func (t Table[R, N]) HasColumn(c string) bool {
	return slices.Contains(t.Columns, c)
}
