// Package ease defines the runtime contract shared by the code generated
// from a record declaration and the query-execution capability it is bound
// to.
//
// For a record such as
//
//	type Post struct {
//		ID        int
//		Title     string
//		Body      string
//		Published bool
//	}
//
// the generator derives a fixed grammar of operations (get_titles_by_id,
// update_titles_by_id, get_by_id, delete_by_id, insert, get_all,
// delete_all, ...). Each generated operation performs exactly one call on an
// Executor and returns its error unmodified.
package ease

import "context"

// Executor is the query-execution capability the generated operations are
// bound to. R is the record type and N its insertion companion (NewR).
//
// Column arguments are the column names of the record fields. Implementations
// report failures with the errors of this package (NotFoundError,
// ConstraintError, ConnectionError) or with any engine-defined error.
type Executor[R, N any] interface {
	// FilterByEquals returns all records whose column equals value.
	// An empty result is not an error.
	FilterByEquals(ctx context.Context, column string, value any) ([]R, error)
	// UpdateWhereEquals sets target to newValue on the records whose filter
	// column equals filterValue and returns an updated record. It returns a
	// NotFoundError if no row matched.
	UpdateWhereEquals(ctx context.Context, filter string, filterValue any, target string, newValue any) (R, error)
	// DeleteWhereEquals deletes the records whose column equals value and
	// returns the number of deleted rows.
	DeleteWhereEquals(ctx context.Context, column string, value any) (int, error)
	// Insert stores the new record and returns it as persisted.
	Insert(ctx context.Context, n N) (R, error)
	// LoadAll returns every record.
	LoadAll(ctx context.Context) ([]R, error)
	// Load returns at most limit records. It is not one of the enumerated
	// operations; generated clients expose it next to them.
	Load(ctx context.Context, limit int) ([]R, error)
	// DeleteAll deletes every record and returns the number of deleted rows.
	DeleteAll(ctx context.Context) (int, error)
}

// Inserter can be implemented by a companion type to describe its own
// insert columns, when the generator did not see its declaration.
type Inserter interface {
	InsertColumns() []string
	InsertValues() []any
}
