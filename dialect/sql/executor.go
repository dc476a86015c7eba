package sql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/syssam/ease"
	"github.com/syssam/ease/dialect"
)

// ErrNoInsertColumns is returned by Insert when the table declares no
// insert columns and the companion does not implement ease.Inserter.
var ErrNoInsertColumns = errors.New("ease/sql: no insert columns: declare Table.InsertColumns or implement ease.Inserter")

// Executor implements ease.Executor on a SQL table. Every call runs a single
// statement, except on MySQL where writes are followed by a read since it
// lacks RETURNING.
type Executor[R, N any] struct {
	drv   Querier
	table Table[R, N]
}

// NewExecutor returns an executor running the statements of table on drv.
// It panics if the table descriptor is invalid, as descriptors are
// generated and a failure is a programming error.
func NewExecutor[R, N any](drv Querier, table Table[R, N]) *Executor[R, N] {
	if err := table.Validate(); err != nil {
		panic(err)
	}
	return &Executor[R, N]{drv: drv, table: table}
}

// Table returns the table descriptor of the executor.
func (e *Executor[R, N]) Table() Table[R, N] {
	return e.table
}

func (e *Executor[R, N]) builder() *Builder {
	return Dialect(e.drv.Dialect())
}

func (e *Executor[R, N]) returning() bool {
	return e.drv.Dialect() != dialect.MySQL
}

func (e *Executor[R, N]) column(c string) error {
	if !e.table.HasColumn(c) {
		return fmt.Errorf("ease/sql: unknown column %q in table %q", c, e.table.Name)
	}
	return nil
}

// selectFrom writes SELECT <columns> FROM <table>.
func (e *Executor[R, N]) selectFrom() *Builder {
	return e.builder().WriteString("SELECT ").IdentComma(e.table.Columns...).
		WriteString(" FROM ").Ident(e.table.Name)
}

// FilterByEquals selects every record whose column equals value.
func (e *Executor[R, N]) FilterByEquals(ctx context.Context, column string, value any) ([]R, error) {
	if err := e.column(column); err != nil {
		return nil, err
	}
	b := e.selectFrom().WriteString(" WHERE ").Ident(column).WriteString(" = ").Arg(value)
	return e.query(ctx, b)
}

// UpdateWhereEquals sets target to newValue on every record whose filter
// column equals filterValue, and returns the first updated record.
func (e *Executor[R, N]) UpdateWhereEquals(ctx context.Context, filter string, filterValue any, target string, newValue any) (R, error) {
	var zero R
	if err := e.column(filter); err != nil {
		return zero, err
	}
	if err := e.column(target); err != nil {
		return zero, err
	}
	b := e.builder().WriteString("UPDATE ").Ident(e.table.Name).
		WriteString(" SET ").Ident(target).WriteString(" = ").Arg(newValue).
		WriteString(" WHERE ").Ident(filter).WriteString(" = ").Arg(filterValue)
	var records []R
	if e.returning() {
		b.WriteString(" RETURNING ").IdentComma(e.table.Columns...)
		rs, err := e.query(ctx, b)
		if err != nil {
			return zero, err
		}
		records = rs
	} else {
		if _, err := e.exec(ctx, b); err != nil {
			return zero, err
		}
		// The filter column is not the target, so the updated rows still
		// match the filter.
		rs, err := e.query(ctx, e.selectFrom().WriteString(" WHERE ").Ident(filter).WriteString(" = ").Arg(filterValue).WriteString(" LIMIT 1"))
		if err != nil {
			return zero, err
		}
		records = rs
	}
	if len(records) == 0 {
		return zero, ease.NewNotFoundErrorWithFilter(e.table.Name, filter, filterValue)
	}
	return records[0], nil
}

// DeleteWhereEquals deletes every record whose column equals value and
// returns the number of deleted records.
func (e *Executor[R, N]) DeleteWhereEquals(ctx context.Context, column string, value any) (int, error) {
	if err := e.column(column); err != nil {
		return 0, err
	}
	b := e.builder().WriteString("DELETE FROM ").Ident(e.table.Name).
		WriteString(" WHERE ").Ident(column).WriteString(" = ").Arg(value)
	return e.exec(ctx, b)
}

// Insert inserts the companion value and returns the stored record.
func (e *Executor[R, N]) Insert(ctx context.Context, n N) (R, error) {
	var zero R
	columns, values, err := e.insertValues(n)
	if err != nil {
		return zero, err
	}
	b := e.builder().WriteString("INSERT INTO ").Ident(e.table.Name)
	switch {
	case len(columns) > 0:
		b.WriteString(" (").IdentComma(columns...).WriteString(") VALUES (").Args(values...).WriteString(")")
	case e.returning():
		b.WriteString(" DEFAULT VALUES")
	default:
		b.WriteString(" () VALUES ()")
	}
	if e.returning() {
		b.WriteString(" RETURNING ").IdentComma(e.table.Columns...)
		records, err := e.query(ctx, b)
		if err != nil {
			return zero, err
		}
		if len(records) == 0 {
			return zero, ease.NewNotFoundError(e.table.Name)
		}
		return records[0], nil
	}
	return e.insertThenSelect(ctx, b, columns, values)
}

// insertThenSelect runs the insert and reads the row back by its key, or
// by the inserted values when the table has no key.
func (e *Executor[R, N]) insertThenSelect(ctx context.Context, b *Builder, columns []string, values []any) (R, error) {
	var zero R
	query, args := b.Query()
	res, err := e.drv.ExecContext(ctx, query, args...)
	if err != nil {
		return zero, classify(err)
	}
	sel := e.selectFrom().WriteString(" WHERE ")
	if e.table.Key != "" {
		id, err := res.LastInsertId()
		if err != nil {
			return zero, classify(err)
		}
		sel.Ident(e.table.Key).WriteString(" = ").Arg(id)
	} else {
		if len(columns) == 0 {
			return zero, ease.NewNotFoundError(e.table.Name)
		}
		for i, c := range columns {
			if i > 0 {
				sel.WriteString(" AND ")
			}
			sel.Ident(c).WriteString(" = ").Arg(values[i])
		}
	}
	records, err := e.query(ctx, sel.WriteString(" LIMIT 1"))
	if err != nil {
		return zero, err
	}
	if len(records) == 0 {
		return zero, ease.NewNotFoundError(e.table.Name)
	}
	return records[0], nil
}

func (e *Executor[R, N]) insertValues(n N) ([]string, []any, error) {
	columns, values := e.table.InsertColumns, []any(nil)
	if len(columns) > 0 {
		values = e.table.Values(n)
	} else if ins, ok := any(n).(ease.Inserter); ok {
		columns, values = ins.InsertColumns(), ins.InsertValues()
		for _, c := range columns {
			if err := e.column(c); err != nil {
				return nil, nil, err
			}
		}
	} else {
		return nil, nil, ErrNoInsertColumns
	}
	if len(columns) != len(values) {
		return nil, nil, fmt.Errorf("ease/sql: %d insert columns and %d values for table %q", len(columns), len(values), e.table.Name)
	}
	return columns, values, nil
}

// LoadAll selects every record of the table.
func (e *Executor[R, N]) LoadAll(ctx context.Context) ([]R, error) {
	return e.query(ctx, e.selectFrom())
}

// Load selects at most limit records, ordered by the key column when the
// table has one.
func (e *Executor[R, N]) Load(ctx context.Context, limit int) ([]R, error) {
	if limit < 0 {
		return nil, fmt.Errorf("ease/sql: negative limit %d", limit)
	}
	b := e.selectFrom()
	if e.table.Key != "" {
		b.WriteString(" ORDER BY ").Ident(e.table.Key)
	}
	return e.query(ctx, b.WriteString(" LIMIT ").Arg(limit))
}

// DeleteAll deletes every record of the table and returns their number.
func (e *Executor[R, N]) DeleteAll(ctx context.Context) (int, error) {
	return e.exec(ctx, e.builder().WriteString("DELETE FROM ").Ident(e.table.Name))
}

// query runs the statement and scans all returned rows.
func (e *Executor[R, N]) query(ctx context.Context, b *Builder) (_ []R, rerr error) {
	query, args := b.Query()
	rows, err := e.drv.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { rerr = errors.Join(rerr, rows.Close()) }()
	var records []R
	for rows.Next() {
		r, err := e.table.Scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return records, nil
}

// exec runs the statement and returns the number of affected rows.
func (e *Executor[R, N]) exec(ctx context.Context, b *Builder) (int, error) {
	query, args := b.Query()
	res, err := e.drv.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, classify(err)
	}
	return int(n), nil
}

var (
	_ ease.Executor[struct{}, struct{}] = (*Executor[struct{}, struct{}])(nil)
	_ Scanner                           = (*sql.Rows)(nil)
)
