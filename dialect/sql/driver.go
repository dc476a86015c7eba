package sql

import (
	"context"
	"database/sql"
	"strings"

	"github.com/syssam/ease/dialect"
)

// ExecQuerier wraps the standard Exec and Query methods.
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Querier is an ExecQuerier aware of the dialect it speaks. It is the
// connection type accepted by the generated New<Record>SQLClient functions.
type Querier interface {
	ExecQuerier
	Dialect() string
}

// Conn implements Querier given an ExecQuerier and the name of the
// database/sql driver it was opened with.
type Conn struct {
	ExecQuerier
	dialect string
}

// NewConn returns a Conn for the given ExecQuerier, such as *sql.DB,
// *sql.Tx or *sql.Conn.
func NewConn(driverName string, ex ExecQuerier) Conn {
	return Conn{ExecQuerier: ex, dialect: driverName}
}

// Dialect returns the dialect of the connection. Driver names that are
// aliases of a supported dialect ("pgx", "sqlite3") are normalized.
func (c Conn) Dialect() string {
	switch {
	case strings.HasPrefix(c.dialect, "pgx"):
		return dialect.Postgres
	case strings.HasPrefix(c.dialect, "sqlite"):
		return dialect.SQLite
	}
	// If the underlying driver is wrapped with a telemetry driver.
	for _, name := range dialect.Names() {
		if strings.HasPrefix(c.dialect, name) {
			return name
		}
	}
	return c.dialect
}

// Driver is a Querier over a *sql.DB.
type Driver struct {
	Conn
}

// NewDriver creates a new Driver with the given Conn.
func NewDriver(c Conn) *Driver {
	return &Driver{Conn: c}
}

// Open wraps the database/sql.Open method and returns a Driver.
func Open(driverName, source string) (*Driver, error) {
	db, err := sql.Open(driverName, source)
	if err != nil {
		return nil, err
	}
	return OpenDB(driverName, db), nil
}

// OpenDB wraps the given database/sql.DB with a Driver.
func OpenDB(driverName string, db *sql.DB) *Driver {
	return NewDriver(NewConn(driverName, db))
}

// DB returns the underlying *sql.DB instance.
func (d *Driver) DB() *sql.DB {
	return d.ExecQuerier.(*sql.DB)
}

// PingContext verifies the connection to the database is alive.
func (d *Driver) PingContext(ctx context.Context) error {
	if err := d.DB().PingContext(ctx); err != nil {
		return classify(err)
	}
	return nil
}

// Close closes the underlying connection.
func (d *Driver) Close() error { return d.DB().Close() }

type (
	// Result is an alias to sql.Result.
	Result = sql.Result
	// Rows is an alias to sql.Rows.
	Rows = sql.Rows
)

var (
	_ Querier = Conn{}
	_ Querier = (*Driver)(nil)
)
