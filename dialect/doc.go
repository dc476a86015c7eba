// Package dialect holds the names of the SQL dialects supported by the
// ease query executor.
//
// The following dialects are supported:
//
//   - Postgres: PostgreSQL, through github.com/lib/pq ("postgres") or
//     github.com/jackc/pgx/v5/stdlib ("pgx")
//   - MySQL: MySQL/MariaDB, through github.com/go-sql-driver/mysql
//   - SQLite: SQLite, through modernc.org/sqlite
//
// Opening a database connection:
//
//	import (
//	    "github.com/syssam/ease/dialect"
//	    "github.com/syssam/ease/dialect/sql"
//	)
//
//	drv, err := sql.Open(dialect.Postgres, "postgres://...")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Close()
//
//	posts := models.NewPostSQLClient(drv)
package dialect

// Dialect names, as registered by the database/sql drivers.
const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Names returns the supported dialect names.
func Names() []string {
	return []string{Postgres, MySQL, SQLite}
}

// Supported reports whether name is a supported dialect.
func Supported(name string) bool {
	switch name {
	case Postgres, MySQL, SQLite:
		return true
	}
	return false
}
