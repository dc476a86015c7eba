package sql

// Register the database/sql drivers of the supported dialects, so Open
// accepts "postgres", "pgx", "mysql" and "sqlite" without further imports.
import (
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)
