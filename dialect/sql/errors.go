package sql

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"modernc.org/sqlite"

	"github.com/syssam/ease"
)

// PostgreSQL SQLSTATE codes for constraint violations (Class 23).
const (
	pgNotNullViolation    = "23502"
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// MySQL error numbers for constraint violations.
const (
	mysqlNotNull                = 1048
	mysqlDuplicateEntry         = 1062
	mysqlForeignKeyParent       = 1451 // Cannot delete or update a parent row
	mysqlForeignKeyChild        = 1452 // Cannot add or update a child row
	mysqlCheckConstraintViolate = 3819
)

// sqliteConstraint is the primary result code of SQLITE_CONSTRAINT. The
// extended codes carry it in their low byte.
const sqliteConstraint = 19

// classify maps a driver error to the ease error taxonomy. Constraint
// violations become ease.ConstraintError and lost connections become
// *ease.ConnectionError. Other errors are returned as-is.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case ease.IsConstraintError(err) || ease.IsConnectionError(err) || ease.IsNotFound(err):
		return err
	case IsConstraintError(err):
		return ease.NewConstraintError(err.Error(), err)
	case IsConnectionError(err):
		return ease.NewConnectionError(err)
	}
	return err
}

// IsConstraintError reports if the error resulted from a database
// constraint violation: unique, foreign-key, check or not-null.
func IsConstraintError(err error) bool {
	if err == nil {
		return false
	}
	var (
		pqErr     *pq.Error
		pgErr     *pgconn.PgError
		mysqlErr  *mysql.MySQLError
		sqliteErr *sqlite.Error
	)
	switch {
	case errors.As(err, &pqErr):
		return isPostgresConstraint(string(pqErr.Code))
	case errors.As(err, &pgErr):
		return isPostgresConstraint(pgErr.Code)
	case errors.As(err, &mysqlErr):
		switch mysqlErr.Number {
		case mysqlNotNull, mysqlDuplicateEntry, mysqlForeignKeyParent, mysqlForeignKeyChild, mysqlCheckConstraintViolate:
			return true
		}
		return false
	case errors.As(err, &sqliteErr):
		return sqliteErr.Code()&0xff == sqliteConstraint
	}
	// Fallback to string matching for drivers that don't expose codes.
	return containsAny(err.Error(),
		"Error 1062",                 // MySQL
		"violates unique constraint", // Postgres
		"violates foreign key constraint",
		"violates check constraint",
		"UNIQUE constraint failed", // SQLite
		"FOREIGN KEY constraint failed",
		"CHECK constraint failed",
		"NOT NULL constraint failed",
	)
}

func isPostgresConstraint(code string) bool {
	switch code {
	case pgNotNullViolation, pgForeignKeyViolation, pgUniqueViolation, pgCheckViolation:
		return true
	}
	return false
}

// IsConnectionError reports if the error resulted from a broken or
// unreachable database connection.
func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) || errors.Is(err, mysql.ErrInvalidConn) {
		return true
	}
	var (
		netErr     net.Error
		connectErr *pgconn.ConnectError
	)
	return errors.As(err, &netErr) || errors.As(err, &connectErr)
}

// containsAny returns true if s contains any of the substrings.
func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
