// Package sql is the SQL query-execution capability of ease: it implements
// ease.Executor over database/sql for PostgreSQL, MySQL and SQLite.
//
// A Table describes how a record maps to its table and is normally declared
// by generated code:
//
//	var PostTable = sql.Table[Post, NewPost]{
//	    Name:    "posts",
//	    Columns: []string{"id", "title", "body", "published"},
//	    Key:     "id",
//	    Scan: func(s sql.Scanner) (Post, error) {
//	        var r Post
//	        err := s.Scan(&r.ID, &r.Title, &r.Body, &r.Published)
//	        return r, err
//	    },
//	    InsertColumns: []string{"title", "body", "published"},
//	    Values: func(n NewPost) []any {
//	        return []any{n.Title, n.Body, n.Published}
//	    },
//	}
//
// An Executor runs one statement per call. PostgreSQL and SQLite return the
// written rows with RETURNING. MySQL writes first and reads the rows back:
// by filter after an update, by LAST_INSERT_ID() after an insert.
//
//	drv, err := sql.Open(dialect.SQLite, "file:ease.db")
//	if err != nil {
//	    return err
//	}
//	exec := sql.NewExecutor(drv, PostTable)
//	posts, err := exec.FilterByEquals(ctx, "published", true)
//
// # Errors
//
// Driver errors are classified into the ease error taxonomy. Unique,
// foreign-key, check and not-null violations are returned as
// ease.ConstraintError. Broken connections are returned as
// *ease.ConnectionError. An update matching no rows returns
// *ease.NotFoundError. All of them keep the driver error in their chain.
//
// # Statistics
//
// StatsDriver counts statements and reports slow ones through a hook or
// log/slog. DebugDriver logs every statement at Debug level.
package sql
