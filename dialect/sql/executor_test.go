package sql

import (
	"context"
	"database/sql"
	"errors"
	"net"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ease"
	"github.com/syssam/ease/dialect"
)

type post struct {
	ID        int64
	Title     string
	Body      string
	Published bool
}

type newPost struct {
	Title     string
	Body      string
	Published bool
}

// draft inserts only a title and describes its own columns.
type draft struct {
	Title string
}

func (d draft) InsertColumns() []string { return []string{"title"} }
func (d draft) InsertValues() []any     { return []any{d.Title} }

var postColumns = []string{"id", "title", "body", "published"}

func postTable() Table[post, newPost] {
	return Table[post, newPost]{
		Name:    "posts",
		Columns: postColumns,
		Key:     "id",
		Scan: func(s Scanner) (post, error) {
			var r post
			err := s.Scan(&r.ID, &r.Title, &r.Body, &r.Published)
			return r, err
		},
		InsertColumns: []string{"title", "body", "published"},
		Values: func(n newPost) []any {
			return []any{n.Title, n.Body, n.Published}
		},
	}
}

func draftTable() Table[post, draft] {
	t := postTable()
	return Table[post, draft]{Name: t.Name, Columns: t.Columns, Key: t.Key, Scan: t.Scan}
}

func mockExecutor(t *testing.T, name string) (*Executor[post, newPost], sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewExecutor(OpenDB(name, db), postTable()), mock
}

func postRows() *sqlmock.Rows {
	return sqlmock.NewRows(postColumns)
}

func TestExecutorPostgres(t *testing.T) {
	ctx := context.Background()

	t.Run("FilterByEquals", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		mock.ExpectQuery(`SELECT "id", "title", "body", "published" FROM "posts" WHERE "title" = $1`).
			WithArgs("hello").
			WillReturnRows(postRows().AddRow(1, "hello", "a", true).AddRow(2, "hello", "b", false))
		posts, err := exec.FilterByEquals(ctx, "title", "hello")
		require.NoError(t, err)
		assert.Equal(t, []post{{1, "hello", "a", true}, {2, "hello", "b", false}}, posts)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("FilterByEqualsEmpty", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		mock.ExpectQuery(`SELECT "id", "title", "body", "published" FROM "posts" WHERE "id" = $1`).
			WithArgs(42).
			WillReturnRows(postRows())
		posts, err := exec.FilterByEquals(ctx, "id", 42)
		require.NoError(t, err)
		assert.Empty(t, posts)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateWhereEquals", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		mock.ExpectQuery(`UPDATE "posts" SET "title" = $1 WHERE "id" = $2 RETURNING "id", "title", "body", "published"`).
			WithArgs("new", 1).
			WillReturnRows(postRows().AddRow(1, "new", "a", true))
		p, err := exec.UpdateWhereEquals(ctx, "id", 1, "title", "new")
		require.NoError(t, err)
		assert.Equal(t, post{1, "new", "a", true}, p)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateNotFound", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		mock.ExpectQuery(`UPDATE "posts" SET "title" = $1 WHERE "id" = $2 RETURNING "id", "title", "body", "published"`).
			WithArgs("new", 7).
			WillReturnRows(postRows())
		_, err := exec.UpdateWhereEquals(ctx, "id", 7, "title", "new")
		require.Error(t, err)
		assert.True(t, ease.IsNotFound(err))
		var nf *ease.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "id", nf.Column())
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteWhereEquals", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		mock.ExpectExec(`DELETE FROM "posts" WHERE "published" = $1`).
			WithArgs(false).
			WillReturnResult(sqlmock.NewResult(0, 3))
		n, err := exec.DeleteWhereEquals(ctx, "published", false)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		mock.ExpectQuery(`INSERT INTO "posts" ("title", "body", "published") VALUES ($1, $2, $3) RETURNING "id", "title", "body", "published"`).
			WithArgs("t", "b", true).
			WillReturnRows(postRows().AddRow(5, "t", "b", true))
		p, err := exec.Insert(ctx, newPost{Title: "t", Body: "b", Published: true})
		require.NoError(t, err)
		assert.Equal(t, post{5, "t", "b", true}, p)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LoadAll", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		mock.ExpectQuery(`SELECT "id", "title", "body", "published" FROM "posts"`).
			WillReturnRows(postRows().AddRow(1, "a", "b", false))
		posts, err := exec.LoadAll(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Load", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		mock.ExpectQuery(`SELECT "id", "title", "body", "published" FROM "posts" ORDER BY "id" LIMIT $1`).
			WithArgs(2).
			WillReturnRows(postRows().AddRow(1, "a", "b", false).AddRow(2, "c", "d", true))
		posts, err := exec.Load(ctx, 2)
		require.NoError(t, err)
		assert.Len(t, posts, 2)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LoadNegative", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		_, err := exec.Load(ctx, -1)
		assert.EqualError(t, err, "ease/sql: negative limit -1")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteAll", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.Postgres)
		mock.ExpectExec(`DELETE FROM "posts"`).WillReturnResult(sqlmock.NewResult(0, 9))
		n, err := exec.DeleteAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 9, n)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExecutorMySQL(t *testing.T) {
	ctx := context.Background()

	t.Run("FilterByEquals", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.MySQL)
		mock.ExpectQuery("SELECT `id`, `title`, `body`, `published` FROM `posts` WHERE `body` = ?").
			WithArgs("b").
			WillReturnRows(postRows().AddRow(1, "a", "b", false))
		posts, err := exec.FilterByEquals(ctx, "body", "b")
		require.NoError(t, err)
		assert.Len(t, posts, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateWhereEquals", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.MySQL)
		mock.ExpectExec("UPDATE `posts` SET `published` = ? WHERE `id` = ?").
			WithArgs(true, 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT `id`, `title`, `body`, `published` FROM `posts` WHERE `id` = ? LIMIT 1").
			WithArgs(1).
			WillReturnRows(postRows().AddRow(1, "a", "b", true))
		p, err := exec.UpdateWhereEquals(ctx, "id", 1, "published", true)
		require.NoError(t, err)
		assert.True(t, p.Published)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateNotFound", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.MySQL)
		mock.ExpectExec("UPDATE `posts` SET `published` = ? WHERE `id` = ?").
			WithArgs(true, 9).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT `id`, `title`, `body`, `published` FROM `posts` WHERE `id` = ? LIMIT 1").
			WithArgs(9).
			WillReturnRows(postRows())
		_, err := exec.UpdateWhereEquals(ctx, "id", 9, "published", true)
		assert.True(t, ease.IsNotFound(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Insert", func(t *testing.T) {
		exec, mock := mockExecutor(t, dialect.MySQL)
		mock.ExpectExec("INSERT INTO `posts` (`title`, `body`, `published`) VALUES (?, ?, ?)").
			WithArgs("t", "b", false).
			WillReturnResult(sqlmock.NewResult(12, 1))
		mock.ExpectQuery("SELECT `id`, `title`, `body`, `published` FROM `posts` WHERE `id` = ? LIMIT 1").
			WithArgs(int64(12)).
			WillReturnRows(postRows().AddRow(12, "t", "b", false))
		p, err := exec.Insert(ctx, newPost{Title: "t", Body: "b"})
		require.NoError(t, err)
		assert.Equal(t, int64(12), p.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsertWithoutKey", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()
		table := postTable()
		table.Key = ""
		exec := NewExecutor(OpenDB(dialect.MySQL, db), table)
		mock.ExpectExec("INSERT INTO `posts` (`title`, `body`, `published`) VALUES (?, ?, ?)").
			WithArgs("t", "b", true).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("SELECT `id`, `title`, `body`, `published` FROM `posts` WHERE `title` = ? AND `body` = ? AND `published` = ? LIMIT 1").
			WithArgs("t", "b", true).
			WillReturnRows(postRows().AddRow(3, "t", "b", true))
		p, err := exec.Insert(ctx, newPost{Title: "t", Body: "b", Published: true})
		require.NoError(t, err)
		assert.Equal(t, int64(3), p.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("LoadWithoutKey", func(t *testing.T) {
		db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		require.NoError(t, err)
		defer db.Close()
		table := postTable()
		table.Key = ""
		exec := NewExecutor(OpenDB(dialect.MySQL, db), table)
		mock.ExpectQuery("SELECT `id`, `title`, `body`, `published` FROM `posts` LIMIT ?").
			WithArgs(0).
			WillReturnRows(postRows())
		posts, err := exec.Load(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, posts)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestExecutorInserter(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()
	exec := NewExecutor(OpenDB(dialect.Postgres, db), draftTable())
	mock.ExpectQuery(`INSERT INTO "posts" ("title") VALUES ($1) RETURNING "id", "title", "body", "published"`).
		WithArgs("draft").
		WillReturnRows(postRows().AddRow(1, "draft", "", false))
	p, err := exec.Insert(context.Background(), draft{Title: "draft"})
	require.NoError(t, err)
	assert.Equal(t, "draft", p.Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutorNoInsertColumns(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	t2 := postTable()
	table := Table[post, struct{ Title string }]{Name: t2.Name, Columns: t2.Columns, Scan: t2.Scan}
	exec := NewExecutor(OpenDB(dialect.Postgres, db), table)
	_, err = exec.Insert(context.Background(), struct{ Title string }{"x"})
	assert.ErrorIs(t, err, ErrNoInsertColumns)
}

func TestExecutorUnknownColumn(t *testing.T) {
	exec, mock := mockExecutor(t, dialect.Postgres)
	ctx := context.Background()
	_, err := exec.FilterByEquals(ctx, "title; DROP TABLE posts", "x")
	assert.ErrorContains(t, err, "unknown column")
	_, err = exec.UpdateWhereEquals(ctx, "id", 1, "missing", "x")
	assert.ErrorContains(t, err, "unknown column")
	_, err = exec.DeleteWhereEquals(ctx, "missing", 1)
	assert.ErrorContains(t, err, "unknown column")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestExecutorErrors(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{name: "Connection", err: &net.OpError{Op: "read", Net: "tcp", Err: errors.New("connection reset by peer")}, check: ease.IsConnectionError},
		{name: "ConnDone", err: sql.ErrConnDone, check: ease.IsConnectionError},
		{name: "Constraint", err: errors.New(`pq: duplicate key value violates unique constraint "posts_title_key"`), check: ease.IsConstraintError},
		{name: "Other", err: errors.New("syntax error"), check: func(err error) bool {
			return !ease.IsConnectionError(err) && !ease.IsConstraintError(err) && err.Error() == "syntax error"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, mock := mockExecutor(t, dialect.Postgres)
			mock.ExpectQuery(`SELECT "id", "title", "body", "published" FROM "posts"`).WillReturnError(tt.err)
			_, err := exec.LoadAll(ctx)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error %v", err)
			assert.ErrorIs(t, err, tt.err)

			mock.ExpectExec(`DELETE FROM "posts"`).WillReturnError(tt.err)
			_, err = exec.DeleteAll(ctx)
			assert.True(t, tt.check(err), "unexpected error %v", err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestNewExecutorInvalidTable(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	assert.Panics(t, func() {
		NewExecutor(OpenDB(dialect.Postgres, db), Table[post, newPost]{Name: "posts"})
	})
}
