package sql

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ease/compiler/gen"
	"github.com/syssam/ease/schema"
)

func newPost(t *testing.T, companion bool) *schema.Record {
	t.Helper()
	r, err := schema.NewRecord("Post",
		schema.NewField("ID", schema.Builtin("int")),
		schema.NewField("Title", schema.Builtin("string")),
		schema.NewField("PublishedAt", schema.Named("time", "Time")),
	)
	require.NoError(t, err)
	if companion {
		r.Companion = &schema.Companion{
			Name: "NewPost",
			Fields: []*schema.Field{
				schema.NewField("Title", schema.Builtin("string")),
				schema.NewField("PublishedAt", schema.Named("time", "Time")),
			},
		}
		require.NoError(t, r.Normalize())
	}
	return r
}

func newGraph(t *testing.T, records ...*schema.Record) *gen.Graph {
	t.Helper()
	cfg, err := gen.NewConfig(gen.WithTarget(t.TempDir()), gen.WithPackage("models"))
	require.NoError(t, err)
	g, err := gen.NewGraph(cfg, records...)
	require.NoError(t, err)
	return g
}

func read(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// gofmt alignment depends on the neighbours of a line.
	return strings.Join(strings.Fields(string(data)), " ")
}

func TestDialect(t *testing.T) {
	d := NewDialect(nil)
	assert.Equal(t, "sql", d.Name())
	assert.Equal(t, gen.FeatureSQL.Name, d.Feature().Name)
}

func TestGenerate(t *testing.T) {
	g := newGraph(t, newPost(t, true))
	require.NoError(t, Generate(context.Background(), g))

	src := read(t, filepath.Join(g.Target, "post_ease_sql.go"))
	assert.Contains(t, src, "package models")
	assert.Contains(t, src, `"github.com/syssam/ease/dialect/sql"`)
	assert.Contains(t, src, "var PostTable = sql.Table[Post, NewPost]{")
	assert.Contains(t, src, `Name: "posts"`)
	assert.Contains(t, src, `Columns: []string{"id", "title", "published_at"}`)
	assert.Contains(t, src, `Key: "id"`)
	assert.Contains(t, src, "err := s.Scan(&r.ID, &r.Title, &r.PublishedAt)")
	assert.Contains(t, src, `InsertColumns: []string{"title", "published_at"}`)
	assert.Contains(t, src, "return []any{n.Title, n.PublishedAt}")
	assert.Contains(t, src, "func NewPostSQLClient(drv sql.Querier) *PostClient {")
	assert.Contains(t, src, "return NewPostClient(sql.NewExecutor(drv, PostTable))")

	clients := read(t, filepath.Join(g.Target, "ease_sql.go"))
	assert.Contains(t, clients, "type SQLClients struct {")
	assert.Contains(t, clients, "Post *PostClient")
	assert.Contains(t, clients, "func NewSQLClients(drv sql.Querier) *SQLClients {")
	assert.Contains(t, clients, "Post: NewPostSQLClient(drv)")

	assert.FileExists(t, filepath.Join(g.Target, "post_ease.go"))
}

func TestGenerateWithoutCompanion(t *testing.T) {
	g := newGraph(t, newPost(t, false))
	require.NoError(t, Generate(context.Background(), g))

	src := read(t, filepath.Join(g.Target, "post_ease_sql.go"))
	assert.Contains(t, src, "var PostTable = sql.Table[Post, NewPost]{")
	assert.NotContains(t, src, "InsertColumns")
	assert.NotContains(t, src, "Values:")
}

func TestGenerateWithoutKey(t *testing.T) {
	r, err := schema.NewRecord("Tag",
		schema.NewField("Label", schema.Builtin("string")),
		schema.NewField("Weight", schema.Builtin("float64")),
	)
	require.NoError(t, err)
	g := newGraph(t, r)
	require.NoError(t, Generate(context.Background(), g))

	src := read(t, filepath.Join(g.Target, "tag_ease_sql.go"))
	assert.Contains(t, src, `Name: "tags"`)
	assert.NotContains(t, src, "Key:")
}

func TestGenerateMultipleRecords(t *testing.T) {
	user, err := schema.NewRecord("User",
		schema.NewField("ID", schema.Builtin("int")),
		schema.NewField("Name", schema.Builtin("string")),
	)
	require.NoError(t, err)
	g := newGraph(t, newPost(t, true), user)
	require.NoError(t, Generator().Generate(context.Background(), g))

	for _, name := range []string{"post_ease.go", "post_ease_sql.go", "user_ease.go", "user_ease_sql.go", "ease_sql.go"} {
		assert.FileExists(t, filepath.Join(g.Target, name))
	}
	clients := read(t, filepath.Join(g.Target, "ease_sql.go"))
	assert.Contains(t, clients, "User: NewUserSQLClient(drv)")
}

func TestGenerateMissingTarget(t *testing.T) {
	err := Generate(context.Background(), &gen.Graph{Config: &gen.Config{}})
	require.Error(t, err)
	assert.True(t, gen.IsConfigError(err))
}
