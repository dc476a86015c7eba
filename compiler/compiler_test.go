package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ease/compiler/gen"
	"github.com/syssam/ease/schema"
)

const postSource = `package models

//ease:record
type Post struct {
	ID        int64
	Title     string
	Body      string
	Published bool
}

type NewPost struct {
	Title     string
	Body      string
	Published bool
}
`

func writeSource(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "post.go", postSource)
	cfg, err := gen.NewConfig(gen.WithTarget(dir), gen.WithFeatureNames("sql", "docs"))
	require.NoError(t, err)

	require.NoError(t, Generate(context.Background(), cfg, []string{src}))
	for _, name := range []string{"post_ease.go", "post_ease_sql.go", "post_ease.txt", "ease_sql.go"} {
		assert.FileExists(t, filepath.Join(dir, name))
	}
	client, err := os.ReadFile(filepath.Join(dir, "post_ease.go"))
	require.NoError(t, err)
	assert.Contains(t, string(client), "package models")
	assert.Contains(t, string(client), "func (pc *PostClient) GetTitlesByID(ctx context.Context, queryID int64) ([]string, error)")
	table, err := os.ReadFile(filepath.Join(dir, "post_ease_sql.go"))
	require.NoError(t, err)
	assert.Contains(t, string(table), `"title", "body", "published"`)
}

func TestGenerateHooks(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "post.go", postSource)
	cfg, err := gen.NewConfig(gen.WithTarget(dir))
	require.NoError(t, err)

	var calls []string
	hook := func(name string) gen.Hook {
		return func(next gen.Generator) gen.Generator {
			return gen.GenerateFunc(func(ctx context.Context, g *gen.Graph) error {
				calls = append(calls, name)
				assert.Equal(t, []string{"Post"}, g.Names())
				return next.Generate(ctx, g)
			})
		}
	}
	require.NoError(t, Generate(context.Background(), cfg, []string{src}, Hooks(hook("outer"), hook("inner"))))
	assert.Equal(t, []string{"outer", "inner"}, calls)

	// A hook can stop the generation.
	stop := func(gen.Generator) gen.Generator {
		return gen.GenerateFunc(func(context.Context, *gen.Graph) error { return assert.AnError })
	}
	assert.ErrorIs(t, Generate(context.Background(), cfg, []string{src}, Hooks(stop)), assert.AnError)
}

func TestGenerateAllOrNothing(t *testing.T) {
	dir := t.TempDir()
	good := writeSource(t, dir, "post.go", postSource)
	bad := writeSource(t, dir, "bad.go", "package models\n\n//ease:record\ntype Bad struct{}\n")
	cfg, err := gen.NewConfig(gen.WithTarget(dir))
	require.NoError(t, err)

	err = Generate(context.Background(), cfg, []string{good, bad})
	require.Error(t, err)
	assert.True(t, schema.IsEmptySchema(err))
	assert.NoFileExists(t, filepath.Join(dir, "post_ease.go"))
}

func TestLoadRecordsTypes(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "post.go", postSource)
	records, err := LoadRecords([]string{src}, Types("NewPost"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "NewPost", records[0].Name)
}

func TestGenerateGraphMissingTarget(t *testing.T) {
	err := GenerateGraph(context.Background(), &gen.Graph{Config: &gen.Config{}})
	assert.True(t, gen.IsConfigError(err))
}

func TestGenerateCheckedIn(t *testing.T) {
	const models = "../examples/cli-post/models"
	dir := t.TempDir()
	cfg, err := gen.NewConfig(gen.WithTarget(dir), gen.WithPackage("models"), gen.WithFeatureNames("sql"))
	require.NoError(t, err)
	require.NoError(t, Generate(context.Background(), cfg, []string{filepath.Join(models, "models.go")}))

	for _, name := range []string{"post_ease.go", "post_ease_sql.go", "ease_sql.go"} {
		t.Run(name, func(t *testing.T) {
			want, err := os.ReadFile(filepath.Join(models, name))
			require.NoError(t, err)
			got, err := os.ReadFile(filepath.Join(dir, name))
			require.NoError(t, err)
			assert.Equal(t, string(want), string(got), "%s is out of date: run go generate ./examples/cli-post/models", name)
		})
	}
}
