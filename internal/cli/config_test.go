package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ease/compiler/gen"
)

// repoRoot creates a temporary repository root and changes into it.
func repoRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	t.Chdir(root)
	return root
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	path := writeFile(t, filepath.Join(t.TempDir(), "custom.yaml"), "naming: singular")
	found, err := findConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindConfigFile_ExplicitPathNotFound(t *testing.T) {
	_, err := findConfigFile("/nonexistent/path/ease.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFindConfigFile_AutoDiscovery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	configPath := writeFile(t, filepath.Join(root, "ease.yml"), "naming: singular")
	nested := filepath.Join(root, "deep", "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	path, err := findConfigFile("")
	require.NoError(t, err)
	expected, _ := filepath.EvalSymlinks(configPath)
	actual, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, expected, actual)
}

func TestFindConfigFile_StopsAtGitRoot(t *testing.T) {
	outer := t.TempDir()
	writeFile(t, filepath.Join(outer, "ease.yaml"), "naming: singular")
	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	t.Chdir(repo)

	path, err := findConfigFile("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoadConfig_Defaults(t *testing.T) {
	repoRoot(t)
	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, "plural", cfg.Naming)
	assert.Equal(t, []string{"sql"}, cfg.Features)
	assert.Equal(t, "sqlite", cfg.Database.Dialect)
	assert.Empty(t, cfg.Generate.Target)
}

func TestLoadConfig_File(t *testing.T) {
	root := repoRoot(t)
	writeFile(t, filepath.Join(root, "ease.yaml"), `
naming: inflect
header: "Code generated by hand. DO NOT EDIT."
features: [sql, docs]
generate:
  target: models
  package: store
  sources: [models/post.go, /abs/decl.yaml]
  types: [Post]
database:
  dialect: postgres
  url: postgres://localhost/blog
`)
	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.NotEmpty(t, path)
	base := filepath.Dir(path)
	assert.Equal(t, "inflect", cfg.Naming)
	assert.Equal(t, []string{"sql", "docs"}, cfg.Features)
	assert.Equal(t, filepath.Join(base, "models"), cfg.Generate.Target)
	assert.Equal(t, []string{filepath.Join(base, "models", "post.go"), "/abs/decl.yaml"}, cfg.Generate.Sources)
	assert.Equal(t, []string{"Post"}, cfg.Generate.Types)
	assert.Equal(t, "postgres", cfg.Database.Dialect)
	assert.Equal(t, "postgres://localhost/blog", cfg.Database.URL)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	root := repoRoot(t)
	writeFile(t, filepath.Join(root, "ease.yaml"), "naming: inflect\ndatabase:\n  dialect: postgres\n")
	t.Setenv("EASE_NAMING", "singular")
	t.Setenv("EASE_DATABASE_URL", "file:blog.db")
	t.Setenv("EASE_FEATURES", "sql,docs")

	cfg, _, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "singular", cfg.Naming)
	assert.Equal(t, "postgres", cfg.Database.Dialect)
	assert.Equal(t, "file:blog.db", cfg.Database.URL)
	assert.Equal(t, []string{"sql", "docs"}, cfg.Features)
}

func TestLoadConfig_Invalid(t *testing.T) {
	root := repoRoot(t)
	path := writeFile(t, filepath.Join(root, "broken.yaml"), "naming: [unterminated")
	_, _, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestGenOptions(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c := &Config{
			Naming:   "singular",
			Header:   "// custom",
			Features: []string{"docs"},
			Generate: GenerateConfig{Target: "out", Package: "store", Workers: 2},
		}
		opts, err := c.GenOptions()
		require.NoError(t, err)
		cfg, err := gen.NewConfig(opts...)
		require.NoError(t, err)
		assert.Equal(t, gen.NamingSingular, cfg.Naming)
		assert.Equal(t, "out", cfg.Target)
		assert.Equal(t, "store", cfg.PackageName())
		assert.Equal(t, 2, cfg.Workers)
		on, err := cfg.FeatureEnabled("sql")
		require.NoError(t, err)
		assert.False(t, on)
		on, err = cfg.FeatureEnabled("docs")
		require.NoError(t, err)
		assert.True(t, on)
	})

	t.Run("no features", func(t *testing.T) {
		opts, err := (&Config{}).GenOptions()
		require.NoError(t, err)
		cfg, err := gen.NewConfig(opts...)
		require.NoError(t, err)
		on, err := cfg.FeatureEnabled("sql")
		require.NoError(t, err)
		assert.False(t, on)
	})

	t.Run("unknown naming", func(t *testing.T) {
		_, err := (&Config{Naming: "klingon"}).GenOptions()
		assert.True(t, gen.IsConfigError(err))
	})

	t.Run("unknown feature", func(t *testing.T) {
		opts, err := (&Config{Features: []string{"graphql"}}).GenOptions()
		require.NoError(t, err)
		_, err = gen.NewConfig(opts...)
		assert.True(t, gen.IsConfigError(err))
	})
}

func TestToggle(t *testing.T) {
	assert.Equal(t, []string{"sql", "docs"}, toggle([]string{"sql"}, "docs", true))
	assert.Equal(t, []string{"sql"}, toggle([]string{"sql"}, "sql", true))
	assert.Equal(t, []string{"docs"}, toggle([]string{"sql", "docs"}, "sql", false))
	assert.Empty(t, toggle(nil, "sql", false))
}
