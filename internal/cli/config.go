package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/syssam/ease/compiler/gen"
)

const maxWalkDepth = 25

// ConfigNames are the file names of the auto-discovered configuration.
var ConfigNames = []string{"ease.yaml", "ease.yml"}

// Config represents the easegen configuration from ease.yaml.
type Config struct {
	// Naming is the naming mode of GetBy and Update operations.
	Naming   string   `mapstructure:"naming"`
	Header   string   `mapstructure:"header"`
	Features []string `mapstructure:"features"`

	Generate GenerateConfig `mapstructure:"generate"`
	Database DatabaseConfig `mapstructure:"database"`
}

// GenerateConfig holds code generation settings.
type GenerateConfig struct {
	Target  string   `mapstructure:"target"`
	Package string   `mapstructure:"package"`
	Sources []string `mapstructure:"sources"`
	Types   []string `mapstructure:"types"`
	Workers int      `mapstructure:"workers"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Dialect string `mapstructure:"dialect"`
	URL     string `mapstructure:"url"`
}

// LoadConfig discovers and loads configuration with the precedence
// flags > env > config file > defaults. Flags are resolved by the commands.
//
// It returns the loaded config and the path of the config file, empty if
// none was found.
func LoadConfig(explicitConfigPath string) (*Config, string, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("EASE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	configPath, err := findConfigFile(explicitConfigPath)
	if err != nil {
		return nil, "", err
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, configPath, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, configPath, fmt.Errorf("unmarshaling config: %w", err)
	}
	// Relative paths in the file are relative to the file.
	if configPath != "" {
		base := filepath.Dir(configPath)
		cfg.Generate.Target = resolvePath(base, cfg.Generate.Target)
		for i, s := range cfg.Generate.Sources {
			cfg.Generate.Sources[i] = resolvePath(base, s)
		}
	}
	return &cfg, configPath, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("naming", gen.NamingPlural.String())
	v.SetDefault("header", "")
	v.SetDefault("features", []string{gen.FeatureSQL.Name})

	v.SetDefault("generate.target", "")
	v.SetDefault("generate.package", "")
	v.SetDefault("generate.sources", []string{})
	v.SetDefault("generate.types", []string{})
	v.SetDefault("generate.workers", 0)

	v.SetDefault("database.dialect", "sqlite")
	v.SetDefault("database.url", "")
}

// findConfigFile finds the config file to use. An explicit path must exist.
// Otherwise, it walks up from cwd looking for ease.yaml or ease.yml,
// stopping at a .git directory or after maxWalkDepth levels.
func findConfigFile(explicitPath string) (string, error) {
	if explicitPath != "" {
		if _, err := os.Stat(explicitPath); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicitPath)
		}
		return explicitPath, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting cwd: %w", err)
	}
	dir := cwd
	for range maxWalkDepth {
		for _, name := range ConfigNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", nil
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// GenOptions returns the generator options of the configuration.
func (c *Config) GenOptions() ([]gen.Option, error) {
	naming, err := gen.ParseNaming(c.Naming)
	if err != nil {
		return nil, err
	}
	opts := []gen.Option{
		gen.WithNaming(naming),
		// An empty feature list disables every feature.
		gen.WithFeatures(),
		gen.WithFeatureNames(c.Features...),
	}
	if c.Header != "" {
		opts = append(opts, gen.WithHeader(c.Header))
	}
	if c.Generate.Target != "" {
		opts = append(opts, gen.WithTarget(c.Generate.Target))
	}
	if c.Generate.Package != "" {
		opts = append(opts, gen.WithPackage(c.Generate.Package))
	}
	if c.Generate.Workers > 0 {
		opts = append(opts, gen.WithWorkers(c.Generate.Workers))
	}
	return opts, nil
}

// resolveString returns the first non-empty string from the provided values.
func resolveString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// resolveStrings returns the first non-empty slice from the provided values.
func resolveStrings(values ...[]string) []string {
	for _, v := range values {
		if len(v) > 0 {
			return v
		}
	}
	return nil
}
