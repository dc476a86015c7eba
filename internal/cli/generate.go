package cli

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/syssam/ease/compiler"
	"github.com/syssam/ease/compiler/gen"
)

// GenerateOptions holds flags for the generate and watch commands.
type GenerateOptions struct {
	*RootOptions
	Target  string
	Package string
	Naming  string
	Header  string
	Types   []string
	SQL     bool
	Docs    bool
	Workers int
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenerateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "generate [source]...",
		Short: "Generate the record clients",
		Long: `Generate the Go client of every record declared in the sources.

A source is a Go file, a package directory or a YAML/JSON declaration file.
The generated files are written next to the records unless --target is set.
Nothing is written if any record fails to load or generate.`,
		Example: `  # Generate the clients of the marked types of a package
  easegen generate ./models

  # Generate the client of one type, without the SQL binding
  easegen generate ./models/post.go --type Post --sql=false`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := opts.sources(args)
			if err != nil {
				return err
			}
			cfg, err := opts.genConfig(cmd, sources)
			if err != nil {
				return err
			}
			return opts.generate(cmd.Context(), cfg, sources)
		},
	}

	opts.addFlags(cmd)
	return cmd
}

func (o *GenerateOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.Target, "target", "t", "", "output directory (default: the directory of the first source)")
	cmd.Flags().StringVarP(&o.Package, "package", "p", "", "generated package name (default: base name of the target)")
	cmd.Flags().StringVar(&o.Naming, "naming", "", "operation naming mode (plural|singular|inflect)")
	cmd.Flags().StringVar(&o.Header, "header", "", "header comment of the generated files")
	cmd.Flags().StringSliceVar(&o.Types, "type", nil, "record types to load from Go sources (default: types marked //ease:record)")
	cmd.Flags().BoolVar(&o.SQL, "sql", true, "generate the SQL table bindings")
	cmd.Flags().BoolVar(&o.Docs, "docs", false, "write the operation documentation files")
	cmd.Flags().IntVar(&o.Workers, "workers", 0, "files rendered in parallel (default: GOMAXPROCS)")
}

// sources returns the sources given as arguments, or else the configured ones.
func (o *RootOptions) sources(args []string) ([]string, error) {
	sources := resolveStrings(args, o.Config.Generate.Sources)
	if len(sources) == 0 {
		return nil, ConfigError("no sources: pass them as arguments or set generate.sources", nil)
	}
	return sources, nil
}

// genConfig resolves the generator configuration: flags > config > defaults.
func (o *GenerateOptions) genConfig(cmd *cobra.Command, sources []string) (*gen.Config, error) {
	c := *o.Config
	c.Naming = resolveString(o.Naming, c.Naming)
	c.Header = resolveString(o.Header, c.Header)
	c.Generate.Target = resolveString(o.Target, c.Generate.Target, defaultTarget(sources))
	c.Generate.Package = resolveString(o.Package, c.Generate.Package)
	if o.Workers > 0 {
		c.Generate.Workers = o.Workers
	}
	c.Features = slices.Clone(c.Features)
	if cmd.Flags().Changed("sql") {
		c.Features = toggle(c.Features, gen.FeatureSQL.Name, o.SQL)
	}
	if cmd.Flags().Changed("docs") {
		c.Features = toggle(c.Features, gen.FeatureDocs.Name, o.Docs)
	}
	genOpts, err := c.GenOptions()
	if err != nil {
		return nil, ConfigError("invalid configuration", err)
	}
	cfg, err := gen.NewConfig(genOpts...)
	if err != nil {
		return nil, ConfigError("invalid configuration", err)
	}
	return cfg, nil
}

func (o *GenerateOptions) generate(ctx context.Context, cfg *gen.Config, sources []string) error {
	types := resolveStrings(o.Types, o.Config.Generate.Types)
	err := compiler.Generate(ctx, cfg, sources,
		compiler.Types(types...),
		compiler.Logger(o.Logger),
	)
	if err != nil {
		return generationError("generating", err)
	}
	o.Logger.Info("generated", "target", cfg.Target, "package", cfg.PackageName())
	return nil
}

// defaultTarget returns the directory of the first source.
func defaultTarget(sources []string) string {
	if len(sources) == 0 {
		return ""
	}
	if fi, err := os.Stat(sources[0]); err == nil && fi.IsDir() {
		return sources[0]
	}
	return filepath.Dir(sources[0])
}

// toggle adds or removes the feature name from features.
func toggle(features []string, name string, on bool) []string {
	i := slices.Index(features, name)
	switch {
	case on && i < 0:
		return append(features, name)
	case !on && i >= 0:
		return slices.Delete(features, i, i+1)
	}
	return features
}
