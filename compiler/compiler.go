// Package compiler runs the whole ease pipeline: it loads record schemas
// from their sources, synthesizes their operations and writes the generated
// clients.
//
//	cfg, err := gen.NewConfig(gen.WithTarget("./models"))
//	if err != nil {
//	    return err
//	}
//	err = compiler.Generate(ctx, cfg, []string{"./models/post.go"}, compiler.Types("Post"))
package compiler

import (
	"context"
	"log/slog"

	"github.com/syssam/ease/compiler/gen"
	"github.com/syssam/ease/compiler/gen/sql"
	"github.com/syssam/ease/compiler/load"
	"github.com/syssam/ease/schema"
)

// Option configures LoadGraph and Generate.
type Option func(*options)

type options struct {
	types  []string
	hooks  []gen.Hook
	logger *slog.Logger
}

// Types selects the record types loaded from Go sources. By default, the
// types marked with the record directive are loaded.
func Types(names ...string) Option {
	return func(o *options) {
		o.types = append(o.types, names...)
	}
}

// Hooks adds generation hooks. The first hook is the outermost one.
func Hooks(hooks ...gen.Hook) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, hooks...)
	}
}

// Logger sets the logger of the generator.
func Logger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func newOptions(opts []Option) *options {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// LoadRecords loads the records of all sources, in order.
func LoadRecords(paths []string, opts ...Option) ([]*schema.Record, error) {
	o := newOptions(opts)
	var records []*schema.Record
	for _, p := range paths {
		rs, err := load.Path(p, o.types...)
		if err != nil {
			return nil, err
		}
		o.logger.Debug("records loaded", "source", p, "records", len(rs))
		records = append(records, rs...)
	}
	return records, nil
}

// LoadGraph loads the records of all sources and builds their graph.
func LoadGraph(cfg *gen.Config, paths []string, opts ...Option) (*gen.Graph, error) {
	records, err := LoadRecords(paths, opts...)
	if err != nil {
		return nil, err
	}
	return gen.NewGraph(cfg, records...)
}

// Generate loads the records of all sources and writes their generated
// code to the configured target. Nothing is written if any record fails to
// load or generate.
func Generate(ctx context.Context, cfg *gen.Config, paths []string, opts ...Option) error {
	g, err := LoadGraph(cfg, paths, opts...)
	if err != nil {
		return err
	}
	return GenerateGraph(ctx, g, opts...)
}

// GenerateGraph writes the generated code of the graph, running the
// generator through the configured hooks.
func GenerateGraph(ctx context.Context, g *gen.Graph, opts ...Option) error {
	if g.Config == nil || g.Target == "" {
		return gen.NewConfigError("Target", nil, "missing target directory in config")
	}
	o := newOptions(opts)
	var next gen.Generator = gen.GenerateFunc(func(ctx context.Context, g *gen.Graph) error {
		generator := gen.NewJenniferGenerator(g, g.Target).WithLogger(o.logger)
		generator.WithDialect(sql.NewDialect(generator))
		return generator.Generate(ctx)
	})
	for i := len(o.hooks) - 1; i >= 0; i-- {
		next = o.hooks[i](next)
	}
	return next.Generate(ctx, g)
}
