package sql

import (
	"context"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/ease/compiler/gen"
)

// Generate is a convenience function to generate the clients of a graph
// with the SQL dialect. Hooks of the caller wrap the returned generator.
//
// Example:
//
//	import "github.com/syssam/ease/compiler/gen/sql"
//	err := sql.Generate(ctx, graph)
func Generate(ctx context.Context, g *gen.Graph) error {
	if g.Config == nil || g.Target == "" {
		return gen.NewConfigError("Target", nil, "missing target directory in config")
	}
	generator := gen.NewJenniferGenerator(g, g.Target)
	generator.WithDialect(NewDialect(generator))
	return generator.Generate(ctx)
}

// Generator returns a gen.Generator running the SQL dialect.
func Generator() gen.Generator {
	return gen.GenerateFunc(Generate)
}

// Dialect implements gen.GraphDialect for SQL databases.
type Dialect struct {
	helper gen.GeneratorHelper
}

// NewDialect creates a new SQL dialect generator.
// The helper parameter should be a *gen.JenniferGenerator.
func NewDialect(helper gen.GeneratorHelper) *Dialect {
	return &Dialect{helper: helper}
}

// Name returns the dialect name.
func (d *Dialect) Name() string {
	return "sql"
}

// Feature returns the feature flag enabling the dialect.
func (d *Dialect) Feature() gen.Feature {
	return gen.FeatureSQL
}

// GenRecord generates the {record}_ease_sql.go file.
func (d *Dialect) GenRecord(t *gen.Type) *jen.File {
	return genTable(d.helper, t)
}

// GenGraph generates the ease_sql.go file.
func (d *Dialect) GenGraph() *jen.File {
	return genClients(d.helper)
}

var _ gen.GraphDialect = (*Dialect)(nil)
