package gen

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/ease/schema"
)

// Dialect generates the storage-specific file of each record, next to the
// storage-independent client generated by JenniferGenerator.
//
// Usage:
//
//	import "github.com/syssam/ease/compiler/gen/sql"
//
//	generator := gen.NewJenniferGenerator(graph, outDir)
//	generator.WithDialect(sql.NewDialect(generator))
type Dialect interface {
	// Name returns the dialect name (e.g., "sql").
	Name() string
	// Feature returns the feature flag that enables the dialect.
	Feature() Feature
	// GenRecord generates the dialect file of a record.
	GenRecord(t *Type) *jen.File
}

// GraphDialect is implemented by dialects that also generate one file for
// the whole graph.
type GraphDialect interface {
	Dialect
	// GenGraph generates the graph-level file. It returns nil when there is
	// nothing to generate.
	GenGraph() *jen.File
}

// GeneratorHelper provides helper methods for dialect implementations.
// JenniferGenerator implements this interface, allowing dialect packages
// to use helper methods without importing the full generator.
type GeneratorHelper interface {
	// NewFile creates a new Jennifer file with the configured header comment.
	NewFile(pkg string) *jen.File

	// GoType returns the Jennifer code for a Go type reference.
	GoType(t schema.TypeRef) *jen.Statement

	// RuntimePkg returns the import path of the ease runtime package.
	RuntimePkg() string

	// SQLPkg returns the import path for the dialect/sql package.
	SQLPkg() string

	// Graph returns the record graph.
	Graph() *Graph

	// Pkg returns the output package name.
	Pkg() string
}
