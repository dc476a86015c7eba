package gen

import (
	"bytes"
	"context"
	"fmt"
	"go/token"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/syssam/ease/schema"
)

const (
	runtimePkg = "github.com/syssam/ease"
	sqlPkg     = "github.com/syssam/ease/dialect/sql"

	clientSuffix = "_ease.go"
)

type (
	// Generator is the interface that wraps the Generate method.
	Generator interface {
		// Generate generates the code of the given graph.
		Generate(context.Context, *Graph) error
	}

	// The GenerateFunc type is an adapter to allow the use of ordinary
	// function as Generator. If f is a function with the appropriate signature,
	// GenerateFunc(f) is a Generator that calls f.
	GenerateFunc func(context.Context, *Graph) error

	// Hook defines the "generate middleware". A function that gets a Generator
	// and returns a Generator. For example:
	//
	//	hook := func(next gen.Generator) gen.Generator {
	//		return gen.GenerateFunc(func(ctx context.Context, g *gen.Graph) error {
	//			fmt.Println("Graph:", g.Names())
	//			return next.Generate(ctx, g)
	//		})
	//	}
	Hook func(Generator) Generator
)

// Generate calls f(ctx, g).
func (f GenerateFunc) Generate(ctx context.Context, g *Graph) error {
	return f(ctx, g)
}

// JenniferGenerator generates the record clients with Jennifer. Every file
// is rendered in memory first, in parallel, and written to disk only when
// all of them rendered successfully.
type JenniferGenerator struct {
	graph   *Graph
	workers int
	outDir  string
	pkg     string
	logger  *slog.Logger

	// imports maps the packages of field types to their names.
	imports map[string]string

	// Dialect generator for storage-specific code.
	dialect      Dialect
	graphDialect GraphDialect
}

// NewJenniferGenerator creates a new Jennifer-based generator writing to outDir.
func NewJenniferGenerator(g *Graph, outDir string) *JenniferGenerator {
	gen := &JenniferGenerator{
		graph:   g,
		workers: 1,
		outDir:  outDir,
		pkg:     filepath.Base(outDir),
		logger:  slog.Default(),
		imports: fieldImports(g),
	}
	if g.Config != nil {
		gen.workers = g.workers()
		if pkg := g.PackageName(); pkg != "" {
			gen.pkg = pkg
		}
	}
	return gen
}

// WithWorkers sets the number of parallel workers.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithPackage sets the output package name.
func (g *JenniferGenerator) WithPackage(pkg string) *JenniferGenerator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// WithLogger sets the logger used to report written files.
func (g *JenniferGenerator) WithLogger(l *slog.Logger) *JenniferGenerator {
	if l != nil {
		g.logger = l
	}
	return g
}

// WithDialect sets the storage dialect generator.
// Graph-level generation is detected via the GraphDialect interface.
func (g *JenniferGenerator) WithDialect(d Dialect) *JenniferGenerator {
	if d != nil {
		g.dialect = d
		if gd, ok := d.(GraphDialect); ok {
			g.graphDialect = gd
		}
	}
	return g
}

// rendered is a generated file waiting to be written.
type rendered struct {
	record string
	name   string
	data   []byte
}

// Generate renders all files of the graph and writes them to the output
// directory. Nothing is written if any file fails to render.
func (g *JenniferGenerator) Generate(ctx context.Context) error {
	dialectOn := false
	if g.dialect != nil {
		on, err := g.graph.FeatureEnabled(g.dialect.Feature().Name)
		if err != nil {
			return err
		}
		dialectOn = on
	} else if on, _ := g.graph.FeatureEnabled(FeatureSQL.Name); on {
		return NewConfigError("Dialect", nil, "sql feature enabled but no dialect set: call WithDialect() before Generate()")
	}
	docsOn, err := g.graph.FeatureEnabled(FeatureDocs.Name)
	if err != nil {
		return err
	}

	var (
		mu    sync.Mutex
		files []rendered
		add   = func(f rendered) {
			mu.Lock()
			files = append(files, f)
			mu.Unlock()
		}
	)
	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for _, t := range g.graph.Nodes {
		errg.Go(func() error {
			data, err := g.render(ctx, g.genClient(t), t.FileName(clientSuffix))
			if err != nil {
				return err
			}
			add(rendered{record: t.Name, name: t.FileName(clientSuffix), data: data})
			return nil
		})
		if dialectOn {
			errg.Go(func() error {
				name := t.FileName(g.dialect.Feature().suffix)
				data, err := g.render(ctx, g.dialect.GenRecord(t), name)
				if err != nil {
					return err
				}
				add(rendered{record: t.Name, name: name, data: data})
				return nil
			})
		}
		if docsOn {
			add(rendered{record: t.Name, name: t.FileName(FeatureDocs.suffix), data: []byte(RenderDocs(t.Ops))})
		}
	}
	if dialectOn && g.graphDialect != nil {
		errg.Go(func() error {
			f := g.graphDialect.GenGraph()
			if f == nil {
				return nil
			}
			name := "ease_" + g.dialect.Name() + ".go"
			data, err := g.render(ctx, f, name)
			if err != nil {
				return err
			}
			add(rendered{name: name, data: data})
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return err
	}

	if err := os.MkdirAll(g.outDir, 0o755); err != nil {
		return NewGenerationError("write", g.outDir, "create target directory", err)
	}
	for _, f := range files {
		if err := g.writeFile(f); err != nil {
			return err
		}
	}
	return g.cleanup(dialectOn, docsOn)
}

// render renders the file into memory.
func (g *JenniferGenerator) render(ctx context.Context, f *jen.File, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, NewGenerationError("render", name, "dialect returned no file", nil)
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, NewGenerationError("render", name, "", err)
	}
	// goimports groups the standard library imports apart from the others.
	out, err := imports.Process(filepath.Join(g.outDir, name), buf.Bytes(), nil)
	if err != nil {
		return nil, NewGenerationError("format", name, "", err)
	}
	return out, nil
}

// writeFile writes a rendered file to the output directory.
func (g *JenniferGenerator) writeFile(f rendered) error {
	path := filepath.Join(g.outDir, f.name)
	if err := os.WriteFile(path, f.data, 0o644); err != nil {
		return NewGenerationError("write", path, "", err)
	}
	g.logger.Debug("file generated", "record", f.record, "path", path, "bytes", len(f.data))
	return nil
}

// cleanup removes the files of disabled features left by previous runs.
func (g *JenniferGenerator) cleanup(dialectOn, docsOn bool) error {
	for _, f := range AllFeatures {
		enabled := (f.Name == FeatureDocs.Name && docsOn) || (f.Name == FeatureSQL.Name && dialectOn)
		if enabled {
			continue
		}
		if err := f.cleanup(g.graph.Config, g.graph.Names()); err != nil {
			return NewGenerationError("cleanup", f.Name, "", err)
		}
	}
	return nil
}

// =============================================================================
// GeneratorHelper interface implementation
// These exported methods allow dialect packages to access helper functionality.
// =============================================================================

// NewFile creates a new Jennifer file with the configured header comment.
func (g *JenniferGenerator) NewFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.ImportName("context", "context")
	f.ImportName(runtimePkg, "ease")
	f.ImportName(sqlPkg, "sql")
	f.ImportNames(g.imports)
	if g.graph.Config != nil {
		f.HeaderComment(g.graph.header())
	} else {
		f.HeaderComment(DefaultHeader)
	}
	return f
}

// GoType returns the Jennifer code for a Go type reference.
func (g *JenniferGenerator) GoType(t schema.TypeRef) *jen.Statement {
	return goType(t)
}

// RuntimePkg returns the import path of the ease runtime package.
func (g *JenniferGenerator) RuntimePkg() string {
	return runtimePkg
}

// SQLPkg returns the import path for the dialect/sql package.
func (g *JenniferGenerator) SQLPkg() string {
	return sqlPkg
}

// Graph returns the record graph.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

// Pkg returns the output package name.
func (g *JenniferGenerator) Pkg() string {
	return g.pkg
}

var _ GeneratorHelper = (*JenniferGenerator)(nil)

// fieldImports returns the package names of the field types whose import
// path ends in their name, so they are imported without an alias.
func fieldImports(g *Graph) map[string]string {
	names := make(map[string]string)
	for _, t := range g.Nodes {
		for _, f := range t.Fields {
			name := f.Type.PkgName()
			if name == "" || !token.IsIdentifier(name) {
				continue
			}
			if last := path.Base(f.Type.PkgPath); last == name || strings.HasSuffix(f.Type.PkgPath, "/"+name+"/"+last) {
				names[f.Type.PkgPath] = name
			}
		}
	}
	return names
}

// goType returns the Jennifer code for a Go type reference.
func goType(t schema.TypeRef) *jen.Statement {
	s := jen.Add()
	for _, m := range t.Mods {
		switch m {
		case "*":
			s.Op("*")
		case "[]":
			s.Index()
		default:
			n, err := schema.ArrayLen(m)
			if err != nil {
				// NewGraph validates every field type before generation.
				panic(fmt.Sprintf("gen: unvalidated field type %s: %v", t, err))
			}
			s.Index(jen.Lit(n))
		}
	}
	if t.PkgPath != "" {
		return s.Qual(t.PkgPath, t.Name)
	}
	return s.Id(t.Name)
}
