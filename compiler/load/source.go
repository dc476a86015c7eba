package load

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"path"
	"reflect"
	"strconv"
	"strings"

	"github.com/syssam/ease/schema"
)

// GoFile loads records from the Go source file at path.
func GoFile(filename string, types ...string) ([]*schema.Record, error) {
	return Source(filename, nil, types...)
}

// Source loads records from a Go source file. If src is nil, the file is
// read from filename; otherwise src is a string, []byte or io.Reader as
// accepted by go/parser.
func Source(filename string, src any, types ...string) ([]*schema.Record, error) {
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, filename, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	decls, err := fileDecls(f)
	if err != nil {
		return nil, err
	}
	return collect("", decls, types)
}

// fileDecls returns the named type declarations of the file.
func fileDecls(f *ast.File) ([]rawType, error) {
	imports := fileImports(f)
	var decls []rawType
	for _, d := range f.Decls {
		gd, ok := d.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts := spec.(*ast.TypeSpec)
			doc := ts.Doc
			if doc == nil && len(gd.Specs) == 1 {
				doc = gd.Doc
			}
			marked, table, err := parseDirective(commentLines(doc))
			if err != nil {
				return nil, err
			}
			d := rawType{name: ts.Name.Name, marked: marked, table: table}
			if st, ok := ts.Type.(*ast.StructType); ok && ts.TypeParams == nil {
				d.isStruct = true
				d.fields = structFields(st, imports)
			}
			decls = append(decls, d)
		}
	}
	return decls, nil
}

func commentLines(g *ast.CommentGroup) []string {
	if g == nil {
		return nil
	}
	lines := make([]string, len(g.List))
	for i, c := range g.List {
		lines[i] = c.Text
	}
	return lines
}

// fileImports maps the package names used in the file to import paths.
func fileImports(f *ast.File) map[string]string {
	m := make(map[string]string, len(f.Imports))
	for _, spec := range f.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		name := importName(p)
		if spec.Name != nil {
			name = spec.Name.Name
		}
		m[name] = p
	}
	return m
}

// importName guesses the package name of an import path.
func importName(p string) string {
	name := schema.Named(p, "T").PkgName()
	// gopkg.in/yaml.v3 is imported as yaml.
	if i := strings.Index(name, ".v"); i > 0 && strings.HasPrefix(path.Base(p), name[:i]) {
		name = name[:i]
	}
	return name
}

func structFields(st *ast.StructType, imports map[string]string) []rawField {
	var fields []rawField
	for _, fl := range st.Fields.List {
		var tag reflect.StructTag
		if fl.Tag != nil {
			if s, err := strconv.Unquote(fl.Tag.Value); err == nil {
				tag = reflect.StructTag(s)
			}
		}
		typ, typeErr := typeRef(fl.Type, imports)
		if len(fl.Names) == 0 {
			fields = append(fields, rawField{name: embeddedName(fl.Type), tag: tag, embedded: true})
			continue
		}
		for _, n := range fl.Names {
			fields = append(fields, rawField{name: n.Name, tag: tag, typ: typ, typeErr: typeErr})
		}
	}
	return fields
}

func embeddedName(e ast.Expr) string {
	switch e := e.(type) {
	case *ast.StarExpr:
		return embeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.Ident:
		return e.Name
	case *ast.IndexExpr:
		return embeddedName(e.X)
	}
	return ""
}

// typeRef converts a field type expression to a TypeRef.
func typeRef(e ast.Expr, imports map[string]string) (schema.TypeRef, error) {
	switch e := e.(type) {
	case *ast.Ident:
		return schema.Builtin(e.Name), nil
	case *ast.StarExpr:
		t, err := typeRef(e.X, imports)
		return t.Ptr(), err
	case *ast.ArrayType:
		t, err := typeRef(e.Elt, imports)
		if err != nil || e.Len == nil {
			return t.Slice(), err
		}
		lit, ok := e.Len.(*ast.BasicLit)
		if !ok || lit.Kind != token.INT {
			return t, fmt.Errorf("array length must be an integer literal")
		}
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return t, fmt.Errorf("invalid array length %s", lit.Value)
		}
		t.Mods = append([]string{"[" + strconv.FormatInt(n, 10) + "]"}, t.Mods...)
		return t, nil
	case *ast.SelectorExpr:
		x, ok := e.X.(*ast.Ident)
		if !ok {
			break
		}
		p, ok := imports[x.Name]
		if !ok {
			return schema.TypeRef{}, fmt.Errorf("package %s is not imported", x.Name)
		}
		return schema.Named(p, e.Sel.Name), nil
	case *ast.MapType:
		return schema.TypeRef{}, fmt.Errorf("map types are not supported")
	case *ast.ChanType:
		return schema.TypeRef{}, fmt.Errorf("channel types are not supported")
	case *ast.FuncType:
		return schema.TypeRef{}, fmt.Errorf("function types are not supported")
	case *ast.InterfaceType:
		return schema.TypeRef{}, fmt.Errorf("interface types are not supported")
	case *ast.StructType:
		return schema.TypeRef{}, fmt.Errorf("anonymous struct types are not supported")
	case *ast.IndexExpr, *ast.IndexListExpr:
		return schema.TypeRef{}, fmt.Errorf("generic types are not supported")
	}
	return schema.TypeRef{}, fmt.Errorf("unsupported type expression %T", e)
}
