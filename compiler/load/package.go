package load

import (
	"errors"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"reflect"
	"strconv"

	"golang.org/x/tools/go/packages"

	"github.com/syssam/ease/schema"
)

// Package loads records from the Go package matching pattern, which may be
// an import path or a directory. Field types are resolved by the type
// checker, so named types keep their exact import paths.
func Package(pattern string, types ...string) ([]*schema.Record, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo,
	}
	if isDir(pattern) {
		cfg.Dir, pattern = pattern, "."
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("load: loading %q: %w", pattern, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("load: pattern %q matched %d packages, expect exactly one", pattern, len(pkgs))
	}
	pkg := pkgs[0]
	if len(pkg.Errors) > 0 {
		errs := make([]error, len(pkg.Errors))
		for i, e := range pkg.Errors {
			errs[i] = e
		}
		return nil, fmt.Errorf("load: package %s: %w", pkg.PkgPath, errors.Join(errs...))
	}
	decls, err := packageDecls(pkg)
	if err != nil {
		return nil, err
	}
	return collect(pkg.PkgPath, decls, types)
}

// packageDecls returns the named type declarations of the package, with
// field types taken from the type checker.
func packageDecls(pkg *packages.Package) ([]rawType, error) {
	var decls []rawType
	for _, f := range pkg.Syntax {
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
				obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
				if !ok {
					decls = append(decls, d)
					continue
				}
				named, isNamed := obj.Type().(*types.Named)
				if st, ok := obj.Type().Underlying().(*types.Struct); ok && (!isNamed || named.TypeParams().Len() == 0) {
					d.isStruct = true
					d.fields = checkedFields(pkg.PkgPath, st)
				}
				decls = append(decls, d)
			}
		}
	}
	return decls, nil
}

func checkedFields(pkgPath string, st *types.Struct) []rawField {
	fields := make([]rawField, st.NumFields())
	for i := range st.NumFields() {
		v := st.Field(i)
		typ, err := checkedType(pkgPath, v.Type())
		fields[i] = rawField{
			name:     v.Name(),
			tag:      reflect.StructTag(st.Tag(i)),
			typ:      typ,
			typeErr:  err,
			embedded: v.Embedded(),
		}
	}
	return fields
}

// checkedType converts a type-checked field type to a TypeRef. Types of the
// record package are left unqualified.
func checkedType(pkgPath string, t types.Type) (schema.TypeRef, error) {
	switch t := types.Unalias(t).(type) {
	case *types.Basic:
		return schema.Builtin(t.Name()), nil
	case *types.Pointer:
		ref, err := checkedType(pkgPath, t.Elem())
		return ref.Ptr(), err
	case *types.Slice:
		ref, err := checkedType(pkgPath, t.Elem())
		return ref.Slice(), err
	case *types.Array:
		ref, err := checkedType(pkgPath, t.Elem())
		ref.Mods = append([]string{"[" + strconv.FormatInt(t.Len(), 10) + "]"}, ref.Mods...)
		return ref, err
	case *types.Named:
		if t.TypeArgs().Len() > 0 {
			return schema.TypeRef{}, fmt.Errorf("generic types are not supported")
		}
		obj := t.Obj()
		if obj.Pkg() == nil || obj.Pkg().Path() == pkgPath {
			return schema.Builtin(obj.Name()), nil
		}
		return schema.Named(obj.Pkg().Path(), obj.Name()), nil
	case *types.Map:
		return schema.TypeRef{}, fmt.Errorf("map types are not supported")
	case *types.Chan:
		return schema.TypeRef{}, fmt.Errorf("channel types are not supported")
	case *types.Signature:
		return schema.TypeRef{}, fmt.Errorf("function types are not supported")
	case *types.Interface:
		return schema.TypeRef{}, fmt.Errorf("interface types are not supported")
	case *types.Struct:
		return schema.TypeRef{}, fmt.Errorf("anonymous struct types are not supported")
	}
	return schema.TypeRef{}, fmt.Errorf("unsupported type %s", t)
}
