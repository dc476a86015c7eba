package load

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/syssam/ease/schema"
)

// Directive marks a struct type as a record in Go sources.
const Directive = "//ease:record"

// ErrNoRecords is returned when a Go source names no record type and marks
// none with the record directive.
var ErrNoRecords = errors.New("load: no record types found: name one or mark it with " + Directive)

// Path loads the records declared at path: a declaration file (.yaml, .yml,
// .json), a Go file or a Go package directory. For Go sources, types selects
// the record types; all marked types are loaded when it is empty.
func Path(path string, types ...string) ([]*schema.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return File(path)
	case ".go":
		return GoFile(path, types...)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load: unsupported source %q: expect a .go, .yaml, .yml or .json file or a package directory", path)
	}
	return Package(path, types...)
}

// rawField is a struct field before validation.
type rawField struct {
	name     string
	tag      reflect.StructTag
	typ      schema.TypeRef
	typeErr  error
	embedded bool
}

// rawType is a named type declaration before validation.
type rawType struct {
	name     string
	isStruct bool
	fields   []rawField
	marked   bool
	table    string
}

// collect builds the selected records out of the declarations of a
// package. Records keep their declaration order when types is empty.
func collect(pkgPath string, decls []rawType, types []string) ([]*schema.Record, error) {
	byName := make(map[string]*rawType, len(decls))
	for i := range decls {
		byName[decls[i].name] = &decls[i]
	}
	var targets []*rawType
	if len(types) == 0 {
		for i := range decls {
			if decls[i].marked {
				targets = append(targets, &decls[i])
			}
		}
		if len(targets) == 0 {
			return nil, ErrNoRecords
		}
	}
	for _, name := range types {
		d, ok := byName[name]
		if !ok {
			return nil, schema.Unsupported(name, "", "type is not declared")
		}
		targets = append(targets, d)
	}
	records := make([]*schema.Record, 0, len(targets))
	for _, d := range targets {
		r, err := d.record(pkgPath)
		if err != nil {
			return nil, err
		}
		if c, ok := byName[r.CompanionName()]; ok {
			if r.Companion, err = c.companion(r.Name); err != nil {
				return nil, err
			}
		}
		if err := r.Normalize(); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (d *rawType) record(pkgPath string) (*schema.Record, error) {
	if !d.isStruct {
		return nil, schema.Unsupported(d.name, "", "type is not a struct")
	}
	r := &schema.Record{Name: d.name, Table: d.table, Package: pkgPath}
	for _, rf := range d.fields {
		f, err := rf.field(d.name)
		if err != nil {
			return nil, err
		}
		r.Fields = append(r.Fields, f)
	}
	return r, nil
}

func (d *rawType) companion(record string) (*schema.Companion, error) {
	if !d.isStruct {
		return nil, schema.Unsupported(record, "", "companion %s is not a struct", d.name)
	}
	c := &schema.Companion{Name: d.name}
	for _, rf := range d.fields {
		f, err := rf.field(record)
		if err != nil {
			return nil, err
		}
		c.Fields = append(c.Fields, f)
	}
	return c, nil
}

// field validates the raw field and applies its tags.
func (rf rawField) field(record string) (*schema.Field, error) {
	switch {
	case rf.embedded:
		return nil, schema.Unsupported(record, rf.name, "embedded fields are not supported")
	case rf.typeErr != nil:
		return nil, &schema.SchemaError{Kind: schema.KindUnsupported, Record: record, Field: rf.name, Message: "unsupported field type", Cause: rf.typeErr}
	}
	f := schema.NewField(rf.name, rf.typ)
	if opts, ok := rf.tag.Lookup("ease"); ok {
		for _, opt := range strings.Split(opts, ",") {
			switch strings.TrimSpace(opt) {
			case "":
			case "key":
				f.AsKey()
			case "-":
				return nil, schema.Unsupported(record, rf.name, `ease:"-" is not supported: every field of a record is persisted`)
			default:
				return nil, schema.Unsupported(record, rf.name, "unknown ease tag option %q", opt)
			}
		}
	}
	if col, ok := rf.tag.Lookup("db"); ok {
		col, _, _ = strings.Cut(col, ",")
		switch col {
		case "":
		case "-":
			return nil, schema.Unsupported(record, rf.name, `db:"-" is not supported: every field of a record is persisted`)
		default:
			f.WithColumn(col)
		}
	}
	return f, nil
}

// parseDirective reports whether the comment group marks a record, and the
// table it names, if any.
func parseDirective(lines []string) (marked bool, table string, err error) {
	for _, line := range lines {
		rest, ok := strings.CutPrefix(line, Directive)
		if !ok || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		marked = true
		for _, arg := range strings.Fields(rest) {
			k, v, _ := strings.Cut(arg, "=")
			switch k {
			case "table":
				if v == "" {
					return false, "", fmt.Errorf("load: empty table in %q", line)
				}
				table = v
			default:
				return false, "", fmt.Errorf("load: unknown directive argument %q in %q", arg, line)
			}
		}
	}
	return marked, table, nil
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
