package load

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/ease/schema"
)

// Declaration is the file form of a record, as read by File:
//
//	name: Post
//	table: posts
//	package: example.com/blog/models
//	companion:
//	  name: NewPost
//	  fields: [title, body, published]
//	fields:
//	  - {name: ID, type: int64, key: true}
//	  - {name: Title, type: string}
//	  - {name: Body, type: string}
//	  - {name: Published, type: bool}
//	  - {name: CreatedAt, type: time.Time, column: created}
//
// JSON documents use the same keys.
type Declaration struct {
	Name      string             `yaml:"name"`
	Table     string             `yaml:"table,omitempty"`
	Package   string             `yaml:"package,omitempty"`
	Companion *CompanionDecl     `yaml:"companion,omitempty"`
	Fields    []FieldDeclaration `yaml:"fields"`
}

// FieldDeclaration declares one record field.
type FieldDeclaration struct {
	Name   string `yaml:"name"`
	Type   string `yaml:"type"`
	Column string `yaml:"column,omitempty"`
	Key    bool   `yaml:"key,omitempty"`
}

// CompanionDecl declares the insertion companion of a record by listing the
// names of the record fields it carries.
type CompanionDecl struct {
	Name   string   `yaml:"name,omitempty"`
	Fields []string `yaml:"fields"`
}

// File loads the records declared in a YAML or JSON file. A YAML file may
// hold several records, one per document.
func File(path string) ([]*schema.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return Decode(data)
}

// Decode decodes the records declared in YAML or JSON data.
func Decode(data []byte) ([]*schema.Record, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var records []*schema.Record
	for {
		var d Declaration
		err := dec.Decode(&d)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("load: decode declaration %d: %w", len(records)+1, err)
		}
		r, err := d.Record()
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	return records, nil
}

// Record converts the declaration to a validated record.
func (d Declaration) Record() (*schema.Record, error) {
	r := &schema.Record{Name: d.Name, Table: d.Table, Package: d.Package}
	for _, fd := range d.Fields {
		typ, err := schema.ParseTypeRef(fd.Type)
		if err != nil {
			return nil, &schema.SchemaError{Kind: schema.KindUnsupported, Record: d.Name, Field: fd.Name, Message: "unsupported field type", Cause: err}
		}
		f := schema.NewField(fd.Name, typ).WithColumn(fd.Column)
		if fd.Key {
			f.AsKey()
		}
		r.Fields = append(r.Fields, f)
	}
	if d.Companion != nil {
		r.Companion = &schema.Companion{Name: d.Companion.Name}
		for _, name := range d.Companion.Fields {
			f := findField(r.Fields, name)
			if f == nil {
				return nil, schema.Unsupported(d.Name, name, "companion field is not a record field")
			}
			r.Companion.Fields = append(r.Companion.Fields, schema.NewField(f.Name, f.Type).WithColumn(f.Column))
		}
	}
	if err := r.Normalize(); err != nil {
		return nil, err
	}
	return r, nil
}

// findField finds a field by Go name or column.
func findField(fields []*schema.Field, name string) *schema.Field {
	for _, f := range fields {
		if f.Name == name || f.Column == name || schema.DefaultColumn(f.Name) == name {
			return f
		}
	}
	return nil
}
