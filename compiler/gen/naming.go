package gen

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/syssam/ease/internal/casing"
	"github.com/syssam/ease/schema"
)

// Naming selects how the returned or updated field is spelled in the names
// of GetBy and Update operations.
type Naming uint8

const (
	// NamingPlural appends a literal "s": get_titles_by_id, update_bodys_by_id.
	NamingPlural Naming = iota
	// NamingSingular keeps the field name: get_title_by_id.
	NamingSingular
	// NamingInflect uses English plural rules: get_bodies_by_id.
	NamingInflect
)

var namingNames = [...]string{
	NamingPlural:   "plural",
	NamingSingular: "singular",
	NamingInflect:  "inflect",
}

// String returns the naming mode name.
func (n Naming) String() string {
	if int(n) < len(namingNames) {
		return namingNames[n]
	}
	return fmt.Sprintf("Naming(%d)", n)
}

// ParseNaming parses a naming mode name. The empty string selects NamingPlural.
func ParseNaming(s string) (Naming, error) {
	if s == "" {
		return NamingPlural, nil
	}
	for n, name := range namingNames {
		if strings.EqualFold(s, name) {
			return Naming(n), nil
		}
	}
	return 0, NewConfigError("Naming", s, "unknown naming mode; use plural, singular, or inflect")
}

// MarshalText implements encoding.TextMarshaler.
func (n Naming) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Naming) UnmarshalText(text []byte) error {
	parsed, err := ParseNaming(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// many returns the plural form of a snake_case field word.
func (n Naming) many(word string) string {
	switch n {
	case NamingSingular:
		return word
	case NamingInflect:
		// Only the last word of a compound name is pluralized:
		// created_at => created_ats, category => categories.
		i := strings.LastIndexByte(word, '_')
		return word[:i+1] + inflect.Pluralize(word[i+1:])
	default:
		return word + "s"
	}
}

// ParamRole is the role of an operation parameter.
type ParamRole uint8

const (
	// RoleFilter is a value compared with the filter field.
	RoleFilter ParamRole = iota + 1
	// RoleValue is the new value of the updated field.
	RoleValue
	// RoleCompanion is the new record to insert.
	RoleCompanion
)

// Param is a parameter of a generated operation.
type Param struct {
	// Name is the snake_case parameter name, such as query_id.
	Name string
	// GoName is the Go parameter name, such as queryID.
	GoName string
	Role   ParamRole
	// Field is the field the parameter is typed after. Nil for RoleCompanion.
	Field *schema.Field
}

// word returns the snake_case word used for a field in synthesized names.
func word(f *schema.Field) string {
	return casing.Snake(f.Name)
}

// Name returns the snake_case name of the operation:
//
//	GetBy(return=F, filter=G)  get_<F>s_by_<G>
//	GetRecord(filter=F)        get_by_<F>
//	Update(target=F, filter=G) update_<F>s_by_<G>
//	DeleteBy(filter=F)         delete_by_<F>
//	Insert                     insert
//	GetAll                     get_all
//	DeleteAll                  delete_all
func (n Naming) Name(op OperationSpec) string {
	switch op.Kind {
	case KindGetBy:
		return "get_" + n.many(word(op.Target)) + "_by_" + word(op.Filter)
	case KindUpdate:
		return "update_" + n.many(word(op.Target)) + "_by_" + word(op.Filter)
	case KindGetRecord:
		return "get_by_" + word(op.Filter)
	case KindDeleteBy:
		return "delete_by_" + word(op.Filter)
	case KindInsert:
		return "insert"
	case KindGetAll:
		return "get_all"
	case KindDeleteAll:
		return "delete_all"
	default:
		return ""
	}
}

// Params returns the parameters of the operation in call order. The filter
// value comes first, followed by the new value of an Update.
func Params(r *schema.Record, op OperationSpec) []Param {
	switch op.Kind {
	case KindGetBy, KindGetRecord, KindDeleteBy:
		return []Param{newParam("query_"+word(op.Filter), RoleFilter, op.Filter)}
	case KindUpdate:
		return []Param{
			newParam("query_"+word(op.Filter), RoleFilter, op.Filter),
			newParam("new_"+word(op.Target), RoleValue, op.Target),
		}
	case KindInsert:
		return []Param{newParam("new_"+casing.Snake(r.Name), RoleCompanion, nil)}
	default:
		return nil
	}
}

func newParam(name string, role ParamRole, f *schema.Field) Param {
	return Param{Name: name, GoName: casing.Camel(name), Role: role, Field: f}
}

// Operation is an OperationSpec with its synthesized names and documentation.
type Operation struct {
	OperationSpec
	// Name is the snake_case operation name.
	Name string
	// GoName is the exported Go method name.
	GoName string
	Params []Param
	Doc    Doc
}

// Synthesize enumerates the operations of a record and names and documents
// each of them. It fails with schema.ErrUnsupportedSchema if two operations
// end up with the same name, in snake_case or Go form, or if a name is not
// a valid identifier.
func Synthesize(r *schema.Record, naming Naming) ([]*Operation, error) {
	specs, err := Enumerate(r)
	if err != nil {
		return nil, err
	}
	var (
		ops     = make([]*Operation, len(specs))
		names   = make(map[string]OperationSpec, len(specs))
		goNames = make(map[string]OperationSpec, len(specs))
	)
	for i, spec := range specs {
		op := &Operation{
			OperationSpec: spec,
			Name:          naming.Name(spec),
			Params:        Params(r, spec),
		}
		op.GoName = casing.Pascal(op.Name)
		if !token.IsIdentifier(op.GoName) {
			return nil, schema.Unsupported(r.Name, "", "operation %s has invalid name %q", spec, op.GoName)
		}
		if prev, ok := names[op.Name]; ok {
			return nil, schema.Unsupported(r.Name, "", "operations %s and %s are both named %q", prev, spec, op.Name)
		}
		if prev, ok := goNames[op.GoName]; ok {
			return nil, schema.Unsupported(r.Name, "", "operations %s and %s are both named %q", prev, spec, op.GoName)
		}
		names[op.Name], goNames[op.GoName] = spec, spec
		op.Doc = Document(r, naming, spec, op.Params)
		ops[i] = op
	}
	return ops, nil
}
