package schema

import (
	"fmt"
	"go/token"
	"go/types"
	"strconv"
	"strings"
)

// wellKnown maps short package names used in declaration files to their
// import paths.
var wellKnown = map[string]string{
	"big":    "math/big",
	"json":   "encoding/json",
	"netip":  "net/netip",
	"sql":    "database/sql",
	"time":   "time",
	"uuid":   "github.com/google/uuid",
	"pgtype": "github.com/jackc/pgx/v5/pgtype",
}

// TypeRef references the Go type of a record field. It encodes to and from
// text in the syntax accepted by ParseTypeRef.
type TypeRef struct {
	// Mods holds the type modifiers from the outermost in: "*", "[]" or "[N]".
	Mods []string
	// PkgPath is the import path of a named type. Empty for predeclared
	// types and for types declared next to the record.
	PkgPath string
	// Name is the type name without qualifier.
	Name string
}

// Builtin returns a reference to a predeclared type such as int or string.
func Builtin(name string) TypeRef {
	return TypeRef{Name: name}
}

// Named returns a reference to a type declared in the given package.
func Named(pkgPath, name string) TypeRef {
	return TypeRef{PkgPath: pkgPath, Name: name}
}

// Ptr returns a pointer to t.
func (t TypeRef) Ptr() TypeRef {
	return t.wrap("*")
}

// Slice returns a slice of t.
func (t TypeRef) Slice() TypeRef {
	return t.wrap("[]")
}

func (t TypeRef) wrap(mod string) TypeRef {
	mods := make([]string, 0, len(t.Mods)+1)
	mods = append(mods, mod)
	t.Mods = append(mods, t.Mods...)
	return t
}

// IsBuiltin reports whether the element type is predeclared.
func (t TypeRef) IsBuiltin() bool {
	return t.PkgPath == "" && types.Universe.Lookup(t.Name) != nil
}

// PkgName returns the package name used to qualify the type, derived from
// the last import path element.
func (t TypeRef) PkgName() string {
	if t.PkgPath == "" {
		return ""
	}
	parts := strings.Split(t.PkgPath, "/")
	name := parts[len(parts)-1]
	// Major version suffixes (".../pgx/v5") are not part of the package name.
	if len(parts) > 1 && len(name) > 1 && name[0] == 'v' {
		if _, err := strconv.Atoi(name[1:]); err == nil {
			name = parts[len(parts)-2]
		}
	}
	return strings.ReplaceAll(name, "-", "_")
}

// String returns the Go syntax of the type, qualified by package name.
func (t TypeRef) String() string {
	var b strings.Builder
	for _, m := range t.Mods {
		b.WriteString(m)
	}
	if pkg := t.PkgName(); pkg != "" {
		b.WriteString(pkg)
		b.WriteByte('.')
	}
	b.WriteString(t.Name)
	return b.String()
}

// Equal reports whether both references denote the same type.
func (t TypeRef) Equal(u TypeRef) bool {
	if t.PkgPath != u.PkgPath || t.Name != u.Name || len(t.Mods) != len(u.Mods) {
		return false
	}
	for i := range t.Mods {
		if t.Mods[i] != u.Mods[i] {
			return false
		}
	}
	return true
}

// Validate checks that the reference names a type a column can hold.
func (t TypeRef) Validate() error {
	if !token.IsIdentifier(t.Name) {
		return fmt.Errorf("invalid type name %q", t.Name)
	}
	if t.PkgPath == "" {
		if obj := types.Universe.Lookup(t.Name); obj != nil {
			if _, ok := obj.(*types.TypeName); !ok {
				return fmt.Errorf("%q is not a type", t.Name)
			}
			switch t.Name {
			case "error", "any", "comparable":
				return fmt.Errorf("type %q cannot be stored in a column", t.Name)
			}
		}
	}
	for _, m := range t.Mods {
		switch {
		case m == "*", m == "[]":
		case strings.HasPrefix(m, "[") && strings.HasSuffix(m, "]"):
			if _, err := ArrayLen(m); err != nil {
				return err
			}
		default:
			return fmt.Errorf("invalid type modifier %q", m)
		}
	}
	return nil
}

// ArrayLen returns the length of an array modifier such as "[16]".
func ArrayLen(mod string) (int, error) {
	if len(mod) < 2 || mod[0] != '[' || mod[len(mod)-1] != ']' {
		return 0, fmt.Errorf("%q is not an array modifier", mod)
	}
	n, err := strconv.Atoi(mod[1 : len(mod)-1])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid array length in %q", mod)
	}
	return n, nil
}

// ParseTypeRef parses a type expression as written in a declaration file:
//
//	int, *string, []byte, [16]byte, time.Time, *uuid.UUID,
//	github.com/shopspring/decimal.Decimal
//
// Maps, channels, functions, interfaces and anonymous structs are rejected.
// Short package qualifiers resolve through a table of well-known packages;
// an unknown short qualifier is used as the import path itself.
func ParseTypeRef(s string) (TypeRef, error) {
	var t TypeRef
	expr := strings.TrimSpace(s)
	if expr == "" {
		return t, fmt.Errorf("empty type")
	}
	for {
		switch {
		case strings.HasPrefix(expr, "*"):
			t.Mods = append(t.Mods, "*")
			expr = expr[1:]
			continue
		case strings.HasPrefix(expr, "[]"):
			t.Mods = append(t.Mods, "[]")
			expr = expr[2:]
			continue
		case strings.HasPrefix(expr, "["):
			end := strings.IndexByte(expr, ']')
			if end < 0 {
				return TypeRef{}, fmt.Errorf("unterminated array type %q", s)
			}
			t.Mods = append(t.Mods, expr[:end+1])
			expr = expr[end+1:]
			continue
		}
		break
	}
	for _, kw := range []string{"map[", "chan ", "chan<-", "<-chan", "func(", "func ", "interface{", "interface {", "struct{", "struct {"} {
		if strings.HasPrefix(expr, kw) {
			return TypeRef{}, fmt.Errorf("unsupported field type %q", s)
		}
	}
	if i := strings.LastIndexByte(expr, '.'); i >= 0 {
		pkg, name := expr[:i], expr[i+1:]
		if path, ok := wellKnown[pkg]; ok {
			pkg = path
		}
		t.PkgPath, t.Name = pkg, name
	} else {
		t.Name = expr
	}
	if err := t.Validate(); err != nil {
		return TypeRef{}, fmt.Errorf("parse type %q: %w", s, err)
	}
	return t, nil
}

// MarshalText implements encoding.TextMarshaler using the declaration syntax.
func (t TypeRef) MarshalText() ([]byte, error) {
	var b strings.Builder
	for _, m := range t.Mods {
		b.WriteString(m)
	}
	if t.PkgPath != "" {
		b.WriteString(t.PkgPath)
		b.WriteByte('.')
	}
	b.WriteString(t.Name)
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseTypeRef.
func (t *TypeRef) UnmarshalText(text []byte) error {
	parsed, err := ParseTypeRef(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
