package bind

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/syssam/ease/schema"
)

// ArgError reports an invalid operation argument.
type ArgError struct {
	// Op is the snake_case operation name.
	Op string
	// Index of the argument, or -1 for an arity mismatch.
	Index int
	// Param is the parameter name.
	Param string
	Err   error
}

// Error implements the error interface.
func (e *ArgError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("bind: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("bind: %s: argument %d (%s): %v", e.Op, e.Index+1, e.Param, e.Err)
}

// Unwrap returns the underlying error.
func (e *ArgError) Unwrap() error {
	return e.Err
}

var (
	textUnmarshaler = reflect.TypeFor[encoding.TextUnmarshaler]()
	uuidType        = reflect.TypeFor[uuid.UUID]()
)

// convert converts a dynamically typed argument to t.
func convert(a any, t reflect.Type) (reflect.Value, error) {
	if a == nil {
		switch t.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("nil is not a valid %s", t)
	}
	v := reflect.ValueOf(a)
	switch {
	case v.Type().AssignableTo(t):
		return v, nil
	case convertible(v.Type(), t):
		if isNumeric(v.Kind()) && !representable(v, t) {
			return reflect.Value{}, fmt.Errorf("%T %v cannot be represented as %s", a, a, t)
		}
		return v.Convert(t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %T as %s", a, t)
}

// convertible reports whether values of type from can be converted to type
// to: between numeric types, or between types of the same kind. Integer to
// string conversions are excluded. Numeric values must also pass
// representable.
func convertible(from, to reflect.Type) bool {
	if !from.ConvertibleTo(to) {
		return false
	}
	if isNumeric(from.Kind()) {
		return isNumeric(to.Kind())
	}
	return from.Kind() == to.Kind()
}

// representable reports whether the numeric value v converts to t without
// overflow, sign change or a dropped fraction.
func representable(v reflect.Value, t reflect.Type) bool {
	out := v.Convert(t)
	switch {
	case v.CanInt():
		n := v.Int()
		if out.CanUint() && n < 0 {
			return false
		}
		return out.Convert(v.Type()).Int() == n
	case v.CanUint():
		u := v.Uint()
		if out.CanInt() && out.Int() < 0 {
			return false
		}
		return out.Convert(v.Type()).Uint() == u
	case v.CanFloat():
		f := v.Float()
		if out.CanFloat() {
			return !out.OverflowFloat(f)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return false
		}
		if out.CanInt() {
			return f >= math.MinInt64 && f < math.MaxInt64 && !out.OverflowInt(int64(f))
		}
		return f >= 0 && f < math.MaxUint64 && !out.OverflowUint(uint64(f))
	}
	return true
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// parse parses a string argument into a value of type t.
func parse(s string, t reflect.Type) (reflect.Value, error) {
	if t == uuidType {
		id, err := uuid.Parse(s)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(id), nil
	}
	if reflect.PointerTo(t).Implements(textUnmarshaler) {
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return reflect.Value{}, err
		}
		return v.Elem(), nil
	}
	v := reflect.New(t).Elem()
	switch k := t.Kind(); {
	case k == reflect.String:
		v.SetString(s)
	case k == reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid bool %q", s)
		}
		v.SetBool(b)
	case k >= reflect.Int && k <= reflect.Int64:
		n, err := strconv.ParseInt(s, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid %s %q", t, s)
		}
		v.SetInt(n)
	case k >= reflect.Uint && k <= reflect.Uintptr:
		n, err := strconv.ParseUint(s, 0, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid %s %q", t, s)
		}
		v.SetUint(n)
	case k == reflect.Float32 || k == reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("invalid %s %q", t, s)
		}
		v.SetFloat(f)
	case k == reflect.Pointer:
		if s == "null" {
			return reflect.Zero(t), nil
		}
		elem, err := parse(s, t.Elem())
		if err != nil {
			return reflect.Value{}, err
		}
		p := reflect.New(t.Elem())
		p.Elem().Set(elem)
		return p, nil
	case k == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
		v.SetBytes([]byte(s))
	case k == reflect.Slice:
		if s == "" {
			return reflect.MakeSlice(t, 0, 0), nil
		}
		parts := strings.Split(s, ",")
		v = reflect.MakeSlice(t, len(parts), len(parts))
		for i, p := range parts {
			elem, err := parse(strings.TrimSpace(p), t.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			v.Index(i).Set(elem)
		}
	default:
		return reflect.Value{}, fmt.Errorf("cannot parse %s from a string", t)
	}
	return v, nil
}

// typeMatches reports whether rt is the type referenced by ref. Types
// declared next to the record have no package path and match by name.
func typeMatches(rt reflect.Type, ref schema.TypeRef) bool {
	for _, m := range ref.Mods {
		switch {
		case m == "*":
			if rt.Kind() != reflect.Pointer {
				return false
			}
		case m == "[]":
			if rt.Kind() != reflect.Slice {
				return false
			}
		default:
			n, err := schema.ArrayLen(m)
			if err != nil || rt.Kind() != reflect.Array || rt.Len() != n {
				return false
			}
		}
		rt = rt.Elem()
	}
	switch {
	case ref.PkgPath != "":
		return rt.PkgPath() == ref.PkgPath && rt.Name() == ref.Name
	case ref.IsBuiltin():
		if rt.PkgPath() != "" {
			return false
		}
		switch ref.Name {
		case "byte":
			return rt.Kind() == reflect.Uint8
		case "rune":
			return rt.Kind() == reflect.Int32
		}
		return rt.Name() == ref.Name
	}
	return rt.Name() == ref.Name
}
