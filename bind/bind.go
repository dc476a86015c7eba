// Package bind binds the synthesized operations of a record to an
// ease.Executor at run time. Each operation becomes a named callable taking
// dynamically typed arguments, which is what command-line front ends and
// scripting layers need when the generated methods cannot be called
// directly.
//
//	set, err := bind.New[models.Post, models.NewPost](record, exec)
//	if err != nil {
//	    return err
//	}
//	titles, err := set.CallStrings(ctx, "get_titles_by_id", "42")
//
// Executor errors are returned unmodified. Argument errors are *ArgError.
package bind

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/syssam/ease"
	"github.com/syssam/ease/compiler/gen"
	"github.com/syssam/ease/schema"
)

// ErrUnknownOperation is returned when calling an operation that is not in
// the set.
var ErrUnknownOperation = errors.New("bind: unknown operation")

// Option configures New.
type Option func(*config)

type config struct {
	naming gen.Naming
}

// WithNaming sets the naming mode of the bound operations.
func WithNaming(n gen.Naming) Option {
	return func(c *config) {
		c.naming = n
	}
}

// Operation is a synthesized operation bound to an executor.
type Operation struct {
	gen.OperationSpec
	// Name is the snake_case operation name.
	Name string
	// GoName is the name of the generated method.
	GoName string
	Params []gen.Param
	Doc    gen.Doc

	types []reflect.Type
	call  func(context.Context, []reflect.Value) (any, error)
	// parse converts string arguments; nil means one string per parameter.
	parse func([]string) ([]reflect.Value, error)
}

// Call runs the operation. Arguments are given in parameter order and must
// be assignable or convertible to the parameter types.
//
// GetBy returns []F, GetRecord and GetAll return []R, Update and Insert
// return R, DeleteBy and DeleteAll return the number of deleted records.
func (o *Operation) Call(ctx context.Context, args ...any) (any, error) {
	if err := o.arity(len(args)); err != nil {
		return nil, err
	}
	vs := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := convert(a, o.types[i])
		if err != nil {
			return nil, o.argError(i, err)
		}
		vs[i] = v
	}
	return o.call(ctx, vs)
}

// CallStrings runs the operation with arguments parsed from strings. The
// companion of Insert is given field by field, in insertion field order.
func (o *Operation) CallStrings(ctx context.Context, args ...string) (any, error) {
	if o.parse != nil {
		vs, err := o.parse(args)
		if err != nil {
			return nil, err
		}
		return o.call(ctx, vs)
	}
	if err := o.arity(len(args)); err != nil {
		return nil, err
	}
	vs := make([]reflect.Value, len(args))
	for i, a := range args {
		v, err := parse(a, o.types[i])
		if err != nil {
			return nil, o.argError(i, err)
		}
		vs[i] = v
	}
	return o.call(ctx, vs)
}

func (o *Operation) arity(n int) error {
	if n != len(o.Params) {
		return &ArgError{Op: o.Name, Index: -1, Err: fmt.Errorf("expect %d arguments, got %d", len(o.Params), n)}
	}
	return nil
}

func (o *Operation) argError(i int, err error) *ArgError {
	return &ArgError{Op: o.Name, Index: i, Param: o.Params[i].Name, Err: err}
}

// Set holds the bound operations of a record in enumeration order.
type Set[R, N any] struct {
	record *schema.Record
	ops    []*Operation
	byName map[string]*Operation
}

// New binds every operation of the record to exec. R must be a struct
// declaring every record field with a matching type; otherwise New fails
// with schema.ErrUnsupportedSchema.
func New[R, N any](record *schema.Record, exec ease.Executor[R, N], opts ...Option) (*Set[R, N], error) {
	if record == nil || exec == nil {
		return nil, errors.New("bind: record and executor are required")
	}
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	rt := reflect.TypeFor[R]()
	index, err := fieldIndex(record, rt)
	if err != nil {
		return nil, err
	}
	ops, err := gen.Synthesize(record, c.naming)
	if err != nil {
		return nil, err
	}
	s := &Set[R, N]{
		record: record,
		ops:    make([]*Operation, len(ops)),
		byName: make(map[string]*Operation, 2*len(ops)),
	}
	b := binder[R, N]{record: record, exec: exec, rt: rt, index: index}
	for i, op := range ops {
		bound := &Operation{
			OperationSpec: op.OperationSpec,
			Name:          op.Name,
			GoName:        op.GoName,
			Params:        op.Params,
			Doc:           op.Doc,
		}
		if err := b.bind(bound); err != nil {
			return nil, err
		}
		s.ops[i] = bound
		s.byName[op.Name] = bound
		s.byName[op.GoName] = bound
	}
	return s, nil
}

// Record returns the record schema of the set.
func (s *Set[R, N]) Record() *schema.Record {
	return s.record
}

// Ops returns the bound operations in enumeration order.
func (s *Set[R, N]) Ops() []*Operation {
	return s.ops
}

// Op returns the operation with the given snake_case or Go name.
func (s *Set[R, N]) Op(name string) (*Operation, bool) {
	op, ok := s.byName[name]
	return op, ok
}

// Call runs the named operation with the given arguments.
func (s *Set[R, N]) Call(ctx context.Context, name string, args ...any) (any, error) {
	op, ok := s.Op(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOperation, name)
	}
	return op.Call(ctx, args...)
}

// CallStrings runs the named operation with arguments parsed from strings.
func (s *Set[R, N]) CallStrings(ctx context.Context, name string, args ...string) (any, error) {
	op, ok := s.Op(name)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownOperation, name)
	}
	return op.CallStrings(ctx, args...)
}

// fieldIndex maps every record field to its struct field index in rt.
func fieldIndex(record *schema.Record, rt reflect.Type) (map[string][]int, error) {
	if rt.Kind() != reflect.Struct {
		return nil, schema.Unsupported(record.Name, "", "bound type %s is not a struct", rt)
	}
	index := make(map[string][]int, len(record.Fields))
	for _, f := range record.Fields {
		sf, ok := rt.FieldByName(f.Name)
		switch {
		case !ok:
			return nil, schema.Unsupported(record.Name, f.Name, "field is missing in %s", rt)
		case !sf.IsExported():
			return nil, schema.Unsupported(record.Name, f.Name, "field of %s is not exported", rt)
		case !typeMatches(sf.Type, f.Type):
			return nil, schema.Unsupported(record.Name, f.Name, "field of %s has type %s, expect %s", rt, sf.Type, f.Type)
		}
		index[f.Name] = sf.Index
	}
	return index, nil
}

// binder builds the callables of one record.
type binder[R, N any] struct {
	record *schema.Record
	exec   ease.Executor[R, N]
	rt     reflect.Type
	index  map[string][]int
}

func (b binder[R, N]) fieldType(f *schema.Field) reflect.Type {
	return b.rt.FieldByIndex(b.index[f.Name]).Type
}

func (b binder[R, N]) bind(op *Operation) error {
	for _, p := range op.Params {
		if p.Role == gen.RoleCompanion {
			op.types = append(op.types, reflect.TypeFor[N]())
		} else {
			op.types = append(op.types, b.fieldType(p.Field))
		}
	}
	switch op.Kind {
	case gen.KindGetBy:
		filter, target := op.Filter.Column, op.Target
		elem := b.fieldType(target)
		idx := b.index[target.Name]
		op.call = func(ctx context.Context, args []reflect.Value) (any, error) {
			records, err := b.exec.FilterByEquals(ctx, filter, args[0].Interface())
			if err != nil {
				return nil, err
			}
			values := reflect.MakeSlice(reflect.SliceOf(elem), len(records), len(records))
			for i, r := range records {
				values.Index(i).Set(reflect.ValueOf(r).FieldByIndex(idx))
			}
			return values.Interface(), nil
		}
	case gen.KindUpdate:
		filter, target := op.Filter.Column, op.Target.Column
		op.call = func(ctx context.Context, args []reflect.Value) (any, error) {
			r, err := b.exec.UpdateWhereEquals(ctx, filter, args[0].Interface(), target, args[1].Interface())
			if err != nil {
				return nil, err
			}
			return r, nil
		}
	case gen.KindGetRecord:
		filter := op.Filter.Column
		op.call = func(ctx context.Context, args []reflect.Value) (any, error) {
			records, err := b.exec.FilterByEquals(ctx, filter, args[0].Interface())
			if err != nil {
				return nil, err
			}
			return records, nil
		}
	case gen.KindDeleteBy:
		filter := op.Filter.Column
		op.call = func(ctx context.Context, args []reflect.Value) (any, error) {
			n, err := b.exec.DeleteWhereEquals(ctx, filter, args[0].Interface())
			if err != nil {
				return nil, err
			}
			return n, nil
		}
	case gen.KindInsert:
		op.call = func(ctx context.Context, args []reflect.Value) (any, error) {
			r, err := b.exec.Insert(ctx, args[0].Interface().(N))
			if err != nil {
				return nil, err
			}
			return r, nil
		}
		op.parse = b.companionParser(op)
	case gen.KindGetAll:
		op.call = func(ctx context.Context, _ []reflect.Value) (any, error) {
			records, err := b.exec.LoadAll(ctx)
			if err != nil {
				return nil, err
			}
			return records, nil
		}
	case gen.KindDeleteAll:
		op.call = func(ctx context.Context, _ []reflect.Value) (any, error) {
			n, err := b.exec.DeleteAll(ctx)
			if err != nil {
				return nil, err
			}
			return n, nil
		}
	default:
		return fmt.Errorf("bind: unknown operation kind %s", op.Kind)
	}
	return nil
}

// companionParser returns the string parser of Insert, filling the
// companion field by field. Companions that are not structs, or lack an
// insertion field, can only be inserted through Call.
func (b binder[R, N]) companionParser(op *Operation) func([]string) ([]reflect.Value, error) {
	nt := reflect.TypeFor[N]()
	fields := b.record.InsertFields()
	unsupported := func(err error) func([]string) ([]reflect.Value, error) {
		return func([]string) ([]reflect.Value, error) {
			return nil, &ArgError{Op: op.Name, Index: 0, Param: op.Params[0].Name, Err: err}
		}
	}
	if nt.Kind() != reflect.Struct {
		return unsupported(fmt.Errorf("companion %s is not a struct", nt))
	}
	index := make([][]int, len(fields))
	for i, f := range fields {
		sf, ok := nt.FieldByName(f.Name)
		if !ok || !sf.IsExported() {
			return unsupported(fmt.Errorf("companion %s has no exported field %s", nt, f.Name))
		}
		index[i] = sf.Index
	}
	return func(args []string) ([]reflect.Value, error) {
		if len(args) != len(fields) {
			return nil, &ArgError{Op: op.Name, Index: -1, Err: fmt.Errorf("expect %d values (%s), got %d", len(fields), fieldList(fields), len(args))}
		}
		n := reflect.New(nt).Elem()
		for i, a := range args {
			fv := n.FieldByIndex(index[i])
			v, err := parse(a, fv.Type())
			if err != nil {
				return nil, &ArgError{Op: op.Name, Index: i, Param: fields[i].Name, Err: err}
			}
			fv.Set(v)
		}
		return []reflect.Value{n}, nil
	}
}

func fieldList(fields []*schema.Field) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	return strings.Join(names, ", ")
}
