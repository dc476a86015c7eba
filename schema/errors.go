package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the two kinds of schema failures. Both are fatal at
// generation time.
var (
	// ErrEmptySchema indicates a record declaration without fields.
	ErrEmptySchema = errors.New("ease: empty schema")
	// ErrUnsupportedSchema indicates a declaration that cannot be turned into
	// a record: positional or embedded fields, non-struct types, unsupported
	// field types, or names that collide after synthesis.
	ErrUnsupportedSchema = errors.New("ease: unsupported schema")
)

// ErrorKind classifies a SchemaError.
type ErrorKind int

const (
	// KindUnsupported is the kind of ErrUnsupportedSchema failures.
	KindUnsupported ErrorKind = iota
	// KindEmpty is the kind of ErrEmptySchema failures.
	KindEmpty
)

// String returns the kind name.
func (k ErrorKind) String() string {
	if k == KindEmpty {
		return "empty schema"
	}
	return "unsupported schema"
}

// SchemaError describes why a declaration was rejected.
type SchemaError struct {
	Kind    ErrorKind
	Record  string // Record type name
	Field   string // Field name (if applicable)
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("ease: ")
	b.WriteString(e.Kind.String())
	if e.Record != "" {
		b.WriteString(" on record ")
		b.WriteString(e.Record)
	}
	if e.Field != "" {
		b.WriteString(" field ")
		b.WriteString(e.Field)
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap returns the underlying error.
func (e *SchemaError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches the sentinel error of the error kind.
func (e *SchemaError) Is(target error) bool {
	switch e.Kind {
	case KindEmpty:
		return target == ErrEmptySchema
	default:
		return target == ErrUnsupportedSchema
	}
}

// Empty returns an ErrEmptySchema error for the given record.
func Empty(record string) *SchemaError {
	return &SchemaError{Kind: KindEmpty, Record: record, Message: "record must declare at least one field"}
}

// Unsupported returns an ErrUnsupportedSchema error for the given record and field.
func Unsupported(record, field, format string, args ...any) *SchemaError {
	return &SchemaError{Kind: KindUnsupported, Record: record, Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsSchemaError reports whether the error is a SchemaError.
func IsSchemaError(err error) bool {
	var schemaErr *SchemaError
	return errors.As(err, &schemaErr)
}

// IsEmptySchema reports whether err is, or wraps, an ErrEmptySchema error.
func IsEmptySchema(err error) bool {
	return errors.Is(err, ErrEmptySchema)
}

// IsUnsupportedSchema reports whether err is, or wraps, an ErrUnsupportedSchema error.
func IsUnsupportedSchema(err error) bool {
	return errors.Is(err, ErrUnsupportedSchema)
}
