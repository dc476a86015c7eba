package gen

import (
	"fmt"

	"github.com/syssam/ease/schema"
)

// Kind is the kind of a generated operation.
type Kind uint8

// Operation kinds, in the order they first appear for a record.
const (
	KindGetBy     Kind = iota + 1 // select one field by filtering another
	KindUpdate                    // update one field by filtering another
	KindGetRecord                 // select records by filtering a field
	KindDeleteBy                  // delete records by filtering a field
	KindInsert                    // insert a new record
	KindGetAll                    // select all records
	KindDeleteAll                 // delete all records
)

var kindNames = [...]string{
	KindGetBy:     "GetBy",
	KindUpdate:    "Update",
	KindGetRecord: "GetRecord",
	KindDeleteBy:  "DeleteBy",
	KindInsert:    "Insert",
	KindGetAll:    "GetAll",
	KindDeleteAll: "DeleteAll",
}

// String returns the kind name.
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Kinds returns all operation kinds.
func Kinds() []Kind {
	return []Kind{KindGetBy, KindUpdate, KindGetRecord, KindDeleteBy, KindInsert, KindGetAll, KindDeleteAll}
}

// OperationSpec is one operation derived from a record: its kind and the
// fields it is parameterized by.
type OperationSpec struct {
	Kind Kind
	// Target is the returned field of a GetBy, or the updated field of an
	// Update. Nil for other kinds.
	Target *schema.Field
	// Filter is the field compared for equality. Nil for Insert, GetAll and
	// DeleteAll.
	Filter *schema.Field
}

// String returns a description of the operation, such as
// "GetBy(return=Title, filter=ID)".
func (o OperationSpec) String() string {
	switch o.Kind {
	case KindGetBy:
		return fmt.Sprintf("GetBy(return=%s, filter=%s)", o.Target, o.Filter)
	case KindUpdate:
		return fmt.Sprintf("Update(target=%s, filter=%s)", o.Target, o.Filter)
	case KindGetRecord, KindDeleteBy:
		return fmt.Sprintf("%s(filter=%s)", o.Kind, o.Filter)
	default:
		return o.Kind.String()
	}
}

// Enumerate derives the ordered operation sequence of a record.
//
// For every field F in declaration order, and for every other field G in
// declaration order, it emits GetBy(return=F, filter=G) followed by
// Update(target=F, filter=G). After the inner pass over G it emits
// GetRecord(filter=F) and DeleteBy(filter=F). The sequence ends with Insert,
// GetAll and DeleteAll. A record with N fields yields N*(N-1) GetBy and
// Update operations, N GetRecord and DeleteBy operations, and 2*N*N+3
// operations in total.
//
// The result depends only on the record fields and their order. Enumerate
// fails with schema.ErrEmptySchema for a record without fields.
func Enumerate(r *schema.Record) ([]OperationSpec, error) {
	if r == nil {
		return nil, schema.Empty("")
	}
	n := len(r.Fields)
	if n == 0 {
		return nil, schema.Empty(r.Name)
	}
	ops := make([]OperationSpec, 0, 2*n*n+3)
	for i, f := range r.Fields {
		for j, g := range r.Fields {
			// Fields are identified by position, not by name.
			if i == j {
				continue
			}
			ops = append(ops,
				OperationSpec{Kind: KindGetBy, Target: f, Filter: g},
				OperationSpec{Kind: KindUpdate, Target: f, Filter: g},
			)
		}
		ops = append(ops,
			OperationSpec{Kind: KindGetRecord, Filter: f},
			OperationSpec{Kind: KindDeleteBy, Filter: f},
		)
	}
	return append(ops,
		OperationSpec{Kind: KindInsert},
		OperationSpec{Kind: KindGetAll},
		OperationSpec{Kind: KindDeleteAll},
	), nil
}

// CountKinds returns the number of operations of each kind.
func CountKinds(ops []OperationSpec) map[Kind]int {
	counts := make(map[Kind]int, len(kindNames))
	for _, op := range ops {
		counts[op.Kind]++
	}
	return counts
}
