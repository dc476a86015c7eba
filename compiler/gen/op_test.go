package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ease/schema"
)

func TestEnumerateCounts(t *testing.T) {
	for n := 1; n <= 6; n++ {
		t.Run(string(rune('0'+n)), func(t *testing.T) {
			ops, err := Enumerate(newRecord(t, n))
			require.NoError(t, err)

			counts := CountKinds(ops)
			assert.Equal(t, n*(n-1), counts[KindGetBy])
			assert.Equal(t, n*(n-1), counts[KindUpdate])
			assert.Equal(t, n, counts[KindGetRecord])
			assert.Equal(t, n, counts[KindDeleteBy])
			assert.Equal(t, 1, counts[KindInsert])
			assert.Equal(t, 1, counts[KindGetAll])
			assert.Equal(t, 1, counts[KindDeleteAll])
			assert.Len(t, ops, 2*n*n+3)
		})
	}
}

func TestEnumerateDistinctFields(t *testing.T) {
	ops, err := Enumerate(newRecord(t, 5))
	require.NoError(t, err)
	for _, op := range ops {
		switch op.Kind {
		case KindGetBy, KindUpdate:
			require.NotNil(t, op.Target)
			require.NotNil(t, op.Filter)
			assert.NotEqual(t, op.Target.Position, op.Filter.Position, op.String())
		case KindGetRecord, KindDeleteBy:
			assert.Nil(t, op.Target)
			assert.NotNil(t, op.Filter)
		default:
			assert.Nil(t, op.Target)
			assert.Nil(t, op.Filter)
		}
	}
}

func TestEnumeratePost(t *testing.T) {
	ops, err := Enumerate(newPost(t))
	require.NoError(t, err)

	counts := CountKinds(ops)
	assert.Equal(t, 12, counts[KindGetBy])
	assert.Equal(t, 12, counts[KindUpdate])
	assert.Equal(t, 4, counts[KindGetRecord])
	assert.Equal(t, 4, counts[KindDeleteBy])
	assert.Equal(t, 1, counts[KindInsert])
	assert.Equal(t, 1, counts[KindGetAll])
	assert.Equal(t, 1, counts[KindDeleteAll])

	// The first outer pass over ID, then the start of the pass over Title.
	want := []string{
		"GetBy(return=ID, filter=Title)",
		"Update(target=ID, filter=Title)",
		"GetBy(return=ID, filter=Body)",
		"Update(target=ID, filter=Body)",
		"GetBy(return=ID, filter=Published)",
		"Update(target=ID, filter=Published)",
		"GetRecord(filter=ID)",
		"DeleteBy(filter=ID)",
		"GetBy(return=Title, filter=ID)",
		"Update(target=Title, filter=ID)",
	}
	for i, w := range want {
		assert.Equal(t, w, ops[i].String(), "operation %d", i)
	}
	tail := ops[len(ops)-3:]
	assert.Equal(t, KindInsert, tail[0].Kind)
	assert.Equal(t, KindGetAll, tail[1].Kind)
	assert.Equal(t, KindDeleteAll, tail[2].Kind)
}

func TestEnumerateSingleField(t *testing.T) {
	r, err := schema.NewRecord("Tag", schema.NewField("Label", schema.Builtin("string")))
	require.NoError(t, err)

	ops, err := Enumerate(r)
	require.NoError(t, err)
	require.Len(t, ops, 5)
	assert.Equal(t, "GetRecord(filter=Label)", ops[0].String())
	assert.Equal(t, "DeleteBy(filter=Label)", ops[1].String())
	assert.Equal(t, "Insert", ops[2].String())
	assert.Equal(t, "GetAll", ops[3].String())
	assert.Equal(t, "DeleteAll", ops[4].String())
}

func TestEnumerateEmpty(t *testing.T) {
	ops, err := Enumerate(&schema.Record{Name: "Nothing"})
	require.Error(t, err)
	assert.Nil(t, ops)
	assert.True(t, schema.IsEmptySchema(err))

	_, err = Enumerate(nil)
	assert.True(t, schema.IsEmptySchema(err))
}

func TestEnumerateDeterministic(t *testing.T) {
	r := newPost(t)
	first, err := Enumerate(r)
	require.NoError(t, err)
	second, err := Enumerate(r)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// A record built again from the same declaration yields the same sequence.
	third, err := Enumerate(newPost(t))
	require.NoError(t, err)
	require.Len(t, third, len(first))
	for i := range first {
		assert.Equal(t, first[i].String(), third[i].String())
	}
}

func TestEnumerateFieldOrder(t *testing.T) {
	a, err := schema.NewRecord("Pair",
		schema.NewField("A", schema.Builtin("int")),
		schema.NewField("B", schema.Builtin("int")),
	)
	require.NoError(t, err)
	b, err := schema.NewRecord("Pair",
		schema.NewField("B", schema.Builtin("int")),
		schema.NewField("A", schema.Builtin("int")),
	)
	require.NoError(t, err)

	opsA, err := Enumerate(a)
	require.NoError(t, err)
	opsB, err := Enumerate(b)
	require.NoError(t, err)
	assert.Equal(t, "GetBy(return=A, filter=B)", opsA[0].String())
	assert.Equal(t, "GetBy(return=B, filter=A)", opsB[0].String())
}

func TestKindString(t *testing.T) {
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, k.String())
	}
	assert.Equal(t, []string{"GetBy", "Update", "GetRecord", "DeleteBy", "Insert", "GetAll", "DeleteAll"}, names)
	assert.Equal(t, "Kind(0)", Kind(0).String())
}
