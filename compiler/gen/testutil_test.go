package gen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/syssam/ease/schema"
)

// newPost returns the Post{ID, Title, Body, Published} record.
func newPost(t *testing.T) *schema.Record {
	t.Helper()
	r, err := schema.NewRecord("Post",
		schema.NewField("ID", schema.Builtin("int")),
		schema.NewField("Title", schema.Builtin("string")),
		schema.NewField("Body", schema.Builtin("string")),
		schema.NewField("Published", schema.Builtin("bool")),
	)
	require.NoError(t, err)
	return r
}

// newUser returns the User{ID, Name} record.
func newUser(t *testing.T) *schema.Record {
	t.Helper()
	r, err := schema.NewRecord("User",
		schema.NewField("ID", schema.Builtin("int")),
		schema.NewField("Name", schema.Builtin("string")),
	)
	require.NoError(t, err)
	return r
}

// newRecord returns a record with n string fields named FA, FB, and so on.
func newRecord(t testing.TB, n int) *schema.Record {
	t.Helper()
	fields := make([]*schema.Field, n)
	for i := range fields {
		fields[i] = schema.NewField("F"+string(rune('A'+i)), schema.Builtin("string"))
	}
	r, err := schema.NewRecord("Item", fields...)
	require.NoError(t, err)
	return r
}
