package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/ease/schema"
)

func TestSynthesizePost(t *testing.T) {
	ops, err := Synthesize(newPost(t), NamingPlural)
	require.NoError(t, err)
	require.Len(t, ops, 35)

	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
	}
	assert.Equal(t, []string{
		"get_ids_by_title", "update_ids_by_title",
		"get_ids_by_body", "update_ids_by_body",
		"get_ids_by_published", "update_ids_by_published",
		"get_by_id", "delete_by_id",
		"get_titles_by_id", "update_titles_by_id",
		"get_titles_by_body", "update_titles_by_body",
		"get_titles_by_published", "update_titles_by_published",
		"get_by_title", "delete_by_title",
		"get_bodys_by_id", "update_bodys_by_id",
		"get_bodys_by_title", "update_bodys_by_title",
		"get_bodys_by_published", "update_bodys_by_published",
		"get_by_body", "delete_by_body",
		"get_publisheds_by_id", "update_publisheds_by_id",
		"get_publisheds_by_title", "update_publisheds_by_title",
		"get_publisheds_by_body", "update_publisheds_by_body",
		"get_by_published", "delete_by_published",
		"insert", "get_all", "delete_all",
	}, names)

	byName := func(name string) *Operation {
		for _, op := range ops {
			if op.Name == name {
				return op
			}
		}
		t.Fatalf("operation %q not found", name)
		return nil
	}
	assert.Equal(t, "GetIDsByTitle", byName("get_ids_by_title").GoName)
	assert.Equal(t, "GetTitlesByID", byName("get_titles_by_id").GoName)
	assert.Equal(t, "UpdatePublishedsByBody", byName("update_publisheds_by_body").GoName)
	assert.Equal(t, "DeleteByID", byName("delete_by_id").GoName)
	assert.Equal(t, "GetAll", byName("get_all").GoName)
}

func TestSynthesizeParams(t *testing.T) {
	r := newPost(t)
	ops, err := Synthesize(r, NamingPlural)
	require.NoError(t, err)

	tests := []struct {
		op     string
		params []string
		roles  []ParamRole
	}{
		{"get_titles_by_id", []string{"queryID"}, []ParamRole{RoleFilter}},
		{"get_by_published", []string{"queryPublished"}, []ParamRole{RoleFilter}},
		{"update_titles_by_id", []string{"queryID", "newTitle"}, []ParamRole{RoleFilter, RoleValue}},
		{"delete_by_title", []string{"queryTitle"}, []ParamRole{RoleFilter}},
		{"insert", []string{"newPost"}, []ParamRole{RoleCompanion}},
		{"get_all", nil, nil},
		{"delete_all", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			var op *Operation
			for _, o := range ops {
				if o.Name == tt.op {
					op = o
				}
			}
			require.NotNil(t, op)
			require.Len(t, op.Params, len(tt.params))
			for i, p := range op.Params {
				assert.Equal(t, tt.params[i], p.GoName)
				assert.Equal(t, tt.roles[i], p.Role)
			}
		})
	}

	update := ops[9]
	require.Equal(t, "update_titles_by_id", update.Name)
	assert.Equal(t, "query_id", update.Params[0].Name)
	assert.Same(t, r.Field("ID"), update.Params[0].Field)
	assert.Equal(t, "new_title", update.Params[1].Name)
	assert.Same(t, r.Field("Title"), update.Params[1].Field)
}

func TestNamingModes(t *testing.T) {
	r, err := schema.NewRecord("Post",
		schema.NewField("ID", schema.Builtin("int")),
		schema.NewField("Body", schema.Builtin("string")),
		schema.NewField("CreatedAt", schema.Named("time", "Time")),
	)
	require.NoError(t, err)
	get := OperationSpec{Kind: KindGetBy, Target: r.Field("Body"), Filter: r.Field("ID")}
	update := OperationSpec{Kind: KindUpdate, Target: r.Field("CreatedAt"), Filter: r.Field("Body")}

	tests := []struct {
		naming Naming
		get    string
		update string
	}{
		{NamingPlural, "get_bodys_by_id", "update_created_ats_by_body"},
		{NamingSingular, "get_body_by_id", "update_created_at_by_body"},
		{NamingInflect, "get_bodies_by_id", "update_created_ats_by_body"},
	}
	for _, tt := range tests {
		t.Run(tt.naming.String(), func(t *testing.T) {
			assert.Equal(t, tt.get, tt.naming.Name(get))
			assert.Equal(t, tt.update, tt.naming.Name(update))
		})
	}
}

func TestSynthesizeInjective(t *testing.T) {
	for _, naming := range []Naming{NamingPlural, NamingSingular, NamingInflect} {
		t.Run(naming.String(), func(t *testing.T) {
			ops, err := Synthesize(newRecord(t, 6), naming)
			require.NoError(t, err)
			names := make(map[string]struct{}, len(ops))
			goNames := make(map[string]struct{}, len(ops))
			for _, op := range ops {
				names[op.Name] = struct{}{}
				goNames[op.GoName] = struct{}{}
			}
			assert.Len(t, names, len(ops))
			assert.Len(t, goNames, len(ops))
		})
	}
}

func TestSynthesizeCollision(t *testing.T) {
	// get_age_by_name_by_zone is both GetBy(return=Age, filter=NameByZone)
	// and GetBy(return=AgeByName, filter=Zone) when names are not pluralized.
	r, err := schema.NewRecord("Person",
		schema.NewField("Age", schema.Builtin("int")),
		schema.NewField("NameByZone", schema.Builtin("string")),
		schema.NewField("AgeByName", schema.Builtin("int")),
		schema.NewField("Zone", schema.Builtin("string")),
	)
	require.NoError(t, err)

	_, err = Synthesize(r, NamingSingular)
	require.Error(t, err)
	assert.True(t, schema.IsUnsupportedSchema(err))
	assert.Contains(t, err.Error(), "get_age_by_name_by_zone")

	_, err = Synthesize(r, NamingPlural)
	assert.NoError(t, err)
}

func TestSynthesizeEmpty(t *testing.T) {
	ops, err := Synthesize(&schema.Record{Name: "Nothing"}, NamingPlural)
	require.Error(t, err)
	assert.Nil(t, ops)
	assert.True(t, schema.IsEmptySchema(err))
}
