package field

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapperPrimitives(t *testing.T) {
	m := NewMapper(nil)
	for _, tt := range []struct {
		name   string
		args   []string
		typ    Type
		ident  string
		column string
	}{
		{name: "int", typ: TypeInt32, ident: "int32", column: "int"},
		{name: "integer", typ: TypeInt32, ident: "int32", column: "integer"},
		{name: "bigint", typ: TypeInt64, ident: "int64", column: "bigint"},
		{name: "smallint", typ: TypeInt16, ident: "int16", column: "smallint"},
		{name: "tinyint", typ: TypeInt8, ident: "int8", column: "tinyint"},
		{name: "serial", typ: TypeInt32, ident: "int32", column: "serial"},
		{name: "bigserial", typ: TypeInt64, ident: "int64", column: "bigserial"},
		{name: "varchar", args: []string{"255"}, typ: TypeString, ident: "string", column: "varchar(255)"},
		{name: "text", typ: TypeString, ident: "string", column: "text"},
		{name: "decimal", args: []string{"10", "2"}, typ: TypeFloat64, ident: "float64", column: "decimal(10,2)"},
		{name: "real", typ: TypeFloat32, ident: "float32", column: "real"},
		{name: "boolean", typ: TypeBool, ident: "bool", column: "boolean"},
		{name: "timestamp", typ: TypeTime, ident: "time.Time", column: "timestamp"},
		{name: "bytea", typ: TypeBytes, ident: "[]byte", column: "bytea"},
		{name: "uuid", typ: TypeUUID, ident: "uuid.UUID", column: "uuid"},
		{name: "jsonb", typ: TypeJSON, ident: "json.RawMessage", column: "jsonb"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			info, err := m.Map(tt.name, tt.args, false)
			require.NoError(t, err)
			assert.Equal(t, tt.typ, info.Type)
			assert.Equal(t, tt.ident, info.Ident)
			assert.Equal(t, tt.column, info.Column)
			assert.False(t, info.Nullable)
		})
	}
}

func TestMapperCaseInsensitive(t *testing.T) {
	require := require.New(t)
	m := NewMapper(nil)
	info, err := m.Map("VarChar", []string{"64"}, true)
	require.NoError(err)
	require.Equal(TypeString, info.Type)
	require.Equal("varchar(64)", info.Column)
	require.True(info.Nullable)
}

func TestMapperUnknownType(t *testing.T) {
	require := require.New(t)
	m := NewMapper(nil)
	_, err := m.Map("integr", nil, false)
	require.Error(err)
	require.True(errors.Is(err, ErrUnknownType))
	require.True(IsUnknownTypeError(err))

	var ute *UnknownTypeError
	require.ErrorAs(err, &ute)
	require.Equal("integr", ute.Name)
	require.Contains(err.Error(), `"integr"`)
}

func TestMapperDeterministic(t *testing.T) {
	require := require.New(t)
	m := NewMapper(nil)
	a, err := m.Map("decimal", []string{"10", "2"}, true)
	require.NoError(err)
	b, err := m.Map("decimal", []string{"10", "2"}, true)
	require.NoError(err)
	require.Equal(a, b)
}

func TestMapperOverrides(t *testing.T) {
	require := require.New(t)
	m := NewMapper(map[string]string{"Money": "NUMERIC"})
	info, err := m.Map("money", nil, false)
	require.NoError(err)
	require.Equal(TypeFloat64, info.Type)
	require.Equal("numeric", info.Column)

	// Overrides pointing at unknown primitives still fail.
	m = NewMapper(map[string]string{"money": "coins"})
	_, err = m.Map("money", nil, false)
	require.True(IsUnknownTypeError(err))
}

func TestMapperAutoIncrement(t *testing.T) {
	m := NewMapper(nil)
	assert.True(t, m.AutoIncrement("serial"))
	assert.True(t, m.AutoIncrement("BIGSERIAL"))
	assert.False(t, m.AutoIncrement("int"))
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "int64", TypeInt64.String())
	assert.Equal(t, "time.Time", TypeTime.String())
	assert.True(t, TypeFloat64.Numeric())
	assert.False(t, TypeString.Numeric())
	assert.False(t, TypeInvalid.Valid())
}

func TestDefaultString(t *testing.T) {
	assert.Equal(t, "'draft'", Default{Kind: DefaultString, Raw: "draft"}.String())
	assert.Equal(t, "0", Default{Kind: DefaultInt, Raw: "0"}.String())
	assert.Equal(t, "now()", Default{Kind: DefaultExpr, Raw: "now()"}.String())
	assert.True(t, Default{}.IsZero())
}
