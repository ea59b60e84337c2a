package load

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTable(t *testing.T) {
	require := require.New(t)
	s, err := Parse(`
Table users as U {
  id serial [pk, increment]
  username varchar(255) [unique, not null]
  bio text [null, note: 'freeform']
  balance decimal(10, 2) [default: 0]
  note: 'registered users'
}
`)
	require.NoError(err)
	tables := s.Tables()
	require.Len(tables, 1)

	d := tables[0]
	require.Equal("users", d.Name)
	require.Equal("U", d.Alias)
	require.Empty(d.Schema)
	require.Equal("registered users", d.Note)
	require.Len(d.Columns, 4)

	id := d.Columns[0]
	require.Equal("id", id.Name)
	require.Equal("serial", id.Type.Name)
	require.True(id.Settings.PK)
	require.True(id.Settings.Increment)

	username := d.Columns[1]
	require.Equal([]string{"255"}, username.Type.Args)
	require.True(username.Settings.Unique)
	require.True(username.Settings.NotNull)

	bio := d.Columns[2]
	require.True(bio.Settings.Null)
	require.Equal("freeform", bio.Settings.Note)

	balance := d.Columns[3]
	require.Equal([]string{"10", "2"}, balance.Type.Args)
	require.NotNil(balance.Settings.Default)
	require.Equal(ValueInt, balance.Settings.Default.Kind)
	require.Equal("0", balance.Settings.Default.Raw)
}

func TestParseQualifiedTable(t *testing.T) {
	require := require.New(t)
	s, err := Parse("Table auth.accounts {\n  id int [pk]\n}")
	require.NoError(err)
	d := s.Tables()[0]
	require.Equal("auth", d.Schema)
	require.Equal("accounts", d.Name)
}

func TestParseQuotedIdentifiers(t *testing.T) {
	require := require.New(t)
	s, err := Parse("Table \"order items\" {\n  \"unit price\" int [pk]\n}")
	require.NoError(err)
	d := s.Tables()[0]
	require.Equal("order items", d.Name)
	require.Equal("unit price", d.Columns[0].Name)
}

func TestParseColumnDefaults(t *testing.T) {
	require := require.New(t)
	s, err := Parse(`
Table t {
  a int [default: -5]
  b float [default: 1.5]
  c varchar [default: 'x']
  d boolean [default: true]
  e timestamp [default: ` + "`now()`" + `]
}
`)
	require.NoError(err)
	cols := s.Tables()[0].Columns
	require.Equal(&Value{Kind: ValueInt, Raw: "-5"}, cols[0].Settings.Default)
	require.Equal(&Value{Kind: ValueFloat, Raw: "1.5"}, cols[1].Settings.Default)
	require.Equal(&Value{Kind: ValueString, Raw: "x"}, cols[2].Settings.Default)
	require.Equal(&Value{Kind: ValueBool, Raw: "true"}, cols[3].Settings.Default)
	require.Equal(&Value{Kind: ValueExpr, Raw: "now()"}, cols[4].Settings.Default)
}

func TestParseIndexes(t *testing.T) {
	require := require.New(t)
	s, err := Parse(`
Table posts {
  id int
  author_id int
  created_at timestamp

  indexes {
    (id) [pk]
    created_at [name: 'posts_created']
    (author_id, created_at) [unique]
  }
}
`)
	require.NoError(err)
	idxs := s.Tables()[0].Indexes
	require.Len(idxs, 3)
	require.True(idxs[0].PK)
	require.Equal([]string{"id"}, idxs[0].Columns)
	require.Equal("posts_created", idxs[1].Name)
	require.True(idxs[2].Unique)
	require.Equal([]string{"author_id", "created_at"}, idxs[2].Columns)
}

func TestParseEnum(t *testing.T) {
	require := require.New(t)
	s, err := Parse(`
enum status {
  active
  suspended [note: 'pending review']
  deleted
}
`)
	require.NoError(err)
	enums := s.Enums()
	require.Len(enums, 1)
	require.Equal("status", enums[0].Name)
	require.Len(enums[0].Values, 3)
	require.Equal("suspended", enums[0].Values[1].Name)
	require.Equal("pending review", enums[0].Values[1].Note)
}

func TestParseRefs(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		s, err := Parse("Ref: posts.author_id > users.id")
		require.NoError(t, err)
		refs := s.Refs()
		require.Len(t, refs, 1)
		d := refs[0]
		assert.Equal(t, OpManyToOne, d.Op)
		assert.Equal(t, "posts", d.Left.Table)
		assert.Equal(t, []string{"author_id"}, d.Left.Columns)
		assert.Equal(t, "users", d.Right.Table)
		assert.False(t, d.Inline)
	})
	t.Run("block with actions", func(t *testing.T) {
		s, err := Parse("Ref fk_author {\n  posts.author_id > users.id [delete: cascade, update: no action]\n}")
		require.NoError(t, err)
		d := s.Refs()[0]
		assert.Equal(t, "fk_author", d.Name)
		assert.Equal(t, "cascade", d.OnDelete)
		assert.Equal(t, "no action", d.OnUpdate)
	})
	t.Run("composite endpoints", func(t *testing.T) {
		s, err := Parse("Ref: grades.(student_id, course_id) > enrollments.(student_id, course_id)")
		require.NoError(t, err)
		d := s.Refs()[0]
		assert.Equal(t, []string{"student_id", "course_id"}, d.Left.Columns)
		assert.Equal(t, []string{"student_id", "course_id"}, d.Right.Columns)
	})
	t.Run("qualified endpoint", func(t *testing.T) {
		s, err := Parse("Ref: core.posts.author_id > auth.users.id")
		require.NoError(t, err)
		d := s.Refs()[0]
		assert.Equal(t, "core", d.Left.Schema)
		assert.Equal(t, "auth", d.Right.Schema)
	})
	t.Run("many to many", func(t *testing.T) {
		s, err := Parse("Ref: posts.id <> tags.id")
		require.NoError(t, err)
		assert.Equal(t, OpManyToMany, s.Refs()[0].Op)
	})
	t.Run("inline", func(t *testing.T) {
		s, err := Parse("Table posts {\n  author_id int [ref: > users.id]\n}")
		require.NoError(t, err)
		refs := s.Refs()
		require.Len(t, refs, 1)
		d := refs[0]
		assert.True(t, d.Inline)
		assert.Equal(t, "posts", d.Left.Table)
		assert.Equal(t, []string{"author_id"}, d.Left.Columns)
		assert.Equal(t, OpManyToOne, d.Op)
	})
}

func TestParseProjectAndGroups(t *testing.T) {
	require := require.New(t)
	s, err := Parse(`
Project blog {
  database_type: 'PostgreSQL'
  note: 'sample project'
}

Table users { id int }
Table posts { id int }

TableGroup content {
  users
  posts
}

Note todo {
  'document the schema'
}
`)
	require.NoError(err)
	require.Len(s.Decls, 5)
	p, ok := s.Decls[0].(*ProjectDecl)
	require.True(ok)
	require.Equal("blog", p.Name)
	require.Equal("PostgreSQL", p.Props["database_type"])
	require.Equal("sample project", p.Note)

	g, ok := s.Decls[3].(*TableGroupDecl)
	require.True(ok)
	require.Equal([]string{"users", "posts"}, g.Tables)
}

func TestParseCommentsAsNotes(t *testing.T) {
	require := require.New(t)
	s, err := Parse(`
// registered users of the blog
Table users {
  // surrogate key
  id int [pk]
}
`)
	require.NoError(err)
	d := s.Tables()[0]
	require.Equal("registered users of the blog", d.Note)
	require.Equal("surrogate key", d.Columns[0].Settings.Note)
}

func TestParseErrors(t *testing.T) {
	for _, tt := range []struct {
		name string
		src  string
	}{
		{"unclosed table", "Table users {"},
		{"missing type", "Table users {\n  id [pk]\n}"},
		{"bad top level", "Relation foo"},
		{"bad ref op", "Ref: a.b , c.d"},
		{"endpoint without column", "Ref: users > posts.id"},
		{"bad ref action", "Ref: a.b > c.d [delete: explode]"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.NotZero(t, parseErr.Pos.Line)
		})
	}
}
