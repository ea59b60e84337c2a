package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/dbmlgen/compiler/gen"
	"github.com/syssam/dbmlgen/compiler/load"
)

func render(t *testing.T, src string) map[string]string {
	t.Helper()
	schema, err := load.Parse(src)
	require.NoError(t, err)
	graph, err := gen.NewGraph(&gen.Config{Package: "github.com/example/blog/model"}, schema)
	require.NoError(t, err)
	files, err := gen.NewWriter(graph, NewRenderer(), 0).Write()
	require.NoError(t, err)
	out := make(map[string]string, len(files))
	for _, f := range files {
		out[f.Name] = string(f.Content)
	}
	return out
}

func TestRenderModel(t *testing.T) {
	require := require.New(t)
	files := render(t, `
Table users {
  id serial [pk]
  username varchar(255) [unique, not null]
  bio text [null, note: 'freeform self description']
  created_at timestamp [default: `+"`now()`"+`]
}
`)
	src, ok := files["users.go"]
	require.True(ok)

	assert.Contains(t, src, "// Code generated by dbmlgen. DO NOT EDIT.")
	assert.Contains(t, src, "package model")
	assert.Contains(t, src, "type User struct {")
	assert.Contains(t, src, "db:\"id,pk,increment\"")
	assert.Contains(t, src, "json:\"username\"")
	assert.Contains(t, src, "db:\"username,unique\"")
	assert.Contains(t, src, "*string", "nullable columns become pointers")
	assert.Contains(t, src, "// freeform self description")
	assert.Contains(t, src, "time.Time")
	assert.Contains(t, src, `"time"`, "goimports adds the time import")
	assert.Contains(t, src, "db:\"created_at,default=now()\"")
	assert.Contains(t, src, `const UserTable = "users"`)
	assert.Contains(t, src, `const UserNamespace = "public"`)
}

func TestRenderRelations(t *testing.T) {
	require := require.New(t)
	files := render(t, `
Table users {
  id int [pk]
}
Table posts {
  id int [pk]
  author_id int [ref: > users.id]
}
`)
	posts := files["posts.go"]
	require.Contains(posts, "type PostRelation int")
	require.Contains(posts, "PostRelationAuthor PostRelation = iota + 1")
	require.Contains(posts, "func (r PostRelation) Desc() orm.RelationDesc")
	require.Contains(posts, "Cardinality: orm.ManyToOne")
	require.Contains(posts, `Columns: []string{"author_id"}`)
	require.Contains(posts, `RefTable: "users"`)

	users := files["users.go"]
	require.Contains(users, "UserRelationPosts")
	require.Contains(users, "Cardinality: orm.OneToMany")
	require.Contains(users, `return "posts"`, "String reports the edge name")
}

func TestRenderManyToMany(t *testing.T) {
	require := require.New(t)
	files := render(t, `
Table posts {
  id int [pk]
}
Table tags {
  id int [pk]
}
Table post_tags {
  post_id int [pk, ref: > posts.id]
  tag_id int [pk, ref: > tags.id]
}
`)
	posts := files["posts.go"]
	require.Contains(posts, "PostRelationTags")
	require.Contains(posts, "Cardinality: orm.ManyToMany")
	require.Contains(posts, `JoinTable: "post_tags"`)
	require.Contains(posts, `JoinColumns: []string{"post_id"}`)
	require.Contains(posts, `JoinRefColumns: []string{"tag_id"}`)

	tags := files["tags.go"]
	require.Contains(tags, "TagRelationPosts")
	// Viewed from tags, the junction columns swap sides.
	require.Contains(tags, `JoinColumns: []string{"tag_id"}`)
}

func TestRenderEnums(t *testing.T) {
	require := require.New(t)
	files := render(t, `
Table users {
  id int [pk]
  status status [not null]
}
enum status {
  active
  suspended [note: 'pending review']
}
`)
	enums, ok := files["enums.go"]
	require.True(ok)
	require.Contains(enums, "type Status string")
	require.Contains(enums, "StatusActive")
	require.Contains(enums, `= "suspended"`)
	require.Contains(enums, "// pending review")
	require.Contains(enums, "func (Status) Values() []string")

	users := files["users.go"]
	require.Contains(users, "Status Status", "enum columns use the generated enum type")
}

func TestRenderBehaviorStub(t *testing.T) {
	require := require.New(t)
	files := render(t, "Table users {\n  id int [pk]\n}")
	src := files["users.go"]
	require.Contains(src, "type UserBehavior struct")
	require.Contains(src, "func (UserBehavior) BeforeSave(_ context.Context, _ any) error")
	require.Contains(src, "func (UserBehavior) AfterSave(_ context.Context, _ any) error")
	require.Contains(src, "var _ orm.Behavior = UserBehavior{}")
}

func TestRenderIndexes(t *testing.T) {
	require := require.New(t)
	files := render(t, `
Table posts {
  id int [pk]
  author_id int
  created_at timestamp

  indexes {
    (author_id, created_at) [unique, name: 'posts_author_created']
  }
}
`)
	src := files["posts.go"]
	require.Contains(src, "var PostIndexes = []orm.IndexDesc{")
	require.Contains(src, `Name: "posts_author_created"`)
	require.Contains(src, "Unique: true")
}

func TestRenderFileOrder(t *testing.T) {
	require := require.New(t)
	schema, err := load.Parse(`
Table users { id int [pk] }
Table posts { id int [pk] }
enum status { active }
`)
	require.NoError(err)
	graph, err := gen.NewGraph(&gen.Config{Package: "model"}, schema)
	require.NoError(err)
	files, err := gen.NewWriter(graph, NewRenderer(), 2).Write()
	require.NoError(err)
	require.Len(files, 3)
	require.Equal("users.go", files[0].Name)
	require.Equal("users", files[0].Table)
	require.Equal("posts.go", files[1].Name)
	require.Equal("enums.go", files[2].Name, "shared enum file renders last")
}

func TestRenderCustomHeader(t *testing.T) {
	require := require.New(t)
	schema, err := load.Parse("Table users { id int [pk] }")
	require.NoError(err)
	graph, err := gen.NewGraph(&gen.Config{Package: "model", Header: "Code generated for the blog service. DO NOT EDIT."}, schema)
	require.NoError(err)
	files, err := gen.NewWriter(graph, NewRenderer(), 0).Write()
	require.NoError(err)
	require.Contains(string(files[0].Content), "// Code generated for the blog service. DO NOT EDIT.")
}
