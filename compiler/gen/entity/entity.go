// Package entity renders the generated Go modules for a resolved
// graph: one file per table holding the model struct, the relation
// enum and the behavior stub, plus a shared file for enum types.
package entity

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dbmlgen/compiler/gen"
)

// ormPkg is the import path of the runtime package referenced by
// generated code.
const ormPkg = "github.com/syssam/dbmlgen/orm"

// defaultHeader is placed at the top of every generated file unless
// the config overrides it.
const defaultHeader = "Code generated by dbmlgen. DO NOT EDIT."

// Renderer implements gen.Renderer with jennifer.
type Renderer struct{}

// NewRenderer returns the default entity renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

func newFile(g *gen.Graph) *jen.File {
	f := jen.NewFile(g.PackageName())
	header := g.Header
	if header == "" {
		header = defaultHeader
	}
	f.HeaderComment(header)
	return f
}

// Entity renders the module for one table.
func (r *Renderer) Entity(g *gen.Graph, t *gen.Type) *jen.File {
	f := newFile(g)

	genModelStruct(f, t)
	genTableConsts(f, t)
	if len(t.Indexes) > 0 {
		genIndexes(f, t)
	}
	genRelationEnum(f, t)
	genBehavior(f, t)

	return f
}

// genModelStruct generates the model struct.
func genModelStruct(f *jen.File, t *gen.Type) {
	if t.Note != "" {
		f.Commentf("%s is the model entity for the %s table.\n%s", t.EntityName(), t.Table(), t.Note)
	} else {
		f.Commentf("%s is the model entity for the %s table.", t.EntityName(), t.Table())
	}
	f.Type().Id(t.EntityName()).StructFunc(func(group *jen.Group) {
		for _, fd := range t.Fields {
			stmt := group.Id(fd.StructField()).Add(goType(fd)).Tag(structTags(fd))
			if fd.Note != "" {
				stmt.Comment(fd.Note)
			}
		}
	})
}

// genTableConsts generates the table and namespace constants.
func genTableConsts(f *jen.File, t *gen.Type) {
	f.Commentf("%sTable is the database table backing %s.", t.EntityName(), t.EntityName())
	f.Const().Id(t.EntityName() + "Table").Op("=").Lit(t.Table())
	f.Commentf("%sNamespace is the schema the table lives in.", t.EntityName())
	f.Const().Id(t.EntityName() + "Namespace").Op("=").Lit(t.Schema)
}

// genIndexes generates the secondary index descriptors.
func genIndexes(f *jen.File, t *gen.Type) {
	f.Commentf("%sIndexes lists the secondary indexes of the %s table.", t.EntityName(), t.Table())
	f.Var().Id(t.EntityName()+"Indexes").Op("=").Index().Qual(ormPkg, "IndexDesc").ValuesFunc(func(vals *jen.Group) {
		for _, idx := range t.Indexes {
			vals.Values(jen.Dict{
				jen.Id("Name"):    jen.Lit(idx.Name),
				jen.Id("Unique"):  jen.Lit(idx.Unique),
				jen.Id("Columns"): stringSlice(idx.Columns),
			})
		}
	})
}

// genBehavior generates the no-op behavior stub. Users extend the
// hooks in their own files.
func genBehavior(f *jen.File, t *gen.Type) {
	name := t.EntityName() + "Behavior"
	f.Commentf("%s customizes persistence hooks for %s entities.\nThe generated methods are no-ops.", name, t.EntityName())
	f.Type().Id(name).Struct()

	f.Comment("BeforeSave runs before the entity is persisted.")
	f.Func().Params(jen.Id(name)).Id("BeforeSave").Params(
		jen.Id("_").Qual("context", "Context"),
		jen.Id("_").Any(),
	).Error().Block(
		jen.Return(jen.Nil()),
	)
	f.Comment("AfterSave runs after the entity is persisted.")
	f.Func().Params(jen.Id(name)).Id("AfterSave").Params(
		jen.Id("_").Qual("context", "Context"),
		jen.Id("_").Any(),
	).Error().Block(
		jen.Return(jen.Nil()),
	)
	f.Var().Id("_").Qual(ormPkg, "Behavior").Op("=").Id(name).Values()
}

func stringSlice(ss []string) jen.Code {
	return jen.Index().String().ValuesFunc(func(vals *jen.Group) {
		for _, s := range ss {
			vals.Lit(s)
		}
	})
}
