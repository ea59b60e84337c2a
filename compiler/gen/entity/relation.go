package entity

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dbmlgen/compiler/gen"
)

// genRelationEnum generates the relation enum of a table: one variant
// per edge, including the reciprocal edges contributed by refs
// declared elsewhere, with a Desc method exposing the join metadata.
func genRelationEnum(f *jen.File, t *gen.Type) {
	name := t.RelationEnumName()
	f.Commentf("%s enumerates the relationships of %s.", name, t.EntityName())
	f.Type().Id(name).Int()

	if len(t.Edges) > 0 {
		f.Const().DefsFunc(func(defs *jen.Group) {
			for i, e := range t.Edges {
				stmt := defs.Id(variantName(t, e))
				if i == 0 {
					stmt.Id(name).Op("=").Iota().Op("+").Lit(1)
				}
				stmt.Comment(e.Rel.String() + " " + e.Type.EntityName())
			}
		})
	}

	genRelationDesc(f, t)
	genRelationString(f, t)
}

func variantName(t *gen.Type, e *gen.Edge) string {
	return t.RelationEnumName() + e.StructField()
}

// genRelationDesc generates the Desc method returning the descriptor
// of a relation variant.
func genRelationDesc(f *jen.File, t *gen.Type) {
	f.Comment("Desc returns the descriptor of the relation.")
	f.Func().Params(jen.Id("r").Id(t.RelationEnumName())).Id("Desc").Params().Qual(ormPkg, "RelationDesc").BlockFunc(func(body *jen.Group) {
		if len(t.Edges) == 0 {
			body.Return(jen.Qual(ormPkg, "RelationDesc").Values())
			return
		}
		body.Switch(jen.Id("r")).BlockFunc(func(cases *jen.Group) {
			for _, e := range t.Edges {
				cases.Case(jen.Id(variantName(t, e))).Block(
					jen.Return(jen.Qual(ormPkg, "RelationDesc").Values(descDict(t, e))),
				)
			}
		})
		body.Return(jen.Qual(ormPkg, "RelationDesc").Values())
	})
}

// descDict builds the RelationDesc literal for one edge, viewed from
// the holding table's side.
func descDict(t *gen.Type, e *gen.Edge) jen.Dict {
	d := jen.Dict{
		jen.Id("Cardinality"): jen.Qual(ormPkg, cardinality(e.Rel)),
		jen.Id("Table"):       jen.Lit(t.Table()),
		jen.Id("Columns"):     stringSlice(e.Columns()),
		jen.Id("RefTable"):    jen.Lit(e.Type.Table()),
		jen.Id("RefColumns"):  stringSlice(e.RefColumns()),
	}
	if e.M2M() {
		rel := e.Relationship
		join, refJoin := rel.JoinColumns, rel.JoinRefColumns
		if !e.Owner {
			join, refJoin = refJoin, join
		}
		d[jen.Id("JoinTable")] = jen.Lit(rel.JoinTable)
		d[jen.Id("JoinColumns")] = stringSlice(join)
		d[jen.Id("JoinRefColumns")] = stringSlice(refJoin)
	}
	if e.Relationship.OnDelete != "" {
		d[jen.Id("OnDelete")] = jen.Lit(e.Relationship.OnDelete)
	}
	if e.Relationship.OnUpdate != "" {
		d[jen.Id("OnUpdate")] = jen.Lit(e.Relationship.OnUpdate)
	}
	return d
}

func cardinality(r gen.Rel) string {
	switch r {
	case gen.O2O:
		return "OneToOne"
	case gen.O2M:
		return "OneToMany"
	case gen.M2O:
		return "ManyToOne"
	default:
		return "ManyToMany"
	}
}

// genRelationString generates the String method of the relation enum.
func genRelationString(f *jen.File, t *gen.Type) {
	f.Comment("String returns the edge name of the relation.")
	f.Func().Params(jen.Id("r").Id(t.RelationEnumName())).Id("String").Params().String().BlockFunc(func(body *jen.Group) {
		if len(t.Edges) > 0 {
			body.Switch(jen.Id("r")).BlockFunc(func(cases *jen.Group) {
				for _, e := range t.Edges {
					cases.Case(jen.Id(variantName(t, e))).Block(
						jen.Return(jen.Lit(e.Name)),
					)
				}
			})
		}
		body.Return(jen.Lit(""))
	})
}
