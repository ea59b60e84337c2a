package entity

import (
	"github.com/dave/jennifer/jen"

	"github.com/syssam/dbmlgen/compiler/gen"
)

// Enums renders the shared enum definitions file, or nil when the
// graph declares no enums. Enum types are string-based so their values
// round-trip through the database unchanged.
func (r *Renderer) Enums(g *gen.Graph) *jen.File {
	if len(g.Enums) == 0 {
		return nil
	}
	f := newFile(g)
	for _, e := range g.Enums {
		genEnumType(f, e)
	}
	return f
}

func genEnumType(f *jen.File, e *gen.EnumType) {
	f.Commentf("%s is the %s enum.", e.GoName(), e.QualifiedName())
	f.Type().Id(e.GoName()).String()

	if len(e.Values) > 0 {
		f.Const().DefsFunc(func(defs *jen.Group) {
			for _, v := range e.Values {
				stmt := defs.Id(e.ValueName(v.Name)).Id(e.GoName()).Op("=").Lit(v.Name)
				if v.Note != "" {
					stmt.Comment(v.Note)
				}
			}
		})
	}

	f.Commentf("Values returns all members of %s.", e.GoName())
	f.Func().Params(jen.Id(e.GoName())).Id("Values").Params().Index().String().Block(
		jen.Return(jen.Index().String().ValuesFunc(func(vals *jen.Group) {
			for _, v := range e.Values {
				vals.Lit(v.Name)
			}
		})),
	)

	f.Comment("String implements fmt.Stringer.")
	f.Func().Params(jen.Id("e").Id(e.GoName())).Id("String").Params().String().Block(
		jen.Return(jen.String().Call(jen.Id("e"))),
	)
}
