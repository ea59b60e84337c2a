package entity

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/dbmlgen/compiler/gen"
	"github.com/syssam/dbmlgen/schema/field"
)

// goType returns the Jennifer code for a field's Go type. Nullable
// columns become pointers.
func goType(f *gen.Field) jen.Code {
	if f.Nillable {
		return jen.Op("*").Add(baseType(f))
	}
	return baseType(f)
}

// baseType returns the Jennifer code for a field's type without the
// pointer wrapper.
func baseType(f *gen.Field) jen.Code {
	if f.Type == nil {
		return jen.Any()
	}
	// Enum types live in the generated package itself.
	if f.IsEnum() {
		return jen.Id(f.Type.Ident)
	}
	switch f.Type.Type {
	case field.TypeBool:
		return jen.Bool()
	case field.TypeInt8:
		return jen.Int8()
	case field.TypeInt16:
		return jen.Int16()
	case field.TypeInt32:
		return jen.Int32()
	case field.TypeInt64:
		return jen.Int64()
	case field.TypeFloat32:
		return jen.Float32()
	case field.TypeFloat64:
		return jen.Float64()
	case field.TypeString:
		return jen.String()
	case field.TypeBytes:
		return jen.Index().Byte()
	default:
		// Composite identifiers such as time.Time come with their
		// import path attached.
		if f.Type.PkgPath != "" {
			name := f.Type.Ident
			if idx := strings.LastIndex(name, "."); idx >= 0 {
				name = name[idx+1:]
			}
			return jen.Qual(f.Type.PkgPath, name)
		}
		return jen.Id(f.Type.Ident)
	}
}

// structTags builds the json and db tags of a model field. The db tag
// carries the column name followed by its constraint flags.
func structTags(f *gen.Field) map[string]string {
	parts := []string{f.Column()}
	if f.PK {
		parts = append(parts, "pk")
	}
	if f.Increment {
		parts = append(parts, "increment")
	}
	if f.Unique {
		parts = append(parts, "unique")
	}
	if !f.Default.IsZero() {
		parts = append(parts, "default="+f.Default.String())
	}
	return map[string]string{
		"json": f.Column(),
		"db":   strings.Join(parts, ","),
	}
}
