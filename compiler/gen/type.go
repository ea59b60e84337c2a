package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/dbmlgen/compiler/load"
	"github.com/syssam/dbmlgen/schema/field"
)

// The following types and their exported methods are used by the
// entity renderer to generate the assets.
type (
	// Type represents one resolved table in the graph: its columns,
	// key metadata and the relationships visible from it.
	Type struct {
		// Name holds the table name as written in the source.
		Name string
		// Schema is the namespace of the table ("public" by default).
		Schema string
		// Alias is the optional "as" alias from the source.
		Alias string
		// Note is the documentation note attached to the table.
		Note string
		// Fields holds the ordered columns of the table.
		Fields []*Field
		fields map[string]*Field
		// Edges holds the relationships visible from this table, both
		// the owning and the referenced sides.
		Edges []*Edge
		// Indexes are the configured indexes of the table.
		Indexes []*Index
		// entityName and fileName are assigned by the graph once the
		// full symbol table is known; bare table names collide across
		// namespaces and under singularization.
		entityName string
		fileName   string
		pos        load.Position
		order      int
	}

	// Field is a single resolved column.
	Field struct {
		// Name is the column name in the database schema.
		Name string
		// Type holds the resolved type descriptor of the column.
		Type *field.TypeInfo
		// PK indicates that the column is part of the primary key.
		PK bool
		// Unique indicates a unique constraint on the column.
		Unique bool
		// Nillable indicates the column is nullable in the database
		// and a pointer in the generated model.
		Nillable bool
		// Increment indicates an auto-incrementing column.
		Increment bool
		// Default is the tagged default value, if any.
		Default field.Default
		// Note is the documentation note attached to the column.
		Note string
		pos  load.Position
	}

	// Index represents a table index from an "indexes" block.
	Index struct {
		// Name of the index. Generated from the table and column
		// names when the source declares none.
		Name string
		// Unique index or not.
		Unique bool
		// Columns are the indexed table columns.
		Columns []string
	}

	// EnumType is a resolved enumeration: a canonical name and its
	// ordered, distinct values.
	EnumType struct {
		Name   string
		Schema string
		Values []EnumValue
		goName string
		pos    load.Position
		order  int
	}

	// EnumValue is a single enum member with its optional note.
	EnumValue struct {
		Name string
		Note string
	}
)

// =============================================================================
// Type methods
// =============================================================================

// Label returns the label name of the table (snake_case).
func (t Type) Label() string {
	return snake(t.Name)
}

// Table returns the SQL table name.
func (t Type) Table() string {
	return t.Name
}

// QualifiedName returns the namespace-qualified table name.
func (t Type) QualifiedName() string {
	return t.Schema + "." + t.Name
}

// EntityName returns the Go struct name of the generated model: the
// singularized, pascal-cased table name, namespace-qualified when the
// bare name is taken by another table.
func (t Type) EntityName() string {
	if t.entityName != "" {
		return t.entityName
	}
	return pascal(rules.Singularize(t.Name))
}

// FileName returns the name of the generated module for this table,
// namespace-qualified when another table claims the bare name.
func (t Type) FileName() string {
	if t.fileName != "" {
		return t.fileName
	}
	return strings.ToLower(snake(t.Name)) + ".go"
}

// RelationEnumName returns the name of the generated relation enum type.
func (t Type) RelationEnumName() string {
	return t.EntityName() + "Relation"
}

// Receiver returns the receiver name used by generated methods.
func (t Type) Receiver() string {
	return "m"
}

// Pos returns the source position of the table declaration.
func (t Type) Pos() load.Position {
	return t.pos
}

// HasField reports if the table declares a column with the given name.
func (t Type) HasField(name string) bool {
	return t.fields[name] != nil
}

// FieldBy returns the column with the given name, if any.
func (t Type) FieldBy(name string) (*Field, bool) {
	f, ok := t.fields[name]
	return f, ok
}

// PKFields returns the primary-key columns in declaration order.
// Composite keys surface as multiple entries.
func (t Type) PKFields() []*Field {
	var pks []*Field
	for _, f := range t.Fields {
		if f.PK {
			pks = append(pks, f)
		}
	}
	return pks
}

// EnumFields returns the enum-typed columns of the table, if any.
func (t Type) EnumFields() []*Field {
	var fields []*Field
	for _, f := range t.Fields {
		if f.IsEnum() {
			fields = append(fields, f)
		}
	}
	return fields
}

// hasEdge reports if the table already carries an edge with the name.
func (t Type) hasEdge(name string) bool {
	for _, e := range t.Edges {
		if e.Name == name {
			return true
		}
	}
	return false
}

// addField registers a column, failing on redeclaration.
func (t *Type) addField(f *Field) error {
	if t.fields[f.Name] != nil {
		return NewSemanticError(f.pos, t.Name, f.Name, "column redeclared", nil)
	}
	t.Fields = append(t.Fields, f)
	t.fields[f.Name] = f
	return nil
}

// =============================================================================
// Field methods
// =============================================================================

// StructField returns the struct member name of the column in the
// generated model.
func (f Field) StructField() string {
	return pascal(f.Name)
}

// Column returns the database column name.
func (f Field) Column() string {
	return f.Name
}

// IsEnum reports if the column resolved to an enum type.
func (f Field) IsEnum() bool {
	return f.Type != nil && f.Type.Type == field.TypeEnum
}

// Pos returns the source position of the column declaration.
func (f Field) Pos() load.Position {
	return f.pos
}

// =============================================================================
// EnumType methods
// =============================================================================

// GoName returns the Go type name of the generated enum,
// namespace-qualified when the bare name is taken.
func (e EnumType) GoName() string {
	if e.goName != "" {
		return e.goName
	}
	return pascal(e.Name)
}

// QualifiedName returns the namespace-qualified enum name.
func (e EnumType) QualifiedName() string {
	return e.Schema + "." + e.Name
}

// Pos returns the source position of the enum declaration.
func (e EnumType) Pos() load.Position {
	return e.pos
}

// ValueName returns the Go constant name of an enum member.
func (e EnumType) ValueName(v string) string {
	return e.GoName() + pascal(v)
}

// ValidSchemaName determines if a table or enum name can become a Go
// identifier in generated code.
func ValidSchemaName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("name %q contains path separator characters", name)
	}
	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("name %q cannot start with a dot", name)
	}
	return nil
}
