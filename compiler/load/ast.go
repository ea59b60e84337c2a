package load

// Schema is the syntactic representation of a single DBML document.
// Declarations appear in source order; cross-references are not
// validated at this stage (forward references are legal and resolved
// later by the gen package).
type Schema struct {
	Decls []Decl
}

// Tables returns the table declarations in source order.
func (s *Schema) Tables() []*TableDecl {
	var ds []*TableDecl
	for _, d := range s.Decls {
		if t, ok := d.(*TableDecl); ok {
			ds = append(ds, t)
		}
	}
	return ds
}

// Enums returns the enum declarations in source order.
func (s *Schema) Enums() []*EnumDecl {
	var ds []*EnumDecl
	for _, d := range s.Decls {
		if e, ok := d.(*EnumDecl); ok {
			ds = append(ds, e)
		}
	}
	return ds
}

// Refs returns every relationship declaration in source order,
// including inline refs lifted out of column settings. Inline and
// standalone refs share the same representation.
func (s *Schema) Refs() []*RefDecl {
	var ds []*RefDecl
	for _, d := range s.Decls {
		switch d := d.(type) {
		case *RefDecl:
			ds = append(ds, d)
		case *TableDecl:
			for _, c := range d.Columns {
				if c.Settings.Ref != nil {
					ds = append(ds, c.Settings.Ref)
				}
			}
		}
	}
	return ds
}

// Decl is a top-level declaration in a DBML document.
type Decl interface {
	Pos() Position
	decl()
}

// TableDecl is a "Table" block.
type TableDecl struct {
	Name    string
	Schema  string // optional namespace; empty means the default namespace
	Alias   string // optional "as" alias
	Columns []*ColumnDecl
	Indexes []*IndexDecl
	Note    string
	pos     Position
}

// ColumnDecl is a single column line inside a table block.
type ColumnDecl struct {
	Name     string
	Type     TypeRef
	Settings ColumnSettings
	pos      Position
}

// TypeRef is a raw, unresolved column type: a name plus optional
// arguments, e.g. varchar(255) or decimal(10, 2).
type TypeRef struct {
	Name   string
	Schema string // optional namespace for enum references
	Args   []string
	pos    Position
}

// Pos returns the source position of the type reference.
func (t TypeRef) Pos() Position { return t.pos }

// ColumnSettings is the ordered set of settings declared in the
// bracket list of a column line.
type ColumnSettings struct {
	PK        bool
	Unique    bool
	NotNull   bool
	Null      bool
	Increment bool
	Default   *Value
	Note      string
	Ref       *RefDecl // inline "ref:" setting, already in RefDecl form
}

// ValueKind tags the syntactic class of a literal value.
type ValueKind int

// Value kinds.
const (
	ValueString ValueKind = iota
	ValueInt
	ValueFloat
	ValueBool
	ValueExpr
)

// Value is a tagged literal, carried through to generation so no
// stage needs to re-parse defaults.
type Value struct {
	Kind ValueKind
	Raw  string
}

// IndexDecl is one entry of a table "indexes" block.
type IndexDecl struct {
	Columns []string
	Name    string
	Unique  bool
	PK      bool
	pos     Position
}

// EnumDecl is an "enum" block.
type EnumDecl struct {
	Name   string
	Schema string
	Values []*EnumValue
	pos    Position
}

// EnumValue is a single enum member, optionally annotated with a note.
type EnumValue struct {
	Name string
	Note string
	pos  Position
}

// Pos returns the source position of the enum value.
func (v *EnumValue) Pos() Position { return v.pos }

// RefOp is the relationship operator of a ref declaration.
type RefOp int

// Relationship operators. The operator encodes directionality and the
// cardinality hint: left `>` right reads "many left rows point to one
// right row".
const (
	OpManyToOne  RefOp = iota // >
	OpOneToMany               // <
	OpOneToOne                // -
	OpManyToMany              // <>
)

// String returns the DBML spelling of the operator.
func (op RefOp) String() string {
	switch op {
	case OpManyToOne:
		return ">"
	case OpOneToMany:
		return "<"
	case OpOneToOne:
		return "-"
	case OpManyToMany:
		return "<>"
	}
	return "?"
}

// RefDecl is a relationship declaration. Standalone "Ref" blocks and
// inline column "ref:" settings are both parsed into this form.
type RefDecl struct {
	Name     string // optional constraint name
	Op       RefOp
	Left     RefEndpoint
	Right    RefEndpoint
	OnDelete string
	OnUpdate string
	Inline   bool // declared as a column setting
	pos      Position
}

// RefEndpoint is one side of a relationship: a table plus one or more
// columns (composite keys carry a column list).
type RefEndpoint struct {
	Schema  string
	Table   string
	Columns []string
	pos     Position
}

// Pos returns the source position of the endpoint.
func (e RefEndpoint) Pos() Position { return e.pos }

// TableGroupDecl is a "TableGroup" block; descriptive metadata only.
type TableGroupDecl struct {
	Name   string
	Tables []string
	pos    Position
}

// ProjectDecl is a "Project" block; descriptive metadata only.
type ProjectDecl struct {
	Name  string
	Props map[string]string
	Note  string
	pos   Position
}

// NoteDecl is a standalone "Note" block; descriptive metadata only.
type NoteDecl struct {
	Name string
	Text string
	pos  Position
}

// Pos implementations.
func (d *TableDecl) Pos() Position      { return d.pos }
func (d *ColumnDecl) Pos() Position     { return d.pos }
func (d *IndexDecl) Pos() Position      { return d.pos }
func (d *EnumDecl) Pos() Position       { return d.pos }
func (d *RefDecl) Pos() Position        { return d.pos }
func (d *TableGroupDecl) Pos() Position { return d.pos }
func (d *ProjectDecl) Pos() Position    { return d.pos }
func (d *NoteDecl) Pos() Position       { return d.pos }

func (*TableDecl) decl()      {}
func (*EnumDecl) decl()       {}
func (*RefDecl) decl()        {}
func (*TableGroupDecl) decl() {}
func (*ProjectDecl) decl()    {}
func (*NoteDecl) decl()       {}
