package gen

import (
	"fmt"
	"strings"

	"github.com/syssam/dbmlgen/compiler/load"
	"github.com/syssam/dbmlgen/schema/field"
)

// DefaultSchema is the namespace assumed for tables and enums that
// carry no explicit qualifier.
const DefaultSchema = "public"

// Config holds the code generation settings shared by the graph and
// the entity renderer.
type Config struct {
	// Package is the import path of the generated package. The last
	// path element is the generated package name.
	Package string
	// Header is the comment placed at the top of every generated file.
	Header string
	// Mapper translates DBML column types. A default mapper is used
	// when nil.
	Mapper *field.Mapper
	// Workers caps concurrent file renders. Zero means one per table.
	Workers int
}

// PackageName returns the generated package name.
func (c Config) PackageName() string {
	if i := strings.LastIndexByte(c.Package, '/'); i >= 0 {
		return c.Package[i+1:]
	}
	return c.Package
}

// Graph is the resolved schema: the canonical table and enum
// registries plus every validated relationship. Relationships are
// stored once, centrally, and viewed from both endpoint tables through
// their edges. A Graph is immutable once NewGraph returns; concurrent
// readers during generation need no locking.
type Graph struct {
	*Config
	// Nodes holds the resolved tables in source order.
	Nodes []*Type
	// Enums holds the resolved enum types in source order.
	Enums []*EnumType
	// Rels holds every resolved relationship in source order.
	Rels []*Relationship

	nodes   map[string]*Type
	aliases map[string]*Type
	enums   map[string]*EnumType
}

// NewGraph resolves a parsed schema into a Graph. Resolution is
// two-pass: the full symbol table is built before any type or
// relationship is resolved, so forward references across tables and
// enums are legal. Semantic errors are batched: the returned error is
// an ErrorList reporting every failure in the document.
func NewGraph(c *Config, schema *load.Schema) (*Graph, error) {
	if c == nil {
		c = &Config{}
	}
	if c.Package == "" {
		c.Package = "model"
	}
	if c.Mapper == nil {
		c.Mapper = field.NewMapper(nil)
	}
	g := &Graph{
		Config:  c,
		nodes:   make(map[string]*Type),
		aliases: make(map[string]*Type),
		enums:   make(map[string]*EnumType),
	}
	var errs ErrorList
	g.addSymbols(schema, &errs)
	g.assignNames()
	g.resolveColumns(schema, &errs)
	g.resolveRefs(schema, &errs)
	if err := errs.Err(); err != nil {
		// Partial resolutions are never exposed downstream.
		return nil, err
	}
	g.detectJunctions()
	g.attachEdges()
	return g, nil
}

func qualify(schema, name string) string {
	if schema == "" {
		schema = DefaultSchema
	}
	return schema + "." + name
}

// addSymbols is the first pass: it registers every table and enum name
// before anything is resolved (declaration order is irrelevant here).
func (g *Graph) addSymbols(schema *load.Schema, errs *ErrorList) {
	for _, d := range schema.Tables() {
		if err := ValidSchemaName(d.Name); err != nil {
			*errs = append(*errs, NewSemanticError(d.Pos(), d.Name, "", "invalid table name", err))
			continue
		}
		key := qualify(d.Schema, d.Name)
		if g.nodes[key] != nil {
			*errs = append(*errs, NewSemanticError(d.Pos(), d.Name, "", "duplicate table name", nil))
			continue
		}
		ns := d.Schema
		if ns == "" {
			ns = DefaultSchema
		}
		t := &Type{
			Name:   d.Name,
			Schema: ns,
			Alias:  d.Alias,
			Note:   d.Note,
			fields: make(map[string]*Field),
			pos:    d.Pos(),
			order:  len(g.Nodes),
		}
		g.nodes[key] = t
		g.Nodes = append(g.Nodes, t)
		if d.Alias != "" {
			if g.aliases[d.Alias] != nil {
				*errs = append(*errs, NewSemanticError(d.Pos(), d.Name, "", fmt.Sprintf("duplicate table alias %q", d.Alias), nil))
			} else {
				g.aliases[d.Alias] = t
			}
		}
	}
	for _, d := range schema.Enums() {
		key := qualify(d.Schema, d.Name)
		if g.enums[key] != nil {
			*errs = append(*errs, NewSemanticError(d.Pos(), "", "", fmt.Sprintf("duplicate enum name %q", d.Name), nil))
			continue
		}
		ns := d.Schema
		if ns == "" {
			ns = DefaultSchema
		}
		e := &EnumType{Name: d.Name, Schema: ns, pos: d.Pos(), order: len(g.Enums)}
		seen := make(map[string]bool, len(d.Values))
		for _, v := range d.Values {
			if seen[v.Name] {
				*errs = append(*errs, NewSemanticError(v.Pos(), "", "", fmt.Sprintf("duplicate value %q in enum %q", v.Name, d.Name), nil))
				continue
			}
			seen[v.Name] = true
			e.Values = append(e.Values, EnumValue{Name: v.Name, Note: v.Note})
		}
		g.enums[key] = e
		g.Enums = append(g.Enums, e)
	}
}

// assignNames fixes the generated identifier and file name of every
// table and enum. Table names are unique within a namespace only, and
// singularization can fold distinct names onto one identifier, so a
// taken name is disambiguated with the namespace, then a numeric
// suffix. The first declaration in source order keeps the bare name.
func (g *Graph) assignNames() {
	idents := make(map[string]bool, len(g.Nodes))
	files := make(map[string]bool, len(g.Nodes))
	for _, t := range g.Nodes {
		base := pascal(rules.Singularize(t.Name))
		name := base
		if idents[name] {
			name = pascal(t.Schema) + base
		}
		for i := 2; idents[name]; i++ {
			name = fmt.Sprintf("%s%d", base, i)
		}
		idents[name] = true
		t.entityName = name

		fileBase := strings.ToLower(snake(t.Name))
		file := fileBase
		if files[file] {
			file = strings.ToLower(snake(t.Schema)) + "_" + fileBase
		}
		for i := 2; files[file]; i++ {
			file = fmt.Sprintf("%s_%d", fileBase, i)
		}
		files[file] = true
		t.fileName = file + ".go"
	}
	enumIdents := make(map[string]bool, len(g.Enums))
	for _, e := range g.Enums {
		base := pascal(e.Name)
		name := base
		if enumIdents[name] {
			name = pascal(e.Schema) + base
		}
		for i := 2; enumIdents[name]; i++ {
			name = fmt.Sprintf("%s%d", base, i)
		}
		enumIdents[name] = true
		e.goName = name
	}
}

// resolveColumns is the second pass over tables: column types, key
// metadata and indexes.
func (g *Graph) resolveColumns(schema *load.Schema, errs *ErrorList) {
	for _, d := range schema.Tables() {
		t := g.nodes[qualify(d.Schema, d.Name)]
		if t == nil {
			continue // reported as a duplicate in the first pass
		}
		for _, cd := range d.Columns {
			f, err := g.resolveColumn(t, cd)
			if err != nil {
				*errs = append(*errs, err)
				continue
			}
			if err := t.addField(f); err != nil {
				*errs = append(*errs, err)
			}
		}
		g.resolveIndexes(t, d, errs)
	}
}

func (g *Graph) resolveColumn(t *Type, cd *load.ColumnDecl) (*Field, error) {
	nullable := cd.Settings.Null && !cd.Settings.NotNull
	f := &Field{
		Name:      cd.Name,
		PK:        cd.Settings.PK,
		Unique:    cd.Settings.Unique,
		Nillable:  nullable,
		Increment: cd.Settings.Increment || g.Mapper.AutoIncrement(cd.Type.Name),
		Note:      cd.Settings.Note,
		pos:       cd.Pos(),
	}
	if v := cd.Settings.Default; v != nil {
		f.Default = defaultOf(v)
	}
	// A type name matching a declared enum resolves to that enum;
	// everything else goes through the primitive mapper.
	if e, err := g.lookupEnum(cd.Type, t.Schema); err != nil {
		return nil, NewSemanticError(cd.Type.Pos(), t.Name, cd.Name, err.Error(), nil)
	} else if e != nil {
		f.Type = &field.TypeInfo{
			Type:     field.TypeEnum,
			Ident:    e.GoName(),
			Column:   "enum",
			Nullable: nullable,
			Enum:     e.Name,
		}
		return f, nil
	}
	info, err := g.Mapper.Map(cd.Type.Name, cd.Type.Args, nullable)
	if err != nil {
		return nil, NewSemanticError(cd.Type.Pos(), t.Name, cd.Name, "cannot resolve column type", err)
	}
	f.Type = &info
	return f, nil
}

// lookupEnum resolves a column type reference against the enum
// registry. It returns (nil, nil) when the name is not an enum, and an
// error when the bare name matches enums in several namespaces.
func (g *Graph) lookupEnum(ref load.TypeRef, tableSchema string) (*EnumType, error) {
	if ref.Schema != "" {
		return g.enums[qualify(ref.Schema, ref.Name)], nil
	}
	if e := g.enums[qualify(tableSchema, ref.Name)]; e != nil {
		return e, nil
	}
	if e := g.enums[qualify("", ref.Name)]; e != nil {
		return e, nil
	}
	var found *EnumType
	for _, e := range g.Enums {
		if e.Name == ref.Name {
			if found != nil {
				return nil, fmt.Errorf("ambiguous enum reference %q: declared in namespaces %q and %q", ref.Name, found.Schema, e.Schema)
			}
			found = e
		}
	}
	return found, nil
}

func (g *Graph) resolveIndexes(t *Type, d *load.TableDecl, errs *ErrorList) {
	hasColumnPK := len(t.PKFields()) > 0
	for _, id := range d.Indexes {
		missing := false
		for _, c := range id.Columns {
			if !t.HasField(c) {
				*errs = append(*errs, NewSemanticError(id.Pos(), t.Name, c, "unknown index column", nil))
				missing = true
			}
		}
		if missing {
			continue
		}
		if id.PK {
			if hasColumnPK {
				*errs = append(*errs, NewSemanticError(id.Pos(), t.Name, "", "conflicting primary-key declarations: both column settings and an indexes entry declare a primary key", nil))
				continue
			}
			for _, c := range id.Columns {
				f, _ := t.FieldBy(c)
				f.PK = true
			}
			continue
		}
		idx := &Index{Name: id.Name, Unique: id.Unique, Columns: id.Columns}
		if idx.Name == "" {
			parts := append([]string{strings.ToLower(t.Name)}, id.Columns...)
			idx.Name = strings.Join(parts, "_")
		}
		t.Indexes = append(t.Indexes, idx)
	}
}

func defaultOf(v *load.Value) field.Default {
	switch v.Kind {
	case load.ValueString:
		return field.Default{Kind: field.DefaultString, Raw: v.Raw}
	case load.ValueInt:
		return field.Default{Kind: field.DefaultInt, Raw: v.Raw}
	case load.ValueFloat:
		return field.Default{Kind: field.DefaultFloat, Raw: v.Raw}
	case load.ValueBool:
		return field.Default{Kind: field.DefaultBool, Raw: v.Raw}
	default:
		return field.Default{Kind: field.DefaultExpr, Raw: v.Raw}
	}
}

// =============================================================================
// Relationship resolution
// =============================================================================

// refEntry tracks the declaration form behind a resolved relationship
// so duplicate declarations of the same pair can be arbitrated.
type refEntry struct {
	rel    *Relationship
	inline bool
}

// resolveRefs is the third pass: every ref declaration (standalone and
// inline alike) is resolved against the symbol table, normalized so
// the owning side comes first, and deduplicated. When both an inline
// setting and a standalone block declare the same relationship, the
// standalone block's operator takes precedence.
func (g *Graph) resolveRefs(schema *load.Schema, errs *ErrorList) {
	seen := make(map[string]*refEntry)
	for _, d := range schema.Refs() {
		r, err := g.resolveRef(d)
		if err != nil {
			*errs = append(*errs, err)
			continue
		}
		k1 := relKey(r.Table, r.Columns, r.RefTable, r.RefColumns)
		k2 := relKey(r.RefTable, r.RefColumns, r.Table, r.Columns)
		prev := seen[k1]
		if prev == nil {
			prev = seen[k2]
		}
		if prev == nil {
			e := &refEntry{rel: r, inline: d.Inline}
			seen[k1] = e
			g.Rels = append(g.Rels, r)
			continue
		}
		switch {
		case prev.inline && !d.Inline:
			// The standalone block is more explicit; its operator wins.
			pos := prev.rel.pos
			*prev.rel = *r
			prev.rel.pos = pos
			prev.inline = false
		case prev.inline == d.Inline && !sameRelationship(prev.rel, r):
			// Same column pair declared twice at the same precedence
			// level with disagreeing operators.
			*errs = append(*errs, NewSemanticError(d.Pos(), r.Table.Name, "",
				fmt.Sprintf("ambiguous relationship: conflicting Ref declarations between %s and %s", r.Table.Name, r.RefTable.Name), nil))
		}
	}
}

func relKey(t *Type, cols []string, rt *Type, refCols []string) string {
	return fmt.Sprintf("%s(%s)->%s(%s)", t.QualifiedName(), strings.Join(cols, ","), rt.QualifiedName(), strings.Join(refCols, ","))
}

func sameRelationship(a, b *Relationship) bool {
	if a.Rel != b.Rel {
		return false
	}
	return a.Table == b.Table && strings.Join(a.Columns, ",") == strings.Join(b.Columns, ",")
}

// resolveRef resolves both endpoints and normalizes the declaration:
// for non-M2M relations the owning (foreign-key) side becomes Table.
func (g *Graph) resolveRef(d *load.RefDecl) (*Relationship, error) {
	left, err := g.resolveEndpoint(d.Left)
	if err != nil {
		return nil, err
	}
	right, err := g.resolveEndpoint(d.Right)
	if err != nil {
		return nil, err
	}
	if len(d.Left.Columns) != len(d.Right.Columns) {
		return nil, NewSemanticError(d.Pos(), d.Left.Table, "",
			fmt.Sprintf("mismatched endpoint arity: %d column(s) vs %d", len(d.Left.Columns), len(d.Right.Columns)), nil)
	}
	r := &Relationship{
		Name:     d.Name,
		OnDelete: d.OnDelete,
		OnUpdate: d.OnUpdate,
		pos:      d.Pos(),
	}
	switch d.Op {
	case load.OpManyToOne:
		r.Rel = M2O
		r.Table, r.Columns = left, d.Left.Columns
		r.RefTable, r.RefColumns = right, d.Right.Columns
	case load.OpOneToMany:
		r.Rel = M2O
		r.Table, r.Columns = right, d.Right.Columns
		r.RefTable, r.RefColumns = left, d.Left.Columns
	case load.OpOneToOne:
		r.Rel = O2O
		r.Table, r.Columns = left, d.Left.Columns
		r.RefTable, r.RefColumns = right, d.Right.Columns
	case load.OpManyToMany:
		r.Rel = M2M
		r.Table, r.Columns = left, d.Left.Columns
		r.RefTable, r.RefColumns = right, d.Right.Columns
		// No junction in the source: synthesize a logical one. A later
		// pass may upgrade it to a detected junction table.
		r.JoinTable = snake(left.Name) + "_" + snake(right.Name)
		r.JoinColumns = junctionColumns(left, d.Left.Columns)
		r.JoinRefColumns = junctionColumns(right, d.Right.Columns)
	}
	return r, nil
}

// junctionColumns names the synthesized junction columns for a logical
// M2M relation: post.id becomes post_id.
func junctionColumns(t *Type, cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = snake(rules.Singularize(t.Name)) + "_" + c
	}
	return out
}

// resolveEndpoint resolves a table reference (alias, qualified or
// bare) and validates its columns.
func (g *Graph) resolveEndpoint(ep load.RefEndpoint) (*Type, error) {
	t, err := g.lookupTable(ep)
	if err != nil {
		return nil, err
	}
	for _, c := range ep.Columns {
		if !t.HasField(c) {
			return nil, NewSemanticError(ep.Pos(), t.Name, c, "undefined column in relationship endpoint", nil)
		}
	}
	return t, nil
}

func (g *Graph) lookupTable(ep load.RefEndpoint) (*Type, error) {
	if ep.Schema == "" {
		if t := g.aliases[ep.Table]; t != nil {
			return t, nil
		}
	}
	if t := g.nodes[qualify(ep.Schema, ep.Table)]; t != nil {
		return t, nil
	}
	if ep.Schema != "" {
		return nil, NewSemanticError(ep.Pos(), ep.Table, "", fmt.Sprintf("undefined table %q", ep.Schema+"."+ep.Table), nil)
	}
	var found *Type
	for _, t := range g.Nodes {
		if t.Name == ep.Table {
			if found != nil {
				return nil, NewSemanticError(ep.Pos(), ep.Table, "",
					fmt.Sprintf("ambiguous table reference %q: declared in namespaces %q and %q", ep.Table, found.Schema, t.Schema), nil)
			}
			found = t
		}
	}
	if found == nil {
		return nil, NewSemanticError(ep.Pos(), ep.Table, "", fmt.Sprintf("undefined table %q", ep.Table), nil)
	}
	return found, nil
}

// =============================================================================
// Junction detection and edge attachment
// =============================================================================

// detectJunctions finds the junction-table idiom: a table whose
// primary key is exactly the union of the foreign keys of two
// many-to-one refs. Such a pair implies a many-to-many relationship
// between the referenced tables, preferred over (and upgrading) any
// logical M2M declared with the "<>" operator.
func (g *Graph) detectJunctions() {
	for _, t := range g.Nodes {
		var owning []*Relationship
		for _, r := range g.Rels {
			if r.Rel == M2O && r.Table == t {
				owning = append(owning, r)
			}
		}
		if len(owning) != 2 {
			continue
		}
		pk := t.PKFields()
		if len(pk) == 0 || !coversColumns(pk, owning[0].Columns, owning[1].Columns) {
			continue
		}
		a, b := owning[0].RefTable, owning[1].RefTable
		if ex := g.findM2M(a, b); ex != nil {
			if ex.Through == nil {
				first, second := owning[0], owning[1]
				if ex.Table != a {
					first, second = second, first
				}
				ex.Through = t
				ex.JoinTable = t.Name
				ex.JoinColumns = first.Columns
				ex.JoinRefColumns = second.Columns
			}
			continue
		}
		g.Rels = append(g.Rels, &Relationship{
			Rel:            M2M,
			Table:          a,
			Columns:        owning[0].RefColumns,
			RefTable:       b,
			RefColumns:     owning[1].RefColumns,
			Through:        t,
			JoinTable:      t.Name,
			JoinColumns:    owning[0].Columns,
			JoinRefColumns: owning[1].Columns,
			pos:            t.pos,
		})
	}
}

func (g *Graph) findM2M(a, b *Type) *Relationship {
	for _, r := range g.Rels {
		if r.Rel != M2M {
			continue
		}
		if (r.Table == a && r.RefTable == b) || (r.Table == b && r.RefTable == a) {
			return r
		}
	}
	return nil
}

// coversColumns reports whether the primary-key columns are exactly
// the union of the two foreign-key column sets.
func coversColumns(pk []*Field, fks ...[]string) bool {
	set := make(map[string]bool)
	n := 0
	for _, cols := range fks {
		for _, c := range cols {
			if !set[c] {
				set[c] = true
				n++
			}
		}
	}
	if len(pk) != n {
		return false
	}
	for _, f := range pk {
		if !set[f.Name] {
			return false
		}
	}
	return true
}

// attachEdges gives every relationship a view from both endpoint
// tables, so generation always has the reciprocal side available.
func (g *Graph) attachEdges() {
	for _, r := range g.Rels {
		switch r.Rel {
		case M2O:
			base := edgeBaseName(r.Columns, r.RefTable)
			g.addEdge(r.Table, &Edge{Rel: M2O, Type: r.RefTable, Owner: true, Relationship: r}, base)
			inverse := snake(rules.Pluralize(r.Table.Name))
			if r.SelfReferencing() {
				inverse = snake(rules.Pluralize(base))
			}
			g.addEdge(r.RefTable, &Edge{Rel: O2M, Type: r.Table, Relationship: r}, inverse)
		case O2O:
			base := edgeBaseName(r.Columns, r.RefTable)
			g.addEdge(r.Table, &Edge{Rel: O2O, Type: r.RefTable, Owner: true, Relationship: r}, base)
			inverse := snake(rules.Singularize(r.Table.Name))
			if r.SelfReferencing() {
				inverse = base + "_of"
			}
			g.addEdge(r.RefTable, &Edge{Rel: O2O, Type: r.Table, Relationship: r}, inverse)
		case M2M:
			owning := snake(rules.Pluralize(r.RefTable.Name))
			g.addEdge(r.Table, &Edge{Rel: M2M, Type: r.RefTable, Owner: true, Relationship: r}, owning)
			inverse := snake(rules.Pluralize(r.Table.Name))
			if r.SelfReferencing() {
				inverse = "inverse_" + owning
			}
			g.addEdge(r.RefTable, &Edge{Rel: M2M, Type: r.Table, Relationship: r}, inverse)
		}
	}
}

// addEdge attaches the edge under a name unique within the table.
// Collisions (several refs to the same table) are disambiguated with
// the foreign-key name, then a numeric suffix: two refs from
// post.author_id and post.editor_id to user yield the inverse edges
// "posts" and "editor_posts".
func (g *Graph) addEdge(t *Type, e *Edge, base string) {
	name := base
	if t.hasEdge(name) && !e.Owner && len(e.Relationship.Columns) > 0 {
		name = edgeBaseName(e.Relationship.Columns, e.Relationship.RefTable) + "_" + base
	}
	for i := 2; t.hasEdge(name); i++ {
		name = fmt.Sprintf("%s_%d", base, i)
	}
	e.Name = name
	t.Edges = append(t.Edges, e)
}
