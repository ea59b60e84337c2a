package load

import (
	"errors"
	"fmt"
	"strings"
)

// ErrParse is the sentinel error matched by all syntax errors.
var ErrParse = errors.New("dbmlgen: parse error")

// ParseError reports a grammar violation: the offending token and a
// description of the expected construct. Parsing is not partial; the
// first unrecoverable syntax error stops the parse.
type ParseError struct {
	Pos      Position
	Got      Token
	Expected string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("dbmlgen: parse error at %s: unexpected %s, expected %s", e.Pos, e.Got, e.Expected)
}

// Is reports whether the target matches the sentinel error for ParseError.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// NewParseError creates a new ParseError for the given token.
func NewParseError(got Token, expected string) *ParseError {
	return &ParseError{Pos: got.Pos, Got: got, Expected: expected}
}

// Parse lexes and parses a DBML document into its Schema AST.
// It returns a *LexError or *ParseError on malformed input.
func Parse(src string) (*Schema, error) {
	toks, err := ScanAll(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	return p.schema()
}

// parser is a recursive-descent parser over the token slice.
// Comment tokens are skipped but retained as attachable notes for
// the next declaration.
type parser struct {
	toks    []Token
	i       int
	comment string // most recent comment, attachable as a note
}

func (p *parser) peek() Token {
	for p.toks[p.i].Kind == Comment {
		p.comment = p.toks[p.i].Lit
		p.i++
	}
	return p.toks[p.i]
}

func (p *parser) next() Token {
	t := p.peek()
	if t.Kind != EOF {
		p.i++
	}
	return t
}

// takeComment consumes and clears the pending comment.
func (p *parser) takeComment() string {
	c := p.comment
	p.comment = ""
	return c
}

func (p *parser) expect(k Kind, what string) (Token, error) {
	t := p.next()
	if t.Kind != k {
		return Token{}, NewParseError(t, what)
	}
	return t, nil
}

// keyword reports whether the token is an identifier spelling the
// given keyword. DBML keywords are matched case-insensitively.
func keyword(t Token, kw string) bool {
	return t.Kind == Ident && strings.EqualFold(t.Lit, kw)
}

// name consumes an identifier or a double-quoted identifier.
func (p *parser) name(what string) (Token, error) {
	t := p.next()
	if t.Kind != Ident && t.Kind != String {
		return Token{}, NewParseError(t, what)
	}
	return t, nil
}

func (p *parser) schema() (*Schema, error) {
	s := &Schema{}
	for {
		t := p.peek()
		if t.Kind == EOF {
			return s, nil
		}
		var (
			d   Decl
			err error
		)
		switch {
		case keyword(t, "table"):
			d, err = p.table()
		case keyword(t, "enum"):
			d, err = p.enum()
		case keyword(t, "ref"):
			d, err = p.ref()
		case keyword(t, "tablegroup"):
			d, err = p.tableGroup()
		case keyword(t, "project"):
			d, err = p.project()
		case keyword(t, "note"):
			d, err = p.note()
		default:
			return nil, NewParseError(t, "a top-level declaration (Table, enum, Ref, TableGroup, Project or Note)")
		}
		if err != nil {
			return nil, err
		}
		s.Decls = append(s.Decls, d)
	}
}

// qualified consumes name or schema.name.
func (p *parser) qualified(what string) (schema, name string, pos Position, err error) {
	t, err := p.name(what)
	if err != nil {
		return "", "", Position{}, err
	}
	pos = t.Pos
	name = t.Lit
	if p.peek().Kind == Dot {
		p.next()
		t2, err := p.name(what)
		if err != nil {
			return "", "", Position{}, err
		}
		schema, name = name, t2.Lit
	}
	return schema, name, pos, nil
}

func (p *parser) table() (*TableDecl, error) {
	doc := p.takeComment()
	p.next() // Table
	schema, name, pos, err := p.qualified("a table name")
	if err != nil {
		return nil, err
	}
	d := &TableDecl{Name: name, Schema: schema, Note: doc, pos: pos}
	if keyword(p.peek(), "as") {
		p.next()
		alias, err := p.name("a table alias")
		if err != nil {
			return nil, err
		}
		d.Alias = alias.Lit
	}
	if _, err := p.expect(LBrace, "'{' opening the table body"); err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch {
		case t.Kind == RBrace:
			p.next()
			return d, nil
		case t.Kind == EOF:
			return nil, NewParseError(t, "'}' closing the table body")
		case keyword(t, "indexes") && p.at(1).Kind == LBrace:
			if err := p.indexes(d); err != nil {
				return nil, err
			}
		case keyword(t, "note") && (p.at(1).Kind == Colon || p.at(1).Kind == LBrace):
			note, err := p.noteValue()
			if err != nil {
				return nil, err
			}
			d.Note = note
		default:
			col, err := p.column(d)
			if err != nil {
				return nil, err
			}
			d.Columns = append(d.Columns, col)
		}
	}
}

// at peeks n non-comment tokens ahead without consuming.
func (p *parser) at(n int) Token {
	j, seen := p.i, 0
	for j < len(p.toks) {
		if p.toks[j].Kind == Comment {
			j++
			continue
		}
		if seen == n {
			return p.toks[j]
		}
		seen++
		j++
	}
	return p.toks[len(p.toks)-1]
}

// noteValue parses either "note: 'text'" or "Note { 'text' }".
func (p *parser) noteValue() (string, error) {
	p.next() // note
	if p.peek().Kind == Colon {
		p.next()
		t, err := p.expect(String, "a note string")
		if err != nil {
			return "", err
		}
		return t.Lit, nil
	}
	if _, err := p.expect(LBrace, "':' or '{' after note"); err != nil {
		return "", err
	}
	t, err := p.expect(String, "a note string")
	if err != nil {
		return "", err
	}
	if _, err := p.expect(RBrace, "'}' closing the note"); err != nil {
		return "", err
	}
	return t.Lit, nil
}

func (p *parser) column(table *TableDecl) (*ColumnDecl, error) {
	doc := p.takeComment()
	nameTok, err := p.name("a column name")
	if err != nil {
		return nil, err
	}
	typ, err := p.typeRef()
	if err != nil {
		return nil, err
	}
	col := &ColumnDecl{Name: nameTok.Lit, Type: typ, pos: nameTok.Pos}
	col.Settings.Note = doc
	if p.peek().Kind == LBracket {
		if err := p.columnSettings(table, col); err != nil {
			return nil, err
		}
	}
	return col, nil
}

func (p *parser) typeRef() (TypeRef, error) {
	schema, name, pos, err := p.qualified("a column type")
	if err != nil {
		return TypeRef{}, err
	}
	ref := TypeRef{Name: name, Schema: schema, pos: pos}
	if p.peek().Kind == LParen {
		p.next()
		for {
			t := p.next()
			switch t.Kind {
			case Int, Float, Ident, String:
				ref.Args = append(ref.Args, t.Lit)
			default:
				return TypeRef{}, NewParseError(t, "a type argument")
			}
			switch t := p.next(); t.Kind {
			case Comma:
			case RParen:
				return ref, nil
			default:
				return TypeRef{}, NewParseError(t, "',' or ')' in type arguments")
			}
		}
	}
	return ref, nil
}

func (p *parser) columnSettings(table *TableDecl, col *ColumnDecl) error {
	p.next() // [
	for {
		t := p.next()
		switch {
		case t.Kind == RBracket:
			return nil
		case keyword(t, "pk"):
			col.Settings.PK = true
		case keyword(t, "primary"):
			if t2 := p.next(); !keyword(t2, "key") {
				return NewParseError(t2, `"key" after "primary"`)
			}
			col.Settings.PK = true
		case keyword(t, "unique"):
			col.Settings.Unique = true
		case keyword(t, "increment"):
			col.Settings.Increment = true
		case keyword(t, "not"):
			if t2 := p.next(); !keyword(t2, "null") {
				return NewParseError(t2, `"null" after "not"`)
			}
			col.Settings.NotNull = true
		case keyword(t, "null"):
			col.Settings.Null = true
		case keyword(t, "default"):
			if _, err := p.expect(Colon, "':' after default"); err != nil {
				return err
			}
			v, err := p.value()
			if err != nil {
				return err
			}
			col.Settings.Default = v
		case keyword(t, "note"):
			if _, err := p.expect(Colon, "':' after note"); err != nil {
				return err
			}
			n, err := p.expect(String, "a note string")
			if err != nil {
				return err
			}
			col.Settings.Note = n.Lit
		case keyword(t, "ref"):
			if _, err := p.expect(Colon, "':' after ref"); err != nil {
				return err
			}
			ref, err := p.inlineRef(table, col, t.Pos)
			if err != nil {
				return err
			}
			col.Settings.Ref = ref
		default:
			return NewParseError(t, "a column setting")
		}
		switch t := p.peek(); t.Kind {
		case Comma:
			p.next()
		case RBracket:
		default:
			return NewParseError(t, "',' or ']' in column settings")
		}
	}
}

// inlineRef parses the operator and right endpoint of an inline
// "ref:" setting. The left endpoint is the enclosing column, so
// inline and standalone refs share one representation before
// resolution.
func (p *parser) inlineRef(table *TableDecl, col *ColumnDecl, pos Position) (*RefDecl, error) {
	op, err := p.refOp()
	if err != nil {
		return nil, err
	}
	right, err := p.endpoint()
	if err != nil {
		return nil, err
	}
	return &RefDecl{
		Op: op,
		Left: RefEndpoint{
			Schema:  table.Schema,
			Table:   table.Name,
			Columns: []string{col.Name},
			pos:     pos,
		},
		Right:  right,
		Inline: true,
		pos:    pos,
	}, nil
}

func (p *parser) value() (*Value, error) {
	t := p.next()
	switch t.Kind {
	case String:
		return &Value{Kind: ValueString, Raw: t.Lit}, nil
	case Int:
		return &Value{Kind: ValueInt, Raw: t.Lit}, nil
	case Float:
		return &Value{Kind: ValueFloat, Raw: t.Lit}, nil
	case Expr:
		return &Value{Kind: ValueExpr, Raw: t.Lit}, nil
	case Dash:
		// negative numeric literal
		n := p.next()
		switch n.Kind {
		case Int:
			return &Value{Kind: ValueInt, Raw: "-" + n.Lit}, nil
		case Float:
			return &Value{Kind: ValueFloat, Raw: "-" + n.Lit}, nil
		}
		return nil, NewParseError(n, "a numeric literal after '-'")
	case Ident:
		switch strings.ToLower(t.Lit) {
		case "true", "false":
			return &Value{Kind: ValueBool, Raw: strings.ToLower(t.Lit)}, nil
		case "null":
			return &Value{Kind: ValueExpr, Raw: "null"}, nil
		}
		return &Value{Kind: ValueExpr, Raw: t.Lit}, nil
	}
	return nil, NewParseError(t, "a default value")
}

func (p *parser) indexes(table *TableDecl) error {
	p.next() // indexes
	if _, err := p.expect(LBrace, "'{' opening the indexes block"); err != nil {
		return err
	}
	for {
		t := p.peek()
		switch t.Kind {
		case RBrace:
			p.next()
			return nil
		case EOF:
			return NewParseError(t, "'}' closing the indexes block")
		}
		idx := &IndexDecl{pos: t.Pos}
		switch t.Kind {
		case LParen:
			p.next()
			for {
				c, err := p.name("an index column")
				if err != nil {
					return err
				}
				idx.Columns = append(idx.Columns, c.Lit)
				sep := p.next()
				if sep.Kind == RParen {
					break
				}
				if sep.Kind != Comma {
					return NewParseError(sep, "',' or ')' in composite index")
				}
			}
		case Ident, String, Expr:
			p.next()
			idx.Columns = []string{t.Lit}
		default:
			return NewParseError(t, "an index column or composite column list")
		}
		if p.peek().Kind == LBracket {
			if err := p.indexSettings(idx); err != nil {
				return err
			}
		}
		table.Indexes = append(table.Indexes, idx)
	}
}

func (p *parser) indexSettings(idx *IndexDecl) error {
	p.next() // [
	for {
		t := p.next()
		switch {
		case t.Kind == RBracket:
			return nil
		case keyword(t, "unique"):
			idx.Unique = true
		case keyword(t, "pk"):
			idx.PK = true
		case keyword(t, "name"):
			if _, err := p.expect(Colon, "':' after name"); err != nil {
				return err
			}
			n, err := p.expect(String, "an index name string")
			if err != nil {
				return err
			}
			idx.Name = n.Lit
		default:
			return NewParseError(t, "an index setting (unique, pk or name)")
		}
		switch t := p.peek(); t.Kind {
		case Comma:
			p.next()
		case RBracket:
		default:
			return NewParseError(t, "',' or ']' in index settings")
		}
	}
}

func (p *parser) enum() (*EnumDecl, error) {
	p.next() // enum
	schema, name, pos, err := p.qualified("an enum name")
	if err != nil {
		return nil, err
	}
	d := &EnumDecl{Name: name, Schema: schema, pos: pos}
	if _, err := p.expect(LBrace, "'{' opening the enum body"); err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch t.Kind {
		case RBrace:
			p.next()
			return d, nil
		case EOF:
			return nil, NewParseError(t, "'}' closing the enum body")
		}
		v, err := p.name("an enum value")
		if err != nil {
			return nil, err
		}
		ev := &EnumValue{Name: v.Lit, pos: v.Pos}
		if p.peek().Kind == LBracket {
			p.next()
			if t := p.next(); !keyword(t, "note") {
				return nil, NewParseError(t, `"note" in enum value settings`)
			}
			if _, err := p.expect(Colon, "':' after note"); err != nil {
				return nil, err
			}
			n, err := p.expect(String, "a note string")
			if err != nil {
				return nil, err
			}
			ev.Note = n.Lit
			if _, err := p.expect(RBracket, "']' closing enum value settings"); err != nil {
				return nil, err
			}
		}
		d.Values = append(d.Values, ev)
	}
}

func (p *parser) ref() (*RefDecl, error) {
	start := p.next() // Ref
	d := &RefDecl{pos: start.Pos}
	if p.peek().Kind == Ident {
		name := p.next()
		d.Name = name.Lit
	}
	switch t := p.next(); t.Kind {
	case Colon:
		if err := p.refBody(d); err != nil {
			return nil, err
		}
		return d, nil
	case LBrace:
		if err := p.refBody(d); err != nil {
			return nil, err
		}
		if _, err := p.expect(RBrace, "'}' closing the ref block"); err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, NewParseError(t, "':' or '{' after Ref")
	}
}

func (p *parser) refBody(d *RefDecl) error {
	left, err := p.endpoint()
	if err != nil {
		return err
	}
	op, err := p.refOp()
	if err != nil {
		return err
	}
	right, err := p.endpoint()
	if err != nil {
		return err
	}
	d.Left, d.Op, d.Right = left, op, right
	if p.peek().Kind == LBracket {
		return p.refSettings(d)
	}
	return nil
}

func (p *parser) refOp() (RefOp, error) {
	switch t := p.next(); t.Kind {
	case Gt:
		return OpManyToOne, nil
	case Lt:
		return OpOneToMany, nil
	case Dash:
		return OpOneToOne, nil
	case BothWays:
		return OpManyToMany, nil
	default:
		return 0, NewParseError(t, "a relationship operator ('>', '<', '-' or '<>')")
	}
}

// endpoint parses [schema.]table.column or [schema.]table.(col, ...).
func (p *parser) endpoint() (RefEndpoint, error) {
	first, err := p.name("a relationship endpoint")
	if err != nil {
		return RefEndpoint{}, err
	}
	parts := []string{first.Lit}
	ep := RefEndpoint{pos: first.Pos}
	for p.peek().Kind == Dot {
		p.next()
		if p.peek().Kind == LParen {
			p.next()
			for {
				c, err := p.name("a column name in the endpoint column list")
				if err != nil {
					return RefEndpoint{}, err
				}
				ep.Columns = append(ep.Columns, c.Lit)
				sep := p.next()
				if sep.Kind == RParen {
					break
				}
				if sep.Kind != Comma {
					return RefEndpoint{}, NewParseError(sep, "',' or ')' in endpoint column list")
				}
			}
			break
		}
		part, err := p.name("a name segment in the endpoint")
		if err != nil {
			return RefEndpoint{}, err
		}
		parts = append(parts, part.Lit)
	}
	if len(ep.Columns) == 0 {
		// The last segment is the column.
		if len(parts) < 2 {
			return RefEndpoint{}, NewParseError(p.peek(), "'.' and a column name in the endpoint")
		}
		ep.Columns = []string{parts[len(parts)-1]}
		parts = parts[:len(parts)-1]
	}
	switch len(parts) {
	case 1:
		ep.Table = parts[0]
	case 2:
		ep.Schema, ep.Table = parts[0], parts[1]
	default:
		return RefEndpoint{}, NewParseError(p.peek(), "at most schema.table qualification in the endpoint")
	}
	return ep, nil
}

func (p *parser) refSettings(d *RefDecl) error {
	p.next() // [
	for {
		t := p.next()
		switch {
		case t.Kind == RBracket:
			return nil
		case keyword(t, "delete"):
			action, err := p.refAction()
			if err != nil {
				return err
			}
			d.OnDelete = action
		case keyword(t, "update"):
			action, err := p.refAction()
			if err != nil {
				return err
			}
			d.OnUpdate = action
		default:
			return NewParseError(t, "a ref setting (delete or update)")
		}
		switch t := p.peek(); t.Kind {
		case Comma:
			p.next()
		case RBracket:
		default:
			return NewParseError(t, "',' or ']' in ref settings")
		}
	}
}

// refAction parses ": cascade", ": restrict", ": no action", ": set null"
// or ": set default".
func (p *parser) refAction() (string, error) {
	if _, err := p.expect(Colon, "':' before the referential action"); err != nil {
		return "", err
	}
	t, err := p.expect(Ident, "a referential action")
	if err != nil {
		return "", err
	}
	words := []string{strings.ToLower(t.Lit)}
	// Two-word actions: "no action", "set null", "set default".
	if words[0] == "no" || words[0] == "set" {
		t2, err := p.expect(Ident, "the second word of the referential action")
		if err != nil {
			return "", err
		}
		words = append(words, strings.ToLower(t2.Lit))
	}
	action := strings.Join(words, " ")
	switch action {
	case "cascade", "restrict", "no action", "set null", "set default":
		return action, nil
	}
	return "", NewParseError(t, "one of cascade, restrict, no action, set null, set default")
}

func (p *parser) tableGroup() (*TableGroupDecl, error) {
	p.next() // TableGroup
	name, err := p.name("a table group name")
	if err != nil {
		return nil, err
	}
	d := &TableGroupDecl{Name: name.Lit, pos: name.Pos}
	if _, err := p.expect(LBrace, "'{' opening the table group body"); err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch t.Kind {
		case RBrace:
			p.next()
			return d, nil
		case EOF:
			return nil, NewParseError(t, "'}' closing the table group body")
		}
		schema, tbl, _, err := p.qualified("a table name in the group")
		if err != nil {
			return nil, err
		}
		if schema != "" {
			tbl = schema + "." + tbl
		}
		d.Tables = append(d.Tables, tbl)
	}
}

func (p *parser) project() (*ProjectDecl, error) {
	p.next() // Project
	d := &ProjectDecl{Props: map[string]string{}}
	if t := p.peek(); t.Kind == Ident || t.Kind == String {
		p.next()
		d.Name = t.Lit
		d.pos = t.Pos
	}
	if _, err := p.expect(LBrace, "'{' opening the project body"); err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		switch t.Kind {
		case RBrace:
			p.next()
			return d, nil
		case EOF:
			return nil, NewParseError(t, "'}' closing the project body")
		}
		if keyword(t, "note") {
			note, err := p.noteValue()
			if err != nil {
				return nil, err
			}
			d.Note = note
			continue
		}
		key, err := p.name("a project property name")
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(Colon, "':' after the property name"); err != nil {
			return nil, err
		}
		val, err := p.expect(String, "a property value string")
		if err != nil {
			return nil, err
		}
		d.Props[key.Lit] = val.Lit
	}
}

func (p *parser) note() (*NoteDecl, error) {
	start := p.peek()
	d := &NoteDecl{pos: start.Pos}
	p.next() // Note
	if t := p.peek(); t.Kind == Ident {
		p.next()
		d.Name = t.Lit
	}
	if _, err := p.expect(LBrace, "'{' opening the note body"); err != nil {
		return nil, err
	}
	t, err := p.expect(String, "a note string")
	if err != nil {
		return nil, err
	}
	d.Text = t.Lit
	if _, err := p.expect(RBrace, "'}' closing the note body"); err != nil {
		return nil, err
	}
	return d, nil
}
