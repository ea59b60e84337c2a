package load

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

// Token kinds produced by the lexer.
const (
	EOF Kind = iota
	Ident
	Int
	Float
	String
	Expr // backtick-quoted raw expression, e.g. `now()`
	Comment

	LBrace   // {
	RBrace   // }
	LParen   // (
	RParen   // )
	LBracket // [
	RBracket // ]
	Comma    // ,
	Dot      // .
	Colon    // :
	Semi     // ;

	Gt       // >
	Lt       // <
	Dash     // -
	BothWays // <>
)

var kindNames = map[Kind]string{
	EOF:      "end of input",
	Ident:    "identifier",
	Int:      "integer",
	Float:    "float",
	String:   "string",
	Expr:     "expression",
	Comment:  "comment",
	LBrace:   "'{'",
	RBrace:   "'}'",
	LParen:   "'('",
	RParen:   "')'",
	LBracket: "'['",
	RBracket: "']'",
	Comma:    "','",
	Dot:      "'.'",
	Colon:    "':'",
	Semi:     "';'",
	Gt:       "'>'",
	Lt:       "'<'",
	Dash:     "'-'",
	BothWays: "'<>'",
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Position is a location in the source document. Lines and columns
// are 1-based; Offset is the 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

// String formats the position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical token with its source position.
// Tokens are immutable: produced once by the lexer, consumed once
// by the parser.
type Token struct {
	Kind Kind
	Lit  string
	Pos  Position
}

// String returns the token literal, or the kind name for punctuation.
func (t Token) String() string {
	switch t.Kind {
	case Ident, Int, Float, String, Expr, Comment:
		return fmt.Sprintf("%s %q", t.Kind, t.Lit)
	default:
		return t.Kind.String()
	}
}
