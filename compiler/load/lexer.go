package load

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrLex is the sentinel error matched by all lexical errors.
var ErrLex = errors.New("dbmlgen: lex error")

// LexError reports a malformed literal or comment with its source position.
type LexError struct {
	Pos     Position
	Message string
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("dbmlgen: lex error at %s: %s", e.Pos, e.Message)
}

// Is reports whether the target matches the sentinel error for LexError.
func (e *LexError) Is(target error) bool {
	return target == ErrLex
}

// NewLexError creates a new LexError.
func NewLexError(pos Position, format string, args ...any) *LexError {
	return &LexError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Lexer turns DBML source text into a stream of tokens. The zero value
// is not usable; create instances with NewLexer. The stream is restartable:
// a fresh Lexer over the same source yields the same tokens.
type Lexer struct {
	src  string
	off  int
	line int
	col  int
}

// NewLexer returns a lexer over the given source text.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// ScanAll drains the lexer and returns every token up to and including
// the EOF marker, or the first lexical error.
func ScanAll(src string) ([]Token, error) {
	lx := NewLexer(src)
	var toks []Token
	for {
		tok, err := lx.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

// Next returns the next token. After the end of input it keeps
// returning EOF tokens.
func (l *Lexer) Next() (Token, error) {
	l.skipSpace()
	pos := l.pos()
	if l.off >= len(l.src) {
		return Token{Kind: EOF, Pos: pos}, nil
	}
	c := l.src[l.off]
	switch {
	case c == '/' && l.peekAt(1) == '/':
		return l.lineComment(pos), nil
	case c == '/' && l.peekAt(1) == '*':
		return l.blockComment(pos)
	case c == '\'' || c == '"':
		return l.str(pos, c)
	case c == '`':
		return l.expr(pos)
	case isDigit(c):
		return l.number(pos), nil
	case isIdentStart(c):
		return l.ident(pos), nil
	}
	// Multi-character operators are matched greedily before
	// single-character ones.
	if c == '<' && l.peekAt(1) == '>' {
		l.advance(2)
		return Token{Kind: BothWays, Lit: "<>", Pos: pos}, nil
	}
	var kind Kind
	switch c {
	case '{':
		kind = LBrace
	case '}':
		kind = RBrace
	case '(':
		kind = LParen
	case ')':
		kind = RParen
	case '[':
		kind = LBracket
	case ']':
		kind = RBracket
	case ',':
		kind = Comma
	case '.':
		kind = Dot
	case ':':
		kind = Colon
	case ';':
		kind = Semi
	case '>':
		kind = Gt
	case '<':
		kind = Lt
	case '-':
		kind = Dash
	default:
		return Token{}, NewLexError(pos, "unexpected character %q", rune(c))
	}
	l.advance(1)
	return Token{Kind: kind, Lit: string(c), Pos: pos}, nil
}

func (l *Lexer) pos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.off}
}

func (l *Lexer) peekAt(n int) byte {
	if l.off+n >= len(l.src) {
		return 0
	}
	return l.src[l.off+n]
}

// advance moves n bytes forward, tracking line and column. Columns
// count runes, not bytes: UTF-8 continuation bytes extend the rune
// that already advanced the column.
func (l *Lexer) advance(n int) {
	for i := 0; i < n && l.off < len(l.src); i++ {
		switch {
		case l.src[l.off] == '\n':
			l.line++
			l.col = 1
		case l.src[l.off]&0xC0 == 0x80:
		default:
			l.col++
		}
		l.off++
	}
}

func (l *Lexer) skipSpace() {
	for l.off < len(l.src) {
		switch l.src[l.off] {
		case ' ', '\t', '\r', '\n':
			l.advance(1)
		default:
			return
		}
	}
}

func (l *Lexer) lineComment(pos Position) Token {
	start := l.off + 2
	for l.off < len(l.src) && l.src[l.off] != '\n' {
		l.advance(1)
	}
	return Token{Kind: Comment, Lit: strings.TrimSpace(l.src[start:l.off]), Pos: pos}
}

func (l *Lexer) blockComment(pos Position) (Token, error) {
	l.advance(2)
	start := l.off
	for l.off < len(l.src) {
		if l.src[l.off] == '*' && l.peekAt(1) == '/' {
			lit := strings.TrimSpace(l.src[start:l.off])
			l.advance(2)
			return Token{Kind: Comment, Lit: lit, Pos: pos}, nil
		}
		l.advance(1)
	}
	return Token{}, NewLexError(pos, "unterminated block comment")
}

// str scans a quoted literal. Triple single-quotes open a multiline
// string. Double-quoted literals double as quoted identifiers; the
// parser accepts them in name positions.
func (l *Lexer) str(pos Position, quote byte) (Token, error) {
	if quote == '\'' && l.peekAt(1) == '\'' && l.peekAt(2) == '\'' {
		return l.multilineStr(pos)
	}
	l.advance(1)
	var b strings.Builder
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch c {
		case quote:
			l.advance(1)
			return Token{Kind: String, Lit: b.String(), Pos: pos}, nil
		case '\\':
			if l.off+1 < len(l.src) {
				b.WriteByte(unescape(l.peekAt(1)))
				l.advance(2)
				continue
			}
			l.advance(1)
		case '\n':
			return Token{}, NewLexError(pos, "unterminated string literal")
		default:
			b.WriteByte(c)
			l.advance(1)
		}
	}
	return Token{}, NewLexError(pos, "unterminated string literal")
}

func (l *Lexer) multilineStr(pos Position) (Token, error) {
	l.advance(3)
	start := l.off
	for l.off < len(l.src) {
		if l.src[l.off] == '\'' && l.peekAt(1) == '\'' && l.peekAt(2) == '\'' {
			lit := strings.TrimSpace(l.src[start:l.off])
			l.advance(3)
			return Token{Kind: String, Lit: lit, Pos: pos}, nil
		}
		l.advance(1)
	}
	return Token{}, NewLexError(pos, "unterminated multiline string literal")
}

func (l *Lexer) expr(pos Position) (Token, error) {
	l.advance(1)
	start := l.off
	for l.off < len(l.src) {
		if l.src[l.off] == '`' {
			lit := l.src[start:l.off]
			l.advance(1)
			return Token{Kind: Expr, Lit: lit, Pos: pos}, nil
		}
		l.advance(1)
	}
	return Token{}, NewLexError(pos, "unterminated expression literal")
}

func (l *Lexer) number(pos Position) Token {
	start := l.off
	kind := Int
	for l.off < len(l.src) && isDigit(l.src[l.off]) {
		l.advance(1)
	}
	if l.off < len(l.src) && l.src[l.off] == '.' && isDigit(l.peekAt(1)) {
		kind = Float
		l.advance(1)
		for l.off < len(l.src) && isDigit(l.src[l.off]) {
			l.advance(1)
		}
	}
	return Token{Kind: kind, Lit: l.src[start:l.off], Pos: pos}
}

func (l *Lexer) ident(pos Position) Token {
	start := l.off
	for l.off < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.off:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.advance(size)
	}
	return Token{Kind: Ident, Lit: l.src[start:l.off], Pos: pos}
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	default:
		return c
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= utf8.RuneSelf
}
