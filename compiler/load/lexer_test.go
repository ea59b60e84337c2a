package load

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []Kind {
	out := make([]Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerBasics(t *testing.T) {
	require := require.New(t)
	toks, err := ScanAll("Table users {\n  id int [pk]\n}")
	require.NoError(err)
	require.Equal([]Kind{
		Ident, Ident, LBrace,
		Ident, Ident, LBracket, Ident, RBracket,
		RBrace, EOF,
	}, kinds(toks))
	require.Equal("Table", toks[0].Lit)
	require.Equal("users", toks[1].Lit)
	require.Equal(Position{Line: 1, Column: 7, Offset: 6}, toks[1].Pos)
	require.Equal(2, toks[3].Pos.Line)
}

func TestLexerOperators(t *testing.T) {
	require := require.New(t)
	toks, err := ScanAll("> < - <>")
	require.NoError(err)
	require.Equal([]Kind{Gt, Lt, Dash, BothWays, EOF}, kinds(toks))
}

func TestLexerStrings(t *testing.T) {
	t.Run("single quoted", func(t *testing.T) {
		toks, err := ScanAll(`'hello world'`)
		require.NoError(t, err)
		require.Equal(t, String, toks[0].Kind)
		assert.Equal(t, "hello world", toks[0].Lit)
	})
	t.Run("double quoted", func(t *testing.T) {
		toks, err := ScanAll(`"user name"`)
		require.NoError(t, err)
		require.Equal(t, String, toks[0].Kind)
		assert.Equal(t, "user name", toks[0].Lit)
	})
	t.Run("escapes", func(t *testing.T) {
		toks, err := ScanAll(`'it\'s'`)
		require.NoError(t, err)
		assert.Equal(t, "it's", toks[0].Lit)
	})
	t.Run("multiline", func(t *testing.T) {
		toks, err := ScanAll("'''first\nsecond'''")
		require.NoError(t, err)
		require.Equal(t, String, toks[0].Kind)
		assert.Contains(t, toks[0].Lit, "second")
	})
	t.Run("unterminated", func(t *testing.T) {
		_, err := ScanAll("'oops")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrLex))
		var lexErr *LexError
		require.ErrorAs(t, err, &lexErr)
		assert.Equal(t, 1, lexErr.Pos.Line)
	})
}

func TestLexerNumbers(t *testing.T) {
	require := require.New(t)
	toks, err := ScanAll("42 3.14 0")
	require.NoError(err)
	require.Equal([]Kind{Int, Float, Int, EOF}, kinds(toks))
	require.Equal("3.14", toks[1].Lit)
}

func TestLexerExpr(t *testing.T) {
	require := require.New(t)
	toks, err := ScanAll("[default: `now()`]")
	require.NoError(err)
	require.Equal([]Kind{LBracket, Ident, Colon, Expr, RBracket, EOF}, kinds(toks))
	require.Equal("now()", toks[3].Lit)
}

func TestLexerComments(t *testing.T) {
	t.Run("line", func(t *testing.T) {
		toks, err := ScanAll("// the users table\nTable users {}")
		require.NoError(t, err)
		require.Equal(t, Comment, toks[0].Kind)
		assert.Equal(t, "the users table", toks[0].Lit)
	})
	t.Run("block", func(t *testing.T) {
		toks, err := ScanAll("/* skip\nme */ id")
		require.NoError(t, err)
		require.Equal(t, Comment, toks[0].Kind)
		assert.Equal(t, Ident, toks[1].Kind)
	})
	t.Run("unterminated block", func(t *testing.T) {
		_, err := ScanAll("/* never closed")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrLex))
	})
}

func TestLexerUnicodeIdent(t *testing.T) {
	require := require.New(t)
	toks, err := ScanAll("Table café {}")
	require.NoError(err)
	require.Equal(Ident, toks[1].Kind)
	require.Equal("café", toks[1].Lit)
	// Columns count runes, so "{" sits right after the 4-rune ident.
	require.Equal(Position{Line: 1, Column: 12, Offset: 12}, toks[2].Pos)
}

func TestLexerPositionTracking(t *testing.T) {
	require := require.New(t)
	toks, err := ScanAll("a\nbb\n  ccc")
	require.NoError(err)
	require.Equal(Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	require.Equal(Position{Line: 2, Column: 1, Offset: 2}, toks[1].Pos)
	require.Equal(Position{Line: 3, Column: 3, Offset: 7}, toks[2].Pos)
}
