package token_test

import (
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lexAll(t *testing.T, src string) []token.Tok {
	t.Helper()
	pool := view.NewPool()
	lx := token.NewLexer(view.FromString("test.s"), []byte(src), pool)
	var toks []token.Tok
	for {
		tok, err := lx.Peek()
		require.NoError(t, err)
		toks = append(toks, tok)
		lx.Eat()
		if tok.Kind == token.EOF {
			return toks
		}
	}
}

func TestLexIdentifiersAndRegisters(t *testing.T) {
	toks := lexAll(t, "main a b hl loop.local")
	require.Len(t, toks, 6)
	assert.Equal(t, token.ID, toks[0].Kind)
	assert.Equal(t, "main", toks[0].Text.String())
	assert.Equal(t, token.RegA, toks[1].Kind)
	assert.Equal(t, token.RegB, toks[2].Kind)
	assert.Equal(t, token.RegHL, toks[3].Kind)
	assert.Equal(t, token.ID, toks[4].Kind)
	assert.Equal(t, "loop.local", toks[4].Text.String())
	assert.Equal(t, token.EOF, toks[5].Kind)
}

func TestLexNumberRadixes(t *testing.T) {
	toks := lexAll(t, "10 $FF %1010 'A'")
	require.Len(t, toks, 5)
	assert.Equal(t, int32(10), toks[0].Num)
	assert.Equal(t, int32(255), toks[1].Num)
	assert.Equal(t, int32(10), toks[2].Num)
	assert.Equal(t, int32('A'), toks[3].Num)
}

func TestLexPercentAsModulus(t *testing.T) {
	toks := lexAll(t, "10 % 2")
	require.Len(t, toks, 4)
	assert.Equal(t, token.NUM, toks[0].Kind)
	assert.Equal(t, token.Kind('%'), toks[1].Kind)
	assert.Equal(t, token.NUM, toks[2].Kind)
}

func TestLexString(t *testing.T) {
	toks := lexAll(t, `"hello\nworld"`)
	require.Len(t, toks, 2)
	assert.Equal(t, token.STR, toks[0].Kind)
	assert.Equal(t, "hello\nworld", toks[0].Text.String())
}

func TestLexDirective(t *testing.T) {
	toks := lexAll(t, "@db @section")
	require.Len(t, toks, 3)
	assert.Equal(t, token.KwDB, toks[0].Kind)
	assert.Equal(t, token.KwSECTION, toks[1].Kind)
}

func TestLexDirectiveUnrecognizedIsError(t *testing.T) {
	pool := view.NewPool()
	lx := token.NewLexer(view.FromString("test.s"), []byte("@bogus"), pool)
	_, err := lx.Peek()
	assert.ErrorIs(t, err, smerr.ErrLex)
}

func TestLexMacroArgNumber(t *testing.T) {
	toks := lexAll(t, "@1")
	require.Len(t, toks, 2)
	assert.Equal(t, token.NUM, toks[0].Kind)
	assert.Equal(t, int32(1), toks[0].Num)
}

func TestLexDigraphsAndPunct(t *testing.T) {
	toks := lexAll(t, "<< >> ~> <= >= == != && || :: ** , ( ) + -")
	kinds := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, []token.Kind{
		token.Asl, token.Asr, token.Lsr, token.Lte, token.Gte, token.Deq,
		token.Neq, token.And, token.Or, token.DColon, token.DStar,
		token.Kind(','), token.Kind('('), token.Kind(')'), token.Kind('+'),
		token.Kind('-'), token.EOF,
	}, kinds)
}

func TestLexLineContinuation(t *testing.T) {
	toks := lexAll(t, "foo \\\nbar")
	require.Len(t, toks, 3)
	assert.Equal(t, "foo", toks[0].Text.String())
	assert.Equal(t, "bar", toks[1].Text.String())
}

func TestLexCommentsSkipped(t *testing.T) {
	toks := lexAll(t, "foo ; a comment\nbar")
	require.Len(t, toks, 3)
	assert.Equal(t, "foo", toks[0].Text.String())
	assert.Equal(t, "bar", toks[1].Text.String())
}

func TestLexRewind(t *testing.T) {
	pool := view.NewPool()
	lx := token.NewLexer(view.FromString("test.s"), []byte("main"), pool)
	first, err := lx.Peek()
	require.NoError(t, err)
	lx.Eat()
	lx.Rewind()
	second, err := lx.Peek()
	require.NoError(t, err)
	assert.Equal(t, first.Text.String(), second.Text.String())
}
