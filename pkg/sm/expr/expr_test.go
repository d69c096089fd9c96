package expr_test

import (
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSrc replays a fixed slice of tokens, appending a trailing EOF.
type fakeSrc struct {
	toks []token.Tok
	i    int
}

func newFakeSrc(toks ...token.Tok) *fakeSrc { return &fakeSrc{toks: toks} }

func (f *fakeSrc) Peek() (token.Tok, error) {
	if f.i >= len(f.toks) {
		return token.Tok{Kind: token.EOF}, nil
	}
	return f.toks[f.i], nil
}

func (f *fakeSrc) Eat() {
	if f.i < len(f.toks) {
		f.i++
	}
}

type fakePC struct {
	section view.View
	pc      int32
}

func (p fakePC) Section() view.View { return p.section }
func (p fakePC) PC() int32          { return p.pc }

func numTok(n int32) token.Tok { return token.Tok{Kind: token.NUM, Num: n} }
func punct(c byte) token.Tok   { return token.Tok{Kind: token.Kind(c)} }
func idTok(s string) token.Tok { return token.Tok{Kind: token.ID, Text: view.FromString(s)} }

func neverDefined(symtab.Lbl) bool { return false }

func TestParsePrecedenceMultiplyBeforeAdd(t *testing.T) {
	// 1 + 2 * 3  =>  1 2 3 * +
	src := newFakeSrc(numTok(1), punct('+'), numTok(2), punct('*'), numTok(3))
	p := expr.NewParser(src, fakePC{}, neverDefined)
	v, err := p.Parse()
	require.NoError(t, err)
	require.Len(t, v, 5)
	assert.Equal(t, expr.Const, v[0].Kind)
	assert.Equal(t, int32(1), v[0].Num)
	assert.Equal(t, expr.Const, v[1].Kind)
	assert.Equal(t, int32(2), v[1].Num)
	assert.Equal(t, expr.Const, v[2].Kind)
	assert.Equal(t, int32(3), v[2].Num)
	assert.Equal(t, expr.Op, v[3].Kind)
	assert.Equal(t, token.Kind('*'), v[3].OpTok)
	assert.Equal(t, expr.Op, v[4].Kind)
	assert.Equal(t, token.Kind('+'), v[4].OpTok)
}

func TestParseParentheses(t *testing.T) {
	// (1 + 2) * 3 => 1 2 + 3 *
	src := newFakeSrc(punct('('), numTok(1), punct('+'), numTok(2), punct(')'), punct('*'), numTok(3))
	p := expr.NewParser(src, fakePC{}, neverDefined)
	v, err := p.Parse()
	require.NoError(t, err)
	require.Len(t, v, 5)
	assert.Equal(t, token.Kind('+'), v[2].OpTok)
	assert.Equal(t, token.Kind('*'), v[4].OpTok)
}

func TestParseUnaryMinus(t *testing.T) {
	// -1 + 2 => 1 - 2 +   (unary - applied to 1, then binary +)
	src := newFakeSrc(punct('-'), numTok(1), punct('+'), numTok(2))
	p := expr.NewParser(src, fakePC{}, neverDefined)
	v, err := p.Parse()
	require.NoError(t, err)
	require.Len(t, v, 4)
	assert.Equal(t, expr.Const, v[0].Kind)
	assert.Equal(t, expr.Op, v[1].Kind)
	assert.True(t, v[1].Unary)
	assert.Equal(t, token.Kind('-'), v[1].OpTok)
	assert.Equal(t, expr.Op, v[3].Kind)
	assert.False(t, v[3].Unary)
}

func TestParseBarePCAndAbsolutePC(t *testing.T) {
	src := newFakeSrc(punct('*'))
	p := expr.NewParser(src, fakePC{section: view.FromString("ROM0"), pc: 0x150}, neverDefined)
	v, err := p.Parse()
	require.NoError(t, err)
	require.Len(t, v, 1)
	assert.Equal(t, expr.Const, v[0].Kind)
	assert.Equal(t, int32(0x150), v[0].Num)

	src2 := newFakeSrc(token.Tok{Kind: token.DStar})
	p2 := expr.NewParser(src2, fakePC{section: view.FromString("ROM0"), pc: 0x200}, neverDefined)
	v2, err := p2.Parse()
	require.NoError(t, err)
	require.Len(t, v2, 1)
	assert.Equal(t, expr.Addr, v2[0].Kind)
	assert.Equal(t, int32(0x200), v2[0].PC)
}

func TestParseDefined(t *testing.T) {
	src := newFakeSrc(token.Tok{Kind: token.KwDEFINED}, idTok("FOO"))
	defined := func(lbl symtab.Lbl) bool { return lbl.Name.String() == "FOO" }
	p := expr.NewParser(src, fakePC{}, defined)
	v, err := p.Parse()
	require.NoError(t, err)
	require.Len(t, v, 1)
	assert.Equal(t, expr.Const, v[0].Kind)
	assert.Equal(t, int32(1), v[0].Num)
}

func TestParseLabelAtom(t *testing.T) {
	src := newFakeSrc(idTok("main.loop"))
	p := expr.NewParser(src, fakePC{}, neverDefined)
	v, err := p.Parse()
	require.NoError(t, err)
	require.Len(t, v, 1)
	assert.Equal(t, expr.Label, v[0].Kind)
	assert.Equal(t, "main", v[0].Lbl.Scope.String())
	assert.Equal(t, "loop", v[0].Lbl.Name.String())
}

// fakeSyms resolves labels against a plain map for evaluator tests.
type fakeSyms map[string]expr.View

func (f fakeSyms) LookupExpr(lbl symtab.Lbl) (expr.View, bool) {
	v, ok := f[lbl.String()]
	return v, ok
}

func constView(n int32) expr.View {
	return expr.View{{Kind: expr.Const, Num: n}}
}

func TestEvalConstArithmetic(t *testing.T) {
	// 1 2 3 * +  => 1 + (2*3) = 7
	v := expr.View{
		{Kind: expr.Const, Num: 1},
		{Kind: expr.Const, Num: 2},
		{Kind: expr.Const, Num: 3},
		{Kind: expr.Op, OpTok: token.Kind('*')},
		{Kind: expr.Op, OpTok: token.Kind('+')},
	}
	ev := &expr.Evaluator{Syms: fakeSyms{}}
	num, ok := ev.Solve(v, false, view.Null)
	require.True(t, ok)
	assert.Equal(t, int32(7), num)
}

func TestEvalLabelRecursesThroughSymbolValue(t *testing.T) {
	syms := fakeSyms{"TWO": constView(2)}
	v := expr.View{
		{Kind: expr.Label, Lbl: symtab.Global(view.FromString("TWO"))},
		{Kind: expr.Const, Num: 40},
		{Kind: expr.Op, OpTok: token.Kind('+')},
	}
	ev := &expr.Evaluator{Syms: syms}
	num, ok := ev.Solve(v, false, view.Null)
	require.True(t, ok)
	assert.Equal(t, int32(42), num)
}

func TestEvalUnresolvedLabelFails(t *testing.T) {
	v := expr.View{{Kind: expr.Label, Lbl: symtab.Global(view.FromString("MISSING"))}}
	ev := &expr.Evaluator{Syms: fakeSyms{}}
	_, ok := ev.Solve(v, false, view.Null)
	assert.False(t, ok)
}

func TestEvalTagNeverSolvesAtAssembleTime(t *testing.T) {
	v := expr.View{{Kind: expr.Tag, TagLbl: symtab.Global(view.FromString("x")), TagName: view.FromString("doc")}}
	ev := &expr.Evaluator{Syms: fakeSyms{}}
	_, ok := ev.Solve(v, true, view.Null)
	assert.False(t, ok)
}

func TestEvalAddrOnlySolvesWhenRelativeAndSectionMatches(t *testing.T) {
	rom0 := view.FromString("ROM0")
	v := expr.View{{Kind: expr.Addr, Section: rom0, PC: 0x10}}
	ev := &expr.Evaluator{Syms: fakeSyms{}}

	_, ok := ev.Solve(v, false, rom0)
	assert.False(t, ok, "absolute solve must defer to link time")

	_, ok = ev.Solve(v, true, view.FromString("ROM1"))
	assert.False(t, ok, "section mismatch must fail")

	num, ok := ev.Solve(v, true, rom0)
	require.True(t, ok)
	assert.Equal(t, int32(0x10), num)
}

func TestEvalRelAlwaysRecursesRelative(t *testing.T) {
	rom0 := view.FromString("ROM0")
	syms := fakeSyms{"HERE": {{Kind: expr.Addr, Section: rom0, PC: 0x42}}}
	v := expr.View{{Kind: expr.Rel, Lbl: symtab.Global(view.FromString("HERE"))}}
	ev := &expr.Evaluator{Syms: syms}

	num, ok := ev.Solve(v, false, rom0)
	require.True(t, ok, "Rel solves relative regardless of the outer call's relative flag")
	assert.Equal(t, int32(0x42), num)
}

func TestCanRepr(t *testing.T) {
	assert.True(t, expr.CanReprU8(255))
	assert.False(t, expr.CanReprU8(256))
	assert.True(t, expr.CanReprU16(65535))
	assert.False(t, expr.CanReprU16(-1))
	assert.True(t, expr.CanReprI8(-128))
	assert.True(t, expr.CanReprI8(127))
	assert.False(t, expr.CanReprI8(128))
}
