package object_test

import (
	"bytes"
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/object"
	"github.com/smtk-dev/smtk/pkg/sm/section"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTripsSymbolsAndSections(t *testing.T) {
	syms := symtab.NewSymTab[expr.View]()
	syms.Add(symtab.Sym[expr.View]{
		Lbl:     symtab.Global(view.FromString("main")),
		Value:   expr.View{{Kind: expr.Const, Num: 42}},
		Unit:    view.FromString("main.asm"),
		Section: view.FromString("CODE"),
		Pos:     token.Pos{File: view.FromString("main.asm"), Line: 3, Col: 1},
		Flags:   symtab.FlagEqu,
	})
	syms.Add(symtab.Sym[expr.View]{
		Lbl:   symtab.Abs(view.FromString("main"), view.FromString("loop")),
		Value: expr.View{{Kind: expr.Addr, Section: view.FromString("CODE"), PC: 10}},
		Unit:  view.FromString("main.asm"),
	})

	sects := section.NewTable()
	code := sects.Get(view.FromString("CODE"))
	code.EmitBytes([]byte{0x00, 0x18, 0xFE})
	code.AddReloc(2, expr.View{ // offset 3, reserves 2 placeholder bytes

		{Kind: expr.Label, Lbl: symtab.Global(view.FromString("loop"))},
		{Kind: expr.Const, Num: 1},
		{Kind: expr.Op, OpTok: token.Kind('+')},
	}, view.FromString("main.asm"), token.Pos{File: view.FromString("main.asm"), Line: 4}, section.FlagJP)
	sects.Get(view.FromString("BSS")) // left empty, must be omitted on encode

	var buf bytes.Buffer
	require.NoError(t, object.Encode(&buf, syms, sects))

	pool := view.NewPool()
	gotSyms, gotSects, err := object.Decode(&buf, pool)
	require.NoError(t, err)

	require.Equal(t, 2, gotSyms.Len())
	mainSym, ok := gotSyms.Find(symtab.Global(view.FromString("main")))
	require.True(t, ok)
	assert.Equal(t, "main", mainSym.Lbl.Name.String())
	assert.True(t, mainSym.Lbl.Scope.IsNull())
	assert.Equal(t, symtab.FlagEqu, mainSym.Flags)
	require.Len(t, mainSym.Value, 1)
	assert.Equal(t, expr.Const, mainSym.Value[0].Kind)
	assert.EqualValues(t, 42, mainSym.Value[0].Num)
	assert.Equal(t, "main.asm", mainSym.Pos.File.String())
	assert.EqualValues(t, 3, mainSym.Pos.Line)

	loopSym, ok := gotSyms.Find(symtab.Abs(view.FromString("main"), view.FromString("loop")))
	require.True(t, ok)
	assert.Equal(t, "main", loopSym.Lbl.Scope.String())
	assert.False(t, loopSym.Lbl.Scope.IsNull())

	_, foundBSS := gotSects.Find(view.FromString("BSS"))
	assert.False(t, foundBSS, "empty sections must not round-trip")

	gotCode, ok := gotSects.Find(view.FromString("CODE"))
	require.True(t, ok)
	assert.Equal(t, []byte{0x00, 0x18, 0xFE, 0, 0}, gotCode.Data)
	require.Len(t, gotCode.Relocs, 1)
	reloc := gotCode.Relocs[0]
	assert.Equal(t, uint32(3), reloc.Offset)
	assert.Equal(t, section.FlagJP, reloc.Flags)
	require.Len(t, reloc.Value, 3)
	assert.Equal(t, expr.Label, reloc.Value[0].Kind)
	assert.Equal(t, "loop", reloc.Value[0].Lbl.Name.String())
	assert.Equal(t, expr.Op, reloc.Value[2].Kind)
	assert.Equal(t, token.Kind('+'), reloc.Value[2].OpTok)
}

func TestEncodeDecodeRoundTripsRelAndTagAtoms(t *testing.T) {
	syms := symtab.NewSymTab[expr.View]()
	syms.Add(symtab.Sym[expr.View]{
		Lbl: symtab.Global(view.FromString("offset")),
		Value: expr.View{
			{Kind: expr.Rel, Lbl: symtab.Local(view.FromString("here"))},
			{Kind: expr.Tag, TagLbl: symtab.Global(view.FromString("Entity")), TagName: view.FromString("x")},
		},
	})

	var buf bytes.Buffer
	require.NoError(t, object.Encode(&buf, syms, section.NewTable()))

	pool := view.NewPool()
	gotSyms, _, err := object.Decode(&buf, pool)
	require.NoError(t, err)

	sym, ok := gotSyms.Find(symtab.Global(view.FromString("offset")))
	require.True(t, ok)
	require.Len(t, sym.Value, 2)
	assert.Equal(t, expr.Rel, sym.Value[0].Kind)
	assert.True(t, sym.Value[0].Lbl.Scope.IsNull())
	assert.Equal(t, "here", sym.Value[0].Lbl.Name.String())
	assert.Equal(t, expr.Tag, sym.Value[1].Kind)
	assert.Equal(t, "Entity", sym.Value[1].TagLbl.Name.String())
	assert.Equal(t, "x", sym.Value[1].TagName.String())
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	_, _, err := object.Decode(bytes.NewReader([]byte("nope")), view.NewPool())
	assert.Error(t, err)
}

func TestEncodeDedupesRepeatedStrings(t *testing.T) {
	syms := symtab.NewSymTab[expr.View]()
	syms.Add(symtab.Sym[expr.View]{Lbl: symtab.Global(view.FromString("a")), Unit: view.FromString("shared.asm")})
	syms.Add(symtab.Sym[expr.View]{Lbl: symtab.Global(view.FromString("b")), Unit: view.FromString("shared.asm")})

	var buf bytes.Buffer
	require.NoError(t, object.Encode(&buf, syms, section.NewTable()))

	pool := view.NewPool()
	gotSyms, _, err := object.Decode(&buf, pool)
	require.NoError(t, err)

	a, _ := gotSyms.Find(symtab.Global(view.FromString("a")))
	b, _ := gotSyms.Find(symtab.Global(view.FromString("b")))
	assert.Equal(t, "shared.asm", a.Unit.String())
	assert.Equal(t, "shared.asm", b.Unit.String())
}
