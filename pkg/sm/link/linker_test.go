package link_test

import (
	"bytes"
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/link"
	"github.com/smtk-dev/smtk/pkg/sm/object"
	"github.com/smtk-dev/smtk/pkg/sm/section"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const nativeConfig = `
memories {
  ROM0 { start = $0000, size = $8000, fill = $00, kind = readonly }
  WRAM { start = $C000, size = $2000, kind = readwrite }
}
sections {
  CODE { load = ROM0, kind = code }
  VARS { load = WRAM, kind = uninit, define = VarsStart }
}
`

func objectBytes(t *testing.T, syms *symtab.SymTab[expr.View], sects *section.Table) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, object.Encode(&buf, syms, sects))
	return buf.Bytes()
}

func TestParseNativeConfig(t *testing.T) {
	pool := view.NewPool()
	cfg, err := link.ParseConfig("link.cfg", []byte(nativeConfig), pool)
	require.NoError(t, err)
	require.Len(t, cfg.Memories, 2)
	require.Len(t, cfg.Sections, 2)
}

func TestLinkResolvesLabelRelocAndEmitsImage(t *testing.T) {
	pool := view.NewPool()
	cfg, err := link.ParseConfig("link.cfg", []byte(nativeConfig), pool)
	require.NoError(t, err)

	syms := symtab.NewSymTab[expr.View]()
	syms.Add(symtab.Sym[expr.View]{
		Lbl:   symtab.Global(view.FromString("entry")),
		Value: expr.View{{Kind: expr.Const, Num: 0x1234}},
		Unit:  view.FromString("@EXPORT"),
	})
	sects := section.NewTable()
	code := sects.Get(view.FromString("CODE"))
	code.EmitByte(0xC3) // JP nn
	code.AddReloc(2, expr.View{{Kind: expr.Label, Lbl: symtab.Global(view.FromString("entry"))}}, view.Null, token.Pos{}, 0)

	ln := link.NewLinker(cfg, pool)
	require.NoError(t, ln.LoadObject(bytes.NewReader(objectBytes(t, syms, sects)), "a.o"))
	require.NoError(t, ln.Place())
	require.NoError(t, ln.Resolve())

	rom := ln.Emit()
	assert.Equal(t, []byte{0xC3, 0x34, 0x12}, rom[:3])
	assert.Equal(t, byte(0x00), rom[3]) // fill byte beyond CODE

	start, ok := ln.Base("VARS")
	require.True(t, ok)
	assert.Equal(t, uint32(0xC000), start)

	varsStart, ok := ln.Syms.Find(symtab.Global(view.FromString("VarsStart")))
	require.True(t, ok)
	require.Len(t, varsStart.Value, 1)
	assert.EqualValues(t, 0xC000, varsStart.Value[0].Num)
}

func TestLinkRejectsDuplicateExportedSymbol(t *testing.T) {
	pool := view.NewPool()
	cfg, err := link.ParseConfig("link.cfg", []byte(nativeConfig), pool)
	require.NoError(t, err)

	mkSyms := func() *symtab.SymTab[expr.View] {
		syms := symtab.NewSymTab[expr.View]()
		syms.Add(symtab.Sym[expr.View]{
			Lbl:   symtab.Global(view.FromString("main")),
			Value: expr.View{{Kind: expr.Const, Num: 1}},
			Unit:  view.FromString("@EXPORT"),
		})
		return syms
	}

	ln := link.NewLinker(cfg, pool)
	require.NoError(t, ln.LoadObject(bytes.NewReader(objectBytes(t, mkSyms(), section.NewTable())), "a.o"))
	err = ln.LoadObject(bytes.NewReader(objectBytes(t, mkSyms(), section.NewTable())), "b.o")
	assert.Error(t, err)
}

func TestLinkRescopesStaticSymbolsPerObject(t *testing.T) {
	pool := view.NewPool()
	cfg, err := link.ParseConfig("link.cfg", []byte(nativeConfig), pool)
	require.NoError(t, err)

	mkSyms := func(val int32) *symtab.SymTab[expr.View] {
		syms := symtab.NewSymTab[expr.View]()
		syms.Add(symtab.Sym[expr.View]{
			Lbl:   symtab.Global(view.FromString("helper")),
			Value: expr.View{{Kind: expr.Const, Num: val}},
			Unit:  view.FromString("@STATIC"),
		})
		return syms
	}

	ln := link.NewLinker(cfg, pool)
	require.NoError(t, ln.LoadObject(bytes.NewReader(objectBytes(t, mkSyms(1), section.NewTable())), "a.o"))
	require.NoError(t, ln.LoadObject(bytes.NewReader(objectBytes(t, mkSyms(2), section.NewTable())), "b.o"))

	// Neither object's bare "helper" name should collide in the merged
	// table - both get re-scoped under a synthetic per-object unit.
	_, ok := ln.Syms.Find(symtab.Global(view.FromString("helper")))
	assert.False(t, ok)
	assert.Equal(t, 2, ln.Syms.Len())
}

func TestPatchRelocFlagJPOutOfRangeFails(t *testing.T) {
	pool := view.NewPool()
	cfg, err := link.ParseConfig("link.cfg", []byte(nativeConfig), pool)
	require.NoError(t, err)

	syms := symtab.NewSymTab[expr.View]()
	syms.Add(symtab.Sym[expr.View]{
		Lbl:   symtab.Global(view.FromString("far")),
		Value: expr.View{{Kind: expr.Const, Num: 0x7000}},
		Unit:  view.FromString("@EXPORT"),
	})
	sects := section.NewTable()
	code := sects.Get(view.FromString("CODE"))
	code.EmitByte(0x18) // JR
	code.AddReloc(1, expr.View{{Kind: expr.Label, Lbl: symtab.Global(view.FromString("far"))}}, view.Null, token.Pos{}, section.FlagJP)

	ln := link.NewLinker(cfg, pool)
	require.NoError(t, ln.LoadObject(bytes.NewReader(objectBytes(t, syms, sects)), "a.o"))
	require.NoError(t, ln.Place())
	assert.Error(t, ln.Resolve())
}

func TestPatchRelocFlagHRAMAndRST(t *testing.T) {
	pool := view.NewPool()
	cfg, err := link.ParseConfig("link.cfg", []byte(nativeConfig), pool)
	require.NoError(t, err)

	syms := symtab.NewSymTab[expr.View]()
	syms.Add(symtab.Sym[expr.View]{
		Lbl:   symtab.Global(view.FromString("port")),
		Value: expr.View{{Kind: expr.Const, Num: 0xFF40}},
		Unit:  view.FromString("@EXPORT"),
	})
	syms.Add(symtab.Sym[expr.View]{
		Lbl:   symtab.Global(view.FromString("vec")),
		Value: expr.View{{Kind: expr.Const, Num: 0x08}},
		Unit:  view.FromString("@EXPORT"),
	})
	sects := section.NewTable()
	code := sects.Get(view.FromString("CODE"))
	code.EmitByte(0xE0) // LDH [n], A
	code.AddReloc(1, expr.View{{Kind: expr.Label, Lbl: symtab.Global(view.FromString("port"))}}, view.Null, token.Pos{}, section.FlagHRAM)
	code.AddReloc(1, expr.View{{Kind: expr.Label, Lbl: symtab.Global(view.FromString("vec"))}}, view.Null, token.Pos{}, section.FlagRST)

	ln := link.NewLinker(cfg, pool)
	require.NoError(t, ln.LoadObject(bytes.NewReader(objectBytes(t, syms, sects)), "a.o"))
	require.NoError(t, ln.Place())
	require.NoError(t, ln.Resolve())

	rom := ln.Emit()
	assert.Equal(t, byte(0x40), rom[1])  // HRAM reloc emits the low byte only
	assert.Equal(t, byte(0xCF), rom[2]) // RST $08 -> 0xC7 | 0x08
}
