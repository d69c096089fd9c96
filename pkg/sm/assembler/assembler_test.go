package assembler_test

import (
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/assembler"
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memFS is an in-memory assembler.FileSystem stub, the same seam the
// teacher's own loaders used an interface for rather than hitting disk.
type memFS map[string]string

func (fs memFS) ReadFile(path string) ([]byte, error) {
	src, ok := fs[path]
	if !ok {
		return nil, assert.AnError
	}
	return []byte(src), nil
}

func assemble(t *testing.T, fs memFS, entry string) *assembler.Context {
	t.Helper()
	ctx := assembler.NewContext(fs, nil)
	require.NoError(t, ctx.PushEntryFile(entry))
	require.NoError(t, ctx.RunPasses())
	return ctx
}

func TestForwardLabelReferenceResolvesOnSecondPass(t *testing.T) {
	ctx := assemble(t, memFS{"main.s": `
jp start
start:
nop
`}, "main.s")

	// Pass 2 knows start, but JP's absolute operand depends on where the
	// linker places CODE, so it is emitted as zeros plus a relocation.
	code := ctx.Sects.Get(ctx.Pool.InternString("CODE"))
	assert.Equal(t, []byte{0xC3, 0x00, 0x00, 0x00}, code.Data)
	require.Len(t, code.Relocs, 1)
	assert.Equal(t, uint32(1), code.Relocs[0].Offset)
}

func TestDBEmitsLiteralBytesAndString(t *testing.T) {
	ctx := assemble(t, memFS{"main.s": `
@db 1, 2, "hi"
`}, "main.s")

	code := ctx.Sects.Get(ctx.Pool.InternString("CODE"))
	assert.Equal(t, []byte{1, 2, 'h', 'i'}, code.Data)
}

func TestEquDefinesAConstant(t *testing.T) {
	ctx := assemble(t, memFS{"main.s": `
FOO =: 42
@db FOO
`}, "main.s")

	code := ctx.Sects.Get(ctx.Pool.InternString("CODE"))
	assert.Equal(t, []byte{42}, code.Data)
}

func TestDuplicateLabelIsRejected(t *testing.T) {
	ctx := assembler.NewContext(memFS{"main.s": `
foo:
nop
foo:
nop
`}, nil)
	require.NoError(t, ctx.PushEntryFile("main.s"))
	assert.Error(t, ctx.RunPasses())
}

func TestUnknownMnemonicIsRejected(t *testing.T) {
	ctx := assembler.NewContext(memFS{"main.s": "frobnicate\n"}, nil)
	require.NoError(t, ctx.PushEntryFile("main.s"))
	assert.Error(t, ctx.RunPasses())
}

func TestExportedLabelIsVisibleUnderExportUnit(t *testing.T) {
	ctx := assemble(t, memFS{"main.s": `
entry::
nop
`}, "main.s")

	sym, ok := ctx.Syms.Find(symtab.Global(ctx.Pool.InternString("entry")))
	require.True(t, ok)
	require.Len(t, sym.Value, 1)
	assert.Equal(t, expr.Addr, sym.Value[0].Kind)
	assert.Equal(t, ctx.ExportUnit.String(), sym.Unit.String())
}

func TestIncludePullsInAnotherFile(t *testing.T) {
	ctx := assemble(t, memFS{
		"main.s": `
@include "lib.s"
nop
`,
		"lib.s": `@db 9`,
	}, "main.s")

	code := ctx.Sects.Get(ctx.Pool.InternString("CODE"))
	assert.Equal(t, []byte{9, 0x00}, code.Data)
	assert.Contains(t, ctx.IncludedFiles, "lib.s")
}

func TestDefineFlagPreregistersAGlobalConstant(t *testing.T) {
	ctx := assembler.NewContext(memFS{"main.s": "@db BUILD\n"}, nil)
	ctx.Define("BUILD", 7)
	require.NoError(t, ctx.PushEntryFile("main.s"))
	require.NoError(t, ctx.RunPasses())

	code := ctx.Sects.Get(ctx.Pool.InternString("CODE"))
	assert.Equal(t, []byte{7}, code.Data)
}

func TestBareNameResolvesAgainstActiveScopeBeforeGlobal(t *testing.T) {
	ctx := assemble(t, memFS{"main.s": `
FOO =: 1
main::
FOO =: 2
nop
`}, "main.s")
	require.Equal(t, "main", ctx.Scope.String())

	v, ok := ctx.LookupExpr(symtab.Global(ctx.Pool.InternString("FOO")))
	require.True(t, ok)
	require.Len(t, v, 1)
	assert.Equal(t, int32(2), v[0].Num)
}

func TestExplicitLocalReferenceFailsRatherThanFallingBackToGlobal(t *testing.T) {
	ctx := assemble(t, memFS{"main.s": `
FOO =: 1
main::
nop
`}, "main.s")
	require.Equal(t, "main", ctx.Scope.String())

	_, ok := ctx.LookupExpr(symtab.Local(ctx.Pool.InternString("FOO")))
	assert.False(t, ok)
}
