package symtab_test

import (
	"fmt"
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLabelGlobalLocalAbs(t *testing.T) {
	lbl, ok := symtab.ParseLabel(view.FromString("main"))
	require.True(t, ok)
	assert.True(t, lbl.IsLocal())
	assert.False(t, lbl.Explicit)
	assert.Equal(t, "main", lbl.Name.String())

	lbl, ok = symtab.ParseLabel(view.FromString(".loop"))
	require.True(t, ok)
	assert.True(t, lbl.IsLocal())
	assert.True(t, lbl.Explicit)
	assert.Equal(t, "loop", lbl.Name.String())

	lbl, ok = symtab.ParseLabel(view.FromString("main.loop"))
	require.True(t, ok)
	assert.False(t, lbl.IsLocal())
	assert.False(t, lbl.Explicit)
	assert.Equal(t, "main", lbl.Scope.String())
	assert.Equal(t, "loop", lbl.Name.String())

	_, ok = symtab.ParseLabel(view.FromString("main."))
	assert.False(t, ok)
}

func TestSymTabAddFind(t *testing.T) {
	tab := symtab.NewSymTab[int]()
	lbl := symtab.Global(view.FromString("main"))
	tab.Add(symtab.Sym[int]{Lbl: lbl, Value: 42})

	got, ok := tab.Find(lbl)
	require.True(t, ok)
	assert.Equal(t, 42, got.Value)

	_, ok = tab.Find(symtab.Global(view.FromString("missing")))
	assert.False(t, ok)
}

func TestSymTabOverwrite(t *testing.T) {
	tab := symtab.NewSymTab[int]()
	lbl := symtab.Global(view.FromString("x"))
	tab.Add(symtab.Sym[int]{Lbl: lbl, Value: 1})
	tab.Add(symtab.Sym[int]{Lbl: lbl, Value: 2})
	assert.Equal(t, 1, tab.Len())
	got, _ := tab.Find(lbl)
	assert.Equal(t, 2, got.Value)
}

func TestSymTabGrowsAndKeepsAllEntries(t *testing.T) {
	tab := symtab.NewSymTab[int]()
	const n = 500
	for i := 0; i < n; i++ {
		lbl := symtab.Global(view.FromString(fmt.Sprintf("sym%d", i)))
		tab.Add(symtab.Sym[int]{Lbl: lbl, Value: i})
	}
	assert.Equal(t, n, tab.Len())
	for i := 0; i < n; i++ {
		lbl := symtab.Global(view.FromString(fmt.Sprintf("sym%d", i)))
		got, ok := tab.Find(lbl)
		require.True(t, ok)
		assert.Equal(t, i, got.Value)
	}
}
