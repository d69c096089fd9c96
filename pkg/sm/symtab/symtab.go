package symtab

import (
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// Flags records bits carried on a Sym. SM_SYM_EQU in the original marks a
// symbol defined with @EQU/-D (a constant, not a label bound to an
// address).
type Flags uint8

const (
	FlagEqu Flags = 1 << iota
)

// Sym is one symbol table entry. V is the stored value's type - the
// assembler instantiates SymTab[expr.View] so a symbol's value is
// itself a deferred expression (original_source/include/smasm/sym.h's
// SmSym.value is an SmExprView, not a resolved number: "@EQU two + 2"
// solves lazily, same as any other label).
type Sym[V any] struct {
	Lbl     Lbl
	Value   V
	Unit    view.View
	Section view.View
	Pos     token.Pos
	Flags   Flags
}

// entry adds a tombstone-free "present" bit so zero-value V (e.g. a nil
// expr.View) can't be confused with an empty bucket.
type entry[V any] struct {
	sym     Sym[V]
	present bool
}

// SymTab is an open-addressed hash table keyed by Lbl, linear-probed.
// Grounded on original_source/include/smasm/tab.h's SM_TAB_WHENCE/
// TRYGROW/ADD/FIND macros, generalized with Go generics over the stored
// value type instead of C's per-element-type macro instantiation - the
// task's "container-generating macros" redesign note calls for exactly
// this substitution.
type SymTab[V any] struct {
	buckets []entry[V]
	count   int
}

const initialBuckets = 16

// NewSymTab creates an empty table.
func NewSymTab[V any]() *SymTab[V] {
	return &SymTab[V]{buckets: make([]entry[V], initialBuckets)}
}

func (t *SymTab[V]) whence(lbl Lbl) int {
	mask := uint32(len(t.buckets) - 1)
	idx := lbl.Hash() & mask
	for {
		e := &t.buckets[idx]
		if !e.present || e.sym.Lbl.Equal(lbl) {
			return int(idx)
		}
		idx = (idx + 1) & mask
	}
}

func (t *SymTab[V]) tryGrow() {
	if t.count*4 < len(t.buckets)*3 { // load factor < 0.75
		return
	}
	old := t.buckets
	t.buckets = make([]entry[V], len(old)*2)
	t.count = 0
	for _, e := range old {
		if e.present {
			t.insert(e.sym)
		}
	}
}

func (t *SymTab[V]) insert(sym Sym[V]) *Sym[V] {
	idx := t.whence(sym.Lbl)
	if !t.buckets[idx].present {
		t.count++
	}
	t.buckets[idx] = entry[V]{sym: sym, present: true}
	return &t.buckets[idx].sym
}

// Add inserts sym, overwriting any existing entry for the same Lbl, and
// returns a pointer to the stored copy.
func (t *SymTab[V]) Add(sym Sym[V]) *Sym[V] {
	t.tryGrow()
	return t.insert(sym)
}

// Find looks up lbl, returning (nil, false) if absent.
func (t *SymTab[V]) Find(lbl Lbl) (*Sym[V], bool) {
	idx := t.whence(lbl)
	e := &t.buckets[idx]
	if !e.present {
		return nil, false
	}
	return &e.sym, true
}

// Len reports how many symbols are stored.
func (t *SymTab[V]) Len() int { return t.count }

// Each iterates every stored symbol in bucket order (undefined but
// deterministic for a given sequence of insertions), the order the object
// codec serializes the symbol table in.
func (t *SymTab[V]) Each(fn func(Sym[V])) {
	for _, e := range t.buckets {
		if e.present {
			fn(e.sym)
		}
	}
}
