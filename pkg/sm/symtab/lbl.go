// Package symtab implements label naming and the open-addressed symbol
// table every assembled unit and the linker's merge step share.
package symtab

import "github.com/smtk-dev/smtk/pkg/sm/view"

// Lbl names a symbol: either global (Scope is the null view), local to the
// currently active global label (Name only, Scope filled in by the
// assembler from its current scope when the label is resolved), or
// absolute (an explicit "scope.name" spelling).
//
// Grounded on original_source/include/smasm/sym.h's SmLbl and
// src/smasm/state.c's tokLbl, which splits an identifier on its first '.'.
type Lbl struct {
	Scope view.View
	Name  view.View

	// Explicit marks a Lbl parsed from a leading-dot spelling (".name"): a
	// reference that must resolve against the assembler's concrete active
	// scope with a single direct probe, never falling back to a same-named
	// global on a miss. A dot-free spelling ("name") leaves this false and
	// stays eligible for the scope-then-global fallback
	// Context.resolve applies - tokLbl's lblLocal and lblGlobal produce two
	// distinct constructors precisely so callers can tell them apart; this
	// field is that distinction surviving ParseLabel.
	Explicit bool
}

// Null is the empty label, used as a not-found sentinel.
var Null = Lbl{}

func Global(name view.View) Lbl { return Lbl{Name: name} }
func Local(name view.View) Lbl  { return Lbl{Name: name, Explicit: true} }
func Abs(scope, name view.View) Lbl {
	return Lbl{Scope: scope, Name: name}
}

// Equal and Hash deliberately ignore Explicit: it only matters during
// lookup, to pick which rule Context.resolve applies, never as part of a
// symbol table key - every Lbl actually stored in a SymTab is a concrete
// Global/Abs shape with Explicit already false (see
// assembler.resolveDefScope).
func (l Lbl) Equal(o Lbl) bool {
	return l.Scope.Equal(o.Scope) && l.Name.Equal(o.Name)
}

func (l Lbl) Hash() uint32 {
	return l.Scope.Hash()*31 + l.Name.Hash()
}

func (l Lbl) IsLocal() bool { return l.Scope.IsNull() }

func (l Lbl) String() string {
	if l.Scope.IsNull() {
		return l.Name.String()
	}
	return l.Scope.String() + "." + l.Name.String()
}

// ParseLabel splits a raw identifier spelling into a Lbl the same way the
// original lexer's tokLbl does: everything up to the first '.' is the
// scope, everything after is the name; no dot at all means a bare global
// name, a leading dot with nothing before it means an explicit local
// reference (Explicit true). raw is expected to already be backed by
// stable storage (an interned View, as every ID token's Text is) -
// ParseLabel slices it rather than re-interning, since a sub-slice of
// already-stable storage is itself stable.
// ok is false when the spelling has a dot but an empty name ("foo.").
func ParseLabel(raw view.View) (lbl Lbl, ok bool) {
	dot := raw.IndexByte('.')
	if dot < 0 {
		return Global(raw), true
	}
	nameLen := raw.Len() - dot - 1
	if nameLen == 0 {
		return Lbl{}, false
	}
	name := raw.Slice(dot+1, raw.Len())
	if dot == 0 {
		return Local(name), true
	}
	scope := raw.Slice(0, dot)
	return Abs(scope, name), true
}
