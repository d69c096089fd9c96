// Package expr implements the arbitrary-precision-deferred expression
// engine: a Pratt-precedence parser that turns an operator/operand token
// run into a postfix (reverse Polish) atom sequence, and an evaluator that
// walks that sequence against a symbol lookup to produce a concrete value
// - or reports that it can't yet, because it depends on a symbol the
// linker hasn't placed.
package expr

import (
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// AtomKind discriminates one entry of a postfix expression.
//
// Grounded on original_source/include/smasm/sym.h's SmExprKind
// (CONST/ADDR/OP/LABEL/TAG/REL).
type AtomKind int

const (
	Const AtomKind = iota
	Addr
	Op
	Label
	Tag
	Rel
)

// Atom is one entry of a View (a postfix expression). Only the fields
// relevant to Kind are populated.
type Atom struct {
	Kind AtomKind

	Num int32 // Const

	Section view.View // Addr
	PC      int32     // Addr

	OpTok token.Kind // Op
	Unary bool       // Op

	Lbl symtab.Lbl // Label, Rel

	TagLbl  symtab.Lbl // Tag
	TagName view.View  // Tag
}

// View is an interned postfix expression: the unit both the assembler and
// the object-file codec pass around by value.
type View []Atom
