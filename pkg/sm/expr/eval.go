package expr

import (
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// SymLookup resolves a label to the expression its symbol table entry
// holds. Kept generic-free (unlike symtab.SymTab[V]) so Evaluator works
// against whatever value type the caller's symbol table is instantiated
// with, as long as it can hand back a View for further solving - the
// assembler instantiates this over symtab.SymTab[View] directly.
type SymLookup interface {
	LookupExpr(lbl symtab.Lbl) (View, bool)
}

// Evaluator walks a postfix View against a symbol table to produce a
// concrete I32, or reports it can't (yet) - same two-mode contract as the
// original's exprSolve/exprSolveRelative.
//
// Grounded on original_source/src/smasm/expr.c's exprSolveFull.
type Evaluator struct {
	Syms SymLookup
}

// Solve evaluates view. relative selects exprSolveRelative's semantics
// (Addr atoms may solve) versus exprSolve's (they never do); a Rel atom
// always solves its label with relative=true, whatever relative is.
// currentSection is compared against an Addr atom's recorded section - it
// only solves when they match, deferring cross-section PC references to
// link time exactly like the original.
func (e *Evaluator) Solve(v View, relative bool, currentSection view.View) (int32, bool) {
	var stack []int32
	for _, a := range v {
		switch a.Kind {
		case Const:
			stack = append(stack, a.Num)

		case Label:
			sub, ok := e.Syms.LookupExpr(a.Lbl)
			if !ok {
				return 0, false
			}
			num, ok := e.Solve(sub, relative, currentSection)
			if !ok {
				return 0, false
			}
			stack = append(stack, num)

		case Tag:
			// Tags only resolve during link, against the final object
			// set's debug metadata - never at assemble time.
			return 0, false

		case Rel:
			sub, ok := e.Syms.LookupExpr(a.Lbl)
			if !ok {
				return 0, false
			}
			num, ok := e.Solve(sub, true, currentSection)
			if !ok {
				return 0, false
			}
			stack = append(stack, num)

		case Addr:
			if !relative || !a.Section.Equal(currentSection) {
				return 0, false
			}
			stack = append(stack, a.PC)

		case Op:
			if len(stack) == 0 {
				return 0, false
			}
			rhs := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if a.Unary {
				stack = append(stack, ApplyUnary(a.OpTok, rhs))
				continue
			}
			if len(stack) == 0 {
				return 0, false
			}
			lhs := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, ApplyBinary(a.OpTok, lhs, rhs))
		}
	}
	if len(stack) != 1 {
		return 0, false
	}
	return stack[0], true
}

func boolI32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// ApplyUnary computes a unary operator atom's result; shared by assemble-
// time Solve and the linker's own link-time solver so both paths agree on
// operator semantics.
func ApplyUnary(op token.Kind, rhs int32) int32 {
	switch op {
	case token.Kind('+'):
		return rhs
	case token.Kind('-'):
		return -rhs
	case token.Kind('~'):
		return ^rhs
	case token.Kind('!'):
		return boolI32(rhs == 0)
	case token.Kind('<'):
		return int32(uint32(rhs) & 0xFF)
	case token.Kind('>'):
		return int32((uint32(rhs) & 0xFF00) >> 8)
	case token.Kind('^'):
		return int32((uint32(rhs) & 0xFF0000) >> 16)
	default:
		return 0
	}
}

// ApplyBinary computes a binary operator atom's result; see ApplyUnary.
func ApplyBinary(op token.Kind, lhs, rhs int32) int32 {
	switch op {
	case token.Kind('+'):
		return lhs + rhs
	case token.Kind('-'):
		return lhs - rhs
	case token.Kind('*'):
		return lhs * rhs
	case token.Kind('/'):
		return lhs / rhs
	case token.Kind('%'):
		return lhs % rhs
	case token.Asl:
		return lhs << uint32(rhs)
	case token.Asr:
		return lhs >> uint32(rhs)
	case token.Lsr:
		return int32(uint32(lhs) >> uint32(rhs))
	case token.Kind('<'):
		return boolI32(lhs < rhs)
	case token.Lte:
		return boolI32(lhs <= rhs)
	case token.Kind('>'):
		return boolI32(lhs > rhs)
	case token.Gte:
		return boolI32(lhs >= rhs)
	case token.Deq:
		return boolI32(lhs == rhs)
	case token.Neq:
		return boolI32(lhs != rhs)
	case token.Kind('&'):
		return lhs & rhs
	case token.Kind('|'):
		return lhs | rhs
	case token.Kind('^'):
		return lhs ^ rhs
	case token.And:
		return boolI32(lhs != 0 && rhs != 0)
	case token.Or:
		return boolI32(lhs != 0 || rhs != 0)
	default:
		return 0
	}
}

// CanReprU8 reports whether num fits an unsigned byte.
func CanReprU8(num int32) bool { return num >= 0 && num <= 0xFF }

// CanReprU16 reports whether num fits an unsigned word.
func CanReprU16(num int32) bool { return num >= 0 && num <= 0xFFFF }

// CanReprI8 reports whether num fits a signed byte (used for relative jump
// displacements).
func CanReprI8(num int32) bool { return num >= -128 && num <= 127 }
