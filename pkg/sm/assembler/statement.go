package assembler

import (
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/mnemonic"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/token"
)

// Statement reads and fully processes one logical line: a directive, a
// label definition, an EQU constant, or a mnemonic. The lexer has no
// end-of-statement token (a newline is whitespace, see token/lexer.go's
// isSpace), so most grammars below bound themselves by other means - a
// label's fixed 1-token suffix or a mnemonic's fixed operand count. The
// comma-separated lists of @DB/@DW and of a macro call are the exception:
// they end at the first token on a later source line (Tok.Pos.Line).
//
// Grounded on spec.md §4.4's statement grammar; no surviving source
// implements the top-level loop (see context.go's package doc).
func (c *Context) Statement() error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.KwDB, token.KwDW, token.KwDS, token.KwSECTION, token.KwINCLUDE,
		token.KwINCBIN, token.KwMACRO, token.KwREPEAT, token.KwIF, token.KwSTRUCT,
		token.KwUNION, token.KwPRINT, token.KwFATAL, token.KwEQU, token.KwEXPORT,
		token.KwGLOBAL, token.KwCREATE:
		return c.dispatchDirective(t.Kind)
	case token.ID:
		return c.statementFromID()
	default:
		return smerr.Wrap(smerr.ErrParse, "unexpected token %s", t.Kind)
	}
}

// statementFromID resolves the "name:" / "name::" / "name =: expr" /
// mnemonic ambiguity. The identifier must be consumed to see what follows
// it, but Context/Stack only expose one token of lookahead - so the ID is
// eaten and held in idTok before peeking again; if no label suffix
// matches, idTok is dispatched as a mnemonic name without having lost it.
func (c *Context) statementFromID() error {
	idTok, err := c.Peek()
	if err != nil {
		return err
	}
	c.Eat()

	nt, err := c.Peek()
	if err != nil {
		return err
	}
	switch nt.Kind {
	case token.Kind(':'):
		c.Eat()
		return c.defineLabel(idTok, false)
	case token.DColon:
		c.Eat()
		return c.defineLabel(idTok, true)
	case token.EquEq:
		c.Eat()
		return c.defineEqu(idTok)
	default:
		m, ok := mnemonic.Find(idTok.Text.String())
		if !ok {
			return smerr.Wrap(smerr.ErrParse, "unknown mnemonic %q", idTok.Text.String())
		}
		return c.assembleMnemonic(m, idTok.Pos)
	}
}

// resolveDefScope turns a definition site's raw identifier spelling into
// the Lbl it's stored under: an explicit "scope.name" spelling names an
// absolute symbol directly; a dot-free or leading-dot spelling is scoped
// under the currently active "::" root if one is open, else stays a bare
// global. A definition site has no ambiguity to preserve either way - both
// forms are concretely bound to the active scope right here, so the stored
// Lbl's Explicit bit is simply dropped; it only matters for a later
// reference's lookup rule (Context.resolve).
func (c *Context) resolveDefScope(tok token.Tok) (symtab.Lbl, error) {
	lbl, ok := symtab.ParseLabel(tok.Text)
	if !ok {
		return symtab.Lbl{}, smerr.Wrap(smerr.ErrParse, "malformed label %q", tok.Text.String())
	}
	if !lbl.Scope.IsNull() || c.Scope.IsNull() {
		return symtab.Lbl{Scope: lbl.Scope, Name: lbl.Name}, nil
	}
	return symtab.Lbl{Scope: c.Scope, Name: lbl.Name}, nil
}

// defineLabel implements "name:" (local to the active "::" scope, or
// top-level global if none is open) and "name::" (opens a new global scope
// root named exactly by the identifier's full spelling - it is never split
// on '.').
func (c *Context) defineLabel(tok token.Tok, exported bool) error {
	var target symtab.Lbl
	if exported {
		target = symtab.Global(tok.Text)
		c.Scope = tok.Text
	} else {
		var err error
		target, err = c.resolveDefScope(tok)
		if err != nil {
			return err
		}
	}
	if err := c.checkDuplicate(target); err != nil {
		return err
	}
	unit := c.CurUnit
	if exported {
		unit = c.ExportUnit
	}
	c.Syms.Add(symtab.Sym[expr.View]{
		Lbl:     target,
		Value:   expr.View{{Kind: expr.Addr, Section: c.CurSection.Name, PC: int32(c.CurSection.PC)}},
		Unit:    unit,
		Section: c.CurSection.Name,
		Pos:     tok.Pos,
	})
	return nil
}

// defineEqu implements "name =: expr": a constant, stored against the
// pseudo @DEFINES section the same way -D/Define does.
func (c *Context) defineEqu(tok token.Tok) error {
	target, err := c.resolveDefScope(tok)
	if err != nil {
		return err
	}
	v, err := c.ParseExpr()
	if err != nil {
		return err
	}
	if err := c.checkDuplicate(target); err != nil {
		return err
	}
	c.Syms.Add(symtab.Sym[expr.View]{
		Lbl:     target,
		Value:   v,
		Unit:    c.CurUnit,
		Section: c.DefinesSection,
		Pos:     tok.Pos,
		Flags:   symtab.FlagEqu,
	})
	return nil
}

// checkDuplicate only runs during pass 1: pass 2 legitimately redefines
// every symbol at the identical statement it was first defined at, which
// is expected re-emission, not a collision.
func (c *Context) checkDuplicate(lbl symtab.Lbl) error {
	if c.Emit {
		return nil
	}
	if _, exists := c.Syms.Find(lbl); exists {
		return smerr.Wrap(smerr.ErrSemantic, "duplicate symbol %q", lbl.String())
	}
	return nil
}
