package object

import (
	"io"

	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
)

// writeSym serializes one symtab.Sym as spec.md §4.6's SymRecord: LblRef +
// ExprBufRef(value) + BufRef(unit) + BufRef(section) + Pos + u8 flags.
func writeSym(w io.Writer, e *encoder, s symtab.Sym[expr.View]) error {
	if err := writeLblRef(w, e, s.Lbl); err != nil {
		return err
	}
	if err := writeExprRef(w, e.internExpr(s.Value)); err != nil {
		return err
	}
	if err := writeBufRef(w, e.internView(s.Unit)); err != nil {
		return err
	}
	if err := writeBufRef(w, e.internView(s.Section)); err != nil {
		return err
	}
	if err := writePos(w, e, s.Pos); err != nil {
		return err
	}
	return writeU8(w, byte(s.Flags))
}

func readSym(r io.Reader, d *decoder) (symtab.Sym[expr.View], error) {
	lbl, err := readLblRef(r, d)
	if err != nil {
		return symtab.Sym[expr.View]{}, err
	}
	valueRef, err := readExprRef(r)
	if err != nil {
		return symtab.Sym[expr.View]{}, err
	}
	unitRef, err := readBufRef(r)
	if err != nil {
		return symtab.Sym[expr.View]{}, err
	}
	sectionRef, err := readBufRef(r)
	if err != nil {
		return symtab.Sym[expr.View]{}, err
	}
	pos, err := readPos(r, d)
	if err != nil {
		return symtab.Sym[expr.View]{}, err
	}
	flags, err := readU8(r)
	if err != nil {
		return symtab.Sym[expr.View]{}, err
	}
	return symtab.Sym[expr.View]{
		Lbl:     lbl,
		Value:   d.expr(valueRef),
		Unit:    d.view(unitRef),
		Section: d.view(sectionRef),
		Pos:     pos,
		Flags:   symtab.Flags(flags),
	}, nil
}

func writeExprRef(w io.Writer, ref exprRef) error {
	if err := writeU32(w, ref.Offset); err != nil {
		return err
	}
	return writeU32(w, ref.Len)
}

func readExprRef(r io.Reader) (exprRef, error) {
	off, err := readU32(r)
	if err != nil {
		return exprRef{}, err
	}
	ln, err := readU32(r)
	if err != nil {
		return exprRef{}, err
	}
	return exprRef{Offset: off, Len: ln}, nil
}
