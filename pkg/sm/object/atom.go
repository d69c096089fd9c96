package object

import (
	"io"

	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
)

// writeAtom serializes one expr.Atom: a kind byte (expr.AtomKind's own
// iota order already matches spec.md §4.6's Const/Addr/Op/Label/Tag
// enumeration, plus Rel - grounded on atom.go's own doc comment, which
// lists REL as a sixth kind the object-format prose simply never spelled
// out), then its kind-specific payload.
func writeAtom(w io.Writer, e *encoder, a expr.Atom) error {
	if err := writeU8(w, byte(a.Kind)); err != nil {
		return err
	}
	switch a.Kind {
	case expr.Const:
		return writeU32(w, uint32(a.Num))
	case expr.Addr:
		if err := writeBufRef(w, e.internView(a.Section)); err != nil {
			return err
		}
		return writeU32(w, uint32(a.PC))
	case expr.Op:
		code, err := operatorCode(a.OpTok)
		if err != nil {
			return err
		}
		if err := writeU8(w, code); err != nil {
			return err
		}
		var unary byte
		if a.Unary {
			unary = 1
		}
		return writeU8(w, unary)
	case expr.Label, expr.Rel:
		return writeLblRef(w, e, a.Lbl)
	case expr.Tag:
		if err := writeLblRef(w, e, a.TagLbl); err != nil {
			return err
		}
		return writeBufRef(w, e.internView(a.TagName))
	default:
		return smerr.Wrap(smerr.ErrInternal, "unhandled expr atom kind %d", a.Kind)
	}
}

func readAtom(r io.Reader, d *decoder) (expr.Atom, error) {
	kind, err := readU8(r)
	if err != nil {
		return expr.Atom{}, err
	}
	switch expr.AtomKind(kind) {
	case expr.Const:
		num, err := readU32(r)
		if err != nil {
			return expr.Atom{}, err
		}
		return expr.Atom{Kind: expr.Const, Num: int32(num)}, nil
	case expr.Addr:
		ref, err := readBufRef(r)
		if err != nil {
			return expr.Atom{}, err
		}
		pc, err := readU32(r)
		if err != nil {
			return expr.Atom{}, err
		}
		return expr.Atom{Kind: expr.Addr, Section: d.view(ref), PC: int32(pc)}, nil
	case expr.Op:
		code, err := readU8(r)
		if err != nil {
			return expr.Atom{}, err
		}
		tok, err := operatorFromCode(code)
		if err != nil {
			return expr.Atom{}, err
		}
		unary, err := readU8(r)
		if err != nil {
			return expr.Atom{}, err
		}
		return expr.Atom{Kind: expr.Op, OpTok: tok, Unary: unary != 0}, nil
	case expr.Label, expr.Rel:
		lbl, err := readLblRef(r, d)
		if err != nil {
			return expr.Atom{}, err
		}
		return expr.Atom{Kind: expr.AtomKind(kind), Lbl: lbl}, nil
	case expr.Tag:
		lbl, err := readLblRef(r, d)
		if err != nil {
			return expr.Atom{}, err
		}
		nameRef, err := readBufRef(r)
		if err != nil {
			return expr.Atom{}, err
		}
		return expr.Atom{Kind: expr.Tag, TagLbl: lbl, TagName: d.view(nameRef)}, nil
	default:
		return expr.Atom{}, smerr.Wrap(smerr.ErrIO, "invalid expr atom kind %d in object file", kind)
	}
}

func writeBufRef(w io.Writer, ref bufRef) error {
	if err := writeU32(w, ref.Offset); err != nil {
		return err
	}
	return writeU32(w, ref.Len)
}

func readBufRef(r io.Reader) (bufRef, error) {
	off, err := readU32(r)
	if err != nil {
		return bufRef{}, err
	}
	ln, err := readU32(r)
	if err != nil {
		return bufRef{}, err
	}
	return bufRef{Offset: off, Len: ln}, nil
}

// writeLblRef serializes a symtab.Lbl: is_global (0 ⇒ scope follows), then
// name - spec.md §4.6's LblRef.
func writeLblRef(w io.Writer, e *encoder, lbl symtab.Lbl) error {
	if lbl.Scope.IsNull() {
		if err := writeU8(w, 1); err != nil {
			return err
		}
	} else {
		if err := writeU8(w, 0); err != nil {
			return err
		}
		if err := writeBufRef(w, e.internView(lbl.Scope)); err != nil {
			return err
		}
	}
	return writeBufRef(w, e.internView(lbl.Name))
}

func readLblRef(r io.Reader, d *decoder) (symtab.Lbl, error) {
	isGlobal, err := readU8(r)
	if err != nil {
		return symtab.Lbl{}, err
	}
	var scopeRef bufRef
	if isGlobal == 0 {
		scopeRef, err = readBufRef(r)
		if err != nil {
			return symtab.Lbl{}, err
		}
	}
	nameRef, err := readBufRef(r)
	if err != nil {
		return symtab.Lbl{}, err
	}
	if isGlobal != 0 {
		return symtab.Global(d.view(nameRef)), nil
	}
	return symtab.Abs(d.view(scopeRef), d.view(nameRef)), nil
}
