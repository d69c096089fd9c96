package object

import (
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// bufRef is spec.md §4.6's BufRef: an (offset, len) window into
// string_pool.
type bufRef struct {
	Offset uint32
	Len    uint32
}

// exprRef is spec.md §4.6's ExprBufRef: an (offset, len) window into
// expr_pool, indexed in atoms rather than bytes (an ExprAtom's payload is
// variable length, so a byte offset would need its own scan to seek;
// decode reads every atom up front into a slice and indexes that instead).
type exprRef struct {
	Offset uint32
	Len    uint32
}

// encoder accumulates the string_pool and expr_pool contents while symbols
// and sections are visited, so both pools are fully built by the time
// Encode writes them - string_pool and expr_pool each precede every record
// that references into them in the file's byte order.
type encoder struct {
	strings   []byte
	stringOff map[string]uint32
	atoms     []expr.Atom
}

func newEncoder() *encoder {
	return &encoder{stringOff: make(map[string]uint32)}
}

// internView appends v's bytes to string_pool, deduplicating identical
// content the same way view.Pool does.
func (e *encoder) internView(v view.View) bufRef {
	s := v.String()
	if off, ok := e.stringOff[s]; ok {
		return bufRef{Offset: off, Len: uint32(len(s))}
	}
	off := uint32(len(e.strings))
	e.strings = append(e.strings, v.Bytes()...)
	e.stringOff[s] = off
	return bufRef{Offset: off, Len: uint32(len(s))}
}

// internExpr appends v's atoms to expr_pool and returns the window.
func (e *encoder) internExpr(v expr.View) exprRef {
	off := uint32(len(e.atoms))
	e.atoms = append(e.atoms, v...)
	return exprRef{Offset: off, Len: uint32(len(v))}
}

// decoder holds the fully-read string_pool bytes and fully-decoded
// expr_pool atoms, plus the pool new Views are interned into.
type decoder struct {
	pool  *view.Pool
	strs  []byte
	atoms []expr.Atom
}

func newDecoder(pool *view.Pool, strs []byte) *decoder {
	return &decoder{pool: pool, strs: strs}
}

func (d *decoder) view(ref bufRef) view.View {
	if ref.Len == 0 {
		return view.Null
	}
	return d.pool.Intern(d.strs[ref.Offset : ref.Offset+ref.Len])
}

func (d *decoder) expr(ref exprRef) expr.View {
	if ref.Len == 0 {
		return nil
	}
	out := make(expr.View, ref.Len)
	copy(out, d.atoms[ref.Offset:ref.Offset+ref.Len])
	return out
}
