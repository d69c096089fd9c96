package object

import (
	"io"

	"github.com/smtk-dev/smtk/pkg/sm/token"
)

// writePos serializes a token.Pos as BufRef(file) + u32 line + u32 col -
// spec.md §4.6 names "Pos" as a SymRecord/Reloc field without spelling out
// its own layout, so this follows the same BufRef-for-every-name
// convention the rest of the format already uses.
func writePos(w io.Writer, e *encoder, pos token.Pos) error {
	if err := writeBufRef(w, e.internView(pos.File)); err != nil {
		return err
	}
	if err := writeU32(w, pos.Line); err != nil {
		return err
	}
	return writeU32(w, pos.Col)
}

func readPos(r io.Reader, d *decoder) (token.Pos, error) {
	fileRef, err := readBufRef(r)
	if err != nil {
		return token.Pos{}, err
	}
	line, err := readU32(r)
	if err != nil {
		return token.Pos{}, err
	}
	col, err := readU32(r)
	if err != nil {
		return token.Pos{}, err
	}
	return token.Pos{File: d.view(fileRef), Line: line, Col: col}, nil
}
