// Package object implements the SM00 object-file codec: the little-endian,
// positional binary format pkg/sm/assembler emits and pkg/sm/link consumes.
// Every symbol and relocation is serialized exactly as the assembler left
// it - a deferred expr.View, not a resolved number - so the linker is the
// first place any of it is finally solved, against the merged, placed
// layout of every object it's given.
//
// Grounded on spec.md §4.6; no surviving original_source file implements
// this layer (original_source/src/smasm has no object-writer translation
// unit in the filtered retrieval pack - the format is reconstructed purely
// from spec.md's field tables).
package object

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/section"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// Magic is the fixed 4-byte header every object file starts with.
var Magic = [4]byte{'S', 'M', '0', '0'}

// Encode writes one assembled unit's symbol table and sections as an SM00
// object file. Empty sections (no data, no relocations) are omitted, per
// spec.md §4.6.
func Encode(w io.Writer, syms *symtab.SymTab[expr.View], sects *section.Table) error {
	e := newEncoder()

	// Each of these sub-buffers interns into e.strings/e.atoms as a side
	// effect of writing; all three must finish before string_pool's final
	// length is known, since string_pool precedes every table that
	// references into it.
	var symsBuf bytes.Buffer
	written := 0
	var symErr error
	syms.Each(func(s symtab.Sym[expr.View]) {
		if symErr != nil {
			return
		}
		if err := writeSym(&symsBuf, e, s); err != nil {
			symErr = err
			return
		}
		written++
	})
	if symErr != nil {
		return symErr
	}

	var sectsBuf bytes.Buffer
	sectCount := 0
	var sectErr error
	sects.Each(func(s *section.Section) {
		if sectErr != nil || (len(s.Data) == 0 && len(s.Relocs) == 0) {
			return
		}
		if err := writeSect(&sectsBuf, e, s); err != nil {
			sectErr = err
			return
		}
		sectCount++
	})
	if sectErr != nil {
		return sectErr
	}

	// Atoms accumulate in e.atoms as symsBuf/sectsBuf intern their
	// expression values; serializing them also interns any view fields
	// (Addr's Section, Label/Rel/Tag's Lbl, Tag's TagName) those atoms
	// carry, so this must happen before string_pool's length is final too.
	var atomsBuf bytes.Buffer
	for _, a := range e.atoms {
		if err := writeAtom(&atomsBuf, e, a); err != nil {
			return err
		}
	}

	if _, err := w.Write(Magic[:]); err != nil {
		return smerr.Wrap(smerr.ErrIO, "write magic: %v", err)
	}
	if err := writeBlob(w, e.strings); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(e.atoms))); err != nil {
		return err
	}
	if _, err := w.Write(atomsBuf.Bytes()); err != nil {
		return smerr.Wrap(smerr.ErrIO, "write expr pool: %v", err)
	}
	if err := writeU32(w, uint32(written)); err != nil {
		return err
	}
	if _, err := w.Write(symsBuf.Bytes()); err != nil {
		return smerr.Wrap(smerr.ErrIO, "write symbol table: %v", err)
	}
	if err := writeU32(w, uint32(sectCount)); err != nil {
		return err
	}
	if _, err := w.Write(sectsBuf.Bytes()); err != nil {
		return smerr.Wrap(smerr.ErrIO, "write section table: %v", err)
	}
	return nil
}

// Decode reads an SM00 object file, interning every name it carries into
// pool (typically the linker's shared pool, so symbols from different
// objects that name the same thing compare Equal).
func Decode(r io.Reader, pool *view.Pool) (*symtab.SymTab[expr.View], *section.Table, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, nil, smerr.Wrap(smerr.ErrIO, "read magic: %v", err)
	}
	if magic != Magic {
		return nil, nil, smerr.Wrap(smerr.ErrIO, "not an SM00 object file (got %q)", magic[:])
	}

	strs, err := readBlob(r)
	if err != nil {
		return nil, nil, err
	}
	d := newDecoder(pool, strs)

	atomCount, err := readU32(r)
	if err != nil {
		return nil, nil, err
	}
	d.atoms = make([]expr.Atom, atomCount)
	for i := range d.atoms {
		a, err := readAtom(r, d)
		if err != nil {
			return nil, nil, err
		}
		d.atoms[i] = a
	}

	symCount, err := readU32(r)
	if err != nil {
		return nil, nil, err
	}
	syms := symtab.NewSymTab[expr.View]()
	for i := uint32(0); i < symCount; i++ {
		sym, err := readSym(r, d)
		if err != nil {
			return nil, nil, err
		}
		syms.Add(sym)
	}

	sectCount, err := readU32(r)
	if err != nil {
		return nil, nil, err
	}
	sects := section.NewTable()
	for i := uint32(0); i < sectCount; i++ {
		if err := readSect(r, d, sects); err != nil {
			return nil, nil, err
		}
	}

	return syms, sects, nil
}

// --- primitive wire helpers ---

func writeU8(w io.Writer, v uint8) error {
	if _, err := w.Write([]byte{v}); err != nil {
		return smerr.Wrap(smerr.ErrIO, "write u8: %v", err)
	}
	return nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	if _, err := w.Write(buf[:]); err != nil {
		return smerr.Wrap(smerr.ErrIO, "write u32: %v", err)
	}
	return nil
}

// writeBlob writes a u32 length prefix then the raw bytes (string_pool's
// shape, and every section's raw Data).
func writeBlob(w io.Writer, b []byte) error {
	if err := writeU32(w, uint32(len(b))); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	if _, err := w.Write(b); err != nil {
		return smerr.Wrap(smerr.ErrIO, "write blob: %v", err)
	}
	return nil
}

func readU8(r io.Reader) (uint8, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, smerr.Wrap(smerr.ErrIO, "read u8: %v", err)
	}
	return buf[0], nil
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, smerr.Wrap(smerr.ErrIO, "read u32: %v", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func readBlob(r io.Reader) ([]byte, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if n > 0 {
		if _, err := io.ReadFull(r, buf); err != nil {
			return nil, smerr.Wrap(smerr.ErrIO, "read blob: %v", err)
		}
	}
	return buf, nil
}
