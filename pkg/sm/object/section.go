package object

import (
	"io"

	smsect "github.com/smtk-dev/smtk/pkg/sm/section"
)

// writeSect serializes one section.Section as spec.md §4.6's
// SectionRecord: BufRef(name) + u32 datalen + datalen bytes + u32 nrelocs +
// n * (u32 offset + u8 width + ExprBufRef + BufRef unit + Pos + u8 flags).
func writeSect(w io.Writer, e *encoder, s *smsect.Section) error {
	if err := writeBufRef(w, e.internView(s.Name)); err != nil {
		return err
	}
	if err := writeBlob(w, s.Data); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(s.Relocs))); err != nil {
		return err
	}
	for _, rl := range s.Relocs {
		if err := writeU32(w, rl.Offset); err != nil {
			return err
		}
		if err := writeU8(w, rl.Width); err != nil {
			return err
		}
		if err := writeExprRef(w, e.internExpr(rl.Value)); err != nil {
			return err
		}
		if err := writeBufRef(w, e.internView(rl.Unit)); err != nil {
			return err
		}
		if err := writePos(w, e, rl.Pos); err != nil {
			return err
		}
		if err := writeU8(w, byte(rl.Flags)); err != nil {
			return err
		}
	}
	return nil
}

func readSect(r io.Reader, d *decoder, sects *smsect.Table) error {
	nameRef, err := readBufRef(r)
	if err != nil {
		return err
	}
	data, err := readBlob(r)
	if err != nil {
		return err
	}
	nrelocs, err := readU32(r)
	if err != nil {
		return err
	}
	s := sects.Get(d.view(nameRef))
	s.Data = data
	s.PC = uint32(len(data))
	for i := uint32(0); i < nrelocs; i++ {
		offset, err := readU32(r)
		if err != nil {
			return err
		}
		width, err := readU8(r)
		if err != nil {
			return err
		}
		valueRef, err := readExprRef(r)
		if err != nil {
			return err
		}
		unitRef, err := readBufRef(r)
		if err != nil {
			return err
		}
		pos, err := readPos(r, d)
		if err != nil {
			return err
		}
		flags, err := readU8(r)
		if err != nil {
			return err
		}
		s.Relocs = append(s.Relocs, smsect.Reloc{
			Offset: offset,
			Width:  width,
			Value:  d.expr(valueRef),
			Unit:   d.view(unitRef),
			Pos:    pos,
			Flags:  smsect.RelocFlags(flags),
		})
	}
	return nil
}
