package link

import (
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/mnemonic"
	"github.com/smtk-dev/smtk/pkg/sm/section"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
)

// solve walks a postfix expr.View the way expr.Evaluator.Solve does, but
// against the linker's placed layout instead of assemble-time PCs: an Addr
// atom resolves unconditionally to its section's placed base plus its
// recorded offset (every section has a final address by the time Resolve
// runs, unlike mid-assembly), and a Tag atom resolves by looking up the
// field label @CREATE registered for it (see DESIGN.md's @CREATE decision)
// rather than deferring forever, the way expr.Evaluator.Solve always does.
func (l *Linker) solve(v expr.View) (int32, bool) {
	var stack []int32
	for _, a := range v {
		switch a.Kind {
		case expr.Const:
			stack = append(stack, a.Num)

		case expr.Addr:
			base, ok := l.Base(a.Section.String())
			if !ok {
				return 0, false
			}
			stack = append(stack, int32(base)+a.PC)

		case expr.Label, expr.Rel:
			sym, ok := l.Syms.Find(a.Lbl)
			if !ok {
				return 0, false
			}
			num, ok := l.solve(sym.Value)
			if !ok {
				return 0, false
			}
			stack = append(stack, num)

		case expr.Tag:
			fieldLbl := symtab.Lbl{Scope: a.TagLbl.Name, Name: a.TagName}
			sym, ok := l.Syms.Find(fieldLbl)
			if !ok {
				return 0, false
			}
			num, ok := l.solve(sym.Value)
			if !ok {
				return 0, false
			}
			stack = append(stack, num)

		case expr.Op:
			if len(stack) == 0 {
				return 0, false
			}
			rhs := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if a.Unary {
				stack = append(stack, expr.ApplyUnary(a.OpTok, rhs))
				continue
			}
			if len(stack) == 0 {
				return 0, false
			}
			lhs := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			stack = append(stack, expr.ApplyBinary(a.OpTok, lhs, rhs))
		}
	}
	if len(stack) != 1 {
		return 0, false
	}
	return stack[0], true
}

// Resolve patches every pending relocation's bytes into its owning
// section's Data, solved against the placed layout - step 4 of
// spec.md §4.7's algorithm. It must run after Place.
func (l *Linker) Resolve() error {
	var resolveErr error
	l.Sects.Each(func(s *section.Section) {
		if resolveErr != nil {
			return
		}
		base, _ := l.Base(s.Name.String())
		for _, rl := range s.Relocs {
			num, ok := l.solve(rl.Value)
			if !ok {
				resolveErr = smerr.Wrap(smerr.ErrSemantic, "%s: unresolved symbol in relocation at %s+%d", rl.Pos, s.Name.String(), rl.Offset)
				return
			}
			if err := patchReloc(s, rl, num, base); err != nil {
				resolveErr = err
				return
			}
		}
	})
	return resolveErr
}

// patchReloc emits num's resolved value into s.Data at rl.Offset.
// sectionBase is s's placed absolute start address - FlagJP's displacement
// is defined relative to the placed address of the operand byte
// (sectionBase + rl.Offset + 1), not the section-local offset alone.
func patchReloc(s *section.Section, rl section.Reloc, num int32, sectionBase uint32) error {
	switch {
	case rl.Flags&section.FlagJP != 0:
		disp := num - int32(sectionBase+rl.Offset+1)
		if !expr.CanReprI8(disp) {
			return smerr.Wrap(smerr.ErrSemantic, "%s: relative jump out of range (%d) at %s+%d", rl.Pos, disp, s.Name.String(), rl.Offset)
		}
		s.Data[rl.Offset] = byte(int8(disp))
		return nil

	case rl.Flags&section.FlagHRAM != 0:
		if num < 0xFF00 || num > 0xFFFF {
			return smerr.Wrap(smerr.ErrSemantic, "%s: value $%04X outside HRAM range at %s+%d", rl.Pos, uint32(num), s.Name.String(), rl.Offset)
		}
		s.Data[rl.Offset] = byte(num)
		return nil

	case rl.Flags&section.FlagRST != 0:
		vec, ok := mnemonic.Rst(uint8(num))
		if !ok {
			return smerr.Wrap(smerr.ErrSemantic, "%s: invalid RST vector $%02X at %s+%d", rl.Pos, uint32(num), s.Name.String(), rl.Offset)
		}
		s.Data[rl.Offset] = vec
		return nil

	default:
		for i := uint8(0); i < rl.Width; i++ {
			s.Data[rl.Offset+uint32(i)] = byte(uint32(num) >> (8 * i))
		}
		return nil
	}
}
