package link

import (
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
)

// Place assigns every configured section an absolute start address within
// its target memory, in configured order - steps 2-3 of spec.md §4.7's
// algorithm. Input sections were already collected under their shared name
// by merge (every object's bytes for section X concatenate in load order),
// so each SectionSpec here corresponds to exactly one already-merged
// section.Section.
func (l *Linker) Place() error {
	for _, spec := range l.Cfg.Sections {
		mem := l.Cfg.memory(spec.Load)
		if mem == nil {
			return smerr.Wrap(smerr.ErrConfig, "section %q loads into unknown memory %q", spec.Name.String(), spec.Load.String())
		}
		if !spec.Kind.compatible(mem.Kind) {
			return smerr.Wrap(smerr.ErrConfig, "section %q (kind %d) is not compatible with memory %q", spec.Name.String(), spec.Kind, mem.Name.String())
		}

		sect, _ := l.Sects.Find(spec.Name)
		size := uint32(0)
		if sect != nil {
			size = uint32(len(sect.Data))
		}

		align := spec.Align
		if align == 0 {
			align = 1
		}
		start := mem.Start + mem.cursor
		if rem := start % align; rem != 0 {
			start += align - rem
		}
		if start+size > mem.End() {
			return smerr.Wrap(smerr.ErrConfig, "section %q overflows memory %q", spec.Name.String(), mem.Name.String())
		}

		spec.placedStart = start
		spec.placed = true
		mem.cursor = (start - mem.Start) + size

		if !spec.Define.IsNull() {
			l.defineSectionSymbol(spec)
		}
	}
	return nil
}

// defineSectionSymbol binds a `define = NAME` section's placed start
// address as a global EQU-like constant, the linker-config equivalent of a
// linker-script "__start_NAME" symbol.
func (l *Linker) defineSectionSymbol(spec *SectionSpec) {
	l.Syms.Add(symtab.Sym[expr.View]{
		Lbl:   symtab.Global(spec.Define),
		Value: expr.View{{Kind: expr.Const, Num: int32(spec.placedStart)}},
	})
}

// Base returns the placed absolute start address of the section named
// name, or (0, false) if it was never placed (e.g. an object emitted no
// bytes into it and a config entry names it regardless).
func (l *Linker) Base(name string) (uint32, bool) {
	for _, spec := range l.Cfg.Sections {
		if spec.Name.String() == name && spec.placed {
			return spec.placedStart, true
		}
	}
	return 0, false
}
