package link

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/smtk-dev/smtk/pkg/sm/assembler"
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/object"
	"github.com/smtk-dev/smtk/pkg/sm/section"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/smopt"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// Linker merges one or more assembled objects against a Config, places
// their sections into memory, resolves every relocation, and emits a flat
// ROM image - spec.md §4.7's five-step algorithm.
type Linker struct {
	Pool   *view.Pool
	Cfg    *Config
	Syms   *symtab.SymTab[expr.View]
	Sects  *section.Table
	Logger *slog.Logger

	staticUnit view.View
	exportUnit view.View
	nextUnit   int
}

// NewLinker wires up an empty Linker over cfg. Callers load every object
// with LoadObject before calling Place/Resolve/Emit. opts accepts
// smopt.WithLogger, mirroring assembler.NewContext.
func NewLinker(cfg *Config, pool *view.Pool, opts ...smopt.Option) *Linker {
	settings := smopt.Resolve(opts...)
	return &Linker{
		Pool:       pool,
		Cfg:        cfg,
		Syms:       symtab.NewSymTab[expr.View](),
		Sects:      section.NewTable(),
		Logger:     settings.Logger,
		staticUnit: pool.InternString(assembler.StaticUnitName),
		exportUnit: pool.InternString(assembler.ExportUnitName),
	}
}

// LoadObject decodes one SM00 object file and merges it into the linker's
// shared symbol table and section list, in load order - step 1 of
// spec.md §4.7's algorithm.
func (l *Linker) LoadObject(r io.Reader, path string) error {
	syms, sects, err := object.Decode(r, l.Pool)
	if err != nil {
		return smerr.Wrap(smerr.ErrIO, "load object %s: %v", path, err)
	}
	l.Logger.Debug("loaded object", "path", path, "symbols", syms.Len())
	return l.merge(path, syms, sects)
}

// merge re-scopes path's @STATIC symbols under a synthetic per-file unit so
// two objects' same-named local labels can't collide, checks @EXPORT
// symbols for global uniqueness, then appends path's section data onto the
// linker's merged sections (concatenation order == object load order),
// shifting every relocation's offset and every Addr atom's PC to match.
func (l *Linker) merge(path string, syms *symtab.SymTab[expr.View], sects *section.Table) error {
	unitID := l.nextUnit
	l.nextUnit++
	fileScope := l.Pool.InternString(fmt.Sprintf("@unit%d:%s", unitID, path))

	rename := make(map[string]symtab.Lbl)
	syms.Each(func(s symtab.Sym[expr.View]) {
		if s.Unit.Equal(l.staticUnit) {
			rename[s.Lbl.String()] = l.rescope(fileScope, s.Lbl)
		}
	})

	sectionBase := make(map[string]uint32)
	sects.Each(func(s *section.Section) {
		merged := l.Sects.Get(s.Name)
		sectionBase[s.Name.String()] = uint32(len(merged.Data))
	})

	rewriteAtom := func(a expr.Atom) expr.Atom {
		switch a.Kind {
		case expr.Label, expr.Rel:
			if r, ok := rename[a.Lbl.String()]; ok {
				a.Lbl = r
			}
		case expr.Tag:
			if r, ok := rename[a.TagLbl.String()]; ok {
				a.TagLbl = r
			}
		case expr.Addr:
			a.PC += int32(sectionBase[a.Section.String()])
		}
		return a
	}
	rewriteExpr := func(v expr.View) expr.View {
		if v == nil {
			return nil
		}
		out := make(expr.View, len(v))
		for i, a := range v {
			out[i] = rewriteAtom(a)
		}
		return out
	}

	var mergeErr error
	syms.Each(func(s symtab.Sym[expr.View]) {
		if mergeErr != nil {
			return
		}
		lbl := s.Lbl
		if r, ok := rename[lbl.String()]; ok {
			lbl = r
		} else if s.Unit.Equal(l.exportUnit) {
			if _, exists := l.Syms.Find(lbl); exists {
				mergeErr = smerr.Wrap(smerr.ErrSemantic, "multiple definition of exported symbol %q", lbl.String())
				return
			}
		}
		s.Lbl = lbl
		s.Value = rewriteExpr(s.Value)
		l.Syms.Add(s)
	})
	if mergeErr != nil {
		return mergeErr
	}

	sects.Each(func(s *section.Section) {
		merged := l.Sects.Get(s.Name)
		base := sectionBase[s.Name.String()]
		merged.Data = append(merged.Data, s.Data...)
		merged.PC = uint32(len(merged.Data))
		for _, rl := range s.Relocs {
			merged.Relocs = append(merged.Relocs, section.Reloc{
				Offset: base + rl.Offset,
				Width:  rl.Width,
				Value:  rewriteExpr(rl.Value),
				Unit:   rl.Unit,
				Pos:    rl.Pos,
				Flags:  rl.Flags,
			})
		}
	})
	return nil
}

// rescope gives a @STATIC label a scope unique to its owning object: a bare
// name gets fileScope directly; an already-local "scope.name" spelling gets
// fileScope prefixed onto its own scope, so two same-named local scopes in
// different objects still can't collide.
func (l *Linker) rescope(fileScope view.View, lbl symtab.Lbl) symtab.Lbl {
	if lbl.Scope.IsNull() {
		return symtab.Lbl{Scope: fileScope, Name: lbl.Name}
	}
	return symtab.Lbl{
		Scope: l.Pool.InternString(fileScope.String() + "." + lbl.Scope.String()),
		Name:  lbl.Name,
	}
}
