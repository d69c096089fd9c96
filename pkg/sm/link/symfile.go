package link

import (
	"fmt"
	"io"
	"sort"

	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
)

// WriteSymFile writes smold's -g output: one "BANK:ADDR name" line per
// symbol that solves to a concrete address, sorted by address. BANK/ADDR
// follow the usual bank-switched-cartridge windowing: bank 0 covers
// $0000-$3FFF as its own local address space; any other bank's bytes are
// addressed locally as $4000-$7FFF, the window the hardware maps a
// switchable bank into.
func (l *Linker) WriteSymFile(w io.Writer) error {
	type entry struct {
		addr uint32
		name string
	}
	var entries []entry
	l.Syms.Each(func(s symtab.Sym[expr.View]) {
		num, ok := l.solve(s.Value)
		if !ok {
			return
		}
		entries = append(entries, entry{addr: uint32(num), name: s.Lbl.String()})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].addr < entries[j].addr })

	for _, e := range entries {
		bank := e.addr / 0x4000
		local := e.addr
		if bank > 0 {
			local = 0x4000 + e.addr%0x4000
		}
		if _, err := fmt.Fprintf(w, "%02X:%04X %s\n", bank, local, e.name); err != nil {
			return err
		}
	}
	return nil
}

// WriteTagsFile writes a vi-style tags file (name, source file, line
// number), sorted by name as ctags' own format requires for vi's binary
// search over it.
func (l *Linker) WriteTagsFile(w io.Writer) error {
	type entry struct {
		name string
		file string
		line uint32
	}
	var entries []entry
	l.Syms.Each(func(s symtab.Sym[expr.View]) {
		if s.Pos.File.IsNull() {
			return
		}
		entries = append(entries, entry{name: s.Lbl.String(), file: s.Pos.File.String(), line: s.Pos.Line})
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })

	for _, e := range entries {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%d\n", e.name, e.file, e.line); err != nil {
			return err
		}
	}
	return nil
}
