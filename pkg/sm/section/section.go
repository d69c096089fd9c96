// Package section implements the section/relocation model: a named,
// contiguous byte buffer with its own program counter and pending
// relocations, the unit both the assembler emits into and the object
// codec serializes.
package section

import (
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// RelocFlags marks a Reloc for a link-time range check beyond plain
// width-truncation.
//
// Grounded on original_source/include/smasm/sect.h's SmRelocFlags.
type RelocFlags uint8

const (
	// FlagHRAM requires the solved value to land in $FF00-$FFFF (an LDH
	// operand).
	FlagHRAM RelocFlags = 1 << iota
	// FlagRST requires the solved value to be one of the eight reset
	// vectors.
	FlagRST
	// FlagJP marks a signed relative-jump displacement, checked against
	// (reloc.Offset + 1) rather than the section's load address.
	FlagJP
)

// Reloc is a deferred patch: write the low Width bytes of Value, solved
// relative to the final layout, at Offset into the owning Section's data.
//
// Grounded on original_source/include/smasm/sect.h's SmReloc.
type Reloc struct {
	Offset uint32
	Width  uint8
	Value  expr.View
	Unit   view.View
	Pos    token.Pos
	Flags  RelocFlags
}

// Section is a named byte buffer with a running program counter and the
// relocations pending against its data.
//
// Grounded on original_source/include/smasm/sect.h's SmSect.
type Section struct {
	Name   view.View
	PC     uint32
	Data   []byte
	Relocs []Reloc
}

// New creates an empty section named name.
func New(name view.View) *Section {
	return &Section{Name: name}
}

// EmitByte appends one byte and advances PC.
func (s *Section) EmitByte(b byte) {
	s.Data = append(s.Data, b)
	s.PC++
}

// EmitBytes appends bs and advances PC by len(bs).
func (s *Section) EmitBytes(bs []byte) {
	s.Data = append(s.Data, bs...)
	s.PC += uint32(len(bs))
}

// Fill appends n zero bytes and advances PC by n (the @DS directive).
func (s *Section) Fill(n uint32) {
	for i := uint32(0); i < n; i++ {
		s.Data = append(s.Data, 0)
	}
	s.PC += n
}

// AddReloc records a pending relocation at the section's current write
// offset (|Data| at call time) and reserves width placeholder bytes for
// it, matching the original's "emit the instruction's operand bytes as
// zero, then record a Reloc pointing at that offset" sequence.
func (s *Section) AddReloc(width uint8, value expr.View, unit view.View, pos token.Pos, flags RelocFlags) {
	offset := uint32(len(s.Data))
	s.Relocs = append(s.Relocs, Reloc{
		Offset: offset,
		Width:  width,
		Value:  value,
		Unit:   unit,
		Pos:    pos,
		Flags:  flags,
	})
	for i := uint8(0); i < width; i++ {
		s.Data = append(s.Data, 0)
	}
	s.PC += uint32(width)
}

// ResetPass resets PC and clears Data/Relocs for a fresh pass, keeping
// Name. Pass 1 only advances PC (via EmitByte/EmitBytes/Fill/AddReloc)
// without needing the bytes to persist; pass 2 starts clean and
// re-emits everything for real.
func (s *Section) ResetPass() {
	s.PC = 0
	s.Data = s.Data[:0]
	s.Relocs = s.Relocs[:0]
}

// Table is the ordered, name-deduplicated list of sections an assembly
// run touches. Order of first use is preserved, matching the original's
// append-only SmSectGBuf semantics.
type Table struct {
	order  []*Section
	byName map[string]*Section
}

func NewTable() *Table {
	return &Table{byName: make(map[string]*Section)}
}

// Get returns the section named name, creating it (PC starts at 0) on
// first use.
func (t *Table) Get(name view.View) *Section {
	key := name.String()
	if s, ok := t.byName[key]; ok {
		return s
	}
	s := New(name)
	t.byName[key] = s
	t.order = append(t.order, s)
	return s
}

// Find looks up an existing section without creating one.
func (t *Table) Find(name view.View) (*Section, bool) {
	s, ok := t.byName[name.String()]
	return s, ok
}

// Each iterates sections in first-use order.
func (t *Table) Each(fn func(*Section)) {
	for _, s := range t.order {
		fn(s)
	}
}

// ResetPass resets every section for a fresh assembly pass.
func (t *Table) ResetPass() {
	for _, s := range t.order {
		s.ResetPass()
	}
}
