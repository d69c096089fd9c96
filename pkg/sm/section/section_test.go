package section_test

import (
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/section"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitAdvancesPC(t *testing.T) {
	s := section.New(view.FromString("CODE"))
	s.EmitByte(0x18)
	s.EmitBytes([]byte{0x01, 0x00})
	assert.Equal(t, uint32(3), s.PC)
	assert.Equal(t, []byte{0x18, 0x01, 0x00}, s.Data)
	assert.EqualValues(t, len(s.Data), s.PC)
}

func TestFillZeroes(t *testing.T) {
	s := section.New(view.FromString("WRAM"))
	s.Fill(4)
	assert.Equal(t, []byte{0, 0, 0, 0}, s.Data)
	assert.Equal(t, uint32(4), s.PC)
}

func TestAddRelocReservesPlaceholderBytes(t *testing.T) {
	s := section.New(view.FromString("CODE"))
	s.EmitByte(0xFA) // LD A, [nn] opcode
	s.AddReloc(2, nil, view.Null, token.Pos{}, section.FlagHRAM)
	require.Len(t, s.Relocs, 1)
	assert.Equal(t, uint32(1), s.Relocs[0].Offset)
	assert.Equal(t, uint8(2), s.Relocs[0].Width)
	assert.Equal(t, uint32(3), s.PC)
	assert.Equal(t, []byte{0xFA, 0, 0}, s.Data)
}

func TestTableGetCreatesOnFirstUseAndReusesAfter(t *testing.T) {
	tab := section.NewTable()
	a := tab.Get(view.FromString("CODE"))
	b := tab.Get(view.FromString("CODE"))
	assert.Same(t, a, b)

	_, ok := tab.Find(view.FromString("MISSING"))
	assert.False(t, ok)
}

func TestTablePreservesFirstUseOrder(t *testing.T) {
	tab := section.NewTable()
	tab.Get(view.FromString("CODE"))
	tab.Get(view.FromString("DATA"))
	tab.Get(view.FromString("CODE"))

	var names []string
	tab.Each(func(s *section.Section) { names = append(names, s.Name.String()) })
	assert.Equal(t, []string{"CODE", "DATA"}, names)
}

func TestResetPassClearsDataKeepsName(t *testing.T) {
	s := section.New(view.FromString("CODE"))
	s.EmitBytes([]byte{1, 2, 3})
	s.ResetPass()
	assert.Equal(t, uint32(0), s.PC)
	assert.Empty(t, s.Data)
	assert.Equal(t, "CODE", s.Name.String())
}
