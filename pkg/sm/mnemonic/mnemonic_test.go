package mnemonic_test

import (
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/mnemonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindIsCaseInsensitive(t *testing.T) {
	m, ok := mnemonic.Find("ld")
	require.True(t, ok)
	assert.Equal(t, mnemonic.LD, m)

	m, ok = mnemonic.Find("SwAp")
	require.True(t, ok)
	assert.Equal(t, mnemonic.SWAP, m)

	_, ok = mnemonic.Find("NOTAMNEMONIC")
	assert.False(t, ok)
}

func TestImpliedOpcodes(t *testing.T) {
	op, ok := mnemonic.Implied(mnemonic.NOP)
	require.True(t, ok)
	assert.Equal(t, byte(0x00), op)

	op, ok = mnemonic.Implied(mnemonic.HALT)
	require.True(t, ok)
	assert.Equal(t, byte(0x76), op)

	op, ok = mnemonic.Implied(mnemonic.RETI)
	require.True(t, ok)
	assert.Equal(t, byte(0xD9), op)

	_, ok = mnemonic.Implied(mnemonic.LD)
	assert.False(t, ok)
}

func TestLdR8R8TableCorners(t *testing.T) {
	// LD B, B is the very first 0x40 entry.
	assert.Equal(t, byte(0x40), mnemonic.LdR8R8(mnemonic.RegB, mnemonic.RegB))
	// LD A, A is the last (0x40 + 7*8 + 7).
	assert.Equal(t, byte(0x7F), mnemonic.LdR8R8(mnemonic.RegA, mnemonic.RegA))
	// LD [HL], B must not collide with HALT (0x76 is dst=[HL] src=[HL]).
	assert.Equal(t, byte(0x70), mnemonic.LdR8R8(mnemonic.RegIndHL, mnemonic.RegB))
}

func TestAluR8CoversAllEightOps(t *testing.T) {
	assert.Equal(t, byte(0x80), mnemonic.AluR8(mnemonic.AluADD, mnemonic.RegB))
	assert.Equal(t, byte(0xB8), mnemonic.AluR8(mnemonic.AluCP, mnemonic.RegB))
	assert.Equal(t, byte(0xBF), mnemonic.AluR8(mnemonic.AluCP, mnemonic.RegA))
}

func TestAluImm8(t *testing.T) {
	assert.Equal(t, byte(0xC6), mnemonic.AluImm8(mnemonic.AluADD))
	assert.Equal(t, byte(0xFE), mnemonic.AluImm8(mnemonic.AluCP))
}

func TestR16Families(t *testing.T) {
	assert.Equal(t, byte(0x21), mnemonic.LdR16Imm16(mnemonic.RP_HL))
	assert.Equal(t, byte(0x23), mnemonic.IncR16(mnemonic.RP_HL))
	assert.Equal(t, byte(0x2B), mnemonic.DecR16(mnemonic.RP_HL))
	assert.Equal(t, byte(0x39), mnemonic.AddHLR16(mnemonic.RP_SP))
}

func TestPushPop(t *testing.T) {
	assert.Equal(t, byte(0xF5), mnemonic.Push(mnemonic.RP2_AF))
	assert.Equal(t, byte(0xF1), mnemonic.Pop(mnemonic.RP2_AF))
}

func TestBranches(t *testing.T) {
	assert.Equal(t, byte(0x18), mnemonic.JrUnconditional)
	assert.Equal(t, byte(0x28), mnemonic.JrCond(mnemonic.CondZ))
	assert.Equal(t, byte(0xC3), mnemonic.JpUnconditional)
	assert.Equal(t, byte(0xDA), mnemonic.JpCond(mnemonic.CondC))
	assert.Equal(t, byte(0xCD), mnemonic.CallUnconditional)
	assert.Equal(t, byte(0xC0), mnemonic.RetCond(mnemonic.CondNZ))
}

func TestRst(t *testing.T) {
	op, ok := mnemonic.Rst(0x38)
	require.True(t, ok)
	assert.Equal(t, byte(0xFF), op)

	op, ok = mnemonic.Rst(0x00)
	require.True(t, ok)
	assert.Equal(t, byte(0xC7), op)

	_, ok = mnemonic.Rst(0x05)
	assert.False(t, ok, "RST vectors must be multiples of 8")
}

func TestCBPrefixedFamilies(t *testing.T) {
	assert.Equal(t, byte(0x00), mnemonic.Rot(mnemonic.RotRLC, mnemonic.RegB))
	assert.Equal(t, byte(0x3F), mnemonic.Rot(mnemonic.RotSRL, mnemonic.RegA))
	assert.Equal(t, byte(0x7F), mnemonic.Bit(7, mnemonic.RegA))
	assert.Equal(t, byte(0x80), mnemonic.Res(0, mnemonic.RegB))
	assert.Equal(t, byte(0xFF), mnemonic.Set(7, mnemonic.RegA))
}
