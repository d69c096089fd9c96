package romfix_test

import (
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/romfix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixComputesChecksumAndPads(t *testing.T) {
	rom := make([]byte, 0x0150)
	rom[0x0148] = 0 // 32KB: the 0x150-byte image is padded to 0x8000

	out, err := romfix.Fix(rom)
	require.NoError(t, err)
	require.Len(t, out, 0x8000)

	var want byte
	for i := 0x0134; i < 0x014D; i++ {
		want -= out[i]
		want--
	}
	assert.Equal(t, want, out[0x014D])
}

func TestFixPadsToDeclaredBankCount(t *testing.T) {
	rom := make([]byte, 0x0150)
	rom[0x0148] = 1 // 64KB

	out, err := romfix.Fix(rom)
	require.NoError(t, err)
	assert.Len(t, out, 0x10000)
}

func TestFixRejectsTooSmallROM(t *testing.T) {
	_, err := romfix.Fix(make([]byte, 0x10))
	assert.Error(t, err)
}

func TestFixRejectsBadSizeCode(t *testing.T) {
	rom := make([]byte, 0x0150)
	rom[0x0148] = 0x09
	_, err := romfix.Fix(rom)
	assert.Error(t, err)
}

func TestFixDoesNotShrinkAnAlreadyLargerROM(t *testing.T) {
	rom := make([]byte, 0x9000)
	rom[0x0148] = 0 // would only require 0x8000 bytes
	out, err := romfix.Fix(rom)
	require.NoError(t, err)
	assert.Len(t, out, 0x9000)
}
