package format_test

import (
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/format"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanLiteralAndPercentEscape(t *testing.T) {
	segs, err := format.Scan([]byte("L_%%_end"))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.Equal(t, "L_%_end", string(segs[0].Literal))
}

func TestScanFlagsWidthPrecisionAndVerb(t *testing.T) {
	segs, err := format.Scan([]byte("%-08.3x"))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	seg := segs[0]
	assert.Equal(t, byte('x'), seg.Verb)
	assert.NotZero(t, seg.Flags&format.JustifyLeft)
	assert.NotZero(t, seg.Flags&format.ZeroJustify)
	assert.Equal(t, uint16(8), seg.Width)
	assert.True(t, seg.HasPrec)
	assert.Equal(t, uint16(3), seg.Prec)
}

func TestScanStarWidthAndPrecision(t *testing.T) {
	segs, err := format.Scan([]byte("%*.*d"))
	require.NoError(t, err)
	require.Len(t, segs, 1)
	assert.True(t, segs[0].WidthStar)
	assert.True(t, segs[0].PrecStar)
	assert.Equal(t, byte('d'), segs[0].Verb)
}

func TestScanUnrecognizedConversionIsError(t *testing.T) {
	_, err := format.Scan([]byte("%q"))
	assert.Error(t, err)
}

func TestScanMixedLiteralAndSpec(t *testing.T) {
	segs, err := format.Scan([]byte("L_%02X_end"))
	require.NoError(t, err)
	require.Len(t, segs, 3)
	assert.Equal(t, "L_", string(segs[0].Literal))
	assert.Equal(t, byte('X'), segs[1].Verb)
	assert.Equal(t, uint16(2), segs[1].Width)
	assert.Equal(t, "_end", string(segs[2].Literal))
}

func TestAppendUintZeroPaddedHex(t *testing.T) {
	got := format.AppendUint(nil, 5, 16, format.ZeroJustify, 2, 0, false)
	assert.Equal(t, "05", string(got))
}

func TestAppendUintUppercase(t *testing.T) {
	got := format.AppendUint(nil, 0xAB, 16, format.Uppercase, 0, 0, false)
	assert.Equal(t, "AB", string(got))
}

func TestAppendIntNegativeSign(t *testing.T) {
	got := format.AppendInt(nil, -42, 10, 0, 0, 0)
	assert.Equal(t, "-42", string(got))
}

func TestAppendIntForceSignOnPositive(t *testing.T) {
	got := format.AppendInt(nil, 7, 10, format.ForceSign, 0, 0)
	assert.Equal(t, "+7", string(got))
}

func TestAppendStrPrecisionTruncates(t *testing.T) {
	got := format.AppendStr(nil, []byte("hello"), 0, 0, 3)
	assert.Equal(t, "hel", string(got))
}

func TestAppendStrWidthPadsRight(t *testing.T) {
	got := format.AppendStr(nil, []byte("hi"), format.JustifyLeft, 5, 0)
	assert.Equal(t, "hi   ", string(got))
}

func TestAppendStrWidthPadsLeftByDefault(t *testing.T) {
	got := format.AppendStr(nil, []byte("hi"), 0, 5, 0)
	assert.Equal(t, "   hi", string(got))
}

func TestAppendRuneEncodesUTF8(t *testing.T) {
	got := format.AppendRune(nil, 'A')
	assert.Equal(t, "A", string(got))

	got = format.AppendRune(nil, '€')
	assert.Equal(t, "€", string(got))
}
