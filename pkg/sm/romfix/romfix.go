// Package romfix implements smfix: computing and writing a Game Boy ROM's
// header checksum, then padding the image out to its declared cartridge
// size.
package romfix

import (
	"github.com/smtk-dev/smtk/pkg/sm/internal/genutil"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
)

const (
	headerStart    = 0x0134
	headerEnd      = 0x014D // exclusive
	checksumAddr   = 0x014D
	romSizeAddr    = 0x0148
	minROMLen      = 0x014E
	baseROMSize    = 0x8000
	maxROMSizeCode = 0x08
)

// Fix computes the header checksum over rom[0x134:0x14D], writes it at
// 0x14D, and returns a copy padded out to 0x8000<<rom[0x148] bytes (or
// rom unchanged in length if it's already that size or larger).
func Fix(rom []byte) ([]byte, error) {
	if len(rom) < minROMLen {
		return nil, smerr.Wrap(smerr.ErrSemantic, "ROM file too small")
	}

	out := append([]byte(nil), rom...)

	var checksum byte
	for i := headerStart; i < headerEnd; i++ {
		checksum -= out[i]
		checksum--
	}
	out[checksumAddr] = checksum

	sizeCode := out[romSizeAddr]
	if sizeCode > maxROMSizeCode {
		return nil, smerr.Wrap(smerr.ErrSemantic, "invalid ROM size code: %02X", sizeCode)
	}
	romSizeBytes := baseROMSize << sizeCode

	finalLen := genutil.Max([]int{len(out), romSizeBytes})
	if finalLen > len(out) {
		out = append(out, make([]byte, finalLen-len(out))...)
	}
	return out, nil
}
