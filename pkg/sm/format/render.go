package format

import "github.com/smtk-dev/smtk/pkg/sm/token"

const digitsLower = "0123456789abcdef"
const digitsUpper = "0123456789ABCDEF"

func maxU16(a, b uint16) uint16 {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// AppendUint renders num (already non-negative - callers pass the
// magnitude, negative is recorded separately for the sign column) in the
// given radix and appends it to dst, returning the extended slice.
//
// Grounded on original_source/src/smasm/fmt.c's fmtUInt.
func AppendUint(dst []byte, num int32, radix int32, flags Flags, width, prec uint16, negative bool) []byte {
	digits := digitsLower
	if flags&Uppercase != 0 {
		digits = digitsUpper
	}

	var numBuf [32]byte
	end := 32
	u := uint32(num)
	r := uint32(radix)
	for {
		end--
		numBuf[end] = digits[u%r]
		u /= r
		if u == 0 {
			break
		}
	}
	digitsBytes := numBuf[end:]

	prec = maxU16(prec, uint16(len(digitsBytes)))
	signed := negative || flags&(ForceSign|PadSign) != 0
	body := prec
	if signed {
		body++
	}
	length := maxU16(width, body)

	i := uint16(0)
	pad := length - body
	if flags&JustifyLeft == 0 {
		c := byte(' ')
		if flags&ZeroJustify != 0 {
			c = '0'
		}
		for ; i < pad; i++ {
			dst = append(dst, c)
		}
	}
	if signed {
		switch {
		case negative:
			dst = append(dst, '-')
		case flags&PadSign != 0:
			dst = append(dst, ' ')
		case flags&ForceSign != 0:
			dst = append(dst, '+')
		}
		i++
	}
	for pad = prec - uint16(len(digitsBytes)); pad > 0; pad-- {
		dst = append(dst, '0')
		i++
	}
	dst = append(dst, digitsBytes...)
	i += uint16(len(digitsBytes))
	for ; i < length; i++ {
		dst = append(dst, ' ')
	}
	return dst
}

// AppendInt renders a signed num, splitting the sign out before delegating
// to AppendUint - matches the original's fmtInt.
func AppendInt(dst []byte, num int32, radix int32, flags Flags, width, prec uint16) []byte {
	negative := false
	if num < 0 {
		num = -num
		negative = true
	}
	return AppendUint(dst, num, radix, flags, width, prec, negative)
}

// AppendStr renders str padded/truncated per width and prec (prec caps the
// number of bytes copied; 0 means "use the full string").
//
// Grounded on original_source/src/smasm/fmt.c's fmtStr.
func AppendStr(dst []byte, str []byte, flags Flags, width, prec uint16) []byte {
	if prec == 0 {
		prec = uint16(len(str))
	}
	length := maxU16(width, prec)
	i := uint16(0)
	pad := length - prec
	if flags&JustifyLeft == 0 {
		c := byte(' ')
		if flags&ZeroJustify != 0 {
			c = '0'
		}
		for ; i < pad; i++ {
			dst = append(dst, c)
		}
	}
	n := minInt(int(prec), len(str))
	dst = append(dst, str[:n]...)
	i += uint16(n)
	for ; i < length; i++ {
		dst = append(dst, ' ')
	}
	return dst
}

// AppendRune UTF-8-encodes c and appends it, for %c.
func AppendRune(dst []byte, c rune) []byte {
	var buf [4]byte
	n := token.EncodeUTF8(c, &buf)
	return append(dst, buf[:n]...)
}
