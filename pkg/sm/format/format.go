// Package format implements the %-format state machine behind @STRFMT and
// @IDFMT: scanning a format string into literal runs and conversion specs,
// and rendering the C-printf-flavored integer/string conversions spec.md
// §4.5 describes. It never touches the token stream or the expression
// evaluator - Scan reports where a spec needs a value (a literal digit
// width/precision, or a '*' that must be pulled from an expression), and
// the caller (pkg/sm/assembler, which does own the token stream and the
// expression evaluator) resolves those and calls the Append* renderers.
package format

import "github.com/smtk-dev/smtk/pkg/sm/smerr"

// Flags mirrors C printf's flag characters.
//
// Grounded on original_source/src/smasm/fmt.c's FmtFlags.
type Flags uint8

const (
	JustifyLeft Flags = 1 << iota
	ForceSign
	PadSign
	NumMod
	ZeroJustify
	Uppercase
)

// Segment is one piece of a scanned format string: either a literal byte
// run (Verb == 0) or a conversion spec.
type Segment struct {
	Literal []byte

	Flags Flags

	Width     uint16
	WidthStar bool

	HasPrec  bool
	Prec     uint16
	PrecStar bool

	// Verb is the conversion character (c, b, d, i, u, x, X, s), or 0 for
	// a Literal segment.
	Verb byte
}

// Scan parses fmt into literal/spec segments. It does not resolve '*'
// widths/precisions or consume conversion arguments - WidthStar/PrecStar
// being true signals the caller must pull one u16-valued expression (and,
// for the verb itself, one more expression or string/id token) in source
// order.
//
// Grounded on original_source/src/smasm/fmt.c's fmtInvoke state machine
// (FMT_STATE_INIT/FLAG_OPT/WIDTH_OPT/PREC_DOT_OPT/PREC_OPT/SPEC), minus
// the token-stream consumption that lives in the assembler layer instead.
func Scan(fmt []byte) ([]Segment, error) {
	var segs []Segment
	var lit []byte
	flushLit := func() {
		if len(lit) > 0 {
			segs = append(segs, Segment{Literal: lit})
			lit = nil
		}
	}

	i := 0
	for i < len(fmt) {
		c := fmt[i]
		if c != '%' {
			lit = append(lit, c)
			i++
			continue
		}
		flushLit()
		i++
		if i >= len(fmt) {
			return nil, smerr.Wrap(smerr.ErrParse, "unterminated format conversion")
		}
		if fmt[i] == '%' {
			lit = append(lit, '%')
			i++
			continue
		}

		var seg Segment
		// flags
		for i < len(fmt) {
			switch fmt[i] {
			case '-':
				seg.Flags |= JustifyLeft
			case '+':
				seg.Flags |= ForceSign
			case ' ':
				seg.Flags |= PadSign
			case '#':
				seg.Flags |= NumMod
			case '0':
				seg.Flags |= ZeroJustify
			default:
				goto width
			}
			i++
		}
	width:
		// width
		if i < len(fmt) && fmt[i] == '*' {
			seg.WidthStar = true
			i++
		} else if i < len(fmt) && isDigit(fmt[i]) {
			n, adv := scanDigits(fmt[i:])
			seg.Width = n
			i += adv
		}
		// precision
		if i < len(fmt) && fmt[i] == '.' {
			i++
			seg.HasPrec = true
			if i < len(fmt) && fmt[i] == '*' {
				seg.PrecStar = true
				i++
			} else if i < len(fmt) && isDigit(fmt[i]) {
				n, adv := scanDigits(fmt[i:])
				seg.Prec = n
				i += adv
			}
		}
		if i >= len(fmt) {
			return nil, smerr.Wrap(smerr.ErrParse, "unterminated format conversion")
		}
		switch fmt[i] {
		case 'c', 'b', 'd', 'i', 'u', 'x', 'X', 's':
			seg.Verb = fmt[i]
		default:
			return nil, smerr.Wrap(smerr.ErrParse, "unrecognized format conversion: %c", fmt[i])
		}
		i++
		segs = append(segs, seg)
	}
	flushLit()
	return segs, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func scanDigits(s []byte) (n uint16, advanced int) {
	for advanced < len(s) && isDigit(s[advanced]) {
		n = n*10 + uint16(s[advanced]-'0')
		advanced++
	}
	return n, advanced
}
