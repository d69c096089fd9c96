package assembler

import (
	"github.com/smtk-dev/smtk/pkg/sm/format"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/stream"
	"github.com/smtk-dev/smtk/pkg/sm/token"
)

// invokeFmt runs the format engine against "@STRFMT fmt, args..." or
// "@IDFMT fmt, args..." (the leading keyword has already been identified by
// peekExpand but not yet consumed) and pushes a FmtFrame yielding the
// single STR or ID token the result renders as.
//
// Grounded on spec.md §4.5 for the rendering rules (implemented in
// pkg/sm/format) and §4.2's FMT frame description; the token-stream
// consumption of the format string and its argument list has no surviving
// C source (original_source/src/smasm/fmt.c stops at the state machine,
// never the argument-pulling loop), so it's synthesized directly here.
func (c *Context) invokeFmt(resultKind token.Kind) error {
	c.Stack.Eat() // @STRFMT / @IDFMT keyword

	fmtTok, err := c.expectRaw(token.STR)
	if err != nil {
		return err
	}
	c.Stack.Eat()

	segs, err := format.Scan(fmtTok.Text.Bytes())
	if err != nil {
		return err
	}

	var out []byte
	for _, seg := range segs {
		if seg.Verb == 0 {
			out = append(out, seg.Literal...)
			continue
		}
		width, prec, err := c.resolveWidthPrec(seg)
		if err != nil {
			return err
		}
		if err := c.consumeComma(); err != nil {
			return err
		}
		out, err = c.renderArg(out, seg, width, prec)
		if err != nil {
			return err
		}
	}

	resultTok := token.Tok{Kind: resultKind, Pos: fmtTok.Pos, Text: c.Pool.Intern(out)}
	return c.Stack.Push(stream.NewFmtFrame("fmt", resultTok))
}

func (c *Context) resolveWidthPrec(seg format.Segment) (width, prec uint16, err error) {
	width, prec = seg.Width, seg.Prec
	if seg.WidthStar {
		if err := c.consumeComma(); err != nil {
			return 0, 0, err
		}
		width, err = c.SolveU16()
		if err != nil {
			return 0, 0, err
		}
	}
	if seg.PrecStar {
		if err := c.consumeComma(); err != nil {
			return 0, 0, err
		}
		prec, err = c.SolveU16()
		if err != nil {
			return 0, 0, err
		}
	}
	return width, prec, nil
}

// consumeComma requires and eats a ',' before the next pulled argument -
// every format conversion's argument is introduced by one, per spec.md's
// "pull next argument, which is a constant expression preceded by `,`".
func (c *Context) consumeComma() error {
	t, err := c.Stack.Peek()
	if err != nil {
		return err
	}
	if t.Kind != token.Kind(',') {
		return smerr.Wrap(smerr.ErrParse, "expected ',' before format argument")
	}
	c.Stack.Eat()
	return nil
}

func (c *Context) renderArg(dst []byte, seg format.Segment, width, prec uint16) ([]byte, error) {
	switch seg.Verb {
	case 's':
		t, err := c.Stack.Peek()
		if err != nil {
			return nil, err
		}
		if t.Kind != token.STR && t.Kind != token.ID {
			return nil, smerr.Wrap(smerr.ErrParse, "expected string or identifier for %%s")
		}
		c.Stack.Eat()
		return format.AppendStr(dst, t.Text.Bytes(), seg.Flags, width, prec), nil

	case 'c':
		num, err := c.solveConstExpr()
		if err != nil {
			return nil, err
		}
		return format.AppendRune(dst, rune(num)), nil

	case 'd', 'i':
		num, err := c.solveConstExpr()
		if err != nil {
			return nil, err
		}
		return format.AppendInt(dst, num, 10, seg.Flags, width, prec), nil

	case 'u':
		num, err := c.solveConstExpr()
		if err != nil {
			return nil, err
		}
		return format.AppendUint(dst, num, 10, seg.Flags, width, prec, false), nil

	case 'b':
		num, err := c.solveConstExpr()
		if err != nil {
			return nil, err
		}
		return format.AppendUint(dst, num, 2, seg.Flags, width, prec, false), nil

	case 'x', 'X':
		num, err := c.solveConstExpr()
		if err != nil {
			return nil, err
		}
		flags := seg.Flags
		if seg.Verb == 'X' {
			flags |= format.Uppercase
		}
		return format.AppendUint(dst, num, 16, flags, width, prec, false), nil

	default:
		return nil, smerr.Wrap(smerr.ErrInternal, "unreachable format verb %q", seg.Verb)
	}
}

func (c *Context) solveConstExpr() (int32, error) {
	v, err := c.ParseExpr()
	if err != nil {
		return 0, err
	}
	num, ok := c.SolveExpr(v, false)
	if !ok {
		return 0, smerr.Wrap(smerr.ErrSemantic, "format argument must be a constant expression")
	}
	return num, nil
}

// expectRaw peeks the raw (non-macro-expanding) stream, used where a
// directive's own argument position must see a literal STR/ID rather than
// triggering a nested macro lookup (a format string is never itself a
// macro invocation).
func (c *Context) expectRaw(k token.Kind) (token.Tok, error) {
	t, err := c.Stack.Peek()
	if err != nil {
		return token.Tok{}, err
	}
	if t.Kind != k {
		return token.Tok{}, smerr.Wrap(smerr.ErrParse, "expected %s, got %s", k, t.Kind)
	}
	return t, nil
}
