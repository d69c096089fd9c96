package assembler

import (
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/stream"
	"github.com/smtk-dev/smtk/pkg/sm/token"
)

// doIf implements "@IF expr ... [@ELSE ...] @END": evaluate expr (which
// must be constant), capture both branches verbatim while tracking nested
// block-openers for balanced @END/@ELSE, then push an IfElseFrame replaying
// whichever branch the condition selected.
//
// Grounded on spec.md §4.4 and original_source/src/smasm/if.c's ifInvoke,
// which performs exactly this capture-then-replay sequence (the nested-
// depth bookkeeping below mirrors its balance counter).
func (c *Context) doIf() error {
	startTok, err := c.Stack.Peek()
	if err != nil {
		return err
	}
	pos := startTok.Pos
	v, err := c.ParseExpr()
	if err != nil {
		return err
	}
	num, ok := c.SolveExpr(v, false)
	if !ok {
		return smerr.Wrap(smerr.ErrSemantic, "@IF condition must be a constant expression")
	}

	thenBranch, sawElse, err := c.captureIfBranch()
	if err != nil {
		return err
	}
	var elseBranch []token.Tok
	if sawElse {
		elseBranch, _, err = c.captureIfBranch()
		if err != nil {
			return err
		}
	}

	chosen := elseBranch
	if num != 0 {
		chosen = thenBranch
	}
	return c.Stack.Push(stream.NewIfElseFrame("if", pos, chosen))
}

// captureIfBranch reads raw tokens until a balancing @ELSE or @END (at
// nesting depth 0), reporting which terminator it saw.
func (c *Context) captureIfBranch() ([]token.Tok, bool, error) {
	var body []token.Tok
	depth := 0
	for {
		t, err := c.Stack.Peek()
		if err != nil {
			return nil, false, err
		}
		switch t.Kind {
		case token.EOF:
			return nil, false, smerr.Wrap(smerr.ErrParse, "unterminated @IF")
		case token.KwIF, token.KwMACRO, token.KwREPEAT, token.KwSTRUCT, token.KwUNION:
			depth++
		case token.KwELSE:
			if depth == 0 {
				c.Stack.Eat()
				return body, true, nil
			}
		case token.KwEND:
			if depth == 0 {
				c.Stack.Eat()
				return body, false, nil
			}
			depth--
		}
		body = append(body, t)
		c.Stack.Eat()
	}
}

// doRepeat implements "@REPEAT expr ... @END": expr must solve to a
// constant >= 0 at assemble time, then the body is captured verbatim and
// replayed that many times with @ITER substituted.
//
// Grounded on spec.md §4.4 ("`@REPEAT expr ... @END` evaluates `expr` at
// assemble time ... and pushes a REPEAT frame"); no surviving C source
// implements the capture loop.
func (c *Context) doRepeat() error {
	startTok, err := c.Stack.Peek()
	if err != nil {
		return err
	}
	pos := startTok.Pos
	v, err := c.ParseExpr()
	if err != nil {
		return err
	}
	count, ok := c.SolveExpr(v, false)
	if !ok {
		return smerr.Wrap(smerr.ErrSemantic, "@REPEAT count must be a constant expression")
	}
	if count < 0 {
		return smerr.Wrap(smerr.ErrSemantic, "@REPEAT count must be non-negative")
	}

	var body []token.Tok
	depth := 0
	for {
		t, err := c.Stack.Peek()
		if err != nil {
			return err
		}
		switch t.Kind {
		case token.EOF:
			return smerr.Wrap(smerr.ErrParse, "unterminated @REPEAT")
		case token.KwIF, token.KwMACRO, token.KwREPEAT, token.KwSTRUCT, token.KwUNION:
			depth++
		case token.KwEND:
			if depth == 0 {
				c.Stack.Eat()
				return c.Stack.Push(stream.NewRepeatFrame("repeat", pos, body, count))
			}
			depth--
		}
		body = append(body, t)
		c.Stack.Eat()
	}
}
