package assembler

import (
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/stream"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// RunPasses drives the two-pass assembly spec.md §4.4 describes: pass 1
// walks the whole source with Emit false, registering every label/EQU so
// forward references solve by pass 2 (see Context.resolve's doc comment);
// pass 2 rewinds the entry file's lexer and every section, then re-walks
// with Emit true to produce real bytes and the final Relocs.
//
// Grounded on spec.md §4.4's two-pass description; no surviving source
// implements the driver itself (main.c's pass() is an empty stub, per
// context.go's package doc).
func (c *Context) RunPasses() error {
	c.Logger.Debug("assembly pass 1 starting")
	if err := c.runPass(); err != nil {
		return err
	}

	base, ok := c.Stack.Base().(*stream.FileFrame)
	if !ok {
		return smerr.Wrap(smerr.ErrInternal, "assembler base frame is not a file")
	}
	base.Lexer().Rewind()
	c.Stack.Reset()
	c.Sects.ResetPass()
	c.Scope = view.Null
	c.Emit = true

	c.Logger.Debug("assembly pass 2 starting", "symbols", c.Syms.Len())
	return c.runPass()
}

// runPass reads and processes statements until the base file frame hits
// EOF (Stack.Peek only ever returns EOF for real once every included/macro/
// repeat/fmt/if frame above the base has already been popped, per
// stream.Stack.Peek's doc comment).
func (c *Context) runPass() error {
	for {
		t, err := c.Peek()
		if err != nil {
			return err
		}
		if t.Kind == token.EOF {
			return nil
		}
		if err := c.Statement(); err != nil {
			return smerr.At(t.Pos, err)
		}
	}
}
