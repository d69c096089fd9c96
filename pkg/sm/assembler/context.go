// Package assembler implements the statement-level driver: the component
// that reads one logical line at a time, dispatches labels/directives/
// mnemonics, and drives the two-pass assembly spec.md §4.4 describes. It
// is the synthesis layer tying every lower package together - pkg/sm/view,
// token, stream, symtab, expr, section, format, mnemonic - since no
// surviving file in original_source implements it directly (src/smasm/
// main.c's own pass() is an empty stub; the real dispatcher lived in a
// source file this retrieval pack doesn't carry). Grounded instead on
// spec.md §4.4 directly, using the primitives the other packages already
// replicate faithfully from what source does survive.
package assembler

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/section"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/smopt"
	"github.com/smtk-dev/smtk/pkg/sm/stream"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// Well-known interned names, mirroring original_source/src/smasm/main.c's
// DEFINES_SECTION/CODE_SECTION/STATIC_UNIT/EXPORT_UNIT globals.
const (
	DefinesSectionName = "@DEFINES"
	CodeSectionName    = "CODE"
	StaticUnitName     = "@STATIC"
	ExportUnitName     = "@EXPORT"
)

// FileSystem abstracts source/include/incbin file access so Context
// doesn't depend on package os directly, the same seam the teacher's own
// loaders (pkg/hw/cpu/loader, since deleted) used an interface for.
type FileSystem interface {
	ReadFile(path string) ([]byte, error)
}

// MacroDef is a registered @MACRO body.
//
// Grounded on original_source/src/smasm/macro.h's Macro.
type MacroDef struct {
	Name view.View
	Pos  token.Pos
	Body []stream.MacroTok
}

// StructDef is a registered @STRUCT/@UNION field layout.
//
// Grounded on original_source/src/smasm/struct.h's Struct; width/offset
// bookkeeping is this package's own addition (see DESIGN.md - @CREATE's
// exact semantics don't survive in original_source either).
type StructDef struct {
	Name   view.View
	Pos    token.Pos
	Union  bool
	Fields []StructField
	Width  int32
}

// StructField is one named field: a single byte at Offset. struct.h's
// Struct stores fields as a bare SmViewBuf of names with no per-field width
// - the data shape itself is the grounding for treating every field as
// uniformly one byte wide (see DESIGN.md).
type StructField struct {
	Name   view.View
	Offset int32
}

// Context is the assembler's single mutable state: every global the
// original kept as file-scope statics (state.c's STRS/SYMS/EXPRS/SECTS/
// ts/scope/nonce/emit) gathered into one value, per spec.md §4's redesign
// note ("gather them into an explicit assembler context").
type Context struct {
	FS           FileSystem
	IncludePaths []string
	Out          io.Writer // @PRINT's destination; defaults to os.Stderr

	Pool  *view.Pool
	Syms  *symtab.SymTab[expr.View]
	Sects *section.Table
	Stack *stream.Stack

	Logger *slog.Logger

	Macros  map[string]*MacroDef
	Structs map[string]*StructDef

	Scope     view.View
	Nonce     int32
	Emit      bool
	StreamDef bool // suppresses macro/fmt meta-expansion while capturing a body

	CurSection *section.Section
	CurUnit    view.View

	DefinesSection view.View
	CodeSection    view.View
	StaticUnit     view.View
	ExportUnit     view.View

	exprParser *expr.Parser
	evaluator  *expr.Evaluator

	IncludedFiles []string // for -MD dependency output
}

// NewContext wires up an empty Context. Callers push the entry file with
// PushEntryFile before calling RunPasses. opts accepts smopt.WithLogger to override the
// default slog.Default() logger; library code never builds its own
// multi-handler, which stays a cmd-layer concern.
func NewContext(fs FileSystem, includePaths []string, opts ...smopt.Option) *Context {
	settings := smopt.Resolve(opts...)
	c := &Context{
		FS:           fs,
		IncludePaths: includePaths,
		Out:          os.Stderr,
		Pool:         view.NewPool(),
		Syms:         symtab.NewSymTab[expr.View](),
		Sects:        section.NewTable(),
		Macros:       make(map[string]*MacroDef),
		Structs:      make(map[string]*StructDef),
		Logger:       settings.Logger,
	}
	c.DefinesSection = c.Pool.InternString(DefinesSectionName)
	c.CodeSection = c.Pool.InternString(CodeSectionName)
	c.StaticUnit = c.Pool.InternString(StaticUnitName)
	c.ExportUnit = c.Pool.InternString(ExportUnitName)
	c.CurUnit = c.StaticUnit
	c.CurSection = c.Sects.Get(c.CodeSection)
	c.evaluator = &expr.Evaluator{Syms: c}
	c.exprParser = expr.NewParser(c, c, c.Defined)
	return c
}

// Define pre-registers a global EQU constant, the -D command-line flag's
// effect (original_source/src/smasm/main.c's -D handling).
func (c *Context) Define(name string, num int32) {
	lbl := symtab.Global(c.Pool.InternString(name))
	c.Syms.Add(symtab.Sym[expr.View]{
		Lbl:     lbl,
		Value:   expr.View{{Kind: expr.Const, Num: num}},
		Unit:    c.StaticUnit,
		Section: c.DefinesSection,
		Flags:   symtab.FlagEqu,
	})
}

// --- expr.TokenSource ---

func (c *Context) Peek() (token.Tok, error) { return c.peekExpand() }
func (c *Context) Eat()                     { c.Stack.Eat() }

// peekExpand is state.c's peek(): transparently invoke a macro or run the
// format engine when the next identifier names one, unless we're
// currently capturing a body verbatim (StreamDef).
func (c *Context) peekExpand() (token.Tok, error) {
	tok, err := c.Stack.Peek()
	if err != nil {
		return token.Tok{}, err
	}
	if c.StreamDef {
		return tok, nil
	}
	switch tok.Kind {
	case token.ID:
		if m, ok := c.Macros[tok.Text.String()]; ok {
			if err := c.invokeMacro(m); err != nil {
				return token.Tok{}, err
			}
			return c.peekExpand()
		}
		return tok, nil
	case token.KwSTRFMT:
		if err := c.invokeFmt(token.STR); err != nil {
			return token.Tok{}, err
		}
		return c.peekExpand()
	case token.KwIDFMT:
		if err := c.invokeFmt(token.ID); err != nil {
			return token.Tok{}, err
		}
		return c.peekExpand()
	default:
		return tok, nil
	}
}

// Expect peeks and verifies kind, without consuming.
func (c *Context) Expect(k token.Kind) (token.Tok, error) {
	tok, err := c.Peek()
	if err != nil {
		return token.Tok{}, err
	}
	if tok.Kind != k {
		return token.Tok{}, smerr.Wrap(smerr.ErrParse, "expected %s, got %s", k, tok.Kind)
	}
	return tok, nil
}

// --- expr.PCProvider ---

func (c *Context) Section() view.View { return c.CurSection.Name }
func (c *Context) PC() int32          { return int32(c.CurSection.PC) }

// --- expr.SymLookup ---

func (c *Context) LookupExpr(lbl symtab.Lbl) (expr.View, bool) {
	sym, ok := c.resolve(lbl)
	if !ok {
		return nil, false
	}
	return sym.Value, true
}

// Defined implements expr.DefinedFunc (@DEFINED).
func (c *Context) Defined(lbl symtab.Lbl) bool {
	_, ok := c.resolve(lbl)
	return ok
}

// resolve looks a parsed Lbl up against the symbol table. symtab.ParseLabel
// distinguishes a dot-free reference ("foo", Explicit false) from an
// explicitly local one (".foo", Explicit true) - per original_source's
// state.c tokLbl/sym.c smSymTabFind, the two have different lookup rules:
//
//   - A dot-free bare name is tried against the current active scope
//     first, then falls back to a true global, so "foo" inside "main::"
//     finds "main.foo" before a same-named top-level constant. This is the
//     documented auto-promotion Open Question decision (see DESIGN.md).
//   - An explicit ".foo" is scoped to the concrete active scope with a
//     single direct probe and no fallback: it fails outright ("undefined
//     symbol") on a miss rather than silently aliasing to an unrelated
//     same-named global, matching tokLbl's lblLocal capturing the exact
//     active scope at parse time and smSymTabFind's single lookup.
//
// Scoped ("a.b") and already-global (Scope already set from a "::")
// lookups are unaffected either way.
func (c *Context) resolve(lbl symtab.Lbl) (*symtab.Sym[expr.View], bool) {
	if !lbl.Scope.IsNull() {
		return c.Syms.Find(lbl)
	}
	if lbl.Explicit {
		if c.Scope.IsNull() {
			return nil, false
		}
		return c.Syms.Find(symtab.Lbl{Scope: c.Scope, Name: lbl.Name})
	}
	if !c.Scope.IsNull() {
		if sym, ok := c.Syms.Find(symtab.Lbl{Scope: c.Scope, Name: lbl.Name}); ok {
			return sym, true
		}
	}
	return c.Syms.Find(lbl)
}

// ParseExpr consumes one expression from the live stream.
func (c *Context) ParseExpr() (expr.View, error) { return c.exprParser.Parse() }

// SolveExpr evaluates v against the current symbol table and section.
func (c *Context) SolveExpr(v expr.View, relative bool) (int32, bool) {
	return c.evaluator.Solve(v, relative, c.CurSection.Name)
}

// SolveU16 parses and solves one expression, requiring it fit a u16 -
// exprEatSolvedU16's contract, used by format width/precision '*'.
func (c *Context) SolveU16() (uint16, error) {
	v, err := c.ParseExpr()
	if err != nil {
		return 0, err
	}
	num, ok := c.SolveExpr(v, false)
	if !ok {
		return 0, smerr.Wrap(smerr.ErrSemantic, "expression must be constant")
	}
	if !expr.CanReprU16(num) {
		return 0, smerr.Wrap(smerr.ErrSemantic, "expression does not fit in a word: $%08X", num)
	}
	return uint16(num), nil
}

// Printf writes a diagnostic line to Out, the @PRINT directive's sink.
func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}
