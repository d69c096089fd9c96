// Package smerr holds the sentinel errors shared by every assembler and
// linker layer, plus the Diagnostic type the CLI uses to report them
// against a source position. The wrapping helper follows the teacher's
// pkg/hw/cpu error convention (fmt.Errorf("%w: "+detail, ...)) fixed to
// spread its variadic args, the way the teacher's own cpu package already
// does it.
package smerr

import (
	"errors"
	"fmt"
)

var (
	// ErrLex covers malformed source bytes: bad UTF-8, unterminated
	// strings/chars, unrecognized directives or escapes.
	ErrLex = errors.New("lex error")
	// ErrParse covers token-stream shape errors: unbalanced parens,
	// malformed expressions, directives given the wrong argument shape.
	ErrParse = errors.New("parse error")
	// ErrSemantic covers meaning errors once shape is fine: unresolved
	// symbols, duplicate definitions, out-of-range values.
	ErrSemantic = errors.New("semantic error")
	// ErrMacro covers macro/repeat/format expansion failures.
	ErrMacro = errors.New("macro error")
	// ErrConfig covers linker memory-layout configuration errors.
	ErrConfig = errors.New("config error")
	// ErrIO covers filesystem and object-file codec failures.
	ErrIO = errors.New("io error")
	// ErrInternal covers invariant violations that indicate a bug in the
	// toolchain itself rather than bad input.
	ErrInternal = errors.New("internal error")
)

// Wrap builds an error that wraps sentinel, formatting detail with args the
// way fmt.Errorf would on its own.
func Wrap(sentinel error, detail string, args ...any) error {
	return fmt.Errorf("%w: "+detail, append([]any{sentinel}, args...)...)
}

// Positioner is satisfied by any source position (token.Pos, an object
// file's recorded position, ...). Diagnostic only needs String() from it,
// which keeps this package independent from pkg/sm/token.
type Positioner interface {
	String() string
}

// Diagnostic pairs an error with the source position it was raised at, the
// shape every CLI command formats on the way to stderr.
type Diagnostic struct {
	Pos Positioner
	Err error
}

func (d Diagnostic) Error() string {
	if d.Pos == nil {
		return d.Err.Error()
	}
	return fmt.Sprintf("%s: %s", d.Pos.String(), d.Err.Error())
}

func (d Diagnostic) Unwrap() error { return d.Err }

func At(pos Positioner, err error) Diagnostic {
	return Diagnostic{Pos: pos, Err: err}
}
