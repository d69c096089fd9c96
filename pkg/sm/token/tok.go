package token

import "github.com/smtk-dev/smtk/pkg/sm/view"

// Tok is one lexical unit. Only the fields relevant to Kind are meaningful:
// Text for ID/STR (and directive/register spellings, useful for
// diagnostics), Num for NUM.
type Tok struct {
	Kind Kind
	Pos  Pos
	Text view.View
	Num  int32

	// AtNum marks a NUM token spelled "@<digits>" rather than a bare
	// decimal/hex/binary literal. Both spellings produce the same Kind
	// and Num, but only the "@" spelling is a macro-argument selector
	// inside a captured macro body - the dispatcher checks this flag to
	// tell "@1" (substitute argument 1) from "1" (the number one).
	AtNum bool
}
