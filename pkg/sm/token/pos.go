package token

import (
	"fmt"

	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// Pos locates a token within a source file, 1-based on both axes to match
// the assembler's diagnostic output.
type Pos struct {
	File view.View
	Line uint32
	Col  uint32
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Col)
}
