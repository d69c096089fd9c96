package stream

import "github.com/smtk-dev/smtk/pkg/sm/token"

// IfElseFrame replays whichever @IF/@ELSE branch the dispatcher chose,
// captured verbatim with no substitution. Grounded on
// original_source/src/smasm/if.c's ifInvoke, which captures the taken
// branch's tokens into an SmPosTokBuf and pushes an IFELSE stream frame.
type IfElseFrame struct {
	name string
	pos  Pos
	body []token.Tok
	idx  int
}

func NewIfElseFrame(name string, pos Pos, body []token.Tok) *IfElseFrame {
	return &IfElseFrame{name: name, pos: pos, body: body}
}

func (f *IfElseFrame) Name() string { return f.name }

func (f *IfElseFrame) Peek() (token.Tok, error) {
	if f.idx >= len(f.body) {
		return token.Tok{Kind: token.EOF, Pos: f.pos}, nil
	}
	return f.body[f.idx], nil
}

func (f *IfElseFrame) Eat() {
	if f.idx < len(f.body) {
		f.idx++
	}
}
