package stream

import "github.com/smtk-dev/smtk/pkg/sm/token"

// RepeatFrame replays a captured body Count times, substituting @ITER with
// the current 0-based iteration index on each pass.
//
// Grounded on original_source/include/smasm/tok.h's SmRepeatTok /
// SM_REPEAT_TOK_ITER variant and spec.md §4.2's REPEAT frame description.
type RepeatFrame struct {
	name  string
	pos   Pos
	body  []token.Tok
	count int32

	idx  int
	iter int32
}

func NewRepeatFrame(name string, pos Pos, body []token.Tok, count int32) *RepeatFrame {
	return &RepeatFrame{name: name, pos: pos, body: body, count: count}
}

func (f *RepeatFrame) Name() string { return f.name }

func (f *RepeatFrame) Peek() (token.Tok, error) {
	if f.iter >= f.count {
		return token.Tok{Kind: token.EOF, Pos: f.pos}, nil
	}
	if f.idx >= len(f.body) {
		f.idx = 0
		f.iter++
		return f.Peek()
	}
	tok := f.body[f.idx]
	if tok.Kind == token.RepeatIter {
		return token.Tok{Kind: token.NUM, Pos: tok.Pos, Num: f.iter}, nil
	}
	return tok, nil
}

func (f *RepeatFrame) Eat() {
	if f.iter >= f.count {
		return
	}
	f.idx++
}
