package stream

import "github.com/smtk-dev/smtk/pkg/sm/token"

// FmtFrame yields exactly one synthetic token - the formatted result of
// @STRFMT (a STR) or @IDFMT (an ID) - then reports EOF forever after,
// letting Stack.Peek pop it transparently. Grounded on
// original_source/include/smasm/tok.h's SmTokStream fmt variant, which
// holds nothing but one buffer and one token kind.
type FmtFrame struct {
	name string
	tok  token.Tok
	done bool
}

func NewFmtFrame(name string, tok token.Tok) *FmtFrame {
	return &FmtFrame{name: name, tok: tok}
}

func (f *FmtFrame) Name() string { return f.name }

func (f *FmtFrame) Peek() (token.Tok, error) {
	if f.done {
		return token.Tok{Kind: token.EOF, Pos: f.tok.Pos}, nil
	}
	return f.tok, nil
}

func (f *FmtFrame) Eat() { f.done = true }
