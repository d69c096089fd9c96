package stream_test

import (
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/stream"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileFrame(t *testing.T, src string) *stream.FileFrame {
	t.Helper()
	pool := view.NewPool()
	lx := token.NewLexer(view.FromString("test.s"), []byte(src), pool)
	return stream.NewFileFrame("test.s", lx)
}

func TestStackPassesThroughFileTokens(t *testing.T) {
	s := stream.New(newFileFrame(t, "main"))
	tok, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, token.ID, tok.Kind)
	s.Eat()
	tok, err = s.Peek()
	require.NoError(t, err)
	assert.Equal(t, token.EOF, tok.Kind)
}

func TestStackPopsExhaustedMacroFrame(t *testing.T) {
	s := stream.New(newFileFrame(t, "after"))
	body := []stream.MacroTok{
		{Kind: stream.MacroTokLiteral, Tok: token.Tok{Kind: token.ID, Text: view.FromString("inside")}},
	}
	require.NoError(t, s.Push(stream.NewMacroFrame("m", token.Pos{}, body, nil, 1)))

	tok, err := s.Peek()
	require.NoError(t, err)
	assert.Equal(t, "inside", tok.Text.String())
	s.Eat()

	// The macro body is exhausted, so Peek must transparently pop back to
	// the file frame without the caller observing an EOF in between.
	tok, err = s.Peek()
	require.NoError(t, err)
	assert.Equal(t, token.ID, tok.Kind)
	assert.Equal(t, "after", tok.Text.String())
	assert.Equal(t, 1, s.Depth())
}

func TestMacroFrameArgSubstitution(t *testing.T) {
	body := []stream.MacroTok{
		{Kind: stream.MacroTokArg},
		{Kind: stream.MacroTokArg},
	}
	args := [][]token.Tok{
		{{Kind: token.NUM, Num: 1}},
		{{Kind: token.NUM, Num: 2}, {Kind: token.Kind('+'), Num: 0}},
	}
	f := stream.NewMacroFrame("m", token.Pos{}, body, args, 7)

	tok, err := f.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(1), tok.Num)
	f.Eat()

	tok, err = f.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(2), tok.Num)
	f.Eat()
	tok, err = f.Peek()
	require.NoError(t, err)
	assert.Equal(t, token.Kind('+'), tok.Kind)
	f.Eat()

	tok, err = f.Peek()
	require.NoError(t, err)
	assert.Equal(t, token.EOF, tok.Kind)
}

func TestMacroFrameShiftDropsFrontArgument(t *testing.T) {
	body := []stream.MacroTok{
		{Kind: stream.MacroTokShift},
		{Kind: stream.MacroTokArg},
	}
	args := [][]token.Tok{
		{{Kind: token.NUM, Num: 1}},
		{{Kind: token.NUM, Num: 2}},
	}
	f := stream.NewMacroFrame("m", token.Pos{}, body, args, 0)
	tok, err := f.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(2), tok.Num)
}

func TestMacroFrameNArgAndUnique(t *testing.T) {
	body := []stream.MacroTok{{Kind: stream.MacroTokNArg}, {Kind: stream.MacroTokUnique}}
	args := [][]token.Tok{{{Kind: token.NUM, Num: 9}}}
	f := stream.NewMacroFrame("m", token.Pos{}, body, args, 42)
	tok, err := f.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(1), tok.Num)
	f.Eat()
	tok, err = f.Peek()
	require.NoError(t, err)
	assert.Equal(t, int32(42), tok.Num)
}

func TestRepeatFrameIterAndCount(t *testing.T) {
	body := []token.Tok{{Kind: token.RepeatIter}}
	f := stream.NewRepeatFrame("r", token.Pos{}, body, 3)
	var got []int32
	for {
		tok, err := f.Peek()
		require.NoError(t, err)
		if tok.Kind == token.EOF {
			break
		}
		got = append(got, tok.Num)
		f.Eat()
	}
	assert.Equal(t, []int32{0, 1, 2}, got)
}

func TestFmtFrameYieldsOneToken(t *testing.T) {
	f := stream.NewFmtFrame("fmt", token.Tok{Kind: token.STR, Text: view.FromString("hi")})
	tok, err := f.Peek()
	require.NoError(t, err)
	assert.Equal(t, "hi", tok.Text.String())
	f.Eat()
	tok, err = f.Peek()
	require.NoError(t, err)
	assert.Equal(t, token.EOF, tok.Kind)
}

func TestStackPushRespectsMaxDepth(t *testing.T) {
	s := stream.New(newFileFrame(t, ""))
	var err error
	for i := 0; i < stream.MaxDepth-1; i++ {
		err = s.Push(stream.NewFmtFrame("f", token.Tok{Kind: token.EOF}))
		require.NoError(t, err)
	}
	err = s.Push(stream.NewFmtFrame("f", token.Tok{Kind: token.EOF}))
	assert.Error(t, err)
}
