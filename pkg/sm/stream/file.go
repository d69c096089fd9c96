package stream

import "github.com/smtk-dev/smtk/pkg/sm/token"

// FileFrame is the stack's base case: it wraps a *token.Lexer directly, so
// plain file tokens flow through the stack with no translation.
type FileFrame struct {
	name string
	lex  *token.Lexer
}

func NewFileFrame(name string, lex *token.Lexer) *FileFrame {
	return &FileFrame{name: name, lex: lex}
}

func (f *FileFrame) Peek() (token.Tok, error) { return f.lex.Peek() }
func (f *FileFrame) Eat()                     { f.lex.Eat() }
func (f *FileFrame) Name() string             { return f.name }
func (f *FileFrame) Lexer() *token.Lexer      { return f.lex }
