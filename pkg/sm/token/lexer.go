package token

import (
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// eofRune is the sentinel the internal rune reader returns once src is
// exhausted; it can never collide with a decoded Unicode scalar value.
const eofRune = rune(-1)

// Lexer turns one file's bytes into a Tok stream. It keeps exactly one
// token of lookahead, the same Peek/Eat shape as the original C token
// stream's file variant, so a caller can look at the next token more than
// once before consuming it.
type Lexer struct {
	file view.View
	pool *view.Pool
	src  []byte
	off  int

	line, col uint32

	haveRune bool
	rn       rune
	rnSize   int

	stashed bool
	stash   Tok
	err     error

	scratch []byte
}

// NewLexer creates a Lexer over src, reporting name as every token's
// Pos.File. pool interns ID/STR token text so repeated spellings share
// storage with the rest of the assembler.
func NewLexer(name view.View, src []byte, pool *view.Pool) *Lexer {
	return &Lexer{file: name, pool: pool, src: src, line: 1, col: 1}
}

// Peek returns the next token without consuming it. Calling Peek again
// before Eat returns the identical Tok.
func (l *Lexer) Peek() (Tok, error) {
	if l.stashed {
		return l.stash, l.err
	}
	l.stash, l.err = l.lex()
	l.stashed = true
	return l.stash, l.err
}

// Eat discards the stashed token so the next Peek lexes a fresh one.
func (l *Lexer) Eat() {
	l.stashed = false
	l.scratch = l.scratch[:0]
}

// Rewind resets the lexer to the start of its source, as @INCLUDE-cycle
// detection and two-pass assembly both require re-reading a file.
func (l *Lexer) Rewind() {
	l.Eat()
	l.off = 0
	l.line, l.col = 1, 1
	l.haveRune = false
}

func (l *Lexer) pos() Pos { return Pos{File: l.file, Line: l.line, Col: l.col} }

func (l *Lexer) peekRune() rune {
	if l.haveRune {
		return l.rn
	}
	if l.off >= len(l.src) {
		l.rn, l.rnSize, l.haveRune = eofRune, 0, true
		return l.rn
	}
	var buf [4]byte
	copy(buf[:], l.src[l.off:])
	r, size := DecodeUTF8(buf)
	if size == 0 {
		size = 1 // invalid lead byte: recover by stepping one byte, per smUtf8Decode's *len=0 contract.
	}
	l.rn, l.rnSize, l.haveRune = r, size, true
	return l.rn
}

func (l *Lexer) eatRune() {
	r := l.peekRune()
	if r == eofRune {
		return
	}
	l.off += l.rnSize
	l.haveRune = false
	l.col++
	if r == '\n' {
		l.line++
		l.col = 1
	}
}

func (l *Lexer) push(r rune) {
	var buf [4]byte
	n := EncodeUTF8(r, &buf)
	l.scratch = append(l.scratch, buf[:n]...)
}

func (l *Lexer) intern() view.View { return l.pool.Intern(l.scratch) }

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\v' || r == '\f'
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isAlnum(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentChar(r rune) bool { return isAlnum(r) || r == '_' || r == '.' }

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

const hexDigits = "0123456789ABCDEF"

func (l *Lexer) parseRadix(radix int32) (int32, error) {
	if len(l.scratch) == 0 {
		return 0, smerr.Wrap(smerr.ErrLex, "empty number at %s", l.pos())
	}
	var value int32
	for _, b := range l.scratch {
		idx := -1
		for j := 0; j < len(hexDigits); j++ {
			if hexDigits[j] == byte(toUpper(rune(b))) {
				idx = j
				break
			}
		}
		if idx < 0 || int32(idx) >= radix {
			return 0, smerr.Wrap(smerr.ErrLex, "invalid number %q at %s", string(l.scratch), l.pos())
		}
		value = value*radix + int32(idx)
	}
	return value, nil
}

// registerSingles lists the one-letter identifiers that classify as
// registers/conditions instead of plain IDs.
const registerSingles = "ABCDEHLZ"

// lex implements the original lexer's peekFile in full: skip
// whitespace/comments, then dispatch on the first significant rune.
func (l *Lexer) lex() (Tok, error) {
	for {
		c := l.peekRune()
		if c == eofRune || !isSpace(c) {
			break
		}
		l.eatRune()
	}
	if l.peekRune() == ';' {
		for {
			c := l.peekRune()
			if c == eofRune || c == '\n' {
				break
			}
			l.eatRune()
		}
		return l.lex()
	}

	pos := l.pos()

	switch c := l.peekRune(); {
	case c == eofRune:
		l.eatRune()
		return Tok{Kind: EOF, Pos: pos}, nil

	case c == '\\':
		l.eatRune()
		if l.peekRune() == '\n' {
			l.eatRune()
			return l.lex()
		}
		return Tok{Kind: Kind('\\'), Pos: pos}, nil

	case c == '@':
		return l.lexAt(pos)

	case c == '"':
		return l.lexString(pos)

	case c == '\'':
		return l.lexChar(pos)

	case isDigit(c) || c == '%' || c == '$':
		return l.lexNumberOrPercent(pos)

	default:
		return l.lexIdentOrPunct(pos)
	}
}

func (l *Lexer) lexAt(pos Pos) (Tok, error) {
	l.eatRune() // '@'
	if isDigit(l.peekRune()) {
		for isDigit(l.peekRune()) {
			l.push(toUpper(l.peekRune()))
			l.eatRune()
		}
		n, err := l.parseRadix(10)
		if err != nil {
			return Tok{}, err
		}
		return Tok{Kind: NUM, Pos: pos, Num: n, AtNum: true}, nil
	}
	for isAlnum(l.peekRune()) {
		l.push(toUpper(l.peekRune()))
		l.eatRune()
	}
	name := string(l.scratch)
	if kind, ok := directives[name]; ok {
		return Tok{Kind: kind, Pos: pos, Text: l.intern()}, nil
	}
	return Tok{}, smerr.Wrap(smerr.ErrLex, "unrecognized directive @%s at %s", name, pos)
}

func (l *Lexer) lexString(pos Pos) (Tok, error) {
	l.eatRune() // opening quote
	for {
		c := l.peekRune()
		switch c {
		case eofRune:
			return Tok{}, smerr.Wrap(smerr.ErrLex, "unexpected end of file in string at %s", pos)
		case '"':
			l.eatRune()
			return Tok{Kind: STR, Pos: pos, Text: l.intern()}, nil
		case '\\':
			l.eatRune()
			esc, err := l.escapeByte(pos)
			if err != nil {
				return Tok{}, err
			}
			l.push(esc)
			l.eatRune()
		default:
			l.push(c)
			l.eatRune()
		}
	}
}

func (l *Lexer) lexChar(pos Pos) (Tok, error) {
	l.eatRune() // opening quote
	var n int32
	switch c := l.peekRune(); c {
	case eofRune:
		return Tok{}, smerr.Wrap(smerr.ErrLex, "unexpected end of file in character literal at %s", pos)
	case '\\':
		l.eatRune()
		esc, err := l.escapeByte(pos)
		if err != nil {
			return Tok{}, err
		}
		n = int32(esc)
	default:
		n = int32(c)
	}
	l.eatRune()
	if l.peekRune() != '\'' {
		return Tok{}, smerr.Wrap(smerr.ErrLex, "expected closing single quote at %s", pos)
	}
	l.eatRune()
	return Tok{Kind: NUM, Pos: pos, Num: n}, nil
}

func (l *Lexer) escapeByte(pos Pos) (rune, error) {
	switch l.peekRune() {
	case 'n':
		return '\n', nil
	case 'r':
		return '\r', nil
	case 't':
		return '\t', nil
	case '\\':
		return '\\', nil
	case '"':
		return '"', nil
	case '\'':
		return '\'', nil
	case '0':
		return 0, nil
	default:
		return 0, smerr.Wrap(smerr.ErrLex, "unrecognized character escape at %s", pos)
	}
}

func (l *Lexer) lexNumberOrPercent(pos Pos) (Tok, error) {
	c := l.peekRune()
	radix := int32(10)
	switch c {
	case '%':
		l.eatRune()
		c = l.peekRune()
		if c != '0' && c != '1' {
			// not a binary literal after all: a bare '%' is modulus.
			return Tok{Kind: Kind('%'), Pos: pos}, nil
		}
		radix = 2
	case '$':
		l.eatRune()
		c = l.peekRune()
		radix = 16
	}
	for {
		if c == '_' {
			l.eatRune()
			c = l.peekRune()
			continue
		}
		if !isAlnum(c) {
			break
		}
		l.push(c)
		l.eatRune()
		c = l.peekRune()
	}
	n, err := l.parseRadix(radix)
	if err != nil {
		return Tok{}, err
	}
	return Tok{Kind: NUM, Pos: pos, Num: n}, nil
}

func (l *Lexer) lexIdentOrPunct(pos Pos) (Tok, error) {
	c := l.peekRune()
	for {
		if c == eofRune {
			break
		}
		if c < 0x80 && !isIdentChar(c) {
			break
		}
		l.push(c)
		l.eatRune()
		c = l.peekRune()
	}

	switch len(l.scratch) {
	case 0:
		// Doesn't start an identifier: either a digraph or single punctuation.
		first := c
		l.eatRune()
		second := l.peekRune()
		if kind, ok := digraphs[string([]rune{first, second})]; ok {
			l.eatRune()
			return Tok{Kind: kind, Pos: pos}, nil
		}
		return Tok{Kind: Kind(toUpper(first)), Pos: pos}, nil

	case 1:
		upper := toUpper(rune(l.scratch[0]))
		for i := 0; i < len(registerSingles); i++ {
			if byte(upper) == registerSingles[i] {
				return Tok{Kind: registers[string(upper)], Pos: pos, Text: l.intern()}, nil
			}
		}
		return Tok{Kind: ID, Pos: pos, Text: l.intern()}, nil

	case 2:
		name := upperASCII(string(l.scratch))
		if kind, ok := registers[name]; ok {
			return Tok{Kind: kind, Pos: pos, Text: l.intern()}, nil
		}
		return Tok{Kind: ID, Pos: pos, Text: l.intern()}, nil

	default:
		return Tok{Kind: ID, Pos: pos, Text: l.intern()}, nil
	}
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}
