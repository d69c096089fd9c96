package expr

import (
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/token"
	"github.com/smtk-dev/smtk/pkg/sm/view"
)

// TokenSource is the one-token-of-lookahead interface the parser consumes.
// *stream.Stack satisfies this structurally; expr never imports stream, to
// keep the dependency one-directional (stream -> token, expr -> token).
type TokenSource interface {
	Peek() (token.Tok, error)
	Eat()
}

// PCProvider answers the "current section / program counter" questions the
// parser needs for the bare '*' and '**' atoms.
type PCProvider interface {
	Section() view.View
	PC() int32
}

// DefinedFunc answers @DEFINED(lbl).
type DefinedFunc func(lbl symtab.Lbl) bool

// Parser turns a token run into a postfix View. One Parser is reused across
// every expression parsed during assembly (its internal stacks are reset by
// Parse), the same shape as the original's file-scope expr_stack/op_stack.
//
// Grounded on original_source/src/smasm/expr.c's exprEat/pushApply*/
// precedence.
type Parser struct {
	src     TokenSource
	pc      PCProvider
	defined DefinedFunc

	exprStack []Atom
	opStack   []opEntry
}

type opEntry struct {
	tok   token.Kind
	unary bool
}

func NewParser(src TokenSource, pc PCProvider, defined DefinedFunc) *Parser {
	return &Parser{src: src, pc: pc, defined: defined}
}

func precedence(op opEntry) int {
	if op.unary {
		return 0
	}
	switch op.tok {
	case token.Kind('/'), token.Kind('%'), token.Kind('*'):
		return 1
	case token.Kind('+'), token.Kind('-'):
		return 2
	case token.Asl, token.Asr, token.Lsr:
		return 3
	case token.Kind('<'), token.Kind('>'), token.Lte, token.Gte:
		return 4
	case token.Deq, token.Neq:
		return 5
	case token.Kind('&'):
		return 6
	case token.Kind('^'):
		return 7
	case token.Kind('|'):
		return 8
	case token.And:
		return 9
	case token.Or:
		return 10
	default:
		return 0
	}
}

func (p *Parser) pushExpr(a Atom) { p.exprStack = append(p.exprStack, a) }

func (p *Parser) pushApply(op opEntry) {
	if op.tok == token.Kind('(') {
		p.opStack = append(p.opStack, op)
		return
	}
	for len(p.opStack) > 0 {
		top := p.opStack[len(p.opStack)-1]
		p.opStack = p.opStack[:len(p.opStack)-1]
		if top.tok == token.Kind('(') || precedence(top) >= precedence(op) {
			p.opStack = append(p.opStack, top)
			break
		}
		p.pushExpr(Atom{Kind: Op, OpTok: top.tok, Unary: top.unary})
	}
	p.opStack = append(p.opStack, op)
}

func (p *Parser) pushApplyBinary(tok token.Kind) { p.pushApply(opEntry{tok: tok}) }
func (p *Parser) pushApplyUnary(tok token.Kind)  { p.pushApply(opEntry{tok: tok, unary: true}) }

func (p *Parser) peek() (token.Tok, error) { return p.src.Peek() }
func (p *Parser) eat()                     { p.src.Eat() }

func errExpected(what string) error {
	return smerr.Wrap(smerr.ErrParse, "expected %s", what)
}

// Parse consumes one expression from src and returns it as a postfix View.
//
// Grounded on original_source/src/smasm/expr.c's exprEat.
func (p *Parser) Parse() (View, error) {
	p.exprStack = p.exprStack[:0]
	p.opStack = p.opStack[:0]
	seenValue := false
	parenDepth := 0

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}
		switch tok.Kind {
		case token.Kind('*'):
			p.eat()
			if !seenValue {
				sect, pc := p.pc.Section(), p.pc.PC()
				p.pushExpr(Atom{Kind: Const, Num: pc})
				_ = sect
				seenValue = true
				continue
			}
			p.pushApplyBinary(token.Kind('*'))
			seenValue = false
			continue

		case token.DStar:
			if seenValue {
				return nil, errExpected("an operator")
			}
			p.eat()
			p.pushExpr(Atom{Kind: Addr, Section: p.pc.Section(), PC: p.pc.PC()})
			seenValue = true
			continue

		case token.Kind('+'), token.Kind('-'), token.Kind('^'), token.Kind('<'), token.Kind('>'):
			if seenValue {
				p.pushApplyBinary(tok.Kind)
			} else {
				p.pushApplyUnary(tok.Kind)
			}
			p.eat()
			seenValue = false
			continue

		case token.Kind('!'), token.Kind('~'):
			p.pushApplyUnary(tok.Kind)
			p.eat()
			seenValue = false
			continue

		case token.Kind('&'), token.And, token.Or, token.Kind('/'), token.Kind('%'),
			token.Kind('|'), token.Asl, token.Asr, token.Lsr,
			token.Lte, token.Gte, token.Deq, token.Neq:
			if !seenValue {
				return nil, errExpected("a value")
			}
			p.pushApplyBinary(tok.Kind)
			p.eat()
			seenValue = false
			continue

		case token.NUM:
			if seenValue {
				return nil, errExpected("an operator")
			}
			p.pushExpr(Atom{Kind: Const, Num: tok.Num})
			p.eat()
			seenValue = true
			continue

		case token.Kind('('):
			if seenValue {
				return nil, errExpected("an operator")
			}
			parenDepth++
			p.opStack = append(p.opStack, opEntry{tok: token.Kind('('), unary: true})
			p.eat()
			seenValue = false
			continue

		case token.Kind(')'):
			if !seenValue {
				return nil, errExpected("a value")
			}
			parenDepth--
			for {
				if len(p.opStack) == 0 {
					return nil, smerr.Wrap(smerr.ErrParse, "unmatched parentheses")
				}
				op := p.opStack[len(p.opStack)-1]
				p.opStack = p.opStack[:len(p.opStack)-1]
				if op.tok == token.Kind('(') {
					break
				}
				p.pushExpr(Atom{Kind: Op, OpTok: op.tok, Unary: op.unary})
			}
			p.eat()
			continue

		case token.ID:
			if seenValue {
				return nil, errExpected("an operator")
			}
			lbl, ok := symtab.ParseLabel(tok.Text)
			if !ok {
				return nil, smerr.Wrap(smerr.ErrParse, "malformed label %q", tok.Text.String())
			}
			p.pushExpr(Atom{Kind: Label, Lbl: lbl})
			p.eat()
			seenValue = true
			continue

		case token.KwDEFINED:
			if seenValue {
				return nil, errExpected("an operator")
			}
			p.eat()
			id, err := p.expect(token.ID)
			if err != nil {
				return nil, err
			}
			lbl, ok := symtab.ParseLabel(id.Text)
			if !ok {
				return nil, smerr.Wrap(smerr.ErrParse, "malformed label %q", id.Text.String())
			}
			defined := int32(0)
			if p.defined(lbl) {
				defined = 1
			}
			p.pushExpr(Atom{Kind: Const, Num: defined})
			p.eat()
			seenValue = true
			continue

		case token.KwSTRLEN:
			if seenValue {
				return nil, errExpected("an operator")
			}
			p.eat()
			str, err := p.expect(token.STR)
			if err != nil {
				return nil, err
			}
			p.pushExpr(Atom{Kind: Const, Num: int32(str.Text.Len())})
			p.eat()
			seenValue = true
			continue

		case token.KwTAG:
			if seenValue {
				return nil, errExpected("an operator")
			}
			p.eat()
			braced := false
			if t, err := p.peek(); err != nil {
				return nil, err
			} else if t.Kind == token.Kind('{') {
				p.eat()
				braced = true
			}
			id, err := p.expect(token.ID)
			if err != nil {
				return nil, err
			}
			lbl, ok := symtab.ParseLabel(id.Text)
			if !ok {
				return nil, smerr.Wrap(smerr.ErrParse, "malformed label %q", id.Text.String())
			}
			p.eat()
			if _, err := p.expect(token.Kind(',')); err != nil {
				return nil, err
			}
			p.eat()
			name, err := p.expect(token.STR)
			if err != nil {
				return nil, err
			}
			p.pushExpr(Atom{Kind: Tag, TagLbl: lbl, TagName: name.Text})
			p.eat()
			if braced {
				if _, err := p.expect(token.Kind('}')); err != nil {
					return nil, err
				}
				p.eat()
			}
			seenValue = true
			continue

		case token.KwREL:
			if seenValue {
				return nil, errExpected("an operator")
			}
			p.eat()
			id, err := p.expect(token.ID)
			if err != nil {
				return nil, err
			}
			lbl, ok := symtab.ParseLabel(id.Text)
			if !ok {
				return nil, smerr.Wrap(smerr.ErrParse, "malformed label %q", id.Text.String())
			}
			p.pushExpr(Atom{Kind: Rel, Lbl: lbl})
			p.eat()
			seenValue = true
			continue

		default:
			if !seenValue {
				return nil, errExpected("a value")
			}
			if parenDepth > 0 {
				return nil, smerr.Wrap(smerr.ErrParse, "unmatched parentheses")
			}
			for len(p.opStack) > 0 {
				op := p.opStack[len(p.opStack)-1]
				p.opStack = p.opStack[:len(p.opStack)-1]
				p.pushExpr(Atom{Kind: Op, OpTok: op.tok, Unary: op.unary})
			}
			out := make(View, len(p.exprStack))
			copy(out, p.exprStack)
			return out, nil
		}
	}
}

// expect peeks and verifies the token's kind without consuming it (callers
// eat() explicitly afterward, matching the original's expect()+eat() pairs).
func (p *Parser) expect(k token.Kind) (token.Tok, error) {
	tok, err := p.peek()
	if err != nil {
		return token.Tok{}, err
	}
	if tok.Kind != k {
		return token.Tok{}, smerr.Wrap(smerr.ErrParse, "expected %s, got %s", k, tok.Kind)
	}
	return tok, nil
}
