package assembler

import (
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/symtab"
	"github.com/smtk-dev/smtk/pkg/sm/token"
)

// defineStruct implements "@STRUCT name field, field, ... @END" and its
// @UNION twin. original_source/src/smasm/struct.c's Struct stores fields as
// a bare SmViewBuf of names - no per-field width or offset survives - so
// every field here is taken to be one byte, laid out sequentially for
// @STRUCT or all at offset 0 for @UNION, per DESIGN.md's Open Decision.
func (c *Context) defineStruct(union bool) error {
	nameTok, err := c.expectRaw(token.ID)
	if err != nil {
		return err
	}
	c.Stack.Eat()

	var fields []StructField
	offset := int32(0)
	for {
		t, err := c.Stack.Peek()
		if err != nil {
			return err
		}
		switch t.Kind {
		case token.EOF:
			return smerr.Wrap(smerr.ErrParse, "unterminated @STRUCT/@UNION")
		case token.KwEND:
			c.Stack.Eat()
			width := offset
			if union && len(fields) > 0 {
				width = 1
			}
			c.Structs[nameTok.Text.String()] = &StructDef{
				Name:   nameTok.Text,
				Pos:    nameTok.Pos,
				Union:  union,
				Fields: fields,
				Width:  width,
			}
			return nil
		case token.ID:
			c.Stack.Eat()
			fields = append(fields, StructField{Name: t.Text, Offset: offset})
			if !union {
				offset++
			}
			if nt, err := c.Stack.Peek(); err != nil {
				return err
			} else if nt.Kind == token.Kind(',') {
				c.Stack.Eat()
			}
		default:
			return smerr.Wrap(smerr.ErrParse, "expected a field name or @END, got %s", t.Kind)
		}
	}
}

// doCreate implements "@CREATE name, StructName": defines name as a label
// at the current PC, defines one local label name.field per struct field
// at PC+field.Offset, and reserves the struct's total width - spec.md lists
// @CREATE's token but not its grammar; this is this package's own
// synthesis (see DESIGN.md), modeled on how a label plus a block of @EQU
// constants would normally describe a record layout by hand.
func (c *Context) doCreate() error {
	nameTok, err := c.expectRaw(token.ID)
	if err != nil {
		return err
	}
	c.Stack.Eat()
	if err := c.expectComma(); err != nil {
		return err
	}
	structTok, err := c.expectRaw(token.ID)
	if err != nil {
		return err
	}
	c.Stack.Eat()

	def, ok := c.Structs[structTok.Text.String()]
	if !ok {
		return smerr.Wrap(smerr.ErrSemantic, "undefined struct %q", structTok.Text.String())
	}

	target, err := c.resolveDefScope(nameTok)
	if err != nil {
		return err
	}
	if err := c.checkDuplicate(target); err != nil {
		return err
	}
	base := int32(c.CurSection.PC)
	c.Syms.Add(symtab.Sym[expr.View]{
		Lbl:     target,
		Value:   expr.View{{Kind: expr.Addr, Section: c.CurSection.Name, PC: base}},
		Unit:    c.CurUnit,
		Section: c.CurSection.Name,
		Pos:     nameTok.Pos,
	})
	for _, f := range def.Fields {
		fieldLbl := symtab.Lbl{Scope: nameTok.Text, Name: f.Name}
		if err := c.checkDuplicate(fieldLbl); err != nil {
			return err
		}
		c.Syms.Add(symtab.Sym[expr.View]{
			Lbl:     fieldLbl,
			Value:   expr.View{{Kind: expr.Addr, Section: c.CurSection.Name, PC: base + f.Offset}},
			Unit:    c.CurUnit,
			Section: c.CurSection.Name,
			Pos:     nameTok.Pos,
		})
	}
	c.CurSection.Fill(uint32(def.Width))
	return nil
}
