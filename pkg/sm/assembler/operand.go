package assembler

import (
	"github.com/smtk-dev/smtk/pkg/sm/expr"
	"github.com/smtk-dev/smtk/pkg/sm/mnemonic"
	"github.com/smtk-dev/smtk/pkg/sm/section"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/token"
)

// This file turns a recognized mnemonic into opcode bytes: it reads the
// operand tokens following the mnemonic name and dispatches to the right
// pkg/sm/mnemonic encoder. No surviving original_source file implements
// operand parsing (mne.c only resolves a name to a Mne value; encoding the
// operand shapes was never checked in), so the grammar below is grounded
// directly on the public SM83/LR35902 instruction set - the same basis
// pkg/sm/mnemonic/encode.go already documents itself against.

// bracketKind tags what readBracket found inside "[ ... ]".
type bracketKind int

const (
	brBC bracketKind = iota
	brDE
	brC
	brHL
	brHLInc
	brHLDec
	brExpr
)

type bracket struct {
	kind bracketKind
	expr expr.View
}

// readBracket parses one "[ ... ]" operand: a register pair, [HL+]/[HL-],
// [C] (the $FF00+C indirect form), or a bracketed expression (an absolute
// address). The leading '[' has not yet been consumed.
func (c *Context) readBracket() (bracket, error) {
	if _, err := c.expectPunct('['); err != nil {
		return bracket{}, err
	}
	c.Eat()
	t, err := c.Peek()
	if err != nil {
		return bracket{}, err
	}
	var b bracket
	switch t.Kind {
	case token.RegBC:
		c.Eat()
		b = bracket{kind: brBC}
	case token.RegDE:
		c.Eat()
		b = bracket{kind: brDE}
	case token.RegC:
		c.Eat()
		b = bracket{kind: brC}
	case token.RegHL:
		c.Eat()
		nt, err := c.Peek()
		if err != nil {
			return bracket{}, err
		}
		switch nt.Kind {
		case token.Kind('+'):
			c.Eat()
			b = bracket{kind: brHLInc}
		case token.Kind('-'):
			c.Eat()
			b = bracket{kind: brHLDec}
		default:
			b = bracket{kind: brHL}
		}
	default:
		v, err := c.ParseExpr()
		if err != nil {
			return bracket{}, err
		}
		b = bracket{kind: brExpr, expr: v}
	}
	if _, err := c.expectPunct(']'); err != nil {
		return bracket{}, err
	}
	c.Eat()
	return b, nil
}

// expectPunct is Expect for single-character tokens (',', '[', ']', ...).
func (c *Context) expectPunct(ch rune) (token.Tok, error) {
	return c.Expect(token.Kind(ch))
}

func (c *Context) expectComma() error {
	_, err := c.expectPunct(',')
	if err != nil {
		return err
	}
	c.Eat()
	return nil
}

func (c *Context) expectRegA() error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	if t.Kind != token.RegA {
		return smerr.Wrap(smerr.ErrParse, "expected register A")
	}
	c.Eat()
	return nil
}

// readReg8 reads a plain 8-bit register, or - if allowMem - a "[HL]"
// indirect operand as RegIndHL.
func (c *Context) readReg8(allowMem bool) (mnemonic.Reg8, error) {
	t, err := c.Peek()
	if err != nil {
		return 0, err
	}
	switch t.Kind {
	case token.RegA:
		c.Eat()
		return mnemonic.RegA, nil
	case token.RegB:
		c.Eat()
		return mnemonic.RegB, nil
	case token.RegC:
		c.Eat()
		return mnemonic.RegC, nil
	case token.RegD:
		c.Eat()
		return mnemonic.RegD, nil
	case token.RegE:
		c.Eat()
		return mnemonic.RegE, nil
	case token.RegH:
		c.Eat()
		return mnemonic.RegH, nil
	case token.RegL:
		c.Eat()
		return mnemonic.RegL, nil
	case token.Kind('['):
		if !allowMem {
			return 0, smerr.Wrap(smerr.ErrParse, "a memory operand isn't valid here")
		}
		br, err := c.readBracket()
		if err != nil {
			return 0, err
		}
		if br.kind != brHL {
			return 0, smerr.Wrap(smerr.ErrParse, "expected [HL]")
		}
		return mnemonic.RegIndHL, nil
	default:
		return 0, smerr.Wrap(smerr.ErrParse, "expected an 8-bit register operand")
	}
}

func (c *Context) readReg16SP() (mnemonic.Reg16SP, error) {
	t, err := c.Peek()
	if err != nil {
		return 0, err
	}
	switch t.Kind {
	case token.RegBC:
		c.Eat()
		return mnemonic.RP_BC, nil
	case token.RegDE:
		c.Eat()
		return mnemonic.RP_DE, nil
	case token.RegHL:
		c.Eat()
		return mnemonic.RP_HL, nil
	case token.RegSP:
		c.Eat()
		return mnemonic.RP_SP, nil
	default:
		return 0, smerr.Wrap(smerr.ErrParse, "expected a 16-bit register pair")
	}
}

func (c *Context) readReg16AF() (mnemonic.Reg16AF, error) {
	t, err := c.Peek()
	if err != nil {
		return 0, err
	}
	switch t.Kind {
	case token.RegBC:
		c.Eat()
		return mnemonic.RP2_BC, nil
	case token.RegDE:
		c.Eat()
		return mnemonic.RP2_DE, nil
	case token.RegHL:
		c.Eat()
		return mnemonic.RP2_HL, nil
	case token.RegAF:
		c.Eat()
		return mnemonic.RP2_AF, nil
	default:
		return 0, smerr.Wrap(smerr.ErrParse, "expected a 16-bit register pair")
	}
}

// tryReadCond reads a branch condition (NZ/Z/NC/C) if present, without
// erroring or consuming when it isn't - JP/JR/CALL/RET all have both a
// conditional and unconditional form and must fall through to the other
// parse on a non-match.
func (c *Context) tryReadCond() (mnemonic.Cond, bool, error) {
	t, err := c.Peek()
	if err != nil {
		return 0, false, err
	}
	switch t.Kind {
	case token.RegNZ:
		c.Eat()
		return mnemonic.CondNZ, true, nil
	case token.RegZ:
		c.Eat()
		return mnemonic.CondZ, true, nil
	case token.RegNC:
		c.Eat()
		return mnemonic.CondNC, true, nil
	case token.RegC:
		c.Eat()
		return mnemonic.CondC, true, nil
	default:
		return 0, false, nil
	}
}

// emitOp1 / emitOp2 write one or two fixed opcode bytes, or in pass 1 just
// advance PC by the same count.
func (c *Context) emitOp1(op byte) error {
	if c.Emit {
		c.CurSection.EmitByte(op)
	} else {
		c.CurSection.PC++
	}
	return nil
}

func (c *Context) emitOp2(a, b byte) error {
	if c.Emit {
		c.CurSection.EmitByte(a)
		c.CurSection.EmitByte(b)
	} else {
		c.CurSection.PC += 2
	}
	return nil
}

// assembleMnemonic dispatches an already-identified mnemonic to its operand
// grammar and emits the resulting bytes (or, in pass 1, just advances PC).
func (c *Context) assembleMnemonic(m mnemonic.Mne, pos token.Pos) error {
	switch m {
	case mnemonic.NOP, mnemonic.RLCA, mnemonic.RRCA, mnemonic.RLA, mnemonic.RRA,
		mnemonic.DAA, mnemonic.CPL, mnemonic.SCF, mnemonic.CCF, mnemonic.HALT,
		mnemonic.RETI, mnemonic.DI, mnemonic.EI:
		op, _ := mnemonic.Implied(m)
		return c.emitOp1(op)
	case mnemonic.STOP:
		return c.emitOp2(mnemonic.StopOpcode[0], mnemonic.StopOpcode[1])
	case mnemonic.RET:
		return c.assembleRet()
	case mnemonic.JR:
		return c.assembleJr(pos)
	case mnemonic.JP:
		return c.assembleJp(pos)
	case mnemonic.CALL:
		return c.assembleCall(pos)
	case mnemonic.RST:
		return c.assembleRst(pos)
	case mnemonic.PUSH:
		rp, err := c.readReg16AF()
		if err != nil {
			return err
		}
		return c.emitOp1(mnemonic.Push(rp))
	case mnemonic.POP:
		rp, err := c.readReg16AF()
		if err != nil {
			return err
		}
		return c.emitOp1(mnemonic.Pop(rp))
	case mnemonic.INC:
		return c.assembleIncDec(mnemonic.IncR8, mnemonic.IncR16)
	case mnemonic.DEC:
		return c.assembleIncDec(mnemonic.DecR8, mnemonic.DecR16)
	case mnemonic.ADD:
		return c.assembleAdd(pos)
	case mnemonic.ADC:
		return c.assembleAluExplicitA(mnemonic.AluADC, pos)
	case mnemonic.SBC:
		return c.assembleAluExplicitA(mnemonic.AluSBC, pos)
	case mnemonic.SUB:
		return c.assembleAluOperand(mnemonic.AluSUB, pos)
	case mnemonic.AND:
		return c.assembleAluOperand(mnemonic.AluAND, pos)
	case mnemonic.XOR:
		return c.assembleAluOperand(mnemonic.AluXOR, pos)
	case mnemonic.OR:
		return c.assembleAluOperand(mnemonic.AluOR, pos)
	case mnemonic.CP:
		return c.assembleAluOperand(mnemonic.AluCP, pos)
	case mnemonic.BIT:
		return c.assembleBitOp(mnemonic.Bit)
	case mnemonic.RES:
		return c.assembleBitOp(mnemonic.Res)
	case mnemonic.SET:
		return c.assembleBitOp(mnemonic.Set)
	case mnemonic.RLC:
		return c.assembleRot(mnemonic.RotRLC)
	case mnemonic.RRC:
		return c.assembleRot(mnemonic.RotRRC)
	case mnemonic.RL:
		return c.assembleRot(mnemonic.RotRL)
	case mnemonic.RR:
		return c.assembleRot(mnemonic.RotRR)
	case mnemonic.SLA:
		return c.assembleRot(mnemonic.RotSLA)
	case mnemonic.SRA:
		return c.assembleRot(mnemonic.RotSRA)
	case mnemonic.SWAP:
		return c.assembleRot(mnemonic.RotSWAP)
	case mnemonic.SRL:
		return c.assembleRot(mnemonic.RotSRL)
	case mnemonic.LD:
		return c.assembleLd(pos)
	case mnemonic.LDH:
		return c.assembleLdh(pos)
	case mnemonic.LDI:
		return c.assembleLdiLdd(mnemonic.LdA_IndHLI, mnemonic.LdIndHLI_A)
	case mnemonic.LDD:
		return c.assembleLdiLdd(mnemonic.LdA_IndHLD, mnemonic.LdIndHLD_A)
	default:
		return smerr.Wrap(smerr.ErrInternal, "unhandled mnemonic %s", m)
	}
}

func (c *Context) assembleRet() error {
	cond, hasCond, err := c.tryReadCond()
	if err != nil {
		return err
	}
	if hasCond {
		return c.emitOp1(mnemonic.RetCond(cond))
	}
	op, _ := mnemonic.Implied(mnemonic.RET)
	return c.emitOp1(op)
}

// assembleJr implements "JR [cond,] e8": a signed displacement relative to
// the byte following the instruction. Pass 2 runs after every label in the
// unit has already been registered by pass 1, so a same-section target
// always solves here; a cross-section target defers to a link-time Reloc
// flagged FlagJP (checked against reloc.Offset+1, per section.RelocFlags).
func (c *Context) assembleJr(pos token.Pos) error {
	cond, hasCond, err := c.tryReadCond()
	if err != nil {
		return err
	}
	if hasCond {
		if err := c.expectComma(); err != nil {
			return err
		}
	}
	v, err := c.ParseExpr()
	if err != nil {
		return err
	}
	if !c.Emit {
		c.CurSection.PC += 2
		return nil
	}
	if hasCond {
		c.CurSection.EmitByte(mnemonic.JrCond(cond))
	} else {
		c.CurSection.EmitByte(mnemonic.JrUnconditional)
	}
	dispOffset := c.CurSection.PC
	num, ok := c.SolveExpr(v, true)
	if ok {
		disp := num - int32(dispOffset+1)
		if !expr.CanReprI8(disp) {
			return smerr.Wrap(smerr.ErrSemantic, "relative jump target out of range: %d", disp)
		}
		c.CurSection.EmitByte(byte(int8(disp)))
		return nil
	}
	c.CurSection.AddReloc(1, v, c.CurUnit, pos, section.FlagJP)
	return nil
}

func (c *Context) assembleJp(pos token.Pos) error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	if t.Kind == token.RegHL {
		c.Eat()
		return c.emitOp1(mnemonic.JpHL)
	}
	cond, hasCond, err := c.tryReadCond()
	if err != nil {
		return err
	}
	if hasCond {
		if err := c.expectComma(); err != nil {
			return err
		}
	}
	op := byte(mnemonic.JpUnconditional)
	if hasCond {
		op = mnemonic.JpCond(cond)
	}
	if err := c.emitOp1(op); err != nil {
		return err
	}
	return c.emitExprWidth(2, pos)
}

func (c *Context) assembleCall(pos token.Pos) error {
	cond, hasCond, err := c.tryReadCond()
	if err != nil {
		return err
	}
	if hasCond {
		if err := c.expectComma(); err != nil {
			return err
		}
	}
	op := byte(mnemonic.CallUnconditional)
	if hasCond {
		op = mnemonic.CallCond(cond)
	}
	if err := c.emitOp1(op); err != nil {
		return err
	}
	return c.emitExprWidth(2, pos)
}

// assembleRst requires a constant vector (one of $00,$08,...,$38); a vector
// that can't yet be solved still gets a FlagRST reloc so an @IF-gated or
// forward-defined EQU can feed it.
func (c *Context) assembleRst(pos token.Pos) error {
	v, err := c.ParseExpr()
	if err != nil {
		return err
	}
	if !c.Emit {
		c.CurSection.PC++
		return nil
	}
	num, ok := c.SolveExpr(v, false)
	if !ok {
		c.CurSection.AddReloc(1, v, c.CurUnit, pos, section.FlagRST)
		return nil
	}
	if num < 0 || num > 0xFF {
		return smerr.Wrap(smerr.ErrSemantic, "RST vector out of range: $%X", num)
	}
	op, ok := mnemonic.Rst(uint8(num))
	if !ok {
		return smerr.Wrap(smerr.ErrSemantic, "invalid RST vector $%02X", num)
	}
	return c.emitOp1(op)
}

func (c *Context) assembleIncDec(r8fn func(mnemonic.Reg8) byte, r16fn func(mnemonic.Reg16SP) byte) error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.RegA, token.RegB, token.RegC, token.RegD, token.RegE, token.RegH, token.RegL, token.Kind('['):
		reg, err := c.readReg8(true)
		if err != nil {
			return err
		}
		return c.emitOp1(r8fn(reg))
	case token.RegBC, token.RegDE, token.RegHL, token.RegSP:
		rp, err := c.readReg16SP()
		if err != nil {
			return err
		}
		return c.emitOp1(r16fn(rp))
	default:
		return smerr.Wrap(smerr.ErrParse, "expected a register operand")
	}
}

func (c *Context) assembleAdd(pos token.Pos) error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.RegA:
		return c.assembleAluExplicitA(mnemonic.AluADD, pos)
	case token.RegHL:
		c.Eat()
		if err := c.expectComma(); err != nil {
			return err
		}
		rp, err := c.readReg16SP()
		if err != nil {
			return err
		}
		return c.emitOp1(mnemonic.AddHLR16(rp))
	case token.RegSP:
		c.Eat()
		if err := c.expectComma(); err != nil {
			return err
		}
		if err := c.emitOp1(mnemonic.AddSPImm8); err != nil {
			return err
		}
		return c.emitExprWidth(1, pos)
	default:
		return smerr.Wrap(smerr.ErrParse, "ADD expects A, HL, or SP as its first operand")
	}
}

// assembleAluExplicitA implements "<op> A, r8/[HL]/n8" for ADC/SBC, whose
// mnemonic form always names the accumulator explicitly.
func (c *Context) assembleAluExplicitA(op mnemonic.AluOp, pos token.Pos) error {
	if err := c.expectRegA(); err != nil {
		return err
	}
	if err := c.expectComma(); err != nil {
		return err
	}
	return c.assembleAluOperand(op, pos)
}

// assembleAluOperand implements "<op> r8/[HL]/n8" for SUB/AND/XOR/OR/CP
// (implicit accumulator) and for ADD/ADC/SBC's second operand.
func (c *Context) assembleAluOperand(op mnemonic.AluOp, pos token.Pos) error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.RegA, token.RegB, token.RegC, token.RegD, token.RegE, token.RegH, token.RegL:
		reg, err := c.readReg8(false)
		if err != nil {
			return err
		}
		return c.emitOp1(mnemonic.AluR8(op, reg))
	case token.Kind('['):
		br, err := c.readBracket()
		if err != nil {
			return err
		}
		if br.kind != brHL {
			return smerr.Wrap(smerr.ErrParse, "expected [HL]")
		}
		return c.emitOp1(mnemonic.AluR8(op, mnemonic.RegIndHL))
	default:
		if err := c.emitOp1(mnemonic.AluImm8(op)); err != nil {
			return err
		}
		return c.emitExprWidth(1, pos)
	}
}

// assembleBitOp implements "BIT/RES/SET b, r8/[HL]"; b must be a constant
// in [0,7].
func (c *Context) assembleBitOp(fn func(uint8, mnemonic.Reg8) byte) error {
	v, err := c.ParseExpr()
	if err != nil {
		return err
	}
	if err := c.expectComma(); err != nil {
		return err
	}
	reg, err := c.readReg8(true)
	if err != nil {
		return err
	}
	if !c.Emit {
		c.CurSection.PC += 2
		return nil
	}
	num, ok := c.SolveExpr(v, false)
	if !ok || num < 0 || num > 7 {
		return smerr.Wrap(smerr.ErrSemantic, "bit index must be a constant in 0..7")
	}
	c.CurSection.EmitByte(mnemonic.Prefix_CB)
	c.CurSection.EmitByte(fn(uint8(num), reg))
	return nil
}

func (c *Context) assembleRot(op mnemonic.RotOp) error {
	reg, err := c.readReg8(true)
	if err != nil {
		return err
	}
	if !c.Emit {
		c.CurSection.PC += 2
		return nil
	}
	c.CurSection.EmitByte(mnemonic.Prefix_CB)
	c.CurSection.EmitByte(mnemonic.Rot(op, reg))
	return nil
}

// assembleLd implements every "LD dst, src" form; dst decides which of the
// family of shapes applies.
func (c *Context) assembleLd(pos token.Pos) error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.RegA, token.RegB, token.RegC, token.RegD, token.RegE, token.RegH, token.RegL:
		dst, err := c.readReg8(false)
		if err != nil {
			return err
		}
		if err := c.expectComma(); err != nil {
			return err
		}
		return c.assembleLdFromReg8(dst, pos)

	case token.Kind('['):
		br, err := c.readBracket()
		if err != nil {
			return err
		}
		if err := c.expectComma(); err != nil {
			return err
		}
		return c.assembleLdFromBracket(br, pos)

	case token.RegBC, token.RegDE:
		rp, err := c.readReg16SP()
		if err != nil {
			return err
		}
		if err := c.expectComma(); err != nil {
			return err
		}
		if err := c.emitOp1(mnemonic.LdR16Imm16(rp)); err != nil {
			return err
		}
		return c.emitExprWidth(2, pos)

	case token.RegHL:
		c.Eat()
		if err := c.expectComma(); err != nil {
			return err
		}
		nt, err := c.Peek()
		if err != nil {
			return err
		}
		if nt.Kind == token.RegSP {
			c.Eat()
			if err := c.emitOp1(mnemonic.LdHLSPImm8); err != nil {
				return err
			}
			return c.emitExprWidth(1, pos)
		}
		if err := c.emitOp1(mnemonic.LdR16Imm16(mnemonic.RP_HL)); err != nil {
			return err
		}
		return c.emitExprWidth(2, pos)

	case token.RegSP:
		c.Eat()
		if err := c.expectComma(); err != nil {
			return err
		}
		nt, err := c.Peek()
		if err != nil {
			return err
		}
		if nt.Kind == token.RegHL {
			c.Eat()
			return c.emitOp1(mnemonic.LdSPHL)
		}
		if err := c.emitOp1(mnemonic.LdR16Imm16(mnemonic.RP_SP)); err != nil {
			return err
		}
		return c.emitExprWidth(2, pos)

	default:
		return smerr.Wrap(smerr.ErrParse, "unrecognized LD destination")
	}
}

func (c *Context) assembleLdFromReg8(dst mnemonic.Reg8, pos token.Pos) error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	switch t.Kind {
	case token.RegA, token.RegB, token.RegC, token.RegD, token.RegE, token.RegH, token.RegL:
		src, err := c.readReg8(false)
		if err != nil {
			return err
		}
		return c.emitOp1(mnemonic.LdR8R8(dst, src))

	case token.Kind('['):
		br, err := c.readBracket()
		if err != nil {
			return err
		}
		switch br.kind {
		case brHL:
			return c.emitOp1(mnemonic.LdR8R8(dst, mnemonic.RegIndHL))
		case brBC:
			if dst != mnemonic.RegA {
				return smerr.Wrap(smerr.ErrParse, "[BC] may only load into A")
			}
			return c.emitOp1(mnemonic.LdA_IndBC)
		case brDE:
			if dst != mnemonic.RegA {
				return smerr.Wrap(smerr.ErrParse, "[DE] may only load into A")
			}
			return c.emitOp1(mnemonic.LdA_IndDE)
		case brHLInc:
			if dst != mnemonic.RegA {
				return smerr.Wrap(smerr.ErrParse, "[HL+] may only load into A")
			}
			return c.emitOp1(mnemonic.LdA_IndHLI)
		case brHLDec:
			if dst != mnemonic.RegA {
				return smerr.Wrap(smerr.ErrParse, "[HL-] may only load into A")
			}
			return c.emitOp1(mnemonic.LdA_IndHLD)
		case brExpr:
			if dst != mnemonic.RegA {
				return smerr.Wrap(smerr.ErrParse, "[nn] may only load into A")
			}
			if err := c.emitOp1(mnemonic.LdA_IndNN); err != nil {
				return err
			}
			return c.resolveAndEmit(2, br.expr, pos, 0)
		default:
			return smerr.Wrap(smerr.ErrParse, "unsupported LD source")
		}

	default:
		if err := c.emitOp1(mnemonic.LdR8Imm8(dst)); err != nil {
			return err
		}
		return c.emitExprWidth(1, pos)
	}
}

func (c *Context) assembleLdFromBracket(br bracket, pos token.Pos) error {
	switch br.kind {
	case brHL:
		t, err := c.Peek()
		if err != nil {
			return err
		}
		switch t.Kind {
		case token.RegA, token.RegB, token.RegC, token.RegD, token.RegE, token.RegH, token.RegL:
			src, err := c.readReg8(false)
			if err != nil {
				return err
			}
			return c.emitOp1(mnemonic.LdR8R8(mnemonic.RegIndHL, src))
		default:
			if err := c.emitOp1(mnemonic.LdR8Imm8(mnemonic.RegIndHL)); err != nil {
				return err
			}
			return c.emitExprWidth(1, pos)
		}

	case brBC:
		if err := c.expectRegA(); err != nil {
			return err
		}
		return c.emitOp1(mnemonic.LdIndBC_A)

	case brDE:
		if err := c.expectRegA(); err != nil {
			return err
		}
		return c.emitOp1(mnemonic.LdIndDE_A)

	case brHLInc:
		if err := c.expectRegA(); err != nil {
			return err
		}
		return c.emitOp1(mnemonic.LdIndHLI_A)

	case brHLDec:
		if err := c.expectRegA(); err != nil {
			return err
		}
		return c.emitOp1(mnemonic.LdIndHLD_A)

	case brExpr:
		t, err := c.Peek()
		if err != nil {
			return err
		}
		if t.Kind == token.RegSP {
			c.Eat()
			if err := c.emitOp1(mnemonic.LdIndNN_SP); err != nil {
				return err
			}
			return c.resolveAndEmit(2, br.expr, pos, 0)
		}
		if err := c.expectRegA(); err != nil {
			return err
		}
		if err := c.emitOp1(mnemonic.LdIndNN_A); err != nil {
			return err
		}
		return c.resolveAndEmit(2, br.expr, pos, 0)

	default:
		return smerr.Wrap(smerr.ErrParse, "unsupported LD destination [..]")
	}
}

// assembleLdh implements "LDH [n], A" / "LDH A, [n]" / "LDH [C], A" /
// "LDH A, [C]". The [n] form's expression is a full $FF00-$FFxx address
// for readability; only its low byte is emitted, and the range is checked
// either now (if solvable) or at link time via FlagHRAM.
func (c *Context) assembleLdh(pos token.Pos) error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	if t.Kind == token.RegA {
		c.Eat()
		if err := c.expectComma(); err != nil {
			return err
		}
		br, err := c.readBracket()
		if err != nil {
			return err
		}
		switch br.kind {
		case brC:
			return c.emitOp1(mnemonic.LdhA_IndC)
		case brExpr:
			if err := c.emitOp1(mnemonic.LdhA_IndN); err != nil {
				return err
			}
			return c.emitHRAMByte(pos, br.expr)
		default:
			return smerr.Wrap(smerr.ErrParse, "LDH expects [C] or [n]")
		}
	}

	br, err := c.readBracket()
	if err != nil {
		return err
	}
	if err := c.expectComma(); err != nil {
		return err
	}
	if err := c.expectRegA(); err != nil {
		return err
	}
	switch br.kind {
	case brC:
		return c.emitOp1(mnemonic.LdhIndC_A)
	case brExpr:
		if err := c.emitOp1(mnemonic.LdhIndN_A); err != nil {
			return err
		}
		return c.emitHRAMByte(pos, br.expr)
	default:
		return smerr.Wrap(smerr.ErrParse, "LDH expects [C] or [n]")
	}
}

func (c *Context) emitHRAMByte(pos token.Pos, v expr.View) error {
	if !c.Emit {
		c.CurSection.PC++
		return nil
	}
	num, ok := c.SolveExpr(v, false)
	if !ok {
		c.CurSection.AddReloc(1, v, c.CurUnit, pos, section.FlagHRAM)
		return nil
	}
	if num < 0xFF00 || num > 0xFFFF {
		return smerr.Wrap(smerr.ErrSemantic, "LDH operand $%04X out of range $FF00-$FFFF", uint32(num))
	}
	c.CurSection.EmitByte(byte(num))
	return nil
}

// assembleLdiLdd implements "LDI"/"LDD"'s two forms: "A, [HL]" (loadFromHL)
// and "[HL], A" (storeToHL).
func (c *Context) assembleLdiLdd(loadFromHL, storeToHL byte) error {
	t, err := c.Peek()
	if err != nil {
		return err
	}
	if t.Kind == token.RegA {
		c.Eat()
		if err := c.expectComma(); err != nil {
			return err
		}
		br, err := c.readBracket()
		if err != nil {
			return err
		}
		if br.kind != brHL {
			return smerr.Wrap(smerr.ErrParse, "expected [HL]")
		}
		return c.emitOp1(loadFromHL)
	}
	br, err := c.readBracket()
	if err != nil {
		return err
	}
	if br.kind != brHL {
		return smerr.Wrap(smerr.ErrParse, "expected [HL]")
	}
	if err := c.expectComma(); err != nil {
		return err
	}
	if err := c.expectRegA(); err != nil {
		return err
	}
	return c.emitOp1(storeToHL)
}
