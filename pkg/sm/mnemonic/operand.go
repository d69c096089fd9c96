package mnemonic

// Reg8 is one of the SM83's eight 3-bit register-field encodings
// (B,C,D,E,H,L,[HL],A - RegIndHL, index 6, is a memory operand rather than
// a register in the assembler's operand-parsing sense, but every r8-shaped
// instruction slot accepts it, so it shares this type).
type Reg8 uint8

const (
	RegB Reg8 = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegIndHL // [HL]
	RegA
)

// Reg16SP is one of the four register-pair encodings used where SP is
// the fourth slot (LD rp,nn / INC rp / DEC rp / ADD HL,rp).
type Reg16SP uint8

const (
	RP_BC Reg16SP = iota
	RP_DE
	RP_HL
	RP_SP
)

// Reg16AF is the PUSH/POP register-pair encoding, where AF (not SP) is
// the fourth slot.
type Reg16AF uint8

const (
	RP2_BC Reg16AF = iota
	RP2_DE
	RP2_HL
	RP2_AF
)

// Cond is a branch condition code.
type Cond uint8

const (
	CondNZ Cond = iota
	CondZ
	CondNC
	CondC
)

// AluOp selects which of the eight ALU-with-A mnemonics (ADD, ADC, SUB,
// SBC, AND, XOR, OR, CP) an r8/imm8 operand is being applied with.
type AluOp uint8

const (
	AluADD AluOp = iota
	AluADC
	AluSUB
	AluSBC
	AluAND
	AluXOR
	AluOR
	AluCP
)

// RotOp selects one of the eight CB-prefixed rotate/shift mnemonics.
type RotOp uint8

const (
	RotRLC RotOp = iota
	RotRRC
	RotRL
	RotRR
	RotSLA
	RotSRA
	RotSWAP
	RotSRL
)
