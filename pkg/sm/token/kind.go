// Package token implements the assembler's lexer: it turns a source file's
// bytes into a stream of Tok values. A Tok carries no knowledge of macros,
// conditionals, or repeats - that layering lives in pkg/sm/stream - the
// lexer only ever sees one physical file at a time.
package token

// Kind identifies what a Tok is. Single-character punctuation (',', '(',
// '+', and so on) is represented directly as Kind(rune(ch)); every other
// kind is a named constant above the range any rune can occupy.
type Kind int32

const runeCeiling = 0x110000

const (
	// EOF is returned forever once a file's bytes are exhausted.
	EOF Kind = runeCeiling + iota
	ID
	NUM
	STR

	// Directives, named the same as the source spelling minus the '@'.
	KwDB
	KwDW
	KwDS
	KwSECTION
	KwINCLUDE
	KwINCBIN
	KwIF
	KwELSE
	KwEND
	KwMACRO
	KwREPEAT
	KwSTRUCT
	KwUNION
	KwSTRFMT
	KwIDFMT
	KwDEFINED
	KwSTRLEN
	KwTAG
	KwREL
	KwARG
	KwNARG
	KwSHIFT
	KwUNIQUE
	KwPRINT
	KwFATAL
	KwEQU
	KwEXPORT
	KwGLOBAL
	KwCREATE

	// Digraphs and trigraphs.
	Asl    // <<
	Asr    // >>
	Lsr    // ~>
	Lte    // <=
	Gte    // >=
	Deq    // ==
	Neq    // !=
	And    // &&
	Or     // ||
	DColon // ::
	EquEq  // =:
	DStar  // **

	// Registers and conditions, classified out of bare identifiers.
	RegAF
	RegBC
	RegDE
	RegHL
	RegSP
	RegNC
	RegNZ
	RegA
	RegB
	RegC
	RegD
	RegE
	RegH
	RegL
	RegZ

	// Macro-argument and repeat-loop pseudo tokens, declared here so every
	// layer shares one Kind space. The lexer never produces MacroArg; it
	// returns RepeatIter for "@ITER", which a Repeat frame replaces with the
	// current iteration number.
	MacroArg
	RepeatIter
)

// IsPunct reports whether k is a plain single-byte punctuation token.
func (k Kind) IsPunct() bool { return k >= 0 && k < runeCeiling }

var names = map[Kind]string{
	EOF: "EOF", ID: "identifier", NUM: "number", STR: "string",
	KwDB: "@DB", KwDW: "@DW", KwDS: "@DS", KwSECTION: "@SECTION",
	KwINCLUDE: "@INCLUDE", KwINCBIN: "@INCBIN", KwIF: "@IF", KwELSE: "@ELSE",
	KwEND: "@END", KwMACRO: "@MACRO", KwREPEAT: "@REPEAT", KwSTRUCT: "@STRUCT",
	KwUNION: "@UNION", KwSTRFMT: "@STRFMT", KwIDFMT: "@IDFMT",
	KwDEFINED: "@DEFINED", KwSTRLEN: "@STRLEN", KwTAG: "@TAG", KwREL: "@REL",
	KwARG: "@ARG", KwNARG: "@NARG", KwSHIFT: "@SHIFT", KwUNIQUE: "@UNIQUE",
	KwPRINT: "@PRINT", KwFATAL: "@FATAL", KwEQU: "@EQU", KwEXPORT: "@EXPORT",
	KwGLOBAL: "@GLOBAL", KwCREATE: "@CREATE",
	Asl:      "<<", Asr: ">>", Lsr: "~>", Lte: "<=", Gte: ">=", Deq: "==",
	Neq: "!=", And: "&&", Or: "||", DColon: "::", EquEq: "=:", DStar: "**",
	RegAF: "af", RegBC: "bc", RegDE: "de", RegHL: "hl", RegSP: "sp",
	RegNC: "nc", RegNZ: "nz", RegA: "a", RegB: "b", RegC: "c", RegD: "d",
	RegE: "e", RegH: "h", RegL: "l", RegZ: "z",
	MacroArg: "@ARG", RepeatIter: "@ITER",
}

func (k Kind) String() string {
	if k.IsPunct() {
		return string(rune(k))
	}
	if s, ok := names[k]; ok {
		return s
	}
	return "?"
}

// directives maps a bare directive name (already upper-cased, without the
// leading '@') to its Kind. Anything not in this table but still shaped
// like a directive is a lexical error.
var directives = map[string]Kind{
	"DB": KwDB, "DW": KwDW, "DS": KwDS, "SECTION": KwSECTION,
	"INCLUDE": KwINCLUDE, "INCBIN": KwINCBIN, "IF": KwIF, "ELSE": KwELSE,
	"END": KwEND, "MACRO": KwMACRO, "REPEAT": KwREPEAT, "STRUCT": KwSTRUCT,
	"UNION": KwUNION, "STRFMT": KwSTRFMT, "IDFMT": KwIDFMT,
	"DEFINED": KwDEFINED, "STRLEN": KwSTRLEN, "TAG": KwTAG, "REL": KwREL,
	"ARG": KwARG, "NARG": KwNARG, "SHIFT": KwSHIFT, "UNIQUE": KwUNIQUE,
	"PRINT": KwPRINT, "FATAL": KwFATAL, "EQU": KwEQU, "EXPORT": KwEXPORT,
	"GLOBAL": KwGLOBAL, "CREATE": KwCREATE, "ITER": RepeatIter,
}

// registers maps a bare, upper-cased identifier to a register/condition
// Kind. Identifiers that don't match stay ID.
var registers = map[string]Kind{
	"AF": RegAF, "BC": RegBC, "DE": RegDE, "HL": RegHL, "SP": RegSP,
	"NC": RegNC, "NZ": RegNZ, "A": RegA, "B": RegB, "C": RegC, "D": RegD,
	"E": RegE, "H": RegH, "L": RegL, "Z": RegZ,
}

// digraphs is consulted before falling back to single-character
// punctuation, longest match first.
var digraphs = map[string]Kind{
	"<<": Asl, ">>": Asr, "~>": Lsr, "<=": Lte, ">=": Gte, "==": Deq,
	"!=": Neq, "&&": And, "||": Or, "::": DColon, "=:": EquEq, "**": DStar,
}
