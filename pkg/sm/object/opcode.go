package object

import (
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/token"
)

// operatorCodes maps every token.Kind an Op atom can carry (see
// expr/parser.go's pushApply call sites) to a single byte. spec.md §4.6
// says only "Op: u8 tok" without naming the encoding - token.Kind itself is
// an int32 keyed off Unicode code points for punctuation and a range above
// 0x110000 for named digraphs, neither of which fits a byte, so this table
// is the object codec's own closed, fully-enumerated substitute.
var operatorCodes = []token.Kind{
	token.Kind('+'), token.Kind('-'), token.Kind('*'), token.Kind('/'),
	token.Kind('%'), token.Kind('&'), token.Kind('|'), token.Kind('^'),
	token.Kind('!'), token.Kind('~'), token.Kind('<'), token.Kind('>'),
	token.Asl, token.Asr, token.Lsr, token.Lte, token.Gte,
	token.Deq, token.Neq, token.And, token.Or,
}

func operatorCode(k token.Kind) (byte, error) {
	for i, kind := range operatorCodes {
		if kind == k {
			return byte(i), nil
		}
	}
	return 0, smerr.Wrap(smerr.ErrInternal, "unencodable operator token %s", k)
}

func operatorFromCode(code byte) (token.Kind, error) {
	if int(code) >= len(operatorCodes) {
		return 0, smerr.Wrap(smerr.ErrIO, "invalid operator code %d in object file", code)
	}
	return operatorCodes[code], nil
}
