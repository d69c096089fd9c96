// Package view implements the immutable byte-slice primitive every later
// assembler/linker structure refers to by value: a View is a pointer+length
// into some backing storage, never a copy of the bytes themselves.
package view

import "bytes"

// View is an immutable slice of bytes. Equality is always by content, never
// by identity, regardless of where the bytes happen to live.
type View struct {
	bytes []byte
}

// Null is the zero View: an empty, non-interned view used as a sentinel
// (the empty scope of a global label, an absent section name, ...).
var Null = View{}

// Of wraps an existing byte slice as a View without copying. Callers that
// don't go through a Pool are responsible for not mutating the slice
// afterwards.
func Of(b []byte) View {
	return View{bytes: b}
}

// FromString wraps the bytes of s as a View without copying.
func FromString(s string) View {
	return View{bytes: []byte(s)}
}

func (v View) Bytes() []byte { return v.bytes }
func (v View) Len() int      { return len(v.bytes) }
func (v View) String() string {
	return string(v.bytes)
}

// IsNull reports whether v was never assigned any bytes (distinct from an
// interned empty view, which has non-nil zero-length bytes).
func (v View) IsNull() bool { return v.bytes == nil }

// Equal is pure byte-equality. Unlike the original C implementation's
// smViewEqual (which short-circuits on identical pointers regardless of
// length, a bug flagged in spec.md's suspected-bugs list), two Views are
// only ever equal when their contents match.
func (v View) Equal(o View) bool {
	return bytes.Equal(v.bytes, o.bytes)
}

// EqualIgnoreASCIICase compares ignoring the case of ASCII letters only;
// non-ASCII bytes must match exactly.
func (v View) EqualIgnoreASCIICase(o View) bool {
	if len(v.bytes) != len(o.bytes) {
		return false
	}
	for i, b := range v.bytes {
		if foldASCII(b) != foldASCII(o.bytes[i]) {
			return false
		}
	}
	return true
}

func foldASCII(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// StartsWith reports whether v begins with prefix's bytes.
func (v View) StartsWith(prefix View) bool {
	if len(prefix.bytes) > len(v.bytes) {
		return false
	}
	return bytes.Equal(v.bytes[:len(prefix.bytes)], prefix.bytes)
}

// Hash is a 32-bit DJB2-style hash, used by the symbol table's
// open-addressed buckets.
func (v View) Hash() uint32 {
	var h uint32 = 5381
	for _, b := range v.bytes {
		h = ((h << 5) + h) + uint32(b)
	}
	return h
}

// IndexByte returns the index of the first occurrence of c in v, or -1.
func (v View) IndexByte(c byte) int {
	return bytes.IndexByte(v.bytes, c)
}

// Slice returns the sub-view [lo:hi), sharing v's backing storage.
func (v View) Slice(lo, hi int) View {
	return View{bytes: v.bytes[lo:hi]}
}
