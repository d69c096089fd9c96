package link

import "github.com/smtk-dev/smtk/pkg/sm/view"

// MemoryKind distinguishes a memory region that must end up fully defined
// in the output image from one that's merely reserved address space.
type MemoryKind uint8

const (
	KindReadOnly MemoryKind = iota
	KindReadWrite
)

func parseMemoryKind(s string) (MemoryKind, bool) {
	switch s {
	case "readonly":
		return KindReadOnly, true
	case "readwrite":
		return KindReadWrite, true
	default:
		return 0, false
	}
}

// Memory is one `memories { name { ... } }` entry: a contiguous address
// range sections are placed into.
//
// Grounded on spec.md §4.7's config grammar.
type Memory struct {
	Name  view.View
	Start uint32
	Size  uint32
	Fill  byte
	Kind  MemoryKind

	cursor uint32 // next free offset from Start, advanced by Place
}

// End is the first address past Memory (exclusive).
func (m *Memory) End() uint32 { return m.Start + m.Size }
