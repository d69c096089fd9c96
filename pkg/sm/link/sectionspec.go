package link

import "github.com/smtk-dev/smtk/pkg/sm/view"

// SectionKind classifies a config `sections { name { kind = ... } }` entry,
// constraining which Memory.Kind it may load into and whether it
// contributes bytes to the output image at all.
type SectionKind uint8

const (
	KindCode SectionKind = iota
	KindData
	KindUninit  // reserves address space; contributes no bytes
	KindZeropage
)

func parseSectionKind(s string) (SectionKind, bool) {
	switch s {
	case "code":
		return KindCode, true
	case "data":
		return KindData, true
	case "uninit":
		return KindUninit, true
	case "zeropage":
		return KindZeropage, true
	default:
		return 0, false
	}
}

// compatible reports whether a section of Kind k may load into a memory of
// the given kind: code/data carry real initialized bytes, so they only
// belong in a readonly (ROM) memory; uninit/zeropage sections reserve
// address space with no content of their own, so they only belong in a
// readwrite (RAM) memory, which never contributes bytes to the image.
func (k SectionKind) compatible(mk MemoryKind) bool {
	switch k {
	case KindCode, KindData:
		return mk == KindReadOnly
	case KindUninit, KindZeropage:
		return mk == KindReadWrite
	default:
		return false
	}
}

// SectionSpec is one `sections { name { ... } }` config entry describing
// where input sections of Name end up and under what constraints.
type SectionSpec struct {
	Name   view.View
	Load   view.View // target Memory.Name
	Kind   SectionKind
	Align  uint32 // 0 and 1 both mean "no alignment requirement"
	Define view.View // optional symbol bound to the section's placed start
	Tags   []view.View

	placedStart uint32
	placed      bool
}
