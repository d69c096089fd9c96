package link

import (
	"sort"

	"github.com/smtk-dev/smtk/pkg/sm/internal/asciiframe"
	"github.com/smtk-dev/smtk/pkg/sm/smerr"
)

// MemoryMap renders an ASCII diagram of every section placed into the
// memory region named name, byte-addressed from the region's own Start.
// Must run after Place. For `smtk link --map`.
func (l *Linker) MemoryMap(name string) (string, error) {
	mem := l.Cfg.memory(l.Pool.InternString(name))
	if mem == nil {
		return "", smerr.Wrap(smerr.ErrConfig, "unknown memory %q", name)
	}

	var fields []asciiframe.Field
	for _, spec := range l.Cfg.Sections {
		if !spec.placed || spec.Load.String() != name {
			continue
		}
		sect, _ := l.Sects.Find(spec.Name)
		size := 0
		if sect != nil {
			size = len(sect.Data)
		}
		fields = append(fields, asciiframe.Field{
			Name:  spec.Name.String(),
			Begin: int(spec.placedStart - mem.Start),
			Width: size,
		})
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Begin < fields[j].Begin })

	return asciiframe.Draw(fields, int(mem.Size), "bytes", 0), nil
}
