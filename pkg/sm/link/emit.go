package link

// Emit concatenates every readonly memory's final bytes, in configured
// declaration order, gaps filled with that memory's Fill byte - step 5 of
// spec.md §4.7's algorithm. Readwrite memories (WRAM, HRAM, ...) get
// addresses for relocations to resolve against but contribute no bytes to
// the image: there is nothing to write for RAM that exists only at
// runtime.
func (l *Linker) Emit() []byte {
	var out []byte
	for _, mem := range l.Cfg.Memories {
		if mem.Kind != KindReadOnly {
			continue
		}
		buf := make([]byte, mem.Size)
		for i := range buf {
			buf[i] = mem.Fill
		}
		for _, spec := range l.Cfg.Sections {
			if !spec.placed || !spec.Load.Equal(mem.Name) {
				continue
			}
			sect, ok := l.Sects.Find(spec.Name)
			if !ok {
				continue
			}
			off := spec.placedStart - mem.Start
			copy(buf[off:], sect.Data)
		}
		out = append(out, buf...)
	}
	return out
}
