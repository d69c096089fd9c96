package assembler

import (
	"os"
	"path/filepath"

	"github.com/smtk-dev/smtk/pkg/sm/smerr"
	"github.com/smtk-dev/smtk/pkg/sm/stream"
	"github.com/smtk-dev/smtk/pkg/sm/token"
)

// OSFileSystem is the default FileSystem: plain os.ReadFile. cmd/smasm
// wires this in; tests use an in-memory stub instead.
type OSFileSystem struct{}

func (OSFileSystem) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// resolveInclude searches path directly, then against each -I directory in
// order, matching spec.md §6's "-I appends an include search directory".
func (c *Context) resolveInclude(path string) (resolved string, data []byte, err error) {
	if filepath.IsAbs(path) {
		data, err := c.FS.ReadFile(path)
		if err != nil {
			return "", nil, smerr.Wrap(smerr.ErrIO, "%s: %v", path, err)
		}
		return path, data, nil
	}
	if data, err := c.FS.ReadFile(path); err == nil {
		return path, data, nil
	}
	for _, dir := range c.IncludePaths {
		candidate := filepath.Join(dir, path)
		if data, err := c.FS.ReadFile(candidate); err == nil {
			return candidate, data, nil
		}
	}
	return "", nil, smerr.Wrap(smerr.ErrIO, "include path not resolvable: %s", path)
}

// PushEntryFile opens the assembly's root source file and installs it as
// the stream stack's base frame.
func (c *Context) PushEntryFile(path string) error {
	data, err := c.FS.ReadFile(path)
	if err != nil {
		return smerr.Wrap(smerr.ErrIO, "%s: %v", path, err)
	}
	name := c.Pool.InternString(path)
	lx := token.NewLexer(name, data, c.Pool)
	c.Stack = stream.New(stream.NewFileFrame(path, lx))
	c.IncludedFiles = append(c.IncludedFiles, path)
	return nil
}
