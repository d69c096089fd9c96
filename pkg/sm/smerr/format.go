package smerr

import (
	"io"

	"github.com/fatih/color"
)

// colorError/colorWarning mirror the teacher's cmd/cpu/debug.go palette
// (color.New(color.FgRed, color.Bold) for errors, color.FgYellow for
// warnings) rather than inventing a new one.
var (
	colorError   = color.New(color.FgRed, color.Bold)
	colorWarning = color.New(color.FgYellow)
	colorPos     = color.New(color.FgCyan)
)

// PrintDiagnostic writes a Diagnostic to w as "pos: message", coloring the
// position cyan and the message red (or yellow for a warning), the way the
// CLI reports every fatal-on-first-error condition. Plain io.Writer rather
// than *os.File so tests can capture output; color.NoColor (set by the
// fatih/color package itself when stdout isn't a TTY, whatever w is) still
// applies.
func PrintDiagnostic(w io.Writer, d Diagnostic, warning bool) {
	msgColor := colorError
	if warning {
		msgColor = colorWarning
	}
	if d.Pos != nil {
		colorPos.Fprintf(w, "%s: ", d.Pos.String())
	}
	msgColor.Fprintln(w, d.Err.Error())
}
