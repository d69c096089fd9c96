// Package asciiframe draws a contiguous run of named, differently-sized
// fields as an ASCII diagram - gaps between fields render as "(unused)".
// Adapted from the teacher's pkg/utils.AsciiFrame, built there for CPU
// register/bit-field layouts; here the "units" are ROM/RAM bytes and the
// fields are a memory region's placed sections, for `smtk link --map`.
package asciiframe

import (
	"fmt"
	"strings"

	"github.com/smtk-dev/smtk/pkg/sm/internal/genutil"
)

// Field is one labeled run of units within the frame.
type Field struct {
	Name  string
	Begin int
	Width int
}

func (f Field) pastTop() int { return f.Begin + f.Width }

// fillGaps inserts a "(unused)" field into every gap between fields and
// after the last one, so Draw never has to special-case holes. Fields must
// already be sorted by Begin and non-overlapping.
func fillGaps(fields []Field, frameWidth int) []Field {
	result := make([]Field, 0, len(fields))
	cursor := 0
	for _, f := range fields {
		if f.Begin > cursor {
			result = append(result, Field{Name: "(unused)", Begin: cursor, Width: f.Begin - cursor})
		}
		result = append(result, f)
		cursor = f.pastTop()
	}
	if cursor < frameWidth {
		result = append(result, Field{Name: "(unused)", Begin: cursor, Width: frameWidth - cursor})
	}
	return result
}

// Draw renders fields (sorted by Begin, non-overlapping, all within
// [0, frameWidth)) as a bordered ASCII strip with a byte index above each
// field and its width below it, labeled with unit ("bytes", "bits", ...).
func Draw(fields []Field, frameWidth int, unit string, leftpad int) string {
	allFields := fillGaps(fields, frameWidth)
	pad := strings.Repeat(" ", leftpad)

	type cell struct {
		index, name, width string
		minLen              int
	}
	cells := make([]cell, len(allFields))
	for i, f := range allFields {
		c := cell{
			index: fmt.Sprintf("%d", f.Begin),
			name:  fmt.Sprintf(" %s ", f.Name),
			width: fmt.Sprintf(" %d %s ", f.Width, unit),
		}
		c.minLen = genutil.Max([]int{len(c.index), len(c.name), len(c.width) + 4})
		cells[i] = c
	}

	var indices, header, body, footer, widths strings.Builder
	for _, b := range []*strings.Builder{&indices, &header, &body, &footer, &widths} {
		b.WriteString(pad)
	}

	for _, c := range cells {
		indices.WriteString(c.index)
		indices.WriteString(strings.Repeat(" ", max0(c.minLen-len(c.index)+1)))

		header.WriteString("+")
		header.WriteString(strings.Repeat("-", c.minLen))

		body.WriteString("|")
		body.WriteString(center(c.name, c.minLen))

		footer.WriteString("+")
		footer.WriteString(strings.Repeat("-", c.minLen))

		widths.WriteString(" <-")
		widths.WriteString(center(c.width, max0(c.minLen-4)))
		widths.WriteString("-> ")
	}

	indices.WriteString(fmt.Sprintf("%d", frameWidth))
	header.WriteString("+")
	body.WriteString("|")
	footer.WriteString("+")

	return strings.Join([]string{indices.String(), header.String(), body.String(), footer.String(), widths.String()}, "\n") + "\n"
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func center(text string, width int) string {
	if len(text) >= width {
		return text
	}
	left := (width - len(text)) / 2
	right := width - len(text) - left
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", right)
}
