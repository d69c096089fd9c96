package asciiframe_test

import (
	"strings"
	"testing"

	"github.com/smtk-dev/smtk/pkg/sm/internal/asciiframe"
	"github.com/stretchr/testify/assert"
)

func TestDrawFillsGapsAndLabelsFields(t *testing.T) {
	out := asciiframe.Draw([]asciiframe.Field{
		{Name: "CODE", Begin: 0, Width: 4},
		{Name: "VARS", Begin: 8, Width: 2},
	}, 16, "bytes", 0)

	assert.True(t, strings.Contains(out, "CODE"))
	assert.True(t, strings.Contains(out, "VARS"))
	assert.True(t, strings.Contains(out, "(unused)"))
}

func TestDrawNoFieldsIsOneUnusedRun(t *testing.T) {
	out := asciiframe.Draw(nil, 8, "bytes", 0)
	assert.True(t, strings.Contains(out, "(unused)"))
}
