package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableAlignment(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	table := w.NewTable("Resource", "Deficit")
	table.SetAlign(1, AlignRight)
	table.AddRow("Lunar Amber", "4")
	table.AddColoredRow(Red, "Alloy", "12,000")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, []string{
		"Resource    │ Deficit",
		"────────────┼────────",
		"Lunar Amber │       4",
		"Alloy       │  12,000",
	}, lines)
}

func TestColor(t *testing.T) {
	var buf bytes.Buffer
	colored := NewWriter(&buf, false)
	assert.Equal(t, Red+"x"+Reset, colored.Color(Red, "x"))

	plain := NewWriter(&buf, true)
	assert.Equal(t, "x", plain.Color(Red, "x"))

	plain.Warning("ignored %d", 2)
	plain.Success("done")
	assert.Equal(t, "⚠ ignored 2\n✓ done\n", buf.String())
}
