package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPadString(t *testing.T) {
	assert.Equal(t, "CSE 100   ", PadString("CSE 100", 10, true))
	assert.Equal(t, "   CSE 100", PadString("CSE 100", 10, false))
	assert.Equal(t, "CSE 100", PadString("CSE 100", 3, true))
	// Wide runes count as two columns.
	assert.Equal(t, "日本 ", PadString("日本", 5, true))
}

func TestMaxDisplayWidth(t *testing.T) {
	assert.Equal(t, 0, MaxDisplayWidth(nil))
	assert.Equal(t, 9, MaxDisplayWidth([]string{"CSE 100", "MATH 20C", "PHYS 2CL "}))
}

func TestFprintHeading(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = prev }()

	var buf bytes.Buffer
	FprintHeading(&buf, "Section")
	FprintWarning(&buf, "careful")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"Section", "careful"}, lines)
}

func TestWaitForEnter(t *testing.T) {
	WaitForEnter(strings.NewReader("\n"))
	WaitForEnter(strings.NewReader(""))
}
