package util

import (
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var (
	headingColor = color.New(color.Bold, color.FgCyan)
	warnColor    = color.New(color.Bold, color.FgYellow)
)

// GetDisplayWidth calculates the terminal width of a string
func GetDisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// PadString pads s to width display columns.
func PadString(s string, width int, leftAlign bool) string {
	actual := GetDisplayWidth(s)
	if actual >= width {
		return s
	}
	padding := strings.Repeat(" ", width-actual)
	if leftAlign {
		return s + padding
	}
	return padding + s
}

// MaxDisplayWidth returns the widest display width among values.
func MaxDisplayWidth(values []string) int {
	widest := 0
	for _, v := range values {
		if w := GetDisplayWidth(v); w > widest {
			widest = w
		}
	}
	return widest
}

// FprintHeading writes a bold heading line. Color is disabled when stdout is
// not a terminal or NO_COLOR is set.
func FprintHeading(w io.Writer, text string) {
	headingColor.Fprintln(w, text)
}

// FprintWarning writes a highlighted warning line.
func FprintWarning(w io.Writer, text string) {
	warnColor.Fprintln(w, text)
}
