package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-enroll-stats/internal/util"
)

// WrittenFile describes one split output file.
type WrittenFile struct {
	Name string
	Path string
	Rows int
}

// SplitSummary lists what a split run wrote.
type SplitSummary struct {
	InputRows int
	Overall   []WrittenFile
	Sections  []WrittenFile
}

// Files returns the total number of files written.
func (s *SplitSummary) Files() int {
	return len(s.Overall) + len(s.Sections)
}

// SummaryFormatter prints a split summary with file names padded to a
// common display width.
type SummaryFormatter struct {
	w io.Writer
}

func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{w: w}
}

func (f *SummaryFormatter) Format(s *SplitSummary) error {
	names := make([]string, 0, s.Files())
	for _, file := range s.Overall {
		names = append(names, file.Name)
	}
	for _, file := range s.Sections {
		names = append(names, file.Name)
	}
	width := util.MaxDisplayWidth(names)

	util.FprintHeading(f.w, fmt.Sprintf("Split %s rows into %d files", util.FormatCount(s.InputRows), s.Files()))

	var b strings.Builder
	writeGroup(&b, "Overall", s.Overall, width)
	writeGroup(&b, "Section", s.Sections, width)

	_, err := io.WriteString(f.w, b.String())
	return err
}

func writeGroup(b *strings.Builder, title string, files []WrittenFile, width int) {
	if len(files) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (%d):\n", title, len(files))
	for _, file := range files {
		fmt.Fprintf(b, "  %s  %s rows\n", util.PadString(file.Name, width, true), util.FormatCount(file.Rows))
	}
}
