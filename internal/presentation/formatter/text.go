package formatter

import (
	"fmt"
	"io"

	"github.com/penwyp/go-enroll-stats/internal/analyzer"
)

// TextFormatter prints one line per directory in the form
// "Section: (file, available, total)".
type TextFormatter struct {
	w io.Writer
}

func NewTextFormatter(w io.Writer) *TextFormatter {
	return &TextFormatter{w: w}
}

func (f *TextFormatter) Format(report *analyzer.Report) error {
	if _, err := fmt.Fprintf(f.w, "Section: %s\n", triple(report.Section)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(f.w, "Overall: %s\n", triple(report.Overall))
	return err
}

func triple(r analyzer.Result) string {
	return fmt.Sprintf("(%s, %d, %d)", r.File, r.Available, r.Total)
}
