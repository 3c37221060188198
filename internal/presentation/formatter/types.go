package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-enroll-stats/internal/analyzer"
)

// Output formats accepted by NewReportFormatter.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
)

// ReportFormatter renders a diff report.
type ReportFormatter interface {
	Format(report *analyzer.Report) error
}

// NewReportFormatter returns the formatter for format, writing to w.
func NewReportFormatter(format string, w io.Writer) (ReportFormatter, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewTextFormatter(w), nil
	case FormatTable:
		return NewTableFormatter(w), nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want text, table or json)", format)
	}
}
