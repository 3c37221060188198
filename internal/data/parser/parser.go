package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-enroll-stats/internal/core/model"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

// ParseError reports a malformed row of the enrollment log. Any ParseError
// aborts the run; there is no per-row recovery.
type ParseError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: column %s: invalid value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrShortRow is wrapped by a ParseError when a row lacks consumed columns.
var ErrShortRow = errors.New("row has fewer columns than required")

// Parser reads enrollment logs positionally: time, course, section, and the
// available/waitlist/total counts. Other columns are ignored.
type Parser struct{}

// NewParser creates a new Parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseFile reads every data row of the log at path.
func (p *Parser) ParseFile(path string) ([]model.EnrollmentRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return p.Parse(file)
}

// Parse reads every data row from r.
func (p *Parser) Parse(r io.Reader) ([]model.EnrollmentRecord, error) {
	var records []model.EnrollmentRecord
	err := p.Each(r, func(rec model.EnrollmentRecord) error {
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// Each calls fn for every data row of r in file order. The first line is
// treated as a header and skipped. Rows are split on every comma; quotes have
// no special meaning because the tracker writes instructor names unescaped.
// The first malformed row, including a blank line, or the first error
// returned by fn, stops the scan.
func (p *Parser) Each(r io.Reader, fn func(model.EnrollmentRecord) error) error {
	start := time.Now()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	rows := 0
	line := 0
	for scanner.Scan() {
		line++
		if line == 1 {
			continue
		}

		rec, err := parseRow(strings.Split(scanner.Text(), ","), line)
		if err != nil {
			return err
		}
		if err := fn(rec); err != nil {
			return err
		}
		rows++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read enrollment log: line %d: %w", line+1, err)
	}

	util.LogDebug("Parsed enrollment log",
		util.F("rows", util.FormatCount(rows)),
		util.F("duration", util.FormatDuration(time.Since(start))))
	return nil
}

func parseRow(row []string, line int) (model.EnrollmentRecord, error) {
	if len(row) < model.MinColumns {
		return model.EnrollmentRecord{}, &ParseError{
			Line: line,
			Err:  fmt.Errorf("%w: got %d, need %d", ErrShortRow, len(row), model.MinColumns),
		}
	}

	available, err := parseCount(row, model.ColAvailable, "available", line)
	if err != nil {
		return model.EnrollmentRecord{}, err
	}
	waitlisted, err := parseCount(row, model.ColWaitlisted, "waitlist", line)
	if err != nil {
		return model.EnrollmentRecord{}, err
	}
	total, err := parseCount(row, model.ColTotal, "total", line)
	if err != nil {
		return model.EnrollmentRecord{}, err
	}

	return model.EnrollmentRecord{
		Timestamp:     row[model.ColTime],
		SubjectCourse: row[model.ColSubjectCourse],
		SectionCode:   row[model.ColSectionCode],
		Available:     available,
		Waitlisted:    waitlisted,
		Total:         total,
	}, nil
}

func parseCount(row []string, col int, name string, line int) (int, error) {
	value := row[col]
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ParseError{Line: line, Column: name, Value: value, Err: err}
	}
	return n, nil
}
