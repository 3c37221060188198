// Package normalizer repairs enrollment log timestamps that drifted by a few
// milliseconds within one snapshot.
//
// The tracker stamps every section of a sweep separately, so rows of one
// snapshot can disagree by a few milliseconds. Rows are compared against a
// single running reference time carried through the whole file: a row within
// the tolerance of the reference is rewritten to it, a row further away
// starts a new snapshot. This assumes rows of one snapshot are contiguous in
// the input; rows that jump backwards past the tolerance are counted so that
// violations are visible.
package normalizer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-enroll-stats/internal/util"
)

// DefaultTolerance is the largest drift, in milliseconds, treated as skew.
const DefaultTolerance int64 = 10

// LineError reports a row whose timestamp is not an integer.
type LineError struct {
	Line  int
	Value string
	Err   error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: invalid timestamp %q: %v", e.Line, e.Value, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// Result summarizes one normalization pass.
type Result struct {
	Fixed    int // rows whose timestamp was rewritten
	Total    int // every line read, header included
	Backward int // rows earlier than the reference by more than the tolerance
}

// Summary is the one-line console report.
func (r Result) Summary() string {
	return fmt.Sprintf("Fixed %d lines (out of %d total lines).", r.Fixed, r.Total)
}

// Normalizer rewrites near-duplicate timestamps.
type Normalizer struct {
	tolerance int64
}

// NewNormalizer creates a Normalizer treating drifts up to toleranceMs as skew.
func NewNormalizer(toleranceMs int64) *Normalizer {
	return &Normalizer{tolerance: toleranceMs}
}

// Tolerance returns the skew tolerance in milliseconds.
func (n *Normalizer) Tolerance() int64 {
	return n.tolerance
}

// Normalize copies r to w, rewriting skewed timestamps. Every byte other than
// a rewritten timestamp field is preserved, including line endings. A
// non-integer timestamp aborts the pass with a *LineError.
func (n *Normalizer) Normalize(r io.Reader, w io.Writer) (Result, error) {
	var res Result
	reader := bufio.NewReader(r)
	writer := bufio.NewWriter(w)

	var prev int64
	havePrev := false

	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return res, fmt.Errorf("read line %d: %w", res.Total+1, readErr)
		}
		if len(line) == 0 {
			break
		}
		res.Total++

		out := line
		if res.Total > 1 {
			field, rest := splitTimestamp(line)
			ts, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)
			if err != nil {
				return res, &LineError{Line: res.Total, Value: field, Err: err}
			}

			switch {
			case !havePrev:
				prev, havePrev = ts, true
			case abs(ts-prev) > n.tolerance:
				if ts < prev {
					res.Backward++
				}
				prev = ts
			case ts == prev:
				// already consistent
			default:
				out = strconv.FormatInt(prev, 10) + rest
				res.Fixed++
			}
		}

		if _, err := writer.WriteString(out); err != nil {
			return res, fmt.Errorf("write line %d: %w", res.Total, err)
		}
		if readErr == io.EOF {
			break
		}
	}

	if err := writer.Flush(); err != nil {
		return res, fmt.Errorf("flush output: %w", err)
	}
	return res, nil
}

// NormalizeFile normalizes the log at inPath into outPath, replacing outPath.
func (n *Normalizer) NormalizeFile(inPath, outPath string) (Result, error) {
	start := time.Now()

	if samePath(inPath, outPath) {
		return Result{}, fmt.Errorf("output %s would overwrite the input log", outPath)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return Result{}, fmt.Errorf("open enrollment log: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return Result{}, fmt.Errorf("create fixed log: %w", err)
	}

	res, err := n.Normalize(in, out)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close fixed log: %w", closeErr)
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", inPath, err)
	}

	util.LogInfo("Normalized timestamps",
		util.F("input", inPath),
		util.F("output", outPath),
		util.F("fixed", util.FormatCount(res.Fixed)),
		util.F("lines", util.FormatCount(res.Total)),
		util.F("duration", util.FormatDuration(time.Since(start))))
	if res.Backward > 0 {
		util.LogWarn("Timestamps went backwards; rows of one snapshot may not be contiguous",
			util.F("input", inPath),
			util.F("rows", res.Backward))
	}
	return res, nil
}

// splitTimestamp returns the first field of line and everything after it,
// starting at the separating comma (or the line ending if there is none).
func splitTimestamp(line string) (field, rest string) {
	if i := strings.IndexByte(line, ','); i >= 0 {
		return line[:i], line[i:]
	}
	body := strings.TrimRight(line, "\r\n")
	return body, line[len(body):]
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}
