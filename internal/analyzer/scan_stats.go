package analyzer

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"

	"github.com/penwyp/go-enroll-stats/internal/util"
)

// SkipReason classifies why a file took no part in the ratio comparison.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipEmpty
	SkipUnparsable
	SkipBelowMinimum
	SkipZeroTotal
)

// String returns a human readable reason for logging.
func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipEmpty:
		return "file is empty"
	case SkipUnparsable:
		return "available or total is not an integer"
	case SkipBelowMinimum:
		return "total below minimum"
	case SkipZeroTotal:
		return "total is zero"
	default:
		return "unknown reason"
	}
}

// ErrSkipFile matches every *SkipError via errors.Is.
var ErrSkipFile = errors.New("file skipped")

// SkipError reports a file excluded from the scan. It is never fatal.
type SkipError struct {
	File   string
	Reason SkipReason
	Err    error
}

func (e *SkipError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("skip %s: %s: %v", e.File, e.Reason, e.Err)
	}
	return fmt.Sprintf("skip %s: %s", e.File, e.Reason)
}

func (e *SkipError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrSkipFile) succeed for any skip.
func (e *SkipError) Is(target error) bool {
	return target == ErrSkipFile
}

// ScanStats counts the files seen during a directory scan. The scan is
// sequential, so it is not safe for concurrent use.
type ScanStats struct {
	total    int
	accepted int
	skipped  []SkipDetail
}

// SkipDetail records one skipped file.
type SkipDetail struct {
	FilePath string
	Reason   SkipReason
}

// NewScanStats creates an empty ScanStats.
func NewScanStats() *ScanStats {
	return &ScanStats{
		skipped: make([]SkipDetail, 0),
	}
}

// IncrementTotal increases the scanned file count.
func (s *ScanStats) IncrementTotal() {
	s.total++
}

// IncrementAccepted counts a file whose ratio was compared.
func (s *ScanStats) IncrementAccepted() {
	s.accepted++
}

// IncrementSkip records a skipped file and its reason.
func (s *ScanStats) IncrementSkip(filePath string, reason SkipReason) {
	s.skipped = append(s.skipped, SkipDetail{
		FilePath: filePath,
		Reason:   reason,
	})
}

// GetStats returns the scanned, accepted and skipped counts.
func (s *ScanStats) GetStats() (total, accepted, skipped int) {
	return s.total, s.accepted, len(s.skipped)
}

// ReasonCounts returns the number of skipped files per reason.
func (s *ScanStats) ReasonCounts() map[SkipReason]int {
	counts := make(map[SkipReason]int)
	for _, detail := range s.skipped {
		counts[detail.Reason]++
	}
	return counts
}

// Skipped returns a copy of the skip details in scan order.
func (s *ScanStats) Skipped() []SkipDetail {
	out := make([]SkipDetail, len(s.skipped))
	copy(out, s.skipped)
	return out
}

// PrintFinalStats logs the scan summary and a breakdown of skip reasons.
func (s *ScanStats) PrintFinalStats(dir string) {
	total, accepted, skipped := s.GetStats()

	util.LogInfo("Diff scan complete",
		util.F("dir", dir),
		util.F("files", humanize.Comma(int64(total))),
		util.F("accepted", humanize.Comma(int64(accepted))),
		util.F("skipped", humanize.Comma(int64(skipped))))

	if skipped == 0 {
		return
	}

	counts := s.ReasonCounts()
	reasons := make([]SkipReason, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	for _, reason := range reasons {
		util.LogDebugf("  %s: %d files", reason, counts[reason])
	}
}
