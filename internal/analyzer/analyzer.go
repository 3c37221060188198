package analyzer

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-enroll-stats/internal/core/model"
	"github.com/penwyp/go-enroll-stats/internal/data/scanner"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

// ratioSentinel is the starting minimum; only ratios strictly below it win.
const ratioSentinel = 1.0

type Config struct {
	SectionDir string
	OverallDir string
	MinTotal   int // files whose final total is below this are skipped
}

// Result is the file with the lowest available/total ratio in a directory.
// When no file qualifies, Found is false and the other fields are zero.
type Result struct {
	File      string  `json:"file"`
	Available int     `json:"available"`
	Total     int     `json:"total"`
	Ratio     float64 `json:"ratio"`
	Found     bool    `json:"found"`
}

// Report holds the results for the section and overall directories.
type Report struct {
	Section Result `json:"section"`
	Overall Result `json:"overall"`
}

type Analyzer struct {
	config *Config
}

func New(config *Config) *Analyzer {
	return &Analyzer{config: config}
}

// Run scans the section directory and then the overall directory.
func (a *Analyzer) Run() (*Report, error) {
	startTime := time.Now()
	util.LogInfo("Starting diff scan",
		util.F("section_dir", a.config.SectionDir),
		util.F("overall_dir", a.config.OverallDir),
		util.F("min_total", a.config.MinTotal))

	section, _, err := a.FindBiggestDrop(a.config.SectionDir)
	if err != nil {
		return nil, err
	}
	overall, _, err := a.FindBiggestDrop(a.config.OverallDir)
	if err != nil {
		return nil, err
	}

	util.LogDebug("Diff scan finished", util.F("duration", util.FormatDuration(time.Since(startTime))))
	return &Report{Section: section, Overall: overall}, nil
}

// FindBiggestDrop returns the file in dir whose final row has the lowest
// available/total ratio. Files are visited in directory order and the first
// file wins a tie. Files with unusable content are skipped and counted in the
// returned stats; a directory or file that cannot be read is an error.
func (a *Analyzer) FindBiggestDrop(dir string) (Result, *ScanStats, error) {
	stats := NewScanStats()

	files, err := scanner.NewFileScanner(dir).Scan()
	if err != nil {
		return Result{}, stats, fmt.Errorf("failed to scan directory: %w", err)
	}

	best := Result{Ratio: ratioSentinel}
	for _, file := range files {
		stats.IncrementTotal()

		available, total, err := a.readFinalCounts(file)
		if err != nil {
			var skip *SkipError
			if errors.As(err, &skip) {
				stats.IncrementSkip(file, skip.Reason)
				util.LogDebug("Skipping file", util.F("file", file), util.F("reason", skip.Reason.String()))
				continue
			}
			return Result{}, stats, err
		}
		stats.IncrementAccepted()

		ratio := float64(available) / float64(total)
		if ratio < best.Ratio {
			best = Result{
				File:      filepath.Base(file),
				Available: available,
				Total:     total,
				Ratio:     ratio,
				Found:     true,
			}
		}
	}

	stats.PrintFinalStats(dir)

	if !best.Found {
		return Result{}, stats, nil
	}
	return best, stats, nil
}

// readFinalCounts returns the available and total columns of the last line
// of file. Content problems are reported as a *SkipError; a file that cannot
// be opened or read is a plain error and aborts the scan.
func (a *Analyzer) readFinalCounts(file string) (int, int, error) {
	line, err := scanner.LastLine(file)
	if err != nil {
		if errors.Is(err, scanner.ErrEmptyFile) {
			return 0, 0, &SkipError{File: file, Reason: SkipEmpty}
		}
		return 0, 0, fmt.Errorf("read %s: %w", file, err)
	}

	available, total, err := parseCounts(line)
	if err != nil {
		return 0, 0, &SkipError{File: file, Reason: SkipUnparsable, Err: err}
	}

	if total < a.config.MinTotal {
		return 0, 0, &SkipError{File: file, Reason: SkipBelowMinimum}
	}
	if total == 0 {
		return 0, 0, &SkipError{File: file, Reason: SkipZeroTotal}
	}
	return available, total, nil
}

// parseCounts extracts available and total from a split output row.
func parseCounts(line string) (int, int, error) {
	fields := strings.Split(line, ",")
	if len(fields) <= model.OutColTotal {
		return 0, 0, fmt.Errorf("expected at least %d columns, got %d", model.OutColTotal+1, len(fields))
	}

	available, err := strconv.Atoi(strings.TrimSpace(fields[model.OutColAvailable]))
	if err != nil {
		return 0, 0, fmt.Errorf("available: %w", err)
	}
	total, err := strconv.Atoi(strings.TrimSpace(fields[model.OutColTotal]))
	if err != nil {
		return 0, 0, fmt.Errorf("total: %w", err)
	}
	return available, total, nil
}
