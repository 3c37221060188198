package formatter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/penwyp/go-enroll-stats/internal/core/model"
	"github.com/penwyp/go-enroll-stats/internal/data/aggregator"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

// BucketWriter writes aggregated buckets as split output CSV files.
type BucketWriter struct {
	sectionDir string
	overallDir string
	createDirs bool
	tp         *util.TimeProvider
}

// NewBucketWriter creates a writer targeting the given directories. Times are
// rendered in tp's location; a nil tp uses the global provider.
func NewBucketWriter(sectionDir, overallDir string, tp *util.TimeProvider) *BucketWriter {
	if tp == nil {
		tp = util.GetTimeProvider()
	}
	return &BucketWriter{
		sectionDir: sectionDir,
		overallDir: overallDir,
		tp:         tp,
	}
}

// WithCreateDirs makes Write create missing output directories.
func (w *BucketWriter) WithCreateDirs(create bool) *BucketWriter {
	w.createDirs = create
	return w
}

// Write writes every overall bucket, then every section bucket, in the
// aggregator's first-seen order. Existing files are overwritten. A failure
// stops the run and leaves already written files in place.
func (w *BucketWriter) Write(agg *aggregator.Aggregator) (*SplitSummary, error) {
	start := time.Now()

	if w.createDirs {
		for _, dir := range []string{w.overallDir, w.sectionDir} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create output directory %s: %w", dir, err)
			}
		}
	}

	summary := &SplitSummary{InputRows: agg.Rows()}

	for _, cb := range agg.Overall() {
		path := filepath.Join(w.overallDir, cb.FileName())
		if err := w.WriteFile(path, cb.Bucket); err != nil {
			return summary, err
		}
		summary.Overall = append(summary.Overall, WrittenFile{Name: cb.FileName(), Path: path, Rows: cb.Bucket.Len()})
	}

	for _, sb := range agg.Sections() {
		path := filepath.Join(w.sectionDir, sb.FileName())
		if err := w.WriteFile(path, sb.Bucket); err != nil {
			return summary, err
		}
		summary.Sections = append(summary.Sections, WrittenFile{Name: sb.FileName(), Path: path, Rows: sb.Bucket.Len()})
	}

	util.LogInfo("Split output written",
		util.F("overall_files", len(summary.Overall)),
		util.F("section_files", len(summary.Sections)),
		util.F("input_rows", util.FormatCount(summary.InputRows)),
		util.F("duration", util.FormatDuration(time.Since(start))))

	return summary, nil
}

// WriteFile creates or truncates path and writes bucket to it.
func (w *BucketWriter) WriteFile(path string, bucket *model.Bucket) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	if err := w.WriteBucket(file, bucket); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	util.LogDebug("Wrote bucket", util.F("path", path), util.F("rows", bucket.Len()))
	return file.Close()
}

// WriteBucket writes the header and one row per timestamp to out.
func (w *BucketWriter) WriteBucket(out io.Writer, bucket *model.Bucket) error {
	cw := csv.NewWriter(out)

	if err := cw.Write(model.SplitHeader); err != nil {
		return err
	}

	record := make([]string, len(model.SplitHeader))
	for _, ts := range bucket.Timestamps() {
		counts, _ := bucket.Get(ts)

		formatted, err := w.tp.FormatEpochMillis(ts)
		if err != nil {
			return err
		}
		row := model.NewNormalizedRow(formatted, counts)

		record[model.OutColTime] = row.Time
		record[model.OutColAvailable] = strconv.Itoa(row.Available)
		record[model.OutColWaitlisted] = strconv.Itoa(row.Waitlisted)
		record[model.OutColTotal] = strconv.Itoa(row.Total)
		record[model.OutColNormalized] = util.FormatRatio(row.Normalized)
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
