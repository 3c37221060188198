package fixtures

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/penwyp/go-enroll-stats/internal/core/model"
)

// RawRow is one line of a tracker enrollment log.
type RawRow struct {
	TimeMs    int64
	Course    string
	Section   string
	SectionID string
	Prof      string
	Available int
	Waitlist  int
	Total     int
}

// Enrolled is the enrolled count the tracker derives from the seat counts.
func (r RawRow) Enrolled() int {
	return r.Total - r.Available
}

func (r RawRow) line() string {
	return strings.Join([]string{
		strconv.FormatInt(r.TimeMs, 10),
		r.Course,
		r.Section,
		r.SectionID,
		r.Prof,
		strconv.Itoa(r.Available),
		strconv.Itoa(r.Waitlist),
		strconv.Itoa(r.Total),
		strconv.Itoa(r.Enrolled()),
	}, ",")
}

// SectionSpec describes one section offered by a generated course.
type SectionSpec struct {
	Code  string
	Prof  string
	Total int
}

// CourseSpec describes a generated course.
type CourseSpec struct {
	Course   string
	Sections []SectionSpec
}

// TestDataGenerator writes enrollment fixtures below baseDir.
type TestDataGenerator struct {
	baseDir string
	rng     *rand.Rand
}

// NewTestDataGenerator creates a generator with a fixed seed so fixtures are
// reproducible.
func NewTestDataGenerator(baseDir string) *TestDataGenerator {
	return &TestDataGenerator{
		baseDir: baseDir,
		rng:     rand.New(rand.NewSource(42)),
	}
}

// GetBaseDir returns the directory fixtures are written to.
func (g *TestDataGenerator) GetBaseDir() string {
	return g.baseDir
}

// WriteRawLog writes the tracker header followed by rows and returns the path.
func (g *TestDataGenerator) WriteRawLog(filename string, rows []RawRow) (string, error) {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, model.RawHeader)
	for _, r := range rows {
		lines = append(lines, r.line())
	}
	return g.writeLines(filename, lines)
}

// AppendRawRows appends rows to an existing raw log.
func (g *TestDataGenerator) AppendRawRows(filename string, rows []RawRow) error {
	path := filepath.Join(g.baseDir, filename)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, r := range rows {
		if _, err := fmt.Fprintln(f, r.line()); err != nil {
			return err
		}
	}
	return f.Close()
}

// GenerateSnapshots builds snapshots of every section of courses, interval
// apart starting at start. Rows within one snapshot get timestamps up to
// jitterMs after the snapshot time, the way a slow tracker records them.
// Available seats shrink over time.
func (g *TestDataGenerator) GenerateSnapshots(courses []CourseSpec, start time.Time, snapshots int, interval time.Duration, jitterMs int64) []RawRow {
	var rows []RawRow
	id := 100000

	for s := 0; s < snapshots; s++ {
		base := start.Add(time.Duration(s) * interval).UnixMilli()
		for _, c := range courses {
			for i, sec := range c.Sections {
				var jitter int64
				if jitterMs > 0 {
					jitter = g.rng.Int63n(jitterMs + 1)
				}
				available := sec.Total - (sec.Total*s)/snapshots
				rows = append(rows, RawRow{
					TimeMs:    base + jitter,
					Course:    c.Course,
					Section:   sec.Code,
					SectionID: strconv.Itoa(id + i),
					Prof:      sec.Prof,
					Available: available,
					Waitlist:  s,
					Total:     sec.Total,
				})
			}
		}
	}
	return rows
}

// WriteSplitFile writes a split output file with the given data rows.
func (g *TestDataGenerator) WriteSplitFile(dir, filename string, rows [][]string) (string, error) {
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(model.SplitHeader, ","))
	for _, r := range rows {
		lines = append(lines, strings.Join(r, ","))
	}
	return g.writeLines(filepath.Join(dir, filename), lines)
}

// CreateDir creates a directory below the base directory.
func (g *TestDataGenerator) CreateDir(name string) (string, error) {
	dir := filepath.Join(g.baseDir, name)
	return dir, os.MkdirAll(dir, 0755)
}

// CleanupTestData removes every generated file.
func (g *TestDataGenerator) CleanupTestData() error {
	return os.RemoveAll(g.baseDir)
}

func (g *TestDataGenerator) writeLines(filename string, lines []string) (string, error) {
	path := filepath.Join(g.baseDir, filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", err
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", err
	}
	return path, nil
}
