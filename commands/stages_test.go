package commands

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-enroll-stats/internal/analyzer"
	"github.com/penwyp/go-enroll-stats/internal/data/normalizer"
	"github.com/penwyp/go-enroll-stats/internal/data/parser"
	"github.com/penwyp/go-enroll-stats/internal/testing/fixtures"
)

func writeRaw(t *testing.T, dir string, rows []fixtures.RawRow) *fixtures.TestDataGenerator {
	t.Helper()
	gen := fixtures.NewTestDataGenerator(dir)
	_, err := gen.WriteRawLog("enrollment.csv", rows)
	require.NoError(t, err)
	return gen
}

func readString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestFixTimesCommand(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, []fixtures.RawRow{
		{TimeMs: 1000, Course: "CSE 100", Section: "A01", Available: 5, Waitlist: 1, Total: 30},
		{TimeMs: 1005, Course: "CSE 100", Section: "B01", Available: 10, Total: 20},
		{TimeMs: 1200, Course: "CSE 100", Section: "A01", Available: 4, Waitlist: 2, Total: 30},
	})

	out, err := executeCommand(t, dir, "fix-times")
	require.NoError(t, err)
	assert.Equal(t, "Fixed 1 lines (out of 4 total lines).\n", out)

	fixed, err := parser.NewParser().ParseFile(filepath.Join(dir, "enrollment_fixed.csv"))
	require.NoError(t, err)
	require.Len(t, fixed, 3)
	assert.Equal(t, "1000", fixed[0].Timestamp)
	assert.Equal(t, "1000", fixed[1].Timestamp)
	assert.Equal(t, "1200", fixed[2].Timestamp)
}

func TestFixTimesCommandFlags(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, []fixtures.RawRow{
		{TimeMs: 1000, Course: "CSE 100", Section: "A01", Total: 1},
		{TimeMs: 1050, Course: "CSE 100", Section: "B01", Total: 1},
		{TimeMs: 900, Course: "CSE 100", Section: "A01", Total: 1},
	})

	out, err := executeCommand(t, dir, "fix-times", "--input", "enrollment.csv", "--output", "out.csv", "--tolerance", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "Fixed 2 lines (out of 4 total lines).")
	assert.FileExists(t, filepath.Join(dir, "out.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "enrollment_fixed.csv"))
}

func TestFixTimesCommandBackwardWarning(t *testing.T) {
	dir := t.TempDir()
	writeRaw(t, dir, []fixtures.RawRow{
		{TimeMs: 5000, Course: "CSE 100", Section: "A01", Total: 1},
		{TimeMs: 1000, Course: "CSE 100", Section: "B01", Total: 1},
	})

	out, err := executeCommand(t, dir, "fix-times")
	require.NoError(t, err)
	assert.Contains(t, out, "Fixed 0 lines (out of 3 total lines).")
	assert.Contains(t, out, "1 rows went backwards")
}

func TestFixTimesCommandBadTimestamp(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "enrollment.csv"),
		[]byte("time,subj_course_id\n1000,CSE 100\nnoon,CSE 100\n"), 0644))

	_, err := executeCommand(t, dir, "fix-times")
	require.Error(t, err)

	var lerr *normalizer.LineError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, 3, lerr.Line)
}

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	gen := fixtures.NewTestDataGenerator(dir)
	_, err := gen.WriteRawLog("enrollment_fixed.csv", []fixtures.RawRow{
		{TimeMs: 1000, Course: "CSE 100", Section: "A01", Available: 5, Waitlist: 1, Total: 30},
		{TimeMs: 1000, Course: "CSE 100", Section: "B01", Available: 10, Total: 20},
	})
	require.NoError(t, err)

	out, err := executeCommand(t, dir, "--timezone", "UTC", "split", "--mkdir")
	require.NoError(t, err)
	assert.Contains(t, out, "Split 2 rows into 3 files")

	assert.Equal(t,
		"time,available,waitlisted,total,normalized\n1970-01-01T00:00:01,15,1,50,0.3\n",
		readString(t, filepath.Join(dir, "overall", "CSE 100.csv")))
	assert.Equal(t,
		"time,available,waitlisted,total,normalized\n1970-01-01T00:00:01,5,1,30,0.16666666666666666\n",
		readString(t, filepath.Join(dir, "section", "CSE 100_A.csv")))
	assert.Equal(t,
		"time,available,waitlisted,total,normalized\n1970-01-01T00:00:01,10,0,20,0.5\n",
		readString(t, filepath.Join(dir, "section", "CSE 100_B.csv")))
}

func TestSplitCommandMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	gen := fixtures.NewTestDataGenerator(dir)
	_, err := gen.WriteRawLog("enrollment_fixed.csv", []fixtures.RawRow{
		{TimeMs: 1000, Course: "CSE 100", Section: "A01", Total: 30},
	})
	require.NoError(t, err)

	_, err = executeCommand(t, dir, "split")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestSplitCommandMalformedRow(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "in.csv"),
		[]byte("h\n1000,CSE 100,A01,1,Smith,5,one,30,0\n"), 0644))

	_, err := executeCommand(t, dir, "split", "--input", "in.csv", "--mkdir")
	require.Error(t, err)

	var perr *parser.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func setupDiffDirs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	gen := fixtures.NewTestDataGenerator(dir)

	_, err := gen.WriteSplitFile("section", "CSE 100_A.csv", [][]string{{"2022-01-01T00:00:00", "20", "0", "200", "0.1"}})
	require.NoError(t, err)
	_, err = gen.WriteSplitFile("section", "CSE 100_B.csv", [][]string{{"2022-01-01T00:00:00", "0", "0", "50", "0"}})
	require.NoError(t, err)
	_, err = gen.WriteSplitFile("overall", "CSE 100.csv", [][]string{{"2022-01-01T00:00:00", "20", "0", "250", "0.08"}})
	require.NoError(t, err)
	return dir
}

func TestDiffCommand(t *testing.T) {
	dir := setupDiffDirs(t)

	out, err := executeCommand(t, dir, "diff")
	require.NoError(t, err)
	assert.Equal(t, "Section: (CSE 100_A.csv, 20, 200)\nOverall: (CSE 100.csv, 20, 250)\n", out)
}

func TestDiffCommandMinTotal(t *testing.T) {
	dir := setupDiffDirs(t)

	out, err := executeCommand(t, dir, "diff", "--min-total", "10")
	require.NoError(t, err)
	assert.Equal(t, "Section: (CSE 100_B.csv, 0, 50)\nOverall: (CSE 100.csv, 20, 250)\n", out)
}

func TestDiffCommandJSON(t *testing.T) {
	dir := setupDiffDirs(t)

	out, err := executeCommand(t, dir, "diff", "-o", "json")
	require.NoError(t, err)

	var report analyzer.Report
	require.NoError(t, sonic.UnmarshalString(out, &report))
	assert.Equal(t, "CSE 100_A.csv", report.Section.File)
	assert.Equal(t, 250, report.Overall.Total)
}

func TestDiffCommandBadFormat(t *testing.T) {
	_, err := executeCommand(t, setupDiffDirs(t), "diff", "-o", "xml")
	assert.Error(t, err)
}

func TestDiffCommandMissingDirectory(t *testing.T) {
	_, err := executeCommand(t, t.TempDir(), "diff")
	assert.Error(t, err)
}

func TestPipelineCommand(t *testing.T) {
	dir := t.TempDir()
	gen := fixtures.NewTestDataGenerator(dir)
	rows := gen.GenerateSnapshots([]fixtures.CourseSpec{
		{Course: "CSE 100", Sections: []fixtures.SectionSpec{
			{Code: "A01", Prof: "Smith", Total: 200},
			{Code: "B01", Prof: "Jones", Total: 150},
		}},
	}, time.Date(2022, 5, 1, 8, 0, 0, 0, time.UTC), 3, time.Hour, 4)
	_, err := gen.WriteRawLog("enrollment.csv", rows)
	require.NoError(t, err)

	out, err := executeCommand(t, dir, "pipeline", "--mkdir")
	require.NoError(t, err)

	assert.Contains(t, out, "total lines).")
	assert.Contains(t, out, "Split 6 rows into 3 files")
	assert.Contains(t, out, "Section: (CSE 100_")
	assert.Contains(t, out, "Overall: (CSE 100.csv, ")
	assert.FileExists(t, filepath.Join(dir, "enrollment_fixed.csv"))
}
