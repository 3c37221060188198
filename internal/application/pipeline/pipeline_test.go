package pipeline

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-enroll-stats/internal/config"
	"github.com/penwyp/go-enroll-stats/internal/data/parser"
	"github.com/penwyp/go-enroll-stats/internal/testing/fixtures"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

var courses = []fixtures.CourseSpec{
	{Course: "CSE 100", Sections: []fixtures.SectionSpec{
		{Code: "A01", Prof: "Smith", Total: 120},
		{Code: "A02", Prof: "Smith", Total: 80},
		{Code: "B01", Prof: "Jones", Total: 150},
	}},
	{Course: "MATH 20C", Sections: []fixtures.SectionSpec{
		{Code: "001", Prof: "Lee", Total: 300},
	}},
}

func newTestPipeline(t *testing.T, snapshots int) (*Pipeline, *fixtures.TestDataGenerator) {
	t.Helper()

	gen := fixtures.NewTestDataGenerator(t.TempDir())
	start := time.Date(2022, 5, 1, 8, 0, 0, 0, time.UTC)
	raw, err := gen.WriteRawLog("enrollment.csv", gen.GenerateSnapshots(courses, start, snapshots, 10*time.Minute, 5))
	require.NoError(t, err)

	tp, err := util.NewTimeProvider("UTC")
	require.NoError(t, err)

	base := gen.GetBaseDir()
	return New(&PipelineConfig{
		RawFile:      raw,
		FixedFile:    filepath.Join(base, "enrollment_fixed.csv"),
		SectionDir:   filepath.Join(base, "section"),
		OverallDir:   filepath.Join(base, "overall"),
		CreateDirs:   true,
		ToleranceMs:  10,
		MinTotal:     100,
		TimeProvider: tp,
	}), gen
}

func TestPipelineRun(t *testing.T) {
	p, _ := newTestPipeline(t, 4)

	result, err := p.Run()
	require.NoError(t, err)

	// 4 snapshots x 4 sections, plus the header.
	assert.Equal(t, 17, result.Normalize.Total)
	assert.Equal(t, 0, result.Normalize.Backward)

	// Overall: CSE 100, MATH 20C. Sections: CSE 100_A, CSE 100_B, MATH 20C_001.
	assert.Len(t, result.Split.Overall, 2)
	assert.Len(t, result.Split.Sections, 3)

	// After normalization every snapshot collapses to a single timestamp.
	for _, f := range append(result.Split.Overall, result.Split.Sections...) {
		assert.Equal(t, 4, f.Rows, f.Name)
	}

	records, err := parser.NewParser().ParseFile(p.Config().FixedFile)
	require.NoError(t, err)
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Timestamp] = struct{}{}
	}
	assert.Len(t, seen, 4)

	require.NotNil(t, result.Report)
	assert.True(t, result.Report.Overall.Found)
	assert.True(t, result.Report.Section.Found)
	assert.FileExists(t, filepath.Join(p.Config().OverallDir, result.Report.Overall.File))
	assert.FileExists(t, filepath.Join(p.Config().SectionDir, result.Report.Section.File))
}

func TestPipelineRunMissingRawFile(t *testing.T) {
	p, _ := newTestPipeline(t, 1)
	require.NoError(t, os.Remove(p.Config().RawFile))

	_, err := p.Run()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fix-times")
}

func TestPipelineRunMalformedCounts(t *testing.T) {
	p, gen := newTestPipeline(t, 1)
	_, err := gen.WriteRawLog("enrollment.csv", nil)
	require.NoError(t, err)
	f, err := os.OpenFile(p.Config().RawFile, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("1000,CSE 100,A01,1,Smith,many,0,10,0\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = p.Run()
	require.Error(t, err)

	var perr *parser.ParseError
	assert.ErrorAs(t, err, &perr)
	assert.Contains(t, err.Error(), "split")
}

func TestPipelineRunWithoutCreateDirs(t *testing.T) {
	p, _ := newTestPipeline(t, 1)
	p.Config().CreateDirs = false

	_, err := p.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Split.CreateDirs = true

	pc := FromConfig(cfg)
	assert.Equal(t, config.DefaultRawFile, pc.RawFile)
	assert.Equal(t, config.DefaultFixedFile, pc.FixedFile)
	assert.Equal(t, config.DefaultSectionDir, pc.SectionDir)
	assert.Equal(t, config.DefaultOverallDir, pc.OverallDir)
	assert.True(t, pc.CreateDirs)
	assert.Equal(t, int64(config.DefaultToleranceMs), pc.ToleranceMs)
	assert.Equal(t, config.DefaultMinTotal, pc.MinTotal)
	assert.Nil(t, pc.TimeProvider)
}
