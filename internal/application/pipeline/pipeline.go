package pipeline

import (
	"fmt"
	"sync"
	"time"

	"github.com/penwyp/go-enroll-stats/internal/analyzer"
	"github.com/penwyp/go-enroll-stats/internal/data/aggregator"
	"github.com/penwyp/go-enroll-stats/internal/data/normalizer"
	"github.com/penwyp/go-enroll-stats/internal/data/parser"
	"github.com/penwyp/go-enroll-stats/internal/presentation/formatter"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

// RunResult collects the output of each stage of a run.
type RunResult struct {
	Normalize normalizer.Result
	Split     *formatter.SplitSummary
	Report    *analyzer.Report
	Duration  time.Duration
}

// Pipeline runs fix-times, split and diff in order. Stages hand data to each
// other only through the files named in the config.
type Pipeline struct {
	config *PipelineConfig

	runMutex sync.Mutex // one run at a time
}

func New(config *PipelineConfig) *Pipeline {
	return &Pipeline{config: config}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() *PipelineConfig {
	return p.config
}

// Run executes the three stages. The first failing stage aborts the run;
// files written by earlier stages are left in place.
func (p *Pipeline) Run() (*RunResult, error) {
	p.runMutex.Lock()
	defer p.runMutex.Unlock()

	start := time.Now()
	util.LogInfo("Starting pipeline run", util.F("raw", p.config.RawFile))

	// Stage 1: timestamps
	norm, err := normalizer.NewNormalizer(p.config.ToleranceMs).NormalizeFile(p.config.RawFile, p.config.FixedFile)
	if err != nil {
		return nil, fmt.Errorf("fix-times: %w", err)
	}

	// Stage 2: split
	agg, err := aggregator.AggregateFile(parser.NewParser(), p.config.FixedFile)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}
	summary, err := formatter.NewBucketWriter(p.config.SectionDir, p.config.OverallDir, p.config.TimeProvider).
		WithCreateDirs(p.config.CreateDirs).
		Write(agg)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	// Stage 3: diff
	report, err := analyzer.New(&analyzer.Config{
		SectionDir: p.config.SectionDir,
		OverallDir: p.config.OverallDir,
		MinTotal:   p.config.MinTotal,
	}).Run()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}

	result := &RunResult{
		Normalize: norm,
		Split:     summary,
		Report:    report,
		Duration:  time.Since(start),
	}
	util.LogInfo("Pipeline run finished",
		util.F("fixed", norm.Fixed),
		util.F("files", summary.Files()),
		util.F("duration", util.FormatDuration(result.Duration)))
	return result, nil
}
