package pipeline

import (
	"github.com/penwyp/go-enroll-stats/internal/config"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

// PipelineConfig holds the paths and thresholds of one fix-times, split and
// diff run.
type PipelineConfig struct {
	RawFile     string
	FixedFile   string
	SectionDir  string
	OverallDir  string
	CreateDirs  bool
	ToleranceMs int64
	MinTotal    int

	// TimeProvider renders split timestamps; nil uses the global provider.
	TimeProvider *util.TimeProvider
}

// FromConfig builds a PipelineConfig from the loaded configuration.
func FromConfig(cfg *config.Config) *PipelineConfig {
	return &PipelineConfig{
		RawFile:     cfg.Files.Raw,
		FixedFile:   cfg.Files.Fixed,
		SectionDir:  cfg.Split.SectionDir,
		OverallDir:  cfg.Split.OverallDir,
		CreateDirs:  cfg.Split.CreateDirs,
		ToleranceMs: cfg.Fix.ToleranceMs,
		MinTotal:    cfg.Diff.MinTotal,
	}
}
