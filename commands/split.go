package commands

import (
	"github.com/spf13/cobra"

	"github.com/penwyp/go-enroll-stats/internal/data/aggregator"
	"github.com/penwyp/go-enroll-stats/internal/data/parser"
	"github.com/penwyp/go-enroll-stats/internal/presentation/formatter"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

var splitCmd = &cobra.Command{
	Use:   "split",
	Short: "Split an enrollment log into per-course and per-section CSV files",
	Long: `Sums the seat counts of every snapshot per course and per section group
and writes one CSV per course to the overall directory and one per
course and section group to the section directory.

Section codes are grouped by their first character (A01, A02 -> A) unless
they are purely numeric (001 stays 001). Output directories must exist
unless --mkdir is given.`,
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().String("input", "", "Enrollment log to split (default files.fixed)")
	splitCmd.Flags().String("section", "", "Per-section output directory (default split.section_dir)")
	splitCmd.Flags().String("overall", "", "Per-course output directory (default split.overall_dir)")
	splitCmd.Flags().Bool("mkdir", false, "Create missing output directories")
}

func runSplit(cmd *cobra.Command, args []string) error {
	input := cfg.Files.Fixed
	overrideString(cmd, "input", &input)
	overrideString(cmd, "section", &cfg.Split.SectionDir)
	overrideString(cmd, "overall", &cfg.Split.OverallDir)
	overrideBool(cmd, "mkdir", &cfg.Split.CreateDirs)

	util.LogInfo("Splitting enrollment log",
		util.F("input", input),
		util.F("section_dir", cfg.Split.SectionDir),
		util.F("overall_dir", cfg.Split.OverallDir))

	agg, err := aggregator.AggregateFile(parser.NewParser(), input)
	if err != nil {
		return err
	}

	summary, err := formatter.NewBucketWriter(cfg.Split.SectionDir, cfg.Split.OverallDir, util.GetTimeProvider()).
		WithCreateDirs(cfg.Split.CreateDirs).
		Write(agg)
	if err != nil {
		return err
	}

	return formatter.NewSummaryFormatter(cmd.OutOrStdout()).Format(summary)
}
