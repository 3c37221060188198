package commands

import (
	"github.com/spf13/cobra"

	"github.com/penwyp/go-enroll-stats/internal/analyzer"
	"github.com/penwyp/go-enroll-stats/internal/presentation/formatter"
)

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Find the course file with the lowest available/total seat ratio",
	Long: `Reads the last row of every file in the section and overall directories
and reports, per directory, the file with the lowest available/total ratio.

Files whose last total is below the minimum, whose total is zero, or whose
last row cannot be parsed are skipped. A ratio must be below 1 to be
reported; when nothing qualifies the result is (, 0, 0).`,
	RunE: runDiff,
}

func init() {
	rootCmd.AddCommand(diffCmd)

	diffCmd.Flags().String("section", "", "Per-section directory (default split.section_dir)")
	diffCmd.Flags().String("overall", "", "Per-course directory (default split.overall_dir)")
	diffCmd.Flags().Int("min-total", 0, "Smallest total seat count considered (default diff.min_total)")
	diffCmd.Flags().StringP("output", "o", "", "Output format: text, table, json (default diff.output)")
}

func runDiff(cmd *cobra.Command, args []string) error {
	overrideString(cmd, "section", &cfg.Split.SectionDir)
	overrideString(cmd, "overall", &cfg.Split.OverallDir)
	overrideInt(cmd, "min-total", &cfg.Diff.MinTotal)
	overrideString(cmd, "output", &cfg.Diff.Output)

	f, err := formatter.NewReportFormatter(cfg.Diff.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	report, err := analyzer.New(&analyzer.Config{
		SectionDir: cfg.Split.SectionDir,
		OverallDir: cfg.Split.OverallDir,
		MinTotal:   cfg.Diff.MinTotal,
	}).Run()
	if err != nil {
		return err
	}

	return f.Format(report)
}
