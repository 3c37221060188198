package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-enroll-stats/internal/application/pipeline"
	"github.com/penwyp/go-enroll-stats/internal/presentation/formatter"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run fix-times, split and diff in order",
	Long: `Runs the three stages with the configured paths. Each stage reads the
files the previous stage wrote, exactly as running the commands one by one.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.Flags().Bool("mkdir", false, "Create missing output directories")
	pipelineCmd.Flags().StringP("output", "o", "", "Diff output format: text, table, json (default diff.output)")
}

func runPipeline(cmd *cobra.Command, args []string) error {
	overrideBool(cmd, "mkdir", &cfg.Split.CreateDirs)
	overrideString(cmd, "output", &cfg.Diff.Output)

	f, err := formatter.NewReportFormatter(cfg.Diff.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	result, err := newPipeline().Run()
	if err != nil {
		return err
	}
	return printRunResult(cmd.OutOrStdout(), f, result)
}

func newPipeline() *pipeline.Pipeline {
	pc := pipeline.FromConfig(cfg)
	pc.TimeProvider = util.GetTimeProvider()
	return pipeline.New(pc)
}

func printRunResult(out io.Writer, f formatter.ReportFormatter, result *pipeline.RunResult) error {
	fmt.Fprintln(out, result.Normalize.Summary())
	if result.Normalize.Backward > 0 {
		util.FprintWarning(out, fmt.Sprintf("Warning: %d rows went backwards in time; snapshots may be interleaved.", result.Normalize.Backward))
	}
	if err := formatter.NewSummaryFormatter(out).Format(result.Split); err != nil {
		return err
	}
	return f.Format(result.Report)
}
