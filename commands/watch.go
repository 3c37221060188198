package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-enroll-stats/internal/application/pipeline"
	"github.com/penwyp/go-enroll-stats/internal/presentation/formatter"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the pipeline whenever the raw enrollment log changes",
	Long: `Runs the pipeline once, then again every time the raw log is written.
Writes closer together than the debounce interval trigger one run.
A failing run is reported and watching continues. Stop with Ctrl+C.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().Bool("mkdir", false, "Create missing output directories")
	watchCmd.Flags().StringP("output", "o", "", "Diff output format: text, table, json (default diff.output)")
	watchCmd.Flags().String("debounce", "", "Quiet period before a run, e.g. 2s (default watch.debounce)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	overrideBool(cmd, "mkdir", &cfg.Split.CreateDirs)
	overrideString(cmd, "output", &cfg.Diff.Output)
	overrideString(cmd, "debounce", &cfg.Watch.Debounce)

	if err := cfg.Validate(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	f, err := formatter.NewReportFormatter(cfg.Diff.Output, out)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return newPipeline().Watch(ctx, cfg.Watch.DebounceDuration(), func(result *pipeline.RunResult, err error) {
		util.FprintHeading(out, fmt.Sprintf("== %s ==", util.GetTimeProvider().Now().Format(util.ISOSecondLayout)))
		if err != nil {
			util.LogError("Pipeline run failed", util.F("error", err))
			util.FprintWarning(out, fmt.Sprintf("Error: %v", err))
			return
		}
		if err := printRunResult(out, f, result); err != nil {
			util.LogError("Failed to print run result", util.F("error", err))
		}
	})
}
