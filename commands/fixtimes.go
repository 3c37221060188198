package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-enroll-stats/internal/data/normalizer"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

var fixTimesCmd = &cobra.Command{
	Use:   "fix-times",
	Short: "Snap near-duplicate timestamps of one snapshot to a single value",
	Long: `Copies the raw enrollment log to the fixed log, rewriting the timestamp of
every row that lies within the tolerance of the current snapshot time.

Rows of one snapshot must be contiguous in the input. Rows that jump
backwards past the tolerance are reported.`,
	RunE: runFixTimes,
}

func init() {
	rootCmd.AddCommand(fixTimesCmd)

	fixTimesCmd.Flags().String("input", "", "Raw enrollment log (default files.raw)")
	fixTimesCmd.Flags().String("output", "", "Fixed enrollment log to write (default files.fixed)")
	fixTimesCmd.Flags().Int64("tolerance", normalizer.DefaultTolerance, "Largest drift in milliseconds treated as skew (default fix.tolerance_ms)")
}

func runFixTimes(cmd *cobra.Command, args []string) error {
	overrideString(cmd, "input", &cfg.Files.Raw)
	overrideString(cmd, "output", &cfg.Files.Fixed)
	overrideInt64(cmd, "tolerance", &cfg.Fix.ToleranceMs)

	if cfg.Fix.ToleranceMs < 0 {
		return fmt.Errorf("tolerance must not be negative")
	}

	res, err := normalizer.NewNormalizer(cfg.Fix.ToleranceMs).NormalizeFile(cfg.Files.Raw, cfg.Files.Fixed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Summary())
	if res.Backward > 0 {
		util.FprintWarning(out, fmt.Sprintf("Warning: %d rows went backwards in time; snapshots may be interleaved.", res.Backward))
	}
	return nil
}
