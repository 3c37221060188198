package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-enroll-stats/internal/config"
	"github.com/penwyp/go-enroll-stats/internal/util"
)

var (
	// Config file
	cfgFile string

	// Logging related
	debug bool

	// Output related
	timezone string

	// Wait for Enter before exiting
	pause bool

	// cfg is the effective configuration of the running command.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "enrollstats",
		Short: "Course enrollment log post-processing toolkit",
		Long: `enrollstats post-processes CSV logs of course enrollment snapshots.

The raw log written by the enrollment tracker flows through three stages,
each available as its own command:

  fix-times   snap timestamps of one snapshot to a single value
  split       write one CSV per course and per section group
  diff        find the file whose seats dropped the most

Examples:
  enrollstats fix-times                         # enrollment.csv -> enrollment_fixed.csv
  enrollstats split --mkdir                     # write ./overall and ./section
  enrollstats diff -o table                     # report the biggest drop as a table
  enrollstats pipeline                          # all three stages in order
  enrollstats watch                             # re-run the pipeline when the log changes
  enrollstats --config ./stats.yaml config      # print the effective configuration`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default .enrollstats.yaml in the working directory or $HOME)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&timezone, "timezone", "",
		"Timezone for split output times (e.g., Local, UTC, America/Los_Angeles)")
	rootCmd.PersistentFlags().BoolVar(&pause, "pause", false,
		"Wait for Enter before exiting when run from a terminal")
}

// setup loads the configuration and initializes logging and the time
// provider before any subcommand runs.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("timezone") {
		loaded.Timezone = timezone
	}
	cfg = loaded

	logLevel := cfg.Logging.Level
	if debug {
		logLevel = "debug"
	}

	if cfg.Logging.File == "" && !debug {
		util.SetLogger(util.Discard())
	} else {
		logFile := ""
		if cfg.Logging.File != "" {
			logFile = expandPath(cfg.Logging.File)
			if err := ensureDir(filepath.Dir(logFile)); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		runID, err := util.InitLogger(logLevel, cfg.Logging.Format, logFile, debug)
		if err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}
		util.LogDebug("Logger initialized", util.F("command", cmd.Name()), util.F("run_id", runID))
	}

	if err := util.InitializeTimeProvider(cfg.Timezone); err != nil {
		return fmt.Errorf("failed to initialize timezone: %w", err)
	}
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if pause && util.IsInteractive(os.Stdin) {
		fmt.Fprint(cmd.OutOrStdout(), "Press Enter to exit...")
		util.WaitForEnter(cmd.InOrStdin())
	}
	util.SetLogger(util.Discard())
	return nil
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// overrideString copies a string flag into target when the user set it.
func overrideString(cmd *cobra.Command, name string, target *string) {
	if cmd.Flags().Changed(name) {
		*target, _ = cmd.Flags().GetString(name)
	}
}

func overrideInt(cmd *cobra.Command, name string, target *int) {
	if cmd.Flags().Changed(name) {
		*target, _ = cmd.Flags().GetInt(name)
	}
}

func overrideInt64(cmd *cobra.Command, name string, target *int64) {
	if cmd.Flags().Changed(name) {
		*target, _ = cmd.Flags().GetInt64(name)
	}
}

func overrideBool(cmd *cobra.Command, name string, target *bool) {
	if cmd.Flags().Changed(name) {
		*target, _ = cmd.Flags().GetBool(name)
	}
}
