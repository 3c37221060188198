package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// executeCommand runs the root command with args inside a fresh working
// directory and home, returning everything written to stdout and stderr.
func executeCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	chdir(t, dir)
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(resetFlags)
	color.NoColor = true

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(""))
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so tests do not leak into
// each other through the package-level commands.
func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.PersistentFlags().VisitAll(reset)
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(reset)
	}
	cfg = nil
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected func(string) string
	}{
		{
			name:  "home directory expansion",
			input: "~/test/path",
			expected: func(home string) string {
				return filepath.Join(home, "test/path")
			},
		},
		{
			name:  "absolute path unchanged",
			input: "/absolute/path",
			expected: func(home string) string {
				return "/absolute/path"
			},
		},
		{
			name:  "relative path converted to absolute",
			input: "relative/path",
			expected: func(home string) string {
				abs, _ := filepath.Abs("relative/path")
				return abs
			},
		},
	}

	home, err := os.UserHomeDir()
	require.NoError(t, err)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected(home), expandPath(tt.input))
		})
	}
}

func TestEnsureDir(t *testing.T) {
	testDir := filepath.Join(t.TempDir(), "test", "nested", "dir")

	require.NoError(t, ensureDir(testDir))

	info, err := os.Stat(testDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Idempotent
	assert.NoError(t, ensureDir(testDir))
}

func TestCommandStructure(t *testing.T) {
	assert.Equal(t, "enrollstats", rootCmd.Use)
	assert.Contains(t, rootCmd.Long, "fix-times")

	names := make([]string, 0)
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"split", "fix-times", "diff", "pipeline", "watch", "config"} {
		assert.Contains(t, names, want)
	}
}

func TestRootPersistentFlags(t *testing.T) {
	tests := []struct {
		flagName string
		defValue string
	}{
		{"config", ""},
		{"debug", "false"},
		{"timezone", ""},
		{"pause", "false"},
	}

	for _, tt := range tests {
		t.Run(tt.flagName, func(t *testing.T) {
			flag := rootCmd.PersistentFlags().Lookup(tt.flagName)
			require.NotNil(t, flag, "Flag %s should exist", tt.flagName)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestSubcommandFlags(t *testing.T) {
	tests := []struct {
		cmd   *cobra.Command
		flags []string
	}{
		{splitCmd, []string{"input", "section", "overall", "mkdir"}},
		{fixTimesCmd, []string{"input", "output", "tolerance"}},
		{diffCmd, []string{"section", "overall", "min-total", "output"}},
		{pipelineCmd, []string{"mkdir", "output"}},
		{watchCmd, []string{"mkdir", "output", "debounce"}},
	}

	for _, tt := range tests {
		t.Run(tt.cmd.Name(), func(t *testing.T) {
			for _, name := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(name), "flag %s", name)
			}
		})
	}

	assert.Equal(t, "o", diffCmd.Flags().Lookup("output").Shorthand)
	assert.Equal(t, "10", fixTimesCmd.Flags().Lookup("tolerance").DefValue)
}

func TestOverrideHelpers(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().String("s", "", "")
	cmd.Flags().Int("i", 0, "")
	cmd.Flags().Int64("l", 0, "")
	cmd.Flags().Bool("b", false, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--s", "set", "--l", "7"}))

	s, i, l, b := "keep", 5, int64(1), true
	overrideString(cmd, "s", &s)
	overrideInt(cmd, "i", &i)
	overrideInt64(cmd, "l", &l)
	overrideBool(cmd, "b", &b)

	assert.Equal(t, "set", s)
	assert.Equal(t, 5, i)
	assert.Equal(t, int64(7), l)
	assert.True(t, b)
}

func TestConfigCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "stats.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("diff:\n  min_total: 250\nlogging:\n  file: \"\"\n"), 0644))

	out, err := executeCommand(t, dir, "--config", cfgPath, "--timezone", "UTC", "config")
	require.NoError(t, err)

	assert.Contains(t, out, "min_total: 250")
	assert.Contains(t, out, "timezone: UTC")
	assert.Contains(t, out, "section_dir: ./section")
}

func TestConfigCommandMissingExplicitFile(t *testing.T) {
	dir := t.TempDir()
	_, err := executeCommand(t, dir, "--config", filepath.Join(dir, "missing.yaml"), "config")
	assert.Error(t, err)
}

func TestInvalidTimezone(t *testing.T) {
	_, err := executeCommand(t, t.TempDir(), "--timezone", "Mars/Olympus", "config")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestDebugWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "logs", "app.log")
	cfgPath := filepath.Join(dir, ".enrollstats.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  file: "+logFile+"\n"), 0644))

	_, err := executeCommand(t, dir, "config")
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "Logger initialized")

	_, err = executeCommand(t, dir, "--debug", "config")
	require.NoError(t, err)

	data, err = os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Logger initialized")
	assert.Contains(t, string(data), "run_id=")
}
