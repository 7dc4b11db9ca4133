// Package cobra provides the Cobra-based CLI command tree for tinman.
package cobra

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/fs"
	"github.com/tinmanhq/tinman/internal/version"
)

// NewRootCmd creates the root cobra command for tinman.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tinman",
		Short: "Heartbeat runner for AI coding agents",
		Long: `tinman - heartbeat runner for AI coding agents

TinMan periodically hands your checklist to an external coding agent,
classifies the reply as "all clear" or "needs attention", records the result
in an append-only log, and optionally forwards alerts to a messaging bridge.
Register it with cron or launchd once and it runs unattended.`,
		Version:       version.FullVersion(),
		SilenceErrors: true, // We handle error printing in main.go
		SilenceUsage:  true, // We handle usage printing manually
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		newInitCmd(),
		newRunCmd(),
		newInstallCmd(),
		newUninstallCmd(),
		newStatusCmd(),
		newLogsCmd(),
		newVersionCmd(),
	)

	return rootCmd
}

// Execute runs the root command with the given output writers.
// This is the main entry point from main.go.
func Execute(stdout, stderr io.Writer) error {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	return rootCmd.Execute()
}

// resolveConfig builds the effective configuration for the current process.
func resolveConfig(presetFlag string) (config.Config, error) {
	if presetFlag != "" && !config.ValidPreset(presetFlag) {
		return config.Config{}, errors.New(errors.EUsage, "unknown preset "+presetFlag)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return config.Config{}, errors.Wrap(errors.EInternal, "failed to get working directory", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return config.Config{}, errors.Wrap(errors.EInternal, "failed to get home directory", err)
	}
	return config.Resolve(config.ResolveOpts{
		PresetFlag: presetFlag,
		Cwd:        cwd,
		Home:       home,
		Env:        config.EnvFromOS(),
		FS:         fs.NewRealFS(),
	})
}

// statusIcon maps a journal entry kind to its terminal glyph.
func statusIcon(kind string) string {
	switch kind {
	case "ok":
		return "✓"
	case "alert":
		return "⚠"
	case "agent_error", "timeout":
		return "✗"
	case "skipped_empty":
		return "○"
	}
	return "?"
}
