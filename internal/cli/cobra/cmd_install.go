package cobra

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/exec"
	"github.com/tinmanhq/tinman/internal/fs"
	"github.com/tinmanhq/tinman/internal/sched"
)

func newInstallCmd() *cobra.Command {
	var preset string

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Register the heartbeat with the system scheduler",
		Long: `Register tinman with the host scheduler (launchd on macOS, cron on Linux).

The effective configuration is saved to ~/.tinman/config.json first so
scheduled ticks resolve the same settings. Re-installing replaces the prior
registration; it never duplicates it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			cfg, err := resolveConfig(preset)
			if err != nil {
				return err
			}

			home, err := os.UserHomeDir()
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to get home directory", err)
			}
			fsys := fs.NewRealFS()

			configPath := config.HomeConfigPath(home)
			if err := cfg.Save(fsys, configPath); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "[tinman] config saved to %s\n", configPath)

			exe, err := os.Executable()
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to locate tinman binary", err)
			}

			scheduler, err := sched.New(exec.NewRealRunner(), fsys, home)
			if err != nil {
				return err
			}
			spec := sched.JobSpec{
				CommandLine:     []string{exe, "run", "--once"},
				IntervalMinutes: cfg.IntervalMinutes,
			}
			if err := scheduler.Install(context.Background(), spec); err != nil {
				return err
			}

			fmt.Fprintf(stdout, "[tinman] heartbeat scheduler installed\n")
			fmt.Fprintf(stdout, "[tinman] interval: every %d min\n", cfg.IntervalMinutes)
			fmt.Fprintf(stdout, "[tinman] mode: %s\n", modeLabel(cfg.NotifyOnly))
			return nil
		},
	}

	cmd.Flags().StringVar(&preset, "preset", "", "security preset (sane|paranoid|chaos)")

	return cmd
}

func modeLabel(notifyOnly bool) string {
	if notifyOnly {
		return "notify-only"
	}
	return "ACTIVE (agent may take actions)"
}
