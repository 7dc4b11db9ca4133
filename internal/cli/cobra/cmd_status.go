package cobra

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/exec"
	"github.com/tinmanhq/tinman/internal/fs"
	"github.com/tinmanhq/tinman/internal/journal"
	"github.com/tinmanhq/tinman/internal/sched"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show scheduler and recent heartbeat status",
		Long: `Show the live scheduler registration (re-read from the host's own store,
never cached), the effective configuration summary, and the last 5 heartbeat
log entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			cfg, err := resolveConfig("")
			if err != nil {
				return err
			}
			home, err := os.UserHomeDir()
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to get home directory", err)
			}
			fsys := fs.NewRealFS()

			scheduler, err := sched.New(exec.NewRealRunner(), fsys, home)
			if err != nil {
				return err
			}
			st, err := scheduler.Status(context.Background())
			if err != nil {
				return err
			}

			if st.Installed {
				fmt.Fprintf(stdout, "[tinman] scheduler: installed (%s)\n", st.Detail)
				if st.IntervalMinutes > 0 {
					fmt.Fprintf(stdout, "[tinman] registered interval: %d min\n", st.IntervalMinutes)
				}
			} else {
				fmt.Fprintf(stdout, "[tinman] scheduler: not installed\n")
			}
			fmt.Fprintf(stdout, "[tinman] configured interval: %d min\n", cfg.IntervalMinutes)
			fmt.Fprintf(stdout, "[tinman] mode: %s\n", modeLabel(cfg.NotifyOnly))
			fmt.Fprintf(stdout, "[tinman] preset: %s\n", cfg.Preset)

			entries, err := journal.NewWriter(fsys, cfg.LogFile, cfg.MaxLogLines).Tail(5)
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to read heartbeat log", err)
			}
			if len(entries) == 0 {
				fmt.Fprintf(stdout, "[tinman] no heartbeat log entries yet\n")
				return nil
			}
			fmt.Fprintf(stdout, "\n[tinman] last %d heartbeats:\n", len(entries))
			for _, e := range entries {
				fmt.Fprintf(stdout, "  %s %s  kind=%s  %.1fs  %s\n",
					statusIcon(e.Kind), e.Timestamp, e.Kind, float64(e.DurationMS)/1000, e.Summary)
			}
			return nil
		},
	}

	return cmd
}
