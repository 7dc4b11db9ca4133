package cobra

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/checklist"
	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/exec"
	"github.com/tinmanhq/tinman/internal/fs"
	"github.com/tinmanhq/tinman/internal/sched"
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "First-time setup (start here)",
		Long: `Prompt-based first-time setup: pick a preset and interval, write the
config to ~/.tinman/config.json, create the default checklist, and optionally
register the scheduler.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()
			prompts := bufio.NewScanner(cmd.InOrStdin())

			fmt.Fprintln(stdout, "[tinman] setup")
			fmt.Fprintln(stdout)
			fmt.Fprintln(stdout, "Security preset:")
			fmt.Fprintln(stdout, "  sane     - notify-only, 30 min interval (recommended)")
			fmt.Fprintln(stdout, "  paranoid - notify-only, 15 min interval, max logging")
			fmt.Fprintln(stdout, "  chaos    - active mode, 5 min interval (you've been warned)")
			fmt.Fprintln(stdout)

			preset := ask(prompts, stdout, "Preset [sane]: ")
			if preset == "" {
				preset = config.PresetSane
			}
			if !config.ValidPreset(preset) {
				fmt.Fprintf(stdout, "Unknown preset %q, using %q.\n", preset, config.PresetSane)
				preset = config.PresetSane
			}

			home, err := os.UserHomeDir()
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to get home directory", err)
			}
			cwd, err := os.Getwd()
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to get working directory", err)
			}

			cfg := config.Defaults(preset)
			cfg.LogFile = filepath.Join(home, config.HomeConfigDirName, "heartbeat.log")

			intervalStr := ask(prompts, stdout,
				fmt.Sprintf("Heartbeat interval in minutes [%d]: ", cfg.IntervalMinutes))
			if intervalStr != "" {
				if n, err := strconv.Atoi(intervalStr); err == nil && n > 0 {
					cfg.IntervalMinutes = n
				} else {
					fmt.Fprintf(stdout, "Not a positive integer, keeping %d.\n", cfg.IntervalMinutes)
				}
			}

			fsys := fs.NewRealFS()
			configPath := config.HomeConfigPath(home)
			if err := cfg.Save(fsys, configPath); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "\n[tinman] config written to %s\n", configPath)

			cl, err := checklist.Load(fsys, filepath.Join(cwd, cfg.HeartbeatMD))
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "[tinman] heartbeat checklist at %s\n", cl.Path)

			answer := ask(prompts, stdout, "\nInstall heartbeat scheduler now? [Y/n]: ")
			if strings.ToLower(answer) == "n" {
				fmt.Fprintln(stdout, "[tinman] run manually: tinman run --loop")
				fmt.Fprintln(stdout, "[tinman] or install later: tinman install")
				return nil
			}

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
			fmt.Fprintf(stdout, "[tinman] done, heartbeat will run every %d min\n", cfg.IntervalMinutes)
			fmt.Fprintf(stdout, "[tinman] edit your checklist anytime: %s\n", cl.Path)
			return nil
		},
	}

	return cmd
}

func ask(in *bufio.Scanner, out io.Writer, prompt string) string {
	fmt.Fprint(out, prompt)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}
