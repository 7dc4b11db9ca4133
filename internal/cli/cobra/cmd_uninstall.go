package cobra

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/exec"
	"github.com/tinmanhq/tinman/internal/fs"
	"github.com/tinmanhq/tinman/internal/sched"
)

func newUninstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the heartbeat from the system scheduler",
		Long:  "Remove tinman's scheduler registration. A no-op if nothing is installed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			home, err := os.UserHomeDir()
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to get home directory", err)
			}
			scheduler, err := sched.New(exec.NewRealRunner(), fs.NewRealFS(), home)
			if err != nil {
				return err
			}
			if err := scheduler.Uninstall(context.Background()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[tinman] heartbeat scheduler removed\n")
			return nil
		},
	}

	return cmd
}
