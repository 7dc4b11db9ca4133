package cobra

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/fs"
	"github.com/tinmanhq/tinman/internal/journal"
)

func newLogsCmd() *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print recent heartbeat log entries",
		Long:  "Print the last N heartbeat log entries as JSON lines, oldest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stdout := cmd.OutOrStdout()

			cfg, err := resolveConfig("")
			if err != nil {
				return err
			}

			entries, err := journal.NewWriter(fs.NewRealFS(), cfg.LogFile, cfg.MaxLogLines).Tail(n)
			if err != nil {
				return errors.Wrap(errors.EInternal, "failed to read heartbeat log", err)
			}
			if len(entries) == 0 {
				fmt.Fprintf(stdout, "[tinman] no log entries found\n")
				return nil
			}
			for _, e := range entries {
				line, err := json.Marshal(e)
				if err != nil {
					return errors.Wrap(errors.EInternal, "failed to encode log entry", err)
				}
				fmt.Fprintf(stdout, "%s\n", line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&n, "n", 20, "number of entries to show")

	return cmd
}
