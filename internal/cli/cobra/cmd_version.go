package cobra

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/version"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print tinman version",
		Long:  "Print the tinman version string.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "tinman %s\n", version.FullVersion())
		},
	}

	return cmd
}
