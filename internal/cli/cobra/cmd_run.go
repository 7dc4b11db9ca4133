package cobra

import (
	"context"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/tinmanhq/tinman/internal/agent"
	"github.com/tinmanhq/tinman/internal/config"
	"github.com/tinmanhq/tinman/internal/errors"
	"github.com/tinmanhq/tinman/internal/fs"
	"github.com/tinmanhq/tinman/internal/heartbeat"
	"github.com/tinmanhq/tinman/internal/notify"
)

func newRunCmd() *cobra.Command {
	var loop bool
	var once bool
	var preset string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one heartbeat (or --loop for continuous)",
		Long: `Run the heartbeat.

By default runs a single heartbeat and exits: 0 for ok/skipped_empty,
non-zero for agent_error/timeout. With --loop, runs continuously on the
configured interval in the foreground; a bad beat never exits the loop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(preset)
			if err != nil {
				return err
			}

			runner := buildRunner(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			if loop && !once {
				return runner.RunLoop(ctx)
			}

			res, err := runner.RunBeat(ctx)
			if err != nil {
				return err
			}
			if !res.Kind.Healthy() {
				return errors.WithExitCode(
					errors.New(errors.EHeartbeatFailed, "heartbeat result: "+string(res.Kind)), 1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&loop, "loop", false, "run continuously on the configured interval")
	cmd.Flags().BoolVar(&once, "once", false, "run once and exit (the default; overrides --loop)")
	cmd.Flags().StringVar(&preset, "preset", "", "security preset (sane|paranoid|chaos)")

	return cmd
}

// buildRunner wires the production heartbeat pipeline for one configuration.
func buildRunner(cfg config.Config, stdout, stderr io.Writer) *heartbeat.Runner {
	var notifier heartbeat.Notifier
	if cfg.NotifyBridge {
		notifier = notify.NewBridgeNotifier(cfg.BridgeEndpoint, stderr)
	}
	return heartbeat.New(cfg, fs.NewRealFS(), agent.NewCLIInvoker(cfg.AgentBin), notifier, stdout, stderr)
}
