package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/mbradley/nowplayin/internal/adapters/pidfile"
	"github.com/spf13/cobra"
)

const stopPollInterval = 100 * time.Millisecond

func newStopCmd(app *app) *cobra.Command {
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "stop",
		Short: "Stop the running sync daemon and clear its statuses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			owner, err := pidfile.Terminate(pidfile.Path(app.configDir))
			if errors.Is(err, pidfile.ErrNotRunning) {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "sync daemon not running")
				return err
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stopping sync daemon (pid %d)\n", owner.PID)

			deadline := time.Now().Add(wait)
			for pidfile.Alive(owner.PID) {
				if time.Now().After(deadline) {
					return fmt.Errorf("sync daemon (pid %d) still running after %s", owner.PID, wait)
				}
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(stopPollInterval):
				}
			}

			return nil
		},
	}

	cmd.Flags().DurationVar(&wait, "wait", 5*time.Second, "How long to wait for the daemon to exit")

	return cmd
}
