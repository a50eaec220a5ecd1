package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mbradley/nowplayin/internal/adapters/pidfile"
	statusadapter "github.com/mbradley/nowplayin/internal/adapters/render/status"
	"github.com/mbradley/nowplayin/internal/adapters/statefile"
	"github.com/mbradley/nowplayin/internal/application"
	"github.com/spf13/cobra"
)

type statusOutput struct {
	PID int `json:"pid,omitempty"`
	application.Snapshot
}

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the sync daemon, current track and per-workspace state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pid := 0
			owner, err := pidfile.Running(pidfile.Path(app.configDir))
			switch {
			case err == nil:
				pid = owner.PID
			case !errors.Is(err, pidfile.ErrNotRunning):
				return err
			}

			snapshot, err := loadSnapshot(cmd.Context(), app, pid > 0)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(statusOutput{PID: pid, Snapshot: snapshot})
			}

			rendered, err := app.statusRenderer(snapshot, statusadapter.RenderOptions{
				Now:        app.now(),
				StaleAfter: 3 * app.settings.PollInterval(),
				PID:        pid,
			})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print machine-readable JSON")

	return cmd
}

// loadSnapshot returns the last state recorded by the daemon, or the configured
// workspaces when nothing was recorded yet.
func loadSnapshot(ctx context.Context, app *app, daemonRunning bool) (application.Snapshot, error) {
	snapshot, err := statefile.Read(statefile.Path(app.configDir))
	if err != nil && !errors.Is(err, statefile.ErrNoState) {
		return application.Snapshot{}, err
	}
	if !daemonRunning {
		snapshot.Running = false
	}
	if err == nil {
		return snapshot, nil
	}

	workspaces, err := app.registry.List(ctx)
	if err != nil {
		return application.Snapshot{}, err
	}
	snapshot.Workspaces = make([]application.WorkspaceState, 0, len(workspaces))
	for _, workspace := range workspaces {
		snapshot.Workspaces = append(snapshot.Workspaces, application.WorkspaceState{ID: workspace.ID, Name: workspace.Name})
	}

	return snapshot, nil
}
