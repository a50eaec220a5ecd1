package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/spf13/cobra"
)

func newWorkspaceCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workspace",
		Aliases: []string{"workspaces", "ws"},
		Short:   "Manage Slack workspaces",
	}

	cmd.AddCommand(
		newWorkspaceAddCmd(app),
		newWorkspaceRemoveCmd(app),
		newWorkspaceListCmd(app),
	)

	return cmd
}

func newWorkspaceAddCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add [token]",
		Short: "Add a workspace by its user token (read from stdin when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			token, err := tokenFromArgs(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			var workspace domain.Workspace
			add := func(ctx context.Context) error {
				added, err := app.registry.Add(ctx, token)
				workspace = added
				return err
			}
			if err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Validating token...", add); err != nil {
				return explainAddError(err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added workspace %s (%s)\n", workspace.Name, workspace.ID)
			return err
		},
	}
}

func newWorkspaceRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <team-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a workspace and delete its stored token",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workspace, err := app.registry.Remove(cmd.Context(), domain.WorkspaceID(strings.TrimSpace(args[0])))
			if err != nil {
				return err
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "removed workspace %s (%s)\n", workspace.Name, workspace.ID)
			return err
		},
	}
}

func newWorkspaceListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List configured workspaces",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			workspaces, err := app.registry.List(cmd.Context())
			if err != nil {
				return err
			}

			if len(workspaces) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "no workspaces configured")
				return err
			}

			for _, workspace := range workspaces {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", workspace.ID, workspace.Name)
			}

			return nil
		},
	}
}

func tokenFromArgs(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read token from stdin: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func explainAddError(err error) error {
	switch {
	case domain.BlocksRegistration(err):
		return fmt.Errorf("token rejected: %w", err)
	case errors.Is(err, domain.ErrNetwork), errors.Is(err, domain.ErrRateLimited):
		return fmt.Errorf("could not reach Slack, try again: %w", err)
	default:
		return err
	}
}
