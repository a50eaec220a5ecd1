package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mbradley/nowplayin/internal/adapters/metrics"
	"github.com/mbradley/nowplayin/internal/adapters/pidfile"
	"github.com/mbradley/nowplayin/internal/adapters/probe/mpd"
	"github.com/mbradley/nowplayin/internal/adapters/settings"
	"github.com/mbradley/nowplayin/internal/adapters/statefile"
	"github.com/mbradley/nowplayin/internal/application"
	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	legacyTokenFile = "token"
	legacyTokenEnv  = "SLACK_TOKEN"
)

func newRunCmd(app *app) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sync the playing track into every workspace until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(app.cfg, cmd.Flags(), map[string]string{
				"interval":      settings.KeyPollInterval,
				"keep-on-pause": settings.KeyKeepOnPause,
				"mpris-player":  settings.KeyMPRISPlayer,
				"mpd-addr":      settings.KeyMPDAddr,
				"metrics-addr":  settings.KeyMetricsAddr,
			}); err != nil {
				return err
			}
			app.settings.Refresh()

			return runSync(cmd, app, source)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&source, "source", "", "Media source: music, mpris or mpd (default music on macOS, mpris elsewhere)")
	flags.Float64("interval", settings.DefaultPollInterval.Seconds(), "Seconds between polls, clamped to 5..60")
	flags.Bool("keep-on-pause", false, "Keep the status while playback is paused")
	flags.String("mpris-player", "", "Only follow MPRIS players whose bus name starts with this suffix")
	flags.String("mpd-addr", mpd.DefaultAddr, "MPD address, host:port or unix socket path")
	flags.String("metrics-addr", "", "Serve Prometheus metrics on this address")

	return cmd
}

// bindFlags lets explicitly set flags override the config file and environment.
func bindFlags(cfg *viper.Viper, flags *pflag.FlagSet, keys map[string]string) error {
	for name, key := range keys {
		flag := flags.Lookup(name)
		if flag == nil {
			return fmt.Errorf("bind flag %s: not defined", name)
		}
		if err := cfg.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

func runSync(cmd *cobra.Command, app *app, source string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	lock, err := pidfile.Acquire(pidfile.Path(app.configDir))
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			app.logger.Warn("release pid file", "err", err)
		}
	}()

	if err := migrateLegacyToken(ctx, app); err != nil {
		app.logger.Warn("legacy token kept", "err", err)
	}

	probe, err := app.newProbe(source)
	if err != nil {
		return err
	}
	if closer, ok := probe.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	recorder := metrics.NewRecorder()
	engine := application.NewSyncEngine(application.SyncEngineOptions{
		Workspaces: app.repo,
		Secrets:    app.secretStore,
		Backend:    app.backend,
		Probe:      probe,
		Settings:   app.settings,
		Metrics:    recorder,
		Logger:     app.logger,
	})
	engine.OnChange(statefile.NewWriter(statefile.Path(app.configDir), app.logger).Record)

	app.settings.Watch(func() {
		app.logger.Info("settings reloaded", "interval", app.settings.PollInterval(), "keep_on_pause", app.settings.KeepOnPause())
	})

	if addr := app.cfg.GetString(settings.KeyMetricsAddr); addr != "" {
		go func() {
			if err := recorder.Serve(ctx, addr); err != nil {
				app.logger.Error("metrics server stopped", "err", err)
			}
		}()
	}

	if err := engine.Start(ctx); err != nil {
		if errors.Is(err, domain.ErrNoWorkspacesConfigured) {
			return fmt.Errorf("%w: add one with 'nowplayin workspace add'", err)
		}
		return err
	}

	select {
	case <-ctx.Done():
		app.logger.Info("shutting down")
		engine.Shutdown()
	case <-engine.Done():
	}

	if message := engine.Snapshot().Message; message != "" {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), message)
	}
	return nil
}

// migrateLegacyToken registers a single-workspace token left by older versions.
// The token file is removed only after the workspace was added.
func migrateLegacyToken(ctx context.Context, app *app) error {
	path := filepath.Join(app.configDir, legacyTokenFile)

	token := ""
	fromFile := false
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		token = strings.TrimSpace(string(data))
		fromFile = true
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("read legacy token: %w", err)
	}
	if token == "" {
		token = strings.TrimSpace(os.Getenv(legacyTokenEnv))
	}

	workspace, migrated, err := app.registry.MigrateLegacyToken(ctx, token)
	if err != nil || !migrated {
		return err
	}

	app.logger.Info("migrated legacy token", "workspace", workspace.ID, "name", workspace.Name)
	if fromFile {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove legacy token: %w", err)
		}
	}
	return nil
}
