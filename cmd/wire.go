package cmd

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mbradley/nowplayin/internal/adapters/probe/mpd"
	"github.com/mbradley/nowplayin/internal/adapters/probe/mpris"
	"github.com/mbradley/nowplayin/internal/adapters/probe/music"
	statusadapter "github.com/mbradley/nowplayin/internal/adapters/render/status"
	tomlrepo "github.com/mbradley/nowplayin/internal/adapters/repo/toml"
	chainstore "github.com/mbradley/nowplayin/internal/adapters/secrets/chain"
	"github.com/mbradley/nowplayin/internal/adapters/settings"
	"github.com/mbradley/nowplayin/internal/adapters/slack"
	"github.com/mbradley/nowplayin/internal/application"
	"github.com/mbradley/nowplayin/internal/logging"
	"github.com/mbradley/nowplayin/internal/ports"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

const (
	sourceMusic = "music"
	sourceMPRIS = "mpris"
	sourceMPD   = "mpd"
)

type globalOptions struct {
	configDir string
	logLevel  string
	logFile   string
}

type app struct {
	configDir      string
	cfg            *viper.Viper
	logger         *log.Logger
	settings       *settings.Live
	repo           ports.WorkspaceRepository
	secretStore    ports.SecretStore
	backend        ports.StatusBackend
	registry       *application.WorkspaceRegistry
	statusRenderer func(application.Snapshot, statusadapter.RenderOptions) (string, error)
	newProbe       func(kind string) (ports.MediaProbe, error)
	now            func() time.Time
}

func (a *app) wire(opts globalOptions, stderr io.Writer) error {
	configDir := strings.TrimSpace(opts.configDir)
	if configDir == "" {
		configDir = settings.ConfigDir()
	}

	cfg, err := settings.Load(configDir)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logOutput := stderr
	if opts.logFile != "" {
		file, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logOutput = file
	}
	logger, err := logging.New(logOutput, opts.logLevel)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	repo, err := tomlrepo.NewRepository(cfg)
	if err != nil {
		return fmt.Errorf("wire workspace repository: %w", err)
	}

	secretStore, err := chainstore.ForBackend(cfg.GetString(settings.KeySecretsBackend), cfg.GetString(settings.KeySecretsDir))
	if err != nil {
		return fmt.Errorf("wire secret store: %w", err)
	}

	backend := slack.NewClient(slack.Options{
		BaseURL:        cfg.GetString(settings.KeySlackBaseURL),
		RequestTimeout: cfg.GetDuration(settings.KeySlackTimeout),
		RateLimit:      rate.Limit(cfg.GetFloat64(settings.KeySlackRateLimit)),
	})

	a.configDir = configDir
	a.cfg = cfg
	a.logger = logger
	a.settings = settings.NewLive(cfg)
	a.repo = repo
	a.secretStore = secretStore
	a.backend = backend
	a.registry = application.NewWorkspaceRegistry(repo, secretStore, backend, ports.SystemClock{}, logger)
	a.statusRenderer = statusadapter.Render
	a.newProbe = func(kind string) (ports.MediaProbe, error) {
		return newProbe(cfg, kind)
	}
	a.now = time.Now

	return nil
}

func newProbe(cfg *viper.Viper, kind string) (ports.MediaProbe, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = strings.ToLower(strings.TrimSpace(cfg.GetString(settings.KeySource)))
	}
	if kind == "" {
		kind = defaultSource()
	}

	switch kind {
	case sourceMusic:
		return music.NewProbe(cfg.GetString(settings.KeyMusicApp)), nil
	case sourceMPRIS:
		return mpris.NewProbe(cfg.GetString(settings.KeyMPRISPlayer)), nil
	case sourceMPD:
		return mpd.NewProbe(cfg.GetString(settings.KeyMPDAddr), cfg.GetString(settings.KeyMPDPassword)), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want %s, %s or %s)", kind, sourceMusic, sourceMPRIS, sourceMPD)
	}
}

func defaultSource() string {
	if runtime.GOOS == "darwin" {
		return sourceMusic
	}
	return sourceMPRIS
}
