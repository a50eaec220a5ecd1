package settings

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/20after4/configdir"
	"github.com/fsnotify/fsnotify"
	"github.com/mbradley/nowplayin/internal/ports"
	"github.com/spf13/viper"
)

const (
	AppName      = "nowplayin"
	ConfigDirEnv = "NOWPLAYIN_CONFIG_DIR"

	KeyPollInterval   = "poll_interval"
	KeyKeepOnPause    = "keep_on_pause"
	KeyWorkspacesPath = "workspaces.path"
	KeySecretsDir     = "secrets.dir"
	KeySecretsBackend = "secrets.backend"
	KeySlackBaseURL   = "slack.base_url"
	KeySlackTimeout   = "slack.timeout"
	KeySlackRateLimit = "slack.rate_limit"
	KeyMetricsAddr    = "metrics.addr"
	KeySource         = "source.kind"
	KeyMPRISPlayer    = "source.mpris_player"
	KeyMPDAddr        = "source.mpd_addr"
	KeyMPDPassword    = "source.mpd_password"
	KeyMusicApp       = "source.music_app"

	DefaultPollInterval = 10 * time.Second
	MinPollInterval     = 5 * time.Second
	MaxPollInterval     = 60 * time.Second

	configName = "config"
	configType = "toml"
	dirMode    = 0o700
)

// ConfigDir resolves the directory holding config.toml, workspaces.toml and the pid file.
func ConfigDir() string {
	if dir := strings.TrimSpace(os.Getenv(ConfigDirEnv)); dir != "" {
		return dir
	}
	return configdir.LocalConfig(AppName)
}

// Load reads <dir>/config.toml (a missing file is fine) layered over NOWPLAYIN_* env vars and defaults.
func Load(dir string) (*viper.Viper, error) {
	if dir == "" {
		return nil, errors.New("config directory is empty")
	}
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName(configName)
	cfg.SetConfigType(configType)
	cfg.AddConfigPath(dir)

	cfg.SetEnvPrefix(strings.ToUpper(AppName))
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()

	cfg.SetDefault(KeyPollInterval, DefaultPollInterval.Seconds())
	cfg.SetDefault(KeyKeepOnPause, false)
	cfg.SetDefault(KeyWorkspacesPath, filepath.Join(dir, "workspaces.toml"))
	cfg.SetDefault(KeySecretsDir, filepath.Join(dir, "secrets"))
	cfg.SetDefault(KeySecretsBackend, "auto")
	cfg.SetDefault(KeySlackBaseURL, "https://slack.com/api/")
	cfg.SetDefault(KeySlackTimeout, 10*time.Second)
	cfg.SetDefault(KeySlackRateLimit, 1.0)
	cfg.SetDefault(KeyMetricsAddr, "")
	cfg.SetDefault(KeySource, "")
	cfg.SetDefault(KeyMPRISPlayer, "")
	cfg.SetDefault(KeyMPDAddr, "localhost:6600")
	cfg.SetDefault(KeyMPDPassword, "")
	cfg.SetDefault(KeyMusicApp, "Music")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return cfg, nil
}

// ClampPollInterval converts a configured number of seconds into the interval the
// sync loop sleeps for.
func ClampPollInterval(seconds float64) time.Duration {
	if math.IsNaN(seconds) {
		return DefaultPollInterval
	}

	interval := time.Duration(seconds * float64(time.Second))
	switch {
	case interval < MinPollInterval:
		return MinPollInterval
	case interval > MaxPollInterval:
		return MaxPollInterval
	default:
		return interval
	}
}

// Live exposes the loop settings and refreshes them whenever the config file changes.
type Live struct {
	cfg         *viper.Viper
	interval    atomic.Int64
	keepOnPause atomic.Bool
}

var _ ports.Settings = (*Live)(nil)

func NewLive(cfg *viper.Viper) *Live {
	live := &Live{cfg: cfg}
	live.Refresh()
	return live
}

func (l *Live) PollInterval() time.Duration {
	return time.Duration(l.interval.Load())
}

func (l *Live) KeepOnPause() bool {
	return l.keepOnPause.Load()
}

func (l *Live) Refresh() {
	l.interval.Store(int64(ClampPollInterval(l.cfg.GetFloat64(KeyPollInterval))))
	l.keepOnPause.Store(l.cfg.GetBool(KeyKeepOnPause))
}

// Watch starts reloading the config file on change. onChange may be nil.
func (l *Live) Watch(onChange func()) {
	if l.cfg.ConfigFileUsed() == "" {
		return
	}

	l.cfg.OnConfigChange(func(fsnotify.Event) {
		l.Refresh()
		if onChange != nil {
			onChange()
		}
	})
	l.cfg.WatchConfig()
}
