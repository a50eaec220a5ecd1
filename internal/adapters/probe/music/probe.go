package music

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports"
)

var ErrUnavailable = errors.New("osascript command unavailable")

const (
	defaultApp   = "Music"
	probeTimeout = 5 * time.Second

	// ASCII unit separator; track metadata cannot contain it.
	fieldSeparator = "\x1f"
)

type runFunc func(ctx context.Context, script string) (stdout string, err error)

// Probe reads Music.app (or another AppleScript-scriptable player) through osascript.
type Probe struct {
	app string
	run runFunc
}

var _ ports.MediaProbe = (*Probe)(nil)

func NewProbe(app string) *Probe {
	if app == "" {
		app = defaultApp
	}
	return &Probe{app: app, run: runOSAScript}
}

func (p *Probe) IsSourceRunning(ctx context.Context) bool {
	script := fmt.Sprintf(`tell application "System Events" to return (name of processes) contains %q`, p.app)

	stdout, err := p.run(ctx, script)
	if err != nil {
		return false
	}

	return strings.TrimSpace(stdout) == "true"
}

func (p *Probe) ReadCurrent(ctx context.Context) (domain.Track, bool) {
	stdout, err := p.run(ctx, p.trackScript())
	if err != nil {
		return domain.Track{}, false
	}

	return parseTrack(stdout)
}

func (p *Probe) trackScript() string {
	return fmt.Sprintf(`set sep to character id 31
tell application %q
	if player state is playing then
		return "playing" & sep & (name of current track) & sep & (artist of current track)
	else if player state is paused then
		return "paused" & sep & (name of current track) & sep & (artist of current track)
	else
		return "stopped" & sep & sep
	end if
end tell`, p.app)
}

// parseTrack splits "state<US>name<US>artist" as printed by trackScript.
func parseTrack(output string) (domain.Track, bool) {
	parts := strings.Split(strings.TrimRight(output, "\r\n"), fieldSeparator)
	if len(parts) != 3 {
		return domain.Track{}, false
	}

	return domain.Track{
		State:  domain.ParsePlayState(parts[0]),
		Name:   parts[1],
		Artist: parts[2],
	}, true
}

func runOSAScript(ctx context.Context, script string) (string, error) {
	path, err := exec.LookPath("osascript")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrUnavailable
		}
		return "", fmt.Errorf("locate osascript command: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, path, "-e", script)
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run osascript: %w", err)
	}

	return stdout.String(), nil
}
