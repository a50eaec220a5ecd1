package mpris

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports"
)

const (
	busNamePrefix   = "org.mpris.MediaPlayer2."
	objectPath      = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	playerInterface = "org.mpris.MediaPlayer2.Player"
)

type bus interface {
	ListNames(ctx context.Context) ([]string, error)
	PlayerProperty(ctx context.Context, dest string, name string) (dbus.Variant, error)
}

// Probe reads the first MPRIS player on the session bus, preferring one that is playing.
type Probe struct {
	filter string

	mu      sync.Mutex
	bus     bus
	connect func() (bus, error)
}

var _ ports.MediaProbe = (*Probe)(nil)

// NewProbe restricts discovery to bus names starting with
// org.mpris.MediaPlayer2.<player> when player is not empty.
func NewProbe(player string) *Probe {
	return &Probe{filter: player, connect: connectSessionBus}
}

func (p *Probe) IsSourceRunning(ctx context.Context) bool {
	players, err := p.players(ctx)
	return err == nil && len(players) > 0
}

func (p *Probe) ReadCurrent(ctx context.Context) (domain.Track, bool) {
	players, err := p.players(ctx)
	if err != nil || len(players) == 0 {
		return domain.Track{}, false
	}
	conn, err := p.session()
	if err != nil {
		return domain.Track{}, false
	}

	dest := players[0]
	state := domain.PlayStateStopped
	for _, candidate := range players {
		status, err := conn.PlayerProperty(ctx, candidate, "PlaybackStatus")
		if err != nil {
			continue
		}
		raw, _ := status.Value().(string)
		parsed := domain.ParsePlayState(raw)
		if parsed == domain.PlayStatePlaying {
			dest, state = candidate, parsed
			break
		}
		if candidate == dest {
			state = parsed
		}
	}

	metadata, err := conn.PlayerProperty(ctx, dest, "Metadata")
	if err != nil {
		return domain.Track{}, false
	}
	fields, ok := metadata.Value().(map[string]dbus.Variant)
	if !ok {
		return domain.Track{}, false
	}

	track := domain.Track{State: state}
	if title, ok := fields["xesam:title"]; ok {
		track.Name, _ = title.Value().(string)
	}
	if artist, ok := fields["xesam:artist"]; ok {
		switch v := artist.Value().(type) {
		case []string:
			track.Artist = strings.Join(v, ", ")
		case string:
			track.Artist = v
		}
	}

	return track, true
}

func (p *Probe) players(ctx context.Context) ([]string, error) {
	conn, err := p.session()
	if err != nil {
		return nil, err
	}

	names, err := conn.ListNames(ctx)
	if err != nil {
		p.reset()
		return nil, fmt.Errorf("list bus names: %w", err)
	}

	prefix := busNamePrefix + p.filter
	players := make([]string, 0, len(names))
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			players = append(players, name)
		}
	}
	sort.Strings(players)

	return players, nil
}

func (p *Probe) session() (bus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bus != nil {
		return p.bus, nil
	}

	conn, err := p.connect()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProbeUnavailable, err)
	}
	p.bus = conn
	return conn, nil
}

func (p *Probe) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bus = nil
}

type sessionBus struct {
	conn *dbus.Conn
}

func connectSessionBus() (bus, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	return sessionBus{conn: conn}, nil
}

func (b sessionBus) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := b.conn.BusObject().CallWithContext(ctx, "org.freedesktop.DBus.ListNames", 0).Store(&names)
	return names, err
}

func (b sessionBus) PlayerProperty(ctx context.Context, dest string, name string) (dbus.Variant, error) {
	var value dbus.Variant
	err := b.conn.Object(dest, objectPath).
		CallWithContext(ctx, "org.freedesktop.DBus.Properties.Get", 0, playerInterface, name).
		Store(&value)
	return value, err
}
