package mpd

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fhs/gompd/v2/mpd"
	"github.com/mbradley/nowplayin/internal/domain"
	"github.com/mbradley/nowplayin/internal/ports"
)

const DefaultAddr = "localhost:6600"

type client interface {
	Ping() error
	Status() (mpd.Attrs, error)
	CurrentSong() (mpd.Attrs, error)
	Close() error
}

type dialFunc func(network string, addr string, password string) (client, error)

// Probe keeps one connection to an MPD server and redials after any failure.
type Probe struct {
	network  string
	addr     string
	password string
	dial     dialFunc

	mu     sync.Mutex
	client client
}

var _ ports.MediaProbe = (*Probe)(nil)

// NewProbe accepts host:port or an absolute unix socket path.
func NewProbe(addr string, password string) *Probe {
	if addr == "" {
		addr = DefaultAddr
	}
	network := "tcp"
	if strings.HasPrefix(addr, "/") {
		network = "unix"
	}

	return &Probe{network: network, addr: addr, password: password, dial: dialMPD}
}

func dialMPD(network string, addr string, password string) (client, error) {
	return mpd.DialAuthenticated(network, addr, password)
}

func (p *Probe) IsSourceRunning(ctx context.Context) bool {
	if ctx.Err() != nil {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.connected()
	if err != nil {
		return false
	}
	if err := c.Ping(); err != nil {
		p.drop()
		return false
	}
	return true
}

func (p *Probe) ReadCurrent(ctx context.Context) (domain.Track, bool) {
	if ctx.Err() != nil {
		return domain.Track{}, false
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	c, err := p.connected()
	if err != nil {
		return domain.Track{}, false
	}

	status, err := c.Status()
	if err != nil {
		p.drop()
		return domain.Track{}, false
	}
	state := domain.ParsePlayState(status["state"])
	if state == domain.PlayStateStopped {
		return domain.Track{State: state}, true
	}

	song, err := c.CurrentSong()
	if err != nil {
		p.drop()
		return domain.Track{}, false
	}

	name := song["Title"]
	if name == "" {
		name = song["Name"]
	}

	return domain.Track{Name: name, Artist: song["Artist"], State: state}, true
}

func (p *Probe) connected() (client, error) {
	if p.client != nil {
		return p.client, nil
	}

	c, err := p.dial(p.network, p.addr, p.password)
	if err != nil {
		return nil, fmt.Errorf("%w: dial mpd %s: %w", domain.ErrProbeUnavailable, p.addr, err)
	}
	p.client = c
	return c, nil
}

func (p *Probe) drop() {
	if p.client != nil {
		_ = p.client.Close()
	}
	p.client = nil
}

func (p *Probe) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.drop()
	return nil
}
