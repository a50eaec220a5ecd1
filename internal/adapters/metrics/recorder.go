package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/mbradley/nowplayin/internal/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace       = "nowplayin"
	shutdownTimeout = 2 * time.Second
)

type Recorder struct {
	registry *prometheus.Registry
	ticks    prometheus.Counter
	pushes   *prometheus.CounterVec
	fanOut   prometheus.Histogram
	running  prometheus.Gauge
}

var _ ports.SyncMetrics = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sync_ticks_total",
			Help:      "Poll ticks executed by the sync loop.",
		}),
		pushes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_pushes_total",
			Help:      "Per-workspace status calls by operation and outcome.",
		}, []string{"op", "outcome"}),
		fanOut: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fanout_duration_seconds",
			Help:      "Wall time of one fan-out across all workspaces.",
			Buckets:   prometheus.DefBuckets,
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sync_running",
			Help:      "1 while a sync session is running.",
		}),
	}
	r.registry.MustRegister(r.ticks, r.pushes, r.fanOut, r.running)

	return r
}

func (r *Recorder) ObserveTick() {
	r.ticks.Inc()
}

func (r *Recorder) ObservePush(op string, outcome string) {
	r.pushes.WithLabelValues(op, outcome).Inc()
}

func (r *Recorder) ObserveFanOut(duration time.Duration) {
	r.fanOut.Observe(duration.Seconds())
}

func (r *Recorder) SetRunning(running bool) {
	if running {
		r.running.Set(1)
		return
	}
	r.running.Set(0)
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Serve exposes /metrics on addr until ctx is done.
func (r *Recorder) Serve(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen metrics %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}
