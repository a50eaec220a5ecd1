package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCountsPushesByOutcome(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObservePush("set", "ok")
	r.ObservePush("set", "ok")
	r.ObservePush("clear", "unauthorized")
	r.ObserveTick()
	r.SetRunning(true)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.pushes.WithLabelValues("set", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.pushes.WithLabelValues("clear", "unauthorized")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ticks))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.running))

	r.SetRunning(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(r.running))
}

func TestHandlerExposesRegisteredMetrics(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.ObserveFanOut(120 * time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "nowplayin_fanout_duration_seconds_count 1"))
	assert.Contains(t, body, "nowplayin_sync_running 0")
}
