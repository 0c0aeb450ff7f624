package assistoff

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"assistoff.io/assistoff/pkg/options"
)

func TestServerEndpoints(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	metrics.observe(ResultCorrected, 120*time.Millisecond)
	metrics.Corrections.Inc()

	var ready atomic.Bool
	check := func(context.Context) error {
		if !ready.Load() {
			return errNotWatching
		}
		return nil
	}
	s := NewServer(&options.HttpOptions{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, metrics, check)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	get := func(path string) (int, string) {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	code, body := get("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body)

	code, body = get("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "watch not registered", body)

	ready.Store(true)
	code, _ = get("/readyz")
	assert.Equal(t, http.StatusOK, code)

	code, body = get("/metrics")
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `assistoff_notifications_total{result="corrected"} 1`)
	assert.Contains(t, body, "assistoff_corrections_total 1")
	assert.Contains(t, body, "assistoff_handle_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")

	resp, err := http.Post(ts.URL+"/healthz", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestServerStartStops(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	s := NewServer(&options.HttpOptions{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second}, metrics, func(context.Context) error { return nil })

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
