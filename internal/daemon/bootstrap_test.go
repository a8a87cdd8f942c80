// SPDX-License-Identifier: MIT

package daemon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ManuGH/wellcheck/internal/config"
	"github.com/ManuGH/wellcheck/internal/health"
	"github.com/ManuGH/wellcheck/internal/history"
	"github.com/ManuGH/wellcheck/internal/model/modeltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.AppConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Defaults()
	cfg.Version = "test"
	cfg.DataDir = dir
	cfg.Server.ListenAddr = "127.0.0.1:0"
	cfg.Server.ShutdownTimeout = 2 * time.Second
	cfg.Metrics.Enabled = false
	cfg.Model.Path = modeltest.WriteBundle(t, dir)
	cfg.Model.Watch = false
	cfg.RateLimit.Enabled = false
	return cfg
}

func featuresJSON(first int) string {
	parts := make([]string, 20)
	for i := range parts {
		parts[i] = "3"
	}
	parts[0] = strconv.Itoa(first)
	return `{"features":[` + strings.Join(parts, ",") + `]}`
}

func TestBootstrap_ServesAssessments(t *testing.T) {
	rt, err := Bootstrap(context.Background(), testConfig(t))
	require.NoError(t, err)
	require.NotNil(t, rt.Models.Current())

	rec := httptest.NewRecorder()
	rt.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/check_health", strings.NewReader(featuresJSON(5))))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.EqualValues(t, 5, res["health_score"])
	assert.Equal(t, "Severe Risk", res["health_status"])

	rec = httptest.NewRecorder()
	rt.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz?verbose=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var ready health.ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ready))
	assert.True(t, ready.Ready)
	assert.Equal(t, health.StatusDegraded, ready.Checks["insights"].Status, "no API key configured")
}

func TestBootstrap_StartsWithoutModel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Model.Path = filepath.Join(cfg.DataDir, "missing.json")

	rt, err := Bootstrap(context.Background(), cfg)
	require.NoError(t, err)
	assert.Nil(t, rt.Models.Current())

	rec := httptest.NewRecorder()
	rt.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestBootstrap_UnknownHistoryBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Backend = "cassandra"

	_, err := Bootstrap(context.Background(), cfg)
	assert.ErrorIs(t, err, history.ErrUnknownBackend)
}

func TestBootstrap_UnknownCacheBackendClosesHistory(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Backend = history.BackendSQLite
	cfg.History.Path = filepath.Join(cfg.DataDir, "history.sqlite")
	cfg.Insights.CacheBackend = "memcached"

	_, err := Bootstrap(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open insights cache")

	// The store was closed, so it can be reopened.
	store, err := history.Open(history.BackendSQLite, cfg.History.Path)
	require.NoError(t, err)
	require.NoError(t, store.Close())
}

func TestBootstrap_RunAndStop(t *testing.T) {
	cfg := testConfig(t)
	cfg.History.Backend = history.BackendSQLite
	cfg.History.Path = filepath.Join(cfg.DataDir, "history.sqlite")

	rt, err := Bootstrap(context.Background(), cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.App.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
}
