package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/iho/gobooks/internal/infrastructure/config"
)

func testConfig(t *testing.T, env map[string]string) *config.Config {
	t.Helper()
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewApp_MemoryDriver(t *testing.T) {
	cfg := testConfig(t, map[string]string{"STORAGE_DRIVER": "memory"})

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	require.Nil(t, a.limiter)

	rec := serve(t, a.handler, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "ok", status["memory"])

	rec = serve(t, a.handler, http.MethodPost, "/api/v1/accounts/", `{"name":"Cash"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(t, a.handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `gobooks_accounts_registered_total{category="asset"} 1`)
	require.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestNewApp_BoltDriverPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "books.db")
	cfg := testConfig(t, map[string]string{"STORAGE_DRIVER": "bolt", "BOLT_PATH": path})

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)

	rec := serve(t, a.handler, http.MethodPost, "/api/v1/accounts/", `{"name":"Cash","category":"asset"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	a.Close()

	a, err = newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	rec = serve(t, a.handler, http.MethodGet, "/api/v1/accounts/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"name":"Cash"`)
}

func TestNewApp_RedisFeatures(t *testing.T) {
	srv := miniredis.RunT(t)
	cfg := testConfig(t, map[string]string{
		"STORAGE_DRIVER":       "memory",
		"REDIS_URL":            "redis://" + srv.Addr(),
		"REPORT_CACHE_ENABLED": "true",
		"IDEMPOTENCY_ENABLED":  "true",
		"RATE_LIMIT_RPS":       "100",
	})

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	require.NotNil(t, a.limiter)

	rec := serve(t, a.handler, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"redis":"ok"`)

	rec = serve(t, a.handler, http.MethodGet, "/api/v1/journal/trial", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, srv.Keys(), "expected the trial balance to be cached")
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	cfg := testConfig(t, map[string]string{
		"STORAGE_DRIVER":      "memory",
		"REDIS_URL":           "redis://" + addr,
		"IDEMPOTENCY_ENABLED": "true",
	})

	_, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.Error(t, err)
}

func TestOpenStorage_UnknownDriver(t *testing.T) {
	cfg := &config.Config{StorageDriver: "sqlite"}

	_, err := openStorage(context.Background(), cfg, zerolog.Nop())
	require.True(t, errors.Is(err, config.ErrInvalidConfig))
}
