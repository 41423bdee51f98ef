package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ohip/ohip/internal/api"
	"github.com/ohip/ohip/internal/catalog"
	"github.com/ohip/ohip/internal/ingestion"
	"github.com/ohip/ohip/internal/logging"
	"github.com/ohip/ohip/internal/narrative"
	"github.com/ohip/ohip/internal/platform"
)

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("OHIPD_TEST_VAR", "")
	assert.Equal(t, "fallback", envOrDefault("OHIPD_TEST_VAR", "fallback"))

	t.Setenv("OHIPD_TEST_VAR", "set")
	assert.Equal(t, "set", envOrDefault("OHIPD_TEST_VAR", "fallback"))
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider:
  base_url: https://file.example
  timeout: 5
database:
  url: sqlite://from-file.db
`), 0o644))

	t.Setenv("OHIP_CONFIG", path)
	t.Setenv("DATABASE_URL", "sqlite://:memory:")
	t.Setenv("PORT", "9090")
	t.Setenv("PROVIDER_URL", "")
	t.Setenv("RECORD_CACHE_SIZE", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, "sqlite://:memory:", cfg.File.Database.URL)
	assert.Equal(t, "https://file.example", cfg.File.Provider.BaseURL)
	assert.Equal(t, 5, cfg.File.Provider.Timeout)
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	t.Setenv("OHIP_CONFIG", "")
	t.Setenv("STORAGE_BACKEND", "s3")
	t.Setenv("STORAGE_BUCKET", "")
	_, err := loadConfig()
	assert.Error(t, err, "s3 without bucket")

	t.Setenv("STORAGE_BACKEND", "")
	t.Setenv("RECORD_CACHE_SIZE", "many")
	_, err = loadConfig()
	assert.Error(t, err)
}

func TestHealthHandler(t *testing.T) {
	db, driver, err := platform.OpenDatabase("sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, platform.AutoMigrate(db, driver))
	svc := ingestion.NewService(catalog.NewStore(db, driver), ingestion.NewLocalStorage(t.TempDir()), nil, nil, 4, logging.Nop())

	rec := httptest.NewRecorder()
	healthHandler(svc)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	db.Close()
	rec = httptest.NewRecorder()
	healthHandler(svc)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	reg := newRegistry()
	require.NotPanics(t, func() { narrative.NewMetrics(reg) })

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("GET /ping", func(w http.ResponseWriter, r *http.Request) {})
	h := api.Instrument(api.NewHTTPMetrics(reg))(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, `ohip_http_requests_total{code="200",route="GET /ping"} 1`)
}
