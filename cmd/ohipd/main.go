// Command ohipd is the ohip platform service.
// It serves the REST API, the provider webhook endpoint, and a health check.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ohip/ohip/internal/api"
	"github.com/ohip/ohip/internal/catalog"
	"github.com/ohip/ohip/internal/ingestion"
	"github.com/ohip/ohip/internal/logging"
	"github.com/ohip/ohip/internal/narrative"
	"github.com/ohip/ohip/internal/platform"
	"github.com/ohip/ohip/internal/provider"
	"github.com/ohip/ohip/internal/webhook"
	"github.com/ohip/ohip/pkg/config"
	"github.com/ohip/ohip/pkg/scoring"
)

type daemonConfig struct {
	Port          string
	APIKey        string
	WebhookSecret string
	ProviderKey   string
	CacheSize     int
	File          *config.Config
}

// loadConfig reads the optional config file named by OHIP_CONFIG, then
// applies environment overrides on top of it.
func loadConfig() (daemonConfig, error) {
	file := config.DefaultConfig()
	if path := os.Getenv("OHIP_CONFIG"); path != "" {
		var err error
		if file, err = config.Load(path); err != nil {
			return daemonConfig{}, err
		}
	}

	file.Database.URL = envOrDefault("DATABASE_URL", file.Database.URL)
	file.Storage.Backend = envOrDefault("STORAGE_BACKEND", file.Storage.Backend)
	file.Storage.Bucket = envOrDefault("STORAGE_BUCKET", file.Storage.Bucket)
	file.Storage.Region = envOrDefault("STORAGE_REGION", file.Storage.Region)
	file.Storage.Endpoint = envOrDefault("STORAGE_ENDPOINT", file.Storage.Endpoint)
	file.Storage.LocalPath = envOrDefault("LOCAL_STORAGE_PATH", file.Storage.LocalPath)
	file.Provider.BaseURL = envOrDefault("PROVIDER_URL", file.Provider.BaseURL)
	file.Narrative.Endpoint = envOrDefault("AZURE_OPENAI_ENDPOINT", file.Narrative.Endpoint)
	file.Narrative.Deployment = envOrDefault("AZURE_OPENAI_DEPLOYMENT", file.Narrative.Deployment)
	file.Logging.Level = envOrDefault("LOG_LEVEL", file.Logging.Level)
	file.Logging.Format = envOrDefault("LOG_FORMAT", file.Logging.Format)
	if err := file.Validate(); err != nil {
		return daemonConfig{}, err
	}

	cacheSize, err := strconv.Atoi(envOrDefault("RECORD_CACHE_SIZE", "128"))
	if err != nil {
		return daemonConfig{}, fmt.Errorf("RECORD_CACHE_SIZE: %w", err)
	}

	return daemonConfig{
		Port:          envOrDefault("PORT", "8080"),
		APIKey:        os.Getenv("OHIP_API_KEY"),
		WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
		ProviderKey:   os.Getenv("PROVIDER_API_KEY"),
		CacheSize:     cacheSize,
		File:          file,
	}, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(logging.Options{Level: cfg.File.Logging.Level, Format: cfg.File.Logging.Format})
	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("ohipd failed")
	}
}

func run(cfg daemonConfig, log zerolog.Logger) error {
	db, driver, err := platform.OpenDatabase(cfg.File.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	if err := platform.AutoMigrate(db, driver); err != nil {
		return err
	}
	log.Info().Str("driver", driver).Msg("catalog ready")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := ingestion.OpenStorage(ctx, cfg.File.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	if c, ok := storage.(io.Closer); ok {
		defer c.Close()
	}

	weights, err := cfg.File.Weights()
	if err != nil {
		return err
	}
	engine, err := scoring.NewEngine(weights)
	if err != nil {
		return err
	}

	// Initialize services
	var fetcher ingestion.Fetcher
	if base := cfg.File.Provider.BaseURL; base != "" {
		client := provider.New(base, cfg.File.ProviderTimeout(), cfg.File.Provider.Retries)
		if cfg.ProviderKey != "" {
			client.WithAPIKey(cfg.ProviderKey)
		}
		fetcher = client
	}
	ingestionSvc := ingestion.NewService(catalog.NewStore(db, driver), storage, engine, fetcher, cfg.CacheSize, log)

	reg := newRegistry()

	narrativeSvc, err := newNarrativeService(cfg.File, log)
	if err != nil {
		return err
	}
	if narrativeSvc != nil {
		narrativeSvc.WithMetrics(narrative.NewMetrics(reg))
	}

	apiHandler := api.NewHandler(ingestionSvc, narrativeSvc, cfg.APIKey, log)
	webhookHandler := webhook.NewHandler([]byte(cfg.WebhookSecret), ingestionSvc, log)

	// Set up HTTP routes
	mux := http.NewServeMux()
	apiHandler.RegisterRoutes(mux)
	if cfg.WebhookSecret != "" {
		mux.Handle("POST /v1/webhooks/country-data", webhookHandler)
	} else {
		log.Warn().Msg("WEBHOOK_SECRET not set, webhook endpoint disabled")
	}
	mux.HandleFunc("GET /healthz", healthHandler(ingestionSvc))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	handler := api.Instrument(api.NewHTTPMetrics(reg))(api.CORS(mux))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.RequestLog(log)(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("starting ohipd")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
	return nil
}

// newNarrativeService returns nil when no model endpoint is configured.
func newNarrativeService(cfg *config.Config, log zerolog.Logger) (*narrative.Service, error) {
	n := cfg.Narrative
	if n.Endpoint == "" || n.Deployment == "" {
		log.Info().Msg("narrative generation disabled")
		return nil, nil
	}
	gen, err := narrative.NewAzOpenAIGenerator(n.Endpoint, os.Getenv(n.APIKeyEnv), n.Deployment)
	if err != nil {
		return nil, fmt.Errorf("narrative: %w", err)
	}
	log.Info().Str("deployment", n.Deployment).Msg("narrative generation enabled")
	return narrative.NewService(gen, narrative.NewCache(n.CacheSize), cfg.NarrativeTimeout(), log), nil
}

// newRegistry returns the registry served on /metrics, preloaded with the
// Go runtime and process collectors.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func healthHandler(svc *ingestion.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
