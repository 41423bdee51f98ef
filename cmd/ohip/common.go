package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ohip/ohip/internal/logging"
	"github.com/ohip/ohip/internal/narrative"
	"github.com/ohip/ohip/internal/provider"
	"github.com/ohip/ohip/pkg/config"
	"github.com/ohip/ohip/pkg/country"
	"github.com/ohip/ohip/pkg/scoring"
	"github.com/ohip/ohip/pkg/simulation"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

// env bundles what every subcommand needs.
type env struct {
	cfg    *config.Config
	engine *scoring.Engine
	log    zerolog.Logger
}

func setup(gf *globalFlags, stderr io.Writer) (*env, error) {
	path := gf.configPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = config.FindConfigFile(wd)
		}
	}

	cfg := config.DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	w, err := cfg.Weights()
	if err != nil {
		return nil, fmt.Errorf("scoring weights: %w", err)
	}
	engine, err := scoring.NewEngine(w)
	if err != nil {
		return nil, err
	}

	log := logging.New(logging.Options{
		Level:  firstNonEmpty(gf.logLevel, os.Getenv("OHIP_LOG_LEVEL"), "warn"),
		Format: "console",
		Out:    stderr,
	})
	return &env{cfg: cfg, engine: engine, log: log}, nil
}

// providerClient returns a client for the configured provider, or nil when
// none is configured.
func (e *env) providerClient() *provider.Client {
	base := firstNonEmpty(os.Getenv("OHIP_PROVIDER_URL"), e.cfg.Provider.BaseURL)
	if base == "" {
		return nil
	}
	c := provider.New(base, e.cfg.ProviderTimeout(), e.cfg.Provider.Retries)
	if key := os.Getenv("OHIP_PROVIDER_API_KEY"); key != "" {
		c.WithAPIKey(key)
	}
	return c
}

// loadRecord reads a record from a file, or fetches it from the provider
// when iso is set. With neither it returns nil, meaning "use the defaults".
func (e *env) loadRecord(ctx context.Context, file, iso string) (*country.Record, error) {
	switch {
	case file != "" && iso != "":
		return nil, fmt.Errorf("give either a record file or --iso, not both")
	case file != "":
		return country.LoadRecord(file)
	case iso != "":
		c := e.providerClient()
		if c == nil {
			return nil, fmt.Errorf("--iso needs a provider: set provider.base_url or OHIP_PROVIDER_URL")
		}
		fmt.Fprintf(os.Stderr, "Fetching %s from provider...\n", strings.ToUpper(iso))
		return c.GetCountry(ctx, strings.ToUpper(iso))
	}
	return nil, nil
}

// narrativeService builds the analysis service from config, or returns nil
// when no model is configured.
func (e *env) narrativeService() (*narrative.Service, error) {
	n := e.cfg.Narrative
	if n.Endpoint == "" || n.Deployment == "" {
		return nil, fmt.Errorf("narrative.endpoint and narrative.deployment must be configured")
	}
	key := os.Getenv(n.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("%s is not set", n.APIKeyEnv)
	}
	gen, err := narrative.NewAzOpenAIGenerator(n.Endpoint, key, n.Deployment)
	if err != nil {
		return nil, err
	}
	return narrative.NewService(gen, nil, e.cfg.NarrativeTimeout(), e.log), nil
}

// parseAssignment splits "field=value" and applies it to m. Numbers are
// clamped to the field's range.
func parseAssignment(m simulation.Metrics, s string) (simulation.Metrics, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok {
		return m, fmt.Errorf("invalid --set %q: want field=value", s)
	}
	name, raw = strings.TrimSpace(name), strings.TrimSpace(raw)

	if strings.EqualFold(name, simulation.FieldILOC187Ratified) {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return m, fmt.Errorf("invalid --set %q: %s takes true or false", s, simulation.FieldILOC187Ratified)
		}
		m.ILOC187Ratified = v
		return m, nil
	}

	f, err := simulation.ParseField(name)
	if err != nil {
		return m, err
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return m, fmt.Errorf("invalid --set %q: %w", s, err)
	}
	return m.With(f, v)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
