package narrative

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ohip/ohip/internal/cache"
	"github.com/ohip/ohip/pkg/scoring"
)

// DefaultTimeout bounds one generation, retry included.
const DefaultTimeout = 5 * time.Minute

// Cache holds generated text keyed by analysis key. It is owned by the
// caller and may be shared between services.
type Cache = cache.LRU[string, string]

// NewCache creates a narrative cache holding up to size entries.
func NewCache(size int) *Cache { return cache.New[string, string](size) }

// Subject names the country a narrative is about.
type Subject struct {
	ISOCode string
	Name    string
}

func (s Subject) label() string {
	switch {
	case s.Name != "" && s.ISOCode != "":
		return fmt.Sprintf("%s (%s)", s.Name, s.ISOCode)
	case s.Name != "":
		return s.Name
	case s.ISOCode != "":
		return s.ISOCode
	}
	return "a hypothetical country"
}

// Service generates and caches analysis text.
type Service struct {
	gen     Generator
	cache   *Cache
	timeout time.Duration
	metrics *Metrics
	log     zerolog.Logger
}

// NewService creates a Service. A nil cache disables caching; a
// non-positive timeout uses DefaultTimeout.
func NewService(gen Generator, c *Cache, timeout time.Duration, log zerolog.Logger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{gen: gen, cache: c, timeout: timeout, log: log}
}

// WithMetrics makes s record its model calls in m.
func (s *Service) WithMetrics(m *Metrics) *Service {
	s.metrics = m
	return s
}

// ScorecardReport writes an assessment of one scorecard.
func (s *Service) ScorecardReport(ctx context.Context, subj Subject, sc *scoring.Scorecard) (string, error) {
	if sc == nil {
		return "", fmt.Errorf("scorecard report: nil scorecard")
	}
	return s.generate(ctx, "scorecard", ScorecardPrompt(subj, sc))
}

// ProjectionReport writes an assessment of a policy projection.
func (s *Service) ProjectionReport(ctx context.Context, subj Subject, p scoring.Projection) (string, error) {
	return s.generate(ctx, "projection", ProjectionPrompt(subj, p))
}

func (s *Service) generate(ctx context.Context, kind, prompt string) (string, error) {
	key := AnalysisKey(kind, prompt)
	if s.cache != nil {
		text, ok := s.cache.Get(key)
		s.metrics.cacheLookup(kind, ok)
		if ok {
			s.log.Debug().Str("key", key).Msg("narrative cache hit")
			return text, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	text, err := s.gen.Generate(ctx, prompt)
	if err != nil && ctx.Err() == nil {
		s.log.Warn().Err(err).Str("kind", kind).Msg("narrative generation failed, retrying once")
		s.metrics.retry(kind)
		text, err = s.gen.Generate(ctx, prompt)
	}
	if err != nil {
		s.metrics.generation(kind, "error", len(prompt), time.Since(start))
		return "", fmt.Errorf("generate %s narrative: %w", kind, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.metrics.generation(kind, "empty", len(prompt), time.Since(start))
		return "", fmt.Errorf("generate %s narrative: %w", kind, ErrNoCompletion)
	}
	s.metrics.generation(kind, "ok", len(prompt), time.Since(start))

	if s.cache != nil {
		s.cache.Put(key, text)
	}
	s.log.Info().Str("kind", kind).Dur("elapsed", time.Since(start)).Msg("narrative generated")
	return text, nil
}

// AnalysisKey derives a cache key from the prompt content, so identical
// numbers map to the same analysis.
func AnalysisKey(kind, prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return kind + ":" + hex.EncodeToString(sum[:12])
}

// IsUnavailable reports whether err means no narrative could be produced,
// as opposed to a programming error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrNoCompletion) || errors.Is(err, context.DeadlineExceeded)
}
