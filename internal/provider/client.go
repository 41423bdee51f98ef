// Package provider fetches country records from the upstream data provider.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ohip/ohip/pkg/country"
)

// ErrNotFound is returned when the provider has no record for a country.
var ErrNotFound = errors.New("country not found at provider")

// DefaultTimeout bounds each request to the provider.
const DefaultTimeout = 15 * time.Second

// Client talks to the provider's REST API:
//
//	GET {base}/countries        -> [Record, ...] or {"countries": [...]}
//	GET {base}/countries/{iso}  -> Record
type Client struct {
	baseURL    string
	apiKey     string
	retries    int
	retryWait  time.Duration
	httpClient *http.Client
}

// New creates a client for baseURL. A non-positive timeout uses
// DefaultTimeout; retries is the number of extra attempts after a transport
// error or 5xx response.
func New(baseURL string, timeout time.Duration, retries int) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		retries:    retries,
		retryWait:  500 * time.Millisecond,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithAPIKey sets a bearer token sent with every request.
func (c *Client) WithAPIKey(key string) *Client {
	c.apiKey = key
	return c
}

// ListCountries fetches every record the provider publishes.
func (c *Client) ListCountries(ctx context.Context) ([]*country.Record, error) {
	body, err := c.get(ctx, "/countries")
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	trimmed := bytes.TrimSpace(body)
	var recs []*country.Record
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var wrapped struct {
			Countries []*country.Record `json:"countries"`
		}
		if err := json.Unmarshal(trimmed, &wrapped); err != nil {
			return nil, fmt.Errorf("decode country list: %w", err)
		}
		recs = wrapped.Countries
	} else if err := json.Unmarshal(trimmed, &recs); err != nil {
		return nil, fmt.Errorf("decode country list: %w", err)
	}
	return recs, nil
}

// GetCountry fetches one record. It returns ErrNotFound on 404.
func (c *Client) GetCountry(ctx context.Context, isoCode string) (*country.Record, error) {
	body, err := c.get(ctx, "/countries/"+url.PathEscape(isoCode))
	if err != nil {
		return nil, fmt.Errorf("get country %s: %w", isoCode, err)
	}
	rec, err := country.DecodeRecord(body)
	if err != nil {
		return nil, fmt.Errorf("get country %s: %w", isoCode, err)
	}
	return rec, nil
}

// statusError is a non-2xx response.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.code, e.body)
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryWait):
			}
		}

		body, err := c.do(ctx, path)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var se *statusError
		if errors.Is(err, ErrNotFound) || (errors.As(err, &se) && se.code < 500) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
	}
	return nil, lastErr
}

func (c *Client) do(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &statusError{code: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}
	return body, nil
}
