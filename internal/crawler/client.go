// Package crawler is the HTTP client for the external link-metadata
// service. The service itself is an opaque collaborator; this client only
// adds input normalization and a bounded retry policy.
package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"linkpage-backend/pkg/logger"
)

// Metadata is the crawl result for a URL.
type Metadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	SiteName    string `json:"site_name"`
	Image       string `json:"image"`
	Favicon     string `json:"favicon"`
}

// Crawler fetches metadata for a URL. Implementations must respect context
// cancellation.
type Crawler interface {
	Crawl(ctx context.Context, rawURL string) (*Metadata, error)
}

const (
	maxAttempts    = 3
	jitterFraction = 0.2
)

// baseDelays holds the backoff before each retry attempt.
var baseDelays = []time.Duration{
	500 * time.Millisecond,
	1500 * time.Millisecond,
	3000 * time.Millisecond,
}

// Client calls the metadata endpoint with retries. Transient failures
// (network errors, 5xx) are retried with exponential backoff and jitter;
// client errors are returned immediately.
type Client struct {
	endpoint   string
	httpClient *http.Client
	delays     []time.Duration
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		endpoint:   strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{Timeout: timeout},
		delays:     baseDelays,
	}
}

// Crawl fetches metadata for rawURL. A scheme is prepended when missing so
// users can paste bare domains like "example.com".
func (c *Client) Crawl(ctx context.Context, rawURL string) (*Metadata, error) {
	target := NormalizeURL(rawURL)
	if target == "" {
		return nil, fmt.Errorf("crawl: url is empty")
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepWithJitter(ctx, c.delays[attempt-1]); err != nil {
				return nil, err
			}
			logger.Debug("Retrying crawl", map[string]interface{}{
				"url":     target,
				"attempt": attempt + 1,
			})
		}

		meta, retryable, err := c.fetch(ctx, target)
		if err == nil {
			return meta, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}
	}

	return nil, fmt.Errorf("crawl %s: %w", target, lastErr)
}

func (c *Client) fetch(ctx context.Context, target string) (*Metadata, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.endpoint+"?url="+url.QueryEscape(target), nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, false, ctx.Err()
		}
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 500:
		io.Copy(io.Discard, resp.Body)
		return nil, true, fmt.Errorf("crawler responded %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return nil, false, fmt.Errorf("crawler responded %d", resp.StatusCode)
	}

	var meta Metadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, false, fmt.Errorf("decode crawler response: %w", err)
	}
	if meta.URL == "" {
		meta.URL = target
	}
	return &meta, false, nil
}

// NormalizeURL trims a raw URL and prepends https:// when no scheme is
// present.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	return raw
}

func sleepWithJitter(ctx context.Context, base time.Duration) error {
	// ±20% keeps simultaneous retries from aligning.
	spread := float64(base) * jitterFraction
	delay := time.Duration(float64(base) - spread + rand.Float64()*2*spread)

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
