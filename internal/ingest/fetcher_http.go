package ingest

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// HTTPFetcher is the plain Fetcher used for one-off document downloads
// (notice PDFs, ad hoc portal pages).
type HTTPFetcher struct {
	Client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &HTTPFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*FetchedDocument, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", "tender-scout/1.0")
	req.Header.Set("Accept", "text/html,application/pdf,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return &FetchedDocument{
		URL:         url,
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        resp.Body,
		FetchedAt:   time.Now(),
		Headers:     resp.Header,
	}, nil
}

// RateLimitedFetcher wraps HTTPFetcher with a ticker-based rate limit and
// retries, configured per source from the registry.
type RateLimitedFetcher struct {
	inner  *HTTPFetcher
	ticker *time.Ticker
	config FetchConfig
	mu     sync.Mutex
}

func NewRateLimitedFetcher(config FetchConfig) *RateLimitedFetcher {
	if config.TimeoutSeconds == 0 {
		config.TimeoutSeconds = 30
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.RateLimitRPS == 0 {
		config.RateLimitRPS = 1.0
	}

	inner := NewHTTPFetcher()
	inner.Client.Timeout = time.Duration(config.TimeoutSeconds) * time.Second

	interval := time.Duration(float64(time.Second) / config.RateLimitRPS)
	return &RateLimitedFetcher{
		inner:  inner,
		ticker: time.NewTicker(interval),
		config: config,
	}
}

func (f *RateLimitedFetcher) Fetch(ctx context.Context, url string) (*FetchedDocument, error) {
	var lastErr error
	for attempt := 0; attempt < f.config.MaxRetries; attempt++ {
		f.mu.Lock()
		select {
		case <-f.ticker.C:
		case <-ctx.Done():
			f.mu.Unlock()
			return nil, ctx.Err()
		}
		f.mu.Unlock()

		doc, err := f.inner.Fetch(ctx, url)
		if err == nil {
			return doc, nil
		}
		lastErr = err

		// Linear backoff between attempts.
		select {
		case <-time.After(time.Duration(attempt+1) * time.Second):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("fetch failed after %d attempts: %w", f.config.MaxRetries, lastErr)
}

// Close releases the rate-limit ticker.
func (f *RateLimitedFetcher) Close() {
	f.ticker.Stop()
}
