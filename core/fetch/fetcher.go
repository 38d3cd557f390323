// Package fetch implements the Fetcher interface.
// It performs a single HTTP GET per call with a bounded timeout and no
// caching or retries.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"

	"github.com/gaurav-prasanna/threadpipe/core"
)

const (
	DefaultTimeout   = 30 * time.Second
	defaultUserAgent = "threadpipe/1.0 (+https://github.com/gaurav-prasanna/threadpipe)"
	// maxBodyBytes caps how much of a page is read into memory.
	maxBodyBytes = 10 << 20
)

// HTTPFetcher fetches web pages via HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout bounds the whole request, including reading the body.
// Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying client (tests, proxies).
func WithHTTPClient(c *http.Client) Option {
	return func(f *HTTPFetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// New creates an HTTPFetcher with a sensible timeout.
func New(opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: DefaultTimeout},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves the HTML content of the given URL. An invalid URL yields
// *core.InvalidInputError; transport failures, timeouts and non-2xx
// statuses yield *core.FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*core.FetchResult, error) {
	parsed, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	target := NormalizeURL(parsed)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &core.FetchError{URL: target, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &core.FetchError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &core.FetchError{URL: target, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	// Pages are decoded to UTF-8 from the declared or sniffed charset.
	reader, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, &core.FetchError{URL: target, Err: fmt.Errorf("decoding response body: %w", err)}
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, &core.FetchError{URL: target, Err: fmt.Errorf("reading response body: %w", err)}
	}

	log.Debug().
		Str("url", target).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched page")

	return &core.FetchResult{
		URL:        target,
		StatusCode: resp.StatusCode,
		HTML:       string(body),
	}, nil
}
