// Package fetcher provides resilient HTTP retrieval for the report pipeline.
//
// Every fetch is a GET with a per-attempt deadline, a bounded retry budget,
// and a linearly growing delay between attempts. That is the only resilience
// mechanism: the pipeline is a periodic best-effort poll, so there is no
// jitter and no circuit breaker.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ttfl-live/injury-report/internal/logger"
)

const (
	// UserAgent mimics a desktop browser; the report host rejects
	// obviously non-browser clients.
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 Chrome/122.0.0.0 Safari/537.36"

	DefaultTimeout    = 15 * time.Second
	DefaultRetries    = 2
	DefaultRetryDelay = 800 * time.Millisecond
)

// Options configures a single fetch call.
type Options struct {
	// Timeout bounds each individual attempt, not the call as a whole.
	Timeout time.Duration
	// Retries is the number of extra attempts after the first.
	Retries int
	// RetryDelay scales linearly: the wait before attempt i is
	// RetryDelay * i, with no delay before the first attempt.
	RetryDelay time.Duration
	// Headers are added to every attempt on top of the defaults.
	Headers map[string]string
}

// DefaultOptions returns the settings used for landing-page fetches.
func DefaultOptions() *Options {
	return &Options{
		Timeout:    DefaultTimeout,
		Retries:    DefaultRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// PDFOptions returns the settings used for PDF downloads: a longer deadline,
// one more retry, and the headers the document host expects.
func PDFOptions(referer string) *Options {
	return &Options{
		Timeout:    20 * time.Second,
		Retries:    3,
		RetryDelay: time.Second,
		Headers: map[string]string{
			"Accept":  "application/pdf",
			"Referer": referer,
		},
	}
}

// Error reports an exhausted fetch. It wraps the error of the final attempt.
type Error struct {
	URL      string
	Attempts int
	Last     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("fetch %s failed after %d attempts: %v", e.URL, e.Attempts, e.Last)
}

func (e *Error) Unwrap() error { return e.Last }

// Fetcher issues resilient GETs over a shared HTTP client.
type Fetcher struct {
	client *http.Client
}

// New creates a Fetcher. Per-attempt deadlines come from Options, so the
// underlying client carries no timeout of its own.
func New() *Fetcher {
	return &Fetcher{client: &http.Client{}}
}

// NewWithClient creates a Fetcher over an existing client, for tests.
func NewWithClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Text fetches a URL and returns the response body as a string.
func (f *Fetcher) Text(ctx context.Context, url string, opts *Options) (string, error) {
	body, err := f.fetch(ctx, url, opts)
	return string(body), err
}

// Bytes fetches a URL and returns the raw response body.
func (f *Fetcher) Bytes(ctx context.Context, url string, opts *Options) ([]byte, error) {
	return f.fetch(ctx, url, opts)
}

func (f *Fetcher) fetch(ctx context.Context, url string, opts *Options) ([]byte, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	started := time.Now()
	var lastErr error
	for attempt := 0; attempt <= opts.Retries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(opts.RetryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				// Caller gave up; do not keep hammering the host.
				return nil, ctx.Err()
			}
			logger.Debug("retrying fetch", logger.Fields{"url": url, "attempt": attempt})
		}

		body, err := f.attempt(ctx, url, opts)
		if err == nil {
			logger.IncrCounter("fetch.success")
			logger.RecordTiming("fetch", time.Since(started))
			return body, nil
		}
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		lastErr = err
	}

	logger.IncrCounter("fetch.exhausted")
	return nil, &Error{URL: url, Attempts: opts.Retries + 1, Last: lastErr}
}

// attempt performs one GET bounded by the per-attempt deadline.
func (f *Fetcher) attempt(ctx context.Context, url string, opts *Options) ([]byte, error) {
	attemptCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "text/html,application/pdf")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused by the next attempt.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return body, nil
}
