package news

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const retryDelay = 300 * time.Millisecond

type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	maxRetries int

	// RetryOnHTTPError also retries non-2xx responses. Off by default: a 404
	// or 500 from a feed host rarely resolves within a single run.
	RetryOnHTTPError bool
}

func NewFetcher(httpClient *http.Client, userAgent string, timeout time.Duration, maxRetries int) *Fetcher {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Fetcher{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
		maxRetries: maxRetries,
	}
}

// Run retrieves the raw feed payload. Network errors and timeouts are retried
// up to maxRetries times with a short fixed delay; HTTP error statuses are
// not, unless RetryOnHTTPError is set. A timeout aborts only this request.
// A non-positive timeout falls back to the fetcher's default.
func (f *Fetcher) Run(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		timeout = f.timeout
	}

	attempts := 0
	var lastErr error

	for attempts <= f.maxRetries {
		attempts++

		data, retryable, err := f.fetchOnce(ctx, url, timeout)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if fe, ok := err.(*FetchError); ok && fe.Reason != "" {
			fe.Attempts = attempts
			return nil, fe
		}

		if !retryable || attempts > f.maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return nil, &FetchError{URL: url, Attempts: attempts, Err: ctx.Err()}
		case <-time.After(retryDelay):
		}
	}

	return nil, &FetchError{URL: url, Attempts: attempts, Err: lastErr}
}

func (f *Fetcher) fetchOnce(ctx context.Context, url string, timeout time.Duration) ([]byte, bool, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(timeoutCtx, "GET", url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, application/json, text/xml;q=0.9, */*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, f.RetryOnHTTPError, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	// An HTML content type in place of structured data is almost always a
	// login wall or an error page served with status 200.
	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "text/html") {
		return nil, false, &FetchError{URL: url, Reason: ReasonBadContentType}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, false, nil
}
