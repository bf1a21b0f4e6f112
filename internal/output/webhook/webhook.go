package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/crimson-sun/vmbench/internal/model"
)

const (
	defaultTimeout = 10 * time.Second
	defaultBackoff = time.Second
	maxRetries     = 3
)

// Option configures a webhook Output.
type Option func(*Output)

// WithHeaders sets custom HTTP headers sent with every POST.
func WithHeaders(h map[string]string) Option {
	return func(o *Output) { o.headers = h }
}

// WithTimeout sets the HTTP client timeout. Default: 10s.
func WithTimeout(d time.Duration) Option {
	return func(o *Output) { o.client.Timeout = d }
}

// WithBackoff sets the delay before the first retry; each later retry
// doubles it. Default: 1s.
func WithBackoff(d time.Duration) Option {
	return func(o *Output) { o.backoff = d }
}

// Output POSTs each analysis report to an HTTP endpoint as a JSON object.
// Retries on 5xx with exponential backoff.
type Output struct {
	client  *http.Client
	url     string
	headers map[string]string
	backoff time.Duration
}

// New creates a webhook output targeting the given URL.
func New(url string, opts ...Option) *Output {
	o := &Output{
		client:  &http.Client{Timeout: defaultTimeout},
		url:     url,
		backoff: defaultBackoff,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Write sends the report, retrying server errors until ctx is done.
func (o *Output) Write(ctx context.Context, report model.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("webhook: marshal: %w", err)
	}
	return o.postWithRetry(ctx, body)
}

// Close is a no-op; every Write completes its POST before returning.
func (o *Output) Close() error {
	return nil
}

// postWithRetry sends body, retrying while the server answers 5xx.
func (o *Output) postWithRetry(ctx context.Context, body []byte) error {
	delay := o.backoff
	for attempt := 0; ; attempt++ {
		status, err := o.post(ctx, body)
		switch {
		case err != nil:
			return fmt.Errorf("webhook: %w", err)
		case status < 300:
			slog.Debug("report delivered", "url", o.url, "attempts", attempt+1)
			return nil
		case status < 500 || attempt == maxRetries:
			return fmt.Errorf("webhook: HTTP %d after %d attempt(s)", status, attempt+1)
		}

		slog.Warn("webhook server error, retrying", "status", status, "delay", delay)
		select {
		case <-ctx.Done():
			return fmt.Errorf("webhook: %w", ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// post performs one POST and returns the response status.
func (o *Output) post(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.url, bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range o.headers {
		req.Header.Set(k, v)
	}
	resp, err := o.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}
