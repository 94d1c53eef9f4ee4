// internal/platform/httpclient/client.go

// Package httpclient provides an HTTP client with retry, rate limiting
// and JSON helpers shared by the lookup units.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"kirwada/internal/platform/errors"
	"kirwada/internal/platform/logx"
	"kirwada/internal/platform/rate"
)

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 2
	defaultBackoff    = 500 * time.Millisecond
	maxBackoff        = 10 * time.Second
	defaultUserAgent  = "Kirwada/1.0 (+https://github.com/kirwada/kirwada)"

	// maxBodyBytes caps response reads so a misbehaving endpoint cannot
	// exhaust memory.
	maxBodyBytes = 4 << 20
)

// Config holds the per-unit client configuration.
type Config struct {
	// Timeout is the per-request timeout. Zero means defaultTimeout.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the first try.
	MaxRetries int

	// Backoff is the initial retry backoff, doubled per attempt and
	// capped at maxBackoff.
	Backoff time.Duration

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// RateLimit is the maximum requests per second. Zero disables it.
	RateLimit float64
}

// Client wraps http.Client with retry and rate limiting.
type Client struct {
	hc      *http.Client
	limiter *rate.Limiter
	logger  logx.Logger
	cfg     Config
}

// New builds a Client, filling zero config values with defaults.
func New(cfg Config, logger logx.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = defaultBackoff
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.New(cfg.RateLimit, 1)
	}

	return &Client{
		hc:      &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		logger:  logger.With("component", "httpclient"),
		cfg:     cfg,
	}
}

// Do performs the request with rate limiting and retries on transient
// failures. The body, if any, is passed as bytes so each retry attempt
// sends it fresh. The caller owns the returned response body.
func (c *Client) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, errors.Wrap(err, "rate limiter")
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, errors.Wrapf(err, "build request %s %s", method, url)
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		c.logger.Debug("request", "method", method, "url", url, "attempt", attempt+1)

		start := time.Now()
		resp, err := c.hc.Do(req)
		elapsed := time.Since(start)

		if err != nil {
			lastErr = errors.Wrap(errors.ErrConnectionFailed, err.Error())
			c.logger.Debug("request failed",
				"url", url, "attempt", attempt+1, "error", err.Error())
			if attempt == c.cfg.MaxRetries || ctx.Err() != nil {
				break
			}
			if err := c.sleep(ctx, attempt); err != nil {
				return nil, err
			}
			continue
		}

		c.logger.Debug("response",
			"url", url, "status", resp.StatusCode, "duration_ms", elapsed.Milliseconds())

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		if attempt == c.cfg.MaxRetries {
			break
		}
		if err := c.sleep(ctx, attempt); err != nil {
			return nil, err
		}
	}

	return nil, errors.Wrapf(lastErr, "request to %s failed after %d attempts", url, c.cfg.MaxRetries+1)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, headers)
}

// Head performs a HEAD request. Used by presence probes where the body
// is irrelevant.
func (c *Client) Head(ctx context.Context, url string) (*http.Response, error) {
	resp, err := c.Do(ctx, http.MethodHead, url, nil, nil)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()
	return resp, nil
}

// FetchBytes performs a GET, validates the status and returns the body.
func (c *Client) FetchBytes(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(resp); err != nil {
		resp.Body.Close()
		return nil, errors.Wrapf(err, "GET %s", url)
	}
	return ReadBody(resp)
}

// FetchJSON performs a GET with a JSON Accept header and decodes the
// body into out.
func (c *Client) FetchJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	if headers == nil {
		headers = map[string]string{}
	}
	headers["Accept"] = "application/json"

	data, err := c.FetchBytes(ctx, url, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(errors.ErrInvalidResponse, "decode JSON from %s: %v", url, err)
	}
	return nil
}

func (c *Client) sleep(ctx context.Context, attempt int) error {
	backoff := c.cfg.Backoff << uint(attempt)
	if backoff > maxBackoff {
		backoff = maxBackoff
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(backoff):
		return nil
	}
}

// String describes the client configuration, for debug logging.
func (c *Client) String() string {
	return fmt.Sprintf("httpclient{timeout=%s, retries=%d, rate=%.1f/s}",
		c.cfg.Timeout, c.cfg.MaxRetries, c.cfg.RateLimit)
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// ReadBody reads and closes the response body, capped at maxBodyBytes.
func ReadBody(resp *http.Response) ([]byte, error) {
	if resp == nil {
		return nil, errors.New("nil response")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read response body")
	}
	return data, nil
}

// CheckStatus maps non-2xx status codes to the error taxonomy.
func CheckStatus(resp *http.Response) error {
	if resp == nil {
		return errors.New("nil response")
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return errors.ErrNotFound
	case http.StatusTooManyRequests:
		return errors.ErrRateLimit
	default:
		return errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}
}
