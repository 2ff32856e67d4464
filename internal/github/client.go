// Package github is a client for the GitHub Enterprise billing API:
// Copilot seat listing, cost center management and bulk resource assignment.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.github.com"
const apiVersion = "2022-11-28"
const userAgent = "copilot-costs"

const maxRetries = 3
const backoffBase = time.Second
const rateLimitResetBuffer = time.Second

// maxRateLimitWait caps the total time a single call may spend waiting for
// rate-limit resets. Beyond it the call fails with ErrRateLimited instead
// of blocking indefinitely.
const maxRateLimitWait = 15 * time.Minute

// ErrRateLimited is returned when a call could not complete within the
// rate-limit wait budget.
var ErrRateLimited = errors.New("github: API rate limit exceeded")

// APIError is a non-2xx response that is not recoverable by the retry policy.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: unexpected status %d for %s: %s", e.StatusCode, e.URL, e.Body)
}

// Client talks to the enterprise billing API with bearer-token auth,
// bounded retries on transient failures and rate-limit-aware waits.
type Client struct {
	httpClient *http.Client
	baseURL    string
	enterprise string
	token      string
	logger     *zap.Logger
	sleep      func(time.Duration)
	now        func() time.Time
}

// NewClient creates a client for the given enterprise slug.
func NewClient(enterprise, token string, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    defaultBaseURL,
		enterprise: enterprise,
		token:      token,
		logger:     logger,
		sleep:      time.Sleep,
		now:        time.Now,
	}
}

// NewClientWithBaseURL creates a client pointed at a custom API base URL.
// This is primarily for testing against httptest servers.
func NewClientWithBaseURL(enterprise, token, baseURL string, logger *zap.Logger) *Client {
	c := NewClient(enterprise, token, logger)
	c.baseURL = baseURL
	return c
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
}

// resetWait returns how long to sleep before retrying a rate-limited call:
// until the X-RateLimit-Reset time plus a one second buffer. Falls back to
// one minute when the header is absent or unparseable.
func (c *Client) resetWait(h http.Header) time.Duration {
	if s := h.Get("X-RateLimit-Reset"); s != "" {
		if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
			if d := time.Unix(unix, 0).Sub(c.now()) + rateLimitResetBuffer; d > 0 {
				return d
			}
			return rateLimitResetBuffer
		}
	}
	return time.Minute
}

func backoff(failures int) time.Duration {
	return backoffBase << (failures - 1)
}

func isTransient(status int) bool {
	switch status {
	case http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// doJSON issues one API call with the retry policy: transport errors and
// 5xx responses are retried up to maxRetries with exponential backoff
// (1s, 2s, 4s); 429 responses wait for the advertised rate-limit reset in
// a separate loop that does not consume the retry counter but is bounded
// by maxRateLimitWait. Any other non-2xx status fails immediately with an
// *APIError. On success the response body is decoded into out when out is
// non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	failures := 0
	var rateLimitWaited time.Duration

	for {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return err
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			failures++
			if failures > maxRetries {
				return fmt.Errorf("%s %s failed after %d retries: %w", method, fullURL, maxRetries, err)
			}
			c.logger.Warn("request failed, retrying",
				zap.String("url", fullURL),
				zap.Int("attempt", failures),
				zap.Error(err),
			)
			c.sleep(backoff(failures))
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			defer resp.Body.Close()
			if out == nil {
				io.Copy(io.Discard, resp.Body)
				return nil
			}
			return json.NewDecoder(resp.Body).Decode(out)
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			wait := c.resetWait(resp.Header)
			if rateLimitWaited+wait > maxRateLimitWait {
				return fmt.Errorf("%w: waited %s for %s", ErrRateLimited, rateLimitWaited, fullURL)
			}
			rateLimitWaited += wait
			c.logger.Warn("rate limit hit, waiting for reset",
				zap.String("url", fullURL),
				zap.Duration("wait", wait),
			)
			c.sleep(wait)

		case isTransient(resp.StatusCode):
			failures++
			if failures > maxRetries {
				return &APIError{StatusCode: resp.StatusCode, URL: fullURL, Body: string(respBody)}
			}
			c.logger.Warn("transient API error, retrying",
				zap.String("url", fullURL),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", failures),
			)
			c.sleep(backoff(failures))

		default:
			return &APIError{StatusCode: resp.StatusCode, URL: fullURL, Body: string(respBody)}
		}
	}
}
