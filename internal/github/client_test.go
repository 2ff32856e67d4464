package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient points a client at the given handler and replaces sleep
// with a recorder so tests never actually wait.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *[]time.Duration) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewClientWithBaseURL("acme", "test-token", server.URL, zap.NewNop())
	sleeps := &[]time.Duration{}
	client.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return client, sleeps
}

func TestDoJSON_SetsHeaders(t *testing.T) {
	var got http.Header
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))

	err := client.doJSON(context.Background(), http.MethodGet, "/ping", nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-token", got.Get("Authorization"))
	assert.Equal(t, "application/vnd.github+json", got.Get("Accept"))
	assert.Equal(t, "2022-11-28", got.Get("X-GitHub-Api-Version"))
	assert.Equal(t, "copilot-costs", got.Get("User-Agent"))
}

func TestDoJSON_RetriesTransientErrors(t *testing.T) {
	attempts := 0
	client, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))

	var out map[string]bool
	err := client.doJSON(context.Background(), http.MethodGet, "/flaky", nil, nil, &out)
	require.NoError(t, err)

	assert.Equal(t, 3, attempts)
	assert.True(t, out["ok"])
	// Exponential backoff: 1s after the first failure, 2s after the second.
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *sleeps)
}

func TestDoJSON_RetriesExhausted(t *testing.T) {
	attempts := 0
	client, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	err := client.doJSON(context.Background(), http.MethodGet, "/down", nil, nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)

	// Initial attempt plus maxRetries, sleeping between attempts only.
	assert.Equal(t, maxRetries+1, attempts)
	assert.Len(t, *sleeps, maxRetries)
}

func TestDoJSON_NonTransientFailsImmediately(t *testing.T) {
	attempts := 0
	client, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "Not Found"}`))
	}))

	err := client.doJSON(context.Background(), http.MethodGet, "/missing", nil, nil, nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Not Found")

	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}

func TestDoJSON_RateLimitWaitsForReset(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reset := now.Add(30 * time.Second)

	attempts := 0
	client, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	client.now = func() time.Time { return now }

	err := client.doJSON(context.Background(), http.MethodGet, "/limited", nil, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, attempts)
	require.Len(t, *sleeps, 1)
	// Waits until the advertised reset plus the one second buffer.
	assert.Equal(t, 30*time.Second+rateLimitResetBuffer, (*sleeps)[0])
}

func TestDoJSON_RateLimitDoesNotConsumeRetries(t *testing.T) {
	// 429s interleaved with 500s: the rate-limit waits must not count
	// against the transient retry budget.
	responses := []int{
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusOK,
	}
	attempts := 0
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := responses[attempts]
		attempts++
		if status == http.StatusOK {
			w.Write([]byte(`{}`))
			return
		}
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Unix(), 10))
		w.WriteHeader(status)
	}))

	err := client.doJSON(context.Background(), http.MethodGet, "/mixed", nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, len(responses), attempts)
}

func TestDoJSON_RateLimitWaitBudgetExceeded(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	reset := now.Add(20 * time.Minute)

	attempts := 0
	client, sleeps := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	client.now = func() time.Time { return now }

	err := client.doJSON(context.Background(), http.MethodGet, "/limited", nil, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRateLimited))

	// The wait would exceed the budget, so the call fails without sleeping.
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}

func TestResetWait(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	client := NewClient("acme", "token", zap.NewNop())
	client.now = func() time.Time { return now }

	tests := []struct {
		name  string
		reset string
		want  time.Duration
	}{
		{name: "future reset", reset: strconv.FormatInt(now.Add(10*time.Second).Unix(), 10), want: 10*time.Second + rateLimitResetBuffer},
		{name: "reset in the past", reset: strconv.FormatInt(now.Add(-time.Minute).Unix(), 10), want: rateLimitResetBuffer},
		{name: "missing header", reset: "", want: time.Minute},
		{name: "garbage header", reset: "soon", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			if tt.reset != "" {
				h.Set("X-RateLimit-Reset", tt.reset)
			}
			assert.Equal(t, tt.want, client.resetWait(h))
		})
	}
}
