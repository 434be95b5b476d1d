package requests

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *fakeClock) {
	t.Helper()

	clock := newFakeClock()
	limiter := CreateRateLimiter(100, 120*time.Second, 0)
	clock.attach(limiter)

	return CreateClient("test-key", limiter, 5*time.Second), clock
}

func TestClientGet(t *testing.T) {
	var gotToken, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Riot-Token")
		gotQuery = r.URL.Query().Get("count")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t)
	body, err := client.Get(context.Background(), server.URL, map[string]string{"count": "10"})

	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(body))
	assert.Equal(t, "test-key", gotToken)
	assert.Equal(t, "10", gotQuery)
}

func TestClientGetStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"status":{"message":"Forbidden"}}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t)
	_, err := client.Get(context.Background(), server.URL, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)
	assert.Contains(t, httpErr.Body, "Forbidden")
}

func TestClientGetRetriesOnceOn429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Retry-After", "3")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`["NA1_1"]`))
	}))
	defer server.Close()

	client, clock := newTestClient(t)
	body, err := client.Get(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, `["NA1_1"]`, string(body))
	assert.Equal(t, 2, calls)
	// The pause honored the server hint.
	assert.Contains(t, clock.slept, 3*time.Second)
}

func TestClientGetGivesUpOnRepeated429(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client, _ := newTestClient(t)
	_, err := client.Get(context.Background(), server.URL, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Status)
	assert.Equal(t, 2, calls, "exactly one automatic retry")
}

func TestClientGetRetriesNetworkFailure(t *testing.T) {
	// A server that drops the first connection.
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok)
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client, _ := newTestClient(t)
	body, err := client.Get(context.Background(), server.URL, nil)

	require.NoError(t, err)
	assert.Equal(t, `{}`, string(body))
	assert.Equal(t, 2, calls)
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{value: "", want: 0},
		{value: "10", want: 10 * time.Second},
		{value: "garbage", want: 0},
		{value: "-5", want: 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseRetryAfter(tt.value), "value %q", tt.value)
	}
}
