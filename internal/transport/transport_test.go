package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBodyJSON(t *testing.T) {
	body, err := BuildBody(ContentTypeJSON, map[string]int{"a": 1})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(body))
}

func TestBuildBodyTextPlainRequiresString(t *testing.T) {
	_, err := BuildBody(ContentTypeTextPlain, 42)
	require.Error(t, err)
	var tErr *Error
	require.ErrorAs(t, err, &tErr)
	assert.Equal(t, KindSerialization, tErr.Kind)
}

func TestBuildBodyTextPlain(t *testing.T) {
	body, err := BuildBody(ContentTypeTextPlain, "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
}

func TestBuildBodyBinary(t *testing.T) {
	body, err := BuildBody(ContentTypeXBinary, "0xdeadbeef")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, body)
}

func TestBuildBodyBinaryMalformedHex(t *testing.T) {
	_, err := BuildBody(ContentTypeXBinary, "not-hex")
	require.Error(t, err)
}

func TestBuildBodyBinaryRequiresString(t *testing.T) {
	_, err := BuildBody(ContentTypeXBinary, 42)
	require.Error(t, err)
}

func TestRetryableStatuses(t *testing.T) {
	for _, s := range []int{429, 500, 502, 503, 504} {
		assert.True(t, Retryable(s), s)
	}
	for _, s := range []int{200, 201, 400, 404} {
		assert.False(t, Retryable(s), s)
	}
}

func TestBackoffCapsAt1800(t *testing.T) {
	assert.Equal(t, 2*time.Second, Backoff(1))
	assert.Equal(t, 4*time.Second, Backoff(2))
	assert.Equal(t, 1800*time.Second, Backoff(20))
}

func TestGetRetriesThenSucceeds(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, RetryPolicy: RetryPolicy{MaxRetries: 3}})
	var out struct {
		OK bool `json:"ok"`
	}
	err := c.Get(context.Background(), "/", nil, &out)
	require.NoError(t, err)
	assert.True(t, out.OK)
	assert.Equal(t, 3, attempts)
}

// spec.md §8: with max_retries=1, a persistently-failing upstream is given
// exactly one retry (two attempts total) before the call fails.
func TestGetExhaustsRetriesThenFails(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, RetryPolicy: RetryPolicy{MaxRetries: 1}})
	err := c.Get(context.Background(), "/", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestGetNonRetryableStopsImmediately(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := New(Config{BaseURL: server.URL, RetryPolicy: RetryPolicy{MaxRetries: 3}})
	err := c.Get(context.Background(), "/", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
