package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDown = errors.New("provider down")

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{
		Provider:    "test",
		BaseURL:     srv.URL + "/",
		Headers:     map[string]string{"X-Key": "secret"},
		Unavailable: errDown,
	})
}

func TestPost(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/echo", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("X-Key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"greeting":"hi"}`))
	})

	var out struct {
		Greeting string `json:"greeting"`
	}
	require.NoError(t, c.Post(context.Background(), "/echo", map[string]string{"name": "x"}, &out))
	assert.Equal(t, "hi", out.Greeting)
}

func TestPost_Failures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantDown  bool
		wantInMsg string
	}{
		{"nested error message", http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, true, "bad key"},
		{"flat error message", http.StatusNotFound, `{"error":"model not found"}`, true, "model not found"},
		{"plain text", http.StatusBadGateway, "upstream down\n", true, "status 502: upstream down"},
		{"undecodable 200", http.StatusOK, "not json", false, "decode response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			var out map[string]any
			err := c.Post(context.Background(), "/x", struct{}{}, &out)
			require.Error(t, err)
			assert.Equal(t, tt.wantDown, errors.Is(err, errDown))
			assert.Contains(t, err.Error(), tt.wantInMsg)
		})
	}
}

func TestPing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, http.MethodGet, r.Method)
	})

	assert.NoError(t, c.Ping(context.Background(), "/health"))
	assert.ErrorIs(t, c.Ping(context.Background(), "/other"), errDown)
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(Config{Provider: "test", BaseURL: url, Unavailable: errDown})
	assert.ErrorIs(t, c.Ping(context.Background(), "/"), errDown)
	assert.Equal(t, url, c.BaseURL())
}

func TestRateLimitHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	limited := New(Config{Provider: "test", BaseURL: c.BaseURL(), RequestsPerSecond: 0.001})
	var out map[string]any
	require.NoError(t, limited.Post(context.Background(), "/", struct{}{}, &out))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := limited.Post(ctx, "/", struct{}{}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
}

func TestFloat32s(t *testing.T) {
	assert.Equal(t, []float32{0.5, -1}, Float32s([]float64{0.5, -1}))
	assert.Empty(t, Float32s(nil))
}
