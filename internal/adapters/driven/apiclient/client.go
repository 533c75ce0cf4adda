// Package apiclient is the JSON-over-HTTP transport shared by the AI provider adapters.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 32 << 20

// Config describes one provider endpoint.
type Config struct {
	// Provider prefixes every error message, e.g. "ollama".
	Provider string
	BaseURL  string
	Timeout  time.Duration
	// Headers are sent with every request (auth, API version).
	Headers map[string]string
	// RequestsPerSecond throttles Post. Zero disables throttling.
	RequestsPerSecond float64
	// Unavailable is wrapped into transport failures and non-200 replies.
	Unavailable error
}

// Client sends JSON requests to a single provider.
type Client struct {
	http        *http.Client
	limiter     *rate.Limiter
	provider    string
	baseURL     string
	headers     map[string]string
	unavailable error
}

// New builds a client. BaseURL loses any trailing slash.
func New(cfg Config) *Client {
	c := &Client{
		http:        &http.Client{Timeout: cfg.Timeout},
		provider:    cfg.Provider,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		headers:     cfg.Headers,
		unavailable: cfg.Unavailable,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// BaseURL returns the normalised endpoint root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post encodes in, sends it to path and decodes a 200 reply into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: rate limit: %w", c.provider, err)
		}
	}

	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", c.provider, err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return nil
}

// Ping issues a GET against path and expects a 200.
func (c *Client) Ping(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, http.NoBody)
	if err != nil {
		return err
	}
	_, err = c.do(req)
	return err
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", c.provider, err)
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.fail("%v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", c.provider, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, c.fail("status %d: %s", resp.StatusCode, ErrorMessage(body))
	}
	return body, nil
}

func (c *Client) fail(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if c.unavailable == nil {
		return fmt.Errorf("%s: %s", c.provider, msg)
	}
	return fmt.Errorf("%s: %w: %s", c.provider, c.unavailable, msg)
}

// ErrorMessage pulls a readable message out of a provider error body.
// It understands {"error":{"message":...}} and {"error":"..."} and
// otherwise returns the trimmed body.
func ErrorMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(envelope.Error, &nested) == nil && nested.Message != "" {
			return nested.Message
		}
		var flat string
		if json.Unmarshal(envelope.Error, &flat) == nil && flat != "" {
			return flat
		}
	}
	return strings.TrimSpace(string(body))
}

// Float32s narrows a decoded JSON vector.
func Float32s(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
