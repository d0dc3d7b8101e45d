// Package transport is a thin, resty-backed HTTP capability: two
// operations, get and post, with content-type-aware body encoding,
// automatic response decompression, and a per-host retry policy.
//
// Grounded on the teacher's service/svmbase/svm.go resty usage and on
// original_source's core_client (client_config.rs, retry.rs,
// content_type.rs), whose defaults and retry classification this
// package reproduces exactly.
package transport

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout        = 30 * time.Second
	defaultConnectTimeout = 15 * time.Second
	defaultIdleTimeout    = 90 * time.Second
	defaultMaxIdlePerHost = 20
	defaultKeepAlive      = 60 * time.Second
)

// RetryPolicy configures per-host retry behavior: the maximum number of
// retries and an optional predicate overriding the default retryable-error
// classification.
type RetryPolicy struct {
	Host           string
	MaxRetries     int
	ShouldRetry    func(err error) bool
	BackoffCapSecs int64
}

// DefaultShouldRetry matches the original_source default: 429/502/503/504
// or the substrings "too many requests"/"throttled", anywhere in the
// lowercased error string.
func DefaultShouldRetry(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	for _, needle := range []string{"429", "502", "503", "504", "too many requests", "throttled"} {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}

// Backoff returns the exponential delay for the given 1-based attempt
// number: min(2^attempt, 1800) seconds.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	secs := int64(1)
	for i := 0; i < attempt; i++ {
		secs *= 2
		if secs >= 1800 {
			secs = 1800
			break
		}
	}
	return time.Duration(secs) * time.Second
}

// Client is the HTTP capability used by every chain provider's RPC layer.
type Client struct {
	baseURL string
	http    *resty.Client
	retry   RetryPolicy
}

// Config carries the tunables a Client is constructed with; zero values
// fall back to the standard defaults.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	UserAgent   string
	RetryPolicy RetryPolicy
}

// New builds a Client with the standard connection-pool defaults: 30s
// request timeout, 15s connect timeout, 90s idle timeout, 20 max idle
// connections per host, 60s TCP keep-alive, and gzip/deflate response
// decompression (resty/net-http handle this transparently).
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   defaultConnectTimeout,
			KeepAlive: defaultKeepAlive,
		}).DialContext,
		IdleConnTimeout:     defaultIdleTimeout,
		MaxIdleConnsPerHost: defaultMaxIdlePerHost,
		DisableCompression:  false,
	}

	rc := resty.New().
		SetTransport(transport).
		SetTimeout(timeout).
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/"))

	if cfg.UserAgent != "" {
		rc.SetHeader("User-Agent", cfg.UserAgent)
	}

	retryPolicy := cfg.RetryPolicy
	if retryPolicy.MaxRetries == 0 {
		retryPolicy.MaxRetries = 3
	}
	if retryPolicy.ShouldRetry == nil {
		retryPolicy.ShouldRetry = DefaultShouldRetry
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    rc,
		retry:   retryPolicy,
	}
}

// Retryable reports whether an HTTP status code should be retried:
// 429, 500, 502, 503, 504.
func Retryable(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// BuildBody encodes body according to contentType, per the dispatch table:
// application/json serializes the value; text/plain and
// application/x-www-form-urlencoded require body to already be a string and
// emit its UTF-8 bytes; application/x-binary requires body to be a hex
// string and decodes it to raw bytes. Any mismatch fails with a
// serialization error before any network call is made.
func BuildBody(contentType ContentType, body interface{}) ([]byte, error) {
	switch {
	case contentType.requiresStringBody():
		s, ok := body.(string)
		if !ok {
			return nil, newSerializationError(fmt.Sprintf("content type %s requires a string body", contentType))
		}
		return []byte(s), nil
	case contentType.requiresHexBody():
		s, ok := body.(string)
		if !ok {
			return nil, newSerializationError(fmt.Sprintf("content type %s requires a hex string body", contentType))
		}
		decoded, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return nil, newSerializationError(fmt.Sprintf("malformed hex body: %s", err))
		}
		return decoded, nil
	default:
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, newSerializationError(err.Error())
		}
		return encoded, nil
	}
}

// Get issues a GET to path (relative to the client's base URL) and decodes
// the JSON response body into out.
func (c *Client) Get(ctx context.Context, path string, headers map[string]string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, nil, headers, out)
}

// Post issues a POST to path with body encoded per the Content-Type header
// in headers (default application/json), and decodes the JSON response
// body into out.
func (c *Client) Post(ctx context.Context, path string, body interface{}, headers map[string]string, out interface{}) error {
	contentType := ContentTypeJSON
	if v, ok := headerValue(headers, headerContentType); ok {
		if parsed, ok := ParseContentType(v); ok {
			contentType = parsed
		}
	}
	encoded, err := BuildBody(contentType, body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, encoded, &contentType, headers, out)
}

func (c *Client) do(ctx context.Context, method, path string, rawBody []byte, contentType *ContentType, headers map[string]string, out interface{}) error {
	var lastErr error
	for attempt := 1; attempt <= c.retry.MaxRetries+1; attempt++ {
		req := c.http.R().SetContext(ctx)
		for k, v := range headers {
			req.SetHeader(k, v)
		}
		if contentType != nil {
			req.SetHeader(headerContentType, contentType.String())
		}
		if rawBody != nil {
			req.SetBody(rawBody)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			lastErr = classifyNetworkError(err)
			if attempt <= c.retry.MaxRetries && c.retry.ShouldRetry(lastErr) {
				time.Sleep(Backoff(attempt))
				continue
			}
			return lastErr
		}

		status := resp.StatusCode()
		if status >= 200 && status < 300 {
			if out != nil {
				if err := json.Unmarshal(resp.Body(), out); err != nil {
					return newSerializationError(err.Error())
				}
			}
			return nil
		}

		httpErr := newHTTPStatusError(status, len(resp.Body()))
		lastErr = httpErr
		if Retryable(status) && attempt <= c.retry.MaxRetries {
			time.Sleep(Backoff(attempt))
			continue
		}
		return httpErr
	}
	return lastErr
}

func classifyNetworkError(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(strings.ToLower(err.Error()), "timeout") || strings.Contains(strings.ToLower(err.Error()), "deadline exceeded") {
		return newTimeoutError()
	}
	return newNetworkError(err.Error())
}
