// ABOUTME: HTTP client for the remote Flasker API with JSON request/response handling.
// ABOUTME: Treats any non-2xx status as failure and shares a cookie jar for credentialed calls.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/flasker/internal/logging"
)

// HTTPError is returned when the API answers with a status outside 200-299.
// The response body is never inspected.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s returned %s", e.Method, e.Path, e.Status)
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == code
}

// Client talks to a Flasker API at a fixed base URL.
type Client struct {
	baseURL string
	anon    *http.Client
	creds   *http.Client
	log     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithJar sets the cookie jar used for credentialed requests.
func WithJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.creds.Jar = jar
	}
}

// WithTimeout sets the per-request timeout for both anonymous and credentialed calls.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.anon.Timeout = d
		c.creds.Timeout = d
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *logging.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anon:    &http.Client{Timeout: 30 * time.Second},
		creds:   &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API origin requests are sent to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type requestConfig struct {
	credentials bool
}

// RequestOption configures a single request.
type RequestOption func(*requestConfig)

// WithCredentials sends the request with the session's cookies attached.
func WithCredentials() RequestOption {
	return func(rc *requestConfig) {
		rc.credentials = true
	}
}

// Request sends method to path with body JSON-encoded (when non-nil) and
// decodes a successful JSON response into out (when non-nil).
func (c *Client) Request(ctx context.Context, method, path string, body, out any, opts ...RequestOption) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, path, out, opts)
}

// UploadFile posts r as a multipart form file under field and decodes the JSON response into out.
func (c *Client) UploadFile(ctx context.Context, path, field, filename string, r io.Reader, out any, opts ...RequestOption) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, path, out, opts)
}

func (c *Client) do(req *http.Request, path string, out any, opts []RequestOption) error {
	var rc requestConfig
	for _, opt := range opts {
		opt(&rc)
	}
	client := c.anon
	if rc.credentials {
		client = c.creds
	}

	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		c.log.Warnf("%s %s [%s] failed after %s: %v", req.Method, path, reqID[:8], time.Since(start), err)
		return fmt.Errorf("request %s %s failed: %w", req.Method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	c.log.Debugf("%s %s [%s] -> %d (%s)", req.Method, path, reqID[:8], resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return &HTTPError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s %s response: %w", req.Method, path, err)
	}
	return nil
}
