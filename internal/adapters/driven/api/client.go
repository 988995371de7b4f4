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
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// DefaultTimeout bounds each request when none is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response is kept for the error.
const maxErrorBody = 4 << 10

// ErrNoBaseURL is returned when a client is created without a base URL.
var ErrNoBaseURL = errors.New("base URL is required")

// ClientConfig holds configuration for a Client.
type ClientConfig struct {
	// Name labels errors and log lines, e.g. "ollama".
	Name string

	// BaseURL is prefixed to every request path.
	BaseURL string

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond caps the request rate. Zero disables limiting.
	RequestsPerSecond float64

	// Burst is the token bucket size (default: 5).
	Burst int

	// Headers are set on every request.
	Headers map[string]string

	// HTTPClient overrides the underlying client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Service    string
	StatusCode int
	Body       string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s error (status %d)", e.Service, e.StatusCode)
	}
	return fmt.Sprintf("%s error (status %d): %s", e.Service, e.StatusCode, e.Body)
}

// FilePart is a file field in a multipart request.
type FilePart struct {
	Field    string
	Name     string
	MimeType string
	Content  io.Reader
}

// Client is a rate-limited JSON HTTP client bound to one base URL.
type Client struct {
	name    string
	baseURL string
	http    *http.Client
	limiter *RateLimiter
	headers map[string]string
	log     logger.Logger
}

// NewClient creates a client from cfg.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}
	if cfg.Name == "" {
		cfg.Name = "api"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		name:    cfg.Name,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		limiter: NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst),
		headers: headers,
		log:     logger.For(cfg.Name),
	}, nil
}

// Name returns the service label.
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetJSON sends a GET and decodes the response into out (if non-nil).
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	return c.send(ctx, http.MethodGet, path, nil, "", out)
}

// PostJSON encodes in as the request body and decodes the response into out (if non-nil).
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.send(ctx, http.MethodPost, path, body, "application/json", out)
}

// PostMultipart uploads file as multipart/form-data and decodes the response into out (if non-nil).
func (c *Client) PostMultipart(ctx context.Context, path string, file FilePart, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	field := file.Field
	if field == "" {
		field = "file"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create form part: %w", err)
	}
	if file.Content != nil {
		if _, err := io.Copy(part, file.Content); err != nil {
			return fmt.Errorf("write form part: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	return c.send(ctx, http.MethodPost, path, buf.Bytes(), w.FormDataContentType(), out)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", c.name, err)
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	c.log.Debug("%s %s", method, req.URL.Path)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.Backoff(resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Service:    c.name,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) url(path string) string {
	if path == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}
