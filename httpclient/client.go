package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/jrsteele09/go-session-client/internal/errors"
)

const (
	defaultTimeout = 10 * time.Second
	maxBody        = 1 << 20
	maxUpload      = 10 << 20
)

// Client is the single HTTP client shared by every backend call. Requests
// pass through the bearer hook on the way out and the recovery hook on the
// way back.
type Client struct {
	baseURL string
	http    *http.Client
	hooks   *hooks
}

// Option configures a Client
type Option func(*options)

type options struct {
	timeout   time.Duration
	transport http.RoundTripper
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithTransport replaces the base transport the hooks wrap
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) {
		if rt != nil {
			o.transport = rt
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	o := options{timeout: defaultTimeout, transport: http.DefaultTransport}
	for _, opt := range opts {
		opt(&o)
	}

	h := &hooks{}
	chain := &recoveryTransport{
		hooks: h,
		next:  &bearerTransport{hooks: h, next: o.transport},
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: o.timeout, Transport: chain},
		hooks:   h,
	}
}

// Use installs the credential source and the 401 recoverer
func (c *Client) Use(source CredentialSource, recoverer Recoverer) {
	c.hooks.set(source, recoverer)
}

// HTTPClient exposes the underlying client, hooks included
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	_, err := c.DoJSON(ctx, http.MethodGet, path, nil, out)
	return err
}

func (c *Client) PostJSON(ctx context.Context, path string, body, out any) (int, error) {
	return c.DoJSON(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	_, err := c.DoJSON(ctx, http.MethodPatch, path, body, out)
	return err
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	_, err := c.DoJSON(ctx, http.MethodPut, path, body, out)
	return err
}

func (c *Client) Delete(ctx context.Context, path string) error {
	_, err := c.DoJSON(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// DeleteJSON deletes and decodes the response body into out
func (c *Client) DeleteJSON(ctx context.Context, path string, out any) error {
	_, err := c.DoJSON(ctx, http.MethodDelete, path, nil, out)
	return err
}

// DoJSON sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses come back as *APIError.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out any) (int, error) {
	var payload []byte
	contentType := ""
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("[httpclient DoJSON] encode request body: %w", err)
		}
		payload, contentType = b, "application/json"
	}

	status, respBody, err := c.send(ctx, method, path, payload, contentType, maxBody)
	if err != nil {
		return status, err
	}
	if out == nil || len(respBody) == 0 {
		return status, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return status, fmt.Errorf("[httpclient DoJSON] %s %s: %w: %v", method, path, errors.ErrMalformedResponse, err)
	}
	return status, nil
}

// Upload posts content as the multipart form field "file" and decodes the
// JSON response into out. The form is buffered so a recovered request can
// be replayed.
func (c *Client) Upload(ctx context.Context, path, filename, mimeType string, content io.Reader, out any) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	header.Set("Content-Type", mimeType)
	part, err := form.CreatePart(header)
	if err != nil {
		return fmt.Errorf("[httpclient Upload] %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(content, maxUpload+1)); err != nil {
		return fmt.Errorf("[httpclient Upload] read %s: %w", filename, err)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("[httpclient Upload] %w", err)
	}
	if buf.Len() > maxUpload+maxBody {
		return fmt.Errorf("[httpclient Upload] %s is larger than %d bytes: %w", filename, maxUpload, errors.ErrInvalidRequest)
	}

	_, respBody, err := c.send(ctx, http.MethodPost, path, buf.Bytes(), form.FormDataContentType(), maxBody)
	if err != nil {
		return err
	}
	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("[httpclient Upload] %s: %w: %v", path, errors.ErrMalformedResponse, err)
	}
	return nil
}

// Download returns the raw body of a GET
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	_, body, err := c.send(ctx, http.MethodGet, path, nil, "", maxUpload)
	return body, err
}

// send performs one request through the hooks and reads at most limit
// bytes of the response
func (c *Client) send(ctx context.Context, method, path string, payload []byte, contentType string, limit int64) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("[httpclient send] %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("[httpclient send] %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, limit))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, nil, newAPIError(resp.StatusCode, respBody)
	}
	return resp.StatusCode, respBody, nil
}

// APIError is a non-2xx backend response
type APIError struct {
	StatusCode int
	Detail     string
}

func newAPIError(status int, body []byte) *APIError {
	var parsed struct {
		Detail any    `json:"detail"`
		Error  string `json:"error"`
	}
	detail := ""
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch d := parsed.Detail.(type) {
		case string:
			detail = d
		case nil:
			detail = parsed.Error
		default:
			b, _ := json.Marshal(d)
			detail = string(b)
		}
	}
	if detail == "" {
		detail = strings.TrimSpace(string(body))
	}
	if len(detail) > 240 {
		detail = detail[:237] + "..."
	}
	if detail == "" {
		detail = http.StatusText(status)
	}
	return &APIError{StatusCode: status, Detail: detail}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d: %s", e.StatusCode, e.Detail)
}

func (e *APIError) Is(target error) bool {
	switch target {
	case errors.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	case errors.ErrForbidden:
		return e.StatusCode == http.StatusForbidden
	case errors.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case errors.ErrInvalidRequest:
		return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
	}
	return false
}
