// Package api is the HTTP access layer for the triage backend.
//
// Client is the transport wrapper shared by the resource clients
// (UserClient, EmailClient). Every failure it produces is an *APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

// Defaults for a backend running locally.
const (
	DefaultBaseURL = "http://localhost:8000/api/v1"
	DefaultTimeout = 10 * time.Second
)

// Response is a successful (2xx) response. JSON holds the body when the
// server declared a JSON content type, Text holds it otherwise.
type Response struct {
	Status int
	JSON   json.RawMessage
	Text   string
}

// IsJSON reports whether the body was declared as JSON.
func (r *Response) IsJSON() bool {
	return r.JSON != nil
}

// Empty reports whether the response carries no data: an empty body,
// a JSON null, or an empty string.
func (r *Response) Empty() bool {
	if r.IsJSON() {
		trimmed := bytes.TrimSpace(r.JSON)
		return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`))
	}
	return r.Text == ""
}

// Decode unmarshals a JSON body into v.
func (r *Response) Decode(v any) error {
	if !r.IsJSON() {
		return fmt.Errorf("response is not JSON")
	}
	return json.Unmarshal(r.JSON, v)
}

// Client issues requests against the backend base URL.
type Client struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	headers    http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTokenSource attaches bearer authentication to every request.
func WithTokenSource(ts oauth2.TokenSource) Option {
	return func(c *Client) {
		if ts == nil {
			return
		}
		base := c.httpClient.Transport
		c.httpClient = &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: base},
		}
	}
}

// WithHeader adds a default header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

// NewClient returns a Client for baseURL. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		timeout:    DefaultTimeout,
		httpClient: &http.Client{},
		headers:    http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, headers http.Header) (*Response, error) {
	return c.Do(ctx, http.MethodGet, endpoint, nil, headers)
}

// Post issues a POST request with body JSON-encoded. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, endpoint string, body any, headers http.Header) (*Response, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPost, endpoint, payload, headers)
}

// Put issues a PUT request with body JSON-encoded.
func (c *Client) Put(ctx context.Context, endpoint string, body any, headers http.Header) (*Response, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPut, endpoint, payload, headers)
}

// Patch issues a PATCH request with body JSON-encoded.
func (c *Client) Patch(ctx context.Context, endpoint string, body any, headers http.Header) (*Response, error) {
	payload, err := encodeBody(body)
	if err != nil {
		return nil, err
	}
	return c.Do(ctx, http.MethodPatch, endpoint, payload, headers)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, headers http.Header) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, endpoint, nil, headers)
}

// Do performs one request against baseURL+endpoint, bounded by the client
// timeout. Caller headers override the defaults. It never fails on a 2xx.
func (c *Client) Do(ctx context.Context, method, endpoint string, body []byte, headers http.Header) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, newError(StatusNetwork, err.Error(), err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	for k, vs := range c.headers {
		req.Header[k] = append([]string(nil), vs...)
	}
	for k, vs := range headers {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError(reqCtx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.transportError(reqCtx, err)
	}

	out := &Response{Status: resp.StatusCode}
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if len(bytes.TrimSpace(raw)) > 0 && !json.Valid(raw) {
			return nil, newError(StatusNetwork, "invalid JSON in response body", nil)
		}
		out.JSON = json.RawMessage(raw)
	} else {
		out.Text = string(raw)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newError(resp.StatusCode, errorMessage(out), nil)
	}
	return out, nil
}

// transportError maps a failed round trip to a timeout or network error.
func (c *Client) transportError(reqCtx context.Context, err error) *APIError {
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
		return newError(StatusTimeout, "Request timed out", err)
	}
	return newError(StatusNetwork, err.Error(), err)
}

// errorMessage picks detail, then message, then "HTTP <status>".
func errorMessage(r *Response) string {
	if r.IsJSON() {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(r.JSON, &fields); err == nil {
			for _, key := range []string{"detail", "message"} {
				if msg := fieldText(fields[key]); msg != "" {
					return msg
				}
			}
		}
	}
	return fmt.Sprintf("HTTP %d", r.Status)
}

// fieldText renders a JSON value as a message: strings as-is, other
// non-empty values (FastAPI validation lists) as compact JSON.
func fieldText(v json.RawMessage) string {
	trimmed := bytes.TrimSpace(v)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		return s
	}
	if bytes.Equal(trimmed, []byte("false")) || bytes.Equal(trimmed, []byte("0")) {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}

func encodeBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, newError(StatusNetwork, fmt.Sprintf("encode request body: %v", err), err)
	}
	return data, nil
}
