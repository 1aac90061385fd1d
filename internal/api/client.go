// Package api provides an HTTP client for the Impact account API.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ImpactDevelopment/impact-cli/internal/auth"
	"github.com/ImpactDevelopment/impact-cli/internal/config"
	"github.com/ImpactDevelopment/impact-cli/internal/output"
	"github.com/ImpactDevelopment/impact-cli/internal/version"
)

// Client is an HTTP client for the Impact account API.
//
// The bearer token is read from the auth manager on every request, not
// at construction time, so each call reflects the current login state.
type Client struct {
	httpClient *http.Client
	auth       *auth.Manager
	baseURL    string
	verbose    int
}

// Response wraps an API response.
type Response struct {
	Data       json.RawMessage
	StatusCode int
	Headers    http.Header
}

// UnmarshalData unmarshals the response data into the given value.
func (r *Response) UnmarshalData(v any) error {
	return json.Unmarshal(r.Data, v)
}

// Text returns the response body as trimmed text. Some endpoints (the
// login family) answer with a bare token rather than a JSON object.
func (r *Response) Text() string {
	var s string
	if err := json.Unmarshal(r.Data, &s); err == nil {
		return s
	}
	return strings.Trim(strings.TrimSpace(string(r.Data)), `"`)
}

// NewClient creates a new API client.
func NewClient(cfg *config.Config, authMgr *auth.Manager) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		auth:    authMgr,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// SetVerbose sets the request logging level: 1 logs request lines and
// status codes, 2 additionally logs response bodies.
func (c *Client) SetVerbose(level int) {
	c.verbose = level
}

// SetHTTPClient replaces the underlying HTTP client (used in tests).
func (c *Client) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// RequestOption customizes a single request.
type RequestOption func(*requestOptions)

type requestOptions struct {
	noAuth  bool
	form    bool
	headers http.Header
}

// WithoutAuth sends the request without the Authorization header even
// when a token is stored. Login and registration endpoints use this.
func WithoutAuth() RequestOption {
	return func(o *requestOptions) { o.noAuth = true }
}

// AsForm encodes the body as application/x-www-form-urlencoded.
// The body must be a url.Values.
func AsForm() RequestOption {
	return func(o *requestOptions) { o.form = true }
}

// WithHeader adds a header to the request. Caller-supplied headers
// survive credential injection unmodified.
func WithHeader(name, value string) RequestOption {
	return func(o *requestOptions) {
		if o.headers == nil {
			o.headers = make(http.Header)
		}
		o.headers.Set(name, value)
	}
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodGet, path, nil, opts...)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPost, path, body, opts...)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPut, path, body, opts...)
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, path, body, opts...)
}

// Do performs a request with an explicit method. All convenience forms
// funnel through here, so credential injection exists exactly once.
func (c *Client) Do(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	var o requestOptions
	for _, opt := range opts {
		opt(&o)
	}

	bodyReader, contentType, err := encodeBody(body, o.form)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.buildURL(path), bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for name, values := range o.headers {
		for _, v := range values {
			req.Header.Set(name, v)
		}
	}

	// Token lookup happens per call. No token is a valid state, e.g.
	// anonymous registration; the request just goes out unauthenticated.
	if !o.noAuth {
		if token := c.auth.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	if c.verbose >= 1 {
		fmt.Fprintf(os.Stderr, "[impact] %s %s\n", method, req.URL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, output.ErrNetwork(err)
	}

	if c.verbose >= 1 {
		fmt.Fprintf(os.Stderr, "[impact] HTTP %d\n", resp.StatusCode)
	}
	if c.verbose >= 2 && len(respBody) > 0 {
		fmt.Fprintf(os.Stderr, "[impact] %s\n", respBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errorFromResponse(resp.StatusCode, respBody)
	}

	return &Response{
		Data:       respBody,
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
	}, nil
}

func encodeBody(body any, form bool) (io.Reader, string, error) {
	if body == nil {
		return nil, "", nil
	}

	if form {
		values, ok := body.(url.Values)
		if !ok {
			return nil, "", fmt.Errorf("form body must be url.Values, got %T", body)
		}
		return strings.NewReader(values.Encode()), "application/x-www-form-urlencoded", nil
	}

	data, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal body: %w", err)
	}
	return strings.NewReader(string(data)), "application/json", nil
}

func (c *Client) buildURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}
