package sonar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second

	// Transient failures get a small bounded retry before surfacing.
	maxRetries   = 2
	retryBackoff = 250 * time.Millisecond
)

// Client is the long-lived session against one SonarQube server. It owns the
// transport connection, injects credentials and organization scoping on every
// request, and maps all transport and HTTP failures into the closed error
// taxonomy. A Client is immutable after creation and safe for concurrent use.
type Client struct {
	baseURL    string
	creds      Credentials
	httpClient *http.Client
}

// Option configures a Client at creation time.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Used by tests and by
// callers that need custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client session and verifies it against the server with
// one authentication check. Creation fails with a connection-kind error when
// the server is unreachable or the credentials are rejected; the hosting
// process must not start on a broken session.
func NewClient(ctx context.Context, baseURL string, creds Credentials, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, newError(KindConfiguration, "server URL is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.ping(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ping performs the startup authentication check.
func (c *Client) ping(ctx context.Context) error {
	body, err := c.get(ctx, "api/authentication/validate", nil)
	if err != nil {
		return wrapError(KindConnection, "authentication check failed", err)
	}

	var status struct {
		Valid bool `json:"valid"`
	}
	if err := json.Unmarshal(body, &status); err != nil {
		return wrapError(KindConnection, "authentication check returned an unexpected body", err)
	}
	if !status.Valid {
		return newError(KindConnection, "server rejected the configured credentials")
	}
	return nil
}

// Organization returns the configured organization scope, if any.
func (c *Client) Organization() string { return c.creds.Organization }

// get executes a GET request and returns the raw response body.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return c.execute(ctx, http.MethodGet, endpoint, params)
}

// post executes a POST request with form-encoded parameters, which is the
// encoding the SonarQube write endpoints expect.
func (c *Client) post(ctx context.Context, endpoint string, params url.Values) (json.RawMessage, error) {
	return c.execute(ctx, http.MethodPost, endpoint, params)
}

func (c *Client) execute(ctx context.Context, method, endpoint string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	if org := c.creds.Organization; org != "" && params.Get("organization") == "" {
		params.Set("organization", org)
	}

	for attempt := 0; ; attempt++ {
		body, err := c.roundTrip(ctx, method, endpoint, params)
		if err == nil {
			return body, nil
		}
		if !IsTransient(err) || attempt >= maxRetries {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, wrapError(KindConnection, fmt.Sprintf("%s canceled", endpoint), ctx.Err())
		case <-time.After(retryBackoff << attempt):
		}
	}
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, params url.Values) (json.RawMessage, error) {
	u := c.baseURL + "/" + endpoint
	var reqBody io.Reader
	if method == http.MethodGet {
		if len(params) > 0 {
			u += "?" + params.Encode()
		}
	} else {
		reqBody = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, wrapError(KindConnection, fmt.Sprintf("build request for %s", endpoint), err)
	}
	if method != http.MethodGet {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	c.creds.apply(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, wrapError(KindConnection, fmt.Sprintf("%s canceled", endpoint), ctx.Err())
		}
		return nil, mapTransportError(endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, mapTransportError(endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, mapStatusError(endpoint, resp.StatusCode, body)
	}
	return body, nil
}
