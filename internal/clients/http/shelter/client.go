// Package shelter is the HTTP client for the dog shelter REST API.
//
// The API keeps its session in a cookie set by POST /auth/login, so every
// Client owns a cookie jar and sends credentials on each call. The client
// never retries and never logs; callers decide how to recover.
package shelter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/net/publicsuffix"
)

// DefaultBaseURL is the public shelter API endpoint.
const DefaultBaseURL = "https://frontend-take-home-service.fetch.com"

const maxErrorBody = 1 << 20

// Client issues requests against a fixed shelter API base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
}

// Option configures the client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// WithHTTPClient supplies the underlying HTTP client. A cookie jar is attached
// to a copy of it when it has none.
func WithHTTPClient(c *http.Client) Option {
	return func(opts *options) {
		opts.httpClient = c
	}
}

// WithTimeout bounds each request. Zero means no client-side timeout.
func WithTimeout(d time.Duration) Option {
	return func(opts *options) {
		opts.timeout = d
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(opts *options) {
		opts.userAgent = strings.TrimSpace(ua)
	}
}

// NewClient builds a client for baseURL.
func NewClient(baseURL string, optFns ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("shelter base URL is required")
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse shelter base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("shelter base URL must be http or https, got %q", parsed.Scheme)
	}
	var opts options
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	httpClient, err := buildHTTPClient(opts)
	if err != nil {
		return nil, err
	}
	return &Client{baseURL: parsed, httpClient: httpClient, userAgent: opts.userAgent}, nil
}

func buildHTTPClient(opts options) (*http.Client, error) {
	if opts.httpClient != nil && opts.httpClient.Jar != nil && opts.timeout == 0 {
		return opts.httpClient, nil
	}
	var c http.Client
	if opts.httpClient != nil {
		c = *opts.httpClient
	} else {
		c.Transport = otelhttp.NewTransport(http.DefaultTransport)
	}
	if c.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("create cookie jar: %w", err)
		}
		c.Jar = jar
	}
	if opts.timeout > 0 {
		c.Timeout = opts.timeout
	}
	return &c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Login establishes a session. The server answers with a session cookie that
// the client's jar replays on subsequent calls.
func (c *Client) Login(ctx context.Context, name, email string) error {
	return c.do(ctx, "login", http.MethodPost, "/auth/login", nil, loginRequest{Name: name, Email: email}, nil)
}

// Logout ends the session. A 204 answer is a normal success.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, "/auth/logout", nil, nil, nil)
}

// Breeds lists every breed name known to the catalog.
func (c *Client) Breeds(ctx context.Context) ([]string, error) {
	var breeds []string
	if err := c.do(ctx, "list breeds", http.MethodGet, "/dogs/breeds", nil, nil, &breeds); err != nil {
		return nil, err
	}
	return breeds, nil
}

// SearchDogs runs a catalog search and returns matching ids plus navigation
// references.
func (c *Client) SearchDogs(ctx context.Context, params SearchParams) (*SearchResponse, error) {
	values, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("encode search params: %w", err)
	}
	var resp *SearchResponse
	if err := c.do(ctx, "search dogs", http.MethodGet, "/dogs/search", values, nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// FetchDogs loads the dog records for ids. An empty id list is still sent to
// the server.
func (c *Client) FetchDogs(ctx context.Context, ids []string) ([]Dog, error) {
	if ids == nil {
		ids = []string{}
	}
	var dogs []Dog
	if err := c.do(ctx, "fetch dogs", http.MethodPost, "/dogs", nil, ids, &dogs); err != nil {
		return nil, err
	}
	return dogs, nil
}

// Match asks the service to pick one dog out of favoriteIDs.
func (c *Client) Match(ctx context.Context, favoriteIDs []string) (*MatchResponse, error) {
	if favoriteIDs == nil {
		favoriteIDs = []string{}
	}
	var resp *MatchResponse
	if err := c.do(ctx, "match", http.MethodPost, "/dogs/match", nil, favoriteIDs, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Locations resolves zip codes to locations.
func (c *Client) Locations(ctx context.Context, zipCodes []string) ([]Location, error) {
	if zipCodes == nil {
		zipCodes = []string{}
	}
	var locations []Location
	if err := c.do(ctx, "fetch locations", http.MethodPost, "/locations", nil, zipCodes, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// SearchLocations searches locations by city, state or bounding box.
func (c *Client) SearchLocations(ctx context.Context, params LocationSearchParams) (*LocationSearchResponse, error) {
	var resp *LocationSearchResponse
	if err := c.do(ctx, "search locations", http.MethodPost, "/locations/search", nil, params, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// do performs one request/response exchange. out is left untouched on 204 or
// when nil.
func (c *Client) do(ctx context.Context, op, method, path string, values url.Values, body, out any) error {
	if c == nil || c.httpClient == nil {
		return errors.New("shelter client not configured")
	}
	target := c.baseURL.JoinPath(path)
	if len(values) > 0 {
		target.RawQuery = values.Encode()
	}
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("shelter %s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("shelter %s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Op: op, URL: target.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newHTTPError(op, resp)
	}
	if resp.StatusCode == http.StatusNoContent || out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, URL: target.Path, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &DecodeError{Op: op, Err: err}
	}
	return nil
}

func newHTTPError(op string, resp *http.Response) *HTTPError {
	httpErr := &HTTPError{Op: op, Status: resp.StatusCode, Message: fallbackMessage(resp.StatusCode)}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return httpErr
	}
	var body errorBody
	if err := json.Unmarshal(raw, &body); err != nil {
		return httpErr
	}
	if msg := strings.TrimSpace(body.Message); msg != "" {
		httpErr.Message = msg
	}
	return httpErr
}
