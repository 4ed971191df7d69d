// Package client is a thin resource oriented HTTP client. A Client
// addresses one URL; Resource derives child clients addressing
// nested paths, mirroring the nested route structure of the server
// side. All transport concerns are delegated to net/http.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout applies when neither the request nor the context
// carries one.
const DefaultTimeout = 60 * time.Second

// Doer is the part of *http.Client the Client needs.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

var _ Doer = (*http.Client)(nil)

// Client addresses one base URL and performs one blocking HTTP call
// per method invocation. It is immutable after construction: child
// clients returned by Resource are new values and the original is
// never modified.
type Client struct {
	endpoint string // scheme://host, no path
	path     string // accumulated path, no trailing slash
	doer     Doer
	logger   *zap.Logger

	okStatuses   []int
	noneStatuses []int
	emptyToNone  bool
	closeSlash   bool
	timeout      time.Duration
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithDoer sets the HTTP transport. The default is http.DefaultClient.
func WithDoer(doer Doer) Option {
	return func(t *Client) {
		t.doer = doer
	}
}

// WithLogger sets the logger handle. The default is a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Client) {
		t.logger = logger
	}
}

// WithOKStatuses replaces the status codes treated as success.
// Default: 200, 202.
func WithOKStatuses(statuses ...int) Option {
	return func(t *Client) {
		t.okStatuses = statuses
	}
}

// WithNoneStatuses replaces the status codes that yield a nil result
// instead of an error. Default: 404.
func WithNoneStatuses(statuses ...int) Option {
	return func(t *Client) {
		t.noneStatuses = statuses
	}
}

// WithEmptyToNone controls whether an empty body keyed by Key decodes
// to nil. Default: true.
func WithEmptyToNone(emptyToNone bool) Option {
	return func(t *Client) {
		t.emptyToNone = emptyToNone
	}
}

// WithCloseSlash controls the trailing slash on built URLs.
// Default: true, matching the example server's routing.
func WithCloseSlash(closeSlash bool) Option {
	return func(t *Client) {
		t.closeSlash = closeSlash
	}
}

// WithTimeout sets the default per-call timeout. Default: DefaultTimeout.
func WithTimeout(timeout time.Duration) Option {
	return func(t *Client) {
		t.timeout = timeout
	}
}

// New returns a Client for endpoint, e.g. http://localhost:5000 or
// http://localhost:5000/api/ . A syntactically invalid endpoint is
// not rejected here: calls on such a client fail with a transport
// level error, the same class of failure as an unreachable host.
func New(endpoint string, opts ...Option) *Client {
	t := &Client{
		doer:         http.DefaultClient,
		logger:       zap.NewNop(),
		okStatuses:   []int{http.StatusOK, http.StatusAccepted},
		noneStatuses: []int{http.StatusNotFound},
		emptyToNone:  true,
		closeSlash:   true,
		timeout:      DefaultTimeout,
	}
	endpoint = strings.TrimSuffix(endpoint, "/")
	if parsed, err := url.Parse(endpoint); err == nil && parsed.Host != "" {
		t.endpoint = (&url.URL{
			Scheme: parsed.Scheme,
			Host:   parsed.Host,
		}).String()
		t.path = parsed.Path
	} else {
		// Keep the raw string; the transport reports the failure.
		t.endpoint = endpoint
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger.Debug("client built",
		zap.String("endpoint", t.endpoint),
		zap.String("path", t.path),
	)
	return t
}

// Resource returns a new Client whose base URL is this client's base
// URL with the given segments appended. The receiver is unchanged.
func (t *Client) Resource(segments ...string) *Client {
	child := *t
	child.path = joinSegments(t.path, segments)
	return &child
}

// BaseURL returns the URL the client currently addresses, with the
// trailing slash convention applied.
func (t *Client) BaseURL() string {
	return t.URLFor(nil, nil)
}

func joinSegments(path string, segments []string) string {
	for _, segment := range segments {
		path = path + "/" + url.PathEscape(segment)
	}
	return path
}

// URLFor builds the URL for the given extra segments and query
// values on top of the client's base URL.
func (t *Client) URLFor(segments []string, query url.Values) string {
	path := joinSegments(t.path, segments)
	if t.closeSlash && !strings.HasSuffix(path, "/") {
		path += "/"
	}
	u := t.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	t.logger.Debug("url built", zap.String("url", u))
	return u
}

// Request enumerates the per-call surface. Everything is optional.
type Request struct {
	// Segments are appended to the base URL for this call only.
	Segments []string
	// Key extracts a single field from a decoded JSON object body.
	Key string
	// Query is encoded into the URL's query string.
	Query url.Values
	// Header entries are set on the outgoing request.
	Header http.Header
	// Data, when non-nil, is JSON-encoded as the request body.
	Data interface{}
	// Timeout overrides the client's default for this call.
	Timeout time.Duration
}

// Get performs a GET against the client's base URL.
func (t *Client) Get(ctx context.Context, req Request) (interface{}, error) {
	return t.Do(ctx, http.MethodGet, req)
}

// Post performs a POST against the client's base URL.
func (t *Client) Post(ctx context.Context, req Request) (interface{}, error) {
	return t.Do(ctx, http.MethodPost, req)
}

// Put performs a PUT against the client's base URL.
func (t *Client) Put(ctx context.Context, req Request) (interface{}, error) {
	return t.Do(ctx, http.MethodPut, req)
}

// Patch performs a PATCH against the client's base URL.
func (t *Client) Patch(ctx context.Context, req Request) (interface{}, error) {
	return t.Do(ctx, http.MethodPatch, req)
}

// Delete performs a DELETE against the client's base URL.
func (t *Client) Delete(ctx context.Context, req Request) (interface{}, error) {
	return t.Do(ctx, http.MethodDelete, req)
}

// Do performs one blocking request and returns the decoded response
// body, or body[req.Key] when Key is set. Transport errors are
// returned as-is; response level failures are *ResponseError.
func (t *Client) Do(ctx context.Context, method string, req Request) (
	interface{}, error) {
	u := t.URLFor(req.Segments, req.Query)

	var body io.Reader
	if req.Data != nil {
		b, err := json.Marshal(req.Data)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	timeout := t.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.Data != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, values := range req.Header {
		httpReq.Header[http.CanonicalHeaderKey(key)] = values
	}

	t.logger.Info("request", zap.String("method", method), zap.String("url", u))
	res, err := t.doer.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	return t.handleResponse(res, req.Key)
}

func contains(statuses []int, status int) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func isEmpty(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case []interface{}:
		return len(value) == 0
	case map[string]interface{}:
		return len(value) == 0
	}
	return false
}

// handleResponse decodes the body and applies the status and key
// conventions: OK statuses yield the body (or body[key]), none
// statuses yield nil, anything else is a *ResponseError.
func (t *Client) handleResponse(res *http.Response, key string) (
	interface{}, error) {
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var result interface{}
	contentType := res.Header.Get("Content-Type")
	if strings.Contains(contentType, "json") && len(raw) > 0 {
		if err := json.Unmarshal(raw, &result); err != nil {
			return nil, newResponseError(res, raw, err.Error())
		}
	} else if len(raw) > 0 {
		result = string(raw)
	}

	status := res.StatusCode
	switch {
	case key != "" && contains(t.okStatuses, status):
		// An empty body has no keys to extract; it falls through
		// to the empty-to-none conversion below.
		if isEmpty(result) {
			break
		}
		obj, ok := result.(map[string]interface{})
		if !ok {
			return nil, newResponseError(res, raw,
				"response body is not an object")
		}
		value, ok := obj[key]
		if !ok {
			return nil, newResponseError(res, raw,
				"response key not found")
		}
		result = value
	case key != "" && contains(t.noneStatuses, status):
		result = nil
	case !contains(t.okStatuses, status) && !contains(t.noneStatuses, status):
		return nil, newResponseError(res, raw, fmt.Sprintf(
			"status code %d not in ok statuses %v",
			status, t.okStatuses))
	}

	if key != "" && t.emptyToNone && isEmpty(result) {
		result = nil
	}
	return result, nil
}
