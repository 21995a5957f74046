// Package apiclient is a thin REST client for the back-office API. It speaks
// the envelope contract used by the server and maps validation failures to
// field-level errors callers can render inline.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FetchError is any non-success HTTP response or transport failure that is not
// a field validation error.
type FetchError struct {
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Message)
}

// ValidationError carries the server's field -> messages map from a 422
// response.
type ValidationError struct {
	Message string
	Fields  map[string][]string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

type apiError struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

// Client calls the back-office REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New builds a Client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api/v1".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, typically after login or refresh.
func (c *Client) SetToken(token string) {
	c.token = token
}

// List fetches a collection at path, optionally filtered by query.
func (c *Client) List(ctx context.Context, path string, query url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, target, nil, "", out)
}

// Get fetches a single record.
func (c *Client) Get(ctx context.Context, path, id string, out interface{}) error {
	return c.do(ctx, http.MethodGet, c.baseURL+path+"/"+url.PathEscape(id), nil, "", out)
}

// Create posts a JSON payload to the collection endpoint.
func (c *Client) Create(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &FetchError{Message: fmt.Sprintf("encode payload: %v", err)}
	}
	return c.do(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body), "application/json", out)
}

// Update puts a JSON payload to the record endpoint.
func (c *Client) Update(ctx context.Context, path, id string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &FetchError{Message: fmt.Sprintf("encode payload: %v", err)}
	}
	target := c.baseURL + path + "/" + url.PathEscape(id)
	return c.do(ctx, http.MethodPut, target, bytes.NewReader(body), "application/json", out)
}

// Delete removes a record.
func (c *Client) Delete(ctx context.Context, path, id string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+path+"/"+url.PathEscape(id), nil, "", nil)
}

// Post issues a POST to an arbitrary subpath, used for status transitions and
// other dedicated routes. payload may be nil.
func (c *Client) Post(ctx context.Context, path string, payload, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return &FetchError{Message: fmt.Sprintf("encode payload: %v", err)}
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.do(ctx, http.MethodPost, c.baseURL+path, body, contentType, out)
}

// Upload sends a file as a multipart form to a record subpath, e.g.
// Upload(ctx, "/employees", id, "photo", "avatar.jpg", f, &employee).
func (c *Client) Upload(ctx context.Context, path, id, field, filename string, r io.Reader, out interface{}) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return &FetchError{Message: fmt.Sprintf("build multipart body: %v", err)}
	}
	if _, err := io.Copy(part, r); err != nil {
		return &FetchError{Message: fmt.Sprintf("read upload: %v", err)}
	}
	if err := mw.Close(); err != nil {
		return &FetchError{Message: fmt.Sprintf("finalize multipart body: %v", err)}
	}
	target := c.baseURL + path + "/" + url.PathEscape(id) + "/" + field
	return c.do(ctx, http.MethodPost, target, &buf, mw.FormDataContentType(), out)
}

func (c *Client) do(ctx context.Context, method, target string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &FetchError{Message: err.Error()}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Message: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &FetchError{StatusCode: resp.StatusCode, Message: err.Error()}
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return &FetchError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode response: %v", err)}
		}
	}

	if resp.StatusCode >= 300 {
		if env.Error != nil {
			if resp.StatusCode == http.StatusUnprocessableEntity && len(env.Error.Fields) > 0 {
				return &ValidationError{Message: env.Error.Message, Fields: env.Error.Fields}
			}
			return &FetchError{StatusCode: resp.StatusCode, Message: env.Error.Message}
		}
		return &FetchError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &FetchError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("decode data: %v", err)}
		}
	}
	return nil
}
