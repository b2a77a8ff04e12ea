// Package client is a typed HTTP client for the dataroom API. It injects the
// stored bearer token on every request and drops the session when the server
// answers 401, mirroring what the server expects of a well-behaved frontend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// APIError is a non-2xx response decoded from the server's problem+json body.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to one dataroom server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      SessionStore

	// onUnauthorized runs after a 401 clears the session, so a UI can fall
	// back to its login screen.
	onUnauthorized func()

	mu      sync.Mutex
	session *Session
}

type Option func(*Client)

// WithHTTPClient replaces the underlying transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionStore sets where the session persists. Defaults to an in-memory
// store.
func WithSessionStore(store SessionStore) Option {
	return func(c *Client) { c.store = store }
}

// WithUnauthorizedHandler registers a callback invoked whenever a request
// fails with 401 and the session gets cleared.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		store:      NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}

	session, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	c.session = session

	return c, nil
}

// Session returns the current session, or nil when logged out.
func (c *Client) Session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// LoggedIn reports whether a session token is present.
func (c *Client) LoggedIn() bool { return c.Session() != nil }

func (c *Client) setSession(s *Session) error {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
	if s == nil {
		return c.store.Clear()
	}
	return c.store.Save(s)
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.Token
}

// dropSession clears local state after the server rejected our token.
func (c *Client) dropSession() {
	_ = c.setSession(nil)
	if c.onUnauthorized != nil {
		c.onUnauthorized()
	}
}

// doJSON sends a request with an optional JSON body and decodes a JSON
// response into out. Auth endpoints (login, register) keep their 401s; on any
// other endpoint a 401 clears the session first.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.send(req, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// send executes the request with the bearer token attached and turns non-2xx
// responses into APIErrors.
func (c *Client) send(req *http.Request, path string) (*http.Response, error) {
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	apiErr := &APIError{Status: resp.StatusCode}
	var problem struct {
		Detail string `json:"detail"`
		Title  string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&problem); err == nil {
		if problem.Detail != "" {
			apiErr.Detail = problem.Detail
		} else {
			apiErr.Detail = problem.Title
		}
	}
	resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized && !isAuthEndpoint(path) {
		c.dropSession()
	}

	return nil, apiErr
}

// isAuthEndpoint reports whether a 401 from this path means bad credentials
// rather than an expired session.
func isAuthEndpoint(path string) bool {
	return path == "/api/auth/login" || path == "/api/auth/register"
}

func jsonDecode(r io.Reader, out any) error {
	if err := json.NewDecoder(r).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
