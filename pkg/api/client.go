// Package api is the single request-issuing object shared by every screen.
// It attaches the session cookie to all calls, normalizes failures and
// reports a rejected credential to the session manager.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/marketdesk/marketdesk-terminal/pkg/session"
)

// Config describes where the backend lives and which credential to send
type Config struct {
	BaseURL       string
	SessionCookie string
	SessionToken  string
	UserAgent     string
	// Timeout is zero by default: calls wait as long as the context allows
	Timeout time.Duration
}

// Client issues JSON requests against the backend
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	session   *session.Manager
	logger    *log.Logger
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithSession shares a session manager with the caller
func WithSession(m *session.Manager) Option {
	return func(c *Client) {
		c.session = m
	}
}

// WithLogger sets where request diagnostics are written
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for cfg.BaseURL
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: scheme and host are required", cfg.BaseURL)
	}

	c := &Client{
		baseURL:   base.String(),
		userAgent: cfg.UserAgent,
		http:      &http.Client{},
		session:   session.NewManager(),
		logger:    log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	if hc.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		hc.Jar = jar
	}
	if cfg.SessionToken != "" {
		name := cfg.SessionCookie
		if name == "" {
			name = "adminToken"
		}
		hc.Jar.SetCookies(base, []*http.Cookie{{Name: name, Value: cfg.SessionToken, Path: "/"}})
	}
	c.http = &hc

	return c, nil
}

// Session returns the session manager this client reports to
func (c *Client) Session() *session.Manager {
	return c.session
}

// BaseURL returns the configured API root
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is a successful backend answer
type Response struct {
	Status int
	Body   []byte
}

// Decode unmarshals the body into out
func (r *Response) Decode(out any) error {
	if out == nil || len(bytes.TrimSpace(r.Body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	return nil
}

// Do sends one request. body, when non-nil, is encoded as JSON.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s %s body: %w", method, path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Printf("%s %s: %v", method, path, err)
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	c.logger.Printf("%s %s -> %d", method, path, resp.StatusCode)

	if resp.StatusCode == http.StatusUnauthorized {
		c.session.Expire(fmt.Sprintf("%s %s returned 401", method, path))
		return nil, &Error{
			Kind:    KindStatus,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: backendMessage(data),
			Err:     ErrUnauthorized,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &Error{
			Kind:    KindStatus,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: backendMessage(data),
		}
	}

	return &Response{Status: resp.StatusCode, Body: data}, nil
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.Do(ctx, method, path, body)
	if err != nil {
		return err
	}
	if err := resp.Decode(out); err != nil {
		return &Error{Kind: KindShape, Method: method, Path: path, Status: resp.Status, Err: err}
	}
	return nil
}

// Get reads path into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// Post creates a record
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, body, out)
}

// Put updates a record
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPut, path, body, out)
}

// Delete removes a record or, on a collection path, all records
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodDelete, path, nil, out)
}

// GetList reads a collection endpoint that must answer with a JSON array.
// Any other JSON value yields ErrUnexpectedShape and an empty slice.
func GetList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return []T{}, err
	}
	records, err := DecodeList[T](resp.Body)
	if err != nil {
		return []T{}, &Error{Kind: KindShape, Method: http.MethodGet, Path: path, Status: resp.Status, Err: err}
	}
	return records, nil
}

// DecodeList decodes a JSON array
func DecodeList[T any](body []byte) ([]T, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return []T{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, ErrUnexpectedShape
	}

	var records []T
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return []T{}, fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// IsUnauthorized reports whether err came from a 401
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

func backendMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
