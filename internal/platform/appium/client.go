// Package appium talks to an Appium (W3C WebDriver) server to fetch page
// sources, screenshots and element lookups.
package appium

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mj1618/element-inspector/internal/platform"
)

const (
	// DefaultURL is the Appium 1.x style base path used by most test setups.
	DefaultURL     = "http://127.0.0.1:4723/wd/hub"
	DefaultTimeout = 10 * time.Second

	// W3C element reference key.
	w3cElementKey    = "element-6066-11e4-a52e-4f735466cecf"
	legacyElementKey = "ELEMENT"
)

// Client is a minimal WebDriver client bound to one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger

	mu        sync.Mutex
	sessionID string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSession binds the client to an existing session.
func WithSession(id string) Option {
	return func(c *Client) { c.sessionID = id }
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SessionID returns the bound session, discovering the first active one on
// the server when none was configured.
func (c *Client) SessionID(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionID != "" {
		return c.sessionID, nil
	}

	var sessions []struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodGet, "/sessions", nil, &sessions); err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}
	if len(sessions) == 0 || sessions[0].ID == "" {
		return "", platform.ErrNoSession
	}
	c.sessionID = sessions[0].ID
	c.logger.Debug("attached to session", zap.String("session", c.sessionID))
	return c.sessionID, nil
}

// Snapshot returns the current page source. It implements platform.Source.
func (c *Client) Snapshot(ctx context.Context) (string, error) {
	var source string
	if err := c.sessionCall(ctx, http.MethodGet, "/source", nil, &source); err != nil {
		return "", fmt.Errorf("page source: %w", err)
	}
	return source, nil
}

// Screenshot returns the current screen as PNG bytes.
func (c *Client) Screenshot(ctx context.Context) ([]byte, error) {
	var encoded string
	if err := c.sessionCall(ctx, http.MethodGet, "/screenshot", nil, &encoded); err != nil {
		return nil, fmt.Errorf("screenshot: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("screenshot: decode: %w", err)
	}
	return data, nil
}

// FindElement looks up one element and returns its reference. A miss yields
// an error wrapping platform.ErrNoSuchElement.
func (c *Client) FindElement(ctx context.Context, loc platform.Locator) (string, error) {
	var ref map[string]string
	if err := c.sessionCall(ctx, http.MethodPost, "/element", loc, &ref); err != nil {
		return "", fmt.Errorf("find %s: %w", loc.Descriptor(), err)
	}
	if id := ref[w3cElementKey]; id != "" {
		return id, nil
	}
	if id := ref[legacyElementKey]; id != "" {
		return id, nil
	}
	return "", fmt.Errorf("find %s: response has no element reference", loc.Descriptor())
}

// FindElements looks up every element matching loc. A miss is an empty
// slice.
func (c *Client) FindElements(ctx context.Context, loc platform.Locator) ([]string, error) {
	var refs []map[string]string
	if err := c.sessionCall(ctx, http.MethodPost, "/elements", loc, &refs); err != nil {
		return nil, fmt.Errorf("find all %s: %w", loc.Descriptor(), err)
	}
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		id := ref[w3cElementKey]
		if id == "" {
			id = ref[legacyElementKey]
		}
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (c *Client) sessionCall(ctx context.Context, method, path string, body, out any) error {
	id, err := c.SessionID(ctx)
	if err != nil {
		return err
	}
	return c.do(ctx, method, "/session/"+id+path, body, out)
}

// wireError is the W3C error payload.
type wireError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
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
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	c.logger.Debug("webdriver request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	var envelope struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response (HTTP %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode >= 400 {
		var we wireError
		_ = json.Unmarshal(envelope.Value, &we)
		return mapError(resp.StatusCode, we)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Value, out); err != nil {
		return fmt.Errorf("decode value: %w", err)
	}
	return nil
}

func mapError(status int, we wireError) error {
	switch we.Error {
	case "no such element":
		return fmt.Errorf("%w: %s", platform.ErrNoSuchElement, we.Message)
	case "invalid session id":
		return fmt.Errorf("%w: %s", platform.ErrNoSession, we.Message)
	}
	if we.Error == "" {
		return fmt.Errorf("HTTP %d", status)
	}
	return fmt.Errorf("%s (HTTP %d): %s", we.Error, status, we.Message)
}
