// Package api is the HTTP adapter for the planner backend. It owns the
// base URL and the bearer token, speaks JSON both ways, and normalizes the
// backend's assorted error shapes into one display string.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/hcissey0/fitplan/internal/utils"
)

// Error is a non-2xx backend response. Body is kept raw so the normalizer
// can probe it without assuming a shape.
type Error struct {
	Status int
	Body   []byte
}

func (e *Error) Error() string {
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Client wraps outgoing requests with the base URL and, once attached, the
// bearer token. Deliberately no timeout: a caller that wants one bounds the
// context itself.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     *utils.Logger

	mu    sync.RWMutex
	token string
}

func NewClient(baseURL string, log *utils.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{},
		log:     log,
	}
}

// SetToken attaches the bearer token to all subsequent requests.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken detaches the bearer token.
func (c *Client) ClearToken() {
	c.SetToken("")
}

// Token returns the currently attached token, "" when detached.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPost, path, payload, out)
}

func (c *Client) Patch(ctx context.Context, path string, payload, out any) error {
	return c.do(ctx, http.MethodPatch, path, payload, out)
}

// Delete sends a DELETE. The backend deletes by id carried in the request
// body, so a payload is allowed here.
func (c *Client) Delete(ctx context.Context, path string, payload any) error {
	return c.do(ctx, http.MethodDelete, path, payload, nil)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error("%s %s [%s]: %v", method, path, requestID, err)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.log.Warn("%s %s [%s]: status %d", method, path, requestID, resp.StatusCode)
		return &Error{Status: resp.StatusCode, Body: raw}
	}
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
