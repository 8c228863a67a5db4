// Package fleetapi talks to the fleet REST API on behalf of console sessions.
package fleetapi

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

	"fleet-console/internal/domain/session"
	"fleet-console/internal/logger"
	"fleet-console/internal/metrics"

	"go.uber.org/zap"
)

const (
	authPathPrefix  = "/api/auth/"
	maxResponseBody = 8 << 20
	requestIDHeader = "X-Request-ID"
)

type ctxKey int

const (
	sessionKey ctxKey = iota
	requestIDKey
)

// WithSession binds the calls made with ctx to a console session.
func WithSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionKey, sessionID)
}

func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

// WithRequestID forwards the console request id to the fleet API.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

type Config struct {
	BaseURL        string
	Timeout        time.Duration
	RefreshTimeout time.Duration
	SessionTTL     time.Duration
	HTTPClient     *http.Client
}

// Client sends fleet API requests with the session's bearer token and
// transparently refreshes it on 401.
type Client struct {
	httpClient *http.Client
	baseURL    string
	sessions   session.Repository
	refresher  *Refresher
}

func NewClient(cfg Config, sessions session.Repository) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	c := &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		sessions:   sessions,
	}
	c.refresher = NewRefresher(c, sessions, cfg.RefreshTimeout, cfg.SessionTTL)
	return c
}

// Refresher exposes the refresh coordinator, mainly to register expiry hooks.
func (c *Client) Refresher() *Refresher {
	return c.refresher
}

type call struct {
	method string
	path   string
	query  *Query
	body   interface{}
	out    interface{}
	// bearer overrides the session token; auth endpoints get no token otherwise.
	bearer string
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, authPathPrefix)
}

func (c *Client) do(ctx context.Context, cl call) error {
	var payload []byte
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = b
	}

	sessionID := SessionID(ctx)
	token := cl.bearer
	if token == "" && !isAuthPath(cl.path) && sessionID != "" {
		s, err := c.sessions.GetByID(ctx, sessionID)
		if errors.Is(err, session.ErrSessionNotFound) {
			return ErrSessionExpired
		}
		if err != nil {
			return fmt.Errorf("failed to load session: %w", err)
		}
		token = s.AccessToken
	}

	status, body, err := c.send(ctx, cl, payload, token)
	if err != nil {
		return newAPIError(cl.method, cl.path, 0, nil, err)
	}

	if status == http.StatusUnauthorized && sessionID != "" && !isAuthPath(cl.path) {
		fresh, err := c.refresher.Refresh(ctx, sessionID, token)
		if err != nil {
			return err
		}
		status, body, err = c.send(ctx, cl, payload, fresh)
		if err != nil {
			return newAPIError(cl.method, cl.path, 0, nil, err)
		}
		if status == http.StatusUnauthorized {
			return c.refresher.Expire(ctx, sessionID, newAPIError(cl.method, cl.path, status, body, nil))
		}
	}

	if status < 200 || status >= 300 {
		return newAPIError(cl.method, cl.path, status, body, nil)
	}

	if cl.out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, cl.out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", cl.method, cl.path, err)
	}
	return nil
}

// send performs one HTTP exchange and returns the status and the (bounded) body.
func (c *Client) send(ctx context.Context, cl call, payload []byte, token string) (int, []byte, error) {
	target := c.baseURL + cl.path
	if cl.query != nil {
		if encoded := cl.query.Encode(); encoded != "" {
			target += "?" + encoded
		}
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, bodyReader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if id := requestID(ctx); id != "" {
		req.Header.Set(requestIDHeader, id)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(start)
	if err != nil {
		metrics.RecordAPIRequest(cl.method, cl.path, 0, latency)
		logger.WithRequestID(requestID(ctx)).Warn("Fleet API unreachable",
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.Error(err),
		)
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}

	metrics.RecordAPIRequest(cl.method, cl.path, resp.StatusCode, latency)
	logger.WithRequestID(requestID(ctx)).Debug("Fleet API call",
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("latency", latency),
	)

	return resp.StatusCode, body, nil
}

func (c *Client) get(ctx context.Context, path string, q *Query, out interface{}) error {
	return c.do(ctx, call{method: http.MethodGet, path: path, query: q, out: out})
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, call{method: http.MethodPost, path: path, body: body, out: out})
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, call{method: http.MethodPut, path: path, body: body, out: out})
}

func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, call{method: http.MethodPatch, path: path, body: body, out: out})
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, call{method: http.MethodDelete, path: path})
}
