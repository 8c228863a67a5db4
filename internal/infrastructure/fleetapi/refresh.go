package fleetapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/logger"
	"fleet-console/internal/metrics"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// tokenAPI is the part of the fleet API the refresher needs.
type tokenAPI interface {
	refreshTokens(ctx context.Context, refreshToken string) (*account.AuthResult, error)
	logout(ctx context.Context, accessToken string) error
}

// Refresher serializes token refreshes per session. Concurrent callers that hit
// a 401 for the same session share one refresh call and receive its token; a
// failed refresh logs the session out exactly once and every waiter gets
// ErrSessionExpired.
type Refresher struct {
	group    singleflight.Group
	api      tokenAPI
	sessions session.Repository
	timeout  time.Duration
	ttl      time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	onExpired []func(sessionID string)
}

func NewRefresher(api tokenAPI, sessions session.Repository, timeout, ttl time.Duration) *Refresher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Refresher{
		api:      api,
		sessions: sessions,
		timeout:  timeout,
		ttl:      ttl,
		now:      time.Now,
	}
}

// OnExpired registers fn to run once per session logged out by a failed refresh.
func (r *Refresher) OnExpired(fn func(sessionID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onExpired = append(r.onExpired, fn)
}

// Refresh returns a usable access token for sessionID. staleToken is the token
// that was rejected; if the store already holds a different one, it is returned
// without calling the API.
func (r *Refresher) Refresh(ctx context.Context, sessionID, staleToken string) (string, error) {
	ch := r.group.DoChan(sessionID, func() (interface{}, error) {
		// The flight outlives the caller that started it.
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()
		return r.refresh(flightCtx, sessionID, staleToken)
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

func (r *Refresher) refresh(ctx context.Context, sessionID, staleToken string) (string, error) {
	log := logger.WithSession(requestID(ctx), sessionID)

	s, err := r.sessions.GetByID(ctx, sessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		return "", ErrSessionExpired
	}
	if err != nil {
		return "", fmt.Errorf("failed to load session: %w", err)
	}

	if s.AccessToken != "" && s.AccessToken != staleToken {
		metrics.RecordRefresh(metrics.RefreshReused)
		return s.AccessToken, nil
	}

	if s.RefreshToken == "" {
		return "", r.expire(ctx, s, errors.New("no refresh token"))
	}

	res, err := r.api.refreshTokens(ctx, s.RefreshToken)
	if err != nil {
		return "", r.expire(ctx, s, err)
	}
	if res == nil || res.AccessToken == "" {
		return "", r.expire(ctx, s, errors.New("refresh returned no access token"))
	}

	refreshToken := res.RefreshToken
	if refreshToken == "" {
		refreshToken = s.RefreshToken
	}

	expiresAt := SessionExpiry(r.now(), r.ttl, refreshToken)
	if err := r.sessions.UpdateTokens(ctx, sessionID, res.AccessToken, refreshToken, expiresAt); err != nil {
		return "", fmt.Errorf("failed to store refreshed tokens: %w", err)
	}

	metrics.RecordRefresh(metrics.RefreshSuccess)
	log.Info("Access token refreshed")
	return res.AccessToken, nil
}

// Expire ends sessionID after the API rejected a freshly refreshed token.
// Concurrent callers share one logout and always receive ErrSessionExpired.
func (r *Refresher) Expire(ctx context.Context, sessionID string, cause error) error {
	ch := r.group.DoChan("expire:"+sessionID, func() (interface{}, error) {
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
		defer cancel()

		s, err := r.sessions.GetByID(flightCtx, sessionID)
		if err != nil {
			// Already gone or unreadable; nothing left to log out.
			return nil, ErrSessionExpired
		}
		return nil, r.expire(flightCtx, s, cause)
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-ch:
		return ErrSessionExpired
	}
}

// expire logs the session out: best-effort API logout, local removal, hooks.
func (r *Refresher) expire(ctx context.Context, s *session.Session, cause error) error {
	log := logger.WithSession(requestID(ctx), s.ID)
	log.Warn("Token refresh failed, ending session", zap.Error(cause))
	metrics.RecordRefresh(metrics.RefreshFailed)

	if s.AccessToken != "" {
		if err := r.api.logout(ctx, s.AccessToken); err != nil {
			log.Debug("Logout after failed refresh was not accepted", zap.Error(err))
		}
	}

	if err := r.sessions.Delete(ctx, s.ID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		log.Error("Failed to delete expired session", zap.Error(err))
	}

	r.mu.RLock()
	hooks := append([]func(string){}, r.onExpired...)
	r.mu.RUnlock()
	for _, fn := range hooks {
		fn(s.ID)
	}

	return ErrSessionExpired
}

func (c *Client) refreshTokens(ctx context.Context, refreshToken string) (*account.AuthResult, error) {
	var res account.AuthResult
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/refresh",
		body:   map[string]string{"refreshToken": refreshToken},
		out:    &res,
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) logout(ctx context.Context, accessToken string) error {
	return c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/logout",
		bearer: accessToken,
	})
}
