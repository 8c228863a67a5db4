package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/infrastructure/fleetapi"
	"fleet-console/internal/logger"
	"fleet-console/internal/validator"
	appErrors "fleet-console/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const invalidLoginMessage = "Invalid login or password"

// Service implements sign-in, bootstrap and sign-out of console sessions.
type Service struct {
	authRepo account.AuthRepository
	sessions session.Repository
	ttl      time.Duration
	now      func() time.Time
	forget   []func(sessionID string)
}

func NewService(authRepo account.AuthRepository, sessions session.Repository, ttl time.Duration) *Service {
	return &Service{
		authRepo: authRepo,
		sessions: sessions,
		ttl:      ttl,
		now:      time.Now,
	}
}

// OnSessionEnd registers fn to run when a session is logged out.
func (s *Service) OnSessionEnd(fn func(sessionID string)) {
	s.forget = append(s.forget, fn)
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	req.Login = strings.TrimSpace(req.Login)
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	res, err := s.authRepo.Login(ctx, account.Credentials{Login: req.Login, Password: req.Password})
	if err != nil {
		logger.Warn("Login rejected by fleet API",
			zap.String("login", req.Login),
			zap.String("event", "login_failed"),
			zap.Error(err),
		)
		return nil, loginError(err)
	}
	if res.AccessToken == "" {
		return nil, appErrors.NewAppError("INVALID_CREDENTIALS", invalidLoginMessage, appErrors.ErrInvalidCredentials)
	}

	now := s.now()
	sess := &session.Session{
		ID:           uuid.NewString(),
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		CreatedAt:    now,
		UpdatedAt:    now,
		ExpiresAt:    fleetapi.SessionExpiry(now, s.ttl, res.RefreshToken),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	sessCtx := fleetapi.WithSession(ctx, sess.ID)
	me, err := s.loadMe(sessCtx, sess.ID)
	if err != nil {
		me, err = meFromClaims(req.Login, res.AccessToken)
		if err != nil {
			s.end(ctx, sess.ID)
			return nil, appErrors.NewAppError("LOGIN_FAILED", "Could not load your profile", err)
		}
		if err := s.sessions.SetMe(ctx, sess.ID, me); err != nil {
			s.end(ctx, sess.ID)
			return nil, fmt.Errorf("failed to store profile: %w", err)
		}
	}

	logger.Info("User logged in",
		zap.String("session", logger.ShortID(sess.ID)),
		zap.String("login", req.Login),
		zap.Strings("roles", me.Roles),
		zap.String("event", "login_success"),
	)

	return &LoginResult{SessionID: sess.ID, Me: me}, nil
}

// Current returns the session and its principal. A session holding tokens but
// no profile loads /api/me first; when that fails the session is dropped.
func (s *Service) Current(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, session.ErrSessionNotFound
	}
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		return nil, session.ErrSessionNotFound
	}
	if sess.Me != nil {
		return sess, nil
	}

	me, err := s.loadMe(fleetapi.WithSession(ctx, sessionID), sessionID)
	if err != nil {
		logger.Warn("Session bootstrap failed",
			zap.String("session", logger.ShortID(sessionID)),
			zap.String("event", "bootstrap_failed"),
			zap.Error(err),
		)
		s.end(ctx, sessionID)
		return nil, session.ErrSessionNotFound
	}
	sess.Me = me
	return sess, nil
}

// Logout tells the fleet API (best effort) and forgets the session.
func (s *Service) Logout(ctx context.Context, sessionID string) {
	if sessionID == "" {
		return
	}
	if err := s.authRepo.Logout(fleetapi.WithSession(ctx, sessionID)); err != nil {
		logger.Debug("Fleet API logout failed",
			zap.String("session", logger.ShortID(sessionID)),
			zap.Error(err),
		)
	}
	s.end(ctx, sessionID)

	logger.Info("User logged out",
		zap.String("session", logger.ShortID(sessionID)),
		zap.String("event", "logout"),
	)
}

func HasRole(me *account.Me, roles ...account.Role) bool {
	return me.HasAnyRole(roles...)
}

func (s *Service) loadMe(ctx context.Context, sessionID string) (*account.Me, error) {
	me, err := s.authRepo.Me(ctx)
	if err != nil {
		return nil, err
	}
	if !me.Authenticated {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.sessions.SetMe(ctx, sessionID, me); err != nil {
		return nil, fmt.Errorf("failed to store profile: %w", err)
	}
	return me, nil
}

func (s *Service) end(ctx context.Context, sessionID string) {
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		logger.Warn("Failed to delete session",
			zap.String("session", logger.ShortID(sessionID)),
			zap.Error(err),
		)
	}
	for _, fn := range s.forget {
		fn(sessionID)
	}
}

// meFromClaims builds a minimal principal from the access token roles.
func meFromClaims(login, accessToken string) (*account.Me, error) {
	claims, err := fleetapi.ParseClaims(accessToken)
	if err != nil {
		return nil, err
	}
	if len(claims.Roles) == 0 {
		return nil, appErrors.ErrUnauthorized
	}
	username := claims.Subject
	if username == "" {
		username = login
	}
	return &account.Me{Authenticated: true, Username: username, Roles: claims.Roles}, nil
}

func loginError(err error) error {
	var apiErr *fleetapi.APIError
	if errors.As(err, &apiErr) && apiErr.Status != 0 {
		msg := apiErr.BackendMessage
		if msg == "" {
			msg = invalidLoginMessage
		}
		return appErrors.NewAppError("INVALID_CREDENTIALS", msg, appErrors.ErrInvalidCredentials)
	}
	return err
}
