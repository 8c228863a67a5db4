package fleetapi

import (
	"context"
	"net/http"

	"fleet-console/internal/domain/account"
)

type AuthRepository struct {
	client *Client
}

func NewAuthRepository(client *Client) account.AuthRepository {
	return &AuthRepository{client: client}
}

func (r *AuthRepository) Login(ctx context.Context, creds account.Credentials) (*account.AuthResult, error) {
	var res account.AuthResult
	if err := r.client.post(ctx, "/api/auth/login", creds, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Logout attaches the session token itself: auth endpoints never get one implicitly.
func (r *AuthRepository) Logout(ctx context.Context) error {
	sessionID := SessionID(ctx)
	if sessionID == "" {
		return nil
	}
	s, err := r.client.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if s.AccessToken == "" {
		return nil
	}
	return r.client.do(ctx, call{method: http.MethodPost, path: "/api/auth/logout", bearer: s.AccessToken})
}

func (r *AuthRepository) Me(ctx context.Context) (*account.Me, error) {
	var me account.Me
	if err := r.client.get(ctx, "/api/me", nil, &me); err != nil {
		return nil, err
	}
	return &me, nil
}
