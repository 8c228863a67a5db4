package auth

import "fleet-console/internal/domain/account"

type LoginRequest struct {
	Login    string `form:"login" validate:"required,max=100"`
	Password string `form:"password" validate:"required"`
}

// LoginResult carries the new session id the handler stores in the cookie.
type LoginResult struct {
	SessionID string
	Me        *account.Me
}
