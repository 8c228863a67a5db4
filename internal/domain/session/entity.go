package session

import (
	"time"

	"fleet-console/internal/domain/account"
)

// Session is one browser's signed-in state. The token pair never leaves the server.
type Session struct {
	ID           string
	AccessToken  string
	RefreshToken string
	Me           *account.Me
	CreatedAt    time.Time
	UpdatedAt    time.Time
	ExpiresAt    time.Time
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}
