package session

import (
	"context"
	"time"

	"fleet-console/internal/domain/account"
)

// Repository persists sessions. Implementations must be safe for concurrent use.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	UpdateTokens(ctx context.Context, id, accessToken, refreshToken string, expiresAt time.Time) error
	SetMe(ctx context.Context, id string, me *account.Me) error
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	Health(ctx context.Context) error
}
