package memory

import (
	"context"
	"testing"
	"time"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()

	s := &session.Session{ID: "s1", AccessToken: "a1", RefreshToken: "r1", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, s))
	assert.ErrorIs(t, repo.Create(ctx, s), session.ErrSessionExists)

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a1", got.AccessToken)
	assert.False(t, got.CreatedAt.IsZero())

	require.NoError(t, repo.UpdateTokens(ctx, "s1", "a2", "r2", time.Now().Add(2*time.Hour)))
	require.NoError(t, repo.SetMe(ctx, "s1", &account.Me{Authenticated: true, Roles: []string{"ADMIN"}}))

	got, err = repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a2", got.AccessToken)
	assert.Equal(t, "r2", got.RefreshToken)
	assert.True(t, got.Me.HasRole(account.RoleAdmin))

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.GetByID(ctx, "s1")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "s1"), session.ErrSessionNotFound)
}

func TestSessionRepository_GetByIDReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	require.NoError(t, repo.Create(ctx, &session.Session{ID: "s1", AccessToken: "a1"}))

	got, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	got.AccessToken = "mutated"

	again, err := repo.GetByID(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "a1", again.AccessToken)
}

func TestSessionRepository_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, &session.Session{ID: "old", ExpiresAt: now.Add(-time.Minute)}))
	require.NoError(t, repo.Create(ctx, &session.Session{ID: "live", ExpiresAt: now.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &session.Session{ID: "forever"}))

	_, err := repo.GetByID(ctx, "old")
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, "live")
	assert.NoError(t, err)
	_, err = repo.GetByID(ctx, "forever")
	assert.NoError(t, err)
}
