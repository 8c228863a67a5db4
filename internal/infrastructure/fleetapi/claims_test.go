package fleetapi

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, exp time.Time, roles ...string) string {
	t.Helper()
	claims := TokenClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "dispatcher",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestParseClaims(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	claims, err := ParseClaims(signToken(t, exp, "ROLE_DISPATCHER"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ROLE_DISPATCHER"}, claims.Roles)
	assert.Equal(t, "dispatcher", claims.Subject)
	assert.True(t, exp.Equal(claims.ExpiresAt.Time))

	_, err = ParseClaims("not-a-token")
	assert.Error(t, err)
}

func TestSessionExpiry(t *testing.T) {
	now := time.Now().Truncate(time.Second)

	t.Run("opaque token uses ttl", func(t *testing.T) {
		assert.Equal(t, now.Add(2*time.Hour), SessionExpiry(now, 2*time.Hour, "opaque"))
	})

	t.Run("zero ttl defaults to a day", func(t *testing.T) {
		assert.Equal(t, now.Add(24*time.Hour), SessionExpiry(now, 0, ""))
	})

	t.Run("capped by refresh token expiry", func(t *testing.T) {
		exp := now.Add(30 * time.Minute)
		assert.True(t, exp.Equal(SessionExpiry(now, 2*time.Hour, signToken(t, exp))))
	})

	t.Run("later refresh token expiry keeps ttl", func(t *testing.T) {
		exp := now.Add(48 * time.Hour)
		assert.Equal(t, now.Add(2*time.Hour), SessionExpiry(now, 2*time.Hour, signToken(t, exp)))
	})
}
