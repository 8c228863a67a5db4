package fleetapi

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the subset of the fleet API JWT the console reads.
// Tokens are verified by the API; the console only inspects them.
type TokenClaims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// ParseClaims decodes a token without verifying its signature.
func ParseClaims(token string) (*TokenClaims, error) {
	claims := &TokenClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// SessionExpiry returns now+ttl, shortened to the refresh token expiry when it carries one.
func SessionExpiry(now time.Time, ttl time.Duration, refreshToken string) time.Time {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	expiry := now.Add(ttl)

	claims, err := ParseClaims(refreshToken)
	if err != nil || claims.ExpiresAt == nil {
		return expiry
	}
	if exp := claims.ExpiresAt.Time; exp.After(now) && exp.Before(expiry) {
		return exp
	}
	return expiry
}
