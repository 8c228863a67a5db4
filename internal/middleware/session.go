package middleware

import (
	"context"
	"net/http"

	"fleet-console/internal/config"
	"fleet-console/internal/domain/account"
	"fleet-console/internal/domain/session"
	"fleet-console/internal/infrastructure/fleetapi"

	"github.com/gin-gonic/gin"
)

const (
	SessionKey = "session"
	MeKey      = "me"
)

// SessionLoader resolves a cookie value to a live session.
type SessionLoader interface {
	Current(ctx context.Context, sessionID string) (*session.Session, error)
}

// SessionMiddleware loads the session named by the cookie. Requests without a
// usable session continue anonymously and a stale cookie is cleared.
func SessionMiddleware(loader SessionLoader, cfg *config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(cfg.CookieName)
		if err != nil || id == "" {
			c.Next()
			return
		}

		s, err := loader.Current(c.Request.Context(), id)
		if err != nil {
			ClearSessionCookie(c, cfg)
			c.Next()
			return
		}

		c.Set(SessionKey, s)
		if s.Me != nil {
			c.Set(MeKey, s.Me)
		}
		c.Request = c.Request.WithContext(fleetapi.WithSession(c.Request.Context(), s.ID))
		c.Next()
	}
}

func SetSessionCookie(c *gin.Context, cfg *config.SessionConfig, sessionID string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, sessionID, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
}

func ClearSessionCookie(c *gin.Context, cfg *config.SessionConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
}

// CurrentSession returns the request's session, nil when anonymous.
func CurrentSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return nil
}

// CurrentMe returns the signed-in principal, nil when anonymous.
func CurrentMe(c *gin.Context) *account.Me {
	if v, ok := c.Get(MeKey); ok {
		if me, ok := v.(*account.Me); ok {
			return me
		}
	}
	return nil
}

func CurrentSessionID(c *gin.Context) string {
	if s := CurrentSession(c); s != nil {
		return s.ID
	}
	return ""
}
