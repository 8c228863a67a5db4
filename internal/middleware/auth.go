package middleware

import (
	"net/http"

	"fleet-console/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const LoginPath = "/login"

// AuthRequired sends requests without an authenticated session to the login page.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := CurrentSession(c)
		me := CurrentMe(c)
		if !s.Authenticated() || me == nil || !me.Authenticated {
			logger.Debug("Unauthenticated request redirected",
				zap.String("request_id", GetRequestID(c)),
				zap.String("path", c.Request.URL.Path),
			)
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
