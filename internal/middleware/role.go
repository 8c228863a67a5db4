package middleware

import (
	"net/http"

	"fleet-console/internal/domain/account"
	"fleet-console/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const MenuPath = "/menu"

// RoleMiddleware lets through principals holding any of allowedRoles and
// sends everyone else back to the menu.
func RoleMiddleware(allowedRoles ...account.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		me := CurrentMe(c)
		if me.HasAnyRole(allowedRoles...) {
			c.Next()
			return
		}

		logger.Info("Insufficient role",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Strings("roles", rolesOf(me)),
		)
		c.Redirect(http.StatusSeeOther, MenuPath)
		c.Abort()
	}
}

func AdminOnly() gin.HandlerFunc {
	return RoleMiddleware(account.RoleAdmin)
}

func DispatcherOnly() gin.HandlerFunc {
	return RoleMiddleware(account.RoleDispatcher)
}

func DriverOnly() gin.HandlerFunc {
	return RoleMiddleware(account.RoleDriver)
}

func rolesOf(me *account.Me) []string {
	if me == nil {
		return nil
	}
	return me.Roles
}
