package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdalla-ayman/tailor-frontend/internal/models"
	"github.com/abdalla-ayman/tailor-frontend/internal/session"
)

const AccountKey = "account"

// RequireSession guards protected routes: without an authenticated session
// the request stops with 401 and the shell redirects to login.
func RequireSession(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sess.LoggedIn() {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "not logged in"})
			c.Abort()
			return
		}
		c.Set(AccountKey, sess.User())
		c.Next()
	}
}

// RequireSuperAdmin gates administrative affordances: user management and
// the customer Excel export/import.
func RequireSuperAdmin(sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := sess.User()
		if user == nil || !user.IsSuperAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "super admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
