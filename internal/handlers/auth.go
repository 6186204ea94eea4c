package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdalla-ayman/tailor-frontend/internal/middleware"
	"github.com/abdalla-ayman/tailor-frontend/internal/models"
	"github.com/abdalla-ayman/tailor-frontend/internal/session"
	"github.com/abdalla-ayman/tailor-frontend/internal/tailor"
)

type AuthHandler struct {
	api  *tailor.Client
	sess *session.Session
}

func NewAuthHandler(api *tailor.Client, sess *session.Session) *AuthHandler {
	return &AuthHandler{api: api, sess: sess}
}

// Login exchanges credentials for a session. The returned token is persisted
// by the session holder; the response carries only the account.
func (h *AuthHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "username and password are required"})
		return
	}

	result, err := h.api.Login(creds)
	if err != nil {
		failUpstream(c, h.sess, err, "login failed")
		return
	}

	if err := h.sess.SetLogin(result.Token, &result.User); err != nil {
		slog.Error("failed to persist session token",
			"requestId", c.GetString(middleware.RequestIDKey),
			"error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to store session"})
		return
	}

	slog.Info("user logged in",
		"requestId", c.GetString(middleware.RequestIDKey),
		"username", result.User.Username)
	c.JSON(http.StatusOK, result.User)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.sess.Logout()
	c.Status(http.StatusNoContent)
}

// Me returns the authenticated account behind the current session.
func (h *AuthHandler) Me(c *gin.Context) {
	user := h.sess.User()
	if user == nil {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "not logged in"})
		return
	}
	c.JSON(http.StatusOK, user)
}
