package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/abdalla-ayman/tailor-frontend/internal/middleware"
	"github.com/abdalla-ayman/tailor-frontend/internal/models"
	"github.com/abdalla-ayman/tailor-frontend/internal/session"
)

func newSession(t *testing.T) *session.Session {
	t.Helper()
	sess, err := session.New(&session.MemoryTokenStore{})
	assert.NoError(t, err)
	return sess
}

func TestRequireSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sess := newSession(t)

	router := gin.New()
	router.GET("/protected", middleware.RequireSession(sess), func(c *gin.Context) {
		account := c.MustGet(middleware.AccountKey).(*models.Account)
		c.JSON(http.StatusOK, gin.H{"username": account.Username})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	assert.NoError(t, sess.SetLogin("tok", &models.Account{ID: "u1", Username: "sara"}))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sara")
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	var seen string
	router.GET("/", func(c *gin.Context) {
		seen = c.GetString(middleware.RequestIDKey)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)

	// caller-supplied ids pass through
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "trace-7")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "trace-7", seen)
	assert.Equal(t, "trace-7", w.Header().Get("X-Request-ID"))
}

func TestRequireSuperAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sess := newSession(t)

	router := gin.New()
	router.GET("/admin", middleware.RequireSuperAdmin(sess), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// logged out
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// regular staff
	assert.NoError(t, sess.SetLogin("tok", &models.Account{ID: "u1"}))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// super admin
	assert.NoError(t, sess.SetLogin("tok", &models.Account{ID: "u2", IsSuperAdmin: true}))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
