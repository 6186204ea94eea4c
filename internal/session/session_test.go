package session_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"

	"github.com/abdalla-ayman/tailor-frontend/internal/models"
	"github.com/abdalla-ayman/tailor-frontend/internal/session"
	"github.com/abdalla-ayman/tailor-frontend/internal/tailor"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return token
}

func TestFileTokenStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "auth")
	store := session.NewFileTokenStore(path)

	// missing file means logged out, not an error
	token, err := store.Load()
	assert.NoError(t, err)
	assert.Empty(t, token)

	assert.NoError(t, store.Save("tok-123"))
	token, err = store.Load()
	assert.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	assert.NoError(t, store.Clear())
	assert.NoError(t, store.Clear())
	token, err = store.Load()
	assert.NoError(t, err)
	assert.Empty(t, token)
}

func TestNewDiscardsExpiredToken(t *testing.T) {
	store := &session.MemoryTokenStore{}
	assert.NoError(t, store.Save(signedToken(t, time.Now().Add(-time.Hour))))

	sess, err := session.New(store)
	assert.NoError(t, err)
	assert.Empty(t, sess.Token())

	// the dead token is gone from the store as well
	stored, _ := store.Load()
	assert.Empty(t, stored)
}

func TestNewKeepsLiveToken(t *testing.T) {
	store := &session.MemoryTokenStore{}
	live := signedToken(t, time.Now().Add(time.Hour))
	assert.NoError(t, store.Save(live))

	sess, err := session.New(store)
	assert.NoError(t, err)
	assert.Equal(t, live, sess.Token())
	// a token without a resolved user is not yet a login
	assert.False(t, sess.LoggedIn())
}

func TestNewKeepsOpaqueToken(t *testing.T) {
	store := &session.MemoryTokenStore{}
	assert.NoError(t, store.Save("not-a-jwt"))

	sess, err := session.New(store)
	assert.NoError(t, err)
	assert.Equal(t, "not-a-jwt", sess.Token())
}

func TestSetLoginPersistsAndLogoutClears(t *testing.T) {
	store := &session.MemoryTokenStore{}
	sess, err := session.New(store)
	assert.NoError(t, err)

	user := &models.Account{ID: "u1", Username: "sara"}
	assert.NoError(t, sess.SetLogin("tok", user))
	assert.True(t, sess.LoggedIn())
	assert.Equal(t, "sara", sess.User().Username)

	stored, _ := store.Load()
	assert.Equal(t, "tok", stored)

	sess.Logout()
	assert.False(t, sess.LoggedIn())
	assert.Empty(t, sess.Token())
	stored, _ = store.Load()
	assert.Empty(t, stored)

	// idempotent
	sess.Logout()
	assert.False(t, sess.LoggedIn())
}

func TestHandleAuthFailure(t *testing.T) {
	store := &session.MemoryTokenStore{}
	sess, err := session.New(store)
	assert.NoError(t, err)
	assert.NoError(t, sess.SetLogin("tok", &models.Account{ID: "u1"}))

	// non-auth errors leave the session alone
	assert.False(t, sess.HandleAuthFailure(errors.New("timeout")))
	assert.False(t, sess.HandleAuthFailure(&tailor.APIError{StatusCode: 500}))
	assert.True(t, sess.LoggedIn())

	assert.True(t, sess.HandleAuthFailure(&tailor.APIError{StatusCode: 401}))
	assert.False(t, sess.LoggedIn())
}

func TestRefreshCounter(t *testing.T) {
	sess, err := session.New(&session.MemoryTokenStore{})
	assert.NoError(t, err)

	assert.Equal(t, int64(0), sess.RefreshSignal())
	assert.Equal(t, int64(1), sess.Refresh())
	assert.Equal(t, int64(2), sess.Refresh())
	assert.Equal(t, int64(2), sess.RefreshSignal())
}

type stubResolver struct {
	user *models.Account
	err  error
}

func (r *stubResolver) CurrentUser() (*models.Account, error) { return r.user, r.err }

func TestResolve(t *testing.T) {
	store := &session.MemoryTokenStore{}
	assert.NoError(t, store.Save(signedToken(t, time.Now().Add(time.Hour))))
	sess, err := session.New(store)
	assert.NoError(t, err)

	assert.NoError(t, sess.Resolve(&stubResolver{user: &models.Account{ID: "u1"}}))
	assert.True(t, sess.LoggedIn())
}

func TestResolveUnauthorizedLogsOut(t *testing.T) {
	store := &session.MemoryTokenStore{}
	assert.NoError(t, store.Save(signedToken(t, time.Now().Add(time.Hour))))
	sess, err := session.New(store)
	assert.NoError(t, err)

	assert.NoError(t, sess.Resolve(&stubResolver{err: &tailor.APIError{StatusCode: 401}}))
	assert.False(t, sess.LoggedIn())
	assert.Empty(t, sess.Token())
}

func TestResolveTransientErrorKeepsToken(t *testing.T) {
	store := &session.MemoryTokenStore{}
	live := signedToken(t, time.Now().Add(time.Hour))
	assert.NoError(t, store.Save(live))
	sess, err := session.New(store)
	assert.NoError(t, err)

	assert.Error(t, sess.Resolve(&stubResolver{err: errors.New("connection refused")}))
	assert.Equal(t, live, sess.Token())
}

func TestResolveWithoutTokenIsNoop(t *testing.T) {
	sess, err := session.New(&session.MemoryTokenStore{})
	assert.NoError(t, err)
	assert.NoError(t, sess.Resolve(&stubResolver{err: errors.New("should not be called")}))
}
