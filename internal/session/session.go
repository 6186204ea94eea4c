package session

import (
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/abdalla-ayman/tailor-frontend/internal/models"
	"github.com/abdalla-ayman/tailor-frontend/internal/tailor"
)

// UserResolver fetches the account behind the current token; the tailor
// client satisfies it.
type UserResolver interface {
	CurrentUser() (*models.Account, error)
}

// Session is the single process-wide login state: the bearer token, the
// authenticated account, and the refresh counter list components watch.
// Absence of a token is the logged-out state.
type Session struct {
	mu      sync.Mutex
	store   TokenStore
	token   string
	user    *models.Account
	refresh int64
}

// New loads the persisted token. A token that already expired is discarded
// immediately so the console starts logged out instead of failing its first
// request.
func New(store TokenStore) (*Session, error) {
	token, err := store.Load()
	if err != nil {
		return nil, err
	}
	if token != "" && tokenExpired(token) {
		_ = store.Clear()
		token = ""
	}
	return &Session{store: store, token: token}, nil
}

// Resolve completes session init: with a token present, it fetches the
// current user. An unauthorized response clears the session (implicit
// logout); other errors leave the token in place for a later retry.
func (s *Session) Resolve(api UserResolver) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return nil
	}

	user, err := api.CurrentUser()
	if err != nil {
		if s.HandleAuthFailure(err) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Token implements tailor.TokenSource.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != "" && s.user != nil
}

func (s *Session) User() *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// SetLogin installs a fresh token and account and persists the token under
// the fixed storage key.
func (s *Session) SetLogin(token string, user *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.token = token
	s.user = user
	return nil
}

// Logout clears the token and user. Safe to call more than once; only the
// first call touches the store.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" && s.user == nil {
		return
	}
	s.token = ""
	s.user = nil
	_ = s.store.Clear()
}

// HandleAuthFailure turns an upstream 401 into an implicit logout and
// reports whether it did so.
func (s *Session) HandleAuthFailure(err error) bool {
	var apiErr *tailor.APIError
	if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
		s.Logout()
		return true
	}
	return false
}

// Refresh bumps the refresh counter; list components refetch when they see a
// new value.
func (s *Session) Refresh() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh++
	return s.refresh
}

func (s *Session) RefreshSignal() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh
}

// tokenExpired reads the exp claim without verifying the signature; the
// backend is the authority on token validity, this only avoids presenting a
// token that is certainly dead.
func tokenExpired(token string) bool {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		// Opaque tokens are passed through as-is.
		return false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}
