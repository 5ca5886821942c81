package client

import (
	"context"
	"errors"
	"sync"

	"auth-app/internal/api"
	"auth-app/internal/model"
)

// API is the part of *Client a Session needs.
type API interface {
	SetToken(token string)
	Register(ctx context.Context, username, email, password string) (*api.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*api.AuthResponse, error)
	Profile(ctx context.Context) (*model.Profile, error)
}

// Session holds the current user. It is authenticated iff user != nil.
type Session struct {
	api   API
	store TokenStore

	mu   sync.Mutex
	user *model.Profile
}

func NewSession(a API, store TokenStore) *Session {
	return &Session{api: a, store: store}
}

// Start restores a persisted token and fetches the profile with it.
// Any failure clears the token and leaves the session unauthenticated; only
// a store failure is returned.
func (s *Session) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tok, err := s.store.Load()
	if err != nil {
		if errors.Is(err, ErrNoToken) {
			return nil
		}
		return err
	}

	s.api.SetToken(tok)
	p, err := s.api.Profile(ctx)
	if err != nil {
		s.resetLocked()
		return s.store.Clear()
	}
	s.user = p
	return nil
}

// Login persists the returned token and fills the session from the response.
func (s *Session) Login(ctx context.Context, email, password string) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		return model.Profile{}, err
	}
	return s.acceptLocked(resp)
}

// Register behaves like Login for a new account.
func (s *Session) Register(ctx context.Context, username, email, password string) (model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.api.Register(ctx, username, email, password)
	if err != nil {
		return model.Profile{}, err
	}
	return s.acceptLocked(resp)
}

// Logout drops the persisted token and the in-memory user.
func (s *Session) Logout() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked()
	return s.store.Clear()
}

// CurrentUser returns the session user and whether the session is authenticated.
func (s *Session) CurrentUser() (model.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user == nil {
		return model.Profile{}, false
	}
	return *s.user, true
}

func (s *Session) acceptLocked(resp *api.AuthResponse) (model.Profile, error) {
	if err := s.store.Save(resp.Token); err != nil {
		return model.Profile{}, err
	}
	s.api.SetToken(resp.Token)
	p := model.Profile{ID: resp.User.ID, Username: resp.User.Username, Email: resp.User.Email}
	s.user = &p
	return p, nil
}

func (s *Session) resetLocked() {
	s.api.SetToken("")
	s.user = nil
}
