package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/yukikurage/okr-dashboard/internal/dto"
)

// ErrNotLoggedIn is returned when no token is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// Session ties a Client to its TokenStore and caches the current user so
// commands do not refetch it.
type Session struct {
	Client *Client
	tokens *TokenStore

	mu   sync.Mutex
	user *dto.UserDTO
}

// NewSession loads any stored token into client.
func NewSession(c *Client, tokens *TokenStore) (*Session, error) {
	token, err := tokens.Load()
	if err != nil {
		return nil, err
	}
	c.SetToken(token)
	return &Session{Client: c, tokens: tokens}, nil
}

// LoggedIn reports whether a token is present.
func (s *Session) LoggedIn() bool {
	return s.Client.Token() != ""
}

// Login authenticates, persists the token and caches the user. Nothing is
// stored when the credentials are rejected.
func (s *Session) Login(ctx context.Context, identifier, password string) (*dto.UserDTO, error) {
	resp, err := s.Client.Login(ctx, identifier, password)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Save(resp.JWT); err != nil {
		return nil, err
	}

	// the login payload has no position; fetch the full profile
	s.Invalidate()
	return s.Current(ctx)
}

// Logout drops the server session, the stored token and the cached user.
func (s *Session) Logout(ctx context.Context) error {
	var apiErr error
	if s.LoggedIn() {
		apiErr = s.Client.Logout(ctx)
	}
	s.Client.SetToken("")
	s.Invalidate()
	if err := s.tokens.Clear(); err != nil {
		return err
	}

	var e *APIError
	if errors.As(apiErr, &e) && e.IsUnauthorized() {
		return nil
	}
	return apiErr
}

// Current returns the authenticated user, fetching it once per session.
// A rejected token is cleared so the next command starts logged out.
func (s *Session) Current(ctx context.Context) (*dto.UserDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.user != nil {
		return s.user, nil
	}
	if !s.LoggedIn() {
		return nil, ErrNotLoggedIn
	}

	user, err := s.Client.Me(ctx)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.IsUnauthorized() {
			s.Client.SetToken("")
			if clearErr := s.tokens.Clear(); clearErr != nil {
				return nil, clearErr
			}
			return nil, fmt.Errorf("%w: session expired", ErrNotLoggedIn)
		}
		return nil, err
	}

	s.user = user
	return user, nil
}

// Invalidate forgets the cached user so the next Current refetches it.
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}
