package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/service/account"
)

// Session errors
var (
	ErrNotSignedIn = apperr.New(apperr.ErrUnauthorized, "Not signed in")
	ErrAdminOnly   = apperr.New(apperr.ErrForbidden, "Only admins can do this")
	ErrNotManager  = apperr.New(apperr.ErrForbidden, "Only admins and teachers can do this")
)

// Session tracks the signed-in user of the admin client. The token lives in
// the TokenStore; the store doubles as the transport's token source.
type Session struct {
	store TokenStore
	svc   account.Service

	mu   sync.RWMutex
	user *account.User
}

// NewSession creates a session over store and svc.
func NewSession(store TokenStore, svc account.Service) *Session {
	return &Session{store: store, svc: svc}
}

// Token returns the current bearer token.
func (s *Session) Token() string {
	return s.store.Token()
}

// Init restores the user from a stored token. A token the server rejects is
// cleared; any other failure keeps the token and is returned.
func (s *Session) Init(ctx context.Context) error {
	if s.store.Token() == "" {
		return nil
	}
	user, err := s.svc.Profile(ctx)
	if err != nil {
		if apperr.IsAuthFailure(err) {
			logging.LogInfo(ctx, "stored session rejected, clearing token")
			s.setUser(nil)
			return s.store.Clear()
		}
		return fmt.Errorf("restoring session: %w", err)
	}
	s.setUser(user)
	return nil
}

// Login signs in and persists the issued token.
func (s *Session) Login(ctx context.Context, creds account.Credentials) (*account.User, error) {
	res, err := s.svc.Login(ctx, creds)
	if err != nil {
		return nil, err
	}
	return s.establish(res)
}

// Register creates an account and signs in as it.
func (s *Session) Register(ctx context.Context, reg account.Registration) (*account.User, error) {
	res, err := s.svc.Register(ctx, reg)
	if err != nil {
		return nil, err
	}
	return s.establish(res)
}

func (s *Session) establish(res *account.AuthResult) (*account.User, error) {
	if err := s.store.Save(res.Token); err != nil {
		return nil, err
	}
	user := res.User
	s.setUser(&user)
	return &user, nil
}

// Logout forgets the user and the token.
func (s *Session) Logout() error {
	s.setUser(nil)
	return s.store.Clear()
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *account.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) IsAuthenticated() bool {
	return s.User() != nil
}

func (s *Session) IsAdmin() bool {
	u := s.User()
	return u != nil && u.IsAdmin()
}

func (s *Session) CanManage() bool {
	u := s.User()
	return u != nil && u.CanManage()
}

// RequireAdmin guards admin-only screens.
func (s *Session) RequireAdmin() error {
	switch {
	case !s.IsAuthenticated():
		return ErrNotSignedIn
	case !s.IsAdmin():
		return ErrAdminOnly
	}
	return nil
}

// RequireManager guards course and grade management.
func (s *Session) RequireManager() error {
	switch {
	case !s.IsAuthenticated():
		return ErrNotSignedIn
	case !s.CanManage():
		return ErrNotManager
	}
	return nil
}

func (s *Session) setUser(u *account.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}
