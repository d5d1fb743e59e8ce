package account

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/janisto/campus-admin/internal/platform/validate"
)

type storedUser struct {
	user User
	hash []byte
}

// MockStore is the in-memory user store behind the stand-in auth endpoints.
// Passwords are bcrypt-hashed and tokens are opaque random strings held in memory.
type MockStore struct {
	mu     sync.RWMutex
	users  map[string]*storedUser // keyed by email
	tokens map[string]string      // token -> email
	cost   int
}

// NewMockStore creates an empty store.
func NewMockStore() *MockStore {
	return &MockStore{
		users:  make(map[string]*storedUser),
		tokens: make(map[string]string),
		cost:   bcrypt.DefaultCost,
	}
}

// Register creates a user and issues a token.
func (m *MockStore) Register(ctx context.Context, reg Registration) (*AuthResult, error) {
	if err := validate.Struct(reg); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(reg.Email))
	role := reg.Role
	if role == "" {
		role = RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), m.cost)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.users[email]; exists {
		return nil, ErrEmailTaken
	}
	u := User{ID: uuid.NewString(), Name: strings.TrimSpace(reg.Name), Email: email, Role: role}
	m.users[email] = &storedUser{user: u, hash: hash}
	return &AuthResult{User: u, Token: m.issueLocked(email)}, nil
}

// Login checks credentials and issues a token.
func (m *MockStore) Login(ctx context.Context, creds Credentials) (*AuthResult, error) {
	if err := validate.Struct(creds); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))

	m.mu.RLock()
	su, ok := m.users[email]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(su.hash, []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return &AuthResult{User: su.user, Token: m.issueLocked(email)}, nil
}

// Verify resolves a token to its user.
func (m *MockStore) Verify(ctx context.Context, token string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	email, ok := m.tokens[token]
	if !ok {
		return nil, ErrInvalidToken
	}
	su, ok := m.users[email]
	if !ok {
		return nil, ErrInvalidToken
	}
	u := su.user
	return &u, nil
}

// Revoke invalidates a token. Unknown tokens are ignored.
func (m *MockStore) Revoke(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
}

func (m *MockStore) issueLocked(email string) string {
	token := strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
	m.tokens[token] = email
	return token
}
