package auth

import (
	"context"

	"github.com/janisto/campus-admin/internal/service/account"
)

// tokens is a Verifier that accepts only the tokens it maps.
type tokens map[string]*account.User

func (t tokens) Verify(_ context.Context, token string) (*account.User, error) {
	if u, ok := t[token]; ok {
		return u, nil
	}
	return nil, account.ErrInvalidToken
}

func testUser(role account.Role) *account.User {
	return &account.User{
		ID:    "u-" + string(role),
		Name:  "Pat " + string(role),
		Email: string(role) + "@example.com",
		Role:  role,
	}
}

var _ Verifier = tokens(nil)
