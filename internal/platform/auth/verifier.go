package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/janisto/campus-admin/internal/service/account"
)

// Verifier maps a bearer token to the account it was issued for. The
// stand-in API verifies against account.MockStore.
type Verifier interface {
	Verify(ctx context.Context, token string) (*account.User, error)
}

// Authorization header errors
var (
	ErrMissingBearer   = errors.New("no token provided")
	ErrMalformedBearer = errors.New("malformed authorization header")
)

// ExtractBearerToken returns the credentials of a "Bearer <token>" header.
// The scheme is matched case-insensitively and the token must be one word.
func ExtractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingBearer
	}
	scheme, token, _ := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "bearer") || token == "" || strings.ContainsAny(token, " \t") {
		return "", ErrMalformedBearer
	}
	return token, nil
}

var _ Verifier = (*account.MockStore)(nil)
