package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/respond"
	accountsvc "github.com/janisto/campus-admin/internal/service/account"
)

// Authenticator issues tokens. account.MockStore satisfies it; the profile
// route reads the user the auth middleware resolved.
type Authenticator interface {
	Login(ctx context.Context, creds accountsvc.Credentials) (*accountsvc.AuthResult, error)
	Register(ctx context.Context, reg accountsvc.Registration) (*accountsvc.AuthResult, error)
}

// LoginInput for POST /auth/login
type LoginInput struct {
	Body accountsvc.Credentials
}

// RegisterInput for POST /auth/register
type RegisterInput struct {
	Body accountsvc.Registration
}

// Register registers the auth endpoints under prefix, normally "/auth".
func Register(api huma.API, svc Authenticator, prefix string) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        prefix + "/login",
		Summary:     "Sign in",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*respond.Body[accountsvc.AuthResult], error) {
		res, err := svc.Login(ctx, input.Body)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Login failed")
		}
		return respond.Success(*res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          prefix + "/register",
		Summary:       "Create an account",
		Tags:          []string{"Auth"},
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *RegisterInput) (*respond.Body[accountsvc.AuthResult], error) {
		res, err := svc.Register(ctx, input.Body)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Registration failed")
		}
		return respond.Success(*res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "profile",
		Method:      http.MethodGet,
		Path:        prefix + "/profile",
		Summary:     "Current user",
		Tags:        []string{"Auth"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, _ *struct{}) (*respond.Body[accountsvc.User], error) {
		user := auth.UserFromContext(ctx)
		if user == nil {
			return nil, huma.Error401Unauthorized("Not authorized, no token")
		}
		return respond.Success(*user), nil
	})
}

var _ Authenticator = (*accountsvc.MockStore)(nil)
