package account

import (
	"context"

	"github.com/janisto/campus-admin/internal/apperr"
)

// Service errors
var (
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthorized, "Invalid email or password")
	ErrEmailTaken         = apperr.New(apperr.ErrConflict, "User already exists")
	ErrInvalidToken       = apperr.New(apperr.ErrUnauthorized, "Not authorized, token failed")
)

// Role of an admin panel user.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
)

// User is an authenticated admin panel user.
type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsAdmin reports whether the user has the admin role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CanManage reports whether the user may create and edit courses and grades.
func (u User) CanManage() bool {
	return u.Role == RoleAdmin || u.Role == RoleTeacher
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Registration is the sign-up form. Role defaults to admin.
type Registration struct {
	Name     string `json:"name"           validate:"required"`
	Email    string `json:"email"          validate:"required,email"`
	Password string `json:"password"       validate:"required,min=6"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=admin teacher"`
}

// AuthResult is returned by login and register.
type AuthResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Service defines the auth endpoints. Profile uses the token the transport
// attaches to the request.
type Service interface {
	Login(ctx context.Context, creds Credentials) (*AuthResult, error)
	Register(ctx context.Context, reg Registration) (*AuthResult, error)
	Profile(ctx context.Context) (*User, error)
}
