package auth

import (
	"context"
	"net/http"
	"slices"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/service/account"
)

// RolesMetadataKey names the huma.Operation metadata entry listing the roles
// allowed to call a secured operation. Operations without it accept any
// authenticated user.
const RolesMetadataKey = "roles"

// Bearer is the Security requirement of operations that need a signed-in user.
var Bearer = []map[string][]string{{"bearer": {}}}

// Roles returns operation metadata restricting an operation to roles.
func Roles(roles ...account.Role) map[string]any {
	return map[string]any{RolesMetadataKey: roles}
}

type userContextKey struct{}

// NewAuthMiddleware guards operations that declare a Security requirement:
// the bearer token must resolve to a user whose role the operation's
// metadata allows. Unsecured operations pass through untouched.
func NewAuthMiddleware(api huma.API, verifier Verifier) func(huma.Context, func(huma.Context)) {
	reject := func(ctx huma.Context, status int, msg, reason string) {
		applog.LogWarn(ctx.Context(), "request rejected",
			zap.String("operation", ctx.Operation().OperationID),
			zap.String("reason", reason))
		if status == http.StatusUnauthorized {
			ctx.SetHeader("WWW-Authenticate", "Bearer")
		}
		_ = huma.WriteErr(api, ctx, status, msg)
	}

	return func(ctx huma.Context, next func(huma.Context)) {
		op := ctx.Operation()
		if len(op.Security) == 0 {
			next(ctx)
			return
		}

		token, err := ExtractBearerToken(ctx.Header("Authorization"))
		if err != nil {
			reject(ctx, http.StatusUnauthorized, "Not authorized, no token", "no_token")
			return
		}
		user, err := verifier.Verify(ctx.Context(), token)
		if err != nil || user == nil {
			reject(ctx, http.StatusUnauthorized, "Not authorized, token failed", "invalid_token")
			return
		}
		if allowed, ok := op.Metadata[RolesMetadataKey].([]account.Role); ok && !slices.Contains(allowed, user.Role) {
			reject(ctx, http.StatusForbidden, "Not authorized for this action", "role_"+string(user.Role))
			return
		}

		next(huma.WithValue(ctx, userContextKey{}, user))
	}
}

// UserFromContext returns the user the request was authenticated as, or nil.
func UserFromContext(ctx context.Context) *account.User {
	user, _ := ctx.Value(userContextKey{}).(*account.User)
	return user
}

// ActorID returns the authenticated user's ID for audit logs, or "anonymous".
func ActorID(ctx context.Context) string {
	if u := UserFromContext(ctx); u != nil {
		return u.ID
	}
	return "anonymous"
}
