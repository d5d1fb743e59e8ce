package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"github.com/janisto/campus-admin/internal/service/account"
)

type testOutput struct {
	Body struct {
		UserID string `json:"userId"`
	}
}

func setupTestAPI(verifier Verifier, requireAuth bool, roles ...account.Role) *chi.Mux {
	router := chi.NewRouter()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))

	api.UseMiddleware(NewAuthMiddleware(api, verifier))

	var security []map[string][]string
	if requireAuth {
		security = []map[string][]string{{"bearer": {}}}
	}
	var metadata map[string]any
	if len(roles) > 0 {
		metadata = map[string]any{RolesMetadataKey: roles}
	}

	huma.Register(api, huma.Operation{
		OperationID: "test-endpoint",
		Method:      http.MethodGet,
		Path:        "/test",
		Security:    security,
		Metadata:    metadata,
	}, func(ctx context.Context, _ *struct{}) (*testOutput, error) {
		out := &testOutput{}
		if user := UserFromContext(ctx); user != nil {
			out.Body.UserID = user.ID
		}
		return out, nil
	})

	return router
}

func serve(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMiddlewareSkipsUnsecuredEndpoints(t *testing.T) {
	router := setupTestAPI(tokens{}, false)
	if rec := serve(router, ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unsecured endpoint, got %d", rec.Code)
	}
}

func TestMiddlewareRequiresAuthHeader(t *testing.T) {
	router := setupTestAPI(tokens{"valid-token": testUser(account.RoleAdmin)}, true)

	rec := serve(router, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth header, got %d", rec.Code)
	}
	if wwwAuth := rec.Header().Get("WWW-Authenticate"); wwwAuth != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer, got %q", wwwAuth)
	}
}

func TestMiddlewareRejectsInvalidAuthFormat(t *testing.T) {
	router := setupTestAPI(tokens{"valid-token": testUser(account.RoleAdmin)}, true)
	if rec := serve(router, "Basic dXNlcjpwYXNz"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for Basic auth, got %d", rec.Code)
	}
}

func TestMiddlewareAuthenticatesValidToken(t *testing.T) {
	user := testUser(account.RoleTeacher)
	router := setupTestAPI(tokens{"valid-token": user}, true)

	rec := serve(router, "Bearer valid-token")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid token, got %d", rec.Code)
	}
	var body struct {
		UserID string `json:"userId"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.UserID != user.ID {
		t.Fatalf("expected user ID %s, got %s", user.ID, body.UserID)
	}
}

func TestMiddlewareRejectsUnknownToken(t *testing.T) {
	router := setupTestAPI(tokens{}, true)

	rec := serve(router, "Bearer expired-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown token, got %d", rec.Code)
	}
	if wwwAuth := rec.Header().Get("WWW-Authenticate"); wwwAuth != "Bearer" {
		t.Fatalf("expected WWW-Authenticate: Bearer, got %q", wwwAuth)
	}
}

func TestMiddlewareEnforcesRoles(t *testing.T) {
	tests := []struct {
		name string
		role account.Role
		want int
	}{
		{"admin-allowed", account.RoleAdmin, http.StatusOK},
		{"teacher-forbidden", account.RoleTeacher, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := setupTestAPI(tokens{"valid-token": testUser(tc.role)}, true, account.RoleAdmin)
			if rec := serve(router, "Bearer valid-token"); rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestUserFromContext(t *testing.T) {
	if UserFromContext(context.Background()) != nil {
		t.Fatal("expected nil user from unauthenticated context")
	}
	if got := ActorID(context.Background()); got != "anonymous" {
		t.Fatalf("expected anonymous actor, got %q", got)
	}

	expected := testUser(account.RoleAdmin)
	ctx := context.WithValue(context.Background(), userContextKey{}, expected)
	if user := UserFromContext(ctx); user == nil || user.ID != expected.ID {
		t.Fatalf("expected user %s from context, got %+v", expected.ID, user)
	}
	if got := ActorID(ctx); got != expected.ID {
		t.Fatalf("expected actor %s, got %q", expected.ID, got)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"", "", ErrMissingBearer},
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"Bearer", "", ErrMalformedBearer},
		{"Token abc", "", ErrMalformedBearer},
		{"Bearer a b", "", ErrMalformedBearer},
	}
	for _, tc := range tests {
		got, err := ExtractBearerToken(tc.header)
		if !errors.Is(err, tc.wantErr) || got != tc.want {
			t.Errorf("ExtractBearerToken(%q): expected (%q, %v), got (%q, %v)", tc.header, tc.want, tc.wantErr, got, err)
		}
	}
}
