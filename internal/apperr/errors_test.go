package apperr

import (
	"errors"
	"net/http"
	"testing"
)

func TestServerErrorUnwrapsToKind(t *testing.T) {
	tests := []struct {
		status int
		kind   error
	}{
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrForbidden},
		{http.StatusBadRequest, ErrInvalid},
		{http.StatusUnprocessableEntity, ErrInvalid},
	}

	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			err := error(NewServerError(tc.status, "boom"))
			if !errors.Is(err, ErrServer) {
				t.Errorf("expected ErrServer in chain")
			}
			if !errors.Is(err, tc.kind) {
				t.Errorf("expected %v in chain", tc.kind)
			}
			if errors.Is(err, ErrNetwork) {
				t.Errorf("server error must not match ErrNetwork")
			}
		})
	}
}

func TestServerErrorUnknownStatusHasNoKind(t *testing.T) {
	err := error(NewServerError(http.StatusInternalServerError, ""))
	if !errors.Is(err, ErrServer) {
		t.Fatal("expected ErrServer")
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalid) {
		t.Fatal("500 must not map to a kind")
	}
	if got := err.Error(); got != "server error (status=500)" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(&NetworkError{Op: "GET /students", Err: cause})
	if !errors.Is(err, ErrNetwork) {
		t.Fatal("expected ErrNetwork")
	}
	if !errors.Is(err, cause) {
		t.Fatal("expected transport cause in chain")
	}
}

func TestMessagePrefersServerMessage(t *testing.T) {
	err := NewServerError(http.StatusConflict, "Roll number already exists")
	if got := Message(err, "Operation failed"); got != "Roll number already exists" {
		t.Fatalf("expected server message, got %q", got)
	}
}

func TestMessageFallsBack(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"server-without-message", NewServerError(http.StatusInternalServerError, "  ")},
		{"network", &NetworkError{Op: "GET /x", Err: errors.New("eof")}},
		{"plain", errors.New("something")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Message(tc.err, "Delete failed"); got != "Delete failed" {
				t.Fatalf("expected fallback, got %q", got)
			}
		})
	}
}

func TestMessageNilError(t *testing.T) {
	if got := Message(nil, "fallback"); got != "" {
		t.Fatalf("expected empty message for nil error, got %q", got)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldIssue{
		{Field: "firstName", Issue: "is required"},
		{Field: "email", Issue: "must be a valid email address"},
	}}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected ErrValidation")
	}
	if got := Message(err, "Operation failed"); got != "firstName is required" {
		t.Fatalf("unexpected message: %q", got)
	}
	want := "validation failed: firstName is required; email must be a valid email address"
	if got := err.Error(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestStatusForKind(t *testing.T) {
	if got := StatusForKind(ErrNotFound); got != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got)
	}
	if got := StatusForKind(&ValidationError{}); got != http.StatusBadRequest {
		t.Errorf("expected 400 for validation, got %d", got)
	}
	if got := StatusForKind(errors.New("x")); got != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", got)
	}
}

func TestIsAuthFailure(t *testing.T) {
	if !IsAuthFailure(NewServerError(http.StatusUnauthorized, "Token expired")) {
		t.Error("401 should be an auth failure")
	}
	if !IsAuthFailure(NewServerError(http.StatusForbidden, "")) {
		t.Error("403 should be an auth failure")
	}
	if IsAuthFailure(&NetworkError{Op: "GET /auth/profile", Err: errors.New("timeout")}) {
		t.Error("network errors are not auth failures")
	}
}

func TestKindError(t *testing.T) {
	err := New(ErrConflict, "Student already enrolled")
	if !errors.Is(err, ErrConflict) {
		t.Fatal("expected ErrConflict in chain")
	}
	if err.Error() != "Student already enrolled" || Message(err, "x") != "Student already enrolled" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if got := StatusForKind(err); got != http.StatusConflict {
		t.Fatalf("expected 409, got %d", got)
	}
}
