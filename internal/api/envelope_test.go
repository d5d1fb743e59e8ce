package api

import (
	"encoding/json"
	"testing"

	"github.com/janisto/campus-admin/internal/apperr"
)

func TestNewSuccessEnvelopeCopiesData(t *testing.T) {
	input := struct{ Value string }{Value: "ok"}
	env := NewSuccessEnvelope(input)

	if !env.Success {
		t.Fatal("expected success flag")
	}
	if env.Data == nil {
		t.Fatalf("expected Data pointer to be non-nil")
	}
	if got := env.Data.Value; got != "ok" {
		t.Fatalf("unexpected data value: %q", got)
	}

	input.Value = "mutated"
	if env.Data.Value != "ok" {
		t.Fatalf("data should not change after original input mutation, got %q", env.Data.Value)
	}
}

func TestNewErrorEnvelopeClonesIssues(t *testing.T) {
	issues := []apperr.FieldIssue{{Field: "email", Issue: "is required"}}
	env := NewErrorEnvelope("req-1", "Validation failed", issues)

	if env.Success {
		t.Fatal("expected success=false")
	}
	if env.Data != nil {
		t.Fatalf("expected Data to be nil, got %+v", env.Data)
	}
	if env.RequestID != "req-1" {
		t.Fatalf("expected requestId req-1, got %q", env.RequestID)
	}
	if len(env.Errors) != 1 || env.Errors[0].Field != "email" {
		t.Fatalf("unexpected issues: %+v", env.Errors)
	}

	issues[0].Issue = "mutated"
	if env.Errors[0].Issue != "is required" {
		t.Fatalf("issues should be copied, got %q", env.Errors[0].Issue)
	}
}

func TestErrorEnvelopeWireShape(t *testing.T) {
	env := NewErrorEnvelope("", "Student not found", nil)
	raw, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(raw), `{"success":false,"message":"Student not found"}`; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestMessageEnvelopeHasNoData(t *testing.T) {
	raw, err := json.Marshal(NewMessageEnvelope("Student deleted"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(raw), `{"success":true,"message":"Student deleted"}`; got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
}
