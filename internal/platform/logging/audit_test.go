package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLogAuditEvent(t *testing.T) {
	ctx, recorded := observed(zapcore.InfoLevel)

	LogAuditEvent(ctx, AuditEvent{
		Action:     "delete",
		Actor:      "u-admin",
		Resource:   "student",
		ResourceID: "s-1",
		Result:     "success",
	})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if entries[0].Message != "audit event" {
		t.Fatalf("unexpected message: %s", entries[0].Message)
	}
	fields := fieldMap(entries[0])
	checks := map[string]string{
		"audit.action":      "delete",
		"audit.actor":       "u-admin",
		"audit.resource":    "student",
		"audit.resource_id": "s-1",
		"audit.result":      "success",
	}
	for key, want := range checks {
		if got := fields[key].String; got != want {
			t.Errorf("expected %s=%q, got %q", key, want, got)
		}
	}
	if _, ok := fields["audit.details"]; ok {
		t.Error("expected no details field when details are empty")
	}
}

func TestLogAuditEventWithDetails(t *testing.T) {
	ctx, recorded := observed(zapcore.InfoLevel)

	LogAuditEvent(ctx, AuditEvent{
		Action:     "enroll",
		Actor:      "u-teacher",
		Resource:   "course",
		ResourceID: "c-9",
		Result:     "success",
		Details:    map[string]any{"studentId": "s-3"},
	})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if _, ok := fieldMap(entries[0])["audit.details"]; !ok {
		t.Fatal("expected details field")
	}
}
