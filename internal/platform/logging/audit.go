package logging

import (
	"context"

	"go.uber.org/zap"
)

// AuditEvent describes one administrative change.
type AuditEvent struct {
	Action     string // create, update, delete, enroll, unenroll, mark
	Actor      string // user ID performing the action
	Resource   string // student, course, grade, attendance
	ResourceID string
	Result     string // success or failure
	Details    map[string]any
}

// LogAuditEvent logs a structured audit entry for an administrative change.
func LogAuditEvent(ctx context.Context, ev AuditEvent) {
	fields := []zap.Field{
		zap.String("audit.action", ev.Action),
		zap.String("audit.actor", ev.Actor),
		zap.String("audit.resource", ev.Resource),
		zap.String("audit.resource_id", ev.ResourceID),
		zap.String("audit.result", ev.Result),
	}
	if len(ev.Details) > 0 {
		fields = append(fields, zap.Any("audit.details", ev.Details))
	}
	LoggerFromContext(ctx).Info("audit event", fields...)
}
