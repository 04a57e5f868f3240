package bootstrap

import "context"

// AuditLog is one auditable state change.
type AuditLog struct {
	Action  string
	ActorID string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}

// NopAuditLogger drops every entry.
type NopAuditLogger struct{}

func (NopAuditLogger) Log(context.Context, AuditLog) {}
