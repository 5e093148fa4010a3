package audit

import (
	"context"
	"log/slog"
	"time"
)

// Event represents an audit entry for a proxied tool invocation.
type Event struct {
	// Type describes the event kind ("tool_call", "session_update", "auth_denied").
	Type string
	// Tool is the tool name, when the event concerns one.
	Tool string
	// CorrelationID links related log lines for a single request.
	CorrelationID string
	// Subject identifies the authenticated caller.
	Subject string
	// Outcome is "success" or "error".
	Outcome string
	// Reason carries the error message on failure.
	Reason string
	// Duration is how long the upstream call took.
	Duration time.Duration
}

// Logger records audit events.
type Logger interface {
	// Record stores an audit event.
	Record(ctx context.Context, event Event)
}

// StdLogger writes audit events to slog.
type StdLogger struct {
	logger *slog.Logger
}

// New returns a StdLogger.
func New(logger *slog.Logger) *StdLogger {
	return &StdLogger{logger: logger}
}

// Record logs an audit event.
func (l *StdLogger) Record(_ context.Context, event Event) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info("audit",
		"type", event.Type,
		"tool", event.Tool,
		"correlation_id", event.CorrelationID,
		"subject", event.Subject,
		"outcome", event.Outcome,
		"reason", event.Reason,
		"duration_ms", event.Duration.Milliseconds(),
	)
}
