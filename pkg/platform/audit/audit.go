// Package audit defines the audit event model and publisher contract.
//
// Events are emitted from domain logic to capture compliance-relevant actions.
// The model is transport-agnostic so sinks (Kafka, memory, log-only) can fan out.
package audit

import (
	"context"
	"log/slog"
	"time"

	id "rostra/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies and routing per category.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// These require long retention (care-sector audits reach back years).
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and visibility.
	CategoryOperations EventCategory = "operations"
)

// Event captures a single auditable action.
type Event struct {
	Category   EventCategory
	Timestamp  time.Time
	Action     string
	EmployeeID id.EmployeeID
	// ActorID is the authenticated principal who triggered the action.
	ActorID id.UserID
	// Decision records the outcome for evaluation events ("compliant",
	// "non_compliant", "failed_closed").
	Decision  string
	Reason    string
	RequestID string
}

// Action names emitted by Rostra modules.
const (
	EventEvaluationCompleted    = "evaluation_completed"
	EventEvaluationFailedClosed = "evaluation_failed_closed"
	EventOverridesLapsed        = "overrides_lapsed"
	EventRateLimitExceeded      = "rate_limit_exceeded"
)

// Publisher emits audit events for security- and compliance-relevant operations.
// Emit is best-effort for operational events; callers that need fail-closed
// audit semantics must check the returned error.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// LogAudit emits event through publisher when one is configured and always
// writes a structured log line, so audit signal survives even when no broker
// is wired (dev, tests).
func LogAudit(ctx context.Context, logger *slog.Logger, publisher Publisher, event Event) {
	if logger != nil {
		logger.InfoContext(ctx, "audit event",
			"category", string(event.Category),
			"action", event.Action,
			"employee_id", event.EmployeeID,
			"decision", event.Decision,
			"request_id", event.RequestID,
		)
	}
	if publisher == nil {
		return
	}
	if err := publisher.Emit(ctx, event); err != nil && logger != nil {
		logger.ErrorContext(ctx, "audit publish failed",
			"action", event.Action,
			"error", err,
		)
	}
}
