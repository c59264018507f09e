package compliance

import (
	"context"
	"time"

	id "rostra/pkg/domain"
	"rostra/pkg/platform/audit"
)

// CertificationStore reads the current certification records for an employee.
// The evaluator never mutates certification data.
type CertificationStore interface {
	// ListByEmployee returns all current records for the employee, one per
	// certification type.
	ListByEmployee(ctx context.Context, employeeID id.EmployeeID) ([]CertificationRecord, error)
}

// OverrideStore reads and lapses override grants.
type OverrideStore interface {
	// LapseExpired flips IsActive to false for all overrides whose ExpiresAt
	// has passed, returning how many rows changed. Idempotent and safe to call
	// on every evaluation.
	LapseExpired(ctx context.Context, now time.Time) (int, error)

	// ActiveForEmployee returns the employee's active, unexpired overrides
	// ordered by CreatedAt descending.
	ActiveForEmployee(ctx context.Context, employeeID id.EmployeeID, now time.Time) ([]Override, error)
}

// AuditPublisher emits audit events for evaluation outcomes.
type AuditPublisher = audit.Publisher
