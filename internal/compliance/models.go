// Package compliance decides whether an employee is cleared for a work
// assignment: required certification types are derived from the assignment
// context, each is classified against the employee's certification records,
// and any active override is reported alongside the verdict.
package compliance

import (
	"time"

	id "rostra/pkg/domain"
	dErrors "rostra/pkg/domain-errors"
)

// CertificationStatus is the review lifecycle state of a certification record.
// Expiry is not a status: it is derived from ExpiresAt at evaluation time.
type CertificationStatus string

const (
	StatusValid    CertificationStatus = "valid"
	StatusPending  CertificationStatus = "pending"
	StatusRejected CertificationStatus = "rejected"
)

// CertificationRecord is the current determination for one (employee, type)
// pair. Records are written by the document-review workflow; the evaluator
// only reads them.
type CertificationRecord struct {
	EmployeeID id.EmployeeID
	// Type is a free-form certification type key, compared case-insensitively.
	Type      string
	Status    CertificationStatus
	ExpiresAt *time.Time
	UpdatedAt time.Time
}

// ContextType categorizes the work being evaluated against. Overrides are
// scoped to a context type; "general" matches everything.
type ContextType string

const (
	ContextShift   ContextType = "shift"
	ContextClient  ContextType = "client"
	ContextService ContextType = "service"
	ContextGeneral ContextType = "general"
)

// ParseContextType validates a context type string, defaulting empty input to
// ContextGeneral.
func ParseContextType(s string) (ContextType, error) {
	switch ContextType(s) {
	case ContextShift, ContextClient, ContextService, ContextGeneral:
		return ContextType(s), nil
	case "":
		return ContextGeneral, nil
	default:
		return "", dErrors.New(dErrors.CodeValidation,
			"contextType must be one of shift, client, service, general")
	}
}

// EvaluationContext describes the assignment being evaluated.
type EvaluationContext struct {
	ContextType            ContextType
	RequiresDriving        bool
	AdditionalRequirements []string
}

// Override is a time-bound, reason-documented exception granted by a
// supervisor. It suppresses nothing by itself: the verdict reports it so the
// caller can decide whether to proceed despite blocking reasons.
type Override struct {
	ID          id.OverrideID
	EmployeeID  id.EmployeeID
	Reason      string
	ContextType ContextType
	ExpiresAt   time.Time
	IsActive    bool
	CreatedAt   time.Time
	GrantedBy   string
}

// AppliesTo reports whether the override is eligible against an evaluation:
// active, unexpired at now, and context-matching (either side "general"
// matches anything).
func (o Override) AppliesTo(contextType ContextType, now time.Time) bool {
	if !o.IsActive || !o.ExpiresAt.After(now) {
		return false
	}
	return o.ContextType == contextType ||
		o.ContextType == ContextGeneral ||
		contextType == ContextGeneral
}

// ReasonKind classifies why a required certification type blocks assignment.
type ReasonKind string

const (
	ReasonMissing  ReasonKind = "missing"
	ReasonRejected ReasonKind = "rejected"
	ReasonPending  ReasonKind = "pending"
	ReasonExpired  ReasonKind = "expired"
)

// BlockingReason is one certification problem that makes the employee
// non-compliant for assignment.
type BlockingReason struct {
	Type string
	Kind ReasonKind
	// ExpiredAt is set only for ReasonExpired.
	ExpiredAt *time.Time
}

// ExpiryWarning is a non-blocking notice for a certification within the
// warning window. DaysUntilExpiry rounds up, so 29.1 days left reports as 30.
type ExpiryWarning struct {
	Type            string
	ExpiresAt       time.Time
	DaysUntilExpiry int
}

// OverrideDetails is the snapshot of the selected override reported on a
// verdict.
type OverrideDetails struct {
	ID        id.OverrideID
	Reason    string
	ExpiresAt time.Time
	GrantedBy string
}

// Verdict is the outcome of one evaluation. Compliant is derived from
// BlockingReasons alone; an active override never flips it. The caller decides
// whether OverrideActive is sufficient to proceed.
type Verdict struct {
	EmployeeID      id.EmployeeID
	Compliant       bool
	BlockingReasons []BlockingReason
	ExpiringSoon    []ExpiryWarning
	OverrideActive  bool
	Override        *OverrideDetails
	EvaluatedAt     time.Time
}
