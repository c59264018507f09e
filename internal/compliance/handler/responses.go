package handler

import (
	"time"

	"rostra/internal/compliance"
)

// VerdictResponse is the JSON shape returned for one evaluation.
type VerdictResponse struct {
	EmployeeID      string                    `json:"employeeId"`
	Compliant       bool                      `json:"compliant"`
	BlockingReasons []BlockingReasonResponse  `json:"blockingReasons"`
	ExpiringSoon    []ExpiryWarningResponse   `json:"expiringSoon"`
	OverrideActive  bool                      `json:"overrideActive"`
	OverrideDetails *OverrideDetailsResponse  `json:"overrideDetails,omitempty"`
	EvaluatedAt     time.Time                 `json:"evaluatedAt"`
}

// BlockingReasonResponse renders one certification problem verbatim so the
// scheduling UI can show exactly which certification blocks assignment.
type BlockingReasonResponse struct {
	Type      string     `json:"type"`
	Kind      string     `json:"kind"`
	ExpiredAt *time.Time `json:"expiredAt,omitempty"`
}

type ExpiryWarningResponse struct {
	Type            string    `json:"type"`
	ExpiresAt       time.Time `json:"expiresAt"`
	DaysUntilExpiry int       `json:"daysUntilExpiry"`
}

type OverrideDetailsResponse struct {
	ID        string    `json:"id"`
	Reason    string    `json:"reason"`
	ExpiresAt time.Time `json:"expiresAt"`
	GrantedBy string    `json:"grantedBy"`
}

// BatchResponse wraps per-employee verdicts in input order.
type BatchResponse struct {
	Verdicts []VerdictResponse `json:"verdicts"`
}

// FromVerdict converts a domain verdict to its response shape. Slices are
// always non-nil so callers see [] rather than null.
func FromVerdict(v *compliance.Verdict) VerdictResponse {
	resp := VerdictResponse{
		EmployeeID:      v.EmployeeID.String(),
		Compliant:       v.Compliant,
		BlockingReasons: make([]BlockingReasonResponse, 0, len(v.BlockingReasons)),
		ExpiringSoon:    make([]ExpiryWarningResponse, 0, len(v.ExpiringSoon)),
		OverrideActive:  v.OverrideActive,
		EvaluatedAt:     v.EvaluatedAt,
	}

	for _, reason := range v.BlockingReasons {
		resp.BlockingReasons = append(resp.BlockingReasons, BlockingReasonResponse{
			Type:      reason.Type,
			Kind:      string(reason.Kind),
			ExpiredAt: reason.ExpiredAt,
		})
	}

	for _, warning := range v.ExpiringSoon {
		resp.ExpiringSoon = append(resp.ExpiringSoon, ExpiryWarningResponse{
			Type:            warning.Type,
			ExpiresAt:       warning.ExpiresAt,
			DaysUntilExpiry: warning.DaysUntilExpiry,
		})
	}

	if v.Override != nil {
		resp.OverrideDetails = &OverrideDetailsResponse{
			ID:        v.Override.ID.String(),
			Reason:    v.Override.Reason,
			ExpiresAt: v.Override.ExpiresAt,
			GrantedBy: v.Override.GrantedBy,
		}
	}

	return resp
}

// FromVerdicts converts a batch of verdicts.
func FromVerdicts(verdicts []*compliance.Verdict) BatchResponse {
	resp := BatchResponse{Verdicts: make([]VerdictResponse, 0, len(verdicts))}
	for _, v := range verdicts {
		resp.Verdicts = append(resp.Verdicts, FromVerdict(v))
	}
	return resp
}
