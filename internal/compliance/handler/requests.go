package handler

import (
	"strings"

	"rostra/internal/compliance"
	id "rostra/pkg/domain"
	dErrors "rostra/pkg/domain-errors"
)

// maxBatchSize caps roster-wide checks to keep one request bounded.
const maxBatchSize = 200

// RequestContext holds the assignment context for evaluation.
type RequestContext struct {
	ContextType            string   `json:"contextType"`
	RequiresDriving        bool     `json:"requiresDriving"`
	AdditionalRequirements []string `json:"additionalRequirements"`
}

func (c *RequestContext) parse() (compliance.EvaluationContext, error) {
	if c == nil {
		return compliance.EvaluationContext{ContextType: compliance.ContextGeneral}, nil
	}
	contextType, err := compliance.ParseContextType(strings.TrimSpace(c.ContextType))
	if err != nil {
		return compliance.EvaluationContext{}, err
	}
	return compliance.EvaluationContext{
		ContextType:            contextType,
		RequiresDriving:        c.RequiresDriving,
		AdditionalRequirements: c.AdditionalRequirements,
	}, nil
}

// EvaluateRequest is the HTTP request body for POST /compliance/evaluate.
type EvaluateRequest struct {
	EmployeeID string          `json:"employeeId"`
	Context    *RequestContext `json:"context,omitempty"`

	// Parsed values (populated by Validate)
	parsedEmployeeID id.EmployeeID
	parsedContext    compliance.EvaluationContext
}

// Validate validates and parses the request. Runs before any data access so a
// missing employeeId is rejected without touching the stores.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *EvaluateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if r.EmployeeID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "employeeId is required")
	}

	employeeID, err := id.ParseEmployeeID(r.EmployeeID)
	if err != nil {
		return err
	}
	r.parsedEmployeeID = employeeID

	parsedContext, err := r.Context.parse()
	if err != nil {
		return err
	}
	r.parsedContext = parsedContext

	return nil
}

// ParsedEmployeeID returns the validated employee ID.
func (r *EvaluateRequest) ParsedEmployeeID() id.EmployeeID {
	return r.parsedEmployeeID
}

// ParsedContext returns the validated evaluation context.
func (r *EvaluateRequest) ParsedContext() compliance.EvaluationContext {
	return r.parsedContext
}

// EvaluateBatchRequest is the HTTP request body for POST /compliance/evaluate/batch.
type EvaluateBatchRequest struct {
	EmployeeIDs []string        `json:"employeeIds"`
	Context     *RequestContext `json:"context,omitempty"`

	parsedEmployeeIDs []id.EmployeeID
	parsedContext     compliance.EvaluationContext
}

// Validate validates and parses the batch request.
func (r *EvaluateBatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	if len(r.EmployeeIDs) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "employeeIds is required")
	}
	if len(r.EmployeeIDs) > maxBatchSize {
		return dErrors.New(dErrors.CodeValidation, "employeeIds must contain at most 200 entries")
	}

	r.parsedEmployeeIDs = make([]id.EmployeeID, 0, len(r.EmployeeIDs))
	for _, raw := range r.EmployeeIDs {
		employeeID, err := id.ParseEmployeeID(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		r.parsedEmployeeIDs = append(r.parsedEmployeeIDs, employeeID)
	}

	parsedContext, err := r.Context.parse()
	if err != nil {
		return err
	}
	r.parsedContext = parsedContext

	return nil
}

// ParsedEmployeeIDs returns the validated employee IDs.
func (r *EvaluateBatchRequest) ParsedEmployeeIDs() []id.EmployeeID {
	return r.parsedEmployeeIDs
}

// ParsedContext returns the validated evaluation context.
func (r *EvaluateBatchRequest) ParsedContext() compliance.EvaluationContext {
	return r.parsedContext
}
