// Package domain defines the typed identifiers shared across Rostra modules.
//
// IDs are distinct types over uuid.UUID so an employee ID can never be passed
// where a tenant ID is expected. Parse helpers return domain errors suitable
// for direct use in request validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "rostra/pkg/domain-errors"
)

type (
	// EmployeeID identifies an employee record.
	EmployeeID uuid.UUID

	// TenantID identifies the organisation an employee belongs to.
	TenantID uuid.UUID

	// OverrideID identifies a compliance override grant.
	OverrideID uuid.UUID

	// UserID identifies the authenticated principal making a request.
	UserID uuid.UUID
)

func (id EmployeeID) String() string { return uuid.UUID(id).String() }
func (id TenantID) String() string   { return uuid.UUID(id).String() }
func (id OverrideID) String() string { return uuid.UUID(id).String() }
func (id UserID) String() string     { return uuid.UUID(id).String() }

func (id EmployeeID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id TenantID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id OverrideID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }

// ParseEmployeeID parses a string into an EmployeeID, returning a validation
// error for malformed input.
func ParseEmployeeID(s string) (EmployeeID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return EmployeeID{}, dErrors.New(dErrors.CodeValidation, "employeeId must be a valid UUID")
	}
	return EmployeeID(u), nil
}

// ParseTenantID parses a string into a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return TenantID{}, dErrors.New(dErrors.CodeValidation, "tenantId must be a valid UUID")
	}
	return TenantID(u), nil
}

// ParseUserID parses a string into a UserID.
func ParseUserID(s string) (UserID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, dErrors.New(dErrors.CodeValidation, "userId must be a valid UUID")
	}
	return UserID(u), nil
}

// NewEmployeeID generates a fresh employee identifier.
func NewEmployeeID() EmployeeID {
	return EmployeeID(uuid.New())
}

// NewOverrideID generates a fresh override identifier.
func NewOverrideID() OverrideID {
	return OverrideID(uuid.New())
}
