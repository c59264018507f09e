// Package employee provides the directory lookup used by rostering callers to
// resolve employee details alongside compliance verdicts. Record authoring
// lives in the HR admin service; this module is read-mostly.
package employee

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	id "rostra/pkg/domain"
	dErrors "rostra/pkg/domain-errors"
)

// EmploymentStatus is the directory lifecycle state of an employee.
type EmploymentStatus string

const (
	StatusActive     EmploymentStatus = "active"
	StatusInactive   EmploymentStatus = "inactive"
	StatusTerminated EmploymentStatus = "terminated"
)

// Employee is one directory record.
type Employee struct {
	ID        id.EmployeeID
	TenantID  id.TenantID
	FirstName string
	LastName  string
	Email     string
	Role      string
	Status    EmploymentStatus
	CreatedAt time.Time
}

// Store abstracts employee persistence.
type Store interface {
	Get(ctx context.Context, employeeID id.EmployeeID) (*Employee, error)
	ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*Employee, error)
	Put(ctx context.Context, e *Employee) error
}

// Service exposes directory lookups with the shared error contract.
type Service struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(store Store, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("employee store is required")
	}

	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Get returns one employee or a not-found error.
func (s *Service) Get(ctx context.Context, employeeID id.EmployeeID) (*Employee, error) {
	if employeeID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "employeeId is required")
	}

	e, err := s.store.Get(ctx, employeeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to get employee")
	}
	if e == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
	}
	return e, nil
}

// ListByTenant returns all employees belonging to a tenant.
func (s *Service) ListByTenant(ctx context.Context, tenantID id.TenantID) ([]*Employee, error) {
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenantId is required")
	}

	employees, err := s.store.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list employees")
	}
	return employees, nil
}
