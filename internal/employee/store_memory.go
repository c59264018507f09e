package employee

import (
	"context"
	"sort"
	"sync"

	id "rostra/pkg/domain"
)

// InMemoryStore holds employee records for tests and Postgres-less deployments.
type InMemoryStore struct {
	mu        sync.RWMutex
	employees map[id.EmployeeID]*Employee
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		employees: make(map[id.EmployeeID]*Employee),
	}
}

func (s *InMemoryStore) Get(_ context.Context, employeeID id.EmployeeID) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.employees[employeeID]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Employee
	for _, e := range s.employees {
		if e.TenantID == tenantID {
			copied := *e
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastName < out[j].LastName
	})
	return out, nil
}

func (s *InMemoryStore) Put(_ context.Context, e *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *e
	s.employees[e.ID] = &copied
	return nil
}
