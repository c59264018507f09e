package certification

import (
	"context"
	"strings"
	"sync"

	"rostra/internal/compliance"
	id "rostra/pkg/domain"
)

// InMemoryStore holds certification records keyed by employee. Used in tests
// and in deployments without Postgres configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.EmployeeID][]compliance.CertificationRecord
}

func New() *InMemoryStore {
	return &InMemoryStore{
		records: make(map[id.EmployeeID][]compliance.CertificationRecord),
	}
}

func (s *InMemoryStore) ListByEmployee(_ context.Context, employeeID id.EmployeeID) ([]compliance.CertificationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.records[employeeID]
	out := make([]compliance.CertificationRecord, len(records))
	copy(out, records)
	return out, nil
}

// Put replaces the record for the employee's certification type, mirroring
// the document-review workflow that owns writes in production.
func (s *InMemoryStore) Put(_ context.Context, record compliance.CertificationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.records[record.EmployeeID]
	for i, existing := range records {
		if strings.EqualFold(existing.Type, record.Type) {
			records[i] = record
			return nil
		}
	}
	s.records[record.EmployeeID] = append(records, record)
	return nil
}
