package override

import (
	"context"
	"sort"
	"sync"
	"time"

	"rostra/internal/compliance"
	id "rostra/pkg/domain"
)

// InMemoryStore holds override grants. Used in tests and in deployments
// without Postgres configured.
type InMemoryStore struct {
	mu        sync.RWMutex
	overrides map[id.OverrideID]compliance.Override
}

func New() *InMemoryStore {
	return &InMemoryStore{
		overrides: make(map[id.OverrideID]compliance.Override),
	}
}

// Put stores or replaces an override grant.
func (s *InMemoryStore) Put(_ context.Context, o compliance.Override) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[o.ID] = o
	return nil
}

// Get returns the override and whether it exists.
func (s *InMemoryStore) Get(_ context.Context, overrideID id.OverrideID) (compliance.Override, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[overrideID]
	return o, ok
}

func (s *InMemoryStore) LapseExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lapsed := 0
	for overrideID, o := range s.overrides {
		if o.IsActive && !o.ExpiresAt.After(now) {
			o.IsActive = false
			s.overrides[overrideID] = o
			lapsed++
		}
	}
	return lapsed, nil
}

func (s *InMemoryStore) ActiveForEmployee(_ context.Context, employeeID id.EmployeeID, now time.Time) ([]compliance.Override, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []compliance.Override
	for _, o := range s.overrides {
		if o.EmployeeID == employeeID && o.IsActive && o.ExpiresAt.After(now) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
