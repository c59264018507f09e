// Package memory provides an in-memory audit publisher for tests and
// single-process deployments without a broker.
package memory

import (
	"context"
	"sync"

	"rostra/pkg/platform/audit"
)

// Publisher records emitted events in memory.
type Publisher struct {
	mu     sync.Mutex
	events []audit.Event
}

func New() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Emit(_ context.Context, event audit.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

// Events returns a copy of all emitted events.
func (p *Publisher) Events() []audit.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]audit.Event, len(p.events))
	copy(out, p.events)
	return out
}

// Reset clears recorded events. Use between tests to ensure isolation.
func (p *Publisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}
