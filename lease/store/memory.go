// Package store provides an in-memory lease.Store for tests and dev.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/rent-engine/lease"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	leases map[string]leaseRecord
	events map[string][]lease.Event
}

type leaseRecord struct {
	id        string
	terms     lease.RentTerms
	createdAt time.Time
}

func NewMemory() *Memory {
	return &Memory{
		leases: make(map[string]leaseRecord),
		events: make(map[string][]lease.Event),
	}
}

func (m *Memory) SaveLease(_ context.Context, l *lease.Lease) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leases[l.ID] = leaseRecord{id: l.ID, terms: l.Terms, createdAt: l.CreatedAt}
	return nil
}

func (m *Memory) GetLease(_ context.Context, id string) (*lease.Lease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.leases[id]
	if !ok {
		return nil, lease.ErrLeaseNotFound
	}
	return lease.Replay(r.id, r.terms, r.createdAt, m.eventsLocked(id)), nil
}

func (m *Memory) ListLeases(_ context.Context) ([]*lease.Lease, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.leases))
	for id := range m.leases {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	leases := make([]*lease.Lease, 0, len(ids))
	for _, id := range ids {
		r := m.leases[id]
		leases = append(leases, lease.Replay(r.id, r.terms, r.createdAt, m.eventsLocked(id)))
	}
	return leases, nil
}

func (m *Memory) AppendEvent(_ context.Context, ev lease.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.leases[ev.LeaseID]; !ok {
		return lease.ErrLeaseNotFound
	}
	ev.Seq = len(m.events[ev.LeaseID]) + 1
	m.events[ev.LeaseID] = append(m.events[ev.LeaseID], ev)
	return nil
}

func (m *Memory) LoadEvents(_ context.Context, leaseID string) ([]lease.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.eventsLocked(leaseID), nil
}

func (m *Memory) eventsLocked(leaseID string) []lease.Event {
	events := make([]lease.Event, len(m.events[leaseID]))
	copy(events, m.events[leaseID])
	return events
}
