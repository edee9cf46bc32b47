package lease

import (
	"context"
	"errors"
)

// =============================================================================
// STORE - Persistence interface for leases and their mutation history
// =============================================================================

// ErrLeaseNotFound is returned when a referenced lease doesn't exist.
var ErrLeaseNotFound = errors.New("lease not found")

// Store persists lease terms and events. Schedules are never stored:
// GetLease regenerates the schedule from terms and replays the event
// history, so the store only ever sees immutable inputs.
//
// Events are APPEND-ONLY. No update, no delete; a lease's history only
// grows, and sequence numbers are assigned by the store in append order.
type Store interface {
	// SaveLease persists a freshly built lease's identity and terms.
	SaveLease(ctx context.Context, l *Lease) error

	// GetLease loads a lease, replaying its event history.
	// Returns ErrLeaseNotFound if the id is unknown.
	GetLease(ctx context.Context, id string) (*Lease, error)

	// ListLeases returns all leases, each fully replayed.
	ListLeases(ctx context.Context) ([]*Lease, error)

	// AppendEvent persists one mutation. The store assigns Seq.
	AppendEvent(ctx context.Context, ev Event) error

	// LoadEvents returns a lease's events in sequence order.
	LoadEvents(ctx context.Context, leaseID string) ([]Event, error)
}
