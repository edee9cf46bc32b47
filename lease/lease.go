/*
Package lease holds the per-lease aggregate that owns a payment schedule.

PURPOSE:
  A Lease is created once from validated rent terms, generates its schedule
  immediately, and is then mutated for the lifetime of the lease record by
  rent changes and payment method changes. The aggregate tracks two small
  state flags the renderer depends on:

    - adjusted: sticky, set by the first rent change, never reverts
    - method:   the payment method currently in effect (none clears it)

  Every mutation is recorded as an append-only Event (events.go) so a lease
  can be rebuilt deterministically from its terms plus its event history.
  Schedules themselves are never persisted; stores hold terms and events
  and replay on load.

CONCURRENCY:
  A Lease is owned by a single caller at a time. Stores are safe for
  concurrent use across leases, but mutations to one lease must be
  serialized by the caller.

SEE ALSO:
  - schedule: generation, mutation and rendering of the owned schedule
  - lease/store: in-memory Store
  - store/sqlite: SQLite Store
*/
package lease

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/warp/rent-engine/schedule"
)

// RentTerms are the validated inputs a lease is created from.
type RentTerms struct {
	Amount    decimal.Decimal
	Frequency schedule.Frequency
	StartDate schedule.Date
	EndDate   schedule.Date
	Method    schedule.PaymentMethod
}

// RentChange reprices the schedule from its effective date onward.
// Applied transiently; only the resulting event is kept.
type RentChange struct {
	Amount        decimal.Decimal
	EffectiveDate schedule.Date
}

// Lease owns a schedule and its mutation state.
type Lease struct {
	ID        string
	Terms     RentTerms
	CreatedAt time.Time

	sched    *schedule.Schedule
	method   schedule.PaymentMethod
	adjusted bool
	events   []Event
}

// Build creates a lease from validated terms and generates its schedule.
// The base due-date sequence is fixed here and never re-expanded.
func Build(terms RentTerms) *Lease {
	if terms.Method == "" {
		terms.Method = schedule.MethodNone
	}
	return &Lease{
		ID:        uuid.NewString(),
		Terms:     terms,
		CreatedAt: time.Now().UTC(),
		sched:     schedule.Generate(terms.Amount, terms.Frequency, terms.StartDate, terms.EndDate, terms.Method),
		method:    terms.Method,
	}
}

// PaymentDates renders the current schedule without mutating it.
func (l *Lease) PaymentDates() []schedule.Record {
	return l.sched.Render(l.method, l.adjusted)
}

// AdjustRent applies a rent change and returns the rendered schedule.
// The adjusted flag is sticky: once any change has been applied the
// rendered records carry amounts forever after.
func (l *Lease) AdjustRent(change RentChange) []schedule.Record {
	l.sched.ApplyRentChange(change.Amount, change.EffectiveDate)
	l.adjusted = true
	l.record(Event{
		Type:          EventRentChange,
		Amount:        change.Amount,
		EffectiveDate: change.EffectiveDate,
	})
	return l.PaymentDates()
}

// SetPaymentMethod applies a payment method across the whole schedule and
// returns the rendered schedule. Setting method none reverts every payment
// date to its base due date and drops method/amount from the rendered
// records again unless a rent change has happened.
func (l *Lease) SetPaymentMethod(method schedule.PaymentMethod) []schedule.Record {
	l.sched.ApplyPaymentMethod(method)
	l.method = method
	l.record(Event{
		Type:   EventMethodChange,
		Method: method,
	})
	return l.PaymentDates()
}

// Adjusted reports whether any rent change has ever been applied.
func (l *Lease) Adjusted() bool { return l.adjusted }

// Method returns the payment method currently in effect.
func (l *Lease) Method() schedule.PaymentMethod { return l.method }

// Schedule exposes the owned schedule, chiefly for tests and rendering
// diagnostics. Callers must not mutate it directly.
func (l *Lease) Schedule() *schedule.Schedule { return l.sched }

func (l *Lease) record(ev Event) {
	ev.LeaseID = l.ID
	ev.Seq = len(l.events) + 1
	ev.CreatedAt = time.Now().UTC()
	l.events = append(l.events, ev)
}

// Events returns the mutation history in application order.
func (l *Lease) Events() []Event {
	events := make([]Event, len(l.events))
	copy(events, l.events)
	return events
}
