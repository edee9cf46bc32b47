package lease

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/rent-engine/schedule"
)

// =============================================================================
// EVENTS - Append-only mutation history
// =============================================================================

// EventType identifies a schedule mutation.
type EventType string

const (
	EventRentChange   EventType = "rent_change"
	EventMethodChange EventType = "method_change"
)

// Event is one recorded mutation. Events are append-only: corrections are
// made by appending further events, never by editing history. Amount and
// EffectiveDate are set for rent changes, Method for method changes.
type Event struct {
	LeaseID       string
	Seq           int
	Type          EventType
	Amount        decimal.Decimal
	EffectiveDate schedule.Date
	Method        schedule.PaymentMethod
	CreatedAt     time.Time
}

// Replay rebuilds a lease from its terms and mutation history. The schedule
// is regenerated from terms and every event is re-applied in sequence
// order, which preserves the last-write-wins-by-call-order semantics of
// rent changes: a reloaded lease renders exactly what the live one did.
func Replay(id string, terms RentTerms, createdAt time.Time, events []Event) *Lease {
	if terms.Method == "" {
		terms.Method = schedule.MethodNone
	}
	l := &Lease{
		ID:        id,
		Terms:     terms,
		CreatedAt: createdAt,
		sched:     schedule.Generate(terms.Amount, terms.Frequency, terms.StartDate, terms.EndDate, terms.Method),
		method:    terms.Method,
	}
	for _, ev := range events {
		l.apply(ev)
	}
	return l
}

// apply re-applies a historical event without recording it again.
func (l *Lease) apply(ev Event) {
	switch ev.Type {
	case EventRentChange:
		l.sched.ApplyRentChange(ev.Amount, ev.EffectiveDate)
		l.adjusted = true
	case EventMethodChange:
		l.sched.ApplyPaymentMethod(ev.Method)
		l.method = ev.Method
	}
	l.events = append(l.events, ev)
}
