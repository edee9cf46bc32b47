package schedule

import "github.com/shopspring/decimal"

// =============================================================================
// SCHEDULE - Ordered due-date arena
// =============================================================================

// Entry is one payment record, keyed by its base due date. The base due
// date is the contractual date rent is owed and is immutable once the
// schedule is generated; amount, method and the derived payment date are
// rewritten in place by mutations.
type Entry struct {
	BaseDueDate Date

	// PaymentDate is the actual payment date: BaseDueDate minus the
	// current method's lead offset.
	PaymentDate Date

	Amount decimal.Decimal
	Method PaymentMethod
}

// Schedule is an ordered collection of entries. Iteration order is the
// ascending base-due-date order fixed at generation time; mutations never
// re-sort or re-expand the key sequence.
type Schedule struct {
	keys    []Date
	entries map[Date]*Entry
}

func newSchedule() *Schedule {
	return &Schedule{entries: make(map[Date]*Entry)}
}

func (s *Schedule) add(e *Entry) {
	s.keys = append(s.keys, e.BaseDueDate)
	s.entries[e.BaseDueDate] = e
}

// Len returns the number of entries.
func (s *Schedule) Len() int { return len(s.keys) }

// Dates returns the base due dates in schedule order.
func (s *Schedule) Dates() []Date {
	dates := make([]Date, len(s.keys))
	copy(dates, s.keys)
	return dates
}

// Entry returns the entry for a base due date.
func (s *Schedule) Entry(baseDueDate Date) (*Entry, bool) {
	e, ok := s.entries[baseDueDate]
	return e, ok
}

// Each calls fn for every entry in schedule order.
func (s *Schedule) Each(fn func(*Entry)) {
	for _, k := range s.keys {
		fn(s.entries[k])
	}
}
