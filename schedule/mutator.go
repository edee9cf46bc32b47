package schedule

import "github.com/shopspring/decimal"

// =============================================================================
// MUTATIONS - In-place rewrites over an existing schedule
// =============================================================================

// ApplyRentChange reprices every entry whose base due date falls on or
// after the effective date. Entries strictly before it, payment dates and
// methods are untouched.
//
// Successive changes compose by call order: each call overwrites entries
// meeting its own effective date, so a later call with an earlier effective
// date wins over an earlier call with a later one. Last write wins; there
// is no merging of effective-date intervals.
func (s *Schedule) ApplyRentChange(amount decimal.Decimal, effectiveDate Date) {
	s.Each(func(e *Entry) {
		if e.BaseDueDate.AfterOrEqual(effectiveDate) {
			e.Amount = amount
		}
	})
}

// ApplyPaymentMethod sets the method on every entry and recomputes its
// payment date from the base due date. Always global and retroactive:
// method changes have no effective-date concept. Amounts are untouched.
func (s *Schedule) ApplyPaymentMethod(method PaymentMethod) {
	offset := method.OffsetDays()
	s.Each(func(e *Entry) {
		e.Method = method
		e.PaymentDate = e.BaseDueDate.AddDays(-offset)
	})
}
