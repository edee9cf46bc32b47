package schedule

import "github.com/shopspring/decimal"

// maxEntries bounds schedule expansion. Roughly 190 years of weekly rent;
// far above any real lease, it only stops pathological start/end inputs
// from exhausting memory. Not part of the rendered contract.
const maxEntries = 10000

// Generate expands lease terms into a Schedule.
//
// Due dates are candidate(i) = start +(i months-step, clamped) + i*days-step
// for i = 0, 1, 2, ... and emission stops strictly before end: the first
// candidate >= end is not emitted. A start on or after end yields an empty
// schedule, which is valid output.
//
// Inputs are pre-validated; an unknown frequency or method panics with
// UnknownEnumError.
func Generate(amount decimal.Decimal, frequency Frequency, start, end Date, method PaymentMethod) *Schedule {
	step := frequency.Step()
	offset := method.OffsetDays()

	s := newSchedule()
	for i := 0; i < maxEntries; i++ {
		candidate := start.AddMonths(i * step.Months).AddDays(i * step.Days)
		if candidate.AfterOrEqual(end) {
			break
		}
		s.add(&Entry{
			BaseDueDate: candidate,
			PaymentDate: candidate.AddDays(-offset),
			Amount:      amount,
			Method:      method,
		})
	}
	return s
}
