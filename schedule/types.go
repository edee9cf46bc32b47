/*
Package schedule implements the rent payment schedule engine.

PURPOSE:
  Expands a lease's (start date, end date, frequency) tuple into an ordered
  set of contractual due dates, and keeps the resulting schedule consistent
  as rent amounts change mid-lease and payment methods are applied on top.

KEY CONCEPTS:
  - Date: a civil calendar date (date.go)
  - Frequency: how often rent falls due, as a (months, days) step
  - PaymentMethod: how rent is paid; each method carries a lead offset in
    days before the due date
  - Schedule/Entry: the ordered due-date arena (schedule.go)
  - Generate: expansion of terms into a Schedule (generator.go)
  - ApplyRentChange/ApplyPaymentMethod: in-place mutation (mutator.go)
  - Render: presentation records (render.go)

DESIGN PRINCIPLES:
  1. The base due-date sequence is fixed at generation and never re-expanded.
  2. Mutations rewrite entries in place, preserving insertion order.
  3. Precision: decimal.Decimal for amounts, never float.
  4. Inputs are pre-validated upstream; an unknown enum value reaching this
     package is a broken caller contract and panics (errors.go).

SEE ALSO:
  - lease: the aggregate that owns a Schedule and its mutation history
  - factory: the validation boundary producing typed inputs
*/
package schedule

import "github.com/shopspring/decimal"

// =============================================================================
// FREQUENCY - How often rent falls due
// =============================================================================

type Frequency string

const (
	Monthly     Frequency = "monthly"
	Fortnightly Frequency = "fortnightly"
	Weekly      Frequency = "weekly"
)

// Step is the calendar increment between successive due dates.
// Exactly one of the two components is non-zero per frequency.
type Step struct {
	Months int
	Days   int
}

var frequencySteps = map[Frequency]Step{
	Monthly:     {Months: 1},
	Fortnightly: {Days: 14},
	Weekly:      {Days: 7},
}

// Step returns the calendar increment for the frequency.
// Panics on an unknown frequency: see errors.go.
func (f Frequency) Step() Step {
	step, ok := frequencySteps[f]
	if !ok {
		panic(&UnknownEnumError{Kind: "frequency", Value: string(f)})
	}
	return step
}

// Known reports whether f is a recognized frequency.
func (f Frequency) Known() bool {
	_, ok := frequencySteps[f]
	return ok
}

// =============================================================================
// PAYMENT METHOD - How rent is paid, with its lead offset
// =============================================================================

type PaymentMethod string

const (
	MethodCreditCard   PaymentMethod = "credit_card"
	MethodBankTransfer PaymentMethod = "bank_transfer"
	MethodInstant      PaymentMethod = "instant"
	MethodNone         PaymentMethod = "none"
)

// methodOffsets maps each method to the number of days before the due date
// that the payment must actually be sent.
var methodOffsets = map[PaymentMethod]int{
	MethodCreditCard:   2,
	MethodBankTransfer: 3,
	MethodInstant:      0,
	MethodNone:         0,
}

// OffsetDays returns the method's lead offset in days.
// Panics on an unknown method: see errors.go.
func (m PaymentMethod) OffsetDays() int {
	offset, ok := methodOffsets[m]
	if !ok {
		panic(&UnknownEnumError{Kind: "payment method", Value: string(m)})
	}
	return offset
}

// Known reports whether m is a recognized payment method.
func (m PaymentMethod) Known() bool {
	_, ok := methodOffsets[m]
	return ok
}

// =============================================================================
// AMOUNT HELPERS
// =============================================================================

// MustParseAmount parses a decimal string, returning zero on failure.
// Test and fixture convenience only.
func MustParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
