package schedule

// =============================================================================
// RENDERING - Presentation records
// =============================================================================

// Record is one rendered schedule entry. Amount and Method are optional:
// the never-adjusted, method-less schedule renders minimal
// {payment_date}-only records, and either field appears only once pricing
// or timing has been customized (see Render).
type Record struct {
	PaymentDate string   `json:"payment_date"`
	Amount      *float64 `json:"amount,omitempty"`
	Method      string   `json:"method,omitempty"`
}

// Render produces one record per entry, in schedule order. Rendering reads
// but never writes the schedule, so re-rendering without an intervening
// mutation yields identical output.
//
// Inclusion rules:
//   - payment_date: always
//   - amount: iff a rent change has ever been applied (adjusted), or the
//     method in effect is not none
//   - method: iff the method in effect is not none
//
// The amount rule deliberately keys off the sticky adjusted flag rather
// than the method flag. The coupling looks accidental but is observable
// behavior; consumers should not rely on amount being absent.
func (s *Schedule) Render(methodInEffect PaymentMethod, adjusted bool) []Record {
	hasMethod := methodInEffect != MethodNone

	records := make([]Record, 0, s.Len())
	s.Each(func(e *Entry) {
		r := Record{PaymentDate: e.PaymentDate.String()}
		if adjusted || hasMethod {
			v, _ := e.Amount.Float64()
			r.Amount = &v
		}
		if hasMethod {
			r.Method = string(e.Method)
		}
		records = append(records, r)
	})
	return records
}
