/*
Package factory is the validation boundary in front of the schedule engine.

PURPOSE:
  Parses raw, untyped field maps (typically decoded JSON bodies) into the
  typed inputs the engine trusts: lease.RentTerms, lease.RentChange and
  schedule.PaymentMethod. Every user-facing error originates here, once,
  before the engine runs; the engine itself never re-validates.

ERROR TAXONOMY:
  ErrMissingField          required key absent
  ErrInvalidAmount         amount not numeric
  ErrInvalidFrequency      frequency not a recognized enum value
  ErrInvalidPaymentMethod  payment method not a recognized enum value
  schedule.ErrInvalidDateFormat    date string fails YYYY-MM-DD
  schedule.ErrInvalidCalendarDate  pattern matched, date does not exist

  The last two stay observably distinct. All are sentinels for errors.Is;
  InputError wraps them with the offending field name.

USAGE:
  terms, err := factory.ParseRentTerms(fields)
  if errors.Is(err, factory.ErrInvalidFrequency) { ... }
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/warp/rent-engine/lease"
	"github.com/warp/rent-engine/schedule"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	ErrMissingField         = errors.New("missing required field")
	ErrInvalidAmount        = errors.New("amount should be numerical")
	ErrInvalidFrequency     = errors.New("frequency is invalid")
	ErrInvalidPaymentMethod = errors.New("payment method is invalid")
)

// InputError wraps a sentinel with the field it occurred on.
type InputError struct {
	Field string
	Err   error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

func fieldErr(field string, err error) error {
	return &InputError{Field: field, Err: err}
}

// =============================================================================
// PARSERS
// =============================================================================

// ParseRentTerms validates and types a raw rent input.
// Required: amount, frequency, start_date, end_date.
// Optional: payment_method (defaults to none).
//
// start_date >= end_date is NOT rejected here: an empty schedule is valid
// engine output, so an inverted range is a degenerate input, not an error.
func ParseRentTerms(fields map[string]any) (lease.RentTerms, error) {
	var terms lease.RentTerms

	for _, f := range []string{"amount", "frequency", "start_date", "end_date"} {
		if _, ok := fields[f]; !ok {
			return terms, fieldErr(f, ErrMissingField)
		}
	}

	amount, err := parseAmount("amount", fields["amount"])
	if err != nil {
		return terms, err
	}

	frequency, err := parseFrequency(fields["frequency"])
	if err != nil {
		return terms, err
	}

	start, err := parseDateField("start_date", fields["start_date"])
	if err != nil {
		return terms, err
	}
	end, err := parseDateField("end_date", fields["end_date"])
	if err != nil {
		return terms, err
	}

	method := schedule.MethodNone
	if raw, ok := fields["payment_method"]; ok {
		method, err = parseMethod("payment_method", raw)
		if err != nil {
			return terms, err
		}
	}

	return lease.RentTerms{
		Amount:    amount,
		Frequency: frequency,
		StartDate: start,
		EndDate:   end,
		Method:    method,
	}, nil
}

// ParseRentChange validates and types a raw rent change.
// Required: amount, effective_date.
func ParseRentChange(fields map[string]any) (lease.RentChange, error) {
	var change lease.RentChange

	for _, f := range []string{"amount", "effective_date"} {
		if _, ok := fields[f]; !ok {
			return change, fieldErr(f, ErrMissingField)
		}
	}

	amount, err := parseAmount("amount", fields["amount"])
	if err != nil {
		return change, err
	}
	effective, err := parseDateField("effective_date", fields["effective_date"])
	if err != nil {
		return change, err
	}

	return lease.RentChange{Amount: amount, EffectiveDate: effective}, nil
}

// ParsePaymentMethod validates a raw payment method value.
func ParsePaymentMethod(raw string) (schedule.PaymentMethod, error) {
	return parseMethod("payment_method", raw)
}

// =============================================================================
// FIELD HELPERS
// =============================================================================

func parseAmount(field string, raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, fieldErr(field, ErrInvalidAmount)
		}
		return d, nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Zero, fieldErr(field, ErrInvalidAmount)
	}
}

func parseFrequency(raw any) (schedule.Frequency, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fieldErr("frequency", ErrInvalidFrequency)
	}
	f := schedule.Frequency(s)
	if !f.Known() {
		return "", fieldErr("frequency", ErrInvalidFrequency)
	}
	return f, nil
}

func parseMethod(field string, raw any) (schedule.PaymentMethod, error) {
	s, ok := raw.(string)
	if !ok {
		return "", fieldErr(field, ErrInvalidPaymentMethod)
	}
	m := schedule.PaymentMethod(s)
	if !m.Known() {
		return "", fieldErr(field, ErrInvalidPaymentMethod)
	}
	return m, nil
}

func parseDateField(field string, raw any) (schedule.Date, error) {
	s, ok := raw.(string)
	if !ok {
		return schedule.Date{}, fieldErr(field, schedule.ErrInvalidDateFormat)
	}
	d, err := schedule.ParseDate(s)
	if err != nil {
		return schedule.Date{}, fieldErr(field, err)
	}
	return d, nil
}
