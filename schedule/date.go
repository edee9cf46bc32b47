package schedule

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE - Civil calendar date (timezone-free)
// =============================================================================

// Date is a civil calendar date. No timezone, no clock component: rent is
// due on a calendar day, not at an instant.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }
func (d Date) Time() time.Time   { return d.t }

func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// AddMonths advances the calendar month, clamping the day to the last valid
// day of the resulting month. Jan 31 + 1 month is Feb 29 in a leap year and
// Feb 28 otherwise, never Mar 2/3. Note this differs from time.AddDate,
// which normalizes the overflow forward.
func (d Date) AddMonths(n int) Date {
	year, month, day := d.t.Date()
	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	if last := daysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}
	return NewDate(first.Year(), first.Month(), day)
}

// daysInMonth returns the number of days in the given month.
// Day 0 of the next month is the last day of this one.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.t.Format("2006-01-02")
}

// =============================================================================
// PARSING - Strict YYYY-MM-DD
// =============================================================================

var (
	// ErrInvalidDateFormat means the string does not match YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("date must follow YYYY-MM-DD")

	// ErrInvalidCalendarDate means the string matched the pattern but names
	// a day that does not exist (e.g. 2024-02-40). Kept distinct from
	// ErrInvalidDateFormat: the two failures surface different messages.
	ErrInvalidCalendarDate = errors.New("date does not exist on the calendar")
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)

// ParseDate parses a YYYY-MM-DD string into a Date. The pattern check and
// the calendar check fail separately so callers can tell a malformed string
// from an impossible date.
func ParseDate(s string) (Date, error) {
	if !datePattern.MatchString(s) {
		return Date{}, fmt.Errorf("%q: %w", s, ErrInvalidDateFormat)
	}

	parts := strings.SplitN(s, "-", 3)
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])

	if month < 1 || month > 12 || day < 1 || day > daysInMonth(year, time.Month(month)) {
		return Date{}, fmt.Errorf("%q: %w", s, ErrInvalidCalendarDate)
	}
	return NewDate(year, time.Month(month), day), nil
}
