package timeutil

import (
	"fmt"
	"time"
)

// RFC3339Micros is RFC 3339 UTC with fixed microsecond precision.
// Use this format for log timestamps where higher precision is needed.
const RFC3339Micros = "2006-01-02T15:04:05.000000Z"

// DateLayout is the calendar-day format used for attendance dates and birthdays.
const DateLayout = "2006-01-02"

// Date is a calendar day in YYYY-MM-DD form. It is a plain string on the wire
// so it encodes identically in JSON and CBOR.
type Date string

// ParseDate validates s and returns it as a Date. Full RFC 3339 timestamps are
// accepted and truncated to their day, matching what the API returns for
// stored dates.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the current local calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// Time returns midnight UTC of d, or the zero time when d is malformed.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Date) String() string {
	return string(d)
}
