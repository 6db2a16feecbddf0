// Package utils provides utility functions for the application.
package utils

import (
	"time"
)

// UTCNow returns the current time in UTC
func UTCNow() time.Time {
	return time.Now().UTC()
}

// FormatDate renders a date in the wire format, mapping nil to the
// "no date" sentinel legacy clients expect.
func FormatDate(t *time.Time) string {
	if t == nil {
		return NoDateSentinel
	}
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a wire-format date. The sentinel value and the empty
// string both mean "unset" and yield a nil time without error.
func ParseDate(s string) (*time.Time, error) {
	if s == "" || s == NoDateSentinel {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	utc := t.UTC()
	return &utc, nil
}

// BogotaNow returns the current time in the America/Bogota zone, which is
// the business timezone for application dates. Bogota has no DST, so a
// fixed offset is a safe fallback when tzdata is unavailable.
func BogotaNow() time.Time {
	loc, err := time.LoadLocation("America/Bogota")
	if err != nil {
		loc = time.FixedZone("-05", -5*60*60)
	}
	return time.Now().In(loc)
}
