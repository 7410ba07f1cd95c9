// Package civildate parses and formats the fixed-width DDMMYYYY dates used on
// the wire. Parsing is strict: a value that does not name a real calendar day
// is rejected instead of being rolled over into the next month.
package civildate

import (
	"errors"
	"fmt"
	"time"
)

// Width is the exact length of a DDMMYYYY value.
const Width = 8

// ErrMalformed is returned for any value that is not a valid DDMMYYYY date.
var ErrMalformed = errors.New("malformed date")

// ParseDDMMYYYY returns the date at midnight UTC.
func ParseDDMMYYYY(value string) (time.Time, error) {
	if len(value) != Width {
		return time.Time{}, fmt.Errorf("%w: expected %d digits, got %q", ErrMalformed, Width, value)
	}
	for i := 0; i < Width; i++ {
		if value[i] < '0' || value[i] > '9' {
			return time.Time{}, fmt.Errorf("%w: non-digit in %q", ErrMalformed, value)
		}
	}

	day := atoi(value[0:2])
	month := atoi(value[2:4])
	year := atoi(value[4:8])
	if year < 1 || month < 1 || month > 12 || day < 1 {
		return time.Time{}, fmt.Errorf("%w: %q is out of range", ErrMalformed, value)
	}

	// time.Date normalizes overflow (31 April -> 1 May); a round-trip mismatch
	// means the day does not exist in that month.
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar day", ErrMalformed, value)
	}
	return t, nil
}

// FormatDDMMYYYY is the inverse of ParseDDMMYYYY.
func FormatDDMMYYYY(t time.Time) string {
	return fmt.Sprintf("%02d%02d%04d", t.Day(), int(t.Month()), t.Year())
}

// FormatISO renders the calendar day as YYYY-MM-DD for response bodies.
func FormatISO(t time.Time) string {
	return t.Format(time.DateOnly)
}

func atoi(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = n*10 + int(digits[i]-'0')
	}
	return n
}
