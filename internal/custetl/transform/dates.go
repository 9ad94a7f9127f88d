package transform

import (
	"fmt"
	"time"
)

const (
	layoutYMD = "20060102" // open_date, last_consulted_date
	layoutDMY = "02012006" // dob
)

// ParseYMD parses an 8-digit YYYYMMDD value.
func ParseYMD(s string) (*time.Time, error) {
	return parseDigits(s, layoutYMD)
}

// ParseDMY parses an 8-digit DDMMYYYY value.
func ParseDMY(s string) (*time.Time, error) {
	return parseDigits(s, layoutDMY)
}

func parseDigits(s, layout string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if len(s) != 8 {
		return nil, fmt.Errorf("want 8 digits, got %d characters", len(s))
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, fmt.Errorf("non-digit %q at position %d", s[i], i)
		}
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const secondsPerDay = 24 * 60 * 60

// civil truncates t to its calendar date in t's own location, returned at
// midnight UTC so day arithmetic is free of DST shifts.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Age returns completed years between dob and today. Nil dob gives nil.
func Age(dob *time.Time, today time.Time) *int {
	if dob == nil {
		return nil
	}
	ty, tm, td := today.Date()
	by, bm, bd := dob.Date()

	age := ty - by
	if tm < bm || (tm == bm && td < bd) {
		age--
	}
	return &age
}

// DaysSince returns whole calendar days from date to today (negative for
// future dates). Nil date gives nil.
func DaysSince(date *time.Time, today time.Time) *int {
	if date == nil {
		return nil
	}
	// Unix seconds rather than Sub: a Duration saturates after ~292 years.
	days := int((civil(today).Unix() - civil(*date).Unix()) / secondsPerDay)
	return &days
}
