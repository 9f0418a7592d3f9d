package util

import (
	"errors"
	"strings"
	"time"
)

// ParseDateRange turns optional start/end strings into query bounds.
// Accepts RFC3339 timestamps or bare YYYY-MM-DD dates; a date-only end is
// made inclusive by returning the start of the following day as the
// exclusive upper bound. Reversed bounds are swapped.
func ParseDateRange(startStr, endStr *string) (start time.Time, hasStart bool, endExclusive time.Time, hasEnd bool, err error) {
	type bound struct {
		t        time.Time
		ok       bool
		dateOnly bool
	}

	parse := func(raw *string) (bound, error) {
		if raw == nil {
			return bound{}, nil
		}
		s := strings.TrimSpace(*raw)
		if s == "" {
			return bound{}, nil
		}
		if t, e := time.Parse(time.RFC3339, s); e == nil {
			return bound{t: t, ok: true}, nil
		}
		if t, e := time.Parse("2006-01-02", s); e == nil {
			return bound{t: t, ok: true, dateOnly: true}, nil
		}
		return bound{}, errors.New("invalid date format (use YYYY-MM-DD or RFC3339)")
	}

	lo, err := parse(startStr)
	if err != nil {
		return time.Time{}, false, time.Time{}, false, err
	}
	hi, err := parse(endStr)
	if err != nil {
		return time.Time{}, false, time.Time{}, false, err
	}

	if lo.ok && hi.ok && hi.t.Before(lo.t) {
		lo.t, hi.t = hi.t, lo.t
	}

	if lo.ok {
		start = lo.t
		hasStart = true
	}
	if hi.ok {
		endExclusive = hi.t
		if hi.dateOnly {
			endExclusive = hi.t.AddDate(0, 0, 1)
		}
		hasEnd = true
	}

	return start, hasStart, endExclusive, hasEnd, nil
}
