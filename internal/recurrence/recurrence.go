// Package recurrence computes the generation dates of recurring charges.
package recurrence

import (
	"fmt"
	"time"
)

// Periodicity is the interval at which a recurring charge is generated.
type Periodicity string

const (
	Monthly   Periodicity = "monthly"
	Bimonthly Periodicity = "bimonthly"
	Quarterly Periodicity = "quarterly"
)

// Parse validates a periodicity label.
func Parse(s string) (Periodicity, error) {
	switch Periodicity(s) {
	case Monthly, Bimonthly, Quarterly:
		return Periodicity(s), nil
	}

	return "", fmt.Errorf("unknown periodicity: %q", s)
}

// Months returns the number of months between occurrences.
func (p Periodicity) Months() int {
	switch p {
	case Bimonthly:
		return 2
	case Quarterly:
		return 3
	default:
		return 1
	}
}

// NextOccurrence returns the first generation date strictly after now.
//
// The candidate is built in now's month at generationDay, clamped to the
// last valid day of that month. If the candidate has already passed, the
// schedule advances by the periodicity's month count counted from now's
// month, not from the clamped candidate, so a clamped day never drifts
// the schedule into a different month.
//
// generationDay is assumed to be in 1..31; validation belongs to the
// definition save path.
func NextOccurrence(p Periodicity, generationDay int, now time.Time) time.Time {
	candidate := occurrence(now.Year(), now.Month(), generationDay, now.Location())
	if candidate.After(now) {
		return candidate
	}

	return occurrence(now.Year(), now.Month()+time.Month(p.Months()), generationDay, now.Location())
}

// occurrence builds a date at day in the given month, clamping day to the
// month's length. Month overflow (e.g. December+2) is normalized by
// time.Date, which rolls the year forward.
func occurrence(year int, month time.Month, day int, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	if last := first.AddDate(0, 1, -1).Day(); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, loc)
}
