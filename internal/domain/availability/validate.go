package availability

import "github.com/google/uuid"

// Validate checks the template's own fields, before any overlap check.
func (a *Availability) Validate() error {
	if a.DoctorID == uuid.Nil {
		return ErrDoctorRequired
	}
	if a.Weekday < 0 || a.Weekday > 6 {
		return ErrInvalidWeekday
	}
	if a.StartMinute < 0 || a.EndMinute > MinutesPerDay || a.StartMinute >= a.EndMinute {
		return ErrInvalidTimeRange
	}
	return nil
}

// CheckOverlap rejects the candidate when it overlaps any existing window
// for the same doctor and weekday. Intervals are half-open, so windows
// that merely touch (one's end equals the other's start) are allowed.
// An existing entry with the candidate's ID is skipped, which lets
// updates overlap their own stored row.
func CheckOverlap(candidate *Availability, existing []*Availability) error {
	for _, e := range existing {
		if e.ID == candidate.ID {
			continue
		}
		if e.Weekday != candidate.Weekday {
			continue
		}
		if overlaps(candidate.StartMinute, candidate.EndMinute, e.StartMinute, e.EndMinute) {
			return ErrOverlap
		}
	}
	return nil
}

func overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
