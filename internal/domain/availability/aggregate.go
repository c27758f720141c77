package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Aggregate queries answer capacity questions from the weekly templates
// alone. Bookings are deliberately not consulted: these figures describe
// scheduled working time, not remaining free time.

// TotalAvailableTime sums the doctor's projected windows over [from, to).
// Windows on the boundary days are clipped to the range.
func (s *Service) TotalAvailableTime(ctx context.Context, doctorID uuid.UUID, from, to time.Time) (time.Duration, error) {
	if doctorID == uuid.Nil {
		return 0, ErrDoctorRequired
	}
	if !from.Before(to) {
		return 0, ErrInvalidTimeRange
	}

	templates, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return 0, err
	}

	var total time.Duration
	for _, w := range ProjectRange(templates, from, to) {
		if clipped, ok := ClipWindow(w, from, to); ok {
			total += clipped.Duration()
		}
	}
	return total, nil
}

// IsAvailable reports whether the instant t falls inside any of the
// doctor's windows on that date.
func (s *Service) IsAvailable(ctx context.Context, doctorID uuid.UUID, t time.Time) (bool, error) {
	if doctorID == uuid.Nil {
		return false, ErrDoctorRequired
	}
	templates, err := s.repo.ListByDoctorWeekday(ctx, doctorID, t.Weekday())
	if err != nil {
		return false, err
	}
	for _, w := range ProjectDay(templates, t) {
		if w.Contains(t) {
			return true, nil
		}
	}
	return false, nil
}

// AvailableDoctors returns the active doctors available at `from`, or,
// when `until` is non-nil, those with a window containing the whole
// [from, until) range. Partial coverage does not count: a doctor off
// for any part of the requested range is not available for it.
func (s *Service) AvailableDoctors(ctx context.Context, from time.Time, until *time.Time) ([]uuid.UUID, error) {
	if until != nil && !from.Before(*until) {
		return nil, ErrInvalidTimeRange
	}

	ids, err := s.doctors.ActiveDoctorIDs(ctx)
	if err != nil {
		return nil, err
	}

	var available []uuid.UUID
	for _, id := range ids {
		ok, err := s.doctorMatches(ctx, id, from, until)
		if err != nil {
			return nil, err
		}
		if ok {
			available = append(available, id)
		}
	}
	if available == nil {
		available = []uuid.UUID{}
	}
	return available, nil
}

func (s *Service) doctorMatches(ctx context.Context, doctorID uuid.UUID, from time.Time, until *time.Time) (bool, error) {
	if until == nil {
		return s.IsAvailable(ctx, doctorID, from)
	}
	templates, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return false, err
	}
	for _, w := range ProjectRange(templates, from, *until) {
		if !w.Start.After(from) && !until.After(w.End) {
			return true, nil
		}
	}
	return false, nil
}
