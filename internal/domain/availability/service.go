package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultGranularity   = 30 * time.Minute
	DefaultLookupTimeout = 3 * time.Second
)

type Service struct {
	repo          Repository
	appointments  AppointmentLookup
	doctors       DoctorDirectory
	granularity   time.Duration
	lookupTimeout time.Duration
	now           func() time.Time
}

func NewService(repo Repository, appointments AppointmentLookup, doctors DoctorDirectory) *Service {
	return &Service{
		repo:          repo,
		appointments:  appointments,
		doctors:       doctors,
		granularity:   DefaultGranularity,
		lookupTimeout: DefaultLookupTimeout,
		now:           time.Now,
	}
}

// SetGranularity overrides the default slot size.
func (s *Service) SetGranularity(d time.Duration) error {
	if d <= 0 {
		return ErrInvalidGranularity
	}
	s.granularity = d
	return nil
}

// SetLookupTimeout overrides the budget for the appointment lookup call.
func (s *Service) SetLookupTimeout(d time.Duration) {
	if d > 0 {
		s.lookupTimeout = d
	}
}

// SetClock overrides the time source. Tests use this to pin "now".
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Granularity returns the configured slot size.
func (s *Service) Granularity() time.Duration { return s.granularity }

// -- Availability windows --

// AddAvailability validates the window and stores it. The overlap check
// and the insert run under the doctor's advisory lock so two concurrent
// writers cannot both pass validation against the same snapshot.
func (s *Service) AddAvailability(ctx context.Context, a *Availability) error {
	if err := a.Validate(); err != nil {
		return err
	}
	return s.repo.WithDoctorLock(ctx, a.DoctorID, func(ctx context.Context) error {
		existing, err := s.repo.ListByDoctorWeekday(ctx, a.DoctorID, a.Weekday)
		if err != nil {
			return err
		}
		if err := CheckOverlap(a, existing); err != nil {
			return err
		}
		return s.repo.Create(ctx, a)
	})
}

func (s *Service) GetAvailability(ctx context.Context, id uuid.UUID) (*Availability, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListAvailability(ctx context.Context, doctorID uuid.UUID) ([]*Availability, error) {
	if doctorID == uuid.Nil {
		return nil, ErrDoctorRequired
	}
	return s.repo.ListByDoctor(ctx, doctorID)
}

// UpdateAvailability replaces the window's weekday and time range. The
// stored row itself is excluded from the overlap check, so shrinking or
// shifting a window in place always succeeds.
func (s *Service) UpdateAvailability(ctx context.Context, a *Availability) error {
	current, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	a.DoctorID = current.DoctorID
	if err := a.Validate(); err != nil {
		return err
	}
	return s.repo.WithDoctorLock(ctx, a.DoctorID, func(ctx context.Context) error {
		existing, err := s.repo.ListByDoctorWeekday(ctx, a.DoctorID, a.Weekday)
		if err != nil {
			return err
		}
		if err := CheckOverlap(a, existing); err != nil {
			return err
		}
		return s.repo.Update(ctx, a)
	})
}

func (s *Service) DeleteAvailability(ctx context.Context, id uuid.UUID) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.WithDoctorLock(ctx, current.DoctorID, func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}

// -- Slot generation --

// DaySlots returns the bookable slots for a doctor on the given date:
// the doctor's windows projected onto the date, minus active bookings,
// cut into granularity-sized slots, with past starts dropped.
//
// The appointment lookup is a single call with its own timeout. If it
// fails the whole query fails with ErrUpstreamUnavailable; stale booking
// data must not surface as offered slots.
func (s *Service) DaySlots(ctx context.Context, doctorID uuid.UUID, day time.Time) ([]Slot, error) {
	return s.DaySlotsWith(ctx, doctorID, day, s.granularity)
}

// DaySlotsWith is DaySlots with a caller-chosen slot length, used when a
// request overrides the configured granularity.
func (s *Service) DaySlotsWith(ctx context.Context, doctorID uuid.UUID, day time.Time, granularity time.Duration) ([]Slot, error) {
	if doctorID == uuid.Nil {
		return nil, ErrDoctorRequired
	}
	if granularity <= 0 {
		return nil, ErrInvalidGranularity
	}

	templates, err := s.repo.ListByDoctorWeekday(ctx, doctorID, day.Weekday())
	if err != nil {
		return nil, err
	}
	windows := ProjectDay(templates, day)
	if len(windows) == 0 {
		return []Slot{}, nil
	}

	dayStart := DayStart(day)
	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()
	booked, err := s.appointments.BookedIntervals(lookupCtx, doctorID, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	now := s.now()
	var slots []Slot
	for _, w := range windows {
		slots = append(slots, CutSlots(SubtractBooked(w, booked), granularity, now)...)
	}
	if slots == nil {
		slots = []Slot{}
	}
	return slots, nil
}
