package availability

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Availability) error
	GetByID(ctx context.Context, id uuid.UUID) (*Availability, error)
	Update(ctx context.Context, a *Availability) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Availability, error)
	ListByDoctorWeekday(ctx context.Context, doctorID uuid.UUID, wd time.Weekday) ([]*Availability, error)
	// WithDoctorLock serializes writes per doctor. fn runs with exclusive
	// ownership of the doctor's availability rows and its repository
	// calls join the same transaction.
	WithDoctorLock(ctx context.Context, doctorID uuid.UUID, fn func(ctx context.Context) error) error
}

// AppointmentLookup reports the intervals held by active appointments.
// Slot generation makes exactly one call per request and treats a
// failure as fatal rather than serving slots that may double-book.
type AppointmentLookup interface {
	BookedIntervals(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]BookedInterval, error)
}

// DoctorDirectory enumerates the doctors eligible for aggregate queries.
type DoctorDirectory interface {
	ActiveDoctorIDs(ctx context.Context) ([]uuid.UUID, error)
}
