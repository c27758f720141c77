package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPatientRequired  = errors.New("patient id is required")
	ErrDoctorRequired   = errors.New("doctor id is required")
	ErrInvalidTimeRange = errors.New("start time must be before end time")
	ErrInvalidStatus    = errors.New("invalid appointment status")
	ErrAlreadyCancelled = errors.New("appointment is already cancelled")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return ErrPatientRequired
	}
	if a.DoctorID == uuid.Nil {
		return ErrDoctorRequired
	}
	if !a.StartTime.Before(a.EndTime) {
		return ErrInvalidTimeRange
	}
	if a.Status == "" {
		a.Status = StatusBooked
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, a.Status)
	}
	return s.repo.Create(ctx, a)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, a *Appointment) error {
	current, err := s.repo.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	a.PatientID = current.PatientID
	a.DoctorID = current.DoctorID
	if !a.StartTime.Before(a.EndTime) {
		return ErrInvalidTimeRange
	}
	if a.Status == "" {
		a.Status = current.Status
	}
	if !validStatuses[a.Status] {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, a.Status)
	}
	return s.repo.Update(ctx, a)
}

// Cancel releases the appointment's interval. Subsequent slot queries
// treat it as free time again.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason *string) (*Appointment, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	a.Status = StatusCancelled
	a.CancellationReason = reason
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Delete removes the booking record entirely. Cancel is the normal path;
// delete exists for records created in error.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, error) {
	if patientID == uuid.Nil {
		return nil, ErrPatientRequired
	}
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, error) {
	if doctorID == uuid.Nil {
		return nil, ErrDoctorRequired
	}
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

// ActiveIntervals lists the occupied intervals for a doctor inside
// [from, to). Used by slot generation to subtract bookings from the
// published availability.
func (s *Service) ActiveIntervals(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*Appointment, error) {
	return s.repo.ListActiveByDoctorBetween(ctx, doctorID, from, to)
}
