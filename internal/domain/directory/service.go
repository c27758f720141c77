package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNameRequired = errors.New("name is required")
)

type Service struct {
	clinics ClinicRepository
	doctors DoctorRepository
}

func NewService(clinics ClinicRepository, doctors DoctorRepository) *Service {
	return &Service{clinics: clinics, doctors: doctors}
}

func (s *Service) CreateClinic(ctx context.Context, c *Clinic) error {
	if c.Name == "" {
		return ErrNameRequired
	}
	c.Active = true
	return s.clinics.Create(ctx, c)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.clinics.GetByID(ctx, id)
}

func (s *Service) UpdateClinic(ctx context.Context, c *Clinic) error {
	if c.Name == "" {
		return ErrNameRequired
	}
	return s.clinics.Update(ctx, c)
}

func (s *Service) ListClinics(ctx context.Context, limit, offset int) ([]*Clinic, error) {
	return s.clinics.List(ctx, limit, offset)
}

func (s *Service) CreateDoctor(ctx context.Context, d *Doctor) error {
	if d.FirstName == "" || d.LastName == "" {
		return ErrNameRequired
	}
	d.Active = true
	return s.doctors.Create(ctx, d)
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) UpdateDoctor(ctx context.Context, d *Doctor) error {
	if d.FirstName == "" || d.LastName == "" {
		return ErrNameRequired
	}
	return s.doctors.Update(ctx, d)
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*Doctor, error) {
	return s.doctors.List(ctx, limit, offset)
}

func (s *Service) ListDoctorsByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Doctor, error) {
	return s.doctors.ListByClinic(ctx, clinicID, limit, offset)
}

// DeactivateClinic marks the clinic inactive. Rows are never removed;
// appointments keep their clinic reference.
func (s *Service) DeactivateClinic(ctx context.Context, id uuid.UUID) error {
	c, err := s.clinics.GetByID(ctx, id)
	if err != nil {
		return err
	}
	c.Active = false
	return s.clinics.Update(ctx, c)
}

// DeactivateDoctor takes the doctor out of rotation. Existing
// availability rows stay but aggregate queries skip inactive doctors.
func (s *Service) DeactivateDoctor(ctx context.Context, id uuid.UUID) error {
	d, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d.Active = false
	return s.doctors.Update(ctx, d)
}

func (s *Service) ActiveDoctorIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.doctors.ActiveIDs(ctx)
}
