package directory

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrClinicNotFound = errors.New("clinic not found")
	ErrDoctorNotFound = errors.New("doctor not found")
)

type ClinicRepository interface {
	Create(ctx context.Context, c *Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error)
	Update(ctx context.Context, c *Clinic) error
	List(ctx context.Context, limit, offset int) ([]*Clinic, error)
}

type DoctorRepository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Doctor, error)
	ActiveIDs(ctx context.Context) ([]uuid.UUID, error)
}
