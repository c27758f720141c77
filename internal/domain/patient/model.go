package patient

import (
	"time"

	"github.com/google/uuid"
)

type Patient struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	MRN         string     `db:"mrn" json:"mrn"`
	FirstName   string     `db:"first_name" json:"first_name"`
	LastName    string     `db:"last_name" json:"last_name"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      *string    `db:"gender" json:"gender,omitempty"`
	Phone       *string    `db:"phone" json:"phone,omitempty"`
	Email       *string    `db:"email" json:"email,omitempty"`
	Address     *string    `db:"address" json:"address,omitempty"`
	Active      bool       `db:"active" json:"active"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

func (p *Patient) FullName() string {
	return p.FirstName + " " + p.LastName
}
