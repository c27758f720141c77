package directory

import (
	"time"

	"github.com/google/uuid"
)

type Clinic struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Address   *string   `db:"address" json:"address,omitempty"`
	Phone     *string   `db:"phone" json:"phone,omitempty"`
	Email     *string   `db:"email" json:"email,omitempty"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Doctor struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	ClinicID  *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	FirstName string     `db:"first_name" json:"first_name"`
	LastName  string     `db:"last_name" json:"last_name"`
	Specialty *string    `db:"specialty" json:"specialty,omitempty"`
	Email     *string    `db:"email" json:"email,omitempty"`
	Phone     *string    `db:"phone" json:"phone,omitempty"`
	Active    bool       `db:"active" json:"active"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

func (d *Doctor) FullName() string {
	return d.FirstName + " " + d.LastName
}
