package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses.
const (
	StatusBooked    = "booked"
	StatusArrived   = "arrived"
	StatusFulfilled = "fulfilled"
	StatusCancelled = "cancelled"
	StatusNoShow    = "noshow"
)

var validStatuses = map[string]bool{
	StatusBooked:    true,
	StatusArrived:   true,
	StatusFulfilled: true,
	StatusCancelled: true,
	StatusNoShow:    true,
}

type Appointment struct {
	ID                 uuid.UUID  `db:"id" json:"id"`
	PatientID          uuid.UUID  `db:"patient_id" json:"patient_id"`
	DoctorID           uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	ClinicID           *uuid.UUID `db:"clinic_id" json:"clinic_id,omitempty"`
	Status             string     `db:"status" json:"status"`
	StartTime          time.Time  `db:"start_time" json:"start_time"`
	EndTime            time.Time  `db:"end_time" json:"end_time"`
	Reason             *string    `db:"reason" json:"reason,omitempty"`
	Note               *string    `db:"note" json:"note,omitempty"`
	CancellationReason *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// Active reports whether the appointment still holds its time interval.
// Cancelled appointments release their interval; every other status
// keeps it.
func (a *Appointment) Active() bool {
	return a.Status != StatusCancelled
}

func (a *Appointment) Duration() time.Duration {
	return a.EndTime.Sub(a.StartTime)
}
