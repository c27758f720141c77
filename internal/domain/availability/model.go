package availability

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MinutesPerDay is the exclusive upper bound for an end minute. An end
// minute of 1440 means the window runs until midnight.
const MinutesPerDay = 24 * 60

// Availability maps to the availability table. It is a weekly recurring
// window: the doctor is free every occurrence of Weekday between
// StartMinute and EndMinute (minutes past midnight, end exclusive).
type Availability struct {
	ID          uuid.UUID    `db:"id" json:"id"`
	DoctorID    uuid.UUID    `db:"doctor_id" json:"doctor_id"`
	Weekday     time.Weekday `db:"weekday" json:"weekday"`
	StartMinute int          `db:"start_minute" json:"start_minute"`
	EndMinute   int          `db:"end_minute" json:"end_minute"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updated_at"`
}

// Duration returns the length of the window.
func (a *Availability) Duration() time.Duration {
	return time.Duration(a.EndMinute-a.StartMinute) * time.Minute
}

// Window is an availability template projected onto a calendar date,
// giving an absolute half-open interval [Start, End).
type Window struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// Duration returns the length of the window.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

// Contains reports whether t falls inside the window. The start is
// inclusive and the end exclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// BookedInterval is the time span held by an active appointment,
// half-open like windows and slots.
type BookedInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Slot is a single bookable unit offered to callers.
type Slot struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

// ParseClock converts a wall-clock string like "09:30" to minutes past
// midnight. "24:00" is accepted as the end-of-day boundary.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	if h < 0 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	total := h*60 + m
	if total > MinutesPerDay {
		return 0, fmt.Errorf("time %q is past end of day", s)
	}
	return total, nil
}

// FormatClock renders minutes past midnight as "HH:MM".
func FormatClock(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
