package availability

import "errors"

var (
	ErrDoctorRequired      = errors.New("doctor_id is required")
	ErrInvalidWeekday      = errors.New("weekday must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTimeRange    = errors.New("start must be before end and within the day")
	ErrOverlap             = errors.New("window overlaps an existing availability for this doctor")
	ErrNotFound            = errors.New("availability not found")
	ErrInvalidGranularity  = errors.New("granularity must be positive")
	ErrUpstreamUnavailable = errors.New("appointment lookup unavailable")
)
