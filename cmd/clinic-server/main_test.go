package main

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/clinichq/clinic-server/internal/domain/appointment"
	"github.com/clinichq/clinic-server/internal/domain/directory"
)

type stubApptRepo struct {
	active []*appointment.Appointment
}

func (r *stubApptRepo) Create(ctx context.Context, a *appointment.Appointment) error { return nil }
func (r *stubApptRepo) GetByID(ctx context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	return nil, appointment.ErrNotFound
}
func (r *stubApptRepo) Update(ctx context.Context, a *appointment.Appointment) error { return nil }
func (r *stubApptRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *stubApptRepo) List(ctx context.Context, limit, offset int) ([]*appointment.Appointment, error) {
	return nil, nil
}
func (r *stubApptRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*appointment.Appointment, error) {
	return nil, nil
}
func (r *stubApptRepo) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*appointment.Appointment, error) {
	return nil, nil
}
func (r *stubApptRepo) ListActiveByDoctorBetween(ctx context.Context, doctorID uuid.UUID, from, to time.Time) ([]*appointment.Appointment, error) {
	return r.active, nil
}

type stubClinicRepo struct{}

func (r *stubClinicRepo) Create(ctx context.Context, c *directory.Clinic) error { return nil }
func (r *stubClinicRepo) GetByID(ctx context.Context, id uuid.UUID) (*directory.Clinic, error) {
	return nil, directory.ErrClinicNotFound
}
func (r *stubClinicRepo) Update(ctx context.Context, c *directory.Clinic) error { return nil }
func (r *stubClinicRepo) List(ctx context.Context, limit, offset int) ([]*directory.Clinic, error) {
	return nil, nil
}

type stubDoctorRepo struct {
	ids []uuid.UUID
}

func (r *stubDoctorRepo) Create(ctx context.Context, d *directory.Doctor) error { return nil }
func (r *stubDoctorRepo) GetByID(ctx context.Context, id uuid.UUID) (*directory.Doctor, error) {
	return nil, directory.ErrDoctorNotFound
}
func (r *stubDoctorRepo) Update(ctx context.Context, d *directory.Doctor) error { return nil }
func (r *stubDoctorRepo) List(ctx context.Context, limit, offset int) ([]*directory.Doctor, error) {
	return nil, nil
}
func (r *stubDoctorRepo) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*directory.Doctor, error) {
	return nil, nil
}
func (r *stubDoctorRepo) ActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	return r.ids, nil
}

func TestBookedIntervalSource_ConvertsAppointments(t *testing.T) {
	start := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	repo := &stubApptRepo{
		active: []*appointment.Appointment{
			{StartTime: start, EndTime: start.Add(30 * time.Minute)},
			{StartTime: start.Add(time.Hour), EndTime: start.Add(90 * time.Minute)},
		},
	}
	src := &bookedIntervalSource{appts: appointment.NewService(repo)}

	intervals, err := src.BookedIntervals(context.Background(), uuid.New(), start, start.Add(8*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(intervals))
	}
	if !intervals[0].Start.Equal(start) || !intervals[0].End.Equal(start.Add(30*time.Minute)) {
		t.Errorf("unexpected first interval: %+v", intervals[0])
	}
	if !intervals[1].Start.Equal(start.Add(time.Hour)) {
		t.Errorf("unexpected second interval start: %v", intervals[1].Start)
	}
}

func TestBookedIntervalSource_Empty(t *testing.T) {
	src := &bookedIntervalSource{appts: appointment.NewService(&stubApptRepo{})}

	intervals, err := src.BookedIntervals(context.Background(), uuid.New(), time.Now(), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if intervals == nil {
		t.Fatal("expected non-nil slice")
	}
	if len(intervals) != 0 {
		t.Errorf("expected no intervals, got %d", len(intervals))
	}
}

func TestDoctorEnumerator_ActiveDoctorIDs(t *testing.T) {
	ids := []uuid.UUID{uuid.New(), uuid.New()}
	svc := directory.NewService(&stubClinicRepo{}, &stubDoctorRepo{ids: ids})
	enum := &doctorEnumerator{dir: svc}

	got, err := enum.ActiveDoctorIDs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ids, got %d", len(got))
	}
	if got[0] != ids[0] || got[1] != ids[1] {
		t.Error("ids do not match")
	}
}
