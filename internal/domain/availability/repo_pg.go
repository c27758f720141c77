package availability

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinichq/clinic-server/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return r.pool
}

const availCols = `id, doctor_id, weekday, start_minute, end_minute, created_at, updated_at`

func (r *repoPG) scanAvailability(row pgx.Row) (*Availability, error) {
	var a Availability
	err := row.Scan(&a.ID, &a.DoctorID, &a.Weekday, &a.StartMinute, &a.EndMinute, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Create(ctx context.Context, a *Availability) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO availability (id, doctor_id, weekday, start_minute, end_minute)
		VALUES ($1,$2,$3,$4,$5)`,
		a.ID, a.DoctorID, a.Weekday, a.StartMinute, a.EndMinute)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Availability, error) {
	return r.scanAvailability(r.conn(ctx).QueryRow(ctx, `SELECT `+availCols+` FROM availability WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Availability) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE availability SET weekday=$2, start_minute=$3, end_minute=$4, updated_at=NOW()
		WHERE id = $1`,
		a.ID, a.Weekday, a.StartMinute, a.EndMinute)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM availability WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*Availability, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+availCols+` FROM availability
		WHERE doctor_id = $1 ORDER BY weekday ASC, start_minute ASC`, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) ListByDoctorWeekday(ctx context.Context, doctorID uuid.UUID, wd time.Weekday) ([]*Availability, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+availCols+` FROM availability
		WHERE doctor_id = $1 AND weekday = $2 ORDER BY start_minute ASC`, doctorID, wd)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *repoPG) collect(rows pgx.Rows) ([]*Availability, error) {
	var items []*Availability
	for rows.Next() {
		a, err := r.scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

func (r *repoPG) WithDoctorLock(ctx context.Context, doctorID uuid.UUID, fn func(ctx context.Context) error) error {
	return db.WithAdvisoryLock(ctx, r.pool, doctorID, fn)
}
