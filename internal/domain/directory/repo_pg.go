package directory

import (
	"context"
	"errors"

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if q := db.QuerierFromContext(ctx); q != nil {
		return q
	}
	return pool
}

type clinicRepoPG struct{ pool *pgxpool.Pool }

func NewClinicRepoPG(pool *pgxpool.Pool) ClinicRepository { return &clinicRepoPG{pool: pool} }

const clinicCols = `id, name, address, phone, email, active, created_at, updated_at`

func scanClinic(row pgx.Row) (*Clinic, error) {
	var c Clinic
	err := row.Scan(&c.ID, &c.Name, &c.Address, &c.Phone, &c.Email, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClinicNotFound
	}
	return &c, err
}

func (r *clinicRepoPG) Create(ctx context.Context, c *Clinic) error {
	c.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO clinic (id, name, address, phone, email, active)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		c.ID, c.Name, c.Address, c.Phone, c.Email, c.Active)
	return err
}

func (r *clinicRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return scanClinic(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+clinicCols+` FROM clinic WHERE id = $1`, id))
}

func (r *clinicRepoPG) Update(ctx context.Context, c *Clinic) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE clinic SET name=$2, address=$3, phone=$4, email=$5, active=$6, updated_at=NOW()
		WHERE id = $1`,
		c.ID, c.Name, c.Address, c.Phone, c.Email, c.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClinicNotFound
	}
	return nil
}

func (r *clinicRepoPG) List(ctx context.Context, limit, offset int) ([]*Clinic, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+clinicCols+` FROM clinic ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Clinic
	for rows.Next() {
		c, err := scanClinic(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

type doctorRepoPG struct{ pool *pgxpool.Pool }

func NewDoctorRepoPG(pool *pgxpool.Pool) DoctorRepository { return &doctorRepoPG{pool: pool} }

const doctorCols = `id, clinic_id, first_name, last_name, specialty, email, phone, active, created_at, updated_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.ClinicID, &d.FirstName, &d.LastName, &d.Specialty, &d.Email, &d.Phone, &d.Active, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDoctorNotFound
	}
	return &d, err
}

func (r *doctorRepoPG) Create(ctx context.Context, d *Doctor) error {
	d.ID = uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO doctor (id, clinic_id, first_name, last_name, specialty, email, phone, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		d.ID, d.ClinicID, d.FirstName, d.LastName, d.Specialty, d.Email, d.Phone, d.Active)
	return err
}

func (r *doctorRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(conn(ctx, r.pool).QueryRow(ctx, `SELECT `+doctorCols+` FROM doctor WHERE id = $1`, id))
}

func (r *doctorRepoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := conn(ctx, r.pool).Exec(ctx, `
		UPDATE doctor SET clinic_id=$2, first_name=$3, last_name=$4, specialty=$5, email=$6, phone=$7, active=$8, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.ClinicID, d.FirstName, d.LastName, d.Specialty, d.Email, d.Phone, d.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDoctorNotFound
	}
	return nil
}

func (r *doctorRepoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+doctorCols+` FROM doctor ORDER BY last_name ASC, first_name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDoctors(rows)
}

func (r *doctorRepoPG) ListByClinic(ctx context.Context, clinicID uuid.UUID, limit, offset int) ([]*Doctor, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `
		SELECT `+doctorCols+` FROM doctor
		WHERE clinic_id = $1 ORDER BY last_name ASC, first_name ASC LIMIT $2 OFFSET $3`,
		clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDoctors(rows)
}

func (r *doctorRepoPG) ActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := conn(ctx, r.pool).Query(ctx, `SELECT id FROM doctor WHERE active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func collectDoctors(rows pgx.Rows) ([]*Doctor, error) {
	var items []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}
