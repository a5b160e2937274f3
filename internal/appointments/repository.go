package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when an appointment does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("appointments: not found")

type appointmentDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence for appointments and their line items.
type Repository struct {
	db appointmentDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("appointments: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db appointmentDB) *Repository {
	return &Repository{db: db}
}

// Create inserts an appointment row and returns its id.
func (r *Repository) Create(ctx context.Context, appt NewAppointment) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	_, err := r.db.Exec(ctx, `
		INSERT INTO appointments (id, user_id, vehicle_id, appointment_date, start_time, end_time, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)`,
		id, appt.UserID, appt.VehicleID, appt.Date, appt.StartTime, appt.EndTime, appt.TotalPrice, appt.Status, now)
	if err != nil {
		return "", fmt.Errorf("appointments: create: %w", err)
	}
	return id, nil
}

// InsertServiceItems inserts the line items of an appointment. Each item
// carries the catalog price captured at submission time.
func (r *Repository) InsertServiceItems(ctx context.Context, items []ServiceItem) error {
	for _, item := range items {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err := r.db.Exec(ctx, `
			INSERT INTO appointment_services (id, appointment_id, service_id, price)
			VALUES ($1, $2, $3, $4)`,
			id, item.AppointmentID, item.ServiceID, item.Price)
		if err != nil {
			return fmt.Errorf("appointments: insert service item: %w", err)
		}
	}
	return nil
}

const appointmentColumns = `
	a.id, a.user_id, a.vehicle_id, a.appointment_date, a.start_time, a.end_time,
	a.total_price, a.status, COALESCE(a.notes, ''), a.created_at, a.updated_at,
	v.make, v.model, v.year`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var date time.Time
	if err := row.Scan(&a.ID, &a.UserID, &a.VehicleID, &date, &a.StartTime, &a.EndTime,
		&a.TotalPrice, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		&a.VehicleMake, &a.VehicleModel, &a.VehicleYear); err != nil {
		return nil, err
	}
	a.Date = date.Format("2006-01-02")
	return &a, nil
}

// GetForUser returns an appointment scoped to its owner.
func (r *Repository) GetForUser(ctx context.Context, id, userID string) (*Appointment, error) {
	row := r.db.QueryRow(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments a JOIN vehicles v ON v.id = a.vehicle_id
		WHERE a.id = $1 AND a.user_id = $2`, id, userID)
	a, err := scanAppointment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("appointments: get for user: %w", err)
	}
	return a, nil
}

// ListByUser returns a user's appointments, most recent date first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Appointment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT`+appointmentColumns+`
		FROM appointments a JOIN vehicles v ON v.id = a.vehicle_id
		WHERE a.user_id = $1
		ORDER BY a.appointment_date DESC, a.start_time DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list by user: %w", err)
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// ListAll returns appointments across all users for the admin dashboard,
// optionally filtered by status.
func (r *Repository) ListAll(ctx context.Context, status string, limit, offset int) ([]Appointment, error) {
	query := `
		SELECT` + appointmentColumns + `
		FROM appointments a JOIN vehicles v ON v.id = a.vehicle_id`
	args := []any{}
	if status != "" {
		query += ` WHERE a.status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY a.appointment_date DESC, a.start_time DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list all: %w", err)
	}
	defer rows.Close()
	return collectAppointments(rows)
}

// UpdateStatus moves an appointment to a new status.
func (r *Repository) UpdateStatus(ctx context.Context, id, status string) error {
	if !IsValidStatus(status) {
		return fmt.Errorf("appointments: invalid status %q", status)
	}
	tag, err := r.db.Exec(ctx, `
		UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("appointments: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListItems returns the line items of an appointment.
func (r *Repository) ListItems(ctx context.Context, appointmentID string) ([]ServiceItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, appointment_id, service_id, price
		FROM appointment_services WHERE appointment_id = $1`, appointmentID)
	if err != nil {
		return nil, fmt.Errorf("appointments: list items: %w", err)
	}
	defer rows.Close()

	var out []ServiceItem
	for rows.Next() {
		var item ServiceItem
		if err := rows.Scan(&item.ID, &item.AppointmentID, &item.ServiceID, &item.Price); err != nil {
			return nil, fmt.Errorf("appointments: scan item: %w", err)
		}
		out = append(out, item)
	}
	if out == nil {
		out = []ServiceItem{}
	}
	return out, rows.Err()
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var out []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan: %w", err)
		}
		out = append(out, *a)
	}
	if out == nil {
		out = []Appointment{}
	}
	return out, rows.Err()
}
