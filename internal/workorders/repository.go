package workorders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a work order does not exist or is not
// visible to the caller.
var ErrNotFound = errors.New("workorders: not found")

type workOrderDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence for work orders and their status history.
type Repository struct {
	db workOrderDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("workorders: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db workOrderDB) *Repository {
	return &Repository{db: db}
}

// newOrderNumber derives a short human-readable order number from the row id.
func newOrderNumber(id string) string {
	return "WO-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

const workOrderColumns = `id, order_number, appointment_id, COALESCE(mechanic_id, ''), status, COALESCE(total_cost, 0), started_at, completed_at, created_at, updated_at`

func scanWorkOrder(row pgx.Row) (*WorkOrder, error) {
	var w WorkOrder
	if err := row.Scan(&w.ID, &w.OrderNumber, &w.AppointmentID, &w.MechanicID,
		&w.Status, &w.TotalCost, &w.StartedAt, &w.CompletedAt, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// Create opens a work order for an appointment, copying the appointment
// total as the initial cost. The mechanic may be assigned later.
func (r *Repository) Create(ctx context.Context, appointmentID, mechanicID string) (*WorkOrder, error) {
	id := uuid.NewString()
	now := time.Now().UTC()
	w := WorkOrder{
		ID:            id,
		OrderNumber:   newOrderNumber(id),
		AppointmentID: appointmentID,
		MechanicID:    mechanicID,
		Status:        StatusCreated,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO work_orders (id, order_number, appointment_id, mechanic_id, status, total_cost, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5,
			(SELECT total_price FROM appointments WHERE id = $3), $6, $6)
		RETURNING COALESCE(total_cost, 0)`,
		w.ID, w.OrderNumber, w.AppointmentID, w.MechanicID, w.Status, now).Scan(&w.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("workorders: create: %w", err)
	}
	return &w, nil
}

// Get returns a work order by id.
func (r *Repository) Get(ctx context.Context, id string) (*WorkOrder, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+workOrderColumns+` FROM work_orders WHERE id = $1`, id)
	w, err := scanWorkOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("workorders: get: %w", err)
	}
	return w, nil
}

// GetForClient returns a work order only when the appointment behind it
// belongs to the given user.
func (r *Repository) GetForClient(ctx context.Context, id, userID string) (*WorkOrder, error) {
	row := r.db.QueryRow(ctx, `
		SELECT w.id, w.order_number, w.appointment_id, COALESCE(w.mechanic_id, ''), w.status,
			COALESCE(w.total_cost, 0), w.started_at, w.completed_at, w.created_at, w.updated_at
		FROM work_orders w JOIN appointments a ON a.id = w.appointment_id
		WHERE w.id = $1 AND a.user_id = $2`, id, userID)
	w, err := scanWorkOrder(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("workorders: get for client: %w", err)
	}
	return w, nil
}

// ListByMechanic returns a mechanic's open work orders, oldest first.
func (r *Repository) ListByMechanic(ctx context.Context, mechanicID string) ([]WorkOrder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+workOrderColumns+` FROM work_orders
		WHERE mechanic_id = $1 AND status <> $2
		ORDER BY created_at`, mechanicID, StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("workorders: list by mechanic: %w", err)
	}
	defer rows.Close()
	return collectWorkOrders(rows)
}

func collectWorkOrders(rows pgx.Rows) ([]WorkOrder, error) {
	var out []WorkOrder
	for rows.Next() {
		w, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("workorders: scan: %w", err)
		}
		out = append(out, *w)
	}
	if out == nil {
		out = []WorkOrder{}
	}
	return out, rows.Err()
}

// Assign puts a work order in a mechanic's queue.
func (r *Repository) Assign(ctx context.Context, id, mechanicID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE work_orders SET mechanic_id = $2, updated_at = $3 WHERE id = $1`,
		id, mechanicID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("workorders: assign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AddStatusUpdate appends a progress note and moves the work order to the
// new status. The two writes are not atomic; a failed status move leaves
// the note in the history.
func (r *Repository) AddStatusUpdate(ctx context.Context, workOrderID, status, comment, createdBy string) (*StatusUpdate, error) {
	if !IsValidStatus(status) {
		return nil, fmt.Errorf("workorders: invalid status %q", status)
	}
	u := StatusUpdate{
		ID:          uuid.NewString(),
		WorkOrderID: workOrderID,
		Status:      status,
		Comment:     comment,
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO order_status_updates (id, work_order_id, status, comment, created_by, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6)`,
		u.ID, u.WorkOrderID, u.Status, u.Comment, u.CreatedBy, u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("workorders: add status update: %w", err)
	}

	// The first move into in_progress stamps the start; reaching
	// completed stamps completion.
	tag, err := r.db.Exec(ctx, `
		UPDATE work_orders SET status = $2, updated_at = $3,
			started_at = CASE WHEN $2 = 'in_progress' THEN COALESCE(started_at, $3) ELSE started_at END,
			completed_at = CASE WHEN $2 = 'completed' THEN COALESCE(completed_at, $3) ELSE completed_at END
		WHERE id = $1`,
		workOrderID, status, u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("workorders: move status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return &u, nil
}

// ListAll returns work orders for the admin dashboard, newest first,
// optionally filtered by status.
func (r *Repository) ListAll(ctx context.Context, status string, limit, offset int) ([]WorkOrder, error) {
	query := `SELECT ` + workOrderColumns + ` FROM work_orders`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("workorders: list all: %w", err)
	}
	defer rows.Close()
	return collectWorkOrders(rows)
}

// ListStatusUpdates returns the status history of a work order, oldest first.
func (r *Repository) ListStatusUpdates(ctx context.Context, workOrderID string) ([]StatusUpdate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, work_order_id, status, COALESCE(comment, ''), created_by, created_at
		FROM order_status_updates WHERE work_order_id = $1 ORDER BY created_at`, workOrderID)
	if err != nil {
		return nil, fmt.Errorf("workorders: list status updates: %w", err)
	}
	defer rows.Close()

	var out []StatusUpdate
	for rows.Next() {
		var u StatusUpdate
		if err := rows.Scan(&u.ID, &u.WorkOrderID, &u.Status, &u.Comment, &u.CreatedBy, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("workorders: scan update: %w", err)
		}
		out = append(out, u)
	}
	if out == nil {
		out = []StatusUpdate{}
	}
	return out, rows.Err()
}
