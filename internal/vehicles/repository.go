package vehicles

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

type vehicleDB interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Repository provides persistence for vehicles.
type Repository struct {
	db vehicleDB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	if pool == nil {
		panic("vehicles: pgx pool required")
	}
	return &Repository{db: pool}
}

// NewRepositoryWithDB allows injecting a mock database for testing.
func NewRepositoryWithDB(db vehicleDB) *Repository {
	return &Repository{db: db}
}

// Find returns the id of an existing vehicle matching the user and car
// attributes, or an empty string when none exists. There is no uniqueness
// constraint on these attributes; concurrent submissions may still create
// near-identical rows.
func (r *Repository) Find(ctx context.Context, userID, make, model string, year int) (string, error) {
	var id string
	err := r.db.QueryRow(ctx, `
		SELECT id FROM vehicles
		WHERE user_id = $1 AND make = $2 AND model = $3 AND year = $4
		LIMIT 1`, userID, make, model, year).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("vehicles: find: %w", err)
	}
	return id, nil
}

// Create inserts a vehicle and returns its id. An empty VIN is stored as NULL.
func (r *Repository) Create(ctx context.Context, userID, make, model string, year int, vin string) (string, error) {
	id := uuid.NewString()
	_, err := r.db.Exec(ctx, `
		INSERT INTO vehicles (id, user_id, make, model, year, vin, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7)`,
		id, userID, make, model, year, vin, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("vehicles: create: %w", err)
	}
	return id, nil
}

// ListByUser returns all vehicles registered by a user, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID string) ([]Vehicle, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, make, model, year, COALESCE(vin, ''), COALESCE(license_plate, ''), created_at
		FROM vehicles WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("vehicles: list by user: %w", err)
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.UserID, &v.Make, &v.Model, &v.Year, &v.VIN, &v.LicensePlate, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("vehicles: scan: %w", err)
		}
		out = append(out, v)
	}
	if out == nil {
		out = []Vehicle{}
	}
	return out, rows.Err()
}
