package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository loads the service catalog from Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a catalog repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// List returns all catalog services ordered by name.
func (r *Repository) List(ctx context.Context) ([]Service, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(category, ''), duration, price
		FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list services: %w", err)
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var s Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Category, &s.DurationMinutes, &s.Price); err != nil {
			return nil, fmt.Errorf("catalog: scan service: %w", err)
		}
		out = append(out, s)
	}
	if out == nil {
		out = []Service{}
	}
	return out, rows.Err()
}

// Get returns a single service, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id string) (*Service, error) {
	var s Service
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, COALESCE(description, ''), COALESCE(category, ''), duration, price
		FROM services WHERE id = $1`, id).Scan(
		&s.ID, &s.Name, &s.Description, &s.Category, &s.DurationMinutes, &s.Price)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: get service: %w", err)
	}
	return &s, nil
}
