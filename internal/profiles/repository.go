package profiles

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository stores profiles in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a profile repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const profileColumns = `id, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(phone, ''), role, created_at, updated_at`

// Get returns a profile, or nil when none exists for the user.
func (r *Repository) Get(ctx context.Context, userID string) (*Profile, error) {
	var p Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Phone, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("profiles: get profile: %w", err)
	}
	return &p, nil
}

// Upsert creates the profile on first write and updates the editable
// fields afterwards. The role is never changed here.
func (r *Repository) Upsert(ctx context.Context, userID, firstName, lastName, phone string) (*Profile, error) {
	var p Profile
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO profiles (id, first_name, last_name, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			phone = EXCLUDED.phone,
			updated_at = NOW()
		RETURNING `+profileColumns,
		userID, firstName, lastName, phone, RoleClient).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Phone, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("profiles: upsert profile: %w", err)
	}
	return &p, nil
}

// Role returns the stored role for a user, defaulting to client when the
// profile has not been created yet. Satisfies the role middleware lookup.
func (r *Repository) Role(ctx context.Context, userID string) (string, error) {
	var role string
	err := r.db.QueryRowContext(ctx,
		`SELECT role FROM profiles WHERE id = $1`, userID).Scan(&role)
	if err == sql.ErrNoRows {
		return RoleClient, nil
	}
	if err != nil {
		return "", fmt.Errorf("profiles: get role: %w", err)
	}
	return role, nil
}

// ListByRole returns profiles with the given role, most recently created
// first.
func (r *Repository) ListByRole(ctx context.Context, role string, limit, offset int) ([]Profile, error) {
	if !IsValidRole(role) {
		return nil, fmt.Errorf("profiles: invalid role %q", role)
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE role = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, role, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("profiles: list by role: %w", err)
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Phone, &p.Role, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("profiles: scan profile: %w", err)
		}
		out = append(out, p)
	}
	if out == nil {
		out = []Profile{}
	}
	return out, rows.Err()
}

// SetRole changes a profile's role. Admin-only operation.
func (r *Repository) SetRole(ctx context.Context, userID, role string) error {
	if !IsValidRole(role) {
		return fmt.Errorf("profiles: invalid role %q", role)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE profiles SET role = $2, updated_at = NOW() WHERE id = $1`, userID, role)
	if err != nil {
		return fmt.Errorf("profiles: set role: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("profiles: set role: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("profiles: profile %s not found", userID)
	}
	return nil
}
